package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/canela-app/canela/internal/config"
	"github.com/canela-app/canela/internal/errs"
	"github.com/canela-app/canela/internal/model"
	"github.com/canela-app/canela/internal/service"
)

const testSecret = "test-session-secret"

type fakeTaskService struct {
	set     *model.DailyTaskSet
	loadErr error

	completion  *service.CompletionResult
	completeErr error
}

var _ service.TaskService = (*fakeTaskService)(nil)

func (f *fakeTaskService) LoadDaily(_ context.Context, _ uuid.UUID) (*model.DailyTaskSet, error) {
	return f.set, f.loadErr
}

func (f *fakeTaskService) CompleteTask(_ context.Context, _, _ uuid.UUID, _ int) (*service.CompletionResult, error) {
	return f.completion, f.completeErr
}

type fakeStoreService struct {
	defs        []model.CostumeDefinition
	items       []model.InventoryItem
	user        *model.User
	purchaseErr error
	equipErr    error
}

var _ service.StoreService = (*fakeStoreService)(nil)

func (f *fakeStoreService) Catalog(_ context.Context) ([]model.CostumeDefinition, error) {
	return f.defs, nil
}
func (f *fakeStoreService) Inventory(_ context.Context, _ uuid.UUID) ([]model.InventoryItem, error) {
	return f.items, nil
}
func (f *fakeStoreService) Purchase(_ context.Context, _, _ uuid.UUID) (*model.User, error) {
	return f.user, f.purchaseErr
}
func (f *fakeStoreService) Equip(_ context.Context, _, _ uuid.UUID) ([]model.InventoryItem, error) {
	return f.items, f.equipErr
}
func (f *fakeStoreService) Unequip(_ context.Context, _, _ uuid.UUID) ([]model.InventoryItem, error) {
	return f.items, f.equipErr
}

type fakeProfileService struct {
	user     *model.User
	aliasErr error
}

var _ service.ProfileService = (*fakeProfileService)(nil)

func (f *fakeProfileService) Ensure(_ context.Context, _ uuid.UUID) (*model.User, error) {
	return f.user, nil
}
func (f *fakeProfileService) Get(_ context.Context, _ uuid.UUID) (*model.User, error) {
	return f.user, nil
}
func (f *fakeProfileService) SetAlias(_ context.Context, _ uuid.UUID, _ string) (*model.User, error) {
	return f.user, f.aliasErr
}
func (f *fakeProfileService) SetAvatarGender(_ context.Context, _ uuid.UUID, _ string) (*model.User, error) {
	return f.user, nil
}
func (f *fakeProfileService) GrantCoins(_ context.Context, _ uuid.UUID, _ int) (*model.User, error) {
	return f.user, nil
}

func testUser(id uuid.UUID) *model.User {
	return &model.User{ID: id, Coins: 10, Streak: 2}
}

func testSet(userID uuid.UUID) *model.DailyTaskSet {
	return &model.DailyTaskSet{
		ID:     uuid.Must(uuid.NewV4()),
		UserID: userID,
		Date:   "2026-09-01",
		Tasks: []model.TaskSnapshot{
			{Description: "Go for a 30-minute walk", Category: model.CategoryPhysical, Coins: 5},
			{Description: "Read 10 pages of a book", Category: model.CategoryMental, Coins: 10},
			{Description: "Call a friend", Category: model.CategorySocial, Coins: 15},
		},
		CompletedIndexes: []int{},
	}
}

func newTestServer(t *testing.T, tasks service.TaskService, store service.StoreService, profile service.ProfileService) *httptest.Server {
	t.Helper()
	cfg := config.Config{
		Port:          "0",
		SessionSecret: testSecret,
		CORSOrigins:   []string{"*"},
	}
	h := NewHandlers(tasks, store, profile, nil, zap.NewNop())
	srv := New(cfg, h, zap.NewNop())
	ts := httptest.NewServer(srv.inner.Handler)
	t.Cleanup(ts.Close)
	return ts
}

func sessionToken(t *testing.T, userID uuid.UUID) string {
	t.Helper()
	claims := jwt.RegisteredClaims{
		Subject:   userID.String(),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return tok
}

func doRequest(t *testing.T, ts *httptest.Server, method, path, token string, body any) (*http.Response, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, ts.URL+path, &buf)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := ts.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp, env
}

func TestHealthz_NoAuthRequired(t *testing.T) {
	userID := uuid.Must(uuid.NewV4())
	ts := newTestServer(t, &fakeTaskService{}, &fakeStoreService{}, &fakeProfileService{user: testUser(userID)})

	resp, _ := doRequest(t, ts, http.MethodGet, "/healthz", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAuth_RejectsMissingAndBadTokens(t *testing.T) {
	userID := uuid.Must(uuid.NewV4())
	ts := newTestServer(t, &fakeTaskService{}, &fakeStoreService{}, &fakeProfileService{user: testUser(userID)})

	resp, _ := doRequest(t, ts, http.MethodGet, "/api/v1/profile", "", nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = doRequest(t, ts, http.MethodGet, "/api/v1/profile", "not-a-jwt", nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// Token signed with a different key
	bad, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   userID.String(),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte("other-secret"))
	require.NoError(t, err)
	resp, _ = doRequest(t, ts, http.MethodGet, "/api/v1/profile", bad, nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestTasksToday(t *testing.T) {
	userID := uuid.Must(uuid.NewV4())
	set := testSet(userID)
	ts := newTestServer(t,
		&fakeTaskService{set: set},
		&fakeStoreService{},
		&fakeProfileService{user: testUser(userID)},
	)

	resp, env := doRequest(t, ts, http.MethodGet, "/api/v1/tasks/today", sessionToken(t, userID), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	data, err := json.Marshal(env.Data)
	require.NoError(t, err)
	var got taskSetDTO
	require.NoError(t, json.Unmarshal(data, &got))
	require.Equal(t, set.ID.String(), got.ID)
	require.Len(t, got.Tasks, 3)
	require.Empty(t, got.CompletedIndexes)
}

func TestTasksToday_DataUnavailable(t *testing.T) {
	userID := uuid.Must(uuid.NewV4())
	ts := newTestServer(t,
		&fakeTaskService{loadErr: fmt.Errorf("category Social: %w", errs.ErrDataUnavailable)},
		&fakeStoreService{},
		&fakeProfileService{user: testUser(userID)},
	)

	resp, _ := doRequest(t, ts, http.MethodGet, "/api/v1/tasks/today", sessionToken(t, userID), nil)
	require.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestCompleteTask_Validation(t *testing.T) {
	userID := uuid.Must(uuid.NewV4())
	set := testSet(userID)
	ts := newTestServer(t,
		&fakeTaskService{completion: &service.CompletionResult{Set: set, Coins: 5}},
		&fakeStoreService{},
		&fakeProfileService{user: testUser(userID)},
	)
	token := sessionToken(t, userID)

	resp, _ := doRequest(t, ts, http.MethodPost, "/api/v1/tasks/not-a-uuid/complete", token, map[string]int{"index": 0})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = doRequest(t, ts, http.MethodPost, "/api/v1/tasks/"+set.ID.String()+"/complete", token, map[string]int{"index": 5})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = doRequest(t, ts, http.MethodPost, "/api/v1/tasks/"+set.ID.String()+"/complete", token, map[string]int{"index": 2})
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestPurchase_ErrorMapping(t *testing.T) {
	userID := uuid.Must(uuid.NewV4())
	costumeID := uuid.Must(uuid.NewV4())
	token := sessionToken(t, userID)
	body := map[string]string{"costume_id": costumeID.String()}

	cases := []struct {
		err  error
		code int
	}{
		{errs.ErrAlreadyOwned, http.StatusConflict},
		{errs.ErrInsufficientFunds, http.StatusPaymentRequired},
		{errs.ErrNotFound, http.StatusNotFound},
		{errs.ErrPurchaseFailed, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		ts := newTestServer(t,
			&fakeTaskService{},
			&fakeStoreService{purchaseErr: tc.err},
			&fakeProfileService{user: testUser(userID)},
		)
		resp, _ := doRequest(t, ts, http.MethodPost, "/api/v1/store/purchase", token, body)
		require.Equal(t, tc.code, resp.StatusCode, "error %v", tc.err)
	}
}

func TestPurchase_OK(t *testing.T) {
	userID := uuid.Must(uuid.NewV4())
	u := testUser(userID)
	u.Coins = 5
	ts := newTestServer(t,
		&fakeTaskService{},
		&fakeStoreService{user: u},
		&fakeProfileService{user: u},
	)

	resp, env := doRequest(t, ts, http.MethodPost, "/api/v1/store/purchase",
		sessionToken(t, userID), map[string]string{"costume_id": uuid.Must(uuid.NewV4()).String()})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	data, err := json.Marshal(env.Data)
	require.NoError(t, err)
	var got userDTO
	require.NoError(t, json.Unmarshal(data, &got))
	require.Equal(t, 5, got.Coins)
}

func TestPatchProfile(t *testing.T) {
	userID := uuid.Must(uuid.NewV4())
	token := sessionToken(t, userID)

	ts := newTestServer(t, &fakeTaskService{}, &fakeStoreService{},
		&fakeProfileService{user: testUser(userID), aliasErr: errs.ErrAliasTaken})

	resp, _ := doRequest(t, ts, http.MethodPatch, "/api/v1/profile", token, map[string]string{"alias": "canela"})
	require.Equal(t, http.StatusConflict, resp.StatusCode)

	resp, _ = doRequest(t, ts, http.MethodPatch, "/api/v1/profile", token, map[string]string{"alias": "  "})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = doRequest(t, ts, http.MethodPatch, "/api/v1/profile", token, map[string]string{})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	ts = newTestServer(t, &fakeTaskService{}, &fakeStoreService{},
		&fakeProfileService{user: testUser(userID)})
	resp, _ = doRequest(t, ts, http.MethodPatch, "/api/v1/profile", token, map[string]string{"avatar_gender": "female"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestBuyCoins(t *testing.T) {
	userID := uuid.Must(uuid.NewV4())
	token := sessionToken(t, userID)
	ts := newTestServer(t, &fakeTaskService{}, &fakeStoreService{},
		&fakeProfileService{user: testUser(userID)})

	resp, _ := doRequest(t, ts, http.MethodPost, "/api/v1/profile/coins", token, map[string]int{"pack": 33})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = doRequest(t, ts, http.MethodPost, "/api/v1/profile/coins", token, map[string]int{"pack": 100})
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestGenerate_NotConfigured(t *testing.T) {
	userID := uuid.Must(uuid.NewV4())
	ts := newTestServer(t, &fakeTaskService{}, &fakeStoreService{},
		&fakeProfileService{user: testUser(userID)})

	resp, _ := doRequest(t, ts, http.MethodPost, "/api/v1/tasks/generate", sessionToken(t, userID), nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestEquipRoutes(t *testing.T) {
	userID := uuid.Must(uuid.NewV4())
	ownedID := uuid.Must(uuid.NewV4())
	token := sessionToken(t, userID)
	ts := newTestServer(t, &fakeTaskService{},
		&fakeStoreService{items: []model.InventoryItem{}},
		&fakeProfileService{user: testUser(userID)})

	resp, _ := doRequest(t, ts, http.MethodPost, "/api/v1/inventory/"+ownedID.String()+"/equip", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = doRequest(t, ts, http.MethodPost, "/api/v1/inventory/"+ownedID.String()+"/unequip", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = doRequest(t, ts, http.MethodPost, "/api/v1/inventory/nope/equip", token, nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
