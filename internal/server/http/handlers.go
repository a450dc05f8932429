package httpserver

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gofrs/uuid/v5"
	"go.uber.org/zap"

	"github.com/canela-app/canela/internal/model"
	"github.com/canela-app/canela/internal/service"
)

// TaskGenerator produces candidate task descriptions via an external model.
type TaskGenerator interface {
	Generate(ctx context.Context) ([]string, error)
}

// Handlers owns the API endpoints backed by the service layer.
type Handlers struct {
	tasks   service.TaskService
	store   service.StoreService
	profile service.ProfileService
	gen     TaskGenerator // nil disables the generate endpoint
	log     *zap.Logger
}

// NewHandlers constructs the API handlers.
func NewHandlers(tasks service.TaskService, store service.StoreService, profile service.ProfileService, gen TaskGenerator, log *zap.Logger) *Handlers {
	return &Handlers{tasks: tasks, store: store, profile: profile, gen: gen, log: log}
}

// Register attaches all API routes to the mux.
func (h *Handlers) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/v1/tasks/today", h.handleTasksToday)
	mux.HandleFunc("POST /api/v1/tasks/{setID}/complete", h.handleCompleteTask)
	mux.HandleFunc("POST /api/v1/tasks/generate", h.handleGenerateTasks)
	mux.HandleFunc("GET /api/v1/store/costumes", h.handleCatalog)
	mux.HandleFunc("GET /api/v1/store/inventory", h.handleInventory)
	mux.HandleFunc("POST /api/v1/store/purchase", h.handlePurchase)
	mux.HandleFunc("POST /api/v1/inventory/{id}/equip", h.handleEquip)
	mux.HandleFunc("POST /api/v1/inventory/{id}/unequip", h.handleUnequip)
	mux.HandleFunc("GET /api/v1/profile", h.handleGetProfile)
	mux.HandleFunc("PATCH /api/v1/profile", h.handlePatchProfile)
	mux.HandleFunc("POST /api/v1/profile/coins", h.handleBuyCoins)
}

type userDTO struct {
	ID             string  `json:"id"`
	Alias          *string `json:"alias"`
	Coins          int     `json:"coins"`
	Streak         int     `json:"streak"`
	LastActiveDate *string `json:"last_active_date"`
	AvatarGender   string  `json:"avatar_gender"`
}

func toUserDTO(u *model.User) userDTO {
	return userDTO{
		ID:             u.ID.String(),
		Alias:          u.Alias,
		Coins:          u.Coins,
		Streak:         u.Streak,
		LastActiveDate: u.LastActiveDate,
		AvatarGender:   u.AvatarGender,
	}
}

type taskSetDTO struct {
	ID               string               `json:"id"`
	Date             string               `json:"date"`
	Tasks            []model.TaskSnapshot `json:"tasks"`
	CompletedIndexes []int                `json:"completed_indexes"`
	Completed        bool                 `json:"completed"`
}

func toTaskSetDTO(s *model.DailyTaskSet) taskSetDTO {
	indexes := s.CompletedIndexes
	if indexes == nil {
		indexes = []int{}
	}
	return taskSetDTO{
		ID:               s.ID.String(),
		Date:             s.Date,
		Tasks:            s.Tasks,
		CompletedIndexes: indexes,
		Completed:        s.Completed,
	}
}

type inventoryItemDTO struct {
	ID        string `json:"id"`
	CostumeID string `json:"costume_id"`
	Name      string `json:"name"`
	Category  string `json:"category"`
	Image     string `json:"image"`
	Price     int    `json:"price"`
	Equipped  bool   `json:"equipped"`
}

func toInventoryDTO(items []model.InventoryItem) []inventoryItemDTO {
	out := make([]inventoryItemDTO, 0, len(items))
	for _, it := range items {
		out = append(out, inventoryItemDTO{
			ID:        it.Owned.ID.String(),
			CostumeID: it.Definition.ID.String(),
			Name:      it.Definition.Name,
			Category:  string(it.Definition.Category),
			Image:     it.Definition.Image,
			Price:     it.Definition.Price,
			Equipped:  it.Owned.Equipped,
		})
	}
	return out
}

func (h *Handlers) handleTasksToday(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromCtx(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "no session")
		return
	}
	if _, err := h.profile.Ensure(r.Context(), userID); err != nil {
		h.log.Error("ensure user", zap.Error(err))
		writeServiceError(w, err)
		return
	}
	set, err := h.tasks.LoadDaily(r.Context(), userID)
	if err != nil {
		// The client shows an empty list and can retry by reloading.
		h.log.Warn("load daily tasks", zap.String("user", userID.String()), zap.Error(err))
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, "ok", toTaskSetDTO(set))
}

func (h *Handlers) handleCompleteTask(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromCtx(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "no session")
		return
	}
	setID, err := uuid.FromString(r.PathValue("setID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid task set id")
		return
	}
	var req struct {
		Index int `json:"index"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	if req.Index < 0 || req.Index > 2 {
		writeError(w, http.StatusBadRequest, "index out of range")
		return
	}

	res, err := h.tasks.CompleteTask(r.Context(), userID, setID, req.Index)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, "ok", map[string]any{
		"set":             toTaskSetDTO(res.Set),
		"coins":           res.Coins,
		"streak":          res.Streak,
		"streak_advanced": res.StreakAdvanced,
	})
}

func (h *Handlers) handleGenerateTasks(w http.ResponseWriter, r *http.Request) {
	if h.gen == nil {
		writeError(w, http.StatusNotFound, "task generation not configured")
		return
	}
	tasks, err := h.gen.Generate(r.Context())
	if err != nil {
		h.log.Error("generate tasks", zap.Error(err))
		writeError(w, http.StatusBadGateway, "failed to generate tasks")
		return
	}
	writeJSON(w, http.StatusOK, "ok", map[string]any{"tasks": tasks})
}

func (h *Handlers) handleCatalog(w http.ResponseWriter, r *http.Request) {
	defs, err := h.store.Catalog(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	out := make([]map[string]any, 0, len(defs))
	for _, d := range defs {
		out = append(out, map[string]any{
			"id":       d.ID.String(),
			"name":     d.Name,
			"category": string(d.Category),
			"image":    d.Image,
			"price":    d.Price,
		})
	}
	writeJSON(w, http.StatusOK, "ok", out)
}

func (h *Handlers) handleInventory(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromCtx(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "no session")
		return
	}
	items, err := h.store.Inventory(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, "ok", toInventoryDTO(items))
}

func (h *Handlers) handlePurchase(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromCtx(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "no session")
		return
	}
	var req struct {
		CostumeID string `json:"costume_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	costumeID, err := uuid.FromString(req.CostumeID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid costume id")
		return
	}

	u, err := h.store.Purchase(r.Context(), userID, costumeID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, "purchase complete", toUserDTO(u))
}

func (h *Handlers) handleEquip(w http.ResponseWriter, r *http.Request) {
	h.equipToggle(w, r, true)
}

func (h *Handlers) handleUnequip(w http.ResponseWriter, r *http.Request) {
	h.equipToggle(w, r, false)
}

func (h *Handlers) equipToggle(w http.ResponseWriter, r *http.Request, equip bool) {
	userID, ok := UserIDFromCtx(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "no session")
		return
	}
	ownedID, err := uuid.FromString(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	var items []model.InventoryItem
	if equip {
		items, err = h.store.Equip(r.Context(), userID, ownedID)
	} else {
		items, err = h.store.Unequip(r.Context(), userID, ownedID)
	}
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, "ok", toInventoryDTO(items))
}

func (h *Handlers) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromCtx(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "no session")
		return
	}
	u, err := h.profile.Ensure(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, "ok", toUserDTO(u))
}

func (h *Handlers) handlePatchProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromCtx(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "no session")
		return
	}
	var req struct {
		Alias        *string `json:"alias"`
		AvatarGender *string `json:"avatar_gender"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	if req.Alias == nil && req.AvatarGender == nil {
		writeError(w, http.StatusBadRequest, "nothing to update")
		return
	}
	if req.Alias != nil && strings.TrimSpace(*req.Alias) == "" {
		writeError(w, http.StatusBadRequest, "alias must not be empty")
		return
	}
	if req.AvatarGender != nil && strings.TrimSpace(*req.AvatarGender) == "" {
		writeError(w, http.StatusBadRequest, "avatar gender must not be empty")
		return
	}

	var (
		u   *model.User
		err error
	)
	if req.Alias != nil {
		if u, err = h.profile.SetAlias(r.Context(), userID, *req.Alias); err != nil {
			writeServiceError(w, err)
			return
		}
	}
	if req.AvatarGender != nil {
		if u, err = h.profile.SetAvatarGender(r.Context(), userID, *req.AvatarGender); err != nil {
			writeServiceError(w, err)
			return
		}
	}
	writeJSON(w, http.StatusOK, "profile updated", toUserDTO(u))
}

func (h *Handlers) handleBuyCoins(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromCtx(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "no session")
		return
	}
	var req struct {
		Pack int `json:"pack"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	valid := false
	for _, p := range service.CoinPacks {
		if p == req.Pack {
			valid = true
			break
		}
	}
	if !valid {
		writeError(w, http.StatusBadRequest, "unknown coin pack")
		return
	}

	u, err := h.profile.GrantCoins(r.Context(), userID, req.Pack)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, "coins added", toUserDTO(u))
}
