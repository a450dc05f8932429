package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/canela-app/canela/internal/errs"
	"github.com/canela-app/canela/internal/model"
	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/require"
)

func newDB(t *testing.T) (*DB, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	return &DB{Pool: mock}, mock
}

func TestUserRepo_Create_OK_and_UniqueViolation(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewUserRepo(db)
	ctx := context.Background()
	u := &model.User{ID: uuid.Must(uuid.NewV4())}

	// OK
	mock.ExpectExec(`INSERT INTO users \(id, alias, coins, streak, last_active_date, avatar_gender\) VALUES \(\$1, \$2, \$3, \$4, \$5, \$6\)`).
		WithArgs(u.ID, u.Alias, u.Coins, u.Streak, u.LastActiveDate, u.AvatarGender).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	require.NoError(t, r.Create(ctx, u))

	// Unique violation
	mock.ExpectExec(`INSERT INTO users \(id, alias, coins, streak, last_active_date, avatar_gender\) VALUES \(\$1, \$2, \$3, \$4, \$5, \$6\)`).
		WithArgs(u.ID, u.Alias, u.Coins, u.Streak, u.LastActiveDate, u.AvatarGender).
		WillReturnError(&pgconn.PgError{Code: "23505"})
	err := r.Create(ctx, u)
	require.ErrorIs(t, err, errs.ErrAlreadyExists)
}

func TestUserRepo_GetByID(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewUserRepo(db)
	ctx := context.Background()
	id := uuid.Must(uuid.NewV4())
	alias := "canela_fan"
	date := "2026-08-31"

	mock.ExpectQuery(`SELECT id, alias, coins, streak, last_active_date, avatar_gender, created_at FROM users WHERE id=\$1`).
		WithArgs(id).
		WillReturnRows(pgxmock.NewRows([]string{"id", "alias", "coins", "streak", "last_active_date", "avatar_gender", "created_at"}).
			AddRow(id, &alias, 42, 3, &date, "female", time.Now()))
	u, err := r.GetByID(ctx, id)
	require.NoError(t, err)
	require.Equal(t, id, u.ID)
	require.Equal(t, "canela_fan", *u.Alias)
	require.Equal(t, 42, u.Coins)
	require.Equal(t, 3, u.Streak)

	mock.ExpectQuery(`SELECT id, alias, coins, streak, last_active_date, avatar_gender, created_at FROM users WHERE id=\$1`).
		WithArgs(id).
		WillReturnError(pgx.ErrNoRows)
	_, err = r.GetByID(ctx, id)
	require.ErrorIs(t, err, errs.ErrNotFound)
}

func TestUserRepo_UpdateAlias(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewUserRepo(db)
	ctx := context.Background()
	id := uuid.Must(uuid.NewV4())

	mock.ExpectExec(`UPDATE users SET alias=\$2 WHERE id=\$1`).
		WithArgs(id, "ada").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	require.NoError(t, r.UpdateAlias(ctx, id, "ada"))

	// Alias already taken by another user
	mock.ExpectExec(`UPDATE users SET alias=\$2 WHERE id=\$1`).
		WithArgs(id, "ada").
		WillReturnError(&pgconn.PgError{Code: "23505"})
	require.ErrorIs(t, r.UpdateAlias(ctx, id, "ada"), errs.ErrAliasTaken)

	// Unknown user
	mock.ExpectExec(`UPDATE users SET alias=\$2 WHERE id=\$1`).
		WithArgs(id, "ada").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	require.ErrorIs(t, r.UpdateAlias(ctx, id, "ada"), errs.ErrNotFound)
}

func TestUserRepo_CounterUpdates(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewUserRepo(db)
	ctx := context.Background()
	id := uuid.Must(uuid.NewV4())

	mock.ExpectExec(`UPDATE users SET coins=\$2 WHERE id=\$1`).
		WithArgs(id, 55).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	require.NoError(t, r.UpdateCoins(ctx, id, 55))

	mock.ExpectExec(`UPDATE users SET streak=\$2 WHERE id=\$1`).
		WithArgs(id, 4).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	require.NoError(t, r.UpdateStreak(ctx, id, 4))

	mock.ExpectExec(`UPDATE users SET last_active_date=\$2 WHERE id=\$1`).
		WithArgs(id, "2026-09-01").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	require.NoError(t, r.UpdateLastActiveDate(ctx, id, "2026-09-01"))

	mock.ExpectExec(`UPDATE users SET avatar_gender=\$2 WHERE id=\$1`).
		WithArgs(id, "male").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	require.NoError(t, r.UpdateAvatarGender(ctx, id, "male"))
}
