package postgres

import (
	"context"
	"errors"

	"github.com/canela-app/canela/internal/errs"
	"github.com/canela-app/canela/internal/model"
	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5"
)

// UserRepo implements UserRepository using PostgreSQL.
type UserRepo struct{ db *DB }

// NewUserRepo constructs a user repository.
func NewUserRepo(db *DB) *UserRepo { return &UserRepo{db: db} }

// Create inserts a new user row.
func (r *UserRepo) Create(ctx context.Context, u *model.User) error {
	const q = `
INSERT INTO users (id, alias, coins, streak, last_active_date, avatar_gender)
VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.db.Pool.Exec(ctx, q, u.ID, u.Alias, u.Coins, u.Streak, u.LastActiveDate, u.AvatarGender)
	if isUniqueViolation(err) {
		return errs.ErrAlreadyExists
	}
	return err
}

// GetByID selects a user by ID.
func (r *UserRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	const q = `
SELECT id, alias, coins, streak, last_active_date, avatar_gender, created_at
FROM users WHERE id=$1`
	row := r.db.Pool.QueryRow(ctx, q, id)
	var u model.User
	if err := row.Scan(&u.ID, &u.Alias, &u.Coins, &u.Streak, &u.LastActiveDate, &u.AvatarGender, &u.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// UpdateAlias sets the alias, mapping the unique constraint to ErrAliasTaken.
func (r *UserRepo) UpdateAlias(ctx context.Context, id uuid.UUID, alias string) error {
	const q = `UPDATE users SET alias=$2 WHERE id=$1`
	tag, err := r.db.Pool.Exec(ctx, q, id, alias)
	if isUniqueViolation(err) {
		return errs.ErrAliasTaken
	}
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// UpdateAvatarGender stores the avatar gender selection.
func (r *UserRepo) UpdateAvatarGender(ctx context.Context, id uuid.UUID, gender string) error {
	const q = `UPDATE users SET avatar_gender=$2 WHERE id=$1`
	tag, err := r.db.Pool.Exec(ctx, q, id, gender)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// UpdateCoins stores the new balance.
func (r *UserRepo) UpdateCoins(ctx context.Context, id uuid.UUID, coins int) error {
	const q = `UPDATE users SET coins=$2 WHERE id=$1`
	tag, err := r.db.Pool.Exec(ctx, q, id, coins)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// UpdateStreak stores the new streak count.
func (r *UserRepo) UpdateStreak(ctx context.Context, id uuid.UUID, streak int) error {
	const q = `UPDATE users SET streak=$2 WHERE id=$1`
	tag, err := r.db.Pool.Exec(ctx, q, id, streak)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// UpdateLastActiveDate stores the last-active calendar date.
func (r *UserRepo) UpdateLastActiveDate(ctx context.Context, id uuid.UUID, date string) error {
	const q = `UPDATE users SET last_active_date=$2 WHERE id=$1`
	tag, err := r.db.Pool.Exec(ctx, q, id, date)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}
