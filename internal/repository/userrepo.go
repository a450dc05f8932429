// Package repository defines storage interfaces implemented by concrete backends.
package repository

import (
	"context"

	"github.com/canela-app/canela/internal/model"
	"github.com/gofrs/uuid/v5"
)

// UserRepository provides CRUD access for user accounts.
type UserRepository interface {
	// Create inserts a new user row.
	Create(ctx context.Context, u *model.User) error
	// GetByID loads a user by ID.
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	// UpdateAlias sets the alias; unique violation maps to errs.ErrAliasTaken.
	UpdateAlias(ctx context.Context, id uuid.UUID, alias string) error
	// UpdateAvatarGender sets the avatar gender selection.
	UpdateAvatarGender(ctx context.Context, id uuid.UUID, gender string) error
	// UpdateCoins stores the new coin balance.
	UpdateCoins(ctx context.Context, id uuid.UUID, coins int) error
	// UpdateStreak stores the new streak count.
	UpdateStreak(ctx context.Context, id uuid.UUID, streak int) error
	// UpdateLastActiveDate stores the last-active calendar date ("2006-01-02").
	UpdateLastActiveDate(ctx context.Context, id uuid.UUID, date string) error
}
