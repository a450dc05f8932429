package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gofrs/uuid/v5"

	"github.com/canela-app/canela/internal/errs"
	"github.com/canela-app/canela/internal/model"
	"github.com/canela-app/canela/internal/repository"
)

// CoinPacks are the demo coin packages offered in the buy-coins flow.
// No real money is involved.
var CoinPacks = []int{50, 100, 250, 500}

// ProfileService owns user bootstrap and profile edits.
type ProfileService interface {
	// Ensure loads the user, creating the row on first session.
	Ensure(ctx context.Context, userID uuid.UUID) (*model.User, error)
	// Get loads the user.
	Get(ctx context.Context, userID uuid.UUID) (*model.User, error)
	// SetAlias stores a trimmed, non-empty alias. A taken alias maps to
	// errs.ErrAliasTaken.
	SetAlias(ctx context.Context, userID uuid.UUID, alias string) (*model.User, error)
	// SetAvatarGender stores the avatar selection.
	SetAvatarGender(ctx context.Context, userID uuid.UUID, gender string) (*model.User, error)
	// GrantCoins credits one of the demo coin packages.
	GrantCoins(ctx context.Context, userID uuid.UUID, pack int) (*model.User, error)
}

type ProfileServiceImpl struct {
	users repository.UserRepository
}

// NewProfileService constructs ProfileService.
func NewProfileService(users repository.UserRepository) *ProfileServiceImpl {
	return &ProfileServiceImpl{users: users}
}

// Ensure creates the user row on first session: no alias, zero coins, zero
// streak. A concurrent create loses the race and adopts the existing row.
func (s *ProfileServiceImpl) Ensure(ctx context.Context, userID uuid.UUID) (*model.User, error) {
	if userID == uuid.Nil {
		return nil, errors.New("validation: empty userID")
	}
	u, err := s.users.GetByID(ctx, userID)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, errs.ErrNotFound) {
		return nil, err
	}

	nu := &model.User{ID: userID}
	if err := s.users.Create(ctx, nu); err != nil {
		if errors.Is(err, errs.ErrAlreadyExists) {
			return s.users.GetByID(ctx, userID)
		}
		return nil, err
	}
	return nu, nil
}

// Get loads the user.
func (s *ProfileServiceImpl) Get(ctx context.Context, userID uuid.UUID) (*model.User, error) {
	if userID == uuid.Nil {
		return nil, errors.New("validation: empty userID")
	}
	return s.users.GetByID(ctx, userID)
}

// SetAlias validates and stores the alias.
func (s *ProfileServiceImpl) SetAlias(ctx context.Context, userID uuid.UUID, alias string) (*model.User, error) {
	if userID == uuid.Nil {
		return nil, errors.New("validation: empty userID")
	}
	alias = strings.TrimSpace(alias)
	if alias == "" {
		return nil, errors.New("validation: empty alias")
	}
	if err := s.users.UpdateAlias(ctx, userID, alias); err != nil {
		return nil, err
	}
	return s.users.GetByID(ctx, userID)
}

// SetAvatarGender stores the avatar selection.
func (s *ProfileServiceImpl) SetAvatarGender(ctx context.Context, userID uuid.UUID, gender string) (*model.User, error) {
	if userID == uuid.Nil {
		return nil, errors.New("validation: empty userID")
	}
	gender = strings.TrimSpace(gender)
	if gender == "" {
		return nil, errors.New("validation: empty gender")
	}
	if err := s.users.UpdateAvatarGender(ctx, userID, gender); err != nil {
		return nil, err
	}
	return s.users.GetByID(ctx, userID)
}

// GrantCoins credits a demo coin package to the balance.
func (s *ProfileServiceImpl) GrantCoins(ctx context.Context, userID uuid.UUID, pack int) (*model.User, error) {
	if userID == uuid.Nil {
		return nil, errors.New("validation: empty userID")
	}
	valid := false
	for _, p := range CoinPacks {
		if p == pack {
			valid = true
			break
		}
	}
	if !valid {
		return nil, fmt.Errorf("validation: unknown coin pack %d", pack)
	}
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	u.Coins += pack
	if err := s.users.UpdateCoins(ctx, userID, u.Coins); err != nil {
		return nil, err
	}
	return u, nil
}
