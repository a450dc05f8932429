package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofrs/uuid/v5"
	"go.uber.org/zap"

	"github.com/canela-app/canela/internal/errs"
	"github.com/canela-app/canela/internal/model"
	"github.com/canela-app/canela/internal/repository"
)

// StoreService owns costume purchases and equip state.
type StoreService interface {
	// Catalog lists all purchasable costume definitions.
	Catalog(ctx context.Context) ([]model.CostumeDefinition, error)
	// Inventory lists the user's owned costumes joined with definitions.
	Inventory(ctx context.Context, userID uuid.UUID) ([]model.InventoryItem, error)
	// Purchase buys a costume, deducting its price. Rejects double purchase
	// and purchases the balance does not cover.
	Purchase(ctx context.Context, userID, costumeID uuid.UUID) (*model.User, error)
	// Equip marks one owned item equipped and unequips same-category
	// siblings. Returns the refreshed inventory.
	Equip(ctx context.Context, userID, ownedID uuid.UUID) ([]model.InventoryItem, error)
	// Unequip clears the equipped flag on one owned item, siblings untouched.
	// Returns the refreshed inventory.
	Unequip(ctx context.Context, userID, ownedID uuid.UUID) ([]model.InventoryItem, error)
}

type StoreServiceImpl struct {
	users    repository.UserRepository
	costumes repository.CostumeRepository
	log      *zap.Logger
}

// NewStoreService constructs StoreService with required dependencies.
func NewStoreService(users repository.UserRepository, costumes repository.CostumeRepository, log *zap.Logger) *StoreServiceImpl {
	return &StoreServiceImpl{users: users, costumes: costumes, log: log}
}

// Catalog lists the costume catalog.
func (s *StoreServiceImpl) Catalog(ctx context.Context) ([]model.CostumeDefinition, error) {
	return s.costumes.ListDefinitions(ctx)
}

// Inventory lists the user's wardrobe.
func (s *StoreServiceImpl) Inventory(ctx context.Context, userID uuid.UUID) ([]model.InventoryItem, error) {
	if userID == uuid.Nil {
		return nil, errors.New("validation: empty userID")
	}
	return s.costumes.ListInventory(ctx, userID)
}

// Purchase runs the check-ownership -> check-funds -> insert -> deduct
// sequence. The two writes are independent; if the deduction fails after the
// insert succeeded the owned row stays (known inconsistency window).
func (s *StoreServiceImpl) Purchase(ctx context.Context, userID, costumeID uuid.UUID) (*model.User, error) {
	if userID == uuid.Nil || costumeID == uuid.Nil {
		return nil, errors.New("validation: empty userID/costumeID")
	}
	def, err := s.costumes.GetDefinition(ctx, costumeID)
	if err != nil {
		return nil, err
	}

	if _, err := s.costumes.GetOwnedByCostume(ctx, userID, costumeID); err == nil {
		return nil, errs.ErrAlreadyOwned
	} else if !errors.Is(err, errs.ErrNotFound) {
		return nil, err
	}

	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u.Coins < def.Price {
		return nil, errs.ErrInsufficientFunds
	}

	id, err := uuid.NewV4()
	if err != nil {
		return nil, err
	}
	owned := &model.OwnedCostume{ID: id, UserID: userID, CostumeID: costumeID}
	if err := s.costumes.InsertOwned(ctx, owned); err != nil {
		if errors.Is(err, errs.ErrAlreadyOwned) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: insert owned: %v", errs.ErrPurchaseFailed, err)
	}

	u.Coins -= def.Price
	if err := s.users.UpdateCoins(ctx, userID, u.Coins); err != nil {
		s.log.Error("purchase: coin deduction failed after insert",
			zap.String("user", userID.String()),
			zap.String("costume", costumeID.String()),
			zap.Error(err))
		return nil, fmt.Errorf("%w: deduct coins: %v", errs.ErrPurchaseFailed, err)
	}
	return u, nil
}

// Equip resolves the item's category, unequips every sibling in it, then
// marks the target equipped.
func (s *StoreServiceImpl) Equip(ctx context.Context, userID, ownedID uuid.UUID) ([]model.InventoryItem, error) {
	owned, err := s.ownedForUser(ctx, userID, ownedID)
	if err != nil {
		return nil, err
	}
	def, err := s.costumes.GetDefinition(ctx, owned.CostumeID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrCategoryLookup, err)
	}
	if err := s.costumes.UnequipCategory(ctx, userID, def.Category); err != nil {
		return nil, err
	}
	if err := s.costumes.SetEquipped(ctx, ownedID, true); err != nil {
		return nil, err
	}
	return s.costumes.ListInventory(ctx, userID)
}

// Unequip clears the equipped flag on the item only.
func (s *StoreServiceImpl) Unequip(ctx context.Context, userID, ownedID uuid.UUID) ([]model.InventoryItem, error) {
	if _, err := s.ownedForUser(ctx, userID, ownedID); err != nil {
		return nil, err
	}
	if err := s.costumes.SetEquipped(ctx, ownedID, false); err != nil {
		return nil, err
	}
	return s.costumes.ListInventory(ctx, userID)
}

func (s *StoreServiceImpl) ownedForUser(ctx context.Context, userID, ownedID uuid.UUID) (*model.OwnedCostume, error) {
	if userID == uuid.Nil || ownedID == uuid.Nil {
		return nil, errors.New("validation: empty userID/ownedID")
	}
	owned, err := s.costumes.GetOwned(ctx, ownedID)
	if err != nil {
		return nil, err
	}
	if owned.UserID != userID {
		return nil, errs.ErrNotFound
	}
	return owned, nil
}
