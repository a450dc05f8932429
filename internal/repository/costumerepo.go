package repository

import (
	"context"

	"github.com/canela-app/canela/internal/model"
	"github.com/gofrs/uuid/v5"
)

// CostumeRepository reads the costume catalog and manages owned items.
type CostumeRepository interface {
	// ListDefinitions returns the full costume catalog.
	ListDefinitions(ctx context.Context) ([]model.CostumeDefinition, error)
	// GetDefinition loads one catalog entry; errs.ErrNotFound if absent.
	GetDefinition(ctx context.Context, id uuid.UUID) (*model.CostumeDefinition, error)
	// GetOwned loads an owned item by its ID.
	GetOwned(ctx context.Context, id uuid.UUID) (*model.OwnedCostume, error)
	// GetOwnedByCostume loads the user's owned row for a costume, if any.
	GetOwnedByCostume(ctx context.Context, userID, costumeID uuid.UUID) (*model.OwnedCostume, error)
	// InsertOwned records a purchase (equipped=false); unique violation on
	// (user, costume) maps to errs.ErrAlreadyOwned.
	InsertOwned(ctx context.Context, owned *model.OwnedCostume) error
	// SetEquipped stores the equipped flag on one owned item.
	SetEquipped(ctx context.Context, id uuid.UUID, equipped bool) error
	// UnequipCategory clears the equipped flag on every owned item of the
	// user in the given category.
	UnequipCategory(ctx context.Context, userID uuid.UUID, category model.CostumeCategory) error
	// ListInventory returns the user's owned items joined with definitions.
	ListInventory(ctx context.Context, userID uuid.UUID) ([]model.InventoryItem, error)
}
