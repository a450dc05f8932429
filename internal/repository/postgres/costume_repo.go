package postgres

import (
	"context"
	"errors"

	"github.com/canela-app/canela/internal/errs"
	"github.com/canela-app/canela/internal/model"
	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5"
)

// CostumeRepo implements CostumeRepository using PostgreSQL.
type CostumeRepo struct{ db *DB }

// NewCostumeRepo constructs a costume repository.
func NewCostumeRepo(db *DB) *CostumeRepo { return &CostumeRepo{db: db} }

// ListDefinitions returns the full costume catalog.
func (r *CostumeRepo) ListDefinitions(ctx context.Context) ([]model.CostumeDefinition, error) {
	const q = `
SELECT id, name, category, image, price
FROM costumes ORDER BY price, name`
	rows, err := r.db.Pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.CostumeDefinition
	for rows.Next() {
		var d model.CostumeDefinition
		if err = rows.Scan(&d.ID, &d.Name, &d.Category, &d.Image, &d.Price); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// GetDefinition loads one catalog entry.
func (r *CostumeRepo) GetDefinition(ctx context.Context, id uuid.UUID) (*model.CostumeDefinition, error) {
	const q = `
SELECT id, name, category, image, price
FROM costumes WHERE id=$1`
	var d model.CostumeDefinition
	if err := r.db.Pool.QueryRow(ctx, q, id).Scan(&d.ID, &d.Name, &d.Category, &d.Image, &d.Price); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	return &d, nil
}

// GetOwned loads an owned item by ID.
func (r *CostumeRepo) GetOwned(ctx context.Context, id uuid.UUID) (*model.OwnedCostume, error) {
	const q = `
SELECT id, user_id, costume_id, equipped, created_at
FROM owned_costumes WHERE id=$1`
	var o model.OwnedCostume
	if err := r.db.Pool.QueryRow(ctx, q, id).Scan(&o.ID, &o.UserID, &o.CostumeID, &o.Equipped, &o.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

// GetOwnedByCostume loads the user's owned row for a costume, if any.
func (r *CostumeRepo) GetOwnedByCostume(ctx context.Context, userID, costumeID uuid.UUID) (*model.OwnedCostume, error) {
	const q = `
SELECT id, user_id, costume_id, equipped, created_at
FROM owned_costumes WHERE user_id=$1 AND costume_id=$2`
	var o model.OwnedCostume
	if err := r.db.Pool.QueryRow(ctx, q, userID, costumeID).Scan(&o.ID, &o.UserID, &o.CostumeID, &o.Equipped, &o.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

// InsertOwned records a purchase. The (user_id, costume_id) unique constraint
// maps to ErrAlreadyOwned.
func (r *CostumeRepo) InsertOwned(ctx context.Context, owned *model.OwnedCostume) error {
	const q = `
INSERT INTO owned_costumes (id, user_id, costume_id, equipped)
VALUES ($1, $2, $3, $4)`
	_, err := r.db.Pool.Exec(ctx, q, owned.ID, owned.UserID, owned.CostumeID, owned.Equipped)
	if isUniqueViolation(err) {
		return errs.ErrAlreadyOwned
	}
	return err
}

// SetEquipped stores the equipped flag on one owned item.
func (r *CostumeRepo) SetEquipped(ctx context.Context, id uuid.UUID, equipped bool) error {
	const q = `UPDATE owned_costumes SET equipped=$2 WHERE id=$1`
	tag, err := r.db.Pool.Exec(ctx, q, id, equipped)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// UnequipCategory clears the equipped flag on every owned item the user has
// in the category. Zero rows affected is fine (nothing was equipped).
func (r *CostumeRepo) UnequipCategory(ctx context.Context, userID uuid.UUID, category model.CostumeCategory) error {
	const q = `
UPDATE owned_costumes SET equipped=false
WHERE user_id=$1 AND equipped=true
  AND costume_id IN (SELECT id FROM costumes WHERE category=$2)`
	_, err := r.db.Pool.Exec(ctx, q, userID, category)
	return err
}

// ListInventory returns owned items joined with their definitions.
func (r *CostumeRepo) ListInventory(ctx context.Context, userID uuid.UUID) ([]model.InventoryItem, error) {
	const q = `
SELECT o.id, o.user_id, o.costume_id, o.equipped, o.created_at,
       c.id, c.name, c.category, c.image, c.price
FROM owned_costumes o
JOIN costumes c ON c.id = o.costume_id
WHERE o.user_id=$1
ORDER BY o.created_at`
	rows, err := r.db.Pool.Query(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.InventoryItem
	for rows.Next() {
		var it model.InventoryItem
		if err = rows.Scan(
			&it.Owned.ID, &it.Owned.UserID, &it.Owned.CostumeID, &it.Owned.Equipped, &it.Owned.CreatedAt,
			&it.Definition.ID, &it.Definition.Name, &it.Definition.Category, &it.Definition.Image, &it.Definition.Price,
		); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}
