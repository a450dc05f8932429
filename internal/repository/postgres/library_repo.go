package postgres

import (
	"context"

	"github.com/canela-app/canela/internal/model"
)

// LibraryRepo implements TaskLibraryRepository using PostgreSQL.
type LibraryRepo struct{ db *DB }

// NewLibraryRepo constructs a task-library repository.
func NewLibraryRepo(db *DB) *LibraryRepo { return &LibraryRepo{db: db} }

// ListByCategory returns up to limit entries for a category. Order is
// whatever the store yields; the lifecycle manager samples randomly from it.
func (r *LibraryRepo) ListByCategory(ctx context.Context, category model.TaskCategory, limit int) ([]model.TaskLibraryEntry, error) {
	const q = `
SELECT id, description, category, coins
FROM tasks_library WHERE category=$1 LIMIT $2`
	rows, err := r.db.Pool.Query(ctx, q, category, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.TaskLibraryEntry
	for rows.Next() {
		var e model.TaskLibraryEntry
		if err = rows.Scan(&e.ID, &e.Description, &e.Category, &e.Coins); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
