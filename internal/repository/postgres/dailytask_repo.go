package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/canela-app/canela/internal/errs"
	"github.com/canela-app/canela/internal/model"
	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5"
)

// DailyTaskRepo implements DailyTaskRepository using PostgreSQL.
// Task snapshots and completed indexes are stored as jsonb.
type DailyTaskRepo struct{ db *DB }

// NewDailyTaskRepo constructs a daily-task repository.
func NewDailyTaskRepo(db *DB) *DailyTaskRepo { return &DailyTaskRepo{db: db} }

func scanDailyTaskSet(row pgx.Row) (*model.DailyTaskSet, error) {
	var (
		set        model.DailyTaskSet
		tasksRaw   []byte
		indexesRaw []byte
	)
	if err := row.Scan(&set.ID, &set.UserID, &set.Date, &tasksRaw, &indexesRaw, &set.Completed); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	if err := json.Unmarshal(tasksRaw, &set.Tasks); err != nil {
		return nil, fmt.Errorf("decode tasks: %w", err)
	}
	if len(indexesRaw) > 0 {
		if err := json.Unmarshal(indexesRaw, &set.CompletedIndexes); err != nil {
			return nil, fmt.Errorf("decode completed indexes: %w", err)
		}
	}
	return &set, nil
}

// GetByUserDate loads the set for (user, date).
func (r *DailyTaskRepo) GetByUserDate(ctx context.Context, userID uuid.UUID, date string) (*model.DailyTaskSet, error) {
	const q = `
SELECT id, user_id, date, tasks, completed_indexes, completed
FROM daily_tasks WHERE user_id=$1 AND date=$2`
	return scanDailyTaskSet(r.db.Pool.QueryRow(ctx, q, userID, date))
}

// GetByID loads a set by its ID.
func (r *DailyTaskRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.DailyTaskSet, error) {
	const q = `
SELECT id, user_id, date, tasks, completed_indexes, completed
FROM daily_tasks WHERE id=$1`
	return scanDailyTaskSet(r.db.Pool.QueryRow(ctx, q, id))
}

// Insert persists a new set. The (user_id, date) unique constraint maps to
// ErrAlreadyExists so callers can re-read and adopt the winning row.
func (r *DailyTaskRepo) Insert(ctx context.Context, set *model.DailyTaskSet) error {
	tasksRaw, err := json.Marshal(set.Tasks)
	if err != nil {
		return fmt.Errorf("encode tasks: %w", err)
	}
	indexes := set.CompletedIndexes
	if indexes == nil {
		indexes = []int{}
	}
	indexesRaw, err := json.Marshal(indexes)
	if err != nil {
		return fmt.Errorf("encode completed indexes: %w", err)
	}
	const q = `
INSERT INTO daily_tasks (id, user_id, date, tasks, completed_indexes, completed)
VALUES ($1, $2, $3, $4, $5, $6)`
	_, err = r.db.Pool.Exec(ctx, q, set.ID, set.UserID, set.Date, tasksRaw, indexesRaw, set.Completed)
	if isUniqueViolation(err) {
		return errs.ErrAlreadyExists
	}
	return err
}

// UpdateCompletedIndexes stores the completed-index collection.
func (r *DailyTaskRepo) UpdateCompletedIndexes(ctx context.Context, id uuid.UUID, indexes []int) error {
	if indexes == nil {
		indexes = []int{}
	}
	raw, err := json.Marshal(indexes)
	if err != nil {
		return fmt.Errorf("encode completed indexes: %w", err)
	}
	const q = `UPDATE daily_tasks SET completed_indexes=$2 WHERE id=$1`
	tag, err := r.db.Pool.Exec(ctx, q, id, raw)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// UpdateCompleted stores the completed-all flag.
func (r *DailyTaskRepo) UpdateCompleted(ctx context.Context, id uuid.UUID, completed bool) error {
	const q = `UPDATE daily_tasks SET completed=$2 WHERE id=$1`
	tag, err := r.db.Pool.Exec(ctx, q, id, completed)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}
