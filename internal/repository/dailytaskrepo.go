package repository

import (
	"context"

	"github.com/canela-app/canela/internal/model"
	"github.com/gofrs/uuid/v5"
)

// DailyTaskRepository stores per-day task assignments.
type DailyTaskRepository interface {
	// GetByUserDate loads the set for (user, date); errs.ErrNotFound if absent.
	GetByUserDate(ctx context.Context, userID uuid.UUID, date string) (*model.DailyTaskSet, error)
	// GetByID loads a set by its ID.
	GetByID(ctx context.Context, id uuid.UUID) (*model.DailyTaskSet, error)
	// Insert persists a new set; unique violation on (user, date) maps to
	// errs.ErrAlreadyExists so the caller can adopt the existing row.
	Insert(ctx context.Context, set *model.DailyTaskSet) error
	// UpdateCompletedIndexes stores the completed-index collection.
	UpdateCompletedIndexes(ctx context.Context, id uuid.UUID, indexes []int) error
	// UpdateCompleted stores the completed-all flag.
	UpdateCompleted(ctx context.Context, id uuid.UUID, completed bool) error
}

// TaskLibraryRepository reads the static task reference table.
type TaskLibraryRepository interface {
	// ListByCategory returns up to limit entries for the category.
	ListByCategory(ctx context.Context, category model.TaskCategory, limit int) ([]model.TaskLibraryEntry, error)
}
