// Package service contains application services for daily tasks, the store,
// and user profiles.
package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/gofrs/uuid/v5"
	"go.uber.org/zap"

	"github.com/canela-app/canela/internal/errs"
	"github.com/canela-app/canela/internal/model"
	"github.com/canela-app/canela/internal/repository"
)

// DateLayout is the calendar-date format used for daily sets and last-active tracking.
const DateLayout = "2006-01-02"

// defaultSampleLimit bounds the library fetch the random pick draws from.
const defaultSampleLimit = 10

// CompletionResult reports the state after a completion attempt.
type CompletionResult struct {
	Set            *model.DailyTaskSet
	Coins          int
	Streak         int
	StreakAdvanced bool // true only on the call that advanced the streak
}

// TaskService owns the daily-task lifecycle and completion tracking.
type TaskService interface {
	// LoadDaily returns the task set to display for today, creating it if
	// needed and rolling the streak on a missed day.
	LoadDaily(ctx context.Context, userID uuid.UUID) (*model.DailyTaskSet, error)
	// CompleteTask records completion of one task index. Idempotent per index.
	CompleteTask(ctx context.Context, userID, setID uuid.UUID, index int) (*CompletionResult, error)
}

type TaskServiceImpl struct {
	users       repository.UserRepository
	sets        repository.DailyTaskRepository
	library     repository.TaskLibraryRepository
	sampleLimit int
	now         func() time.Time
	pick        func(n int) int
	log         *zap.Logger
}

// NewTaskService constructs TaskService with required dependencies.
func NewTaskService(
	users repository.UserRepository,
	sets repository.DailyTaskRepository,
	library repository.TaskLibraryRepository,
	log *zap.Logger,
) *TaskServiceImpl {
	return &TaskServiceImpl{
		users:       users,
		sets:        sets,
		library:     library,
		sampleLimit: defaultSampleLimit,
		now:         time.Now,
		pick:        rand.Intn,
		log:         log,
	}
}

// LoadDaily implements the daily lifecycle:
//  1. If the user's last-active date differs from today and yesterday's set
//     exists uncompleted, reset the streak. No set for yesterday leaves the
//     streak untouched.
//  2. Adopt today's set if one exists.
//  3. Otherwise sample one library task per category and persist a fresh set.
//  4. Bump the user's last-active date.
func (s *TaskServiceImpl) LoadDaily(ctx context.Context, userID uuid.UUID) (*model.DailyTaskSet, error) {
	if userID == uuid.Nil {
		return nil, errors.New("validation: empty userID")
	}
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	today := now.Format(DateLayout)
	yesterday := now.AddDate(0, 0, -1).Format(DateLayout)

	if u.LastActiveDate != nil && *u.LastActiveDate != today {
		if err := s.rollStreak(ctx, u, yesterday); err != nil {
			return nil, err
		}
	}

	set, err := s.sets.GetByUserDate(ctx, userID, today)
	switch {
	case err == nil:
	case errors.Is(err, errs.ErrNotFound):
		set, err = s.generateSet(ctx, userID, today)
		if err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	if err := s.users.UpdateLastActiveDate(ctx, userID, today); err != nil {
		// Non-fatal: the set is usable, the date catches up on the next load.
		s.log.Warn("update last active date",
			zap.String("user", userID.String()), zap.Error(err))
	}
	return set, nil
}

// rollStreak resets the streak when yesterday's set exists and was left
// uncompleted. A day with no set at all does not reset the streak.
func (s *TaskServiceImpl) rollStreak(ctx context.Context, u *model.User, yesterday string) error {
	ySet, err := s.sets.GetByUserDate(ctx, u.ID, yesterday)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return nil
		}
		return err
	}
	if !ySet.Completed && u.Streak > 0 {
		if err := s.users.UpdateStreak(ctx, u.ID, 0); err != nil {
			return err
		}
		u.Streak = 0
	}
	return nil
}

// generateSet samples one task per category and persists the new set.
// A category with zero candidates aborts generation with ErrDataUnavailable
// before anything is written.
func (s *TaskServiceImpl) generateSet(ctx context.Context, userID uuid.UUID, today string) (*model.DailyTaskSet, error) {
	tasks := make([]model.TaskSnapshot, 0, len(model.TaskCategories))
	for _, cat := range model.TaskCategories {
		entries, err := s.library.ListByCategory(ctx, cat, s.sampleLimit)
		if err != nil {
			return nil, err
		}
		if len(entries) == 0 {
			return nil, fmt.Errorf("category %s: %w", cat, errs.ErrDataUnavailable)
		}
		e := entries[s.pick(len(entries))]
		tasks = append(tasks, model.TaskSnapshot{
			Description: e.Description,
			Category:    e.Category,
			Coins:       e.Coins,
		})
	}

	id, err := uuid.NewV4()
	if err != nil {
		return nil, err
	}
	set := &model.DailyTaskSet{
		ID:               id,
		UserID:           userID,
		Date:             today,
		Tasks:            tasks,
		CompletedIndexes: []int{},
		Completed:        false,
	}
	if err := s.sets.Insert(ctx, set); err != nil {
		if errors.Is(err, errs.ErrAlreadyExists) {
			// Another session won the (user, date) race; adopt its row.
			return s.sets.GetByUserDate(ctx, userID, today)
		}
		return nil, err
	}
	return set, nil
}

// CompleteTask adds an index to the set's completed collection, credits the
// task's reward, and advances the streak exactly once when all three tasks
// are done. Re-completing a recorded index awards nothing, but it still runs
// the streak step when the completed flag was left unset by a failed write.
func (s *TaskServiceImpl) CompleteTask(ctx context.Context, userID, setID uuid.UUID, index int) (*CompletionResult, error) {
	if userID == uuid.Nil || setID == uuid.Nil {
		return nil, errors.New("validation: empty userID/setID")
	}
	set, err := s.sets.GetByID(ctx, setID)
	if err != nil {
		return nil, err
	}
	if set.UserID != userID {
		return nil, errs.ErrNotFound
	}
	if index < 0 || index >= len(set.Tasks) {
		return nil, fmt.Errorf("validation: index %d out of range", index)
	}

	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	res := &CompletionResult{Set: set, Coins: u.Coins, Streak: u.Streak}

	if !set.IndexCompleted(index) {
		indexes := append(append([]int{}, set.CompletedIndexes...), index)
		if err := s.sets.UpdateCompletedIndexes(ctx, setID, indexes); err != nil {
			return nil, err
		}
		set.CompletedIndexes = indexes

		coins := u.Coins + set.Tasks[index].Coins
		if err := s.users.UpdateCoins(ctx, userID, coins); err != nil {
			return nil, err
		}
		res.Coins = coins
	}

	// Evaluated on every call, not only when a new index was recorded: if a
	// previous attempt persisted the final index but the streak write failed,
	// the retry lands here and finishes the job.
	if len(set.CompletedIndexes) == len(set.Tasks) && !set.Completed {
		// Two independent writes, same as the rest of the core: no
		// cross-table transaction. The completed flag guards re-entry.
		if err := s.users.UpdateStreak(ctx, userID, u.Streak+1); err != nil {
			return nil, err
		}
		if err := s.sets.UpdateCompleted(ctx, setID, true); err != nil {
			return nil, err
		}
		set.Completed = true
		res.Streak = u.Streak + 1
		res.StreakAdvanced = true
	}
	return res, nil
}
