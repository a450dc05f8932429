// Package model defines domain entities used by services and repositories.
package model

import (
	"time"

	"github.com/gofrs/uuid/v5"
)

// TaskCategory classifies library tasks. A daily set holds one task per category.
type TaskCategory string

const (
	CategoryPhysical TaskCategory = "Physical"
	CategoryMental   TaskCategory = "Mental"
	CategorySocial   TaskCategory = "Social"
)

// TaskCategories lists the categories in daily-set order.
var TaskCategories = []TaskCategory{CategoryPhysical, CategoryMental, CategorySocial}

// CostumeCategory classifies store items. At most one owned item per category
// may be equipped at a time.
type CostumeCategory string

const (
	CostumeHat       CostumeCategory = "hat"
	CostumeHand      CostumeCategory = "hand"
	CostumeCompanion CostumeCategory = "companion"
	CostumeOther     CostumeCategory = "other"
)

// IsValid reports whether the category is one of the known costume categories.
func (c CostumeCategory) IsValid() bool {
	switch c {
	case CostumeHat, CostumeHand, CostumeCompanion, CostumeOther:
		return true
	}
	return false
}

// User is an account row. The ID is the identity provider's stable subject;
// the core never manages credentials.
type User struct {
	ID             uuid.UUID
	Alias          *string // unique, nil until the user picks one
	Coins          int     // never negative
	Streak         int     // consecutive fully-completed days
	LastActiveDate *string // calendar date "2006-01-02", nil on first session
	AvatarGender   string
	CreatedAt      time.Time
}

// TaskSnapshot is a library task frozen into a daily set. Reward and text are
// copied at generation time so later library edits don't change past days.
type TaskSnapshot struct {
	Description string       `json:"description"`
	Category    TaskCategory `json:"category"`
	Coins       int          `json:"coins"`
}

// DailyTaskSet is the fixed 3-task assignment for one user and one calendar
// day. Unique per (user, date); immutable once the day has passed.
type DailyTaskSet struct {
	ID               uuid.UUID
	UserID           uuid.UUID
	Date             string // "2006-01-02"
	Tasks            []TaskSnapshot
	CompletedIndexes []int // subset of {0,1,2}, monotonic
	Completed        bool  // guards the once-per-set streak increment
}

// IndexCompleted reports whether the given task index is already completed.
func (s *DailyTaskSet) IndexCompleted(index int) bool {
	for _, i := range s.CompletedIndexes {
		if i == index {
			return true
		}
	}
	return false
}

// TaskLibraryEntry is reference data the lifecycle manager samples from.
type TaskLibraryEntry struct {
	ID          uuid.UUID
	Description string
	Category    TaskCategory
	Coins       int
}

// CostumeDefinition is a purchasable cosmetic item. Read-only reference data.
type CostumeDefinition struct {
	ID       uuid.UUID
	Name     string
	Category CostumeCategory
	Image    string
	Price    int
}

// OwnedCostume links a user to a purchased costume. Unique per
// (user, costume); never deleted.
type OwnedCostume struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	CostumeID uuid.UUID
	Equipped  bool
	CreatedAt time.Time
}

// InventoryItem is an owned costume joined with its definition, the shape
// callers render the wardrobe from.
type InventoryItem struct {
	Owned      OwnedCostume
	Definition CostumeDefinition
}
