// Package errs contains sentinel errors used across layers for stable error mapping.
package errs

import "errors"

// Common sentinels across repo/service layers.
var (
	// ErrNotFound indicates the requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDataUnavailable indicates required reference data is missing
	// (e.g., a task category with zero library entries).
	ErrDataUnavailable = errors.New("data unavailable")

	// ErrAlreadyOwned indicates the user already owns the costume.
	ErrAlreadyOwned = errors.New("already owned")

	// ErrInsufficientFunds indicates the balance does not cover the price.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrPurchaseFailed indicates a write-layer failure during purchase.
	ErrPurchaseFailed = errors.New("purchase failed")

	// ErrAliasTaken indicates a unique constraint violation on the alias.
	ErrAliasTaken = errors.New("alias taken")

	// ErrCategoryLookup indicates the costume-category lookup backing
	// equip exclusivity failed.
	ErrCategoryLookup = errors.New("category lookup failed")

	// ErrAlreadyExists indicates a generic unique constraint violation.
	ErrAlreadyExists = errors.New("already exists")
)
