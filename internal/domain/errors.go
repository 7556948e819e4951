package domain

import "errors"

// Domain errors
var (
	// Admission denial reasons. Each maps to a distinct user-facing
	// message, never a generic failure.
	ErrSystemPaused  = errors.New("booking is paused")
	ErrNotInQueue    = errors.New("user is not in the priority queue")
	ErrWindowExpired = errors.New("priority window has expired")

	// Queue capacity errors
	ErrQueueFull    = errors.New("priority queue is full")
	ErrCategoryFull = errors.New("no priority slots left for this category")

	// Queue membership errors
	ErrAlreadyInQueue = errors.New("user is already in the priority queue")
	ErrEntryNotFound  = errors.New("queue entry not found")

	// State machine errors
	ErrInvalidState = errors.New("priority mode and open-for-all are mutually exclusive")

	// Lookup errors
	ErrRuleNotFound    = errors.New("schedule rule not found")
	ErrProfileNotFound = errors.New("player profile not found")
	ErrBookingNotFound = errors.New("booking not found")
	ErrStateNotFound   = errors.New("system state not initialized")

	// Validation errors
	ErrInvalidUserID     = errors.New("invalid user id")
	ErrInvalidCategory   = errors.New("unknown gender category")
	ErrInvalidRule       = errors.New("invalid schedule rule")
	ErrInvalidPlayerName = errors.New("player name is required")
)

// IsDenial reports whether the error is an admission denial rather
// than a failure; denials are answers, not errors, at the HTTP layer
func IsDenial(err error) bool {
	return errors.Is(err, ErrSystemPaused) ||
		errors.Is(err, ErrNotInQueue) ||
		errors.Is(err, ErrWindowExpired)
}

// IsCapacity reports whether the error is a queue capacity rejection
func IsCapacity(err error) bool {
	return errors.Is(err, ErrQueueFull) || errors.Is(err, ErrCategoryFull)
}

// IsNotFound reports whether the error is a missing-record lookup
func IsNotFound(err error) bool {
	return errors.Is(err, ErrEntryNotFound) ||
		errors.Is(err, ErrRuleNotFound) ||
		errors.Is(err, ErrProfileNotFound) ||
		errors.Is(err, ErrBookingNotFound) ||
		errors.Is(err, ErrStateNotFound)
}

// IsValidation reports whether the error is caller-correctable input
func IsValidation(err error) bool {
	return errors.Is(err, ErrInvalidUserID) ||
		errors.Is(err, ErrInvalidCategory) ||
		errors.Is(err, ErrInvalidRule) ||
		errors.Is(err, ErrInvalidPlayerName)
}
