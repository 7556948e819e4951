package domain

import "time"

// Mode is the admission mode derived from the SystemState flags
type Mode string

const (
	// ModePaused means booking is closed to everyone
	ModePaused Mode = "paused"
	// ModePriority means booking is restricted to the priority queue
	// within the timed window
	ModePriority Mode = "priority"
	// ModeOpenForAll means any authenticated player may book
	ModeOpenForAll Mode = "open_for_all"
)

// SystemState is the singleton record governing admission. The two
// flags are never both true; the timer fields only mean anything while
// IsPriorityMode is set.
type SystemState struct {
	ID                     string        `json:"id"`
	IsPriorityMode         bool          `json:"is_priority_mode"`
	IsOpenForAll           bool          `json:"is_open_for_all"`
	PriorityTimerStartedAt *time.Time    `json:"priority_timer_started_at,omitempty"`
	PriorityTimerDuration  time.Duration `json:"priority_timer_duration_seconds"`
	CreatedAt              time.Time     `json:"created_at"`
	UpdatedAt              time.Time     `json:"updated_at"`
}

// Mode derives the admission mode from the flags
func (s *SystemState) Mode() Mode {
	switch {
	case s.IsOpenForAll:
		return ModeOpenForAll
	case s.IsPriorityMode:
		return ModePriority
	default:
		return ModePaused
	}
}

// TimeRemaining computes the seconds left in the priority window at
// the given instant, clamped at zero. It is derived on every read from
// PriorityTimerStartedAt; nothing counts down in the background, so a
// reading is always consistent with the stored anchor regardless of
// when the caller asks. Expiry does not change state: the window
// reaching zero only changes what admission reports.
func (s *SystemState) TimeRemaining(now time.Time) time.Duration {
	if !s.IsPriorityMode || s.PriorityTimerStartedAt == nil {
		return 0
	}
	remaining := s.PriorityTimerDuration - now.Sub(*s.PriorityTimerStartedAt)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// WindowExpired reports whether a priority window was started and has
// run out
func (s *SystemState) WindowExpired(now time.Time) bool {
	return s.IsPriorityMode && s.PriorityTimerStartedAt != nil && s.TimeRemaining(now) == 0
}

// Validate rejects states that must never be constructible
func (s *SystemState) Validate() error {
	if s.IsPriorityMode && s.IsOpenForAll {
		return ErrInvalidState
	}
	if s.IsPriorityMode && s.PriorityTimerStartedAt == nil {
		return ErrInvalidState
	}
	return nil
}
