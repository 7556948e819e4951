package domain

import (
	"fmt"
	"time"
)

// AutoScheduleRule is a weekly recurring trigger that auto-starts
// priority mode. StartTime is wall-clock "HH:MM" in the server's zone.
type AutoScheduleRule struct {
	ID        string    `json:"id"`
	DayOfWeek int       `json:"day_of_week"` // 0 = Sunday .. 6 = Saturday
	StartTime string    `json:"start_time"`
	IsActive  bool      `json:"is_active"`
	CreatedBy string    `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Validate validates a rule before persisting
func (r *AutoScheduleRule) Validate() error {
	if r.DayOfWeek < 0 || r.DayOfWeek > 6 {
		return fmt.Errorf("%w: day_of_week %d out of range", ErrInvalidRule, r.DayOfWeek)
	}
	if _, err := parseClock(r.StartTime); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRule, err)
	}
	return nil
}

// MatchesAt reports whether the rule fires at the given instant, with
// a tolerance band rather than exact equality so jittered invocations
// (once a minute, give or take) still catch the rule.
func (r *AutoScheduleRule) MatchesAt(now time.Time, tolerance time.Duration) bool {
	if !r.IsActive || int(now.Weekday()) != r.DayOfWeek {
		return false
	}
	start, err := parseClock(r.StartTime)
	if err != nil {
		return false
	}
	current := time.Duration(now.Hour())*time.Hour + time.Duration(now.Minute())*time.Minute
	diff := current - start
	if diff < 0 {
		diff = -diff
	}
	return diff <= tolerance
}

// parseClock parses "HH:MM" (seconds tolerated and ignored) into an
// offset from midnight
func parseClock(s string) (time.Duration, error) {
	if len(s) > 5 {
		s = s[:5]
	}
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("invalid start time %q: %w", s, err)
	}
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, nil
}
