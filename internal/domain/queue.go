package domain

import "time"

// QueueEntry is a player's claim on a numbered priority slot
type QueueEntry struct {
	ID             string    `json:"id"`
	UserID         string    `json:"user_id"`
	Position       int       `json:"position"`
	GenderCategory string    `json:"gender_category"`
	JoinedAt       time.Time `json:"joined_at"`
}

// Validate validates a queue entry before insertion
func (e *QueueEntry) Validate() error {
	if e.UserID == "" {
		return ErrInvalidUserID
	}
	if e.GenderCategory == "" {
		return ErrInvalidCategory
	}
	return nil
}

// CapacityPolicy is the configured queue sizing: a total cap plus a
// per-category cap. The per-category map generalizes the club's
// six-and-six split so the invariant check is policy-driven.
type CapacityPolicy struct {
	Total       int
	PerCategory map[string]int
}

// Admit checks whether one more entry of the given category fits.
// counts holds the current per-category occupancy.
func (p CapacityPolicy) Admit(counts map[string]int, category string) error {
	limit, known := p.PerCategory[category]
	if !known {
		return ErrInvalidCategory
	}

	total := 0
	for _, n := range counts {
		total += n
	}
	if total >= p.Total {
		return ErrQueueFull
	}
	if counts[category] >= limit {
		return ErrCategoryFull
	}
	return nil
}
