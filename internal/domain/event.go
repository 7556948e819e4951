package domain

import "time"

// StateChangedKind discriminates what part of the shared state moved
type StateChangedKind string

const (
	// StateChangedSystem signals a SystemState mutation (mode or timer)
	StateChangedSystem StateChangedKind = "system_state_updated"
	// StateChangedQueue signals any priority-queue mutation
	StateChangedQueue StateChangedKind = "queue_updated"
	// StateChangedBookings signals a bookings mutation
	StateChangedBookings StateChangedKind = "bookings_updated"
)

// StateChanged is the event fanned out to subscribed clients whenever
// shared state mutates. Clients re-fetch on receipt; the event carries
// no payload beyond the kind, which keeps the channel cheap and the
// clients' view consistent with a single read path.
type StateChanged struct {
	Kind StateChangedKind `json:"kind"`
	At   time.Time        `json:"at"`
}
