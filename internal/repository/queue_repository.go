package repository

import (
	"context"
	"time"

	"github.com/yayazuqui-hub/court-priority-play-99/internal/domain"
)

// QueueRepository persists the priority queue. Positions are 1-based,
// dense and unique; every method that removes entries renumbers the
// survivors inside the same transaction, and every method that reads
// capacity does so under the queue lock, so no interleaving of joins,
// removals and sweeps can overflow the capacity or leave a gap.
type QueueRepository interface {
	// Join inserts an entry at position count+1 after checking the
	// capacity policy. The capacity read and the insert are one atomic
	// unit. Returns the stored entry with ID and Position assigned.
	Join(ctx context.Context, entry *domain.QueueEntry, policy domain.CapacityPolicy) (*domain.QueueEntry, error)

	// LeaveByUser removes the entry for userID and renumbers
	LeaveByUser(ctx context.Context, userID string) error

	// RemoveByID removes the entry by its id and renumbers. Admin path.
	RemoveByID(ctx context.Context, entryID string) (*domain.QueueEntry, error)

	// Clear removes every entry. Explicit admin action; no state
	// transition clears the queue implicitly.
	Clear(ctx context.Context) error

	// ListOrdered returns all entries ordered by position ascending
	ListOrdered(ctx context.Context) ([]*domain.QueueEntry, error)

	// Contains reports whether userID holds a queue slot
	Contains(ctx context.Context, userID string) (bool, error)

	// SweepIdle removes, in one batch, every entry older than cutoff
	// whose user has no booking created at or after their join, then
	// renumbers. Returns the evicted entries. Atomic with respect to
	// concurrent joins.
	SweepIdle(ctx context.Context, cutoff time.Time) ([]*domain.QueueEntry, error)
}
