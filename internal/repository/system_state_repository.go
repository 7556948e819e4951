package repository

import (
	"context"
	"time"

	"github.com/yayazuqui-hub/court-priority-play-99/internal/domain"
)

// SystemStateRepository persists the singleton admission state. Every
// mutator returns the resulting state so callers never need a second
// read, and enforces the flag mutual exclusion at the write.
type SystemStateRepository interface {
	// Get returns the singleton state
	Get(ctx context.Context) (*domain.SystemState, error)

	// Bootstrap creates the singleton row if missing and returns it.
	// Idempotent; called once at process start.
	Bootstrap(ctx context.Context, timerDuration time.Duration) (*domain.SystemState, error)

	// StartPriorityWindow flips to priority mode and anchors the timer
	// at now. Admin path, unconditional.
	StartPriorityWindow(ctx context.Context, now time.Time) (*domain.SystemState, error)

	// OpenForAll flips to open-for-all, clearing priority mode
	OpenForAll(ctx context.Context) (*domain.SystemState, error)

	// Pause clears both modes
	Pause(ctx context.Context) (*domain.SystemState, error)

	// TryAutoStart is the schedule trigger's guarded transition: it
	// starts a priority window only if no mode is active and the timer
	// was not started within refireGuard. The guards and the write are
	// one atomic statement, so overlapping invocations cannot both
	// fire. Returns started=false when a guard held.
	TryAutoStart(ctx context.Context, now time.Time, refireGuard time.Duration) (started bool, state *domain.SystemState, err error)
}
