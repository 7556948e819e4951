package repository

import (
	"context"

	"github.com/yayazuqui-hub/court-priority-play-99/internal/domain"
)

// ScheduleRepository defines the interface for auto schedule rule persistence
type ScheduleRepository interface {
	// Create stores a new rule and returns it with generated fields
	Create(ctx context.Context, rule *domain.AutoScheduleRule) (*domain.AutoScheduleRule, error)

	// GetByID returns the rule or domain.ErrRuleNotFound
	GetByID(ctx context.Context, id string) (*domain.AutoScheduleRule, error)

	// List returns all rules ordered by day of week then start time
	List(ctx context.Context) ([]*domain.AutoScheduleRule, error)

	// ListActiveForDay returns active rules for the given weekday (0=Sunday)
	ListActiveForDay(ctx context.Context, dayOfWeek int) ([]*domain.AutoScheduleRule, error)

	// Update replaces the mutable fields of a rule
	Update(ctx context.Context, rule *domain.AutoScheduleRule) (*domain.AutoScheduleRule, error)

	// Delete removes a rule or returns domain.ErrRuleNotFound
	Delete(ctx context.Context, id string) error
}
