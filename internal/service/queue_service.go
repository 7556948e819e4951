package service

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"github.com/yayazuqui-hub/court-priority-play-99/internal/domain"
	"github.com/yayazuqui-hub/court-priority-play-99/internal/dto"
	"github.com/yayazuqui-hub/court-priority-play-99/internal/events"
	"github.com/yayazuqui-hub/court-priority-play-99/internal/metrics"
	"github.com/yayazuqui-hub/court-priority-play-99/internal/repository"
	"github.com/yayazuqui-hub/court-priority-play-99/pkg/logger"
	"github.com/yayazuqui-hub/court-priority-play-99/pkg/telemetry"
)

// QueueService defines the interface for priority queue business logic
type QueueService interface {
	// Join places userID in the queue. An empty category falls back to
	// the user's profile.
	Join(ctx context.Context, userID, category string) (*dto.QueueEntryResponse, error)

	// Leave removes the caller's own entry
	Leave(ctx context.Context, userID string) error

	// AdminAdd inserts another user, subject to the same capacity rules
	AdminAdd(ctx context.Context, userID, category string) (*dto.QueueEntryResponse, error)

	// Remove deletes an entry by id regardless of owner
	Remove(ctx context.Context, entryID string) (*dto.QueueEntryResponse, error)

	// Clear empties the queue
	Clear(ctx context.Context) error

	// List returns the ordered queue with occupancy counts
	List(ctx context.Context) (*dto.QueueResponse, error)

	// SweepIdle evicts entries idle past the threshold whose user never
	// booked since joining, and notifies each evicted player
	SweepIdle(ctx context.Context) (*dto.SweepResponse, error)
}

// queueService implements QueueService
type queueService struct {
	queueRepo     repository.QueueRepository
	profileRepo   repository.ProfileRepository
	broadcaster   events.Broadcaster
	notifier      Notifier
	metrics       *metrics.Metrics
	policy        domain.CapacityPolicy
	idleThreshold time.Duration
	log           *logger.Logger
	now           func() time.Time
}

// QueueServiceConfig contains configuration for the queue service
type QueueServiceConfig struct {
	Policy        domain.CapacityPolicy
	IdleThreshold time.Duration
}

// NewQueueService creates a new queue service
func NewQueueService(
	queueRepo repository.QueueRepository,
	profileRepo repository.ProfileRepository,
	broadcaster events.Broadcaster,
	notifier Notifier,
	m *metrics.Metrics,
	cfg *QueueServiceConfig,
) QueueService {
	policy := domain.CapacityPolicy{
		Total:       12,
		PerCategory: map[string]int{"A": 6, "B": 6},
	}
	idleThreshold := 2 * time.Hour
	if cfg != nil {
		if cfg.Policy.Total > 0 {
			policy = cfg.Policy
		}
		if cfg.IdleThreshold > 0 {
			idleThreshold = cfg.IdleThreshold
		}
	}
	return &queueService{
		queueRepo:     queueRepo,
		profileRepo:   profileRepo,
		broadcaster:   broadcaster,
		notifier:      notifier,
		metrics:       m,
		policy:        policy,
		idleThreshold: idleThreshold,
		log:           logger.Get().With(zap.String("component", "queue_service")),
		now:           time.Now,
	}
}

func (s *queueService) Join(ctx context.Context, userID, category string) (*dto.QueueEntryResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.queue.join")
	defer span.End()

	span.SetAttributes(attribute.String("user_id", userID))

	entry, err := s.add(ctx, userID, category)
	if err != nil {
		if domain.IsCapacity(err) || errors.Is(err, domain.ErrAlreadyInQueue) {
			s.metrics.QueueDenial(ctx, denialReason(err))
			span.SetStatus(codes.Ok, "")
			return nil, err
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	s.metrics.QueueJoin(ctx, entry.GenderCategory)
	s.broadcaster.Publish(ctx, domain.StateChangedQueue)

	span.SetAttributes(attribute.Int("position", entry.Position))
	span.SetStatus(codes.Ok, "")
	return dto.NewQueueEntryResponse(entry), nil
}

func (s *queueService) AdminAdd(ctx context.Context, userID, category string) (*dto.QueueEntryResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.queue.admin_add")
	defer span.End()

	span.SetAttributes(attribute.String("user_id", userID))

	entry, err := s.add(ctx, userID, category)
	if err != nil {
		if !domain.IsCapacity(err) {
			span.RecordError(err)
		}
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	s.broadcaster.Publish(ctx, domain.StateChangedQueue)
	span.SetStatus(codes.Ok, "")
	return dto.NewQueueEntryResponse(entry), nil
}

// add resolves the category and inserts through the repository, which
// enforces capacity and membership atomically
func (s *queueService) add(ctx context.Context, userID, category string) (*domain.QueueEntry, error) {
	if userID == "" {
		return nil, domain.ErrInvalidUserID
	}
	if category == "" {
		profile, err := s.profileRepo.GetByUserID(ctx, userID)
		if err != nil {
			return nil, err
		}
		category = profile.GenderCategory
	}
	if _, ok := s.policy.PerCategory[category]; !ok {
		return nil, domain.ErrInvalidCategory
	}
	return s.queueRepo.Join(ctx, &domain.QueueEntry{
		UserID:         userID,
		GenderCategory: category,
	}, s.policy)
}

func (s *queueService) Leave(ctx context.Context, userID string) error {
	ctx, span := telemetry.StartSpan(ctx, "service.queue.leave")
	defer span.End()

	span.SetAttributes(attribute.String("user_id", userID))

	if err := s.queueRepo.LeaveByUser(ctx, userID); err != nil {
		if !domain.IsNotFound(err) {
			span.RecordError(err)
		}
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	s.broadcaster.Publish(ctx, domain.StateChangedQueue)
	span.SetStatus(codes.Ok, "")
	return nil
}

func (s *queueService) Remove(ctx context.Context, entryID string) (*dto.QueueEntryResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.queue.remove")
	defer span.End()

	span.SetAttributes(attribute.String("entry_id", entryID))

	removed, err := s.queueRepo.RemoveByID(ctx, entryID)
	if err != nil {
		if !domain.IsNotFound(err) {
			span.RecordError(err)
		}
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	s.broadcaster.Publish(ctx, domain.StateChangedQueue)
	span.SetStatus(codes.Ok, "")
	return dto.NewQueueEntryResponse(removed), nil
}

func (s *queueService) Clear(ctx context.Context) error {
	ctx, span := telemetry.StartSpan(ctx, "service.queue.clear")
	defer span.End()

	if err := s.queueRepo.Clear(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	s.broadcaster.Publish(ctx, domain.StateChangedQueue)
	span.SetStatus(codes.Ok, "")
	return nil
}

func (s *queueService) List(ctx context.Context) (*dto.QueueResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.queue.list")
	defer span.End()

	entries, err := s.queueRepo.ListOrdered(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.Int("count", len(entries)))
	span.SetStatus(codes.Ok, "")
	return dto.NewQueueResponse(entries, s.policy.Total), nil
}

func (s *queueService) SweepIdle(ctx context.Context) (*dto.SweepResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.queue.sweep_idle")
	defer span.End()

	started := s.now()
	cutoff := started.Add(-s.idleThreshold)
	span.SetAttributes(attribute.String("cutoff", cutoff.Format(time.RFC3339)))

	evicted, err := s.queueRepo.SweepIdle(ctx, cutoff)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	s.metrics.QueueEvictions(ctx, len(evicted))
	s.metrics.SweepDuration(ctx, s.now().Sub(started).Seconds())

	if len(evicted) > 0 {
		for _, entry := range evicted {
			s.notifier.Evicted(ctx, entry)
		}
		s.broadcaster.Publish(ctx, domain.StateChangedQueue)
		s.log.Info("evicted idle queue entries",
			zap.Int("count", len(evicted)),
			zap.Duration("idle_threshold", s.idleThreshold))
	}

	span.SetAttributes(attribute.Int("evicted", len(evicted)))
	span.SetStatus(codes.Ok, "")
	return dto.NewSweepResponse(evicted), nil
}

// denialReason labels a capacity error for metrics
func denialReason(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, domain.ErrQueueFull):
		return "queue_full"
	case errors.Is(err, domain.ErrCategoryFull):
		return "category_full"
	case errors.Is(err, domain.ErrAlreadyInQueue):
		return "already_in_queue"
	default:
		return "other"
	}
}

var _ QueueService = (*queueService)(nil)
