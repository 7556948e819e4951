package service

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/yayazuqui-hub/court-priority-play-99/internal/domain"
	"github.com/yayazuqui-hub/court-priority-play-99/internal/dto"
	"github.com/yayazuqui-hub/court-priority-play-99/internal/metrics"
	"github.com/yayazuqui-hub/court-priority-play-99/internal/repository"
	"github.com/yayazuqui-hub/court-priority-play-99/pkg/telemetry"
)

// AdmissionService decides whether a user may book right now. It never
// mutates system state: window expiry is a fact derived from the clock
// at read time, not a stored transition.
type AdmissionService interface {
	// CanBook reports whether userID may create a booking at this instant
	CanBook(ctx context.Context, userID string) (bool, error)

	// CheckBooking is CanBook returning the denial as a domain error
	// instead of a bool, for callers that gate an operation
	CheckBooking(ctx context.Context, userID string) error

	// TimeRemaining returns how long the current priority window has
	// left, clamped at zero
	TimeRemaining(ctx context.Context) (time.Duration, error)

	// StateView builds the client-facing state snapshot for userID
	StateView(ctx context.Context, userID string) (*dto.SystemStateResponse, error)
}

// admissionService implements AdmissionService
type admissionService struct {
	stateRepo repository.SystemStateRepository
	queueRepo repository.QueueRepository
	metrics   *metrics.Metrics
	now       func() time.Time
}

// NewAdmissionService creates a new admission service
func NewAdmissionService(
	stateRepo repository.SystemStateRepository,
	queueRepo repository.QueueRepository,
	m *metrics.Metrics,
) AdmissionService {
	return &admissionService{
		stateRepo: stateRepo,
		queueRepo: queueRepo,
		metrics:   m,
		now:       time.Now,
	}
}

func (s *admissionService) CanBook(ctx context.Context, userID string) (bool, error) {
	err := s.CheckBooking(ctx, userID)
	if err == nil {
		return true, nil
	}
	if domain.IsDenial(err) {
		return false, nil
	}
	return false, err
}

func (s *admissionService) CheckBooking(ctx context.Context, userID string) error {
	ctx, span := telemetry.StartSpan(ctx, "service.admission.check_booking")
	defer span.End()

	span.SetAttributes(attribute.String("user_id", userID))

	state, err := s.stateRepo.Get(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	err = s.check(ctx, state, userID)
	if err != nil && !domain.IsDenial(err) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	s.metrics.AdmissionCheck(ctx, err == nil)
	span.SetAttributes(attribute.Bool("allowed", err == nil))
	span.SetStatus(codes.Ok, "")
	return err
}

// check applies the admission rules against a loaded state snapshot
func (s *admissionService) check(ctx context.Context, state *domain.SystemState, userID string) error {
	switch state.Mode() {
	case domain.ModeOpenForAll:
		return nil
	case domain.ModePaused:
		return domain.ErrSystemPaused
	}

	// Priority mode: only queue members inside the window may book
	inQueue, err := s.queueRepo.Contains(ctx, userID)
	if err != nil {
		return err
	}
	if !inQueue {
		return domain.ErrNotInQueue
	}
	if state.WindowExpired(s.now()) {
		return domain.ErrWindowExpired
	}
	return nil
}

func (s *admissionService) TimeRemaining(ctx context.Context) (time.Duration, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.admission.time_remaining")
	defer span.End()

	state, err := s.stateRepo.Get(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return 0, err
	}

	remaining := state.TimeRemaining(s.now())
	span.SetAttributes(attribute.Int64("remaining_ms", remaining.Milliseconds()))
	span.SetStatus(codes.Ok, "")
	return remaining, nil
}

func (s *admissionService) StateView(ctx context.Context, userID string) (*dto.SystemStateResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.admission.state_view")
	defer span.End()

	state, err := s.stateRepo.Get(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	canBook := false
	if userID != "" {
		denied := s.check(ctx, state, userID)
		if denied != nil && !domain.IsDenial(denied) {
			span.RecordError(denied)
			span.SetStatus(codes.Error, denied.Error())
			return nil, denied
		}
		canBook = denied == nil
	}

	span.SetStatus(codes.Ok, "")
	return dto.NewSystemStateResponse(state, canBook, s.now()), nil
}

var _ AdmissionService = (*admissionService)(nil)
