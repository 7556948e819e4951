package service

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"github.com/yayazuqui-hub/court-priority-play-99/internal/domain"
	"github.com/yayazuqui-hub/court-priority-play-99/internal/dto"
	"github.com/yayazuqui-hub/court-priority-play-99/internal/events"
	"github.com/yayazuqui-hub/court-priority-play-99/internal/repository"
	"github.com/yayazuqui-hub/court-priority-play-99/pkg/logger"
	"github.com/yayazuqui-hub/court-priority-play-99/pkg/telemetry"
)

// SystemService owns the mode transitions of the booking system
type SystemService interface {
	// Bootstrap ensures the singleton state row exists. Called once at
	// startup; safe to call concurrently from several instances.
	Bootstrap(ctx context.Context) error

	// StartPriorityWindow switches to priority mode and anchors the
	// timer at the current instant
	StartPriorityWindow(ctx context.Context) (*dto.SystemStateResponse, error)

	// OpenForAll switches to open mode, clearing priority
	OpenForAll(ctx context.Context) (*dto.SystemStateResponse, error)

	// Pause clears both flags, closing booking for everyone
	Pause(ctx context.Context) (*dto.SystemStateResponse, error)
}

// systemService implements SystemService
type systemService struct {
	stateRepo     repository.SystemStateRepository
	broadcaster   events.Broadcaster
	notifier      Notifier
	timerDuration time.Duration
	log           *logger.Logger
	now           func() time.Time
}

// SystemServiceConfig contains configuration for the system service
type SystemServiceConfig struct {
	TimerDuration time.Duration
}

// NewSystemService creates a new system service
func NewSystemService(
	stateRepo repository.SystemStateRepository,
	broadcaster events.Broadcaster,
	notifier Notifier,
	cfg *SystemServiceConfig,
) SystemService {
	timerDuration := 10 * time.Minute
	if cfg != nil && cfg.TimerDuration > 0 {
		timerDuration = cfg.TimerDuration
	}
	return &systemService{
		stateRepo:     stateRepo,
		broadcaster:   broadcaster,
		notifier:      notifier,
		timerDuration: timerDuration,
		log:           logger.Get().With(zap.String("component", "system_service")),
		now:           time.Now,
	}
}

func (s *systemService) Bootstrap(ctx context.Context) error {
	ctx, span := telemetry.StartSpan(ctx, "service.system.bootstrap")
	defer span.End()

	if _, err := s.stateRepo.Bootstrap(ctx, s.timerDuration); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	span.SetStatus(codes.Ok, "")
	return nil
}

func (s *systemService) StartPriorityWindow(ctx context.Context) (*dto.SystemStateResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.system.start_priority_window")
	defer span.End()

	now := s.now()
	state, err := s.stateRepo.StartPriorityWindow(ctx, now)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	s.log.Info("priority window started",
		zap.Time("started_at", now),
		zap.Duration("duration", state.PriorityTimerDuration))

	s.broadcaster.Publish(ctx, domain.StateChangedSystem)
	s.notifier.WindowOpened(ctx, now)

	span.SetStatus(codes.Ok, "")
	return dto.NewSystemStateResponse(state, false, now), nil
}

func (s *systemService) OpenForAll(ctx context.Context) (*dto.SystemStateResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.system.open_for_all")
	defer span.End()

	state, err := s.stateRepo.OpenForAll(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	s.log.Info("booking opened for all")
	s.broadcaster.Publish(ctx, domain.StateChangedSystem)
	s.notifier.OpenedForAll(ctx)

	span.SetStatus(codes.Ok, "")
	return dto.NewSystemStateResponse(state, true, s.now()), nil
}

func (s *systemService) Pause(ctx context.Context) (*dto.SystemStateResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.system.pause")
	defer span.End()

	state, err := s.stateRepo.Pause(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	s.log.Info("booking paused")
	s.broadcaster.Publish(ctx, domain.StateChangedSystem)

	span.SetStatus(codes.Ok, "")
	return dto.NewSystemStateResponse(state, false, s.now()), nil
}

var _ SystemService = (*systemService)(nil)
