package service

import (
	"context"
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

// ScheduleService manages auto schedule rules and runs the trigger
// evaluation that starts priority windows on time
type ScheduleService interface {
	// CreateRule stores a new rule
	CreateRule(ctx context.Context, createdBy string, req *dto.ScheduleRuleRequest) (*dto.ScheduleRuleResponse, error)

	// GetRule fetches one rule
	GetRule(ctx context.Context, id string) (*dto.ScheduleRuleResponse, error)

	// ListRules returns every rule
	ListRules(ctx context.Context) ([]*dto.ScheduleRuleResponse, error)

	// UpdateRule replaces the mutable fields of a rule
	UpdateRule(ctx context.Context, id string, req *dto.ScheduleRuleRequest) (*dto.ScheduleRuleResponse, error)

	// DeleteRule removes a rule
	DeleteRule(ctx context.Context, id string) error

	// RunCheck evaluates the active rules against the current instant
	// and starts a priority window when one matches and no guard holds.
	// Safe to invoke concurrently from several workers.
	RunCheck(ctx context.Context) (*dto.ScheduleCheckResponse, error)
}

// scheduleService implements ScheduleService
type scheduleService struct {
	scheduleRepo repository.ScheduleRepository
	stateRepo    repository.SystemStateRepository
	broadcaster  events.Broadcaster
	notifier     Notifier
	metrics      *metrics.Metrics
	tolerance    time.Duration
	refireGuard  time.Duration
	log          *logger.Logger
	now          func() time.Time
}

// ScheduleServiceConfig contains configuration for the schedule service
type ScheduleServiceConfig struct {
	// MatchTolerance is the window around a rule's start time in which
	// the current instant counts as a match
	MatchTolerance time.Duration

	// RefireGuard suppresses a second auto start while a window started
	// within this duration
	RefireGuard time.Duration
}

// NewScheduleService creates a new schedule service
func NewScheduleService(
	scheduleRepo repository.ScheduleRepository,
	stateRepo repository.SystemStateRepository,
	broadcaster events.Broadcaster,
	notifier Notifier,
	m *metrics.Metrics,
	cfg *ScheduleServiceConfig,
) ScheduleService {
	tolerance := time.Minute
	refireGuard := time.Hour
	if cfg != nil {
		if cfg.MatchTolerance > 0 {
			tolerance = cfg.MatchTolerance
		}
		if cfg.RefireGuard > 0 {
			refireGuard = cfg.RefireGuard
		}
	}
	return &scheduleService{
		scheduleRepo: scheduleRepo,
		stateRepo:    stateRepo,
		broadcaster:  broadcaster,
		notifier:     notifier,
		metrics:      m,
		tolerance:    tolerance,
		refireGuard:  refireGuard,
		log:          logger.Get().With(zap.String("component", "schedule_service")),
		now:          time.Now,
	}
}

func (s *scheduleService) CreateRule(ctx context.Context, createdBy string, req *dto.ScheduleRuleRequest) (*dto.ScheduleRuleResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.schedule.create_rule")
	defer span.End()

	rule := ruleFromRequest(req)
	rule.CreatedBy = createdBy
	if err := rule.Validate(); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	created, err := s.scheduleRepo.Create(ctx, rule)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	s.log.Info("schedule rule created",
		zap.String("rule_id", created.ID),
		zap.Int("day_of_week", created.DayOfWeek),
		zap.String("start_time", created.StartTime))

	span.SetStatus(codes.Ok, "")
	return dto.NewScheduleRuleResponse(created), nil
}

func (s *scheduleService) GetRule(ctx context.Context, id string) (*dto.ScheduleRuleResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.schedule.get_rule")
	defer span.End()

	rule, err := s.scheduleRepo.GetByID(ctx, id)
	if err != nil {
		if !domain.IsNotFound(err) {
			span.RecordError(err)
		}
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetStatus(codes.Ok, "")
	return dto.NewScheduleRuleResponse(rule), nil
}

func (s *scheduleService) ListRules(ctx context.Context) ([]*dto.ScheduleRuleResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.schedule.list_rules")
	defer span.End()

	rules, err := s.scheduleRepo.List(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	resp := make([]*dto.ScheduleRuleResponse, 0, len(rules))
	for _, rule := range rules {
		resp = append(resp, dto.NewScheduleRuleResponse(rule))
	}

	span.SetAttributes(attribute.Int("count", len(resp)))
	span.SetStatus(codes.Ok, "")
	return resp, nil
}

func (s *scheduleService) UpdateRule(ctx context.Context, id string, req *dto.ScheduleRuleRequest) (*dto.ScheduleRuleResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.schedule.update_rule")
	defer span.End()

	span.SetAttributes(attribute.String("rule_id", id))

	rule := ruleFromRequest(req)
	rule.ID = id
	if err := rule.Validate(); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	updated, err := s.scheduleRepo.Update(ctx, rule)
	if err != nil {
		if !domain.IsNotFound(err) {
			span.RecordError(err)
		}
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetStatus(codes.Ok, "")
	return dto.NewScheduleRuleResponse(updated), nil
}

func (s *scheduleService) DeleteRule(ctx context.Context, id string) error {
	ctx, span := telemetry.StartSpan(ctx, "service.schedule.delete_rule")
	defer span.End()

	span.SetAttributes(attribute.String("rule_id", id))

	if err := s.scheduleRepo.Delete(ctx, id); err != nil {
		if !domain.IsNotFound(err) {
			span.RecordError(err)
		}
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	span.SetStatus(codes.Ok, "")
	return nil
}

func (s *scheduleService) RunCheck(ctx context.Context) (*dto.ScheduleCheckResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.schedule.run_check")
	defer span.End()

	now := s.now()
	rules, err := s.scheduleRepo.ListActiveForDay(ctx, int(now.Weekday()))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	var matched *domain.AutoScheduleRule
	for _, rule := range rules {
		if rule.MatchesAt(now, s.tolerance) {
			matched = rule
			break
		}
	}
	if matched == nil {
		span.SetStatus(codes.Ok, "")
		return &dto.ScheduleCheckResponse{Started: false, Reason: "no matching rule"}, nil
	}

	span.SetAttributes(attribute.String("rule_id", matched.ID))

	started, _, err := s.stateRepo.TryAutoStart(ctx, now, s.refireGuard)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if !started {
		// A mode is already active or a window started too recently
		span.SetStatus(codes.Ok, "")
		return &dto.ScheduleCheckResponse{
			Started:       false,
			MatchedRuleID: matched.ID,
			Reason:        "guard held",
		}, nil
	}

	s.log.Info("priority window auto started",
		zap.String("rule_id", matched.ID),
		zap.String("start_time", matched.StartTime))

	s.metrics.TriggerFire(ctx)
	s.broadcaster.Publish(ctx, domain.StateChangedSystem)
	s.notifier.WindowOpened(ctx, now)

	span.SetAttributes(attribute.Bool("started", true))
	span.SetStatus(codes.Ok, "")
	return &dto.ScheduleCheckResponse{Started: true, MatchedRuleID: matched.ID}, nil
}

// ruleFromRequest maps the request body onto a domain rule, defaulting
// is_active to true when omitted
func ruleFromRequest(req *dto.ScheduleRuleRequest) *domain.AutoScheduleRule {
	rule := &domain.AutoScheduleRule{
		StartTime: req.StartTime,
		IsActive:  true,
	}
	if req.DayOfWeek != nil {
		rule.DayOfWeek = *req.DayOfWeek
	} else {
		rule.DayOfWeek = -1
	}
	if req.IsActive != nil {
		rule.IsActive = *req.IsActive
	}
	return rule
}

var _ ScheduleService = (*scheduleService)(nil)
