package di

import (
	"time"

	"github.com/yayazuqui-hub/court-priority-play-99/internal/domain"
	"github.com/yayazuqui-hub/court-priority-play-99/internal/events"
	"github.com/yayazuqui-hub/court-priority-play-99/internal/handler"
	"github.com/yayazuqui-hub/court-priority-play-99/internal/metrics"
	"github.com/yayazuqui-hub/court-priority-play-99/internal/repository"
	"github.com/yayazuqui-hub/court-priority-play-99/internal/service"
	"github.com/yayazuqui-hub/court-priority-play-99/pkg/database"
	"github.com/yayazuqui-hub/court-priority-play-99/pkg/redis"
)

// Container holds all dependencies for the admission service
type Container struct {
	// Infrastructure
	DB    *database.PostgresDB
	Redis *redis.Client

	// Repositories
	StateRepo    repository.SystemStateRepository
	QueueRepo    repository.QueueRepository
	ScheduleRepo repository.ScheduleRepository
	BookingRepo  repository.BookingRepository
	ProfileRepo  repository.ProfileRepository

	// Cross-cutting
	Broadcaster events.Broadcaster
	Subscriber  events.Subscriber
	Notifier    service.Notifier
	Metrics     *metrics.Metrics

	// Services
	AdmissionService service.AdmissionService
	SystemService    service.SystemService
	QueueService     service.QueueService
	ScheduleService  service.ScheduleService
	BookingService   service.BookingService

	// Handlers
	HealthHandler   *handler.HealthHandler
	SystemHandler   *handler.SystemHandler
	QueueHandler    *handler.QueueHandler
	ScheduleHandler *handler.ScheduleHandler
	BookingHandler  *handler.BookingHandler
	EventsHandler   *handler.EventsHandler
}

// ContainerConfig contains configuration for building the container
type ContainerConfig struct {
	DB          *database.PostgresDB
	Redis       *redis.Client
	Broadcaster events.Broadcaster
	Subscriber  events.Subscriber
	Notifier    service.Notifier
	Metrics     *metrics.Metrics

	CapacityPolicy domain.CapacityPolicy
	TimerDuration  time.Duration
	IdleThreshold  time.Duration
	MatchTolerance time.Duration
	RefireGuard    time.Duration
}

// NewContainer creates a new dependency injection container
func NewContainer(cfg *ContainerConfig) *Container {
	c := &Container{
		DB:          cfg.DB,
		Redis:       cfg.Redis,
		Broadcaster: cfg.Broadcaster,
		Subscriber:  cfg.Subscriber,
		Notifier:    cfg.Notifier,
		Metrics:     cfg.Metrics,
	}

	pool := c.DB.Pool()

	// Repositories
	c.StateRepo = repository.NewPostgresSystemStateRepository(pool)
	c.QueueRepo = repository.NewPostgresQueueRepository(pool)
	c.ScheduleRepo = repository.NewPostgresScheduleRepository(pool)
	c.BookingRepo = repository.NewPostgresBookingRepository(pool)
	c.ProfileRepo = repository.NewPostgresProfileRepository(pool)

	// Services
	c.AdmissionService = service.NewAdmissionService(c.StateRepo, c.QueueRepo, c.Metrics)
	c.SystemService = service.NewSystemService(c.StateRepo, c.Broadcaster, c.Notifier, &service.SystemServiceConfig{
		TimerDuration: cfg.TimerDuration,
	})
	c.QueueService = service.NewQueueService(c.QueueRepo, c.ProfileRepo, c.Broadcaster, c.Notifier, c.Metrics, &service.QueueServiceConfig{
		Policy:        cfg.CapacityPolicy,
		IdleThreshold: cfg.IdleThreshold,
	})
	c.ScheduleService = service.NewScheduleService(c.ScheduleRepo, c.StateRepo, c.Broadcaster, c.Notifier, c.Metrics, &service.ScheduleServiceConfig{
		MatchTolerance: cfg.MatchTolerance,
		RefireGuard:    cfg.RefireGuard,
	})
	c.BookingService = service.NewBookingService(c.BookingRepo, c.AdmissionService, c.Broadcaster)

	// Handlers
	c.HealthHandler = handler.NewHealthHandler(c.DB, c.Redis)
	c.SystemHandler = handler.NewSystemHandler(c.SystemService, c.AdmissionService)
	c.QueueHandler = handler.NewQueueHandler(c.QueueService)
	c.ScheduleHandler = handler.NewScheduleHandler(c.ScheduleService)
	c.BookingHandler = handler.NewBookingHandler(c.BookingService)
	if c.Subscriber != nil {
		c.EventsHandler = handler.NewEventsHandler(c.Subscriber)
	}

	return c
}
