package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yayazuqui-hub/court-priority-play-99/internal/di"
	"github.com/yayazuqui-hub/court-priority-play-99/internal/domain"
	"github.com/yayazuqui-hub/court-priority-play-99/internal/events"
	"github.com/yayazuqui-hub/court-priority-play-99/internal/metrics"
	"github.com/yayazuqui-hub/court-priority-play-99/internal/repository"
	"github.com/yayazuqui-hub/court-priority-play-99/internal/service"
	"github.com/yayazuqui-hub/court-priority-play-99/pkg/config"
	"github.com/yayazuqui-hub/court-priority-play-99/pkg/database"
	"github.com/yayazuqui-hub/court-priority-play-99/pkg/kafka"
	"github.com/yayazuqui-hub/court-priority-play-99/pkg/logger"
	"github.com/yayazuqui-hub/court-priority-play-99/pkg/middleware"
	pkgredis "github.com/yayazuqui-hub/court-priority-play-99/pkg/redis"
	"github.com/yayazuqui-hub/court-priority-play-99/pkg/telemetry"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Init(&logger.Config{
		Level:       "info",
		ServiceName: cfg.App.Name,
		Development: cfg.IsDevelopment(),
	}); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	appLog := logger.Get()
	appLog.Info("starting admission API",
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment))

	ctx := context.Background()

	if _, err := telemetry.Init(ctx, &telemetry.Config{
		Enabled:        cfg.OTel.Enabled,
		ServiceName:    cfg.OTel.ServiceName,
		ServiceVersion: cfg.App.Version,
		Environment:    cfg.App.Environment,
		CollectorAddr:  cfg.OTel.CollectorAddr,
		SampleRatio:    cfg.OTel.SampleRatio,
	}); err != nil {
		appLog.Fatal("failed to initialize telemetry", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = telemetry.Shutdown(shutdownCtx)
	}()

	db, err := database.NewPostgres(ctx, &database.PostgresConfig{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		Database:        cfg.Database.DBName,
		SSLMode:         cfg.Database.SSLMode,
		MaxConns:        cfg.Database.MaxConns,
		MinConns:        cfg.Database.MinConns,
		MaxConnLifetime: cfg.Database.ConnMaxLifetime,
		MaxConnIdleTime: cfg.Database.ConnMaxIdleTime,
		ConnectTimeout:  5 * time.Second,
		MaxRetries:      3,
		RetryInterval:   time.Second,
		EnableTracing:   cfg.OTel.Enabled,
	})
	if err != nil {
		appLog.Fatal("database connection failed", zap.Error(err))
	}
	defer db.Close()
	appLog.Info("database connected")

	redisClient, err := pkgredis.NewClient(ctx, &pkgredis.Config{
		Host:          cfg.Redis.Host,
		Port:          cfg.Redis.Port,
		Password:      cfg.Redis.Password,
		DB:            cfg.Redis.DB,
		PoolSize:      cfg.Redis.PoolSize,
		MinIdleConns:  cfg.Redis.MinIdleConns,
		DialTimeout:   cfg.Redis.DialTimeout,
		ReadTimeout:   cfg.Redis.ReadTimeout,
		WriteTimeout:  cfg.Redis.WriteTimeout,
		MaxRetries:    3,
		RetryInterval: time.Second,
	})
	if err != nil {
		appLog.Fatal("redis connection failed", zap.Error(err))
	}
	defer redisClient.Close()
	appLog.Info("redis connected")

	broadcaster := events.NewRedisBroadcaster(redisClient, "")

	var notifier service.Notifier
	producer, err := kafka.NewProducer(ctx, &kafka.ProducerConfig{
		Brokers:  cfg.Kafka.Brokers,
		ClientID: cfg.Kafka.ClientID,
	})
	if err != nil {
		appLog.Warn("kafka connection failed, notifications disabled", zap.Error(err))
		notifier = service.NoopNotifier{}
	} else {
		defer producer.Close()
		notifier = service.NewKafkaNotifier(producer, cfg.Kafka.NotificationTopic,
			repository.NewPostgresProfileRepository(db.Pool()))
		appLog.Info("kafka producer connected")
	}

	m, err := metrics.New()
	if err != nil {
		appLog.Fatal("failed to create metrics", zap.Error(err))
	}

	capacities, err := cfg.Admission.Capacities()
	if err != nil {
		appLog.Fatal("invalid capacity configuration", zap.Error(err))
	}

	container := di.NewContainer(&di.ContainerConfig{
		DB:          db,
		Redis:       redisClient,
		Broadcaster: broadcaster,
		Subscriber:  broadcaster,
		Notifier:    notifier,
		Metrics:     m,
		CapacityPolicy: domain.CapacityPolicy{
			Total:       cfg.Admission.QueueCapacity,
			PerCategory: capacities,
		},
		TimerDuration:  cfg.Admission.TimerDuration,
		IdleThreshold:  cfg.Sweeper.IdleThreshold,
		MatchTolerance: cfg.Schedule.MatchTolerance,
		RefireGuard:    cfg.Schedule.RefireGuard,
	})

	// Ensure the singleton state row exists before serving traffic
	if err := container.SystemService.Bootstrap(ctx); err != nil {
		appLog.Fatal("failed to bootstrap system state", zap.Error(err))
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	if cfg.OTel.Enabled {
		router.Use(telemetry.TracingMiddleware(cfg.OTel.ServiceName))
	}

	router.GET("/health", container.HealthHandler.Health)
	router.GET("/ready", container.HealthHandler.Ready)

	auth := middleware.Auth(&middleware.AuthConfig{
		Secret: cfg.JWT.Secret,
		Issuer: cfg.JWT.Issuer,
	})
	idempotency := middleware.Idempotency(middleware.DefaultIdempotencyConfig(redisClient.Client()))

	v1 := router.Group("/api/v1")
	{
		v1.GET("/system/state", auth, container.SystemHandler.GetState)

		if container.EventsHandler != nil {
			v1.GET("/events/stream", container.EventsHandler.Stream)
		}

		queue := v1.Group("/queue")
		queue.Use(auth)
		{
			queue.GET("", container.QueueHandler.List)
			queue.POST("/join", idempotency, container.QueueHandler.Join)
			queue.DELETE("/leave", container.QueueHandler.Leave)
		}

		bookings := v1.Group("/bookings")
		bookings.Use(auth)
		{
			bookings.GET("", container.BookingHandler.List)
			bookings.POST("", idempotency, container.BookingHandler.Create)
			bookings.DELETE("/:id", container.BookingHandler.Delete)
		}

		admin := v1.Group("/admin")
		admin.Use(auth, middleware.RequireAdmin())
		{
			admin.POST("/system/priority", container.SystemHandler.StartPriority)
			admin.POST("/system/open", container.SystemHandler.OpenForAll)
			admin.POST("/system/pause", container.SystemHandler.Pause)

			admin.POST("/queue/entries", container.QueueHandler.AdminAdd)
			admin.DELETE("/queue/entries/:id", container.QueueHandler.AdminRemove)
			admin.DELETE("/queue", container.QueueHandler.AdminClear)
			admin.POST("/queue/sweep", container.QueueHandler.AdminSweep)

			admin.GET("/schedules", container.ScheduleHandler.List)
			admin.POST("/schedules", container.ScheduleHandler.Create)
			admin.GET("/schedules/:id", container.ScheduleHandler.Get)
			admin.PUT("/schedules/:id", container.ScheduleHandler.Update)
			admin.DELETE("/schedules/:id", container.ScheduleHandler.Delete)
			admin.POST("/schedules/check", container.ScheduleHandler.Check)

			admin.DELETE("/bookings", container.BookingHandler.AdminDeleteAll)
		}
	}

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// pprof on a side port, kept off the main router
	go func() {
		pprofAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port+1000)
		appLog.Info("pprof server listening", zap.String("addr", pprofAddr))
		if err := http.ListenAndServe(pprofAddr, nil); err != nil {
			appLog.Error("pprof server error", zap.Error(err))
		}
	}()

	go func() {
		appLog.Info("admission API listening", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLog.Fatal("failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLog.Error("server forced to shutdown", zap.Error(err))
	}
	appLog.Info("server stopped")
}
