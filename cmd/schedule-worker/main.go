package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/yayazuqui-hub/court-priority-play-99/internal/events"
	"github.com/yayazuqui-hub/court-priority-play-99/internal/metrics"
	"github.com/yayazuqui-hub/court-priority-play-99/internal/repository"
	"github.com/yayazuqui-hub/court-priority-play-99/internal/service"
	"github.com/yayazuqui-hub/court-priority-play-99/internal/worker"
	"github.com/yayazuqui-hub/court-priority-play-99/pkg/config"
	"github.com/yayazuqui-hub/court-priority-play-99/pkg/database"
	"github.com/yayazuqui-hub/court-priority-play-99/pkg/kafka"
	"github.com/yayazuqui-hub/court-priority-play-99/pkg/logger"
	pkgredis "github.com/yayazuqui-hub/court-priority-play-99/pkg/redis"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Init(&logger.Config{
		Level:       "info",
		ServiceName: "schedule-worker",
		Development: cfg.IsDevelopment(),
	}); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	appLog := logger.Get()
	appLog.Info("starting schedule worker")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := database.NewPostgres(ctx, &database.PostgresConfig{
		Host:          cfg.Database.Host,
		Port:          cfg.Database.Port,
		User:          cfg.Database.User,
		Password:      cfg.Database.Password,
		Database:      cfg.Database.DBName,
		SSLMode:       cfg.Database.SSLMode,
		MaxConns:      10,
		MinConns:      2,
		MaxRetries:    3,
		RetryInterval: 2 * time.Second,
	})
	if err != nil {
		appLog.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()
	appLog.Info("database connected")

	redisClient, err := pkgredis.NewClient(ctx, &pkgredis.Config{
		Host:          cfg.Redis.Host,
		Port:          cfg.Redis.Port,
		Password:      cfg.Redis.Password,
		DB:            cfg.Redis.DB,
		MaxRetries:    3,
		RetryInterval: 2 * time.Second,
	})
	if err != nil {
		appLog.Fatal("failed to connect to redis", zap.Error(err))
	}
	defer redisClient.Close()
	appLog.Info("redis connected")

	broadcaster := events.NewRedisBroadcaster(redisClient, "")

	var notifier service.Notifier
	producer, err := kafka.NewProducer(ctx, &kafka.ProducerConfig{
		Brokers:  cfg.Kafka.Brokers,
		ClientID: "schedule-worker",
	})
	if err != nil {
		appLog.Warn("kafka connection failed, notifications disabled", zap.Error(err))
		notifier = service.NoopNotifier{}
	} else {
		defer producer.Close()
		notifier = service.NewKafkaNotifier(producer, cfg.Kafka.NotificationTopic, nil)
		appLog.Info("kafka producer connected")
	}

	m, err := metrics.New()
	if err != nil {
		appLog.Fatal("failed to create metrics", zap.Error(err))
	}

	stateRepo := repository.NewPostgresSystemStateRepository(db.Pool())
	scheduleRepo := repository.NewPostgresScheduleRepository(db.Pool())

	scheduleService := service.NewScheduleService(
		scheduleRepo, stateRepo, broadcaster, notifier, m,
		&service.ScheduleServiceConfig{
			MatchTolerance: cfg.Schedule.MatchTolerance,
			RefireGuard:    cfg.Schedule.RefireGuard,
		},
	)

	trigger := worker.NewScheduleTrigger(scheduleService, &worker.ScheduleTriggerConfig{
		CheckInterval: cfg.Schedule.CheckInterval,
	})
	if err := trigger.Start(ctx); err != nil {
		appLog.Fatal("failed to start schedule trigger", zap.Error(err))
	}
	appLog.Info("schedule worker started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLog.Info("shutting down schedule worker")

	trigger.Stop()
	appLog.Info("schedule worker stopped")
}
