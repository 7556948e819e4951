package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/yayazuqui-hub/court-priority-play-99/internal/domain"
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
		ServiceName: "queue-sweeper",
		Development: cfg.IsDevelopment(),
	}); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	appLog := logger.Get()
	appLog.Info("starting queue sweeper")

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

	queueRepo := repository.NewPostgresQueueRepository(db.Pool())
	profileRepo := repository.NewPostgresProfileRepository(db.Pool())

	var notifier service.Notifier
	producer, err := kafka.NewProducer(ctx, &kafka.ProducerConfig{
		Brokers:  cfg.Kafka.Brokers,
		ClientID: "queue-sweeper",
	})
	if err != nil {
		appLog.Warn("kafka connection failed, notifications disabled", zap.Error(err))
		notifier = service.NoopNotifier{}
	} else {
		defer producer.Close()
		notifier = service.NewKafkaNotifier(producer, cfg.Kafka.NotificationTopic, profileRepo)
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

	queueService := service.NewQueueService(
		queueRepo, profileRepo, broadcaster, notifier, m,
		&service.QueueServiceConfig{
			Policy: domain.CapacityPolicy{
				Total:       cfg.Admission.QueueCapacity,
				PerCategory: capacities,
			},
			IdleThreshold: cfg.Sweeper.IdleThreshold,
		},
	)

	sweeper := worker.NewQueueSweeper(queueService, &worker.QueueSweeperConfig{
		SweepInterval: cfg.Sweeper.Interval,
	})
	if err := sweeper.Start(ctx); err != nil {
		appLog.Fatal("failed to start queue sweeper", zap.Error(err))
	}
	appLog.Info("queue sweeper started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLog.Info("shutting down queue sweeper")

	sweeper.Stop()
	appLog.Info("queue sweeper stopped")
}
