package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/yayazuqui-hub/court-priority-play-99/internal/dto"
	"github.com/yayazuqui-hub/court-priority-play-99/internal/service"
	"github.com/yayazuqui-hub/court-priority-play-99/pkg/logger"
	"github.com/yayazuqui-hub/court-priority-play-99/pkg/retry"
)

// QueueSweeperConfig contains configuration for the queue sweeper
type QueueSweeperConfig struct {
	// SweepInterval is the interval between idle sweeps
	SweepInterval time.Duration
}

// DefaultQueueSweeperConfig returns default configuration
func DefaultQueueSweeperConfig() *QueueSweeperConfig {
	return &QueueSweeperConfig{
		SweepInterval: 10 * time.Minute,
	}
}

// QueueSweeper periodically evicts idle queue entries. Eviction
// semantics live in the queue service; this worker only keeps time.
type QueueSweeper struct {
	queueService service.QueueService
	config       *QueueSweeperConfig
	log          *logger.Logger
	stopCh       chan struct{}
	wg           sync.WaitGroup
	mu           sync.Mutex
	running      bool

	totalEvicted int64
	lastSweep    time.Time
}

// NewQueueSweeper creates a new queue sweeper
func NewQueueSweeper(queueService service.QueueService, config *QueueSweeperConfig) *QueueSweeper {
	if config == nil {
		config = DefaultQueueSweeperConfig()
	}
	return &QueueSweeper{
		queueService: queueService,
		config:       config,
		log:          logger.Get().With(zap.String("component", "queue_sweeper")),
		stopCh:       make(chan struct{}),
	}
}

// Start starts the queue sweeper
func (w *QueueSweeper) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return fmt.Errorf("queue sweeper already running")
	}
	w.running = true
	w.mu.Unlock()

	w.log.Info("starting queue sweeper",
		zap.Duration("sweep_interval", w.config.SweepInterval))

	w.wg.Add(1)
	go w.run(ctx)

	return nil
}

// Stop stops the queue sweeper and waits for the loop to exit
func (w *QueueSweeper) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	w.mu.Unlock()

	w.log.Info("stopping queue sweeper")
	close(w.stopCh)
	w.wg.Wait()
	w.log.Info("queue sweeper stopped", zap.Int64("total_evicted", w.totalEvicted))
}

func (w *QueueSweeper) run(ctx context.Context) {
	defer w.wg.Done()

	ticker := time.NewTicker(w.config.SweepInterval)
	defer ticker.Stop()

	w.sweep(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case <-ticker.C:
			w.sweep(ctx)
		}
	}
}

func (w *QueueSweeper) sweep(ctx context.Context) {
	// SweepIdle is idempotent, so a transient failure gets one retry
	var result *dto.SweepResponse
	err := retry.Do(ctx, retry.OnceConfig(), func(ctx context.Context) error {
		var err error
		result, err = w.queueService.SweepIdle(ctx)
		return err
	})
	if err != nil {
		w.log.Error("queue sweep failed", zap.Error(err))
		return
	}

	w.mu.Lock()
	w.totalEvicted += int64(result.EvictedCount)
	w.lastSweep = time.Now()
	w.mu.Unlock()

	if result.EvictedCount > 0 {
		w.log.Info("queue sweep complete", zap.Int("evicted", result.EvictedCount))
	}
}
