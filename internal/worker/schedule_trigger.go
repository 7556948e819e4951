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

// ScheduleTriggerConfig contains configuration for the schedule trigger
type ScheduleTriggerConfig struct {
	// CheckInterval is the interval between rule evaluations. It must
	// stay below twice the match tolerance or a start time can slip
	// between two ticks unmatched.
	CheckInterval time.Duration
}

// DefaultScheduleTriggerConfig returns default configuration
func DefaultScheduleTriggerConfig() *ScheduleTriggerConfig {
	return &ScheduleTriggerConfig{
		CheckInterval: 30 * time.Second,
	}
}

// ScheduleTrigger periodically evaluates the auto schedule rules and
// starts priority windows. Several instances may run at once; the
// guarded transition in the service keeps starts exactly-once.
type ScheduleTrigger struct {
	scheduleService service.ScheduleService
	config          *ScheduleTriggerConfig
	log             *logger.Logger
	stopCh          chan struct{}
	wg              sync.WaitGroup
	mu              sync.Mutex
	running         bool
}

// NewScheduleTrigger creates a new schedule trigger
func NewScheduleTrigger(scheduleService service.ScheduleService, config *ScheduleTriggerConfig) *ScheduleTrigger {
	if config == nil {
		config = DefaultScheduleTriggerConfig()
	}
	return &ScheduleTrigger{
		scheduleService: scheduleService,
		config:          config,
		log:             logger.Get().With(zap.String("component", "schedule_trigger")),
		stopCh:          make(chan struct{}),
	}
}

// Start starts the schedule trigger
func (w *ScheduleTrigger) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return fmt.Errorf("schedule trigger already running")
	}
	w.running = true
	w.mu.Unlock()

	w.log.Info("starting schedule trigger",
		zap.Duration("check_interval", w.config.CheckInterval))

	w.wg.Add(1)
	go w.run(ctx)

	return nil
}

// Stop stops the schedule trigger and waits for the loop to exit
func (w *ScheduleTrigger) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	w.mu.Unlock()

	w.log.Info("stopping schedule trigger")
	close(w.stopCh)
	w.wg.Wait()
	w.log.Info("schedule trigger stopped")
}

func (w *ScheduleTrigger) run(ctx context.Context) {
	defer w.wg.Done()

	ticker := time.NewTicker(w.config.CheckInterval)
	defer ticker.Stop()

	// Evaluate immediately so a restart inside a match window still fires
	w.check(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case <-ticker.C:
			w.check(ctx)
		}
	}
}

func (w *ScheduleTrigger) check(ctx context.Context) {
	// RunCheck is idempotent, so a transient failure gets one retry
	var result *dto.ScheduleCheckResponse
	err := retry.Do(ctx, retry.OnceConfig(), func(ctx context.Context) error {
		var err error
		result, err = w.scheduleService.RunCheck(ctx)
		return err
	})
	if err != nil {
		w.log.Error("schedule check failed", zap.Error(err))
		return
	}
	if result.Started {
		w.log.Info("schedule check started priority window",
			zap.String("rule_id", result.MatchedRuleID))
	}
}
