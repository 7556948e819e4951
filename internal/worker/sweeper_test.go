package worker

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/yayazuqui-hub/court-priority-play-99/internal/dto"
	"github.com/yayazuqui-hub/court-priority-play-99/internal/service"
)

// stubQueueService overrides SweepIdle; everything else panics
type stubQueueService struct {
	service.QueueService
	sweepIdle func(ctx context.Context) (*dto.SweepResponse, error)
}

func (s *stubQueueService) SweepIdle(ctx context.Context) (*dto.SweepResponse, error) {
	return s.sweepIdle(ctx)
}

func TestDefaultQueueSweeperConfig(t *testing.T) {
	cfg := DefaultQueueSweeperConfig()
	assert.Equal(t, 10*time.Minute, cfg.SweepInterval)
}

func TestQueueSweeper_Sweep(t *testing.T) {
	t.Run("accumulates eviction count", func(t *testing.T) {
		svc := &stubQueueService{
			sweepIdle: func(ctx context.Context) (*dto.SweepResponse, error) {
				return &dto.SweepResponse{
					EvictedCount: 2,
					Evicted: []*dto.QueueEntryResponse{
						{ID: "e1", UserID: "u1", Position: 1},
						{ID: "e2", UserID: "u2", Position: 2},
					},
				}, nil
			},
		}
		sweeper := NewQueueSweeper(svc, nil)

		sweeper.sweep(context.Background())
		sweeper.sweep(context.Background())

		sweeper.mu.Lock()
		defer sweeper.mu.Unlock()
		assert.Equal(t, int64(4), sweeper.totalEvicted)
		assert.False(t, sweeper.lastSweep.IsZero())
	})

	t.Run("failed sweep leaves stats untouched", func(t *testing.T) {
		svc := &stubQueueService{
			sweepIdle: func(ctx context.Context) (*dto.SweepResponse, error) {
				return nil, assert.AnError
			},
		}
		sweeper := NewQueueSweeper(svc, nil)

		sweeper.sweep(context.Background())

		sweeper.mu.Lock()
		defer sweeper.mu.Unlock()
		assert.Equal(t, int64(0), sweeper.totalEvicted)
		assert.True(t, sweeper.lastSweep.IsZero())
	})
}

func TestQueueSweeper_StartStop(t *testing.T) {
	svc := &stubQueueService{
		sweepIdle: func(ctx context.Context) (*dto.SweepResponse, error) {
			return &dto.SweepResponse{EvictedCount: 0, Evicted: nil}, nil
		},
	}
	sweeper := NewQueueSweeper(svc, &QueueSweeperConfig{SweepInterval: time.Hour})

	assert.NoError(t, sweeper.Start(context.Background()))
	assert.Error(t, sweeper.Start(context.Background()))
	sweeper.Stop()
	assert.NotPanics(t, sweeper.Stop)
}
