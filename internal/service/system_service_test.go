package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/yayazuqui-hub/court-priority-play-99/internal/domain"
	"github.com/yayazuqui-hub/court-priority-play-99/pkg/logger"
)

func newTestSystemService(stateRepo *MockSystemStateRepository, broadcaster *MockBroadcaster, notifier *MockNotifier, now time.Time) *systemService {
	return &systemService{
		stateRepo:     stateRepo,
		broadcaster:   broadcaster,
		notifier:      notifier,
		timerDuration: 10 * time.Minute,
		log:           logger.Get(),
		now:           fixedClock(now),
	}
}

func TestSystemService_StartPriorityWindow(t *testing.T) {
	now := time.Date(2026, 3, 18, 19, 30, 0, 0, time.UTC)
	stateRepo := new(MockSystemStateRepository)
	broadcaster := new(MockBroadcaster)
	notifier := new(MockNotifier)

	stateRepo.On("StartPriorityWindow", mock.Anything, now).Return(&domain.SystemState{
		IsPriorityMode:         true,
		PriorityTimerStartedAt: &now,
		PriorityTimerDuration:  10 * time.Minute,
	}, nil)
	broadcaster.On("Publish", mock.Anything, domain.StateChangedSystem).Return()
	notifier.On("WindowOpened", mock.Anything, now).Return()

	svc := newTestSystemService(stateRepo, broadcaster, notifier, now)

	state, err := svc.StartPriorityWindow(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, "priority", state.Mode)
	assert.Equal(t, int64(600), state.TimeRemainingSeconds)
	broadcaster.AssertCalled(t, "Publish", mock.Anything, domain.StateChangedSystem)
	notifier.AssertCalled(t, "WindowOpened", mock.Anything, now)
}

func TestSystemService_OpenForAll(t *testing.T) {
	stateRepo := new(MockSystemStateRepository)
	broadcaster := new(MockBroadcaster)
	notifier := new(MockNotifier)

	stateRepo.On("OpenForAll", mock.Anything).Return(&domain.SystemState{IsOpenForAll: true}, nil)
	broadcaster.On("Publish", mock.Anything, domain.StateChangedSystem).Return()
	notifier.On("OpenedForAll", mock.Anything).Return()

	svc := newTestSystemService(stateRepo, broadcaster, notifier, time.Now())

	state, err := svc.OpenForAll(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, "open_for_all", state.Mode)
	assert.True(t, state.CanBook)
	notifier.AssertCalled(t, "OpenedForAll", mock.Anything)
	notifier.AssertNotCalled(t, "WindowOpened")
}

func TestSystemService_Pause(t *testing.T) {
	stateRepo := new(MockSystemStateRepository)
	broadcaster := new(MockBroadcaster)
	notifier := new(MockNotifier)

	stateRepo.On("Pause", mock.Anything).Return(&domain.SystemState{}, nil)
	broadcaster.On("Publish", mock.Anything, domain.StateChangedSystem).Return()

	svc := newTestSystemService(stateRepo, broadcaster, notifier, time.Now())

	state, err := svc.Pause(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, "paused", state.Mode)
	assert.False(t, state.CanBook)
	notifier.AssertNotCalled(t, "WindowOpened")
}

func TestSystemService_Bootstrap(t *testing.T) {
	stateRepo := new(MockSystemStateRepository)
	stateRepo.On("Bootstrap", mock.Anything, 10*time.Minute).Return(&domain.SystemState{}, nil)

	svc := newTestSystemService(stateRepo, new(MockBroadcaster), new(MockNotifier), time.Now())

	assert.NoError(t, svc.Bootstrap(context.Background()))
	stateRepo.AssertCalled(t, "Bootstrap", mock.Anything, 10*time.Minute)
}
