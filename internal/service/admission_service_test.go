package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/yayazuqui-hub/court-priority-play-99/internal/domain"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func newTestAdmissionService(stateRepo *MockSystemStateRepository, queueRepo *MockQueueRepository, now time.Time) *admissionService {
	return &admissionService{
		stateRepo: stateRepo,
		queueRepo: queueRepo,
		now:       fixedClock(now),
	}
}

func TestAdmissionService_CanBook_OpenForAll(t *testing.T) {
	stateRepo := new(MockSystemStateRepository)
	queueRepo := new(MockQueueRepository)
	stateRepo.On("Get", mock.Anything).Return(&domain.SystemState{IsOpenForAll: true}, nil)

	svc := newTestAdmissionService(stateRepo, queueRepo, time.Now())

	allowed, err := svc.CanBook(context.Background(), "user-1")
	assert.NoError(t, err)
	assert.True(t, allowed)
	queueRepo.AssertNotCalled(t, "Contains")
}

func TestAdmissionService_CanBook_Paused(t *testing.T) {
	stateRepo := new(MockSystemStateRepository)
	queueRepo := new(MockQueueRepository)
	stateRepo.On("Get", mock.Anything).Return(&domain.SystemState{}, nil)

	svc := newTestAdmissionService(stateRepo, queueRepo, time.Now())

	allowed, err := svc.CanBook(context.Background(), "user-1")
	assert.NoError(t, err)
	assert.False(t, allowed)

	err = svc.CheckBooking(context.Background(), "user-1")
	assert.ErrorIs(t, err, domain.ErrSystemPaused)
}

func TestAdmissionService_CanBook_PriorityMode(t *testing.T) {
	started := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	state := &domain.SystemState{
		IsPriorityMode:         true,
		PriorityTimerStartedAt: &started,
		PriorityTimerDuration:  10 * time.Minute,
	}

	t.Run("queue member inside window books", func(t *testing.T) {
		stateRepo := new(MockSystemStateRepository)
		queueRepo := new(MockQueueRepository)
		stateRepo.On("Get", mock.Anything).Return(state, nil)
		queueRepo.On("Contains", mock.Anything, "member").Return(true, nil)

		svc := newTestAdmissionService(stateRepo, queueRepo, started.Add(599*time.Second))
		allowed, err := svc.CanBook(context.Background(), "member")
		assert.NoError(t, err)
		assert.True(t, allowed)
	})

	t.Run("non-member denied", func(t *testing.T) {
		stateRepo := new(MockSystemStateRepository)
		queueRepo := new(MockQueueRepository)
		stateRepo.On("Get", mock.Anything).Return(state, nil)
		queueRepo.On("Contains", mock.Anything, "stranger").Return(false, nil)

		svc := newTestAdmissionService(stateRepo, queueRepo, started.Add(time.Minute))
		err := svc.CheckBooking(context.Background(), "stranger")
		assert.ErrorIs(t, err, domain.ErrNotInQueue)
	})

	t.Run("member after expiry denied", func(t *testing.T) {
		stateRepo := new(MockSystemStateRepository)
		queueRepo := new(MockQueueRepository)
		stateRepo.On("Get", mock.Anything).Return(state, nil)
		queueRepo.On("Contains", mock.Anything, "member").Return(true, nil)

		svc := newTestAdmissionService(stateRepo, queueRepo, started.Add(601*time.Second))
		err := svc.CheckBooking(context.Background(), "member")
		assert.ErrorIs(t, err, domain.ErrWindowExpired)
	})
}

func TestAdmissionService_TimeRemaining(t *testing.T) {
	started := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	stateRepo := new(MockSystemStateRepository)
	queueRepo := new(MockQueueRepository)
	stateRepo.On("Get", mock.Anything).Return(&domain.SystemState{
		IsPriorityMode:         true,
		PriorityTimerStartedAt: &started,
		PriorityTimerDuration:  10 * time.Minute,
	}, nil)

	svc := newTestAdmissionService(stateRepo, queueRepo, started.Add(4*time.Minute))

	remaining, err := svc.TimeRemaining(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 6*time.Minute, remaining)
}

func TestAdmissionService_StateView(t *testing.T) {
	started := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	state := &domain.SystemState{
		IsPriorityMode:         true,
		PriorityTimerStartedAt: &started,
		PriorityTimerDuration:  10 * time.Minute,
		UpdatedAt:              started,
	}

	stateRepo := new(MockSystemStateRepository)
	queueRepo := new(MockQueueRepository)
	stateRepo.On("Get", mock.Anything).Return(state, nil)
	queueRepo.On("Contains", mock.Anything, "member").Return(true, nil)

	svc := newTestAdmissionService(stateRepo, queueRepo, started.Add(2*time.Minute))

	view, err := svc.StateView(context.Background(), "member")
	assert.NoError(t, err)
	assert.Equal(t, "priority", view.Mode)
	assert.True(t, view.CanBook)
	assert.Equal(t, int64(480), view.TimeRemainingSeconds)

	// Anonymous callers get the state without a membership lookup
	anon, err := svc.StateView(context.Background(), "")
	assert.NoError(t, err)
	assert.False(t, anon.CanBook)
}
