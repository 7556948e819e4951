package service

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/yayazuqui-hub/court-priority-play-99/internal/domain"
)

// MockSystemStateRepository mocks repository.SystemStateRepository
type MockSystemStateRepository struct {
	mock.Mock
}

func (m *MockSystemStateRepository) Get(ctx context.Context) (*domain.SystemState, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SystemState), args.Error(1)
}

func (m *MockSystemStateRepository) Bootstrap(ctx context.Context, timerDuration time.Duration) (*domain.SystemState, error) {
	args := m.Called(ctx, timerDuration)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SystemState), args.Error(1)
}

func (m *MockSystemStateRepository) StartPriorityWindow(ctx context.Context, now time.Time) (*domain.SystemState, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SystemState), args.Error(1)
}

func (m *MockSystemStateRepository) OpenForAll(ctx context.Context) (*domain.SystemState, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SystemState), args.Error(1)
}

func (m *MockSystemStateRepository) Pause(ctx context.Context) (*domain.SystemState, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SystemState), args.Error(1)
}

func (m *MockSystemStateRepository) TryAutoStart(ctx context.Context, now time.Time, refireGuard time.Duration) (bool, *domain.SystemState, error) {
	args := m.Called(ctx, now, refireGuard)
	var state *domain.SystemState
	if args.Get(1) != nil {
		state = args.Get(1).(*domain.SystemState)
	}
	return args.Bool(0), state, args.Error(2)
}

// MockQueueRepository mocks repository.QueueRepository
type MockQueueRepository struct {
	mock.Mock
}

func (m *MockQueueRepository) Join(ctx context.Context, entry *domain.QueueEntry, policy domain.CapacityPolicy) (*domain.QueueEntry, error) {
	args := m.Called(ctx, entry, policy)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.QueueEntry), args.Error(1)
}

func (m *MockQueueRepository) LeaveByUser(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}

func (m *MockQueueRepository) RemoveByID(ctx context.Context, entryID string) (*domain.QueueEntry, error) {
	args := m.Called(ctx, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.QueueEntry), args.Error(1)
}

func (m *MockQueueRepository) Clear(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockQueueRepository) ListOrdered(ctx context.Context) ([]*domain.QueueEntry, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.QueueEntry), args.Error(1)
}

func (m *MockQueueRepository) Contains(ctx context.Context, userID string) (bool, error) {
	args := m.Called(ctx, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockQueueRepository) SweepIdle(ctx context.Context, cutoff time.Time) ([]*domain.QueueEntry, error) {
	args := m.Called(ctx, cutoff)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.QueueEntry), args.Error(1)
}

// MockScheduleRepository mocks repository.ScheduleRepository
type MockScheduleRepository struct {
	mock.Mock
}

func (m *MockScheduleRepository) Create(ctx context.Context, rule *domain.AutoScheduleRule) (*domain.AutoScheduleRule, error) {
	args := m.Called(ctx, rule)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AutoScheduleRule), args.Error(1)
}

func (m *MockScheduleRepository) GetByID(ctx context.Context, id string) (*domain.AutoScheduleRule, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AutoScheduleRule), args.Error(1)
}

func (m *MockScheduleRepository) List(ctx context.Context) ([]*domain.AutoScheduleRule, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.AutoScheduleRule), args.Error(1)
}

func (m *MockScheduleRepository) ListActiveForDay(ctx context.Context, dayOfWeek int) ([]*domain.AutoScheduleRule, error) {
	args := m.Called(ctx, dayOfWeek)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.AutoScheduleRule), args.Error(1)
}

func (m *MockScheduleRepository) Update(ctx context.Context, rule *domain.AutoScheduleRule) (*domain.AutoScheduleRule, error) {
	args := m.Called(ctx, rule)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AutoScheduleRule), args.Error(1)
}

func (m *MockScheduleRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

// MockBookingRepository mocks repository.BookingRepository
type MockBookingRepository struct {
	mock.Mock
}

func (m *MockBookingRepository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	args := m.Called(ctx, booking)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) List(ctx context.Context) ([]*domain.Booking, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) HasBookingSince(ctx context.Context, userID string, since time.Time) (bool, error) {
	args := m.Called(ctx, userID, since)
	return args.Bool(0), args.Error(1)
}

func (m *MockBookingRepository) Delete(ctx context.Context, id, userID string) error {
	return m.Called(ctx, id, userID).Error(0)
}

func (m *MockBookingRepository) DeleteAll(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

// MockProfileRepository mocks repository.ProfileRepository
type MockProfileRepository struct {
	mock.Mock
}

func (m *MockProfileRepository) GetByUserID(ctx context.Context, userID string) (*domain.Profile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Profile), args.Error(1)
}

// MockBroadcaster mocks events.Broadcaster
type MockBroadcaster struct {
	mock.Mock
}

func (m *MockBroadcaster) Publish(ctx context.Context, kind domain.StateChangedKind) {
	m.Called(ctx, kind)
}

// MockNotifier mocks Notifier
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) WindowOpened(ctx context.Context, startedAt time.Time) {
	m.Called(ctx, startedAt)
}

func (m *MockNotifier) OpenedForAll(ctx context.Context) {
	m.Called(ctx)
}

func (m *MockNotifier) Evicted(ctx context.Context, entry *domain.QueueEntry) {
	m.Called(ctx, entry)
}
