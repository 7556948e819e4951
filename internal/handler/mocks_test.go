package handler

import (
	"context"
	"time"

	"github.com/yayazuqui-hub/court-priority-play-99/internal/dto"
)

// MockQueueService is a func-field mock of service.QueueService
type MockQueueService struct {
	JoinFunc      func(ctx context.Context, userID, category string) (*dto.QueueEntryResponse, error)
	LeaveFunc     func(ctx context.Context, userID string) error
	AdminAddFunc  func(ctx context.Context, userID, category string) (*dto.QueueEntryResponse, error)
	RemoveFunc    func(ctx context.Context, entryID string) (*dto.QueueEntryResponse, error)
	ClearFunc     func(ctx context.Context) error
	ListFunc      func(ctx context.Context) (*dto.QueueResponse, error)
	SweepIdleFunc func(ctx context.Context) (*dto.SweepResponse, error)
}

func (m *MockQueueService) Join(ctx context.Context, userID, category string) (*dto.QueueEntryResponse, error) {
	if m.JoinFunc != nil {
		return m.JoinFunc(ctx, userID, category)
	}
	return nil, nil
}

func (m *MockQueueService) Leave(ctx context.Context, userID string) error {
	if m.LeaveFunc != nil {
		return m.LeaveFunc(ctx, userID)
	}
	return nil
}

func (m *MockQueueService) AdminAdd(ctx context.Context, userID, category string) (*dto.QueueEntryResponse, error) {
	if m.AdminAddFunc != nil {
		return m.AdminAddFunc(ctx, userID, category)
	}
	return nil, nil
}

func (m *MockQueueService) Remove(ctx context.Context, entryID string) (*dto.QueueEntryResponse, error) {
	if m.RemoveFunc != nil {
		return m.RemoveFunc(ctx, entryID)
	}
	return nil, nil
}

func (m *MockQueueService) Clear(ctx context.Context) error {
	if m.ClearFunc != nil {
		return m.ClearFunc(ctx)
	}
	return nil
}

func (m *MockQueueService) List(ctx context.Context) (*dto.QueueResponse, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return nil, nil
}

func (m *MockQueueService) SweepIdle(ctx context.Context) (*dto.SweepResponse, error) {
	if m.SweepIdleFunc != nil {
		return m.SweepIdleFunc(ctx)
	}
	return nil, nil
}

// MockSystemService is a func-field mock of service.SystemService
type MockSystemService struct {
	BootstrapFunc           func(ctx context.Context) error
	StartPriorityWindowFunc func(ctx context.Context) (*dto.SystemStateResponse, error)
	OpenForAllFunc          func(ctx context.Context) (*dto.SystemStateResponse, error)
	PauseFunc               func(ctx context.Context) (*dto.SystemStateResponse, error)
}

func (m *MockSystemService) Bootstrap(ctx context.Context) error {
	if m.BootstrapFunc != nil {
		return m.BootstrapFunc(ctx)
	}
	return nil
}

func (m *MockSystemService) StartPriorityWindow(ctx context.Context) (*dto.SystemStateResponse, error) {
	if m.StartPriorityWindowFunc != nil {
		return m.StartPriorityWindowFunc(ctx)
	}
	return nil, nil
}

func (m *MockSystemService) OpenForAll(ctx context.Context) (*dto.SystemStateResponse, error) {
	if m.OpenForAllFunc != nil {
		return m.OpenForAllFunc(ctx)
	}
	return nil, nil
}

func (m *MockSystemService) Pause(ctx context.Context) (*dto.SystemStateResponse, error) {
	if m.PauseFunc != nil {
		return m.PauseFunc(ctx)
	}
	return nil, nil
}

// MockAdmissionService is a func-field mock of service.AdmissionService
type MockAdmissionService struct {
	CanBookFunc       func(ctx context.Context, userID string) (bool, error)
	CheckBookingFunc  func(ctx context.Context, userID string) error
	TimeRemainingFunc func(ctx context.Context) (time.Duration, error)
	StateViewFunc     func(ctx context.Context, userID string) (*dto.SystemStateResponse, error)
}

func (m *MockAdmissionService) CanBook(ctx context.Context, userID string) (bool, error) {
	if m.CanBookFunc != nil {
		return m.CanBookFunc(ctx, userID)
	}
	return false, nil
}

func (m *MockAdmissionService) CheckBooking(ctx context.Context, userID string) error {
	if m.CheckBookingFunc != nil {
		return m.CheckBookingFunc(ctx, userID)
	}
	return nil
}

func (m *MockAdmissionService) TimeRemaining(ctx context.Context) (time.Duration, error) {
	if m.TimeRemainingFunc != nil {
		return m.TimeRemainingFunc(ctx)
	}
	return 0, nil
}

func (m *MockAdmissionService) StateView(ctx context.Context, userID string) (*dto.SystemStateResponse, error) {
	if m.StateViewFunc != nil {
		return m.StateViewFunc(ctx, userID)
	}
	return nil, nil
}

// MockScheduleService is a func-field mock of service.ScheduleService
type MockScheduleService struct {
	CreateRuleFunc func(ctx context.Context, createdBy string, req *dto.ScheduleRuleRequest) (*dto.ScheduleRuleResponse, error)
	GetRuleFunc    func(ctx context.Context, id string) (*dto.ScheduleRuleResponse, error)
	ListRulesFunc  func(ctx context.Context) ([]*dto.ScheduleRuleResponse, error)
	UpdateRuleFunc func(ctx context.Context, id string, req *dto.ScheduleRuleRequest) (*dto.ScheduleRuleResponse, error)
	DeleteRuleFunc func(ctx context.Context, id string) error
	RunCheckFunc   func(ctx context.Context) (*dto.ScheduleCheckResponse, error)
}

func (m *MockScheduleService) CreateRule(ctx context.Context, createdBy string, req *dto.ScheduleRuleRequest) (*dto.ScheduleRuleResponse, error) {
	if m.CreateRuleFunc != nil {
		return m.CreateRuleFunc(ctx, createdBy, req)
	}
	return nil, nil
}

func (m *MockScheduleService) GetRule(ctx context.Context, id string) (*dto.ScheduleRuleResponse, error) {
	if m.GetRuleFunc != nil {
		return m.GetRuleFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockScheduleService) ListRules(ctx context.Context) ([]*dto.ScheduleRuleResponse, error) {
	if m.ListRulesFunc != nil {
		return m.ListRulesFunc(ctx)
	}
	return nil, nil
}

func (m *MockScheduleService) UpdateRule(ctx context.Context, id string, req *dto.ScheduleRuleRequest) (*dto.ScheduleRuleResponse, error) {
	if m.UpdateRuleFunc != nil {
		return m.UpdateRuleFunc(ctx, id, req)
	}
	return nil, nil
}

func (m *MockScheduleService) DeleteRule(ctx context.Context, id string) error {
	if m.DeleteRuleFunc != nil {
		return m.DeleteRuleFunc(ctx, id)
	}
	return nil
}

func (m *MockScheduleService) RunCheck(ctx context.Context) (*dto.ScheduleCheckResponse, error) {
	if m.RunCheckFunc != nil {
		return m.RunCheckFunc(ctx)
	}
	return nil, nil
}

// MockBookingService is a func-field mock of service.BookingService
type MockBookingService struct {
	CreateFunc    func(ctx context.Context, userID string, req *dto.CreateBookingRequest) (*dto.BookingResponse, error)
	ListFunc      func(ctx context.Context) (*dto.BookingListResponse, error)
	DeleteFunc    func(ctx context.Context, bookingID, userID string) error
	DeleteAllFunc func(ctx context.Context) error
}

func (m *MockBookingService) Create(ctx context.Context, userID string, req *dto.CreateBookingRequest) (*dto.BookingResponse, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, userID, req)
	}
	return nil, nil
}

func (m *MockBookingService) List(ctx context.Context) (*dto.BookingListResponse, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return nil, nil
}

func (m *MockBookingService) Delete(ctx context.Context, bookingID, userID string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, bookingID, userID)
	}
	return nil
}

func (m *MockBookingService) DeleteAll(ctx context.Context) error {
	if m.DeleteAllFunc != nil {
		return m.DeleteAllFunc(ctx)
	}
	return nil
}
