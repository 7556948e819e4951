// Package dto contains the request and response shapes of the HTTP API.
package dto

import (
	"time"

	"github.com/yayazuqui-hub/court-priority-play-99/internal/domain"
)

// SystemStateResponse describes the booking system mode as seen by a
// client at the moment of the request
type SystemStateResponse struct {
	Mode                 string     `json:"mode"`
	IsPriorityMode       bool       `json:"is_priority_mode"`
	IsOpenForAll         bool       `json:"is_open_for_all"`
	TimerStartedAt       *time.Time `json:"timer_started_at,omitempty"`
	TimeRemainingSeconds int64      `json:"time_remaining_seconds"`
	CanBook              bool       `json:"can_book"`
	UpdatedAt            time.Time  `json:"updated_at"`
}

// NewSystemStateResponse derives the client view from state plus the
// caller's queue membership at time now
func NewSystemStateResponse(state *domain.SystemState, canBook bool, now time.Time) *SystemStateResponse {
	return &SystemStateResponse{
		Mode:                 string(state.Mode()),
		IsPriorityMode:       state.IsPriorityMode,
		IsOpenForAll:         state.IsOpenForAll,
		TimerStartedAt:       state.PriorityTimerStartedAt,
		TimeRemainingSeconds: int64(state.TimeRemaining(now).Seconds()),
		CanBook:              canBook,
		UpdatedAt:            state.UpdatedAt,
	}
}

// JoinQueueRequest is the body for joining the priority queue. The
// category may be omitted, in which case it comes from the caller's
// profile.
type JoinQueueRequest struct {
	GenderCategory string `json:"gender_category"`
}

// AddQueueEntryRequest is the admin body for inserting another player
type AddQueueEntryRequest struct {
	UserID         string `json:"user_id" binding:"required"`
	GenderCategory string `json:"gender_category" binding:"required"`
}

// QueueEntryResponse is one queue slot
type QueueEntryResponse struct {
	ID             string    `json:"id"`
	UserID         string    `json:"user_id"`
	Position       int       `json:"position"`
	GenderCategory string    `json:"gender_category"`
	JoinedAt       time.Time `json:"joined_at"`
}

// NewQueueEntryResponse converts a domain entry
func NewQueueEntryResponse(entry *domain.QueueEntry) *QueueEntryResponse {
	return &QueueEntryResponse{
		ID:             entry.ID,
		UserID:         entry.UserID,
		Position:       entry.Position,
		GenderCategory: entry.GenderCategory,
		JoinedAt:       entry.JoinedAt,
	}
}

// QueueResponse is the full ordered queue with occupancy counts
type QueueResponse struct {
	Entries       []*QueueEntryResponse `json:"entries"`
	Total         int                   `json:"total"`
	Capacity      int                   `json:"capacity"`
	CategoryUsage map[string]int        `json:"category_usage"`
}

// NewQueueResponse converts an ordered entry list
func NewQueueResponse(entries []*domain.QueueEntry, capacity int) *QueueResponse {
	resp := &QueueResponse{
		Entries:       make([]*QueueEntryResponse, 0, len(entries)),
		Total:         len(entries),
		Capacity:      capacity,
		CategoryUsage: make(map[string]int),
	}
	for _, entry := range entries {
		resp.Entries = append(resp.Entries, NewQueueEntryResponse(entry))
		resp.CategoryUsage[entry.GenderCategory]++
	}
	return resp
}

// ScheduleRuleRequest is the body for creating or updating a rule
type ScheduleRuleRequest struct {
	DayOfWeek *int   `json:"day_of_week" binding:"required"`
	StartTime string `json:"start_time" binding:"required"`
	IsActive  *bool  `json:"is_active"`
}

// ScheduleRuleResponse is one auto schedule rule
type ScheduleRuleResponse struct {
	ID        string    `json:"id"`
	DayOfWeek int       `json:"day_of_week"`
	StartTime string    `json:"start_time"`
	IsActive  bool      `json:"is_active"`
	CreatedBy string    `json:"created_by,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewScheduleRuleResponse converts a domain rule
func NewScheduleRuleResponse(rule *domain.AutoScheduleRule) *ScheduleRuleResponse {
	return &ScheduleRuleResponse{
		ID:        rule.ID,
		DayOfWeek: rule.DayOfWeek,
		StartTime: rule.StartTime,
		IsActive:  rule.IsActive,
		CreatedBy: rule.CreatedBy,
		CreatedAt: rule.CreatedAt,
		UpdatedAt: rule.UpdatedAt,
	}
}

// ScheduleCheckResponse reports the outcome of one trigger evaluation
type ScheduleCheckResponse struct {
	Started       bool   `json:"started"`
	MatchedRuleID string `json:"matched_rule_id,omitempty"`
	Reason        string `json:"reason,omitempty"`
}

// SweepResponse reports the outcome of one idle sweep
type SweepResponse struct {
	EvictedCount int                   `json:"evicted_count"`
	Evicted      []*QueueEntryResponse `json:"evicted"`
}

// NewSweepResponse converts evicted entries
func NewSweepResponse(evicted []*domain.QueueEntry) *SweepResponse {
	resp := &SweepResponse{
		EvictedCount: len(evicted),
		Evicted:      make([]*QueueEntryResponse, 0, len(evicted)),
	}
	for _, entry := range evicted {
		resp.Evicted = append(resp.Evicted, NewQueueEntryResponse(entry))
	}
	return resp
}

// CreateBookingRequest is the body for creating a booking
type CreateBookingRequest struct {
	PlayerName  string `json:"player_name" binding:"required"`
	PlayerLevel string `json:"player_level"`
}

// BookingResponse is one booking
type BookingResponse struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	PlayerName  string    `json:"player_name"`
	PlayerLevel string    `json:"player_level,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewBookingResponse converts a domain booking
func NewBookingResponse(booking *domain.Booking) *BookingResponse {
	return &BookingResponse{
		ID:          booking.ID,
		UserID:      booking.UserID,
		PlayerName:  booking.PlayerName,
		PlayerLevel: booking.PlayerLevel,
		CreatedAt:   booking.CreatedAt,
		UpdatedAt:   booking.UpdatedAt,
	}
}

// BookingListResponse is the full booking list
type BookingListResponse struct {
	Bookings []*BookingResponse `json:"bookings"`
	Total    int                `json:"total"`
}

// NewBookingListResponse converts a booking list
func NewBookingListResponse(bookings []*domain.Booking) *BookingListResponse {
	resp := &BookingListResponse{
		Bookings: make([]*BookingResponse, 0, len(bookings)),
		Total:    len(bookings),
	}
	for _, booking := range bookings {
		resp.Bookings = append(resp.Bookings, NewBookingResponse(booking))
	}
	return resp
}
