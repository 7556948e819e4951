package repository

import (
	"context"
	"time"

	"github.com/yayazuqui-hub/court-priority-play-99/internal/domain"
)

// BookingRepository defines the interface for booking persistence
type BookingRepository interface {
	// Create stores a new booking and returns it with generated fields
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)

	// List returns all bookings ordered by creation time ascending
	List(ctx context.Context) ([]*domain.Booking, error)

	// HasBookingSince reports whether the user created any booking at or
	// after the given instant
	HasBookingSince(ctx context.Context, userID string, since time.Time) (bool, error)

	// Delete removes a booking owned by userID or returns
	// domain.ErrBookingNotFound
	Delete(ctx context.Context, id, userID string) error

	// DeleteAll removes every booking
	DeleteAll(ctx context.Context) error
}

// ProfileRepository defines the interface for reading player profiles
type ProfileRepository interface {
	// GetByUserID returns the profile or domain.ErrProfileNotFound
	GetByUserID(ctx context.Context, userID string) (*domain.Profile, error)
}
