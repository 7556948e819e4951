package service

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"github.com/yayazuqui-hub/court-priority-play-99/internal/domain"
	"github.com/yayazuqui-hub/court-priority-play-99/internal/dto"
	"github.com/yayazuqui-hub/court-priority-play-99/internal/events"
	"github.com/yayazuqui-hub/court-priority-play-99/internal/repository"
	"github.com/yayazuqui-hub/court-priority-play-99/pkg/logger"
	"github.com/yayazuqui-hub/court-priority-play-99/pkg/telemetry"
)

// BookingService defines the interface for booking business logic.
// Every create passes through the admission check first.
type BookingService interface {
	// Create makes a booking for userID if admission allows it
	Create(ctx context.Context, userID string, req *dto.CreateBookingRequest) (*dto.BookingResponse, error)

	// List returns all bookings oldest first
	List(ctx context.Context) (*dto.BookingListResponse, error)

	// Delete removes the caller's own booking
	Delete(ctx context.Context, bookingID, userID string) error

	// DeleteAll removes every booking. Admin reset path.
	DeleteAll(ctx context.Context) error
}

// bookingService implements BookingService
type bookingService struct {
	bookingRepo repository.BookingRepository
	admission   AdmissionService
	broadcaster events.Broadcaster
	log         *logger.Logger
}

// NewBookingService creates a new booking service
func NewBookingService(
	bookingRepo repository.BookingRepository,
	admission AdmissionService,
	broadcaster events.Broadcaster,
) BookingService {
	return &bookingService{
		bookingRepo: bookingRepo,
		admission:   admission,
		broadcaster: broadcaster,
		log:         logger.Get().With(zap.String("component", "booking_service")),
	}
}

func (s *bookingService) Create(ctx context.Context, userID string, req *dto.CreateBookingRequest) (*dto.BookingResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.booking.create")
	defer span.End()

	span.SetAttributes(attribute.String("user_id", userID))

	if err := s.admission.CheckBooking(ctx, userID); err != nil {
		if domain.IsDenial(err) {
			span.SetAttributes(attribute.String("denied", err.Error()))
			span.SetStatus(codes.Ok, "")
			return nil, err
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	booking := &domain.Booking{
		UserID:      userID,
		PlayerName:  req.PlayerName,
		PlayerLevel: req.PlayerLevel,
	}
	if err := booking.Validate(); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	created, err := s.bookingRepo.Create(ctx, booking)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	s.log.Info("booking created",
		zap.String("booking_id", created.ID),
		zap.String("user_id", userID))

	s.broadcaster.Publish(ctx, domain.StateChangedBookings)

	span.SetStatus(codes.Ok, "")
	return dto.NewBookingResponse(created), nil
}

func (s *bookingService) List(ctx context.Context) (*dto.BookingListResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.booking.list")
	defer span.End()

	bookings, err := s.bookingRepo.List(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.Int("count", len(bookings)))
	span.SetStatus(codes.Ok, "")
	return dto.NewBookingListResponse(bookings), nil
}

func (s *bookingService) Delete(ctx context.Context, bookingID, userID string) error {
	ctx, span := telemetry.StartSpan(ctx, "service.booking.delete")
	defer span.End()

	span.SetAttributes(
		attribute.String("booking_id", bookingID),
		attribute.String("user_id", userID),
	)

	if err := s.bookingRepo.Delete(ctx, bookingID, userID); err != nil {
		if !domain.IsNotFound(err) {
			span.RecordError(err)
		}
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	s.broadcaster.Publish(ctx, domain.StateChangedBookings)
	span.SetStatus(codes.Ok, "")
	return nil
}

func (s *bookingService) DeleteAll(ctx context.Context) error {
	ctx, span := telemetry.StartSpan(ctx, "service.booking.delete_all")
	defer span.End()

	if err := s.bookingRepo.DeleteAll(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	s.log.Info("all bookings deleted")
	s.broadcaster.Publish(ctx, domain.StateChangedBookings)

	span.SetStatus(codes.Ok, "")
	return nil
}

var _ BookingService = (*bookingService)(nil)
