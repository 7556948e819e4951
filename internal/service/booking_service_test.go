package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/yayazuqui-hub/court-priority-play-99/internal/domain"
	"github.com/yayazuqui-hub/court-priority-play-99/internal/dto"
	"github.com/yayazuqui-hub/court-priority-play-99/pkg/logger"
)

// stubAdmission answers CheckBooking with a fixed denial (or nil)
type stubAdmission struct {
	denial error
}

func (s *stubAdmission) CanBook(ctx context.Context, userID string) (bool, error) {
	return s.denial == nil, nil
}

func (s *stubAdmission) CheckBooking(ctx context.Context, userID string) error {
	return s.denial
}

func (s *stubAdmission) TimeRemaining(ctx context.Context) (time.Duration, error) {
	return 0, nil
}

func (s *stubAdmission) StateView(ctx context.Context, userID string) (*dto.SystemStateResponse, error) {
	return nil, nil
}

func newTestBookingService(repo *MockBookingRepository, admission AdmissionService, broadcaster *MockBroadcaster) *bookingService {
	return &bookingService{
		bookingRepo: repo,
		admission:   admission,
		broadcaster: broadcaster,
		log:         logger.Get(),
	}
}

func TestBookingService_Create(t *testing.T) {
	t.Run("allowed booking is stored and broadcast", func(t *testing.T) {
		repo := new(MockBookingRepository)
		broadcaster := new(MockBroadcaster)

		repo.On("Create", mock.Anything, mock.MatchedBy(func(b *domain.Booking) bool {
			return b.UserID == "user-1" && b.PlayerName == "Alex"
		})).Return(&domain.Booking{ID: "b1", UserID: "user-1", PlayerName: "Alex"}, nil)
		broadcaster.On("Publish", mock.Anything, domain.StateChangedBookings).Return()

		svc := newTestBookingService(repo, &stubAdmission{}, broadcaster)

		booking, err := svc.Create(context.Background(), "user-1", &dto.CreateBookingRequest{PlayerName: "Alex"})
		assert.NoError(t, err)
		assert.Equal(t, "b1", booking.ID)
		broadcaster.AssertCalled(t, "Publish", mock.Anything, domain.StateChangedBookings)
	})

	t.Run("denial short-circuits before the repository", func(t *testing.T) {
		for _, denial := range []error{domain.ErrSystemPaused, domain.ErrNotInQueue, domain.ErrWindowExpired} {
			repo := new(MockBookingRepository)
			broadcaster := new(MockBroadcaster)
			svc := newTestBookingService(repo, &stubAdmission{denial: denial}, broadcaster)

			_, err := svc.Create(context.Background(), "user-1", &dto.CreateBookingRequest{PlayerName: "Alex"})
			assert.ErrorIs(t, err, denial)
			repo.AssertNotCalled(t, "Create")
			broadcaster.AssertNotCalled(t, "Publish")
		}
	})

	t.Run("missing player name rejected", func(t *testing.T) {
		repo := new(MockBookingRepository)
		svc := newTestBookingService(repo, &stubAdmission{}, new(MockBroadcaster))

		_, err := svc.Create(context.Background(), "user-1", &dto.CreateBookingRequest{})
		assert.ErrorIs(t, err, domain.ErrInvalidPlayerName)
		repo.AssertNotCalled(t, "Create")
	})
}

func TestBookingService_Delete(t *testing.T) {
	repo := new(MockBookingRepository)
	broadcaster := new(MockBroadcaster)

	repo.On("Delete", mock.Anything, "b1", "owner").Return(nil)
	repo.On("Delete", mock.Anything, "b1", "other").Return(domain.ErrBookingNotFound)
	broadcaster.On("Publish", mock.Anything, domain.StateChangedBookings).Return()

	svc := newTestBookingService(repo, &stubAdmission{}, broadcaster)

	assert.NoError(t, svc.Delete(context.Background(), "b1", "owner"))
	assert.ErrorIs(t, svc.Delete(context.Background(), "b1", "other"), domain.ErrBookingNotFound)
	broadcaster.AssertNumberOfCalls(t, "Publish", 1)
}

func TestBookingService_DeleteAll(t *testing.T) {
	repo := new(MockBookingRepository)
	broadcaster := new(MockBroadcaster)

	repo.On("DeleteAll", mock.Anything).Return(nil)
	broadcaster.On("Publish", mock.Anything, domain.StateChangedBookings).Return()

	svc := newTestBookingService(repo, &stubAdmission{}, broadcaster)

	assert.NoError(t, svc.DeleteAll(context.Background()))
	broadcaster.AssertCalled(t, "Publish", mock.Anything, domain.StateChangedBookings)
}
