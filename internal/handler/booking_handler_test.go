package handler

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/yayazuqui-hub/court-priority-play-99/internal/domain"
	"github.com/yayazuqui-hub/court-priority-play-99/internal/dto"
	"github.com/yayazuqui-hub/court-priority-play-99/pkg/middleware"
)

func setupBookingRouter(h *BookingHandler, userID string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	if userID != "" {
		router.Use(func(c *gin.Context) {
			c.Set(middleware.ContextUserID, userID)
			c.Next()
		})
	}

	router.GET("/bookings", h.List)
	router.POST("/bookings", h.Create)
	router.DELETE("/bookings/:id", h.Delete)
	router.DELETE("/admin/bookings", h.AdminDeleteAll)
	return router
}

func TestBookingHandler_Create(t *testing.T) {
	tests := []struct {
		name           string
		userID         string
		body           string
		createFunc     func(ctx context.Context, userID string, req *dto.CreateBookingRequest) (*dto.BookingResponse, error)
		expectedStatus int
	}{
		{
			name:   "allowed booking",
			userID: "user-1",
			body:   `{"player_name":"Ana","player_level":"B"}`,
			createFunc: func(ctx context.Context, userID string, req *dto.CreateBookingRequest) (*dto.BookingResponse, error) {
				return &dto.BookingResponse{ID: "b1", UserID: userID, PlayerName: req.PlayerName}, nil
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:   "system paused",
			userID: "user-1",
			body:   `{"player_name":"Ana","player_level":"B"}`,
			createFunc: func(ctx context.Context, userID string, req *dto.CreateBookingRequest) (*dto.BookingResponse, error) {
				return nil, domain.ErrSystemPaused
			},
			expectedStatus: http.StatusForbidden,
		},
		{
			name:   "not in queue during priority window",
			userID: "user-2",
			body:   `{"player_name":"Bea"}`,
			createFunc: func(ctx context.Context, userID string, req *dto.CreateBookingRequest) (*dto.BookingResponse, error) {
				return nil, domain.ErrNotInQueue
			},
			expectedStatus: http.StatusForbidden,
		},
		{
			name:           "missing player name",
			userID:         "user-1",
			body:           `{"player_level":"A"}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "unauthenticated",
			userID:         "",
			body:           `{"player_name":"Ana","player_level":"B"}`,
			expectedStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewBookingHandler(&MockBookingService{CreateFunc: tt.createFunc})
			router := setupBookingRouter(h, tt.userID)

			req := httptest.NewRequest(http.MethodPost, "/bookings", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

func TestBookingHandler_Delete(t *testing.T) {
	t.Run("owner deletes", func(t *testing.T) {
		var gotBookingID, gotUserID string
		h := NewBookingHandler(&MockBookingService{
			DeleteFunc: func(ctx context.Context, bookingID, userID string) error {
				gotBookingID, gotUserID = bookingID, userID
				return nil
			},
		})
		router := setupBookingRouter(h, "user-1")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/bookings/b1", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "b1", gotBookingID)
		assert.Equal(t, "user-1", gotUserID)
	})

	t.Run("unknown booking", func(t *testing.T) {
		h := NewBookingHandler(&MockBookingService{
			DeleteFunc: func(ctx context.Context, bookingID, userID string) error {
				return domain.ErrBookingNotFound
			},
		})
		router := setupBookingRouter(h, "user-1")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/bookings/nope", nil))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestBookingHandler_AdminDeleteAll(t *testing.T) {
	called := false
	h := NewBookingHandler(&MockBookingService{
		DeleteAllFunc: func(ctx context.Context) error {
			called = true
			return nil
		},
	})
	router := setupBookingRouter(h, "admin-1")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/admin/bookings", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, called)
}
