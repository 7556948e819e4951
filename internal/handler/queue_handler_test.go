package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/yayazuqui-hub/court-priority-play-99/internal/domain"
	"github.com/yayazuqui-hub/court-priority-play-99/internal/dto"
	"github.com/yayazuqui-hub/court-priority-play-99/pkg/middleware"
	"github.com/yayazuqui-hub/court-priority-play-99/pkg/response"
)

func setupQueueRouter(h *QueueHandler, userID string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	if userID != "" {
		router.Use(func(c *gin.Context) {
			c.Set(middleware.ContextUserID, userID)
			c.Next()
		})
	}

	router.GET("/queue", h.List)
	router.POST("/queue/join", h.Join)
	router.DELETE("/queue/leave", h.Leave)
	router.POST("/admin/queue/entries", h.AdminAdd)
	router.DELETE("/admin/queue/entries/:id", h.AdminRemove)
	router.DELETE("/admin/queue", h.AdminClear)
	router.POST("/admin/queue/sweep", h.AdminSweep)
	return router
}

func decodeEnvelope(t *testing.T, body *bytes.Buffer) response.Response {
	t.Helper()
	var envelope response.Response
	assert.NoError(t, json.Unmarshal(body.Bytes(), &envelope))
	return envelope
}

func TestQueueHandler_Join(t *testing.T) {
	tests := []struct {
		name           string
		userID         string
		body           string
		joinFunc       func(ctx context.Context, userID, category string) (*dto.QueueEntryResponse, error)
		expectedStatus int
		expectedCode   string
	}{
		{
			name:   "successful join",
			userID: "user-1",
			body:   `{"gender_category":"A"}`,
			joinFunc: func(ctx context.Context, userID, category string) (*dto.QueueEntryResponse, error) {
				return &dto.QueueEntryResponse{ID: "e1", UserID: userID, Position: 1, GenderCategory: category}, nil
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:   "queue full",
			userID: "user-13",
			body:   `{"gender_category":"A"}`,
			joinFunc: func(ctx context.Context, userID, category string) (*dto.QueueEntryResponse, error) {
				return nil, domain.ErrQueueFull
			},
			expectedStatus: http.StatusConflict,
			expectedCode:   "QUEUE_FULL",
		},
		{
			name:   "category full",
			userID: "user-7",
			body:   `{"gender_category":"B"}`,
			joinFunc: func(ctx context.Context, userID, category string) (*dto.QueueEntryResponse, error) {
				return nil, domain.ErrCategoryFull
			},
			expectedStatus: http.StatusConflict,
			expectedCode:   "CATEGORY_FULL",
		},
		{
			name:   "duplicate join",
			userID: "user-1",
			body:   `{"gender_category":"A"}`,
			joinFunc: func(ctx context.Context, userID, category string) (*dto.QueueEntryResponse, error) {
				return nil, domain.ErrAlreadyInQueue
			},
			expectedStatus: http.StatusConflict,
			expectedCode:   "ALREADY_IN_QUEUE",
		},
		{
			name:           "unauthenticated",
			userID:         "",
			body:           `{"gender_category":"A"}`,
			expectedStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewQueueHandler(&MockQueueService{JoinFunc: tt.joinFunc})
			router := setupQueueRouter(h, tt.userID)

			req := httptest.NewRequest(http.MethodPost, "/queue/join", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedCode != "" {
				envelope := decodeEnvelope(t, w.Body)
				assert.NotNil(t, envelope.Error)
				assert.Equal(t, tt.expectedCode, envelope.Error.Code)
			}
		})
	}
}

func TestQueueHandler_Leave(t *testing.T) {
	t.Run("member leaves", func(t *testing.T) {
		h := NewQueueHandler(&MockQueueService{
			LeaveFunc: func(ctx context.Context, userID string) error { return nil },
		})
		router := setupQueueRouter(h, "user-1")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/queue/leave", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("non-member is rejected", func(t *testing.T) {
		h := NewQueueHandler(&MockQueueService{
			LeaveFunc: func(ctx context.Context, userID string) error { return domain.ErrNotInQueue },
		})
		router := setupQueueRouter(h, "user-1")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/queue/leave", nil))
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestQueueHandler_List(t *testing.T) {
	h := NewQueueHandler(&MockQueueService{
		ListFunc: func(ctx context.Context) (*dto.QueueResponse, error) {
			return &dto.QueueResponse{
				Entries: []*dto.QueueEntryResponse{
					{ID: "e1", UserID: "u1", Position: 1, GenderCategory: "A"},
				},
				Total:         1,
				Capacity:      12,
				CategoryUsage: map[string]int{"A": 1},
			}, nil
		},
	})
	router := setupQueueRouter(h, "user-1")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/queue", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	envelope := decodeEnvelope(t, w.Body)
	assert.True(t, envelope.Success)
}

func TestQueueHandler_AdminRemove(t *testing.T) {
	t.Run("existing entry removed", func(t *testing.T) {
		h := NewQueueHandler(&MockQueueService{
			RemoveFunc: func(ctx context.Context, entryID string) (*dto.QueueEntryResponse, error) {
				return &dto.QueueEntryResponse{ID: entryID, UserID: "u1", Position: 2}, nil
			},
		})
		router := setupQueueRouter(h, "admin-1")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/admin/queue/entries/e2", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("unknown entry is 404", func(t *testing.T) {
		h := NewQueueHandler(&MockQueueService{
			RemoveFunc: func(ctx context.Context, entryID string) (*dto.QueueEntryResponse, error) {
				return nil, domain.ErrEntryNotFound
			},
		})
		router := setupQueueRouter(h, "admin-1")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/admin/queue/entries/nope", nil))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestQueueHandler_AdminSweep(t *testing.T) {
	h := NewQueueHandler(&MockQueueService{
		SweepIdleFunc: func(ctx context.Context) (*dto.SweepResponse, error) {
			return &dto.SweepResponse{
				EvictedCount: 1,
				Evicted:      []*dto.QueueEntryResponse{{ID: "e1", UserID: "idle", Position: 5}},
			}, nil
		},
	})
	router := setupQueueRouter(h, "admin-1")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/admin/queue/sweep", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	envelope := decodeEnvelope(t, w.Body)
	assert.True(t, envelope.Success)
}
