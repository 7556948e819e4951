package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/yayazuqui-hub/court-priority-play-99/internal/dto"
	"github.com/yayazuqui-hub/court-priority-play-99/pkg/middleware"
)

func setupSystemRouter(h *SystemHandler, userID string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	if userID != "" {
		router.Use(func(c *gin.Context) {
			c.Set(middleware.ContextUserID, userID)
			c.Next()
		})
	}

	router.GET("/system/state", h.GetState)
	router.POST("/admin/system/priority", h.StartPriority)
	router.POST("/admin/system/open", h.OpenForAll)
	router.POST("/admin/system/pause", h.Pause)
	return router
}

func TestSystemHandler_GetState(t *testing.T) {
	var seenUserID string
	h := NewSystemHandler(&MockSystemService{}, &MockAdmissionService{
		StateViewFunc: func(ctx context.Context, userID string) (*dto.SystemStateResponse, error) {
			seenUserID = userID
			return &dto.SystemStateResponse{
				Mode:                 "priority",
				CanBook:              true,
				TimeRemainingSeconds: 480,
			}, nil
		},
	})
	router := setupSystemRouter(h, "user-1")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/system/state", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "user-1", seenUserID)
	envelope := decodeEnvelope(t, w.Body)
	assert.True(t, envelope.Success)
}

func TestSystemHandler_StartPriority(t *testing.T) {
	h := NewSystemHandler(&MockSystemService{
		StartPriorityWindowFunc: func(ctx context.Context) (*dto.SystemStateResponse, error) {
			return &dto.SystemStateResponse{Mode: "priority", TimeRemainingSeconds: 600}, nil
		},
	}, &MockAdmissionService{})
	router := setupSystemRouter(h, "admin-1")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/admin/system/priority", nil))

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSystemHandler_ModeTransitions(t *testing.T) {
	tests := []struct {
		name string
		path string
		mode string
	}{
		{name: "open for all", path: "/admin/system/open", mode: "open_for_all"},
		{name: "pause", path: "/admin/system/pause", mode: "paused"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mode := tt.mode
			h := NewSystemHandler(&MockSystemService{
				OpenForAllFunc: func(ctx context.Context) (*dto.SystemStateResponse, error) {
					return &dto.SystemStateResponse{Mode: mode, CanBook: true}, nil
				},
				PauseFunc: func(ctx context.Context) (*dto.SystemStateResponse, error) {
					return &dto.SystemStateResponse{Mode: mode}, nil
				},
			}, &MockAdmissionService{})
			router := setupSystemRouter(h, "admin-1")

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, tt.path, nil))

			assert.Equal(t, http.StatusOK, w.Code)
			envelope := decodeEnvelope(t, w.Body)
			assert.True(t, envelope.Success)
		})
	}
}
