package handler

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/codes"

	"github.com/yayazuqui-hub/court-priority-play-99/internal/service"
	"github.com/yayazuqui-hub/court-priority-play-99/pkg/middleware"
	"github.com/yayazuqui-hub/court-priority-play-99/pkg/response"
	"github.com/yayazuqui-hub/court-priority-play-99/pkg/telemetry"
)

// SystemHandler handles system state HTTP requests
type SystemHandler struct {
	systemService    service.SystemService
	admissionService service.AdmissionService
}

// NewSystemHandler creates a new system handler
func NewSystemHandler(systemService service.SystemService, admissionService service.AdmissionService) *SystemHandler {
	return &SystemHandler{
		systemService:    systemService,
		admissionService: admissionService,
	}
}

// GetState handles GET /system/state. Works with or without a token;
// can_book is only meaningful for authenticated callers.
func (h *SystemHandler) GetState(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.system.get_state")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	userID := c.GetString(middleware.ContextUserID)

	state, err := h.admissionService.StateView(ctx, userID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		handleError(c, err)
		return
	}

	span.SetStatus(codes.Ok, "")
	response.Success(c, state)
}

// StartPriority handles POST /admin/system/priority
func (h *SystemHandler) StartPriority(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.system.start_priority")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	state, err := h.systemService.StartPriorityWindow(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		handleError(c, err)
		return
	}

	span.SetStatus(codes.Ok, "")
	response.Success(c, state)
}

// OpenForAll handles POST /admin/system/open
func (h *SystemHandler) OpenForAll(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.system.open_for_all")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	state, err := h.systemService.OpenForAll(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		handleError(c, err)
		return
	}

	span.SetStatus(codes.Ok, "")
	response.Success(c, state)
}

// Pause handles POST /admin/system/pause
func (h *SystemHandler) Pause(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.system.pause")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	state, err := h.systemService.Pause(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		handleError(c, err)
		return
	}

	span.SetStatus(codes.Ok, "")
	response.Success(c, state)
}
