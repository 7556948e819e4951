package handler

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/yayazuqui-hub/court-priority-play-99/internal/dto"
	"github.com/yayazuqui-hub/court-priority-play-99/internal/service"
	"github.com/yayazuqui-hub/court-priority-play-99/pkg/middleware"
	"github.com/yayazuqui-hub/court-priority-play-99/pkg/response"
	"github.com/yayazuqui-hub/court-priority-play-99/pkg/telemetry"
)

// QueueHandler handles priority queue HTTP requests
type QueueHandler struct {
	queueService service.QueueService
}

// NewQueueHandler creates a new queue handler
func NewQueueHandler(queueService service.QueueService) *QueueHandler {
	return &QueueHandler{queueService: queueService}
}

// List handles GET /queue
func (h *QueueHandler) List(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.queue.list")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	queue, err := h.queueService.List(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		handleError(c, err)
		return
	}

	span.SetStatus(codes.Ok, "")
	response.Success(c, queue)
}

// Join handles POST /queue/join
func (h *QueueHandler) Join(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.queue.join")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	userID := c.GetString(middleware.ContextUserID)
	if userID == "" {
		span.SetStatus(codes.Error, "unauthorized")
		response.Unauthorized(c, "authentication required")
		return
	}

	var req dto.JoinQueueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		span.SetStatus(codes.Error, "invalid request")
		response.BadRequest(c, err.Error())
		return
	}

	span.SetAttributes(attribute.String("user_id", userID))

	entry, err := h.queueService.Join(ctx, userID, req.GenderCategory)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		handleError(c, err)
		return
	}

	span.SetAttributes(attribute.Int("position", entry.Position))
	span.SetStatus(codes.Ok, "")
	response.Created(c, entry)
}

// Leave handles DELETE /queue/leave
func (h *QueueHandler) Leave(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.queue.leave")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	userID := c.GetString(middleware.ContextUserID)
	if userID == "" {
		span.SetStatus(codes.Error, "unauthorized")
		response.Unauthorized(c, "authentication required")
		return
	}

	if err := h.queueService.Leave(ctx, userID); err != nil {
		span.SetStatus(codes.Error, err.Error())
		handleError(c, err)
		return
	}

	span.SetStatus(codes.Ok, "")
	response.Success(c, gin.H{"left": true})
}

// AdminAdd handles POST /admin/queue/entries
func (h *QueueHandler) AdminAdd(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.queue.admin_add")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	var req dto.AddQueueEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		span.SetStatus(codes.Error, "invalid request")
		response.BadRequest(c, err.Error())
		return
	}

	span.SetAttributes(attribute.String("target_user_id", req.UserID))

	entry, err := h.queueService.AdminAdd(ctx, req.UserID, req.GenderCategory)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		handleError(c, err)
		return
	}

	span.SetStatus(codes.Ok, "")
	response.Created(c, entry)
}

// AdminRemove handles DELETE /admin/queue/entries/:id
func (h *QueueHandler) AdminRemove(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.queue.admin_remove")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	entryID := c.Param("id")
	span.SetAttributes(attribute.String("entry_id", entryID))

	removed, err := h.queueService.Remove(ctx, entryID)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		handleError(c, err)
		return
	}

	span.SetStatus(codes.Ok, "")
	response.Success(c, removed)
}

// AdminClear handles DELETE /admin/queue
func (h *QueueHandler) AdminClear(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.queue.admin_clear")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	if err := h.queueService.Clear(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		handleError(c, err)
		return
	}

	span.SetStatus(codes.Ok, "")
	response.Success(c, gin.H{"cleared": true})
}

// AdminSweep handles POST /admin/queue/sweep, forcing an immediate
// idle sweep outside the worker's schedule
func (h *QueueHandler) AdminSweep(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.queue.admin_sweep")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	result, err := h.queueService.SweepIdle(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		handleError(c, err)
		return
	}

	span.SetAttributes(attribute.Int("evicted", result.EvictedCount))
	span.SetStatus(codes.Ok, "")
	response.Success(c, result)
}
