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

// ScheduleHandler handles auto schedule rule HTTP requests
type ScheduleHandler struct {
	scheduleService service.ScheduleService
}

// NewScheduleHandler creates a new schedule handler
func NewScheduleHandler(scheduleService service.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{scheduleService: scheduleService}
}

// List handles GET /admin/schedules
func (h *ScheduleHandler) List(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.schedule.list")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	rules, err := h.scheduleService.ListRules(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		handleError(c, err)
		return
	}

	span.SetStatus(codes.Ok, "")
	response.Success(c, rules)
}

// Get handles GET /admin/schedules/:id
func (h *ScheduleHandler) Get(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.schedule.get")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	rule, err := h.scheduleService.GetRule(ctx, c.Param("id"))
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		handleError(c, err)
		return
	}

	span.SetStatus(codes.Ok, "")
	response.Success(c, rule)
}

// Create handles POST /admin/schedules
func (h *ScheduleHandler) Create(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.schedule.create")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	var req dto.ScheduleRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		span.SetStatus(codes.Error, "invalid request")
		response.BadRequest(c, err.Error())
		return
	}

	createdBy := c.GetString(middleware.ContextUserID)
	rule, err := h.scheduleService.CreateRule(ctx, createdBy, &req)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		handleError(c, err)
		return
	}

	span.SetAttributes(attribute.String("rule_id", rule.ID))
	span.SetStatus(codes.Ok, "")
	response.Created(c, rule)
}

// Update handles PUT /admin/schedules/:id
func (h *ScheduleHandler) Update(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.schedule.update")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	var req dto.ScheduleRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		span.SetStatus(codes.Error, "invalid request")
		response.BadRequest(c, err.Error())
		return
	}

	rule, err := h.scheduleService.UpdateRule(ctx, c.Param("id"), &req)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		handleError(c, err)
		return
	}

	span.SetStatus(codes.Ok, "")
	response.Success(c, rule)
}

// Delete handles DELETE /admin/schedules/:id
func (h *ScheduleHandler) Delete(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.schedule.delete")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	if err := h.scheduleService.DeleteRule(ctx, c.Param("id")); err != nil {
		span.SetStatus(codes.Error, err.Error())
		handleError(c, err)
		return
	}

	span.SetStatus(codes.Ok, "")
	response.Success(c, gin.H{"deleted": true})
}

// Check handles POST /admin/schedules/check, running one trigger
// evaluation on demand
func (h *ScheduleHandler) Check(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.schedule.check")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	result, err := h.scheduleService.RunCheck(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		handleError(c, err)
		return
	}

	span.SetAttributes(attribute.Bool("started", result.Started))
	span.SetStatus(codes.Ok, "")
	response.Success(c, result)
}
