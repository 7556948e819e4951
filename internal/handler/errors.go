package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/yayazuqui-hub/court-priority-play-99/internal/domain"
	"github.com/yayazuqui-hub/court-priority-play-99/pkg/response"
)

// handleError maps domain errors onto the HTTP error envelope. Denials
// and capacity rejections are expected outcomes and get specific codes
// so clients can render the right message.
func handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrSystemPaused):
		response.Forbidden(c, err.Error())
	case errors.Is(err, domain.ErrNotInQueue):
		response.Forbidden(c, err.Error())
	case errors.Is(err, domain.ErrWindowExpired):
		response.Forbidden(c, err.Error())
	case errors.Is(err, domain.ErrQueueFull):
		response.Conflict(c, "QUEUE_FULL", err.Error())
	case errors.Is(err, domain.ErrCategoryFull):
		response.Conflict(c, "CATEGORY_FULL", err.Error())
	case errors.Is(err, domain.ErrAlreadyInQueue):
		response.Conflict(c, "ALREADY_IN_QUEUE", err.Error())
	case domain.IsNotFound(err):
		response.NotFound(c, err.Error())
	case domain.IsValidation(err):
		response.BadRequest(c, err.Error())
	default:
		response.InternalError(c, err)
	}
}
