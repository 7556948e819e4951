package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yayazuqui-hub/court-priority-play-99/internal/events"
	"github.com/yayazuqui-hub/court-priority-play-99/pkg/logger"
	"github.com/yayazuqui-hub/court-priority-play-99/pkg/response"
)

// EventsHandler streams state-change events to clients over SSE
type EventsHandler struct {
	subscriber events.Subscriber
	heartbeat  time.Duration
	log        *logger.Logger
}

// NewEventsHandler creates a new events handler
func NewEventsHandler(subscriber events.Subscriber) *EventsHandler {
	return &EventsHandler{
		subscriber: subscriber,
		heartbeat:  25 * time.Second,
		log:        logger.Get().With(zap.String("component", "events_handler")),
	}
}

// Stream handles GET /events/stream. Each state change is sent as one
// SSE event; a comment line keeps idle connections alive through
// proxies. The stream ends when the client disconnects.
func (h *EventsHandler) Stream(c *gin.Context) {
	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		response.InternalError(c, fmt.Errorf("streaming unsupported"))
		return
	}

	ctx := c.Request.Context()
	changes, err := h.subscriber.Subscribe(ctx)
	if err != nil {
		h.log.Error("failed to open event stream", zap.Error(err))
		response.InternalError(c, err)
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)
	flusher.Flush()

	heartbeat := time.NewTicker(h.heartbeat)
	defer heartbeat.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-heartbeat.C:
			fmt.Fprint(c.Writer, ": keep-alive\n\n")
			flusher.Flush()
		case event, ok := <-changes:
			if !ok {
				return
			}
			payload, err := json.Marshal(event)
			if err != nil {
				continue
			}
			fmt.Fprintf(c.Writer, "event: %s\ndata: %s\n\n", event.Kind, payload)
			flusher.Flush()
		}
	}
}
