package http

import (
	"net/http"

	"github.com/cockroachdb/errors"
	"github.com/gin-gonic/gin"

	"github.com/light-bringer/mealprice-service/internal/app/pricing/queries/list_events"
	"github.com/light-bringer/mealprice-service/internal/transport/dto"
)

// EventsHandler handles HTTP requests for events.
type EventsHandler struct {
	listEvents *list_events.Query
}

// NewEventsHandler creates a new HTTP events handler. listEvents may be nil.
func NewEventsHandler(listEvents *list_events.Query) *EventsHandler {
	return &EventsHandler{
		listEvents: listEvents,
	}
}

// ListEvents handles GET /api/v1/events. Query parameters: event_type,
// aggregate_id, status, processed, created_after, created_before, limit and
// offset.
func (h *EventsHandler) ListEvents(c *gin.Context) {
	if h.listEvents == nil {
		_ = c.Error(errors.Wrap(errUnavailable, "event listing"))
		return
	}

	var req dto.ListEventsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		_ = c.Error(errors.Mark(errors.Wrap(err, "invalid query"), errMalformedBody))
		return
	}
	if err := req.Validate(); err != nil {
		_ = c.Error(err)
		return
	}

	events, total, err := h.listEvents.Execute(c.Request.Context(), req.ToQuery())
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.FromEvents(events, total))
}
