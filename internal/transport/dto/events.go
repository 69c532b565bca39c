package dto

import (
	"encoding/json"
	"time"

	"github.com/samber/lo"

	"github.com/light-bringer/mealprice-service/internal/app/pricing/queries/list_events"
	"github.com/light-bringer/mealprice-service/internal/models/m_outbox"
	"github.com/light-bringer/mealprice-service/internal/pkg/validator"
)

// ListEventsRequest filters the outbox. Empty filters match everything.
// Times are RFC3339.
type ListEventsRequest struct {
	EventType     string     `json:"event_type,omitempty" form:"event_type"`
	AggregateID   string     `json:"aggregate_id,omitempty" form:"aggregate_id"`
	Status        string     `json:"status,omitempty" form:"status" validate:"omitempty,oneof=pending processing completed failed"`
	Processed     *bool      `json:"processed,omitempty" form:"processed"`
	CreatedAfter  *time.Time `json:"created_after,omitempty" form:"created_after"`
	CreatedBefore *time.Time `json:"created_before,omitempty" form:"created_before"`
	Limit         int        `json:"limit,omitempty" form:"limit" validate:"gte=0"`
	Offset        int        `json:"offset,omitempty" form:"offset" validate:"gte=0"`
}

// Validate checks the request shape.
func (r *ListEventsRequest) Validate() error {
	return validator.Struct(r)
}

// ToQuery converts the request to a list_events request.
func (r *ListEventsRequest) ToQuery() *list_events.Request {
	return &list_events.Request{
		EventType:     lo.EmptyableToPtr(r.EventType),
		AggregateID:   lo.EmptyableToPtr(r.AggregateID),
		Status:        lo.EmptyableToPtr(r.Status),
		Processed:     r.Processed,
		CreatedAfter:  utcPtr(r.CreatedAfter),
		CreatedBefore: utcPtr(r.CreatedBefore),
		Limit:         r.Limit,
		Offset:        r.Offset,
	}
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	return lo.ToPtr(t.UTC())
}

// Event is one outbox event.
type Event struct {
	EventID      string          `json:"event_id"`
	EventType    string          `json:"event_type"`
	AggregateID  string          `json:"aggregate_id"`
	Payload      json.RawMessage `json:"payload,omitempty"`
	Status       string          `json:"status"`
	CreatedAt    time.Time       `json:"created_at"`
	ProcessedAt  *time.Time      `json:"processed_at,omitempty"`
	RetryCount   int64           `json:"retry_count"`
	ErrorMessage string          `json:"error_message,omitempty"`
}

// EventList is one page of events. TotalCount counts every match.
type EventList struct {
	Events     []Event `json:"events"`
	TotalCount int64   `json:"total_count"`
}

// FromEvents converts outbox rows. Payloads that fail to re-encode are
// dropped rather than failing the listing.
func FromEvents(events []*m_outbox.Data, total int64) EventList {
	return EventList{
		Events: lo.Map(events, func(e *m_outbox.Data, _ int) Event {
			out := Event{
				EventID:      e.EventID,
				EventType:    e.EventType,
				AggregateID:  e.AggregateID,
				Status:       e.Status,
				CreatedAt:    e.CreatedAt,
				RetryCount:   e.RetryCount,
				ErrorMessage: e.ErrorMessage.StringVal,
			}
			if e.Payload.Valid {
				if raw, err := json.Marshal(e.Payload.Value); err == nil {
					out.Payload = raw
				}
			}
			if e.ProcessedAt.Valid {
				out.ProcessedAt = lo.ToPtr(e.ProcessedAt.Time)
			}
			return out
		}),
		TotalCount: total,
	}
}
