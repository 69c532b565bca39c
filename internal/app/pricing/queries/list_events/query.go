package list_events

import (
	"context"
	"time"

	"github.com/light-bringer/mealprice-service/internal/models/m_outbox"
)

const (
	DefaultLimit = 100
	MaxLimit     = 1000
)

// Request contains filtering parameters for listing events.
type Request struct {
	EventType     *string    // e.g. "pricing.quote.recorded"
	AggregateID   *string    // quote id
	Status        *string    // pending, processing, completed or failed
	Processed     *bool      // true: processed_at is set, false: not processed yet
	CreatedAfter  *time.Time // inclusive
	CreatedBefore *time.Time // exclusive
	Limit         int
	Offset        int
}

// EventsReadModel defines the interface for reading events.
type EventsReadModel interface {
	ListEvents(ctx context.Context, req *Request) ([]*m_outbox.Data, int64, error)
}

// Query handles the list events query use case.
type Query struct {
	readModel EventsReadModel
}

// NewQuery creates a new list events query.
func NewQuery(readModel EventsReadModel) *Query {
	return &Query{
		readModel: readModel,
	}
}

// Execute retrieves outbox events, newest first. The limit defaults to
// DefaultLimit and is capped at MaxLimit; a negative offset reads from the
// start. The returned count is the number of matching events, not the page
// size.
func (q *Query) Execute(ctx context.Context, req *Request) ([]*m_outbox.Data, int64, error) {
	normalized := *req
	if normalized.Limit <= 0 {
		normalized.Limit = DefaultLimit
	}
	if normalized.Limit > MaxLimit {
		normalized.Limit = MaxLimit
	}
	if normalized.Offset < 0 {
		normalized.Offset = 0
	}

	return q.readModel.ListEvents(ctx, &normalized)
}
