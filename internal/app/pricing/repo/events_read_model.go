package repo

import (
	"context"

	"cloud.google.com/go/spanner"
	"github.com/cockroachdb/errors"
	"github.com/samber/lo"
	"google.golang.org/api/iterator"

	"github.com/light-bringer/mealprice-service/internal/app/pricing/queries/list_events"
	"github.com/light-bringer/mealprice-service/internal/models/m_outbox"
	"github.com/light-bringer/mealprice-service/internal/pkg/query"
)

// EventsReadModel implements list_events.EventsReadModel for Spanner.
type EventsReadModel struct {
	client *spanner.Client
	model  *m_outbox.Model
}

// NewEventsReadModel creates a new EventsReadModel.
func NewEventsReadModel(client *spanner.Client) *EventsReadModel {
	return &EventsReadModel{
		client: client,
		model:  m_outbox.NewModel(),
	}
}

// ListEvents retrieves events from the outbox_events table with filtering.
func (r *EventsReadModel) ListEvents(ctx context.Context, req *list_events.Request) ([]*m_outbox.Data, int64, error) {
	base := eventsQuery(r.model, req)

	txn := r.client.ReadOnlyTransaction()
	defer txn.Close()

	iter := txn.Query(ctx, eventsPage(base, req))
	defer iter.Stop()

	var events []*m_outbox.Data
	for {
		row, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, 0, errors.Wrap(err, "failed to iterate events")
		}

		var event m_outbox.Data
		if err := row.ToStruct(&event); err != nil {
			return nil, 0, errors.Wrap(err, "failed to scan event")
		}
		events = append(events, &event)
	}

	var total int64
	countIter := txn.Query(ctx, base.Count().Build())
	defer countIter.Stop()
	row, err := countIter.Next()
	if err != nil {
		return nil, 0, errors.Wrap(err, "failed to count events")
	}
	if err := row.Column(0, &total); err != nil {
		return nil, 0, errors.Wrap(err, "failed to read event count")
	}

	return events, total, nil
}

func eventsQuery(model *m_outbox.Model, req *list_events.Request) *query.Builder {
	processed := lo.FromPtr(req.Processed)
	b := query.From(m_outbox.TableName).Select(model.ReadColumns()...).
		WhereIf(req.Processed != nil && processed, query.IsNotNull(m_outbox.ProcessedAt)).
		WhereIf(req.Processed != nil && !processed, query.IsNull(m_outbox.ProcessedAt))
	if req.EventType != nil {
		b = b.Where(query.Eq(m_outbox.EventType, *req.EventType))
	}
	if req.AggregateID != nil {
		b = b.Where(query.Eq(m_outbox.AggregateID, *req.AggregateID))
	}
	if req.Status != nil {
		b = b.Where(query.Eq(m_outbox.Status, *req.Status))
	}
	if req.CreatedAfter != nil {
		b = b.Where(query.Gte(m_outbox.CreatedAt, *req.CreatedAfter))
	}
	if req.CreatedBefore != nil {
		b = b.Where(query.Lt(m_outbox.CreatedAt, *req.CreatedBefore))
	}
	return b
}

// eventsPage orders newest first, with the event id breaking ties so that
// offsets page through a stable order.
func eventsPage(base *query.Builder, req *list_events.Request) spanner.Statement {
	return base.
		OrderBy(m_outbox.CreatedAt, query.Desc).
		OrderBy(m_outbox.EventID, query.Asc).
		Limit(int64(req.Limit)).
		Offset(int64(req.Offset)).
		Build()
}
