package repo

import (
	"encoding/json"

	"cloud.google.com/go/spanner"
	"github.com/cockroachdb/errors"
	"github.com/google/uuid"

	"github.com/light-bringer/mealprice-service/internal/app/pricing/contracts"
	"github.com/light-bringer/mealprice-service/internal/app/pricing/domain"
	"github.com/light-bringer/mealprice-service/internal/models/m_outbox"
)

// OutboxRepo implements OutboxRepository for Spanner.
type OutboxRepo struct {
	model *m_outbox.Model
	newID func() string
}

// NewOutboxRepo creates a new OutboxRepo.
func NewOutboxRepo() *OutboxRepo {
	return &OutboxRepo{
		model: m_outbox.NewModel(),
		newID: uuid.NewString,
	}
}

// EnrichEvent serializes a domain event and assigns it a fresh event id.
func (r *OutboxRepo) EnrichEvent(event domain.DomainEvent) (*contracts.OutboxEvent, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to serialize %s event", event.EventType())
	}
	return &contracts.OutboxEvent{
		EventID:     r.newID(),
		EventType:   event.EventType(),
		AggregateID: event.AggregateID(),
		Payload:     string(payload),
	}, nil
}

// InsertMut creates a mutation for inserting a pending outbox event.
func (r *OutboxRepo) InsertMut(event *contracts.OutboxEvent) *spanner.Mutation {
	var payload spanner.NullJSON
	if event.Payload != "" {
		payload = spanner.NullJSON{Value: json.RawMessage(event.Payload), Valid: true}
	}

	return r.model.InsertMut(&m_outbox.Data{
		EventID:     event.EventID,
		EventType:   event.EventType,
		AggregateID: event.AggregateID,
		Payload:     payload,
	})
}
