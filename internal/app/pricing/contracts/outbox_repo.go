package contracts

import (
	"cloud.google.com/go/spanner"

	"github.com/light-bringer/mealprice-service/internal/app/pricing/domain"
)

// OutboxEvent represents an enriched domain event ready for persistence.
type OutboxEvent struct {
	EventID     string
	EventType   string
	AggregateID string
	Payload     string // JSON
}

// OutboxRepository defines the interface for outbox event persistence.
type OutboxRepository interface {
	// EnrichEvent serializes a domain event and assigns it an event id.
	EnrichEvent(event domain.DomainEvent) (*OutboxEvent, error)

	// InsertMut creates a mutation for inserting a pending outbox event.
	InsertMut(event *OutboxEvent) *spanner.Mutation
}

// QuoteRepository builds mutations for recorded quotes.
type QuoteRepository interface {
	InsertMut(quote *domain.Quote) (*spanner.Mutation, error)
}
