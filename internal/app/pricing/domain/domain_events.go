package domain

import "time"

// DomainEvent is the base interface for all domain events.
type DomainEvent interface {
	EventType() string
	AggregateID() string
}

// QuoteRecordedEvent is emitted when a computed price is stored as a quote.
type QuoteRecordedEvent struct {
	QuoteID     string    `json:"quote_id"`
	PlanName    string    `json:"plan_name"`
	Currency    string    `json:"currency"`
	Subtotal    string    `json:"subtotal"`
	Total       string    `json:"total"`
	RuleIDs     []string  `json:"rule_ids"`
	EvaluatedAt time.Time `json:"evaluated_at"`
	RecordedAt  time.Time `json:"recorded_at"`
}

func (e *QuoteRecordedEvent) EventType() string {
	return "pricing.quote.recorded"
}

func (e *QuoteRecordedEvent) AggregateID() string {
	return e.QuoteID
}
