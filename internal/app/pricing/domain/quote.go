package domain

import (
	"time"

	"github.com/samber/lo"
)

// Quote is a recorded price computation, kept for audit.
type Quote struct {
	id         string
	breakdown  PriceBreakdown
	recordedAt time.Time

	events []DomainEvent
}

// NewQuote records a breakdown under the given id and emits QuoteRecordedEvent.
func NewQuote(id string, breakdown PriceBreakdown, recordedAt time.Time) *Quote {
	q := &Quote{
		id:         id,
		breakdown:  breakdown,
		recordedAt: recordedAt,
	}

	q.events = append(q.events, &QuoteRecordedEvent{
		QuoteID:     id,
		PlanName:    breakdown.PlanName(),
		Currency:    breakdown.Currency(),
		Subtotal:    breakdown.Subtotal().String(),
		Total:       breakdown.Total().String(),
		RuleIDs:     lo.Map(breakdown.Discounts(), func(d AppliedDiscount, _ int) string { return string(d.RuleID) }),
		EvaluatedAt: breakdown.EvaluatedAt(),
		RecordedAt:  recordedAt,
	})

	return q
}

func (q *Quote) ID() string                { return q.id }
func (q *Quote) Breakdown() PriceBreakdown { return q.breakdown }
func (q *Quote) RecordedAt() time.Time     { return q.recordedAt }

// DomainEvents returns events raised since the quote was created.
func (q *Quote) DomainEvents() []DomainEvent {
	return q.events
}
