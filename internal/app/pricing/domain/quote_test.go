package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewQuote(t *testing.T) {
	evaluatedAt := time.Date(2025, 5, 1, 8, 0, 0, 0, time.UTC)
	recordedAt := evaluatedAt.Add(time.Minute)

	breakdown := NewPriceBreakdown(BreakdownParams{
		PlanName:    "Weight Loss",
		Currency:    "MAD",
		EvaluatedAt: evaluatedAt,
		Subtotal:    MustMoney("400"),
		Discounts: []AppliedDiscount{
			{RuleID: "3", Percentage: decimal.NewFromInt(10), Amount: MustMoney("40")},
		},
		Total: MustMoney("360"),
	})

	q := NewQuote("q-1", breakdown, recordedAt)

	assert.Equal(t, "q-1", q.ID())
	assert.Equal(t, recordedAt, q.RecordedAt())
	assert.Equal(t, "360.00", q.Breakdown().Total().String())

	events := q.DomainEvents()
	require.Len(t, events, 1)
	assert.Equal(t, "pricing.quote.recorded", events[0].EventType())
	assert.Equal(t, "q-1", events[0].AggregateID())

	event, ok := events[0].(*QuoteRecordedEvent)
	require.True(t, ok)
	assert.Equal(t, "400.00", event.Subtotal)
	assert.Equal(t, "360.00", event.Total)
	assert.Equal(t, []string{"3"}, event.RuleIDs)
	assert.Equal(t, evaluatedAt, event.EvaluatedAt)
}
