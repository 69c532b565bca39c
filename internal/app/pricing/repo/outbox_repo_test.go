package repo

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/light-bringer/mealprice-service/internal/app/pricing/contracts"
	"github.com/light-bringer/mealprice-service/internal/app/pricing/domain"
	"github.com/light-bringer/mealprice-service/internal/app/pricing/queries/list_events"
	"github.com/light-bringer/mealprice-service/internal/models/m_outbox"
	"github.com/light-bringer/mealprice-service/internal/transport/dto"
)

func testQuote(t *testing.T) *domain.Quote {
	t.Helper()

	evaluatedAt := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	breakdown := domain.NewPriceBreakdown(domain.BreakdownParams{
		PlanName:    "Weight Loss",
		Currency:    "MAD",
		EvaluatedAt: evaluatedAt,
		Subtotal:    domain.MustMoney("400.00"),
		Lines: []domain.LineItem{
			{MealType: "Lunch", UnitPrice: domain.MustMoney("80.00"), Quantity: 5, Total: domain.MustMoney("400.00")},
		},
		Discounts: []domain.AppliedDiscount{{
			RuleID:         "1",
			DiscountType:   "duration",
			Percentage:     dec("10"),
			Amount:         domain.MustMoney("40.00"),
			SubtotalBefore: domain.MustMoney("400.00"),
			SubtotalAfter:  domain.MustMoney("360.00"),
		}},
		Total: domain.MustMoney("360.00"),
	})
	return domain.NewQuote("q-1", breakdown, evaluatedAt.Add(time.Second))
}

func TestOutboxRepo_EnrichEvent(t *testing.T) {
	r := NewOutboxRepo()
	r.newID = func() string { return "evt-1" }

	quote := testQuote(t)
	require.Len(t, quote.DomainEvents(), 1)

	event, err := r.EnrichEvent(quote.DomainEvents()[0])
	require.NoError(t, err)
	assert.Equal(t, "evt-1", event.EventID)
	assert.Equal(t, "pricing.quote.recorded", event.EventType)
	assert.Equal(t, "q-1", event.AggregateID)

	var payload map[string]any
	require.NoError(t, json.Unmarshal([]byte(event.Payload), &payload))
	assert.Equal(t, "360.00", payload["total"])
	assert.Equal(t, []any{"1"}, payload["rule_ids"])

	assert.NotNil(t, r.InsertMut(event))
	assert.NotNil(t, r.InsertMut(&contracts.OutboxEvent{EventID: "evt-2", EventType: "x", AggregateID: "y"}))
}

func TestQuoteRepo_InsertMut(t *testing.T) {
	mut, err := NewQuoteRepo().InsertMut(testQuote(t))
	require.NoError(t, err)
	assert.NotNil(t, mut)
}

func TestBreakdownJSON(t *testing.T) {
	b := testQuote(t).Breakdown()

	raw, err := breakdownJSON(b)
	require.NoError(t, err)

	var doc quoteDocument
	require.NoError(t, json.Unmarshal(raw, &doc))
	assert.Equal(t, b.LineRecords(), doc.Lines)
	assert.Equal(t, b.DiscountRecords(), doc.Discounts)

	wire := dto.FromBreakdown(b)
	assert.Equal(t, wire.Lines, doc.Lines)
	assert.Equal(t, wire.Discounts, doc.Discounts)

	assert.JSONEq(t, `{
		"lines": [{"meal_type": "Lunch", "unit_price": "80.00", "quantity": 5, "total": "400.00"}],
		"discounts": [{
			"rule_id": "1",
			"discount_type": "duration",
			"percentage": "10",
			"amount": "40.00",
			"subtotal_before": "400.00",
			"subtotal_after": "360.00",
			"exclusive": false
		}]
	}`, string(raw))
}

func TestEventsQuery(t *testing.T) {
	eventType := "pricing.quote.recorded"
	status := m_outbox.StatusPending
	before := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	t.Run("all filters", func(t *testing.T) {
		stmt := eventsQuery(m_outbox.NewModel(), &list_events.Request{
			EventType:     &eventType,
			Status:        &status,
			CreatedBefore: &before,
			Limit:         10,
		}).Build()

		assert.Contains(t, stmt.SQL, "FROM outbox_events")
		assert.Contains(t, stmt.SQL, "event_type = @p0")
		assert.Contains(t, stmt.SQL, "status = @p1")
		assert.Contains(t, stmt.SQL, "created_at < @p2")
		assert.NotContains(t, stmt.SQL, "aggregate_id =")
		assert.Equal(t, eventType, stmt.Params["p0"])
	})

	t.Run("no filters", func(t *testing.T) {
		stmt := eventsQuery(m_outbox.NewModel(), &list_events.Request{}).Build()
		assert.NotContains(t, stmt.SQL, "WHERE")
		assert.Empty(t, stmt.Params)
	})
}
