package testutil

import (
	"context"
	"testing"
	"time"

	"cloud.google.com/go/spanner"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/light-bringer/mealprice-service/internal/models/m_discount_rule"
	"github.com/light-bringer/mealprice-service/internal/models/m_meal_price"
	"github.com/light-bringer/mealprice-service/internal/models/m_outbox"
	"github.com/light-bringer/mealprice-service/internal/models/m_price_quote"
)

// CreateTestMealPrice stores an active base price and returns its id.
func CreateTestMealPrice(t *testing.T, client *spanner.Client, plan, mealType, amount string) string {
	t.Helper()

	priceID := uuid.NewString()
	mut := m_meal_price.NewModel().UpsertMut(&m_meal_price.Data{
		PriceID:   priceID,
		PlanName:  plan,
		MealType:  mealType,
		BasePrice: decimal.RequireFromString(amount).Rat(),
		IsActive:  true,
	})

	_, err := client.Apply(context.Background(), []*spanner.Mutation{mut})
	require.NoError(t, err, "failed to create test meal price")

	return priceID
}

// DeactivateTestMealPrice flips a stored price to inactive.
func DeactivateTestMealPrice(t *testing.T, client *spanner.Client, priceID string) {
	t.Helper()

	mut := m_meal_price.NewModel().DeactivateMut(priceID)
	_, err := client.Apply(context.Background(), []*spanner.Mutation{mut})
	require.NoError(t, err, "failed to deactivate test meal price")
}

// RuleOption customizes a fixture discount rule.
type RuleOption func(*m_discount_rule.Data)

// Stackable marks the rule stackable.
func Stackable() RuleOption {
	return func(d *m_discount_rule.Data) { d.IsStackable = true }
}

// Inactive marks the rule inactive.
func Inactive() RuleOption {
	return func(d *m_discount_rule.Data) { d.IsActive = false }
}

// ValidBetween bounds the rule's validity window. A zero time leaves that
// side open.
func ValidBetween(from, to time.Time) RuleOption {
	return func(d *m_discount_rule.Data) {
		d.ValidFrom = spanner.NullTime{Time: from, Valid: !from.IsZero()}
		d.ValidTo = spanner.NullTime{Time: to, Valid: !to.IsZero()}
	}
}

// CreateTestDiscountRule stores an active exclusive rule, adjusted by opts.
func CreateTestDiscountRule(t *testing.T, client *spanner.Client, ruleID, discountType, condition, percentage string, opts ...RuleOption) {
	t.Helper()

	data := &m_discount_rule.Data{
		RuleID:             ruleID,
		DiscountType:       discountType,
		ConditionValue:     decimal.RequireFromString(condition).Rat(),
		DiscountPercentage: decimal.RequireFromString(percentage).Rat(),
		IsActive:           true,
	}
	for _, opt := range opts {
		opt(data)
	}

	mut := m_discount_rule.NewModel().UpsertMut(data)
	_, err := client.Apply(context.Background(), []*spanner.Mutation{mut})
	require.NoError(t, err, "failed to create test discount rule")
}

// CreateTestOutboxEvent creates a pending outbox event.
func CreateTestOutboxEvent(t *testing.T, client *spanner.Client, eventType string, aggregateID string) string {
	t.Helper()

	eventID := uuid.NewString()
	mut := m_outbox.NewModel().InsertMut(&m_outbox.Data{
		EventID:     eventID,
		EventType:   eventType,
		AggregateID: aggregateID,
		Payload:     spanner.NullJSON{Value: map[string]any{"test": "data"}, Valid: true},
	})

	_, err := client.Apply(context.Background(), []*spanner.Mutation{mut})
	require.NoError(t, err, "failed to create test outbox event")

	return eventID
}

// AssertOutboxEvent verifies an outbox event exists for the aggregate with
// the given type.
func AssertOutboxEvent(t *testing.T, client *spanner.Client, eventType, aggregateID string) {
	t.Helper()

	stmt := spanner.Statement{
		SQL: "SELECT event_id FROM outbox_events WHERE event_type = @eventType AND aggregate_id = @aggregateID",
		Params: map[string]interface{}{
			"eventType":   eventType,
			"aggregateID": aggregateID,
		},
	}

	iter := client.Single().Query(context.Background(), stmt)
	defer iter.Stop()

	_, err := iter.Next()
	require.NoError(t, err, "outbox event %s not found for %s", eventType, aggregateID)
}

// AssertOutboxEventCount verifies the count of outbox events.
func AssertOutboxEventCount(t *testing.T, client *spanner.Client, expectedCount int) {
	t.Helper()
	AssertRowCount(t, client, m_outbox.TableName, expectedCount)
}

// GetQuoteByID reads a stored quote for verification.
func GetQuoteByID(t *testing.T, client *spanner.Client, quoteID string) *m_price_quote.Data {
	t.Helper()

	row, err := client.Single().ReadRow(
		context.Background(),
		m_price_quote.TableName,
		spanner.Key{quoteID},
		m_price_quote.NewModel().ReadColumns(),
	)
	require.NoError(t, err, "failed to get quote by id")

	var data m_price_quote.Data
	require.NoError(t, row.ToStruct(&data), "failed to parse quote data")

	return &data
}
