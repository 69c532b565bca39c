package main

import (
	"os"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/light-bringer/mealprice-service/internal/app/pricing/domain"
)

var now = time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)

func TestRun_Testdata(t *testing.T) {
	snapshotYAML, err := os.ReadFile("testdata/snapshot.yaml")
	require.NoError(t, err)
	orderYAML, err := os.ReadFile("testdata/order.yaml")
	require.NoError(t, err)

	explanation, err := run(snapshotYAML, orderYAML, "EUR", now)
	require.NoError(t, err)

	b := explanation.Breakdown
	assert.Equal(t, "MAD", b.Currency())
	assert.Equal(t, time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC), b.EvaluatedAt())
	assert.Equal(t, "1900.00", b.Subtotal().String())
	assert.Equal(t, "1658.70", b.Total().String())

	require.Len(t, b.Discounts(), 2)
	assert.Equal(t, domain.RuleID("r1"), b.Discounts()[0].RuleID)
	assert.Equal(t, "190.00", b.Discounts()[0].Amount.String())
	assert.Equal(t, domain.RuleID("r3"), b.Discounts()[1].RuleID)
	assert.Equal(t, "51.30", b.Discounts()[1].Amount.String())

	reasons := make(map[domain.RuleID]domain.SkipReason)
	for _, c := range explanation.Checks {
		reasons[c.Rule.ID] = c.Reason
	}
	assert.Equal(t, domain.SkipInactive, reasons["r4"])
	assert.Equal(t, domain.SkipExpired, reasons["r5"])
}

func TestRun_DefaultsEvaluationTime(t *testing.T) {
	snapshotYAML := []byte(`
prices:
  - {id: p1, plan_name: Keto, meal_type: Lunch, base_price: 10, is_active: true}
`)
	orderYAML := []byte("plan_name: Keto\nquantities: {Lunch: 3}\n")

	explanation, err := run(snapshotYAML, orderYAML, "EUR", now)
	require.NoError(t, err)

	assert.Equal(t, "EUR", explanation.Breakdown.Currency())
	assert.Equal(t, now, explanation.Breakdown.EvaluatedAt())
	assert.Equal(t, "30.00", explanation.Breakdown.Total().String())
}

func TestRun_Errors(t *testing.T) {
	const lunchPrice = "prices: [{id: p1, plan_name: Keto, meal_type: Lunch, base_price: 10, is_active: true}]"

	tests := []struct {
		name     string
		snapshot string
		order    string
		target   error
	}{
		{
			name:     "malformed snapshot",
			snapshot: "prices: [",
			order:    "plan_name: Keto",
		},
		{
			name:     "malformed order",
			snapshot: lunchPrice,
			order:    "quantities: [",
		},
		{
			name:     "rule without percentage",
			snapshot: "rules: [{id: r1, discount_type: duration, condition_value: 30}]",
			order:    "{plan_name: Keto, quantities: {Lunch: 1}}",
			target:   domain.ErrValidation,
		},
		{
			name:     "missing base price",
			snapshot: lunchPrice,
			order:    "{plan_name: Keto, quantities: {Dinner: 1}}",
			target:   domain.ErrMissingBasePrice,
		},
		{
			name:     "empty order",
			snapshot: lunchPrice,
			order:    "plan_name: Keto",
			target:   domain.ErrInvalidOrder,
		},
		{
			name:     "bad metric",
			snapshot: lunchPrice,
			order:    "{plan_name: Keto, quantities: {Lunch: 1}, metrics: {duration: thirty}}",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run([]byte(tt.snapshot), []byte(tt.order), "MAD", now)
			require.Error(t, err)
			if tt.target != nil {
				assert.True(t, errors.Is(err, tt.target), "got %v", err)
			}
		})
	}
}
