package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestOrderContext_Validate(t *testing.T) {
	valid := OrderContext{
		PlanName:   "Weight Loss",
		Quantities: map[string]int64{"Lunch": 5},
	}

	tests := []struct {
		name    string
		mutate  func(o *OrderContext)
		wantErr bool
	}{
		{name: "valid order", mutate: func(o *OrderContext) {}},
		{name: "missing plan name", mutate: func(o *OrderContext) { o.PlanName = "  " }, wantErr: true},
		{name: "no meal types", mutate: func(o *OrderContext) { o.Quantities = nil }, wantErr: true},
		{name: "zero quantity", mutate: func(o *OrderContext) { o.Quantities = map[string]int64{"Lunch": 0} }, wantErr: true},
		{name: "negative quantity", mutate: func(o *OrderContext) { o.Quantities = map[string]int64{"Lunch": -2} }, wantErr: true},
		{name: "empty meal type", mutate: func(o *OrderContext) { o.Quantities = map[string]int64{"": 1} }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			order := valid
			tt.mutate(&order)

			err := order.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidOrder)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestOrderContext_MealTypes(t *testing.T) {
	order := OrderContext{Quantities: map[string]int64{"Lunch": 1, "Breakfast": 2, "Dinner": 3}}
	assert.Equal(t, []string{"Breakfast", "Dinner", "Lunch"}, order.MealTypes())
}

func TestOrderContext_Metric(t *testing.T) {
	order := OrderContext{Metrics: map[string]decimal.Decimal{"duration": decimal.NewFromInt(30)}}

	m, ok := order.Metric("duration")
	assert.True(t, ok)
	assert.True(t, m.Equal(decimal.NewFromInt(30)))

	_, ok = order.Metric("quantity")
	assert.False(t, ok)
}

func TestOrderContext_At(t *testing.T) {
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	order := OrderContext{PlanName: "Keto"}

	at := order.At(now)
	assert.Equal(t, now, at.EvaluatedAt)
	assert.True(t, order.EvaluatedAt.IsZero(), "original is not modified")
}
