package domain

import (
	"slices"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// OrderContext is the shape of an order being priced. It is never persisted.
type OrderContext struct {
	PlanName string
	// Quantities maps meal type to number of meals ordered.
	Quantities map[string]int64
	// Metrics maps discount type to the value tested against rule thresholds,
	// e.g. {"duration": 30} for a 30-day plan.
	Metrics     map[string]decimal.Decimal
	EvaluatedAt time.Time
}

// Validate checks the order is priceable.
func (o OrderContext) Validate() error {
	if strings.TrimSpace(o.PlanName) == "" {
		return &OrderError{Field: "plan_name", Reason: "is required"}
	}
	if len(o.Quantities) == 0 {
		return &OrderError{Field: "quantities", Reason: "must contain at least one meal type"}
	}
	for _, mealType := range o.MealTypes() {
		if strings.TrimSpace(mealType) == "" {
			return &OrderError{Field: "quantities", Reason: "contains an empty meal type"}
		}
		if o.Quantities[mealType] <= 0 {
			return &OrderError{Field: "quantities." + mealType, Reason: "must be positive"}
		}
	}
	return nil
}

// MealTypes returns the ordered meal types in ascending order.
func (o OrderContext) MealTypes() []string {
	mealTypes := lo.Keys(o.Quantities)
	slices.Sort(mealTypes)
	return mealTypes
}

// Metric returns the metric for a discount type, if the order carries one.
func (o OrderContext) Metric(discountType string) (decimal.Decimal, bool) {
	m, ok := o.Metrics[discountType]
	return m, ok
}

// At returns a copy of the order evaluated at t.
func (o OrderContext) At(t time.Time) OrderContext {
	o.EvaluatedAt = t
	return o
}
