package services

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/light-bringer/mealprice-service/internal/app/pricing/domain"
)

var evalTime = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func price(id, plan, mealType, amount string) domain.MealTypePrice {
	return domain.MealTypePrice{
		ID:        id,
		PlanName:  plan,
		MealType:  mealType,
		BasePrice: domain.MustMoney(amount),
		IsActive:  true,
	}
}

func rule(id, discountType, condition, percentage string, stackable bool) domain.DiscountRule {
	return domain.DiscountRule{
		ID:             domain.RuleID(id),
		DiscountType:   discountType,
		ConditionValue: dec(condition),
		Percentage:     dec(percentage),
		Stackable:      stackable,
		IsActive:       true,
	}
}

func order(plan string, quantities map[string]int64, metrics map[string]string) domain.OrderContext {
	m := make(map[string]decimal.Decimal, len(metrics))
	for k, v := range metrics {
		m[k] = dec(v)
	}
	return domain.OrderContext{
		PlanName:    plan,
		Quantities:  quantities,
		Metrics:     m,
		EvaluatedAt: evalTime,
	}
}

func ptrTime(t time.Time) *time.Time {
	return &t
}
