package repo

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/light-bringer/mealprice-service/internal/app/pricing/domain"
)

type mockRuleRepository struct {
	mock.Mock
}

func (m *mockRuleRepository) ListActiveMealPrices(ctx context.Context, plan *string) ([]domain.RawRecord, error) {
	args := m.Called(ctx, plan)
	records, _ := args.Get(0).([]domain.RawRecord)
	return records, args.Error(1)
}

func (m *mockRuleRepository) ListActiveDiscountRules(ctx context.Context) ([]domain.RawRecord, error) {
	args := m.Called(ctx)
	records, _ := args.Get(0).([]domain.RawRecord)
	return records, args.Error(1)
}

func priceRecord(id, plan, mealType string, basePrice any) domain.RawRecord {
	return domain.RawRecord{
		domain.PriceFieldID:        id,
		domain.PriceFieldPlanName:  plan,
		domain.PriceFieldMealType:  mealType,
		domain.PriceFieldBasePrice: basePrice,
		domain.PriceFieldIsActive:  true,
	}
}

func ruleRecord(id, discountType string, condition, percentage any, stackable bool) domain.RawRecord {
	return domain.RawRecord{
		domain.RuleFieldID:             id,
		domain.RuleFieldDiscountType:   discountType,
		domain.RuleFieldConditionValue: condition,
		domain.RuleFieldPercentage:     percentage,
		domain.RuleFieldIsStackable:    stackable,
		domain.RuleFieldIsActive:       true,
	}
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
