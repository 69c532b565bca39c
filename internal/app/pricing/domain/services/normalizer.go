package services

import (
	"time"

	"github.com/cockroachdb/errors"
	"github.com/shopspring/decimal"

	"github.com/light-bringer/mealprice-service/internal/app/pricing/domain"
)

var maxPercentage = decimal.NewFromInt(100)

// Normalizer validates raw storage records and converts them into typed
// prices and rules. A single malformed record fails the whole batch.
type Normalizer struct{}

// NewNormalizer creates a new Normalizer.
func NewNormalizer() *Normalizer {
	return &Normalizer{}
}

// NormalizeSnapshot normalizes prices and rules into a RuleSnapshot.
func (n *Normalizer) NormalizeSnapshot(prices, rules []domain.RawRecord) (domain.RuleSnapshot, error) {
	mealPrices, err := n.NormalizeMealPrices(prices)
	if err != nil {
		return domain.RuleSnapshot{}, err
	}
	discountRules, err := n.NormalizeDiscountRules(rules)
	if err != nil {
		return domain.RuleSnapshot{}, err
	}
	return domain.RuleSnapshot{MealPrices: mealPrices, Rules: discountRules}, nil
}

// NormalizeMealPrices converts raw price records.
func (n *Normalizer) NormalizeMealPrices(records []domain.RawRecord) ([]domain.MealTypePrice, error) {
	prices := make([]domain.MealTypePrice, 0, len(records))
	for _, rec := range records {
		price, err := n.normalizeMealPrice(rec)
		if err != nil {
			return nil, err
		}
		prices = append(prices, price)
	}
	return prices, nil
}

// NormalizeDiscountRules converts raw rule records.
func (n *Normalizer) NormalizeDiscountRules(records []domain.RawRecord) ([]domain.DiscountRule, error) {
	rules := make([]domain.DiscountRule, 0, len(records))
	for _, rec := range records {
		rule, err := n.normalizeDiscountRule(rec)
		if err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}
	return rules, nil
}

func (n *Normalizer) normalizeMealPrice(rec domain.RawRecord) (domain.MealTypePrice, error) {
	f := fieldReader{entity: domain.EntityMealTypePrice, rec: rec}

	id, err := f.requiredText(domain.PriceFieldID)
	if err != nil {
		return domain.MealTypePrice{}, err
	}
	f.id = id

	planName, err := f.requiredText(domain.PriceFieldPlanName)
	if err != nil {
		return domain.MealTypePrice{}, err
	}
	mealType, err := f.requiredText(domain.PriceFieldMealType)
	if err != nil {
		return domain.MealTypePrice{}, err
	}
	basePrice, err := f.requiredDecimal(domain.PriceFieldBasePrice)
	if err != nil {
		return domain.MealTypePrice{}, err
	}
	if basePrice.IsNegative() {
		return domain.MealTypePrice{}, f.invalid(domain.PriceFieldBasePrice, "must not be negative")
	}
	isActive, err := f.optionalBool(domain.PriceFieldIsActive)
	if err != nil {
		return domain.MealTypePrice{}, err
	}

	return domain.MealTypePrice{
		ID:        id,
		PlanName:  planName,
		MealType:  mealType,
		BasePrice: domain.NewMoney(basePrice),
		IsActive:  isActive,
	}, nil
}

func (n *Normalizer) normalizeDiscountRule(rec domain.RawRecord) (domain.DiscountRule, error) {
	f := fieldReader{entity: domain.EntityDiscountRule, rec: rec}

	id, err := f.requiredText(domain.RuleFieldID)
	if err != nil {
		return domain.DiscountRule{}, err
	}
	f.id = id

	discountType, err := f.requiredText(domain.RuleFieldDiscountType)
	if err != nil {
		return domain.DiscountRule{}, err
	}
	conditionValue, err := f.requiredDecimal(domain.RuleFieldConditionValue)
	if err != nil {
		return domain.DiscountRule{}, err
	}
	percentage, err := f.requiredDecimal(domain.RuleFieldPercentage)
	if err != nil {
		return domain.DiscountRule{}, err
	}
	if percentage.IsNegative() || percentage.GreaterThan(maxPercentage) {
		return domain.DiscountRule{}, f.invalid(domain.RuleFieldPercentage, "must be between 0 and 100, got "+percentage.String())
	}
	stackable, err := f.optionalBool(domain.RuleFieldIsStackable)
	if err != nil {
		return domain.DiscountRule{}, err
	}
	isActive, err := f.optionalBool(domain.RuleFieldIsActive)
	if err != nil {
		return domain.DiscountRule{}, err
	}
	validFrom, err := f.optionalTime(domain.RuleFieldValidFrom)
	if err != nil {
		return domain.DiscountRule{}, err
	}
	validTo, err := f.optionalTime(domain.RuleFieldValidTo)
	if err != nil {
		return domain.DiscountRule{}, err
	}
	if validFrom != nil && validTo != nil && validFrom.After(*validTo) {
		return domain.DiscountRule{}, f.invalid(domain.RuleFieldValidFrom, "must not be after valid_to")
	}

	return domain.DiscountRule{
		ID:             domain.RuleID(id),
		DiscountType:   discountType,
		ConditionValue: conditionValue,
		Percentage:     percentage,
		Stackable:      stackable,
		IsActive:       isActive,
		ValidFrom:      validFrom,
		ValidTo:        validTo,
	}, nil
}

// fieldReader reads typed fields from one record and reports failures as
// ValidationErrors naming the record and field.
type fieldReader struct {
	entity string
	id     string
	rec    domain.RawRecord
}

func (f fieldReader) invalid(field, reason string) error {
	return &domain.ValidationError{Entity: f.entity, RecordID: f.id, Field: field, Reason: reason}
}

func (f fieldReader) wrap(field string, err error) error {
	return f.invalid(field, err.Error())
}

func (f fieldReader) lookup(field string) (any, bool) {
	v, ok := f.rec[field]
	if !ok || isNil(v) {
		return nil, false
	}
	return v, true
}

func (f fieldReader) requiredText(field string) (string, error) {
	v, ok := f.lookup(field)
	if !ok {
		return "", f.wrap(field, errMissing)
	}
	s, err := toText(v)
	if err != nil {
		return "", f.wrap(field, err)
	}
	if s == "" {
		return "", f.wrap(field, errMissing)
	}
	return s, nil
}

func (f fieldReader) requiredDecimal(field string) (decimal.Decimal, error) {
	v, ok := f.lookup(field)
	if !ok {
		return decimal.Zero, f.wrap(field, errMissing)
	}
	d, err := toDecimal(v)
	if err != nil {
		return decimal.Zero, f.wrap(field, err)
	}
	return d, nil
}

func (f fieldReader) optionalBool(field string) (bool, error) {
	v, ok := f.lookup(field)
	if !ok {
		return false, nil
	}
	b, err := toBool(v)
	if err != nil {
		return false, f.wrap(field, errors.Wrap(err, "must be a boolean"))
	}
	return b, nil
}

func (f fieldReader) optionalTime(field string) (*time.Time, error) {
	v, ok := f.lookup(field)
	if !ok {
		return nil, nil
	}
	t, err := toTime(v)
	if err != nil {
		return nil, f.wrap(field, err)
	}
	return t, nil
}
