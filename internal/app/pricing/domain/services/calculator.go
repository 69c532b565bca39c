package services

import (
	"github.com/light-bringer/mealprice-service/internal/app/pricing/domain"
)

// PriceCalculator is a domain service that turns base prices and resolved
// discounts into a PriceBreakdown.
type PriceCalculator struct {
	currency string
}

// NewPriceCalculator creates a new PriceCalculator for the given currency code.
func NewPriceCalculator(currency string) *PriceCalculator {
	return &PriceCalculator{currency: currency}
}

// ComputePrice prices the order.
//
// The subtotal is the exact sum of base price times quantity per meal type,
// rounded half-to-even to the minor unit once.
// Discounts are then applied one after another, each against the running
// subtotal left by the previous one: the exclusive winner first, then the
// stackable rules by ascending id. Each deduction is rounded half-to-even to
// the minor unit. The total never goes below zero.
func (c *PriceCalculator) ComputePrice(
	prices []domain.MealTypePrice,
	order domain.OrderContext,
	resolution domain.Resolution,
) (domain.PriceBreakdown, error) {
	if err := order.Validate(); err != nil {
		return domain.PriceBreakdown{}, err
	}

	table, err := domain.NewPriceTable(prices)
	if err != nil {
		return domain.PriceBreakdown{}, err
	}

	// 1. Base subtotal
	mealTypes := order.MealTypes()
	lines := make([]domain.LineItem, 0, len(mealTypes))
	subtotal := domain.ZeroMoney()
	for _, mealType := range mealTypes {
		price, ok := table.Lookup(order.PlanName, mealType)
		if !ok {
			return domain.PriceBreakdown{}, &domain.PricingError{
				Kind:     domain.MissingBasePrice,
				PlanName: order.PlanName,
				MealType: mealType,
			}
		}

		qty := order.Quantities[mealType]
		lineTotal := price.BasePrice.MultiplyQuantity(qty)
		lines = append(lines, domain.LineItem{
			MealType:  mealType,
			UnitPrice: price.BasePrice,
			Quantity:  qty,
			Total:     lineTotal,
		})
		subtotal = subtotal.Add(lineTotal)
	}
	subtotal = subtotal.Round()

	// 2. Sequential discounts
	running := subtotal
	clamped := false
	ordered := resolution.Ordered()
	discounts := make([]domain.AppliedDiscount, 0, len(ordered))
	for _, rule := range ordered {
		amount := running.Percent(rule.Percentage)
		after := running.Subtract(amount)
		if after.IsNegative() {
			after = domain.ZeroMoney()
			clamped = true
		}

		discounts = append(discounts, domain.AppliedDiscount{
			RuleID:         rule.ID,
			DiscountType:   rule.DiscountType,
			Percentage:     rule.Percentage,
			Amount:         amount,
			SubtotalBefore: running,
			SubtotalAfter:  after,
			Exclusive:      !rule.Stackable,
		})
		running = after
	}

	// 3. Final total
	if running.IsNegative() {
		running = domain.ZeroMoney()
		clamped = true
	}

	return domain.NewPriceBreakdown(domain.BreakdownParams{
		PlanName:    order.PlanName,
		Currency:    c.currency,
		EvaluatedAt: order.EvaluatedAt,
		Lines:       lines,
		Subtotal:    subtotal,
		Discounts:   discounts,
		Total:       running,
		Clamped:     clamped,
	}), nil
}
