package services

import (
	"github.com/light-bringer/mealprice-service/internal/app/pricing/domain"
)

// Engine runs the pricing pipeline over an immutable rule snapshot:
// filter, then resolve, then calculate. It performs no I/O and holds no
// mutable state, so one Engine may serve concurrent requests.
type Engine struct {
	filter     *ApplicabilityFilter
	resolver   *DiscountResolver
	calculator *PriceCalculator
}

// NewEngine creates an Engine that prices in the given currency.
func NewEngine(currency string) *Engine {
	return &Engine{
		filter:     NewApplicabilityFilter(),
		resolver:   NewDiscountResolver(),
		calculator: NewPriceCalculator(currency),
	}
}

// Price computes the breakdown for an order.
func (e *Engine) Price(snapshot domain.RuleSnapshot, order domain.OrderContext) (domain.PriceBreakdown, error) {
	applicable := e.filter.FilterApplicable(snapshot.Rules, order)
	resolution := e.resolver.Resolve(applicable)
	return e.calculator.ComputePrice(snapshot.MealPrices, order, resolution)
}

// Explain computes the breakdown and also reports the verdict for every rule
// and how the applicable ones were resolved.
func (e *Engine) Explain(snapshot domain.RuleSnapshot, order domain.OrderContext) (domain.Explanation, error) {
	checks := e.filter.Evaluate(snapshot.Rules, order)
	resolution := e.resolver.Resolve(Applicable(checks))

	breakdown, err := e.calculator.ComputePrice(snapshot.MealPrices, order, resolution)
	if err != nil {
		return domain.Explanation{}, err
	}

	return domain.Explanation{
		Breakdown:  breakdown,
		Checks:     checks,
		Resolution: resolution,
	}, nil
}
