package domain

import (
	"slices"

	"github.com/shopspring/decimal"
)

// RuleSnapshot is the set of prices and rules a single computation reads.
type RuleSnapshot struct {
	MealPrices []MealTypePrice
	Rules      []DiscountRule
}

// SkipReason explains why a rule did not apply to an order.
type SkipReason string

const (
	SkipNone           SkipReason = ""
	SkipInactive       SkipReason = "inactive"
	SkipNotYetValid    SkipReason = "not_yet_valid"
	SkipExpired        SkipReason = "expired"
	SkipMetricMissing  SkipReason = "metric_missing"
	SkipBelowThreshold SkipReason = "below_threshold"
)

// RuleCheck is the applicability verdict for one rule.
type RuleCheck struct {
	Rule       DiscountRule
	Applicable bool
	Reason     SkipReason
	Metric     *decimal.Decimal
}

// Resolution is the set of applicable rules selected for application.
type Resolution struct {
	// Stackable holds every applicable stackable rule.
	Stackable []DiscountRule
	// ExclusiveWinner is the single non-stackable rule selected, if any.
	ExclusiveWinner *DiscountRule
	// Outranked holds applicable non-stackable rules that lost to the winner.
	Outranked []DiscountRule
}

// Ordered returns rules in application order: the exclusive winner first,
// then stackable rules by ascending rule id.
func (r Resolution) Ordered() []DiscountRule {
	stackable := slices.Clone(r.Stackable)
	slices.SortStableFunc(stackable, func(a, b DiscountRule) int {
		return a.ID.Compare(b.ID)
	})

	ordered := make([]DiscountRule, 0, len(stackable)+1)
	if r.ExclusiveWinner != nil {
		ordered = append(ordered, *r.ExclusiveWinner)
	}
	return append(ordered, stackable...)
}

// IsEmpty returns true if no rule was selected.
func (r Resolution) IsEmpty() bool {
	return r.ExclusiveWinner == nil && len(r.Stackable) == 0
}

// Explanation is a price breakdown together with how each rule was treated.
type Explanation struct {
	Breakdown  PriceBreakdown
	Checks     []RuleCheck
	Resolution Resolution
}
