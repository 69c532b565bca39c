package services

import (
	"slices"

	"github.com/samber/lo"

	"github.com/light-bringer/mealprice-service/internal/app/pricing/domain"
)

// DiscountResolver selects which applicable rules are actually applied.
//
// Every stackable rule is selected. Non-stackable rules compete for a single
// slot: the highest percentage wins, then the higher condition value, then
// the lowest rule id.
type DiscountResolver struct{}

// NewDiscountResolver creates a new DiscountResolver.
func NewDiscountResolver() *DiscountResolver {
	return &DiscountResolver{}
}

// Resolve partitions the applicable rules and picks the exclusive winner.
func (r *DiscountResolver) Resolve(applicable []domain.DiscountRule) domain.Resolution {
	stackable := lo.Filter(applicable, func(rule domain.DiscountRule, _ int) bool {
		return rule.Stackable
	})
	exclusive := lo.Reject(applicable, func(rule domain.DiscountRule, _ int) bool {
		return rule.Stackable
	})

	slices.SortStableFunc(stackable, func(a, b domain.DiscountRule) int {
		return a.ID.Compare(b.ID)
	})

	res := domain.Resolution{Stackable: stackable}
	if len(exclusive) == 0 {
		return res
	}

	slices.SortStableFunc(exclusive, compareExclusive)
	winner := exclusive[0]
	res.ExclusiveWinner = &winner
	if len(exclusive) > 1 {
		res.Outranked = exclusive[1:]
	}
	return res
}

// compareExclusive sorts the preferred rule first.
func compareExclusive(a, b domain.DiscountRule) int {
	if c := b.Percentage.Cmp(a.Percentage); c != 0 {
		return c
	}
	if c := b.ConditionValue.Cmp(a.ConditionValue); c != 0 {
		return c
	}
	return a.ID.Compare(b.ID)
}
