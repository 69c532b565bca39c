package services

import (
	"github.com/samber/lo"

	"github.com/light-bringer/mealprice-service/internal/app/pricing/domain"
)

// ApplicabilityFilter decides which discount rules apply to an order.
type ApplicabilityFilter struct{}

// NewApplicabilityFilter creates a new ApplicabilityFilter.
func NewApplicabilityFilter() *ApplicabilityFilter {
	return &ApplicabilityFilter{}
}

// Check evaluates a single rule against the order.
// Checks run in order: active flag, validity window, metric presence, threshold.
func (f *ApplicabilityFilter) Check(rule domain.DiscountRule, order domain.OrderContext) domain.RuleCheck {
	check := domain.RuleCheck{Rule: rule}

	if !rule.IsActive {
		check.Reason = domain.SkipInactive
		return check
	}
	if rule.ValidFrom != nil && order.EvaluatedAt.Before(*rule.ValidFrom) {
		check.Reason = domain.SkipNotYetValid
		return check
	}
	if rule.ValidTo != nil && order.EvaluatedAt.After(*rule.ValidTo) {
		check.Reason = domain.SkipExpired
		return check
	}

	metric, ok := order.Metric(rule.DiscountType)
	if !ok {
		check.Reason = domain.SkipMetricMissing
		return check
	}
	check.Metric = &metric

	if !rule.Unlocks(metric) {
		check.Reason = domain.SkipBelowThreshold
		return check
	}

	check.Applicable = true
	return check
}

// Evaluate checks every rule and returns one verdict per rule, in input order.
func (f *ApplicabilityFilter) Evaluate(rules []domain.DiscountRule, order domain.OrderContext) []domain.RuleCheck {
	return lo.Map(rules, func(rule domain.DiscountRule, _ int) domain.RuleCheck {
		return f.Check(rule, order)
	})
}

// FilterApplicable returns the rules that apply to the order.
// Rules whose discount type has no metric on the order are skipped silently.
func (f *ApplicabilityFilter) FilterApplicable(rules []domain.DiscountRule, order domain.OrderContext) []domain.DiscountRule {
	return Applicable(f.Evaluate(rules, order))
}

// Applicable extracts the applicable rules from a set of checks.
func Applicable(checks []domain.RuleCheck) []domain.DiscountRule {
	return lo.FilterMap(checks, func(c domain.RuleCheck, _ int) (domain.DiscountRule, bool) {
		return c.Rule, c.Applicable
	})
}
