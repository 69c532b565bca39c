package dto

import (
	"time"

	"github.com/samber/lo"

	"github.com/light-bringer/mealprice-service/internal/app/pricing/domain"
)

// Amounts are rendered as fixed two-decimal strings. Line prices keep any
// sub-cent precision of the stored base price.

// Line is one priced meal type. Recorded quotes store the same shape.
type Line = domain.LineRecord

// Discount is one applied discount, in application order.
type Discount = domain.DiscountRecord

// Breakdown is the wire form of domain.PriceBreakdown.
type Breakdown struct {
	PlanName      string     `json:"plan_name"`
	Currency      string     `json:"currency"`
	EvaluatedAt   time.Time  `json:"evaluated_at"`
	Lines         []Line     `json:"lines"`
	Subtotal      string     `json:"subtotal"`
	Discounts     []Discount `json:"discounts"`
	TotalDiscount string     `json:"total_discount"`
	Total         string     `json:"total"`
	Clamped       bool       `json:"clamped"`
}

// FromBreakdown converts a domain breakdown.
func FromBreakdown(b domain.PriceBreakdown) Breakdown {
	return Breakdown{
		PlanName:      b.PlanName(),
		Currency:      b.Currency(),
		EvaluatedAt:   b.EvaluatedAt(),
		Lines:         b.LineRecords(),
		Subtotal:      b.Subtotal().String(),
		Discounts:     b.DiscountRecords(),
		TotalDiscount: b.TotalDiscount().String(),
		Total:         b.Total().String(),
		Clamped:       b.Clamped(),
	}
}

// RuleCheck reports how one rule was treated.
type RuleCheck struct {
	RuleID         string  `json:"rule_id"`
	DiscountType   string  `json:"discount_type"`
	ConditionValue string  `json:"condition_value"`
	Percentage     string  `json:"percentage"`
	Stackable      bool    `json:"stackable"`
	Applicable     bool    `json:"applicable"`
	Reason         string  `json:"reason,omitempty"`
	Metric         *string `json:"metric,omitempty"`
}

// Resolution groups rule ids by how the resolver treated them.
type Resolution struct {
	ExclusiveWinner *string  `json:"exclusive_winner,omitempty"`
	Stackable       []string `json:"stackable"`
	Outranked       []string `json:"outranked"`
}

// Explanation is the wire form of domain.Explanation.
type Explanation struct {
	Breakdown  Breakdown   `json:"breakdown"`
	Checks     []RuleCheck `json:"checks"`
	Resolution Resolution  `json:"resolution"`
}

// FromExplanation converts a domain explanation.
func FromExplanation(e domain.Explanation) Explanation {
	ruleIDs := func(rules []domain.DiscountRule) []string {
		return lo.Map(rules, func(r domain.DiscountRule, _ int) string { return string(r.ID) })
	}

	out := Explanation{
		Breakdown: FromBreakdown(e.Breakdown),
		Checks: lo.Map(e.Checks, func(c domain.RuleCheck, _ int) RuleCheck {
			check := RuleCheck{
				RuleID:         string(c.Rule.ID),
				DiscountType:   c.Rule.DiscountType,
				ConditionValue: c.Rule.ConditionValue.String(),
				Percentage:     c.Rule.Percentage.String(),
				Stackable:      c.Rule.Stackable,
				Applicable:     c.Applicable,
				Reason:         string(c.Reason),
			}
			if c.Metric != nil {
				check.Metric = lo.ToPtr(c.Metric.String())
			}
			return check
		}),
		Resolution: Resolution{
			Stackable: ruleIDs(e.Resolution.Stackable),
			Outranked: ruleIDs(e.Resolution.Outranked),
		},
	}
	if w := e.Resolution.ExclusiveWinner; w != nil {
		out.Resolution.ExclusiveWinner = lo.ToPtr(string(w.ID))
	}
	return out
}

// Quote is a recorded price.
type Quote struct {
	QuoteID    string    `json:"quote_id"`
	RecordedAt time.Time `json:"recorded_at"`
	Breakdown  Breakdown `json:"breakdown"`
}

// FromQuote converts a domain quote.
func FromQuote(q *domain.Quote) Quote {
	return Quote{
		QuoteID:    q.ID(),
		RecordedAt: q.RecordedAt(),
		Breakdown:  FromBreakdown(q.Breakdown()),
	}
}
