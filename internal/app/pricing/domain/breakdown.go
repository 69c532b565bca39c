package domain

import (
	"slices"
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// LineItem is the base price contribution of one ordered meal type.
type LineItem struct {
	MealType  string
	UnitPrice Money
	Quantity  int64
	Total     Money
}

// AppliedDiscount records one discount application in order.
type AppliedDiscount struct {
	RuleID         RuleID
	DiscountType   string
	Percentage     decimal.Decimal
	Amount         Money
	SubtotalBefore Money
	SubtotalAfter  Money
	Exclusive      bool
}

// LineRecord is a LineItem rendered for serialization. Unit prices and line
// totals keep sub-cent precision; see Money.Exact.
type LineRecord struct {
	MealType  string `json:"meal_type"`
	UnitPrice string `json:"unit_price"`
	Quantity  int64  `json:"quantity"`
	Total     string `json:"total"`
}

// DiscountRecord is an AppliedDiscount rendered for serialization, with
// amounts as fixed two-decimal strings.
type DiscountRecord struct {
	RuleID         string `json:"rule_id"`
	DiscountType   string `json:"discount_type"`
	Percentage     string `json:"percentage"`
	Amount         string `json:"amount"`
	SubtotalBefore string `json:"subtotal_before"`
	SubtotalAfter  string `json:"subtotal_after"`
	Exclusive      bool   `json:"exclusive"`
}

// BreakdownParams carries the values used to build a PriceBreakdown.
type BreakdownParams struct {
	PlanName    string
	Currency    string
	EvaluatedAt time.Time
	Lines       []LineItem
	Subtotal    Money
	Discounts   []AppliedDiscount
	Total       Money
	Clamped     bool
}

// PriceBreakdown is the itemized result of one price computation.
// It is immutable; accessors return copies.
type PriceBreakdown struct {
	planName    string
	currency    string
	evaluatedAt time.Time
	lines       []LineItem
	subtotal    Money
	discounts   []AppliedDiscount
	total       Money
	clamped     bool
}

// NewPriceBreakdown creates a PriceBreakdown, copying the given slices.
func NewPriceBreakdown(p BreakdownParams) PriceBreakdown {
	return PriceBreakdown{
		planName:    p.PlanName,
		currency:    p.Currency,
		evaluatedAt: p.EvaluatedAt,
		lines:       slices.Clone(p.Lines),
		subtotal:    p.Subtotal,
		discounts:   slices.Clone(p.Discounts),
		total:       p.Total,
		clamped:     p.Clamped,
	}
}

func (b PriceBreakdown) PlanName() string       { return b.planName }
func (b PriceBreakdown) Currency() string       { return b.currency }
func (b PriceBreakdown) EvaluatedAt() time.Time { return b.evaluatedAt }
func (b PriceBreakdown) Subtotal() Money        { return b.subtotal }
func (b PriceBreakdown) Total() Money           { return b.total }

// Clamped reports whether compounding discounts were clamped at zero.
func (b PriceBreakdown) Clamped() bool { return b.clamped }

// Lines returns a copy of the line items.
func (b PriceBreakdown) Lines() []LineItem {
	return slices.Clone(b.lines)
}

// LineRecords renders the line items.
func (b PriceBreakdown) LineRecords() []LineRecord {
	return lo.Map(b.lines, func(l LineItem, _ int) LineRecord {
		return LineRecord{
			MealType:  l.MealType,
			UnitPrice: l.UnitPrice.Exact(),
			Quantity:  l.Quantity,
			Total:     l.Total.Exact(),
		}
	})
}

// DiscountRecords renders the applied discounts in application order.
func (b PriceBreakdown) DiscountRecords() []DiscountRecord {
	return lo.Map(b.discounts, func(d AppliedDiscount, _ int) DiscountRecord {
		return DiscountRecord{
			RuleID:         string(d.RuleID),
			DiscountType:   d.DiscountType,
			Percentage:     d.Percentage.String(),
			Amount:         d.Amount.String(),
			SubtotalBefore: d.SubtotalBefore.String(),
			SubtotalAfter:  d.SubtotalAfter.String(),
			Exclusive:      d.Exclusive,
		}
	})
}

// Discounts returns a copy of the applied discounts in application order.
func (b PriceBreakdown) Discounts() []AppliedDiscount {
	return slices.Clone(b.discounts)
}

// TotalDiscount returns the amount taken off the subtotal.
func (b PriceBreakdown) TotalDiscount() Money {
	return b.subtotal.Subtract(b.total)
}
