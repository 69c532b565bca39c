package domain

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// RuleID identifies a discount rule.
type RuleID string

// Compare orders rule ids. Numeric ids sort numerically and before
// non-numeric ids; non-numeric ids sort lexically.
func (id RuleID) Compare(other RuleID) int {
	a, errA := strconv.ParseInt(string(id), 10, 64)
	b, errB := strconv.ParseInt(string(other), 10, 64)
	switch {
	case errA == nil && errB == nil:
		switch {
		case a < b:
			return -1
		case a > b:
			return 1
		}
		return 0
	case errA == nil:
		return -1
	case errB == nil:
		return 1
	}
	return strings.Compare(string(id), string(other))
}

// Less reports whether id sorts before other.
func (id RuleID) Less(other RuleID) bool {
	return id.Compare(other) < 0
}

// DiscountRule is a percentage discount unlocked once an order metric
// reaches ConditionValue. DiscountType links the rule to that metric.
type DiscountRule struct {
	ID             RuleID
	DiscountType   string
	ConditionValue decimal.Decimal
	Percentage     decimal.Decimal // 0-100
	Stackable      bool
	IsActive       bool
	ValidFrom      *time.Time // nil = unbounded
	ValidTo        *time.Time // nil = unbounded
}

// IsValidAt checks if the rule's validity window contains t.
// Both bounds are inclusive.
func (r DiscountRule) IsValidAt(t time.Time) bool {
	if r.ValidFrom != nil && t.Before(*r.ValidFrom) {
		return false
	}
	if r.ValidTo != nil && t.After(*r.ValidTo) {
		return false
	}
	return true
}

// Unlocks reports whether metric meets or exceeds the rule's threshold.
func (r DiscountRule) Unlocks(metric decimal.Decimal) bool {
	return metric.GreaterThanOrEqual(r.ConditionValue)
}
