package domain

import (
	"github.com/cockroachdb/errors"
	"github.com/shopspring/decimal"
)

// MinorUnits is the number of decimal places amounts are rounded to.
const MinorUnits int32 = 2

// Money represents a currency amount as an exact decimal.
// Money is a value type; every operation returns a new Money.
type Money struct {
	amount decimal.Decimal
}

// NewMoney creates a Money from a decimal amount.
func NewMoney(amount decimal.Decimal) Money {
	return Money{amount: amount}
}

// NewMoneyFromString parses an amount such as "80.00".
func NewMoneyFromString(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, errors.Wrapf(err, "invalid money amount %q", s)
	}
	return Money{amount: d}, nil
}

// MustMoney parses an amount and panics on malformed input.
// Intended for fixtures and seed data.
func MustMoney(s string) Money {
	m, err := NewMoneyFromString(s)
	if err != nil {
		panic(err)
	}
	return m
}

// ZeroMoney returns a zero amount.
func ZeroMoney() Money {
	return Money{amount: decimal.Zero}
}

// Amount returns the underlying decimal.
func (m Money) Amount() decimal.Decimal {
	return m.amount
}

// Add returns m + other.
func (m Money) Add(other Money) Money {
	return Money{amount: m.amount.Add(other.amount)}
}

// Subtract returns m - other.
func (m Money) Subtract(other Money) Money {
	return Money{amount: m.amount.Sub(other.amount)}
}

// MultiplyQuantity returns the exact product m * qty. Callers round once
// after summing.
func (m Money) MultiplyQuantity(qty int64) Money {
	return Money{amount: m.amount.Mul(decimal.NewFromInt(qty))}
}

// Percent returns percentage/100 of m, rounded half-to-even to the minor unit.
func (m Money) Percent(percentage decimal.Decimal) Money {
	return Money{amount: m.amount.Mul(percentage).Shift(-2)}.Round()
}

// Round rounds to the minor unit using banker's rounding.
func (m Money) Round() Money {
	return Money{amount: m.amount.RoundBank(MinorUnits)}
}

// IsZero returns true if the amount is zero.
func (m Money) IsZero() bool {
	return m.amount.IsZero()
}

// IsNegative returns true if the amount is below zero.
func (m Money) IsNegative() bool {
	return m.amount.IsNegative()
}

// LessThan returns true if m < other.
func (m Money) LessThan(other Money) bool {
	return m.amount.LessThan(other.amount)
}

// Equals compares amounts numerically, so 80 equals 80.00.
func (m Money) Equals(other Money) bool {
	return m.amount.Equal(other.amount)
}

// Exact renders the amount without rounding. Amounts that fit the minor unit
// render like String.
func (m Money) Exact() string {
	if m.amount.Equal(m.amount.Round(MinorUnits)) {
		return m.String()
	}
	return m.amount.String()
}

// String renders the amount with exactly two decimals.
func (m Money) String() string {
	return m.amount.StringFixedBank(MinorUnits)
}
