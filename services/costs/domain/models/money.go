package models

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// moneyPrecision is the number of fractional digits used when rendering Money.
const moneyPrecision = 2

// Money is a fixed-point monetary amount. Arithmetic is exact, so sums do not
// depend on the order entries are added in.
type Money struct {
	amount decimal.Decimal
}

// ZeroMoney returns a zero amount.
func ZeroMoney() Money {
	return Money{amount: decimal.Zero}
}

// NewMoney wraps a decimal amount.
func NewMoney(d decimal.Decimal) Money {
	return Money{amount: d}
}

// ParseMoney parses a decimal string such as "1234.50".
func ParseMoney(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, fmt.Errorf("parse money %q: %w", s, err)
	}
	return Money{amount: d}, nil
}

// MustParseMoney is ParseMoney for literals known to be valid.
func MustParseMoney(s string) Money {
	m, err := ParseMoney(s)
	if err != nil {
		panic(err)
	}
	return m
}

// Add returns m + o.
func (m Money) Add(o Money) Money {
	return Money{amount: m.amount.Add(o.amount)}
}

// Mul returns m scaled by factor (e.g. an hourly rate times hours).
func (m Money) Mul(factor decimal.Decimal) Money {
	return Money{amount: m.amount.Mul(factor)}
}

// Decimal returns the underlying decimal amount.
func (m Money) Decimal() decimal.Decimal {
	return m.amount
}

// Equal reports whether both amounts are numerically equal (1.5 == 1.50).
func (m Money) Equal(o Money) bool {
	return m.amount.Equal(o.amount)
}

// IsZero reports whether the amount is zero.
func (m Money) IsZero() bool {
	return m.amount.IsZero()
}

// IsNegative reports whether the amount is below zero.
func (m Money) IsNegative() bool {
	return m.amount.IsNegative()
}

// String renders the amount with two fractional digits.
func (m Money) String() string {
	return m.amount.StringFixed(moneyPrecision)
}

// NullMoney is a Money that may be absent, in the spirit of sql.NullString.
// Valid is false when the figure does not apply (costs disabled), which is
// distinct from a valid zero amount.
type NullMoney struct {
	Money Money
	Valid bool
}

// SomeMoney returns a present NullMoney.
func SomeMoney(m Money) NullMoney {
	return NullMoney{Money: m, Valid: true}
}
