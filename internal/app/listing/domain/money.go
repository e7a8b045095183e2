package domain

import (
	"fmt"
	"math/big"
)

// Money represents a monetary value with precise decimal arithmetic using big.Rat.
// Backends store prices as NUMERIC/rational values; the listing engine only
// needs them as display floats once normalised.
type Money struct {
	rat *big.Rat
}

// NewMoney creates a new Money instance from numerator and denominator.
// Example: NewMoney(249900, 100) represents 2499.00
func NewMoney(numerator, denominator int64) (*Money, error) {
	if denominator == 0 {
		return nil, fmt.Errorf("denominator cannot be zero")
	}
	return &Money{rat: big.NewRat(numerator, denominator)}, nil
}

// NewMoneyFromFloat creates a Money from a display amount.
func NewMoneyFromFloat(f float64) *Money {
	rat := new(big.Rat)
	if rat.SetFloat64(f) == nil {
		return &Money{rat: big.NewRat(0, 1)}
	}
	return &Money{rat: rat}
}

// ParseMoney parses a decimal amount such as "49.99" exactly.
func ParseMoney(s string) (*Money, error) {
	rat, ok := new(big.Rat).SetString(s)
	if !ok {
		return nil, fmt.Errorf("invalid amount %q", s)
	}
	return &Money{rat: rat}, nil
}

// Rat returns a copy of the underlying rational value.
func (m *Money) Rat() *big.Rat {
	return new(big.Rat).Set(m.rat)
}

// IsPositive returns true if the money value is positive.
func (m *Money) IsPositive() bool {
	return m.rat.Sign() > 0
}

// LessThan returns true if this Money value is less than another.
func (m *Money) LessThan(other *Money) bool {
	return m.rat.Cmp(other.rat) < 0
}

// Float64 returns an approximate float64 representation (for display only, not calculations).
func (m *Money) Float64() float64 {
	f, _ := m.rat.Float64()
	return f
}

// String returns a string representation of the money value.
func (m *Money) String() string {
	return m.rat.FloatString(2)
}

// NormalizePrice maps a base price and an optional special (sale) price to
// the canonical (price, originalPrice) pair. A special price only counts
// when it is positive and below the base price.
func NormalizePrice(base, special *Money) (price float64, original *float64, err error) {
	if base == nil || !base.IsPositive() {
		return 0, nil, ErrInvalidPrice
	}
	if special == nil || !special.IsPositive() || !special.LessThan(base) {
		return base.Float64(), nil, nil
	}
	orig := base.Float64()
	return special.Float64(), &orig, nil
}
