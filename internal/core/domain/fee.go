package domain

import (
	"fmt"

	"github.com/pesabridge/pesabridge_backend/internal/apperrors"
	"github.com/shopspring/decimal"
)

// FeeStructure describes how a platform fee is computed for one currency:
// a flat component plus a fractional percentage of the amount, clamped to a
// [min, max] band. All three Money fields must share the amount's currency.
type FeeStructure struct {
	flat       Money
	percentage decimal.Decimal // fraction in [0, 1], e.g. 0.01 for 1%
	min        Money
	max        Money
}

// NewFeeStructure validates and constructs a fee structure.
func NewFeeStructure(flat Money, percentage decimal.Decimal, min, max Money) (FeeStructure, error) {
	if flat.Currency() != min.Currency() || flat.Currency() != max.Currency() {
		return FeeStructure{}, fmt.Errorf("%w: fee bounds must share the flat fee currency %s", apperrors.ErrCurrencyMismatch, flat.Currency())
	}
	if percentage.IsNegative() || percentage.GreaterThan(decimal.NewFromInt(1)) {
		return FeeStructure{}, fmt.Errorf("%w: fee percentage %s outside [0,1]", apperrors.ErrValidation, percentage)
	}
	if min.Amount().GreaterThan(max.Amount()) {
		return FeeStructure{}, fmt.Errorf("%w: minimum fee %s exceeds maximum fee %s", apperrors.ErrValidation, min, max)
	}
	return FeeStructure{flat: flat, percentage: percentage, min: min, max: max}, nil
}

// Flat returns the flat fee component.
func (f FeeStructure) Flat() Money { return f.flat }

// Percentage returns the fractional percentage component.
func (f FeeStructure) Percentage() decimal.Decimal { return f.percentage }

// Min returns the lower clamp of the computed fee.
func (f FeeStructure) Min() Money { return f.min }

// Max returns the upper clamp of the computed fee.
func (f FeeStructure) Max() Money { return f.max }

// FeeSchedule maps each currency to its fee structure.
type FeeSchedule map[Currency]FeeStructure

// ComputeFee returns the fee for the amount under this schedule. Currencies
// without a configured band are fee-free.
func (s FeeSchedule) ComputeFee(amount Money) (Money, error) {
	fs, ok := s[amount.Currency()]
	if !ok {
		return ZeroMoney(amount.Currency()), nil
	}
	return fs.Compute(amount)
}

// Compute returns the fee for the given amount: flat + amount*percentage,
// clamped to [min, max] and quantized to the amount's currency exponent.
// Deterministic and pure. Fails with ErrCurrencyMismatch when the amount's
// currency differs from the fee structure's.
func (f FeeStructure) Compute(amount Money) (Money, error) {
	if amount.Currency() != f.flat.Currency() {
		return Money{}, fmt.Errorf("%w: fee structure is in %s, amount in %s", apperrors.ErrCurrencyMismatch, f.flat.Currency(), amount.Currency())
	}

	raw := f.flat.Amount().Add(amount.Amount().Mul(f.percentage))
	if raw.LessThan(f.min.Amount()) {
		raw = f.min.Amount()
	}
	if raw.GreaterThan(f.max.Amount()) {
		raw = f.max.Amount()
	}
	return NewMoney(raw, amount.Currency())
}
