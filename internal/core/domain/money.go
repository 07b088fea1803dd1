package domain

import (
	"fmt"

	"github.com/pesabridge/pesabridge_backend/internal/apperrors"
	"github.com/shopspring/decimal"
)

// Money is an immutable monetary amount in a single currency.
// The amount is always quantized to the currency's fixed exponent using
// round-half-even, so two Money values in the same currency are directly
// comparable. Every operation returns a new value; the receiver is never
// mutated, so concurrent use needs no synchronization.
type Money struct {
	amount   decimal.Decimal
	currency Currency
}

// NewMoney constructs a Money value, quantizing the amount to the currency's
// exponent with banker's rounding. Negative amounts are allowed; callers that
// need a sign constraint enforce it themselves.
func NewMoney(amount decimal.Decimal, currency Currency) (Money, error) {
	if !currency.IsValid() {
		return Money{}, fmt.Errorf("%w: unsupported currency code %q", apperrors.ErrValidation, string(currency))
	}
	return Money{
		amount:   amount.RoundBank(currency.Exponent()),
		currency: currency,
	}, nil
}

// NewMoneyFromString parses a decimal string (e.g. "12.3456") into a Money value.
func NewMoneyFromString(amount string, currency Currency) (Money, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return Money{}, fmt.Errorf("%w: %q is not a decimal amount", apperrors.ErrInvalidAmount, amount)
	}
	return NewMoney(d, currency)
}

// MoneyFromMinorUnits constructs a Money value from an integer count of the
// currency's minor units (cents, satoshis, micro-USDT).
func MoneyFromMinorUnits(units int64, currency Currency) (Money, error) {
	if !currency.IsValid() {
		return Money{}, fmt.Errorf("%w: unsupported currency code %q", apperrors.ErrValidation, string(currency))
	}
	return Money{
		amount:   decimal.New(units, -currency.Exponent()),
		currency: currency,
	}, nil
}

// ZeroMoney returns the zero amount in the given currency.
func ZeroMoney(currency Currency) Money {
	return Money{amount: decimal.Zero.RoundBank(currency.Exponent()), currency: currency}
}

// Amount returns the quantized decimal amount.
func (m Money) Amount() decimal.Decimal {
	return m.amount
}

// Currency returns the currency code.
func (m Money) Currency() Currency {
	return m.currency
}

// sameCurrency guards cross-currency operations.
func (m Money) sameCurrency(other Money, op string) error {
	if m.currency != other.currency {
		return fmt.Errorf("%w: cannot %s %s and %s", apperrors.ErrCurrencyMismatch, op, m.currency, other.currency)
	}
	return nil
}

// Add returns m + other. Fails if the currencies differ.
func (m Money) Add(other Money) (Money, error) {
	if err := m.sameCurrency(other, "add"); err != nil {
		return Money{}, err
	}
	return NewMoney(m.amount.Add(other.amount), m.currency)
}

// Sub returns m - other. Fails if the currencies differ.
func (m Money) Sub(other Money) (Money, error) {
	if err := m.sameCurrency(other, "subtract"); err != nil {
		return Money{}, err
	}
	return NewMoney(m.amount.Sub(other.amount), m.currency)
}

// Mul scales the amount by an arbitrary-precision decimal factor,
// quantizing the result back to the currency's exponent.
func (m Money) Mul(factor decimal.Decimal) Money {
	scaled, _ := NewMoney(m.amount.Mul(factor), m.currency)
	return scaled
}

// Div divides the amount by a nonzero decimal divisor.
func (m Money) Div(divisor decimal.Decimal) (Money, error) {
	if divisor.IsZero() {
		return Money{}, fmt.Errorf("%w: division by zero", apperrors.ErrInvalidAmount)
	}
	return NewMoney(m.amount.Div(divisor), m.currency)
}

// Neg returns the amount with its sign flipped.
func (m Money) Neg() Money {
	return Money{amount: m.amount.Neg(), currency: m.currency}
}

// Abs returns the absolute amount.
func (m Money) Abs() Money {
	return Money{amount: m.amount.Abs(), currency: m.currency}
}

// Cmp compares two Money values: -1 if m < other, 0 if equal, 1 if m > other.
// Fails if the currencies differ.
func (m Money) Cmp(other Money) (int, error) {
	if err := m.sameCurrency(other, "compare"); err != nil {
		return 0, err
	}
	return m.amount.Cmp(other.amount), nil
}

// LessThan reports m < other. Fails if the currencies differ.
func (m Money) LessThan(other Money) (bool, error) {
	c, err := m.Cmp(other)
	return c < 0, err
}

// GreaterThan reports m > other. Fails if the currencies differ.
func (m Money) GreaterThan(other Money) (bool, error) {
	c, err := m.Cmp(other)
	return c > 0, err
}

// Equal reports whether both currency and amount match.
// Unlike Cmp it treats a currency mismatch as plain inequality.
func (m Money) Equal(other Money) bool {
	return m.currency == other.currency && m.amount.Equal(other.amount)
}

// IsZero reports whether the amount is exactly zero.
func (m Money) IsZero() bool {
	return m.amount.IsZero()
}

// IsNegative reports whether the amount is below zero.
func (m Money) IsNegative() bool {
	return m.amount.IsNegative()
}

// IsPositive reports whether the amount is above zero.
func (m Money) IsPositive() bool {
	return m.amount.IsPositive()
}

// ToMinorUnits returns the amount as an exact integer count of the currency's
// minor units. The conversion is exact because the amount is always quantized
// to the currency's exponent.
func (m Money) ToMinorUnits() int64 {
	return m.amount.Shift(m.currency.Exponent()).IntPart()
}

// StringFixed renders the amount with the currency's full exponent, e.g. "60.00".
func (m Money) StringFixed() string {
	return m.amount.StringFixed(m.currency.Exponent())
}

// String renders the amount and code, e.g. "60.00 KES".
func (m Money) String() string {
	return m.StringFixed() + " " + string(m.currency)
}
