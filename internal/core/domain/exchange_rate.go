package domain

import (
	"fmt"
	"time"

	"github.com/pesabridge/pesabridge_backend/internal/apperrors"
	"github.com/shopspring/decimal"
)

// ExchangeRate is a directed conversion rate between two currencies,
// effective from a specific point in time. Rates are supplied by an external
// rate feed; this type never fetches or caches anything itself.
type ExchangeRate struct {
	ExchangeRateID string          `json:"exchangeRateID"` // Primary Key (e.g., UUID)
	FromCurrency   Currency        `json:"fromCurrency"`
	ToCurrency     Currency        `json:"toCurrency"`
	Rate           decimal.Decimal `json:"rate"` // Must be > 0
	DateEffective  time.Time       `json:"dateEffective"`
	AuditFields
}

// NewExchangeRate validates and constructs an exchange rate.
// Fails with ErrInvalidRate when rate <= 0 and ErrValidation for bad currency pairs.
func NewExchangeRate(id string, from, to Currency, rate decimal.Decimal, dateEffective time.Time) (ExchangeRate, error) {
	if !from.IsValid() {
		return ExchangeRate{}, fmt.Errorf("%w: unsupported currency code %q", apperrors.ErrValidation, string(from))
	}
	if !to.IsValid() {
		return ExchangeRate{}, fmt.Errorf("%w: unsupported currency code %q", apperrors.ErrValidation, string(to))
	}
	if from == to {
		return ExchangeRate{}, fmt.Errorf("%w: from and to currencies cannot be the same", apperrors.ErrValidation)
	}
	if rate.LessThanOrEqual(decimal.Zero) {
		return ExchangeRate{}, fmt.Errorf("%w: rate must be positive, got %s", apperrors.ErrInvalidRate, rate)
	}
	return ExchangeRate{
		ExchangeRateID: id,
		FromCurrency:   from,
		ToCurrency:     to,
		Rate:           rate,
		DateEffective:  dateEffective,
	}, nil
}

// Convert applies the rate to a Money amount in the from-currency and returns
// the equivalent amount in the to-currency, quantized to its exponent.
// Fails with ErrCurrencyMismatch when the money is not in the from-currency.
func (r ExchangeRate) Convert(m Money) (Money, error) {
	if m.Currency() != r.FromCurrency {
		return Money{}, fmt.Errorf("%w: rate converts %s, got %s", apperrors.ErrCurrencyMismatch, r.FromCurrency, m.Currency())
	}
	return NewMoney(m.Amount().Mul(r.Rate), r.ToCurrency)
}

// Inverse returns the reciprocal rate with the currency pair flipped.
// The reciprocal keeps full decimal precision; quantization happens at Convert time.
func (r ExchangeRate) Inverse() (ExchangeRate, error) {
	return NewExchangeRate(r.ExchangeRateID, r.ToCurrency, r.FromCurrency, decimal.NewFromInt(1).Div(r.Rate), r.DateEffective)
}
