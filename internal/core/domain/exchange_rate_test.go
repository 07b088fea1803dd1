package domain_test

import (
	"testing"
	"time"

	"github.com/pesabridge/pesabridge_backend/internal/apperrors"
	"github.com/pesabridge/pesabridge_backend/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewExchangeRate_Validation(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name    string
		from    domain.Currency
		to      domain.Currency
		rate    decimal.Decimal
		wantErr error
	}{
		{"valid rate", domain.KES, domain.BTC, decimal.RequireFromString("0.00000011"), nil},
		{"zero rate", domain.KES, domain.BTC, decimal.Zero, apperrors.ErrInvalidRate},
		{"negative rate", domain.USD, domain.KES, decimal.NewFromInt(-129), apperrors.ErrInvalidRate},
		{"same pair", domain.KES, domain.KES, decimal.NewFromInt(1), apperrors.ErrValidation},
		{"unknown from", domain.Currency("EUR"), domain.KES, decimal.NewFromInt(150), apperrors.ErrValidation},
		{"unknown to", domain.KES, domain.Currency("EUR"), decimal.NewFromInt(150), apperrors.ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := domain.NewExchangeRate("rate-1", tt.from, tt.to, tt.rate, now)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestExchangeRate_Convert(t *testing.T) {
	rate, err := domain.NewExchangeRate("rate-1", domain.USD, domain.KES, decimal.RequireFromString("129.50"), time.Now())
	require.NoError(t, err)

	usd := mustMoney(t, "10", domain.USD)
	kes, err := rate.Convert(usd)
	require.NoError(t, err)
	assert.Equal(t, "1295.00", kes.StringFixed())
	assert.Equal(t, domain.KES, kes.Currency())
}

func TestExchangeRate_ConvertZeroIsZeroInQuote(t *testing.T) {
	rate, err := domain.NewExchangeRate("rate-1", domain.KES, domain.BTC, decimal.RequireFromString("0.00000011"), time.Now())
	require.NoError(t, err)

	out, err := rate.Convert(domain.ZeroMoney(domain.KES))
	require.NoError(t, err)
	assert.True(t, out.IsZero())
	assert.Equal(t, domain.BTC, out.Currency())
}

func TestExchangeRate_ConvertWrongBaseFails(t *testing.T) {
	rate, err := domain.NewExchangeRate("rate-1", domain.USD, domain.KES, decimal.NewFromInt(129), time.Now())
	require.NoError(t, err)

	_, err = rate.Convert(mustMoney(t, "100", domain.KES))
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrCurrencyMismatch)
}

func TestExchangeRate_ConvertQuantizesToQuoteExponent(t *testing.T) {
	// 1 KES = 0.0000000775 BTC: product needs rounding to 8 places.
	rate, err := domain.NewExchangeRate("rate-1", domain.KES, domain.BTC, decimal.RequireFromString("0.0000000775"), time.Now())
	require.NoError(t, err)

	out, err := rate.Convert(mustMoney(t, "100", domain.KES))
	require.NoError(t, err)
	// 100 * 0.0000000775 = 0.00000775 exactly at 8 places.
	assert.Equal(t, "0.00000775", out.StringFixed())

	out, err = rate.Convert(mustMoney(t, "1", domain.KES))
	require.NoError(t, err)
	// 0.0000000775 rounds half-even at the 8th place to 0.00000008.
	assert.Equal(t, "0.00000008", out.StringFixed())
}

func TestExchangeRate_Inverse(t *testing.T) {
	rate, err := domain.NewExchangeRate("rate-1", domain.USD, domain.KES, decimal.NewFromInt(125), time.Now())
	require.NoError(t, err)

	inv, err := rate.Inverse()
	require.NoError(t, err)
	assert.Equal(t, domain.KES, inv.FromCurrency)
	assert.Equal(t, domain.USD, inv.ToCurrency)

	back, err := inv.Convert(mustMoney(t, "125", domain.KES))
	require.NoError(t, err)
	assert.Equal(t, "1.00", back.StringFixed())
}
