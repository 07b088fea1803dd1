package domain_test

import (
	"testing"

	"github.com/pesabridge/pesabridge_backend/internal/apperrors"
	"github.com/pesabridge/pesabridge_backend/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func kesFeeStructure(t *testing.T, flat, pct, min, max string) domain.FeeStructure {
	t.Helper()
	fs, err := domain.NewFeeStructure(
		mustMoney(t, flat, domain.KES),
		decimal.RequireFromString(pct),
		mustMoney(t, min, domain.KES),
		mustMoney(t, max, domain.KES),
	)
	require.NoError(t, err)
	return fs
}

func TestNewFeeStructure_Validation(t *testing.T) {
	kes10 := mustMoney(t, "10", domain.KES)
	kes500 := mustMoney(t, "500", domain.KES)
	usd10 := mustMoney(t, "10", domain.USD)

	_, err := domain.NewFeeStructure(kes10, decimal.RequireFromString("0.01"), usd10, kes500)
	assert.ErrorIs(t, err, apperrors.ErrCurrencyMismatch)

	_, err = domain.NewFeeStructure(kes10, decimal.RequireFromString("1.5"), kes10, kes500)
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = domain.NewFeeStructure(kes10, decimal.RequireFromString("-0.01"), kes10, kes500)
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = domain.NewFeeStructure(kes10, decimal.RequireFromString("0.01"), kes500, kes10)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestFeeStructure_ComputeFlatPlusPercentage(t *testing.T) {
	// flat 10 + 1% of 5000 = 60, inside [10, 500].
	fs := kesFeeStructure(t, "10", "0.01", "10", "500")

	fee, err := fs.Compute(mustMoney(t, "5000", domain.KES))
	require.NoError(t, err)
	assert.Equal(t, "60.00", fee.StringFixed())
}

func TestFeeStructure_ComputeClamping(t *testing.T) {
	fs := kesFeeStructure(t, "10", "0.01", "25", "500")

	tests := []struct {
		name   string
		amount string
		want   string
	}{
		{"raises to minimum", "100", "25.00"},       // 10 + 1 = 11 -> 25
		{"inside band untouched", "5000", "60.00"},  // 10 + 50 = 60
		{"caps at maximum", "1000000", "500.00"},    // 10 + 10000 -> 500
		{"zero amount hits minimum", "0", "25.00"},  // 10 -> 25
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fee, err := fs.Compute(mustMoney(t, tt.amount, domain.KES))
			require.NoError(t, err)
			assert.Equal(t, tt.want, fee.StringFixed())

			// never outside the [min, max] band
			belowMin, err := fee.LessThan(fs.Min())
			require.NoError(t, err)
			assert.False(t, belowMin)
			aboveMax, err := fee.GreaterThan(fs.Max())
			require.NoError(t, err)
			assert.False(t, aboveMax)
		})
	}
}

func TestFeeStructure_ComputeCurrencyMismatch(t *testing.T) {
	fs := kesFeeStructure(t, "10", "0.01", "10", "500")
	_, err := fs.Compute(mustMoney(t, "1", domain.BTC))
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrCurrencyMismatch)
}

func TestFeeStructure_ComputeQuantizes(t *testing.T) {
	// 0.375% of 1000.41 = 3.7515375 -> quantized to 3.75 at KES exponent.
	fs := kesFeeStructure(t, "0", "0.00375", "0", "500")
	fee, err := fs.Compute(mustMoney(t, "1000.41", domain.KES))
	require.NoError(t, err)
	assert.Equal(t, "3.75", fee.StringFixed())
}
