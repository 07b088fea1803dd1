package domain_test

import (
	"testing"

	"github.com/pesabridge/pesabridge_backend/internal/apperrors"
	"github.com/pesabridge/pesabridge_backend/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustMoney(t *testing.T, amount string, currency domain.Currency) domain.Money {
	t.Helper()
	m, err := domain.NewMoneyFromString(amount, currency)
	require.NoError(t, err)
	return m
}

func TestNewMoney_QuantizesToCurrencyExponent(t *testing.T) {
	tests := []struct {
		name     string
		amount   string
		currency domain.Currency
		want     string
	}{
		{"KES keeps two places", "100", domain.KES, "100.00"},
		{"KES rounds half to even down", "10.125", domain.KES, "10.12"},
		{"KES rounds half to even up", "10.135", domain.KES, "10.14"},
		{"BTC keeps eight places", "0.1", domain.BTC, "0.10000000"},
		{"BTC rounds ninth place half-even", "0.000000015", domain.BTC, "0.00000002"},
		{"USDT keeps six places", "1.2345678", domain.USDT, "1.234568"},
		{"negative amounts allowed", "-5.005", domain.KES, "-5.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := mustMoney(t, tt.amount, tt.currency)
			assert.Equal(t, tt.want, m.StringFixed())
			assert.Equal(t, tt.currency, m.Currency())
		})
	}
}

func TestNewMoney_RejectsUnknownCurrency(t *testing.T) {
	_, err := domain.NewMoney(decimal.NewFromInt(1), domain.Currency("DOGE"))
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestNewMoneyFromString_RejectsGarbage(t *testing.T) {
	_, err := domain.NewMoneyFromString("ten shillings", domain.KES)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrInvalidAmount)
}

func TestMoney_AddSub(t *testing.T) {
	a := mustMoney(t, "10.50", domain.KES)
	b := mustMoney(t, "4.25", domain.KES)

	sum, err := a.Add(b)
	require.NoError(t, err)
	assert.Equal(t, "14.75", sum.StringFixed())

	diff, err := a.Sub(b)
	require.NoError(t, err)
	assert.Equal(t, "6.25", diff.StringFixed())

	// receivers untouched
	assert.Equal(t, "10.50", a.StringFixed())
	assert.Equal(t, "4.25", b.StringFixed())
}

func TestMoney_CrossCurrencyOperationsFail(t *testing.T) {
	kes := mustMoney(t, "100", domain.KES)
	btc := mustMoney(t, "0.5", domain.BTC)

	_, err := kes.Add(btc)
	assert.ErrorIs(t, err, apperrors.ErrCurrencyMismatch)

	_, err = kes.Sub(btc)
	assert.ErrorIs(t, err, apperrors.ErrCurrencyMismatch)

	_, err = kes.Cmp(btc)
	assert.ErrorIs(t, err, apperrors.ErrCurrencyMismatch)

	_, err = kes.LessThan(btc)
	assert.ErrorIs(t, err, apperrors.ErrCurrencyMismatch)
}

func TestMoney_MulQuantizes(t *testing.T) {
	m := mustMoney(t, "33.33", domain.KES)
	scaled := m.Mul(decimal.RequireFromString("0.333"))
	// 33.33 * 0.333 = 11.09889 -> 11.10
	assert.Equal(t, "11.10", scaled.StringFixed())
}

func TestMoney_DivByZeroFails(t *testing.T) {
	m := mustMoney(t, "10", domain.KES)
	_, err := m.Div(decimal.Zero)
	assert.ErrorIs(t, err, apperrors.ErrInvalidAmount)

	half, err := m.Div(decimal.NewFromInt(2))
	require.NoError(t, err)
	assert.Equal(t, "5.00", half.StringFixed())
}

func TestMoney_Compare(t *testing.T) {
	small := mustMoney(t, "1.00", domain.KES)
	big := mustMoney(t, "2.00", domain.KES)

	less, err := small.LessThan(big)
	require.NoError(t, err)
	assert.True(t, less)

	greater, err := big.GreaterThan(small)
	require.NoError(t, err)
	assert.True(t, greater)

	assert.True(t, small.Equal(mustMoney(t, "1", domain.KES)))
	assert.False(t, small.Equal(mustMoney(t, "1", domain.USD)))
}

func TestMoney_MinorUnitsRoundTrip(t *testing.T) {
	tests := []struct {
		name     string
		amount   string
		currency domain.Currency
		units    int64
	}{
		{"KES cents", "123.45", domain.KES, 12345},
		{"BTC satoshis", "0.00000001", domain.BTC, 1},
		{"BTC whole coin", "1", domain.BTC, 100_000_000},
		{"USDT micro units", "2.500000", domain.USDT, 2_500_000},
		{"zero", "0", domain.KES, 0},
		{"negative", "-1.25", domain.KES, -125},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := mustMoney(t, tt.amount, tt.currency)
			assert.Equal(t, tt.units, m.ToMinorUnits())

			back, err := domain.MoneyFromMinorUnits(tt.units, tt.currency)
			require.NoError(t, err)
			assert.True(t, m.Equal(back), "round trip should be exact: %s vs %s", m, back)
		})
	}
}

func TestMoney_NegAbsSigns(t *testing.T) {
	m := mustMoney(t, "-7.50", domain.KES)
	assert.True(t, m.IsNegative())
	assert.False(t, m.IsPositive())
	assert.Equal(t, "7.50", m.Abs().StringFixed())
	assert.Equal(t, "7.50", m.Neg().StringFixed())
	assert.True(t, domain.ZeroMoney(domain.KES).IsZero())
}
