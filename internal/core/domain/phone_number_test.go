package domain_test

import (
	"testing"

	"github.com/pesabridge/pesabridge_backend/internal/apperrors"
	"github.com/pesabridge/pesabridge_backend/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPhoneNumber_NormalizesToCanonicalForm(t *testing.T) {
	inputs := []string{"0712345678", "+254712345678", "254712345678", " 0712345678 "}

	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			p, err := domain.NewPhoneNumber(in)
			require.NoError(t, err)
			assert.Equal(t, "+254712345678", p.International())
		})
	}
}

func TestNewPhoneNumber_Rejections(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"too short", "12345"},
		{"empty", ""},
		{"wrong country code", "+255712345678"},
		{"subscriber starts with zero", "+254012345678"},
		{"letters", "07one2345678"},
		{"too many digits", "+2547123456789"},
		{"local form too long", "07123456789"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := domain.NewPhoneNumber(tt.raw)
			require.Error(t, err)
			assert.ErrorIs(t, err, apperrors.ErrInvalidPhoneNumber)
		})
	}
}

func TestPhoneNumber_SafaricomForm(t *testing.T) {
	p, err := domain.NewPhoneNumber("254712345678")
	require.NoError(t, err)
	assert.Equal(t, "0712345678", p.Safaricom())
}

func TestPhoneNumber_EqualityOnCanonicalForm(t *testing.T) {
	a, err := domain.NewPhoneNumber("0712345678")
	require.NoError(t, err)
	b, err := domain.NewPhoneNumber("+254712345678")
	require.NoError(t, err)
	assert.Equal(t, a, b)
}
