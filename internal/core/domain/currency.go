package domain

import (
	"fmt"
	"strings"

	"github.com/pesabridge/pesabridge_backend/internal/apperrors"
)

// Currency identifies a supported currency by its code.
type Currency string

const (
	KES  Currency = "KES"  // Kenyan Shilling
	USD  Currency = "USD"  // US Dollar (internal conversion/reporting)
	BTC  Currency = "BTC"  // Bitcoin
	USDT Currency = "USDT" // Tether (ERC-20/TRC-20)
)

// currencyExponents maps each currency to its fixed number of minor-unit digits.
// USDT is pinned to 6 across networks: both ERC-20 and TRC-20 USDT carry 6 on-chain
// decimals (18 applies to ETH itself). Display rounding to 2 is a formatting concern.
var currencyExponents = map[Currency]int32{
	KES:  2,
	USD:  2,
	BTC:  8,
	USDT: 6,
}

// ParseCurrency converts a raw code into a Currency, rejecting unknown codes.
func ParseCurrency(code string) (Currency, error) {
	c := Currency(strings.ToUpper(strings.TrimSpace(code)))
	if !c.IsValid() {
		return "", fmt.Errorf("%w: unsupported currency code %q", apperrors.ErrValidation, code)
	}
	return c, nil
}

// IsValid reports whether the currency is one of the supported codes.
func (c Currency) IsValid() bool {
	_, ok := currencyExponents[c]
	return ok
}

// Exponent returns the fixed number of fractional digits for the currency.
// All Money amounts are quantized to this precision.
func (c Currency) Exponent() int32 {
	return currencyExponents[c]
}

// IsCrypto reports whether the currency settles on a blockchain network.
func (c Currency) IsCrypto() bool {
	return c == BTC || c == USDT
}

func (c Currency) String() string {
	return string(c)
}
