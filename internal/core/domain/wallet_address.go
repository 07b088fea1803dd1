package domain

import (
	"fmt"
	"regexp"

	"github.com/pesabridge/pesabridge_backend/internal/apperrors"
)

// Structural address shapes per network. These catch malformed input at the
// boundary; base58/EIP-55 checksums are not verified here.
var (
	// Legacy (1...), P2SH (3...) base58 or bech32 (bc1...) Bitcoin addresses.
	btcAddressRegex = regexp.MustCompile(`^([13][a-km-zA-HJ-NP-Z1-9]{25,34}|bc1[ac-hj-np-z02-9]{11,71})$`)

	// 0x-prefixed 40 hex chars, case-insensitive.
	ethAddressRegex = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)

	// Base58, T-prefixed, 34 chars total.
	tronAddressRegex = regexp.MustCompile(`^T[a-km-zA-HJ-NP-Z1-9]{33}$`)
)

// WalletAddress is a structurally validated blockchain address on a specific network.
type WalletAddress struct {
	network Network
	value   string
}

// NewWalletAddress validates the address shape for the given network.
// Fails with ErrInvalidAddress when the shape does not match.
func NewWalletAddress(network Network, raw string) (WalletAddress, error) {
	if !network.IsValid() {
		return WalletAddress{}, fmt.Errorf("%w: unsupported network %q", apperrors.ErrValidation, string(network))
	}

	var ok bool
	switch network {
	case NetworkBitcoin:
		ok = btcAddressRegex.MatchString(raw)
	case NetworkEthereum:
		ok = ethAddressRegex.MatchString(raw)
	case NetworkTron:
		ok = tronAddressRegex.MatchString(raw)
	}
	if !ok {
		return WalletAddress{}, fmt.Errorf("%w: %q is not a valid %s address", apperrors.ErrInvalidAddress, raw, network)
	}
	return WalletAddress{network: network, value: raw}, nil
}

// Network returns the network the address lives on.
func (a WalletAddress) Network() Network {
	return a.network
}

// Value returns the raw address string.
func (a WalletAddress) Value() string {
	return a.value
}

// IsZero reports whether the value is the unset zero value.
func (a WalletAddress) IsZero() bool {
	return a.value == ""
}

func (a WalletAddress) String() string {
	return fmt.Sprintf("%s (%s)", a.value, a.network)
}
