package domain

import (
	"fmt"
	"regexp"

	"github.com/pesabridge/pesabridge_backend/internal/apperrors"
)

var (
	hexHash64Regex = regexp.MustCompile(`^[0-9a-fA-F]{64}$`)

	// Ethereum hashes are conventionally 0x-prefixed; the prefix is optional on input.
	ethHashRegex = regexp.MustCompile(`^(0x)?[0-9a-fA-F]{64}$`)
)

// TransactionHash is a structurally validated on-chain transaction identifier.
type TransactionHash struct {
	network Network
	value   string
}

// NewTransactionHash validates the hash length and alphabet for the given network
// (64 hex chars everywhere; ethereum may carry a 0x prefix). Fails with
// ErrInvalidHash when the shape does not match.
func NewTransactionHash(network Network, raw string) (TransactionHash, error) {
	if !network.IsValid() {
		return TransactionHash{}, fmt.Errorf("%w: unsupported network %q", apperrors.ErrValidation, string(network))
	}

	var ok bool
	switch network {
	case NetworkEthereum:
		ok = ethHashRegex.MatchString(raw)
	case NetworkBitcoin, NetworkTron:
		ok = hexHash64Regex.MatchString(raw)
	}
	if !ok {
		return TransactionHash{}, fmt.Errorf("%w: %q is not a valid %s transaction hash", apperrors.ErrInvalidHash, raw, network)
	}
	return TransactionHash{network: network, value: raw}, nil
}

// Network returns the network the transaction was broadcast on.
func (h TransactionHash) Network() Network {
	return h.network
}

// Value returns the raw hash string as supplied.
func (h TransactionHash) Value() string {
	return h.value
}

// IsZero reports whether the value is the unset zero value.
func (h TransactionHash) IsZero() bool {
	return h.value == ""
}

func (h TransactionHash) String() string {
	return fmt.Sprintf("%s (%s)", h.value, h.network)
}
