package domain

import (
	"fmt"
	"strings"

	"github.com/pesabridge/pesabridge_backend/internal/apperrors"
)

// Network identifies a supported blockchain network.
type Network string

const (
	NetworkBitcoin  Network = "bitcoin"
	NetworkEthereum Network = "ethereum" // ERC-20 USDT
	NetworkTron     Network = "tron"     // TRC-20 USDT
)

// ParseNetwork converts a raw network name into a Network, rejecting unknown values.
func ParseNetwork(name string) (Network, error) {
	n := Network(strings.ToLower(strings.TrimSpace(name)))
	switch n {
	case NetworkBitcoin, NetworkEthereum, NetworkTron:
		return n, nil
	}
	return "", fmt.Errorf("%w: unsupported network %q", apperrors.ErrValidation, name)
}

// IsValid reports whether the network is one of the supported chains.
func (n Network) IsValid() bool {
	switch n {
	case NetworkBitcoin, NetworkEthereum, NetworkTron:
		return true
	}
	return false
}

// SupportsCurrency reports whether the given currency settles on this network.
// BTC only moves on bitcoin; USDT moves on ethereum (ERC-20) and tron (TRC-20).
func (n Network) SupportsCurrency(c Currency) bool {
	switch n {
	case NetworkBitcoin:
		return c == BTC
	case NetworkEthereum, NetworkTron:
		return c == USDT
	}
	return false
}

// RequiredConfirmations is how many confirmations a deposit needs on this
// network before it is considered settled.
func (n Network) RequiredConfirmations() int {
	switch n {
	case NetworkBitcoin:
		return 3
	case NetworkEthereum:
		return 12
	case NetworkTron:
		return 20
	}
	return 0
}

// SettlementCurrency returns the currency transfers settle in on this network.
func (n Network) SettlementCurrency() Currency {
	if n == NetworkBitcoin {
		return BTC
	}
	return USDT
}

func (n Network) String() string {
	return string(n)
}
