package gateways

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"github.com/pesabridge/pesabridge_backend/internal/apperrors"
	"github.com/pesabridge/pesabridge_backend/internal/core/domain"
	portsgw "github.com/pesabridge/pesabridge_backend/internal/core/ports/gateways"
	"github.com/shopspring/decimal"
)

// Address alphabets per network. Addresses are derived deterministically from
// the user ID so the same user always gets the same deposit address.
const (
	bech32Charset = "qpzry9x8gf2tvdw0s3jn54khce6mua7l"
	base58Charset = "123456789ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz"
)

// Flat network fees in the chain's settlement currency.
var networkBaseFees = map[domain.Network]decimal.Decimal{
	domain.NetworkBitcoin:  decimal.RequireFromString("0.00008"),
	domain.NetworkEthereum: decimal.RequireFromString("3"),
	domain.NetworkTron:     decimal.RequireFromString("1"),
}

// SimulatedBlockchainGateway fakes one chain in memory: deterministic deposit
// addresses, synthetic transaction hashes, and confirmations that accrue with
// wall-clock time at one block per blockInterval.
type SimulatedBlockchainGateway struct {
	network       domain.Network
	blockInterval time.Duration

	mu    sync.Mutex
	seen  map[string]time.Time
	clock func() time.Time
}

// NewSimulatedBlockchainGateway creates a simulated gateway for one network.
// A zero blockInterval defaults to ten seconds.
func NewSimulatedBlockchainGateway(network domain.Network, blockInterval time.Duration) (portsgw.BlockchainGateway, error) {
	if !network.IsValid() {
		return nil, fmt.Errorf("%w: unsupported network %q", apperrors.ErrValidation, string(network))
	}
	if blockInterval <= 0 {
		blockInterval = 10 * time.Second
	}
	return &SimulatedBlockchainGateway{
		network:       network,
		blockInterval: blockInterval,
		seen:          make(map[string]time.Time),
		clock:         time.Now,
	}, nil
}

// Network returns the chain this gateway serves.
func (g *SimulatedBlockchainGateway) Network() domain.Network {
	return g.network
}

// GenerateDepositAddress derives a stable per-user address for this network.
func (g *SimulatedBlockchainGateway) GenerateDepositAddress(_ context.Context, userID string) (domain.WalletAddress, error) {
	digest := sha256.Sum256([]byte(string(g.network) + ":" + userID))

	var raw string
	switch g.network {
	case domain.NetworkBitcoin:
		raw = "bc1q" + encodeDigest(digest[:], bech32Charset, 38)
	case domain.NetworkEthereum:
		raw = "0x" + hex.EncodeToString(digest[:20])
	case domain.NetworkTron:
		raw = "T" + encodeDigest(digest[:], base58Charset, 33)
	}
	return domain.NewWalletAddress(g.network, raw)
}

// EstimateFee returns the flat network fee for a standard transfer.
func (g *SimulatedBlockchainGateway) EstimateFee(_ context.Context, amount domain.Money) (domain.Money, error) {
	if !g.network.SupportsCurrency(amount.Currency()) {
		return domain.Money{}, fmt.Errorf("%w: %s does not settle on %s", apperrors.ErrCurrencyMismatch, amount.Currency(), g.network)
	}
	return domain.NewMoney(networkBaseFees[g.network], g.network.SettlementCurrency())
}

// Broadcast accepts the transfer immediately and returns a synthetic hash.
// The hash starts accruing confirmations from the moment of broadcast.
func (g *SimulatedBlockchainGateway) Broadcast(_ context.Context, to domain.WalletAddress, amount domain.Money) (domain.TransactionHash, error) {
	if to.Network() != g.network {
		return domain.TransactionHash{}, fmt.Errorf("%w: %s address on %s gateway", apperrors.ErrInvalidAddress, to.Network(), g.network)
	}
	if !g.network.SupportsCurrency(amount.Currency()) {
		return domain.TransactionHash{}, fmt.Errorf("%w: %s does not settle on %s", apperrors.ErrCurrencyMismatch, amount.Currency(), g.network)
	}
	if !amount.IsPositive() {
		return domain.TransactionHash{}, fmt.Errorf("%w: broadcast amount must be positive, got %s", apperrors.ErrInvalidAmount, amount)
	}

	now := g.clock()
	digest := sha256.Sum256([]byte(fmt.Sprintf("%s|%s|%s|%d", g.network, to.Value(), amount, now.UnixNano())))
	raw := hex.EncodeToString(digest[:])
	if g.network == domain.NetworkEthereum {
		raw = "0x" + raw
	}
	hash, err := domain.NewTransactionHash(g.network, raw)
	if err != nil {
		return domain.TransactionHash{}, err
	}

	g.mu.Lock()
	g.seen[hash.Value()] = now
	g.mu.Unlock()
	return hash, nil
}

// Confirmations reports how many blocks have passed since the hash was first
// seen. A hash this gateway never broadcast is treated as an incoming deposit
// and starts counting from the first poll.
func (g *SimulatedBlockchainGateway) Confirmations(_ context.Context, hash domain.TransactionHash) (int, error) {
	if hash.Network() != g.network {
		return 0, fmt.Errorf("%w: %s hash on %s gateway", apperrors.ErrInvalidHash, hash.Network(), g.network)
	}

	now := g.clock()
	g.mu.Lock()
	first, ok := g.seen[hash.Value()]
	if !ok {
		g.seen[hash.Value()] = now
		first = now
	}
	g.mu.Unlock()

	return int(now.Sub(first) / g.blockInterval), nil
}

func encodeDigest(digest []byte, charset string, length int) string {
	out := make([]byte, length)
	for i := 0; i < length; i++ {
		out[i] = charset[int(digest[i%len(digest)])%len(charset)]
	}
	return string(out)
}
