package repositories

import (
	"context"

	"github.com/pesabridge/pesabridge_backend/internal/core/domain"
)

// WalletReader defines read operations for wallet data
type WalletReader interface {
	// FindWalletByID retrieves a specific wallet by its ID.
	FindWalletByID(ctx context.Context, walletID string) (*domain.Wallet, error)

	// FindWalletsByUser retrieves all wallets owned by a user.
	FindWalletsByUser(ctx context.Context, userID string) ([]domain.Wallet, error)

	// FindWalletByUserAndCurrency retrieves a user's wallet in a specific currency.
	FindWalletByUserAndCurrency(ctx context.Context, userID string, currency domain.Currency) (*domain.Wallet, error)
}

// WalletWriter defines write operations for wallet data
type WalletWriter interface {
	// SaveWallet persists a new wallet.
	SaveWallet(ctx context.Context, wallet domain.Wallet) error

	// UpdateBalance applies a signed delta to a wallet balance atomically.
	// The delta currency must match the wallet currency.
	UpdateBalance(ctx context.Context, walletID string, delta domain.Money, updaterUserID string) error
}

// WalletRepositoryFacade combines all wallet-related repository interfaces
type WalletRepositoryFacade interface {
	WalletReader
	WalletWriter
}
