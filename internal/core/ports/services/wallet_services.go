package services

import (
	"context"

	"github.com/pesabridge/pesabridge_backend/internal/core/domain"
	"github.com/pesabridge/pesabridge_backend/internal/dto"
)

// WalletReaderSvc defines read operations for wallet data
type WalletReaderSvc interface {
	// GetWalletByID retrieves a wallet owned by the user.
	GetWalletByID(ctx context.Context, userID, walletID string) (*domain.Wallet, error)

	// ListWallets retrieves all wallets for a user.
	ListWallets(ctx context.Context, userID string) ([]domain.Wallet, error)
}

// WalletWriterSvc defines write operations for wallet data
type WalletWriterSvc interface {
	// CreateWallet opens a wallet in the given currency. Crypto wallets
	// get a deposit address from the matching network gateway.
	CreateWallet(ctx context.Context, userID string, req dto.CreateWalletRequest) (*domain.Wallet, error)

	// AdjustBalance applies a signed balance delta. Credits and debits
	// normally flow through payments; direct adjustments are admin-only.
	AdjustBalance(ctx context.Context, adminUserID, walletID string, delta domain.Money, notes string) (*domain.Wallet, error)
}

// WalletSvcFacade combines all wallet-related service interfaces
type WalletSvcFacade interface {
	WalletReaderSvc
	WalletWriterSvc
}
