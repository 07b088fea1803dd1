package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/pesabridge/pesabridge_backend/internal/apperrors"
	"github.com/pesabridge/pesabridge_backend/internal/core/domain"
	"github.com/pesabridge/pesabridge_backend/internal/core/ports/gateways"
	portsrepo "github.com/pesabridge/pesabridge_backend/internal/core/ports/repositories"
	portssvc "github.com/pesabridge/pesabridge_backend/internal/core/ports/services"
	"github.com/pesabridge/pesabridge_backend/internal/dto"
)

// WalletService provides business logic for user wallets. One wallet per
// user per currency; crypto wallets carry a gateway-issued deposit address.
type WalletService struct {
	BaseService
	walletRepo  portsrepo.WalletRepositoryFacade
	userService portssvc.UserReaderSvc
	chains      map[domain.Network]gateways.BlockchainGateway
}

// NewWalletService creates a new WalletService.
func NewWalletService(walletRepo portsrepo.WalletRepositoryFacade, userService portssvc.UserReaderSvc, chains map[domain.Network]gateways.BlockchainGateway) portssvc.WalletSvcFacade {
	return &WalletService{
		walletRepo:  walletRepo,
		userService: userService,
		chains:      chains,
	}
}

// CreateWallet opens a wallet for the user in the requested currency.
func (s *WalletService) CreateWallet(ctx context.Context, userID string, req dto.CreateWalletRequest) (*domain.Wallet, error) {
	currency, err := domain.ParseCurrency(req.CurrencyCode)
	if err != nil {
		return nil, err
	}

	existing, err := s.walletRepo.FindWalletByUserAndCurrency(ctx, userID, currency)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to check existing wallet: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: user already has a %s wallet", apperrors.ErrDuplicate, currency)
	}

	var address domain.WalletAddress
	if currency.IsCrypto() {
		network, err := domain.ParseNetwork(req.Network)
		if err != nil {
			return nil, fmt.Errorf("%w: network is required for %s wallets", apperrors.ErrValidation, currency)
		}
		if !network.SupportsCurrency(currency) {
			return nil, fmt.Errorf("%w: %s does not settle on %s", apperrors.ErrValidation, currency, network)
		}
		chain, ok := s.chains[network]
		if !ok {
			return nil, fmt.Errorf("%w: no gateway for network %s", apperrors.ErrValidation, network)
		}
		address, err = chain.GenerateDepositAddress(ctx, userID)
		if err != nil {
			s.LogError(ctx, err, "failed to generate deposit address", slog.String("network", string(network)))
			return nil, fmt.Errorf("failed to generate deposit address: %w", err)
		}
	}

	now := time.Now()
	wallet := domain.Wallet{
		WalletID: uuid.NewString(),
		UserID:   userID,
		Currency: currency,
		Balance:  domain.ZeroMoney(currency),
		Address:  address,
		IsActive: true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.walletRepo.SaveWallet(ctx, wallet); err != nil {
		s.LogError(ctx, err, "failed to save wallet")
		return nil, fmt.Errorf("failed to create wallet in service: %w", err)
	}
	return &wallet, nil
}

// GetWalletByID retrieves a wallet and enforces ownership.
func (s *WalletService) GetWalletByID(ctx context.Context, userID, walletID string) (*domain.Wallet, error) {
	wallet, err := s.walletRepo.FindWalletByID(ctx, walletID)
	if err != nil {
		return nil, fmt.Errorf("failed to get wallet in service: %w", err)
	}
	if wallet.UserID != userID {
		return nil, fmt.Errorf("%w: wallet %s does not belong to the caller", apperrors.ErrForbidden, walletID)
	}
	return wallet, nil
}

// ListWallets retrieves all wallets for a user.
func (s *WalletService) ListWallets(ctx context.Context, userID string) ([]domain.Wallet, error) {
	wallets, err := s.walletRepo.FindWalletsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list wallets in service: %w", err)
	}
	return wallets, nil
}

// AdjustBalance applies a signed balance delta. Admin only.
func (s *WalletService) AdjustBalance(ctx context.Context, adminUserID, walletID string, delta domain.Money, notes string) (*domain.Wallet, error) {
	admin, err := s.userService.GetUserByID(ctx, adminUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve adjusting user: %w", err)
	}
	if !admin.IsAdmin {
		return nil, fmt.Errorf("%w: only admins may adjust balances", apperrors.ErrForbidden)
	}

	wallet, err := s.walletRepo.FindWalletByID(ctx, walletID)
	if err != nil {
		return nil, fmt.Errorf("failed to get wallet for adjustment: %w", err)
	}
	if wallet.Currency != delta.Currency() {
		return nil, fmt.Errorf("%w: wallet is in %s, delta in %s", apperrors.ErrCurrencyMismatch, wallet.Currency, delta.Currency())
	}
	if delta.IsNegative() {
		covered, err := wallet.CanSend(delta.Abs())
		if err != nil {
			return nil, err
		}
		if !covered {
			return nil, fmt.Errorf("%w: adjustment would overdraw wallet %s", apperrors.ErrInvalidAmount, walletID)
		}
	}

	if err := s.walletRepo.UpdateBalance(ctx, walletID, delta, adminUserID); err != nil {
		s.LogError(ctx, err, "failed to adjust wallet balance", slog.String("wallet_id", walletID))
		return nil, fmt.Errorf("failed to adjust wallet balance: %w", err)
	}
	s.LogInfo(ctx, "wallet balance adjusted",
		slog.String("wallet_id", walletID),
		slog.String("delta", delta.String()),
		slog.String("notes", notes))

	return s.walletRepo.FindWalletByID(ctx, walletID)
}
