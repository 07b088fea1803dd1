package services

import (
	"fmt"

	"github.com/pesabridge/pesabridge_backend/internal/core/domain"
	"github.com/pesabridge/pesabridge_backend/internal/core/ports/gateways"
	portsrepo "github.com/pesabridge/pesabridge_backend/internal/core/ports/repositories"
	portssvc "github.com/pesabridge/pesabridge_backend/internal/core/ports/services"
	"github.com/pesabridge/pesabridge_backend/pkg/config"
	"github.com/shopspring/decimal"
)

// NewServiceContainer creates a new service container with properly initialized dependencies.
func NewServiceContainer(
	cfg *config.Config,
	repos portsrepo.RepositoryProvider,
	chains map[domain.Network]gateways.BlockchainGateway,
	mpesa gateways.MpesaGateway,
) (*portssvc.ServiceContainer, error) {
	feeSchedule, err := BuildFeeSchedule(cfg)
	if err != nil {
		return nil, err
	}

	container := &portssvc.ServiceContainer{}

	container.User = NewUserService(repos.UserRepo)
	container.Token = NewTokenService(cfg, container.User)
	container.GoogleOAuth = NewGoogleOAuthService(cfg)
	container.Wallet = NewWalletService(repos.WalletRepo, container.User, chains)
	container.ExchangeRate = NewExchangeRateService(repos.ExchangeRateRepo, container.User, feeSchedule)
	container.Payment = NewPaymentService(repos.PaymentRepo, repos.WalletRepo, chains, mpesa, feeSchedule, cfg.PaymentExpiry)
	container.Merchant = NewMerchantService(repos.MerchantRepo)

	return container, nil
}

// BuildFeeSchedule converts the raw configured fee bands into validated
// per-currency fee structures.
func BuildFeeSchedule(cfg *config.Config) (domain.FeeSchedule, error) {
	schedule := make(domain.FeeSchedule, len(cfg.Fees))
	for code, band := range cfg.Fees {
		currency, err := domain.ParseCurrency(code)
		if err != nil {
			return nil, fmt.Errorf("fee band for unknown currency %q: %w", code, err)
		}

		flat, err := domain.NewMoneyFromString(band.Flat, currency)
		if err != nil {
			return nil, fmt.Errorf("invalid flat fee for %s: %w", currency, err)
		}
		percent, err := decimal.NewFromString(band.Percent)
		if err != nil {
			return nil, fmt.Errorf("invalid fee percent for %s: %w", currency, err)
		}
		min, err := domain.NewMoneyFromString(band.Min, currency)
		if err != nil {
			return nil, fmt.Errorf("invalid min fee for %s: %w", currency, err)
		}
		max, err := domain.NewMoneyFromString(band.Max, currency)
		if err != nil {
			return nil, fmt.Errorf("invalid max fee for %s: %w", currency, err)
		}

		fs, err := domain.NewFeeStructure(flat, percent, min, max)
		if err != nil {
			return nil, fmt.Errorf("invalid fee band for %s: %w", currency, err)
		}
		schedule[currency] = fs
	}
	return schedule, nil
}
