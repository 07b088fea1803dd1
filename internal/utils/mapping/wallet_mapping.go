package mapping

import (
	"fmt"

	"github.com/pesabridge/pesabridge_backend/internal/core/domain"
	"github.com/pesabridge/pesabridge_backend/internal/models"
)

// ToModelWallet converts a domain Wallet to a model Wallet.
func ToModelWallet(d domain.Wallet) models.Wallet {
	m := models.Wallet{
		WalletID:     d.WalletID,
		UserID:       d.UserID,
		CurrencyCode: string(d.Currency),
		Balance:      d.Balance.Amount(),
		IsActive:     d.IsActive,
		AuditFields:  ToModelAuditFields(d.AuditFields),
	}
	if !d.Address.IsZero() {
		m.Network = string(d.Address.Network())
		m.Address = d.Address.Value()
	}
	return m
}

// ToDomainWallet converts a model Wallet to a domain Wallet, rebuilding the
// Money balance and address value objects.
func ToDomainWallet(m models.Wallet) (domain.Wallet, error) {
	currency, err := domain.ParseCurrency(m.CurrencyCode)
	if err != nil {
		return domain.Wallet{}, fmt.Errorf("wallet %s: %w", m.WalletID, err)
	}
	balance, err := domain.NewMoney(m.Balance, currency)
	if err != nil {
		return domain.Wallet{}, fmt.Errorf("wallet %s: %w", m.WalletID, err)
	}

	d := domain.Wallet{
		WalletID:    m.WalletID,
		UserID:      m.UserID,
		Currency:    currency,
		Balance:     balance,
		IsActive:    m.IsActive,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
	if m.Address != "" {
		network, err := domain.ParseNetwork(m.Network)
		if err != nil {
			return domain.Wallet{}, fmt.Errorf("wallet %s: %w", m.WalletID, err)
		}
		addr, err := domain.NewWalletAddress(network, m.Address)
		if err != nil {
			return domain.Wallet{}, fmt.Errorf("wallet %s: %w", m.WalletID, err)
		}
		d.Address = addr
	}
	return d, nil
}
