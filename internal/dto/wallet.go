package dto

import (
	"time"

	"github.com/pesabridge/pesabridge_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateWalletRequest asks for a wallet in a specific currency.
type CreateWalletRequest struct {
	CurrencyCode string `json:"currencyCode" binding:"required,currencycode"`
	// Network is required for crypto currencies to pick the deposit chain.
	Network string `json:"network" binding:"omitempty,oneof=bitcoin ethereum tron"`
}

// AdjustBalanceRequest applies a signed balance delta to a wallet. Admin only.
type AdjustBalanceRequest struct {
	Amount       decimal.Decimal `json:"amount" binding:"required"`
	CurrencyCode string          `json:"currencyCode" binding:"required,currencycode"`
	Notes        string          `json:"notes" binding:"required"`
}

// WalletResponse defines the data returned for a wallet.
type WalletResponse struct {
	WalletID     string          `json:"walletID"`
	CurrencyCode string          `json:"currencyCode"`
	Balance      decimal.Decimal `json:"balance"`
	Network      string          `json:"network,omitempty"`
	Address      string          `json:"address,omitempty"`
	IsActive     bool            `json:"isActive"`
	CreatedAt    time.Time       `json:"createdAt"`
}

// ToWalletResponse converts a domain.Wallet to WalletResponse DTO.
func ToWalletResponse(w *domain.Wallet) WalletResponse {
	resp := WalletResponse{
		WalletID:     w.WalletID,
		CurrencyCode: string(w.Currency),
		Balance:      w.Balance.Amount(),
		IsActive:     w.IsActive,
		CreatedAt:    w.CreatedAt,
	}
	if !w.Address.IsZero() {
		resp.Network = string(w.Address.Network())
		resp.Address = w.Address.Value()
	}
	return resp
}

// ToListWalletResponse converts a slice of domain wallets to DTOs.
func ToListWalletResponse(ws []domain.Wallet) []WalletResponse {
	out := make([]WalletResponse, len(ws))
	for i := range ws {
		out[i] = ToWalletResponse(&ws[i])
	}
	return out
}
