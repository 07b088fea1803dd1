package dto

import (
	"time"

	"github.com/pesabridge/pesabridge_backend/internal/core/domain"
)

// RegisterMerchantRequest defines the data needed to create a merchant account.
type RegisterMerchantRequest struct {
	BusinessName       string `json:"businessName" binding:"required"`
	SettlementCurrency string `json:"settlementCurrency" binding:"required,currencycode"`
	CallbackURL        string `json:"callbackURL" binding:"omitempty,url"`
}

// MerchantResponse defines the data returned for a merchant.
type MerchantResponse struct {
	MerchantID         string    `json:"merchantID"`
	BusinessName       string    `json:"businessName"`
	SettlementCurrency string    `json:"settlementCurrency"`
	CallbackURL        string    `json:"callbackURL,omitempty"`
	IsActive           bool      `json:"isActive"`
	CreatedAt          time.Time `json:"createdAt"`
}

// ToMerchantResponse converts a domain.Merchant to MerchantResponse DTO.
func ToMerchantResponse(m *domain.Merchant) MerchantResponse {
	return MerchantResponse{
		MerchantID:         m.MerchantID,
		BusinessName:       m.BusinessName,
		SettlementCurrency: string(m.SettlementCurrency),
		CallbackURL:        m.CallbackURL,
		IsActive:           m.IsActive,
		CreatedAt:          m.CreatedAt,
	}
}

// CreateAPIKeyRequest names a new merchant API key.
type CreateAPIKeyRequest struct {
	Name      string     `json:"name" binding:"required"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
}

// CreateAPIKeyResponse returns the raw key exactly once; only its hash is stored.
type CreateAPIKeyResponse struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Key       string     `json:"key"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
}
