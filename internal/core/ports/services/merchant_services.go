package services

import (
	"context"

	"github.com/pesabridge/pesabridge_backend/internal/core/domain"
	"github.com/pesabridge/pesabridge_backend/internal/dto"
)

// MerchantReaderSvc defines read operations for merchant data
type MerchantReaderSvc interface {
	// GetMerchantByID retrieves a merchant profile.
	GetMerchantByID(ctx context.Context, merchantID string) (*domain.Merchant, error)

	// GetMerchantByOwner retrieves the merchant owned by a user.
	GetMerchantByOwner(ctx context.Context, ownerUserID string) (*domain.Merchant, error)
}

// MerchantWriterSvc defines write operations for merchant data
type MerchantWriterSvc interface {
	// RegisterMerchant creates a merchant profile for the user.
	RegisterMerchant(ctx context.Context, ownerUserID string, req dto.RegisterMerchantRequest) (*domain.Merchant, error)
}

// MerchantAPIKeySvc manages merchant API keys.
type MerchantAPIKeySvc interface {
	// CreateAPIKey issues a new API key for the merchant. The raw key is
	// returned exactly once; only its hash is stored.
	CreateAPIKey(ctx context.Context, ownerUserID string, req dto.CreateAPIKeyRequest) (*dto.CreateAPIKeyResponse, error)

	// ValidateAPIKey resolves a raw API key to its merchant, updating the
	// key's last-used timestamp.
	ValidateAPIKey(ctx context.Context, rawKey string) (*domain.Merchant, error)

	// RevokeAPIKey revokes one of the merchant's API keys.
	RevokeAPIKey(ctx context.Context, ownerUserID, keyID string) error
}

// MerchantSvcFacade combines all merchant-related service interfaces
type MerchantSvcFacade interface {
	MerchantReaderSvc
	MerchantWriterSvc
	MerchantAPIKeySvc
}
