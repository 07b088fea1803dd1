package repositories

import (
	"context"
	"time"

	"github.com/pesabridge/pesabridge_backend/internal/core/domain"
)

// MerchantReader defines read operations for merchant data
type MerchantReader interface {
	// FindMerchantByID retrieves a specific merchant.
	FindMerchantByID(ctx context.Context, merchantID string) (*domain.Merchant, error)

	// FindMerchantByOwner retrieves the merchant owned by a user.
	FindMerchantByOwner(ctx context.Context, ownerUserID string) (*domain.Merchant, error)
}

// MerchantWriter defines write operations for merchant data
type MerchantWriter interface {
	// SaveMerchant persists a new merchant.
	SaveMerchant(ctx context.Context, merchant domain.Merchant) error

	// UpdateMerchant updates an existing merchant's details.
	UpdateMerchant(ctx context.Context, merchant domain.Merchant) error
}

// MerchantAPIKeyRepository defines operations for merchant API keys
type MerchantAPIKeyRepository interface {
	// SaveAPIKey persists a new API key record (hash only).
	SaveAPIKey(ctx context.Context, key domain.MerchantAPIKey) error

	// FindAPIKeyByID retrieves a key record by its ID.
	FindAPIKeyByID(ctx context.Context, keyID string) (*domain.MerchantAPIKey, error)

	// FindAPIKeyByHash resolves a key hash to its record.
	FindAPIKeyByHash(ctx context.Context, keyHash string) (*domain.MerchantAPIKey, error)

	// TouchAPIKey records a successful use of the key.
	TouchAPIKey(ctx context.Context, keyID string, usedAt time.Time) error

	// RevokeAPIKey soft-revokes the key.
	RevokeAPIKey(ctx context.Context, keyID string, revokedAt time.Time) error
}

// MerchantRepositoryFacade combines all merchant-related repository interfaces
type MerchantRepositoryFacade interface {
	MerchantReader
	MerchantWriter
	MerchantAPIKeyRepository
}
