package services

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pesabridge/pesabridge_backend/internal/apperrors"
	"github.com/pesabridge/pesabridge_backend/internal/core/domain"
	portsrepo "github.com/pesabridge/pesabridge_backend/internal/core/ports/repositories"
	portssvc "github.com/pesabridge/pesabridge_backend/internal/core/ports/services"
	"github.com/pesabridge/pesabridge_backend/internal/dto"
	"github.com/pesabridge/pesabridge_backend/internal/utils"
)

// MerchantService provides business logic for merchant profiles and their
// API keys. Raw keys are shown once at issuance; only SHA-256 hashes are
// stored, so lookups by hash stay a single indexed query.
type MerchantService struct {
	BaseService
	merchantRepo portsrepo.MerchantRepositoryFacade
}

// NewMerchantService creates a new MerchantService.
func NewMerchantService(merchantRepo portsrepo.MerchantRepositoryFacade) portssvc.MerchantSvcFacade {
	return &MerchantService{merchantRepo: merchantRepo}
}

// RegisterMerchant creates a merchant profile for the user. One merchant per
// owner.
func (s *MerchantService) RegisterMerchant(ctx context.Context, ownerUserID string, req dto.RegisterMerchantRequest) (*domain.Merchant, error) {
	currency, err := domain.ParseCurrency(req.SettlementCurrency)
	if err != nil {
		return nil, err
	}

	existing, err := s.merchantRepo.FindMerchantByOwner(ctx, ownerUserID)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to check existing merchant: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: user already owns merchant %s", apperrors.ErrDuplicate, existing.MerchantID)
	}

	now := time.Now()
	merchant := domain.Merchant{
		MerchantID:         uuid.NewString(),
		OwnerUserID:        ownerUserID,
		BusinessName:       req.BusinessName,
		SettlementCurrency: currency,
		CallbackURL:        req.CallbackURL,
		IsActive:           true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     ownerUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: ownerUserID,
		},
	}

	if err := s.merchantRepo.SaveMerchant(ctx, merchant); err != nil {
		s.LogError(ctx, err, "failed to save merchant")
		return nil, fmt.Errorf("failed to register merchant in service: %w", err)
	}
	return &merchant, nil
}

// GetMerchantByID retrieves a merchant profile.
func (s *MerchantService) GetMerchantByID(ctx context.Context, merchantID string) (*domain.Merchant, error) {
	merchant, err := s.merchantRepo.FindMerchantByID(ctx, merchantID)
	if err != nil {
		return nil, fmt.Errorf("failed to get merchant in service: %w", err)
	}
	return merchant, nil
}

// GetMerchantByOwner retrieves the merchant owned by a user.
func (s *MerchantService) GetMerchantByOwner(ctx context.Context, ownerUserID string) (*domain.Merchant, error) {
	merchant, err := s.merchantRepo.FindMerchantByOwner(ctx, ownerUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to get merchant by owner in service: %w", err)
	}
	return merchant, nil
}

// CreateAPIKey issues a new API key for the caller's merchant. The raw key
// is returned exactly once.
func (s *MerchantService) CreateAPIKey(ctx context.Context, ownerUserID string, req dto.CreateAPIKeyRequest) (*dto.CreateAPIKeyResponse, error) {
	merchant, err := s.merchantRepo.FindMerchantByOwner(ctx, ownerUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve merchant for key issuance: %w", err)
	}
	if !merchant.IsActive {
		return nil, fmt.Errorf("%w: merchant %s is deactivated", apperrors.ErrForbidden, merchant.MerchantID)
	}
	if req.ExpiresAt != nil && req.ExpiresAt.Before(time.Now()) {
		return nil, fmt.Errorf("%w: key expiry is in the past", apperrors.ErrValidation)
	}

	rawKey, err := generateMerchantKey(32)
	if err != nil {
		return nil, fmt.Errorf("failed to generate API key: %w", err)
	}

	now := time.Now()
	key := domain.MerchantAPIKey{
		ID:         uuid.NewString(),
		MerchantID: merchant.MerchantID,
		Name:       req.Name,
		KeyHash:    utils.HashAPIKey(rawKey),
		ExpiresAt:  req.ExpiresAt,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.merchantRepo.SaveAPIKey(ctx, key); err != nil {
		s.LogError(ctx, err, "failed to save API key")
		return nil, fmt.Errorf("failed to save API key in service: %w", err)
	}

	return &dto.CreateAPIKeyResponse{
		ID:        key.ID,
		Name:      key.Name,
		Key:       rawKey,
		ExpiresAt: key.ExpiresAt,
		CreatedAt: key.CreatedAt,
	}, nil
}

// ValidateAPIKey resolves a raw API key to its merchant and records the use.
func (s *MerchantService) ValidateAPIKey(ctx context.Context, rawKey string) (*domain.Merchant, error) {
	if rawKey == "" {
		return nil, apperrors.ErrUnauthorized
	}

	key, err := s.merchantRepo.FindAPIKeyByHash(ctx, utils.HashAPIKey(rawKey))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrUnauthorized
		}
		return nil, fmt.Errorf("failed to look up API key: %w", err)
	}
	if key.IsRevoked() || key.IsExpired() {
		return nil, apperrors.ErrUnauthorized
	}

	merchant, err := s.merchantRepo.FindMerchantByID(ctx, key.MerchantID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve merchant for API key: %w", err)
	}
	if !merchant.IsActive {
		return nil, apperrors.ErrUnauthorized
	}

	// Best effort; a stale last-used timestamp never blocks the request.
	if err := s.merchantRepo.TouchAPIKey(ctx, key.ID, time.Now()); err != nil {
		s.LogDebug(ctx, "failed to touch API key", "key_id", key.ID)
	}

	return merchant, nil
}

// RevokeAPIKey revokes one of the merchant's API keys.
func (s *MerchantService) RevokeAPIKey(ctx context.Context, ownerUserID, keyID string) error {
	merchant, err := s.merchantRepo.FindMerchantByOwner(ctx, ownerUserID)
	if err != nil {
		return fmt.Errorf("failed to resolve merchant for key revocation: %w", err)
	}

	key, err := s.merchantRepo.FindAPIKeyByID(ctx, keyID)
	if err != nil {
		return fmt.Errorf("failed to find API key: %w", err)
	}
	if key.MerchantID != merchant.MerchantID {
		return fmt.Errorf("%w: key %s does not belong to merchant %s", apperrors.ErrForbidden, keyID, merchant.MerchantID)
	}
	if key.IsRevoked() {
		return nil
	}

	if err := s.merchantRepo.RevokeAPIKey(ctx, keyID, time.Now()); err != nil {
		return fmt.Errorf("failed to revoke API key: %w", err)
	}
	return nil
}

// generateMerchantKey generates a URL-safe random key with a recognizable prefix.
func generateMerchantKey(length int) (string, error) {
	b := make([]byte, length)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return "pb_" + base64.URLEncoding.WithPadding(base64.NoPadding).EncodeToString(b), nil
}
