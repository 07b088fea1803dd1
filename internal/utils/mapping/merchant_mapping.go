package mapping

import (
	"fmt"

	"github.com/pesabridge/pesabridge_backend/internal/core/domain"
	"github.com/pesabridge/pesabridge_backend/internal/models"
)

// ToModelMerchant converts a domain Merchant to its table row.
func ToModelMerchant(d domain.Merchant) models.Merchant {
	return models.Merchant{
		MerchantID:         d.MerchantID,
		OwnerUserID:        d.OwnerUserID,
		BusinessName:       d.BusinessName,
		SettlementCurrency: string(d.SettlementCurrency),
		CallbackURL:        d.CallbackURL,
		IsActive:           d.IsActive,
		AuditFields:        ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainMerchant rebuilds a domain Merchant from its table row.
func ToDomainMerchant(m models.Merchant) (domain.Merchant, error) {
	currency, err := domain.ParseCurrency(m.SettlementCurrency)
	if err != nil {
		return domain.Merchant{}, fmt.Errorf("merchant %s: %w", m.MerchantID, err)
	}
	return domain.Merchant{
		MerchantID:         m.MerchantID,
		OwnerUserID:        m.OwnerUserID,
		BusinessName:       m.BusinessName,
		SettlementCurrency: currency,
		CallbackURL:        m.CallbackURL,
		IsActive:           m.IsActive,
		AuditFields:        ToDomainAuditFields(m.AuditFields),
	}, nil
}

// ToModelMerchantAPIKey converts a domain MerchantAPIKey to its table row.
func ToModelMerchantAPIKey(d domain.MerchantAPIKey) models.MerchantAPIKey {
	return models.MerchantAPIKey{
		ID:         d.ID,
		MerchantID: d.MerchantID,
		Name:       d.Name,
		KeyHash:    d.KeyHash,
		LastUsedAt: d.LastUsedAt,
		ExpiresAt:  d.ExpiresAt,
		CreatedAt:  d.CreatedAt,
		UpdatedAt:  d.UpdatedAt,
		RevokedAt:  d.RevokedAt,
	}
}

// ToDomainMerchantAPIKey rebuilds a domain MerchantAPIKey from its table row.
func ToDomainMerchantAPIKey(m models.MerchantAPIKey) domain.MerchantAPIKey {
	return domain.MerchantAPIKey{
		ID:         m.ID,
		MerchantID: m.MerchantID,
		Name:       m.Name,
		KeyHash:    m.KeyHash,
		LastUsedAt: m.LastUsedAt,
		ExpiresAt:  m.ExpiresAt,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
		RevokedAt:  m.RevokedAt,
	}
}
