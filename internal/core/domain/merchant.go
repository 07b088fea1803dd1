package domain

import "time"

// Merchant is a business account that accepts payments and settles into a
// single currency.
type Merchant struct {
	MerchantID         string   `json:"merchantID"` // Primary Key (UUID)
	OwnerUserID        string   `json:"ownerUserID"`
	BusinessName       string   `json:"businessName"`
	SettlementCurrency Currency `json:"settlementCurrency"`
	CallbackURL        string   `json:"callbackURL,omitempty"`
	IsActive           bool     `json:"isActive"`
	AuditFields
}

// MerchantAPIKey authenticates server-to-server requests from a merchant.
// Only the SHA-256 hash of the key is ever stored.
type MerchantAPIKey struct {
	ID         string     `json:"id"`
	MerchantID string     `json:"merchantID"`
	Name       string     `json:"name"`
	KeyHash    string     `json:"-"` // Never expose the hash in JSON responses
	LastUsedAt *time.Time `json:"lastUsedAt,omitempty"`
	ExpiresAt  *time.Time `json:"expiresAt,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
	RevokedAt  *time.Time `json:"-"` // Soft revocation
}

// IsExpired checks if the key has expired.
func (k *MerchantAPIKey) IsExpired() bool {
	if k.ExpiresAt == nil {
		return false
	}
	return k.ExpiresAt.Before(time.Now())
}

// IsRevoked checks if the key has been revoked.
func (k *MerchantAPIKey) IsRevoked() bool {
	return k.RevokedAt != nil
}

// UpdateLastUsed updates the LastUsedAt timestamp to the current time.
func (k *MerchantAPIKey) UpdateLastUsed() {
	now := time.Now()
	k.LastUsedAt = &now
}
