package models

import "time"

// Merchant is the merchants table row.
type Merchant struct {
	MerchantID         string `db:"merchant_id"`
	OwnerUserID        string `db:"owner_user_id"`
	BusinessName       string `db:"business_name"`
	SettlementCurrency string `db:"settlement_currency"`
	CallbackURL        string `db:"callback_url"`
	IsActive           bool   `db:"is_active"`
	AuditFields
}

// MerchantAPIKey is the merchant_api_keys table row.
type MerchantAPIKey struct {
	ID         string     `db:"id"`
	MerchantID string     `db:"merchant_id"`
	Name       string     `db:"name"`
	KeyHash    string     `db:"key_hash"`
	LastUsedAt *time.Time `db:"last_used_at"`
	ExpiresAt  *time.Time `db:"expires_at"`
	CreatedAt  time.Time  `db:"created_at"`
	UpdatedAt  time.Time  `db:"updated_at"`
	RevokedAt  *time.Time `db:"revoked_at"`
}
