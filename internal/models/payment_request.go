package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentRequest is the payment_requests table row.
type PaymentRequest struct {
	PaymentRequestID string          `db:"payment_request_id"`
	UserID           string          `db:"user_id"`
	Amount           decimal.Decimal `db:"amount"`
	CurrencyCode     string          `db:"currency_code"`
	PaymentType      string          `db:"payment_type"`
	Network          string          `db:"network"`      // empty for fiat payments
	PhoneNumber      string          `db:"phone_number"` // empty for crypto payments
	Description      string          `db:"description"`
	Status           string          `db:"status"`
	CreatedAt        time.Time       `db:"created_at"`
	ExpiresAt        time.Time       `db:"expires_at"`
}
