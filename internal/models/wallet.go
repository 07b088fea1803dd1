package models

import (
	"github.com/shopspring/decimal"
)

// Wallet is the wallets table row. Balance is stored as a numeric column and
// the currency code alongside it; the domain layer rebuilds the Money pair.
type Wallet struct {
	WalletID     string          `db:"wallet_id"`
	UserID       string          `db:"user_id"`
	CurrencyCode string          `db:"currency_code"`
	Balance      decimal.Decimal `db:"balance"`
	Network      string          `db:"network"` // empty for fiat wallets
	Address      string          `db:"address"` // empty for fiat wallets
	IsActive     bool            `db:"is_active"`
	AuditFields
}
