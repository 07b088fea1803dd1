package domain

// Wallet is a user's balance in one currency. Crypto wallets also carry the
// deposit address assigned by the gateway.
type Wallet struct {
	WalletID string   `json:"walletID"` // Primary Key (UUID)
	UserID   string   `json:"userID"`   // FK -> users.user_id
	Currency Currency `json:"currency"`
	Balance  Money    `json:"-"`
	Address  WalletAddress `json:"-"` // Zero for fiat wallets
	IsActive bool     `json:"isActive"`
	AuditFields
}

// CanSend reports whether the wallet balance covers the given total
// (amount plus fee). Fails with ErrCurrencyMismatch when the total is in a
// different currency than the wallet.
func (w *Wallet) CanSend(total Money) (bool, error) {
	enough, err := w.Balance.GreaterThan(total)
	if err != nil {
		return false, err
	}
	return enough || w.Balance.Equal(total), nil
}
