package models

import (
	"github.com/shopspring/decimal"
)

// Transaction is the transactions table row. Amount and fee share one
// currency column; crypto and M-Pesa settlement identifiers are nullable
// text columns left empty when not applicable.
type Transaction struct {
	TransactionID    string          `db:"transaction_id"`
	PaymentRequestID string          `db:"payment_request_id"`
	UserID           string          `db:"user_id"`
	WalletID         string          `db:"wallet_id"`
	Amount           decimal.Decimal `db:"amount"`
	Fee              decimal.Decimal `db:"fee"`
	CurrencyCode     string          `db:"currency_code"`
	Direction        string          `db:"direction"` // CREDIT or DEBIT
	PaymentType      string          `db:"payment_type"`
	Status           string          `db:"status"`

	Network       string `db:"network"`
	Address       string `db:"address"`
	TxHash        string `db:"tx_hash"`
	Confirmations int    `db:"confirmations"`

	MpesaReceipt      string `db:"mpesa_receipt"`
	CheckoutRequestID string `db:"checkout_request_id"`

	Notes string `db:"notes"`
	AuditFields
}
