package domain

// TransactionDirection indicates whether a ledger entry credits or debits a wallet.
type TransactionDirection string

const (
	DirectionCredit TransactionDirection = "CREDIT" // value into the wallet
	DirectionDebit  TransactionDirection = "DEBIT"  // value out of the wallet
)

// TransactionRecord is a settled (or settling) ledger row for a payment
// request. It owns its Money amount and fee; crypto rows carry the deposit
// address and on-chain hash, M-Pesa rows the receipt and checkout request ID.
type TransactionRecord struct {
	TransactionID    string                `json:"transactionID"`    // Primary Key (UUID)
	PaymentRequestID string                `json:"paymentRequestID"` // FK -> payment_requests
	UserID           string                `json:"userID"`
	WalletID         string                `json:"walletID"`
	Amount           Money                 `json:"-"`
	Fee              Money                 `json:"-"`
	Direction        TransactionDirection `json:"direction"`
	PaymentType      PaymentType           `json:"paymentType"`
	Status           PaymentStatus         `json:"status"`

	// Crypto settlement fields.
	Address       WalletAddress   `json:"-"`
	TxHash        TransactionHash `json:"-"`
	Confirmations int             `json:"confirmations,omitempty"`

	// M-Pesa settlement fields.
	MpesaReceipt      string `json:"mpesaReceipt,omitempty"`
	CheckoutRequestID string `json:"checkoutRequestID,omitempty"`

	Notes string `json:"notes,omitempty"`
	AuditFields
}

// Total returns amount + fee, the full value the transaction moves.
func (t *TransactionRecord) Total() (Money, error) {
	return t.Amount.Add(t.Fee)
}
