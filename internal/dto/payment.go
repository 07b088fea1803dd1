package dto

import (
	"time"

	"github.com/pesabridge/pesabridge_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// InitiateCryptoPaymentRequest starts a crypto deposit or withdrawal.
type InitiateCryptoPaymentRequest struct {
	Amount       decimal.Decimal `json:"amount" binding:"required"`
	CurrencyCode string          `json:"currencyCode" binding:"required,currencycode"`
	Network      string          `json:"network" binding:"required,oneof=bitcoin ethereum tron"`
	PaymentType  string          `json:"paymentType" binding:"required,oneof=crypto_deposit crypto_withdrawal"`
	// Destination address, required for withdrawals only.
	Address     string `json:"address,omitempty"`
	Description string `json:"description,omitempty"`
}

// InitiateMpesaPaymentRequest starts an M-Pesa deposit (STK push) or withdrawal (B2C).
type InitiateMpesaPaymentRequest struct {
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	PhoneNumber string          `json:"phoneNumber" binding:"required,msisdn"`
	PaymentType string          `json:"paymentType" binding:"required,oneof=mpesa_deposit mpesa_withdrawal"`
	Description string          `json:"description,omitempty"`
}

// PaymentResponse describes an initiated or queried payment.
type PaymentResponse struct {
	PaymentRequestID string          `json:"paymentRequestID"`
	TransactionID    string          `json:"transactionID,omitempty"`
	PaymentType      string          `json:"paymentType"`
	Status           string          `json:"status"`
	Amount           decimal.Decimal `json:"amount"`
	CurrencyCode     string          `json:"currencyCode"`
	Fee              decimal.Decimal `json:"fee"`

	// Crypto deposit fields.
	DepositAddress string `json:"depositAddress,omitempty"`
	Network        string `json:"network,omitempty"`
	QRCodeData     string `json:"qrCodeData,omitempty"`
	Instructions   string `json:"instructions,omitempty"`
	TxHash         string `json:"txHash,omitempty"`
	Confirmations  int    `json:"confirmations,omitempty"`

	// M-Pesa fields.
	CheckoutRequestID string `json:"checkoutRequestID,omitempty"`
	MpesaReceipt      string `json:"mpesaReceipt,omitempty"`
	CustomerMessage   string `json:"customerMessage,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt,omitempty"`
}

// MpesaCallbackRequest is the Daraja STK push result callback payload,
// flattened to the fields the backend consumes.
type MpesaCallbackRequest struct {
	CheckoutRequestID string          `json:"checkoutRequestID" binding:"required"`
	ResultCode        string          `json:"resultCode" binding:"required"`
	ResultDesc        string          `json:"resultDesc"`
	MpesaReceipt      string          `json:"mpesaReceipt,omitempty"`
	Amount            decimal.Decimal `json:"amount,omitempty"`
	PhoneNumber       string          `json:"phoneNumber,omitempty"`
}

// ToPaymentStatusResponse converts a domain.PaymentRequest to the subset of
// PaymentResponse a status query can answer.
func ToPaymentStatusResponse(pr *domain.PaymentRequest) PaymentResponse {
	resp := PaymentResponse{
		PaymentRequestID: pr.PaymentRequestID,
		PaymentType:      string(pr.PaymentType),
		Status:           string(pr.Status),
		Amount:           pr.Amount.Amount(),
		CurrencyCode:     string(pr.Amount.Currency()),
		Network:          string(pr.Network),
		CreatedAt:        pr.CreatedAt,
		ExpiresAt:        pr.ExpiresAt,
	}
	return resp
}

// TransactionResponse is one row of a user's payment history.
type TransactionResponse struct {
	TransactionID    string          `json:"transactionID"`
	PaymentRequestID string          `json:"paymentRequestID"`
	PaymentType      string          `json:"paymentType"`
	Direction        string          `json:"direction"`
	Status           string          `json:"status"`
	Amount           decimal.Decimal `json:"amount"`
	Fee              decimal.Decimal `json:"fee"`
	CurrencyCode     string          `json:"currencyCode"`
	Network          string          `json:"network,omitempty"`
	Address          string          `json:"address,omitempty"`
	TxHash           string          `json:"txHash,omitempty"`
	Confirmations    int             `json:"confirmations,omitempty"`
	MpesaReceipt     string          `json:"mpesaReceipt,omitempty"`
	Notes            string          `json:"notes,omitempty"`
	CreatedAt        time.Time       `json:"createdAt"`
}

// ListTransactionsResponse is a page of transaction history.
type ListTransactionsResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	NextToken    string                `json:"nextToken,omitempty"`
}

// ToTransactionResponse converts a domain.TransactionRecord to its DTO.
func ToTransactionResponse(t *domain.TransactionRecord) TransactionResponse {
	resp := TransactionResponse{
		TransactionID:    t.TransactionID,
		PaymentRequestID: t.PaymentRequestID,
		PaymentType:      string(t.PaymentType),
		Direction:        string(t.Direction),
		Status:           string(t.Status),
		Amount:           t.Amount.Amount(),
		Fee:              t.Fee.Amount(),
		CurrencyCode:     string(t.Amount.Currency()),
		Confirmations:    t.Confirmations,
		MpesaReceipt:     t.MpesaReceipt,
		Notes:            t.Notes,
		CreatedAt:        t.CreatedAt,
	}
	if !t.Address.IsZero() {
		resp.Network = string(t.Address.Network())
		resp.Address = t.Address.Value()
	}
	if !t.TxHash.IsZero() {
		resp.Network = string(t.TxHash.Network())
		resp.TxHash = t.TxHash.Value()
	}
	return resp
}

// ToListTransactionsResponse converts a page of records plus its cursor.
func ToListTransactionsResponse(txns []domain.TransactionRecord, nextToken string) ListTransactionsResponse {
	out := ListTransactionsResponse{
		Transactions: make([]TransactionResponse, len(txns)),
		NextToken:    nextToken,
	}
	for i := range txns {
		out.Transactions[i] = ToTransactionResponse(&txns[i])
	}
	return out
}
