package services

import (
	"context"

	"github.com/pesabridge/pesabridge_backend/internal/core/domain"
	"github.com/pesabridge/pesabridge_backend/internal/dto"
)

// PaymentReaderSvc defines read operations for payments and transactions.
type PaymentReaderSvc interface {
	// GetPaymentStatus retrieves the current state of a payment request.
	// Expired pending requests are transitioned before being returned.
	GetPaymentStatus(ctx context.Context, userID, paymentRequestID string) (*domain.PaymentRequest, error)

	// ListTransactions returns a page of the user's transaction history,
	// newest first, with an opaque token for the next page.
	ListTransactions(ctx context.Context, userID string, limit int, nextToken string) ([]domain.TransactionRecord, string, error)
}

// PaymentWriterSvc defines operations that create or advance payments.
type PaymentWriterSvc interface {
	// InitiateCryptoPayment starts a crypto deposit or withdrawal.
	InitiateCryptoPayment(ctx context.Context, userID string, req dto.InitiateCryptoPaymentRequest) (*dto.PaymentResponse, error)

	// InitiateMpesaPayment starts an M-Pesa deposit (STK push) or withdrawal (B2C).
	InitiateMpesaPayment(ctx context.Context, userID string, req dto.InitiateMpesaPaymentRequest) (*dto.PaymentResponse, error)

	// ProcessMpesaCallback applies an M-Pesa result callback to its transaction.
	ProcessMpesaCallback(ctx context.Context, req dto.MpesaCallbackRequest) error

	// RecordConfirmations refreshes on-chain confirmation counts for a
	// confirming crypto transaction and completes it once the threshold
	// for its network is reached.
	RecordConfirmations(ctx context.Context, transactionID string) (*domain.TransactionRecord, error)

	// ExpireStalePayments transitions pending requests past their expiry.
	// Returns the number of requests expired.
	ExpireStalePayments(ctx context.Context, limit int) (int, error)
}

// PaymentSvcFacade combines all payment-related service interfaces
type PaymentSvcFacade interface {
	PaymentReaderSvc
	PaymentWriterSvc
}
