package repositories

import (
	"context"
	"time"

	"github.com/pesabridge/pesabridge_backend/internal/core/domain"
)

// PaymentRequestReader defines read operations for payment requests
type PaymentRequestReader interface {
	// FindPaymentRequestByID retrieves a specific payment request.
	FindPaymentRequestByID(ctx context.Context, paymentRequestID string) (*domain.PaymentRequest, error)

	// FindPendingBefore lists pending payment requests whose expiry is before the cutoff.
	FindPendingBefore(ctx context.Context, cutoff time.Time, limit int) ([]domain.PaymentRequest, error)
}

// PaymentRequestWriter defines write operations for payment requests
type PaymentRequestWriter interface {
	// SavePaymentRequest persists a new payment request.
	SavePaymentRequest(ctx context.Context, req domain.PaymentRequest) error

	// UpdatePaymentRequestStatus moves a payment request to a new status.
	UpdatePaymentRequestStatus(ctx context.Context, paymentRequestID string, status domain.PaymentStatus) error
}

// TransactionReader defines read operations for settled transactions
type TransactionReader interface {
	// FindTransactionByID retrieves a specific transaction.
	FindTransactionByID(ctx context.Context, transactionID string) (*domain.TransactionRecord, error)

	// FindTransactionByCheckoutRequestID resolves an M-Pesa STK callback to its transaction.
	FindTransactionByCheckoutRequestID(ctx context.Context, checkoutRequestID string) (*domain.TransactionRecord, error)

	// ListTransactionsByUser retrieves a user's transactions newest first.
	// nextToken is an opaque pagination cursor; empty means the first page.
	ListTransactionsByUser(ctx context.Context, userID string, limit int, nextToken string) ([]domain.TransactionRecord, string, error)
}

// TransactionWriter defines write operations for settled transactions
type TransactionWriter interface {
	// SaveTransaction persists a new transaction row.
	SaveTransaction(ctx context.Context, txn domain.TransactionRecord) error

	// UpdateTransactionStatus updates status and the settlement identifiers that
	// arrive with it (tx hash or M-Pesa receipt may be zero values).
	UpdateTransactionStatus(ctx context.Context, transactionID string, status domain.PaymentStatus, txHash domain.TransactionHash, mpesaReceipt string) error

	// UpdateTransactionConfirmations records the current confirmation count.
	UpdateTransactionConfirmations(ctx context.Context, transactionID string, confirmations int) error
}

// PaymentRepositoryFacade combines all payment-related repository interfaces
type PaymentRepositoryFacade interface {
	PaymentRequestReader
	PaymentRequestWriter
	TransactionReader
	TransactionWriter
}
