package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pesabridge/pesabridge_backend/internal/apperrors"
	"github.com/pesabridge/pesabridge_backend/internal/core/domain"
	portsrepo "github.com/pesabridge/pesabridge_backend/internal/core/ports/repositories"
	"github.com/pesabridge/pesabridge_backend/internal/models"
	"github.com/pesabridge/pesabridge_backend/internal/utils/mapping"
	"github.com/pesabridge/pesabridge_backend/internal/utils/pagination"
)

type PgxPaymentRepository struct {
	BaseRepository
}

func newPgxPaymentRepository(db *pgxpool.Pool) portsrepo.PaymentRepositoryFacade {
	return &PgxPaymentRepository{BaseRepository: BaseRepository{Pool: db}}
}

// Ensure PgxPaymentRepository implements portsrepo.PaymentRepositoryFacade
var _ portsrepo.PaymentRepositoryFacade = (*PgxPaymentRepository)(nil)

const selectPaymentRequestFields = `
	payment_request_id, user_id, amount, currency_code, payment_type, network,
	phone_number, description, status, created_at, expires_at
`

const selectTransactionFields = `
	transaction_id, payment_request_id, user_id, wallet_id, amount, fee,
	currency_code, direction, payment_type, status, network, address, tx_hash,
	confirmations, mpesa_receipt, checkout_request_id, notes,
	created_at, created_by, last_updated_at, last_updated_by
`

func scanPaymentRequest(row pgx.Row) (models.PaymentRequest, error) {
	var m models.PaymentRequest
	err := row.Scan(
		&m.PaymentRequestID,
		&m.UserID,
		&m.Amount,
		&m.CurrencyCode,
		&m.PaymentType,
		&m.Network,
		&m.PhoneNumber,
		&m.Description,
		&m.Status,
		&m.CreatedAt,
		&m.ExpiresAt,
	)
	return m, err
}

func scanTransaction(row pgx.Row) (models.Transaction, error) {
	var m models.Transaction
	err := row.Scan(
		&m.TransactionID,
		&m.PaymentRequestID,
		&m.UserID,
		&m.WalletID,
		&m.Amount,
		&m.Fee,
		&m.CurrencyCode,
		&m.Direction,
		&m.PaymentType,
		&m.Status,
		&m.Network,
		&m.Address,
		&m.TxHash,
		&m.Confirmations,
		&m.MpesaReceipt,
		&m.CheckoutRequestID,
		&m.Notes,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func (r *PgxPaymentRepository) SavePaymentRequest(ctx context.Context, req domain.PaymentRequest) error {
	m := mapping.ToModelPaymentRequest(req)
	query := `
        INSERT INTO payment_requests (payment_request_id, user_id, amount, currency_code, payment_type,
            network, phone_number, description, status, created_at, expires_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
    `
	_, err := r.Pool.Exec(ctx, query,
		m.PaymentRequestID,
		m.UserID,
		m.Amount,
		m.CurrencyCode,
		m.PaymentType,
		m.Network,
		m.PhoneNumber,
		m.Description,
		m.Status,
		m.CreatedAt,
		m.ExpiresAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: payment request %s already exists", apperrors.ErrDuplicate, m.PaymentRequestID)
		}
		return fmt.Errorf("failed to save payment request: %w", err)
	}
	return nil
}

func (r *PgxPaymentRepository) FindPaymentRequestByID(ctx context.Context, paymentRequestID string) (*domain.PaymentRequest, error) {
	query := `SELECT ` + selectPaymentRequestFields + ` FROM payment_requests WHERE payment_request_id = $1;`
	m, err := scanPaymentRequest(r.Pool.QueryRow(ctx, query, paymentRequestID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find payment request %s: %w", paymentRequestID, err)
	}
	req, err := mapping.ToDomainPaymentRequest(m)
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *PgxPaymentRepository) FindPendingBefore(ctx context.Context, cutoff time.Time, limit int) ([]domain.PaymentRequest, error) {
	if limit <= 0 {
		limit = 100
	}
	query := `
        SELECT ` + selectPaymentRequestFields + `
        FROM payment_requests
        WHERE status = $1 AND expires_at < $2
        ORDER BY expires_at ASC
        LIMIT $3;
    `
	rows, err := r.Pool.Query(ctx, query, string(domain.PaymentPending), cutoff, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query stale payment requests: %w", err)
	}
	defer rows.Close()

	requests := []domain.PaymentRequest{}
	for rows.Next() {
		m, err := scanPaymentRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payment request row: %w", err)
		}
		req, err := mapping.ToDomainPaymentRequest(m)
		if err != nil {
			return nil, err
		}
		requests = append(requests, req)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating payment request rows: %w", rows.Err())
	}
	return requests, nil
}

func (r *PgxPaymentRepository) UpdatePaymentRequestStatus(ctx context.Context, paymentRequestID string, status domain.PaymentStatus) error {
	query := `UPDATE payment_requests SET status = $1 WHERE payment_request_id = $2;`
	cmdTag, err := r.Pool.Exec(ctx, query, string(status), paymentRequestID)
	if err != nil {
		return fmt.Errorf("failed to update payment request status: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("payment request %s not found: %w", paymentRequestID, apperrors.ErrNotFound)
	}
	return nil
}

func (r *PgxPaymentRepository) SaveTransaction(ctx context.Context, txn domain.TransactionRecord) error {
	m := mapping.ToModelTransaction(txn)
	query := `
        INSERT INTO transactions (transaction_id, payment_request_id, user_id, wallet_id, amount, fee,
            currency_code, direction, payment_type, status, network, address, tx_hash, confirmations,
            mpesa_receipt, checkout_request_id, notes, created_at, created_by, last_updated_at, last_updated_by)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21);
    `
	_, err := r.Pool.Exec(ctx, query,
		m.TransactionID,
		m.PaymentRequestID,
		m.UserID,
		m.WalletID,
		m.Amount,
		m.Fee,
		m.CurrencyCode,
		m.Direction,
		m.PaymentType,
		m.Status,
		m.Network,
		m.Address,
		m.TxHash,
		m.Confirmations,
		m.MpesaReceipt,
		m.CheckoutRequestID,
		m.Notes,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: transaction %s already exists", apperrors.ErrDuplicate, m.TransactionID)
		}
		return fmt.Errorf("failed to save transaction: %w", err)
	}
	return nil
}

func (r *PgxPaymentRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.TransactionRecord, error) {
	query := `SELECT ` + selectTransactionFields + ` FROM transactions WHERE transaction_id = $1;`
	m, err := scanTransaction(r.Pool.QueryRow(ctx, query, transactionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find transaction %s: %w", transactionID, err)
	}
	txn, err := mapping.ToDomainTransaction(m)
	if err != nil {
		return nil, err
	}
	return &txn, nil
}

func (r *PgxPaymentRepository) FindTransactionByCheckoutRequestID(ctx context.Context, checkoutRequestID string) (*domain.TransactionRecord, error) {
	query := `SELECT ` + selectTransactionFields + ` FROM transactions WHERE checkout_request_id = $1;`
	m, err := scanTransaction(r.Pool.QueryRow(ctx, query, checkoutRequestID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find transaction for checkout request %s: %w", checkoutRequestID, err)
	}
	txn, err := mapping.ToDomainTransaction(m)
	if err != nil {
		return nil, err
	}
	return &txn, nil
}

// ListTransactionsByUser pages newest first on a (created_at, transaction_id)
// keyset cursor so inserts between pages cannot shift results.
func (r *PgxPaymentRepository) ListTransactionsByUser(ctx context.Context, userID string, limit int, nextToken string) ([]domain.TransactionRecord, string, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `
        SELECT ` + selectTransactionFields + `
        FROM transactions
        WHERE user_id = $1
    `
	args := []interface{}{userID}
	if nextToken != "" {
		fields, err := pagination.DecodeMultiFieldToken(nextToken)
		if err != nil || len(fields) != 2 {
			return nil, "", fmt.Errorf("%w: invalid pagination token", apperrors.ErrValidation)
		}
		cursorAt, err := time.Parse(time.RFC3339Nano, fields[0])
		if err != nil {
			return nil, "", fmt.Errorf("%w: invalid pagination token", apperrors.ErrValidation)
		}
		query += ` AND (created_at, transaction_id) < ($2, $3)`
		args = append(args, cursorAt, fields[1])
	}
	query += fmt.Sprintf(`
        ORDER BY created_at DESC, transaction_id DESC
        LIMIT $%d;`, len(args)+1)
	args = append(args, limit)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, "", fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	rowModels := []models.Transaction{}
	for rows.Next() {
		m, err := scanTransaction(rows)
		if err != nil {
			return nil, "", fmt.Errorf("failed to scan transaction row: %w", err)
		}
		rowModels = append(rowModels, m)
	}
	if rows.Err() != nil {
		return nil, "", fmt.Errorf("error iterating transaction rows: %w", rows.Err())
	}

	txns, err := mapping.ToDomainTransactionSlice(rowModels)
	if err != nil {
		return nil, "", err
	}

	newToken := ""
	if len(rowModels) == limit {
		last := rowModels[len(rowModels)-1]
		newToken = pagination.EncodeMultiFieldToken(last.CreatedAt.Format(time.RFC3339Nano), last.TransactionID)
	}
	return txns, newToken, nil
}

func (r *PgxPaymentRepository) UpdateTransactionStatus(ctx context.Context, transactionID string, status domain.PaymentStatus, txHash domain.TransactionHash, mpesaReceipt string) error {
	query := `
        UPDATE transactions
        SET status = $1,
            tx_hash = CASE WHEN $2 <> '' THEN $2 ELSE tx_hash END,
            network = CASE WHEN $3 <> '' THEN $3 ELSE network END,
            mpesa_receipt = CASE WHEN $4 <> '' THEN $4 ELSE mpesa_receipt END,
            last_updated_at = now()
        WHERE transaction_id = $5;
    `
	cmdTag, err := r.Pool.Exec(ctx, query,
		string(status),
		txHash.Value(),
		string(txHash.Network()),
		mpesaReceipt,
		transactionID,
	)
	if err != nil {
		return fmt.Errorf("failed to update transaction status: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("transaction %s not found: %w", transactionID, apperrors.ErrNotFound)
	}
	return nil
}

func (r *PgxPaymentRepository) UpdateTransactionConfirmations(ctx context.Context, transactionID string, confirmations int) error {
	query := `
        UPDATE transactions
        SET confirmations = $1, last_updated_at = now()
        WHERE transaction_id = $2;
    `
	cmdTag, err := r.Pool.Exec(ctx, query, confirmations, transactionID)
	if err != nil {
		return fmt.Errorf("failed to update transaction confirmations: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("transaction %s not found: %w", transactionID, apperrors.ErrNotFound)
	}
	return nil
}
