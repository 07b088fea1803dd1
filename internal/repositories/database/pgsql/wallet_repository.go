package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pesabridge/pesabridge_backend/internal/apperrors"
	"github.com/pesabridge/pesabridge_backend/internal/core/domain"
	portsrepo "github.com/pesabridge/pesabridge_backend/internal/core/ports/repositories"
	"github.com/pesabridge/pesabridge_backend/internal/models"
	"github.com/pesabridge/pesabridge_backend/internal/utils/mapping"
)

type PgxWalletRepository struct {
	BaseRepository
}

func newPgxWalletRepository(db *pgxpool.Pool) portsrepo.WalletRepositoryFacade {
	return &PgxWalletRepository{BaseRepository: BaseRepository{Pool: db}}
}

// Ensure PgxWalletRepository implements portsrepo.WalletRepositoryFacade
var _ portsrepo.WalletRepositoryFacade = (*PgxWalletRepository)(nil)

const selectWalletFields = `
	wallet_id, user_id, currency_code, balance, network, address, is_active,
	created_at, created_by, last_updated_at, last_updated_by
`

func scanWallet(row pgx.Row) (models.Wallet, error) {
	var m models.Wallet
	err := row.Scan(
		&m.WalletID,
		&m.UserID,
		&m.CurrencyCode,
		&m.Balance,
		&m.Network,
		&m.Address,
		&m.IsActive,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func (r *PgxWalletRepository) SaveWallet(ctx context.Context, wallet domain.Wallet) error {
	m := mapping.ToModelWallet(wallet)
	query := `
        INSERT INTO wallets (wallet_id, user_id, currency_code, balance, network, address, is_active,
            created_at, created_by, last_updated_at, last_updated_by)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
    `
	_, err := r.Pool.Exec(ctx, query,
		m.WalletID,
		m.UserID,
		m.CurrencyCode,
		m.Balance,
		m.Network,
		m.Address,
		m.IsActive,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: user %s already has a %s wallet", apperrors.ErrDuplicate, m.UserID, m.CurrencyCode)
		}
		return fmt.Errorf("failed to save wallet: %w", err)
	}
	return nil
}

func (r *PgxWalletRepository) FindWalletByID(ctx context.Context, walletID string) (*domain.Wallet, error) {
	query := `SELECT ` + selectWalletFields + ` FROM wallets WHERE wallet_id = $1;`
	m, err := scanWallet(r.Pool.QueryRow(ctx, query, walletID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find wallet by ID %s: %w", walletID, err)
	}
	wallet, err := mapping.ToDomainWallet(m)
	if err != nil {
		return nil, err
	}
	return &wallet, nil
}

func (r *PgxWalletRepository) FindWalletsByUser(ctx context.Context, userID string) ([]domain.Wallet, error) {
	query := `
        SELECT ` + selectWalletFields + `
        FROM wallets
        WHERE user_id = $1
        ORDER BY created_at ASC;
    `
	rows, err := r.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query wallets: %w", err)
	}
	defer rows.Close()

	wallets := []domain.Wallet{}
	for rows.Next() {
		m, err := scanWallet(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan wallet row: %w", err)
		}
		wallet, err := mapping.ToDomainWallet(m)
		if err != nil {
			return nil, err
		}
		wallets = append(wallets, wallet)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating wallet rows: %w", rows.Err())
	}
	return wallets, nil
}

func (r *PgxWalletRepository) FindWalletByUserAndCurrency(ctx context.Context, userID string, currency domain.Currency) (*domain.Wallet, error) {
	query := `SELECT ` + selectWalletFields + ` FROM wallets WHERE user_id = $1 AND currency_code = $2;`
	m, err := scanWallet(r.Pool.QueryRow(ctx, query, userID, string(currency)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find %s wallet for user %s: %w", currency, userID, err)
	}
	wallet, err := mapping.ToDomainWallet(m)
	if err != nil {
		return nil, err
	}
	return &wallet, nil
}

// UpdateBalance applies the delta in a single statement so concurrent
// settlements serialize on the row. The balance check in the statement guards
// against overdraft races the service layer cannot see.
func (r *PgxWalletRepository) UpdateBalance(ctx context.Context, walletID string, delta domain.Money, updaterUserID string) error {
	query := `
        UPDATE wallets
        SET balance = balance + $2, last_updated_at = now(), last_updated_by = $3
        WHERE wallet_id = $1 AND currency_code = $4 AND is_active AND balance + $2 >= 0;
    `
	cmdTag, err := r.Pool.Exec(ctx, query, walletID, delta.Amount(), updaterUserID, string(delta.Currency()))
	if err != nil {
		return fmt.Errorf("failed to update wallet balance: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: wallet %s missing, inactive, or balance would go negative", apperrors.ErrInvalidAmount, walletID)
	}
	return nil
}
