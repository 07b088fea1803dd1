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
)

type PgxMerchantRepository struct {
	BaseRepository
}

func newPgxMerchantRepository(db *pgxpool.Pool) portsrepo.MerchantRepositoryFacade {
	return &PgxMerchantRepository{BaseRepository: BaseRepository{Pool: db}}
}

// Ensure PgxMerchantRepository implements portsrepo.MerchantRepositoryFacade
var _ portsrepo.MerchantRepositoryFacade = (*PgxMerchantRepository)(nil)

const selectMerchantFields = `
	merchant_id, owner_user_id, business_name, settlement_currency, callback_url, is_active,
	created_at, created_by, last_updated_at, last_updated_by
`

const selectAPIKeyFields = `
	id, merchant_id, name, key_hash, last_used_at, expires_at, created_at, updated_at, revoked_at
`

func scanMerchant(row pgx.Row) (models.Merchant, error) {
	var m models.Merchant
	err := row.Scan(
		&m.MerchantID,
		&m.OwnerUserID,
		&m.BusinessName,
		&m.SettlementCurrency,
		&m.CallbackURL,
		&m.IsActive,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func scanAPIKey(row pgx.Row) (models.MerchantAPIKey, error) {
	var m models.MerchantAPIKey
	err := row.Scan(
		&m.ID,
		&m.MerchantID,
		&m.Name,
		&m.KeyHash,
		&m.LastUsedAt,
		&m.ExpiresAt,
		&m.CreatedAt,
		&m.UpdatedAt,
		&m.RevokedAt,
	)
	return m, err
}

func (r *PgxMerchantRepository) SaveMerchant(ctx context.Context, merchant domain.Merchant) error {
	m := mapping.ToModelMerchant(merchant)
	query := `
        INSERT INTO merchants (merchant_id, owner_user_id, business_name, settlement_currency,
            callback_url, is_active, created_at, created_by, last_updated_at, last_updated_by)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
    `
	_, err := r.Pool.Exec(ctx, query,
		m.MerchantID,
		m.OwnerUserID,
		m.BusinessName,
		m.SettlementCurrency,
		m.CallbackURL,
		m.IsActive,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: user %s already owns a merchant", apperrors.ErrDuplicate, m.OwnerUserID)
		}
		return fmt.Errorf("failed to save merchant: %w", err)
	}
	return nil
}

func (r *PgxMerchantRepository) UpdateMerchant(ctx context.Context, merchant domain.Merchant) error {
	m := mapping.ToModelMerchant(merchant)
	query := `
        UPDATE merchants
        SET business_name = $1, settlement_currency = $2, callback_url = $3, is_active = $4,
            last_updated_at = $5, last_updated_by = $6
        WHERE merchant_id = $7;
    `
	cmdTag, err := r.Pool.Exec(ctx, query,
		m.BusinessName,
		m.SettlementCurrency,
		m.CallbackURL,
		m.IsActive,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
		m.MerchantID,
	)
	if err != nil {
		return fmt.Errorf("failed to update merchant: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("merchant %s not found: %w", m.MerchantID, apperrors.ErrNotFound)
	}
	return nil
}

func (r *PgxMerchantRepository) FindMerchantByID(ctx context.Context, merchantID string) (*domain.Merchant, error) {
	query := `SELECT ` + selectMerchantFields + ` FROM merchants WHERE merchant_id = $1;`
	m, err := scanMerchant(r.Pool.QueryRow(ctx, query, merchantID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find merchant %s: %w", merchantID, err)
	}
	merchant, err := mapping.ToDomainMerchant(m)
	if err != nil {
		return nil, err
	}
	return &merchant, nil
}

func (r *PgxMerchantRepository) FindMerchantByOwner(ctx context.Context, ownerUserID string) (*domain.Merchant, error) {
	query := `SELECT ` + selectMerchantFields + ` FROM merchants WHERE owner_user_id = $1;`
	m, err := scanMerchant(r.Pool.QueryRow(ctx, query, ownerUserID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find merchant for owner %s: %w", ownerUserID, err)
	}
	merchant, err := mapping.ToDomainMerchant(m)
	if err != nil {
		return nil, err
	}
	return &merchant, nil
}

func (r *PgxMerchantRepository) SaveAPIKey(ctx context.Context, key domain.MerchantAPIKey) error {
	m := mapping.ToModelMerchantAPIKey(key)
	query := `
        INSERT INTO merchant_api_keys (id, merchant_id, name, key_hash, expires_at, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7);
    `
	_, err := r.Pool.Exec(ctx, query,
		m.ID,
		m.MerchantID,
		m.Name,
		m.KeyHash,
		m.ExpiresAt,
		m.CreatedAt,
		m.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: API key %s already exists", apperrors.ErrDuplicate, m.ID)
		}
		return fmt.Errorf("failed to save API key: %w", err)
	}
	return nil
}

func (r *PgxMerchantRepository) FindAPIKeyByID(ctx context.Context, keyID string) (*domain.MerchantAPIKey, error) {
	query := `SELECT ` + selectAPIKeyFields + ` FROM merchant_api_keys WHERE id = $1;`
	m, err := scanAPIKey(r.Pool.QueryRow(ctx, query, keyID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find API key %s: %w", keyID, err)
	}
	key := mapping.ToDomainMerchantAPIKey(m)
	return &key, nil
}

func (r *PgxMerchantRepository) FindAPIKeyByHash(ctx context.Context, keyHash string) (*domain.MerchantAPIKey, error) {
	query := `SELECT ` + selectAPIKeyFields + ` FROM merchant_api_keys WHERE key_hash = $1;`
	m, err := scanAPIKey(r.Pool.QueryRow(ctx, query, keyHash))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find API key by hash: %w", err)
	}
	key := mapping.ToDomainMerchantAPIKey(m)
	return &key, nil
}

func (r *PgxMerchantRepository) TouchAPIKey(ctx context.Context, keyID string, usedAt time.Time) error {
	query := `UPDATE merchant_api_keys SET last_used_at = $1, updated_at = $1 WHERE id = $2;`
	if _, err := r.Pool.Exec(ctx, query, usedAt, keyID); err != nil {
		return fmt.Errorf("failed to touch API key: %w", err)
	}
	return nil
}

func (r *PgxMerchantRepository) RevokeAPIKey(ctx context.Context, keyID string, revokedAt time.Time) error {
	query := `
        UPDATE merchant_api_keys
        SET revoked_at = $1, updated_at = $1
        WHERE id = $2 AND revoked_at IS NULL;
    `
	cmdTag, err := r.Pool.Exec(ctx, query, revokedAt, keyID)
	if err != nil {
		return fmt.Errorf("failed to revoke API key: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("API key %s not found or already revoked: %w", keyID, apperrors.ErrNotFound)
	}
	return nil
}
