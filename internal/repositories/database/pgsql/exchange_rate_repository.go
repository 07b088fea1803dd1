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

type PgxExchangeRateRepository struct {
	BaseRepository
}

func newPgxExchangeRateRepository(db *pgxpool.Pool) portsrepo.ExchangeRateRepositoryFacade {
	return &PgxExchangeRateRepository{BaseRepository: BaseRepository{Pool: db}}
}

// Ensure PgxExchangeRateRepository implements portsrepo.ExchangeRateRepositoryFacade
var _ portsrepo.ExchangeRateRepositoryFacade = (*PgxExchangeRateRepository)(nil)

const selectExchangeRateFields = `
	exchange_rate_id, from_currency_code, to_currency_code, rate, date_effective,
	created_at, created_by, last_updated_at, last_updated_by
`

func scanExchangeRate(row pgx.Row) (models.ExchangeRate, error) {
	var m models.ExchangeRate
	err := row.Scan(
		&m.ExchangeRateID,
		&m.FromCurrencyCode,
		&m.ToCurrencyCode,
		&m.Rate,
		&m.DateEffective,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func (r *PgxExchangeRateRepository) SaveExchangeRate(ctx context.Context, rate domain.ExchangeRate) error {
	m := mapping.ToModelExchangeRate(rate)
	query := `
        INSERT INTO exchange_rates (exchange_rate_id, from_currency_code, to_currency_code, rate,
            date_effective, created_at, created_by, last_updated_at, last_updated_by)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
    `
	_, err := r.Pool.Exec(ctx, query,
		m.ExchangeRateID,
		m.FromCurrencyCode,
		m.ToCurrencyCode,
		m.Rate,
		m.DateEffective,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: a %s to %s rate effective %s already exists",
				apperrors.ErrDuplicate, m.FromCurrencyCode, m.ToCurrencyCode, m.DateEffective.Format("2006-01-02T15:04:05Z07:00"))
		}
		return fmt.Errorf("failed to save exchange rate: %w", err)
	}
	return nil
}

// FindExchangeRate returns the most recent rate already in effect for the pair.
func (r *PgxExchangeRateRepository) FindExchangeRate(ctx context.Context, from, to domain.Currency) (*domain.ExchangeRate, error) {
	query := `
        SELECT ` + selectExchangeRateFields + `
        FROM exchange_rates
        WHERE from_currency_code = $1 AND to_currency_code = $2 AND date_effective <= now()
        ORDER BY date_effective DESC
        LIMIT 1;
    `
	m, err := scanExchangeRate(r.Pool.QueryRow(ctx, query, string(from), string(to)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find %s to %s rate: %w", from, to, err)
	}
	rate, err := mapping.ToDomainExchangeRate(m)
	if err != nil {
		return nil, err
	}
	return &rate, nil
}

func (r *PgxExchangeRateRepository) FindExchangeRateByID(ctx context.Context, rateID string) (*domain.ExchangeRate, error) {
	query := `SELECT ` + selectExchangeRateFields + ` FROM exchange_rates WHERE exchange_rate_id = $1;`
	m, err := scanExchangeRate(r.Pool.QueryRow(ctx, query, rateID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find exchange rate %s: %w", rateID, err)
	}
	rate, err := mapping.ToDomainExchangeRate(m)
	if err != nil {
		return nil, err
	}
	return &rate, nil
}
