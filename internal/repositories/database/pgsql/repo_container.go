package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"
	portsrepo "github.com/pesabridge/pesabridge_backend/internal/core/ports/repositories"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		UserRepo:         newPgxUserRepository(dbPool),
		WalletRepo:       newPgxWalletRepository(dbPool),
		PaymentRepo:      newPgxPaymentRepository(dbPool),
		ExchangeRateRepo: newPgxExchangeRateRepository(dbPool),
		MerchantRepo:     newPgxMerchantRepository(dbPool),
	}
}
