package services

import (
	"context"

	"github.com/pesabridge/pesabridge_backend/internal/core/domain"
	"github.com/pesabridge/pesabridge_backend/internal/dto"
)

// ExchangeRateReaderSvc defines read operations for exchange rate data
type ExchangeRateReaderSvc interface {
	// GetExchangeRate retrieves the effective rate for a currency pair.
	// When only the inverse pair is stored, the inverted rate is returned.
	GetExchangeRate(ctx context.Context, from, to domain.Currency) (*domain.ExchangeRate, error)

	// GetExchangeRateByID retrieves a specific rate by its ID.
	GetExchangeRateByID(ctx context.Context, rateID string) (*domain.ExchangeRate, error)
}

// ExchangeRateWriterSvc defines write operations for exchange rate data
type ExchangeRateWriterSvc interface {
	// CreateExchangeRate records a new rate. Admin only.
	CreateExchangeRate(ctx context.Context, adminUserID string, req dto.CreateExchangeRateRequest) (*domain.ExchangeRate, error)
}

// CurrencyConverterSvc converts amounts between currencies.
type CurrencyConverterSvc interface {
	// Convert quotes a conversion, applying the exchange fee for the
	// source currency before converting.
	Convert(ctx context.Context, req dto.ConvertRequest) (*dto.ConvertResponse, error)
}

// ExchangeRateSvcFacade combines all exchange-rate service interfaces
type ExchangeRateSvcFacade interface {
	ExchangeRateReaderSvc
	ExchangeRateWriterSvc
	CurrencyConverterSvc
}
