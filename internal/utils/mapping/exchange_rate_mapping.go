package mapping

import (
	"fmt"

	"github.com/pesabridge/pesabridge_backend/internal/core/domain"
	"github.com/pesabridge/pesabridge_backend/internal/models"
)

// ToModelExchangeRate converts a domain ExchangeRate to its table row.
func ToModelExchangeRate(d domain.ExchangeRate) models.ExchangeRate {
	return models.ExchangeRate{
		ExchangeRateID:   d.ExchangeRateID,
		FromCurrencyCode: string(d.FromCurrency),
		ToCurrencyCode:   string(d.ToCurrency),
		Rate:             d.Rate,
		DateEffective:    d.DateEffective,
		AuditFields:      ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainExchangeRate rebuilds a domain ExchangeRate from its table row,
// re-running the rate invariants.
func ToDomainExchangeRate(m models.ExchangeRate) (domain.ExchangeRate, error) {
	from, err := domain.ParseCurrency(m.FromCurrencyCode)
	if err != nil {
		return domain.ExchangeRate{}, fmt.Errorf("exchange rate %s: %w", m.ExchangeRateID, err)
	}
	to, err := domain.ParseCurrency(m.ToCurrencyCode)
	if err != nil {
		return domain.ExchangeRate{}, fmt.Errorf("exchange rate %s: %w", m.ExchangeRateID, err)
	}
	rate, err := domain.NewExchangeRate(m.ExchangeRateID, from, to, m.Rate, m.DateEffective)
	if err != nil {
		return domain.ExchangeRate{}, err
	}
	rate.AuditFields = ToDomainAuditFields(m.AuditFields)
	return rate, nil
}
