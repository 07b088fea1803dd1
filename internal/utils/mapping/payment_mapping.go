package mapping

import (
	"fmt"

	"github.com/pesabridge/pesabridge_backend/internal/core/domain"
	"github.com/pesabridge/pesabridge_backend/internal/models"
)

// ToModelPaymentRequest converts a domain PaymentRequest to its table row.
func ToModelPaymentRequest(d domain.PaymentRequest) models.PaymentRequest {
	m := models.PaymentRequest{
		PaymentRequestID: d.PaymentRequestID,
		UserID:           d.UserID,
		Amount:           d.Amount.Amount(),
		CurrencyCode:     string(d.Amount.Currency()),
		PaymentType:      string(d.PaymentType),
		Description:      d.Description,
		Status:           string(d.Status),
		CreatedAt:        d.CreatedAt,
		ExpiresAt:        d.ExpiresAt,
	}
	if d.Network.IsValid() {
		m.Network = string(d.Network)
	}
	if !d.PhoneNumber.IsZero() {
		m.PhoneNumber = d.PhoneNumber.International()
	}
	return m
}

// ToDomainPaymentRequest rebuilds a domain PaymentRequest from its table row.
// Stored rows bypass NewPaymentRequest's expiry stamping but re-validate the
// value objects they carry.
func ToDomainPaymentRequest(m models.PaymentRequest) (domain.PaymentRequest, error) {
	currency, err := domain.ParseCurrency(m.CurrencyCode)
	if err != nil {
		return domain.PaymentRequest{}, fmt.Errorf("payment request %s: %w", m.PaymentRequestID, err)
	}
	amount, err := domain.NewMoney(m.Amount, currency)
	if err != nil {
		return domain.PaymentRequest{}, fmt.Errorf("payment request %s: %w", m.PaymentRequestID, err)
	}

	d := domain.PaymentRequest{
		PaymentRequestID: m.PaymentRequestID,
		UserID:           m.UserID,
		Amount:           amount,
		PaymentType:      domain.PaymentType(m.PaymentType),
		Description:      m.Description,
		Status:           domain.PaymentStatus(m.Status),
		CreatedAt:        m.CreatedAt,
		ExpiresAt:        m.ExpiresAt,
	}
	if m.Network != "" {
		network, err := domain.ParseNetwork(m.Network)
		if err != nil {
			return domain.PaymentRequest{}, fmt.Errorf("payment request %s: %w", m.PaymentRequestID, err)
		}
		d.Network = network
	}
	if m.PhoneNumber != "" {
		phone, err := domain.NewPhoneNumber(m.PhoneNumber)
		if err != nil {
			return domain.PaymentRequest{}, fmt.Errorf("payment request %s: %w", m.PaymentRequestID, err)
		}
		d.PhoneNumber = phone
	}
	return d, nil
}

// ToModelTransaction converts a domain TransactionRecord to its table row.
func ToModelTransaction(d domain.TransactionRecord) models.Transaction {
	m := models.Transaction{
		TransactionID:     d.TransactionID,
		PaymentRequestID:  d.PaymentRequestID,
		UserID:            d.UserID,
		WalletID:          d.WalletID,
		Amount:            d.Amount.Amount(),
		Fee:               d.Fee.Amount(),
		CurrencyCode:      string(d.Amount.Currency()),
		Direction:         string(d.Direction),
		PaymentType:       string(d.PaymentType),
		Status:            string(d.Status),
		Confirmations:     d.Confirmations,
		MpesaReceipt:      d.MpesaReceipt,
		CheckoutRequestID: d.CheckoutRequestID,
		Notes:             d.Notes,
		AuditFields:       ToModelAuditFields(d.AuditFields),
	}
	if !d.Address.IsZero() {
		m.Network = string(d.Address.Network())
		m.Address = d.Address.Value()
	}
	if !d.TxHash.IsZero() {
		m.Network = string(d.TxHash.Network())
		m.TxHash = d.TxHash.Value()
	}
	return m
}

// ToDomainTransaction rebuilds a domain TransactionRecord from its table row.
func ToDomainTransaction(m models.Transaction) (domain.TransactionRecord, error) {
	currency, err := domain.ParseCurrency(m.CurrencyCode)
	if err != nil {
		return domain.TransactionRecord{}, fmt.Errorf("transaction %s: %w", m.TransactionID, err)
	}
	amount, err := domain.NewMoney(m.Amount, currency)
	if err != nil {
		return domain.TransactionRecord{}, fmt.Errorf("transaction %s: %w", m.TransactionID, err)
	}
	fee, err := domain.NewMoney(m.Fee, currency)
	if err != nil {
		return domain.TransactionRecord{}, fmt.Errorf("transaction %s: %w", m.TransactionID, err)
	}

	d := domain.TransactionRecord{
		TransactionID:     m.TransactionID,
		PaymentRequestID:  m.PaymentRequestID,
		UserID:            m.UserID,
		WalletID:          m.WalletID,
		Amount:            amount,
		Fee:               fee,
		Direction:         domain.TransactionDirection(m.Direction),
		PaymentType:       domain.PaymentType(m.PaymentType),
		Status:            domain.PaymentStatus(m.Status),
		Confirmations:     m.Confirmations,
		MpesaReceipt:      m.MpesaReceipt,
		CheckoutRequestID: m.CheckoutRequestID,
		Notes:             m.Notes,
		AuditFields:       ToDomainAuditFields(m.AuditFields),
	}
	if m.Address != "" {
		network, err := domain.ParseNetwork(m.Network)
		if err != nil {
			return domain.TransactionRecord{}, fmt.Errorf("transaction %s: %w", m.TransactionID, err)
		}
		addr, err := domain.NewWalletAddress(network, m.Address)
		if err != nil {
			return domain.TransactionRecord{}, fmt.Errorf("transaction %s: %w", m.TransactionID, err)
		}
		d.Address = addr
	}
	if m.TxHash != "" {
		network, err := domain.ParseNetwork(m.Network)
		if err != nil {
			return domain.TransactionRecord{}, fmt.Errorf("transaction %s: %w", m.TransactionID, err)
		}
		hash, err := domain.NewTransactionHash(network, m.TxHash)
		if err != nil {
			return domain.TransactionRecord{}, fmt.Errorf("transaction %s: %w", m.TransactionID, err)
		}
		d.TxHash = hash
	}
	return d, nil
}

// ToDomainTransactionSlice converts a slice of rows, failing on the first bad row.
func ToDomainTransactionSlice(ms []models.Transaction) ([]domain.TransactionRecord, error) {
	ds := make([]domain.TransactionRecord, len(ms))
	for i, m := range ms {
		d, err := ToDomainTransaction(m)
		if err != nil {
			return nil, err
		}
		ds[i] = d
	}
	return ds, nil
}
