package domain

import (
	"fmt"
	"time"

	"github.com/pesabridge/pesabridge_backend/internal/apperrors"
)

// PaymentType defines the kind of payment operation being requested.
type PaymentType string

const (
	CryptoDeposit    PaymentType = "crypto_deposit"
	CryptoWithdrawal PaymentType = "crypto_withdrawal"
	MpesaDeposit     PaymentType = "mpesa_deposit"
	MpesaWithdrawal  PaymentType = "mpesa_withdrawal"
	Exchange         PaymentType = "exchange" // crypto<->fiat or crypto<->crypto
)

// IsCrypto reports whether the payment settles on a blockchain.
func (t PaymentType) IsCrypto() bool {
	return t == CryptoDeposit || t == CryptoWithdrawal
}

// IsMpesa reports whether the payment moves through M-Pesa.
func (t PaymentType) IsMpesa() bool {
	return t == MpesaDeposit || t == MpesaWithdrawal
}

// ParsePaymentType converts a raw string into a PaymentType.
func ParsePaymentType(raw string) (PaymentType, error) {
	t := PaymentType(raw)
	switch t {
	case CryptoDeposit, CryptoWithdrawal, MpesaDeposit, MpesaWithdrawal, Exchange:
		return t, nil
	}
	return "", fmt.Errorf("%w: unsupported payment type %q", apperrors.ErrValidation, raw)
}

// PaymentStatus tracks a payment request through its lifecycle.
type PaymentStatus string

const (
	PaymentPending    PaymentStatus = "pending"
	PaymentProcessing PaymentStatus = "processing"
	PaymentConfirming PaymentStatus = "confirming" // crypto awaiting confirmations
	PaymentCompleted  PaymentStatus = "completed"
	PaymentFailed     PaymentStatus = "failed"
	PaymentCancelled  PaymentStatus = "cancelled"
	PaymentExpired    PaymentStatus = "expired"
)

// IsTerminal reports whether the status admits no further transitions.
func (s PaymentStatus) IsTerminal() bool {
	switch s {
	case PaymentCompleted, PaymentFailed, PaymentCancelled, PaymentExpired:
		return true
	}
	return false
}

// DefaultPaymentExpiry is how long a pending payment request stays actionable.
const DefaultPaymentExpiry = 30 * time.Minute

// PaymentRequest captures a user's intent to move value: a crypto deposit or
// withdrawal, an M-Pesa deposit or withdrawal, or an exchange. The amount,
// network and phone number are validated value objects; the request itself
// carries identity and status.
type PaymentRequest struct {
	PaymentRequestID string        `json:"paymentRequestID"` // Primary Key (UUID)
	UserID           string        `json:"userID"`
	Amount           Money         `json:"-"`
	PaymentType      PaymentType   `json:"paymentType"`
	Network          Network       `json:"network,omitempty"`     // crypto payments only
	PhoneNumber      PhoneNumber   `json:"phoneNumber,omitempty"` // M-Pesa payments only
	Description      string        `json:"description,omitempty"`
	Status           PaymentStatus `json:"status"`
	CreatedAt        time.Time     `json:"createdAt"`
	ExpiresAt        time.Time     `json:"expiresAt"`
}

// NewPaymentRequest validates the cross-field rules and constructs a pending
// request expiring after the given duration (DefaultPaymentExpiry if zero):
//   - crypto payments need a network that carries the amount's currency;
//   - M-Pesa payments need a phone number and must be in KES.
func NewPaymentRequest(id, userID string, amount Money, paymentType PaymentType, network Network, phone PhoneNumber, description string, expiresIn time.Duration) (PaymentRequest, error) {
	if !amount.IsPositive() {
		return PaymentRequest{}, fmt.Errorf("%w: payment amount must be positive, got %s", apperrors.ErrInvalidAmount, amount)
	}

	switch {
	case paymentType.IsCrypto():
		if !network.IsValid() {
			return PaymentRequest{}, fmt.Errorf("%w: network is required for crypto payments", apperrors.ErrValidation)
		}
		if !network.SupportsCurrency(amount.Currency()) {
			return PaymentRequest{}, fmt.Errorf("%w: %s does not settle on %s", apperrors.ErrValidation, amount.Currency(), network)
		}
	case paymentType.IsMpesa():
		if phone.IsZero() {
			return PaymentRequest{}, fmt.Errorf("%w: phone number is required for M-Pesa payments", apperrors.ErrValidation)
		}
		if amount.Currency() != KES {
			return PaymentRequest{}, fmt.Errorf("%w: M-Pesa payments must be in KES, got %s", apperrors.ErrValidation, amount.Currency())
		}
	case paymentType == Exchange:
		// no extra fields required; the service resolves the rate
	default:
		return PaymentRequest{}, fmt.Errorf("%w: unsupported payment type %q", apperrors.ErrValidation, string(paymentType))
	}

	if expiresIn <= 0 {
		expiresIn = DefaultPaymentExpiry
	}
	now := time.Now().UTC()
	return PaymentRequest{
		PaymentRequestID: id,
		UserID:           userID,
		Amount:           amount,
		PaymentType:      paymentType,
		Network:          network,
		PhoneNumber:      phone,
		Description:      description,
		Status:           PaymentPending,
		CreatedAt:        now,
		ExpiresAt:        now.Add(expiresIn),
	}, nil
}

// IsExpired reports whether the request is past its expiry.
func (p *PaymentRequest) IsExpired() bool {
	return time.Now().UTC().After(p.ExpiresAt)
}

// TransitionTo moves the request to a new status, rejecting transitions out of
// terminal states.
func (p *PaymentRequest) TransitionTo(next PaymentStatus) error {
	if p.Status.IsTerminal() {
		return fmt.Errorf("%w: payment %s is already %s", apperrors.ErrValidation, p.PaymentRequestID, p.Status)
	}
	p.Status = next
	return nil
}
