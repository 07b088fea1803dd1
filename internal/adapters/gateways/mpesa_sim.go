package gateways

import (
	"context"
	"crypto/sha256"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pesabridge/pesabridge_backend/internal/apperrors"
	"github.com/pesabridge/pesabridge_backend/internal/core/domain"
	portsgw "github.com/pesabridge/pesabridge_backend/internal/core/ports/gateways"
)

const receiptCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// SimulatedMpesaGateway fakes the Daraja API in memory. Every push and payout
// is accepted; outcomes are settled when the status is queried, so the caller
// still exercises the full callback path.
type SimulatedMpesaGateway struct {
	shortcode string

	mu     sync.Mutex
	pushes map[string]stkPush
}

type stkPush struct {
	phone     domain.PhoneNumber
	amount    domain.Money
	reference string
	createdAt time.Time
}

// NewSimulatedMpesaGateway creates a simulated gateway for the given paybill shortcode.
func NewSimulatedMpesaGateway(shortcode string) portsgw.MpesaGateway {
	return &SimulatedMpesaGateway{
		shortcode: shortcode,
		pushes:    make(map[string]stkPush),
	}
}

// InitiateSTKPush accepts the push and hands back a checkout request ID in the
// Daraja ws_CO format.
func (g *SimulatedMpesaGateway) InitiateSTKPush(_ context.Context, phone domain.PhoneNumber, amount domain.Money, accountReference, _ string) (portsgw.STKPushResult, error) {
	if err := g.checkPayment(phone, amount); err != nil {
		return portsgw.STKPushResult{}, err
	}

	checkoutRequestID := newCheckoutRequestID()
	g.mu.Lock()
	g.pushes[checkoutRequestID] = stkPush{
		phone:     phone,
		amount:    amount,
		reference: accountReference,
		createdAt: time.Now(),
	}
	g.mu.Unlock()

	return portsgw.STKPushResult{
		MerchantRequestID: uuid.NewString(),
		CheckoutRequestID: checkoutRequestID,
		ResponseCode:      "0",
		CustomerMessage:   "Success. Request accepted for processing",
	}, nil
}

// QuerySTKStatus settles any known push as paid and returns its receipt.
func (g *SimulatedMpesaGateway) QuerySTKStatus(_ context.Context, checkoutRequestID string) (portsgw.STKQueryResult, error) {
	g.mu.Lock()
	push, ok := g.pushes[checkoutRequestID]
	g.mu.Unlock()
	if !ok {
		return portsgw.STKQueryResult{
			CheckoutRequestID: checkoutRequestID,
			ResultCode:        "1",
			ResultDesc:        "The transaction could not be found",
		}, nil
	}

	return portsgw.STKQueryResult{
		CheckoutRequestID: checkoutRequestID,
		ResultCode:        "0",
		ResultDesc:        "The service request is processed successfully.",
		MpesaReceipt:      newMpesaReceipt(checkoutRequestID, push),
	}, nil
}

// SendB2C accepts the payout immediately. The result reuses the STK push
// acknowledgement shape so payouts follow the same callback path as deposits.
func (g *SimulatedMpesaGateway) SendB2C(_ context.Context, phone domain.PhoneNumber, amount domain.Money, _ string) (portsgw.STKPushResult, error) {
	if err := g.checkPayment(phone, amount); err != nil {
		return portsgw.STKPushResult{}, err
	}

	checkoutRequestID := newCheckoutRequestID()
	g.mu.Lock()
	g.pushes[checkoutRequestID] = stkPush{phone: phone, amount: amount, createdAt: time.Now()}
	g.mu.Unlock()

	return portsgw.STKPushResult{
		MerchantRequestID: uuid.NewString(),
		CheckoutRequestID: checkoutRequestID,
		ResponseCode:      "0",
		CustomerMessage:   "Accept the service request successfully.",
	}, nil
}

func (g *SimulatedMpesaGateway) checkPayment(phone domain.PhoneNumber, amount domain.Money) error {
	if phone.IsZero() {
		return fmt.Errorf("%w: phone number is required", apperrors.ErrInvalidPhoneNumber)
	}
	if amount.Currency() != domain.KES {
		return fmt.Errorf("%w: M-Pesa only moves KES, got %s", apperrors.ErrCurrencyMismatch, amount.Currency())
	}
	if !amount.IsPositive() {
		return fmt.Errorf("%w: amount must be positive, got %s", apperrors.ErrInvalidAmount, amount)
	}
	return nil
}

func newCheckoutRequestID() string {
	stamp := time.Now().Format("02012006150405")
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:6]
	return fmt.Sprintf("ws_CO_%s%s", stamp, suffix)
}

// newMpesaReceipt derives a stable ten character receipt for a settled push.
func newMpesaReceipt(checkoutRequestID string, push stkPush) string {
	digest := sha256.Sum256([]byte(checkoutRequestID + push.phone.International() + push.amount.String()))
	out := make([]byte, 10)
	for i := range out {
		out[i] = receiptCharset[int(digest[i])%len(receiptCharset)]
	}
	return string(out)
}
