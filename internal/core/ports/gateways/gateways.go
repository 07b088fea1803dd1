package gateways

import (
	"context"

	"github.com/pesabridge/pesabridge_backend/internal/core/domain"
)

// BlockchainGateway abstracts per-network chain access: deposit address
// issuance, fee estimation, broadcasting and confirmation polling. The
// in-tree adapters are simulated; real node/RPC integration is out of scope.
type BlockchainGateway interface {
	// Network returns the chain this gateway serves.
	Network() domain.Network

	// GenerateDepositAddress issues a deposit address for a user.
	GenerateDepositAddress(ctx context.Context, userID string) (domain.WalletAddress, error)

	// EstimateFee estimates the network fee for a standard transfer,
	// denominated in the network's settlement currency.
	EstimateFee(ctx context.Context, amount domain.Money) (domain.Money, error)

	// Broadcast submits a transfer and returns its transaction hash.
	Broadcast(ctx context.Context, to domain.WalletAddress, amount domain.Money) (domain.TransactionHash, error)

	// Confirmations returns the current confirmation count for a hash.
	Confirmations(ctx context.Context, hash domain.TransactionHash) (int, error)
}

// STKPushResult is the acknowledgement returned when an M-Pesa STK push is accepted.
type STKPushResult struct {
	MerchantRequestID string
	CheckoutRequestID string
	ResponseCode      string
	CustomerMessage   string
}

// Accepted reports whether Safaricom accepted the request for processing.
func (r STKPushResult) Accepted() bool {
	return r.ResponseCode == "0"
}

// STKQueryResult is the outcome of querying an STK push transaction.
type STKQueryResult struct {
	CheckoutRequestID string
	ResultCode        string
	ResultDesc        string
	MpesaReceipt      string
}

// Succeeded reports whether the customer completed the payment.
func (r STKQueryResult) Succeeded() bool {
	return r.ResultCode == "0"
}

// MpesaGateway abstracts the Daraja API surface the payment flows need.
// The in-tree adapter is simulated; real Daraja wire calls are out of scope.
type MpesaGateway interface {
	// InitiateSTKPush asks the customer's phone to authorize a deposit.
	InitiateSTKPush(ctx context.Context, phone domain.PhoneNumber, amount domain.Money, accountReference, description string) (STKPushResult, error)

	// QuerySTKStatus checks the outcome of a previously initiated push.
	QuerySTKStatus(ctx context.Context, checkoutRequestID string) (STKQueryResult, error)

	// SendB2C pays out a withdrawal to the customer's phone.
	SendB2C(ctx context.Context, phone domain.PhoneNumber, amount domain.Money, description string) (STKPushResult, error)
}
