package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/pesabridge/pesabridge_backend/internal/apperrors"
	"github.com/pesabridge/pesabridge_backend/internal/core/domain"
	"github.com/pesabridge/pesabridge_backend/internal/core/ports/gateways"
	portsrepo "github.com/pesabridge/pesabridge_backend/internal/core/ports/repositories"
	portssvc "github.com/pesabridge/pesabridge_backend/internal/core/ports/services"
	"github.com/pesabridge/pesabridge_backend/internal/dto"
	"github.com/pesabridge/pesabridge_backend/internal/utils/settlement"
)

// PaymentService orchestrates crypto and M-Pesa payment flows: it validates
// the request into domain objects, talks to the matching gateway, records the
// payment request plus its transaction, and moves wallet balances as the
// payment settles.
type PaymentService struct {
	BaseService
	paymentRepo   portsrepo.PaymentRepositoryFacade
	walletRepo    portsrepo.WalletRepositoryFacade
	chains        map[domain.Network]gateways.BlockchainGateway
	mpesa         gateways.MpesaGateway
	feeSchedule   domain.FeeSchedule
	paymentExpiry time.Duration
}

// NewPaymentService creates a new PaymentService.
func NewPaymentService(
	paymentRepo portsrepo.PaymentRepositoryFacade,
	walletRepo portsrepo.WalletRepositoryFacade,
	chains map[domain.Network]gateways.BlockchainGateway,
	mpesa gateways.MpesaGateway,
	feeSchedule domain.FeeSchedule,
	paymentExpiry time.Duration,
) portssvc.PaymentSvcFacade {
	return &PaymentService{
		paymentRepo:   paymentRepo,
		walletRepo:    walletRepo,
		chains:        chains,
		mpesa:         mpesa,
		feeSchedule:   feeSchedule,
		paymentExpiry: paymentExpiry,
	}
}

// InitiateCryptoPayment starts a crypto deposit or withdrawal.
func (s *PaymentService) InitiateCryptoPayment(ctx context.Context, userID string, req dto.InitiateCryptoPaymentRequest) (*dto.PaymentResponse, error) {
	currency, err := domain.ParseCurrency(req.CurrencyCode)
	if err != nil {
		return nil, err
	}
	network, err := domain.ParseNetwork(req.Network)
	if err != nil {
		return nil, err
	}
	paymentType, err := domain.ParsePaymentType(req.PaymentType)
	if err != nil {
		return nil, err
	}
	if !paymentType.IsCrypto() {
		return nil, fmt.Errorf("%w: %s is not a crypto payment type", apperrors.ErrValidation, paymentType)
	}

	amount, err := domain.NewMoney(req.Amount, currency)
	if err != nil {
		return nil, err
	}

	request, err := domain.NewPaymentRequest(uuid.NewString(), userID, amount, paymentType, network, domain.PhoneNumber{}, req.Description, s.paymentExpiry)
	if err != nil {
		return nil, err
	}

	chain, ok := s.chains[network]
	if !ok {
		return nil, fmt.Errorf("%w: no gateway for network %s", apperrors.ErrValidation, network)
	}

	wallet, err := s.walletRepo.FindWalletByUserAndCurrency(ctx, userID, currency)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: no %s wallet, create one first", apperrors.ErrValidation, currency)
		}
		return nil, fmt.Errorf("failed to resolve wallet: %w", err)
	}

	fee, err := s.feeSchedule.ComputeFee(amount)
	if err != nil {
		return nil, err
	}

	switch paymentType {
	case domain.CryptoDeposit:
		return s.startCryptoDeposit(ctx, chain, wallet, request, fee)
	case domain.CryptoWithdrawal:
		return s.startCryptoWithdrawal(ctx, chain, wallet, request, fee, req.Address)
	}
	return nil, fmt.Errorf("%w: unsupported payment type %s", apperrors.ErrValidation, paymentType)
}

func (s *PaymentService) startCryptoDeposit(ctx context.Context, chain gateways.BlockchainGateway, wallet *domain.Wallet, request domain.PaymentRequest, fee domain.Money) (*dto.PaymentResponse, error) {
	// Reuse the wallet's deposit address when it matches the chain,
	// otherwise ask the gateway for a fresh one.
	address := wallet.Address
	if address.IsZero() || address.Network() != chain.Network() {
		var err error
		address, err = chain.GenerateDepositAddress(ctx, request.UserID)
		if err != nil {
			s.LogError(ctx, err, "failed to generate deposit address", slog.String("network", chain.Network().String()))
			return nil, fmt.Errorf("failed to generate deposit address: %w", err)
		}
	}

	if err := s.paymentRepo.SavePaymentRequest(ctx, request); err != nil {
		return nil, fmt.Errorf("failed to save payment request: %w", err)
	}

	txn := s.newTransaction(request, wallet.WalletID, fee, domain.DirectionCredit)
	txn.Address = address
	if err := s.paymentRepo.SaveTransaction(ctx, txn); err != nil {
		return nil, fmt.Errorf("failed to save deposit transaction: %w", err)
	}

	s.LogInfo(ctx, "crypto deposit initiated",
		slog.String("payment_request_id", request.PaymentRequestID),
		slog.String("network", chain.Network().String()),
		slog.String("amount", request.Amount.String()))

	resp := toPaymentResponse(&request, &txn)
	resp.DepositAddress = address.Value()
	resp.QRCodeData = depositQRData(address, request.Amount)
	resp.Instructions = fmt.Sprintf("Send exactly %s to %s on the %s network before %s.",
		request.Amount, address.Value(), chain.Network(), request.ExpiresAt.Format(time.RFC3339))
	return resp, nil
}

func (s *PaymentService) startCryptoWithdrawal(ctx context.Context, chain gateways.BlockchainGateway, wallet *domain.Wallet, request domain.PaymentRequest, fee domain.Money, rawAddress string) (*dto.PaymentResponse, error) {
	if rawAddress == "" {
		return nil, fmt.Errorf("%w: destination address is required for withdrawals", apperrors.ErrValidation)
	}
	destination, err := domain.NewWalletAddress(chain.Network(), rawAddress)
	if err != nil {
		return nil, err
	}

	total, err := request.Amount.Add(fee)
	if err != nil {
		return nil, err
	}
	covered, err := wallet.CanSend(total)
	if err != nil {
		return nil, err
	}
	if !covered {
		return nil, fmt.Errorf("%w: balance %s does not cover %s plus the %s fee", apperrors.ErrInvalidAmount, wallet.Balance, request.Amount, fee)
	}

	if err := request.TransitionTo(domain.PaymentProcessing); err != nil {
		return nil, err
	}
	if err := s.paymentRepo.SavePaymentRequest(ctx, request); err != nil {
		return nil, fmt.Errorf("failed to save payment request: %w", err)
	}

	hash, err := chain.Broadcast(ctx, destination, request.Amount)
	if err != nil {
		s.LogError(ctx, err, "broadcast failed", slog.String("payment_request_id", request.PaymentRequestID))
		if stErr := s.paymentRepo.UpdatePaymentRequestStatus(ctx, request.PaymentRequestID, domain.PaymentFailed); stErr != nil {
			s.LogError(ctx, stErr, "failed to mark payment request failed")
		}
		return nil, fmt.Errorf("failed to broadcast withdrawal: %w", err)
	}

	// Funds are reserved as soon as the transfer is on the wire.
	if err := s.walletRepo.UpdateBalance(ctx, wallet.WalletID, total.Neg(), request.UserID); err != nil {
		return nil, fmt.Errorf("failed to debit wallet: %w", err)
	}

	txn := s.newTransaction(request, wallet.WalletID, fee, domain.DirectionDebit)
	txn.Address = destination
	txn.TxHash = hash
	txn.Status = domain.PaymentConfirming
	if err := s.paymentRepo.SaveTransaction(ctx, txn); err != nil {
		return nil, fmt.Errorf("failed to save withdrawal transaction: %w", err)
	}
	if err := s.paymentRepo.UpdatePaymentRequestStatus(ctx, request.PaymentRequestID, domain.PaymentConfirming); err != nil {
		return nil, fmt.Errorf("failed to update payment request status: %w", err)
	}
	request.Status = domain.PaymentConfirming

	s.LogInfo(ctx, "crypto withdrawal broadcast",
		slog.String("payment_request_id", request.PaymentRequestID),
		slog.String("tx_hash", hash.Value()))

	resp := toPaymentResponse(&request, &txn)
	resp.TxHash = hash.Value()
	return resp, nil
}

// InitiateMpesaPayment starts an M-Pesa deposit (STK push) or withdrawal (B2C).
func (s *PaymentService) InitiateMpesaPayment(ctx context.Context, userID string, req dto.InitiateMpesaPaymentRequest) (*dto.PaymentResponse, error) {
	paymentType, err := domain.ParsePaymentType(req.PaymentType)
	if err != nil {
		return nil, err
	}
	if !paymentType.IsMpesa() {
		return nil, fmt.Errorf("%w: %s is not an M-Pesa payment type", apperrors.ErrValidation, paymentType)
	}
	phone, err := domain.NewPhoneNumber(req.PhoneNumber)
	if err != nil {
		return nil, err
	}
	amount, err := domain.NewMoney(req.Amount, domain.KES)
	if err != nil {
		return nil, err
	}

	request, err := domain.NewPaymentRequest(uuid.NewString(), userID, amount, paymentType, "", phone, req.Description, s.paymentExpiry)
	if err != nil {
		return nil, err
	}

	wallet, err := s.walletRepo.FindWalletByUserAndCurrency(ctx, userID, domain.KES)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: no KES wallet, create one first", apperrors.ErrValidation)
		}
		return nil, fmt.Errorf("failed to resolve wallet: %w", err)
	}

	fee, err := s.feeSchedule.ComputeFee(amount)
	if err != nil {
		return nil, err
	}

	if paymentType == domain.MpesaDeposit {
		return s.startMpesaDeposit(ctx, wallet, request, fee)
	}
	return s.startMpesaWithdrawal(ctx, wallet, request, fee)
}

func (s *PaymentService) startMpesaDeposit(ctx context.Context, wallet *domain.Wallet, request domain.PaymentRequest, fee domain.Money) (*dto.PaymentResponse, error) {
	result, err := s.mpesa.InitiateSTKPush(ctx, request.PhoneNumber, request.Amount, request.PaymentRequestID, request.Description)
	if err != nil {
		s.LogError(ctx, err, "stk push failed", slog.String("payment_request_id", request.PaymentRequestID))
		return nil, fmt.Errorf("failed to initiate STK push: %w", err)
	}
	if !result.Accepted() {
		return nil, fmt.Errorf("%w: STK push rejected: %s", apperrors.ErrValidation, result.CustomerMessage)
	}

	if err := request.TransitionTo(domain.PaymentProcessing); err != nil {
		return nil, err
	}
	if err := s.paymentRepo.SavePaymentRequest(ctx, request); err != nil {
		return nil, fmt.Errorf("failed to save payment request: %w", err)
	}

	txn := s.newTransaction(request, wallet.WalletID, fee, domain.DirectionCredit)
	txn.Status = domain.PaymentProcessing
	txn.CheckoutRequestID = result.CheckoutRequestID
	if err := s.paymentRepo.SaveTransaction(ctx, txn); err != nil {
		return nil, fmt.Errorf("failed to save deposit transaction: %w", err)
	}

	s.LogInfo(ctx, "mpesa deposit initiated",
		slog.String("payment_request_id", request.PaymentRequestID),
		slog.String("checkout_request_id", result.CheckoutRequestID))

	resp := toPaymentResponse(&request, &txn)
	resp.CheckoutRequestID = result.CheckoutRequestID
	resp.CustomerMessage = result.CustomerMessage
	return resp, nil
}

func (s *PaymentService) startMpesaWithdrawal(ctx context.Context, wallet *domain.Wallet, request domain.PaymentRequest, fee domain.Money) (*dto.PaymentResponse, error) {
	total, err := request.Amount.Add(fee)
	if err != nil {
		return nil, err
	}
	covered, err := wallet.CanSend(total)
	if err != nil {
		return nil, err
	}
	if !covered {
		return nil, fmt.Errorf("%w: balance %s does not cover %s plus the %s fee", apperrors.ErrInvalidAmount, wallet.Balance, request.Amount, fee)
	}

	result, err := s.mpesa.SendB2C(ctx, request.PhoneNumber, request.Amount, request.Description)
	if err != nil {
		s.LogError(ctx, err, "b2c payout failed", slog.String("payment_request_id", request.PaymentRequestID))
		return nil, fmt.Errorf("failed to initiate B2C payout: %w", err)
	}
	if !result.Accepted() {
		return nil, fmt.Errorf("%w: B2C payout rejected: %s", apperrors.ErrValidation, result.CustomerMessage)
	}

	if err := request.TransitionTo(domain.PaymentProcessing); err != nil {
		return nil, err
	}
	if err := s.paymentRepo.SavePaymentRequest(ctx, request); err != nil {
		return nil, fmt.Errorf("failed to save payment request: %w", err)
	}

	// Funds are reserved up front; a failed payout callback refunds them.
	if err := s.walletRepo.UpdateBalance(ctx, wallet.WalletID, total.Neg(), request.UserID); err != nil {
		return nil, fmt.Errorf("failed to debit wallet: %w", err)
	}

	txn := s.newTransaction(request, wallet.WalletID, fee, domain.DirectionDebit)
	txn.Status = domain.PaymentProcessing
	txn.CheckoutRequestID = result.CheckoutRequestID
	if err := s.paymentRepo.SaveTransaction(ctx, txn); err != nil {
		return nil, fmt.Errorf("failed to save withdrawal transaction: %w", err)
	}

	s.LogInfo(ctx, "mpesa withdrawal initiated",
		slog.String("payment_request_id", request.PaymentRequestID),
		slog.String("checkout_request_id", result.CheckoutRequestID))

	resp := toPaymentResponse(&request, &txn)
	resp.CheckoutRequestID = result.CheckoutRequestID
	resp.CustomerMessage = result.CustomerMessage
	return resp, nil
}

// GetPaymentStatus retrieves the current state of a payment request, expiring
// it first if its window has lapsed.
func (s *PaymentService) GetPaymentStatus(ctx context.Context, userID, paymentRequestID string) (*domain.PaymentRequest, error) {
	request, err := s.paymentRepo.FindPaymentRequestByID(ctx, paymentRequestID)
	if err != nil {
		return nil, fmt.Errorf("failed to get payment request in service: %w", err)
	}
	if request.UserID != userID {
		return nil, fmt.Errorf("%w: payment %s does not belong to the caller", apperrors.ErrForbidden, paymentRequestID)
	}

	if request.Status == domain.PaymentPending && request.IsExpired() {
		if err := request.TransitionTo(domain.PaymentExpired); err != nil {
			return nil, err
		}
		if err := s.paymentRepo.UpdatePaymentRequestStatus(ctx, paymentRequestID, domain.PaymentExpired); err != nil {
			return nil, fmt.Errorf("failed to expire payment request: %w", err)
		}
	}
	return request, nil
}

// ProcessMpesaCallback applies an M-Pesa result callback to its transaction.
// Callbacks for already settled transactions are ignored.
func (s *PaymentService) ProcessMpesaCallback(ctx context.Context, req dto.MpesaCallbackRequest) error {
	txn, err := s.paymentRepo.FindTransactionByCheckoutRequestID(ctx, req.CheckoutRequestID)
	if err != nil {
		return fmt.Errorf("failed to resolve callback transaction: %w", err)
	}
	if txn.Status.IsTerminal() {
		s.LogDebug(ctx, "callback for settled transaction ignored",
			slog.String("checkout_request_id", req.CheckoutRequestID))
		return nil
	}

	if req.ResultCode != "0" {
		if err := s.paymentRepo.UpdateTransactionStatus(ctx, txn.TransactionID, domain.PaymentFailed, domain.TransactionHash{}, ""); err != nil {
			return fmt.Errorf("failed to mark transaction failed: %w", err)
		}
		if err := s.paymentRepo.UpdatePaymentRequestStatus(ctx, txn.PaymentRequestID, domain.PaymentFailed); err != nil {
			return fmt.Errorf("failed to mark payment request failed: %w", err)
		}
		// Withdrawals reserved their funds at initiation; give them back.
		refund, refundErr := settlement.FailureDelta(*txn)
		if refundErr != nil {
			return refundErr
		}
		if !refund.IsZero() {
			if err := s.walletRepo.UpdateBalance(ctx, txn.WalletID, refund, txn.UserID); err != nil {
				return fmt.Errorf("failed to refund wallet after failed payout: %w", err)
			}
		}
		s.LogInfo(ctx, "mpesa payment failed",
			slog.String("transaction_id", txn.TransactionID),
			slog.String("result_desc", req.ResultDesc))
		return nil
	}

	if err := s.paymentRepo.UpdateTransactionStatus(ctx, txn.TransactionID, domain.PaymentCompleted, domain.TransactionHash{}, req.MpesaReceipt); err != nil {
		return fmt.Errorf("failed to mark transaction completed: %w", err)
	}
	if err := s.paymentRepo.UpdatePaymentRequestStatus(ctx, txn.PaymentRequestID, domain.PaymentCompleted); err != nil {
		return fmt.Errorf("failed to mark payment request completed: %w", err)
	}
	// Deposits credit the wallet net of the platform fee.
	delta, deltaErr := settlement.SettledDelta(*txn)
	if deltaErr != nil {
		return deltaErr
	}
	if !delta.IsZero() {
		if err := s.walletRepo.UpdateBalance(ctx, txn.WalletID, delta, txn.UserID); err != nil {
			return fmt.Errorf("failed to credit wallet after deposit: %w", err)
		}
	}
	s.LogInfo(ctx, "mpesa payment completed",
		slog.String("transaction_id", txn.TransactionID),
		slog.String("mpesa_receipt", req.MpesaReceipt))
	return nil
}

// RecordConfirmations refreshes the confirmation count for a confirming
// crypto transaction and completes it once the network's threshold is met.
func (s *PaymentService) RecordConfirmations(ctx context.Context, transactionID string) (*domain.TransactionRecord, error) {
	txn, err := s.paymentRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction in service: %w", err)
	}
	if txn.Status.IsTerminal() || txn.TxHash.IsZero() {
		return txn, nil
	}

	network := txn.TxHash.Network()
	chain, ok := s.chains[network]
	if !ok {
		return nil, fmt.Errorf("%w: no gateway for network %s", apperrors.ErrValidation, network)
	}

	confirmations, err := chain.Confirmations(ctx, txn.TxHash)
	if err != nil {
		return nil, fmt.Errorf("failed to poll confirmations: %w", err)
	}
	if confirmations != txn.Confirmations {
		if err := s.paymentRepo.UpdateTransactionConfirmations(ctx, transactionID, confirmations); err != nil {
			return nil, fmt.Errorf("failed to record confirmations: %w", err)
		}
		txn.Confirmations = confirmations
	}

	if confirmations >= network.RequiredConfirmations() {
		if err := s.paymentRepo.UpdateTransactionStatus(ctx, transactionID, domain.PaymentCompleted, txn.TxHash, ""); err != nil {
			return nil, fmt.Errorf("failed to complete transaction: %w", err)
		}
		if err := s.paymentRepo.UpdatePaymentRequestStatus(ctx, txn.PaymentRequestID, domain.PaymentCompleted); err != nil {
			return nil, fmt.Errorf("failed to complete payment request: %w", err)
		}
		delta, deltaErr := settlement.SettledDelta(*txn)
		if deltaErr != nil {
			return nil, deltaErr
		}
		if !delta.IsZero() {
			if err := s.walletRepo.UpdateBalance(ctx, txn.WalletID, delta, txn.UserID); err != nil {
				return nil, fmt.Errorf("failed to credit wallet after deposit: %w", err)
			}
		}
		txn.Status = domain.PaymentCompleted
		s.LogInfo(ctx, "crypto payment settled",
			slog.String("transaction_id", transactionID),
			slog.Int("confirmations", confirmations))
	}

	return txn, nil
}

// ListTransactions returns a page of the user's transaction history.
func (s *PaymentService) ListTransactions(ctx context.Context, userID string, limit int, nextToken string) ([]domain.TransactionRecord, string, error) {
	txns, token, err := s.paymentRepo.ListTransactionsByUser(ctx, userID, limit, nextToken)
	if err != nil {
		return nil, "", fmt.Errorf("failed to list transactions in service: %w", err)
	}
	return txns, token, nil
}

// ExpireStalePayments transitions pending requests past their expiry.
func (s *PaymentService) ExpireStalePayments(ctx context.Context, limit int) (int, error) {
	stale, err := s.paymentRepo.FindPendingBefore(ctx, time.Now().UTC(), limit)
	if err != nil {
		return 0, fmt.Errorf("failed to list stale payment requests: %w", err)
	}

	expired := 0
	for i := range stale {
		if err := s.paymentRepo.UpdatePaymentRequestStatus(ctx, stale[i].PaymentRequestID, domain.PaymentExpired); err != nil {
			s.LogError(ctx, err, "failed to expire payment request",
				slog.String("payment_request_id", stale[i].PaymentRequestID))
			continue
		}
		expired++
	}
	if expired > 0 {
		s.LogInfo(ctx, "expired stale payment requests", slog.Int("count", expired))
	}
	return expired, nil
}

func (s *PaymentService) newTransaction(request domain.PaymentRequest, walletID string, fee domain.Money, direction domain.TransactionDirection) domain.TransactionRecord {
	now := time.Now()
	return domain.TransactionRecord{
		TransactionID:    uuid.NewString(),
		PaymentRequestID: request.PaymentRequestID,
		UserID:           request.UserID,
		WalletID:         walletID,
		Amount:           request.Amount,
		Fee:              fee,
		Direction:        direction,
		PaymentType:      request.PaymentType,
		Status:           request.Status,
		Notes:            request.Description,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     request.UserID,
			LastUpdatedAt: now,
			LastUpdatedBy: request.UserID,
		},
	}
}

func toPaymentResponse(request *domain.PaymentRequest, txn *domain.TransactionRecord) *dto.PaymentResponse {
	return &dto.PaymentResponse{
		PaymentRequestID: request.PaymentRequestID,
		TransactionID:    txn.TransactionID,
		PaymentType:      string(request.PaymentType),
		Status:           string(request.Status),
		Amount:           request.Amount.Amount(),
		CurrencyCode:     string(request.Amount.Currency()),
		Fee:              txn.Fee.Amount(),
		Network:          string(request.Network),
		CreatedAt:        request.CreatedAt,
		ExpiresAt:        request.ExpiresAt,
	}
}

// depositQRData builds the payload a wallet app scans to prefill the
// transfer: a BIP-21 URI for bitcoin, the bare address elsewhere.
func depositQRData(address domain.WalletAddress, amount domain.Money) string {
	if address.Network() == domain.NetworkBitcoin {
		return fmt.Sprintf("bitcoin:%s?amount=%s", address.Value(), amount.StringFixed())
	}
	return address.Value()
}
