package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/pesabridge/pesabridge_backend/internal/apperrors"
	portssvc "github.com/pesabridge/pesabridge_backend/internal/core/ports/services"
	"github.com/pesabridge/pesabridge_backend/internal/dto"
	"github.com/pesabridge/pesabridge_backend/internal/middleware"
)

// paymentHandler handles HTTP requests related to payments and transactions.
type paymentHandler struct {
	paymentService portssvc.PaymentSvcFacade
}

func newPaymentHandler(ps portssvc.PaymentSvcFacade) *paymentHandler {
	return &paymentHandler{paymentService: ps}
}

// RegisterPaymentRoutes registers the authenticated payment routes.
func RegisterPaymentRoutes(rg *gin.RouterGroup, paymentService portssvc.PaymentSvcFacade) {
	h := newPaymentHandler(paymentService)

	payments := rg.Group("/payments")
	{
		payments.POST("/crypto", h.initiateCryptoPayment)
		payments.POST("/mpesa", h.initiateMpesaPayment)
		payments.GET("/:payment_request_id", h.getPaymentStatus)
	}

	transactions := rg.Group("/transactions")
	{
		transactions.GET("", h.listTransactions)
		transactions.POST("/:transaction_id/confirmations", h.refreshConfirmations)
	}
}

// registerMpesaCallbackRoute registers the Daraja result callback. It is
// registered outside the auth middleware; Daraja does not hold user tokens.
func registerMpesaCallbackRoute(r *gin.Engine, paymentService portssvc.PaymentSvcFacade) {
	h := newPaymentHandler(paymentService)
	r.POST("/api/v1/payments/mpesa/callback", h.mpesaCallback)
}

// writePaymentError maps service errors onto HTTP statuses shared by the
// payment endpoints.
func writePaymentError(c *gin.Context, logger *slog.Logger, err error, action string) {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Payment not found"})
	case errors.Is(err, apperrors.ErrForbidden):
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "Payment belongs to another user"})
	case errors.Is(err, apperrors.ErrValidation),
		errors.Is(err, apperrors.ErrInvalidAmount),
		errors.Is(err, apperrors.ErrCurrencyMismatch),
		errors.Is(err, apperrors.ErrInvalidAddress),
		errors.Is(err, apperrors.ErrInvalidPhoneNumber):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	default:
		logger.Error("Payment operation failed", slog.String("action", action), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to " + action})
	}
}

// initiateCryptoPayment godoc
// @Summary Initiate a crypto payment
// @Description Starts a crypto deposit (returns the wallet's deposit address and QR data) or a crypto withdrawal (broadcasts to the network and debits the wallet).
// @Tags payments
// @Accept json
// @Produce json
// @Param payment body dto.InitiateCryptoPaymentRequest true "Payment details"
// @Success 201 {object} dto.PaymentResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /payments/crypto [post]
func (h *paymentHandler) initiateCryptoPayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.InitiateCryptoPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	resp, err := h.paymentService.InitiateCryptoPayment(c.Request.Context(), userID, req)
	if err != nil {
		writePaymentError(c, logger, err, "initiate crypto payment")
		return
	}

	logger.Info("Crypto payment initiated",
		slog.String("payment_request_id", resp.PaymentRequestID),
		slog.String("payment_type", resp.PaymentType),
		slog.String("network", resp.Network),
	)
	c.JSON(http.StatusCreated, resp)
}

// initiateMpesaPayment godoc
// @Summary Initiate an M-Pesa payment
// @Description Starts an M-Pesa deposit (STK push to the user's phone) or withdrawal (B2C payout). All M-Pesa payments are in KES.
// @Tags payments
// @Accept json
// @Produce json
// @Param payment body dto.InitiateMpesaPaymentRequest true "Payment details"
// @Success 201 {object} dto.PaymentResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /payments/mpesa [post]
func (h *paymentHandler) initiateMpesaPayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.InitiateMpesaPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	resp, err := h.paymentService.InitiateMpesaPayment(c.Request.Context(), userID, req)
	if err != nil {
		writePaymentError(c, logger, err, "initiate M-Pesa payment")
		return
	}

	logger.Info("M-Pesa payment initiated",
		slog.String("payment_request_id", resp.PaymentRequestID),
		slog.String("payment_type", resp.PaymentType),
		slog.String("checkout_request_id", resp.CheckoutRequestID),
	)
	c.JSON(http.StatusCreated, resp)
}

// getPaymentStatus godoc
// @Summary Get payment status
// @Description Retrieves the current state of a payment request. A pending request past its expiry is reported (and persisted) as expired.
// @Tags payments
// @Produce json
// @Param payment_request_id path string true "Payment Request ID"
// @Success 200 {object} dto.PaymentResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /payments/{payment_request_id} [get]
func (h *paymentHandler) getPaymentStatus(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	paymentRequestID := c.Param("payment_request_id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	request, err := h.paymentService.GetPaymentStatus(c.Request.Context(), userID, paymentRequestID)
	if err != nil {
		writePaymentError(c, logger, err, "get payment status")
		return
	}

	c.JSON(http.StatusOK, dto.ToPaymentStatusResponse(request))
}

// mpesaCallback godoc
// @Summary M-Pesa result callback
// @Description Applies a Daraja STK push result to its transaction. Terminal transactions are left untouched, so redelivered callbacks are safe.
// @Tags payments
// @Accept json
// @Produce json
// @Param callback body dto.MpesaCallbackRequest true "Callback payload"
// @Success 200 {object} map[string]string
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /payments/mpesa/callback [post]
func (h *paymentHandler) mpesaCallback(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.MpesaCallbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	if err := h.paymentService.ProcessMpesaCallback(c.Request.Context(), req); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Unknown checkout request"})
			return
		}
		logger.Error("Failed to process M-Pesa callback",
			slog.String("checkout_request_id", req.CheckoutRequestID),
			slog.String("error", err.Error()),
		)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to process callback"})
		return
	}

	// Daraja expects a zero result code acknowledgement.
	c.JSON(http.StatusOK, gin.H{"ResultCode": "0", "ResultDesc": "Accepted"})
}

// refreshConfirmations godoc
// @Summary Refresh crypto confirmations
// @Description Polls the network gateway for the transaction's confirmation count. The transaction completes once its network's threshold is reached.
// @Tags transactions
// @Produce json
// @Param transaction_id path string true "Transaction ID"
// @Success 200 {object} dto.TransactionResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /transactions/{transaction_id}/confirmations [post]
func (h *paymentHandler) refreshConfirmations(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	transactionID := c.Param("transaction_id")

	txn, err := h.paymentService.RecordConfirmations(c.Request.Context(), transactionID)
	if err != nil {
		writePaymentError(c, logger, err, "refresh confirmations")
		return
	}

	c.JSON(http.StatusOK, dto.ToTransactionResponse(txn))
}

// listTransactions godoc
// @Summary List transactions
// @Description Retrieves a page of the authenticated user's transaction history, newest first.
// @Tags transactions
// @Produce json
// @Param limit query int false "Page size" default(20)
// @Param nextToken query string false "Opaque cursor from the previous page"
// @Success 200 {object} dto.ListTransactionsResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /transactions [get]
func (h *paymentHandler) listTransactions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	limit := 20
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid limit"})
			return
		}
		limit = parsed
	}

	txns, nextToken, err := h.paymentService.ListTransactions(c.Request.Context(), userID, limit, c.Query("nextToken"))
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid nextToken"})
			return
		}
		logger.Error("Failed to list transactions", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to list transactions"})
		return
	}

	c.JSON(http.StatusOK, dto.ToListTransactionsResponse(txns, nextToken))
}
