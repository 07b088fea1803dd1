package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/pesabridge/pesabridge_backend/internal/apperrors"
	"github.com/pesabridge/pesabridge_backend/internal/core/domain"
	portssvc "github.com/pesabridge/pesabridge_backend/internal/core/ports/services"
	"github.com/pesabridge/pesabridge_backend/internal/dto"
	"github.com/pesabridge/pesabridge_backend/internal/handlers"
	"github.com/pesabridge/pesabridge_backend/internal/middleware"
)

// --- Mock PaymentService ---
type MockPaymentService struct {
	mock.Mock
}

func (m *MockPaymentService) GetPaymentStatus(ctx context.Context, userID, paymentRequestID string) (*domain.PaymentRequest, error) {
	args := m.Called(ctx, userID, paymentRequestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PaymentRequest), args.Error(1)
}
func (m *MockPaymentService) ListTransactions(ctx context.Context, userID string, limit int, nextToken string) ([]domain.TransactionRecord, string, error) {
	args := m.Called(ctx, userID, limit, nextToken)
	if args.Get(0) == nil {
		return nil, "", args.Error(2)
	}
	return args.Get(0).([]domain.TransactionRecord), args.String(1), args.Error(2)
}
func (m *MockPaymentService) InitiateCryptoPayment(ctx context.Context, userID string, req dto.InitiateCryptoPaymentRequest) (*dto.PaymentResponse, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.PaymentResponse), args.Error(1)
}
func (m *MockPaymentService) InitiateMpesaPayment(ctx context.Context, userID string, req dto.InitiateMpesaPaymentRequest) (*dto.PaymentResponse, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.PaymentResponse), args.Error(1)
}
func (m *MockPaymentService) ProcessMpesaCallback(ctx context.Context, req dto.MpesaCallbackRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}
func (m *MockPaymentService) RecordConfirmations(ctx context.Context, transactionID string) (*domain.TransactionRecord, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TransactionRecord), args.Error(1)
}
func (m *MockPaymentService) ExpireStalePayments(ctx context.Context, limit int) (int, error) {
	args := m.Called(ctx, limit)
	return args.Int(0), args.Error(1)
}

// Ensure mock implements the interface
var _ portssvc.PaymentSvcFacade = (*MockPaymentService)(nil)

// --- Test Suite ---
type PaymentHandlerTestSuite struct {
	suite.Suite
	router             *gin.Engine
	mockPaymentService *MockPaymentService
	jwtSecret          string
}

// generateTestToken creates a dummy JWT for testing.
func (suite *PaymentHandlerTestSuite) generateTestToken(userID string) string {
	claims := jwt.RegisteredClaims{
		Issuer:    "pesabridge-test",
		Subject:   userID,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(1 * time.Hour)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tsignedString, err := token.SignedString([]byte(suite.jwtSecret))
	if err != nil {
		suite.FailNow("Failed to sign test token", err.Error())
	}
	return tsignedString
}

func (suite *PaymentHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	handlers.RegisterCustomValidators()
	suite.router = gin.New()
	suite.jwtSecret = "test-secret-key-that-is-long-enough"

	suite.router.Use(middleware.AuthMiddleware(suite.jwtSecret))

	suite.mockPaymentService = new(MockPaymentService)

	v1 := suite.router.Group("/api/v1")
	handlers.RegisterPaymentRoutes(v1, suite.mockPaymentService)
}

func (suite *PaymentHandlerTestSuite) doRequest(method, url, token string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		suite.Require().NoError(err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, url, reader)
	suite.Require().NoError(err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

// --- Test Cases ---

func (suite *PaymentHandlerTestSuite) TestInitiateCryptoPayment_Success() {
	userID := uuid.NewString()
	reqBody := dto.InitiateCryptoPaymentRequest{
		Amount:       decimal.RequireFromString("0.005"),
		CurrencyCode: "BTC",
		Network:      "bitcoin",
		PaymentType:  "crypto_deposit",
	}
	expected := &dto.PaymentResponse{
		PaymentRequestID: uuid.NewString(),
		PaymentType:      "crypto_deposit",
		Status:           "pending",
		Amount:           reqBody.Amount,
		CurrencyCode:     "BTC",
		Network:          "bitcoin",
		DepositAddress:   "bc1qar0srrr7xfkvy5l643lydnw9re59gtzzwf5mdq",
		CreatedAt:        time.Now().UTC(),
		ExpiresAt:        time.Now().UTC().Add(30 * time.Minute),
	}

	suite.mockPaymentService.On("InitiateCryptoPayment",
		mock.Anything,
		userID,
		mock.MatchedBy(func(r dto.InitiateCryptoPaymentRequest) bool {
			return r.PaymentType == "crypto_deposit" && r.Network == "bitcoin"
		}),
	).Return(expected, nil).Once()

	w := suite.doRequest(http.MethodPost, "/api/v1/payments/crypto", suite.generateTestToken(userID), reqBody)

	suite.Equal(http.StatusCreated, w.Code)
	var resp dto.PaymentResponse
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(expected.PaymentRequestID, resp.PaymentRequestID)
	suite.Equal(expected.DepositAddress, resp.DepositAddress)
	suite.mockPaymentService.AssertExpectations(suite.T())
}

func (suite *PaymentHandlerTestSuite) TestInitiateCryptoPayment_InvalidBody() {
	userID := uuid.NewString()

	// missing network and payment type
	body := map[string]any{"amount": "0.005", "currencyCode": "BTC"}
	w := suite.doRequest(http.MethodPost, "/api/v1/payments/crypto", suite.generateTestToken(userID), body)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockPaymentService.AssertNotCalled(suite.T(), "InitiateCryptoPayment")
}

func (suite *PaymentHandlerTestSuite) TestInitiateCryptoPayment_InsufficientFunds() {
	userID := uuid.NewString()
	reqBody := dto.InitiateCryptoPaymentRequest{
		Amount:       decimal.RequireFromString("5"),
		CurrencyCode: "BTC",
		Network:      "bitcoin",
		PaymentType:  "crypto_withdrawal",
		Address:      "bc1qar0srrr7xfkvy5l643lydnw9re59gtzzwf5mdq",
	}

	suite.mockPaymentService.On("InitiateCryptoPayment", mock.Anything, userID, mock.Anything).
		Return(nil, fmt.Errorf("%w: balance too low", apperrors.ErrInvalidAmount)).Once()

	w := suite.doRequest(http.MethodPost, "/api/v1/payments/crypto", suite.generateTestToken(userID), reqBody)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockPaymentService.AssertExpectations(suite.T())
}

func (suite *PaymentHandlerTestSuite) TestInitiateCryptoPayment_Unauthenticated() {
	reqBody := dto.InitiateCryptoPaymentRequest{
		Amount:       decimal.RequireFromString("0.005"),
		CurrencyCode: "BTC",
		Network:      "bitcoin",
		PaymentType:  "crypto_deposit",
	}

	w := suite.doRequest(http.MethodPost, "/api/v1/payments/crypto", "", reqBody)

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.mockPaymentService.AssertNotCalled(suite.T(), "InitiateCryptoPayment")
}

func (suite *PaymentHandlerTestSuite) TestInitiateMpesaPayment_Success() {
	userID := uuid.NewString()
	reqBody := dto.InitiateMpesaPaymentRequest{
		Amount:      decimal.RequireFromString("1000"),
		PhoneNumber: "254712345678",
		PaymentType: "mpesa_deposit",
	}
	expected := &dto.PaymentResponse{
		PaymentRequestID:  uuid.NewString(),
		TransactionID:     uuid.NewString(),
		PaymentType:       "mpesa_deposit",
		Status:            "processing",
		Amount:            reqBody.Amount,
		CurrencyCode:      "KES",
		CheckoutRequestID: "ws_CO_20250101120000123456",
		CustomerMessage:   "Success. Request accepted for processing",
		CreatedAt:         time.Now().UTC(),
	}

	suite.mockPaymentService.On("InitiateMpesaPayment",
		mock.Anything,
		userID,
		mock.MatchedBy(func(r dto.InitiateMpesaPaymentRequest) bool {
			return r.PhoneNumber == "254712345678" && r.PaymentType == "mpesa_deposit"
		}),
	).Return(expected, nil).Once()

	w := suite.doRequest(http.MethodPost, "/api/v1/payments/mpesa", suite.generateTestToken(userID), reqBody)

	suite.Equal(http.StatusCreated, w.Code)
	var resp dto.PaymentResponse
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(expected.CheckoutRequestID, resp.CheckoutRequestID)
	suite.mockPaymentService.AssertExpectations(suite.T())
}

func (suite *PaymentHandlerTestSuite) TestInitiateMpesaPayment_BadPhoneNumber() {
	userID := uuid.NewString()
	body := map[string]any{
		"amount":      "1000",
		"phoneNumber": "12345",
		"paymentType": "mpesa_deposit",
	}

	w := suite.doRequest(http.MethodPost, "/api/v1/payments/mpesa", suite.generateTestToken(userID), body)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockPaymentService.AssertNotCalled(suite.T(), "InitiateMpesaPayment")
}

func (suite *PaymentHandlerTestSuite) TestGetPaymentStatus_Success() {
	userID := uuid.NewString()
	paymentRequestID := uuid.NewString()

	amount, err := domain.NewMoneyFromString("0.005", domain.BTC)
	suite.Require().NoError(err)
	request := &domain.PaymentRequest{
		PaymentRequestID: paymentRequestID,
		UserID:           userID,
		Amount:           amount,
		PaymentType:      domain.CryptoDeposit,
		Network:          domain.NetworkBitcoin,
		Status:           domain.PaymentPending,
		CreatedAt:        time.Now().UTC(),
		ExpiresAt:        time.Now().UTC().Add(30 * time.Minute),
	}

	suite.mockPaymentService.On("GetPaymentStatus", mock.Anything, userID, paymentRequestID).
		Return(request, nil).Once()

	w := suite.doRequest(http.MethodGet, "/api/v1/payments/"+paymentRequestID, suite.generateTestToken(userID), nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.PaymentResponse
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(paymentRequestID, resp.PaymentRequestID)
	suite.Equal("pending", resp.Status)
	suite.Equal("BTC", resp.CurrencyCode)
	suite.mockPaymentService.AssertExpectations(suite.T())
}

func (suite *PaymentHandlerTestSuite) TestGetPaymentStatus_Forbidden() {
	userID := uuid.NewString()
	paymentRequestID := uuid.NewString()

	suite.mockPaymentService.On("GetPaymentStatus", mock.Anything, userID, paymentRequestID).
		Return(nil, fmt.Errorf("%w: payment belongs to another user", apperrors.ErrForbidden)).Once()

	w := suite.doRequest(http.MethodGet, "/api/v1/payments/"+paymentRequestID, suite.generateTestToken(userID), nil)

	suite.Equal(http.StatusForbidden, w.Code)
	suite.mockPaymentService.AssertExpectations(suite.T())
}

func (suite *PaymentHandlerTestSuite) TestGetPaymentStatus_NotFound() {
	userID := uuid.NewString()
	paymentRequestID := uuid.NewString()

	suite.mockPaymentService.On("GetPaymentStatus", mock.Anything, userID, paymentRequestID).
		Return(nil, fmt.Errorf("%w: payment request", apperrors.ErrNotFound)).Once()

	w := suite.doRequest(http.MethodGet, "/api/v1/payments/"+paymentRequestID, suite.generateTestToken(userID), nil)

	suite.Equal(http.StatusNotFound, w.Code)
	suite.mockPaymentService.AssertExpectations(suite.T())
}

func (suite *PaymentHandlerTestSuite) TestListTransactions_Success() {
	userID := uuid.NewString()
	limit := 10
	nextToken := "b3BhcXVl"

	amount, err := domain.NewMoneyFromString("1000", domain.KES)
	suite.Require().NoError(err)
	fee, err := domain.NewMoneyFromString("20", domain.KES)
	suite.Require().NoError(err)
	txns := []domain.TransactionRecord{
		{
			TransactionID:    uuid.NewString(),
			PaymentRequestID: uuid.NewString(),
			UserID:           userID,
			PaymentType:      domain.MpesaDeposit,
			Direction:        domain.DirectionCredit,
			Status:           domain.PaymentCompleted,
			Amount:           amount,
			Fee:              fee,
			MpesaReceipt:     "QGH7SK61SU",
			AuditFields:      domain.AuditFields{CreatedAt: time.Now().UTC()},
		},
	}

	suite.mockPaymentService.On("ListTransactions", mock.Anything, userID, limit, "").
		Return(txns, nextToken, nil).Once()

	url := fmt.Sprintf("/api/v1/transactions?limit=%d", limit)
	w := suite.doRequest(http.MethodGet, url, suite.generateTestToken(userID), nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.ListTransactionsResponse
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Len(resp.Transactions, 1)
	suite.Equal(txns[0].TransactionID, resp.Transactions[0].TransactionID)
	suite.Equal("QGH7SK61SU", resp.Transactions[0].MpesaReceipt)
	suite.Equal(nextToken, resp.NextToken)
	suite.mockPaymentService.AssertExpectations(suite.T())
}

func (suite *PaymentHandlerTestSuite) TestListTransactions_InvalidLimit() {
	userID := uuid.NewString()

	w := suite.doRequest(http.MethodGet, "/api/v1/transactions?limit=zero", suite.generateTestToken(userID), nil)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockPaymentService.AssertNotCalled(suite.T(), "ListTransactions")
}

func (suite *PaymentHandlerTestSuite) TestRefreshConfirmations_Success() {
	userID := uuid.NewString()
	transactionID := uuid.NewString()

	amount, err := domain.NewMoneyFromString("0.005", domain.BTC)
	suite.Require().NoError(err)
	txn := &domain.TransactionRecord{
		TransactionID: transactionID,
		UserID:        userID,
		PaymentType:   domain.CryptoDeposit,
		Direction:     domain.DirectionCredit,
		Status:        domain.PaymentConfirming,
		Amount:        amount,
		Confirmations: 2,
		AuditFields:   domain.AuditFields{CreatedAt: time.Now().UTC()},
	}

	suite.mockPaymentService.On("RecordConfirmations", mock.Anything, transactionID).
		Return(txn, nil).Once()

	url := "/api/v1/transactions/" + transactionID + "/confirmations"
	w := suite.doRequest(http.MethodPost, url, suite.generateTestToken(userID), nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.TransactionResponse
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(2, resp.Confirmations)
	suite.Equal("confirming", resp.Status)
	suite.mockPaymentService.AssertExpectations(suite.T())
}

// --- Run Test Suite ---
func TestPaymentHandler(t *testing.T) {
	suite.Run(t, new(PaymentHandlerTestSuite))
}
