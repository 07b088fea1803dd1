package services_test

import (
	"context"
	"testing"

	"github.com/pesabridge/pesabridge_backend/internal/apperrors"
	"github.com/pesabridge/pesabridge_backend/internal/core/domain"
	"github.com/pesabridge/pesabridge_backend/internal/core/ports/gateways"
	portssvc "github.com/pesabridge/pesabridge_backend/internal/core/ports/services"
	"github.com/pesabridge/pesabridge_backend/internal/core/services"
	"github.com/pesabridge/pesabridge_backend/internal/dto"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock WalletRepository ---
type MockWalletRepository struct {
	mock.Mock
}

func (m *MockWalletRepository) FindWalletByID(ctx context.Context, walletID string) (*domain.Wallet, error) {
	args := m.Called(ctx, walletID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Wallet), args.Error(1)
}

func (m *MockWalletRepository) FindWalletsByUser(ctx context.Context, userID string) ([]domain.Wallet, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Wallet), args.Error(1)
}

func (m *MockWalletRepository) FindWalletByUserAndCurrency(ctx context.Context, userID string, currency domain.Currency) (*domain.Wallet, error) {
	args := m.Called(ctx, userID, currency)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Wallet), args.Error(1)
}

func (m *MockWalletRepository) SaveWallet(ctx context.Context, wallet domain.Wallet) error {
	args := m.Called(ctx, wallet)
	return args.Error(0)
}

func (m *MockWalletRepository) UpdateBalance(ctx context.Context, walletID string, delta domain.Money, updaterUserID string) error {
	args := m.Called(ctx, walletID, delta, updaterUserID)
	return args.Error(0)
}

// --- Mock BlockchainGateway ---
type MockBlockchainGateway struct {
	mock.Mock
	network domain.Network
}

func (m *MockBlockchainGateway) Network() domain.Network {
	return m.network
}

func (m *MockBlockchainGateway) GenerateDepositAddress(ctx context.Context, userID string) (domain.WalletAddress, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(domain.WalletAddress), args.Error(1)
}

func (m *MockBlockchainGateway) EstimateFee(ctx context.Context, amount domain.Money) (domain.Money, error) {
	args := m.Called(ctx, amount)
	return args.Get(0).(domain.Money), args.Error(1)
}

func (m *MockBlockchainGateway) Broadcast(ctx context.Context, to domain.WalletAddress, amount domain.Money) (domain.TransactionHash, error) {
	args := m.Called(ctx, to, amount)
	return args.Get(0).(domain.TransactionHash), args.Error(1)
}

func (m *MockBlockchainGateway) Confirmations(ctx context.Context, hash domain.TransactionHash) (int, error) {
	args := m.Called(ctx, hash)
	return args.Int(0), args.Error(1)
}

const testBTCAddress = "1A1zP1eP5QGefi2DMPTfTL5SLmv7DivfNa"

func mustAddress(t *testing.T, network domain.Network, raw string) domain.WalletAddress {
	t.Helper()
	addr, err := domain.NewWalletAddress(network, raw)
	if err != nil {
		t.Fatal(err)
	}
	return addr
}

func mustMoney(t *testing.T, amount string, currency domain.Currency) domain.Money {
	t.Helper()
	m, err := domain.NewMoneyFromString(amount, currency)
	if err != nil {
		t.Fatal(err)
	}
	return m
}

// --- Test Suite ---
type WalletServiceTestSuite struct {
	suite.Suite
	mockWalletRepo *MockWalletRepository
	mockUsers      *MockUserReader
	mockBTC        *MockBlockchainGateway
	service        portssvc.WalletSvcFacade
}

func (suite *WalletServiceTestSuite) SetupTest() {
	suite.mockWalletRepo = new(MockWalletRepository)
	suite.mockUsers = new(MockUserReader)
	suite.mockBTC = &MockBlockchainGateway{network: domain.NetworkBitcoin}
	chains := map[domain.Network]gateways.BlockchainGateway{
		domain.NetworkBitcoin: suite.mockBTC,
	}
	suite.service = services.NewWalletService(suite.mockWalletRepo, suite.mockUsers, chains)
}

// --- Test Cases ---

func (suite *WalletServiceTestSuite) TestCreateWallet_Fiat() {
	ctx := context.Background()

	suite.mockWalletRepo.On("FindWalletByUserAndCurrency", ctx, "u1", domain.KES).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockWalletRepo.On("SaveWallet", ctx, mock.AnythingOfType("domain.Wallet")).Return(nil).Once()

	wallet, err := suite.service.CreateWallet(ctx, "u1", dto.CreateWalletRequest{CurrencyCode: "KES"})

	suite.Require().NoError(err)
	suite.Require().NotNil(wallet)
	suite.Equal(domain.KES, wallet.Currency)
	suite.True(wallet.Balance.IsZero())
	suite.True(wallet.Address.IsZero())
	suite.True(wallet.IsActive)
	suite.mockWalletRepo.AssertExpectations(suite.T())
	suite.mockBTC.AssertNotCalled(suite.T(), "GenerateDepositAddress")
}

func (suite *WalletServiceTestSuite) TestCreateWallet_CryptoGetsDepositAddress() {
	ctx := context.Background()
	address := mustAddress(suite.T(), domain.NetworkBitcoin, testBTCAddress)

	suite.mockWalletRepo.On("FindWalletByUserAndCurrency", ctx, "u1", domain.BTC).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockBTC.On("GenerateDepositAddress", ctx, "u1").Return(address, nil).Once()
	suite.mockWalletRepo.On("SaveWallet", ctx, mock.AnythingOfType("domain.Wallet")).Return(nil).Once()

	wallet, err := suite.service.CreateWallet(ctx, "u1", dto.CreateWalletRequest{CurrencyCode: "BTC", Network: "bitcoin"})

	suite.Require().NoError(err)
	suite.Equal(testBTCAddress, wallet.Address.Value())
	suite.Equal(domain.NetworkBitcoin, wallet.Address.Network())
	suite.mockBTC.AssertExpectations(suite.T())
}

func (suite *WalletServiceTestSuite) TestCreateWallet_CryptoNeedsNetwork() {
	ctx := context.Background()

	suite.mockWalletRepo.On("FindWalletByUserAndCurrency", ctx, "u1", domain.BTC).Return(nil, apperrors.ErrNotFound).Once()

	wallet, err := suite.service.CreateWallet(ctx, "u1", dto.CreateWalletRequest{CurrencyCode: "BTC"})

	suite.Require().Error(err)
	suite.Nil(wallet)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockWalletRepo.AssertNotCalled(suite.T(), "SaveWallet")
}

func (suite *WalletServiceTestSuite) TestCreateWallet_NetworkCurrencyMismatch() {
	ctx := context.Background()

	suite.mockWalletRepo.On("FindWalletByUserAndCurrency", ctx, "u1", domain.USDT).Return(nil, apperrors.ErrNotFound).Once()

	wallet, err := suite.service.CreateWallet(ctx, "u1", dto.CreateWalletRequest{CurrencyCode: "USDT", Network: "bitcoin"})

	suite.Require().Error(err)
	suite.Nil(wallet)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *WalletServiceTestSuite) TestCreateWallet_Duplicate() {
	ctx := context.Background()
	existing := &domain.Wallet{WalletID: "w1", UserID: "u1", Currency: domain.KES}

	suite.mockWalletRepo.On("FindWalletByUserAndCurrency", ctx, "u1", domain.KES).Return(existing, nil).Once()

	wallet, err := suite.service.CreateWallet(ctx, "u1", dto.CreateWalletRequest{CurrencyCode: "KES"})

	suite.Require().Error(err)
	suite.Nil(wallet)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
	suite.mockWalletRepo.AssertNotCalled(suite.T(), "SaveWallet")
}

func (suite *WalletServiceTestSuite) TestGetWalletByID_OwnershipEnforced() {
	ctx := context.Background()
	stored := &domain.Wallet{WalletID: "w1", UserID: "someone-else", Currency: domain.KES}

	suite.mockWalletRepo.On("FindWalletByID", ctx, "w1").Return(stored, nil).Once()

	wallet, err := suite.service.GetWalletByID(ctx, "u1", "w1")

	suite.Require().Error(err)
	suite.Nil(wallet)
	suite.ErrorIs(err, apperrors.ErrForbidden)
}

func (suite *WalletServiceTestSuite) TestAdjustBalance_AdminOnly() {
	ctx := context.Background()

	suite.mockUsers.On("GetUserByID", ctx, "u1").Return(&domain.User{UserID: "u1"}, nil).Once()

	wallet, err := suite.service.AdjustBalance(ctx, "u1", "w1", mustMoney(suite.T(), "100", domain.KES), "manual topup")

	suite.Require().Error(err)
	suite.Nil(wallet)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.mockWalletRepo.AssertNotCalled(suite.T(), "UpdateBalance")
}

func (suite *WalletServiceTestSuite) TestAdjustBalance_OverdraftRejected() {
	ctx := context.Background()
	stored := &domain.Wallet{
		WalletID: "w1",
		UserID:   "u2",
		Currency: domain.KES,
		Balance:  mustMoney(suite.T(), "50", domain.KES),
	}

	suite.mockUsers.On("GetUserByID", ctx, "admin").Return(&domain.User{UserID: "admin", IsAdmin: true}, nil).Once()
	suite.mockWalletRepo.On("FindWalletByID", ctx, "w1").Return(stored, nil).Once()

	wallet, err := suite.service.AdjustBalance(ctx, "admin", "w1", mustMoney(suite.T(), "-100", domain.KES), "correction")

	suite.Require().Error(err)
	suite.Nil(wallet)
	suite.ErrorIs(err, apperrors.ErrInvalidAmount)
	suite.mockWalletRepo.AssertNotCalled(suite.T(), "UpdateBalance")
}

func (suite *WalletServiceTestSuite) TestAdjustBalance_Success() {
	ctx := context.Background()
	delta := mustMoney(suite.T(), "100", domain.KES)
	before := &domain.Wallet{WalletID: "w1", UserID: "u2", Currency: domain.KES, Balance: mustMoney(suite.T(), "50", domain.KES)}
	after := &domain.Wallet{WalletID: "w1", UserID: "u2", Currency: domain.KES, Balance: mustMoney(suite.T(), "150", domain.KES)}

	suite.mockUsers.On("GetUserByID", ctx, "admin").Return(&domain.User{UserID: "admin", IsAdmin: true}, nil).Once()
	suite.mockWalletRepo.On("FindWalletByID", ctx, "w1").Return(before, nil).Once()
	suite.mockWalletRepo.On("UpdateBalance", ctx, "w1", delta, "admin").Return(nil).Once()
	suite.mockWalletRepo.On("FindWalletByID", ctx, "w1").Return(after, nil).Once()

	wallet, err := suite.service.AdjustBalance(ctx, "admin", "w1", delta, "manual topup")

	suite.Require().NoError(err)
	suite.True(wallet.Balance.Equal(after.Balance))
	suite.mockWalletRepo.AssertExpectations(suite.T())
}

// --- Run Suite ---
func TestWalletService(t *testing.T) {
	suite.Run(t, new(WalletServiceTestSuite))
}
