package services_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/pesabridge/pesabridge_backend/internal/apperrors"
	"github.com/pesabridge/pesabridge_backend/internal/core/domain"
	portssvc "github.com/pesabridge/pesabridge_backend/internal/core/ports/services"
	"github.com/pesabridge/pesabridge_backend/internal/core/services"
	"github.com/pesabridge/pesabridge_backend/internal/dto"
	"github.com/pesabridge/pesabridge_backend/internal/utils"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock MerchantRepository ---
type MockMerchantRepository struct {
	mock.Mock
}

func (m *MockMerchantRepository) FindMerchantByID(ctx context.Context, merchantID string) (*domain.Merchant, error) {
	args := m.Called(ctx, merchantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Merchant), args.Error(1)
}

func (m *MockMerchantRepository) FindMerchantByOwner(ctx context.Context, ownerUserID string) (*domain.Merchant, error) {
	args := m.Called(ctx, ownerUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Merchant), args.Error(1)
}

func (m *MockMerchantRepository) SaveMerchant(ctx context.Context, merchant domain.Merchant) error {
	args := m.Called(ctx, merchant)
	return args.Error(0)
}

func (m *MockMerchantRepository) UpdateMerchant(ctx context.Context, merchant domain.Merchant) error {
	args := m.Called(ctx, merchant)
	return args.Error(0)
}

func (m *MockMerchantRepository) SaveAPIKey(ctx context.Context, key domain.MerchantAPIKey) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockMerchantRepository) FindAPIKeyByID(ctx context.Context, keyID string) (*domain.MerchantAPIKey, error) {
	args := m.Called(ctx, keyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MerchantAPIKey), args.Error(1)
}

func (m *MockMerchantRepository) FindAPIKeyByHash(ctx context.Context, keyHash string) (*domain.MerchantAPIKey, error) {
	args := m.Called(ctx, keyHash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MerchantAPIKey), args.Error(1)
}

func (m *MockMerchantRepository) TouchAPIKey(ctx context.Context, keyID string, usedAt time.Time) error {
	args := m.Called(ctx, keyID, usedAt)
	return args.Error(0)
}

func (m *MockMerchantRepository) RevokeAPIKey(ctx context.Context, keyID string, revokedAt time.Time) error {
	args := m.Called(ctx, keyID, revokedAt)
	return args.Error(0)
}

// --- Test Suite ---
type MerchantServiceTestSuite struct {
	suite.Suite
	mockMerchantRepo *MockMerchantRepository
	service          portssvc.MerchantSvcFacade
}

func (suite *MerchantServiceTestSuite) SetupTest() {
	suite.mockMerchantRepo = new(MockMerchantRepository)
	suite.service = services.NewMerchantService(suite.mockMerchantRepo)
}

func activeMerchant() *domain.Merchant {
	return &domain.Merchant{
		MerchantID:         "m1",
		OwnerUserID:        "u1",
		BusinessName:       "Duka Mtandao",
		SettlementCurrency: domain.KES,
		IsActive:           true,
	}
}

// --- Test Cases ---

func (suite *MerchantServiceTestSuite) TestRegisterMerchant_Success() {
	ctx := context.Background()
	req := dto.RegisterMerchantRequest{
		BusinessName:       "Duka Mtandao",
		SettlementCurrency: "KES",
		CallbackURL:        "https://duka.example.com/webhooks/pesabridge",
	}

	suite.mockMerchantRepo.On("FindMerchantByOwner", ctx, "u1").Return(nil, apperrors.ErrNotFound).Once()
	suite.mockMerchantRepo.On("SaveMerchant", ctx, mock.AnythingOfType("domain.Merchant")).Return(nil).Once()

	merchant, err := suite.service.RegisterMerchant(ctx, "u1", req)

	suite.Require().NoError(err)
	suite.Require().NotNil(merchant)
	suite.NotEmpty(merchant.MerchantID)
	suite.Equal("u1", merchant.OwnerUserID)
	suite.Equal(domain.KES, merchant.SettlementCurrency)
	suite.True(merchant.IsActive)
	suite.mockMerchantRepo.AssertExpectations(suite.T())
}

func (suite *MerchantServiceTestSuite) TestRegisterMerchant_OnePerOwner() {
	ctx := context.Background()

	suite.mockMerchantRepo.On("FindMerchantByOwner", ctx, "u1").Return(activeMerchant(), nil).Once()

	merchant, err := suite.service.RegisterMerchant(ctx, "u1", dto.RegisterMerchantRequest{
		BusinessName:       "Second Shop",
		SettlementCurrency: "KES",
	})

	suite.Require().Error(err)
	suite.Nil(merchant)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
	suite.mockMerchantRepo.AssertNotCalled(suite.T(), "SaveMerchant")
}

func (suite *MerchantServiceTestSuite) TestCreateAPIKey_RawKeyReturnedHashStored() {
	ctx := context.Background()

	suite.mockMerchantRepo.On("FindMerchantByOwner", ctx, "u1").Return(activeMerchant(), nil).Once()

	var saved domain.MerchantAPIKey
	suite.mockMerchantRepo.On("SaveAPIKey", ctx, mock.AnythingOfType("domain.MerchantAPIKey")).
		Run(func(args mock.Arguments) { saved = args.Get(1).(domain.MerchantAPIKey) }).
		Return(nil).Once()

	resp, err := suite.service.CreateAPIKey(ctx, "u1", dto.CreateAPIKeyRequest{Name: "checkout"})

	suite.Require().NoError(err)
	suite.Require().NotNil(resp)
	suite.True(strings.HasPrefix(resp.Key, "pb_"))
	suite.Equal("m1", saved.MerchantID)
	suite.NotEqual(resp.Key, saved.KeyHash)
	suite.Equal(utils.HashAPIKey(resp.Key), saved.KeyHash)
	suite.mockMerchantRepo.AssertExpectations(suite.T())
}

func (suite *MerchantServiceTestSuite) TestCreateAPIKey_ExpiryInPast() {
	ctx := context.Background()
	past := time.Now().Add(-time.Hour)

	suite.mockMerchantRepo.On("FindMerchantByOwner", ctx, "u1").Return(activeMerchant(), nil).Once()

	resp, err := suite.service.CreateAPIKey(ctx, "u1", dto.CreateAPIKeyRequest{Name: "checkout", ExpiresAt: &past})

	suite.Require().Error(err)
	suite.Nil(resp)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockMerchantRepo.AssertNotCalled(suite.T(), "SaveAPIKey")
}

func (suite *MerchantServiceTestSuite) TestValidateAPIKey_Success() {
	ctx := context.Background()
	rawKey := "pb_test_key"
	stored := &domain.MerchantAPIKey{ID: "k1", MerchantID: "m1", KeyHash: utils.HashAPIKey(rawKey)}

	suite.mockMerchantRepo.On("FindAPIKeyByHash", ctx, utils.HashAPIKey(rawKey)).Return(stored, nil).Once()
	suite.mockMerchantRepo.On("FindMerchantByID", ctx, "m1").Return(activeMerchant(), nil).Once()
	suite.mockMerchantRepo.On("TouchAPIKey", ctx, "k1", mock.AnythingOfType("time.Time")).Return(nil).Once()

	merchant, err := suite.service.ValidateAPIKey(ctx, rawKey)

	suite.Require().NoError(err)
	suite.Equal("m1", merchant.MerchantID)
	suite.mockMerchantRepo.AssertExpectations(suite.T())
}

func (suite *MerchantServiceTestSuite) TestValidateAPIKey_UnknownKey() {
	ctx := context.Background()

	suite.mockMerchantRepo.On("FindAPIKeyByHash", ctx, mock.AnythingOfType("string")).Return(nil, apperrors.ErrNotFound).Once()

	merchant, err := suite.service.ValidateAPIKey(ctx, "pb_bogus")

	suite.Require().Error(err)
	suite.Nil(merchant)
	suite.ErrorIs(err, apperrors.ErrUnauthorized)
}

func (suite *MerchantServiceTestSuite) TestValidateAPIKey_Expired() {
	ctx := context.Background()
	rawKey := "pb_test_key"
	past := time.Now().Add(-time.Minute)
	stored := &domain.MerchantAPIKey{ID: "k1", MerchantID: "m1", KeyHash: utils.HashAPIKey(rawKey), ExpiresAt: &past}

	suite.mockMerchantRepo.On("FindAPIKeyByHash", ctx, utils.HashAPIKey(rawKey)).Return(stored, nil).Once()

	merchant, err := suite.service.ValidateAPIKey(ctx, rawKey)

	suite.Require().Error(err)
	suite.Nil(merchant)
	suite.ErrorIs(err, apperrors.ErrUnauthorized)
	suite.mockMerchantRepo.AssertNotCalled(suite.T(), "TouchAPIKey")
}

func (suite *MerchantServiceTestSuite) TestValidateAPIKey_Revoked() {
	ctx := context.Background()
	rawKey := "pb_test_key"
	revokedAt := time.Now().Add(-time.Minute)
	stored := &domain.MerchantAPIKey{ID: "k1", MerchantID: "m1", KeyHash: utils.HashAPIKey(rawKey), RevokedAt: &revokedAt}

	suite.mockMerchantRepo.On("FindAPIKeyByHash", ctx, utils.HashAPIKey(rawKey)).Return(stored, nil).Once()

	merchant, err := suite.service.ValidateAPIKey(ctx, rawKey)

	suite.Require().Error(err)
	suite.Nil(merchant)
	suite.ErrorIs(err, apperrors.ErrUnauthorized)
}

func (suite *MerchantServiceTestSuite) TestRevokeAPIKey_WrongOwner() {
	ctx := context.Background()
	key := &domain.MerchantAPIKey{ID: "k1", MerchantID: "someone-elses-merchant"}

	suite.mockMerchantRepo.On("FindMerchantByOwner", ctx, "u1").Return(activeMerchant(), nil).Once()
	suite.mockMerchantRepo.On("FindAPIKeyByID", ctx, "k1").Return(key, nil).Once()

	err := suite.service.RevokeAPIKey(ctx, "u1", "k1")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.mockMerchantRepo.AssertNotCalled(suite.T(), "RevokeAPIKey")
}

func (suite *MerchantServiceTestSuite) TestRevokeAPIKey_Success() {
	ctx := context.Background()
	key := &domain.MerchantAPIKey{ID: "k1", MerchantID: "m1"}

	suite.mockMerchantRepo.On("FindMerchantByOwner", ctx, "u1").Return(activeMerchant(), nil).Once()
	suite.mockMerchantRepo.On("FindAPIKeyByID", ctx, "k1").Return(key, nil).Once()
	suite.mockMerchantRepo.On("RevokeAPIKey", ctx, "k1", mock.AnythingOfType("time.Time")).Return(nil).Once()

	err := suite.service.RevokeAPIKey(ctx, "u1", "k1")

	suite.Require().NoError(err)
	suite.mockMerchantRepo.AssertExpectations(suite.T())
}

// --- Run Suite ---
func TestMerchantService(t *testing.T) {
	suite.Run(t, new(MerchantServiceTestSuite))
}
