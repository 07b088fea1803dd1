package services_test

import (
	"context"
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

// --- Mock UserRepository ---
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) FindUsers(ctx context.Context, limit int, offset int) ([]domain.User, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.User), args.Error(1)
}

func (m *MockUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateUser(ctx context.Context, user domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateRefreshToken(ctx context.Context, userID string, tokenHash string, expiresAt *time.Time) error {
	args := m.Called(ctx, userID, tokenHash, expiresAt)
	return args.Error(0)
}

func (m *MockUserRepository) MarkUserDeleted(ctx context.Context, userID string, deletedAt time.Time, deletedBy string) error {
	args := m.Called(ctx, userID, deletedAt, deletedBy)
	return args.Error(0)
}

// --- Test Suite ---
type UserServiceTestSuite struct {
	suite.Suite
	mockUserRepo *MockUserRepository
	service      portssvc.UserSvcFacade
}

func (suite *UserServiceTestSuite) SetupTest() {
	suite.mockUserRepo = new(MockUserRepository)
	suite.service = services.NewUserService(suite.mockUserRepo)
}

func (suite *UserServiceTestSuite) TestRegisterUser_Success() {
	ctx := context.Background()
	req := dto.RegisterUserRequest{
		Email:       "amina@example.com",
		Name:        "Amina",
		Password:    "correct horse battery staple",
		PhoneNumber: "0712345678",
	}

	suite.mockUserRepo.On("FindUserByEmail", ctx, req.Email).Return(nil, apperrors.ErrNotFound).Once()

	var saved domain.User
	suite.mockUserRepo.On("SaveUser", ctx, mock.AnythingOfType("domain.User")).
		Run(func(args mock.Arguments) { saved = args.Get(1).(domain.User) }).
		Return(nil).Once()

	user, err := suite.service.RegisterUser(ctx, req)

	suite.Require().NoError(err)
	suite.Require().NotNil(user)
	suite.NotEmpty(user.UserID)
	suite.Equal(req.Email, user.Email)
	suite.Equal("local", user.AuthProvider)
	suite.Equal("+254712345678", user.PhoneNumber.International())

	// Only the bcrypt hash is persisted, never the raw password.
	suite.NotEqual(req.Password, saved.PasswordHash)
	suite.True(utils.CheckPasswordHash(req.Password, saved.PasswordHash))

	suite.mockUserRepo.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestRegisterUser_DuplicateEmail() {
	ctx := context.Background()
	req := dto.RegisterUserRequest{Email: "amina@example.com", Name: "Amina", Password: "password123"}

	suite.mockUserRepo.On("FindUserByEmail", ctx, req.Email).
		Return(&domain.User{UserID: "existing", Email: req.Email}, nil).Once()

	user, err := suite.service.RegisterUser(ctx, req)

	suite.Require().Error(err)
	suite.Nil(user)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
	suite.mockUserRepo.AssertNotCalled(suite.T(), "SaveUser")
}

func (suite *UserServiceTestSuite) TestRegisterUser_InvalidPhone() {
	ctx := context.Background()
	req := dto.RegisterUserRequest{Email: "amina@example.com", Name: "Amina", Password: "password123", PhoneNumber: "12345"}

	suite.mockUserRepo.On("FindUserByEmail", ctx, req.Email).Return(nil, apperrors.ErrNotFound).Once()

	user, err := suite.service.RegisterUser(ctx, req)

	suite.Require().Error(err)
	suite.Nil(user)
	suite.ErrorIs(err, apperrors.ErrInvalidPhoneNumber)
	suite.mockUserRepo.AssertNotCalled(suite.T(), "SaveUser")
}

func (suite *UserServiceTestSuite) TestAuthenticate_Success() {
	ctx := context.Background()
	hash, err := utils.HashPassword("hunter22hunter22")
	suite.Require().NoError(err)
	stored := &domain.User{UserID: "u1", Email: "amina@example.com", PasswordHash: hash}

	suite.mockUserRepo.On("FindUserByEmail", ctx, stored.Email).Return(stored, nil).Once()

	user, authErr := suite.service.Authenticate(ctx, stored.Email, "hunter22hunter22")

	suite.Require().NoError(authErr)
	suite.Equal("u1", user.UserID)
	suite.mockUserRepo.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestAuthenticate_WrongPassword() {
	ctx := context.Background()
	hash, err := utils.HashPassword("hunter22hunter22")
	suite.Require().NoError(err)
	stored := &domain.User{UserID: "u1", Email: "amina@example.com", PasswordHash: hash}

	suite.mockUserRepo.On("FindUserByEmail", ctx, stored.Email).Return(stored, nil).Once()

	user, authErr := suite.service.Authenticate(ctx, stored.Email, "not-the-password")

	suite.Require().Error(authErr)
	suite.Nil(user)
	suite.ErrorIs(authErr, apperrors.ErrUnauthorized)
}

func (suite *UserServiceTestSuite) TestAuthenticate_UnknownEmail() {
	ctx := context.Background()

	suite.mockUserRepo.On("FindUserByEmail", ctx, "ghost@example.com").Return(nil, apperrors.ErrNotFound).Once()

	user, err := suite.service.Authenticate(ctx, "ghost@example.com", "whatever12345")

	suite.Require().Error(err)
	suite.Nil(user)
	// Unknown accounts and bad passwords are indistinguishable to callers.
	suite.ErrorIs(err, apperrors.ErrUnauthorized)
}

func (suite *UserServiceTestSuite) TestGetOrCreateGoogleUser_ExistingUser() {
	ctx := context.Background()
	stored := &domain.User{UserID: "u1", Email: "amina@example.com", AuthProvider: "google"}

	suite.mockUserRepo.On("FindUserByEmail", ctx, stored.Email).Return(stored, nil).Once()

	user, err := suite.service.GetOrCreateGoogleUser(ctx, domain.GoogleUserInfo{Email: stored.Email, Name: "Amina"})

	suite.Require().NoError(err)
	suite.Equal(stored, user)
	suite.mockUserRepo.AssertNotCalled(suite.T(), "SaveUser")
}

func (suite *UserServiceTestSuite) TestGetOrCreateGoogleUser_CreatesOnFirstSignIn() {
	ctx := context.Background()
	info := domain.GoogleUserInfo{Email: "new@example.com", Name: "New User"}

	suite.mockUserRepo.On("FindUserByEmail", ctx, info.Email).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockUserRepo.On("SaveUser", ctx, mock.AnythingOfType("domain.User")).Return(nil).Once()

	user, err := suite.service.GetOrCreateGoogleUser(ctx, info)

	suite.Require().NoError(err)
	suite.Require().NotNil(user)
	suite.NotEmpty(user.UserID)
	suite.Equal("google", user.AuthProvider)
	suite.Empty(user.PasswordHash)
	suite.mockUserRepo.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestStoreRefreshToken_HashesToken() {
	ctx := context.Background()
	expiresAt := time.Now().Add(time.Hour)
	raw := "raw-refresh-token"

	suite.mockUserRepo.On("UpdateRefreshToken", ctx, "u1", utils.HashRefreshToken(raw), &expiresAt).Return(nil).Once()

	err := suite.service.StoreRefreshToken(ctx, "u1", raw, expiresAt)

	suite.Require().NoError(err)
	suite.mockUserRepo.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestClearRefreshToken() {
	ctx := context.Background()

	suite.mockUserRepo.On("UpdateRefreshToken", ctx, "u1", "", (*time.Time)(nil)).Return(nil).Once()

	err := suite.service.ClearRefreshToken(ctx, "u1")

	suite.Require().NoError(err)
	suite.mockUserRepo.AssertExpectations(suite.T())
}

// --- Run Suite ---
func TestUserService(t *testing.T) {
	suite.Run(t, new(UserServiceTestSuite))
}
