package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/koperasi-pos/kasir_backend/internal/apperrors"
	"github.com/koperasi-pos/kasir_backend/internal/core/domain"
	portsrepo "github.com/koperasi-pos/kasir_backend/internal/core/ports/repositories"
	portssvc "github.com/koperasi-pos/kasir_backend/internal/core/ports/services"
	"github.com/koperasi-pos/kasir_backend/internal/core/services"
	"github.com/koperasi-pos/kasir_backend/internal/dto"
	"github.com/koperasi-pos/kasir_backend/internal/utils"
)

// --- Mock UserReader ---
type MockUserReader struct {
	mock.Mock
}

var _ portsrepo.UserReader = (*MockUserReader)(nil)

func (m *MockUserReader) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserReader) FindUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserReader) ListUsers(ctx context.Context) ([]domain.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.User), args.Error(1)
}

// --- Test Suite Setup ---
type AuthServiceTestSuite struct {
	suite.Suite
	mockRepo *MockUserReader
	service  portssvc.AuthSvcFacade
	user     *domain.User
	password string
}

func (suite *AuthServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockUserReader)
	suite.service = services.NewAuthService(suite.mockRepo, "test-secret", time.Hour, "kasir-backend")

	suite.password = "rahasia123"
	hash, err := utils.HashPassword(suite.password)
	suite.Require().NoError(err)

	suite.user = &domain.User{
		UserID:       uuid.NewString(),
		Username:     "kasir1",
		Name:         "Kasir Satu",
		PasswordHash: hash,
		Role:         domain.RoleCashier,
		IsActive:     true,
	}
}

func (suite *AuthServiceTestSuite) TestLoginSuccess() {
	suite.mockRepo.On("FindUserByUsername", mock.Anything, "kasir1").Return(suite.user, nil)

	resp, err := suite.service.Login(context.Background(), dto.LoginRequest{
		Username: "kasir1",
		Password: suite.password,
	})
	suite.Require().NoError(err)

	suite.NotEmpty(resp.Token)
	suite.Equal(suite.user.UserID, resp.User.UserID)

	claims, err := utils.ParseAndValidateJWT(resp.Token, "test-secret")
	suite.Require().NoError(err)
	suite.Equal(suite.user.UserID, claims.Subject)
	suite.Equal("kasir-backend", claims.Issuer)
}

func (suite *AuthServiceTestSuite) TestLoginWrongPassword() {
	suite.mockRepo.On("FindUserByUsername", mock.Anything, "kasir1").Return(suite.user, nil)

	_, err := suite.service.Login(context.Background(), dto.LoginRequest{
		Username: "kasir1",
		Password: "salah",
	})
	suite.ErrorIs(err, services.ErrInvalidCredentials)
}

func (suite *AuthServiceTestSuite) TestLoginUnknownUser() {
	suite.mockRepo.On("FindUserByUsername", mock.Anything, "nobody").Return(nil, apperrors.ErrNotFound)

	_, err := suite.service.Login(context.Background(), dto.LoginRequest{
		Username: "nobody",
		Password: "whatever",
	})

	// Unknown user and wrong password produce the same error.
	suite.ErrorIs(err, services.ErrInvalidCredentials)
	suite.NotErrorIs(err, apperrors.ErrNotFound)
}

func (suite *AuthServiceTestSuite) TestLoginInactiveUser() {
	suite.user.IsActive = false
	suite.mockRepo.On("FindUserByUsername", mock.Anything, "kasir1").Return(suite.user, nil)

	_, err := suite.service.Login(context.Background(), dto.LoginRequest{
		Username: "kasir1",
		Password: suite.password,
	})
	suite.ErrorIs(err, services.ErrInvalidCredentials)
}

func TestAuthServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AuthServiceTestSuite))
}
