package services_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/koperasi-pos/kasir_backend/internal/apperrors"
	"github.com/koperasi-pos/kasir_backend/internal/core/domain"
	portsrepo "github.com/koperasi-pos/kasir_backend/internal/core/ports/repositories"
	portssvc "github.com/koperasi-pos/kasir_backend/internal/core/ports/services"
	"github.com/koperasi-pos/kasir_backend/internal/core/services"
	"github.com/koperasi-pos/kasir_backend/internal/dto"
)

// --- Mock PaymentMethodRepository ---
type MockPaymentMethodRepository struct {
	mock.Mock
}

var _ portsrepo.PaymentMethodRepositoryFacade = (*MockPaymentMethodRepository)(nil)

func (m *MockPaymentMethodRepository) FindPaymentMethodByID(ctx context.Context, methodID string) (*domain.PaymentMethod, error) {
	args := m.Called(ctx, methodID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PaymentMethod), args.Error(1)
}

func (m *MockPaymentMethodRepository) FindPaymentMethodByCode(ctx context.Context, code string) (*domain.PaymentMethod, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PaymentMethod), args.Error(1)
}

func (m *MockPaymentMethodRepository) ListPaymentMethods(ctx context.Context, activeOnly bool) ([]domain.PaymentMethod, error) {
	args := m.Called(ctx, activeOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PaymentMethod), args.Error(1)
}

func (m *MockPaymentMethodRepository) SavePaymentMethod(ctx context.Context, method *domain.PaymentMethod) error {
	args := m.Called(ctx, method)
	return args.Error(0)
}

func (m *MockPaymentMethodRepository) UpdatePaymentMethod(ctx context.Context, method *domain.PaymentMethod) error {
	args := m.Called(ctx, method)
	return args.Error(0)
}

func (m *MockPaymentMethodRepository) DeactivatePaymentMethod(ctx context.Context, methodID string, userID string) error {
	args := m.Called(ctx, methodID, userID)
	return args.Error(0)
}

func (m *MockPaymentMethodRepository) ApplyManualAdjustment(ctx context.Context, methodID string, adjustType string, amount decimal.Decimal, activity *domain.ActivityLog) (*domain.PaymentMethod, error) {
	args := m.Called(ctx, methodID, adjustType, amount, activity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PaymentMethod), args.Error(1)
}

// --- Test Suite Setup ---
type PaymentMethodServiceTestSuite struct {
	suite.Suite
	mockRepo *MockPaymentMethodRepository
	service  portssvc.PaymentMethodSvcFacade
	userID   string
}

func (suite *PaymentMethodServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockPaymentMethodRepository)
	suite.service = services.NewPaymentMethodService(suite.mockRepo)
	suite.userID = uuid.NewString()
}

func (suite *PaymentMethodServiceTestSuite) TestCreatePaymentMethod() {
	var saved *domain.PaymentMethod
	suite.mockRepo.On("SavePaymentMethod", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			saved = args.Get(1).(*domain.PaymentMethod)
		}).Return(nil)

	method, err := suite.service.CreatePaymentMethod(context.Background(), dto.CreatePaymentMethodRequest{
		Code: "qris",
		Name: "QRIS",
		Type: "ewallet",
	}, suite.userID)
	suite.Require().NoError(err)

	suite.Equal("qris", method.Code)
	suite.True(method.IsActive)
	suite.True(method.Balance.IsZero())
	suite.Require().NotNil(saved)
	suite.Equal(method.MethodID, saved.MethodID)
}

func (suite *PaymentMethodServiceTestSuite) TestAdjustBalanceSetUsesBalanceField() {
	methodID := uuid.NewString()
	newBalance := decimal.NewFromInt(250000)
	updated := &domain.PaymentMethod{MethodID: methodID, Balance: newBalance}

	var activity *domain.ActivityLog
	suite.mockRepo.On("ApplyManualAdjustment", mock.Anything, methodID, "set", newBalance, mock.Anything).
		Run(func(args mock.Arguments) {
			activity = args.Get(4).(*domain.ActivityLog)
		}).Return(updated, nil)

	method, err := suite.service.AdjustBalance(context.Background(), methodID, dto.AdjustBalanceRequest{
		AdjustmentType: "set",
		Balance:        newBalance,
		Notes:          "cash drawer count",
	}, suite.userID)
	suite.Require().NoError(err)

	suite.True(method.Balance.Equal(newBalance))
	suite.Require().NotNil(activity)
	suite.Equal("adjust_payment_method_balance", activity.Action)
}

func (suite *PaymentMethodServiceTestSuite) TestAdjustBalanceAddRequiresPositiveAmount() {
	_, err := suite.service.AdjustBalance(context.Background(), uuid.NewString(), dto.AdjustBalanceRequest{
		AdjustmentType: "add",
		Amount:         decimal.Zero,
		Notes:          "typo",
	}, suite.userID)

	suite.ErrorIs(err, services.ErrAdjustmentAmountMissing)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRepo.AssertNotCalled(suite.T(), "ApplyManualAdjustment", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *PaymentMethodServiceTestSuite) TestAdjustBalanceSubtract() {
	methodID := uuid.NewString()
	amount := decimal.NewFromInt(15000)
	updated := &domain.PaymentMethod{MethodID: methodID, Balance: decimal.NewFromInt(85000)}

	suite.mockRepo.On("ApplyManualAdjustment", mock.Anything, methodID, "subtract", amount, mock.Anything).
		Return(updated, nil)

	method, err := suite.service.AdjustBalance(context.Background(), methodID, dto.AdjustBalanceRequest{
		AdjustmentType: "subtract",
		Amount:         amount,
		Notes:          "bank fee",
	}, suite.userID)
	suite.Require().NoError(err)

	suite.True(method.Balance.Equal(decimal.NewFromInt(85000)))
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *PaymentMethodServiceTestSuite) TestUpdatePaymentMethodPartial() {
	method := &domain.PaymentMethod{
		MethodID: uuid.NewString(),
		Code:     "bank",
		Name:     "Bank Transfer",
		Type:     domain.PaymentMethodType("bank"),
		IsActive: true,
	}
	suite.mockRepo.On("FindPaymentMethodByID", mock.Anything, method.MethodID).Return(method, nil)
	suite.mockRepo.On("UpdatePaymentMethod", mock.Anything, mock.Anything).Return(nil)

	newName := "Bank BRI"
	inactive := false
	updated, err := suite.service.UpdatePaymentMethod(context.Background(), method.MethodID, dto.UpdatePaymentMethodRequest{
		Name:     &newName,
		IsActive: &inactive,
	}, suite.userID)
	suite.Require().NoError(err)

	suite.Equal("Bank BRI", updated.Name)
	suite.False(updated.IsActive)
	suite.Equal("bank", updated.Code)
}

func TestPaymentMethodServiceTestSuite(t *testing.T) {
	suite.Run(t, new(PaymentMethodServiceTestSuite))
}
