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

// --- Mock StudentRepository ---
type MockStudentRepository struct {
	mock.Mock
}

var _ portsrepo.StudentRepositoryFacade = (*MockStudentRepository)(nil)

func (m *MockStudentRepository) FindStudentByID(ctx context.Context, studentID string) (*domain.Student, error) {
	args := m.Called(ctx, studentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Student), args.Error(1)
}

func (m *MockStudentRepository) FindStudentByNIS(ctx context.Context, nis string) (*domain.Student, error) {
	args := m.Called(ctx, nis)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Student), args.Error(1)
}

func (m *MockStudentRepository) ListStudents(ctx context.Context, filter domain.StudentFilter) ([]domain.Student, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Student), args.Error(1)
}

func (m *MockStudentRepository) FindLiabilityByID(ctx context.Context, liabilityID string) (*domain.Liability, error) {
	args := m.Called(ctx, liabilityID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Liability), args.Error(1)
}

func (m *MockStudentRepository) ListLiabilitiesByStudent(ctx context.Context, studentID string) ([]domain.Liability, error) {
	args := m.Called(ctx, studentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Liability), args.Error(1)
}

func (m *MockStudentRepository) SaveStudent(ctx context.Context, student *domain.Student) error {
	args := m.Called(ctx, student)
	return args.Error(0)
}

func (m *MockStudentRepository) UpdateStudent(ctx context.Context, student *domain.Student) error {
	args := m.Called(ctx, student)
	return args.Error(0)
}

func (m *MockStudentRepository) DeactivateStudent(ctx context.Context, studentID string, userID string) error {
	args := m.Called(ctx, studentID, userID)
	return args.Error(0)
}

func (m *MockStudentRepository) SaveLiability(ctx context.Context, liability *domain.Liability) error {
	args := m.Called(ctx, liability)
	return args.Error(0)
}

func (m *MockStudentRepository) TopUpBalance(ctx context.Context, studentID string, amount decimal.Decimal, methodCode string, activity *domain.ActivityLog) (*domain.Student, error) {
	args := m.Called(ctx, studentID, amount, methodCode, activity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Student), args.Error(1)
}

func (m *MockStudentRepository) SettleLiabilityPayment(ctx context.Context, liabilityID string, amount decimal.Decimal, fromBalance bool, methodCode *string, activity *domain.ActivityLog) (*domain.Liability, error) {
	args := m.Called(ctx, liabilityID, amount, fromBalance, methodCode, activity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Liability), args.Error(1)
}

// --- Test Suite Setup ---
type StudentServiceTestSuite struct {
	suite.Suite
	mockRepo *MockStudentRepository
	service  portssvc.StudentSvcFacade
	userID   string
}

func (suite *StudentServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockStudentRepository)
	suite.service = services.NewStudentService(suite.mockRepo)
	suite.userID = uuid.NewString()
}

func (suite *StudentServiceTestSuite) unpaidLiability(amount int64) *domain.Liability {
	return &domain.Liability{
		LiabilityID: uuid.NewString(),
		StudentID:   uuid.NewString(),
		Title:       "Uang kegiatan",
		Amount:      decimal.NewFromInt(amount),
		PaidAmount:  decimal.Zero,
		Status:      domain.LiabilityUnpaid,
	}
}

func (suite *StudentServiceTestSuite) TestCreateStudent() {
	var saved *domain.Student
	suite.mockRepo.On("SaveStudent", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			saved = args.Get(1).(*domain.Student)
		}).Return(nil)

	student, err := suite.service.CreateStudent(context.Background(), dto.CreateStudentRequest{
		NIS:   "2026001",
		Name:  "Budi",
		Class: "8A",
	}, suite.userID)
	suite.Require().NoError(err)

	suite.Equal("2026001", student.NIS)
	suite.True(student.IsActive)
	suite.True(student.Balance.IsZero())
	suite.Require().NotNil(saved)
	suite.Equal(student.StudentID, saved.StudentID)
}

func (suite *StudentServiceTestSuite) TestTopUpRejectsNonPositiveAmount() {
	_, err := suite.service.TopUp(context.Background(), uuid.NewString(), dto.TopUpRequest{
		Amount:            decimal.Zero,
		PaymentMethodCode: "cash",
	}, suite.userID)

	suite.ErrorIs(err, services.ErrAmountNotPositive)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRepo.AssertNotCalled(suite.T(), "TopUpBalance", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *StudentServiceTestSuite) TestTopUpDelegatesToRepository() {
	studentID := uuid.NewString()
	amount := decimal.NewFromInt(50000)
	updated := &domain.Student{StudentID: studentID, Balance: amount}

	var activity *domain.ActivityLog
	suite.mockRepo.On("TopUpBalance", mock.Anything, studentID, amount, "cash", mock.Anything).
		Run(func(args mock.Arguments) {
			activity = args.Get(4).(*domain.ActivityLog)
		}).Return(updated, nil)

	student, err := suite.service.TopUp(context.Background(), studentID, dto.TopUpRequest{
		Amount:            amount,
		PaymentMethodCode: "cash",
	}, suite.userID)
	suite.Require().NoError(err)

	suite.True(student.Balance.Equal(amount))
	suite.Require().NotNil(activity)
	suite.Equal("topup_student_balance", activity.Action)
	suite.Equal(suite.userID, activity.UserID)
}

func (suite *StudentServiceTestSuite) TestCreateLiabilityUnknownStudent() {
	studentID := uuid.NewString()
	suite.mockRepo.On("FindStudentByID", mock.Anything, studentID).Return(nil, apperrors.ErrNotFound)

	_, err := suite.service.CreateLiability(context.Background(), studentID, dto.CreateLiabilityRequest{
		Title:  "Uang buku",
		Amount: decimal.NewFromInt(75000),
	}, suite.userID)

	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveLiability", mock.Anything, mock.Anything)
}

func (suite *StudentServiceTestSuite) TestPayLiabilityRequiresMethodCode() {
	_, err := suite.service.PayLiability(context.Background(), uuid.NewString(), dto.PayLiabilityRequest{
		Amount:      decimal.NewFromInt(10000),
		FromBalance: false,
	}, suite.userID)

	suite.ErrorIs(err, services.ErrMethodCodeRequired)
}

func (suite *StudentServiceTestSuite) TestPayLiabilityAlreadyPaid() {
	liability := suite.unpaidLiability(50000)
	liability.PaidAmount = liability.Amount
	liability.Status = domain.LiabilityPaid
	suite.mockRepo.On("FindLiabilityByID", mock.Anything, liability.LiabilityID).Return(liability, nil)

	_, err := suite.service.PayLiability(context.Background(), liability.LiabilityID, dto.PayLiabilityRequest{
		Amount:      decimal.NewFromInt(10000),
		FromBalance: true,
	}, suite.userID)

	suite.ErrorIs(err, apperrors.ErrInvalidState)
}

func (suite *StudentServiceTestSuite) TestPayLiabilityOverpayment() {
	liability := suite.unpaidLiability(50000)
	liability.PaidAmount = decimal.NewFromInt(30000)
	liability.Status = domain.LiabilityPartial
	suite.mockRepo.On("FindLiabilityByID", mock.Anything, liability.LiabilityID).Return(liability, nil)

	// Outstanding is 20000, paying 25000 must fail.
	_, err := suite.service.PayLiability(context.Background(), liability.LiabilityID, dto.PayLiabilityRequest{
		Amount:      decimal.NewFromInt(25000),
		FromBalance: true,
	}, suite.userID)

	suite.ErrorIs(err, services.ErrLiabilityOverpaid)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *StudentServiceTestSuite) TestPayLiabilityFromBalance() {
	liability := suite.unpaidLiability(50000)
	suite.mockRepo.On("FindLiabilityByID", mock.Anything, liability.LiabilityID).Return(liability, nil)

	amount := decimal.NewFromInt(20000)
	settled := &domain.Liability{
		LiabilityID: liability.LiabilityID,
		StudentID:   liability.StudentID,
		Amount:      liability.Amount,
		PaidAmount:  amount,
		Status:      domain.LiabilityPartial,
	}
	// Paying from the deposit balance passes no method code down.
	suite.mockRepo.On("SettleLiabilityPayment", mock.Anything, liability.LiabilityID, amount, true, (*string)(nil), mock.Anything).
		Return(settled, nil)

	updated, err := suite.service.PayLiability(context.Background(), liability.LiabilityID, dto.PayLiabilityRequest{
		Amount:      amount,
		FromBalance: true,
	}, suite.userID)
	suite.Require().NoError(err)

	suite.Equal(domain.LiabilityPartial, updated.Status)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *StudentServiceTestSuite) TestPayLiabilityOverChannel() {
	liability := suite.unpaidLiability(50000)
	suite.mockRepo.On("FindLiabilityByID", mock.Anything, liability.LiabilityID).Return(liability, nil)

	amount := liability.Amount
	settled := &domain.Liability{
		LiabilityID: liability.LiabilityID,
		StudentID:   liability.StudentID,
		Amount:      liability.Amount,
		PaidAmount:  amount,
		Status:      domain.LiabilityPaid,
	}

	var methodCode *string
	suite.mockRepo.On("SettleLiabilityPayment", mock.Anything, liability.LiabilityID, amount, false, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			if args.Get(4) != nil {
				methodCode = args.Get(4).(*string)
			}
		}).Return(settled, nil)

	updated, err := suite.service.PayLiability(context.Background(), liability.LiabilityID, dto.PayLiabilityRequest{
		Amount:            amount,
		FromBalance:       false,
		PaymentMethodCode: "cash",
	}, suite.userID)
	suite.Require().NoError(err)

	suite.Equal(domain.LiabilityPaid, updated.Status)
	suite.Require().NotNil(methodCode)
	suite.Equal("cash", *methodCode)
}

func TestStudentServiceTestSuite(t *testing.T) {
	suite.Run(t, new(StudentServiceTestSuite))
}
