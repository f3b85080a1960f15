package services_test

import (
	"context"
	"math/rand"
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

// --- Mock TransactionRepository ---
type MockTransactionRepository struct {
	mock.Mock
}

var _ portsrepo.TransactionRepositoryFacade = (*MockTransactionRepository)(nil)

func (m *MockTransactionRepository) SaveTransaction(ctx context.Context, txn *domain.Transaction, activity *domain.ActivityLog) error {
	args := m.Called(ctx, txn, activity)
	return args.Error(0)
}

func (m *MockTransactionRepository) FinalizeTransition(ctx context.Context, txn *domain.Transaction, movements []domain.StockMovement, balanceChange decimal.Decimal, activity *domain.ActivityLog) error {
	args := m.Called(ctx, txn, movements, balanceChange, activity)
	return args.Error(0)
}

func (m *MockTransactionRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) FindTransactionByInvoice(ctx context.Context, invoiceNumber string) (*domain.Transaction, error) {
	args := m.Called(ctx, invoiceNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) ListTransactions(ctx context.Context, filter domain.TransactionFilter, limit int, nextToken *string) ([]domain.Transaction, *string, error) {
	args := m.Called(ctx, filter, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var returnedNextToken *string
	if args.Get(1) != nil {
		tokenVal := args.Get(1).(string)
		returnedNextToken = &tokenVal
	}
	return args.Get(0).([]domain.Transaction), returnedNextToken, args.Error(2)
}

// --- Mock PaymentMethodReaderSvc ---
type MockPaymentMethodReaderSvc struct {
	mock.Mock
}

var _ portssvc.PaymentMethodReaderSvc = (*MockPaymentMethodReaderSvc)(nil)

func (m *MockPaymentMethodReaderSvc) GetPaymentMethod(ctx context.Context, methodID string) (*domain.PaymentMethod, error) {
	args := m.Called(ctx, methodID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PaymentMethod), args.Error(1)
}

func (m *MockPaymentMethodReaderSvc) GetPaymentMethodByCode(ctx context.Context, code string) (*domain.PaymentMethod, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PaymentMethod), args.Error(1)
}

func (m *MockPaymentMethodReaderSvc) ListPaymentMethods(ctx context.Context, activeOnly bool) ([]domain.PaymentMethod, error) {
	args := m.Called(ctx, activeOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PaymentMethod), args.Error(1)
}

// --- Test Suite Setup ---
type TransactionServiceTestSuite struct {
	suite.Suite
	mockTxnRepo   *MockTransactionRepository
	mockMethodSvc *MockPaymentMethodReaderSvc
	service       portssvc.TransactionSvcFacade
	cashierID     string
	cashMethod    domain.PaymentMethod
}

func (suite *TransactionServiceTestSuite) SetupTest() {
	suite.mockTxnRepo = new(MockTransactionRepository)
	suite.mockMethodSvc = new(MockPaymentMethodReaderSvc)
	suite.service = services.NewTransactionService(suite.mockTxnRepo, suite.mockMethodSvc, "INV", false)
	suite.cashierID = uuid.NewString()
	suite.cashMethod = domain.PaymentMethod{
		MethodID: uuid.NewString(),
		Code:     "cash",
		Name:     "Cash",
		Type:     "cash",
		IsActive: true,
	}
}

// validCheckoutRequest builds a reconciling two-line checkout:
// (10000 * 3 - 5000) + (5000 * 1) = 30000, tax 3000, discount 3000, total 30000.
func (suite *TransactionServiceTestSuite) validCheckoutRequest() dto.CreateTransactionRequest {
	return dto.CreateTransactionRequest{
		CustomerType: "general",
		CustomerName: "Walk-in",
		Items: []dto.CheckoutItemRequest{
			{
				ProductID:   "prod-1",
				ProductName: "Pencil",
				SKU:         "PCL-01",
				Quantity:    3,
				Price:       decimal.NewFromInt(10000),
				Discount:    decimal.NewFromInt(5000),
				Subtotal:    decimal.NewFromInt(25000),
			},
			{
				ProductID:   "prod-2",
				ProductName: "Notebook",
				SKU:         "NTB-01",
				Quantity:    1,
				Price:       decimal.NewFromInt(5000),
				Discount:    decimal.Zero,
				Subtotal:    decimal.NewFromInt(5000),
			},
		},
		Subtotal:      decimal.NewFromInt(30000),
		Tax:           decimal.NewFromInt(3000),
		Discount:      decimal.NewFromInt(3000),
		Total:         decimal.NewFromInt(30000),
		PaymentMethod: "cash",
		PaidAmount:    decimal.NewFromInt(35000),
		ChangeAmount:  decimal.NewFromInt(5000),
	}
}

func (suite *TransactionServiceTestSuite) completedTransaction() *domain.Transaction {
	return &domain.Transaction{
		TransactionID: uuid.NewString(),
		InvoiceNumber: "INV202601021504059831",
		CustomerType:  domain.CustomerGeneral,
		Subtotal:      decimal.NewFromInt(50000),
		Total:         decimal.NewFromInt(50000),
		PaymentMethod: "cash",
		PaidAmount:    decimal.NewFromInt(50000),
		Status:        domain.StatusCompleted,
		Items: []domain.TransactionItem{
			{ItemID: uuid.NewString(), ProductID: "prod-1", Quantity: 2, Price: decimal.NewFromInt(10000), Subtotal: decimal.NewFromInt(20000)},
			{ItemID: uuid.NewString(), ProductID: "prod-2", Quantity: 6, Price: decimal.NewFromInt(5000), Subtotal: decimal.NewFromInt(30000)},
		},
	}
}

func (suite *TransactionServiceTestSuite) TestCreateTransactionCompleted() {
	req := suite.validCheckoutRequest()
	suite.mockMethodSvc.On("GetPaymentMethodByCode", mock.Anything, "cash").Return(&suite.cashMethod, nil)

	var savedTxn *domain.Transaction
	var savedActivity *domain.ActivityLog
	suite.mockTxnRepo.On("SaveTransaction", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			savedTxn = args.Get(1).(*domain.Transaction)
			savedActivity = args.Get(2).(*domain.ActivityLog)
		}).Return(nil)

	txn, err := suite.service.CreateTransaction(context.Background(), req, suite.cashierID)
	suite.Require().NoError(err)
	suite.Require().NotNil(txn)

	suite.Equal(domain.StatusCompleted, txn.Status)
	suite.True(txn.Total.Equal(decimal.NewFromInt(30000)))
	suite.Len(txn.Items, 2)
	suite.Contains(txn.InvoiceNumber, "INV")
	suite.Equal(suite.cashierID, txn.CashierID)
	suite.Equal("Cash", txn.PaymentMethodName)

	suite.Require().NotNil(savedTxn)
	suite.Equal(txn.TransactionID, savedTxn.TransactionID)
	for i, item := range savedTxn.Items {
		suite.Equal(savedTxn.TransactionID, item.TransactionID)
		suite.NotEmpty(item.ItemID)
		suite.Equal(i+1, item.LineNumber)
	}
	suite.Require().NotNil(savedActivity)
	suite.Equal("create_transaction", savedActivity.Action)
	suite.Equal(suite.cashierID, savedActivity.UserID)
}

func (suite *TransactionServiceTestSuite) TestCreateTransactionPendingWithoutPayment() {
	req := suite.validCheckoutRequest()
	pending := string(domain.StatusPending)
	req.Status = &pending
	req.PaidAmount = decimal.Zero
	req.ChangeAmount = decimal.Zero

	suite.mockMethodSvc.On("GetPaymentMethodByCode", mock.Anything, "cash").Return(&suite.cashMethod, nil)
	suite.mockTxnRepo.On("SaveTransaction", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	txn, err := suite.service.CreateTransaction(context.Background(), req, suite.cashierID)
	suite.Require().NoError(err)
	suite.Equal(domain.StatusPending, txn.Status)
}

func (suite *TransactionServiceTestSuite) TestCreateTransactionLineSubtotalMismatch() {
	req := suite.validCheckoutRequest()
	req.Items[0].Subtotal = decimal.NewFromInt(26000)

	_, err := suite.service.CreateTransaction(context.Background(), req, suite.cashierID)
	suite.ErrorIs(err, services.ErrLineSubtotalMismatch)
	suite.mockTxnRepo.AssertNotCalled(suite.T(), "SaveTransaction", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *TransactionServiceTestSuite) TestCreateTransactionHeaderTotalMismatch() {
	req := suite.validCheckoutRequest()
	req.Total = decimal.NewFromInt(29000)

	_, err := suite.service.CreateTransaction(context.Background(), req, suite.cashierID)
	suite.ErrorIs(err, services.ErrTotalMismatch)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *TransactionServiceTestSuite) TestCreateTransactionDiscountExceedsTotal() {
	req := suite.validCheckoutRequest()
	req.Discount = decimal.NewFromInt(40000)
	req.Total = decimal.Zero

	_, err := suite.service.CreateTransaction(context.Background(), req, suite.cashierID)
	suite.ErrorIs(err, services.ErrDiscountExceedsTotal)
}

func (suite *TransactionServiceTestSuite) TestCreateTransactionDiscountClamped() {
	clampingService := services.NewTransactionService(suite.mockTxnRepo, suite.mockMethodSvc, "INV", true)

	req := suite.validCheckoutRequest()
	req.Discount = decimal.NewFromInt(40000)
	req.Total = decimal.Zero
	req.PaidAmount = decimal.Zero
	req.ChangeAmount = decimal.Zero

	suite.mockMethodSvc.On("GetPaymentMethodByCode", mock.Anything, "cash").Return(&suite.cashMethod, nil)
	suite.mockTxnRepo.On("SaveTransaction", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	txn, err := clampingService.CreateTransaction(context.Background(), req, suite.cashierID)
	suite.Require().NoError(err)

	// Discount is clamped to subtotal + tax, so the payable amount is zero.
	suite.True(txn.Discount.Equal(decimal.NewFromInt(33000)))
	suite.True(txn.Total.IsZero())
}

func (suite *TransactionServiceTestSuite) TestCreateTransactionPaymentInsufficient() {
	req := suite.validCheckoutRequest()
	req.PaidAmount = decimal.NewFromInt(20000)
	req.ChangeAmount = decimal.Zero

	_, err := suite.service.CreateTransaction(context.Background(), req, suite.cashierID)
	suite.ErrorIs(err, services.ErrPaymentInsufficient)
}

func (suite *TransactionServiceTestSuite) TestCreateTransactionChangeMismatch() {
	req := suite.validCheckoutRequest()
	req.ChangeAmount = decimal.NewFromInt(10000)

	_, err := suite.service.CreateTransaction(context.Background(), req, suite.cashierID)
	suite.ErrorIs(err, services.ErrChangeMismatch)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockTxnRepo.AssertNotCalled(suite.T(), "SaveTransaction", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *TransactionServiceTestSuite) TestCreateTransactionInactiveMethod() {
	inactive := suite.cashMethod
	inactive.IsActive = false
	suite.mockMethodSvc.On("GetPaymentMethodByCode", mock.Anything, "cash").Return(&inactive, nil)

	_, err := suite.service.CreateTransaction(context.Background(), suite.validCheckoutRequest(), suite.cashierID)
	suite.ErrorIs(err, services.ErrMethodInactive)
}

func (suite *TransactionServiceTestSuite) TestSettlePendingTransaction() {
	txn := suite.completedTransaction()
	txn.Status = domain.StatusPending
	suite.mockTxnRepo.On("FindTransactionByID", mock.Anything, txn.TransactionID).Return(txn, nil)

	var balanceChange decimal.Decimal
	var movements []domain.StockMovement
	suite.mockTxnRepo.On("FinalizeTransition", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			if args.Get(2) != nil {
				movements = args.Get(2).([]domain.StockMovement)
			}
			balanceChange = args.Get(3).(decimal.Decimal)
		}).Return(nil)

	settled, err := suite.service.SettleTransaction(context.Background(), txn.TransactionID, suite.cashierID)
	suite.Require().NoError(err)

	suite.Equal(domain.StatusCompleted, settled.Status)
	// Settling credits the method with the full total; stock already left at
	// creation so no movements are written.
	suite.True(balanceChange.Equal(txn.Total))
	suite.Nil(movements)
}

func (suite *TransactionServiceTestSuite) TestSettleCompletedFails() {
	txn := suite.completedTransaction()
	suite.mockTxnRepo.On("FindTransactionByID", mock.Anything, txn.TransactionID).Return(txn, nil)

	_, err := suite.service.SettleTransaction(context.Background(), txn.TransactionID, suite.cashierID)
	suite.ErrorIs(err, apperrors.ErrInvalidState)
	suite.mockTxnRepo.AssertNotCalled(suite.T(), "FinalizeTransition", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *TransactionServiceTestSuite) TestCancelCompletedTransaction() {
	txn := suite.completedTransaction()
	suite.mockTxnRepo.On("FindTransactionByID", mock.Anything, txn.TransactionID).Return(txn, nil)

	var balanceChange decimal.Decimal
	var movements []domain.StockMovement
	suite.mockTxnRepo.On("FinalizeTransition", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			movements = args.Get(2).([]domain.StockMovement)
			balanceChange = args.Get(3).(decimal.Decimal)
		}).Return(nil)

	cancelled, err := suite.service.CancelTransaction(context.Background(), txn.TransactionID, "wrong order", suite.cashierID)
	suite.Require().NoError(err)

	suite.Equal(domain.StatusCancelled, cancelled.Status)
	suite.Require().NotNil(cancelled.CancelReason)
	suite.Equal("wrong order", *cancelled.CancelReason)
	suite.NotNil(cancelled.CancelledAt)

	// A completed sale had credited the balance, so cancelling debits it back.
	suite.True(balanceChange.Equal(txn.Total.Neg()))

	suite.Require().Len(movements, 2)
	for i, movement := range movements {
		suite.Equal(domain.MovementIn, movement.Direction)
		suite.Equal(txn.Items[i].ProductID, movement.ProductID)
		suite.Equal(txn.Items[i].Quantity, movement.Quantity)
		suite.Equal("CANCEL-"+txn.InvoiceNumber, movement.Reference)
	}
}

func (suite *TransactionServiceTestSuite) TestCancelPendingTransactionKeepsBalance() {
	txn := suite.completedTransaction()
	txn.Status = domain.StatusPending
	suite.mockTxnRepo.On("FindTransactionByID", mock.Anything, txn.TransactionID).Return(txn, nil)

	var balanceChange decimal.Decimal
	suite.mockTxnRepo.On("FinalizeTransition", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			balanceChange = args.Get(3).(decimal.Decimal)
		}).Return(nil)

	_, err := suite.service.CancelTransaction(context.Background(), txn.TransactionID, "changed mind", suite.cashierID)
	suite.Require().NoError(err)

	// A pending sale never touched the balance, so there is nothing to debit.
	suite.True(balanceChange.IsZero())
}

func (suite *TransactionServiceTestSuite) TestCancelCancelledFails() {
	txn := suite.completedTransaction()
	txn.Status = domain.StatusCancelled
	suite.mockTxnRepo.On("FindTransactionByID", mock.Anything, txn.TransactionID).Return(txn, nil)

	_, err := suite.service.CancelTransaction(context.Background(), txn.TransactionID, "again", suite.cashierID)
	suite.ErrorIs(err, apperrors.ErrInvalidState)
}

func (suite *TransactionServiceTestSuite) TestRefundPendingFails() {
	txn := suite.completedTransaction()
	txn.Status = domain.StatusPending
	suite.mockTxnRepo.On("FindTransactionByID", mock.Anything, txn.TransactionID).Return(txn, nil)

	_, err := suite.service.RefundTransaction(context.Background(), txn.TransactionID, dto.RefundTransactionRequest{Reason: "broken"}, suite.cashierID)
	suite.ErrorIs(err, apperrors.ErrInvalidState)
}

func (suite *TransactionServiceTestSuite) TestRefundDefaultsToFullTotal() {
	txn := suite.completedTransaction()
	suite.mockTxnRepo.On("FindTransactionByID", mock.Anything, txn.TransactionID).Return(txn, nil)

	var balanceChange decimal.Decimal
	suite.mockTxnRepo.On("FinalizeTransition", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			balanceChange = args.Get(3).(decimal.Decimal)
		}).Return(nil)

	refunded, err := suite.service.RefundTransaction(context.Background(), txn.TransactionID, dto.RefundTransactionRequest{Reason: "broken"}, suite.cashierID)
	suite.Require().NoError(err)

	suite.Equal(domain.StatusRefunded, refunded.Status)
	suite.Require().NotNil(refunded.RefundAmount)
	suite.True(refunded.RefundAmount.Equal(txn.Total))
	suite.True(balanceChange.Equal(txn.Total.Neg()))
}

func (suite *TransactionServiceTestSuite) TestRefundPartialReturnsStockInFull() {
	txn := suite.completedTransaction()
	suite.mockTxnRepo.On("FindTransactionByID", mock.Anything, txn.TransactionID).Return(txn, nil)

	var balanceChange decimal.Decimal
	var movements []domain.StockMovement
	suite.mockTxnRepo.On("FinalizeTransition", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			movements = args.Get(2).([]domain.StockMovement)
			balanceChange = args.Get(3).(decimal.Decimal)
		}).Return(nil)

	partial := decimal.NewFromInt(30000)
	refunded, err := suite.service.RefundTransaction(context.Background(), txn.TransactionID, dto.RefundTransactionRequest{
		RefundAmount: &partial,
		Reason:       "price complaint",
	}, suite.cashierID)
	suite.Require().NoError(err)

	suite.Require().NotNil(refunded.RefundAmount)
	suite.True(refunded.RefundAmount.Equal(partial))
	suite.True(balanceChange.Equal(partial.Neg()))

	// Stock always returns in full, even for a partial refund.
	suite.Require().Len(movements, 2)
	suite.Equal(2, movements[0].Quantity)
	suite.Equal(6, movements[1].Quantity)
	suite.Equal("REFUND-"+txn.InvoiceNumber, movements[0].Reference)
}

func (suite *TransactionServiceTestSuite) TestRefundExceedingTotalFails() {
	txn := suite.completedTransaction()
	suite.mockTxnRepo.On("FindTransactionByID", mock.Anything, txn.TransactionID).Return(txn, nil)

	tooMuch := decimal.NewFromInt(60000)
	_, err := suite.service.RefundTransaction(context.Background(), txn.TransactionID, dto.RefundTransactionRequest{
		RefundAmount: &tooMuch,
		Reason:       "oops",
	}, suite.cashierID)
	suite.ErrorIs(err, services.ErrRefundExceedsTotal)
}

// Checkout accepts any payload whose money columns reconcile, so random
// valid inputs must all pass and preserve total = subtotal + tax - discount.
func (suite *TransactionServiceTestSuite) TestCreateTransactionTotalsIdentityRandomized() {
	rng := rand.New(rand.NewSource(42))
	suite.mockMethodSvc.On("GetPaymentMethodByCode", mock.Anything, "cash").Return(&suite.cashMethod, nil)
	suite.mockTxnRepo.On("SaveTransaction", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	for i := 0; i < 200; i++ {
		lineCount := 1 + rng.Intn(5)
		items := make([]dto.CheckoutItemRequest, lineCount)
		subtotal := decimal.Zero
		for j := range items {
			quantity := 1 + rng.Intn(9)
			price := decimal.NewFromInt(int64(500 * (1 + rng.Intn(40))))
			gross := price.Mul(decimal.NewFromInt(int64(quantity)))
			lineDiscount := decimal.NewFromInt(int64(rng.Intn(500)))
			lineSubtotal := gross.Sub(lineDiscount)

			items[j] = dto.CheckoutItemRequest{
				ProductID:   uuid.NewString(),
				ProductName: "Random Product",
				Quantity:    quantity,
				Price:       price,
				Discount:    lineDiscount,
				Subtotal:    lineSubtotal,
			}
			subtotal = subtotal.Add(lineSubtotal)
		}

		tax := decimal.NewFromInt(int64(rng.Intn(5000)))
		gross := subtotal.Add(tax)
		discount := decimal.NewFromInt(int64(rng.Intn(3000)))
		if discount.GreaterThan(gross) {
			discount = gross
		}
		total := gross.Sub(discount)
		paid := total.Add(decimal.NewFromInt(int64(rng.Intn(10000))))

		req := dto.CreateTransactionRequest{
			CustomerType:  "general",
			CustomerName:  "Walk-in",
			Items:         items,
			Subtotal:      subtotal,
			Tax:           tax,
			Discount:      discount,
			Total:         total,
			PaymentMethod: "cash",
			PaidAmount:    paid,
			ChangeAmount:  paid.Sub(total),
		}

		txn, err := suite.service.CreateTransaction(context.Background(), req, suite.cashierID)
		suite.Require().NoError(err)
		suite.True(txn.Total.Equal(txn.Subtotal.Add(txn.Tax).Sub(txn.Discount)))
	}
}

func (suite *TransactionServiceTestSuite) TestListTransactionsClampsLimit() {
	suite.mockTxnRepo.On("ListTransactions", mock.Anything, mock.Anything, 100, (*string)(nil)).
		Return([]domain.Transaction{}, nil, nil)

	_, _, err := suite.service.ListTransactions(context.Background(), dto.ListTransactionsParams{Limit: 500})
	suite.Require().NoError(err)
	suite.mockTxnRepo.AssertExpectations(suite.T())
}

func TestTransactionServiceTestSuite(t *testing.T) {
	suite.Run(t, new(TransactionServiceTestSuite))
}
