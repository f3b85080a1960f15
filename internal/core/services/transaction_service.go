package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/koperasi-pos/kasir_backend/internal/apperrors"
	"github.com/koperasi-pos/kasir_backend/internal/core/domain"
	portsrepo "github.com/koperasi-pos/kasir_backend/internal/core/ports/repositories"
	portssvc "github.com/koperasi-pos/kasir_backend/internal/core/ports/services"
	"github.com/koperasi-pos/kasir_backend/internal/dto"
	"github.com/koperasi-pos/kasir_backend/internal/middleware"
	"github.com/koperasi-pos/kasir_backend/internal/utils"
)

var (
	ErrTotalMismatch        = fmt.Errorf("%w: transaction totals do not reconcile with line items", apperrors.ErrValidation)
	ErrLineSubtotalMismatch = fmt.Errorf("%w: line subtotal does not equal price times quantity minus discount", apperrors.ErrValidation)
	ErrDiscountExceedsTotal = fmt.Errorf("%w: discount exceeds subtotal plus tax", apperrors.ErrValidation)
	ErrPaymentInsufficient  = fmt.Errorf("%w: paid amount is less than transaction total", apperrors.ErrValidation)
	ErrChangeMismatch       = fmt.Errorf("%w: change amount does not equal paid amount minus total", apperrors.ErrValidation)
	ErrRefundExceedsTotal   = fmt.Errorf("%w: refund amount exceeds transaction total", apperrors.ErrValidation)
	ErrRefundNotPositive    = fmt.Errorf("%w: refund amount must be positive", apperrors.ErrValidation)
	ErrMethodInactive       = fmt.Errorf("%w: payment method is inactive", apperrors.ErrValidation)
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

// transactionService implements the checkout and transaction lifecycle.
type transactionService struct {
	txnRepo       portsrepo.TransactionRepositoryFacade
	methodSvc     portssvc.PaymentMethodReaderSvc
	invoicePrefix string
	clampDiscount bool
}

// NewTransactionService creates a new TransactionService.
func NewTransactionService(txnRepo portsrepo.TransactionRepositoryFacade, methodSvc portssvc.PaymentMethodReaderSvc, invoicePrefix string, clampDiscount bool) portssvc.TransactionSvcFacade {
	return &transactionService{
		txnRepo:       txnRepo,
		methodSvc:     methodSvc,
		invoicePrefix: invoicePrefix,
		clampDiscount: clampDiscount,
	}
}

var _ portssvc.TransactionSvcFacade = (*transactionService)(nil)

// validateTotals recomputes the money columns from the line items and checks
// them against the client-sent header. The server arithmetic is
// authoritative; a client that disagrees gets a validation error rather than
// a silently corrected transaction.
func (s *transactionService) validateTotals(req *dto.CreateTransactionRequest) error {
	lineSum := decimal.Zero
	for _, item := range req.Items {
		expected := item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))).Sub(item.Discount)
		if !item.Subtotal.Equal(expected) {
			return fmt.Errorf("%w: product %s", ErrLineSubtotalMismatch, item.ProductID)
		}
		lineSum = lineSum.Add(item.Subtotal)
	}

	if !req.Subtotal.Equal(lineSum) {
		return fmt.Errorf("%w: header subtotal %s, line sum %s", ErrTotalMismatch, req.Subtotal.String(), lineSum.String())
	}

	gross := req.Subtotal.Add(req.Tax)
	if req.Discount.GreaterThan(gross) {
		if !s.clampDiscount {
			return fmt.Errorf("%w: discount %s against %s", ErrDiscountExceedsTotal, req.Discount.String(), gross.String())
		}
		req.Discount = gross
	}

	expectedTotal := gross.Sub(req.Discount)
	if !req.Total.Equal(expectedTotal) {
		return fmt.Errorf("%w: header total %s, computed %s", ErrTotalMismatch, req.Total.String(), expectedTotal.String())
	}

	expectedChange := req.PaidAmount.Sub(expectedTotal)
	if expectedChange.IsNegative() {
		expectedChange = decimal.Zero
	}
	if !req.ChangeAmount.Equal(expectedChange) {
		return fmt.Errorf("%w: header change %s, computed %s", ErrChangeMismatch, req.ChangeAmount.String(), expectedChange.String())
	}

	return nil
}

// CreateTransaction validates and persists a checkout. The transaction rows,
// the stock decrements with their ledger movements, the payment method
// balance credit (for completed transactions) and the audit log entry are
// committed as one database transaction.
func (s *transactionService) CreateTransaction(ctx context.Context, req dto.CreateTransactionRequest, cashierID string) (*domain.Transaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.validateTotals(&req); err != nil {
		return nil, err
	}

	status := domain.StatusCompleted
	if req.Status != nil && *req.Status == string(domain.StatusPending) {
		status = domain.StatusPending
	}

	// Completed sales settle immediately, so the tendered amount must cover
	// the total. Pending sales are paid later.
	if status == domain.StatusCompleted && req.PaidAmount.LessThan(req.Total) {
		return nil, fmt.Errorf("%w: paid %s against total %s", ErrPaymentInsufficient, req.PaidAmount.String(), req.Total.String())
	}

	method, err := s.methodSvc.GetPaymentMethodByCode(ctx, req.PaymentMethod)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve payment method %s: %w", req.PaymentMethod, err)
	}
	if !method.IsActive {
		return nil, fmt.Errorf("%w: %s", ErrMethodInactive, method.Code)
	}

	now := time.Now().UTC()
	invoiceNumber, err := utils.GenerateInvoiceNumber(s.invoicePrefix, now)
	if err != nil {
		return nil, fmt.Errorf("failed to generate invoice number: %w", err)
	}

	transactionID := uuid.NewString()
	items := make([]domain.TransactionItem, len(req.Items))
	for i, itemReq := range req.Items {
		items[i] = domain.TransactionItem{
			ItemID:        uuid.NewString(),
			TransactionID: transactionID,
			LineNumber:    i + 1,
			ProductID:     itemReq.ProductID,
			ProductName:   itemReq.ProductName,
			SKU:           itemReq.SKU,
			Quantity:      itemReq.Quantity,
			Price:         itemReq.Price,
			Discount:      itemReq.Discount,
			Subtotal:      itemReq.Subtotal,
		}
	}

	methodName := req.PaymentMethodName
	if methodName == "" {
		methodName = method.Name
	}

	txn := domain.Transaction{
		TransactionID:     transactionID,
		InvoiceNumber:     invoiceNumber,
		TransactionDate:   now,
		CustomerType:      domain.CustomerType(req.CustomerType),
		CustomerID:        req.CustomerID,
		CustomerName:      req.CustomerName,
		Items:             items,
		Subtotal:          req.Subtotal,
		Tax:               req.Tax,
		Discount:          req.Discount,
		Total:             req.Total,
		PaymentMethod:     method.Code,
		PaymentMethodName: methodName,
		PaidAmount:        req.PaidAmount,
		ChangeAmount:      req.ChangeAmount,
		Status:            status,
		CashierID:         cashierID,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     cashierID,
			LastUpdatedAt: now,
			LastUpdatedBy: cashierID,
		},
	}

	activity := domain.ActivityLog{
		LogID:       uuid.NewString(),
		UserID:      cashierID,
		Action:      "create_transaction",
		Module:      "pos",
		Description: fmt.Sprintf("Created transaction %s", invoiceNumber),
		Details: map[string]any{
			"transactionID": transactionID,
			"invoiceNumber": invoiceNumber,
			"total":         req.Total.String(),
			"status":        string(status),
		},
		CreatedAt: now,
	}

	if err := s.txnRepo.SaveTransaction(ctx, &txn, &activity); err != nil {
		logger.Error("Failed to save transaction", slog.String("error", err.Error()), slog.String("invoice_number", invoiceNumber))
		return nil, fmt.Errorf("failed to save transaction: %w", err)
	}

	logger.Info("Transaction created", slog.String("transaction_id", transactionID), slog.String("invoice_number", invoiceNumber), slog.String("status", string(status)))
	return &txn, nil
}

// SettleTransaction moves a pending transaction to completed and credits the
// payment method balance with the transaction total. Stock was already taken
// at creation, so no movements are written.
func (s *transactionService) SettleTransaction(ctx context.Context, transactionID string, userID string) (*domain.Transaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	txn, err := s.txnRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to find transaction %s: %w", transactionID, err)
	}

	if !txn.Status.CanTransitionTo(domain.StatusCompleted) {
		return nil, fmt.Errorf("%w: cannot settle a %s transaction", apperrors.ErrInvalidState, txn.Status)
	}

	now := time.Now().UTC()
	txn.Status = domain.StatusCompleted
	txn.LastUpdatedAt = now
	txn.LastUpdatedBy = userID

	activity := domain.ActivityLog{
		LogID:       uuid.NewString(),
		UserID:      userID,
		Action:      "settle_transaction",
		Module:      "transactions",
		Description: fmt.Sprintf("Settled transaction %s", txn.InvoiceNumber),
		Details: map[string]any{
			"transactionID": txn.TransactionID,
			"invoiceNumber": txn.InvoiceNumber,
			"total":         txn.Total.String(),
		},
		CreatedAt: now,
	}

	if err := s.txnRepo.FinalizeTransition(ctx, txn, nil, txn.Total, &activity); err != nil {
		logger.Error("Failed to settle transaction", slog.String("error", err.Error()), slog.String("transaction_id", transactionID))
		return nil, fmt.Errorf("failed to settle transaction %s: %w", transactionID, err)
	}

	logger.Info("Transaction settled", slog.String("transaction_id", transactionID), slog.String("invoice_number", txn.InvoiceNumber))
	return txn, nil
}

// CancelTransaction voids a pending or completed transaction. Stock taken at
// creation is returned through compensating ledger movements; the payment
// method balance is debited only when the transaction had been completed.
func (s *transactionService) CancelTransaction(ctx context.Context, transactionID string, reason string, userID string) (*domain.Transaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	txn, err := s.txnRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to find transaction %s: %w", transactionID, err)
	}

	if !txn.Status.CanTransitionTo(domain.StatusCancelled) {
		return nil, fmt.Errorf("%w: cannot cancel a %s transaction", apperrors.ErrInvalidState, txn.Status)
	}

	wasCompleted := txn.Status == domain.StatusCompleted
	now := time.Now().UTC()
	reference := "CANCEL-" + txn.InvoiceNumber

	movements := make([]domain.StockMovement, len(txn.Items))
	for i, item := range txn.Items {
		movements[i] = domain.StockMovement{
			MovementID: uuid.NewString(),
			ProductID:  item.ProductID,
			Direction:  domain.MovementIn,
			Quantity:   item.Quantity,
			Reference:  reference,
			Notes:      reason,
			CreatedAt:  now,
			CreatedBy:  userID,
		}
	}

	balanceChange := decimal.Zero
	if wasCompleted {
		balanceChange = txn.Total.Neg()
	}

	txn.Status = domain.StatusCancelled
	txn.CancelReason = &reason
	txn.CancelledAt = &now
	txn.LastUpdatedAt = now
	txn.LastUpdatedBy = userID

	activity := domain.ActivityLog{
		LogID:       uuid.NewString(),
		UserID:      userID,
		Action:      "cancel_transaction",
		Module:      "transactions",
		Description: fmt.Sprintf("Cancelled transaction %s", txn.InvoiceNumber),
		Details: map[string]any{
			"transactionID": txn.TransactionID,
			"invoiceNumber": txn.InvoiceNumber,
			"reason":        reason,
			"wasCompleted":  wasCompleted,
		},
		CreatedAt: now,
	}

	if err := s.txnRepo.FinalizeTransition(ctx, txn, movements, balanceChange, &activity); err != nil {
		logger.Error("Failed to cancel transaction", slog.String("error", err.Error()), slog.String("transaction_id", transactionID))
		return nil, fmt.Errorf("failed to cancel transaction %s: %w", transactionID, err)
	}

	logger.Info("Transaction cancelled", slog.String("transaction_id", transactionID), slog.String("invoice_number", txn.InvoiceNumber))
	return txn, nil
}

// RefundTransaction refunds a completed transaction. The refund amount
// defaults to the transaction total and may be partial, but stock always
// returns in full: a partial refund means the customer was reimbursed part
// of the price, not that some goods stayed sold.
func (s *transactionService) RefundTransaction(ctx context.Context, transactionID string, req dto.RefundTransactionRequest, userID string) (*domain.Transaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	txn, err := s.txnRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to find transaction %s: %w", transactionID, err)
	}

	if txn.Status != domain.StatusCompleted || !txn.Status.CanTransitionTo(domain.StatusRefunded) {
		return nil, fmt.Errorf("%w: cannot refund a %s transaction", apperrors.ErrInvalidState, txn.Status)
	}

	refundAmount := txn.Total
	if req.RefundAmount != nil {
		refundAmount = *req.RefundAmount
	}
	if !refundAmount.IsPositive() {
		return nil, ErrRefundNotPositive
	}
	if refundAmount.GreaterThan(txn.Total) {
		return nil, fmt.Errorf("%w: %s against %s", ErrRefundExceedsTotal, refundAmount.String(), txn.Total.String())
	}

	now := time.Now().UTC()
	reference := "REFUND-" + txn.InvoiceNumber

	movements := make([]domain.StockMovement, len(txn.Items))
	for i, item := range txn.Items {
		movements[i] = domain.StockMovement{
			MovementID: uuid.NewString(),
			ProductID:  item.ProductID,
			Direction:  domain.MovementIn,
			Quantity:   item.Quantity,
			Reference:  reference,
			Notes:      req.Reason,
			CreatedAt:  now,
			CreatedBy:  userID,
		}
	}

	txn.Status = domain.StatusRefunded
	txn.RefundAmount = &refundAmount
	txn.RefundReason = &req.Reason
	txn.RefundMethod = req.RefundMethod
	txn.RefundedAt = &now
	txn.LastUpdatedAt = now
	txn.LastUpdatedBy = userID

	activity := domain.ActivityLog{
		LogID:       uuid.NewString(),
		UserID:      userID,
		Action:      "refund_transaction",
		Module:      "transactions",
		Description: fmt.Sprintf("Refunded transaction %s", txn.InvoiceNumber),
		Details: map[string]any{
			"transactionID": txn.TransactionID,
			"invoiceNumber": txn.InvoiceNumber,
			"refundAmount":  refundAmount.String(),
			"reason":        req.Reason,
		},
		CreatedAt: now,
	}

	if err := s.txnRepo.FinalizeTransition(ctx, txn, movements, refundAmount.Neg(), &activity); err != nil {
		logger.Error("Failed to refund transaction", slog.String("error", err.Error()), slog.String("transaction_id", transactionID))
		return nil, fmt.Errorf("failed to refund transaction %s: %w", transactionID, err)
	}

	logger.Info("Transaction refunded", slog.String("transaction_id", transactionID), slog.String("invoice_number", txn.InvoiceNumber), slog.String("refund_amount", refundAmount.String()))
	return txn, nil
}

// GetTransaction retrieves a transaction with its items.
func (s *transactionService) GetTransaction(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	txn, err := s.txnRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to find transaction %s: %w", transactionID, err)
	}
	return txn, nil
}

// GetTransactionByInvoice retrieves a transaction by its invoice number.
func (s *transactionService) GetTransactionByInvoice(ctx context.Context, invoiceNumber string) (*domain.Transaction, error) {
	txn, err := s.txnRepo.FindTransactionByInvoice(ctx, invoiceNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to find transaction by invoice %s: %w", invoiceNumber, err)
	}
	return txn, nil
}

// ListTransactions returns one page of transactions plus the cursor for the
// next page when more rows exist.
func (s *transactionService) ListTransactions(ctx context.Context, params dto.ListTransactionsParams) ([]domain.Transaction, *string, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	filter := domain.TransactionFilter{
		PaymentMethod: params.PaymentMethod,
		StartDate:     params.StartDate,
		EndDate:       params.EndDate,
	}
	if params.Status != nil {
		status := domain.TransactionStatus(*params.Status)
		filter.Status = &status
	}
	if params.CustomerType != nil {
		customerType := domain.CustomerType(*params.CustomerType)
		filter.CustomerType = &customerType
	}

	transactions, nextToken, err := s.txnRepo.ListTransactions(ctx, filter, limit, params.NextToken)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return transactions, nextToken, nil
}
