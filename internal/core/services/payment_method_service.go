package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/koperasi-pos/kasir_backend/internal/apperrors"
	"github.com/koperasi-pos/kasir_backend/internal/core/domain"
	portsrepo "github.com/koperasi-pos/kasir_backend/internal/core/ports/repositories"
	portssvc "github.com/koperasi-pos/kasir_backend/internal/core/ports/services"
	"github.com/koperasi-pos/kasir_backend/internal/dto"
	"github.com/koperasi-pos/kasir_backend/internal/middleware"
)

var ErrAdjustmentAmountMissing = errors.New("adjustment amount must be positive for add and subtract")

// paymentMethodService implements payment channel management.
type paymentMethodService struct {
	methodRepo portsrepo.PaymentMethodRepositoryFacade
}

// NewPaymentMethodService creates a new PaymentMethodService.
func NewPaymentMethodService(methodRepo portsrepo.PaymentMethodRepositoryFacade) portssvc.PaymentMethodSvcFacade {
	return &paymentMethodService{methodRepo: methodRepo}
}

var _ portssvc.PaymentMethodSvcFacade = (*paymentMethodService)(nil)

// CreatePaymentMethod registers a payment channel with a zero balance.
func (s *paymentMethodService) CreatePaymentMethod(ctx context.Context, req dto.CreatePaymentMethodRequest, userID string) (*domain.PaymentMethod, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	now := time.Now().UTC()
	method := domain.PaymentMethod{
		MethodID:     uuid.NewString(),
		Code:         req.Code,
		Name:         req.Name,
		Type:         domain.PaymentMethodType(req.Type),
		IsActive:     true,
		DisplayOrder: req.DisplayOrder,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.methodRepo.SavePaymentMethod(ctx, &method); err != nil {
		logger.Error("Failed to save payment method", slog.String("error", err.Error()), slog.String("code", req.Code))
		return nil, fmt.Errorf("failed to save payment method: %w", err)
	}

	logger.Info("Payment method created", slog.String("method_id", method.MethodID), slog.String("code", method.Code))
	return &method, nil
}

// GetPaymentMethod retrieves a payment method by ID.
func (s *paymentMethodService) GetPaymentMethod(ctx context.Context, methodID string) (*domain.PaymentMethod, error) {
	method, err := s.methodRepo.FindPaymentMethodByID(ctx, methodID)
	if err != nil {
		return nil, fmt.Errorf("failed to find payment method %s: %w", methodID, err)
	}
	return method, nil
}

// GetPaymentMethodByCode retrieves a payment method by its unique code.
func (s *paymentMethodService) GetPaymentMethodByCode(ctx context.Context, code string) (*domain.PaymentMethod, error) {
	method, err := s.methodRepo.FindPaymentMethodByCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to find payment method by code %s: %w", code, err)
	}
	return method, nil
}

// ListPaymentMethods returns payment methods ordered for display.
func (s *paymentMethodService) ListPaymentMethods(ctx context.Context, activeOnly bool) ([]domain.PaymentMethod, error) {
	methods, err := s.methodRepo.ListPaymentMethods(ctx, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to list payment methods: %w", err)
	}
	return methods, nil
}

// UpdatePaymentMethod applies a partial edit. Balance is untouchable here.
func (s *paymentMethodService) UpdatePaymentMethod(ctx context.Context, methodID string, req dto.UpdatePaymentMethodRequest, userID string) (*domain.PaymentMethod, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	method, err := s.methodRepo.FindPaymentMethodByID(ctx, methodID)
	if err != nil {
		return nil, fmt.Errorf("failed to find payment method %s: %w", methodID, err)
	}

	if req.Name != nil {
		method.Name = *req.Name
	}
	if req.Type != nil {
		method.Type = domain.PaymentMethodType(*req.Type)
	}
	if req.DisplayOrder != nil {
		method.DisplayOrder = *req.DisplayOrder
	}
	if req.IsActive != nil {
		method.IsActive = *req.IsActive
	}

	now := time.Now().UTC()
	method.LastUpdatedAt = now
	method.LastUpdatedBy = userID

	if err := s.methodRepo.UpdatePaymentMethod(ctx, method); err != nil {
		logger.Error("Failed to update payment method", slog.String("error", err.Error()), slog.String("method_id", methodID))
		return nil, fmt.Errorf("failed to update payment method %s: %w", methodID, err)
	}

	return method, nil
}

// DeactivatePaymentMethod soft-deletes a payment channel. The balance stays
// on the row for audit history.
func (s *paymentMethodService) DeactivatePaymentMethod(ctx context.Context, methodID string, userID string) error {
	if err := s.methodRepo.DeactivatePaymentMethod(ctx, methodID, userID); err != nil {
		return fmt.Errorf("failed to deactivate payment method %s: %w", methodID, err)
	}
	return nil
}

// AdjustBalance is the manual correction path. It bypasses the transaction
// ledger, so the repository writes the audit entry in the same database
// transaction as the balance change.
func (s *paymentMethodService) AdjustBalance(ctx context.Context, methodID string, req dto.AdjustBalanceRequest, userID string) (*domain.PaymentMethod, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	amount := req.Amount
	if req.AdjustmentType == "set" {
		amount = req.Balance
	} else if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrValidation, ErrAdjustmentAmountMissing)
	}

	activity := domain.ActivityLog{
		LogID:       uuid.NewString(),
		UserID:      userID,
		Action:      "adjust_payment_method_balance",
		Module:      "payment_methods",
		Description: fmt.Sprintf("Manual balance adjustment (%s)", req.AdjustmentType),
		Details: map[string]any{
			"methodID":       methodID,
			"adjustmentType": req.AdjustmentType,
			"amount":         amount.String(),
			"notes":          req.Notes,
		},
		CreatedAt: time.Now().UTC(),
	}

	method, err := s.methodRepo.ApplyManualAdjustment(ctx, methodID, req.AdjustmentType, amount, &activity)
	if err != nil {
		logger.Error("Failed to adjust payment method balance", slog.String("error", err.Error()), slog.String("method_id", methodID))
		return nil, fmt.Errorf("failed to adjust balance for payment method %s: %w", methodID, err)
	}

	logger.Info("Payment method balance adjusted", slog.String("method_id", methodID), slog.String("adjustment_type", req.AdjustmentType))
	return method, nil
}
