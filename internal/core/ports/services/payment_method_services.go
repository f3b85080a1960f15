package services

import (
	"context"

	"github.com/koperasi-pos/kasir_backend/internal/core/domain"
	"github.com/koperasi-pos/kasir_backend/internal/dto"
)

// PaymentMethodReaderSvc defines read operations for payment methods.
type PaymentMethodReaderSvc interface {
	GetPaymentMethod(ctx context.Context, methodID string) (*domain.PaymentMethod, error)
	GetPaymentMethodByCode(ctx context.Context, code string) (*domain.PaymentMethod, error)
	ListPaymentMethods(ctx context.Context, activeOnly bool) ([]domain.PaymentMethod, error)
}

// PaymentMethodWriterSvc defines write operations for payment methods.
type PaymentMethodWriterSvc interface {
	CreatePaymentMethod(ctx context.Context, req dto.CreatePaymentMethodRequest, userID string) (*domain.PaymentMethod, error)
	UpdatePaymentMethod(ctx context.Context, methodID string, req dto.UpdatePaymentMethodRequest, userID string) (*domain.PaymentMethod, error)
	DeactivatePaymentMethod(ctx context.Context, methodID string, userID string) error
	AdjustBalance(ctx context.Context, methodID string, req dto.AdjustBalanceRequest, userID string) (*domain.PaymentMethod, error)
}

// PaymentMethodSvcFacade combines reader and writer operations.
type PaymentMethodSvcFacade interface {
	PaymentMethodReaderSvc
	PaymentMethodWriterSvc
}
