package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/koperasi-pos/kasir_backend/internal/core/domain"
)

// PaymentMethodReader defines read operations for payment methods.
type PaymentMethodReader interface {
	FindPaymentMethodByID(ctx context.Context, methodID string) (*domain.PaymentMethod, error)
	FindPaymentMethodByCode(ctx context.Context, code string) (*domain.PaymentMethod, error)
	ListPaymentMethods(ctx context.Context, activeOnly bool) ([]domain.PaymentMethod, error)
}

// PaymentMethodWriter defines write operations for payment methods.
type PaymentMethodWriter interface {
	SavePaymentMethod(ctx context.Context, method *domain.PaymentMethod) error
	UpdatePaymentMethod(ctx context.Context, method *domain.PaymentMethod) error
	DeactivatePaymentMethod(ctx context.Context, methodID string, userID string) error
	// ApplyManualAdjustment corrects a balance outside the transaction
	// ledger. adjustType is add, subtract or set. The adjustment and its
	// audit log entry commit atomically; the updated method is returned.
	ApplyManualAdjustment(ctx context.Context, methodID string, adjustType string, amount decimal.Decimal, activity *domain.ActivityLog) (*domain.PaymentMethod, error)
}

// PaymentMethodTxOperator defines payment method operations that participate
// in a caller managed database transaction.
type PaymentMethodTxOperator interface {
	// FindPaymentMethodByCodeForUpdate locks the method row.
	FindPaymentMethodByCodeForUpdate(ctx context.Context, tx pgx.Tx, code string) (*domain.PaymentMethod, error)
	// UpdatePaymentMethodBalanceInTx applies a signed balance delta.
	UpdatePaymentMethodBalanceInTx(ctx context.Context, tx pgx.Tx, methodID string, delta decimal.Decimal, userID string, now time.Time) error
}

// PaymentMethodRepositoryFacade combines reader and writer operations.
type PaymentMethodRepositoryFacade interface {
	PaymentMethodReader
	PaymentMethodWriter
}

// PaymentMethodRepositoryWithTx additionally exposes the transaction-scoped
// operations used by the transaction writer.
type PaymentMethodRepositoryWithTx interface {
	PaymentMethodRepositoryFacade
	PaymentMethodTxOperator
}
