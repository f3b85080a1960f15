package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/koperasi-pos/kasir_backend/internal/apperrors"
	"github.com/koperasi-pos/kasir_backend/internal/core/domain"
	portsrepo "github.com/koperasi-pos/kasir_backend/internal/core/ports/repositories"
	"github.com/koperasi-pos/kasir_backend/internal/models"
	"github.com/koperasi-pos/kasir_backend/internal/utils/mapping"
)

type PgxPaymentMethodRepository struct {
	BaseRepository
	activityRepo portsrepo.ActivityLogTxWriter
}

// newPgxPaymentMethodRepository creates a new repository for payment methods.
func newPgxPaymentMethodRepository(pool *pgxpool.Pool, activityRepo portsrepo.ActivityLogTxWriter) portsrepo.PaymentMethodRepositoryWithTx {
	return &PgxPaymentMethodRepository{
		BaseRepository: BaseRepository{Pool: pool},
		activityRepo:   activityRepo,
	}
}

var _ portsrepo.PaymentMethodRepositoryWithTx = (*PgxPaymentMethodRepository)(nil)

const paymentMethodColumns = `method_id, code, name, type, balance, is_active, display_order, created_at, created_by, last_updated_at, last_updated_by`

func scanPaymentMethod(row pgx.Row) (*models.PaymentMethod, error) {
	var m models.PaymentMethod
	err := row.Scan(
		&m.MethodID,
		&m.Code,
		&m.Name,
		&m.Type,
		&m.Balance,
		&m.IsActive,
		&m.DisplayOrder,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// SavePaymentMethod inserts a payment method.
func (r *PgxPaymentMethodRepository) SavePaymentMethod(ctx context.Context, method *domain.PaymentMethod) error {
	m := mapping.ToModelPaymentMethod(*method)
	query := `
		INSERT INTO payment_methods (` + paymentMethodColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.MethodID,
		m.Code,
		m.Name,
		m.Type,
		m.Balance,
		m.IsActive,
		m.DisplayOrder,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: payment method code %s already exists", apperrors.ErrDuplicate, method.Code)
		}
		return apperrors.NewAppError(500, "failed to insert payment method "+method.MethodID, err)
	}
	return nil
}

// FindPaymentMethodByID retrieves a payment method by its ID.
func (r *PgxPaymentMethodRepository) FindPaymentMethodByID(ctx context.Context, methodID string) (*domain.PaymentMethod, error) {
	query := `SELECT ` + paymentMethodColumns + ` FROM payment_methods WHERE method_id = $1;`
	m, err := scanPaymentMethod(r.Pool.QueryRow(ctx, query, methodID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find payment method by ID "+methodID, err)
	}
	method := mapping.ToDomainPaymentMethod(*m)
	return &method, nil
}

// FindPaymentMethodByCode retrieves a payment method by its unique code.
func (r *PgxPaymentMethodRepository) FindPaymentMethodByCode(ctx context.Context, code string) (*domain.PaymentMethod, error) {
	query := `SELECT ` + paymentMethodColumns + ` FROM payment_methods WHERE code = $1;`
	m, err := scanPaymentMethod(r.Pool.QueryRow(ctx, query, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find payment method by code "+code, err)
	}
	method := mapping.ToDomainPaymentMethod(*m)
	return &method, nil
}

// ListPaymentMethods retrieves payment methods ordered for display.
func (r *PgxPaymentMethodRepository) ListPaymentMethods(ctx context.Context, activeOnly bool) ([]domain.PaymentMethod, error) {
	query := `SELECT ` + paymentMethodColumns + ` FROM payment_methods`
	if activeOnly {
		query += ` WHERE is_active = TRUE`
	}
	query += ` ORDER BY display_order, name;`

	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query payment methods", err)
	}
	defer rows.Close()

	methods := []domain.PaymentMethod{}
	for rows.Next() {
		m, err := scanPaymentMethod(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan payment method row", err)
		}
		methods = append(methods, mapping.ToDomainPaymentMethod(*m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating payment method rows", err)
	}
	return methods, nil
}

// UpdatePaymentMethod updates the descriptive columns of a payment method.
// Balance is never written here.
func (r *PgxPaymentMethodRepository) UpdatePaymentMethod(ctx context.Context, method *domain.PaymentMethod) error {
	m := mapping.ToModelPaymentMethod(*method)
	query := `
		UPDATE payment_methods
		SET name = $2, type = $3, display_order = $4, is_active = $5,
		    last_updated_at = $6, last_updated_by = $7
		WHERE method_id = $1;
	`
	ct, err := r.Pool.Exec(ctx, query,
		m.MethodID,
		m.Name,
		m.Type,
		m.DisplayOrder,
		m.IsActive,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update payment method "+method.MethodID, err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeactivatePaymentMethod soft-deletes a payment method. The balance stays
// on the row.
func (r *PgxPaymentMethodRepository) DeactivatePaymentMethod(ctx context.Context, methodID string, userID string) error {
	query := `
		UPDATE payment_methods
		SET is_active = FALSE, last_updated_at = $2, last_updated_by = $3
		WHERE method_id = $1;
	`
	ct, err := r.Pool.Exec(ctx, query, methodID, time.Now().UTC(), userID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to deactivate payment method "+methodID, err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// ApplyManualAdjustment corrects a balance outside the transaction ledger.
// The balance change and its audit entry commit atomically.
func (r *PgxPaymentMethodRepository) ApplyManualAdjustment(ctx context.Context, methodID string, adjustType string, amount decimal.Decimal, activity *domain.ActivityLog) (*domain.PaymentMethod, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	query := `SELECT ` + paymentMethodColumns + ` FROM payment_methods WHERE method_id = $1 FOR UPDATE;`
	m, err := scanPaymentMethod(tx.QueryRow(ctx, query, methodID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to lock payment method "+methodID, err)
	}

	newBalance := m.Balance
	switch adjustType {
	case "add":
		newBalance = newBalance.Add(amount)
	case "subtract":
		newBalance = newBalance.Sub(amount)
	case "set":
		newBalance = amount
	default:
		return nil, fmt.Errorf("%w: unknown adjustment type %s", apperrors.ErrValidation, adjustType)
	}

	now := time.Now().UTC()
	_, err = tx.Exec(ctx, `
		UPDATE payment_methods
		SET balance = $2, last_updated_at = $3, last_updated_by = $4
		WHERE method_id = $1;
	`, methodID, newBalance, now, activity.UserID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to adjust balance for payment method "+methodID, err)
	}

	if activity.Details == nil {
		activity.Details = map[string]any{}
	}
	activity.Details["balanceBefore"] = m.Balance.String()
	activity.Details["balanceAfter"] = newBalance.String()
	if err := r.activityRepo.InsertActivityLogInTx(ctx, tx, activity); err != nil {
		return nil, apperrors.NewAppError(500, "failed to insert activity log for balance adjustment", err)
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}

	m.Balance = newBalance
	m.LastUpdatedAt = now
	m.LastUpdatedBy = activity.UserID
	method := mapping.ToDomainPaymentMethod(*m)
	return &method, nil
}

// FindPaymentMethodByCodeForUpdate locks the payment method row within a
// caller managed database transaction.
func (r *PgxPaymentMethodRepository) FindPaymentMethodByCodeForUpdate(ctx context.Context, tx pgx.Tx, code string) (*domain.PaymentMethod, error) {
	query := `SELECT ` + paymentMethodColumns + ` FROM payment_methods WHERE code = $1 FOR UPDATE;`
	m, err := scanPaymentMethod(tx.QueryRow(ctx, query, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: payment method %s", apperrors.ErrNotFound, code)
		}
		return nil, fmt.Errorf("failed to lock payment method %s: %w", code, err)
	}
	method := mapping.ToDomainPaymentMethod(*m)
	return &method, nil
}

// UpdatePaymentMethodBalanceInTx applies a signed balance delta to an
// already-locked payment method row.
func (r *PgxPaymentMethodRepository) UpdatePaymentMethodBalanceInTx(ctx context.Context, tx pgx.Tx, methodID string, delta decimal.Decimal, userID string, now time.Time) error {
	if delta.IsZero() {
		return nil
	}

	query := `
		UPDATE payment_methods
		SET balance = COALESCE(balance, 0) + $2, last_updated_at = $3, last_updated_by = $4
		WHERE method_id = $1;
	`
	ct, err := tx.Exec(ctx, query, methodID, delta, now, userID)
	if err != nil {
		return fmt.Errorf("failed to update balance for payment method %s: %w", methodID, err)
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("%w: payment method %s not found during balance update", apperrors.ErrNotFound, methodID)
	}
	return nil
}
