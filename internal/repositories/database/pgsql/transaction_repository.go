package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/koperasi-pos/kasir_backend/internal/apperrors"
	"github.com/koperasi-pos/kasir_backend/internal/core/domain"
	portsrepo "github.com/koperasi-pos/kasir_backend/internal/core/ports/repositories"
	"github.com/koperasi-pos/kasir_backend/internal/models"
	"github.com/koperasi-pos/kasir_backend/internal/utils/mapping"
	"github.com/koperasi-pos/kasir_backend/internal/utils/pagination"
)

type PgxTransactionRepository struct {
	BaseRepository
	productRepo  portsrepo.ProductTxOperator
	methodRepo   portsrepo.PaymentMethodTxOperator
	movementRepo portsrepo.StockMovementTxWriter
	activityRepo portsrepo.ActivityLogTxWriter
}

// newPgxTransactionRepository creates a new repository for transaction data.
func newPgxTransactionRepository(pool *pgxpool.Pool, productRepo portsrepo.ProductTxOperator, methodRepo portsrepo.PaymentMethodTxOperator, movementRepo portsrepo.StockMovementTxWriter, activityRepo portsrepo.ActivityLogTxWriter) portsrepo.TransactionRepositoryFacade {
	return &PgxTransactionRepository{
		BaseRepository: BaseRepository{Pool: pool},
		productRepo:    productRepo,
		methodRepo:     methodRepo,
		movementRepo:   movementRepo,
		activityRepo:   activityRepo,
	}
}

var _ portsrepo.TransactionRepositoryFacade = (*PgxTransactionRepository)(nil)

// guardTransition validates a status change against the row state as seen
// under the lock, not the service's earlier snapshot.
func guardTransition(current, next domain.TransactionStatus) error {
	if !current.CanTransitionTo(next) {
		return fmt.Errorf("%w: transaction is %s, cannot move to %s", apperrors.ErrInvalidState, current, next)
	}
	return nil
}

const transactionColumns = `transaction_id, invoice_number, transaction_date, customer_type, customer_id, customer_name, subtotal, tax, discount, total, payment_method, payment_method_name, paid_amount, change_amount, status, cancel_reason, cancelled_at, refund_amount, refund_reason, refund_method, refunded_at, cashier_id, created_at, created_by, last_updated_at, last_updated_by`

const transactionItemColumns = `item_id, transaction_id, line_number, product_id, product_name, sku, quantity, price, discount, subtotal`

func scanTransaction(row pgx.Row) (*models.Transaction, error) {
	var m models.Transaction
	err := row.Scan(
		&m.TransactionID,
		&m.InvoiceNumber,
		&m.TransactionDate,
		&m.CustomerType,
		&m.CustomerID,
		&m.CustomerName,
		&m.Subtotal,
		&m.Tax,
		&m.Discount,
		&m.Total,
		&m.PaymentMethod,
		&m.PaymentMethodName,
		&m.PaidAmount,
		&m.ChangeAmount,
		&m.Status,
		&m.CancelReason,
		&m.CancelledAt,
		&m.RefundAmount,
		&m.RefundReason,
		&m.RefundMethod,
		&m.RefundedAt,
		&m.CashierID,
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

// SaveTransaction persists a checkout as one database transaction: the
// header and items, a stock decrement plus ledger movement per line, the
// payment method balance credit when completed, and the audit log entry.
func (r *PgxTransactionRepository) SaveTransaction(ctx context.Context, txn *domain.Transaction, activity *domain.ActivityLog) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	m := mapping.ToModelTransaction(*txn)
	insertQuery := `
		INSERT INTO transactions (` + transactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26);
	`
	_, err = tx.Exec(ctx, insertQuery,
		m.TransactionID,
		m.InvoiceNumber,
		m.TransactionDate,
		m.CustomerType,
		m.CustomerID,
		m.CustomerName,
		m.Subtotal,
		m.Tax,
		m.Discount,
		m.Total,
		m.PaymentMethod,
		m.PaymentMethodName,
		m.PaidAmount,
		m.ChangeAmount,
		m.Status,
		m.CancelReason,
		m.CancelledAt,
		m.RefundAmount,
		m.RefundReason,
		m.RefundMethod,
		m.RefundedAt,
		m.CashierID,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: invoice number %s already exists", apperrors.ErrDuplicate, txn.InvoiceNumber)
		}
		return apperrors.NewAppError(500, "failed to insert transaction "+txn.TransactionID, err)
	}

	// Insert line items as a batch.
	itemQuery := `
		INSERT INTO transaction_items (` + transactionItemColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	batch := &pgx.Batch{}
	for _, item := range txn.Items {
		mi := mapping.ToModelTransactionItem(item)
		batch.Queue(itemQuery,
			mi.ItemID,
			mi.TransactionID,
			mi.LineNumber,
			mi.ProductID,
			mi.ProductName,
			mi.SKU,
			mi.Quantity,
			mi.Price,
			mi.Discount,
			mi.Subtotal,
		)
	}
	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return apperrors.NewAppError(500, "failed to execute item batch for transaction "+txn.TransactionID, err)
	}

	// Lock products, verify availability, apply stock decrements.
	stockChanges := make(map[string]int)
	for _, item := range txn.Items {
		stockChanges[item.ProductID] -= item.Quantity
	}
	productIDs := make([]string, 0, len(stockChanges))
	for productID := range stockChanges {
		productIDs = append(productIDs, productID)
	}

	lockedProducts, err := r.productRepo.FindProductsByIDsForUpdate(ctx, tx, productIDs)
	if err != nil {
		return apperrors.NewAppError(500, "failed to lock products for transaction "+txn.TransactionID, err)
	}
	for _, productID := range productIDs {
		product, found := lockedProducts[productID]
		if !found {
			return fmt.Errorf("%w: product %s", apperrors.ErrNotFound, productID)
		}
		if !product.IsActive {
			return fmt.Errorf("%w: product %s is inactive", apperrors.ErrValidation, productID)
		}
		if product.Stock+stockChanges[productID] < 0 {
			return fmt.Errorf("%w: product %s has %d in stock, requested %d", apperrors.ErrInsufficientStock, productID, product.Stock, -stockChanges[productID])
		}
	}

	if err := r.productRepo.UpdateProductStocksInTx(ctx, tx, stockChanges, txn.CashierID, txn.CreatedAt); err != nil {
		return err
	}

	// One outbound ledger movement per line, referencing the invoice.
	movements := make([]domain.StockMovement, len(txn.Items))
	for i, item := range txn.Items {
		movements[i] = domain.StockMovement{
			MovementID: uuid.NewString(),
			ProductID:  item.ProductID,
			Direction:  domain.MovementOut,
			Quantity:   item.Quantity,
			Reference:  txn.InvoiceNumber,
			Notes:      "Sale",
			CreatedAt:  txn.CreatedAt,
			CreatedBy:  txn.CashierID,
		}
	}
	if err := r.movementRepo.InsertStockMovementsInTx(ctx, tx, movements); err != nil {
		return apperrors.NewAppError(500, "failed to insert stock movements for transaction "+txn.TransactionID, err)
	}

	// A completed sale credits the payment method immediately; a pending
	// sale touches the balance only when settled.
	if txn.Status == domain.StatusCompleted {
		method, err := r.methodRepo.FindPaymentMethodByCodeForUpdate(ctx, tx, txn.PaymentMethod)
		if err != nil {
			return err
		}
		if err := r.methodRepo.UpdatePaymentMethodBalanceInTx(ctx, tx, method.MethodID, txn.Total, txn.CashierID, txn.CreatedAt); err != nil {
			return err
		}
	}

	if err := r.activityRepo.InsertActivityLogInTx(ctx, tx, activity); err != nil {
		return apperrors.NewAppError(500, "failed to insert activity log for transaction "+txn.TransactionID, err)
	}

	return r.Commit(ctx, tx)
}

// FinalizeTransition persists a status change (settle, cancel, refund)
// together with its compensating stock movements and the balance delta on
// the transaction's payment method, atomically.
//
// Stock restoration skips products that no longer exist: items hold weak
// product references, and a deleted product must not block a cancellation.
// The ledger movements are still written for the audit trail.
func (r *PgxTransactionRepository) FinalizeTransition(ctx context.Context, txn *domain.Transaction, movements []domain.StockMovement, balanceChange decimal.Decimal, activity *domain.ActivityLog) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	// The service checked the transition against a snapshot read. Lock the
	// row and recheck, or two concurrent writers could both compensate.
	var currentStatus string
	err = tx.QueryRow(ctx, `SELECT status FROM transactions WHERE transaction_id = $1 FOR UPDATE;`, txn.TransactionID).Scan(&currentStatus)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrNotFound
		}
		return apperrors.NewAppError(500, "failed to lock transaction "+txn.TransactionID, err)
	}
	if err := guardTransition(domain.TransactionStatus(currentStatus), txn.Status); err != nil {
		return err
	}

	m := mapping.ToModelTransaction(*txn)
	updateQuery := `
		UPDATE transactions
		SET status = $2, cancel_reason = $3, cancelled_at = $4,
		    refund_amount = $5, refund_reason = $6, refund_method = $7, refunded_at = $8,
		    last_updated_at = $9, last_updated_by = $10
		WHERE transaction_id = $1;
	`
	ct, err := tx.Exec(ctx, updateQuery,
		m.TransactionID,
		m.Status,
		m.CancelReason,
		m.CancelledAt,
		m.RefundAmount,
		m.RefundReason,
		m.RefundMethod,
		m.RefundedAt,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update transaction "+txn.TransactionID, err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	if len(movements) > 0 {
		stockChanges := make(map[string]int)
		for _, movement := range movements {
			delta := movement.Quantity
			if movement.Direction == domain.MovementOut {
				delta = -delta
			}
			stockChanges[movement.ProductID] += delta
		}
		productIDs := make([]string, 0, len(stockChanges))
		for productID := range stockChanges {
			productIDs = append(productIDs, productID)
		}

		lockedProducts, err := r.productRepo.FindProductsByIDsForUpdate(ctx, tx, productIDs)
		if err != nil {
			return apperrors.NewAppError(500, "failed to lock products for transaction "+txn.TransactionID, err)
		}
		for productID := range stockChanges {
			if _, found := lockedProducts[productID]; !found {
				delete(stockChanges, productID)
			}
		}
		if err := r.productRepo.UpdateProductStocksInTx(ctx, tx, stockChanges, txn.LastUpdatedBy, txn.LastUpdatedAt); err != nil {
			return err
		}

		if err := r.movementRepo.InsertStockMovementsInTx(ctx, tx, movements); err != nil {
			return apperrors.NewAppError(500, "failed to insert stock movements for transaction "+txn.TransactionID, err)
		}
	}

	if !balanceChange.IsZero() {
		method, err := r.methodRepo.FindPaymentMethodByCodeForUpdate(ctx, tx, txn.PaymentMethod)
		if err != nil {
			return err
		}
		if err := r.methodRepo.UpdatePaymentMethodBalanceInTx(ctx, tx, method.MethodID, balanceChange, txn.LastUpdatedBy, txn.LastUpdatedAt); err != nil {
			return err
		}
	}

	if err := r.activityRepo.InsertActivityLogInTx(ctx, tx, activity); err != nil {
		return apperrors.NewAppError(500, "failed to insert activity log for transaction "+txn.TransactionID, err)
	}

	return r.Commit(ctx, tx)
}

// FindTransactionByID retrieves a transaction with its items.
func (r *PgxTransactionRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE transaction_id = $1;`
	m, err := scanTransaction(r.Pool.QueryRow(ctx, query, transactionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find transaction by ID "+transactionID, err)
	}
	return r.attachItems(ctx, m)
}

// FindTransactionByInvoice retrieves a transaction by its invoice number.
func (r *PgxTransactionRepository) FindTransactionByInvoice(ctx context.Context, invoiceNumber string) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE invoice_number = $1;`
	m, err := scanTransaction(r.Pool.QueryRow(ctx, query, invoiceNumber))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find transaction by invoice "+invoiceNumber, err)
	}
	return r.attachItems(ctx, m)
}

func (r *PgxTransactionRepository) attachItems(ctx context.Context, m *models.Transaction) (*domain.Transaction, error) {
	itemQuery := `SELECT ` + transactionItemColumns + ` FROM transaction_items WHERE transaction_id = $1 ORDER BY line_number;`
	rows, err := r.Pool.Query(ctx, itemQuery, m.TransactionID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query items for transaction "+m.TransactionID, err)
	}
	defer rows.Close()

	items := []models.TransactionItem{}
	for rows.Next() {
		var mi models.TransactionItem
		err := rows.Scan(
			&mi.ItemID,
			&mi.TransactionID,
			&mi.LineNumber,
			&mi.ProductID,
			&mi.ProductName,
			&mi.SKU,
			&mi.Quantity,
			&mi.Price,
			&mi.Discount,
			&mi.Subtotal,
		)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan item row for transaction "+m.TransactionID, err)
		}
		items = append(items, mi)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating item rows for transaction "+m.TransactionID, err)
	}

	txn := mapping.ToDomainTransaction(*m)
	txn.Items = mapping.ToDomainTransactionItemSlice(items)
	return &txn, nil
}

// ListTransactions returns one page of transactions matching the filter,
// newest first, using a (transaction_date, created_at) cursor. Items are not
// attached on list reads.
func (r *PgxTransactionRepository) ListTransactions(ctx context.Context, filter domain.TransactionFilter, limit int, nextToken *string) ([]domain.Transaction, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	fetchLimit := limit + 1

	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE 1=1`
	args := []interface{}{}

	if filter.Status != nil {
		args = append(args, string(*filter.Status))
		query += ` AND status = $` + strconv.Itoa(len(args))
	}
	if filter.PaymentMethod != nil {
		args = append(args, *filter.PaymentMethod)
		query += ` AND payment_method = $` + strconv.Itoa(len(args))
	}
	if filter.CustomerType != nil {
		args = append(args, string(*filter.CustomerType))
		query += ` AND customer_type = $` + strconv.Itoa(len(args))
	}
	if filter.StartDate != nil {
		args = append(args, *filter.StartDate)
		query += ` AND transaction_date >= $` + strconv.Itoa(len(args))
	}
	if filter.EndDate != nil {
		args = append(args, filter.EndDate.AddDate(0, 0, 1))
		query += ` AND transaction_date < $` + strconv.Itoa(len(args))
	}

	if nextToken != nil && *nextToken != "" {
		lastTransactionDate, lastCreatedAt, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		args = append(args, lastTransactionDate, lastCreatedAt)
		query += ` AND (transaction_date, created_at) < ($` + strconv.Itoa(len(args)-1) + `, $` + strconv.Itoa(len(args)) + `)`
	}

	args = append(args, fetchLimit)
	query += ` ORDER BY transaction_date DESC, created_at DESC LIMIT $` + strconv.Itoa(len(args)) + `;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query transactions", err)
	}
	defer rows.Close()

	transactions := []models.Transaction{}
	for rows.Next() {
		m, err := scanTransaction(rows)
		if err != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan transaction row", err)
		}
		transactions = append(transactions, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating transaction rows", err)
	}

	var newNextToken *string
	if len(transactions) > limit {
		lastItem := transactions[limit-1]
		token := pagination.EncodeToken(lastItem.TransactionDate, lastItem.CreatedAt)
		newNextToken = &token
		transactions = transactions[:limit]
	}

	result := make([]domain.Transaction, len(transactions))
	for i, mt := range transactions {
		result[i] = mapping.ToDomainTransaction(mt)
	}
	return result, newNextToken, nil
}
