package repositories

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/koperasi-pos/kasir_backend/internal/core/domain"
)

// TransactionReader defines read operations for transactions.
type TransactionReader interface {
	FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error)
	FindTransactionByInvoice(ctx context.Context, invoiceNumber string) (*domain.Transaction, error)
	// ListTransactions returns one page ordered by transaction date
	// descending, plus the cursor for the next page when more rows exist.
	ListTransactions(ctx context.Context, filter domain.TransactionFilter, limit int, nextToken *string) ([]domain.Transaction, *string, error)
}

// TransactionWriter defines write operations for transactions. Each method
// is a single atomic unit: the transaction rows, the stock ledger, the
// payment method balance and the activity log all commit or roll back
// together.
type TransactionWriter interface {
	// SaveTransaction persists a checkout: the transaction header and
	// items, a stock decrement plus ledger movement per line, the payment
	// method balance credit when the status is completed, and the audit
	// log entry.
	SaveTransaction(ctx context.Context, txn *domain.Transaction, activity *domain.ActivityLog) error
	// FinalizeTransition persists a status change (settle, cancel,
	// refund) together with its compensating stock movements and the
	// balance delta on the transaction's payment method. A zero
	// balanceChange leaves the balance untouched.
	FinalizeTransition(ctx context.Context, txn *domain.Transaction, movements []domain.StockMovement, balanceChange decimal.Decimal, activity *domain.ActivityLog) error
}

// TransactionRepositoryFacade combines reader and writer operations.
type TransactionRepositoryFacade interface {
	TransactionReader
	TransactionWriter
}
