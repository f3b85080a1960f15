package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/koperasi-pos/kasir_backend/internal/core/domain"
)

// StockMovementReader defines read operations for the stock ledger.
type StockMovementReader interface {
	// ListMovementsByProduct returns one page ordered by creation time
	// descending, plus the cursor for the next page when more rows exist.
	ListMovementsByProduct(ctx context.Context, productID string, limit int, nextToken *string) ([]domain.StockMovement, *string, error)
	ListMovementsByReference(ctx context.Context, reference string) ([]domain.StockMovement, error)
}

// StockMovementTxWriter appends ledger movements inside a caller managed
// database transaction. The ledger has no standalone writer: every movement
// rides the transaction that changed the stock.
type StockMovementTxWriter interface {
	InsertStockMovementsInTx(ctx context.Context, tx pgx.Tx, movements []domain.StockMovement) error
}

// StockMovementRepositoryFacade combines the ledger operations.
type StockMovementRepositoryFacade interface {
	StockMovementReader
	StockMovementTxWriter
}
