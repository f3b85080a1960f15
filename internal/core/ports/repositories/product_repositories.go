package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/koperasi-pos/kasir_backend/internal/core/domain"
)

// ProductReader defines read operations for the product catalog.
type ProductReader interface {
	FindProductByID(ctx context.Context, productID string) (*domain.Product, error)
	FindProductBySKU(ctx context.Context, sku string) (*domain.Product, error)
	ListProducts(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error)
}

// ProductWriter defines write operations for the product catalog.
type ProductWriter interface {
	SaveProduct(ctx context.Context, product *domain.Product) error
	UpdateProduct(ctx context.Context, product *domain.Product) error
	DeactivateProduct(ctx context.Context, productID string, userID string) error
	// SetStockWithAudit sets a product's stock to a counted value inside
	// one database transaction and returns the resulting adjustment
	// movement with balance before and after filled in.
	SetStockWithAudit(ctx context.Context, productID string, actualStock int, notes string, userID string) (*domain.StockMovement, error)
}

// ProductTxOperator defines product operations that participate in a caller
// managed database transaction.
type ProductTxOperator interface {
	// FindProductsByIDsForUpdate locks the product rows and returns them
	// keyed by ID. Missing IDs are simply absent from the map.
	FindProductsByIDsForUpdate(ctx context.Context, tx pgx.Tx, productIDs []string) (map[string]domain.Product, error)
	// UpdateProductStocksInTx applies signed stock deltas. A delta that
	// would drive stock below zero fails with ErrInsufficientStock.
	UpdateProductStocksInTx(ctx context.Context, tx pgx.Tx, stockChanges map[string]int, userID string, now time.Time) error
}

// ProductRepositoryFacade combines reader and writer operations.
type ProductRepositoryFacade interface {
	ProductReader
	ProductWriter
}

// ProductRepositoryWithTx additionally exposes the transaction-scoped
// operations used by the transaction writer.
type ProductRepositoryWithTx interface {
	ProductRepositoryFacade
	ProductTxOperator
}
