package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/koperasi-pos/kasir_backend/internal/apperrors"
	"github.com/koperasi-pos/kasir_backend/internal/core/domain"
	portsrepo "github.com/koperasi-pos/kasir_backend/internal/core/ports/repositories"
	"github.com/koperasi-pos/kasir_backend/internal/models"
	"github.com/koperasi-pos/kasir_backend/internal/utils/mapping"
)

const initialStockReference = "INITIAL"

type PgxProductRepository struct {
	BaseRepository
	movementRepo portsrepo.StockMovementTxWriter
	activityRepo portsrepo.ActivityLogTxWriter
}

// newPgxProductRepository creates a new repository for catalog data.
func newPgxProductRepository(pool *pgxpool.Pool, movementRepo portsrepo.StockMovementTxWriter, activityRepo portsrepo.ActivityLogTxWriter) portsrepo.ProductRepositoryWithTx {
	return &PgxProductRepository{
		BaseRepository: BaseRepository{Pool: pool},
		movementRepo:   movementRepo,
		activityRepo:   activityRepo,
	}
}

var _ portsrepo.ProductRepositoryWithTx = (*PgxProductRepository)(nil)

const productColumns = `product_id, sku, barcode, name, category_id, unit_id, selling_price, cost_price, stock, min_stock, is_active, created_at, created_by, last_updated_at, last_updated_by`

func scanProduct(row pgx.Row) (*models.Product, error) {
	var m models.Product
	err := row.Scan(
		&m.ProductID,
		&m.SKU,
		&m.Barcode,
		&m.Name,
		&m.CategoryID,
		&m.UnitID,
		&m.SellingPrice,
		&m.CostPrice,
		&m.Stock,
		&m.MinStock,
		&m.IsActive,
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

// SaveProduct inserts a catalog entry. A non-zero initial stock is recorded
// in the ledger as an initial-stock movement inside the same database
// transaction.
func (r *PgxProductRepository) SaveProduct(ctx context.Context, product *domain.Product) error {
	modelProduct := mapping.ToModelProduct(*product)

	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	query := `
		INSERT INTO products (` + productColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15);
	`
	_, err = tx.Exec(ctx, query,
		modelProduct.ProductID,
		modelProduct.SKU,
		modelProduct.Barcode,
		modelProduct.Name,
		modelProduct.CategoryID,
		modelProduct.UnitID,
		modelProduct.SellingPrice,
		modelProduct.CostPrice,
		modelProduct.Stock,
		modelProduct.MinStock,
		modelProduct.IsActive,
		modelProduct.CreatedAt,
		modelProduct.CreatedBy,
		modelProduct.LastUpdatedAt,
		modelProduct.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: product SKU %s already exists", apperrors.ErrDuplicate, product.SKU)
		}
		return apperrors.NewAppError(500, "failed to insert product "+modelProduct.ProductID, err)
	}

	if product.Stock > 0 {
		movement := domain.StockMovement{
			MovementID: uuid.NewString(),
			ProductID:  product.ProductID,
			Direction:  domain.MovementIn,
			Quantity:   product.Stock,
			Reference:  initialStockReference,
			Notes:      "Initial stock",
			CreatedAt:  product.CreatedAt,
			CreatedBy:  product.CreatedBy,
		}
		if err := r.movementRepo.InsertStockMovementsInTx(ctx, tx, []domain.StockMovement{movement}); err != nil {
			return apperrors.NewAppError(500, "failed to insert initial stock movement for product "+product.ProductID, err)
		}
	}

	return r.Commit(ctx, tx)
}

// FindProductByID retrieves a product by its ID.
func (r *PgxProductRepository) FindProductByID(ctx context.Context, productID string) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE product_id = $1;`
	m, err := scanProduct(r.Pool.QueryRow(ctx, query, productID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find product by ID "+productID, err)
	}
	product := mapping.ToDomainProduct(*m)
	return &product, nil
}

// FindProductBySKU retrieves a product by its SKU.
func (r *PgxProductRepository) FindProductBySKU(ctx context.Context, sku string) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE sku = $1;`
	m, err := scanProduct(r.Pool.QueryRow(ctx, query, sku))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find product by SKU "+sku, err)
	}
	product := mapping.ToDomainProduct(*m)
	return &product, nil
}

// ListProducts retrieves catalog entries matching the filter, ordered by name.
func (r *PgxProductRepository) ListProducts(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE 1=1`
	args := []interface{}{}

	if !filter.IncludeInactive {
		query += ` AND is_active = TRUE`
	}
	if filter.LowStockOnly {
		query += ` AND stock <= min_stock`
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		placeholder := "$" + strconv.Itoa(len(args))
		query += ` AND (name ILIKE ` + placeholder + ` OR sku ILIKE ` + placeholder + ` OR barcode ILIKE ` + placeholder + `)`
	}

	query += ` ORDER BY name`
	args = append(args, filter.Limit)
	query += ` LIMIT $` + strconv.Itoa(len(args))
	args = append(args, filter.Offset)
	query += ` OFFSET $` + strconv.Itoa(len(args)) + `;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query products", err)
	}
	defer rows.Close()

	products := []models.Product{}
	for rows.Next() {
		m, err := scanProduct(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan product row", err)
		}
		products = append(products, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating product rows", err)
	}

	return mapping.ToDomainProductSlice(products), nil
}

// UpdateProduct updates the catalog columns of a product. Stock is not
// touched here.
func (r *PgxProductRepository) UpdateProduct(ctx context.Context, product *domain.Product) error {
	modelProduct := mapping.ToModelProduct(*product)
	query := `
		UPDATE products
		SET sku = $2, barcode = $3, name = $4, category_id = $5, unit_id = $6,
		    selling_price = $7, cost_price = $8, min_stock = $9, is_active = $10,
		    last_updated_at = $11, last_updated_by = $12
		WHERE product_id = $1;
	`
	ct, err := r.Pool.Exec(ctx, query,
		modelProduct.ProductID,
		modelProduct.SKU,
		modelProduct.Barcode,
		modelProduct.Name,
		modelProduct.CategoryID,
		modelProduct.UnitID,
		modelProduct.SellingPrice,
		modelProduct.CostPrice,
		modelProduct.MinStock,
		modelProduct.IsActive,
		modelProduct.LastUpdatedAt,
		modelProduct.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: product SKU %s already exists", apperrors.ErrDuplicate, product.SKU)
		}
		return apperrors.NewAppError(500, "failed to update product "+product.ProductID, err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeactivateProduct soft-deletes a catalog entry.
func (r *PgxProductRepository) DeactivateProduct(ctx context.Context, productID string, userID string) error {
	query := `
		UPDATE products
		SET is_active = FALSE, last_updated_at = $2, last_updated_by = $3
		WHERE product_id = $1;
	`
	ct, err := r.Pool.Exec(ctx, query, productID, time.Now().UTC(), userID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to deactivate product "+productID, err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// SetStockWithAudit sets a product's stock to a counted value (opname). The
// stock write, the ledger movement and the audit entry commit together.
func (r *PgxProductRepository) SetStockWithAudit(ctx context.Context, productID string, actualStock int, notes string, userID string) (*domain.StockMovement, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	var currentStock int
	err = tx.QueryRow(ctx, `SELECT stock FROM products WHERE product_id = $1 FOR UPDATE;`, productID).Scan(&currentStock)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to lock product "+productID, err)
	}

	if actualStock == currentStock {
		return nil, fmt.Errorf("%w: actual stock equals current stock (%d)", apperrors.ErrValidation, currentStock)
	}

	now := time.Now().UTC()
	_, err = tx.Exec(ctx, `
		UPDATE products
		SET stock = $2, last_updated_at = $3, last_updated_by = $4
		WHERE product_id = $1;
	`, productID, actualStock, now, userID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to set stock for product "+productID, err)
	}

	direction := domain.MovementIn
	quantity := actualStock - currentStock
	if quantity < 0 {
		direction = domain.MovementOut
		quantity = -quantity
	}

	before := currentStock
	after := actualStock
	movement := domain.StockMovement{
		MovementID:    uuid.NewString(),
		ProductID:     productID,
		Direction:     direction,
		Quantity:      quantity,
		Reference:     "OPNAME",
		Notes:         notes,
		BalanceBefore: &before,
		BalanceAfter:  &after,
		CreatedAt:     now,
		CreatedBy:     userID,
	}
	if err := r.movementRepo.InsertStockMovementsInTx(ctx, tx, []domain.StockMovement{movement}); err != nil {
		return nil, apperrors.NewAppError(500, "failed to insert opname movement for product "+productID, err)
	}

	activity := domain.ActivityLog{
		LogID:       uuid.NewString(),
		UserID:      userID,
		Action:      "adjust_stock",
		Module:      "stock",
		Description: "Stock opname adjustment",
		Details: map[string]any{
			"productID":   productID,
			"stockBefore": currentStock,
			"stockAfter":  actualStock,
			"notes":       notes,
		},
		CreatedAt: now,
	}
	if err := r.activityRepo.InsertActivityLogInTx(ctx, tx, &activity); err != nil {
		return nil, apperrors.NewAppError(500, "failed to insert activity log for stock adjustment", err)
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}
	return &movement, nil
}

// FindProductsByIDsForUpdate retrieves products by IDs and locks the rows
// for update. Missing IDs are absent from the returned map; the caller
// decides whether that is an error.
func (r *PgxProductRepository) FindProductsByIDsForUpdate(ctx context.Context, tx pgx.Tx, productIDs []string) (map[string]domain.Product, error) {
	if len(productIDs) == 0 {
		return map[string]domain.Product{}, nil
	}

	query := `SELECT ` + productColumns + ` FROM products WHERE product_id = ANY($1) FOR UPDATE;`
	rows, err := tx.Query(ctx, query, productIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query products by IDs for update: %w", err)
	}
	defer rows.Close()

	productsMap := make(map[string]domain.Product)
	for rows.Next() {
		m, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan locked product row: %w", err)
		}
		productsMap[m.ProductID] = mapping.ToDomainProduct(*m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating locked product rows: %w", err)
	}

	return productsMap, nil
}

// UpdateProductStocksInTx applies signed stock deltas to already-locked
// product rows. The guard clause keeps stock from going below zero; a zero
// row count therefore means insufficient stock, since the caller locked and
// verified existence beforehand.
func (r *PgxProductRepository) UpdateProductStocksInTx(ctx context.Context, tx pgx.Tx, stockChanges map[string]int, userID string, now time.Time) error {
	if len(stockChanges) == 0 {
		return nil
	}

	query := `
		UPDATE products
		SET stock = stock + $2, last_updated_at = $3, last_updated_by = $4
		WHERE product_id = $1 AND stock + $2 >= 0;
	`

	batch := &pgx.Batch{}
	productIDs := make([]string, 0, len(stockChanges))
	for productID, delta := range stockChanges {
		if delta != 0 {
			batch.Queue(query, productID, delta, now, userID)
			productIDs = append(productIDs, productID)
		}
	}
	if batch.Len() == 0 {
		return nil
	}

	br := tx.SendBatch(ctx, batch)
	var batchErr error
	for i := 0; i < batch.Len(); i++ {
		ct, err := br.Exec()
		if err != nil {
			if batchErr == nil {
				batchErr = fmt.Errorf("failed to update stock for product %s: %w", productIDs[i], err)
			}
		} else if ct.RowsAffected() == 0 {
			if batchErr == nil {
				batchErr = fmt.Errorf("%w: product %s", apperrors.ErrInsufficientStock, productIDs[i])
			}
		}
	}
	if closeErr := br.Close(); closeErr != nil && batchErr == nil {
		batchErr = fmt.Errorf("failed to close stock update batch: %w", closeErr)
	}

	return batchErr
}
