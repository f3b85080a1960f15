package pgsql

import (
	"context"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/koperasi-pos/kasir_backend/internal/apperrors"
	"github.com/koperasi-pos/kasir_backend/internal/core/domain"
	portsrepo "github.com/koperasi-pos/kasir_backend/internal/core/ports/repositories"
	"github.com/koperasi-pos/kasir_backend/internal/models"
	"github.com/koperasi-pos/kasir_backend/internal/utils/mapping"
	"github.com/koperasi-pos/kasir_backend/internal/utils/pagination"
)

type PgxStockMovementRepository struct {
	BaseRepository
}

// newPgxStockMovementRepository creates a new repository for the stock ledger.
func newPgxStockMovementRepository(pool *pgxpool.Pool) portsrepo.StockMovementRepositoryFacade {
	return &PgxStockMovementRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.StockMovementRepositoryFacade = (*PgxStockMovementRepository)(nil)

const movementColumns = `movement_id, product_id, direction, quantity, reference, notes, balance_before, balance_after, created_at, created_by`

// InsertStockMovementsInTx appends ledger movements within a caller managed
// database transaction.
func (r *PgxStockMovementRepository) InsertStockMovementsInTx(ctx context.Context, tx pgx.Tx, movements []domain.StockMovement) error {
	if len(movements) == 0 {
		return nil
	}

	query := `
		INSERT INTO stock_movements (` + movementColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	batch := &pgx.Batch{}
	for _, movement := range movements {
		m := mapping.ToModelStockMovement(movement)
		batch.Queue(query,
			m.MovementID,
			m.ProductID,
			m.Direction,
			m.Quantity,
			m.Reference,
			m.Notes,
			m.BalanceBefore,
			m.BalanceAfter,
			m.CreatedAt,
			m.CreatedBy,
		)
	}

	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return apperrors.NewAppError(500, "failed to execute stock movement batch", err)
	}
	return nil
}

func scanMovementRows(rows pgx.Rows) ([]models.StockMovement, error) {
	movements := []models.StockMovement{}
	for rows.Next() {
		var m models.StockMovement
		err := rows.Scan(
			&m.MovementID,
			&m.ProductID,
			&m.Direction,
			&m.Quantity,
			&m.Reference,
			&m.Notes,
			&m.BalanceBefore,
			&m.BalanceAfter,
			&m.CreatedAt,
			&m.CreatedBy,
		)
		if err != nil {
			return nil, err
		}
		movements = append(movements, m)
	}
	return movements, rows.Err()
}

// ListMovementsByProduct returns one page of a product's ledger history,
// newest first, using a created-at cursor.
func (r *PgxStockMovementRepository) ListMovementsByProduct(ctx context.Context, productID string, limit int, nextToken *string) ([]domain.StockMovement, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	fetchLimit := limit + 1

	baseQuery := `SELECT ` + movementColumns + ` FROM stock_movements WHERE product_id = $1`
	orderByClause := `ORDER BY created_at DESC, movement_id DESC`

	args := []interface{}{productID}
	query := baseQuery

	if nextToken != nil && *nextToken != "" {
		lastCreatedAt, decodeErr := pagination.DecodeDateBasedToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		args = append(args, lastCreatedAt)
		query += ` AND created_at < $` + strconv.Itoa(len(args))
	}

	args = append(args, fetchLimit)
	query += ` ` + orderByClause + ` LIMIT $` + strconv.Itoa(len(args)) + `;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query stock movements for product "+productID, err)
	}
	defer rows.Close()

	movements, err := scanMovementRows(rows)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to scan stock movement rows", err)
	}

	var newNextToken *string
	if len(movements) > limit {
		lastItem := movements[limit-1]
		token := pagination.EncodeDateBasedToken(lastItem.CreatedAt)
		newNextToken = &token
		movements = movements[:limit]
	}

	return mapping.ToDomainStockMovementSlice(movements), newNextToken, nil
}

// ListMovementsByReference returns all movements carrying one reference,
// e.g. an invoice number or its CANCEL-/REFUND- counterpart.
func (r *PgxStockMovementRepository) ListMovementsByReference(ctx context.Context, reference string) ([]domain.StockMovement, error) {
	query := `SELECT ` + movementColumns + ` FROM stock_movements WHERE reference = $1 ORDER BY created_at, movement_id;`
	rows, err := r.Pool.Query(ctx, query, reference)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query stock movements for reference "+reference, err)
	}
	defer rows.Close()

	movements, err := scanMovementRows(rows)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to scan stock movement rows", err)
	}
	return mapping.ToDomainStockMovementSlice(movements), nil
}
