package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/koperasi-pos/kasir_backend/internal/core/domain"
	portsrepo "github.com/koperasi-pos/kasir_backend/internal/core/ports/repositories"
	portssvc "github.com/koperasi-pos/kasir_backend/internal/core/ports/services"
	"github.com/koperasi-pos/kasir_backend/internal/dto"
	"github.com/koperasi-pos/kasir_backend/internal/middleware"
)

// stockService implements stock opname and ledger reads.
type stockService struct {
	productRepo  portsrepo.ProductRepositoryFacade
	movementRepo portsrepo.StockMovementReader
}

// NewStockService creates a new StockService.
func NewStockService(productRepo portsrepo.ProductRepositoryFacade, movementRepo portsrepo.StockMovementReader) portssvc.StockSvcFacade {
	return &stockService{
		productRepo:  productRepo,
		movementRepo: movementRepo,
	}
}

var _ portssvc.StockSvcFacade = (*stockService)(nil)

// AdjustStock sets a product's stock to a counted value. The stock write,
// the ledger movement with balance before and after, and the audit entry
// commit as one database transaction in the repository.
func (s *stockService) AdjustStock(ctx context.Context, productID string, req dto.StockAdjustmentRequest, userID string) (*domain.StockMovement, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	movement, err := s.productRepo.SetStockWithAudit(ctx, productID, req.ActualStock, req.Notes, userID)
	if err != nil {
		logger.Error("Failed to adjust stock", slog.String("error", err.Error()), slog.String("product_id", productID))
		return nil, fmt.Errorf("failed to adjust stock for product %s: %w", productID, err)
	}

	logger.Info("Stock adjusted", slog.String("product_id", productID), slog.Int("actual_stock", req.ActualStock))
	return movement, nil
}

// ListProductMovements returns one page of a product's ledger history.
func (s *stockService) ListProductMovements(ctx context.Context, productID string, params dto.ListMovementsParams) ([]domain.StockMovement, *string, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	movements, nextToken, err := s.movementRepo.ListMovementsByProduct(ctx, productID, limit, params.NextToken)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list movements for product %s: %w", productID, err)
	}
	return movements, nextToken, nil
}

// ListMovementsByReference returns all ledger movements for one reference,
// e.g. an invoice number or its CANCEL-/REFUND- counterpart.
func (s *stockService) ListMovementsByReference(ctx context.Context, reference string) ([]domain.StockMovement, error) {
	movements, err := s.movementRepo.ListMovementsByReference(ctx, reference)
	if err != nil {
		return nil, fmt.Errorf("failed to list movements for reference %s: %w", reference, err)
	}
	return movements, nil
}
