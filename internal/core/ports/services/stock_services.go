package services

import (
	"context"

	"github.com/koperasi-pos/kasir_backend/internal/core/domain"
	"github.com/koperasi-pos/kasir_backend/internal/dto"
)

// StockSvcFacade exposes the stock ledger: manual adjustments (opname) and
// movement history reads.
type StockSvcFacade interface {
	AdjustStock(ctx context.Context, productID string, req dto.StockAdjustmentRequest, userID string) (*domain.StockMovement, error)
	ListProductMovements(ctx context.Context, productID string, params dto.ListMovementsParams) ([]domain.StockMovement, *string, error)
	ListMovementsByReference(ctx context.Context, reference string) ([]domain.StockMovement, error)
}
