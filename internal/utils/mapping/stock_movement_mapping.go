package mapping

import (
	"github.com/koperasi-pos/kasir_backend/internal/core/domain"
	"github.com/koperasi-pos/kasir_backend/internal/models"
)

// ToModelStockMovement converts a domain StockMovement to a model StockMovement.
func ToModelStockMovement(d domain.StockMovement) models.StockMovement {
	return models.StockMovement{
		MovementID:    d.MovementID,
		ProductID:     d.ProductID,
		Direction:     models.MovementDirection(d.Direction),
		Quantity:      d.Quantity,
		Reference:     d.Reference,
		Notes:         d.Notes,
		BalanceBefore: d.BalanceBefore,
		BalanceAfter:  d.BalanceAfter,
		CreatedAt:     d.CreatedAt,
		CreatedBy:     d.CreatedBy,
	}
}

// ToDomainStockMovement converts a model StockMovement to a domain StockMovement.
func ToDomainStockMovement(m models.StockMovement) domain.StockMovement {
	return domain.StockMovement{
		MovementID:    m.MovementID,
		ProductID:     m.ProductID,
		Direction:     domain.MovementDirection(m.Direction),
		Quantity:      m.Quantity,
		Reference:     m.Reference,
		Notes:         m.Notes,
		BalanceBefore: m.BalanceBefore,
		BalanceAfter:  m.BalanceAfter,
		CreatedAt:     m.CreatedAt,
		CreatedBy:     m.CreatedBy,
	}
}

// ToDomainStockMovementSlice converts a slice of model StockMovements.
func ToDomainStockMovementSlice(ms []models.StockMovement) []domain.StockMovement {
	ds := make([]domain.StockMovement, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainStockMovement(m)
	}
	return ds
}
