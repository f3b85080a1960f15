package dto

import (
	"time"

	"github.com/koperasi-pos/kasir_backend/internal/core/domain"
)

// StockAdjustmentRequest sets a product's stock to a counted value (opname).
// The resulting movement records the balance before and after.
type StockAdjustmentRequest struct {
	ActualStock int    `json:"actualStock" binding:"gte=0"`
	Notes       string `json:"notes" binding:"required"`
}

// StockMovementResponse is the API shape of a stock movement.
type StockMovementResponse struct {
	MovementID    string    `json:"id"`
	ProductID     string    `json:"productId"`
	Direction     string    `json:"direction"`
	Quantity      int       `json:"quantity"`
	Reference     string    `json:"reference"`
	Notes         string    `json:"notes"`
	BalanceBefore *int      `json:"balanceBefore,omitempty"`
	BalanceAfter  *int      `json:"balanceAfter,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

// ToStockMovementResponse converts a domain movement to its API shape.
func ToStockMovementResponse(m domain.StockMovement) StockMovementResponse {
	return StockMovementResponse{
		MovementID:    m.MovementID,
		ProductID:     m.ProductID,
		Direction:     string(m.Direction),
		Quantity:      m.Quantity,
		Reference:     m.Reference,
		Notes:         m.Notes,
		BalanceBefore: m.BalanceBefore,
		BalanceAfter:  m.BalanceAfter,
		CreatedAt:     m.CreatedAt,
	}
}

// ToStockMovementResponses converts a slice of domain movements.
func ToStockMovementResponses(ms []domain.StockMovement) []StockMovementResponse {
	out := make([]StockMovementResponse, len(ms))
	for i, m := range ms {
		out[i] = ToStockMovementResponse(m)
	}
	return out
}

// ListMovementsParams are the supported movement list filters.
type ListMovementsParams struct {
	Limit     int     `form:"limit"`
	NextToken *string `form:"nextToken"`
	Reference *string `form:"reference"`
}

// ListMovementsResponse is a page of movements plus the next-page cursor.
type ListMovementsResponse struct {
	Movements []StockMovementResponse `json:"movements"`
	NextToken *string                 `json:"nextToken,omitempty"`
}
