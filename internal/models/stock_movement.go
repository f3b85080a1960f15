package models

import "time"

// MovementDirection mirrors the stock movement direction enum.
type MovementDirection string

const (
	MovementIn  MovementDirection = "in"
	MovementOut MovementDirection = "out"
)

// StockMovement mirrors the stock_movements table. Rows are append-only.
type StockMovement struct {
	MovementID    string            `json:"movementID"`
	ProductID     string            `json:"productID"`
	Direction     MovementDirection `json:"direction"`
	Quantity      int               `json:"quantity"`
	Reference     string            `json:"reference"`
	Notes         string            `json:"notes"`
	BalanceBefore *int              `json:"balanceBefore"`
	BalanceAfter  *int              `json:"balanceAfter"`
	CreatedAt     time.Time         `json:"createdAt"`
	CreatedBy     string            `json:"createdBy"`
}
