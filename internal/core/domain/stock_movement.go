package domain

import "time"

// MovementDirection indicates whether stock entered or left the store.
type MovementDirection string

const (
	MovementIn  MovementDirection = "in"
	MovementOut MovementDirection = "out"
)

// StockMovement is an immutable audit record of a single stock quantity
// change. Movements are append-only; current stock could in principle be
// reconstructed from them.
type StockMovement struct {
	MovementID    string            `json:"movementID"` // Primary Key (UUID)
	ProductID     string            `json:"productID"`  // Weak reference, audit-only
	Direction     MovementDirection `json:"direction"`
	Quantity      int               `json:"quantity"`  // > 0
	Reference     string            `json:"reference"` // Invoice number or CANCEL-/REFUND- tag
	Notes         string            `json:"notes"`
	BalanceBefore *int              `json:"balanceBefore,omitempty"` // Set by manual adjustments
	BalanceAfter  *int              `json:"balanceAfter,omitempty"`
	CreatedAt     time.Time         `json:"createdAt"`
	CreatedBy     string            `json:"createdBy"`
}
