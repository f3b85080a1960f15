package domain

import "time"

// ActivityLog is an append-only audit record of a user action. For ledger
// events it is written inside the same database transaction as the event
// itself.
type ActivityLog struct {
	LogID       string         `json:"logID"` // Primary Key (UUID)
	UserID      string         `json:"userID"`
	Action      string         `json:"action"` // e.g. create_transaction, cancel_transaction
	Module      string         `json:"module"` // e.g. pos, transactions, payment_methods
	Description string         `json:"description"`
	Details     map[string]any `json:"details,omitempty"`
	CreatedAt   time.Time      `json:"createdAt"`
}
