package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Student mirrors the students table.
type Student struct {
	StudentID string          `json:"studentID"`
	NIS       string          `json:"nis"`
	Name      string          `json:"name"`
	Class     string          `json:"class"`
	Balance   decimal.Decimal `json:"balance"`
	IsActive  bool            `json:"isActive"`
	AuditFields
}

// Liability mirrors the liabilities table.
type Liability struct {
	LiabilityID string          `json:"liabilityID"`
	StudentID   string          `json:"studentID"`
	Title       string          `json:"title"`
	Amount      decimal.Decimal `json:"amount"`
	PaidAmount  decimal.Decimal `json:"paidAmount"`
	Status      string          `json:"status"`
	DueDate     *time.Time      `json:"dueDate"`
	AuditFields
}
