package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Student is a registered customer with a deposit balance and billable
// liabilities.
type Student struct {
	StudentID string          `json:"studentID"` // Primary Key (UUID)
	NIS       string          `json:"nis"`       // Student registration number, unique
	Name      string          `json:"name"`
	Class     string          `json:"class"`
	Balance   decimal.Decimal `json:"balance"` // Deposit balance
	IsActive  bool            `json:"isActive"`
	AuditFields
}

// LiabilityStatus tracks how much of a liability has been settled.
type LiabilityStatus string

const (
	LiabilityUnpaid  LiabilityStatus = "unpaid"
	LiabilityPartial LiabilityStatus = "partial"
	LiabilityPaid    LiabilityStatus = "paid"
)

// Liability is a student's outstanding billable amount.
type Liability struct {
	LiabilityID string          `json:"liabilityID"` // Primary Key (UUID)
	StudentID   string          `json:"studentID"`
	Title       string          `json:"title"`
	Amount      decimal.Decimal `json:"amount"`
	PaidAmount  decimal.Decimal `json:"paidAmount"`
	Status      LiabilityStatus `json:"status"`
	DueDate     *time.Time      `json:"dueDate,omitempty"`
	AuditFields
}

// LiabilityStatusFor derives the settlement status from the billed and paid
// amounts.
func LiabilityStatusFor(amount, paid decimal.Decimal) LiabilityStatus {
	switch {
	case paid.GreaterThanOrEqual(amount):
		return LiabilityPaid
	case paid.IsPositive():
		return LiabilityPartial
	default:
		return LiabilityUnpaid
	}
}
