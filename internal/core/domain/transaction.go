package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionStatus is the lifecycle state of a sale.
type TransactionStatus string

const (
	StatusPending   TransactionStatus = "pending"
	StatusCompleted TransactionStatus = "completed"
	StatusCancelled TransactionStatus = "cancelled"
	StatusRefunded  TransactionStatus = "refunded"
)

// CanTransitionTo reports whether a status change is allowed.
// pending -> completed | cancelled; completed -> cancelled | refunded.
// cancelled and refunded are terminal.
func (s TransactionStatus) CanTransitionTo(next TransactionStatus) bool {
	switch s {
	case StatusPending:
		return next == StatusCompleted || next == StatusCancelled
	case StatusCompleted:
		return next == StatusCancelled || next == StatusRefunded
	case StatusCancelled, StatusRefunded:
		return false
	}
	return false
}

// IsTerminal reports whether no further transitions are possible.
func (s TransactionStatus) IsTerminal() bool {
	return s == StatusCancelled || s == StatusRefunded
}

// CustomerType distinguishes walk-in customers from registered students.
type CustomerType string

const (
	CustomerGeneral CustomerType = "general"
	CustomerStudent CustomerType = "student"
)

// Transaction represents a single point-of-sale transaction with its line items.
// Total must always equal Subtotal + Tax - Discount, and is immutable once the
// status leaves pending.
type Transaction struct {
	TransactionID     string            `json:"transactionID"` // Primary Key (UUID)
	InvoiceNumber     string            `json:"invoiceNumber"` // Unique, generated at creation
	TransactionDate   time.Time         `json:"transactionDate"`
	CustomerType      CustomerType      `json:"customerType"`
	CustomerID        *string           `json:"customerID,omitempty"` // Only set when CustomerType is student
	CustomerName      string            `json:"customerName"`
	Items             []TransactionItem `json:"items,omitempty"`
	Subtotal          decimal.Decimal   `json:"subtotal"`
	Tax               decimal.Decimal   `json:"tax"`
	Discount          decimal.Decimal   `json:"discount"`
	Total             decimal.Decimal   `json:"total"`
	PaymentMethod     string            `json:"paymentMethod"` // PaymentMethod.Code reference
	PaymentMethodName string            `json:"paymentMethodName"`
	PaidAmount        decimal.Decimal   `json:"paidAmount"`
	ChangeAmount      decimal.Decimal   `json:"changeAmount"`
	Status            TransactionStatus `json:"status"`
	CancelReason      *string           `json:"cancelReason,omitempty"`
	CancelledAt       *time.Time        `json:"cancelledAt,omitempty"`
	RefundAmount      *decimal.Decimal  `json:"refundAmount,omitempty"`
	RefundReason      *string           `json:"refundReason,omitempty"`
	RefundMethod      *string           `json:"refundMethod,omitempty"`
	RefundedAt        *time.Time        `json:"refundedAt,omitempty"`
	CashierID         string            `json:"cashierID"`
	AuditFields
}

// TransactionItem is one sold line within a Transaction. Product name and
// price are snapshots; the product row may change or disappear later without
// invalidating historical items.
type TransactionItem struct {
	ItemID        string          `json:"itemID"`
	TransactionID string          `json:"transactionID"`
	LineNumber    int             `json:"lineNumber"` // 1-based position within the sale
	ProductID     string          `json:"productID"`  // Weak reference by identifier
	ProductName   string          `json:"productName"`
	SKU           string          `json:"sku"`
	Quantity      int             `json:"quantity"` // > 0
	Price         decimal.Decimal `json:"price"`    // Unit price snapshot
	Discount      decimal.Decimal `json:"discount"` // Per-line discount, informational
	Subtotal      decimal.Decimal `json:"subtotal"` // Price * Quantity
}
