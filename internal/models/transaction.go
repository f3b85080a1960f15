package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionStatus is the lifecycle state of a sale as stored.
type TransactionStatus string

const (
	StatusPending   TransactionStatus = "pending"
	StatusCompleted TransactionStatus = "completed"
	StatusCancelled TransactionStatus = "cancelled"
	StatusRefunded  TransactionStatus = "refunded"
)

// Transaction mirrors the transactions table.
type Transaction struct {
	TransactionID     string            `json:"transactionID"`
	InvoiceNumber     string            `json:"invoiceNumber"`
	TransactionDate   time.Time         `json:"transactionDate"`
	CustomerType      string            `json:"customerType"`
	CustomerID        *string           `json:"customerID"`
	CustomerName      string            `json:"customerName"`
	Subtotal          decimal.Decimal   `json:"subtotal"`
	Tax               decimal.Decimal   `json:"tax"`
	Discount          decimal.Decimal   `json:"discount"`
	Total             decimal.Decimal   `json:"total"`
	PaymentMethod     string            `json:"paymentMethod"`
	PaymentMethodName string            `json:"paymentMethodName"`
	PaidAmount        decimal.Decimal   `json:"paidAmount"`
	ChangeAmount      decimal.Decimal   `json:"changeAmount"`
	Status            TransactionStatus `json:"status"`
	CancelReason      *string           `json:"cancelReason"`
	CancelledAt       *time.Time        `json:"cancelledAt"`
	RefundAmount      *decimal.Decimal  `json:"refundAmount"`
	RefundReason      *string           `json:"refundReason"`
	RefundMethod      *string           `json:"refundMethod"`
	RefundedAt        *time.Time        `json:"refundedAt"`
	CashierID         string            `json:"cashierID"`
	AuditFields
}

// TransactionItem mirrors the transaction_items table.
type TransactionItem struct {
	ItemID        string          `json:"itemID"`
	TransactionID string          `json:"transactionID"`
	LineNumber    int             `json:"lineNumber"`
	ProductID     string          `json:"productID"`
	ProductName   string          `json:"productName"`
	SKU           string          `json:"sku"`
	Quantity      int             `json:"quantity"`
	Price         decimal.Decimal `json:"price"`
	Discount      decimal.Decimal `json:"discount"`
	Subtotal      decimal.Decimal `json:"subtotal"`
}
