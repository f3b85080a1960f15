package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/koperasi-pos/kasir_backend/internal/core/domain"
)

// CheckoutItemRequest is one line of a checkout payload. Name, SKU and price
// are snapshots taken by the caller at cart time.
type CheckoutItemRequest struct {
	ProductID   string          `json:"productId" binding:"required"`
	ProductName string          `json:"productName" binding:"required"`
	SKU         string          `json:"sku"`
	Quantity    int             `json:"quantity" binding:"required,gt=0"`
	Price       decimal.Decimal `json:"price" binding:"required"`
	Discount    decimal.Decimal `json:"discount"`
	Subtotal    decimal.Decimal `json:"subtotal" binding:"required"`
}

// CreateTransactionRequest is the checkout payload.
type CreateTransactionRequest struct {
	CustomerType      string                `json:"customerType" binding:"required,oneof=general student"`
	CustomerID        *string               `json:"customerId"`
	CustomerName      string                `json:"customerName"`
	Items             []CheckoutItemRequest `json:"items" binding:"required,min=1,dive"`
	Subtotal          decimal.Decimal       `json:"subtotal" binding:"required"`
	Tax               decimal.Decimal       `json:"tax"`
	Discount          decimal.Decimal       `json:"discount"`
	Total             decimal.Decimal       `json:"total" binding:"required"`
	PaymentMethod     string                `json:"paymentMethod" binding:"required"`
	PaymentMethodName string                `json:"paymentMethodName"`
	PaidAmount        decimal.Decimal       `json:"paidAmount"`
	ChangeAmount      decimal.Decimal       `json:"changeAmount"`
	Status            *string               `json:"status" binding:"omitempty,oneof=pending completed"`
}

// CancelTransactionRequest carries the reason for a cancellation.
type CancelTransactionRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// RefundTransactionRequest carries refund details. RefundAmount defaults to
// the transaction total when omitted.
type RefundTransactionRequest struct {
	RefundAmount *decimal.Decimal `json:"refundAmount"`
	Reason       string           `json:"reason" binding:"required"`
	RefundMethod *string          `json:"refundMethod"`
}

// TransactionItemResponse is one persisted line item.
type TransactionItemResponse struct {
	ItemID      string          `json:"itemId"`
	ProductID   string          `json:"productId"`
	ProductName string          `json:"productName"`
	SKU         string          `json:"sku"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	Discount    decimal.Decimal `json:"discount"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// TransactionResponse is the API shape of a persisted transaction.
type TransactionResponse struct {
	TransactionID     string                    `json:"id"`
	InvoiceNumber     string                    `json:"invoiceNumber"`
	TransactionDate   time.Time                 `json:"transactionDate"`
	CustomerType      string                    `json:"customerType"`
	CustomerID        *string                   `json:"customerId,omitempty"`
	CustomerName      string                    `json:"customerName"`
	Items             []TransactionItemResponse `json:"items"`
	Subtotal          decimal.Decimal           `json:"subtotal"`
	Tax               decimal.Decimal           `json:"tax"`
	Discount          decimal.Decimal           `json:"discount"`
	Total             decimal.Decimal           `json:"total"`
	PaymentMethod     string                    `json:"paymentMethod"`
	PaymentMethodName string                    `json:"paymentMethodName"`
	PaidAmount        decimal.Decimal           `json:"paidAmount"`
	ChangeAmount      decimal.Decimal           `json:"changeAmount"`
	Status            string                    `json:"status"`
	CancelReason      *string                   `json:"cancelReason,omitempty"`
	CancelledAt       *time.Time                `json:"cancelledAt,omitempty"`
	RefundAmount      *decimal.Decimal          `json:"refundAmount,omitempty"`
	RefundReason      *string                   `json:"refundReason,omitempty"`
	RefundMethod      *string                   `json:"refundMethod,omitempty"`
	RefundedAt        *time.Time                `json:"refundedAt,omitempty"`
	CashierID         string                    `json:"cashierId"`
	CreatedAt         time.Time                 `json:"createdAt"`
}

// ToTransactionResponse converts a domain transaction (with items) to its
// API shape.
func ToTransactionResponse(t *domain.Transaction) TransactionResponse {
	items := make([]TransactionItemResponse, len(t.Items))
	for i, it := range t.Items {
		items[i] = TransactionItemResponse{
			ItemID:      it.ItemID,
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			SKU:         it.SKU,
			Quantity:    it.Quantity,
			Price:       it.Price,
			Discount:    it.Discount,
			Subtotal:    it.Subtotal,
		}
	}
	return TransactionResponse{
		TransactionID:     t.TransactionID,
		InvoiceNumber:     t.InvoiceNumber,
		TransactionDate:   t.TransactionDate,
		CustomerType:      string(t.CustomerType),
		CustomerID:        t.CustomerID,
		CustomerName:      t.CustomerName,
		Items:             items,
		Subtotal:          t.Subtotal,
		Tax:               t.Tax,
		Discount:          t.Discount,
		Total:             t.Total,
		PaymentMethod:     t.PaymentMethod,
		PaymentMethodName: t.PaymentMethodName,
		PaidAmount:        t.PaidAmount,
		ChangeAmount:      t.ChangeAmount,
		Status:            string(t.Status),
		CancelReason:      t.CancelReason,
		CancelledAt:       t.CancelledAt,
		RefundAmount:      t.RefundAmount,
		RefundReason:      t.RefundReason,
		RefundMethod:      t.RefundMethod,
		RefundedAt:        t.RefundedAt,
		CashierID:         t.CashierID,
		CreatedAt:         t.CreatedAt,
	}
}

// ListTransactionsParams are the supported list filters.
type ListTransactionsParams struct {
	Limit         int        `form:"limit"`
	NextToken     *string    `form:"nextToken"`
	Status        *string    `form:"status"`
	PaymentMethod *string    `form:"paymentMethod"`
	CustomerType  *string    `form:"customerType"`
	StartDate     *time.Time `form:"startDate" time_format:"2006-01-02"`
	EndDate       *time.Time `form:"endDate" time_format:"2006-01-02"`
}

// ListTransactionsResponse is a page of transactions plus the cursor for the
// next page, if any.
type ListTransactionsResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	NextToken    *string               `json:"nextToken,omitempty"`
}
