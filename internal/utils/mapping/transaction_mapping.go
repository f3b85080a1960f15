package mapping

import (
	"github.com/koperasi-pos/kasir_backend/internal/core/domain"
	"github.com/koperasi-pos/kasir_backend/internal/models"
)

// ToModelTransaction converts a domain Transaction to a model Transaction.
// Line items are mapped separately via ToModelTransactionItem.
func ToModelTransaction(d domain.Transaction) models.Transaction {
	return models.Transaction{
		TransactionID:     d.TransactionID,
		InvoiceNumber:     d.InvoiceNumber,
		TransactionDate:   d.TransactionDate,
		CustomerType:      string(d.CustomerType),
		CustomerID:        d.CustomerID,
		CustomerName:      d.CustomerName,
		Subtotal:          d.Subtotal,
		Tax:               d.Tax,
		Discount:          d.Discount,
		Total:             d.Total,
		PaymentMethod:     d.PaymentMethod,
		PaymentMethodName: d.PaymentMethodName,
		PaidAmount:        d.PaidAmount,
		ChangeAmount:      d.ChangeAmount,
		Status:            models.TransactionStatus(d.Status),
		CancelReason:      d.CancelReason,
		CancelledAt:       d.CancelledAt,
		RefundAmount:      d.RefundAmount,
		RefundReason:      d.RefundReason,
		RefundMethod:      d.RefundMethod,
		RefundedAt:        d.RefundedAt,
		CashierID:         d.CashierID,
		AuditFields:       ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainTransaction converts a model Transaction to a domain Transaction.
func ToDomainTransaction(m models.Transaction) domain.Transaction {
	return domain.Transaction{
		TransactionID:     m.TransactionID,
		InvoiceNumber:     m.InvoiceNumber,
		TransactionDate:   m.TransactionDate,
		CustomerType:      domain.CustomerType(m.CustomerType),
		CustomerID:        m.CustomerID,
		CustomerName:      m.CustomerName,
		Subtotal:          m.Subtotal,
		Tax:               m.Tax,
		Discount:          m.Discount,
		Total:             m.Total,
		PaymentMethod:     m.PaymentMethod,
		PaymentMethodName: m.PaymentMethodName,
		PaidAmount:        m.PaidAmount,
		ChangeAmount:      m.ChangeAmount,
		Status:            domain.TransactionStatus(m.Status),
		CancelReason:      m.CancelReason,
		CancelledAt:       m.CancelledAt,
		RefundAmount:      m.RefundAmount,
		RefundReason:      m.RefundReason,
		RefundMethod:      m.RefundMethod,
		RefundedAt:        m.RefundedAt,
		CashierID:         m.CashierID,
		AuditFields:       ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelTransactionItem converts a domain line item to its model counterpart.
func ToModelTransactionItem(d domain.TransactionItem) models.TransactionItem {
	return models.TransactionItem{
		ItemID:        d.ItemID,
		TransactionID: d.TransactionID,
		LineNumber:    d.LineNumber,
		ProductID:     d.ProductID,
		ProductName:   d.ProductName,
		SKU:           d.SKU,
		Quantity:      d.Quantity,
		Price:         d.Price,
		Discount:      d.Discount,
		Subtotal:      d.Subtotal,
	}
}

// ToDomainTransactionItem converts a model line item to its domain counterpart.
func ToDomainTransactionItem(m models.TransactionItem) domain.TransactionItem {
	return domain.TransactionItem{
		ItemID:        m.ItemID,
		TransactionID: m.TransactionID,
		LineNumber:    m.LineNumber,
		ProductID:     m.ProductID,
		ProductName:   m.ProductName,
		SKU:           m.SKU,
		Quantity:      m.Quantity,
		Price:         m.Price,
		Discount:      m.Discount,
		Subtotal:      m.Subtotal,
	}
}

// ToDomainTransactionItemSlice converts a slice of model line items.
func ToDomainTransactionItemSlice(ms []models.TransactionItem) []domain.TransactionItem {
	ds := make([]domain.TransactionItem, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainTransactionItem(m)
	}
	return ds
}
