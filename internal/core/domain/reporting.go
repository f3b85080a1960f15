package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DailySalesReport aggregates completed transactions for one calendar day.
// Cancelled and refunded transactions are excluded from the totals.
type DailySalesReport struct {
	Date             time.Time                `json:"date"`
	TransactionCount int                      `json:"transactionCount"`
	GrossSales       decimal.Decimal          `json:"grossSales"`
	TotalDiscount    decimal.Decimal          `json:"totalDiscount"`
	TotalTax         decimal.Decimal          `json:"totalTax"`
	NetSales         decimal.Decimal          `json:"netSales"`
	ByPaymentMethod  []PaymentMethodBreakdown `json:"byPaymentMethod"`
	ByCustomerType   []CustomerTypeBreakdown  `json:"byCustomerType"`
}

// PaymentMethodBreakdown is one payment channel's share of a sales report.
type PaymentMethodBreakdown struct {
	PaymentMethod string          `json:"paymentMethod"`
	Count         int             `json:"count"`
	Total         decimal.Decimal `json:"total"`
}

// CustomerTypeBreakdown splits a sales report between walk-in and student
// customers.
type CustomerTypeBreakdown struct {
	CustomerType string          `json:"customerType"`
	Count        int             `json:"count"`
	Total        decimal.Decimal `json:"total"`
}

// TopProduct is one row of the best-sellers report.
type TopProduct struct {
	ProductID    string          `json:"productID"`
	ProductName  string          `json:"productName"`
	QuantitySold int             `json:"quantitySold"`
	Revenue      decimal.Decimal `json:"revenue"`
}

// TransactionStats summarises transaction counts by status over a period.
type TransactionStats struct {
	TotalCount     int             `json:"totalCount"`
	PendingCount   int             `json:"pendingCount"`
	CompletedCount int             `json:"completedCount"`
	CancelledCount int             `json:"cancelledCount"`
	RefundedCount  int             `json:"refundedCount"`
	TotalRevenue   decimal.Decimal `json:"totalRevenue"`
	TotalRefunded  decimal.Decimal `json:"totalRefunded"`
}
