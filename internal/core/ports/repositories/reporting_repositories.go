package repositories

import (
	"context"
	"time"

	"github.com/koperasi-pos/kasir_backend/internal/core/domain"
)

// ReportingReader defines read-only aggregate queries over transactions.
type ReportingReader interface {
	GetDailySalesReport(ctx context.Context, date time.Time) (*domain.DailySalesReport, error)
	GetTopProducts(ctx context.Context, start, end time.Time, limit int) ([]domain.TopProduct, error)
	GetTransactionStats(ctx context.Context, start, end time.Time) (*domain.TransactionStats, error)
}
