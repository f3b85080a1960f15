package services

import (
	"context"
	"time"

	"github.com/koperasi-pos/kasir_backend/internal/core/domain"
	"github.com/koperasi-pos/kasir_backend/internal/dto"
)

// ReportingSvcFacade exposes aggregate sales queries.
type ReportingSvcFacade interface {
	GetDailySalesReport(ctx context.Context, date *time.Time) (*domain.DailySalesReport, error)
	GetTopProducts(ctx context.Context, params dto.ReportPeriodParams) ([]domain.TopProduct, error)
	GetTransactionStats(ctx context.Context, params dto.ReportPeriodParams) (*domain.TransactionStats, error)
}
