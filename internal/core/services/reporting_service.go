package services

import (
	"context"
	"fmt"
	"time"

	"github.com/koperasi-pos/kasir_backend/internal/core/domain"
	portsrepo "github.com/koperasi-pos/kasir_backend/internal/core/ports/repositories"
	portssvc "github.com/koperasi-pos/kasir_backend/internal/core/ports/services"
	"github.com/koperasi-pos/kasir_backend/internal/dto"
)

const defaultTopProductsLimit = 10

// reportingService implements aggregate sales queries.
type reportingService struct {
	reportingRepo portsrepo.ReportingReader
}

// NewReportingService creates a new ReportingService.
func NewReportingService(reportingRepo portsrepo.ReportingReader) portssvc.ReportingSvcFacade {
	return &reportingService{reportingRepo: reportingRepo}
}

var _ portssvc.ReportingSvcFacade = (*reportingService)(nil)

// GetDailySalesReport aggregates completed sales for one day, defaulting to
// today (UTC).
func (s *reportingService) GetDailySalesReport(ctx context.Context, date *time.Time) (*domain.DailySalesReport, error) {
	day := time.Now().UTC()
	if date != nil {
		day = *date
	}
	day = day.Truncate(24 * time.Hour)

	report, err := s.reportingRepo.GetDailySalesReport(ctx, day)
	if err != nil {
		return nil, fmt.Errorf("failed to build daily sales report: %w", err)
	}
	return report, nil
}

// GetTopProducts returns the best sellers over a period, defaulting to the
// last 30 days.
func (s *reportingService) GetTopProducts(ctx context.Context, params dto.ReportPeriodParams) ([]domain.TopProduct, error) {
	start, end := resolvePeriod(params)
	limit := params.Limit
	if limit <= 0 {
		limit = defaultTopProductsLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	products, err := s.reportingRepo.GetTopProducts(ctx, start, end, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get top products: %w", err)
	}
	return products, nil
}

// GetTransactionStats summarises transaction counts and revenue over a
// period, defaulting to the last 30 days.
func (s *reportingService) GetTransactionStats(ctx context.Context, params dto.ReportPeriodParams) (*domain.TransactionStats, error) {
	start, end := resolvePeriod(params)

	stats, err := s.reportingRepo.GetTransactionStats(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction stats: %w", err)
	}
	return stats, nil
}

func resolvePeriod(params dto.ReportPeriodParams) (time.Time, time.Time) {
	end := time.Now().UTC()
	if params.EndDate != nil {
		end = params.EndDate.Add(24 * time.Hour) // inclusive end day
	}
	start := end.AddDate(0, 0, -30)
	if params.StartDate != nil {
		start = *params.StartDate
	}
	return start, end
}
