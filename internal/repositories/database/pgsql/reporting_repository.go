package pgsql

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/koperasi-pos/kasir_backend/internal/apperrors"
	"github.com/koperasi-pos/kasir_backend/internal/core/domain"
	portsrepo "github.com/koperasi-pos/kasir_backend/internal/core/ports/repositories"
)

type PgxReportingRepository struct {
	BaseRepository
}

// newPgxReportingRepository creates a read-only repository for sales reports.
func newPgxReportingRepository(pool *pgxpool.Pool) portsrepo.ReportingReader {
	return &PgxReportingRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.ReportingReader = (*PgxReportingRepository)(nil)

// GetDailySalesReport aggregates completed transactions for one calendar day.
func (r *PgxReportingRepository) GetDailySalesReport(ctx context.Context, date time.Time) (*domain.DailySalesReport, error) {
	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	dayEnd := dayStart.AddDate(0, 0, 1)

	report := &domain.DailySalesReport{
		Date:            dayStart,
		ByPaymentMethod: []domain.PaymentMethodBreakdown{},
		ByCustomerType:  []domain.CustomerTypeBreakdown{},
	}

	totalsQuery := `
		SELECT COUNT(*),
		       COALESCE(SUM(subtotal), 0),
		       COALESCE(SUM(discount), 0),
		       COALESCE(SUM(tax), 0),
		       COALESCE(SUM(total), 0)
		FROM transactions
		WHERE status = 'completed' AND transaction_date >= $1 AND transaction_date < $2;
	`
	err := r.Pool.QueryRow(ctx, totalsQuery, dayStart, dayEnd).Scan(
		&report.TransactionCount,
		&report.GrossSales,
		&report.TotalDiscount,
		&report.TotalTax,
		&report.NetSales,
	)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to aggregate daily sales", err)
	}

	breakdownQuery := `
		SELECT payment_method, COUNT(*), COALESCE(SUM(total), 0)
		FROM transactions
		WHERE status = 'completed' AND transaction_date >= $1 AND transaction_date < $2
		GROUP BY payment_method
		ORDER BY SUM(total) DESC;
	`
	rows, err := r.Pool.Query(ctx, breakdownQuery, dayStart, dayEnd)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query payment method breakdown", err)
	}
	defer rows.Close()

	for rows.Next() {
		var b domain.PaymentMethodBreakdown
		if err := rows.Scan(&b.PaymentMethod, &b.Count, &b.Total); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan payment method breakdown row", err)
		}
		report.ByPaymentMethod = append(report.ByPaymentMethod, b)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating payment method breakdown rows", err)
	}

	customerQuery := `
		SELECT customer_type, COUNT(*), COALESCE(SUM(total), 0)
		FROM transactions
		WHERE status = 'completed' AND transaction_date >= $1 AND transaction_date < $2
		GROUP BY customer_type
		ORDER BY customer_type;
	`
	customerRows, err := r.Pool.Query(ctx, customerQuery, dayStart, dayEnd)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query customer type breakdown", err)
	}
	defer customerRows.Close()

	for customerRows.Next() {
		var b domain.CustomerTypeBreakdown
		if err := customerRows.Scan(&b.CustomerType, &b.Count, &b.Total); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan customer type breakdown row", err)
		}
		report.ByCustomerType = append(report.ByCustomerType, b)
	}
	if err := customerRows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating customer type breakdown rows", err)
	}

	return report, nil
}

// GetTopProducts ranks products by quantity sold over a period. Only
// completed transactions count.
func (r *PgxReportingRepository) GetTopProducts(ctx context.Context, start time.Time, end time.Time, limit int) ([]domain.TopProduct, error) {
	query := `
		SELECT ti.product_id, ti.product_name,
		       COALESCE(SUM(ti.quantity), 0),
		       COALESCE(SUM(ti.subtotal), 0)
		FROM transaction_items ti
		JOIN transactions t ON t.transaction_id = ti.transaction_id
		WHERE t.status = 'completed' AND t.transaction_date >= $1 AND t.transaction_date < $2
		GROUP BY ti.product_id, ti.product_name
		ORDER BY SUM(ti.quantity) DESC, ti.product_name
		LIMIT $3;
	`
	rows, err := r.Pool.Query(ctx, query, start, end, limit)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query top products", err)
	}
	defer rows.Close()

	products := []domain.TopProduct{}
	for rows.Next() {
		var p domain.TopProduct
		if err := rows.Scan(&p.ProductID, &p.ProductName, &p.QuantitySold, &p.Revenue); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan top product row", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating top product rows", err)
	}
	return products, nil
}

// GetTransactionStats counts transactions per status over a period. Revenue
// covers completed transactions; the refunded sum is what went back out.
func (r *PgxReportingRepository) GetTransactionStats(ctx context.Context, start time.Time, end time.Time) (*domain.TransactionStats, error) {
	query := `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE status = 'pending'),
		       COUNT(*) FILTER (WHERE status = 'completed'),
		       COUNT(*) FILTER (WHERE status = 'cancelled'),
		       COUNT(*) FILTER (WHERE status = 'refunded'),
		       COALESCE(SUM(total) FILTER (WHERE status = 'completed'), 0),
		       COALESCE(SUM(refund_amount) FILTER (WHERE status = 'refunded'), 0)
		FROM transactions
		WHERE transaction_date >= $1 AND transaction_date < $2;
	`
	var stats domain.TransactionStats
	err := r.Pool.QueryRow(ctx, query, start, end).Scan(
		&stats.TotalCount,
		&stats.PendingCount,
		&stats.CompletedCount,
		&stats.CancelledCount,
		&stats.RefundedCount,
		&stats.TotalRevenue,
		&stats.TotalRefunded,
	)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to aggregate transaction stats", err)
	}
	return &stats, nil
}
