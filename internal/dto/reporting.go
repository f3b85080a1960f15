package dto

import "time"

// DailySalesParams selects the day for the daily sales report. Defaults to
// today when absent.
type DailySalesParams struct {
	Date *time.Time `form:"date" time_format:"2006-01-02"`
}

// ReportPeriodParams bounds a report to a date range.
type ReportPeriodParams struct {
	StartDate *time.Time `form:"startDate" time_format:"2006-01-02"`
	EndDate   *time.Time `form:"endDate" time_format:"2006-01-02"`
	Limit     int        `form:"limit"`
}
