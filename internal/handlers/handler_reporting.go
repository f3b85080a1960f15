package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/koperasi-pos/kasir_backend/internal/core/ports/services"
	"github.com/koperasi-pos/kasir_backend/internal/dto"
	"github.com/koperasi-pos/kasir_backend/internal/middleware"
)

// reportingHandler serves aggregate sales reports.
type reportingHandler struct {
	reportingService portssvc.ReportingSvcFacade
}

func newReportingHandler(reportingService portssvc.ReportingSvcFacade) *reportingHandler {
	return &reportingHandler{
		reportingService: reportingService,
	}
}

// getDailySales reports one calendar day of completed sales, defaulting to
// today.
func (h *reportingHandler) getDailySales(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	params := dto.DailySalesParams{}
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Error("Failed to bind query for getDailySales", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters"})
		return
	}

	report, err := h.reportingService.GetDailySalesReport(c.Request.Context(), params.Date)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to build daily sales report")
		return
	}

	c.JSON(http.StatusOK, report)
}

// getTopProducts ranks products by quantity sold over a period.
func (h *reportingHandler) getTopProducts(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	params := dto.ReportPeriodParams{}
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Error("Failed to bind query for getTopProducts", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters"})
		return
	}

	products, err := h.reportingService.GetTopProducts(c.Request.Context(), params)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to build top products report")
		return
	}

	c.JSON(http.StatusOK, gin.H{"topProducts": products})
}

// getTransactionStats counts transactions per status over a period.
func (h *reportingHandler) getTransactionStats(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	params := dto.ReportPeriodParams{}
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Error("Failed to bind query for getTransactionStats", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters"})
		return
	}

	stats, err := h.reportingService.GetTransactionStats(c.Request.Context(), params)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to build transaction stats")
		return
	}

	c.JSON(http.StatusOK, stats)
}

// registerReportingRoutes registers reporting specific routes
func registerReportingRoutes(group *gin.RouterGroup, reportingService portssvc.ReportingSvcFacade) {
	reportingHandler := newReportingHandler(reportingService)

	reports := group.Group("/reports")
	{
		reports.GET("/daily-sales", reportingHandler.getDailySales)
		reports.GET("/top-products", reportingHandler.getTopProducts)
		reports.GET("/transaction-stats", reportingHandler.getTransactionStats)
	}
}
