package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/koperasi-pos/kasir_backend/internal/core/ports/services"
	"github.com/koperasi-pos/kasir_backend/internal/dto"
	"github.com/koperasi-pos/kasir_backend/internal/middleware"
)

// stockHandler handles HTTP requests for the stock ledger.
type stockHandler struct {
	stockService portssvc.StockSvcFacade
}

// newStockHandler creates a new stockHandler.
func newStockHandler(stockService portssvc.StockSvcFacade) *stockHandler {
	return &stockHandler{
		stockService: stockService,
	}
}

// adjustStock sets a product's stock to a counted value (opname) and records
// the correction in the ledger.
func (h *stockHandler) adjustStock(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	productID := c.Param("productID")

	adjustReq := dto.StockAdjustmentRequest{}
	if err := c.ShouldBindJSON(&adjustReq); err != nil {
		logger.Error("Failed to bind JSON for adjustStock", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	movement, err := h.stockService.AdjustStock(c.Request.Context(), productID, adjustReq, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to adjust stock")
		return
	}

	logger.Info("Stock adjusted",
		slog.String("product_id", productID),
		slog.Int("actual_stock", adjustReq.ActualStock))
	c.JSON(http.StatusOK, dto.ToStockMovementResponse(*movement))
}

// listProductMovements returns one cursor page of a product's ledger history.
func (h *stockHandler) listProductMovements(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	productID := c.Param("productID")

	params := dto.ListMovementsParams{}
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Error("Failed to bind query for listProductMovements", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters"})
		return
	}

	movements, nextToken, err := h.stockService.ListProductMovements(c.Request.Context(), productID, params)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list stock movements")
		return
	}

	c.JSON(http.StatusOK, dto.ListMovementsResponse{
		Movements: dto.ToStockMovementResponses(movements),
		NextToken: nextToken,
	})
}

// listMovementsByReference returns every movement carrying one reference,
// e.g. an invoice number or its CANCEL-/REFUND- counterpart.
func (h *stockHandler) listMovementsByReference(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	reference := c.Param("reference")

	movements, err := h.stockService.ListMovementsByReference(c.Request.Context(), reference)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list stock movements")
		return
	}

	c.JSON(http.StatusOK, gin.H{"movements": dto.ToStockMovementResponses(movements)})
}

// registerStockRoutes registers the reference lookup on the stock ledger.
// Product scoped stock routes live under /products.
func registerStockRoutes(group *gin.RouterGroup, stockService portssvc.StockSvcFacade) {
	stockHandler := newStockHandler(stockService)

	stock := group.Group("/stock-movements")
	{
		stock.GET("/reference/:reference", stockHandler.listMovementsByReference)
	}
}
