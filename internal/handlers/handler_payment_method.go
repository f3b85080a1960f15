package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/koperasi-pos/kasir_backend/internal/core/ports/services"
	"github.com/koperasi-pos/kasir_backend/internal/dto"
	"github.com/koperasi-pos/kasir_backend/internal/middleware"
)

// paymentMethodHandler handles HTTP requests for payment methods and their
// running balances.
type paymentMethodHandler struct {
	paymentMethodService portssvc.PaymentMethodSvcFacade
}

// newPaymentMethodHandler creates a new paymentMethodHandler.
func newPaymentMethodHandler(paymentMethodService portssvc.PaymentMethodSvcFacade) *paymentMethodHandler {
	return &paymentMethodHandler{
		paymentMethodService: paymentMethodService,
	}
}

func (h *paymentMethodHandler) createPaymentMethod(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	createReq := dto.CreatePaymentMethodRequest{}
	if err := c.ShouldBindJSON(&createReq); err != nil {
		logger.Error("Failed to bind JSON for createPaymentMethod", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	method, err := h.paymentMethodService.CreatePaymentMethod(c.Request.Context(), createReq, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to create payment method")
		return
	}

	logger.Info("Payment method created", slog.String("method_id", method.MethodID), slog.String("code", method.Code))
	c.JSON(http.StatusCreated, dto.ToPaymentMethodResponse(method))
}

func (h *paymentMethodHandler) getPaymentMethod(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	methodID := c.Param("methodID")

	method, err := h.paymentMethodService.GetPaymentMethod(c.Request.Context(), methodID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to retrieve payment method")
		return
	}

	c.JSON(http.StatusOK, dto.ToPaymentMethodResponse(method))
}

func (h *paymentMethodHandler) listPaymentMethods(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	activeOnly := c.Query("activeOnly") == "true"

	methods, err := h.paymentMethodService.ListPaymentMethods(c.Request.Context(), activeOnly)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list payment methods")
		return
	}

	resp := make([]dto.PaymentMethodResponse, len(methods))
	for i := range methods {
		resp[i] = dto.ToPaymentMethodResponse(&methods[i])
	}
	c.JSON(http.StatusOK, gin.H{"paymentMethods": resp})
}

func (h *paymentMethodHandler) updatePaymentMethod(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	methodID := c.Param("methodID")

	updateReq := dto.UpdatePaymentMethodRequest{}
	if err := c.ShouldBindJSON(&updateReq); err != nil {
		logger.Error("Failed to bind JSON for updatePaymentMethod", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	method, err := h.paymentMethodService.UpdatePaymentMethod(c.Request.Context(), methodID, updateReq, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to update payment method")
		return
	}

	logger.Info("Payment method updated", slog.String("method_id", methodID))
	c.JSON(http.StatusOK, dto.ToPaymentMethodResponse(method))
}

func (h *paymentMethodHandler) deactivatePaymentMethod(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	methodID := c.Param("methodID")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.paymentMethodService.DeactivatePaymentMethod(c.Request.Context(), methodID, userID); err != nil {
		respondServiceError(c, logger, err, "Failed to deactivate payment method")
		return
	}

	logger.Info("Payment method deactivated", slog.String("method_id", methodID))
	c.Status(http.StatusNoContent)
}

// adjustBalance corrects a payment method balance outside the transaction
// ledger, with a mandatory note for the audit trail.
func (h *paymentMethodHandler) adjustBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	methodID := c.Param("methodID")

	adjustReq := dto.AdjustBalanceRequest{}
	if err := c.ShouldBindJSON(&adjustReq); err != nil {
		logger.Error("Failed to bind JSON for adjustBalance", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	method, err := h.paymentMethodService.AdjustBalance(c.Request.Context(), methodID, adjustReq, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to adjust balance")
		return
	}

	logger.Info("Payment method balance adjusted",
		slog.String("method_id", methodID),
		slog.String("adjustment_type", adjustReq.AdjustmentType))
	c.JSON(http.StatusOK, dto.ToPaymentMethodResponse(method))
}

// registerPaymentMethodRoutes registers payment method specific routes
func registerPaymentMethodRoutes(group *gin.RouterGroup, paymentMethodService portssvc.PaymentMethodSvcFacade) {
	paymentMethodHandler := newPaymentMethodHandler(paymentMethodService)

	methods := group.Group("/payment-methods")
	{
		methods.POST("", paymentMethodHandler.createPaymentMethod)
		methods.GET("", paymentMethodHandler.listPaymentMethods)
		methods.GET("/:methodID", paymentMethodHandler.getPaymentMethod)
		methods.PUT("/:methodID", paymentMethodHandler.updatePaymentMethod)
		methods.DELETE("/:methodID", paymentMethodHandler.deactivatePaymentMethod)
		methods.POST("/:methodID/adjust-balance", paymentMethodHandler.adjustBalance)
	}
}
