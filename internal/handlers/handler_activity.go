package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/koperasi-pos/kasir_backend/internal/core/ports/services"
	"github.com/koperasi-pos/kasir_backend/internal/dto"
	"github.com/koperasi-pos/kasir_backend/internal/middleware"
)

// activityHandler serves the read-only audit trail.
type activityHandler struct {
	activityService portssvc.ActivitySvcFacade
}

func newActivityHandler(activityService portssvc.ActivitySvcFacade) *activityHandler {
	return &activityHandler{
		activityService: activityService,
	}
}

func (h *activityHandler) listActivityLogs(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	params := dto.ListActivityParams{}
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Error("Failed to bind query for listActivityLogs", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters"})
		return
	}

	logs, err := h.activityService.ListActivityLogs(c.Request.Context(), params)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list activity logs")
		return
	}

	resp := make([]dto.ActivityLogResponse, len(logs))
	for i := range logs {
		resp[i] = dto.ToActivityLogResponse(logs[i])
	}
	c.JSON(http.StatusOK, gin.H{"activities": resp})
}

// registerActivityRoutes registers audit trail routes
func registerActivityRoutes(group *gin.RouterGroup, activityService portssvc.ActivitySvcFacade) {
	activityHandler := newActivityHandler(activityService)

	group.GET("/activity-logs", activityHandler.listActivityLogs)
}
