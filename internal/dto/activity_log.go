package dto

import (
	"time"

	"github.com/koperasi-pos/kasir_backend/internal/core/domain"
)

// ActivityLogResponse is the API shape of an activity log entry.
type ActivityLogResponse struct {
	LogID       string         `json:"id"`
	UserID      string         `json:"userId"`
	Action      string         `json:"action"`
	Module      string         `json:"module"`
	Description string         `json:"description"`
	Details     map[string]any `json:"details,omitempty"`
	CreatedAt   time.Time      `json:"createdAt"`
}

// ToActivityLogResponse converts a domain log entry to its API shape.
func ToActivityLogResponse(l domain.ActivityLog) ActivityLogResponse {
	return ActivityLogResponse{
		LogID:       l.LogID,
		UserID:      l.UserID,
		Action:      l.Action,
		Module:      l.Module,
		Description: l.Description,
		Details:     l.Details,
		CreatedAt:   l.CreatedAt,
	}
}

// ListActivityParams are the supported activity list filters.
type ListActivityParams struct {
	Limit  int     `form:"limit"`
	Module *string `form:"module"`
	UserID *string `form:"userId"`
}
