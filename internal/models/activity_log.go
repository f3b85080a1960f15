package models

import "time"

// ActivityLog mirrors the activity_logs table. Details is stored as JSONB.
type ActivityLog struct {
	LogID       string         `json:"logID"`
	UserID      string         `json:"userID"`
	Action      string         `json:"action"`
	Module      string         `json:"module"`
	Description string         `json:"description"`
	Details     map[string]any `json:"details"`
	CreatedAt   time.Time      `json:"createdAt"`
}
