package mapping

import (
	"github.com/koperasi-pos/kasir_backend/internal/core/domain"
	"github.com/koperasi-pos/kasir_backend/internal/models"
)

// ToModelActivityLog converts a domain ActivityLog to a model ActivityLog.
func ToModelActivityLog(d domain.ActivityLog) models.ActivityLog {
	return models.ActivityLog{
		LogID:       d.LogID,
		UserID:      d.UserID,
		Action:      d.Action,
		Module:      d.Module,
		Description: d.Description,
		Details:     d.Details,
		CreatedAt:   d.CreatedAt,
	}
}

// ToDomainActivityLog converts a model ActivityLog to a domain ActivityLog.
func ToDomainActivityLog(m models.ActivityLog) domain.ActivityLog {
	return domain.ActivityLog{
		LogID:       m.LogID,
		UserID:      m.UserID,
		Action:      m.Action,
		Module:      m.Module,
		Description: m.Description,
		Details:     m.Details,
		CreatedAt:   m.CreatedAt,
	}
}

// ToDomainActivityLogSlice converts a slice of model ActivityLogs.
func ToDomainActivityLogSlice(ms []models.ActivityLog) []domain.ActivityLog {
	ds := make([]domain.ActivityLog, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainActivityLog(m)
	}
	return ds
}
