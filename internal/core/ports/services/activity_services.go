package services

import (
	"context"

	"github.com/koperasi-pos/kasir_backend/internal/core/domain"
	"github.com/koperasi-pos/kasir_backend/internal/dto"
)

// ActivitySvcFacade exposes the audit trail. Writes happen inside the
// services that perform the audited actions; this surface is read-only.
type ActivitySvcFacade interface {
	ListActivityLogs(ctx context.Context, params dto.ListActivityParams) ([]domain.ActivityLog, error)
}
