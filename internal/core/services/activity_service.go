package services

import (
	"context"
	"fmt"

	"github.com/koperasi-pos/kasir_backend/internal/core/domain"
	portsrepo "github.com/koperasi-pos/kasir_backend/internal/core/ports/repositories"
	portssvc "github.com/koperasi-pos/kasir_backend/internal/core/ports/services"
	"github.com/koperasi-pos/kasir_backend/internal/dto"
)

// activityService exposes the audit trail for reading.
type activityService struct {
	activityRepo portsrepo.ActivityLogReader
}

// NewActivityService creates a new ActivityService.
func NewActivityService(activityRepo portsrepo.ActivityLogReader) portssvc.ActivitySvcFacade {
	return &activityService{activityRepo: activityRepo}
}

var _ portssvc.ActivitySvcFacade = (*activityService)(nil)

// ListActivityLogs returns recent audit entries, newest first.
func (s *activityService) ListActivityLogs(ctx context.Context, params dto.ListActivityParams) ([]domain.ActivityLog, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	logs, err := s.activityRepo.ListActivityLogs(ctx, domain.ActivityFilter{
		Module: params.Module,
		UserID: params.UserID,
		Limit:  limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list activity logs: %w", err)
	}
	return logs, nil
}
