package pgsql

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/koperasi-pos/kasir_backend/internal/apperrors"
	"github.com/koperasi-pos/kasir_backend/internal/core/domain"
	portsrepo "github.com/koperasi-pos/kasir_backend/internal/core/ports/repositories"
	"github.com/koperasi-pos/kasir_backend/internal/models"
	"github.com/koperasi-pos/kasir_backend/internal/utils/mapping"
)

type PgxActivityLogRepository struct {
	BaseRepository
}

// newPgxActivityLogRepository creates a new repository for the audit trail.
func newPgxActivityLogRepository(pool *pgxpool.Pool) portsrepo.ActivityLogRepositoryFacade {
	return &PgxActivityLogRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.ActivityLogRepositoryFacade = (*PgxActivityLogRepository)(nil)

const activityLogColumns = `log_id, user_id, action, module, description, details, created_at`

const insertActivityLogQuery = `
	INSERT INTO activity_logs (` + activityLogColumns + `)
	VALUES ($1, $2, $3, $4, $5, $6, $7);
`

func activityLogArgs(log *domain.ActivityLog) ([]interface{}, error) {
	m := mapping.ToModelActivityLog(*log)
	var details []byte
	if m.Details != nil {
		var err error
		details, err = json.Marshal(m.Details)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to marshal activity log details", err)
		}
	}
	return []interface{}{m.LogID, m.UserID, m.Action, m.Module, m.Description, details, m.CreatedAt}, nil
}

// SaveActivityLog appends an audit entry outside any ledger transaction.
func (r *PgxActivityLogRepository) SaveActivityLog(ctx context.Context, log *domain.ActivityLog) error {
	args, err := activityLogArgs(log)
	if err != nil {
		return err
	}
	if _, err := r.Pool.Exec(ctx, insertActivityLogQuery, args...); err != nil {
		return apperrors.NewAppError(500, "failed to insert activity log "+log.LogID, err)
	}
	return nil
}

// InsertActivityLogInTx appends an audit entry within a caller managed
// database transaction.
func (r *PgxActivityLogRepository) InsertActivityLogInTx(ctx context.Context, tx pgx.Tx, log *domain.ActivityLog) error {
	args, err := activityLogArgs(log)
	if err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, insertActivityLogQuery, args...); err != nil {
		return apperrors.NewAppError(500, "failed to insert activity log "+log.LogID, err)
	}
	return nil
}

// ListActivityLogs returns recent audit entries, newest first.
func (r *PgxActivityLogRepository) ListActivityLogs(ctx context.Context, filter domain.ActivityFilter) ([]domain.ActivityLog, error) {
	query := `SELECT ` + activityLogColumns + ` FROM activity_logs WHERE 1=1`
	args := []interface{}{}

	if filter.Module != nil {
		args = append(args, *filter.Module)
		query += ` AND module = $` + strconv.Itoa(len(args))
	}
	if filter.UserID != nil {
		args = append(args, *filter.UserID)
		query += ` AND user_id = $` + strconv.Itoa(len(args))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	args = append(args, limit)
	query += ` ORDER BY created_at DESC LIMIT $` + strconv.Itoa(len(args)) + `;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query activity logs", err)
	}
	defer rows.Close()

	logs := []models.ActivityLog{}
	for rows.Next() {
		var m models.ActivityLog
		var details []byte
		err := rows.Scan(
			&m.LogID,
			&m.UserID,
			&m.Action,
			&m.Module,
			&m.Description,
			&details,
			&m.CreatedAt,
		)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan activity log row", err)
		}
		if len(details) > 0 {
			if err := json.Unmarshal(details, &m.Details); err != nil {
				return nil, apperrors.NewAppError(500, "failed to unmarshal activity log details for "+m.LogID, err)
			}
		}
		logs = append(logs, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating activity log rows", err)
	}

	return mapping.ToDomainActivityLogSlice(logs), nil
}
