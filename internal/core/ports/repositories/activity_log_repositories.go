package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/koperasi-pos/kasir_backend/internal/core/domain"
)

// ActivityLogReader defines read operations for the activity log.
type ActivityLogReader interface {
	ListActivityLogs(ctx context.Context, filter domain.ActivityFilter) ([]domain.ActivityLog, error)
}

// ActivityLogWriter defines write operations for the activity log.
type ActivityLogWriter interface {
	SaveActivityLog(ctx context.Context, log *domain.ActivityLog) error
}

// ActivityLogTxWriter appends a log entry inside a caller managed database
// transaction, so ledger events and their audit trail commit together.
type ActivityLogTxWriter interface {
	InsertActivityLogInTx(ctx context.Context, tx pgx.Tx, log *domain.ActivityLog) error
}

// ActivityLogRepositoryFacade combines the activity log operations.
type ActivityLogRepositoryFacade interface {
	ActivityLogReader
	ActivityLogWriter
	ActivityLogTxWriter
}
