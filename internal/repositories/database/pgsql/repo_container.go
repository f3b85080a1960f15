package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/koperasi-pos/kasir_backend/internal/core/ports/repositories"
)

// NewRepositoryProvider wires the pgx repositories together. Repositories
// that write atomically across aggregates receive the tx-scoped operators of
// their collaborators.
func NewRepositoryProvider(dbPool *pgxpool.Pool) *portsrepo.RepositoryProvider {
	movementRepo := newPgxStockMovementRepository(dbPool)
	activityRepo := newPgxActivityLogRepository(dbPool)
	productRepo := newPgxProductRepository(dbPool, movementRepo, activityRepo)
	methodRepo := newPgxPaymentMethodRepository(dbPool, activityRepo)
	transactionRepo := newPgxTransactionRepository(dbPool, productRepo, methodRepo, movementRepo, activityRepo)
	studentRepo := newPgxStudentRepository(dbPool, methodRepo, activityRepo)
	userRepo := newPgxUserRepository(dbPool)
	reportingRepo := newPgxReportingRepository(dbPool)

	return &portsrepo.RepositoryProvider{
		ProductRepo:       productRepo,
		PaymentMethodRepo: methodRepo,
		StockMovementRepo: movementRepo,
		ActivityLogRepo:   activityRepo,
		TransactionRepo:   transactionRepo,
		StudentRepo:       studentRepo,
		UserRepo:          userRepo,
		ReportingRepo:     reportingRepo,
	}
}
