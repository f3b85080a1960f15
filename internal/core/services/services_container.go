package services

import (
	portsrepo "github.com/koperasi-pos/kasir_backend/internal/core/ports/repositories"
	portssvc "github.com/koperasi-pos/kasir_backend/internal/core/ports/services"
	"github.com/koperasi-pos/kasir_backend/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos *portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// Payment methods come first since checkout resolves the method through
	// the service, not the repository.
	container.PaymentMethod = NewPaymentMethodService(repos.PaymentMethodRepo)

	container.Product = NewProductService(repos.ProductRepo, repos.ActivityLogRepo)
	container.Stock = NewStockService(repos.ProductRepo, repos.StockMovementRepo)
	container.Transaction = NewTransactionService(
		repos.TransactionRepo,
		container.PaymentMethod,
		cfg.InvoicePrefix,
		cfg.ClampDiscount,
	)
	container.Student = NewStudentService(repos.StudentRepo)
	container.Activity = NewActivityService(repos.ActivityLogRepo)
	container.Reporting = NewReportingService(repos.ReportingRepo)
	container.User = NewUserService(repos.UserRepo)
	container.Auth = NewAuthService(repos.UserRepo, cfg.JWTSecret, cfg.JWTExpiryDuration, cfg.JWTIssuer)

	return container
}
