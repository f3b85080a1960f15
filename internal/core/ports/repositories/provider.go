package repositories

// RepositoryProvider bundles the repository implementations handed to the
// service layer at startup.
type RepositoryProvider struct {
	ProductRepo       ProductRepositoryWithTx
	PaymentMethodRepo PaymentMethodRepositoryWithTx
	StockMovementRepo StockMovementRepositoryFacade
	ActivityLogRepo   ActivityLogRepositoryFacade
	TransactionRepo   TransactionRepositoryFacade
	StudentRepo       StudentRepositoryFacade
	UserRepo          UserRepositoryFacade
	ReportingRepo     ReportingReader
}
