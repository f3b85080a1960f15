package services

// ServiceContainer bundles the service implementations handed to the HTTP
// layer at startup.
type ServiceContainer struct {
	Transaction   TransactionSvcFacade
	Product       ProductSvcFacade
	Stock         StockSvcFacade
	PaymentMethod PaymentMethodSvcFacade
	Student       StudentSvcFacade
	Activity      ActivitySvcFacade
	Reporting     ReportingSvcFacade
	User          UserSvcFacade
	Auth          AuthSvcFacade
}
