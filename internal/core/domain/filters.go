package domain

import "time"

// TransactionFilter narrows a transaction listing. Nil fields are ignored.
type TransactionFilter struct {
	Status        *TransactionStatus
	PaymentMethod *string
	CustomerType  *CustomerType
	StartDate     *time.Time
	EndDate       *time.Time
}

// ProductFilter narrows a catalog listing.
type ProductFilter struct {
	Search          string
	IncludeInactive bool
	LowStockOnly    bool
	Limit           int
	Offset          int
}

// StudentFilter narrows a student listing.
type StudentFilter struct {
	Search          string
	Class           string
	IncludeInactive bool
	Limit           int
	Offset          int
}

// ActivityFilter narrows an activity log listing.
type ActivityFilter struct {
	Module *string
	UserID *string
	Limit  int
}
