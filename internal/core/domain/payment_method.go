package domain

import "github.com/shopspring/decimal"

// PaymentMethodType classifies a payment channel.
type PaymentMethodType string

const (
	MethodCash    PaymentMethodType = "cash"
	MethodBank    PaymentMethodType = "bank"
	MethodEwallet PaymentMethodType = "ewallet"
	MethodDigital PaymentMethodType = "digital"
	MethodCard    PaymentMethodType = "card"
)

// BalanceDirection is the sign of a balance ledger adjustment.
type BalanceDirection string

const (
	BalanceAdd      BalanceDirection = "add"
	BalanceSubtract BalanceDirection = "subtract"
)

// PaymentMethod is a payment channel with a running float balance (cash
// drawer, bank account, e-wallet). Balance is mutated exclusively through
// the balance ledger, except for the audited manual correction path.
type PaymentMethod struct {
	MethodID     string            `json:"methodID"` // Primary Key (UUID)
	Code         string            `json:"code"`     // Unique
	Name         string            `json:"name"`
	Type         PaymentMethodType `json:"type"`
	Balance      decimal.Decimal   `json:"balance"`
	IsActive     bool              `json:"isActive"`
	DisplayOrder int               `json:"displayOrder"`
	AuditFields
}
