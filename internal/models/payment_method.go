package models

import "github.com/shopspring/decimal"

// PaymentMethod mirrors the payment_methods table.
type PaymentMethod struct {
	MethodID     string          `json:"methodID"`
	Code         string          `json:"code"`
	Name         string          `json:"name"`
	Type         string          `json:"type"`
	Balance      decimal.Decimal `json:"balance"`
	IsActive     bool            `json:"isActive"`
	DisplayOrder int             `json:"displayOrder"`
	AuditFields
}
