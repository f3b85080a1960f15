package dto

import (
	"github.com/shopspring/decimal"

	"github.com/koperasi-pos/kasir_backend/internal/core/domain"
)

// CreatePaymentMethodRequest is the payload for registering a payment channel.
type CreatePaymentMethodRequest struct {
	Code         string `json:"code" binding:"required"`
	Name         string `json:"name" binding:"required"`
	Type         string `json:"type" binding:"required,oneof=cash bank ewallet digital card"`
	DisplayOrder int    `json:"displayOrder"`
}

// UpdatePaymentMethodRequest allows partial edits. Balance is absent:
// balance changes go through the ledger or the manual adjustment path.
type UpdatePaymentMethodRequest struct {
	Name         *string `json:"name"`
	Type         *string `json:"type" binding:"omitempty,oneof=cash bank ewallet digital card"`
	DisplayOrder *int    `json:"displayOrder"`
	IsActive     *bool   `json:"isActive"`
}

// AdjustBalanceRequest is the manual correction path, distinct from the
// transactional ledger. "set" overwrites the balance outright; "add" and
// "subtract" apply a delta. Every use is audit-logged.
type AdjustBalanceRequest struct {
	AdjustmentType string          `json:"adjustmentType" binding:"required,oneof=add subtract set"`
	Amount         decimal.Decimal `json:"amount"`
	Balance        decimal.Decimal `json:"balance"`
	Notes          string          `json:"notes" binding:"required"`
}

// PaymentMethodResponse is the API shape of a payment method.
type PaymentMethodResponse struct {
	MethodID     string          `json:"id"`
	Code         string          `json:"code"`
	Name         string          `json:"name"`
	Type         string          `json:"type"`
	Balance      decimal.Decimal `json:"balance"`
	IsActive     bool            `json:"isActive"`
	DisplayOrder int             `json:"displayOrder"`
}

// ToPaymentMethodResponse converts a domain payment method to its API shape.
func ToPaymentMethodResponse(m *domain.PaymentMethod) PaymentMethodResponse {
	return PaymentMethodResponse{
		MethodID:     m.MethodID,
		Code:         m.Code,
		Name:         m.Name,
		Type:         string(m.Type),
		Balance:      m.Balance,
		IsActive:     m.IsActive,
		DisplayOrder: m.DisplayOrder,
	}
}
