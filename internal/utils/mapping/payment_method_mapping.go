package mapping

import (
	"github.com/koperasi-pos/kasir_backend/internal/core/domain"
	"github.com/koperasi-pos/kasir_backend/internal/models"
)

// ToModelPaymentMethod converts a domain PaymentMethod to a model PaymentMethod.
func ToModelPaymentMethod(d domain.PaymentMethod) models.PaymentMethod {
	return models.PaymentMethod{
		MethodID:     d.MethodID,
		Code:         d.Code,
		Name:         d.Name,
		Type:         string(d.Type),
		Balance:      d.Balance,
		IsActive:     d.IsActive,
		DisplayOrder: d.DisplayOrder,
		AuditFields:  ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainPaymentMethod converts a model PaymentMethod to a domain PaymentMethod.
func ToDomainPaymentMethod(m models.PaymentMethod) domain.PaymentMethod {
	return domain.PaymentMethod{
		MethodID:     m.MethodID,
		Code:         m.Code,
		Name:         m.Name,
		Type:         domain.PaymentMethodType(m.Type),
		Balance:      m.Balance,
		IsActive:     m.IsActive,
		DisplayOrder: m.DisplayOrder,
		AuditFields:  ToDomainAuditFields(m.AuditFields),
	}
}
