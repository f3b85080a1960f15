package mapping

import (
	"github.com/koperasi-pos/kasir_backend/internal/core/domain"
	"github.com/koperasi-pos/kasir_backend/internal/models"
)

// ToModelStudent converts a domain Student to a model Student.
func ToModelStudent(d domain.Student) models.Student {
	return models.Student{
		StudentID:   d.StudentID,
		NIS:         d.NIS,
		Name:        d.Name,
		Class:       d.Class,
		Balance:     d.Balance,
		IsActive:    d.IsActive,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainStudent converts a model Student to a domain Student.
func ToDomainStudent(m models.Student) domain.Student {
	return domain.Student{
		StudentID:   m.StudentID,
		NIS:         m.NIS,
		Name:        m.Name,
		Class:       m.Class,
		Balance:     m.Balance,
		IsActive:    m.IsActive,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelLiability converts a domain Liability to a model Liability.
func ToModelLiability(d domain.Liability) models.Liability {
	return models.Liability{
		LiabilityID: d.LiabilityID,
		StudentID:   d.StudentID,
		Title:       d.Title,
		Amount:      d.Amount,
		PaidAmount:  d.PaidAmount,
		Status:      string(d.Status),
		DueDate:     d.DueDate,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainLiability converts a model Liability to a domain Liability.
func ToDomainLiability(m models.Liability) domain.Liability {
	return domain.Liability{
		LiabilityID: m.LiabilityID,
		StudentID:   m.StudentID,
		Title:       m.Title,
		Amount:      m.Amount,
		PaidAmount:  m.PaidAmount,
		Status:      domain.LiabilityStatus(m.Status),
		DueDate:     m.DueDate,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}
