package repositories

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/koperasi-pos/kasir_backend/internal/core/domain"
)

// StudentReader defines read operations for students and their liabilities.
type StudentReader interface {
	FindStudentByID(ctx context.Context, studentID string) (*domain.Student, error)
	FindStudentByNIS(ctx context.Context, nis string) (*domain.Student, error)
	ListStudents(ctx context.Context, filter domain.StudentFilter) ([]domain.Student, error)
	FindLiabilityByID(ctx context.Context, liabilityID string) (*domain.Liability, error)
	ListLiabilitiesByStudent(ctx context.Context, studentID string) ([]domain.Liability, error)
}

// StudentWriter defines write operations for students and their liabilities.
type StudentWriter interface {
	SaveStudent(ctx context.Context, student *domain.Student) error
	UpdateStudent(ctx context.Context, student *domain.Student) error
	DeactivateStudent(ctx context.Context, studentID string, userID string) error
	SaveLiability(ctx context.Context, liability *domain.Liability) error
	// TopUpBalance credits a student's deposit balance and the receiving
	// payment method in one database transaction, with the audit entry.
	TopUpBalance(ctx context.Context, studentID string, amount decimal.Decimal, methodCode string, activity *domain.ActivityLog) (*domain.Student, error)
	// SettleLiabilityPayment pays down a liability. When fromBalance is
	// true the amount is debited from the student balance, otherwise the
	// named payment method is credited. Liability, balances and audit log
	// commit atomically; the updated liability is returned.
	SettleLiabilityPayment(ctx context.Context, liabilityID string, amount decimal.Decimal, fromBalance bool, methodCode *string, activity *domain.ActivityLog) (*domain.Liability, error)
}

// StudentRepositoryFacade combines reader and writer operations.
type StudentRepositoryFacade interface {
	StudentReader
	StudentWriter
}
