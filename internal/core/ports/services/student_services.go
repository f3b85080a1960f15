package services

import (
	"context"

	"github.com/koperasi-pos/kasir_backend/internal/core/domain"
	"github.com/koperasi-pos/kasir_backend/internal/dto"
)

// StudentReaderSvc defines read operations for students and liabilities.
type StudentReaderSvc interface {
	GetStudent(ctx context.Context, studentID string) (*domain.Student, error)
	GetStudentByNIS(ctx context.Context, nis string) (*domain.Student, error)
	ListStudents(ctx context.Context, params dto.ListStudentsParams) ([]domain.Student, error)
	ListLiabilities(ctx context.Context, studentID string) ([]domain.Liability, error)
}

// StudentWriterSvc defines write operations for students and liabilities.
type StudentWriterSvc interface {
	CreateStudent(ctx context.Context, req dto.CreateStudentRequest, userID string) (*domain.Student, error)
	UpdateStudent(ctx context.Context, studentID string, req dto.UpdateStudentRequest, userID string) (*domain.Student, error)
	DeactivateStudent(ctx context.Context, studentID string, userID string) error
	TopUp(ctx context.Context, studentID string, req dto.TopUpRequest, userID string) (*domain.Student, error)
	CreateLiability(ctx context.Context, studentID string, req dto.CreateLiabilityRequest, userID string) (*domain.Liability, error)
	PayLiability(ctx context.Context, liabilityID string, req dto.PayLiabilityRequest, userID string) (*domain.Liability, error)
}

// StudentSvcFacade combines reader and writer operations.
type StudentSvcFacade interface {
	StudentReaderSvc
	StudentWriterSvc
}
