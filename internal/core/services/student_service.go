package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/koperasi-pos/kasir_backend/internal/apperrors"
	"github.com/koperasi-pos/kasir_backend/internal/core/domain"
	portsrepo "github.com/koperasi-pos/kasir_backend/internal/core/ports/repositories"
	portssvc "github.com/koperasi-pos/kasir_backend/internal/core/ports/services"
	"github.com/koperasi-pos/kasir_backend/internal/dto"
	"github.com/koperasi-pos/kasir_backend/internal/middleware"
)

var (
	ErrAmountNotPositive   = errors.New("amount must be positive")
	ErrMethodCodeRequired  = errors.New("payment method code is required when not paying from balance")
	ErrLiabilityOverpaid   = errors.New("payment exceeds the outstanding liability amount")
	ErrStudentBalanceShort = errors.New("student balance is insufficient")
)

// studentService implements student accounts, deposits and liabilities.
type studentService struct {
	studentRepo portsrepo.StudentRepositoryFacade
}

// NewStudentService creates a new StudentService.
func NewStudentService(studentRepo portsrepo.StudentRepositoryFacade) portssvc.StudentSvcFacade {
	return &studentService{studentRepo: studentRepo}
}

var _ portssvc.StudentSvcFacade = (*studentService)(nil)

// CreateStudent registers a student with a zero deposit balance.
func (s *studentService) CreateStudent(ctx context.Context, req dto.CreateStudentRequest, userID string) (*domain.Student, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	now := time.Now().UTC()
	student := domain.Student{
		StudentID: uuid.NewString(),
		NIS:       req.NIS,
		Name:      req.Name,
		Class:     req.Class,
		IsActive:  true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.studentRepo.SaveStudent(ctx, &student); err != nil {
		logger.Error("Failed to save student", slog.String("error", err.Error()), slog.String("nis", req.NIS))
		return nil, fmt.Errorf("failed to save student: %w", err)
	}

	logger.Info("Student created", slog.String("student_id", student.StudentID), slog.String("nis", student.NIS))
	return &student, nil
}

// GetStudent retrieves a student by ID.
func (s *studentService) GetStudent(ctx context.Context, studentID string) (*domain.Student, error) {
	student, err := s.studentRepo.FindStudentByID(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to find student %s: %w", studentID, err)
	}
	return student, nil
}

// GetStudentByNIS retrieves a student by registration number.
func (s *studentService) GetStudentByNIS(ctx context.Context, nis string) (*domain.Student, error) {
	student, err := s.studentRepo.FindStudentByNIS(ctx, nis)
	if err != nil {
		return nil, fmt.Errorf("failed to find student by NIS %s: %w", nis, err)
	}
	return student, nil
}

// ListStudents returns students matching the filters.
func (s *studentService) ListStudents(ctx context.Context, params dto.ListStudentsParams) ([]domain.Student, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	students, err := s.studentRepo.ListStudents(ctx, domain.StudentFilter{
		Search:          params.Search,
		Class:           params.Class,
		IncludeInactive: params.IncludeInactive,
		Limit:           limit,
		Offset:          params.Offset,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}
	return students, nil
}

// ListLiabilities returns a student's liabilities, newest first.
func (s *studentService) ListLiabilities(ctx context.Context, studentID string) ([]domain.Liability, error) {
	liabilities, err := s.studentRepo.ListLiabilitiesByStudent(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list liabilities for student %s: %w", studentID, err)
	}
	return liabilities, nil
}

// UpdateStudent applies a partial edit. Balance changes go through TopUp and
// PayLiability only.
func (s *studentService) UpdateStudent(ctx context.Context, studentID string, req dto.UpdateStudentRequest, userID string) (*domain.Student, error) {
	student, err := s.studentRepo.FindStudentByID(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to find student %s: %w", studentID, err)
	}

	if req.Name != nil {
		student.Name = *req.Name
	}
	if req.Class != nil {
		student.Class = *req.Class
	}
	if req.IsActive != nil {
		student.IsActive = *req.IsActive
	}

	now := time.Now().UTC()
	student.LastUpdatedAt = now
	student.LastUpdatedBy = userID

	if err := s.studentRepo.UpdateStudent(ctx, student); err != nil {
		return nil, fmt.Errorf("failed to update student %s: %w", studentID, err)
	}
	return student, nil
}

// DeactivateStudent soft-deletes a student account.
func (s *studentService) DeactivateStudent(ctx context.Context, studentID string, userID string) error {
	if err := s.studentRepo.DeactivateStudent(ctx, studentID, userID); err != nil {
		return fmt.Errorf("failed to deactivate student %s: %w", studentID, err)
	}
	return nil
}

// TopUp credits a student's deposit balance. The student balance, the
// receiving payment method balance and the audit entry commit atomically in
// the repository.
func (s *studentService) TopUp(ctx context.Context, studentID string, req dto.TopUpRequest, userID string) (*domain.Student, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrValidation, ErrAmountNotPositive)
	}

	activity := domain.ActivityLog{
		LogID:       uuid.NewString(),
		UserID:      userID,
		Action:      "topup_student_balance",
		Module:      "students",
		Description: "Student balance top-up",
		Details: map[string]any{
			"studentID":         studentID,
			"amount":            req.Amount.String(),
			"paymentMethodCode": req.PaymentMethodCode,
			"notes":             req.Notes,
		},
		CreatedAt: time.Now().UTC(),
	}

	student, err := s.studentRepo.TopUpBalance(ctx, studentID, req.Amount, req.PaymentMethodCode, &activity)
	if err != nil {
		logger.Error("Failed to top up student balance", slog.String("error", err.Error()), slog.String("student_id", studentID))
		return nil, fmt.Errorf("failed to top up student %s: %w", studentID, err)
	}

	logger.Info("Student balance topped up", slog.String("student_id", studentID), slog.String("amount", req.Amount.String()))
	return student, nil
}

// CreateLiability records an amount a student owes.
func (s *studentService) CreateLiability(ctx context.Context, studentID string, req dto.CreateLiabilityRequest, userID string) (*domain.Liability, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrValidation, ErrAmountNotPositive)
	}

	// Fails with ErrNotFound before writing when the student is unknown.
	if _, err := s.studentRepo.FindStudentByID(ctx, studentID); err != nil {
		return nil, fmt.Errorf("failed to find student %s: %w", studentID, err)
	}

	now := time.Now().UTC()
	liability := domain.Liability{
		LiabilityID: uuid.NewString(),
		StudentID:   studentID,
		Title:       req.Title,
		Amount:      req.Amount,
		Status:      domain.LiabilityUnpaid,
		DueDate:     req.DueDate,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.studentRepo.SaveLiability(ctx, &liability); err != nil {
		logger.Error("Failed to save liability", slog.String("error", err.Error()), slog.String("student_id", studentID))
		return nil, fmt.Errorf("failed to save liability: %w", err)
	}

	logger.Info("Liability created", slog.String("liability_id", liability.LiabilityID), slog.String("student_id", studentID))
	return &liability, nil
}

// PayLiability pays down a liability, from the student's deposit balance or
// over a payment channel. The liability, both balances and the audit entry
// commit atomically in the repository.
func (s *studentService) PayLiability(ctx context.Context, liabilityID string, req dto.PayLiabilityRequest, userID string) (*domain.Liability, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrValidation, ErrAmountNotPositive)
	}
	if !req.FromBalance && req.PaymentMethodCode == "" {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrValidation, ErrMethodCodeRequired)
	}

	liability, err := s.studentRepo.FindLiabilityByID(ctx, liabilityID)
	if err != nil {
		return nil, fmt.Errorf("failed to find liability %s: %w", liabilityID, err)
	}
	if liability.Status == domain.LiabilityPaid {
		return nil, fmt.Errorf("%w: liability %s is already paid", apperrors.ErrInvalidState, liabilityID)
	}

	outstanding := liability.Amount.Sub(liability.PaidAmount)
	if req.Amount.GreaterThan(outstanding) {
		return nil, fmt.Errorf("%w: %w: %s against %s", apperrors.ErrValidation, ErrLiabilityOverpaid, req.Amount.String(), outstanding.String())
	}

	var methodCode *string
	if !req.FromBalance {
		methodCode = &req.PaymentMethodCode
	}

	activity := domain.ActivityLog{
		LogID:       uuid.NewString(),
		UserID:      userID,
		Action:      "pay_liability",
		Module:      "students",
		Description: fmt.Sprintf("Liability payment for %s", liability.Title),
		Details: map[string]any{
			"liabilityID": liabilityID,
			"studentID":   liability.StudentID,
			"amount":      req.Amount.String(),
			"fromBalance": req.FromBalance,
			"notes":       req.Notes,
		},
		CreatedAt: time.Now().UTC(),
	}

	updated, err := s.studentRepo.SettleLiabilityPayment(ctx, liabilityID, req.Amount, req.FromBalance, methodCode, &activity)
	if err != nil {
		logger.Error("Failed to pay liability", slog.String("error", err.Error()), slog.String("liability_id", liabilityID))
		return nil, fmt.Errorf("failed to pay liability %s: %w", liabilityID, err)
	}

	logger.Info("Liability payment recorded", slog.String("liability_id", liabilityID), slog.String("amount", req.Amount.String()), slog.String("status", string(updated.Status)))
	return updated, nil
}
