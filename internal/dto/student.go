package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/koperasi-pos/kasir_backend/internal/core/domain"
)

// CreateStudentRequest is the payload for registering a student account.
type CreateStudentRequest struct {
	NIS   string `json:"nis" binding:"required"`
	Name  string `json:"name" binding:"required"`
	Class string `json:"class"`
}

// UpdateStudentRequest allows partial edits. Balance changes go through
// top-ups and liability payments, never through a plain update.
type UpdateStudentRequest struct {
	Name     *string `json:"name"`
	Class    *string `json:"class"`
	IsActive *bool   `json:"isActive"`
}

// TopUpRequest credits a student balance through a payment channel.
type TopUpRequest struct {
	Amount            decimal.Decimal `json:"amount" binding:"required"`
	PaymentMethodCode string          `json:"paymentMethodCode" binding:"required"`
	Notes             string          `json:"notes"`
}

// CreateLiabilityRequest records an amount a student owes the store.
type CreateLiabilityRequest struct {
	Title   string          `json:"title" binding:"required"`
	Amount  decimal.Decimal `json:"amount" binding:"required"`
	DueDate *time.Time      `json:"dueDate"`
}

// PayLiabilityRequest pays down a liability. When FromBalance is true the
// amount is taken from the student balance, otherwise it is received over
// the named payment channel.
type PayLiabilityRequest struct {
	Amount            decimal.Decimal `json:"amount" binding:"required"`
	FromBalance       bool            `json:"fromBalance"`
	PaymentMethodCode string          `json:"paymentMethodCode"`
	Notes             string          `json:"notes"`
}

// StudentResponse is the API shape of a student.
type StudentResponse struct {
	StudentID string          `json:"id"`
	NIS       string          `json:"nis"`
	Name      string          `json:"name"`
	Class     string          `json:"class"`
	Balance   decimal.Decimal `json:"balance"`
	IsActive  bool            `json:"isActive"`
	CreatedAt time.Time       `json:"createdAt"`
}

// ToStudentResponse converts a domain student to its API shape.
func ToStudentResponse(s *domain.Student) StudentResponse {
	return StudentResponse{
		StudentID: s.StudentID,
		NIS:       s.NIS,
		Name:      s.Name,
		Class:     s.Class,
		Balance:   s.Balance,
		IsActive:  s.IsActive,
		CreatedAt: s.CreatedAt,
	}
}

// LiabilityResponse is the API shape of a student liability.
type LiabilityResponse struct {
	LiabilityID string          `json:"id"`
	StudentID   string          `json:"studentId"`
	Title       string          `json:"title"`
	Amount      decimal.Decimal `json:"amount"`
	PaidAmount  decimal.Decimal `json:"paidAmount"`
	Status      string          `json:"status"`
	DueDate     *time.Time      `json:"dueDate,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// ToLiabilityResponse converts a domain liability to its API shape.
func ToLiabilityResponse(l *domain.Liability) LiabilityResponse {
	return LiabilityResponse{
		LiabilityID: l.LiabilityID,
		StudentID:   l.StudentID,
		Title:       l.Title,
		Amount:      l.Amount,
		PaidAmount:  l.PaidAmount,
		Status:      string(l.Status),
		DueDate:     l.DueDate,
		CreatedAt:   l.CreatedAt,
	}
}

// ListStudentsParams are the supported student list filters.
type ListStudentsParams struct {
	Limit           int    `form:"limit"`
	Offset          int    `form:"offset"`
	Search          string `form:"search"`
	Class           string `form:"class"`
	IncludeInactive bool   `form:"includeInactive"`
}
