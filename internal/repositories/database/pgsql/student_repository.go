package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/koperasi-pos/kasir_backend/internal/apperrors"
	"github.com/koperasi-pos/kasir_backend/internal/core/domain"
	portsrepo "github.com/koperasi-pos/kasir_backend/internal/core/ports/repositories"
	"github.com/koperasi-pos/kasir_backend/internal/models"
	"github.com/koperasi-pos/kasir_backend/internal/utils/mapping"
)

type PgxStudentRepository struct {
	BaseRepository
	methodRepo   portsrepo.PaymentMethodTxOperator
	activityRepo portsrepo.ActivityLogTxWriter
}

// newPgxStudentRepository creates a new repository for students and their
// liabilities.
func newPgxStudentRepository(pool *pgxpool.Pool, methodRepo portsrepo.PaymentMethodTxOperator, activityRepo portsrepo.ActivityLogTxWriter) portsrepo.StudentRepositoryFacade {
	return &PgxStudentRepository{
		BaseRepository: BaseRepository{Pool: pool},
		methodRepo:     methodRepo,
		activityRepo:   activityRepo,
	}
}

var _ portsrepo.StudentRepositoryFacade = (*PgxStudentRepository)(nil)

const studentColumns = `student_id, nis, name, class, balance, is_active, created_at, created_by, last_updated_at, last_updated_by`

const liabilityColumns = `liability_id, student_id, title, amount, paid_amount, status, due_date, created_at, created_by, last_updated_at, last_updated_by`

func scanStudent(row pgx.Row) (*models.Student, error) {
	var m models.Student
	err := row.Scan(
		&m.StudentID,
		&m.NIS,
		&m.Name,
		&m.Class,
		&m.Balance,
		&m.IsActive,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func scanLiability(row pgx.Row) (*models.Liability, error) {
	var m models.Liability
	err := row.Scan(
		&m.LiabilityID,
		&m.StudentID,
		&m.Title,
		&m.Amount,
		&m.PaidAmount,
		&m.Status,
		&m.DueDate,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// SaveStudent inserts a student.
func (r *PgxStudentRepository) SaveStudent(ctx context.Context, student *domain.Student) error {
	m := mapping.ToModelStudent(*student)
	query := `
		INSERT INTO students (` + studentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.StudentID,
		m.NIS,
		m.Name,
		m.Class,
		m.Balance,
		m.IsActive,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: student NIS %s already exists", apperrors.ErrDuplicate, student.NIS)
		}
		return apperrors.NewAppError(500, "failed to insert student "+student.StudentID, err)
	}
	return nil
}

// FindStudentByID retrieves a student by ID.
func (r *PgxStudentRepository) FindStudentByID(ctx context.Context, studentID string) (*domain.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students WHERE student_id = $1;`
	m, err := scanStudent(r.Pool.QueryRow(ctx, query, studentID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find student by ID "+studentID, err)
	}
	student := mapping.ToDomainStudent(*m)
	return &student, nil
}

// FindStudentByNIS retrieves a student by registration number.
func (r *PgxStudentRepository) FindStudentByNIS(ctx context.Context, nis string) (*domain.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students WHERE nis = $1;`
	m, err := scanStudent(r.Pool.QueryRow(ctx, query, nis))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find student by NIS "+nis, err)
	}
	student := mapping.ToDomainStudent(*m)
	return &student, nil
}

// ListStudents retrieves students matching the filter, ordered by name.
func (r *PgxStudentRepository) ListStudents(ctx context.Context, filter domain.StudentFilter) ([]domain.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students WHERE 1=1`
	args := []interface{}{}

	if !filter.IncludeInactive {
		query += ` AND is_active = TRUE`
	}
	if filter.Class != "" {
		args = append(args, filter.Class)
		query += ` AND class = $` + strconv.Itoa(len(args))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		placeholder := "$" + strconv.Itoa(len(args))
		query += ` AND (name ILIKE ` + placeholder + ` OR nis ILIKE ` + placeholder + `)`
	}

	query += ` ORDER BY name`
	args = append(args, filter.Limit)
	query += ` LIMIT $` + strconv.Itoa(len(args))
	args = append(args, filter.Offset)
	query += ` OFFSET $` + strconv.Itoa(len(args)) + `;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query students", err)
	}
	defer rows.Close()

	students := []domain.Student{}
	for rows.Next() {
		m, err := scanStudent(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan student row", err)
		}
		students = append(students, mapping.ToDomainStudent(*m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating student rows", err)
	}
	return students, nil
}

// UpdateStudent updates the descriptive columns of a student. Balance is
// never written here.
func (r *PgxStudentRepository) UpdateStudent(ctx context.Context, student *domain.Student) error {
	m := mapping.ToModelStudent(*student)
	query := `
		UPDATE students
		SET name = $2, class = $3, is_active = $4, last_updated_at = $5, last_updated_by = $6
		WHERE student_id = $1;
	`
	ct, err := r.Pool.Exec(ctx, query,
		m.StudentID,
		m.Name,
		m.Class,
		m.IsActive,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update student "+student.StudentID, err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeactivateStudent soft-deletes a student account.
func (r *PgxStudentRepository) DeactivateStudent(ctx context.Context, studentID string, userID string) error {
	query := `
		UPDATE students
		SET is_active = FALSE, last_updated_at = $2, last_updated_by = $3
		WHERE student_id = $1;
	`
	ct, err := r.Pool.Exec(ctx, query, studentID, time.Now().UTC(), userID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to deactivate student "+studentID, err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// SaveLiability inserts a liability.
func (r *PgxStudentRepository) SaveLiability(ctx context.Context, liability *domain.Liability) error {
	m := mapping.ToModelLiability(*liability)
	query := `
		INSERT INTO liabilities (` + liabilityColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.LiabilityID,
		m.StudentID,
		m.Title,
		m.Amount,
		m.PaidAmount,
		m.Status,
		m.DueDate,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert liability "+liability.LiabilityID, err)
	}
	return nil
}

// FindLiabilityByID retrieves a liability by ID.
func (r *PgxStudentRepository) FindLiabilityByID(ctx context.Context, liabilityID string) (*domain.Liability, error) {
	query := `SELECT ` + liabilityColumns + ` FROM liabilities WHERE liability_id = $1;`
	m, err := scanLiability(r.Pool.QueryRow(ctx, query, liabilityID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find liability by ID "+liabilityID, err)
	}
	liability := mapping.ToDomainLiability(*m)
	return &liability, nil
}

// ListLiabilitiesByStudent retrieves a student's liabilities, newest first.
func (r *PgxStudentRepository) ListLiabilitiesByStudent(ctx context.Context, studentID string) ([]domain.Liability, error) {
	query := `SELECT ` + liabilityColumns + ` FROM liabilities WHERE student_id = $1 ORDER BY created_at DESC;`
	rows, err := r.Pool.Query(ctx, query, studentID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query liabilities for student "+studentID, err)
	}
	defer rows.Close()

	liabilities := []domain.Liability{}
	for rows.Next() {
		m, err := scanLiability(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan liability row", err)
		}
		liabilities = append(liabilities, mapping.ToDomainLiability(*m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating liability rows", err)
	}
	return liabilities, nil
}

// TopUpBalance credits a student's deposit balance and the receiving payment
// method in one database transaction.
func (r *PgxStudentRepository) TopUpBalance(ctx context.Context, studentID string, amount decimal.Decimal, methodCode string, activity *domain.ActivityLog) (*domain.Student, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	query := `SELECT ` + studentColumns + ` FROM students WHERE student_id = $1 FOR UPDATE;`
	m, err := scanStudent(tx.QueryRow(ctx, query, studentID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to lock student "+studentID, err)
	}

	method, err := r.methodRepo.FindPaymentMethodByCodeForUpdate(ctx, tx, methodCode)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	newBalance := m.Balance.Add(amount)
	_, err = tx.Exec(ctx, `
		UPDATE students
		SET balance = $2, last_updated_at = $3, last_updated_by = $4
		WHERE student_id = $1;
	`, studentID, newBalance, now, activity.UserID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to credit student balance for "+studentID, err)
	}

	if err := r.methodRepo.UpdatePaymentMethodBalanceInTx(ctx, tx, method.MethodID, amount, activity.UserID, now); err != nil {
		return nil, err
	}

	if activity.Details == nil {
		activity.Details = map[string]any{}
	}
	activity.Details["balanceBefore"] = m.Balance.String()
	activity.Details["balanceAfter"] = newBalance.String()
	if err := r.activityRepo.InsertActivityLogInTx(ctx, tx, activity); err != nil {
		return nil, apperrors.NewAppError(500, "failed to insert activity log for top-up", err)
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}

	m.Balance = newBalance
	m.LastUpdatedAt = now
	m.LastUpdatedBy = activity.UserID
	student := mapping.ToDomainStudent(*m)
	return &student, nil
}

// SettleLiabilityPayment pays down a liability atomically. The paid amount
// and outstanding balance are re-checked under the row lock, so concurrent
// payments cannot overpay.
func (r *PgxStudentRepository) SettleLiabilityPayment(ctx context.Context, liabilityID string, amount decimal.Decimal, fromBalance bool, methodCode *string, activity *domain.ActivityLog) (*domain.Liability, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	query := `SELECT ` + liabilityColumns + ` FROM liabilities WHERE liability_id = $1 FOR UPDATE;`
	m, err := scanLiability(tx.QueryRow(ctx, query, liabilityID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to lock liability "+liabilityID, err)
	}

	newPaid := m.PaidAmount.Add(amount)
	if newPaid.GreaterThan(m.Amount) {
		return nil, fmt.Errorf("%w: payment %s exceeds outstanding %s for liability %s", apperrors.ErrValidation, amount.String(), m.Amount.Sub(m.PaidAmount).String(), liabilityID)
	}

	now := time.Now().UTC()

	if fromBalance {
		studentQuery := `SELECT ` + studentColumns + ` FROM students WHERE student_id = $1 FOR UPDATE;`
		sm, err := scanStudent(tx.QueryRow(ctx, studentQuery, m.StudentID))
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, apperrors.ErrNotFound
			}
			return nil, apperrors.NewAppError(500, "failed to lock student "+m.StudentID, err)
		}
		if sm.Balance.LessThan(amount) {
			return nil, fmt.Errorf("%w: student balance %s is less than payment %s", apperrors.ErrValidation, sm.Balance.String(), amount.String())
		}
		_, err = tx.Exec(ctx, `
			UPDATE students
			SET balance = balance - $2, last_updated_at = $3, last_updated_by = $4
			WHERE student_id = $1;
		`, m.StudentID, amount, now, activity.UserID)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to debit student balance for "+m.StudentID, err)
		}
	} else {
		method, err := r.methodRepo.FindPaymentMethodByCodeForUpdate(ctx, tx, *methodCode)
		if err != nil {
			return nil, err
		}
		if err := r.methodRepo.UpdatePaymentMethodBalanceInTx(ctx, tx, method.MethodID, amount, activity.UserID, now); err != nil {
			return nil, err
		}
	}

	newStatus := domain.LiabilityStatusFor(m.Amount, newPaid)
	_, err = tx.Exec(ctx, `
		UPDATE liabilities
		SET paid_amount = $2, status = $3, last_updated_at = $4, last_updated_by = $5
		WHERE liability_id = $1;
	`, liabilityID, newPaid, string(newStatus), now, activity.UserID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to update liability "+liabilityID, err)
	}

	if err := r.activityRepo.InsertActivityLogInTx(ctx, tx, activity); err != nil {
		return nil, apperrors.NewAppError(500, "failed to insert activity log for liability payment", err)
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}

	m.PaidAmount = newPaid
	m.Status = string(newStatus)
	m.LastUpdatedAt = now
	m.LastUpdatedBy = activity.UserID
	liability := mapping.ToDomainLiability(*m)
	return &liability, nil
}
