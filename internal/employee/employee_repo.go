package employee

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	employeeerrors "go-hrms/internal/employee/errors"
	"go-hrms/internal/shared/apperror"
)

//go:generate mockgen -destination=mock/employee_repo_mock.go -package=mock . Repository
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	Create(ctx context.Context, emp *Employee) error
	FindAll(ctx context.Context, query ListEmployeesQuery) ([]Employee, int64, error)
	FindByID(ctx context.Context, id uuid.UUID) (*Employee, error)
	Update(ctx context.Context, emp *Employee) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
	HardDelete(ctx context.Context, id uuid.UUID) error

	ExistsByEmail(ctx context.Context, email string) (bool, error)
	FindEmailByID(ctx context.Context, id uuid.UUID) (string, error)
	FindPayable(ctx context.Context) ([]Employee, error)
	FindOptions(ctx context.Context) ([]Employee, error)

	// DeductLeaveBalance decrements the balance for leaveType by days only
	// if the current balance covers it. Returns false when the balance was
	// insufficient or the employee does not exist; the row is untouched in
	// either case.
	DeductLeaveBalance(ctx context.Context, id uuid.UUID, leaveType string, days int) (bool, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, emp *Employee) error {
	return r.db.WithContext(ctx).Create(emp).Error
}

func (r *repository) FindAll(ctx context.Context, query ListEmployeesQuery) ([]Employee, int64, error) {
	var (
		employees []Employee
		total     int64
	)

	db := r.db.WithContext(ctx).Model(&Employee{})

	if query.Role != "" {
		db = db.Where("role = ?", query.Role)
	}
	if query.Status != "" {
		db = db.Where("status = ?", query.Status)
	}
	if query.DepartmentID != "" {
		db = db.Where("department_id = ?", query.DepartmentID)
	}
	if query.Search != "" {
		pattern := "%" + query.Search + "%"
		db = db.Where(
			"first_name ILIKE ? OR last_name ILIKE ? OR employee_number ILIKE ?",
			pattern, pattern, pattern,
		)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (query.Page - 1) * query.Limit
	err := db.Order("created_at DESC").
		Offset(offset).
		Limit(query.Limit).
		Find(&employees).Error
	if err != nil {
		return nil, 0, err
	}

	return employees, total, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*Employee, error) {
	var emp Employee
	err := r.db.WithContext(ctx).First(&emp, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, employeeerrors.ErrEmployeeNotFound
		}
		return nil, err
	}
	return &emp, nil
}

func (r *repository) Update(ctx context.Context, emp *Employee) error {
	return r.db.WithContext(ctx).Save(emp).Error
}

func (r *repository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	result := r.db.WithContext(ctx).
		Model(&Employee{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return employeeerrors.ErrEmployeeNotFound
	}
	return nil
}

// HardDelete removes the employee row together with its leave and salary
// history. The employee number itself is never reissued because it comes
// from the counter sequence, not from existing rows.
func (r *repository) HardDelete(ctx context.Context, id uuid.UUID) error {
	db := r.db.WithContext(ctx)

	if err := db.Exec("DELETE FROM leaves WHERE employee_id = ?", id).Error; err != nil {
		return err
	}
	if err := db.Exec("DELETE FROM salaries WHERE employee_id = ?", id).Error; err != nil {
		return err
	}

	result := db.Unscoped().Delete(&Employee{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return employeeerrors.ErrEmployeeNotFound
	}
	return nil
}

// ExistsByEmail reports whether any employee carries the address in either
// the work or the personal email column.
func (r *repository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&Employee{}).
		Where("email = ? OR personal_email = ?", email, email).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *repository) FindEmailByID(ctx context.Context, id uuid.UUID) (string, error) {
	var email string
	err := r.db.WithContext(ctx).
		Model(&Employee{}).
		Select("COALESCE(email, personal_email, '')").
		Where("id = ?", id).
		Scan(&email).Error
	if err != nil {
		return "", err
	}
	return email, nil
}

// FindPayable returns the employees that take part in payroll generation.
func (r *repository) FindPayable(ctx context.Context) ([]Employee, error) {
	var employees []Employee
	err := r.db.WithContext(ctx).
		Where("status IN ?", []string{StatusActive, StatusOnLeave}).
		Order("employee_number ASC").
		Find(&employees).Error
	return employees, err
}

func (r *repository) FindOptions(ctx context.Context) ([]Employee, error) {
	var employees []Employee
	err := r.db.WithContext(ctx).
		Select("id", "employee_number", "first_name", "last_name").
		Where("status = ?", StatusActive).
		Order("first_name ASC").
		Find(&employees).Error
	return employees, err
}

func (r *repository) DeductLeaveBalance(ctx context.Context, id uuid.UUID, leaveType string, days int) (bool, error) {
	column, ok := leaveBalanceColumn(leaveType)
	if !ok {
		return false, apperror.InvalidField("leave_type")
	}

	result := r.db.WithContext(ctx).
		Model(&Employee{}).
		Where("id = ? AND "+column+" >= ?", id, days).
		Update(column, gorm.Expr(column+" - ?", days))
	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected > 0, nil
}
