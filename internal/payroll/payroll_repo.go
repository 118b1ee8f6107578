package payroll

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	payrollerrors "go-hrms/internal/payroll/errors"
)

//go:generate mockgen -destination=mock/payroll_repo_mock.go -package=mock . Repository
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	// InsertIfAbsent creates the salary row unless one already exists for
	// the same employee and period. Returns false without error when the
	// row was already there.
	InsertIfAbsent(ctx context.Context, salary *Salary) (bool, error)

	FindByID(ctx context.Context, id uuid.UUID) (*Salary, error)
	FindAll(ctx context.Context, query ListSalariesQuery) ([]Salary, int64, error)
	Update(ctx context.Context, salary *Salary) error

	// MarkAllDuePaid flips every DUE record of the period to PAID in one
	// statement and returns how many rows changed.
	MarkAllDuePaid(ctx context.Context, period Period, paidAt time.Time) (int64, error)

	FindPayableEmployees(ctx context.Context) ([]EmployeeInfo, error)
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

func (r *repository) InsertIfAbsent(ctx context.Context, salary *Salary) (bool, error) {
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "employee_id"}, {Name: "month"}, {Name: "year"},
			},
			DoNothing: true,
		}).
		Create(salary)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*Salary, error) {
	var salary Salary
	err := r.db.WithContext(ctx).
		Preload("Employee").
		First(&salary, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, payrollerrors.ErrSalaryNotFound
		}
		return nil, err
	}
	return &salary, nil
}

func (r *repository) FindAll(ctx context.Context, query ListSalariesQuery) ([]Salary, int64, error) {
	var (
		salaries []Salary
		total    int64
	)

	db := r.db.WithContext(ctx).Model(&Salary{})

	if query.Month != 0 {
		db = db.Where("month = ?", query.Month)
	}
	if query.Year != 0 {
		db = db.Where("year = ?", query.Year)
	}
	if query.Status != "" {
		db = db.Where("status = ?", query.Status)
	}
	if query.EmployeeID != "" {
		db = db.Where("employee_id = ?", query.EmployeeID)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (query.Page - 1) * query.Limit
	err := db.Preload("Employee").
		Order("year DESC, month DESC, created_at DESC").
		Offset(offset).
		Limit(query.Limit).
		Find(&salaries).Error
	if err != nil {
		return nil, 0, err
	}

	return salaries, total, nil
}

func (r *repository) Update(ctx context.Context, salary *Salary) error {
	return r.db.WithContext(ctx).Save(salary).Error
}

func (r *repository) MarkAllDuePaid(ctx context.Context, period Period, paidAt time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&Salary{}).
		Where("month = ? AND year = ? AND status = ?", period.Month, period.Year, StatusDue).
		Updates(map[string]any{"status": StatusPaid, "paid_at": paidAt})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

func (r *repository) FindPayableEmployees(ctx context.Context) ([]EmployeeInfo, error) {
	var employees []EmployeeInfo
	err := r.db.WithContext(ctx).
		Where("status IN ? AND deleted_at IS NULL", []string{"ACTIVE", "ON_LEAVE"}).
		Order("employee_number ASC").
		Find(&employees).Error
	return employees, err
}
