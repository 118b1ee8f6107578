package leave

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	leaveerrors "go-hrms/internal/leave/errors"
)

//go:generate mockgen -destination=mock/leave_repo_mock.go -package=mock . Repository
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	Create(ctx context.Context, leave *Leave) error
	FindByID(ctx context.Context, id uuid.UUID) (*Leave, error)
	FindAll(ctx context.Context, query ListLeavesQuery) ([]Leave, int64, error)
	FindAllByEmployee(ctx context.Context, employeeID uuid.UUID) ([]Leave, error)
	Update(ctx context.Context, leave *Leave) error
	Delete(ctx context.Context, id uuid.UUID) error

	HasPending(ctx context.Context, employeeID uuid.UUID) (bool, error)

	// HasApprovedCovering reports whether an approved request of the
	// employee covers the given day.
	HasApprovedCovering(ctx context.Context, employeeID uuid.UUID, day time.Time) (bool, error)

	// FindOverlapping returns a non-rejected request of the employee whose
	// date range intersects [start, end], or nil when there is none.
	FindOverlapping(ctx context.Context, employeeID uuid.UUID, start, end time.Time) (*Leave, error)
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

func (r *repository) Create(ctx context.Context, leave *Leave) error {
	return r.db.WithContext(ctx).Create(leave).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*Leave, error) {
	var leave Leave
	err := r.db.WithContext(ctx).
		Preload("Employee").
		First(&leave, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, leaveerrors.ErrLeaveNotFound
		}
		return nil, err
	}
	return &leave, nil
}

func (r *repository) FindAll(ctx context.Context, query ListLeavesQuery) ([]Leave, int64, error) {
	var (
		leaves []Leave
		total  int64
	)

	db := r.db.WithContext(ctx).Model(&Leave{})

	if query.Status != "" {
		db = db.Where("status = ?", query.Status)
	}
	if query.LeaveType != "" {
		db = db.Where("leave_type = ?", query.LeaveType)
	}
	if query.EmployeeID != "" {
		db = db.Where("employee_id = ?", query.EmployeeID)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (query.Page - 1) * query.Limit
	err := db.Preload("Employee").
		Order("created_at DESC").
		Offset(offset).
		Limit(query.Limit).
		Find(&leaves).Error
	if err != nil {
		return nil, 0, err
	}

	return leaves, total, nil
}

func (r *repository) FindAllByEmployee(ctx context.Context, employeeID uuid.UUID) ([]Leave, error) {
	var leaves []Leave
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Order("created_at DESC").
		Find(&leaves).Error
	return leaves, err
}

func (r *repository) Update(ctx context.Context, leave *Leave) error {
	return r.db.WithContext(ctx).Save(leave).Error
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&Leave{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return leaveerrors.ErrLeaveNotFound
	}
	return nil
}

func (r *repository) HasPending(ctx context.Context, employeeID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&Leave{}).
		Where("employee_id = ? AND status = ?", employeeID, StatusPending).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *repository) HasApprovedCovering(ctx context.Context, employeeID uuid.UUID, day time.Time) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&Leave{}).
		Where("employee_id = ? AND status = ?", employeeID, StatusApproved).
		Where("start_date <= ? AND end_date >= ?", day, day).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *repository) FindOverlapping(ctx context.Context, employeeID uuid.UUID, start, end time.Time) (*Leave, error) {
	var leave Leave
	err := r.db.WithContext(ctx).
		Where("employee_id = ? AND status <> ?", employeeID, StatusRejected).
		Where("start_date <= ? AND end_date >= ?", end, start).
		First(&leave).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &leave, nil
}
