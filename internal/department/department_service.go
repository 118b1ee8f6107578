package department

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	departmenterrors "go-hrms/internal/department/errors"
	"go-hrms/internal/shared/apperror"
)

//go:generate mockgen -destination=mock/department_service_mock.go -package=mock . Service
type Service interface {
	Create(ctx context.Context, req CreateDepartmentRequest) (DepartmentResponse, error)
	List(ctx context.Context) ([]DepartmentResponse, error)
	GetByID(ctx context.Context, id string) (DepartmentResponse, error)
	Update(ctx context.Context, id string, req UpdateDepartmentRequest) (DepartmentResponse, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	db     *gorm.DB
	repo   Repository
	logger *zap.Logger
}

func NewService(db *gorm.DB, repo Repository, logger *zap.Logger) Service {
	return &service{db: db, repo: repo, logger: logger.Named("department.service")}
}

// checkManager enforces that one employee leads at most one department.
func (s *service) checkManager(ctx context.Context, repo Repository, managerID uuid.UUID, excludeID uuid.UUID) error {
	count, err := repo.CountByManager(ctx, managerID, excludeID)
	if err != nil {
		return apperror.Wrap(err, apperror.CodeInternalError,
			"failed to check manager assignment", http.StatusInternalServerError)
	}
	if count > 0 {
		return departmenterrors.ErrManagerAlreadyAssigned
	}
	return nil
}

func (s *service) Create(ctx context.Context, req CreateDepartmentRequest) (DepartmentResponse, error) {
	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return DepartmentResponse{}, apperror.Wrap(tx.Error, apperror.CodeInternalError,
			"failed to start transaction", http.StatusInternalServerError)
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	exists, err := qtx.ExistsByName(ctx, req.Name)
	if err != nil {
		return DepartmentResponse{}, apperror.Wrap(err, apperror.CodeInternalError,
			"failed to check department name", http.StatusInternalServerError)
	}
	if exists {
		return DepartmentResponse{}, departmenterrors.ErrNameExists
	}

	dept := &Department{ID: uuid.New(), Name: req.Name}
	if req.ManagerID != nil {
		managerID, err := uuid.Parse(*req.ManagerID)
		if err != nil {
			return DepartmentResponse{}, apperror.InvalidField("manager_id")
		}
		if err := s.checkManager(ctx, qtx, managerID, uuid.Nil); err != nil {
			return DepartmentResponse{}, err
		}
		dept.ManagerID = &managerID
	}

	if err := qtx.Create(ctx, dept); err != nil {
		return DepartmentResponse{}, apperror.Wrap(err, apperror.CodeInternalError,
			"failed to create department", http.StatusInternalServerError)
	}

	if err := tx.Commit().Error; err != nil {
		return DepartmentResponse{}, apperror.Wrap(err, apperror.CodeInternalError,
			"failed to commit transaction", http.StatusInternalServerError)
	}

	s.logger.Info("department created",
		zap.String("department_id", dept.ID.String()),
		zap.String("name", dept.Name),
	)
	return toResponse(dept), nil
}

func (s *service) List(ctx context.Context) ([]DepartmentResponse, error) {
	departments, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.CodeInternalError,
			"failed to list departments", http.StatusInternalServerError)
	}

	out := make([]DepartmentResponse, 0, len(departments))
	for i := range departments {
		out = append(out, toResponse(&departments[i]))
	}
	return out, nil
}

func (s *service) GetByID(ctx context.Context, id string) (DepartmentResponse, error) {
	deptID, err := uuid.Parse(id)
	if err != nil {
		return DepartmentResponse{}, departmenterrors.ErrInvalidDepartmentID
	}

	dept, err := s.repo.FindByID(ctx, deptID)
	if err != nil {
		return DepartmentResponse{}, err
	}
	return toResponse(dept), nil
}

func (s *service) Update(ctx context.Context, id string, req UpdateDepartmentRequest) (DepartmentResponse, error) {
	deptID, err := uuid.Parse(id)
	if err != nil {
		return DepartmentResponse{}, departmenterrors.ErrInvalidDepartmentID
	}

	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return DepartmentResponse{}, apperror.Wrap(tx.Error, apperror.CodeInternalError,
			"failed to start transaction", http.StatusInternalServerError)
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	dept, err := qtx.FindByID(ctx, deptID)
	if err != nil {
		return DepartmentResponse{}, err
	}

	if req.Name != nil && *req.Name != dept.Name {
		exists, err := qtx.ExistsByName(ctx, *req.Name)
		if err != nil {
			return DepartmentResponse{}, apperror.Wrap(err, apperror.CodeInternalError,
				"failed to check department name", http.StatusInternalServerError)
		}
		if exists {
			return DepartmentResponse{}, departmenterrors.ErrNameExists
		}
		dept.Name = *req.Name
	}

	if req.ManagerID != nil {
		managerID, err := uuid.Parse(*req.ManagerID)
		if err != nil {
			return DepartmentResponse{}, apperror.InvalidField("manager_id")
		}
		if err := s.checkManager(ctx, qtx, managerID, dept.ID); err != nil {
			return DepartmentResponse{}, err
		}
		dept.ManagerID = &managerID
	}

	if err := qtx.Update(ctx, dept); err != nil {
		return DepartmentResponse{}, apperror.Wrap(err, apperror.CodeInternalError,
			"failed to update department", http.StatusInternalServerError)
	}

	if err := tx.Commit().Error; err != nil {
		return DepartmentResponse{}, apperror.Wrap(err, apperror.CodeInternalError,
			"failed to commit transaction", http.StatusInternalServerError)
	}

	return toResponse(dept), nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	deptID, err := uuid.Parse(id)
	if err != nil {
		return departmenterrors.ErrInvalidDepartmentID
	}
	return s.repo.Delete(ctx, deptID)
}
