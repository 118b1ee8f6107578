package employee

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"

	"go-hrms/internal/domain"
	employeeerrors "go-hrms/internal/employee/errors"
	"go-hrms/internal/events"
	"go-hrms/internal/messaging/kafka"
	"go-hrms/internal/payroll"
	"go-hrms/internal/shared/apperror"
	"go-hrms/internal/shared/contextutil"
	"go-hrms/internal/shared/counter"
	"go-hrms/internal/shared/response"
)

const (
	optionsCacheKey = "employees:options"
	optionsCacheTTL = 5 * time.Minute
)

//go:generate mockgen -destination=mock/employee_service_mock.go -package=mock . Service
type Service interface {
	Create(ctx context.Context, req CreateEmployeeRequest) (EmployeeResponse, error)
	List(ctx context.Context, query ListEmployeesQuery) ([]EmployeeResponse, response.PaginationMeta, error)
	GetByID(ctx context.Context, id string) (EmployeeResponse, error)
	Update(ctx context.Context, id string, req UpdateEmployeeRequest) (EmployeeResponse, error)
	Promote(ctx context.Context, id string, req PromoteEmployeeRequest) (EmployeeResponse, error)
	UpdateBankDetails(ctx context.Context, id string, req UpdateBankDetailsRequest) (EmployeeResponse, error)
	Deactivate(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
	Options(ctx context.Context) ([]EmployeeOption, error)
	BulkImport(ctx context.Context, rows []ImportRow) (BulkImportResponse, error)
}

type service struct {
	db          *gorm.DB
	repo        Repository
	counterRepo counter.Repository
	outboxRepo  kafka.OutboxRepository
	salaryRepo  payroll.Repository
	redisClient *redis.Client
	group       singleflight.Group
	logger      *zap.Logger
}

func NewService(
	db *gorm.DB,
	repo Repository,
	counterRepo counter.Repository,
	outboxRepo kafka.OutboxRepository,
	salaryRepo payroll.Repository,
	redisClient *redis.Client,
	logger *zap.Logger,
) Service {
	return &service{
		db:          db,
		repo:        repo,
		counterRepo: counterRepo,
		outboxRepo:  outboxRepo,
		salaryRepo:  salaryRepo,
		redisClient: redisClient,
		logger:      logger.Named("employee.service"),
	}
}

// Create registers a single employee inside one transaction: duplicate
// check, employee number from the counter, insert, and the welcome event
// all commit or roll back together.
func (s *service) Create(ctx context.Context, req CreateEmployeeRequest) (EmployeeResponse, error) {
	if !domain.ValidRole(req.Role) {
		return EmployeeResponse{}, employeeerrors.ErrInvalidRole
	}
	if req.Email == nil && req.Role != domain.RoleEmployee {
		return EmployeeResponse{}, employeeerrors.ErrEmailRequiredForRole
	}

	var joiningDate time.Time
	if req.JoiningDate != "" {
		parsed, err := time.Parse("2006-01-02", req.JoiningDate)
		if err != nil {
			return EmployeeResponse{}, employeeerrors.ErrInvalidJoiningDate
		}
		joiningDate = parsed
	}

	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return EmployeeResponse{}, apperror.Wrap(tx.Error, apperror.CodeInternalError,
			"failed to start transaction", http.StatusInternalServerError)
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	for _, email := range []*string{req.Email, req.PersonalEmail} {
		if email == nil {
			continue
		}
		exists, err := qtx.ExistsByEmail(ctx, *email)
		if err != nil {
			return EmployeeResponse{}, apperror.Wrap(err, apperror.CodeInternalError,
				"failed to check email uniqueness", http.StatusInternalServerError)
		}
		if exists {
			return EmployeeResponse{}, employeeerrors.ErrEmailExists
		}
	}

	emp, err := s.buildEmployee(ctx, tx, req, joiningDate)
	if err != nil {
		return EmployeeResponse{}, err
	}

	if err := qtx.Create(ctx, emp); err != nil {
		return EmployeeResponse{}, mapDataError(err)
	}

	if err := s.enqueueEmployeeCreated(ctx, tx, emp); err != nil {
		return EmployeeResponse{}, err
	}

	if err := tx.Commit().Error; err != nil {
		return EmployeeResponse{}, apperror.Wrap(err, apperror.CodeInternalError,
			"failed to commit transaction", http.StatusInternalServerError)
	}

	s.invalidateOptionsCache(ctx)
	s.logger.Info("employee created",
		zap.String("employee_id", emp.ID.String()),
		zap.String("employee_number", emp.EmployeeNumber),
	)
	return toResponse(emp), nil
}

// buildEmployee assembles the entity for insertion, issuing the employee
// number from the counter inside the caller's transaction.
func (s *service) buildEmployee(ctx context.Context, tx *gorm.DB, req CreateEmployeeRequest, joiningDate time.Time) (*Employee, error) {
	seq, err := s.counterRepo.WithTx(tx).NextValue(ctx, counter.EmployeeNumberSeq)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.CodeInternalError,
			"failed to issue employee number", http.StatusInternalServerError)
	}

	emp := &Employee{
		ID:                   uuid.New(),
		EmployeeNumber:       counter.FormatEmployeeNumber(seq),
		FirstName:            req.FirstName,
		LastName:             req.LastName,
		Email:                req.Email,
		PersonalEmail:        req.PersonalEmail,
		ContactNumber:        req.ContactNumber,
		Role:                 req.Role,
		Position:             req.Position,
		JoiningDate:          joiningDate,
		BaseSalary:           req.BaseSalary,
		Allowances:           req.Allowances,
		Deductions:           req.Deductions,
		TaxRate:              req.TaxRate,
		LeaveBalancePersonal: DefaultPersonalLeave,
		LeaveBalanceSick:     DefaultSickLeave,
		LeaveBalanceAnnual:   DefaultAnnualLeave,
		Status:               StatusActive,
	}

	if req.DepartmentID != nil {
		departmentID, err := uuid.Parse(*req.DepartmentID)
		if err != nil {
			return nil, apperror.InvalidField("department_id")
		}
		emp.DepartmentID = &departmentID
	}

	if req.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, apperror.Wrap(err, apperror.CodeInternalError,
				"failed to hash password", http.StatusInternalServerError)
		}
		hashed := string(hash)
		emp.PasswordHash = &hashed
	}

	return emp, nil
}

func (s *service) enqueueEmployeeCreated(ctx context.Context, tx *gorm.DB, emp *Employee) error {
	email := ""
	if emp.Email != nil {
		email = *emp.Email
	} else if emp.PersonalEmail != nil {
		email = *emp.PersonalEmail
	}

	event := events.EmployeeCreatedEvent{
		EventType:      "employee.created",
		RequestID:      contextutil.GetRequestID(ctx),
		EmployeeID:     emp.ID.String(),
		EmployeeNumber: emp.EmployeeNumber,
		FullName:       emp.FullName(),
		Email:          email,
		OccurredAt:     time.Now().UTC(),
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return apperror.Wrap(err, apperror.CodeInternalError,
			"failed to encode employee created event", http.StatusInternalServerError)
	}

	err = s.outboxRepo.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     event.RequestID,
		AggregateType: "employee",
		AggregateID:   event.EmployeeID,
		EventType:     event.EventType,
		Topic:         events.EmployeeCreatedTopic,
		Payload:       payload,
	})
	if err != nil {
		return apperror.Wrap(err, apperror.CodeInternalError,
			"failed to enqueue employee created event", http.StatusInternalServerError)
	}
	return nil
}

func (s *service) List(ctx context.Context, query ListEmployeesQuery) ([]EmployeeResponse, response.PaginationMeta, error) {
	query.Normalize()

	employees, total, err := s.repo.FindAll(ctx, query)
	if err != nil {
		return nil, response.PaginationMeta{}, apperror.Wrap(err, apperror.CodeInternalError,
			"failed to list employees", http.StatusInternalServerError)
	}

	out := make([]EmployeeResponse, 0, len(employees))
	for i := range employees {
		out = append(out, toResponse(&employees[i]))
	}
	return out, response.NewPaginationMeta(total, query.Page, query.Limit), nil
}

func (s *service) GetByID(ctx context.Context, id string) (EmployeeResponse, error) {
	employeeID, err := uuid.Parse(id)
	if err != nil {
		return EmployeeResponse{}, employeeerrors.ErrInvalidEmployeeID
	}

	emp, err := s.repo.FindByID(ctx, employeeID)
	if err != nil {
		return EmployeeResponse{}, err
	}
	return toResponse(emp), nil
}

func (s *service) Update(ctx context.Context, id string, req UpdateEmployeeRequest) (EmployeeResponse, error) {
	employeeID, err := uuid.Parse(id)
	if err != nil {
		return EmployeeResponse{}, employeeerrors.ErrInvalidEmployeeID
	}

	emp, err := s.repo.FindByID(ctx, employeeID)
	if err != nil {
		return EmployeeResponse{}, err
	}

	if req.FirstName != nil {
		emp.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		emp.LastName = *req.LastName
	}
	if req.PersonalEmail != nil {
		emp.PersonalEmail = req.PersonalEmail
	}
	if req.ContactNumber != nil {
		emp.ContactNumber = *req.ContactNumber
	}
	if req.Position != nil {
		emp.Position = *req.Position
	}
	if req.DepartmentID != nil {
		departmentID, err := uuid.Parse(*req.DepartmentID)
		if err != nil {
			return EmployeeResponse{}, apperror.InvalidField("department_id")
		}
		emp.DepartmentID = &departmentID
	}
	if req.Status != nil {
		switch *req.Status {
		case StatusActive, StatusInactive, StatusOnLeave:
			emp.Status = *req.Status
		default:
			return EmployeeResponse{}, apperror.InvalidField("status")
		}
	}

	if err := s.repo.Update(ctx, emp); err != nil {
		return EmployeeResponse{}, mapDataError(err)
	}

	s.invalidateOptionsCache(ctx)
	return toResponse(emp), nil
}

// Promote moves an employee to a new position and optionally adjusts role
// and compensation. Payroll records already generated keep their snapshot.
func (s *service) Promote(ctx context.Context, id string, req PromoteEmployeeRequest) (EmployeeResponse, error) {
	employeeID, err := uuid.Parse(id)
	if err != nil {
		return EmployeeResponse{}, employeeerrors.ErrInvalidEmployeeID
	}

	emp, err := s.repo.FindByID(ctx, employeeID)
	if err != nil {
		return EmployeeResponse{}, err
	}

	emp.Position = req.Position
	if req.Role != nil {
		if !domain.ValidRole(*req.Role) {
			return EmployeeResponse{}, employeeerrors.ErrInvalidRole
		}
		emp.Role = *req.Role
	}
	if req.BaseSalary != nil {
		emp.BaseSalary = *req.BaseSalary
	}
	if req.Allowances != nil {
		emp.Allowances = *req.Allowances
	}
	if req.Deductions != nil {
		emp.Deductions = *req.Deductions
	}
	if req.TaxRate != nil {
		emp.TaxRate = *req.TaxRate
	}

	if err := s.repo.Update(ctx, emp); err != nil {
		return EmployeeResponse{}, mapDataError(err)
	}

	s.logger.Info("employee promoted",
		zap.String("employee_id", emp.ID.String()),
		zap.String("position", emp.Position),
	)
	return toResponse(emp), nil
}

func (s *service) UpdateBankDetails(ctx context.Context, id string, req UpdateBankDetailsRequest) (EmployeeResponse, error) {
	employeeID, err := uuid.Parse(id)
	if err != nil {
		return EmployeeResponse{}, employeeerrors.ErrInvalidEmployeeID
	}

	emp, err := s.repo.FindByID(ctx, employeeID)
	if err != nil {
		return EmployeeResponse{}, err
	}

	emp.Bank = BankDetails{
		AccountHolderName: req.AccountHolderName,
		AccountNumber:     req.AccountNumber,
		IFSCCode:          req.IFSCCode,
		BankName:          req.BankName,
	}

	if err := s.repo.Update(ctx, emp); err != nil {
		return EmployeeResponse{}, mapDataError(err)
	}
	return toResponse(emp), nil
}

func (s *service) Deactivate(ctx context.Context, id string) error {
	employeeID, err := uuid.Parse(id)
	if err != nil {
		return employeeerrors.ErrInvalidEmployeeID
	}

	if err := s.repo.UpdateStatus(ctx, employeeID, StatusInactive); err != nil {
		return err
	}

	s.invalidateOptionsCache(ctx)
	return nil
}

// Delete removes the employee and all dependent leave and salary rows in
// one transaction.
func (s *service) Delete(ctx context.Context, id string) error {
	employeeID, err := uuid.Parse(id)
	if err != nil {
		return employeeerrors.ErrInvalidEmployeeID
	}

	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return apperror.Wrap(tx.Error, apperror.CodeInternalError,
			"failed to start transaction", http.StatusInternalServerError)
	}
	defer tx.Rollback()

	if err := s.repo.WithTx(tx).HardDelete(ctx, employeeID); err != nil {
		return err
	}

	if err := tx.Commit().Error; err != nil {
		return apperror.Wrap(err, apperror.CodeInternalError,
			"failed to commit transaction", http.StatusInternalServerError)
	}

	s.invalidateOptionsCache(ctx)
	s.logger.Info("employee deleted", zap.String("employee_id", id))
	return nil
}

// Options serves the dropdown projection through a short redis cache.
// Concurrent misses collapse into a single database query.
func (s *service) Options(ctx context.Context) ([]EmployeeOption, error) {
	if s.redisClient != nil {
		cached, err := s.redisClient.Get(ctx, optionsCacheKey).Bytes()
		if err == nil {
			var options []EmployeeOption
			if err := json.Unmarshal(cached, &options); err == nil {
				return options, nil
			}
		} else if err != redis.Nil {
			s.logger.Warn("options cache read failed", zap.Error(err))
		}
	}

	result, err, _ := s.group.Do(optionsCacheKey, func() (any, error) {
		employees, err := s.repo.FindOptions(ctx)
		if err != nil {
			return nil, err
		}

		options := make([]EmployeeOption, 0, len(employees))
		for i := range employees {
			options = append(options, toOption(&employees[i]))
		}

		if s.redisClient != nil {
			if data, err := json.Marshal(options); err == nil {
				if err := s.redisClient.Set(ctx, optionsCacheKey, data, optionsCacheTTL).Err(); err != nil {
					s.logger.Warn("options cache write failed", zap.Error(err))
				}
			}
		}
		return options, nil
	})
	if err != nil {
		return nil, apperror.Wrap(err, apperror.CodeInternalError,
			"failed to load employee options", http.StatusInternalServerError)
	}

	return result.([]EmployeeOption), nil
}

func (s *service) invalidateOptionsCache(ctx context.Context) {
	if s.redisClient == nil {
		return
	}
	if err := s.redisClient.Del(ctx, optionsCacheKey).Err(); err != nil {
		s.logger.Warn("options cache invalidation failed", zap.Error(err))
	}
}
