package leave

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"go-hrms/internal/domain"
	"go-hrms/internal/employee"
	leaveerrors "go-hrms/internal/leave/errors"
	"go-hrms/internal/shared/apperror"
	"go-hrms/internal/shared/response"
	"go-hrms/internal/storage"
)

//go:generate mockgen -destination=mock/leave_service_mock.go -package=mock . Service
type Service interface {
	Submit(ctx context.Context, employeeID string, req SubmitLeaveRequest) (LeaveResponse, error)
	Decide(ctx context.Context, actor Actor, leaveID string, approve bool) (LeaveResponse, error)
	Delete(ctx context.Context, actor Actor, leaveID string) error
	AttachDocument(ctx context.Context, actor Actor, leaveID, fileName, contentType string, data []byte) (LeaveResponse, error)
	GetByID(ctx context.Context, leaveID string) (LeaveResponse, error)
	ListByEmployee(ctx context.Context, employeeID string) ([]LeaveResponse, error)
	List(ctx context.Context, query ListLeavesQuery) ([]LeaveResponse, response.PaginationMeta, error)
}

type service struct {
	db           *gorm.DB
	repo         Repository
	employeeRepo employee.Repository
	store        storage.Storage
	logger       *zap.Logger
}

func NewService(db *gorm.DB, repo Repository, employeeRepo employee.Repository, store storage.Storage, logger *zap.Logger) Service {
	return &service{
		db:           db,
		repo:         repo,
		employeeRepo: employeeRepo,
		store:        store,
		logger:       logger.Named("leave.service"),
	}
}

// Submit files a leave request. Submission never touches the balance; the
// deduction happens at approval time. The request is rejected up front
// when the current balance cannot cover it, when another request is still
// pending, or when the window overlaps an existing non-rejected request.
func (s *service) Submit(ctx context.Context, employeeID string, req SubmitLeaveRequest) (LeaveResponse, error) {
	empID, err := uuid.Parse(employeeID)
	if err != nil {
		return LeaveResponse{}, apperror.InvalidField("employee_id")
	}
	if !domain.ValidLeaveType(req.LeaveType) {
		return LeaveResponse{}, leaveerrors.ErrInvalidLeaveType
	}

	start, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return LeaveResponse{}, apperror.InvalidField("start_date")
	}
	end, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		return LeaveResponse{}, apperror.InvalidField("end_date")
	}
	if end.Before(start) {
		return LeaveResponse{}, leaveerrors.ErrInvalidDateRange
	}
	totalDays := TotalDaysBetween(start, end)

	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return LeaveResponse{}, apperror.Wrap(tx.Error, apperror.CodeInternalError,
			"failed to start transaction", http.StatusInternalServerError)
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	emp, err := s.employeeRepo.WithTx(tx).FindByID(ctx, empID)
	if err != nil {
		return LeaveResponse{}, err
	}
	if emp.LeaveBalance(req.LeaveType) < totalDays {
		return LeaveResponse{}, leaveerrors.ErrInsufficientBalance
	}

	onLeave, err := qtx.HasApprovedCovering(ctx, empID, time.Now().UTC().Truncate(24*time.Hour))
	if err != nil {
		return LeaveResponse{}, apperror.Wrap(err, apperror.CodeInternalError,
			"failed to check current leave", http.StatusInternalServerError)
	}
	if onLeave {
		return LeaveResponse{}, leaveerrors.ErrCurrentlyOnLeave
	}

	pending, err := qtx.HasPending(ctx, empID)
	if err != nil {
		return LeaveResponse{}, apperror.Wrap(err, apperror.CodeInternalError,
			"failed to check pending requests", http.StatusInternalServerError)
	}
	if pending {
		return LeaveResponse{}, leaveerrors.ErrPendingRequestExists
	}

	clash, err := qtx.FindOverlapping(ctx, empID, start, end)
	if err != nil {
		return LeaveResponse{}, apperror.Wrap(err, apperror.CodeInternalError,
			"failed to check overlapping requests", http.StatusInternalServerError)
	}
	if clash != nil {
		return LeaveResponse{}, apperror.New(
			apperror.CodeConflict,
			fmt.Sprintf("request overlaps an existing leave from %s to %s",
				clash.StartDate.Format("2006-01-02"), clash.EndDate.Format("2006-01-02")),
			http.StatusConflict,
		)
	}

	leave := &Leave{
		ID:         uuid.New(),
		EmployeeID: empID,
		LeaveType:  req.LeaveType,
		StartDate:  start,
		EndDate:    end,
		TotalDays:  totalDays,
		Reason:     req.Reason,
		Status:     StatusPending,
	}
	if err := qtx.Create(ctx, leave); err != nil {
		return LeaveResponse{}, apperror.Wrap(err, apperror.CodeInternalError,
			"failed to create leave request", http.StatusInternalServerError)
	}

	if err := tx.Commit().Error; err != nil {
		return LeaveResponse{}, apperror.Wrap(err, apperror.CodeInternalError,
			"failed to commit transaction", http.StatusInternalServerError)
	}

	s.logger.Info("leave request submitted",
		zap.String("leave_id", leave.ID.String()),
		zap.String("employee_id", employeeID),
		zap.Int("total_days", totalDays),
	)
	return toResponse(leave), nil
}

// Decide approves or rejects a pending request. Approval deducts the
// balance through a conditional decrement, so two concurrent approvals
// cannot overdraw it: whichever commits second finds the balance already
// spent and fails with an insufficient balance error. Rejection changes
// status only.
func (s *service) Decide(ctx context.Context, actor Actor, leaveID string, approve bool) (LeaveResponse, error) {
	id, err := uuid.Parse(leaveID)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidLeaveID
	}

	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return LeaveResponse{}, apperror.Wrap(tx.Error, apperror.CodeInternalError,
			"failed to start transaction", http.StatusInternalServerError)
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	leave, err := qtx.FindByID(ctx, id)
	if err != nil {
		return LeaveResponse{}, err
	}
	if leave.Status != StatusPending {
		return LeaveResponse{}, leaveerrors.ErrAlreadyDecided
	}

	ownerRole := ""
	if leave.Employee != nil {
		ownerRole = leave.Employee.Role
	}
	if !CanDecide(actor, RequestOwner{ID: leave.EmployeeID, Role: ownerRole}) {
		return LeaveResponse{}, leaveerrors.ErrNotAllowed
	}

	if approve {
		deducted, err := s.employeeRepo.WithTx(tx).
			DeductLeaveBalance(ctx, leave.EmployeeID, leave.LeaveType, leave.TotalDays)
		if err != nil {
			return LeaveResponse{}, apperror.Wrap(err, apperror.CodeInternalError,
				"failed to deduct leave balance", http.StatusInternalServerError)
		}
		if !deducted {
			return LeaveResponse{}, leaveerrors.ErrInsufficientBalance
		}
		leave.Status = StatusApproved
	} else {
		leave.Status = StatusRejected
	}

	now := time.Now().UTC()
	leave.DecidedBy = &actor.ID
	leave.DecidedAt = &now

	if err := qtx.Update(ctx, leave); err != nil {
		return LeaveResponse{}, apperror.Wrap(err, apperror.CodeIntegrity,
			"failed to record leave decision", http.StatusInternalServerError)
	}

	if err := tx.Commit().Error; err != nil {
		return LeaveResponse{}, apperror.Wrap(err, apperror.CodeInternalError,
			"failed to commit transaction", http.StatusInternalServerError)
	}

	s.logger.Info("leave request decided",
		zap.String("leave_id", leaveID),
		zap.String("status", leave.Status),
		zap.String("decided_by", actor.ID.String()),
	)
	return toResponse(leave), nil
}

// Delete removes a request. Approved requests keep their spent balance;
// removal is bookkeeping, not a refund.
func (s *service) Delete(ctx context.Context, actor Actor, leaveID string) error {
	id, err := uuid.Parse(leaveID)
	if err != nil {
		return leaveerrors.ErrInvalidLeaveID
	}

	leave, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	ownerRole := ""
	if leave.Employee != nil {
		ownerRole = leave.Employee.Role
	}
	if !CanDelete(actor, RequestOwner{ID: leave.EmployeeID, Role: ownerRole}, leave.Status) {
		return leaveerrors.ErrNotAllowed
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("leave request deleted",
		zap.String("leave_id", leaveID),
		zap.String("deleted_by", actor.ID.String()),
	)
	return nil
}

// AttachDocument stores a supporting document for a request, e.g. a
// medical certificate. Only the request owner or an admin may attach one.
func (s *service) AttachDocument(ctx context.Context, actor Actor, leaveID, fileName, contentType string, data []byte) (LeaveResponse, error) {
	id, err := uuid.Parse(leaveID)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidLeaveID
	}
	if len(data) == 0 {
		return LeaveResponse{}, apperror.InvalidField("document")
	}

	leave, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return LeaveResponse{}, err
	}
	if actor.ID != leave.EmployeeID && actor.Role != domain.RoleAdmin {
		return LeaveResponse{}, leaveerrors.ErrNotAllowed
	}

	key := fmt.Sprintf("leave-docs/%s/%s", leave.ID, fileName)
	if _, err := s.store.Upload(ctx, key, data, contentType); err != nil {
		return LeaveResponse{}, apperror.Wrap(err, apperror.CodeExternalService,
			"failed to store leave document", http.StatusBadGateway)
	}

	leave.DocumentKey = &key
	if err := s.repo.Update(ctx, leave); err != nil {
		return LeaveResponse{}, apperror.Wrap(err, apperror.CodeInternalError,
			"failed to record leave document", http.StatusInternalServerError)
	}

	s.logger.Info("leave document attached",
		zap.String("leave_id", leaveID),
		zap.String("document_key", key),
	)
	return toResponse(leave), nil
}

func (s *service) GetByID(ctx context.Context, leaveID string) (LeaveResponse, error) {
	id, err := uuid.Parse(leaveID)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidLeaveID
	}

	leave, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return LeaveResponse{}, err
	}
	return toResponse(leave), nil
}

func (s *service) ListByEmployee(ctx context.Context, employeeID string) ([]LeaveResponse, error) {
	empID, err := uuid.Parse(employeeID)
	if err != nil {
		return nil, apperror.InvalidField("employee_id")
	}

	leaves, err := s.repo.FindAllByEmployee(ctx, empID)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.CodeInternalError,
			"failed to list leave requests", http.StatusInternalServerError)
	}

	out := make([]LeaveResponse, 0, len(leaves))
	for i := range leaves {
		out = append(out, toResponse(&leaves[i]))
	}
	return out, nil
}

func (s *service) List(ctx context.Context, query ListLeavesQuery) ([]LeaveResponse, response.PaginationMeta, error) {
	query.Normalize()

	leaves, total, err := s.repo.FindAll(ctx, query)
	if err != nil {
		return nil, response.PaginationMeta{}, apperror.Wrap(err, apperror.CodeInternalError,
			"failed to list leave requests", http.StatusInternalServerError)
	}

	out := make([]LeaveResponse, 0, len(leaves))
	for i := range leaves {
		out = append(out, toResponse(&leaves[i]))
	}
	return out, response.NewPaginationMeta(total, query.Page, query.Limit), nil
}
