package leaveerrors

import (
	"net/http"

	"go-hrms/internal/shared/apperror"
)

var (
	ErrLeaveNotFound = apperror.New(
		apperror.CodeNotFound,
		"leave request not found",
		http.StatusNotFound,
	)
	ErrInvalidLeaveID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid leave request id",
		http.StatusBadRequest,
	)
	ErrInvalidLeaveType = apperror.New(
		apperror.CodeInvalidInput,
		"leave type must be one of PERSONAL, SICK, ANNUAL",
		http.StatusBadRequest,
	)
	ErrInvalidDateRange = apperror.New(
		apperror.CodeInvalidInput,
		"end date must not be before start date",
		http.StatusBadRequest,
	)
	ErrInsufficientBalance = apperror.New(
		apperror.CodeInsufficientBalance,
		"leave balance is not sufficient for this request",
		http.StatusBadRequest,
	)
	ErrCurrentlyOnLeave = apperror.New(
		apperror.CodeConflict,
		"an approved leave already covers today",
		http.StatusConflict,
	)
	ErrPendingRequestExists = apperror.New(
		apperror.CodeConflict,
		"a pending leave request already exists",
		http.StatusConflict,
	)
	ErrAlreadyDecided = apperror.New(
		apperror.CodeInvalidState,
		"leave request has already been decided",
		http.StatusConflict,
	)
	ErrNotAllowed = apperror.New(
		apperror.CodeForbidden,
		"you are not allowed to act on this leave request",
		http.StatusForbidden,
	)
)
