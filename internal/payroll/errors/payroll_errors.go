package payrollerrors

import (
	"net/http"

	"go-hrms/internal/shared/apperror"
)

var (
	ErrSalaryNotFound = apperror.New(
		apperror.CodeNotFound,
		"salary record not found",
		http.StatusNotFound,
	)
	ErrInvalidSalaryID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid salary id",
		http.StatusBadRequest,
	)
	ErrInvalidPeriod = apperror.New(
		apperror.CodeInvalidInput,
		"invalid payroll period",
		http.StatusBadRequest,
	)
	ErrAlreadyPaid = apperror.New(
		apperror.CodeInvalidState,
		"salary has already been paid",
		http.StatusConflict,
	)
	ErrNotPaid = apperror.New(
		apperror.CodeInvalidState,
		"salary has not been paid yet",
		http.StatusConflict,
	)
	ErrMissingBankDetails = apperror.New(
		apperror.CodeInvalidState,
		"employee has no bank details on file",
		http.StatusUnprocessableEntity,
	)
	ErrInvoiceMissing = apperror.New(
		apperror.CodeNotFound,
		"no invoice has been issued for this salary",
		http.StatusNotFound,
	)
	ErrDuplicateSalary = apperror.New(
		apperror.CodeConflict,
		"a salary record already exists for this employee and period",
		http.StatusConflict,
	)
	ErrSalaryImmutable = apperror.New(
		apperror.CodeInvalidState,
		"paid salary records cannot be modified",
		http.StatusConflict,
	)
)
