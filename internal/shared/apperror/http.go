package apperror

import (
	"errors"
	"net/http"
)

// HTTPError is the transport projection of an error: status plus the
// payload fields the response envelope carries.
type HTTPError struct {
	Status  int
	Code    string
	Message string
	Details string
}

// ToHTTP maps any error to its HTTP representation. Errors that are not
// an *AppError become an opaque 500; the underlying detail is exposed
// only for server-side errors so client mistakes never leak internals.
func ToHTTP(err error) HTTPError {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return HTTPError{
			Status:  http.StatusInternalServerError,
			Code:    CodeInternalError,
			Message: "An unexpected error occurred",
		}
	}

	out := HTTPError{
		Status:  appErr.HTTPStatus,
		Code:    appErr.Code,
		Message: appErr.Message,
	}

	if appErr.Err != nil && appErr.HTTPStatus >= http.StatusInternalServerError {
		out.Details = appErr.Err.Error()
	}

	return out
}
