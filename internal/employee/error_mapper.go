package employee

import (
	"errors"
	"net/http"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	employeeerrors "go-hrms/internal/employee/errors"
	"go-hrms/internal/shared/apperror"
)

// mapDataError translates low-level database failures into domain errors.
// Unique violations that slip past the service-level checks still surface
// as conflicts instead of opaque 500s.
func mapDataError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		switch {
		case strings.Contains(pgErr.ConstraintName, "email"):
			return employeeerrors.ErrEmailExists
		case strings.Contains(pgErr.ConstraintName, "employee_number"):
			return employeeerrors.ErrEmployeeNumberExists
		default:
			return apperror.New(apperror.CodeConflict,
				"duplicate value violates a uniqueness rule", http.StatusConflict)
		}
	}

	return apperror.Wrap(err, apperror.CodeInternalError,
		"database operation failed", http.StatusInternalServerError)
}
