package employee

import (
	"context"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"go-hrms/internal/domain"
	employeeerrors "go-hrms/internal/employee/errors"
	"go-hrms/internal/payroll"
	"go-hrms/internal/shared/apperror"
)

// ImportRow is one line of a bulk hiring file after parsing. Numeric
// fields default to zero when the cell is empty or malformed.
type ImportRow struct {
	FirstName     string
	LastName      string
	Email         string
	PersonalEmail string
	Password      string
	ContactNumber string
	Role          string
	Position      string
	BaseSalary    int64
	Allowances    int64
	Deductions    int64
	TaxRate       float64
}

type BulkImportResponse struct {
	TotalRows int `json:"total_rows"`
	Inserted  int `json:"inserted"`
	Skipped   int `json:"skipped"`
}

// RowParser turns an uploaded file into import rows.
//
//go:generate mockgen -source=employee_import.go -destination=mock/row_parser_mock.go -package=mock
type RowParser interface {
	ParseRows(r io.Reader) ([]ImportRow, error)
}

// BulkImport hires a batch of employees in a single transaction. Rows with
// missing required fields or duplicate emails are skipped; any other
// failure rolls back the whole batch, so a partial import never commits.
// Each inserted employee gets a current-period DUE salary record.
func (s *service) BulkImport(ctx context.Context, rows []ImportRow) (BulkImportResponse, error) {
	if len(rows) == 0 {
		return BulkImportResponse{}, employeeerrors.ErrEmptyImportFile
	}

	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return BulkImportResponse{}, apperror.Wrap(tx.Error, apperror.CodeInternalError,
			"failed to start transaction", http.StatusInternalServerError)
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	qsalary := s.salaryRepo.WithTx(tx)
	period := payroll.CurrentPeriod(time.Now())

	resp := BulkImportResponse{TotalRows: len(rows)}
	for i, row := range rows {
		if row.FirstName == "" || row.Role == "" || row.ContactNumber == "" {
			s.logger.Warn("import row skipped, missing required fields", zap.Int("row", i+1))
			resp.Skipped++
			continue
		}
		if !domain.ValidRole(row.Role) {
			s.logger.Warn("import row skipped, unknown role",
				zap.Int("row", i+1), zap.String("role", row.Role))
			resp.Skipped++
			continue
		}

		duplicate, err := s.rowHasDuplicateEmail(ctx, qtx, row)
		if err != nil {
			return BulkImportResponse{}, apperror.Wrap(err, apperror.CodeInternalError,
				"failed to check email uniqueness", http.StatusInternalServerError)
		}
		if duplicate {
			s.logger.Warn("import row skipped, email already registered", zap.Int("row", i+1))
			resp.Skipped++
			continue
		}

		emp, err := s.buildEmployee(ctx, tx, importRowToRequest(row), time.Time{})
		if err != nil {
			return BulkImportResponse{}, err
		}

		if err := qtx.Create(ctx, emp); err != nil {
			return BulkImportResponse{}, mapDataError(err)
		}

		info := payroll.EmployeeInfo{
			ID:         emp.ID,
			BaseSalary: emp.BaseSalary,
			Allowances: emp.Allowances,
			Deductions: emp.Deductions,
			TaxRate:    emp.TaxRate,
		}
		if _, err := qsalary.InsertIfAbsent(ctx, payroll.NewSalary(&info, period)); err != nil {
			return BulkImportResponse{}, apperror.Wrap(err, apperror.CodeInternalError,
				"failed to create salary record", http.StatusInternalServerError)
		}

		if err := s.enqueueEmployeeCreated(ctx, tx, emp); err != nil {
			return BulkImportResponse{}, err
		}

		resp.Inserted++
	}

	if err := tx.Commit().Error; err != nil {
		return BulkImportResponse{}, apperror.Wrap(err, apperror.CodeInternalError,
			"failed to commit transaction", http.StatusInternalServerError)
	}

	s.invalidateOptionsCache(ctx)
	s.logger.Info("bulk import finished",
		zap.Int("total_rows", resp.TotalRows),
		zap.Int("inserted", resp.Inserted),
		zap.Int("skipped", resp.Skipped),
	)
	return resp, nil
}

func (s *service) rowHasDuplicateEmail(ctx context.Context, repo Repository, row ImportRow) (bool, error) {
	for _, email := range []string{row.Email, row.PersonalEmail} {
		if email == "" {
			continue
		}
		exists, err := repo.ExistsByEmail(ctx, email)
		if err != nil {
			return false, err
		}
		if exists {
			return true, nil
		}
	}
	return false, nil
}

func importRowToRequest(row ImportRow) CreateEmployeeRequest {
	req := CreateEmployeeRequest{
		FirstName:     row.FirstName,
		LastName:      row.LastName,
		Password:      row.Password,
		ContactNumber: row.ContactNumber,
		Role:          row.Role,
		Position:      row.Position,
		BaseSalary:    row.BaseSalary,
		Allowances:    row.Allowances,
		Deductions:    row.Deductions,
		TaxRate:       row.TaxRate,
	}
	if row.Email != "" {
		email := row.Email
		req.Email = &email
	}
	if row.PersonalEmail != "" {
		personalEmail := row.PersonalEmail
		req.PersonalEmail = &personalEmail
	}
	return req
}
