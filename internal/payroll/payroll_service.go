package payroll

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"go-hrms/internal/events"
	"go-hrms/internal/messaging/kafka"
	payrollerrors "go-hrms/internal/payroll/errors"
	"go-hrms/internal/shared/apperror"
	"go-hrms/internal/shared/contextutil"
	"go-hrms/internal/shared/counter"
	"go-hrms/internal/shared/response"
	"go-hrms/internal/storage"
)

// signedURLTTL bounds how long a generated invoice link stays valid.
const signedURLTTL = 60 * time.Second

// InvoiceFile is a downloaded invoice, streamed back to the caller without
// ever exposing the underlying storage URL.
type InvoiceFile struct {
	FileName    string
	ContentType string
	Data        []byte
}

//go:generate mockgen -destination=mock/payroll_service_mock.go -package=mock . Service
type Service interface {
	GenerateMonthly(ctx context.Context, period Period) (GenerateSalariesResponse, error)
	RunBulkPayroll(ctx context.Context, period Period) (RunPayrollResponse, error)
	PayIndividual(ctx context.Context, salaryID string) (SalaryResponse, error)
	DownloadInvoice(ctx context.Context, salaryID string) (*InvoiceFile, error)
	UpdateSalary(ctx context.Context, salaryID string, req UpdateSalaryRequest) (SalaryResponse, error)
	GetByID(ctx context.Context, salaryID string) (SalaryResponse, error)
	List(ctx context.Context, query ListSalariesQuery) ([]SalaryResponse, response.PaginationMeta, error)
}

type service struct {
	db          *gorm.DB
	repo        Repository
	counterRepo counter.Repository
	outboxRepo  kafka.OutboxRepository
	store       storage.Storage
	renderer    InvoiceRenderer
	httpClient  *http.Client
	logger      *zap.Logger
}

func NewService(
	db *gorm.DB,
	repo Repository,
	counterRepo counter.Repository,
	outboxRepo kafka.OutboxRepository,
	store storage.Storage,
	renderer InvoiceRenderer,
	logger *zap.Logger,
) Service {
	return &service{
		db:          db,
		repo:        repo,
		counterRepo: counterRepo,
		outboxRepo:  outboxRepo,
		store:       store,
		renderer:    renderer,
		httpClient:  &http.Client{Timeout: 30 * time.Second},
		logger:      logger.Named("payroll.service"),
	}
}

// GenerateMonthly creates a DUE salary record for every active or on-leave
// employee that does not already have one for the period. Reruns are safe:
// existing records are counted as skipped and left untouched. A failure on
// one employee is logged and does not stop the rest.
func (s *service) GenerateMonthly(ctx context.Context, period Period) (GenerateSalariesResponse, error) {
	if !period.Valid() {
		return GenerateSalariesResponse{}, payrollerrors.ErrInvalidPeriod
	}

	employees, err := s.repo.FindPayableEmployees(ctx)
	if err != nil {
		return GenerateSalariesResponse{}, apperror.Wrap(err, apperror.CodeInternalError,
			"failed to load payable employees", http.StatusInternalServerError)
	}

	resp := GenerateSalariesResponse{Month: period.Month, Year: period.Year}
	for i := range employees {
		emp := &employees[i]

		created, err := s.repo.InsertIfAbsent(ctx, NewSalary(emp, period))
		if err != nil {
			s.logger.Error("generate salary failed, skipping employee",
				zap.String("employee_id", emp.ID.String()),
				zap.Int("month", period.Month),
				zap.Int("year", period.Year),
				zap.Error(err),
			)
			resp.Skipped++
			continue
		}

		if created {
			resp.Created++
		} else {
			resp.Skipped++
		}
	}

	s.logger.Info("monthly salary generation finished",
		zap.Int("month", period.Month),
		zap.Int("year", period.Year),
		zap.Int("created", resp.Created),
		zap.Int("skipped", resp.Skipped),
	)
	return resp, nil
}

// RunBulkPayroll marks every DUE record of the period as PAID in a single
// statement. Bulk-paid records get no invoices; those are only issued on
// the individual payment path.
func (s *service) RunBulkPayroll(ctx context.Context, period Period) (RunPayrollResponse, error) {
	if !period.Valid() {
		return RunPayrollResponse{}, payrollerrors.ErrInvalidPeriod
	}

	paid, err := s.repo.MarkAllDuePaid(ctx, period, time.Now().UTC())
	if err != nil {
		return RunPayrollResponse{}, apperror.Wrap(err, apperror.CodeInternalError,
			"failed to run payroll", http.StatusInternalServerError)
	}

	s.logger.Info("bulk payroll finished",
		zap.Int("month", period.Month),
		zap.Int("year", period.Year),
		zap.Int64("paid", paid),
	)
	return RunPayrollResponse{Month: period.Month, Year: period.Year, Paid: paid}, nil
}

// PayIndividual settles one salary record: it issues an invoice number from
// the counter, renders and uploads the PDF, and only then marks the record
// PAID. Everything runs inside one transaction, so a render or upload
// failure leaves the record DUE and the invoice fields empty.
func (s *service) PayIndividual(ctx context.Context, salaryID string) (SalaryResponse, error) {
	id, err := uuid.Parse(salaryID)
	if err != nil {
		return SalaryResponse{}, payrollerrors.ErrInvalidSalaryID
	}

	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return SalaryResponse{}, apperror.Wrap(tx.Error, apperror.CodeInternalError,
			"failed to start transaction", http.StatusInternalServerError)
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	salary, err := qtx.FindByID(ctx, id)
	if err != nil {
		return SalaryResponse{}, err
	}
	if salary.Status == StatusPaid {
		return SalaryResponse{}, payrollerrors.ErrAlreadyPaid
	}
	if salary.Employee == nil || !salary.Employee.HasBankDetails() {
		return SalaryResponse{}, payrollerrors.ErrMissingBankDetails
	}

	seq, err := s.counterRepo.WithTx(tx).NextValue(ctx, counter.InvoiceNumberSeq)
	if err != nil {
		return SalaryResponse{}, apperror.Wrap(err, apperror.CodeInternalError,
			"failed to issue invoice number", http.StatusInternalServerError)
	}
	invoiceNo := fmt.Sprintf("INV-%d%02d-%04d", salary.Year, salary.Month, seq)

	now := time.Now().UTC()
	pdfData, err := s.renderer.Render(InvoiceData{
		InvoiceNo:      invoiceNo,
		IssuedAt:       now,
		EmployeeName:   salary.Employee.FullName(),
		EmployeeNumber: salary.Employee.EmployeeNumber,
		Position:       salary.Employee.Position,
		BankName:       salary.Employee.BankBankName,
		AccountNumber:  salary.Employee.BankAccountNumber,
		IFSCCode:       salary.Employee.BankIFSCCode,
		Period:         Period{Month: salary.Month, Year: salary.Year},
		BasicSalary:    salary.BasicSalary,
		Allowances:     salary.Allowances,
		Deductions:     salary.Deductions,
		TaxRate:        salary.TaxRate,
		TaxAmount:      salary.TaxAmount,
		NetSalary:      salary.NetSalary,
	})
	if err != nil {
		return SalaryResponse{}, apperror.Wrap(err, apperror.CodeInternalError,
			"failed to render invoice", http.StatusInternalServerError)
	}

	key := fmt.Sprintf("invoices/%d/%02d/%s.pdf", salary.Year, salary.Month, invoiceNo)
	if _, err := s.store.Upload(ctx, key, pdfData, "application/pdf"); err != nil {
		return SalaryResponse{}, apperror.Wrap(err, apperror.CodeExternalService,
			"failed to store invoice", http.StatusBadGateway)
	}

	amount := salary.NetSalary
	salary.Status = StatusPaid
	salary.PaidAt = &now
	salary.InvoiceNo = &invoiceNo
	salary.InvoiceDate = &now
	salary.InvoiceAmount = &amount
	salary.InvoiceKey = &key

	if err := qtx.Update(ctx, salary); err != nil {
		return SalaryResponse{}, apperror.Wrap(err, apperror.CodeInternalError,
			"failed to update salary record", http.StatusInternalServerError)
	}

	if err := s.enqueueSalaryPaid(ctx, tx, salary, invoiceNo, now); err != nil {
		return SalaryResponse{}, err
	}

	if err := tx.Commit().Error; err != nil {
		return SalaryResponse{}, apperror.Wrap(err, apperror.CodeInternalError,
			"failed to commit transaction", http.StatusInternalServerError)
	}

	s.logger.Info("salary paid",
		zap.String("salary_id", salary.ID.String()),
		zap.String("invoice_no", invoiceNo),
		zap.Int64("amount", amount),
	)
	return toResponse(salary), nil
}

func (s *service) enqueueSalaryPaid(ctx context.Context, tx *gorm.DB, salary *Salary, invoiceNo string, occurredAt time.Time) error {
	event := events.SalaryPaidEvent{
		EventType:  "salary.paid",
		RequestID:  contextutil.GetRequestID(ctx),
		SalaryID:   salary.ID.String(),
		EmployeeID: salary.EmployeeID.String(),
		InvoiceNo:  invoiceNo,
		Amount:     salary.NetSalary,
		Month:      salary.Month,
		Year:       salary.Year,
		OccurredAt: occurredAt,
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return apperror.Wrap(err, apperror.CodeInternalError,
			"failed to encode salary paid event", http.StatusInternalServerError)
	}

	err = s.outboxRepo.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     event.RequestID,
		AggregateType: "salary",
		AggregateID:   event.SalaryID,
		EventType:     event.EventType,
		Topic:         events.SalaryPaidTopic,
		Payload:       payload,
	})
	if err != nil {
		return apperror.Wrap(err, apperror.CodeInternalError,
			"failed to enqueue salary paid event", http.StatusInternalServerError)
	}
	return nil
}

// DownloadInvoice fetches the stored PDF through a short-lived signed URL
// and streams the bytes back. The signed URL itself never reaches the
// caller. A non-PDF payload from the store is treated as an upstream fault.
func (s *service) DownloadInvoice(ctx context.Context, salaryID string) (*InvoiceFile, error) {
	id, err := uuid.Parse(salaryID)
	if err != nil {
		return nil, payrollerrors.ErrInvalidSalaryID
	}

	salary, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if salary.InvoiceKey == nil || salary.InvoiceNo == nil {
		return nil, payrollerrors.ErrInvoiceMissing
	}

	url, err := s.store.SignedURL(ctx, *salary.InvoiceKey, signedURLTTL)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.CodeExternalService,
			"failed to sign invoice url", http.StatusBadGateway)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.CodeInternalError,
			"failed to build invoice request", http.StatusInternalServerError)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.CodeExternalService,
			"failed to fetch invoice", http.StatusBadGateway)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apperror.New(apperror.CodeExternalService,
			fmt.Sprintf("invoice store responded with status %d", resp.StatusCode),
			http.StatusBadGateway)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "application/pdf") {
		return nil, apperror.New(apperror.CodeExternalService,
			"invoice store returned a non-PDF payload", http.StatusBadGateway)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.CodeExternalService,
			"failed to read invoice payload", http.StatusBadGateway)
	}

	return &InvoiceFile{
		FileName:    *salary.InvoiceNo + ".pdf",
		ContentType: "application/pdf",
		Data:        data,
	}, nil
}

// UpdateSalary adjusts the compensation snapshot of a DUE record and
// recomputes tax and net pay. Paid records are immutable.
func (s *service) UpdateSalary(ctx context.Context, salaryID string, req UpdateSalaryRequest) (SalaryResponse, error) {
	id, err := uuid.Parse(salaryID)
	if err != nil {
		return SalaryResponse{}, payrollerrors.ErrInvalidSalaryID
	}

	salary, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return SalaryResponse{}, err
	}
	if salary.Status == StatusPaid {
		return SalaryResponse{}, payrollerrors.ErrSalaryImmutable
	}

	if req.BasicSalary != nil {
		salary.BasicSalary = *req.BasicSalary
	}
	if req.Allowances != nil {
		salary.Allowances = *req.Allowances
	}
	if req.Deductions != nil {
		salary.Deductions = *req.Deductions
	}
	if req.TaxRate != nil {
		salary.TaxRate = *req.TaxRate
	}
	salary.TaxAmount, salary.NetSalary = ComputeNet(
		salary.BasicSalary, salary.Allowances, salary.Deductions, salary.TaxRate)

	if err := s.repo.Update(ctx, salary); err != nil {
		return SalaryResponse{}, apperror.Wrap(err, apperror.CodeInternalError,
			"failed to update salary record", http.StatusInternalServerError)
	}

	return toResponse(salary), nil
}

func (s *service) GetByID(ctx context.Context, salaryID string) (SalaryResponse, error) {
	id, err := uuid.Parse(salaryID)
	if err != nil {
		return SalaryResponse{}, payrollerrors.ErrInvalidSalaryID
	}

	salary, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return SalaryResponse{}, err
	}
	return toResponse(salary), nil
}

func (s *service) List(ctx context.Context, query ListSalariesQuery) ([]SalaryResponse, response.PaginationMeta, error) {
	query.Normalize()

	salaries, total, err := s.repo.FindAll(ctx, query)
	if err != nil {
		return nil, response.PaginationMeta{}, apperror.Wrap(err, apperror.CodeInternalError,
			"failed to list salary records", http.StatusInternalServerError)
	}

	out := make([]SalaryResponse, 0, len(salaries))
	for i := range salaries {
		out = append(out, toResponse(&salaries[i]))
	}
	return out, response.NewPaginationMeta(total, query.Page, query.Limit), nil
}
