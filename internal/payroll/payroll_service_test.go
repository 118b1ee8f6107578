package payroll

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"go-hrms/internal/messaging/kafka"
	payrollerrors "go-hrms/internal/payroll/errors"
	"go-hrms/internal/shared/counter"
	"go-hrms/internal/storage"
)

func newTestDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return db, mock
}

type fakePayrollRepo struct {
	insertIfAbsentFn func(ctx context.Context, salary *Salary) (bool, error)
	findByIDFn       func(ctx context.Context, id uuid.UUID) (*Salary, error)
	updateFn         func(ctx context.Context, salary *Salary) error
	markAllDuePaidFn func(ctx context.Context, period Period, paidAt time.Time) (int64, error)
	findPayableFn    func(ctx context.Context) ([]EmployeeInfo, error)
}

func (f *fakePayrollRepo) WithTx(tx *gorm.DB) Repository { return f }

func (f *fakePayrollRepo) InsertIfAbsent(ctx context.Context, salary *Salary) (bool, error) {
	return f.insertIfAbsentFn(ctx, salary)
}

func (f *fakePayrollRepo) FindByID(ctx context.Context, id uuid.UUID) (*Salary, error) {
	return f.findByIDFn(ctx, id)
}

func (f *fakePayrollRepo) FindAll(ctx context.Context, query ListSalariesQuery) ([]Salary, int64, error) {
	return nil, 0, nil
}

func (f *fakePayrollRepo) Update(ctx context.Context, salary *Salary) error {
	return f.updateFn(ctx, salary)
}

func (f *fakePayrollRepo) MarkAllDuePaid(ctx context.Context, period Period, paidAt time.Time) (int64, error) {
	return f.markAllDuePaidFn(ctx, period, paidAt)
}

func (f *fakePayrollRepo) FindPayableEmployees(ctx context.Context) ([]EmployeeInfo, error) {
	return f.findPayableFn(ctx)
}

type fakeCounterRepo struct {
	next  int64
	calls int
	err   error
}

func (f *fakeCounterRepo) WithTx(tx *gorm.DB) counter.Repository { return f }

func (f *fakeCounterRepo) NextValue(ctx context.Context, name string) (int64, error) {
	f.calls++
	if f.err != nil {
		return 0, f.err
	}
	f.next++
	return f.next, nil
}

type fakeOutboxRepo struct {
	events []kafka.OutboxEvent
	err    error
}

func (f *fakeOutboxRepo) WithTx(tx *gorm.DB) kafka.OutboxRepository { return f }

func (f *fakeOutboxRepo) Create(ctx context.Context, event kafka.OutboxEvent) error {
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, event)
	return nil
}

func (f *fakeOutboxRepo) ListPending(ctx context.Context, limit int) ([]kafka.OutboxEvent, error) {
	return nil, nil
}

func (f *fakeOutboxRepo) MarkSent(ctx context.Context, id string) error { return nil }

func (f *fakeOutboxRepo) MarkFailed(ctx context.Context, id string, reason string) error {
	return nil
}

type fakeRenderer struct {
	data []byte
	err  error
	last InvoiceData
}

func (f *fakeRenderer) Render(data InvoiceData) ([]byte, error) {
	f.last = data
	if f.err != nil {
		return nil, f.err
	}
	return f.data, nil
}

// signedURLStorage redirects signed URLs to a test HTTP server.
type signedURLStorage struct {
	*storage.MemoryStorage
	url string
}

func (s *signedURLStorage) SignedURL(ctx context.Context, key string, ttl time.Duration) (string, error) {
	return s.url, nil
}

func dueSalary(withBank bool) *Salary {
	emp := &EmployeeInfo{
		ID:             uuid.New(),
		EmployeeNumber: "EMP-2031",
		FirstName:      "Asha",
		LastName:       "Verma",
	}
	if withBank {
		emp.BankAccountNumber = "12345678"
		emp.BankIFSCCode = "HDFC0001"
		emp.BankBankName = "HDFC"
		emp.BankAccountHolderName = "Asha Verma"
	}

	return &Salary{
		ID:          uuid.New(),
		EmployeeID:  emp.ID,
		Month:       3,
		Year:        2026,
		BasicSalary: 50000,
		Allowances:  2000,
		Deductions:  500,
		TaxRate:     10,
		TaxAmount:   5000,
		NetSalary:   46500,
		Status:      StatusDue,
		Employee:    emp,
	}
}

func newPayrollService(
	db *gorm.DB,
	repo Repository,
	counterRepo *fakeCounterRepo,
	outboxRepo kafka.OutboxRepository,
	store storage.Storage,
	renderer InvoiceRenderer,
) Service {
	return &service{
		db:          db,
		repo:        repo,
		counterRepo: counterRepo,
		outboxRepo:  outboxRepo,
		store:       store,
		renderer:    renderer,
		httpClient:  &http.Client{Timeout: 5 * time.Second},
		logger:      zap.NewNop(),
	}
}

func TestGenerateMonthlyIsIdempotent(t *testing.T) {
	db, _ := newTestDB(t)

	existing := map[uuid.UUID]bool{}
	employees := []EmployeeInfo{
		{ID: uuid.New(), BaseSalary: 50000, TaxRate: 10},
		{ID: uuid.New(), BaseSalary: 30000},
		{ID: uuid.New(), BaseSalary: 40000},
	}

	repo := &fakePayrollRepo{
		findPayableFn: func(ctx context.Context) ([]EmployeeInfo, error) { return employees, nil },
		insertIfAbsentFn: func(ctx context.Context, salary *Salary) (bool, error) {
			if existing[salary.EmployeeID] {
				return false, nil
			}
			existing[salary.EmployeeID] = true
			return true, nil
		},
	}

	svc := newPayrollService(db, repo, &fakeCounterRepo{}, &fakeOutboxRepo{},
		storage.NewMemoryStorage(), &fakeRenderer{data: []byte("%PDF")})

	first, err := svc.GenerateMonthly(context.Background(), Period{Month: 3, Year: 2026})
	require.NoError(t, err)
	assert.Equal(t, 3, first.Created)
	assert.Equal(t, 0, first.Skipped)

	second, err := svc.GenerateMonthly(context.Background(), Period{Month: 3, Year: 2026})
	require.NoError(t, err)
	assert.Equal(t, 0, second.Created)
	assert.Equal(t, 3, second.Skipped)
}

func TestGenerateMonthlySkipsFailingEmployee(t *testing.T) {
	db, _ := newTestDB(t)

	broken := uuid.New()
	employees := []EmployeeInfo{
		{ID: uuid.New(), BaseSalary: 50000},
		{ID: broken, BaseSalary: 30000},
		{ID: uuid.New(), BaseSalary: 40000},
	}

	repo := &fakePayrollRepo{
		findPayableFn: func(ctx context.Context) ([]EmployeeInfo, error) { return employees, nil },
		insertIfAbsentFn: func(ctx context.Context, salary *Salary) (bool, error) {
			if salary.EmployeeID == broken {
				return false, errors.New("constraint violated")
			}
			return true, nil
		},
	}

	svc := newPayrollService(db, repo, &fakeCounterRepo{}, &fakeOutboxRepo{},
		storage.NewMemoryStorage(), &fakeRenderer{})

	result, err := svc.GenerateMonthly(context.Background(), Period{Month: 3, Year: 2026})

	require.NoError(t, err)
	assert.Equal(t, 2, result.Created)
	assert.Equal(t, 1, result.Skipped)
}

func TestPayIndividualIssuesInvoiceAndMarksPaid(t *testing.T) {
	db, mock := newTestDB(t)
	mock.ExpectBegin()
	mock.ExpectCommit()

	salary := dueSalary(true)
	var updated *Salary

	repo := &fakePayrollRepo{
		findByIDFn: func(ctx context.Context, id uuid.UUID) (*Salary, error) { return salary, nil },
		updateFn: func(ctx context.Context, s *Salary) error {
			updated = s
			return nil
		},
	}
	counterRepo := &fakeCounterRepo{next: 6}
	outbox := &fakeOutboxRepo{}
	store := storage.NewMemoryStorage()
	renderer := &fakeRenderer{data: []byte("%PDF-1.4 test")}

	svc := newPayrollService(db, repo, counterRepo, outbox, store, renderer)

	result, err := svc.PayIndividual(context.Background(), salary.ID.String())

	require.NoError(t, err)
	assert.Equal(t, StatusPaid, result.Status)
	require.NotNil(t, result.InvoiceNo)
	assert.Equal(t, "INV-202603-0007", *result.InvoiceNo)
	require.NotNil(t, result.InvoiceAmount)
	assert.Equal(t, int64(46500), *result.InvoiceAmount)

	require.NotNil(t, updated)
	require.NotNil(t, updated.InvoiceKey)
	pdf, ok := store.Get(*updated.InvoiceKey)
	assert.True(t, ok)
	assert.Equal(t, renderer.data, pdf)

	require.Len(t, outbox.events, 1)
	assert.Equal(t, "salary.paid", outbox.events[0].EventType)
	assert.Equal(t, "EMP-2031", renderer.last.EmployeeNumber)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPayIndividualAlreadyPaidLeavesCounterUntouched(t *testing.T) {
	db, mock := newTestDB(t)
	mock.ExpectBegin()
	mock.ExpectRollback()

	salary := dueSalary(true)
	salary.Status = StatusPaid

	repo := &fakePayrollRepo{
		findByIDFn: func(ctx context.Context, id uuid.UUID) (*Salary, error) { return salary, nil },
	}
	counterRepo := &fakeCounterRepo{}

	svc := newPayrollService(db, repo, counterRepo, &fakeOutboxRepo{},
		storage.NewMemoryStorage(), &fakeRenderer{})

	_, err := svc.PayIndividual(context.Background(), salary.ID.String())

	assert.ErrorIs(t, err, payrollerrors.ErrAlreadyPaid)
	assert.Zero(t, counterRepo.calls)
}

func TestPayIndividualRequiresBankDetails(t *testing.T) {
	db, mock := newTestDB(t)
	mock.ExpectBegin()
	mock.ExpectRollback()

	salary := dueSalary(false)
	repo := &fakePayrollRepo{
		findByIDFn: func(ctx context.Context, id uuid.UUID) (*Salary, error) { return salary, nil },
	}

	svc := newPayrollService(db, repo, &fakeCounterRepo{}, &fakeOutboxRepo{},
		storage.NewMemoryStorage(), &fakeRenderer{})

	_, err := svc.PayIndividual(context.Background(), salary.ID.String())

	assert.ErrorIs(t, err, payrollerrors.ErrMissingBankDetails)
}

func TestPayIndividualRenderFailureLeavesSalaryDue(t *testing.T) {
	db, mock := newTestDB(t)
	mock.ExpectBegin()
	mock.ExpectRollback()

	salary := dueSalary(true)
	updateCalled := false

	repo := &fakePayrollRepo{
		findByIDFn: func(ctx context.Context, id uuid.UUID) (*Salary, error) { return salary, nil },
		updateFn: func(ctx context.Context, s *Salary) error {
			updateCalled = true
			return nil
		},
	}

	svc := newPayrollService(db, repo, &fakeCounterRepo{}, &fakeOutboxRepo{},
		storage.NewMemoryStorage(), &fakeRenderer{err: errors.New("font missing")})

	_, err := svc.PayIndividual(context.Background(), salary.ID.String())

	require.Error(t, err)
	assert.False(t, updateCalled)
	assert.Nil(t, salary.InvoiceKey)
}

func TestDownloadInvoiceStreamsPDF(t *testing.T) {
	db, _ := newTestDB(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		w.Write([]byte("%PDF-1.4 payload"))
	}))
	t.Cleanup(server.Close)

	salary := dueSalary(true)
	salary.Status = StatusPaid
	invoiceNo := "INV-202603-0007"
	key := "invoices/2026/03/" + invoiceNo + ".pdf"
	salary.InvoiceNo = &invoiceNo
	salary.InvoiceKey = &key

	repo := &fakePayrollRepo{
		findByIDFn: func(ctx context.Context, id uuid.UUID) (*Salary, error) { return salary, nil },
	}
	store := &signedURLStorage{MemoryStorage: storage.NewMemoryStorage(), url: server.URL}

	svc := newPayrollService(db, repo, &fakeCounterRepo{}, &fakeOutboxRepo{}, store, &fakeRenderer{})

	file, err := svc.DownloadInvoice(context.Background(), salary.ID.String())

	require.NoError(t, err)
	assert.Equal(t, invoiceNo+".pdf", file.FileName)
	assert.Equal(t, "application/pdf", file.ContentType)
	assert.Equal(t, []byte("%PDF-1.4 payload"), file.Data)
}

func TestDownloadInvoiceRejectsNonPDFPayload(t *testing.T) {
	db, _ := newTestDB(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte("<html>not a pdf</html>"))
	}))
	t.Cleanup(server.Close)

	salary := dueSalary(true)
	invoiceNo := "INV-202603-0001"
	key := "invoices/2026/03/" + invoiceNo + ".pdf"
	salary.InvoiceNo = &invoiceNo
	salary.InvoiceKey = &key

	repo := &fakePayrollRepo{
		findByIDFn: func(ctx context.Context, id uuid.UUID) (*Salary, error) { return salary, nil },
	}
	store := &signedURLStorage{MemoryStorage: storage.NewMemoryStorage(), url: server.URL}

	svc := newPayrollService(db, repo, &fakeCounterRepo{}, &fakeOutboxRepo{}, store, &fakeRenderer{})

	_, err := svc.DownloadInvoice(context.Background(), salary.ID.String())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "non-PDF")
}

func TestDownloadInvoiceWithoutInvoice(t *testing.T) {
	db, _ := newTestDB(t)

	salary := dueSalary(true)
	repo := &fakePayrollRepo{
		findByIDFn: func(ctx context.Context, id uuid.UUID) (*Salary, error) { return salary, nil },
	}

	svc := newPayrollService(db, repo, &fakeCounterRepo{}, &fakeOutboxRepo{},
		storage.NewMemoryStorage(), &fakeRenderer{})

	_, err := svc.DownloadInvoice(context.Background(), salary.ID.String())

	assert.ErrorIs(t, err, payrollerrors.ErrInvoiceMissing)
}

func TestRunBulkPayrollCountsRows(t *testing.T) {
	db, _ := newTestDB(t)

	repo := &fakePayrollRepo{
		markAllDuePaidFn: func(ctx context.Context, period Period, paidAt time.Time) (int64, error) {
			return 12, nil
		},
	}

	svc := newPayrollService(db, repo, &fakeCounterRepo{}, &fakeOutboxRepo{},
		storage.NewMemoryStorage(), &fakeRenderer{})

	result, err := svc.RunBulkPayroll(context.Background(), Period{Month: 3, Year: 2026})

	require.NoError(t, err)
	assert.Equal(t, int64(12), result.Paid)
}

func TestUpdateSalaryRejectsPaidRecord(t *testing.T) {
	db, _ := newTestDB(t)

	salary := dueSalary(true)
	salary.Status = StatusPaid

	repo := &fakePayrollRepo{
		findByIDFn: func(ctx context.Context, id uuid.UUID) (*Salary, error) { return salary, nil },
	}

	svc := newPayrollService(db, repo, &fakeCounterRepo{}, &fakeOutboxRepo{},
		storage.NewMemoryStorage(), &fakeRenderer{})

	newBase := int64(60000)
	_, err := svc.UpdateSalary(context.Background(), salary.ID.String(),
		UpdateSalaryRequest{BasicSalary: &newBase})

	assert.ErrorIs(t, err, payrollerrors.ErrSalaryImmutable)
}

func TestUpdateSalaryRecomputesNet(t *testing.T) {
	db, _ := newTestDB(t)

	salary := dueSalary(true)
	repo := &fakePayrollRepo{
		findByIDFn: func(ctx context.Context, id uuid.UUID) (*Salary, error) { return salary, nil },
		updateFn:   func(ctx context.Context, s *Salary) error { return nil },
	}

	svc := newPayrollService(db, repo, &fakeCounterRepo{}, &fakeOutboxRepo{},
		storage.NewMemoryStorage(), &fakeRenderer{})

	newBase := int64(60000)
	result, err := svc.UpdateSalary(context.Background(), salary.ID.String(),
		UpdateSalaryRequest{BasicSalary: &newBase})

	require.NoError(t, err)
	assert.Equal(t, int64(6000), result.TaxAmount)
	assert.Equal(t, int64(55500), result.NetSalary)
}
