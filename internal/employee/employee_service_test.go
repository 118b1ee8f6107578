package employee

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"go-hrms/internal/domain"
	employeeerrors "go-hrms/internal/employee/errors"
	"go-hrms/internal/messaging/kafka"
	"go-hrms/internal/payroll"
	"go-hrms/internal/shared/counter"
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

type fakeEmployeeRepo struct {
	Repository

	created  []*Employee
	existing map[string]bool
	createFn func(ctx context.Context, emp *Employee) error
}

func newFakeEmployeeRepo() *fakeEmployeeRepo {
	return &fakeEmployeeRepo{existing: map[string]bool{}}
}

func (f *fakeEmployeeRepo) WithTx(tx *gorm.DB) Repository { return f }

func (f *fakeEmployeeRepo) Create(ctx context.Context, emp *Employee) error {
	if f.createFn != nil {
		if err := f.createFn(ctx, emp); err != nil {
			return err
		}
	}
	f.created = append(f.created, emp)
	if emp.Email != nil {
		f.existing[*emp.Email] = true
	}
	if emp.PersonalEmail != nil {
		f.existing[*emp.PersonalEmail] = true
	}
	return nil
}

func (f *fakeEmployeeRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return f.existing[email], nil
}

type fakeCounterRepo struct {
	next int64
}

func (f *fakeCounterRepo) WithTx(tx *gorm.DB) counter.Repository { return f }

func (f *fakeCounterRepo) NextValue(ctx context.Context, name string) (int64, error) {
	f.next++
	return f.next, nil
}

type fakeOutboxRepo struct {
	events []kafka.OutboxEvent
}

func (f *fakeOutboxRepo) WithTx(tx *gorm.DB) kafka.OutboxRepository { return f }

func (f *fakeOutboxRepo) Create(ctx context.Context, event kafka.OutboxEvent) error {
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

type fakeSalaryRepo struct {
	payroll.Repository

	inserted []*payroll.Salary
	err      error
}

func (f *fakeSalaryRepo) WithTx(tx *gorm.DB) payroll.Repository { return f }

func (f *fakeSalaryRepo) InsertIfAbsent(ctx context.Context, salary *payroll.Salary) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	f.inserted = append(f.inserted, salary)
	return true, nil
}

func newEmployeeService(
	db *gorm.DB,
	repo Repository,
	counterRepo counter.Repository,
	outboxRepo kafka.OutboxRepository,
	salaryRepo payroll.Repository,
) *service {
	return &service{
		db:          db,
		repo:        repo,
		counterRepo: counterRepo,
		outboxRepo:  outboxRepo,
		salaryRepo:  salaryRepo,
		logger:      zap.NewNop(),
	}
}

func TestCreateAssignsSequentialEmployeeNumber(t *testing.T) {
	db, mock := newTestDB(t)
	mock.ExpectBegin()
	mock.ExpectCommit()

	repo := newFakeEmployeeRepo()
	outbox := &fakeOutboxRepo{}
	svc := newEmployeeService(db, repo, &fakeCounterRepo{next: 2024}, outbox, &fakeSalaryRepo{})

	email := "asha@corp.test"
	result, err := svc.Create(context.Background(), CreateEmployeeRequest{
		FirstName:     "Asha",
		LastName:      "Verma",
		Email:         &email,
		ContactNumber: "555-0101",
		Role:          domain.RoleAdmin,
		BaseSalary:    50000,
	})

	require.NoError(t, err)
	assert.Equal(t, "EMP-2025", result.EmployeeNumber)
	assert.Equal(t, StatusActive, result.Status)
	assert.Equal(t, 12, result.LeaveBalances["personal"])
	assert.Equal(t, 10, result.LeaveBalances["sick"])
	assert.Equal(t, 15, result.LeaveBalances["annual"])

	require.Len(t, outbox.events, 1)
	assert.Equal(t, "employee.created", outbox.events[0].EventType)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateRejectsDuplicateEmail(t *testing.T) {
	db, mock := newTestDB(t)
	mock.ExpectBegin()
	mock.ExpectRollback()

	repo := newFakeEmployeeRepo()
	repo.existing["taken@corp.test"] = true

	svc := newEmployeeService(db, repo, &fakeCounterRepo{}, &fakeOutboxRepo{}, &fakeSalaryRepo{})

	email := "taken@corp.test"
	_, err := svc.Create(context.Background(), CreateEmployeeRequest{
		FirstName:     "Dev",
		Email:         &email,
		ContactNumber: "555-0102",
		Role:          domain.RoleEmployee,
	})

	assert.ErrorIs(t, err, employeeerrors.ErrEmailExists)
	assert.Empty(t, repo.created)
}

func TestCreateRequiresEmailForPrivilegedRoles(t *testing.T) {
	db, _ := newTestDB(t)

	svc := newEmployeeService(db, newFakeEmployeeRepo(), &fakeCounterRepo{},
		&fakeOutboxRepo{}, &fakeSalaryRepo{})

	_, err := svc.Create(context.Background(), CreateEmployeeRequest{
		FirstName:     "Dev",
		ContactNumber: "555-0103",
		Role:          domain.RoleDepartmentHead,
	})

	assert.ErrorIs(t, err, employeeerrors.ErrEmailRequiredForRole)
}

func TestBulkImportSkipsBadRowsAndKeepsRest(t *testing.T) {
	db, mock := newTestDB(t)
	mock.ExpectBegin()
	mock.ExpectCommit()

	repo := newFakeEmployeeRepo()
	repo.existing["dupe@corp.test"] = true
	salaryRepo := &fakeSalaryRepo{}

	svc := newEmployeeService(db, repo, &fakeCounterRepo{next: 2024}, &fakeOutboxRepo{}, salaryRepo)

	rows := []ImportRow{
		{FirstName: "Asha", Role: domain.RoleEmployee, ContactNumber: "555-1", Email: "asha@corp.test", BaseSalary: 50000, TaxRate: 10},
		{FirstName: "", Role: domain.RoleEmployee, ContactNumber: "555-2"},
		{FirstName: "NoPhone", Role: domain.RoleEmployee},
		{FirstName: "Dupe", Role: domain.RoleEmployee, ContactNumber: "555-3", Email: "dupe@corp.test"},
		{FirstName: "Ravi", Role: domain.RoleEmployee, ContactNumber: "555-4", PersonalEmail: "ravi@home.test", BaseSalary: 30000},
	}

	result, err := svc.BulkImport(context.Background(), rows)

	require.NoError(t, err)
	assert.Equal(t, 5, result.TotalRows)
	assert.Equal(t, 2, result.Inserted)
	assert.Equal(t, 3, result.Skipped)

	require.Len(t, repo.created, 2)
	assert.Equal(t, "EMP-2025", repo.created[0].EmployeeNumber)
	assert.Equal(t, "EMP-2026", repo.created[1].EmployeeNumber)

	// Every inserted hire gets a current-period DUE salary snapshot.
	require.Len(t, salaryRepo.inserted, 2)
	assert.Equal(t, int64(50000), salaryRepo.inserted[0].BasicSalary)
	assert.Equal(t, payroll.StatusDue, salaryRepo.inserted[0].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBulkImportSkipsUnknownRole(t *testing.T) {
	db, mock := newTestDB(t)
	mock.ExpectBegin()
	mock.ExpectCommit()

	repo := newFakeEmployeeRepo()
	svc := newEmployeeService(db, repo, &fakeCounterRepo{}, &fakeOutboxRepo{}, &fakeSalaryRepo{})

	result, err := svc.BulkImport(context.Background(), []ImportRow{
		{FirstName: "Asha", Role: "SUPERVISOR", ContactNumber: "555-1"},
	})

	require.NoError(t, err)
	assert.Equal(t, 0, result.Inserted)
	assert.Equal(t, 1, result.Skipped)
	assert.Empty(t, repo.created)
}

func TestBulkImportFailsAtomicallyOnRepoError(t *testing.T) {
	db, mock := newTestDB(t)
	mock.ExpectBegin()
	mock.ExpectRollback()

	repo := newFakeEmployeeRepo()
	repo.createFn = func(ctx context.Context, emp *Employee) error {
		if emp.FirstName == "Broken" {
			return errors.New("disk full")
		}
		return nil
	}

	svc := newEmployeeService(db, repo, &fakeCounterRepo{}, &fakeOutboxRepo{}, &fakeSalaryRepo{})

	_, err := svc.BulkImport(context.Background(), []ImportRow{
		{FirstName: "Fine", Role: domain.RoleEmployee, ContactNumber: "555-1"},
		{FirstName: "Broken", Role: domain.RoleEmployee, ContactNumber: "555-2"},
	})

	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBulkImportRejectsEmptyFile(t *testing.T) {
	db, _ := newTestDB(t)

	svc := newEmployeeService(db, newFakeEmployeeRepo(), &fakeCounterRepo{},
		&fakeOutboxRepo{}, &fakeSalaryRepo{})

	_, err := svc.BulkImport(context.Background(), nil)

	assert.ErrorIs(t, err, employeeerrors.ErrEmptyImportFile)
}

func TestDeductLeaveBalanceColumnMapping(t *testing.T) {
	for leaveType, column := range map[string]string{
		domain.LeaveTypePersonal: "leave_balance_personal",
		domain.LeaveTypeSick:     "leave_balance_sick",
		domain.LeaveTypeAnnual:   "leave_balance_annual",
	} {
		got, ok := leaveBalanceColumn(leaveType)
		assert.True(t, ok)
		assert.Equal(t, column, got)
	}

	_, ok := leaveBalanceColumn("MATERNITY")
	assert.False(t, ok)
}

func TestEmployeeFullNameAndBalances(t *testing.T) {
	emp := &Employee{FirstName: "Asha", LastName: "Verma", LeaveBalanceSick: 7}
	assert.Equal(t, "Asha Verma", emp.FullName())
	assert.Equal(t, 7, emp.LeaveBalance(domain.LeaveTypeSick))
	assert.Equal(t, 0, emp.LeaveBalance("MATERNITY"))

	solo := &Employee{FirstName: "Asha"}
	assert.Equal(t, "Asha", solo.FullName())
}
