package payroll

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusDue  = "DUE"
	StatusPaid = "PAID"
)

// Period is a payroll month.
type Period struct {
	Month int `json:"month"`
	Year  int `json:"year"`
}

func (p Period) Valid() bool {
	return p.Month >= 1 && p.Month <= 12 && p.Year >= 2000 && p.Year <= 2200
}

func CurrentPeriod(now time.Time) Period {
	return Period{Month: int(now.Month()), Year: now.Year()}
}

// EmployeeInfo is a read-only projection of the employees table. Payroll
// reads employee rows through this projection instead of importing the
// employee package.
type EmployeeInfo struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	EmployeeNumber string
	FirstName      string
	LastName       string
	Email          *string
	Position       string
	Status         string

	BaseSalary int64
	Allowances int64
	Deductions int64
	TaxRate    float64

	BankAccountHolderName string `gorm:"column:bank_account_holder_name"`
	BankAccountNumber     string `gorm:"column:bank_account_number"`
	BankIFSCCode          string `gorm:"column:bank_ifsc_code"`
	BankBankName          string `gorm:"column:bank_bank_name"`
}

func (EmployeeInfo) TableName() string {
	return "employees"
}

func (e *EmployeeInfo) FullName() string {
	if e.LastName == "" {
		return e.FirstName
	}
	return e.FirstName + " " + e.LastName
}

func (e *EmployeeInfo) HasBankDetails() bool {
	return e.BankAccountNumber != "" && e.BankIFSCCode != ""
}

// Salary is one employee's payroll record for one period. Compensation
// fields are snapshotted at generation time; later employee edits do not
// rewrite history.
type Salary struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`

	EmployeeID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_salaries_employee_period"`
	Month      int       `gorm:"not null;uniqueIndex:idx_salaries_employee_period"`
	Year       int       `gorm:"not null;uniqueIndex:idx_salaries_employee_period"`

	BasicSalary int64   `gorm:"type:bigint;not null"`
	Allowances  int64   `gorm:"type:bigint;not null"`
	Deductions  int64   `gorm:"type:bigint;not null"`
	TaxRate     float64 `gorm:"type:numeric(5,2);not null"`
	TaxAmount   int64   `gorm:"type:bigint;not null"`
	NetSalary   int64   `gorm:"type:bigint;not null"`

	Status string     `gorm:"type:varchar(10);not null;default:'DUE';index"`
	PaidAt *time.Time

	// Invoice fields are set only on the individual payment path. InvoiceKey
	// is the storage key of the rendered PDF, never a public URL.
	InvoiceNo     *string `gorm:"type:varchar(30);uniqueIndex"`
	InvoiceDate   *time.Time
	InvoiceAmount *int64 `gorm:"type:bigint"`
	InvoiceKey    *string

	Employee *EmployeeInfo `gorm:"foreignKey:EmployeeID"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Salary) TableName() string {
	return "salaries"
}
