package employee

import (
	"time"

	"go-hrms/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	StatusActive   = "ACTIVE"
	StatusInactive = "INACTIVE"
	StatusOnLeave  = "ON_LEAVE"
)

// Default leave allowances credited on hire.
const (
	DefaultPersonalLeave = 12
	DefaultSickLeave     = 10
	DefaultAnnualLeave   = 15
)

type BankDetails struct {
	AccountHolderName string `gorm:"type:varchar(120)"`
	AccountNumber     string `gorm:"type:varchar(40)"`
	IFSCCode          string `gorm:"type:varchar(20)"`
	BankName          string `gorm:"type:varchar(120)"`
}

type Employee struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`

	// EmployeeNumber is sequence-derived (EMP-<seq>), immutable and never
	// reused, even after hard deletion.
	EmployeeNumber string `gorm:"type:varchar(20);not null;uniqueIndex"`

	FirstName     string  `gorm:"type:varchar(80);not null"`
	LastName      string  `gorm:"type:varchar(80)"`
	Email         *string `gorm:"type:varchar(160);uniqueIndex"`
	PersonalEmail *string `gorm:"type:varchar(160);uniqueIndex"`
	PasswordHash  *string `gorm:"type:varchar(120)"`
	ContactNumber string  `gorm:"type:varchar(20);not null"`

	Role         string     `gorm:"type:varchar(30);not null;index"`
	DepartmentID *uuid.UUID `gorm:"type:uuid;index"`
	Position     string     `gorm:"type:varchar(80)"`
	JoiningDate  time.Time  `gorm:"type:date"`

	// Compensation snapshot used by payroll generation. Amounts are whole
	// currency units, TaxRate is a percentage.
	BaseSalary int64   `gorm:"type:bigint;not null;default:0"`
	Allowances int64   `gorm:"type:bigint;not null;default:0"`
	Deductions int64   `gorm:"type:bigint;not null;default:0"`
	TaxRate    float64 `gorm:"type:numeric(5,2);not null;default:0"`

	// Balances never go negative; the deduction path is a conditional
	// decrement enforced in SQL.
	LeaveBalancePersonal int `gorm:"not null;default:12;check:leave_balance_personal >= 0"`
	LeaveBalanceSick     int `gorm:"not null;default:10;check:leave_balance_sick >= 0"`
	LeaveBalanceAnnual   int `gorm:"not null;default:15;check:leave_balance_annual >= 0"`

	Bank BankDetails `gorm:"embedded;embeddedPrefix:bank_"`

	Status string `gorm:"type:varchar(20);not null;default:'ACTIVE';index"`

	CreatedBy *uuid.UUID `gorm:"type:uuid"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (e *Employee) FullName() string {
	if e.LastName == "" {
		return e.FirstName
	}
	return e.FirstName + " " + e.LastName
}

// LeaveBalance returns the balance for a domain leave type.
func (e *Employee) LeaveBalance(leaveType string) int {
	switch leaveType {
	case domain.LeaveTypePersonal:
		return e.LeaveBalancePersonal
	case domain.LeaveTypeSick:
		return e.LeaveBalanceSick
	case domain.LeaveTypeAnnual:
		return e.LeaveBalanceAnnual
	}
	return 0
}

// leaveBalanceColumn maps a leave type to its balance column. The second
// return is false for unknown types.
func leaveBalanceColumn(leaveType string) (string, bool) {
	switch leaveType {
	case domain.LeaveTypePersonal:
		return "leave_balance_personal", true
	case domain.LeaveTypeSick:
		return "leave_balance_sick", true
	case domain.LeaveTypeAnnual:
		return "leave_balance_annual", true
	}
	return "", false
}
