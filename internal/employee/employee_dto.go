package employee

import "time"

type CreateEmployeeRequest struct {
	FirstName     string  `json:"first_name" binding:"required"`
	LastName      string  `json:"last_name"`
	Email         *string `json:"email" binding:"omitempty,email"`
	PersonalEmail *string `json:"personal_email" binding:"omitempty,email"`
	Password      string  `json:"password" binding:"omitempty,min=8"`
	ContactNumber string  `json:"contact_number" binding:"required"`
	Role          string  `json:"role" binding:"required"`
	DepartmentID  *string `json:"department_id" binding:"omitempty,uuid"`
	Position      string  `json:"position"`
	JoiningDate   string  `json:"joining_date"`
	BaseSalary    int64   `json:"base_salary" binding:"gte=0"`
	Allowances    int64   `json:"allowances" binding:"gte=0"`
	Deductions    int64   `json:"deductions" binding:"gte=0"`
	TaxRate       float64 `json:"tax_rate" binding:"gte=0,lte=100"`
}

type UpdateEmployeeRequest struct {
	FirstName     *string `json:"first_name"`
	LastName      *string `json:"last_name"`
	PersonalEmail *string `json:"personal_email" binding:"omitempty,email"`
	ContactNumber *string `json:"contact_number"`
	DepartmentID  *string `json:"department_id" binding:"omitempty,uuid"`
	Position      *string `json:"position"`
	Status        *string `json:"status"`
}

// PromoteEmployeeRequest moves an employee to a new position, optionally
// changing role and compensation in the same step.
type PromoteEmployeeRequest struct {
	Position   string   `json:"position" binding:"required"`
	Role       *string  `json:"role"`
	BaseSalary *int64   `json:"base_salary" binding:"omitempty,gte=0"`
	Allowances *int64   `json:"allowances" binding:"omitempty,gte=0"`
	Deductions *int64   `json:"deductions" binding:"omitempty,gte=0"`
	TaxRate    *float64 `json:"tax_rate" binding:"omitempty,gte=0,lte=100"`
}

type UpdateBankDetailsRequest struct {
	AccountHolderName string `json:"account_holder_name" binding:"required"`
	AccountNumber     string `json:"account_number" binding:"required"`
	IFSCCode          string `json:"ifsc_code" binding:"required"`
	BankName          string `json:"bank_name" binding:"required"`
}

type ListEmployeesQuery struct {
	Page         int    `form:"page"`
	Limit        int    `form:"limit"`
	Role         string `form:"role"`
	Status       string `form:"status"`
	DepartmentID string `form:"department_id"`
	Search       string `form:"search"`
}

func (q *ListEmployeesQuery) Normalize() {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 || q.Limit > 100 {
		q.Limit = 20
	}
}

type BankDetailsResponse struct {
	AccountHolderName string `json:"account_holder_name"`
	AccountNumber     string `json:"account_number"`
	IFSCCode          string `json:"ifsc_code"`
	BankName          string `json:"bank_name"`
}

type EmployeeResponse struct {
	ID             string               `json:"id"`
	EmployeeNumber string               `json:"employee_number"`
	FirstName      string               `json:"first_name"`
	LastName       string               `json:"last_name"`
	Email          *string              `json:"email"`
	PersonalEmail  *string              `json:"personal_email"`
	ContactNumber  string               `json:"contact_number"`
	Role           string               `json:"role"`
	DepartmentID   *string              `json:"department_id"`
	Position       string               `json:"position"`
	JoiningDate    string               `json:"joining_date"`
	BaseSalary     int64                `json:"base_salary"`
	Allowances     int64                `json:"allowances"`
	Deductions     int64                `json:"deductions"`
	TaxRate        float64              `json:"tax_rate"`
	LeaveBalances  map[string]int       `json:"leave_balances"`
	Bank           *BankDetailsResponse `json:"bank_details,omitempty"`
	Status         string               `json:"status"`
	CreatedAt      time.Time            `json:"created_at"`
}

// EmployeeOption is the trimmed projection used by dropdowns.
type EmployeeOption struct {
	ID             string `json:"id"`
	EmployeeNumber string `json:"employee_number"`
	FullName       string `json:"full_name"`
}

func toResponse(e *Employee) EmployeeResponse {
	resp := EmployeeResponse{
		ID:             e.ID.String(),
		EmployeeNumber: e.EmployeeNumber,
		FirstName:      e.FirstName,
		LastName:       e.LastName,
		Email:          e.Email,
		PersonalEmail:  e.PersonalEmail,
		ContactNumber:  e.ContactNumber,
		Role:           e.Role,
		Position:       e.Position,
		BaseSalary:     e.BaseSalary,
		Allowances:     e.Allowances,
		Deductions:     e.Deductions,
		TaxRate:        e.TaxRate,
		LeaveBalances: map[string]int{
			"personal": e.LeaveBalancePersonal,
			"sick":     e.LeaveBalanceSick,
			"annual":   e.LeaveBalanceAnnual,
		},
		Status:    e.Status,
		CreatedAt: e.CreatedAt,
	}

	if e.DepartmentID != nil {
		departmentID := e.DepartmentID.String()
		resp.DepartmentID = &departmentID
	}
	if !e.JoiningDate.IsZero() {
		resp.JoiningDate = e.JoiningDate.Format("2006-01-02")
	}
	if e.Bank.AccountNumber != "" {
		resp.Bank = &BankDetailsResponse{
			AccountHolderName: e.Bank.AccountHolderName,
			AccountNumber:     e.Bank.AccountNumber,
			IFSCCode:          e.Bank.IFSCCode,
			BankName:          e.Bank.BankName,
		}
	}

	return resp
}

func toOption(e *Employee) EmployeeOption {
	return EmployeeOption{
		ID:             e.ID.String(),
		EmployeeNumber: e.EmployeeNumber,
		FullName:       e.FullName(),
	}
}
