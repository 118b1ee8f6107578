package payroll

import "time"

type GenerateSalariesRequest struct {
	Month int `json:"month" binding:"required,min=1,max=12"`
	Year  int `json:"year" binding:"required,min=2000,max=2200"`
}

type RunPayrollRequest struct {
	Month int `json:"month" binding:"required,min=1,max=12"`
	Year  int `json:"year" binding:"required,min=2000,max=2200"`
}

type UpdateSalaryRequest struct {
	BasicSalary *int64   `json:"basic_salary" binding:"omitempty,gte=0"`
	Allowances  *int64   `json:"allowances" binding:"omitempty,gte=0"`
	Deductions  *int64   `json:"deductions" binding:"omitempty,gte=0"`
	TaxRate     *float64 `json:"tax_rate" binding:"omitempty,gte=0,lte=100"`
}

type ListSalariesQuery struct {
	Page       int    `form:"page"`
	Limit      int    `form:"limit"`
	Month      int    `form:"month"`
	Year       int    `form:"year"`
	Status     string `form:"status"`
	EmployeeID string `form:"employee_id"`
}

func (q *ListSalariesQuery) Normalize() {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 || q.Limit > 100 {
		q.Limit = 20
	}
}

type GenerateSalariesResponse struct {
	Month   int `json:"month"`
	Year    int `json:"year"`
	Created int `json:"created"`
	Skipped int `json:"skipped"`
}

type RunPayrollResponse struct {
	Month int   `json:"month"`
	Year  int   `json:"year"`
	Paid  int64 `json:"paid"`
}

type SalaryEmployeeResponse struct {
	ID             string `json:"id"`
	EmployeeNumber string `json:"employee_number"`
	FullName       string `json:"full_name"`
	Position       string `json:"position"`
}

type SalaryResponse struct {
	ID            string                  `json:"id"`
	EmployeeID    string                  `json:"employee_id"`
	Employee      *SalaryEmployeeResponse `json:"employee,omitempty"`
	Month         int                     `json:"month"`
	Year          int                     `json:"year"`
	BasicSalary   int64                   `json:"basic_salary"`
	Allowances    int64                   `json:"allowances"`
	Deductions    int64                   `json:"deductions"`
	TaxRate       float64                 `json:"tax_rate"`
	TaxAmount     int64                   `json:"tax_amount"`
	NetSalary     int64                   `json:"net_salary"`
	Status        string                  `json:"status"`
	PaidAt        *time.Time              `json:"paid_at"`
	InvoiceNo     *string                 `json:"invoice_no"`
	InvoiceDate   *time.Time              `json:"invoice_date"`
	InvoiceAmount *int64                  `json:"invoice_amount"`
	CreatedAt     time.Time               `json:"created_at"`
}

func toResponse(s *Salary) SalaryResponse {
	resp := SalaryResponse{
		ID:            s.ID.String(),
		EmployeeID:    s.EmployeeID.String(),
		Month:         s.Month,
		Year:          s.Year,
		BasicSalary:   s.BasicSalary,
		Allowances:    s.Allowances,
		Deductions:    s.Deductions,
		TaxRate:       s.TaxRate,
		TaxAmount:     s.TaxAmount,
		NetSalary:     s.NetSalary,
		Status:        s.Status,
		PaidAt:        s.PaidAt,
		InvoiceNo:     s.InvoiceNo,
		InvoiceDate:   s.InvoiceDate,
		InvoiceAmount: s.InvoiceAmount,
		CreatedAt:     s.CreatedAt,
	}

	if s.Employee != nil {
		resp.Employee = &SalaryEmployeeResponse{
			ID:             s.Employee.ID.String(),
			EmployeeNumber: s.Employee.EmployeeNumber,
			FullName:       s.Employee.FullName(),
			Position:       s.Employee.Position,
		}
	}

	return resp
}
