package payroll

import "math"

// ComputeNet derives the tax amount and net pay from a compensation
// snapshot. Tax applies to the base salary only, taxRate is a percentage.
func ComputeNet(baseSalary, allowances, deductions int64, taxRate float64) (taxAmount, netSalary int64) {
	taxAmount = int64(math.Round(float64(baseSalary) * taxRate / 100))
	netSalary = baseSalary + allowances - deductions - taxAmount
	return taxAmount, netSalary
}

// NewSalary builds a DUE salary record for the period from the employee's
// current compensation.
func NewSalary(emp *EmployeeInfo, period Period) *Salary {
	taxAmount, netSalary := ComputeNet(emp.BaseSalary, emp.Allowances, emp.Deductions, emp.TaxRate)
	return &Salary{
		EmployeeID:  emp.ID,
		Month:       period.Month,
		Year:        period.Year,
		BasicSalary: emp.BaseSalary,
		Allowances:  emp.Allowances,
		Deductions:  emp.Deductions,
		TaxRate:     emp.TaxRate,
		TaxAmount:   taxAmount,
		NetSalary:   netSalary,
		Status:      StatusDue,
	}
}
