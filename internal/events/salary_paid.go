package events

import "time"

const SalaryPaidTopic = "hr.payroll.salary.paid.v1"

type SalaryPaidEvent struct {
	EventType  string    `json:"event_type"`
	RequestID  string    `json:"request_id,omitempty"`
	SalaryID   string    `json:"salary_id"`
	EmployeeID string    `json:"employee_id"`
	InvoiceNo  string    `json:"invoice_no"`
	Amount     int64     `json:"amount"`
	Month      int       `json:"month"`
	Year       int       `json:"year"`
	OccurredAt time.Time `json:"occurred_at"`
}
