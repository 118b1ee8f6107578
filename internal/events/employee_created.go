package events

import "time"

const EmployeeCreatedTopic = "hr.employee.lifecycle.v1"

type EmployeeCreatedEvent struct {
	EventType      string    `json:"event_type"`
	RequestID      string    `json:"request_id,omitempty"`
	EmployeeID     string    `json:"employee_id"`
	EmployeeNumber string    `json:"employee_number"`
	FullName       string    `json:"full_name"`
	Email          string    `json:"email,omitempty"`
	OccurredAt     time.Time `json:"occurred_at"`
}
