package leave

import "time"

type SubmitLeaveRequest struct {
	LeaveType string `json:"leave_type" binding:"required"`
	StartDate string `json:"start_date" binding:"required"`
	EndDate   string `json:"end_date" binding:"required"`
	Reason    string `json:"reason"`
}

type DecideLeaveRequest struct {
	Action string `json:"action" binding:"required,oneof=APPROVE REJECT"`
}

type ListLeavesQuery struct {
	Page       int    `form:"page"`
	Limit      int    `form:"limit"`
	Status     string `form:"status"`
	LeaveType  string `form:"leave_type"`
	EmployeeID string `form:"employee_id"`
}

func (q *ListLeavesQuery) Normalize() {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 || q.Limit > 100 {
		q.Limit = 20
	}
}

type LeaveEmployeeResponse struct {
	ID             string `json:"id"`
	EmployeeNumber string `json:"employee_number"`
	FullName       string `json:"full_name"`
	Role           string `json:"role"`
}

type LeaveResponse struct {
	ID          string                 `json:"id"`
	EmployeeID  string                 `json:"employee_id"`
	Employee    *LeaveEmployeeResponse `json:"employee,omitempty"`
	LeaveType   string                 `json:"leave_type"`
	StartDate   string                 `json:"start_date"`
	EndDate     string                 `json:"end_date"`
	TotalDays   int                    `json:"total_days"`
	Reason      string                 `json:"reason"`
	DocumentKey *string                `json:"document_key,omitempty"`
	Status      string                 `json:"status"`
	DecidedBy   *string                `json:"decided_by"`
	DecidedAt   *time.Time             `json:"decided_at"`
	CreatedAt   time.Time              `json:"created_at"`
}

func toResponse(l *Leave) LeaveResponse {
	resp := LeaveResponse{
		ID:          l.ID.String(),
		EmployeeID:  l.EmployeeID.String(),
		LeaveType:   l.LeaveType,
		StartDate:   l.StartDate.Format("2006-01-02"),
		EndDate:     l.EndDate.Format("2006-01-02"),
		TotalDays:   l.TotalDays,
		Reason:      l.Reason,
		DocumentKey: l.DocumentKey,
		Status:      l.Status,
		DecidedAt:   l.DecidedAt,
		CreatedAt:   l.CreatedAt,
	}

	if l.DecidedBy != nil {
		decidedBy := l.DecidedBy.String()
		resp.DecidedBy = &decidedBy
	}
	if l.Employee != nil {
		resp.Employee = &LeaveEmployeeResponse{
			ID:             l.Employee.ID.String(),
			EmployeeNumber: l.Employee.EmployeeNumber,
			FullName:       l.Employee.FullName(),
			Role:           l.Employee.Role,
		}
	}

	return resp
}
