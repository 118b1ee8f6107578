package leave

import (
	"math"
	"time"

	"github.com/google/uuid"

	"go-hrms/internal/employee"
)

const (
	StatusPending  = "PENDING"
	StatusApproved = "APPROVED"
	StatusRejected = "REJECTED"
)

type Leave struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`

	EmployeeID uuid.UUID `gorm:"type:uuid;not null;index"`
	LeaveType  string    `gorm:"type:varchar(20);not null"`

	StartDate time.Time `gorm:"type:date;not null"`
	EndDate   time.Time `gorm:"type:date;not null"`
	TotalDays int       `gorm:"not null"`
	Reason    string    `gorm:"type:text"`

	// DocumentKey points at a supporting document in storage, e.g. a
	// medical certificate for sick leave.
	DocumentKey *string `gorm:"type:text"`

	Status    string     `gorm:"type:varchar(20);not null;default:'PENDING';index"`
	DecidedBy *uuid.UUID `gorm:"type:uuid"`
	DecidedAt *time.Time

	Employee *employee.Employee `gorm:"foreignKey:EmployeeID"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Leave) TableName() string {
	return "leaves"
}

// TotalDaysBetween counts the days a request spans, inclusive of both
// endpoints. A single-day request counts as one day.
func TotalDaysBetween(start, end time.Time) int {
	diff := end.Sub(start).Hours() / 24
	return int(math.Ceil(diff)) + 1
}
