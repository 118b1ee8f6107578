package domain

// Leave categories. Each maps to its own balance column on the employee row.
const (
	LeaveTypePersonal = "PERSONAL"
	LeaveTypeSick     = "SICK"
	LeaveTypeAnnual   = "ANNUAL"
)

func ValidLeaveType(leaveType string) bool {
	switch leaveType {
	case LeaveTypePersonal, LeaveTypeSick, LeaveTypeAnnual:
		return true
	}
	return false
}
