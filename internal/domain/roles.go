package domain

// Platform roles. Role strings appear in JWT claims, casbin policies and
// permission checks, so they are defined once here.
const (
	RoleAdmin          = "ADMIN"
	RoleDepartmentHead = "DEPARTMENT_HEAD"
	RoleEmployee       = "EMPLOYEE"
)

func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleDepartmentHead, RoleEmployee:
		return true
	}
	return false
}

// EnforceRequest carries the subject/object pair for a route-level
// authorization check.
type EnforceRequest struct {
	Role     string
	Resource string
	Action   string
}
