package leave

import (
	"github.com/google/uuid"

	"go-hrms/internal/domain"
)

// Actor is whoever is trying to act on a leave request.
type Actor struct {
	ID   uuid.UUID
	Role string
}

// RequestOwner identifies whose request is being acted on.
type RequestOwner struct {
	ID   uuid.UUID
	Role string
}

// CanDecide reports whether the actor may approve or reject the request.
// Nobody decides their own request. Department heads additionally cannot
// decide requests raised by other department heads; those go to an admin.
func CanDecide(actor Actor, owner RequestOwner) bool {
	if actor.ID == owner.ID {
		return false
	}

	switch actor.Role {
	case domain.RoleAdmin:
		return true
	case domain.RoleDepartmentHead:
		return owner.Role != domain.RoleDepartmentHead
	}
	return false
}

// CanDelete reports whether the actor may remove the request. Admins may
// delete any request. Department heads may delete requests that are
// neither their own nor another head's. The owner may withdraw a request
// that is still pending.
func CanDelete(actor Actor, owner RequestOwner, status string) bool {
	if actor.ID == owner.ID {
		return status == StatusPending
	}

	switch actor.Role {
	case domain.RoleAdmin:
		return true
	case domain.RoleDepartmentHead:
		return owner.Role != domain.RoleDepartmentHead
	}
	return false
}
