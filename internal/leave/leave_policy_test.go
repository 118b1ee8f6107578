package leave

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"go-hrms/internal/domain"
)

func TestCanDecide(t *testing.T) {
	adminID := uuid.New()
	headID := uuid.New()
	employeeID := uuid.New()

	tests := []struct {
		name  string
		actor Actor
		owner RequestOwner
		want  bool
	}{
		{
			name:  "admin decides employee request",
			actor: Actor{ID: adminID, Role: domain.RoleAdmin},
			owner: RequestOwner{ID: employeeID, Role: domain.RoleEmployee},
			want:  true,
		},
		{
			name:  "admin decides head request",
			actor: Actor{ID: adminID, Role: domain.RoleAdmin},
			owner: RequestOwner{ID: headID, Role: domain.RoleDepartmentHead},
			want:  true,
		},
		{
			name:  "admin cannot decide own request",
			actor: Actor{ID: adminID, Role: domain.RoleAdmin},
			owner: RequestOwner{ID: adminID, Role: domain.RoleAdmin},
			want:  false,
		},
		{
			name:  "head decides employee request",
			actor: Actor{ID: headID, Role: domain.RoleDepartmentHead},
			owner: RequestOwner{ID: employeeID, Role: domain.RoleEmployee},
			want:  true,
		},
		{
			name:  "head cannot decide another head's request",
			actor: Actor{ID: headID, Role: domain.RoleDepartmentHead},
			owner: RequestOwner{ID: uuid.New(), Role: domain.RoleDepartmentHead},
			want:  false,
		},
		{
			name:  "head cannot decide own request",
			actor: Actor{ID: headID, Role: domain.RoleDepartmentHead},
			owner: RequestOwner{ID: headID, Role: domain.RoleDepartmentHead},
			want:  false,
		},
		{
			name:  "employee cannot decide anything",
			actor: Actor{ID: employeeID, Role: domain.RoleEmployee},
			owner: RequestOwner{ID: uuid.New(), Role: domain.RoleEmployee},
			want:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanDecide(tt.actor, tt.owner))
		})
	}
}

func TestCanDelete(t *testing.T) {
	adminID := uuid.New()
	headID := uuid.New()
	employeeID := uuid.New()

	tests := []struct {
		name   string
		actor  Actor
		owner  RequestOwner
		status string
		want   bool
	}{
		{
			name:   "admin deletes any request",
			actor:  Actor{ID: adminID, Role: domain.RoleAdmin},
			owner:  RequestOwner{ID: headID, Role: domain.RoleDepartmentHead},
			status: StatusApproved,
			want:   true,
		},
		{
			name:   "head deletes employee request",
			actor:  Actor{ID: headID, Role: domain.RoleDepartmentHead},
			owner:  RequestOwner{ID: employeeID, Role: domain.RoleEmployee},
			status: StatusApproved,
			want:   true,
		},
		{
			name:   "head cannot delete another head's request",
			actor:  Actor{ID: headID, Role: domain.RoleDepartmentHead},
			owner:  RequestOwner{ID: uuid.New(), Role: domain.RoleDepartmentHead},
			status: StatusPending,
			want:   false,
		},
		{
			name:   "owner withdraws own pending request",
			actor:  Actor{ID: employeeID, Role: domain.RoleEmployee},
			owner:  RequestOwner{ID: employeeID, Role: domain.RoleEmployee},
			status: StatusPending,
			want:   true,
		},
		{
			name:   "owner cannot delete own approved request",
			actor:  Actor{ID: employeeID, Role: domain.RoleEmployee},
			owner:  RequestOwner{ID: employeeID, Role: domain.RoleEmployee},
			status: StatusApproved,
			want:   false,
		},
		{
			name:   "employee cannot delete someone else's request",
			actor:  Actor{ID: employeeID, Role: domain.RoleEmployee},
			owner:  RequestOwner{ID: uuid.New(), Role: domain.RoleEmployee},
			status: StatusPending,
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanDelete(tt.actor, tt.owner, tt.status))
		})
	}
}

func TestTotalDaysBetween(t *testing.T) {
	start := mustDate(t, "2026-03-02")

	assert.Equal(t, 1, TotalDaysBetween(start, start))
	assert.Equal(t, 2, TotalDaysBetween(start, mustDate(t, "2026-03-03")))
	assert.Equal(t, 5, TotalDaysBetween(start, mustDate(t, "2026-03-06")))
}
