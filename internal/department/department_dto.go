package department

import "time"

type CreateDepartmentRequest struct {
	Name      string  `json:"name" binding:"required"`
	ManagerID *string `json:"manager_id" binding:"omitempty,uuid"`
}

type UpdateDepartmentRequest struct {
	Name      *string `json:"name"`
	ManagerID *string `json:"manager_id" binding:"omitempty,uuid"`
}

type DepartmentResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	ManagerID *string   `json:"manager_id"`
	CreatedAt time.Time `json:"created_at"`
}

func toResponse(d *Department) DepartmentResponse {
	resp := DepartmentResponse{
		ID:        d.ID.String(),
		Name:      d.Name,
		CreatedAt: d.CreatedAt,
	}
	if d.ManagerID != nil {
		managerID := d.ManagerID.String()
		resp.ManagerID = &managerID
	}
	return resp
}
