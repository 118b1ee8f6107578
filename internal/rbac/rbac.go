package rbac

import (
	"fmt"

	"github.com/casbin/casbin/v2"
	casbinmodel "github.com/casbin/casbin/v2/model"

	"go-hrms/internal/domain"
)

const modelText = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && r.obj == p.obj && r.act == p.act
`

// NewEnforcer builds the in-memory role enforcer. Roles form a chain:
// admins can do everything department heads can, heads everything plain
// employees can.
func NewEnforcer() (*casbin.Enforcer, error) {
	m, err := casbinmodel.NewModelFromString(modelText)
	if err != nil {
		return nil, fmt.Errorf("parse rbac model: %w", err)
	}

	enforcer, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("build rbac enforcer: %w", err)
	}

	groupings := [][]string{
		{domain.RoleAdmin, domain.RoleDepartmentHead},
		{domain.RoleDepartmentHead, domain.RoleEmployee},
	}
	for _, g := range groupings {
		if _, err := enforcer.AddGroupingPolicy(g[0], g[1]); err != nil {
			return nil, fmt.Errorf("add rbac grouping: %w", err)
		}
	}

	policies := [][]string{
		{domain.RoleEmployee, "leaves", "submit"},
		{domain.RoleEmployee, "leaves", "read"},
		{domain.RoleEmployee, "employees", "read"},
		{domain.RoleEmployee, "salaries", "read"},

		{domain.RoleDepartmentHead, "leaves", "decide"},
		{domain.RoleDepartmentHead, "leaves", "list"},

		{domain.RoleAdmin, "employees", "write"},
		{domain.RoleAdmin, "departments", "write"},
		{domain.RoleAdmin, "salaries", "write"},
	}
	for _, p := range policies {
		if _, err := enforcer.AddPolicy(p[0], p[1], p[2]); err != nil {
			return nil, fmt.Errorf("add rbac policy: %w", err)
		}
	}

	return enforcer, nil
}

// Can is the pure capability check used by the HTTP layer.
func Can(enforcer *casbin.Enforcer, req domain.EnforceRequest) (bool, error) {
	return enforcer.Enforce(req.Role, req.Resource, req.Action)
}
