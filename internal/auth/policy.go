package auth

import (
	"fmt"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"

	domain "github.com/Shivanand-hulikatti/hotel-booking/internal/model"
)

// Resources and actions checked by the HTTP layer.
const (
	ResourceRoom    = "room"
	ResourceBooking = "booking"
	ResourceUser    = "user"
	ResourceRole    = "role"

	ActionRead   = "read"
	ActionWrite  = "write"
	ActionList   = "list"
	ActionDelete = "delete"
	ActionManage = "manage"
)

const rbacModel = `
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

var defaultPolicies = [][]string{
	{domain.RoleUser, ResourceUser, ActionRead},
	{domain.RoleAdmin, ResourceRoom, ActionWrite},
	{domain.RoleAdmin, ResourceBooking, ActionList},
	{domain.RoleAdmin, ResourceUser, ActionList},
	{domain.RoleAdmin, ResourceUser, ActionDelete},
	{domain.RoleAdmin, ResourceRole, ActionManage},
}

// Policy answers whether a set of roles may perform an action on a resource.
type Policy struct {
	enforcer *casbin.Enforcer
}

// NewPolicy builds the in-memory policy. ROLE_ADMIN inherits ROLE_USER.
func NewPolicy() (*Policy, error) {
	m, err := model.NewModelFromString(rbacModel)
	if err != nil {
		return nil, fmt.Errorf("parse rbac model: %w", err)
	}
	e, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("create enforcer: %w", err)
	}

	for _, p := range defaultPolicies {
		if _, err := e.AddPolicy(p[0], p[1], p[2]); err != nil {
			return nil, fmt.Errorf("add policy %v: %w", p, err)
		}
	}
	if _, err := e.AddGroupingPolicy(domain.RoleAdmin, domain.RoleUser); err != nil {
		return nil, fmt.Errorf("add role inheritance: %w", err)
	}
	return &Policy{enforcer: e}, nil
}

// Allowed reports whether any of roles grants act on obj.
func (p *Policy) Allowed(roles []string, obj, act string) (bool, error) {
	for _, role := range roles {
		ok, err := p.enforcer.Enforce(role, obj, act)
		if err != nil {
			return false, fmt.Errorf("enforce %s %s %s: %w", role, obj, act, err)
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}
