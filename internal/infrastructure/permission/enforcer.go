package permission

import (
	"fmt"
	"sync"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"

	"github.com/hopperkey/phatdev/internal/domain/permission"
	vo "github.com/hopperkey/phatdev/internal/domain/permission/value_objects"
	"github.com/hopperkey/phatdev/internal/shared/logger"
)

var _ permission.PermissionEnforcer = (*Enforcer)(nil)

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

// subjectGuest is the casbin subject for users without a role.
const subjectGuest = "guest"

// Enforcer evaluates role policies in memory. Admin inherits support, which
// inherits guest.
type Enforcer struct {
	enforcer *casbin.Enforcer
	mu       sync.RWMutex
	logger   logger.Interface
}

func NewEnforcer(log logger.Interface) (*Enforcer, error) {
	m, err := model.NewModelFromString(rbacModel)
	if err != nil {
		return nil, fmt.Errorf("failed to parse casbin model: %w", err)
	}

	enforcer, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("failed to create casbin enforcer: %w", err)
	}

	if _, err := enforcer.AddGroupingPolicies([][]string{
		{permission.RoleAdmin.String(), permission.RoleSupport.String()},
		{permission.RoleSupport.String(), subjectGuest},
	}); err != nil {
		return nil, fmt.Errorf("failed to add role hierarchy: %w", err)
	}
	if _, err := enforcer.AddPolicies(defaultPolicies()); err != nil {
		return nil, fmt.Errorf("failed to add policies: %w", err)
	}

	log.Infow("permission enforcer initialized", "policies", len(defaultPolicies()))

	return &Enforcer{
		enforcer: enforcer,
		logger:   log,
	}, nil
}

func defaultPolicies() [][]string {
	support := permission.RoleSupport.String()
	admin := permission.RoleAdmin.String()

	return [][]string{
		{subjectGuest, vo.ResourceSystem.String(), vo.ActionRead.String()},
		{subjectGuest, vo.ResourceLicense.String(), vo.ActionValidate.String()},

		{support, vo.ResourceLicense.String(), vo.ActionRead.String()},
		{support, vo.ResourceLicense.String(), vo.ActionWrite.String()},
		{support, vo.ResourceApplication.String(), vo.ActionRead.String()},
		{support, vo.ResourceAnalytics.String(), vo.ActionRead.String()},

		{admin, vo.ResourceLicense.String(), vo.ActionDelete.String()},
		{admin, vo.ResourceApplication.String(), vo.ActionWrite.String()},
		{admin, vo.ResourceApplication.String(), vo.ActionDelete.String()},
		{admin, vo.ResourceSupport.String(), vo.ActionRead.String()},
		{admin, vo.ResourceSupport.String(), vo.ActionWrite.String()},
		{admin, vo.ResourceSupport.String(), vo.ActionDelete.String()},
	}
}

func subjectOf(role permission.Role) string {
	if role == permission.RoleNone {
		return subjectGuest
	}
	return role.String()
}

func (e *Enforcer) Enforce(role permission.Role, resource vo.Resource, action vo.Action) (bool, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	allowed, err := e.enforcer.Enforce(subjectOf(role), resource.String(), action.String())
	if err != nil {
		e.logger.Errorw("permission check failed", "error", err, "role", role.String(), "resource", resource, "action", action)
		return false, fmt.Errorf("permission check failed: %w", err)
	}

	return allowed, nil
}

// AddPolicy extends the in-memory policy, e.g. from tests or startup hooks.
func (e *Enforcer) AddPolicy(role permission.Role, resource vo.Resource, action vo.Action) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, err := e.enforcer.AddPolicy(subjectOf(role), resource.String(), action.String()); err != nil {
		e.logger.Errorw("failed to add policy", "error", err)
		return fmt.Errorf("failed to add policy: %w", err)
	}
	return nil
}
