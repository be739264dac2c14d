package permission

import vo "github.com/hopperkey/phatdev/internal/domain/permission/value_objects"

// PermissionEnforcer decides whether a role may perform action on resource.
type PermissionEnforcer interface {
	Enforce(role Role, resource vo.Resource, action vo.Action) (bool, error)
}
