package permission

import (
	"fmt"
	"strings"
)

// Role is an ordered privilege level. A higher role implies every lower one.
type Role int

const (
	RoleNone Role = iota
	RoleSupport
	RoleAdmin
)

func (r Role) String() string {
	switch r {
	case RoleSupport:
		return "support"
	case RoleAdmin:
		return "admin"
	default:
		return "none"
	}
}

// ParseRole accepts the stored role names; empty maps to RoleNone.
func ParseRole(s string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return RoleNone, nil
	case "support":
		return RoleSupport, nil
	case "admin":
		return RoleAdmin, nil
	default:
		return RoleNone, fmt.Errorf("unknown role %q", s)
	}
}

// Implies reports whether r grants at least other.
func (r Role) Implies(other Role) bool {
	return r >= other
}

// RoleSet is the answer to "what can this user do".
type RoleSet struct {
	IsAdmin   bool
	IsSupport bool
}

func RoleSetOf(r Role) RoleSet {
	return RoleSet{
		IsAdmin:   r.Implies(RoleAdmin),
		IsSupport: r.Implies(RoleSupport),
	}
}
