package filestore

import (
	"context"
	"slices"
	"sort"
	"time"

	"github.com/hopperkey/phatdev/internal/domain/permission"
	"github.com/hopperkey/phatdev/internal/shared/biztime"
)

// PermissionStore maps the admins/supports arrays onto ordered roles. A user
// listed in both arrays is an admin.
type PermissionStore struct {
	store *Store
}

func NewPermissionStore(s *Store) permission.Repository {
	return &PermissionStore{store: s}
}

func roleIn(doc *Document, userID string) permission.Role {
	switch {
	case slices.Contains(doc.Admins, userID):
		return permission.RoleAdmin
	case slices.Contains(doc.Supports, userID):
		return permission.RoleSupport
	default:
		return permission.RoleNone
	}
}

func assignmentIn(doc *Document, userID string) *permission.Assignment {
	role := roleIn(doc, userID)
	if role == permission.RoleNone {
		return nil
	}
	grant := doc.Grants[userID]
	var grantedAt time.Time
	if grant.GrantedAt != "" {
		grantedAt, _ = biztime.ParseISO(grant.GrantedAt)
	}
	return permission.ReconstructAssignment(userID, role, grant.GrantedBy, grantedAt)
}

func (r *PermissionStore) Get(ctx context.Context, userID string) (*permission.Assignment, error) {
	var out *permission.Assignment
	err := r.store.read(ctx, func(doc *Document) error {
		out = assignmentIn(doc, userID)
		return nil
	})
	return out, err
}

func (r *PermissionStore) Save(ctx context.Context, a *permission.Assignment) error {
	return r.store.mutate(ctx, func(doc *Document) error {
		id := a.UserID()
		doc.Admins = slices.DeleteFunc(doc.Admins, func(s string) bool { return s == id })
		doc.Supports = slices.DeleteFunc(doc.Supports, func(s string) bool { return s == id })
		switch a.Role() {
		case permission.RoleAdmin:
			doc.Admins = append(doc.Admins, id)
		case permission.RoleSupport:
			doc.Supports = append(doc.Supports, id)
		}
		if doc.Grants == nil {
			doc.Grants = map[string]GrantRecord{}
		}
		doc.Grants[id] = GrantRecord{
			GrantedBy: a.GrantedBy(),
			GrantedAt: biztime.FormatISO(a.GrantedAt()),
		}
		return nil
	})
}

func (r *PermissionStore) Delete(ctx context.Context, userID string) error {
	return r.store.mutate(ctx, func(doc *Document) error {
		if roleIn(doc, userID) == permission.RoleNone {
			return errNoChange
		}
		doc.Admins = slices.DeleteFunc(doc.Admins, func(s string) bool { return s == userID })
		doc.Supports = slices.DeleteFunc(doc.Supports, func(s string) bool { return s == userID })
		delete(doc.Grants, userID)
		return nil
	})
}

func (r *PermissionStore) ListAtLeast(ctx context.Context, min permission.Role) ([]*permission.Assignment, error) {
	var out []*permission.Assignment
	err := r.store.read(ctx, func(doc *Document) error {
		seen := map[string]struct{}{}
		for _, id := range slices.Concat(doc.Admins, doc.Supports) {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			if a := assignmentIn(doc, id); a != nil && a.Role().Implies(min) {
				out = append(out, a)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].UserID() < out[j].UserID() })
	return out, err
}
