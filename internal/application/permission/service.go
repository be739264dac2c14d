package permission

import (
	"context"
	"strings"

	"github.com/hopperkey/phatdev/internal/domain/permission"
	vo "github.com/hopperkey/phatdev/internal/domain/permission/value_objects"
	"github.com/hopperkey/phatdev/internal/shared/biztime"
	apperrors "github.com/hopperkey/phatdev/internal/shared/errors"
	"github.com/hopperkey/phatdev/internal/shared/logger"
)

// SupportDTO is one entry of the support roster.
type SupportDTO struct {
	UserID  string `json:"user_id"`
	Role    string `json:"role"`
	AddedBy string `json:"added_by"`
	AddedAt string `json:"added_at"`
}

// Service answers role questions and manages the support roster. Roles are
// ordered: admin implies support.
type Service struct {
	repo     permission.Repository
	enforcer permission.PermissionEnforcer
	clock    biztime.Clock
	logger   logger.Interface
}

func NewService(
	repo permission.Repository,
	enforcer permission.PermissionEnforcer,
	clock biztime.Clock,
	logger logger.Interface,
) *Service {
	return &Service{
		repo:     repo,
		enforcer: enforcer,
		clock:    clock,
		logger:   logger,
	}
}

// RoleOf returns RoleNone for unknown users.
func (s *Service) RoleOf(ctx context.Context, userID string) (permission.Role, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return permission.RoleNone, nil
	}
	a, err := s.repo.Get(ctx, userID)
	if err != nil {
		s.logger.Errorw("failed to load role", "user_id", userID, "error", err)
		return permission.RoleNone, apperrors.WrapInternal("failed to load role", err)
	}
	if a == nil {
		return permission.RoleNone, nil
	}
	return a.Role(), nil
}

func (s *Service) HasRole(ctx context.Context, userID string) (permission.RoleSet, error) {
	role, err := s.RoleOf(ctx, userID)
	if err != nil {
		return permission.RoleSet{}, err
	}
	return permission.RoleSetOf(role), nil
}

// GrantSupport is idempotent and never demotes an admin.
func (s *Service) GrantSupport(ctx context.Context, userID, grantedBy string) error {
	return s.grant(ctx, userID, grantedBy, permission.RoleSupport)
}

// GrantAdmin is used for bootstrap admins.
func (s *Service) GrantAdmin(ctx context.Context, userID, grantedBy string) error {
	return s.grant(ctx, userID, grantedBy, permission.RoleAdmin)
}

func (s *Service) grant(ctx context.Context, userID, grantedBy string, role permission.Role) error {
	current, err := s.RoleOf(ctx, userID)
	if err != nil {
		return err
	}
	if current.Implies(role) {
		return nil
	}

	a, err := permission.NewAssignment(userID, role, grantedBy, s.clock())
	if err != nil {
		return apperrors.NewValidationError("User ID is required!")
	}
	if err := s.repo.Save(ctx, a); err != nil {
		s.logger.Errorw("failed to save role", "user_id", userID, "role", role.String(), "error", err)
		return apperrors.WrapInternal("failed to save role", err)
	}

	s.logger.Infow("role granted", "user_id", a.UserID(), "role", role.String(), "granted_by", grantedBy)
	return nil
}

// RevokeSupport demotes a support user to none. Admins and unknown users
// are left alone.
func (s *Service) RevokeSupport(ctx context.Context, userID string) error {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return apperrors.NewValidationError("User ID is required!")
	}
	current, err := s.RoleOf(ctx, userID)
	if err != nil {
		return err
	}
	if current != permission.RoleSupport {
		return nil
	}

	if err := s.repo.Delete(ctx, userID); err != nil {
		s.logger.Errorw("failed to revoke support", "user_id", userID, "error", err)
		return apperrors.WrapInternal("failed to revoke support", err)
	}
	s.logger.Infow("support revoked", "user_id", userID)
	return nil
}

// ListSupports returns everyone holding support or above.
func (s *Service) ListSupports(ctx context.Context) ([]*SupportDTO, error) {
	assignments, err := s.repo.ListAtLeast(ctx, permission.RoleSupport)
	if err != nil {
		s.logger.Errorw("failed to list supports", "error", err)
		return nil, apperrors.WrapInternal("failed to list supports", err)
	}

	out := make([]*SupportDTO, 0, len(assignments))
	for _, a := range assignments {
		addedAt := ""
		if !a.GrantedAt().IsZero() {
			addedAt = biztime.FormatISO(a.GrantedAt())
		}
		out = append(out, &SupportDTO{
			UserID:  a.UserID(),
			Role:    a.Role().String(),
			AddedBy: a.GrantedBy(),
			AddedAt: addedAt,
		})
	}
	return out, nil
}

// BootstrapAdmins makes sure every configured admin holds the admin role.
func (s *Service) BootstrapAdmins(ctx context.Context, userIDs []string) error {
	for _, userID := range userIDs {
		if strings.TrimSpace(userID) == "" {
			continue
		}
		if err := s.GrantAdmin(ctx, userID, "bootstrap"); err != nil {
			return err
		}
	}
	return nil
}

// Authorize checks userID's role against the policy for resource/action.
func (s *Service) Authorize(ctx context.Context, userID string, resource vo.Resource, action vo.Action) (bool, error) {
	role, err := s.RoleOf(ctx, userID)
	if err != nil {
		return false, err
	}
	allowed, err := s.enforcer.Enforce(role, resource, action)
	if err != nil {
		return false, apperrors.WrapInternal("permission check failed", err)
	}
	if !allowed {
		s.logger.Warnw("permission denied", "user_id", userID, "role", role.String(), "resource", resource, "action", action)
	}
	return allowed, nil
}
