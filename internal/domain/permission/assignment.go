package permission

import (
	"errors"
	"strings"
	"time"
)

var ErrInvalidUserID = errors.New("user id cannot be empty")

// Assignment binds a user to a role.
type Assignment struct {
	userID    string
	role      Role
	grantedBy string
	grantedAt time.Time
}

func NewAssignment(userID string, role Role, grantedBy string, now time.Time) (*Assignment, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, ErrInvalidUserID
	}
	return &Assignment{
		userID:    userID,
		role:      role,
		grantedBy: grantedBy,
		grantedAt: now,
	}, nil
}

func ReconstructAssignment(userID string, role Role, grantedBy string, grantedAt time.Time) *Assignment {
	return &Assignment{
		userID:    userID,
		role:      role,
		grantedBy: grantedBy,
		grantedAt: grantedAt,
	}
}

func (a *Assignment) UserID() string       { return a.userID }
func (a *Assignment) Role() Role           { return a.role }
func (a *Assignment) GrantedBy() string    { return a.grantedBy }
func (a *Assignment) GrantedAt() time.Time { return a.grantedAt }
