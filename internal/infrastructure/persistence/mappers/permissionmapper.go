package mappers

import (
	"fmt"

	"github.com/hopperkey/phatdev/internal/domain/permission"
	"github.com/hopperkey/phatdev/internal/infrastructure/persistence/models"
)

func AssignmentToModel(a *permission.Assignment) *models.PermissionModel {
	return &models.PermissionModel{
		UserID:    a.UserID(),
		Role:      a.Role().String(),
		GrantedBy: a.GrantedBy(),
		GrantedAt: a.GrantedAt(),
	}
}

func AssignmentToEntity(model *models.PermissionModel) (*permission.Assignment, error) {
	if model == nil {
		return nil, nil
	}
	role, err := permission.ParseRole(model.Role)
	if err != nil {
		return nil, fmt.Errorf("permission row for %s: %w", model.UserID, err)
	}
	return permission.ReconstructAssignment(model.UserID, role, model.GrantedBy, model.GrantedAt.UTC()), nil
}
