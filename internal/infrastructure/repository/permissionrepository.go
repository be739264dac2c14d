package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/hopperkey/phatdev/internal/domain/permission"
	"github.com/hopperkey/phatdev/internal/infrastructure/persistence/mappers"
	"github.com/hopperkey/phatdev/internal/infrastructure/persistence/models"
	"github.com/hopperkey/phatdev/internal/shared/db"
	"github.com/hopperkey/phatdev/internal/shared/logger"
)

type PermissionRepositoryImpl struct {
	db     *gorm.DB
	logger logger.Interface
}

func NewPermissionRepository(gdb *gorm.DB, logger logger.Interface) permission.Repository {
	return &PermissionRepositoryImpl{db: gdb, logger: logger}
}

func (r *PermissionRepositoryImpl) Get(ctx context.Context, userID string) (*permission.Assignment, error) {
	var model models.PermissionModel
	err := db.GetTxFromContext(ctx, r.db).Where("user_id = ?", userID).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Errorw("failed to get permission", "error", err, "user_id", userID)
		return nil, fmt.Errorf("failed to get permission: %w", err)
	}
	return mappers.AssignmentToEntity(&model)
}

// Save upserts on user_id.
func (r *PermissionRepositoryImpl) Save(ctx context.Context, a *permission.Assignment) error {
	model := mappers.AssignmentToModel(a)
	err := db.GetTxFromContext(ctx, r.db).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"role", "granted_by", "granted_at"}),
	}).Create(model).Error
	if err != nil {
		r.logger.Errorw("failed to save permission", "error", err, "user_id", a.UserID())
		return fmt.Errorf("failed to save permission: %w", err)
	}
	return nil
}

func (r *PermissionRepositoryImpl) Delete(ctx context.Context, userID string) error {
	if err := db.GetTxFromContext(ctx, r.db).Where("user_id = ?", userID).Delete(&models.PermissionModel{}).Error; err != nil {
		r.logger.Errorw("failed to delete permission", "error", err, "user_id", userID)
		return fmt.Errorf("failed to delete permission: %w", err)
	}
	return nil
}

func (r *PermissionRepositoryImpl) ListAtLeast(ctx context.Context, min permission.Role) ([]*permission.Assignment, error) {
	roles := make([]string, 0, 2)
	for _, role := range []permission.Role{permission.RoleSupport, permission.RoleAdmin} {
		if role.Implies(min) {
			roles = append(roles, role.String())
		}
	}

	var list []*models.PermissionModel
	if err := db.GetTxFromContext(ctx, r.db).Where("role IN ?", roles).Order("user_id ASC").Find(&list).Error; err != nil {
		r.logger.Errorw("failed to list permissions", "error", err)
		return nil, fmt.Errorf("failed to list permissions: %w", err)
	}

	out := make([]*permission.Assignment, 0, len(list))
	for _, m := range list {
		a, err := mappers.AssignmentToEntity(m)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}
