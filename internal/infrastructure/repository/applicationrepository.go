package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/hopperkey/phatdev/internal/domain/application"
	"github.com/hopperkey/phatdev/internal/infrastructure/persistence/mappers"
	"github.com/hopperkey/phatdev/internal/infrastructure/persistence/models"
	"github.com/hopperkey/phatdev/internal/shared/db"
	apperrors "github.com/hopperkey/phatdev/internal/shared/errors"
	"github.com/hopperkey/phatdev/internal/shared/logger"
)

type ApplicationRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.ApplicationMapper
	logger logger.Interface
}

func NewApplicationRepository(gdb *gorm.DB, logger logger.Interface) application.Repository {
	return &ApplicationRepositoryImpl{
		db:     gdb,
		mapper: mappers.NewApplicationMapper(),
		logger: logger,
	}
}

func (r *ApplicationRepositoryImpl) Create(ctx context.Context, app *application.Application) error {
	model := r.mapper.ToModel(app)
	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		if apperrors.IsDuplicateError(err) {
			return application.ErrDuplicateName
		}
		r.logger.Errorw("failed to create application", "error", err, "name", app.Name())
		return fmt.Errorf("failed to create application: %w", err)
	}
	return nil
}

func (r *ApplicationRepositoryImpl) GetByName(ctx context.Context, name string) (*application.Application, error) {
	return r.getBy(ctx, "name", name)
}

func (r *ApplicationRepositoryImpl) GetByAPIKey(ctx context.Context, apiKey string) (*application.Application, error) {
	return r.getBy(ctx, "api_key", apiKey)
}

func (r *ApplicationRepositoryImpl) getBy(ctx context.Context, column, value string) (*application.Application, error) {
	var model models.ApplicationModel
	err := db.GetTxFromContext(ctx, r.db).Where(map[string]interface{}{column: value}).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Errorw("failed to get application", "error", err, column, value)
		return nil, fmt.Errorf("failed to get application: %w", err)
	}
	return r.mapper.ToEntity(&model)
}

func (r *ApplicationRepositoryImpl) List(ctx context.Context) ([]*application.Application, error) {
	var list []*models.ApplicationModel
	if err := db.GetTxFromContext(ctx, r.db).Order("id ASC").Find(&list).Error; err != nil {
		r.logger.Errorw("failed to list applications", "error", err)
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	return r.mapper.ToEntities(list)
}

func (r *ApplicationRepositoryImpl) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := db.GetTxFromContext(ctx, r.db).Model(&models.ApplicationModel{}).Count(&count).Error; err != nil {
		r.logger.Errorw("failed to count applications", "error", err)
		return 0, fmt.Errorf("failed to count applications: %w", err)
	}
	return count, nil
}

func (r *ApplicationRepositoryImpl) DeleteCascade(ctx context.Context, name string, keyRefs []string) (int64, error) {
	var removed int64
	err := db.GetTxFromContext(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		if len(keyRefs) > 0 {
			res := tx.Where("api IN ?", keyRefs).Delete(&models.LicenseKeyModel{})
			if res.Error != nil {
				return fmt.Errorf("failed to delete application keys: %w", res.Error)
			}
			removed = res.RowsAffected
		}
		if name != "" {
			if err := tx.Where(map[string]interface{}{"name": name}).Delete(&models.ApplicationModel{}).Error; err != nil {
				return fmt.Errorf("failed to delete application: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		r.logger.Errorw("application cascade delete failed", "error", err, "name", name)
		return 0, err
	}
	return removed, nil
}
