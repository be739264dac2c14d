package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/hopperkey/phatdev/internal/domain/license"
	"github.com/hopperkey/phatdev/internal/infrastructure/persistence/mappers"
	"github.com/hopperkey/phatdev/internal/infrastructure/persistence/models"
	"github.com/hopperkey/phatdev/internal/shared/db"
	apperrors "github.com/hopperkey/phatdev/internal/shared/errors"
	"github.com/hopperkey/phatdev/internal/shared/logger"
)

type LicenseKeyRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.LicenseKeyMapper
	logger logger.Interface
}

func NewLicenseKeyRepository(gdb *gorm.DB, logger logger.Interface) license.Repository {
	return &LicenseKeyRepositoryImpl{
		db:     gdb,
		mapper: mappers.NewLicenseKeyMapper(),
		logger: logger,
	}
}

func (r *LicenseKeyRepositoryImpl) Create(ctx context.Context, key *license.LicenseKey) error {
	model, err := r.mapper.ToModel(key)
	if err != nil {
		return fmt.Errorf("failed to map license key: %w", err)
	}
	model.Version = 1

	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		if apperrors.IsDuplicateError(err) {
			return license.ErrDuplicateKey
		}
		r.logger.Errorw("failed to create license key", "error", err, "key", key.Key())
		return fmt.Errorf("failed to create license key: %w", err)
	}

	key.SetVersion(model.Version)
	return nil
}

func (r *LicenseKeyRepositoryImpl) GetByKey(ctx context.Context, key string) (*license.LicenseKey, error) {
	var model models.LicenseKeyModel
	err := db.GetTxFromContext(ctx, r.db).
		Where(map[string]interface{}{"license_key": key}).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Errorw("failed to get license key", "error", err, "key", key)
		return nil, fmt.Errorf("failed to get license key: %w", err)
	}
	return r.mapper.ToEntity(&model)
}

// Update writes every mutable column guarded by the version the entity was
// loaded with.
func (r *LicenseKeyRepositoryImpl) Update(ctx context.Context, key *license.LicenseKey) error {
	model, err := r.mapper.ToModel(key)
	if err != nil {
		return fmt.Errorf("failed to map license key: %w", err)
	}

	result := db.GetTxFromContext(ctx, r.db).Model(&models.LicenseKeyModel{}).
		Where(map[string]interface{}{"license_key": key.Key(), "version": key.Version()}).
		Updates(map[string]interface{}{
			"hwids":         model.BoundDevices,
			"hwid":          model.LastDevice,
			"used":          model.Used,
			"banned":        model.Banned,
			"system_info":   model.SystemInfo,
			"last_login_at": model.LastLoginAt,
			"version":       key.Version() + 1,
		})
	if result.Error != nil {
		r.logger.Errorw("failed to update license key", "error", result.Error, "key", key.Key())
		return fmt.Errorf("failed to update license key: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return license.ErrVersionConflict
	}

	key.SetVersion(key.Version() + 1)
	return nil
}

func (r *LicenseKeyRepositoryImpl) Delete(ctx context.Context, key string) error {
	result := db.GetTxFromContext(ctx, r.db).
		Where(map[string]interface{}{"license_key": key}).
		Delete(&models.LicenseKeyModel{})
	if result.Error != nil {
		r.logger.Errorw("failed to delete license key", "error", result.Error, "key", key)
		return fmt.Errorf("failed to delete license key: %w", result.Error)
	}
	return nil
}

func (r *LicenseKeyRepositoryImpl) List(ctx context.Context, filter license.ListFilter) ([]*license.LicenseKey, error) {
	query := db.GetTxFromContext(ctx, r.db).Model(&models.LicenseKeyModel{})
	if len(filter.Applications) > 0 {
		query = query.Where("api IN ?", filter.Applications)
	}
	if filter.BoundOnly {
		query = query.Where("used = ?", true)
	}

	var list []*models.LicenseKeyModel
	if err := query.Order("id ASC").Find(&list).Error; err != nil {
		r.logger.Errorw("failed to list license keys", "error", err)
		return nil, fmt.Errorf("failed to list license keys: %w", err)
	}
	return r.mapper.ToEntities(list)
}
