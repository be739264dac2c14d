package mappers

import (
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"

	"github.com/hopperkey/phatdev/internal/domain/license"
	"github.com/hopperkey/phatdev/internal/infrastructure/persistence/models"
)

// LicenseKeyMapper converts between license keys and their persistence model.
type LicenseKeyMapper interface {
	ToEntity(model *models.LicenseKeyModel) (*license.LicenseKey, error)
	ToModel(entity *license.LicenseKey) (*models.LicenseKeyModel, error)
	ToEntities(models []*models.LicenseKeyModel) ([]*license.LicenseKey, error)
}

type licenseKeyMapper struct{}

func NewLicenseKeyMapper() LicenseKeyMapper {
	return &licenseKeyMapper{}
}

func (m *licenseKeyMapper) ToEntity(model *models.LicenseKeyModel) (*license.LicenseKey, error) {
	if model == nil {
		return nil, nil
	}

	var devices []string
	if len(model.BoundDevices) > 0 {
		if err := json.Unmarshal(model.BoundDevices, &devices); err != nil {
			return nil, fmt.Errorf("failed to unmarshal bound devices: %w", err)
		}
	}

	lastDevice := ""
	if model.LastDevice != nil {
		lastDevice = *model.LastDevice
	}

	entity, err := license.ReconstructLicenseKey(
		model.LicenseKey,
		model.Application,
		model.Prefix,
		model.CreatedAt.UTC(),
		model.ExpiresAt.UTC(),
		model.DeviceLimit,
		devices,
		lastDevice,
		utcPtr(model.LastLoginAt),
		model.Banned,
		model.SystemInfo,
		model.Version,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct license key %s: %w", model.LicenseKey, err)
	}
	return entity, nil
}

func (m *licenseKeyMapper) ToModel(entity *license.LicenseKey) (*models.LicenseKeyModel, error) {
	if entity == nil {
		return nil, nil
	}

	devicesJSON, err := json.Marshal(entity.BoundDevices())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal bound devices: %w", err)
	}

	var lastDevice *string
	if d := entity.LastDevice(); d != "" {
		lastDevice = &d
	}

	return &models.LicenseKeyModel{
		LicenseKey:   entity.Key(),
		Application:  entity.Application(),
		Prefix:       entity.Prefix(),
		DeviceLimit:  entity.DeviceLimit(),
		BoundDevices: datatypes.JSON(devicesJSON),
		LastDevice:   lastDevice,
		Used:         entity.IsUsed(),
		Banned:       entity.IsBanned(),
		SystemInfo:   entity.SystemInfo(),
		LastLoginAt:  entity.LastLoginAt(),
		ExpiresAt:    entity.ExpiresAt(),
		Version:      entity.Version(),
		CreatedAt:    entity.CreatedAt(),
	}, nil
}

func (m *licenseKeyMapper) ToEntities(list []*models.LicenseKeyModel) ([]*license.LicenseKey, error) {
	entities := make([]*license.LicenseKey, 0, len(list))
	for _, model := range list {
		entity, err := m.ToEntity(model)
		if err != nil {
			return nil, err
		}
		entities = append(entities, entity)
	}
	return entities, nil
}
