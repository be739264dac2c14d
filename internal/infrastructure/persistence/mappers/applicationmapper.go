package mappers

import (
	"fmt"

	"github.com/hopperkey/phatdev/internal/domain/application"
	"github.com/hopperkey/phatdev/internal/infrastructure/persistence/models"
)

type ApplicationMapper interface {
	ToEntity(model *models.ApplicationModel) (*application.Application, error)
	ToModel(entity *application.Application) *models.ApplicationModel
	ToEntities(models []*models.ApplicationModel) ([]*application.Application, error)
}

type applicationMapper struct{}

func NewApplicationMapper() ApplicationMapper {
	return &applicationMapper{}
}

func (m *applicationMapper) ToEntity(model *models.ApplicationModel) (*application.Application, error) {
	if model == nil {
		return nil, nil
	}
	app, err := application.ReconstructApplication(model.Name, model.APIKey, model.CreatedBy, model.CreatedAt.UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct application %d: %w", model.ID, err)
	}
	return app, nil
}

func (m *applicationMapper) ToModel(entity *application.Application) *models.ApplicationModel {
	if entity == nil {
		return nil
	}
	return &models.ApplicationModel{
		Name:      entity.Name(),
		APIKey:    entity.APIKey(),
		CreatedBy: entity.CreatedBy(),
		CreatedAt: entity.CreatedAt(),
	}
}

func (m *applicationMapper) ToEntities(list []*models.ApplicationModel) ([]*application.Application, error) {
	apps := make([]*application.Application, 0, len(list))
	for _, model := range list {
		app, err := m.ToEntity(model)
		if err != nil {
			return nil, err
		}
		apps = append(apps, app)
	}
	return apps, nil
}
