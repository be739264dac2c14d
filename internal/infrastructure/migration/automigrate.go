package migration

import (
	"github.com/hopperkey/phatdev/internal/infrastructure/persistence/models"
)

func AutoMigrateModels() []interface{} {
	return []interface{}{
		&models.ApplicationModel{},
		&models.LicenseKeyModel{},
		&models.PermissionModel{},
	}
}
