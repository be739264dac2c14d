package http

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/hopperkey/phatdev/internal/domain/application"
	"github.com/hopperkey/phatdev/internal/domain/license"
	"github.com/hopperkey/phatdev/internal/domain/permission"
	"github.com/hopperkey/phatdev/internal/infrastructure/filestore"
	"github.com/hopperkey/phatdev/internal/infrastructure/repository"
	"github.com/hopperkey/phatdev/internal/interfaces/http/handlers"
	"github.com/hopperkey/phatdev/internal/shared/logger"
)

// Storage is the opened persistence backend. Exactly one of DB and File is
// set.
type Storage struct {
	Driver string
	DB     *gorm.DB
	File   *filestore.Store
}

// repositories holds all repository instances used by the application.
type repositories struct {
	keyRepo        license.Repository
	appRepo        application.Repository
	permissionRepo permission.Repository
	pinger         handlers.StorePinger
}

func newRepositories(storage Storage, log logger.Interface) (*repositories, error) {
	switch {
	case storage.File != nil:
		return &repositories{
			keyRepo:        filestore.NewLicenseKeyStore(storage.File),
			appRepo:        filestore.NewApplicationStore(storage.File),
			permissionRepo: filestore.NewPermissionStore(storage.File),
			pinger:         storage.File,
		}, nil
	case storage.DB != nil:
		return &repositories{
			keyRepo:        repository.NewLicenseKeyRepository(storage.DB, log.Named("license_repository")),
			appRepo:        repository.NewApplicationRepository(storage.DB, log.Named("application_repository")),
			permissionRepo: repository.NewPermissionRepository(storage.DB, log.Named("permission_repository")),
			pinger:         dbPinger{db: storage.DB},
		}, nil
	default:
		return nil, fmt.Errorf("no storage backend opened for driver %q", storage.Driver)
	}
}

type dbPinger struct {
	db *gorm.DB
}

func (p dbPinger) Ping(ctx context.Context) error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
