// Package cli holds the setup shared by the keyserver subcommands.
package cli

import (
	"fmt"
	"strings"

	"github.com/hopperkey/phatdev/internal/infrastructure/config"
	"github.com/hopperkey/phatdev/internal/infrastructure/database"
	"github.com/hopperkey/phatdev/internal/infrastructure/filestore"
	httpRouter "github.com/hopperkey/phatdev/internal/interfaces/http"
	sharedConfig "github.com/hopperkey/phatdev/internal/shared/config"
	"github.com/hopperkey/phatdev/internal/shared/logger"
)

// Setup loads configuration and installs the process logger.
func Setup(env, configPath string) (*config.Config, logger.Interface, error) {
	cfg, err := config.Load(env, configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Init(&cfg.Logger); err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	return cfg, logger.NewLogger(), nil
}

// OpenStorage opens the backend named by storage.driver. The returned
// function releases it.
func OpenStorage(cfg *config.Config, log logger.Interface) (httpRouter.Storage, func(), error) {
	driver := strings.ToLower(cfg.Storage.Driver)

	switch {
	case driver == sharedConfig.DriverFile || driver == "":
		store, err := filestore.Open(cfg.Storage.FilePath, log.Named("filestore"))
		if err != nil {
			return httpRouter.Storage{}, nil, err
		}
		return httpRouter.Storage{Driver: sharedConfig.DriverFile, File: store}, func() {}, nil

	case cfg.Storage.IsRelational():
		if err := database.Init(&cfg.Database); err != nil {
			return httpRouter.Storage{}, nil, err
		}
		closeDB := func() {
			if err := database.Close(); err != nil {
				log.Warnw("failed to close database", "error", err)
			}
		}
		return httpRouter.Storage{Driver: driver, DB: database.Get()}, closeDB, nil

	default:
		return httpRouter.Storage{}, nil, fmt.Errorf("unsupported storage driver %q", cfg.Storage.Driver)
	}
}

// OpenDatabase opens the relational backend regardless of storage.driver,
// for commands that only make sense against SQL.
func OpenDatabase(cfg *config.Config) (func(), error) {
	if cfg.Database.Driver == "" {
		return nil, fmt.Errorf("database.driver is not set")
	}
	if err := database.Init(&cfg.Database); err != nil {
		return nil, err
	}
	return func() { _ = database.Close() }, nil
}
