package http

import (
	appUsecases "github.com/hopperkey/phatdev/internal/application/app/usecases"
	"github.com/hopperkey/phatdev/internal/application/license/usecases"
	"github.com/hopperkey/phatdev/internal/shared/biztime"
)

// allUseCases holds all use case instances used by the application.
type allUseCases struct {
	// License keys
	createKeyUC    *usecases.CreateKeyUseCase
	validateKeyUC  *usecases.ValidateKeyUseCase
	banKeyUC       *usecases.BanKeyUseCase
	resetKeyUC     *usecases.ResetKeyUseCase
	deleteKeyUC    *usecases.DeleteKeyUseCase
	listKeysUC     *usecases.ListKeysUseCase
	getKeyUC       *usecases.GetKeyUseCase
	listUsersUC    *usecases.ListUsersUseCase
	getAnalyticsUC *usecases.GetAnalyticsUseCase

	// Applications
	createAppUC *appUsecases.CreateAppUseCase
	deleteAppUC *appUsecases.DeleteAppUseCase
	listAppsUC  *appUsecases.ListAppsUseCase
	countAppsUC *appUsecases.CountAppsUseCase
}

func (c *Container) initUseCases() {
	keyRepo := c.repos.keyRepo
	appRepo := c.repos.appRepo
	locker := c.svcs.locker
	clock := biztime.SystemClock
	log := c.log.Named("license")

	c.ucs = &allUseCases{
		createKeyUC:    usecases.NewCreateKeyUseCase(keyRepo, appRepo, c.svcs.keyGenerator, c.cfg.License.DefaultPrefix, clock, log),
		validateKeyUC:  usecases.NewValidateKeyUseCase(keyRepo, locker, c.svcs.recorder, clock, log),
		banKeyUC:       usecases.NewBanKeyUseCase(keyRepo, locker, log),
		resetKeyUC:     usecases.NewResetKeyUseCase(keyRepo, locker, log),
		deleteKeyUC:    usecases.NewDeleteKeyUseCase(keyRepo, locker, log),
		listKeysUC:     usecases.NewListKeysUseCase(keyRepo, appRepo, clock, log),
		getKeyUC:       usecases.NewGetKeyUseCase(keyRepo, clock, log),
		listUsersUC:    usecases.NewListUsersUseCase(keyRepo, clock, log),
		getAnalyticsUC: usecases.NewGetAnalyticsUseCase(keyRepo, appRepo, clock, log),

		createAppUC: appUsecases.NewCreateAppUseCase(appRepo, c.svcs.apiKeyGenerator, clock, c.log.Named("application")),
		deleteAppUC: appUsecases.NewDeleteAppUseCase(appRepo, c.log.Named("application")),
		listAppsUC:  appUsecases.NewListAppsUseCase(appRepo, c.log.Named("application")),
		countAppsUC: appUsecases.NewCountAppsUseCase(appRepo, c.log.Named("application")),
	}
}
