package importdb

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hopperkey/phatdev/internal/domain/application"
	"github.com/hopperkey/phatdev/internal/domain/license"
	"github.com/hopperkey/phatdev/internal/domain/permission"
	"github.com/hopperkey/phatdev/internal/infrastructure/database"
	"github.com/hopperkey/phatdev/internal/infrastructure/filestore"
	"github.com/hopperkey/phatdev/internal/infrastructure/migration"
	"github.com/hopperkey/phatdev/internal/infrastructure/repository"
	"github.com/hopperkey/phatdev/internal/shared/config"
	shareddb "github.com/hopperkey/phatdev/internal/shared/db"
	"github.com/hopperkey/phatdev/internal/shared/logger"
)

var testNow = time.Date(2026, 4, 1, 8, 0, 0, 0, time.UTC)

func fileRepos(t *testing.T) Repositories {
	t.Helper()
	store, err := filestore.Open(filepath.Join(t.TempDir(), "database.json"), logger.NewNopLogger())
	require.NoError(t, err)
	return Repositories{
		Keys:        filestore.NewLicenseKeyStore(store),
		Apps:        filestore.NewApplicationStore(store),
		Permissions: filestore.NewPermissionStore(store),
	}
}

func sqliteRepos(t *testing.T) (Repositories, *shareddb.TransactionManager) {
	t.Helper()
	db, err := database.Open(&config.DatabaseConfig{
		Driver:   config.DriverSQLite,
		Database: filepath.Join(t.TempDir(), "keys.db"),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	strategy, err := migration.NewGooseStrategy(config.DriverSQLite, logger.NewNopLogger())
	require.NoError(t, err)
	require.NoError(t, strategy.Migrate(db))

	log := logger.NewNopLogger()
	return Repositories{
		Keys:        repository.NewLicenseKeyRepository(db, log),
		Apps:        repository.NewApplicationRepository(db, log),
		Permissions: repository.NewPermissionRepository(db, log),
	}, shareddb.NewTransactionManager(db)
}

// failingKeys fails every key insert after the first.
type failingKeys struct {
	license.Repository
	created int
}

func (f *failingKeys) Create(ctx context.Context, key *license.LicenseKey) error {
	if f.created > 0 {
		return errors.New("disk full")
	}
	f.created++
	return f.Repository.Create(ctx, key)
}

func seed(t *testing.T, repos Repositories) {
	t.Helper()
	ctx := context.Background()

	app, err := application.NewApplication("App1", "AK-ABCDEFGHIJ", "admin-1", testNow)
	require.NoError(t, err)
	require.NoError(t, repos.Apps.Create(ctx, app))

	for _, key := range []string{"VIP-AAAA1111", "VIP-BBBB2222"} {
		k, err := license.NewLicenseKey(key, "AK-ABCDEFGHIJ", "VIP", 30, 2, testNow)
		require.NoError(t, err)
		require.NoError(t, repos.Keys.Create(ctx, k))
	}

	bound, err := repos.Keys.GetByKey(ctx, "VIP-AAAA1111")
	require.NoError(t, err)
	require.True(t, bound.Validate("dev-A", "Pixel 8", testNow.Add(time.Hour)).OK)
	require.NoError(t, repos.Keys.Update(ctx, bound))

	admin, err := permission.NewAssignment("admin-1", permission.RoleAdmin, "bootstrap", testNow)
	require.NoError(t, err)
	require.NoError(t, repos.Permissions.Save(ctx, admin))
	support, err := permission.NewAssignment("sup-1", permission.RoleSupport, "admin-1", testNow)
	require.NoError(t, err)
	require.NoError(t, repos.Permissions.Save(ctx, support))
}

func TestImporter_CopiesEverything(t *testing.T) {
	ctx := context.Background()
	src := fileRepos(t)
	dst, tm := sqliteRepos(t)
	seed(t, src)

	report, err := NewImporter(src, dst, logger.NewNopLogger()).WithTransaction(tm).Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, &Report{Apps: 1, Keys: 2, Permissions: 2}, report)

	app, err := dst.Apps.GetByName(ctx, "App1")
	require.NoError(t, err)
	require.NotNil(t, app)
	assert.Equal(t, "AK-ABCDEFGHIJ", app.APIKey())

	k, err := dst.Keys.GetByKey(ctx, "VIP-AAAA1111")
	require.NoError(t, err)
	require.NotNil(t, k)
	assert.Equal(t, []string{"dev-A"}, k.BoundDevices())
	assert.Equal(t, "Pixel 8", k.SystemInfo())
	assert.True(t, k.ExpiresAt().Equal(testNow.AddDate(0, 0, 30)))

	roles, err := dst.Permissions.ListAtLeast(ctx, permission.RoleSupport)
	require.NoError(t, err)
	assert.Len(t, roles, 2)
}

func TestImporter_IsRerunnable(t *testing.T) {
	ctx := context.Background()
	src := fileRepos(t)
	dst, _ := sqliteRepos(t)
	seed(t, src)

	_, err := NewImporter(src, dst, logger.NewNopLogger()).Run(ctx)
	require.NoError(t, err)

	report, err := NewImporter(src, dst, logger.NewNopLogger()).Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, &Report{Skipped: 5}, report)
}

func TestImporter_RollsBackOnFailure(t *testing.T) {
	ctx := context.Background()
	src := fileRepos(t)
	dst, tm := sqliteRepos(t)
	seed(t, src)

	broken := dst
	broken.Keys = &failingKeys{Repository: dst.Keys}

	report, err := NewImporter(src, broken, logger.NewNopLogger()).WithTransaction(tm).Run(ctx)
	require.Error(t, err)
	assert.Nil(t, report)

	count, err := dst.Apps.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)

	k, err := dst.Keys.GetByKey(ctx, "VIP-AAAA1111")
	require.NoError(t, err)
	assert.Nil(t, k)
}

func TestImporter_CopiesOverfullLegacyKey(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "database.json")
	legacy := `{
  "applications": [
    {"name": "App1", "api_key": "AK-ABCDEFGHIJ", "created_by": "100", "created_at": "2026-03-01T10:00:00.000Z"}
  ],
  "keys": [
    {"key": "VIP-FULL0001", "api": "AK-ABCDEFGHIJ", "prefix": "VIP", "device_limit": 1,
     "created_at": "2026-03-01T10:00:00.000Z", "expires_at": "2026-05-01T10:00:00.000Z",
     "hwids": ["a", "b"], "hwid": "b", "system_info": "Pixel", "used": true}
  ]
}`
	require.NoError(t, os.WriteFile(path, []byte(legacy), 0o600))
	store, err := filestore.Open(path, logger.NewNopLogger())
	require.NoError(t, err)
	src := Repositories{
		Keys:        filestore.NewLicenseKeyStore(store),
		Apps:        filestore.NewApplicationStore(store),
		Permissions: filestore.NewPermissionStore(store),
	}
	dst, tm := sqliteRepos(t)

	report, err := NewImporter(src, dst, logger.NewNopLogger()).WithTransaction(tm).Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, &Report{Apps: 1, Keys: 1}, report)

	k, err := dst.Keys.GetByKey(ctx, "VIP-FULL0001")
	require.NoError(t, err)
	require.NotNil(t, k)
	assert.Equal(t, []string{"a", "b"}, k.BoundDevices())
	assert.True(t, k.IsOverfull())
}
