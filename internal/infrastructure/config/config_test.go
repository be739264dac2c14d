package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, "server:\n  port: 9090\n")

	cfg, err := Load("", path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "file", cfg.Storage.Driver)
	assert.Equal(t, "database.json", cfg.Storage.FilePath)
	assert.Equal(t, "VIP", cfg.License.DefaultPrefix)
	assert.Equal(t, 1, cfg.License.DefaultDeviceLimit)
	assert.Equal(t, 5*time.Second, cfg.Lock.TTL)
	assert.False(t, cfg.Auth.EnforceRoles)
	assert.Same(t, cfg, Get())
}

func TestLoad_RelationalDriverPropagates(t *testing.T) {
	path := writeConfig(t, `
storage:
  driver: sqlite
database:
  database: ":memory:"
auth:
  bootstrap_admins: ["owner-1", "owner-2"]
lock:
  backend: redis
  ttl: 2s
`)

	cfg, err := Load("release", path)
	require.NoError(t, err)

	assert.True(t, cfg.Storage.IsRelational())
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, ":memory:", cfg.Database.GetDSN())
	assert.Equal(t, []string{"owner-1", "owner-2"}, cfg.Auth.BootstrapAdmins)
	assert.Equal(t, "redis", cfg.Lock.Backend)
	assert.Equal(t, 2*time.Second, cfg.Lock.TTL)
	assert.Equal(t, "release", cfg.Server.Mode)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "server:\n  port: 9090\n")
	t.Setenv("KEYSERVER_SERVER_PORT", "7070")
	t.Setenv("KEYSERVER_STORAGE_FILE_PATH", "/tmp/keys.json")

	cfg, err := Load("", path)
	require.NoError(t, err)

	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, "/tmp/keys.json", cfg.Storage.FilePath)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load("", filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
