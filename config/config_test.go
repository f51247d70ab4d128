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
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_AppliesDefaults(t *testing.T) {
	path := writeConfig(t, "database:\n  dsn: \"file::memory:\"\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 5*time.Minute, cfg.Server.CacheTTL)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, 15*time.Second, cfg.Redis.StatusTTL)
	assert.Equal(t, 30*time.Second, cfg.Client.Timeout)
	assert.Equal(t, 30*time.Second, cfg.Tracker.Interval)
	assert.Equal(t, 1, cfg.Tracker.WorkerPool.Size)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_ReadsOutletTariffs(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9090
database:
  driver: sqlite
outlets:
  - id: outlet-9
    name: Lekki
    prices:
      Basic: 5000
      Premium: 8500
tracker:
  interval_seconds: 5
  worker_pool:
    size: 3
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	require.Len(t, cfg.Outlets, 1)
	assert.Equal(t, "outlet-9", cfg.Outlets[0].ID)
	assert.Equal(t, int64(8500), cfg.Outlets[0].Prices["Premium"])
	assert.Equal(t, 5*time.Second, cfg.Tracker.Interval)
	assert.Equal(t, 3, cfg.Tracker.WorkerPool.Size)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
