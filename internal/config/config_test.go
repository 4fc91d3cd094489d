package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, BackendMemory, cfg.Storage.Backend)
	assert.Equal(t, 10000, cfg.Limits.MaxStringLength)
	assert.False(t, cfg.Cache.Enabled)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoad_FromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
server:
  port: 9999
storage:
  backend: postgres
  postgres:
    host: db.internal
    database: records
limits:
  max_string_length: 500
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9999, cfg.Server.Port)
	assert.Equal(t, BackendPostgres, cfg.Storage.Backend)
	assert.Equal(t, "db.internal", cfg.Storage.Postgres.Host)
	assert.Equal(t, "records", cfg.Storage.Postgres.Database)
	assert.Equal(t, 500, cfg.Limits.MaxStringLength)
	// Unset fields keep their defaults.
	assert.Equal(t, 5432, cfg.Storage.Postgres.Port)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg, err := Load("")
		require.NoError(t, err)
		return cfg
	}

	t.Run("invalid port", func(t *testing.T) {
		cfg := valid()
		cfg.Server.Port = 0
		assert.Error(t, cfg.Validate())
	})

	t.Run("unknown backend", func(t *testing.T) {
		cfg := valid()
		cfg.Storage.Backend = "cassandra"
		assert.Error(t, cfg.Validate())
	})

	t.Run("postgres requires host", func(t *testing.T) {
		cfg := valid()
		cfg.Storage.Backend = BackendPostgres
		cfg.Storage.Postgres.Host = ""
		assert.Error(t, cfg.Validate())
	})

	t.Run("non-positive string limit", func(t *testing.T) {
		cfg := valid()
		cfg.Limits.MaxStringLength = 0
		assert.Error(t, cfg.Validate())
	})

	t.Run("rate limiter needs positive rate", func(t *testing.T) {
		cfg := valid()
		cfg.RateLimiter.Enabled = true
		cfg.RateLimiter.RequestsPerSecond = 0
		assert.Error(t, cfg.Validate())
	})

	t.Run("cache needs positive ttl", func(t *testing.T) {
		cfg := valid()
		cfg.Cache.Enabled = true
		cfg.Cache.TTL = 0
		assert.Error(t, cfg.Validate())
	})
}
