package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "localhost", cfg.Postgres.Host)
	assert.Equal(t, 5432, cfg.Postgres.Port)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, 5*time.Minute, cfg.Redis.CacheTTL)
	assert.Equal(t, "stat-lines", cfg.Kafka.Topic)
	assert.Equal(t, "stats-ingest", cfg.Kafka.GroupID)
	assert.False(t, cfg.Kafka.Enabled)
	assert.Equal(t, 30*time.Minute, cfg.Auth.TokenTTL)
	assert.Equal(t, 15*time.Minute, cfg.Warmer.Interval)
	assert.Equal(t, 100, cfg.Listing.DefaultLimit)
	assert.Equal(t, 1000, cfg.Listing.MaxLimit)
}

func TestLoadAppliesDefaultsToMissingSections(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9090
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	// Untouched sections come back with defaults
	assert.Equal(t, "localhost", cfg.Postgres.Host)
	assert.Equal(t, 100, cfg.Listing.DefaultLimit)
}

func TestLoadExpandsEnvironment(t *testing.T) {
	t.Setenv("CLUBSTATS_DB_PASSWORD", "s3cret")
	path := writeConfig(t, `
postgres:
  user: clubstats
  password: ${CLUBSTATS_DB_PASSWORD}
  database: clubstats
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "s3cret", cfg.Postgres.Password)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := writeConfig(t, "server: [not a map")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestConnectionString(t *testing.T) {
	cfg := PostgresConfig{
		Host:     "db.internal",
		Port:     5433,
		User:     "clubstats",
		Password: "pw",
		Database: "clubstats",
	}

	assert.Equal(t,
		"postgres://clubstats:pw@db.internal:5433/clubstats?sslmode=disable",
		cfg.ConnectionString(),
	)

	cfg.SSLMode = "require"
	assert.Equal(t,
		"postgres://clubstats:pw@db.internal:5433/clubstats?sslmode=require",
		cfg.ConnectionString(),
	)
}

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}
