package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults_AreValid(t *testing.T) {
	cfg := Defaults()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "kalshi", cfg.Engine.SourceVenue)
	assert.Equal(t, "polymarket", cfg.Engine.TargetVenue)
	assert.Equal(t, 72*time.Hour, cfg.Engine.Lookback.Duration)
	assert.Equal(t, 1, cfg.Engine.MaxPerSource)
	assert.Equal(t, 1, cfg.Engine.MaxPerTarget)
	assert.False(t, cfg.Validator.Enabled)
	assert.False(t, cfg.S3.Enabled)
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	cfg := Defaults()
	cfg.LogLevel = "loud"
	cfg.Engine.SourceVenue = "polymarket" // same as target
	cfg.Engine.Workers = 0
	cfg.Engine.MinWinnerGap = 1.5
	cfg.Postgres.Port = 0

	err := cfg.Validate()
	require.Error(t, err)

	msg := err.Error()
	assert.Contains(t, msg, `unknown log_level "loud"`)
	assert.Contains(t, msg, "source_venue and target_venue must differ")
	assert.Contains(t, msg, "workers must be >= 1")
	assert.Contains(t, msg, "min_winner_gap must be in [0,1]")
	assert.Contains(t, msg, "port must be 1-65535")
}

func TestValidate_DSNSkipsHostPortChecks(t *testing.T) {
	cfg := Defaults()
	cfg.Postgres.DSN = "postgres://u:p@db:5432/venuelink"
	cfg.Postgres.Host = ""
	cfg.Postgres.Port = 0
	cfg.Postgres.Database = ""

	assert.NoError(t, cfg.Validate())
}

func TestValidate_ValidatorSectionOnlyWhenEnabled(t *testing.T) {
	cfg := Defaults()
	cfg.Validator.BaseURL = ""
	cfg.Validator.BatchSize = 0
	require.NoError(t, cfg.Validate(), "disabled validator should not be checked")

	cfg.Validator.Enabled = true
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validator: base_url must not be empty when enabled")
	assert.Contains(t, err.Error(), "validator: batch_size must be >= 1")
}

func TestLoad_TOMLAndEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	body := `
log_level = "debug"

[engine]
source_venue = "polymarket"
target_venue = "kalshi"
lookback = "48h"
workers = 8

[postgres]
host = "db.internal"
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	t.Setenv("VENUELINK_POSTGRES_HOST", "db.override")
	t.Setenv("VENUELINK_ENGINE_WORKERS", "16")
	t.Setenv("VENUELINK_ENGINE_TOPICS", "rates, sports,")

	cfg, err := Load(path)
	require.NoError(t, err)

	// TOML values merged over defaults.
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "polymarket", cfg.Engine.SourceVenue)
	assert.Equal(t, 48*time.Hour, cfg.Engine.Lookback.Duration)

	// Env wins over TOML.
	assert.Equal(t, "db.override", cfg.Postgres.Host)
	assert.Equal(t, 16, cfg.Engine.Workers)
	assert.Equal(t, []string{"rates", "sports"}, cfg.Engine.Topics)

	// Untouched fields keep defaults.
	assert.Equal(t, 5432, cfg.Postgres.Port)
}

func TestLoad_MissingFileError(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}

func TestLoad_EmptyPathUsesDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.LogLevel)
	require.NoError(t, cfg.Validate())
}

func TestEnvOverrides_IgnoreMalformedValues(t *testing.T) {
	t.Setenv("VENUELINK_ENGINE_WORKERS", "many")
	t.Setenv("VENUELINK_REDIS_ENABLED", "yep")
	t.Setenv("VENUELINK_ENGINE_LOOKBACK", "soon")

	cfg := Defaults()
	applyEnvOverrides(&cfg)

	assert.Equal(t, 4, cfg.Engine.Workers)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, 72*time.Hour, cfg.Engine.Lookback.Duration)
}
