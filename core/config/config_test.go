package config

import (
	"os"
	"path/filepath"
	"testing"

	"npi-linker/core/reference"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "npi-reference", cfg.Storage.Bucket)
	assert.Equal(t, 30, cfg.Storage.TimeoutSeconds)
	assert.Equal(t, "mysql", cfg.Database.Driver)
	assert.False(t, cfg.Database.Enabled)
	assert.Equal(t, 50000, cfg.Run.MatchChunkSize)
	assert.Equal(t, 100000, cfg.Run.FilterChunkSize)
	assert.Equal(t, "first", cfg.Run.Policy)
	assert.Equal(t, "prefix", cfg.Run.MatchMode)
	assert.Equal(t, []string{"TEMP", "RN", "LP", "PN"}, cfg.Run.LicensePrefixes)
	assert.False(t, cfg.Run.Prefetch)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("RUN_POLICY=best\nLOG_LEVEL=debug\n"), 0o644))
	t.Setenv("RUN_MATCH_CHUNK_SIZE", "250")
	t.Setenv("RUN_PREFETCH", "true")
	t.Setenv("RUN_LICENSE_PREFIXES", "RN,APN")
	t.Cleanup(func() {
		os.Unsetenv("RUN_POLICY")
		os.Unsetenv("LOG_LEVEL")
	})

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, 250, cfg.Run.MatchChunkSize)
	assert.True(t, cfg.Run.Prefetch)
	assert.Equal(t, "best", cfg.Run.Policy)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, []string{"RN", "APN"}, cfg.Run.LicensePrefixes)
}

func TestLoadConfig_RejectsBadChunkSize(t *testing.T) {
	t.Setenv("RUN_FILTER_CHUNK_SIZE", "0")

	_, err := LoadConfig(t.TempDir())
	assert.ErrorIs(t, err, reference.ErrInvalidChunkSize)
}
