package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

var envKeys = []string{
	"KEGG_MAP_WIZARD_DATA", "KEGGMAP_ADDR", "KEGGMAP_ORGS",
	"KEGGMAP_REDIS_URL", "KEGGMAP_CACHE_TTL", "KEGGMAP_LOG_LEVEL",
}

// clearEnv blanks the variables for one test; t.Setenv restores them.
func clearEnv(t *testing.T) {
	for _, k := range envKeys {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, "./data", cfg.DataDir)
	assert.Equal(t, "0.0.0.0:8080", cfg.Addr)
	assert.Equal(t, []string{"ko"}, cfg.Orgs)
	assert.Equal(t, "", cfg.RedisURL)
	assert.Equal(t, 24*time.Hour, cfg.CacheTTL)
	assert.Equal(t, zapcore.InfoLevel, cfg.LogLevel)
}

func TestLoadDotEnv(t *testing.T) {
	clearEnv(t)

	envFile := filepath.Join(t.TempDir(), ".env")
	content := "KEGG_MAP_WIZARD_DATA=/srv/kegg\nKEGGMAP_ORGS=ko, eco\nKEGGMAP_CACHE_TTL=90m\nKEGGMAP_LOG_LEVEL=debug\n"
	require.NoError(t, os.WriteFile(envFile, []byte(content), 0o644))

	cfg, err := Load(envFile)
	require.NoError(t, err)
	assert.Equal(t, "/srv/kegg", cfg.DataDir)
	assert.Equal(t, []string{"ko", "eco"}, cfg.Orgs)
	assert.Equal(t, 90*time.Minute, cfg.CacheTTL)
	assert.Equal(t, zapcore.DebugLevel, cfg.LogLevel)
}

func TestLoadEnvWinsOverDotEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("KEGGMAP_ADDR", "127.0.0.1:9000")

	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("KEGGMAP_ADDR=0.0.0.0:1\n"), 0o644))

	cfg, err := Load(envFile)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9000", cfg.Addr)
}

func TestLoadBadTTL(t *testing.T) {
	clearEnv(t)
	t.Setenv("KEGGMAP_CACHE_TTL", "tomorrow")

	_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	assert.ErrorContains(t, err, "KEGGMAP_CACHE_TTL")
}

func TestParseOrgs(t *testing.T) {
	assert.Equal(t, []string{"ko", "eco", "hsa"}, ParseOrgs("ko,eco , hsa,"))
	assert.Empty(t, ParseOrgs(" , "))
}
