// ABOUTME: Tests for configuration loading and persistence
// ABOUTME: Covers defaults, file round-trips, env overrides and validation
package config

import (
	"os"
	"testing"
	"time"

	"github.com/adrg/xdg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func useTempXDG(t *testing.T) {
	t.Helper()
	origConfig, origData := xdg.ConfigHome, xdg.DataHome
	xdg.ConfigHome = t.TempDir()
	xdg.DataHome = t.TempDir()
	t.Cleanup(func() {
		xdg.ConfigHome = origConfig
		xdg.DataHome = origData
	})
}

func TestLoad_Defaults(t *testing.T) {
	useTempXDG(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Empty(t, cfg.APIURL)
	assert.Empty(t, cfg.APIToken)
	assert.Equal(t, DefaultRequestTimeout, cfg.RequestTimeout)
	assert.Equal(t, DefaultDBPath(), cfg.DBPath)
	assert.ErrorIs(t, cfg.Validate(), ErrNotConfigured)
}

func TestSaveAndLoad(t *testing.T) {
	useTempXDG(t)

	original := &Config{
		APIURL:         "https://crm.example.com/api",
		APIToken:       "secret",
		RequestTimeout: 5 * time.Second,
		LogLevel:       "debug",
		SnapshotCache:  true,
		DBPath:         "/tmp/activity.db",
	}
	require.NoError(t, original.Save())

	info, err := os.Stat(Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	loaded, err := Load()
	require.NoError(t, err)
	assert.Equal(t, original, loaded)
	assert.NoError(t, loaded.Validate())
}

func TestLoad_EnvOverrides(t *testing.T) {
	useTempXDG(t)
	require.NoError(t, (&Config{APIURL: "https://file.example.com", APIToken: "file"}).Save())

	t.Setenv("CRMDESK_API_URL", "http://localhost:8081")
	t.Setenv("CRMDESK_API_TOKEN", "env-token")
	t.Setenv("CRMDESK_REQUEST_TIMEOUT", "0s")
	t.Setenv("CRMDESK_CACHE", "1")
	t.Setenv("CRMDESK_LOG_LEVEL", "warn")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8081", cfg.APIURL)
	assert.Equal(t, "env-token", cfg.APIToken)
	assert.Equal(t, time.Duration(0), cfg.RequestTimeout)
	assert.True(t, cfg.SnapshotCache)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestLoad_InvalidTimeout(t *testing.T) {
	useTempXDG(t)
	t.Setenv("CRMDESK_REQUEST_TIMEOUT", "soon")

	_, err := Load()
	assert.Error(t, err)
}

func TestValidate_RejectsBadScheme(t *testing.T) {
	cfg := &Config{APIURL: "ftp://crm.example.com", APIToken: "x"}
	assert.Error(t, cfg.Validate())
}
