package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "dev", cfg.Env)
	require.False(t, cfg.Production())
	require.Equal(t, "public/assets", cfg.AssetsDir)
	require.Empty(t, cfg.DBPath)
	require.Equal(t, "/admin/login", cfg.AdminLoginPath)
}

func TestListenAddr(t *testing.T) {
	t.Setenv("PORT", "9090")
	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, ":9090", cfg.ListenAddr())

	t.Setenv("KONSTRUKSI_WEB_ADDR", "127.0.0.1:3000")
	cfg, err = Load()
	require.NoError(t, err)
	require.Equal(t, "127.0.0.1:3000", cfg.ListenAddr())
}

func TestLoadNormalises(t *testing.T) {
	t.Setenv("KONSTRUKSI_WEB_ENV", " PROD ")
	t.Setenv("KONSTRUKSI_WEB_BASE_URL", "https://bkn.co.id/")
	t.Setenv("KONSTRUKSI_WEB_GA_MEASUREMENT_ID", "G-TEST")
	cfg, err := Load()
	require.NoError(t, err)
	require.True(t, cfg.Production())
	require.Equal(t, "https://bkn.co.id", cfg.BaseURL)
	require.Equal(t, "G-TEST", cfg.Analytics.GA4MeasurementID)
}

func TestLoadError(t *testing.T) {
	t.Setenv("KONSTRUKSI_WEB_DEV", "not-a-bool")
	_, err := Load()
	require.ErrorContains(t, err, "parse env:")
}
