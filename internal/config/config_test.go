package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/avolkhov/worldnews-proxy/internal/config"
)

func TestLoadProxyDefaults(t *testing.T) {
	t.Setenv("WORLDNEWS_API_KEY", "")
	t.Setenv("WORLDNEWS_BASE_URL", "")
	t.Setenv("WORLDNEWS_TIMEOUT", "")
	t.Setenv("API_BIND_ADDR", "")
	t.Setenv("API_DEFAULT_LANGUAGE", "")
	t.Setenv("API_DEFAULT_NUMBER", "")
	t.Setenv("EXPORT_DIR", "")

	cfg, err := config.LoadProxy()
	require.NoError(t, err)

	require.Empty(t, cfg.APIKey)
	require.Equal(t, "https://api.worldnewsapi.com", cfg.BaseURL)
	require.Equal(t, 10*time.Second, cfg.UpstreamTimeout)
	require.Equal(t, "0.0.0.0:8080", cfg.BindAddr)
	require.Equal(t, "en", cfg.DefaultLanguage)
	require.Equal(t, 10, cfg.DefaultNumber)
	require.Equal(t, "data", cfg.ExportDir)
}

func TestLoadProxyOverrides(t *testing.T) {
	t.Setenv("WORLDNEWS_API_KEY", "secret")
	t.Setenv("WORLDNEWS_BASE_URL", "http://localhost:9999")
	t.Setenv("WORLDNEWS_TIMEOUT", "3s")
	t.Setenv("API_BIND_ADDR", ":9090")
	t.Setenv("API_DEFAULT_LANGUAGE", "de")
	t.Setenv("API_DEFAULT_NUMBER", "25")
	t.Setenv("EXPORT_DIR", "/tmp/exports")

	cfg, err := config.LoadProxy()
	require.NoError(t, err)

	require.Equal(t, "secret", cfg.APIKey)
	require.Equal(t, "http://localhost:9999", cfg.BaseURL)
	require.Equal(t, 3*time.Second, cfg.UpstreamTimeout)
	require.Equal(t, ":9090", cfg.BindAddr)
	require.Equal(t, "de", cfg.DefaultLanguage)
	require.Equal(t, 25, cfg.DefaultNumber)
	require.Equal(t, "/tmp/exports", cfg.ExportDir)
}

func TestLoadProxyBadTimeoutFallsBack(t *testing.T) {
	t.Setenv("WORLDNEWS_TIMEOUT", "oops")
	t.Setenv("API_DEFAULT_NUMBER", "")

	cfg, err := config.LoadProxy()
	require.NoError(t, err)
	require.Equal(t, 10*time.Second, cfg.UpstreamTimeout)
}

func TestLoadProxyRejectsNonPositiveNumber(t *testing.T) {
	t.Setenv("API_DEFAULT_NUMBER", "-5")

	_, err := config.LoadProxy()
	require.Error(t, err)
}
