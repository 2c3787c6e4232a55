package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "storefront", cfg.App.Name)
	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "http://localhost:8080/api", cfg.API.BaseURL)
	assert.Equal(t, 15*time.Second, cfg.API.Timeout)
	assert.Equal(t, "file", cfg.Storage.Driver)
	assert.Equal(t, ".storefront", cfg.Storage.Path)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.False(t, cfg.Telemetry.Enabled)
	assert.Equal(t, 1.0, cfg.Telemetry.SamplingRatio)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("STOREFRONT_API_BASE_URL", "https://shop.example.com/api")
	t.Setenv("STOREFRONT_API_TIMEOUT", "30s")
	t.Setenv("STOREFRONT_STORAGE_DRIVER", "memory")
	t.Setenv("STOREFRONT_LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://shop.example.com/api", cfg.API.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.API.Timeout)
	assert.Equal(t, "memory", cfg.Storage.Driver)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadValidation(t *testing.T) {
	t.Run("rejects an unknown storage driver", func(t *testing.T) {
		t.Setenv("STOREFRONT_STORAGE_DRIVER", "bolt")
		_, err := Load()
		assert.ErrorContains(t, err, "storage.driver")
	})

	t.Run("rejects a malformed base url", func(t *testing.T) {
		t.Setenv("STOREFRONT_API_BASE_URL", "not a url")
		_, err := Load()
		assert.ErrorContains(t, err, "api.base_url")
	})

	t.Run("rejects a sampling ratio above one", func(t *testing.T) {
		t.Setenv("STOREFRONT_TELEMETRY_SAMPLING_RATIO", "2.5")
		_, err := Load()
		assert.ErrorContains(t, err, "sampling_ratio")
	})
}

func TestRedisAddr(t *testing.T) {
	r := RedisConfig{Host: "cache.internal", Port: 6380}
	assert.Equal(t, "cache.internal:6380", r.Addr())
}
