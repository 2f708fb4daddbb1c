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

	assert.Equal(t, EnvDevelopment, cfg.Env)
	assert.Equal(t, "http://localhost:5000/api", cfg.API.BaseURL)
	assert.Equal(t, 15*time.Second, cfg.API.Timeout)
	assert.False(t, cfg.Demo.Enabled)
	assert.Equal(t, 250*time.Millisecond, cfg.Demo.Latency)
	assert.Equal(t, "file", cfg.Storage.Backend)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("DEMO_MODE", "true")
	t.Setenv("DEMO_LATENCY", "10ms")
	t.Setenv("API_TIMEOUT", "not-a-duration")
	t.Setenv("ALLOWED_ORIGINS", "http://localhost:3000, https://app.example.com ,")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.Demo.Enabled)
	assert.Equal(t, 10*time.Millisecond, cfg.Demo.Latency)
	assert.Equal(t, 15*time.Second, cfg.API.Timeout, "bad duration falls back to the default")
	assert.Equal(t, []string{"http://localhost:3000", "https://app.example.com"}, cfg.Demo.AllowedOrigins)
}
