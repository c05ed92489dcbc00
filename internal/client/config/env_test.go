package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvAPIBaseURL, " http://localhost:8080/api ")
	t.Setenv(EnvDataDir, "/tmp/euem")
	t.Setenv(EnvRequestTimeout, "20")
	t.Setenv(EnvLogLevel, "debug")
	t.Setenv(EnvLogDev, "1")

	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)

	assert.Equal(t, "http://localhost:8080/api", cfg.APIBaseURL)
	assert.Equal(t, "/tmp/euem", cfg.DataDir)
	assert.Equal(t, 20*time.Second, cfg.RequestTimeout)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.True(t, cfg.LogDev)
}

func TestParseEnv_DurationString(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvRequestTimeout, "1m30s")

	cfg := &Config{}
	parseEnv(cfg)
	assert.Equal(t, 90*time.Second, cfg.RequestTimeout)
}

func TestParseEnv_EmptyKeepsValues(t *testing.T) {
	clearEnv(t)

	cfg := &Config{APIBaseURL: "keep", LogLevel: "error"}
	parseEnv(cfg)
	assert.Equal(t, "keep", cfg.APIBaseURL)
	assert.Equal(t, "error", cfg.LogLevel)
}

func TestParseEnv_MalformedPanics(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvRequestTimeout, "soon")
	require.Panics(t, func() { parseEnv(&Config{}) })

	clearEnv(t)
	t.Setenv(EnvLogDev, "maybe")
	require.Panics(t, func() { parseEnv(&Config{}) })
}
