package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Environment variables read by parseEnv. A .env file in the working
// directory is loaded into the environment by the binary before
// LoadConfig runs.
const (
	EnvAPIBaseURL     = "EUEM_API_BASE_URL"
	EnvDataDir        = "EUEM_DATA_DIR"
	EnvRequestTimeout = "EUEM_REQUEST_TIMEOUT"
	EnvLogLevel       = "LOG_LEVEL"
	EnvLogDev         = "LOG_DEV"
)

// parseEnv overlays Config with non-empty environment variables.
// EUEM_REQUEST_TIMEOUT accepts a duration ("20s") or whole seconds ("20").
// Malformed values panic, like malformed flags.
func parseEnv(cfg *Config) {
	if v := env(EnvAPIBaseURL); v != "" {
		cfg.APIBaseURL = v
	}
	if v := env(EnvDataDir); v != "" {
		cfg.DataDir = v
	}
	if v := env(EnvRequestTimeout); v != "" {
		d, err := parseSeconds(v)
		if err != nil {
			panic(fmt.Errorf("%s: %w", EnvRequestTimeout, err))
		}
		cfg.RequestTimeout = d
	}
	if v := env(EnvLogLevel); v != "" {
		cfg.LogLevel = v
	}
	if v := env(EnvLogDev); v != "" {
		dev, err := strconv.ParseBool(v)
		if err != nil {
			panic(fmt.Errorf("%s: %w", EnvLogDev, err))
		}
		cfg.LogDev = dev
	}
}

func env(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func parseSeconds(v string) (time.Duration, error) {
	if n, err := strconv.Atoi(v); err == nil {
		return time.Duration(n) * time.Second, nil
	}
	return time.ParseDuration(v)
}
