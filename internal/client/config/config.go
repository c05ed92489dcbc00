package config

import (
	"time"

	"github.com/dmitrijs2005/euem/internal/common"
	"github.com/dmitrijs2005/euem/internal/filex"
)

// Config holds runtime settings for the euem CLI.
//
// Fields:
//   - APIBaseURL: root of the account REST API, without a trailing slash.
//   - RequestTimeout: upper bound for one HTTP request.
//   - DataDir: directory holding the local database.
//   - DatabaseFile: SQLite file name inside DataDir.
//   - VerifiedDelay: pause between a successful verification and closing the dialog.
//   - LogLevel, LogDev: logger settings (see logging.Options).
type Config struct {
	APIBaseURL     string
	RequestTimeout time.Duration
	DataDir        string
	DatabaseFile   string
	VerifiedDelay  time.Duration
	LogLevel       string
	LogDev         bool
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = common.DefaultAPIBaseURL
	c.RequestTimeout = 15 * time.Second
	c.DataDir = filex.DefaultDataDir()
	c.DatabaseFile = "euem.db"
	c.VerifiedDelay = 1500 * time.Millisecond
	c.LogLevel = "info"
	c.LogDev = false
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// the environment, JSON (if present) and command-line flags (if present).
// Later sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
