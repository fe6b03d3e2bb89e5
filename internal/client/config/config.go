package config

import "time"

// Config holds runtime settings for the operator console.
//
// Fields:
//   - APIURL: base URL of the directory service, including the /api prefix.
//   - StoragePath: SQLite file that keeps the operator session across runs.
//   - LogLevel, LogFormat: logging.Options for the console logger.
//   - HealthCheckInterval: how often the console probes server reachability.
type Config struct {
	APIURL              string
	StoragePath         string
	LogLevel            string
	LogFormat           string
	HealthCheckInterval time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIURL = "http://localhost:3001/api"
	c.StoragePath = "rosterctl.db"
	c.LogLevel = "warn"
	c.LogFormat = "text"
	c.HealthCheckInterval = 10 * time.Second
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// the environment (and .env), JSON (if present) and command-line flags (if
// present). Later sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
