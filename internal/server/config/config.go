// Package config handles configuration for the sandbox directory server:
// defaults, environment (with .env), a JSON overlay and command-line flags.
package config

import "time"

// Config holds runtime settings for the sandbox server.
//
// Fields:
//   - EndpointAddrHTTP: bind address of the REST API.
//   - DatabaseDSN: PostgreSQL DSN (pgx). Empty keeps accounts in memory.
//   - SecretKey: HMAC secret for signing JWTs (HS256). Do not use the default in prod.
//   - AccessTokenValidityDuration: lifetime of issued tokens.
//   - BcryptCost: cost factor for password hashes.
//   - LogLevel, LogEncoding: zap logger settings ("json" or "console").
//   - SeedDemo: create a few demo accounts on start.
type Config struct {
	EndpointAddrHTTP            string
	DatabaseDSN                 string
	SecretKey                   string
	AccessTokenValidityDuration time.Duration
	BcryptCost                  int
	LogLevel                    string
	LogEncoding                 string
	SeedDemo                    bool
}

// LoadDefaults populates Config with development defaults.
func (c *Config) LoadDefaults() {
	c.EndpointAddrHTTP = ":3001"
	c.DatabaseDSN = ""
	c.SecretKey = "secretKey"
	c.AccessTokenValidityDuration = 24 * time.Hour
	c.BcryptCost = 10
	c.LogLevel = "info"
	c.LogEncoding = "console"
	c.SeedDemo = false
}

// LoadConfig applies defaults, then the environment, then an optional JSON
// file and finally command-line flags. Later sources win.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
