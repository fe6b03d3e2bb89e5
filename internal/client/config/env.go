package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/dmitrijs2005/rosterctl/internal/flagx"
)

const envPrefix = "ROSTER_"

// parseEnv overlays Config with ROSTER_* environment variables. A dotenv file
// named with -e/-env, or ./.env when none is given, is loaded first; it never
// overrides variables already present in the environment.
//
// Malformed durations are ignored and the previous value is kept.
func parseEnv(cfg *Config) {
	envFile := flagx.EnvFileFlags()
	if envFile == "" {
		_ = godotenv.Load(".env")
	} else if err := godotenv.Load(envFile); err != nil {
		panic(err)
	}

	cfg.APIURL = getString("API_URL", cfg.APIURL)
	cfg.StoragePath = getString("STORAGE_PATH", cfg.StoragePath)
	cfg.LogLevel = getString("LOG_LEVEL", cfg.LogLevel)
	cfg.LogFormat = getString("LOG_FORMAT", cfg.LogFormat)
	cfg.HealthCheckInterval = getDuration("HEALTH_CHECK_INTERVAL", cfg.HealthCheckInterval)
}

func getString(key, fallback string) string {
	if val := os.Getenv(envPrefix + key); val != "" {
		return val
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(envPrefix + key); val != "" {
		if parsed, err := time.ParseDuration(val); err == nil {
			return parsed
		}
	}
	return fallback
}
