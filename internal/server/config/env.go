package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/dmitrijs2005/rosterctl/internal/flagx"
)

const envPrefix = "SANDBOX_"

// parseEnv overlays Config with SANDBOX_* variables after loading the dotenv
// file named with -e/-env (or ./.env). Unparseable numbers, booleans and
// durations keep the previous value.
func parseEnv(cfg *Config) {
	envFile := flagx.EnvFileFlags()
	if envFile == "" {
		_ = godotenv.Load(".env")
	} else if err := godotenv.Load(envFile); err != nil {
		panic(err)
	}

	cfg.EndpointAddrHTTP = getString("ADDR", cfg.EndpointAddrHTTP)
	cfg.DatabaseDSN = getString("DATABASE_DSN", cfg.DatabaseDSN)
	cfg.SecretKey = getString("SECRET_KEY", cfg.SecretKey)
	cfg.AccessTokenValidityDuration = getDuration("TOKEN_TTL", cfg.AccessTokenValidityDuration)
	cfg.BcryptCost = getInt("BCRYPT_COST", cfg.BcryptCost)
	cfg.LogLevel = getString("LOG_LEVEL", cfg.LogLevel)
	cfg.LogEncoding = getString("LOG_ENCODING", cfg.LogEncoding)
	cfg.SeedDemo = getBool("SEED_DEMO", cfg.SeedDemo)
}

func getString(key, fallback string) string {
	if val := os.Getenv(envPrefix + key); val != "" {
		return val
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if val := os.Getenv(envPrefix + key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	if val := os.Getenv(envPrefix + key); val != "" {
		if parsed, err := strconv.ParseBool(val); err == nil {
			return parsed
		}
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
