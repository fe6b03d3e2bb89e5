package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/rosterctl/internal/flagx"
	"github.com/dmitrijs2005/rosterctl/internal/timex"
)

// JsonConfig is the on-disk shape of the config file. Absent fields leave
// the current value alone.
type JsonConfig struct {
	EndpointAddrHTTP            string          `json:"endpoint_addr_http"`
	DatabaseDSN                 string          `json:"database_dsn"`
	SecretKey                   string          `json:"secret_key"`
	AccessTokenValidityDuration *timex.Duration `json:"access_token_validity_duration"`
	BcryptCost                  int             `json:"bcrypt_cost"`
	LogLevel                    string          `json:"log_level"`
	LogEncoding                 string          `json:"log_encoding"`
	SeedDemo                    *bool           `json:"seed_demo"`
}

// parseJson loads the file named with -c or -config. Without the flag
// nothing is loaded; read and decode errors panic.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	var c JsonConfig
	if err := json.Unmarshal(file, &c); err != nil {
		panic(err)
	}

	setIf(&cfg.EndpointAddrHTTP, c.EndpointAddrHTTP)
	setIf(&cfg.DatabaseDSN, c.DatabaseDSN)
	setIf(&cfg.SecretKey, c.SecretKey)
	setIf(&cfg.LogLevel, c.LogLevel)
	setIf(&cfg.LogEncoding, c.LogEncoding)
	if c.AccessTokenValidityDuration != nil {
		cfg.AccessTokenValidityDuration = c.AccessTokenValidityDuration.Duration
	}
	if c.BcryptCost != 0 {
		cfg.BcryptCost = c.BcryptCost
	}
	if c.SeedDemo != nil {
		cfg.SeedDemo = *c.SeedDemo
	}
}

func setIf(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
