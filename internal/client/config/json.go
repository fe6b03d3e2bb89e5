package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/rosterctl/internal/flagx"
	"github.com/dmitrijs2005/rosterctl/internal/timex"
)

// JsonConfig is a DTO used only for JSON unmarshalling. Intervals use
// timex.Duration so they may be given as "10s" or as integer nanoseconds.
// Absent fields leave the current value alone.
type JsonConfig struct {
	APIURL              string          `json:"api_url"`
	StoragePath         string          `json:"storage_path"`
	LogLevel            string          `json:"log_level"`
	LogFormat           string          `json:"log_format"`
	HealthCheckInterval *timex.Duration `json:"health_check_interval"`
}

// parseJson overlays Config with values from the JSON file named with -c or
// -config. Without the flag nothing is loaded. Read and decode errors panic.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	setIf(&cfg.APIURL, jc.APIURL)
	setIf(&cfg.StoragePath, jc.StoragePath)
	setIf(&cfg.LogLevel, jc.LogLevel)
	setIf(&cfg.LogFormat, jc.LogFormat)
	if jc.HealthCheckInterval != nil {
		cfg.HealthCheckInterval = jc.HealthCheckInterval.Duration
	}
}

func setIf(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
