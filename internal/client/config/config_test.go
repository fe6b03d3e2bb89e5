package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withArgs(t *testing.T, args ...string) {
	t.Helper()
	orig := os.Args
	os.Args = append([]string{"rosterctl"}, args...)
	t.Cleanup(func() { os.Args = orig })
}

func writeTempJSON(t *testing.T, data map[string]any) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cfg.json")
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func defaults() Config {
	var c Config
	c.LoadDefaults()
	return c
}

func TestLoadDefaults(t *testing.T) {
	c := defaults()

	assert.Equal(t, "http://localhost:3001/api", c.APIURL)
	assert.Equal(t, "rosterctl.db", c.StoragePath)
	assert.Equal(t, 10*time.Second, c.HealthCheckInterval)
}

func TestParseEnv(t *testing.T) {
	withArgs(t)
	t.Setenv("ROSTER_API_URL", "https://dir.example.com/api")
	t.Setenv("ROSTER_LOG_FORMAT", "json")
	t.Setenv("ROSTER_HEALTH_CHECK_INTERVAL", "1m")
	t.Setenv("ROSTER_STORAGE_PATH", "")

	cfg := defaults()
	parseEnv(&cfg)

	want := defaults()
	want.APIURL = "https://dir.example.com/api"
	want.LogFormat = "json"
	want.HealthCheckInterval = time.Minute
	assert.Empty(t, cmp.Diff(want, cfg))
}

func TestParseEnv_BadDurationKeepsValue(t *testing.T) {
	withArgs(t)
	t.Setenv("ROSTER_HEALTH_CHECK_INTERVAL", "soon")

	cfg := defaults()
	parseEnv(&cfg)
	assert.Equal(t, 10*time.Second, cfg.HealthCheckInterval)
}

func TestParseEnv_DotenvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "console.env")
	require.NoError(t, os.WriteFile(path, []byte("ROSTER_LOG_LEVEL=debug\n"), 0o600))
	withArgs(t, "-e", path)
	// registered so the variable loaded from the file is unset afterwards
	t.Setenv("ROSTER_LOG_LEVEL", "")
	require.NoError(t, os.Unsetenv("ROSTER_LOG_LEVEL"))

	cfg := defaults()
	parseEnv(&cfg)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestParseEnv_MissingDotenvFilePanics(t *testing.T) {
	withArgs(t, "-env", filepath.Join(t.TempDir(), "nope.env"))

	cfg := defaults()
	require.Panics(t, func() { parseEnv(&cfg) })
}

func TestParseJson(t *testing.T) {
	path := writeTempJSON(t, map[string]any{
		"api_url":               "http://10.0.0.1:3001/api",
		"health_check_interval": "30s",
	})

	t.Run("loads from flag", func(t *testing.T) {
		withArgs(t, "-config", path)

		cfg := defaults()
		parseJson(&cfg)

		assert.Equal(t, "http://10.0.0.1:3001/api", cfg.APIURL)
		assert.Equal(t, 30*time.Second, cfg.HealthCheckInterval)
		assert.Equal(t, "rosterctl.db", cfg.StoragePath, "absent fields keep their value")
	})

	t.Run("no flag, no changes", func(t *testing.T) {
		withArgs(t)

		cfg := defaults()
		parseJson(&cfg)
		assert.Empty(t, cmp.Diff(defaults(), cfg))
	})

	t.Run("missing file panics", func(t *testing.T) {
		withArgs(t, "-c", filepath.Join(t.TempDir(), "missing.json"))

		cfg := defaults()
		require.Panics(t, func() { parseJson(&cfg) })
	})

	t.Run("bad json panics", func(t *testing.T) {
		bad := filepath.Join(t.TempDir(), "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte("{"), 0o600))
		withArgs(t, "-c", bad)

		cfg := defaults()
		require.Panics(t, func() { parseJson(&cfg) })
	})
}

func TestParseFlags(t *testing.T) {
	tests := []struct {
		name        string
		args        []string
		expected    Config
		expectPanic bool
	}{
		{
			name: "all flags",
			args: []string{"-a", "http://127.0.0.1:9090/api", "-s", "/tmp/s.db", "-l", "debug", "-f", "zap", "-i", "5"},
			expected: Config{
				APIURL:              "http://127.0.0.1:9090/api",
				StoragePath:         "/tmp/s.db",
				LogLevel:            "debug",
				LogFormat:           "zap",
				HealthCheckInterval: 5 * time.Second,
			},
		},
		{
			name:     "unrelated flags ignored",
			args:     []string{"-c", "conf.json", "-x"},
			expected: defaults(),
		},
		{name: "bad interval", args: []string{"-i", "abc"}, expectPanic: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			withArgs(t, tt.args...)
			cfg := defaults()

			if tt.expectPanic {
				require.Panics(t, func() { parseFlags(&cfg) })
				return
			}
			require.NotPanics(t, func() { parseFlags(&cfg) })
			assert.Empty(t, cmp.Diff(tt.expected, cfg))
		})
	}
}

func TestLoadConfig_Precedence(t *testing.T) {
	path := writeTempJSON(t, map[string]any{"api_url": "http://json/api", "log_level": "info"})
	withArgs(t, "-c", path, "-a", "http://flag/api")
	t.Setenv("ROSTER_API_URL", "http://env/api")
	t.Setenv("ROSTER_LOG_FORMAT", "json")

	cfg := LoadConfig()

	require.NotNil(t, cfg)
	assert.Equal(t, "http://flag/api", cfg.APIURL)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
}
