package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/rosterctl/internal/flagx"
)

// parseFlags populates Config fields from command-line flags.
//
//	-a string   directory service base URL
//	-s string   session storage file
//	-l string   log level (debug, info, warn, error)
//	-f string   log format (text, json, zap)
//	-i int      health check interval in seconds
//
// Only these flags are read from os.Args (see flagx.FilterArgs); a malformed
// value panics.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-s", "-l", "-f", "-i"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.APIURL, "a", cfg.APIURL, "directory service base URL")
	fs.StringVar(&cfg.StoragePath, "s", cfg.StoragePath, "session storage file")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")
	fs.StringVar(&cfg.LogFormat, "f", cfg.LogFormat, "log format")
	interval := fs.Int("i", int(cfg.HealthCheckInterval.Seconds()), "health check interval (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.HealthCheckInterval = time.Duration(*interval) * time.Second
}
