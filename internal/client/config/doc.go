// Package config loads runtime configuration for the operator console.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Environment variables with the ROSTER_ prefix, after loading a dotenv
//     file (-e/-env, or ./.env).
//  3. Optional JSON file selected with -c or -config.
//  4. Command-line flags, which override everything else.
//
// # JSON schema
//
//	{
//	  "api_url": "http://localhost:3001/api",
//	  "storage_path": "rosterctl.db",
//	  "log_level": "info",
//	  "log_format": "json",
//	  "health_check_interval": "10s"
//	}
package config
