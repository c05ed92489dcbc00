// Package config loads runtime configuration for the euem CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Environment variables EUEM_API_BASE_URL, EUEM_DATA_DIR,
//     EUEM_REQUEST_TIMEOUT, LOG_LEVEL and LOG_DEV (see parseEnv).
//  3. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  4. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the account API
//	-d string   data directory
//	-t int      request timeout (seconds)
//	-l string   log level
//
// # JSON schema
//
// The JSON loader uses timex.Duration for intervals, so values can be either
// strings like "15s" or integer nanoseconds:
//
//	{
//	  "api_base_url": "https://euem.net/api",
//	  "request_timeout": "15s",
//	  "data_dir": "~/.config/euem",
//	  "database_file": "euem.db",
//	  "verified_delay": "1.5s",
//	  "log_level": "info",
//	  "log_dev": false
//	}
package config
