// Package config loads runtime configuration for the gophauth CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Environment variables prefixed with GOPHAUTH_ (see parseEnv). A .env
//     file in the working directory is loaded first when present; real
//     environment variables win over it.
//  3. Optional JSON file (see parseJson) selected via -c or -config.
//  4. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-d string            data directory
//	-db string           database file
//	-k string            device key file
//	-e                   ephemeral in-memory store
//	-m int               failed attempts before lock
//	-l duration          lock duration
//	-bio                 platform supports biometrics
//	-cred string         credential mode (plain|bcrypt)
//	-log-backend string  slog or zap
//	-log-format string   json or text
//	-log-level string    log level
//
// # JSON schema
//
// Durations use timex.Duration, so values can be strings like "5m" or
// integer nanoseconds. Keys that are absent keep their previous value:
//
//	{
//	  "data_dir": "/var/lib/gophauth",
//	  "max_failed_attempts": 5,
//	  "lock_duration": "5m",
//	  "lock_check_interval": "1s",
//	  "biometrics_supported": true,
//	  "credential_mode": "bcrypt",
//	  "log_backend": "zap",
//	  "log_format": "text",
//	  "log_level": "debug"
//	}
//
// Primary API
//
//   - type Config: runtime settings
//   - func LoadConfig(args []string) (*Config, error): defaults, env, JSON, flags, then Validate
//   - func (*Config) LoadDefaults(): sets sensible defaults
package config
