package config

import (
	"flag"
	"io"

	"github.com/dmitrijs2005/gophauth/internal/flagx"
)

var (
	valueFlags = []string{"-d", "-db", "-k", "-m", "-l", "-cred", "-log-backend", "-log-format", "-log-level"}
	boolFlags  = []string{"-e", "-bio"}
)

// parseFlags overlays cfg with command-line flags.
//
//	-d string            data directory
//	-db string           database file (relative to -d)
//	-k string            device key file (relative to -d)
//	-e                   ephemeral in-memory store
//	-m int               failed attempts before lock
//	-l duration          lock duration, e.g. 5m
//	-bio                 platform supports biometrics
//	-cred string         credential mode: plain or bcrypt
//	-log-backend string  slog or zap
//	-log-format string   json or text
//	-log-level string    debug, info, warn or error
//
// Arguments are filtered with flagx so flags owned by other components
// (such as -c) do not break parsing.
func parseFlags(cfg *Config, args []string) error {
	filtered := append(flagx.FilterArgs(args, valueFlags), flagx.FilterBoolArgs(args, boolFlags)...)

	fs := flag.NewFlagSet("gophauth", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.DataDir, "d", cfg.DataDir, "data directory")
	fs.StringVar(&cfg.DatabaseFile, "db", cfg.DatabaseFile, "database file")
	fs.StringVar(&cfg.DeviceKeyFile, "k", cfg.DeviceKeyFile, "device key file")
	fs.BoolVar(&cfg.Ephemeral, "e", cfg.Ephemeral, "ephemeral in-memory store")
	fs.IntVar(&cfg.MaxFailedAttempts, "m", cfg.MaxFailedAttempts, "failed attempts before lock")
	fs.DurationVar(&cfg.LockDuration, "l", cfg.LockDuration, "lock duration")
	fs.BoolVar(&cfg.BiometricsSupported, "bio", cfg.BiometricsSupported, "platform supports biometrics")
	fs.StringVar(&cfg.CredentialMode, "cred", cfg.CredentialMode, "credential mode (plain|bcrypt)")
	fs.StringVar(&cfg.LogBackend, "log-backend", cfg.LogBackend, "log backend (slog|zap)")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "log format (json|text)")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level")

	return fs.Parse(filtered)
}
