package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/cryptox"
	"github.com/dmitrijs2005/gophauth/internal/logging"
)

// Config holds runtime settings for the gophauth CLI.
type Config struct {
	DataDir       string `env:"DATA_DIR"`
	DatabaseFile  string `env:"DATABASE_FILE"`
	DeviceKeyFile string `env:"DEVICE_KEY_FILE"`
	// Ephemeral keeps all records in memory; nothing survives the process.
	Ephemeral bool `env:"EPHEMERAL"`

	MaxFailedAttempts int           `env:"MAX_FAILED_ATTEMPTS"`
	LockDuration      time.Duration `env:"LOCK_DURATION"`
	LockCheckInterval time.Duration `env:"LOCK_CHECK_INTERVAL"`

	BiometricsSupported bool `env:"BIOMETRICS_SUPPORTED"`
	BiometricHardware   bool `env:"BIOMETRIC_HARDWARE"`
	BiometricEnrolled   bool `env:"BIOMETRIC_ENROLLED"`

	CredentialMode string `env:"CREDENTIAL_MODE"`

	LogBackend string `env:"LOG_BACKEND"`
	LogFormat  string `env:"LOG_FORMAT"`
	LogLevel   string `env:"LOG_LEVEL"`
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.DataDir = defaultDataDir()
	c.DatabaseFile = "gophauth.db"
	c.DeviceKeyFile = "device.key"
	c.Ephemeral = false
	c.MaxFailedAttempts = common.DefaultMaxFailedAttempts
	c.LockDuration = common.DefaultLockDuration
	c.LockCheckInterval = time.Second
	c.BiometricsSupported = true
	c.BiometricHardware = true
	c.BiometricEnrolled = true
	c.CredentialMode = cryptox.SchemePlain
	c.LogBackend = logging.BackendSlog
	c.LogFormat = logging.FormatJSON
	c.LogLevel = "info"
}

func defaultDataDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".gophauth"
	}
	return filepath.Join(dir, "gophauth")
}

// DatabasePath resolves DatabaseFile against DataDir.
func (c *Config) DatabasePath() string {
	return resolve(c.DataDir, c.DatabaseFile)
}

// DeviceKeyPath resolves DeviceKeyFile against DataDir.
func (c *Config) DeviceKeyPath() string {
	return resolve(c.DataDir, c.DeviceKeyFile)
}

func resolve(dir, name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(dir, name)
}

// Validate reports settings the application cannot run with.
func (c *Config) Validate() error {
	var errs []error
	if c.MaxFailedAttempts < 1 {
		errs = append(errs, fmt.Errorf("max failed attempts must be positive, got %d", c.MaxFailedAttempts))
	}
	if c.LockDuration <= 0 {
		errs = append(errs, fmt.Errorf("lock duration must be positive, got %s", c.LockDuration))
	}
	if c.LockCheckInterval <= 0 {
		errs = append(errs, fmt.Errorf("lock check interval must be positive, got %s", c.LockCheckInterval))
	}
	switch c.CredentialMode {
	case cryptox.SchemePlain, cryptox.SchemeBcrypt:
	default:
		errs = append(errs, fmt.Errorf("unknown credential mode %q", c.CredentialMode))
	}
	switch c.LogBackend {
	case logging.BackendSlog, logging.BackendZap:
	default:
		errs = append(errs, fmt.Errorf("unknown log backend %q", c.LogBackend))
	}
	switch c.LogFormat {
	case logging.FormatJSON, logging.FormatText:
	default:
		errs = append(errs, fmt.Errorf("unknown log format %q", c.LogFormat))
	}
	if !c.Ephemeral && c.DataDir == "" {
		errs = append(errs, errors.New("data dir is required"))
	}
	return errors.Join(errs...)
}

// LoadConfig builds a Config from defaults, the environment (optionally
// seeded from a .env file), a JSON file and command-line flags. Later
// sources take precedence over earlier ones.
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseEnv(cfg, ".env"); err != nil {
		return nil, err
	}
	if err := parseJson(cfg, args); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
