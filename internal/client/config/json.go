package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/gophauth/internal/flagx"
	"github.com/dmitrijs2005/gophauth/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Durations
// go through timex.Duration so the file may use "5m" or nanoseconds.
type JsonConfig struct {
	DataDir             string         `json:"data_dir"`
	DatabaseFile        string         `json:"database_file"`
	DeviceKeyFile       string         `json:"device_key_file"`
	Ephemeral           bool           `json:"ephemeral"`
	MaxFailedAttempts   int            `json:"max_failed_attempts"`
	LockDuration        timex.Duration `json:"lock_duration"`
	LockCheckInterval   timex.Duration `json:"lock_check_interval"`
	BiometricsSupported bool           `json:"biometrics_supported"`
	BiometricHardware   bool           `json:"biometric_hardware"`
	BiometricEnrolled   bool           `json:"biometric_enrolled"`
	CredentialMode      string         `json:"credential_mode"`
	LogBackend          string         `json:"log_backend"`
	LogFormat           string         `json:"log_format"`
	LogLevel            string         `json:"log_level"`
}

func toJson(c *Config) JsonConfig {
	return JsonConfig{
		DataDir:             c.DataDir,
		DatabaseFile:        c.DatabaseFile,
		DeviceKeyFile:       c.DeviceKeyFile,
		Ephemeral:           c.Ephemeral,
		MaxFailedAttempts:   c.MaxFailedAttempts,
		LockDuration:        timex.Duration{Duration: c.LockDuration},
		LockCheckInterval:   timex.Duration{Duration: c.LockCheckInterval},
		BiometricsSupported: c.BiometricsSupported,
		BiometricHardware:   c.BiometricHardware,
		BiometricEnrolled:   c.BiometricEnrolled,
		CredentialMode:      c.CredentialMode,
		LogBackend:          c.LogBackend,
		LogFormat:           c.LogFormat,
		LogLevel:            c.LogLevel,
	}
}

func (jc JsonConfig) apply(c *Config) {
	c.DataDir = jc.DataDir
	c.DatabaseFile = jc.DatabaseFile
	c.DeviceKeyFile = jc.DeviceKeyFile
	c.Ephemeral = jc.Ephemeral
	c.MaxFailedAttempts = jc.MaxFailedAttempts
	c.LockDuration = jc.LockDuration.Duration
	c.LockCheckInterval = jc.LockCheckInterval.Duration
	c.BiometricsSupported = jc.BiometricsSupported
	c.BiometricHardware = jc.BiometricHardware
	c.BiometricEnrolled = jc.BiometricEnrolled
	c.CredentialMode = jc.CredentialMode
	c.LogBackend = jc.LogBackend
	c.LogFormat = jc.LogFormat
	c.LogLevel = jc.LogLevel
}

// parseJson overlays cfg with the JSON file named by -c/-config in args.
// Keys missing from the file keep their current values. Without the flag
// nothing is loaded.
func parseJson(cfg *Config, args []string) error {
	path := flagx.ConfigPath(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	jc := toJson(cfg)
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	jc.apply(cfg)
	return nil
}
