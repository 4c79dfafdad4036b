// internal/config/loader.go
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadGlobal loads the global configuration from a YAML file
func LoadGlobal(path string) (*Global, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Global
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyGlobalDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the fields a session cannot run without.
func Validate(cfg *Global) error {
	if cfg.Session.WindowSize <= 0 {
		return fmt.Errorf("session.window_size must be positive, got %d", cfg.Session.WindowSize)
	}
	if cfg.Session.SpoolDir == "" {
		return fmt.Errorf("session.spool_dir is required")
	}
	if cfg.Session.TriggersPath == "" {
		return fmt.Errorf("session.triggers_path is required")
	}
	if cfg.State.Enabled && cfg.State.Path == "" {
		return fmt.Errorf("state.path is required when state.enabled is true")
	}
	return nil
}

func applyGlobalDefaults(cfg *Global) {
	if cfg.Session.WindowSize == 0 {
		cfg.Session.WindowSize = 88
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.MaxSizeMB <= 0 {
		cfg.Logging.MaxSizeMB = 10
	}
	if cfg.State.RetentionDays <= 0 {
		cfg.State.RetentionDays = 30
	}
	if cfg.Heartbeat.CronExpression == "" && cfg.Heartbeat.RunEvery == "" {
		cfg.Heartbeat.RunEvery = "1m"
	}
}
