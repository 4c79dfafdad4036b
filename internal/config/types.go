// internal/config/types.go
package config

// Global configuration loaded from config.yaml
type Global struct {
	Session   SessionConfig   `yaml:"session"`
	Logging   LoggingConfig   `yaml:"logging"`
	State     StateConfig     `yaml:"state"`
	Heartbeat HeartbeatConfig `yaml:"heartbeat"`
}

// SessionConfig describes one realtime session: where input chunks
// land, how wide the inference windows are, and which external files
// (triggers, labelmap, scaler) the session consumes.
type SessionConfig struct {
	WindowSize   int     `yaml:"window_size"`
	SpoolDir     string  `yaml:"spool_dir"`
	TriggersPath string  `yaml:"triggers_path"`
	LabelmapPath string  `yaml:"labelmap_path"`
	ScalerPath   string  `yaml:"scaler_path"` // optional; empty = no standardization
	PadValue     float64 `yaml:"pad_value"`
}

type LoggingConfig struct {
	Format    string `yaml:"format"` // json or text
	Level     string `yaml:"level"`
	File      string `yaml:"file"` // empty = stdout
	MaxSizeMB int    `yaml:"max_size_mb"`
}

// StateConfig controls the SQLite firing history.
type StateConfig struct {
	Enabled       bool   `yaml:"enabled"`
	Path          string `yaml:"path"`
	RetentionDays int    `yaml:"retention_days"`
}

// HeartbeatConfig controls the periodic status log line. Either a full
// cron expression (with seconds field) or the simple run_every syntax
// ("30s", "5m", "1h").
type HeartbeatConfig struct {
	CronExpression string `yaml:"cron_expression"`
	RunEvery       string `yaml:"run_every"`
}
