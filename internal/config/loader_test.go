// internal/config/loader_test.go
package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadGlobal(t *testing.T) {
	path := writeConfig(t, `
session:
  window_size: 44
  spool_dir: /var/lib/songwatch/spool
  triggers_path: /etc/songwatch/triggers.yaml
  labelmap_path: /etc/songwatch/labelmap.json
  scaler_path: /etc/songwatch/scaler.json
  pad_value: -1.5
logging:
  format: text
  level: debug
  file: /var/log/songwatch.log
  max_size_mb: 25
state:
  enabled: true
  path: /var/lib/songwatch/state.db
  retention_days: 7
heartbeat:
  run_every: "30s"
`)

	cfg, err := LoadGlobal(path)
	if err != nil {
		t.Fatalf("LoadGlobal() error = %v", err)
	}

	if cfg.Session.WindowSize != 44 {
		t.Errorf("window_size = %d, want 44", cfg.Session.WindowSize)
	}
	if cfg.Session.PadValue != -1.5 {
		t.Errorf("pad_value = %v, want -1.5", cfg.Session.PadValue)
	}
	if cfg.Logging.Format != "text" {
		t.Errorf("logging format = %q, want text", cfg.Logging.Format)
	}
	if cfg.Logging.MaxSizeMB != 25 {
		t.Errorf("max_size_mb = %d, want 25", cfg.Logging.MaxSizeMB)
	}
	if !cfg.State.Enabled || cfg.State.RetentionDays != 7 {
		t.Errorf("state = %+v", cfg.State)
	}
	if cfg.Heartbeat.RunEvery != "30s" {
		t.Errorf("heartbeat run_every = %q, want 30s", cfg.Heartbeat.RunEvery)
	}
}

func TestLoadGlobal_Defaults(t *testing.T) {
	path := writeConfig(t, `
session:
  spool_dir: /spool
  triggers_path: /triggers.yaml
`)

	cfg, err := LoadGlobal(path)
	if err != nil {
		t.Fatalf("LoadGlobal() error = %v", err)
	}

	if cfg.Session.WindowSize != 88 {
		t.Errorf("default window_size = %d, want 88", cfg.Session.WindowSize)
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("default logging format = %q, want json", cfg.Logging.Format)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("default logging level = %q, want info", cfg.Logging.Level)
	}
	if cfg.Logging.MaxSizeMB != 10 {
		t.Errorf("default max_size_mb = %d, want 10", cfg.Logging.MaxSizeMB)
	}
	if cfg.State.RetentionDays != 30 {
		t.Errorf("default retention_days = %d, want 30", cfg.State.RetentionDays)
	}
	if cfg.Heartbeat.RunEvery != "1m" {
		t.Errorf("default heartbeat run_every = %q, want 1m", cfg.Heartbeat.RunEvery)
	}
}

func TestLoadGlobal_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name: "missing spool_dir",
			content: `
session:
  triggers_path: /triggers.yaml
`,
			wantErr: "spool_dir",
		},
		{
			name: "missing triggers_path",
			content: `
session:
  spool_dir: /spool
`,
			wantErr: "triggers_path",
		},
		{
			name: "negative window size",
			content: `
session:
  window_size: -4
  spool_dir: /spool
  triggers_path: /triggers.yaml
`,
			wantErr: "window_size",
		},
		{
			name: "state enabled without path",
			content: `
session:
  spool_dir: /spool
  triggers_path: /triggers.yaml
state:
  enabled: true
`,
			wantErr: "state.path",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, tt.content)
			_, err := LoadGlobal(path)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want substring %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoadGlobal_Unparsable(t *testing.T) {
	path := writeConfig(t, "session: [not a mapping\n")
	if _, err := LoadGlobal(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestLoadGlobal_MissingFile(t *testing.T) {
	if _, err := LoadGlobal(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
