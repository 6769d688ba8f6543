package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing temp config: %v", err)
	}
	return path
}

func TestLoadFromPath_Defaults(t *testing.T) {
	path := writeTempConfig(t, "log_level: info\n")

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath() error: %v", err)
	}

	if cfg.Poll.JobIntervalMs != DefaultPollJobIntervalMs {
		t.Errorf("Poll.JobIntervalMs = %d, want %d", cfg.Poll.JobIntervalMs, DefaultPollJobIntervalMs)
	}
	if cfg.Follow.TailBytes != DefaultFollowTailBytes {
		t.Errorf("Follow.TailBytes = %d, want %d", cfg.Follow.TailBytes, DefaultFollowTailBytes)
	}
	if cfg.Slurm.SqueuePath != "squeue" {
		t.Errorf("Slurm.SqueuePath = %q, want %q", cfg.Slurm.SqueuePath, "squeue")
	}
}

func TestLoadFromPath_Overrides(t *testing.T) {
	path := writeTempConfig(t, `
log_level: debug
poll:
  job_interval_ms: 5000
  file_interval_ms: 250
follow:
  tail_bytes: 1024
slurm:
  squeue_path: /opt/slurm/bin/squeue
`)

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath() error: %v", err)
	}

	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "debug")
	}
	if cfg.Poll.JobIntervalMs != 5000 {
		t.Errorf("Poll.JobIntervalMs = %d, want 5000", cfg.Poll.JobIntervalMs)
	}
	if cfg.Poll.FileIntervalMs != 250 {
		t.Errorf("Poll.FileIntervalMs = %d, want 250", cfg.Poll.FileIntervalMs)
	}
	if cfg.Follow.TailBytes != 1024 {
		t.Errorf("Follow.TailBytes = %d, want 1024", cfg.Follow.TailBytes)
	}
	if cfg.Slurm.SqueuePath != "/opt/slurm/bin/squeue" {
		t.Errorf("Slurm.SqueuePath = %q, want %q", cfg.Slurm.SqueuePath, "/opt/slurm/bin/squeue")
	}
}

func TestLoadFromPath_InvalidYAML(t *testing.T) {
	path := writeTempConfig(t, "log_level: [unclosed\n")

	_, err := LoadFromPath(path)
	if err == nil {
		t.Fatal("LoadFromPath() with invalid YAML succeeded, want error")
	}
}

func TestLoadFromPath_ValidationFailure(t *testing.T) {
	path := writeTempConfig(t, `
poll:
  job_interval_ms: 10
`)

	_, err := LoadFromPath(path)
	if err == nil {
		t.Fatal("LoadFromPath() with out-of-range interval succeeded, want error")
	}
}

func TestLoad_NoConfigFileUsesDefaults(t *testing.T) {
	t.Setenv("SFOLLOW_CONFIG_DIR", t.TempDir())
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() without config file error: %v", err)
	}

	if cfg.Poll.JobIntervalMs != DefaultPollJobIntervalMs {
		t.Errorf("Poll.JobIntervalMs = %d, want default %d", cfg.Poll.JobIntervalMs, DefaultPollJobIntervalMs)
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("SFOLLOW_CONFIG_DIR", t.TempDir())
	t.Setenv("HOME", t.TempDir())
	t.Setenv("SFOLLOW_LOG_LEVEL", "error")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.LogLevel != "error" {
		t.Errorf("LogLevel = %q, want %q from environment", cfg.LogLevel, "error")
	}
}
