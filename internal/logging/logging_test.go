package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func TestManagerBootstrapLevel(t *testing.T) {
	m := NewManager()
	defer m.Close()

	logger := m.Logger()
	if logger == nil {
		t.Fatal("Logger() returned nil")
	}

	// Bootstrap mode must not emit below warn; job output shares the terminal.
	if logger.Enabled(t.Context(), slog.LevelInfo) {
		t.Error("bootstrap logger enabled at info, want warn minimum")
	}
	if !logger.Enabled(t.Context(), slog.LevelWarn) {
		t.Error("bootstrap logger not enabled at warn")
	}
}

func TestManagerUpgradeWritesJSONFile(t *testing.T) {
	m := NewManager()
	defer m.Close()

	logPath := filepath.Join(t.TempDir(), "logs", "sfollow.log")
	if err := m.Upgrade(logPath, slog.LevelDebug); err != nil {
		t.Fatalf("Upgrade() error: %v", err)
	}

	m.Logger().Debug("poll tick", "job_id", "9251426")

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}

	var record map[string]any
	if err := json.Unmarshal(data, &record); err != nil {
		t.Fatalf("log file is not JSON: %v (%q)", err, data)
	}
	if record["msg"] != "poll tick" {
		t.Errorf("msg = %v, want %q", record["msg"], "poll tick")
	}
	if record["job_id"] != "9251426" {
		t.Errorf("job_id = %v, want %q", record["job_id"], "9251426")
	}
}

func TestManagerUpgradeCreatesDirectory(t *testing.T) {
	m := NewManager()
	defer m.Close()

	logPath := filepath.Join(t.TempDir(), "a", "b", "sfollow.log")
	if err := m.Upgrade(logPath, slog.LevelInfo); err != nil {
		t.Fatalf("Upgrade() error: %v", err)
	}

	if _, err := os.Stat(filepath.Dir(logPath)); err != nil {
		t.Errorf("log directory not created: %v", err)
	}
}

func TestManagerLoggerStableAcrossUpgrade(t *testing.T) {
	m := NewManager()
	defer m.Close()

	before := m.Logger()

	logPath := filepath.Join(t.TempDir(), "sfollow.log")
	if err := m.Upgrade(logPath, slog.LevelInfo); err != nil {
		t.Fatalf("Upgrade() error: %v", err)
	}

	// The pre-upgrade logger must reach the upgraded sinks.
	before.Info("after upgrade")

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}
	if len(data) == 0 {
		t.Error("pre-upgrade logger did not reach the log file")
	}
}

func TestManagerSetLevel(t *testing.T) {
	m := NewManager()
	defer m.Close()

	logPath := filepath.Join(t.TempDir(), "sfollow.log")
	if err := m.Upgrade(logPath, slog.LevelInfo); err != nil {
		t.Fatalf("Upgrade() error: %v", err)
	}

	m.Logger().Debug("before")
	m.SetLevel(slog.LevelDebug)
	m.Logger().Debug("after")

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}
	if bytes.Contains(data, []byte("before")) {
		t.Error("debug record written while file level was info")
	}
	if !bytes.Contains(data, []byte("after")) {
		t.Error("debug record missing after SetLevel(debug)")
	}
}

func TestManagerCloseIdempotent(t *testing.T) {
	m := NewManager()

	if err := m.Close(); err != nil {
		t.Errorf("Close() without file error: %v", err)
	}
	if err := m.Close(); err != nil {
		t.Errorf("second Close() error: %v", err)
	}
}
