// Package logging manages the slog logger lifecycle for sfollow.
//
// sfollow relays the followed job's bytes through the user's terminal, so
// its own diagnostics must stay out of the way: before the config is loaded
// only warnings and errors go to stderr, and once a log file is configured
// full diagnostics are appended there as JSON.
package logging

import (
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	slogmulti "github.com/samber/slog-multi"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Manager handles the logger lifecycle including the bootstrap-to-full
// transition. Components obtain a logger via Logger() and use it for all
// logging.
type Manager struct {
	handler *SwappableHandler
	logger  *slog.Logger
	logFile *lumberjack.Logger
	level   *slog.LevelVar
	mu      sync.Mutex
}

// NewManager creates a logging manager in bootstrap mode.
// Bootstrap mode writes warnings and errors to stderr using text format.
// Call Upgrade() after config is available to enable file logging.
func NewManager() *Manager {
	level := new(slog.LevelVar)
	level.Set(slog.LevelWarn)

	opts := &slog.HandlerOptions{Level: level}
	bootstrap := slog.NewTextHandler(os.Stderr, opts)

	handler := NewSwappableHandler(bootstrap)

	return &Manager{
		handler: handler,
		logger:  slog.New(handler),
		level:   level,
	}
}

// Logger returns the current logger instance.
// The returned logger is stable across Upgrade calls.
func (m *Manager) Logger() *slog.Logger {
	return m.logger
}

// Upgrade transitions from bootstrap mode (stderr warnings only) to full
// mode: warnings still go to stderr as text, and everything at the
// configured level is appended to a rotated JSON log file.
func (m *Manager) Upgrade(logFilePath string, level slog.Level) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(logFilePath), 0o755); err != nil {
		return err
	}

	file := &lumberjack.Logger{
		Filename:   logFilePath,
		MaxSize:    10, // megabytes
		MaxBackups: 3,
	}

	if m.logFile != nil {
		_ = m.logFile.Close()
	}
	m.logFile = file

	m.level.Set(level)

	// Keep stderr limited to warnings regardless of the configured level so
	// debug output never interleaves with relayed job output.
	stderrLevel := new(slog.LevelVar)
	stderrLevel.Set(slog.LevelWarn)

	fullHandler := slogmulti.Fanout(
		slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: stderrLevel}),
		slog.NewJSONHandler(file, &slog.HandlerOptions{Level: m.level}),
	)

	m.handler.Swap(fullHandler)

	return nil
}

// SetLevel changes the file log level at runtime.
func (m *Manager) SetLevel(level slog.Level) {
	m.level.Set(level)
}

// Close cleanly shuts down the logger, closing the log file if open.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.logFile != nil {
		err := m.logFile.Close()
		m.logFile = nil
		return err
	}
	return nil
}
