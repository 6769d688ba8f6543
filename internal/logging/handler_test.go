package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestSwappableHandler_Enabled(t *testing.T) {
	var buf bytes.Buffer
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	sh := NewSwappableHandler(slog.NewTextHandler(&buf, opts))

	ctx := context.Background()

	if sh.Enabled(ctx, slog.LevelDebug) {
		t.Error("Enabled(Debug) = true, want false at Info level")
	}
	if !sh.Enabled(ctx, slog.LevelInfo) {
		t.Error("Enabled(Info) = false, want true at Info level")
	}
}

func TestSwappableHandler_Swap(t *testing.T) {
	var first bytes.Buffer
	var second bytes.Buffer

	sh := NewSwappableHandler(slog.NewTextHandler(&first, nil))
	logger := slog.New(sh)

	logger.Info("before swap")
	sh.Swap(slog.NewTextHandler(&second, nil))
	logger.Info("after swap")

	if !strings.Contains(first.String(), "before swap") {
		t.Errorf("first buffer missing pre-swap record: %q", first.String())
	}
	if strings.Contains(first.String(), "after swap") {
		t.Errorf("first buffer received post-swap record: %q", first.String())
	}
	if !strings.Contains(second.String(), "after swap") {
		t.Errorf("second buffer missing post-swap record: %q", second.String())
	}
}

func TestSwappableHandler_WithAttrs(t *testing.T) {
	var buf bytes.Buffer
	sh := NewSwappableHandler(slog.NewTextHandler(&buf, nil))

	logger := slog.New(sh).With("job_id", "9251426")
	logger.Info("tailing")

	if !strings.Contains(buf.String(), "job_id=9251426") {
		t.Errorf("record missing attribute: %q", buf.String())
	}
}
