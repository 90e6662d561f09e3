package logger_i

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func newCapturedLogger(t *testing.T, section string) (*Logger, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	return NewLogger(section), &buf
}

func TestNewLoggerCarriesComponent(t *testing.T) {
	l, buf := newCapturedLogger(t, "worker")

	l.Info("hello")
	if !strings.Contains(buf.String(), "component=worker") {
		t.Errorf("expected component field, got %q", buf.String())
	}
}

func TestWithReturnsLoggerCarryingFields(t *testing.T) {
	l, buf := newCapturedLogger(t, "worker")

	log := l.With("traceId", "t-1")
	log.Debug("processing")
	if !strings.Contains(buf.String(), "traceId=t-1") {
		t.Errorf("expected traceId on derived logger, got %q", buf.String())
	}

	buf.Reset()
	l.Debug("processing")
	if strings.Contains(buf.String(), "traceId") {
		t.Errorf("base logger should not carry traceId, got %q", buf.String())
	}
}
