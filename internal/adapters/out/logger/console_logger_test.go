package logger

import (
	"bytes"
	"strings"
	"testing"

	"github.com/suchimauz/availability-booking-engine/internal/core/ports/out"
)

func TestConsoleLogger_FiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	l := NewConsoleLogger("UTC", "WARN")
	l.SetOutput(&buf)

	l.Info("store.load.started", nil)
	if buf.Len() != 0 {
		t.Fatalf("expected info to be filtered, got %q", buf.String())
	}

	l.Error("store.load.failed", out.LogFields{"error": "boom"})
	if !strings.Contains(buf.String(), "store.load.failed") || !strings.Contains(buf.String(), "boom") {
		t.Fatalf("expected error line, got %q", buf.String())
	}
}

func TestConsoleLogger_WithFieldsDoesNotLeak(t *testing.T) {
	var buf bytes.Buffer
	base := NewConsoleLogger("Europe/Moscow", "DEBUG")
	base.SetOutput(&buf)

	child := base.WithModule("Store").WithFields(out.LogFields{"userKey": "u1"})
	child.Debug("store.init", nil)
	if !strings.Contains(buf.String(), "[Store]") || !strings.Contains(buf.String(), "u1") {
		t.Fatalf("expected module and field in output, got %q", buf.String())
	}

	buf.Reset()
	base.Debug("other", nil)
	if strings.Contains(buf.String(), "u1") {
		t.Fatalf("child fields leaked into parent: %q", buf.String())
	}
	if !strings.Contains(buf.String(), "[unknown]") {
		t.Fatalf("expected default module, got %q", buf.String())
	}
}
