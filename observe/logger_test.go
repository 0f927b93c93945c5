package observe

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()

	var entries []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]any
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			t.Fatalf("invalid JSON log line %q: %v", line, err)
		}
		entries = append(entries, entry)
	}
	return entries
}

func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter("warn", &buf)
	ctx := context.Background()

	logger.Debug(ctx, "debug msg")
	logger.Info(ctx, "info msg")
	logger.Warn(ctx, "warn msg")
	logger.Error(ctx, "error msg")

	entries := decodeLines(t, &buf)
	if len(entries) != 2 {
		t.Fatalf("logged %d entries, want 2", len(entries))
	}
	if entries[0]["level"] != "warn" || entries[1]["level"] != "error" {
		t.Errorf("levels = %v, %v; want warn, error", entries[0]["level"], entries[1]["level"])
	}
}

func TestLogger_Fields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter("info", &buf)

	logger.Info(context.Background(), "retrying",
		Field{Key: "attempt", Value: 2},
		Field{Key: "delay", Value: "200ms"},
	)

	entries := decodeLines(t, &buf)
	if len(entries) != 1 {
		t.Fatalf("logged %d entries, want 1", len(entries))
	}
	if entries[0]["msg"] != "retrying" {
		t.Errorf("msg = %v", entries[0]["msg"])
	}
	if entries[0]["attempt"] != float64(2) {
		t.Errorf("attempt = %v, want 2", entries[0]["attempt"])
	}
	if entries[0]["delay"] != "200ms" {
		t.Errorf("delay = %v", entries[0]["delay"])
	}
	if entries[0]["timestamp"] == nil {
		t.Error("timestamp missing")
	}
}

func TestLogger_WithCall(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter("info", &buf)

	scoped := logger.WithCall(CallMeta{Service: "records-api", Operation: "fetch"})
	scoped.Info(context.Background(), "call succeeded")

	// Scoping does not leak into the parent logger.
	logger.Info(context.Background(), "unscoped")

	entries := decodeLines(t, &buf)
	if len(entries) != 2 {
		t.Fatalf("logged %d entries, want 2", len(entries))
	}
	if entries[0]["remote.service"] != "records-api" || entries[0]["remote.operation"] != "fetch" {
		t.Errorf("scoped entry = %v, missing call attributes", entries[0])
	}
	if _, ok := entries[1]["remote.service"]; ok {
		t.Error("call attributes leaked into parent logger")
	}
}

func TestLogger_Redaction(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter("info", &buf)

	logger.Info(context.Background(), "authenticating",
		Field{Key: "token", Value: "super-secret"},
		Field{Key: "endpoint", Value: "/records"},
	)

	entries := decodeLines(t, &buf)
	if entries[0]["token"] != "[REDACTED]" {
		t.Errorf("token = %v, want [REDACTED]", entries[0]["token"])
	}
	if entries[0]["endpoint"] != "/records" {
		t.Errorf("endpoint = %v, want passthrough", entries[0]["endpoint"])
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want LogLevel
	}{
		{"debug", LevelDebug},
		{"info", LevelInfo},
		{"warn", LevelWarn},
		{"error", LevelError},
		{"bogus", LevelInfo},
		{"", LevelInfo},
	}

	for _, tt := range tests {
		if got := ParseLogLevel(tt.in); got != tt.want {
			t.Errorf("ParseLogLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNopLogger(t *testing.T) {
	logger := NopLogger()
	// Must be safe to call and scope.
	logger.Info(context.Background(), "dropped")
	logger.WithCall(CallMeta{Service: "s", Operation: "o"}).Error(context.Background(), "dropped")
}
