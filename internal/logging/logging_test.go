package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/gometeo/tripview/internal/config"
)

func TestProductionLoggerWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, config.Config{Env: "production", LogLevel: "info"})

	logger.Debug("hidden")
	logger.Info("search finished", "city", "Kyoto")

	line := strings.TrimSpace(buf.String())
	if strings.Contains(line, "hidden") {
		t.Fatalf("debug record leaked at info level: %s", line)
	}
	var rec map[string]any
	if err := json.Unmarshal([]byte(line), &rec); err != nil {
		t.Fatalf("not JSON: %v (%s)", err, line)
	}
	if rec["city"] != "Kyoto" {
		t.Errorf("city = %v", rec["city"])
	}
}

func TestDevelopmentLoggerIsText(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, config.Config{LogLevel: "debug"})
	logger.Debug("loading")

	if !strings.Contains(buf.String(), "loading") {
		t.Errorf("missing debug record: %q", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"WARN":    slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
