package logx

import (
	"bytes"
	"encoding/json"
	"testing"
)

func TestNewJSONRespectsLevel(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := New(&buf, Config{})
	logger.Debug().Msg("hidden")
	logger.Info().Str("pipeline", "forecast_pipeline").Msg("pipeline finished")

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	if len(lines) != 1 {
		t.Fatalf("expected one line at info level, got %d: %s", len(lines), buf.String())
	}
	var entry map[string]any
	if err := json.Unmarshal(lines[0], &entry); err != nil {
		t.Fatalf("decode log line: %v", err)
	}
	if entry["pipeline"] != "forecast_pipeline" || entry["level"] != "info" {
		t.Fatalf("unexpected entry: %v", entry)
	}
	if _, ok := entry["caller"]; !ok {
		t.Fatalf("expected caller field: %v", entry)
	}
}

func TestNewDebugLevel(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := New(&buf, Config{Debug: true})
	logger.Debug().Msg("stage started")
	if !bytes.Contains(buf.Bytes(), []byte("stage started")) {
		t.Fatalf("expected debug line, got %q", buf.String())
	}
}
