package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input   string
		want    Level
		wantErr bool
	}{
		{"debug", LevelDebug, false},
		{"INFO", LevelInfo, false},
		{"", LevelInfo, false},
		{"warning", LevelWarn, false},
		{"error", LevelError, false},
		{"loud", LevelInfo, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseLevel(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLevel(%q) error = %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, LevelInfo, FormatJSON)

	logger.Debug("hidden")
	logger.Info("successfully loaded documents", "loaded", 3)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d: %q", len(lines), buf.String())
	}

	var record map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &record); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if record["msg"] != "successfully loaded documents" || record["loaded"] != float64(3) {
		t.Errorf("unexpected record %v", record)
	}
}

func TestNewText(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, LevelWarn, FormatText).Warn("multiple annotators")

	if !strings.Contains(buf.String(), "level=WARN") {
		t.Errorf("unexpected output %q", buf.String())
	}
}
