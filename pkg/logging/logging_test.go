package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected Level
	}{
		{"debug", LevelDebug},
		{"info", LevelInfo},
		{"warn", LevelWarn},
		{"warning", LevelWarn},
		{"error", LevelError},

		{"DEBUG", LevelDebug},
		{"WARNING", LevelWarn},
		{"Error", LevelError},
		{" dEbUg ", LevelDebug},

		{"", LevelInfo},
		{"trace", LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseLevel(tt.input); got != tt.expected {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input    string
		expected Format
	}{
		{"json", FormatJSON},
		{"Json", FormatJSON},
		{"text", FormatText},
		{"", FormatText},
		{"yaml", FormatText},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseFormat(tt.input); got != tt.expected {
				t.Errorf("ParseFormat(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestNew_JSONWithComponent(t *testing.T) {
	var buf bytes.Buffer
	logger := Component(New(Config{Level: LevelDebug, Format: FormatJSON, Output: &buf}), "monitor")
	logger.Debug("probe", "attempt", 1)

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("output is not JSON: %v (%q)", err, buf.String())
	}
	if rec[ComponentKey] != "monitor" {
		t.Errorf("component = %v, want monitor", rec[ComponentKey])
	}
	if rec["msg"] != "probe" {
		t.Errorf("msg = %v, want probe", rec["msg"])
	}
}

func TestNew_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: LevelWarn, Output: &buf})
	logger.Info("hidden")
	logger.Warn("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") || !strings.Contains(out, "shown") {
		t.Errorf("unexpected output %q", out)
	}
}

func TestComponent_NilLogger(t *testing.T) {
	Component(nil, "x").Info("discarded")
}

func TestRecorder(t *testing.T) {
	rec, logger := NewRecorder()
	Component(logger, "dispatch").Warn("dropped", "signature", "a.B#c()")
	logger.Debug("noise")

	entries := rec.Entries()
	if len(entries) != 2 {
		t.Fatalf("len(entries) = %d, want 2", len(entries))
	}
	if entries[0].Attrs[ComponentKey] != "dispatch" || entries[0].Attrs["signature"] != "a.B#c()" {
		t.Errorf("attrs = %v", entries[0].Attrs)
	}
	if got := rec.Messages(LevelWarn); len(got) != 1 || got[0] != "dropped" {
		t.Errorf("Messages(warn) = %v", got)
	}
}
