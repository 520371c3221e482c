package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestLogLevelString(t *testing.T) {
	tests := []struct {
		level    Level
		expected string
	}{
		{DebugLevel, "DEBUG"},
		{InfoLevel, "INFO"},
		{WarnLevel, "WARN"},
		{ErrorLevel, "ERROR"},
		{Level(42), "UNKNOWN"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := tt.level.String(); got != tt.expected {
				t.Errorf("Level.String() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected Level
	}{
		{"DEBUG", DebugLevel},
		{"debug", DebugLevel},
		{"info", InfoLevel},
		{"warning", WarnLevel},
		{"ERROR", ErrorLevel},
		{"invalid", InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseLevel(tt.input); got != tt.expected {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestDomainFields(t *testing.T) {
	tests := []struct {
		name  string
		field Field
		key   string
		value any
	}{
		{"patient", Patient(7), "patient", 7},
		{"arg", ARG(10), "arg_id", 10},
		{"mge", MGE(20), "mge_id", 20},
		{"timepoint", Timepoint("PostFMT_7"), "timepoint", "PostFMT_7"},
		{"stage", Stage("traverse"), "stage", "traverse"},
		{"run", RunID("abc"), "run_id", "abc"},
		{"latency", Latency(2 * time.Second), "latency", "2s"},
		{"nil error", Error(nil), "error", nil},
		{"error", Error(errors.New("boom")), "error", "boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.field.Key != tt.key || tt.field.Value != tt.value {
				t.Errorf("got %+v, want {Key:%s Value:%v}", tt.field, tt.key, tt.value)
			}
		})
	}
}

func decodeLines(t *testing.T, buf *bytes.Buffer) []LogEntry {
	t.Helper()
	var entries []LogEntry
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var e LogEntry
		if err := json.Unmarshal([]byte(line), &e); err != nil {
			t.Fatalf("invalid JSON line %q: %v", line, err)
		}
		entries = append(entries, e)
	}
	return entries
}

func TestJSONLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, WarnLevel)

	logger.Debug("skipped row")
	logger.Info("stage finished")
	logger.Warn("invalid colocalization edge", ARG(1), ARG(2))
	logger.Error("cannot open input", Path("/missing.csv"))

	entries := decodeLines(t, &buf)
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Level != "WARN" || entries[1].Level != "ERROR" {
		t.Errorf("unexpected levels: %s, %s", entries[0].Level, entries[1].Level)
	}
}

func TestJSONLogger_With(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, InfoLevel)

	child := logger.With(RunID("run-1"), Stage("build"))
	child.Info("nodes inserted", Count(12))

	entries := decodeLines(t, &buf)
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	f := entries[0].Fields
	if f["run_id"] != "run-1" || f["stage"] != "build" {
		t.Errorf("pre-set fields missing: %v", f)
	}
	if f["count"] != float64(12) {
		t.Errorf("count = %v, want 12", f["count"])
	}
}

func TestJSONLogger_NoFieldsOmitted(t *testing.T) {
	var buf bytes.Buffer
	NewJSONLogger(&buf, InfoLevel).Info("plain")

	if strings.Contains(buf.String(), `"fields"`) {
		t.Errorf("expected fields to be omitted, got %s", buf.String())
	}
}

func TestJSONLogger_SetLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, ErrorLevel)
	logger.Info("hidden")
	logger.SetLevel(DebugLevel)
	logger.Debug("visible")

	if logger.GetLevel() != DebugLevel {
		t.Errorf("GetLevel() = %v, want DEBUG", logger.GetLevel())
	}
	if entries := decodeLines(t, &buf); len(entries) != 1 || entries[0].Message != "visible" {
		t.Errorf("unexpected entries: %+v", entries)
	}
}

func TestRecorder(t *testing.T) {
	rec := NewRecorder(InfoLevel)
	rec.Debug("dropped")
	rec.With(Stage("traverse")).Warn("invalid edge", ARG(3))
	rec.Info("done")

	if got := rec.Count(WarnLevel); got != 1 {
		t.Fatalf("warn count = %d, want 1", got)
	}
	entries := rec.Entries()
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Fields["stage"] != "traverse" || entries[0].Fields["arg_id"] != 3 {
		t.Errorf("fields = %v", entries[0].Fields)
	}
}

func TestTimedOperation(t *testing.T) {
	rec := NewRecorder(DebugLevel)
	op := StartTimer(rec, "graph built", Stage("build"))
	if d := op.End(Count(5)); d < 0 {
		t.Errorf("negative duration %v", d)
	}
	op.EndError(errors.New("failed"))

	entries := rec.Entries()
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if _, ok := entries[0].Fields["latency"]; !ok {
		t.Error("latency field missing")
	}
	if entries[1].Level != ErrorLevel || entries[1].Fields["error"] != "failed" {
		t.Errorf("unexpected error entry %+v", entries[1])
	}
}

func BenchmarkJSONLogger_Info(b *testing.B) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, InfoLevel)
	for i := 0; i < b.N; i++ {
		logger.Info("colocalization added", Patient(i), ARG(1), MGE(2))
	}
}
