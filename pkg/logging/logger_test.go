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
		{"debug", DebugLevel},
		{"INFO", InfoLevel},
		{"WARNING", WarnLevel},
		{"error", ErrorLevel},
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

func TestCodecFields(t *testing.T) {
	tests := []struct {
		field Field
		key   string
		value any
	}{
		{Node("J1"), "node", "J1"},
		{Link("P7"), "link", "P7"},
		{Curve("C1"), "curve", "C1"},
		{Control("control 3"), "control", "control 3"},
		{Section("PIPES"), "section", "PIPES"},
		{File("net.inp"), "file", "net.inp"},
		{Line(42), "line", 42},
		{Session("abc"), "session", "abc"},
		{Count(3), "count", 3},
		{Duration("timeout", 5*time.Second), "timeout", "5s"},
		{Error(errors.New("bad record")), "error", "bad record"},
		{Error(nil), "error", nil},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			if tt.field.Key != tt.key || tt.field.Value != tt.value {
				t.Errorf("field = %+v, want {%s %v}", tt.field, tt.key, tt.value)
			}
		})
	}
}

func TestJSONLogger_BasicLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, DebugLevel)

	logger.Warn("curve never used", Curve("C9"), Line(12))

	entry := decode(t, buf.Bytes())
	if entry["level"] != "WARN" {
		t.Errorf("level = %v, want WARN", entry["level"])
	}
	if entry["msg"] != "curve never used" {
		t.Errorf("msg = %v", entry["msg"])
	}
	if entry["curve"] != "C9" {
		t.Errorf("curve = %v, want C9", entry["curve"])
	}
	if entry["line"] != float64(12) {
		t.Errorf("line = %v, want 12", entry["line"])
	}
	if _, err := time.Parse(time.RFC3339Nano, entry["time"].(string)); err != nil {
		t.Errorf("time = %v: %v", entry["time"], err)
	}
}

func decode(t *testing.T, line []byte) map[string]any {
	t.Helper()
	var entry map[string]any
	if err := json.Unmarshal(line, &entry); err != nil {
		t.Fatalf("unmarshal %q: %v", line, err)
	}
	return entry
}

func TestJSONLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, WarnLevel)

	logger.Debug("debug")
	logger.Info("info")
	if buf.Len() != 0 {
		t.Error("Expected no output below WarnLevel")
	}

	if logger.Enabled(InfoLevel) || !logger.Enabled(ErrorLevel) {
		t.Error("Enabled disagrees with the WarnLevel threshold")
	}
	logger.Error("error")
	if buf.Len() == 0 {
		t.Error("Expected output at ErrorLevel")
	}
}

func TestJSONLogger_With(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, InfoLevel)

	child := logger.With(Component("inp"), Session("s-1"))
	child.Info("section decoded", Section("JUNCTIONS"))

	entry := decode(t, buf.Bytes())
	for key, want := range map[string]string{"component": "inp", "session": "s-1", "section": "JUNCTIONS"} {
		if entry[key] != want {
			t.Errorf("%s field = %v, want %v", key, entry[key], want)
		}
	}

	// the parent is unaffected and shares the destination
	logger.Info("parent")
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
	if _, ok := decode(t, []byte(lines[1]))["component"]; ok {
		t.Error("parent entry carries child fields")
	}
}

func TestJSONLogger_ReservedKeys(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, InfoLevel)

	logger.Info("real message", String("msg", "shadow"), String("level", "x"))

	entry := decode(t, buf.Bytes())
	if entry["msg"] != "real message" || entry["level"] != "INFO" {
		t.Errorf("reserved keys overwritten: %v", entry)
	}
	if entry["field.msg"] != "shadow" || entry["field.level"] != "x" {
		t.Errorf("shadowed fields missing: %v", entry)
	}
}

func TestLevelText(t *testing.T) {
	var l Level
	if err := l.UnmarshalText([]byte("Warning")); err != nil || l != WarnLevel {
		t.Errorf("UnmarshalText(Warning) = %v, %v", l, err)
	}
	if err := l.UnmarshalText([]byte("loud")); err == nil {
		t.Error("UnmarshalText(loud) should fail")
	}
	text, err := ErrorLevel.MarshalText()
	if err != nil || string(text) != "error" {
		t.Errorf("MarshalText() = %s, %v", text, err)
	}
}

func TestLevelFromEnv(t *testing.T) {
	t.Setenv(EnvLevel, "")
	if l, err := LevelFromEnv(WarnLevel); err != nil || l != WarnLevel {
		t.Errorf("unset: %v, %v", l, err)
	}
	t.Setenv(EnvLevel, "debug")
	if l, err := LevelFromEnv(WarnLevel); err != nil || l != DebugLevel {
		t.Errorf("debug: %v, %v", l, err)
	}
	t.Setenv(EnvLevel, "chatty")
	if _, err := LevelFromEnv(WarnLevel); err == nil {
		t.Error("unknown level should fail")
	}
}

func TestTimedOperation(t *testing.T) {
	rec := NewRecorder()

	StartTimer(rec, "read inp", File("a.inp")).End()
	StartTimer(rec, "read bin").EndError(errors.New("short file"))

	entries := rec.Entries()
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if _, ok := entries[0].Fields["latency"]; !ok {
		t.Error("End() should add a latency field")
	}
	if entries[1].Level != ErrorLevel || entries[1].Fields["error"] != "short file" {
		t.Errorf("EndError() entry = %+v", entries[1])
	}
}

func TestRecorder(t *testing.T) {
	rec := NewRecorder()
	child := rec.With(Session("abc"))

	rec.Info("start")
	child.Warn("duplicate control skipped", Control("control 1"))
	child.Error("integrity failure")

	if got := len(rec.Entries()); got != 3 {
		t.Fatalf("Entries() = %d, want 3", got)
	}
	warns := rec.AtLevel(WarnLevel)
	if len(warns) != 1 || warns[0].Fields["session"] != "abc" {
		t.Errorf("AtLevel(Warn) = %+v", warns)
	}
	if !rec.Contains(ErrorLevel, "integrity") {
		t.Error("Contains(Error, integrity) = false")
	}
	if rec.Contains(InfoLevel, "integrity") {
		t.Error("Contains(Info, integrity) = true")
	}

	quiet := rec.AtOrAbove(ErrorLevel)
	quiet.Warn("filtered")
	if quiet.Enabled(WarnLevel) {
		t.Error("Enabled(Warn) = true above ErrorLevel")
	}
	if rec.Contains(WarnLevel, "filtered") {
		t.Error("entry below level should be dropped")
	}
}

func BenchmarkJSONLogger_Info(b *testing.B) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, InfoLevel)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		logger.Info("record decoded", Section("PIPES"), Line(i))
	}
}
