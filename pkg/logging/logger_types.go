// Package logging is the structured logger shared by the codecs and the
// command line tool. Entries are single JSON objects, one per line.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// Level represents a log level
type Level int

const (
	DebugLevel Level = iota
	InfoLevel
	WarnLevel
	// ErrorLevel is used for data the codecs had to drop or could not trust.
	ErrorLevel
)

// EnvLevel names the environment variable read by LevelFromEnv.
const EnvLevel = "LOG_LEVEL"

// String returns the upper-case level name used in log output.
func (l Level) String() string {
	switch l {
	case DebugLevel:
		return "DEBUG"
	case InfoLevel:
		return "INFO"
	case WarnLevel:
		return "WARN"
	case ErrorLevel:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// LookupLevel resolves a level name, ignoring case. WARNING is accepted for
// WARN.
func LookupLevel(s string) (Level, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return DebugLevel, nil
	case "INFO":
		return InfoLevel, nil
	case "WARN", "WARNING":
		return WarnLevel, nil
	case "ERROR":
		return ErrorLevel, nil
	}
	return InfoLevel, fmt.Errorf("logging: unknown level %q", s)
}

// ParseLevel is LookupLevel with unknown names mapped to InfoLevel.
func ParseLevel(s string) Level {
	l, _ := LookupLevel(s)
	return l
}

// LevelFromEnv returns the level named by LOG_LEVEL, or def when the
// variable is unset or empty.
func LevelFromEnv(def Level) (Level, error) {
	v := os.Getenv(EnvLevel)
	if v == "" {
		return def, nil
	}
	return LookupLevel(v)
}

// MarshalText encodes the level as its lower-case name.
func (l Level) MarshalText() ([]byte, error) {
	return []byte(strings.ToLower(l.String())), nil
}

// UnmarshalText decodes a level name, so levels can be set from YAML.
func (l *Level) UnmarshalText(text []byte) error {
	v, err := LookupLevel(string(text))
	if err != nil {
		return err
	}
	*l = v
	return nil
}

// Field represents a key-value pair for structured logging
type Field struct {
	Key   string
	Value any
}

// Logger is the interface for structured logging
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
	// With returns a child logger that adds fields to every entry.
	With(fields ...Field) Logger
	// Enabled reports whether entries at level are written.
	Enabled(level Level) bool
}

// sink is the destination shared by a JSONLogger and all its children, so
// lines from sibling loggers never interleave.
type sink struct {
	mu  sync.Mutex
	w   io.Writer
	now func() time.Time
}

// JSONLogger implements Logger with JSON output
type JSONLogger struct {
	out    *sink
	level  Level
	fields []Field
}

// NopLogger is a logger that does nothing
type NopLogger struct{}

func (NopLogger) Debug(string, ...Field)   {}
func (NopLogger) Info(string, ...Field)    {}
func (NopLogger) Warn(string, ...Field)    {}
func (NopLogger) Error(string, ...Field)   {}
func (n NopLogger) With(...Field) Logger   { return n }
func (NopLogger) Enabled(level Level) bool { return false }

// NewNopLogger creates a logger that discards all output
func NewNopLogger() Logger {
	return NopLogger{}
}

// TimedOperation helps measure operation duration
type TimedOperation struct {
	logger Logger
	msg    string
	start  time.Time
	fields []Field
}
