package logging

import (
	"strings"
	"sync"
)

// RecordedEntry is one message captured by a Recorder.
type RecordedEntry struct {
	Level   Level
	Message string
	Fields  map[string]any
}

// Recorder is a Logger that keeps entries in memory. Child loggers created
// with With share the parent's entry list.
type Recorder struct {
	shared *recorderState
	level  Level
	fields []Field
}

type recorderState struct {
	mu      sync.Mutex
	entries []RecordedEntry
}

// NewRecorder creates a Recorder that captures every level.
func NewRecorder() *Recorder {
	return &Recorder{shared: &recorderState{}, level: DebugLevel}
}

func (r *Recorder) record(level Level, msg string, fields []Field) {
	if level < r.level {
		return
	}
	m := make(map[string]any, len(r.fields)+len(fields))
	for _, f := range r.fields {
		m[f.Key] = f.Value
	}
	for _, f := range fields {
		m[f.Key] = f.Value
	}

	r.shared.mu.Lock()
	defer r.shared.mu.Unlock()
	r.shared.entries = append(r.shared.entries, RecordedEntry{Level: level, Message: msg, Fields: m})
}

func (r *Recorder) Debug(msg string, fields ...Field) { r.record(DebugLevel, msg, fields) }
func (r *Recorder) Info(msg string, fields ...Field)  { r.record(InfoLevel, msg, fields) }
func (r *Recorder) Warn(msg string, fields ...Field)  { r.record(WarnLevel, msg, fields) }
func (r *Recorder) Error(msg string, fields ...Field) { r.record(ErrorLevel, msg, fields) }

// With returns a child recorder sharing the same entry list.
func (r *Recorder) With(fields ...Field) Logger {
	merged := make([]Field, 0, len(r.fields)+len(fields))
	merged = append(merged, r.fields...)
	merged = append(merged, fields...)
	return &Recorder{shared: r.shared, level: r.level, fields: merged}
}

// Enabled reports whether the recorder keeps entries at level.
func (r *Recorder) Enabled(level Level) bool { return level >= r.level }

// AtOrAbove returns a recorder sharing r's entry list that drops entries
// below level.
func (r *Recorder) AtOrAbove(level Level) *Recorder {
	return &Recorder{shared: r.shared, level: level, fields: r.fields}
}

// Entries returns a copy of everything recorded so far.
func (r *Recorder) Entries() []RecordedEntry {
	r.shared.mu.Lock()
	defer r.shared.mu.Unlock()
	out := make([]RecordedEntry, len(r.shared.entries))
	copy(out, r.shared.entries)
	return out
}

// AtLevel returns the entries logged at exactly level.
func (r *Recorder) AtLevel(level Level) []RecordedEntry {
	var out []RecordedEntry
	for _, e := range r.Entries() {
		if e.Level == level {
			out = append(out, e)
		}
	}
	return out
}

// Contains reports whether any entry at level has a message containing substr.
func (r *Recorder) Contains(level Level, substr string) bool {
	for _, e := range r.AtLevel(level) {
		if strings.Contains(e.Message, substr) {
			return true
		}
	}
	return false
}
