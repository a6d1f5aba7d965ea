package logging

import (
	"encoding/json"
	"fmt"
	"io"
	"time"
)

// Keys every entry carries. Fields using one of them are written with a
// "field." prefix instead.
const (
	keyTime    = "time"
	keyLevel   = "level"
	keyMessage = "msg"
)

// NewJSONLogger creates a logger writing entries at or above level to w.
func NewJSONLogger(w io.Writer, level Level) *JSONLogger {
	return &JSONLogger{
		out:   &sink{w: w, now: time.Now},
		level: level,
	}
}

func (l *JSONLogger) log(level Level, msg string, fields []Field) {
	if level < l.level {
		return
	}

	entry := make(map[string]any, 3+len(l.fields)+len(fields))
	put := func(f Field) {
		switch f.Key {
		case keyTime, keyLevel, keyMessage:
			entry["field."+f.Key] = f.Value
		default:
			entry[f.Key] = f.Value
		}
	}
	for _, f := range l.fields {
		put(f)
	}
	for _, f := range fields {
		put(f)
	}
	entry[keyTime] = l.out.now().UTC().Format(time.RFC3339Nano)
	entry[keyLevel] = level.String()
	entry[keyMessage] = msg

	data, err := json.Marshal(entry)
	if err != nil {
		data = fmt.Appendf(nil, `{"level":"ERROR","msg":"unencodable log entry","error":%q}`, err.Error())
	}
	data = append(data, '\n')

	l.out.mu.Lock()
	defer l.out.mu.Unlock()
	_, _ = l.out.w.Write(data)
}

// Debug logs a debug-level message
func (l *JSONLogger) Debug(msg string, fields ...Field) { l.log(DebugLevel, msg, fields) }

// Info logs an info-level message
func (l *JSONLogger) Info(msg string, fields ...Field) { l.log(InfoLevel, msg, fields) }

// Warn logs a warning-level message
func (l *JSONLogger) Warn(msg string, fields ...Field) { l.log(WarnLevel, msg, fields) }

// Error logs an error-level message
func (l *JSONLogger) Error(msg string, fields ...Field) { l.log(ErrorLevel, msg, fields) }

// Enabled reports whether level passes the logger's threshold.
func (l *JSONLogger) Enabled(level Level) bool { return level >= l.level }

// With returns a child writing to the same destination with fields added.
func (l *JSONLogger) With(fields ...Field) Logger {
	merged := make([]Field, 0, len(l.fields)+len(fields))
	merged = append(merged, l.fields...)
	merged = append(merged, fields...)
	return &JSONLogger{out: l.out, level: l.level, fields: merged}
}

// StartTimer begins timing an operation
func StartTimer(logger Logger, msg string, fields ...Field) *TimedOperation {
	return &TimedOperation{
		logger: logger,
		msg:    msg,
		start:  time.Now(),
		fields: fields,
	}
}

func (t *TimedOperation) withLatency(extra ...Field) []Field {
	out := make([]Field, 0, len(t.fields)+1+len(extra))
	out = append(out, t.fields...)
	out = append(out, Latency(time.Since(t.start)))
	return append(out, extra...)
}

// End logs the operation at info level with its duration.
func (t *TimedOperation) End(extra ...Field) {
	t.logger.Info(t.msg, t.withLatency(extra...)...)
}

// EndError logs the operation as an error with its duration
func (t *TimedOperation) EndError(err error) {
	t.logger.Error(t.msg, t.withLatency(Error(err))...)
}
