package logging

import "time"

func String(key, value string) Field          { return Field{Key: key, Value: value} }
func Int(key string, value int) Field         { return Field{Key: key, Value: value} }
func Float64(key string, value float64) Field { return Field{Key: key, Value: value} }
func Bool(key string, value bool) Field       { return Field{Key: key, Value: value} }

// Duration records d in its String form so entries stay human readable.
func Duration(key string, d time.Duration) Field {
	return Field{Key: key, Value: d.String()}
}

// Error records err's message under "error". A nil error records null.
func Error(err error) Field {
	if err == nil {
		return Field{Key: "error", Value: nil}
	}
	return Field{Key: "error", Value: err.Error()}
}

// Keys for network elements and input positions.
const (
	KeyComponent = "component"
	KeySession   = "session"
	KeyOperation = "operation"
	KeyNode      = "node"
	KeyLink      = "link"
	KeyCurve     = "curve"
	KeyControl   = "control"
	KeySection   = "section"
	KeyFile      = "file"
	KeyLine      = "line"
	KeyPath      = "path"
	KeyCount     = "count"
	KeyLatency   = "latency"
)

func Component(name string) Field { return String(KeyComponent, name) }
func Session(id string) Field     { return String(KeySession, id) }
func Operation(op string) Field   { return String(KeyOperation, op) }

// Node names a junction, reservoir or tank.
func Node(name string) Field { return String(KeyNode, name) }

// Link names a pipe, pump or valve.
func Link(name string) Field    { return String(KeyLink, name) }
func Curve(name string) Field   { return String(KeyCurve, name) }
func Control(name string) Field { return String(KeyControl, name) }

// Section names an INP section without its brackets.
func Section(name string) Field { return String(KeySection, name) }
func File(path string) Field    { return String(KeyFile, path) }

// Line is a 1-based line number in an input file.
func Line(n int) Field              { return Int(KeyLine, n) }
func Path(p string) Field           { return String(KeyPath, p) }
func Count(n int) Field             { return Int(KeyCount, n) }
func Latency(d time.Duration) Field { return Duration(KeyLatency, d) }
