package inp

import (
	"errors"
	"fmt"

	"github.com/dd0wney/cluso-epanet/pkg/network"
)

// Structural errors
var (
	ErrUnknownSection       = errors.New("unknown section")
	ErrOutsideSection       = errors.New("data outside any section")
	ErrFieldCount           = errors.New("unexpected number of fields")
	ErrBadNumber            = errors.New("invalid number")
	ErrBadTime              = errors.New("invalid time")
	ErrBadKeyword           = errors.New("unexpected keyword")
	ErrUnsupportedCondition = errors.New("unsupported condition")
	ErrIncompleteRule       = errors.New("incomplete rule")
)

// ParseError locates a read failure in its source file.
type ParseError struct {
	File    string
	Line    int
	Section string
	Cause   error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	loc := e.File
	if e.Line > 0 {
		loc = fmt.Sprintf("%s:%d", e.File, e.Line)
	}
	if e.Section != "" {
		return fmt.Sprintf("%s [%s]: %v", loc, e.Section, e.Cause)
	}
	return fmt.Sprintf("%s: %v", loc, e.Cause)
}

// Unwrap returns the underlying cause for error chain support.
func (e *ParseError) Unwrap() error {
	return e.Cause
}

func fieldCountError(got int, want string) error {
	return fmt.Errorf("%w: got %d, want %s", ErrFieldCount, got, want)
}

// referenceError reports a record naming an entity the model lacks.
func referenceError(section, kind, name string) error {
	return network.NewError("read").Entity("section", section).Ref(kind, name).
		Cause(network.ErrMissingReference).Err()
}

// asReference turns a lookup failure into a reference error.
func asReference(err error, section, kind, name string) error {
	if network.IsNotFound(err) {
		return referenceError(section, kind, name)
	}
	return err
}
