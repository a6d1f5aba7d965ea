package network

import (
	"errors"
	"fmt"
)

// Common sentinel errors
var (
	ErrDuplicateName     = errors.New("duplicate name")
	ErrMissingReference  = errors.New("missing reference")
	ErrNotFound          = errors.New("not found")
	ErrInUse             = errors.New("still referenced")
	ErrCurveTypeConflict = errors.New("curve type conflict")
	ErrInvalidValue      = errors.New("invalid value")
)

// NetworkError provides structured error information for model operations.
type NetworkError struct {
	Op      string // Operation that failed (e.g., "add", "remove")
	Entity  string // Entity kind (e.g., "junction", "pipe", "curve")
	Name    string // Entity name
	Ref     string // Referenced name, for reference and in-use errors
	Cause   error  // Underlying error
	Context string // Additional context
}

// Error implements the error interface.
func (e *NetworkError) Error() string {
	msg := fmt.Sprintf("%s %s %q", e.Op, e.Entity, e.Name)
	if e.Ref != "" {
		msg += fmt.Sprintf(" (%s)", e.Ref)
	}
	if e.Context != "" {
		msg += ": " + e.Context
	}
	return fmt.Sprintf("%s: %v", msg, e.Cause)
}

// Unwrap returns the underlying cause for error chain support.
func (e *NetworkError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target error matches this error's cause.
func (e *NetworkError) Is(target error) bool {
	if target == nil {
		return false
	}
	return errors.Is(e.Cause, target)
}

// ErrorBuilder provides a fluent interface for building NetworkErrors.
type ErrorBuilder struct {
	err NetworkError
}

// NewError creates a new error builder with the given operation.
func NewError(op string) *ErrorBuilder {
	return &ErrorBuilder{err: NetworkError{Op: op}}
}

// Entity sets the entity kind and name.
func (b *ErrorBuilder) Entity(kind, name string) *ErrorBuilder {
	b.err.Entity = kind
	b.err.Name = name
	return b
}

// Ref records the name the entity points at.
func (b *ErrorBuilder) Ref(kind, name string) *ErrorBuilder {
	b.err.Ref = fmt.Sprintf("%s %q", kind, name)
	return b
}

// Context sets additional context information.
func (b *ErrorBuilder) Context(format string, args ...any) *ErrorBuilder {
	b.err.Context = fmt.Sprintf(format, args...)
	return b
}

// Cause sets the underlying error cause.
func (b *ErrorBuilder) Cause(err error) *ErrorBuilder {
	b.err.Cause = err
	return b
}

// Err returns the error as an error interface.
func (b *ErrorBuilder) Err() error {
	return &b.err
}

func duplicateError(kind, name string) error {
	return NewError("add").Entity(kind, name).Cause(ErrDuplicateName).Err()
}

func referenceError(kind, name, refKind, ref string) error {
	return NewError("add").Entity(kind, name).Ref(refKind, ref).Cause(ErrMissingReference).Err()
}

func notFoundError(kind, name string) error {
	return NewError("get").Entity(kind, name).Cause(ErrNotFound).Err()
}

// IsNotFound reports whether err is a lookup failure.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsDuplicate reports whether err is a name collision.
func IsDuplicate(err error) bool {
	return errors.Is(err, ErrDuplicateName)
}

// IsMissingReference reports whether err is a dangling reference.
func IsMissingReference(err error) bool {
	return errors.Is(err, ErrMissingReference)
}
