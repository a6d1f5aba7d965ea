package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	// validate is a singleton validator instance
	validate *validator.Validate

	// MaxIDLength is the longest name EPANET accepts for a node, link,
	// curve or pattern.
	MaxIDLength = 31
)

var ErrInvalidID = errors.New("invalid ID")

func init() {
	validate = validator.New()
}

// Struct validates a struct using its `validate` tags.
func Struct(v any) error {
	if v == nil {
		return errors.New("value cannot be nil")
	}
	if err := validate.Struct(v); err != nil {
		return formatValidationError(err)
	}
	return nil
}

// ValidateID checks that name can be written as a single INP token.
func ValidateID(name string) error {
	if name == "" {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidID)
	}
	if len(name) > MaxIDLength {
		return fmt.Errorf("%w: %q exceeds maximum length of %d characters", ErrInvalidID, name, MaxIDLength)
	}
	if strings.ContainsAny(name, " \t\r\n;\"") {
		return fmt.Errorf("%w: %q contains whitespace, quote or semicolon", ErrInvalidID, name)
	}
	return nil
}

// formatValidationError converts validator errors to a more user-friendly format
func formatValidationError(err error) error {
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	// Return the first validation error in a user-friendly format
	for _, e := range validationErrs {
		field := e.Namespace()
		param := e.Param()

		switch e.Tag() {
		case "required":
			return fmt.Errorf("%s: field is required", field)
		case "min", "gte":
			return fmt.Errorf("%s: must be at least %s", field, param)
		case "max", "lte":
			return fmt.Errorf("%s: must not exceed %s", field, param)
		case "gt":
			return fmt.Errorf("%s: must be greater than %s", field, param)
		case "oneof":
			return fmt.Errorf("%s: must be one of [%s], got %v", field, param, e.Value())
		default:
			return fmt.Errorf("%s: validation failed (%s)", field, e.Tag())
		}
	}

	return err
}
