package validation

import (
	"cmp"
	"errors"
	"fmt"
	"math"
)

// FieldError is one failed check, naming the option block and field.
type FieldError struct {
	Block string
	Field string
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s.%s: %v", e.Block, e.Field, e.Err)
}

func (e *FieldError) Unwrap() error { return e.Err }

// ConfigValidator chains checks over an option block and reports every
// failure together.
type ConfigValidator struct {
	block string
	errs  []error
}

// NewConfigValidator starts a chain for the named block. The name prefixes
// every field in the resulting errors.
func NewConfigValidator(block string) *ConfigValidator {
	return &ConfigValidator{block: block}
}

func (cv *ConfigValidator) fail(field string, err error) *ConfigValidator {
	cv.errs = append(cv.errs, &FieldError{Block: cv.block, Field: field, Err: err})
	return cv
}

func (cv *ConfigValidator) failf(field, format string, args ...any) *ConfigValidator {
	return cv.fail(field, fmt.Errorf(format, args...))
}

func (cv *ConfigValidator) Required(field, value string) *ConfigValidator {
	if value == "" {
		return cv.failf(field, "required")
	}
	return cv
}

func (cv *ConfigValidator) Positive(field string, value int) *ConfigValidator {
	if value <= 0 {
		return cv.failf(field, "%d is not positive", value)
	}
	return cv
}

func (cv *ConfigValidator) NonNegative(field string, value int) *ConfigValidator {
	if value < 0 {
		return cv.failf(field, "%d is negative", value)
	}
	return cv
}

// PositiveFloat rejects zero, negatives and NaN.
func (cv *ConfigValidator) PositiveFloat(field string, value float64) *ConfigValidator {
	if !(value > 0) {
		return cv.failf(field, "%g is not positive", value)
	}
	return cv
}

// RangeFloat requires lo <= value <= hi. NaN is out of every range.
func (cv *ConfigValidator) RangeFloat(field string, value, lo, hi float64) *ConfigValidator {
	if math.IsNaN(value) || value < lo || value > hi {
		return cv.failf(field, "%g outside [%g, %g]", value, lo, hi)
	}
	return cv
}

// AtLeast requires one duration or count not to fall below another, such as
// the report step against the hydraulic step.
func (cv *ConfigValidator) AtLeast(field string, value int, otherField string, other int) *ConfigValidator {
	if value < other {
		return cv.failf(field, "%d is below %s (%d)", value, otherField, other)
	}
	return cv
}

// MultipleOf requires value to be a whole number of steps. A non-positive
// step is not checked.
func (cv *ConfigValidator) MultipleOf(field string, value int, stepField string, step int) *ConfigValidator {
	if step > 0 && value%step != 0 {
		return cv.failf(field, "%d is not a multiple of %s (%d)", value, stepField, step)
	}
	return cv
}

func (cv *ConfigValidator) OneOf(field, value string, allowed []string) *ConfigValidator {
	for _, a := range allowed {
		if value == a {
			return cv
		}
	}
	return cv.failf(field, "%q is not one of %v", value, allowed)
}

// Custom records the error fn returns, wrapped so errors.Is still matches it.
func (cv *ConfigValidator) Custom(field string, fn func() error) *ConfigValidator {
	if err := fn(); err != nil {
		return cv.fail(field, err)
	}
	return cv
}

// When runs checks only if cond holds, for fields that matter in one mode.
func (cv *ConfigValidator) When(cond bool, checks func(*ConfigValidator)) *ConfigValidator {
	if cond {
		checks(cv)
	}
	return cv
}

func (cv *ConfigValidator) HasErrors() bool { return len(cv.errs) > 0 }

func (cv *ConfigValidator) Errors() []error { return cv.errs }

// Validate returns nil, the single failure, or all failures joined.
func (cv *ConfigValidator) Validate() error {
	switch len(cv.errs) {
	case 0:
		return nil
	case 1:
		return cv.errs[0]
	}
	return fmt.Errorf("%s: %d errors: %w", cv.block, len(cv.errs), errors.Join(cv.errs...))
}

// Clamp bounds v to [lo, hi].
func Clamp[T cmp.Ordered](v, lo, hi T) T {
	return min(max(v, lo), hi)
}
