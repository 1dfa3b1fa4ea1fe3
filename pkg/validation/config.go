package validation

import (
	"errors"
	"fmt"
)

// ConfigValidator collects violations in service configuration structs
// instead of failing on the first one.
type ConfigValidator struct {
	name string
	errs []error
}

// NewConfigValidator creates a validator for the named config struct.
func NewConfigValidator(name string) *ConfigValidator {
	return &ConfigValidator{name: name}
}

// Required flags an empty string field.
func (cv *ConfigValidator) Required(field, value string) *ConfigValidator {
	if value == "" {
		cv.errs = append(cv.errs, fmt.Errorf("%s.%s: required field is empty", cv.name, field))
	}
	return cv
}

// RangeInt flags an int field outside [min, max].
func (cv *ConfigValidator) RangeInt(field string, value, min, max int) *ConfigValidator {
	if value < min || value > max {
		cv.errs = append(cv.errs, fmt.Errorf("%s.%s: value %d is outside range [%d, %d]", cv.name, field, value, min, max))
	}
	return cv
}

// Positive flags a non-positive int field.
func (cv *ConfigValidator) Positive(field string, value int) *ConfigValidator {
	if value <= 0 {
		cv.errs = append(cv.errs, fmt.Errorf("%s.%s: value %d must be positive", cv.name, field, value))
	}
	return cv
}

// HasErrors reports whether any check failed.
func (cv *ConfigValidator) HasErrors() bool { return len(cv.errs) > 0 }

// Err returns all collected violations joined, or nil.
func (cv *ConfigValidator) Err() error {
	if len(cv.errs) == 0 {
		return nil
	}
	return errors.Join(cv.errs...)
}
