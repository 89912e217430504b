package utils

import (
	"github.com/pkg/errors"
)

// NewConfigValidationError returns a config validation error
// occurring at a given path.
func NewConfigValidationError(path string, err error) error {
	return errors.Wrapf(err, "error validating %q", path)
}

// NewConfigValidationFieldRequiredError returns a config validation
// error for a field missing at a given path.
func NewConfigValidationFieldRequiredError(path, field string) error {
	return NewConfigValidationError(path, errors.Errorf("%q is required", field))
}

// NewConfigValidationPositiveFieldError returns a config validation
// error for a numeric field that must be strictly positive.
func NewConfigValidationPositiveFieldError(path, field string, value float64) error {
	return NewConfigValidationError(path, errors.Errorf("%q must be positive, got %v", field, value))
}
