package models

import (
	"errors"

	"github.com/pantrypal/pantrypal/pkg/validate"
)

// ValidationError carries per-field messages for an entity that failed
// validation at construction or mutation time.
type ValidationError struct {
	Fields validate.Errors
}

func (e *ValidationError) Error() string {
	return "validation failed: " + e.Fields.Error()
}

// AsValidationError unwraps err into a *ValidationError when it is one.
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

// check validates v and wraps any failures in a *ValidationError.
func check(v interface{}) error {
	if errs := validate.Struct(v); validate.HasErrors(errs) {
		return &ValidationError{Fields: errs}
	}
	return nil
}
