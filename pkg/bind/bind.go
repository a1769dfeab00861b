// Package bind decodes and validates an HTTP request body into a struct.
package bind

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/pantrypal/pantrypal/config"
	"github.com/pantrypal/pantrypal/pkg/validate"
)

// JSON decodes r.Body into dest and runs validation. Unknown fields,
// trailing data and bodies over MAX_BODY_BYTES are rejected.
// Returns (errs, nil) when there are validation failures.
// Returns (nil, err) when the body cannot be decoded.
func JSON(r *http.Request, dest interface{}) (validate.Errors, error) {
	r.Body = http.MaxBytesReader(nil, r.Body, config.MaxBodyBytes())

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dest); err != nil {
		return nil, describe(err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return nil, errors.New("request body must contain a single JSON object")
	}

	if errs := validate.Struct(dest); validate.HasErrors(errs) {
		return errs, nil
	}
	return nil, nil
}

func describe(err error) error {
	var (
		maxErr    *http.MaxBytesError
		syntaxErr *json.SyntaxError
		typeErr   *json.UnmarshalTypeError
	)
	switch {
	case errors.Is(err, io.EOF):
		return errors.New("request body must not be empty")
	case errors.As(err, &maxErr):
		return fmt.Errorf("request body too large (max %d bytes)", maxErr.Limit)
	case errors.As(err, &syntaxErr):
		return fmt.Errorf("invalid JSON at offset %d", syntaxErr.Offset)
	case errors.As(err, &typeErr):
		return fmt.Errorf("field %q must be %s", typeErr.Field, typeErr.Type)
	case strings.HasPrefix(err.Error(), "json: unknown field "):
		return fmt.Errorf("unknown field %s", strings.TrimPrefix(err.Error(), "json: unknown field "))
	}
	return fmt.Errorf("invalid request body: %w", err)
}
