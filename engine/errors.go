package engine

import (
	"errors"
	"fmt"
)

// ErrDataUnavailable is returned when a dataset cannot be loaded: missing or
// unreadable file, no header, missing required columns, or no data rows.
var ErrDataUnavailable = errors.New("data unavailable")

// ErrUnknownField is returned when an operation names a column that is not in
// the view's schema.
var ErrUnknownField = errors.New("unknown field")

// UnknownFieldError reports which field was missing.
type UnknownFieldError struct {
	Field string
}

func (e *UnknownFieldError) Error() string {
	return fmt.Sprintf("%s: %q", ErrUnknownField, e.Field)
}

// Is makes errors.Is(err, ErrUnknownField) hold.
func (e *UnknownFieldError) Is(target error) bool {
	return target == ErrUnknownField
}

// checkFields fails with *UnknownFieldError for the first field the view
// does not carry.
func checkFields(view RecordView, fields ...string) error {
	keys := view.DimensionKeys()
	for _, f := range fields {
		if indexOf(keys, f) < 0 {
			return &UnknownFieldError{Field: f}
		}
	}
	return nil
}
