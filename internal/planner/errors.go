package planner

import (
	"errors"
	"fmt"
)

// ValidationError reports structurally invalid planner input, such as an
// event that ends before it starts. It is fatal for the run.
type ValidationError struct {
	// Field names the kind of record that failed ("event", "task", "work hours").
	Field string
	// ID identifies the offending record, if it has one.
	ID string
	// Reason describes the violation.
	Reason string
}

func (e *ValidationError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("invalid %s %q: %s", e.Field, e.ID, e.Reason)
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// IsValidation reports whether err is, or wraps, a *ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
