package form

import (
	"errors"
	"fmt"
	"strings"
)

// errNoID is the cause recorded when a repository reports success but the
// workspace still has no ID.
var errNoID = errors.New("repository did not assign an id")

// ValidationError is returned when a submission fails field validation.
// It is recoverable: the form is redisplayed with Errors.
type ValidationError struct {
	Errors FieldErrors
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Errors))
	for _, name := range e.Errors.Fields() {
		parts = append(parts, fmt.Sprintf("%s: %s", name, e.Errors[name]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// PersistenceError is returned when a save did not result in a stored
// workspace. It is not tied to any field.
type PersistenceError struct {
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("the workspace could not be saved: %v", e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
