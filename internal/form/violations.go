package form

import (
	"slices"
	"sort"
	"strings"
)

// Violation is a single constraint failure. PropertyPath is dotted, with the
// field name as its first segment (e.g. "label.0.value").
type Violation struct {
	PropertyPath string `json:"property_path"`
	Message      string `json:"message"`
}

// Field returns the first segment of the property path.
func (v Violation) Field() string {
	field, _, _ := strings.Cut(v.PropertyPath, ".")
	return field
}

// Violations is an ordered list of constraint failures.
type Violations []Violation

// ByFields returns the violations on any of the named fields.
func (vs Violations) ByFields(names ...string) Violations {
	var out Violations
	for _, v := range vs {
		if slices.Contains(names, v.Field()) {
			out = append(out, v)
		}
	}
	return out
}

// FieldErrors maps a field name to the message shown next to it.
type FieldErrors map[string]string

// Set records msg for field unless the field already has an error.
func (e FieldErrors) Set(field, msg string) {
	if _, ok := e[field]; ok {
		return
	}
	e[field] = msg
}

// Fields returns the names of the fields with errors, sorted.
func (e FieldErrors) Fields() []string {
	names := make([]string, 0, len(e))
	for name := range e {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
