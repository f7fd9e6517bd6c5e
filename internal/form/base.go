// Package form implements the workspace add/edit form: field descriptors,
// constraint validation, violation flagging and the save flow.
package form

import "slices"

// FieldType identifies how a field is rendered.
type FieldType string

const (
	FieldText        FieldType = "textfield"
	FieldMachineName FieldType = "machine_name"
)

// FieldSpec describes one form field to the rendering layer.
type FieldSpec struct {
	Name        string    `json:"name"`
	Type        FieldType `json:"type"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Required    bool      `json:"required"`
	MaxLength   int       `json:"max_length"`
	Default     string    `json:"default"`
	Disabled    bool      `json:"disabled,omitempty"`

	// Source names the field a machine name is derived from.
	Source string `json:"source,omitempty"`
	// Unique marks fields checked against existing records.
	Unique bool `json:"unique,omitempty"`
}

// FieldFormBase is the generic display-driven part of an entity form. It
// renders and flags only the fields configured on its display.
type FieldFormBase struct {
	display []FieldSpec
}

// NewFieldFormBase creates a base form rendering the given display fields.
func NewFieldFormBase(display ...FieldSpec) *FieldFormBase {
	return &FieldFormBase{display: display}
}

// Fields returns the display fields.
func (b *FieldFormBase) Fields() []FieldSpec {
	if b == nil {
		return nil
	}
	return slices.Clone(b.display)
}

// EditedFieldNames returns the names of the display fields.
func (b *FieldFormBase) EditedFieldNames() []string {
	if b == nil {
		return nil
	}
	names := make([]string, 0, len(b.display))
	for _, f := range b.display {
		names = append(names, f.Name)
	}
	return names
}

// FlagViolations records violations on display fields. Violations on
// anything else are not the display's concern and are left alone.
func (b *FieldFormBase) FlagViolations(violations Violations, errs FieldErrors) {
	for _, v := range violations.ByFields(b.EditedFieldNames()...) {
		errs.Set(v.Field(), v.Message)
	}
}
