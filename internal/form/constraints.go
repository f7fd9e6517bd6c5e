package form

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/nebari-dev/multiversion/internal/models"
)

// Existence reports whether a machine name is already taken.
type Existence interface {
	Exists(ctx context.Context, machineName string) (bool, error)
}

// workspaceConstraints mirrors the editable workspace fields for validation.
type workspaceConstraints struct {
	Label       string `json:"label" validate:"required,max=255"`
	MachineName string `json:"machine_name" validate:"required,max=255,machine_name"`
}

var fieldTitles = map[string]string{
	"label":        "Label",
	"machine_name": "Workspace ID",
}

// Validator checks workspace field constraints, including machine name
// uniqueness against the repository.
type Validator struct {
	validate *validator.Validate
	exists   Existence
}

// NewValidator creates a Validator. exists may be nil to skip the
// uniqueness check.
func NewValidator(exists Existence) *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		return name
	})
	// Registration only fails for an empty tag or nil func.
	_ = v.RegisterValidation("machine_name", func(fl validator.FieldLevel) bool {
		return ValidMachineName(fl.Field().String())
	})
	return &Validator{validate: v, exists: exists}
}

// Validate returns the constraint violations of ws. A non-nil error means
// the checks could not be run at all.
func (v *Validator) Validate(ctx context.Context, ws *models.Workspace) (Violations, error) {
	var violations Violations

	err := v.validate.StructCtx(ctx, workspaceConstraints{
		Label:       ws.Label,
		MachineName: ws.MachineName,
	})
	var fieldErrs validator.ValidationErrors
	switch {
	case err == nil:
	case errors.As(err, &fieldErrs):
		for _, fe := range fieldErrs {
			violations = append(violations, Violation{
				PropertyPath: fe.Field() + ".0.value",
				Message:      violationMessage(fe),
			})
		}
	default:
		return nil, fmt.Errorf("validate workspace: %w", err)
	}

	// Machine names are fixed once stored, so only new workspaces can collide.
	if v.exists != nil && ws.IsNew() && len(violations.ByFields("machine_name")) == 0 {
		taken, err := v.exists.Exists(ctx, ws.MachineName)
		if err != nil {
			return nil, fmt.Errorf("check machine name: %w", err)
		}
		if taken {
			violations = append(violations, Violation{
				PropertyPath: "machine_name.0.value",
				Message:      "The machine-readable name is already in use. It must be unique.",
			})
		}
	}

	return violations, nil
}

func violationMessage(fe validator.FieldError) string {
	title := fieldTitles[fe.Field()]
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s field is required.", title)
	case "max":
		return fmt.Sprintf("%s cannot be longer than %s characters but is currently %d characters long.",
			title, fe.Param(), utf8.RuneCountInString(fe.Value().(string)))
	case "machine_name":
		return "The machine-readable name must contain only lowercase letters, numbers, and underscores."
	default:
		return fmt.Sprintf("%s is not valid.", title)
	}
}
