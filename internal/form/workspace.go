package form

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/nebari-dev/multiversion/internal/audit"
	"github.com/nebari-dev/multiversion/internal/flash"
	"github.com/nebari-dev/multiversion/internal/models"
)

// Repository is the system of record the editor saves through.
type Repository interface {
	Existence
	// Persist stores ws, assigning an ID on first insert.
	Persist(ctx context.Context, ws *models.Workspace) error
	// Delete removes the workspace with the given ID.
	Delete(ctx context.Context, id uuid.UUID) error
}

// ConstraintValidator lists the constraint violations of a candidate workspace.
type ConstraintValidator interface {
	Validate(ctx context.Context, ws *models.Workspace) (Violations, error)
}

// MessageSink receives end-user status messages.
type MessageSink interface {
	AddMessage(text string, severity flash.Severity)
}

// Router resolves redirect targets.
type Router interface {
	CollectionURL() string
}

// AuditLogger records completed changes.
type AuditLogger interface {
	LogAction(ctx context.Context, action, resource string, details interface{}) error
}

// State is where a submission ends up.
type State string

const (
	StateRedirect  State = "redirect"
	StateRedisplay State = "redisplay"
)

// SaveOutcome tells the caller what to do after a submission.
type SaveOutcome struct {
	State       State
	Workspace   *models.Workspace
	Inserted    bool
	RedirectURL string
	Errors      FieldErrors
}

// Input is the submitted form values.
type Input struct {
	Label       string `json:"label" yaml:"label" toml:"label"`
	MachineName string `json:"machine_name" yaml:"machine_name" toml:"machine_name"`
}

// Deps holds the collaborators of a WorkspaceEditor.
type Deps struct {
	Repository Repository
	Validator  ConstraintValidator
	Logger     *slog.Logger
	Messages   MessageSink
	Router     Router
	Audit      AuditLogger    // optional
	Base       *FieldFormBase // optional
}

// WorkspaceEditor handles one add or edit submission of a workspace.
type WorkspaceEditor struct {
	repo      Repository
	validator ConstraintValidator
	logger    *slog.Logger
	messages  MessageSink
	router    Router
	audit     AuditLogger
	base      *FieldFormBase
}

// NewWorkspaceEditor creates an editor. Logger defaults to slog.Default and
// Validator to a Validator over the repository.
func NewWorkspaceEditor(d Deps) *WorkspaceEditor {
	e := &WorkspaceEditor{
		repo:      d.Repository,
		validator: d.Validator,
		logger:    d.Logger,
		messages:  d.Messages,
		router:    d.Router,
		audit:     d.Audit,
		base:      d.Base,
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}
	if e.validator == nil {
		e.validator = NewValidator(d.Repository)
	}
	if e.base == nil {
		e.base = NewFieldFormBase()
	}
	return e
}

// Title returns the page title for the form.
func (e *WorkspaceEditor) Title(ws *models.Workspace) string {
	if ws.IsNew() {
		return "Add workspace"
	}
	return fmt.Sprintf("Edit workspace %s", ws.Label)
}

// RenderFields returns the field descriptors for ws. It has no side effects.
func (e *WorkspaceEditor) RenderFields(ws *models.Workspace) []FieldSpec {
	fields := e.base.Fields()
	return append(fields,
		FieldSpec{
			Name:        "label",
			Type:        FieldText,
			Title:       "Label",
			Description: "Label for the workspace.",
			Required:    true,
			MaxLength:   MaxLength,
			Default:     ws.Label,
		},
		FieldSpec{
			Name:      "machine_name",
			Type:      FieldMachineName,
			Title:     "Workspace ID",
			Required:  true,
			MaxLength: MaxLength,
			Default:   ws.MachineName,
			Disabled:  !ws.IsNew(),
			Source:    "label",
			Unique:    true,
		},
	)
}

// EditedFieldNames returns the fields this form validates itself, plus the
// ones the base display covers.
func (e *WorkspaceEditor) EditedFieldNames() []string {
	return append([]string{"label", "machine_name"}, e.base.EditedFieldNames()...)
}

// ApplyInput copies submitted values onto ws. The machine name is only
// taken on create and is derived from the label when left empty.
func (e *WorkspaceEditor) ApplyInput(ws *models.Workspace, in Input) {
	ws.Label = strings.TrimSpace(in.Label)
	if !ws.IsNew() {
		return
	}
	ws.MachineName = strings.TrimSpace(in.MachineName)
	if ws.MachineName == "" {
		ws.MachineName = MachineNameFromLabel(ws.Label)
	}
}

// Validate runs the constraint validator on ws and flags the violations.
func (e *WorkspaceEditor) Validate(ctx context.Context, ws *models.Workspace) (FieldErrors, error) {
	violations, err := e.validator.Validate(ctx, ws)
	if err != nil {
		return nil, err
	}
	return e.FlagViolations(violations), nil
}

// FlagViolations turns violations into field errors. The base display only
// flags fields it renders, so label and machine_name are flagged here.
func (e *WorkspaceEditor) FlagViolations(violations Violations) FieldErrors {
	errs := FieldErrors{}
	for _, v := range violations.ByFields("label", "machine_name") {
		errs.Set(v.Field(), v.Message)
	}
	e.base.FlagViolations(violations, errs)
	return errs
}

// Submit applies in to ws, validates it and saves it when valid.
func (e *WorkspaceEditor) Submit(ctx context.Context, ws *models.Workspace, in Input) (*SaveOutcome, error) {
	e.ApplyInput(ws, in)

	errs, err := e.Validate(ctx, ws)
	if err != nil {
		return nil, err
	}
	if len(errs) > 0 {
		return &SaveOutcome{
			State:     StateRedisplay,
			Workspace: ws,
			Inserted:  ws.IsNew(),
			Errors:    errs,
		}, &ValidationError{Errors: errs}
	}

	return e.Save(ctx, ws)
}

// Save persists ws and reports the result to the logger and the message
// sink. A failed save yields a redisplay outcome and a *PersistenceError.
func (e *WorkspaceEditor) Save(ctx context.Context, ws *models.Workspace) (*SaveOutcome, error) {
	insert := ws.IsNew()
	bundle := ws.BundleName()

	err := e.repo.Persist(ctx, ws)
	if err == nil && ws.IsNew() {
		err = errNoID
	}
	if err != nil {
		e.logger.Error("Workspace save failed",
			"type", bundle,
			"label", ws.Label,
			"machine_name", ws.MachineName,
			"error", err)
		e.messages.AddMessage("The workspace could not be saved.", flash.SeverityError)
		return &SaveOutcome{
			State:     StateRedisplay,
			Workspace: ws,
			Inserted:  insert,
		}, &PersistenceError{Err: err}
	}

	verb, done, action := "updated", "updated", audit.ActionUpdateWorkspace
	if insert {
		verb, done, action = "added", "created", audit.ActionCreateWorkspace
	}

	e.logger.Info(fmt.Sprintf("%s: %s %s.", bundle, verb, ws.Label),
		"type", bundle,
		"id", ws.ID,
		"machine_name", ws.MachineName)
	e.messages.AddMessage(fmt.Sprintf("Workspace %s has been %s.", ws.Label, done), flash.SeverityStatus)

	if e.audit != nil {
		if err := e.audit.LogAction(ctx, action, "ws:"+ws.MachineName, map[string]interface{}{
			"id":    ws.ID.String(),
			"label": ws.Label,
		}); err != nil {
			e.logger.Warn("Failed to write audit log", "action", action, "error", err)
		}
	}

	return &SaveOutcome{
		State:       StateRedirect,
		Workspace:   ws,
		Inserted:    insert,
		RedirectURL: e.router.CollectionURL(),
	}, nil
}

// Delete removes a stored workspace and reports it like Save does.
func (e *WorkspaceEditor) Delete(ctx context.Context, ws *models.Workspace) error {
	if ws.IsNew() {
		return fmt.Errorf("delete workspace %q: not saved", ws.MachineName)
	}
	if err := e.repo.Delete(ctx, ws.ID); err != nil {
		return fmt.Errorf("delete workspace %q: %w", ws.MachineName, err)
	}

	bundle := ws.BundleName()
	e.logger.Info(fmt.Sprintf("%s: deleted %s.", bundle, ws.Label),
		"type", bundle,
		"id", ws.ID,
		"machine_name", ws.MachineName)
	e.messages.AddMessage(fmt.Sprintf("Workspace %s has been deleted.", ws.Label), flash.SeverityStatus)

	if e.audit != nil {
		if err := e.audit.LogAction(ctx, audit.ActionDeleteWorkspace, "ws:"+ws.MachineName, map[string]interface{}{
			"id":    ws.ID.String(),
			"label": ws.Label,
		}); err != nil {
			e.logger.Warn("Failed to write audit log", "action", audit.ActionDeleteWorkspace, "error", err)
		}
	}
	return nil
}
