package form

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"reflect"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/nebari-dev/multiversion/internal/flash"
	"github.com/nebari-dev/multiversion/internal/models"
)

// fakeRepo is an in-memory Repository keyed by machine name.
type fakeRepo struct {
	byName     map[string]*models.Workspace
	persists   int
	persistErr error
	skipID     bool
}

func newFakeRepo(existing ...*models.Workspace) *fakeRepo {
	r := &fakeRepo{byName: map[string]*models.Workspace{}}
	for _, ws := range existing {
		r.byName[ws.MachineName] = ws
	}
	return r
}

func (r *fakeRepo) Exists(ctx context.Context, machineName string) (bool, error) {
	_, ok := r.byName[machineName]
	return ok, nil
}

func (r *fakeRepo) Persist(ctx context.Context, ws *models.Workspace) error {
	r.persists++
	if r.persistErr != nil {
		return r.persistErr
	}
	if ws.IsNew() && !r.skipID {
		ws.ID = uuid.New()
	}
	copied := *ws
	r.byName[ws.MachineName] = &copied
	return nil
}

func (r *fakeRepo) Delete(ctx context.Context, id uuid.UUID) error {
	for name, ws := range r.byName {
		if ws.ID == id {
			delete(r.byName, name)
			return nil
		}
	}
	return errors.New("not found")
}

type fakeAudit struct {
	actions []string
}

func (a *fakeAudit) LogAction(ctx context.Context, action, resource string, details interface{}) error {
	a.actions = append(a.actions, action+" "+resource)
	return nil
}

type staticRouter string

func (r staticRouter) CollectionURL() string { return string(r) }

type harness struct {
	editor   *WorkspaceEditor
	repo     *fakeRepo
	messages *flash.Collector
	audit    *fakeAudit
	logs     *bytes.Buffer
}

func newHarness(t *testing.T, repo *fakeRepo) *harness {
	t.Helper()
	h := &harness{
		repo:     repo,
		messages: flash.NewCollector(),
		audit:    &fakeAudit{},
		logs:     &bytes.Buffer{},
	}
	h.editor = NewWorkspaceEditor(Deps{
		Repository: repo,
		Logger:     slog.New(slog.NewTextHandler(h.logs, nil)),
		Messages:   h.messages,
		Router:     staticRouter("/workspaces"),
		Audit:      h.audit,
	})
	return h
}

func TestSubmit_CreateOnEmptyRepository(t *testing.T) {
	h := newHarness(t, newFakeRepo())

	ws := &models.Workspace{}
	out, err := h.editor.Submit(context.Background(), ws, Input{Label: "Staging", MachineName: "staging"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.State != StateRedirect {
		t.Errorf("state = %q, want redirect", out.State)
	}
	if !out.Inserted {
		t.Error("expected Inserted=true for a new workspace")
	}
	if ws.IsNew() {
		t.Error("expected an assigned ID")
	}
	if out.RedirectURL != "/workspaces" {
		t.Errorf("redirect = %q, want /workspaces", out.RedirectURL)
	}

	msgs := h.messages.Messages()
	if len(msgs) != 1 || msgs[0].Text != "Workspace Staging has been created." || msgs[0].Severity != flash.SeverityStatus {
		t.Errorf("unexpected messages: %+v", msgs)
	}
	if !strings.Contains(h.logs.String(), "workspace: added Staging.") {
		t.Errorf("expected notice in log, got %q", h.logs.String())
	}
	if len(h.audit.actions) != 1 || h.audit.actions[0] != "create_workspace ws:staging" {
		t.Errorf("unexpected audit actions: %v", h.audit.actions)
	}
}

func TestSubmit_EditChangesLabel(t *testing.T) {
	existing := &models.Workspace{ID: uuid.New(), Label: "Old", MachineName: "old", Bundle: "workspace"}
	h := newHarness(t, newFakeRepo(existing))

	ws := *existing
	out, err := h.editor.Submit(context.Background(), &ws, Input{Label: "New", MachineName: "ignored"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Inserted {
		t.Error("expected Inserted=false for an existing workspace")
	}
	if ws.ID != existing.ID {
		t.Errorf("ID changed: %s -> %s", existing.ID, ws.ID)
	}
	if ws.MachineName != "old" {
		t.Errorf("machine name changed on edit to %q", ws.MachineName)
	}

	msgs := h.messages.Messages()
	if len(msgs) != 1 || msgs[0].Text != "Workspace New has been updated." {
		t.Errorf("unexpected messages: %+v", msgs)
	}
	if !strings.Contains(h.logs.String(), "workspace: updated New.") {
		t.Errorf("expected notice in log, got %q", h.logs.String())
	}
}

func TestSubmit_DuplicateMachineNameNeverSaves(t *testing.T) {
	repo := newFakeRepo(&models.Workspace{ID: uuid.New(), Label: "Staging", MachineName: "staging"})
	h := newHarness(t, repo)

	out, err := h.editor.Submit(context.Background(), &models.Workspace{}, Input{Label: "Another", MachineName: "staging"})

	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %T: %v", err, err)
	}
	if _, ok := ve.Errors["machine_name"]; !ok {
		t.Errorf("expected machine_name error, got %v", ve.Errors)
	}
	if out.State != StateRedisplay {
		t.Errorf("state = %q, want redisplay", out.State)
	}
	if repo.persists != 0 {
		t.Errorf("Persist called %d times, want 0", repo.persists)
	}
	if len(h.messages.Messages()) != 0 {
		t.Errorf("expected no messages, got %+v", h.messages.Messages())
	}
}

func TestSubmit_DerivesMachineNameFromLabel(t *testing.T) {
	h := newHarness(t, newFakeRepo())

	ws := &models.Workspace{}
	if _, err := h.editor.Submit(context.Background(), ws, Input{Label: "Café Staging"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ws.MachineName != "cafe_staging" {
		t.Errorf("machine name = %q, want cafe_staging", ws.MachineName)
	}
}

func TestValidate_EmptyLabel(t *testing.T) {
	h := newHarness(t, newFakeRepo())

	errs, err := h.editor.Validate(context.Background(), &models.Workspace{MachineName: "staging"})
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if errs["label"] != "Label field is required." {
		t.Errorf("label error = %q", errs["label"])
	}
	if _, ok := errs["machine_name"]; ok {
		t.Errorf("unexpected machine_name error: %v", errs)
	}
}

func TestValidate_Lengths(t *testing.T) {
	h := newHarness(t, newFakeRepo())

	ws := &models.Workspace{
		Label:       strings.Repeat("é", MaxLength),
		MachineName: strings.Repeat("a", MaxLength),
	}
	errs, err := h.editor.Validate(context.Background(), ws)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if len(errs) != 0 {
		t.Fatalf("expected 255 characters to be accepted, got %v", errs)
	}

	ws.Label += "x"
	ws.MachineName += "a"
	errs, err = h.editor.Validate(context.Background(), ws)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	want := "Label cannot be longer than 255 characters but is currently 256 characters long."
	if errs["label"] != want {
		t.Errorf("label error = %q, want %q", errs["label"], want)
	}
	if _, ok := errs["machine_name"]; !ok {
		t.Errorf("expected machine_name length error, got %v", errs)
	}
}

func TestValidate_MachineNameCharacters(t *testing.T) {
	h := newHarness(t, newFakeRepo())

	errs, err := h.editor.Validate(context.Background(), &models.Workspace{Label: "Staging", MachineName: "Staging-1"})
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	want := "The machine-readable name must contain only lowercase letters, numbers, and underscores."
	if errs["machine_name"] != want {
		t.Errorf("machine_name error = %q, want %q", errs["machine_name"], want)
	}
}

func TestValidate_ExistingWorkspaceKeepsItsMachineName(t *testing.T) {
	existing := &models.Workspace{ID: uuid.New(), Label: "Live", MachineName: "live"}
	h := newHarness(t, newFakeRepo(existing))

	errs, err := h.editor.Validate(context.Background(), existing)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if len(errs) != 0 {
		t.Errorf("expected no errors for an unchanged workspace, got %v", errs)
	}
}

func TestRenderFields_Idempotent(t *testing.T) {
	h := newHarness(t, newFakeRepo())
	ws := &models.Workspace{Label: "Staging", MachineName: "staging"}

	first := h.editor.RenderFields(ws)
	second := h.editor.RenderFields(ws)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("RenderFields not idempotent:\n%+v\n%+v", first, second)
	}
	if len(first) != 2 {
		t.Fatalf("expected 2 fields, got %d", len(first))
	}

	label, machine := first[0], first[1]
	if label.Name != "label" || label.Type != FieldText || !label.Required || label.MaxLength != 255 || label.Default != "Staging" {
		t.Errorf("unexpected label field: %+v", label)
	}
	if machine.Name != "machine_name" || machine.Type != FieldMachineName || !machine.Unique || machine.Default != "staging" {
		t.Errorf("unexpected machine_name field: %+v", machine)
	}
	if machine.Disabled {
		t.Error("machine_name should be editable on create")
	}
	if h.repo.persists != 0 {
		t.Error("RenderFields must not persist")
	}
}

func TestRenderFields_EditLocksMachineName(t *testing.T) {
	h := newHarness(t, newFakeRepo())
	ws := &models.Workspace{ID: uuid.New(), Label: "Live", MachineName: "live"}

	fields := h.editor.RenderFields(ws)
	if !fields[1].Disabled {
		t.Error("machine_name should be disabled on edit")
	}
	if got := h.editor.Title(ws); got != "Edit workspace Live" {
		t.Errorf("title = %q", got)
	}
	if got := h.editor.Title(&models.Workspace{}); got != "Add workspace" {
		t.Errorf("title = %q", got)
	}
}

func TestFlagViolations(t *testing.T) {
	base := NewFieldFormBase(FieldSpec{Name: "description", Type: FieldText})
	editor := NewWorkspaceEditor(Deps{
		Repository: newFakeRepo(),
		Messages:   flash.NewCollector(),
		Router:     staticRouter("/workspaces"),
		Base:       base,
	})

	errs := editor.FlagViolations(Violations{
		{PropertyPath: "label.0.value", Message: "bad label"},
		{PropertyPath: "label.0.value", Message: "second label problem"},
		{PropertyPath: "machine_name", Message: "bad name"},
		{PropertyPath: "description.0.value", Message: "bad description"},
		{PropertyPath: "owner.0.target_id", Message: "not rendered"},
	})

	want := FieldErrors{
		"label":        "bad label",
		"machine_name": "bad name",
		"description":  "bad description",
	}
	if !reflect.DeepEqual(errs, want) {
		t.Errorf("FlagViolations = %v, want %v", errs, want)
	}

	names := editor.EditedFieldNames()
	if !reflect.DeepEqual(names, []string{"label", "machine_name", "description"}) {
		t.Errorf("EditedFieldNames = %v", names)
	}
}

func TestSave_PersistFailure(t *testing.T) {
	repo := newFakeRepo()
	repo.persistErr = errors.New("disk full")
	h := newHarness(t, repo)

	ws := &models.Workspace{Label: "Staging", MachineName: "staging"}
	out, err := h.editor.Save(context.Background(), ws)

	var pe *PersistenceError
	if !errors.As(err, &pe) {
		t.Fatalf("expected PersistenceError, got %T: %v", err, err)
	}
	if out.State != StateRedisplay {
		t.Errorf("state = %q, want redisplay", out.State)
	}
	if out.RedirectURL != "" {
		t.Errorf("unexpected redirect %q", out.RedirectURL)
	}
	if ws.Label != "Staging" {
		t.Error("submitted input should be retained")
	}

	msgs := h.messages.Messages()
	if len(msgs) != 1 || msgs[0].Text != "The workspace could not be saved." || msgs[0].Severity != flash.SeverityError {
		t.Errorf("unexpected messages: %+v", msgs)
	}
	if strings.Contains(h.logs.String(), "added") {
		t.Errorf("failed save must not log a notice: %q", h.logs.String())
	}
	if len(h.audit.actions) != 0 {
		t.Errorf("failed save must not be audited: %v", h.audit.actions)
	}
}

func TestSave_NoIDAssigned(t *testing.T) {
	repo := newFakeRepo()
	repo.skipID = true
	h := newHarness(t, repo)

	_, err := h.editor.Save(context.Background(), &models.Workspace{Label: "Staging", MachineName: "staging"})
	var pe *PersistenceError
	if !errors.As(err, &pe) {
		t.Fatalf("expected PersistenceError, got %T: %v", err, err)
	}
	if !errors.Is(err, errNoID) {
		t.Errorf("expected errNoID cause, got %v", pe.Err)
	}
}

func TestDelete(t *testing.T) {
	existing := &models.Workspace{ID: uuid.New(), Label: "Live", MachineName: "live"}
	repo := newFakeRepo(existing)
	h := newHarness(t, repo)

	if err := h.editor.Delete(context.Background(), existing); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if ok, _ := repo.Exists(context.Background(), "live"); ok {
		t.Error("workspace still exists after delete")
	}
	msgs := h.messages.Messages()
	if len(msgs) != 1 || msgs[0].Text != "Workspace Live has been deleted." {
		t.Errorf("unexpected messages: %+v", msgs)
	}
	if len(h.audit.actions) != 1 || h.audit.actions[0] != "delete_workspace ws:live" {
		t.Errorf("unexpected audit actions: %v", h.audit.actions)
	}

	if err := h.editor.Delete(context.Background(), &models.Workspace{}); err == nil {
		t.Error("expected error deleting an unsaved workspace")
	}
}
