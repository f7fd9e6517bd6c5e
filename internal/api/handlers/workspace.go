package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nebari-dev/multiversion/internal/flash"
	"github.com/nebari-dev/multiversion/internal/form"
	"github.com/nebari-dev/multiversion/internal/models"
	"github.com/nebari-dev/multiversion/internal/store"
)

// SessionHeader carries the client's session key. When present, messages go
// to the flash store instead of the response body.
const SessionHeader = "X-Session-ID"

// FormResponse is returned when a form is shown or has to be redisplayed.
type FormResponse struct {
	Title    string            `json:"title"`
	Fields   []form.FieldSpec  `json:"fields"`
	Errors   form.FieldErrors  `json:"errors,omitempty"`
	Messages []flash.Message   `json:"messages,omitempty"`
	Values   *models.Workspace `json:"values,omitempty"`
}

// SaveResponse is returned after a successful submission.
type SaveResponse struct {
	Workspace *models.Workspace `json:"workspace,omitempty"`
	Messages  []flash.Message   `json:"messages,omitempty"`
	Redirect  string            `json:"redirect"`
}

// MessagesResponse lists drained flash messages.
type MessagesResponse struct {
	Messages []flash.Message `json:"messages"`
}

type WorkspaceHandler struct {
	repo   *store.WorkspaceRepository
	audit  form.AuditLogger
	flash  flash.Store
	router form.Router
	logger *slog.Logger
}

func NewWorkspaceHandler(repo *store.WorkspaceRepository, auditLog form.AuditLogger, flashStore flash.Store, router form.Router, logger *slog.Logger) *WorkspaceHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &WorkspaceHandler{repo: repo, audit: auditLog, flash: flashStore, router: router, logger: logger}
}

// editor builds a request-scoped editor. The returned collector is nil when
// messages are routed to the session's flash store.
func (h *WorkspaceHandler) editor(c *gin.Context) (*form.WorkspaceEditor, *flash.Collector) {
	var sink form.MessageSink
	var collector *flash.Collector
	if session := c.GetHeader(SessionHeader); session != "" && h.flash != nil {
		sink = flash.NewSink(c.Request.Context(), h.flash, session)
	} else {
		collector = flash.NewCollector()
		sink = collector
	}

	return form.NewWorkspaceEditor(form.Deps{
		Repository: h.repo,
		Logger:     h.logger,
		Messages:   sink,
		Router:     h.router,
		Audit:      h.audit,
	}), collector
}

func collected(c *flash.Collector) []flash.Message {
	if c == nil {
		return nil
	}
	return c.Messages()
}

// handleFormError maps editor and store errors to HTTP responses. Form
// failures redisplay the form with the submitted values.
func (h *WorkspaceHandler) handleFormError(c *gin.Context, editor *form.WorkspaceEditor, collector *flash.Collector, out *form.SaveOutcome, err error) {
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Not found"})
		return
	}

	var validationErr *form.ValidationError
	if errors.As(err, &validationErr) && out != nil {
		c.JSON(http.StatusUnprocessableEntity, FormResponse{
			Title:    editor.Title(out.Workspace),
			Fields:   editor.RenderFields(out.Workspace),
			Errors:   validationErr.Errors,
			Messages: collected(collector),
			Values:   out.Workspace,
		})
		return
	}

	var persistErr *form.PersistenceError
	if errors.As(err, &persistErr) && out != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, store.ErrMachineNameTaken) {
			status = http.StatusConflict
		}
		c.JSON(status, FormResponse{
			Title:    editor.Title(out.Workspace),
			Fields:   editor.RenderFields(out.Workspace),
			Messages: collected(collector),
			Values:   out.Workspace,
		})
		return
	}

	h.logger.Error("unhandled workspace error", "error", err)
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Internal server error"})
}

// ListWorkspaces godoc
// @Summary List all workspaces
// @Tags workspaces
// @Produce json
// @Success 200 {array} models.Workspace
// @Failure 500 {object} ErrorResponse
// @Router /workspaces [get]
func (h *WorkspaceHandler) ListWorkspaces(c *gin.Context) {
	workspaces, err := h.repo.List(c.Request.Context())
	if err != nil {
		h.logger.Error("list workspaces", "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, workspaces)
}

// GetWorkspace godoc
// @Summary Get a workspace by ID or machine name
// @Tags workspaces
// @Produce json
// @Param id path string true "Workspace ID or machine name"
// @Success 200 {object} models.Workspace
// @Failure 404 {object} ErrorResponse
// @Router /workspaces/{id} [get]
func (h *WorkspaceHandler) GetWorkspace(c *gin.Context) {
	ws, err := h.repo.Load(c.Request.Context(), c.Param("id"))
	if err != nil {
		editor, collector := h.editor(c)
		h.handleFormError(c, editor, collector, nil, err)
		return
	}
	c.JSON(http.StatusOK, ws)
}

// NewWorkspaceForm godoc
// @Summary Describe the add workspace form
// @Tags workspaces
// @Produce json
// @Success 200 {object} FormResponse
// @Router /workspaces/form [get]
func (h *WorkspaceHandler) NewWorkspaceForm(c *gin.Context) {
	editor, _ := h.editor(c)
	ws := &models.Workspace{}
	c.JSON(http.StatusOK, FormResponse{
		Title:  editor.Title(ws),
		Fields: editor.RenderFields(ws),
	})
}

// EditWorkspaceForm godoc
// @Summary Describe the edit form of a workspace
// @Tags workspaces
// @Produce json
// @Param id path string true "Workspace ID or machine name"
// @Success 200 {object} FormResponse
// @Failure 404 {object} ErrorResponse
// @Router /workspaces/{id}/form [get]
func (h *WorkspaceHandler) EditWorkspaceForm(c *gin.Context) {
	editor, collector := h.editor(c)
	ws, err := h.repo.Load(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleFormError(c, editor, collector, nil, err)
		return
	}
	c.JSON(http.StatusOK, FormResponse{
		Title:  editor.Title(ws),
		Fields: editor.RenderFields(ws),
		Values: ws,
	})
}

// CreateWorkspace godoc
// @Summary Create a workspace
// @Tags workspaces
// @Accept json
// @Produce json
// @Param workspace body form.Input true "Workspace fields"
// @Success 201 {object} SaveResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} FormResponse
// @Failure 422 {object} FormResponse
// @Failure 500 {object} FormResponse
// @Router /workspaces [post]
func (h *WorkspaceHandler) CreateWorkspace(c *gin.Context) {
	var in form.Input
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	editor, collector := h.editor(c)
	out, err := editor.Submit(c.Request.Context(), &models.Workspace{}, in)
	if err != nil {
		h.handleFormError(c, editor, collector, out, err)
		return
	}

	c.Header("Location", out.RedirectURL)
	c.JSON(http.StatusCreated, SaveResponse{
		Workspace: out.Workspace,
		Messages:  collected(collector),
		Redirect:  out.RedirectURL,
	})
}

// UpdateWorkspace godoc
// @Summary Update a workspace label
// @Tags workspaces
// @Accept json
// @Produce json
// @Param id path string true "Workspace ID or machine name"
// @Param workspace body form.Input true "Workspace fields"
// @Success 200 {object} SaveResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 422 {object} FormResponse
// @Failure 500 {object} FormResponse
// @Router /workspaces/{id} [put]
func (h *WorkspaceHandler) UpdateWorkspace(c *gin.Context) {
	var in form.Input
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	editor, collector := h.editor(c)
	ws, err := h.repo.Load(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleFormError(c, editor, collector, nil, err)
		return
	}

	out, err := editor.Submit(c.Request.Context(), ws, in)
	if err != nil {
		h.handleFormError(c, editor, collector, out, err)
		return
	}

	c.JSON(http.StatusOK, SaveResponse{
		Workspace: out.Workspace,
		Messages:  collected(collector),
		Redirect:  out.RedirectURL,
	})
}

// DeleteWorkspace godoc
// @Summary Delete a workspace
// @Tags workspaces
// @Produce json
// @Param id path string true "Workspace ID or machine name"
// @Success 200 {object} SaveResponse
// @Failure 404 {object} ErrorResponse
// @Router /workspaces/{id} [delete]
func (h *WorkspaceHandler) DeleteWorkspace(c *gin.Context) {
	editor, collector := h.editor(c)
	ws, err := h.repo.Load(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleFormError(c, editor, collector, nil, err)
		return
	}

	if err := editor.Delete(c.Request.Context(), ws); err != nil {
		h.handleFormError(c, editor, collector, nil, err)
		return
	}

	c.JSON(http.StatusOK, SaveResponse{
		Messages: collected(collector),
		Redirect: h.router.CollectionURL(),
	})
}

// GetMessages godoc
// @Summary Drain pending messages for the session
// @Tags messages
// @Produce json
// @Param X-Session-ID header string true "Session key"
// @Success 200 {object} MessagesResponse
// @Failure 400 {object} ErrorResponse
// @Router /messages [get]
func (h *WorkspaceHandler) GetMessages(c *gin.Context) {
	session := c.GetHeader(SessionHeader)
	if session == "" || h.flash == nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: SessionHeader + " header is required"})
		return
	}

	msgs, err := h.flash.Drain(c.Request.Context(), session)
	if err != nil {
		h.logger.Error("drain flash messages", "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Internal server error"})
		return
	}
	if msgs == nil {
		msgs = []flash.Message{}
	}
	c.JSON(http.StatusOK, MessagesResponse{Messages: msgs})
}
