package handlers

import (
	"bytes"
	"net/http"
	"time"

	"github.com/xavierca1/ligue-crm/internal/infra/integration/crmapi"
	"github.com/xavierca1/ligue-crm/internal/infra/session"
	"github.com/xavierca1/ligue-crm/internal/usecase"
	"github.com/xavierca1/ligue-crm/internal/view"
	"github.com/xavierca1/ligue-crm/pkg/logger"
)

// CRMHandler serves the CRM screens. A successful form post redirects back
// to its list; a failed one renders the list from the store as it is, so
// the modal or shared error survives.
type CRMHandler struct {
	workspaces *Workspaces
	renderer   *view.Renderer
	report     ReportGenerator
	log        *logger.Logger
	now        func() time.Time
}

func NewCRMHandler(workspaces *Workspaces, renderer *view.Renderer, report ReportGenerator, log *logger.Logger) *CRMHandler {
	return &CRMHandler{
		workspaces: workspaces,
		renderer:   renderer,
		report:     report,
		log:        log.Component("crm_handler"),
		now:        time.Now,
	}
}

// actions returns the workspace of the signed-in session. Routes are
// mounted behind RequireSession, so the session is always there.
func (h *CRMHandler) actions(r *http.Request) *usecase.Actions {
	s, _ := session.FromContext(r.Context())
	return h.workspaces.For(s.ID)
}

func (h *CRMHandler) render(w http.ResponseWriter, r *http.Request, status int, page, title string, body any) {
	renderPage(w, r, h.renderer, h.log, status, page, title, body)
}

func renderPage(w http.ResponseWriter, r *http.Request, renderer *view.Renderer, log *logger.Logger, status int, page, title string, body any) {
	p := view.Page{Title: title, Active: page, Body: body}
	if page == "convert" {
		p.Active = "leads"
	}
	if s, ok := session.FromContext(r.Context()); ok {
		p.Operator = s.Operator
		if p.Operator == "" {
			p.Operator = "Signed in"
		}
	}

	var buf bytes.Buffer
	if err := renderer.Render(&buf, page, p); err != nil {
		log.Error().Err(err).Str("page", page).Msg("could not render page")
		http.Error(w, "could not render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

// statusFor maps an action error to the status of the re-rendered page.
func statusFor(err error) int {
	if _, ok := usecase.AsValidationErrors(err); ok {
		return http.StatusUnprocessableEntity
	}
	if usecase.IsDomainError(err) {
		return http.StatusConflict
	}
	switch code := crmapi.StatusCode(err); code {
	case http.StatusUnauthorized, http.StatusForbidden, http.StatusNotFound:
		return code
	}
	return http.StatusBadGateway
}

func redirect(w http.ResponseWriter, r *http.Request, to string) {
	http.Redirect(w, r, to, http.StatusSeeOther)
}
