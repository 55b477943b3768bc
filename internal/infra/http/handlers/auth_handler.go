package handlers

import (
	"net/http"
	"time"

	"github.com/xavierca1/ligue-crm/internal/infra/http/middleware"
	"github.com/xavierca1/ligue-crm/internal/infra/session"
	"github.com/xavierca1/ligue-crm/internal/view"
	"github.com/xavierca1/ligue-crm/pkg/logger"
)

// AuthHandler signs operators in with a backend access token. The token is
// stored server side; the browser only gets the session id.
type AuthHandler struct {
	sessions      session.Repository
	workspaces    *Workspaces
	renderer      *view.Renderer
	ttl           time.Duration
	secureCookies bool
	log           *logger.Logger
	now           func() time.Time
}

func NewAuthHandler(sessions session.Repository, workspaces *Workspaces, renderer *view.Renderer, ttl time.Duration, secureCookies bool, log *logger.Logger) *AuthHandler {
	return &AuthHandler{
		sessions:      sessions,
		workspaces:    workspaces,
		renderer:      renderer,
		ttl:           ttl,
		secureCookies: secureCookies,
		log:           log.Component("auth_handler"),
		now:           time.Now,
	}
}

func (h *AuthHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	renderPage(w, r, h.renderer, h.log, http.StatusOK, "login", "Sign in", view.LoginView{})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := parseForm(w, r); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	token := field(r, "token")
	if token == "" {
		renderPage(w, r, h.renderer, h.log, http.StatusUnprocessableEntity, "login", "Sign in", view.LoginView{Error: "Access token is required"})
		return
	}

	s := session.New(token, h.ttl, h.now())
	if s.Expired(h.now()) {
		renderPage(w, r, h.renderer, h.log, http.StatusUnprocessableEntity, "login", "Sign in", view.LoginView{Error: "This token has expired"})
		return
	}
	if err := h.sessions.Save(r.Context(), s); err != nil {
		h.log.Error().Err(err).Msg("could not save session")
		renderPage(w, r, h.renderer, h.log, http.StatusInternalServerError, "login", "Sign in", view.LoginView{Error: "Could not sign in, try again"})
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    s.ID,
		Path:     "/",
		Expires:  s.ExpiresAt,
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	h.log.Info().Str("session_id", s.ID).Str("operator", s.Operator).Msg("operator signed in")
	redirect(w, r, "/")
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if s, ok := session.FromContext(r.Context()); ok {
		if err := h.sessions.Delete(r.Context(), s.ID); err != nil {
			h.log.Warn().Err(err).Str("session_id", s.ID).Msg("could not delete session")
		}
		h.workspaces.Drop(s.ID)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	redirect(w, r, "/login")
}
