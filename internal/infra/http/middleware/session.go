package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/xavierca1/ligue-crm/internal/infra/session"
	"github.com/xavierca1/ligue-crm/pkg/logger"
)

// SessionCookie holds the session id, never the token.
const SessionCookie = "crm_session"

// Sessions resolves the session cookie against the repository.
type Sessions struct {
	repo session.Repository
	log  *logger.Logger
	now  func() time.Time
}

func NewSessions(repo session.Repository, log *logger.Logger) *Sessions {
	return &Sessions{repo: repo, log: log.Component("sessions"), now: time.Now}
}

// Load puts the cookie's session into the request context. Unknown and
// expired sessions are treated as signed out; expired ones are removed.
func (s *Sessions) Load(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := r.Cookie(SessionCookie)
		if err != nil || c.Value == "" {
			next.ServeHTTP(w, r)
			return
		}

		sess, err := s.repo.Find(r.Context(), c.Value)
		switch {
		case errors.Is(err, session.ErrNotFound):
		case err != nil:
			s.log.Error().Err(err).Msg("could not load session")
		case sess.Expired(s.now()):
			if err := s.repo.Delete(r.Context(), sess.ID); err != nil {
				s.log.Warn().Err(err).Str("session_id", sess.ID).Msg("could not delete expired session")
			}
		default:
			r = r.WithContext(session.WithSession(r.Context(), sess))
		}
		next.ServeHTTP(w, r)
	})
}

// RequireSession sends signed-out browsers to the login page.
func RequireSession(loginPath string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := session.FromContext(r.Context()); !ok {
				http.Redirect(w, r, loginPath, http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireSessionJSON answers 401 to signed-out API clients.
func RequireSessionJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := session.FromContext(r.Context()); !ok {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"message": "not signed in"})
			return
		}
		next.ServeHTTP(w, r)
	})
}
