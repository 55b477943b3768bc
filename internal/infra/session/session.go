package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("session not found")

// Session is one operator sign-in. The token is forwarded to the CRM
// backend as a bearer token; this process never validates it.
type Session struct {
	ID        string    `yaml:"id" json:"id"`
	Token     string    `yaml:"token" json:"-"`
	Operator  string    `yaml:"operator" json:"operator"`
	CreatedAt time.Time `yaml:"created_at" json:"created_at"`
	ExpiresAt time.Time `yaml:"expires_at" json:"expires_at"`
}

// New starts a session for token. The expiry is the earlier of ttl and the
// token's own exp claim, when it has one.
func New(token string, ttl time.Duration, now time.Time) Session {
	s := Session{
		ID:        uuid.NewString(),
		Token:     token,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
	if c, ok := Inspect(token); ok {
		s.Operator = c.Display()
		if !c.ExpiresAt.IsZero() && c.ExpiresAt.Before(s.ExpiresAt) {
			s.ExpiresAt = c.ExpiresAt
		}
	}
	return s
}

func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

// Repository persists sessions of the web process.
type Repository interface {
	Save(ctx context.Context, s Session) error
	Find(ctx context.Context, id string) (Session, error)
	Delete(ctx context.Context, id string) error
}

type ctxKey struct{}

func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

func FromContext(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(ctxKey{}).(Session)
	return s, ok
}

// ContextTokenSource reads the token of the session stored in the request
// context. No session yields an empty token.
type ContextTokenSource struct{}

func (ContextTokenSource) Token(ctx context.Context) (string, error) {
	s, ok := FromContext(ctx)
	if !ok {
		return "", nil
	}
	return s.Token, nil
}
