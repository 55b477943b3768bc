package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/xavierca1/ligue-crm/internal/infra/session"
)

const sessionsSchema = `
	CREATE TABLE IF NOT EXISTS crm_sessions (
		id         UUID PRIMARY KEY,
		token      TEXT NOT NULL,
		operator   TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		expires_at TIMESTAMPTZ NOT NULL
	)
`

// SessionRepository stores web sessions in Postgres so they survive restarts
// and are shared between replicas.
type SessionRepository struct {
	DB *sql.DB
}

func NewSessionRepository(db *sql.DB) *SessionRepository {
	return &SessionRepository{DB: db}
}

func (r *SessionRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.DB.ExecContext(ctx, sessionsSchema); err != nil {
		return fmt.Errorf("create crm_sessions: %w", err)
	}
	return nil
}

func (r *SessionRepository) Save(ctx context.Context, s session.Session) error {
	query := `
		INSERT INTO crm_sessions (id, token, operator, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id)
		DO UPDATE SET
			token = EXCLUDED.token,
			operator = COALESCE(EXCLUDED.operator, crm_sessions.operator),
			expires_at = EXCLUDED.expires_at
	`
	_, err := r.DB.ExecContext(ctx, query, s.ID, s.Token, nullString(s.Operator), s.CreatedAt, s.ExpiresAt)
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (r *SessionRepository) Find(ctx context.Context, id string) (session.Session, error) {
	query := `
		SELECT id, token, COALESCE(operator, ''), created_at, expires_at
		FROM crm_sessions
		WHERE id = $1
	`
	var s session.Session
	err := r.DB.QueryRowContext(ctx, query, id).Scan(&s.ID, &s.Token, &s.Operator, &s.CreatedAt, &s.ExpiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return session.Session{}, session.ErrNotFound
	}
	if err != nil {
		return session.Session{}, fmt.Errorf("find session: %w", err)
	}
	return s, nil
}

func (r *SessionRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.DB.ExecContext(ctx, `DELETE FROM crm_sessions WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// DeleteExpired purges sessions past their expiry and returns how many were removed.
func (r *SessionRepository) DeleteExpired(ctx context.Context) (int64, error) {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM crm_sessions WHERE expires_at <= NOW()`)
	if err != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", err)
	}
	return res.RowsAffected()
}

func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
