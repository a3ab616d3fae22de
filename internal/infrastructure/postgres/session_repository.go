package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/LifeFlow1-0/FinAgentAI/internal/domain/session"
)

type SessionRepository struct {
	db *DB
}

var _ session.Repository = (*SessionRepository)(nil)

func NewSessionRepository(db *DB) *SessionRepository {
	return &SessionRepository{db: db}
}

func (r *SessionRepository) Create(ctx context.Context, id string, createdAt, expiresAt time.Time) (*session.Session, error) {
	query := `
		INSERT INTO sessions (id, created_at, expires_at, data)
		VALUES ($1, $2, $3, '{}')
		RETURNING id, created_at, expires_at, data
	`

	return r.scanSession(r.db.QueryRowContext(ctx, query, id, createdAt, expiresAt))
}

func (r *SessionRepository) Get(ctx context.Context, id string) (*session.Session, error) {
	query := `SELECT id, created_at, expires_at, data FROM sessions WHERE id = $1`

	sess, err := r.scanSession(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil // Not found
	}
	return sess, err
}

// Patch shallow-merges delta into the stored blob using jsonb
// concatenation, so the merge is atomic within the statement.
func (r *SessionRepository) Patch(ctx context.Context, id string, delta map[string]any) (*session.Session, error) {
	payload, err := json.Marshal(delta)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal session delta: %w", err)
	}

	query := `
		UPDATE sessions
		SET data = data || $2::jsonb
		WHERE id = $1
		RETURNING id, created_at, expires_at, data
	`

	sess, err := r.scanSession(r.db.QueryRowContext(ctx, query, id, payload))
	if err == sql.ErrNoRows {
		return nil, nil // Not found
	}
	return sess, err
}

func (r *SessionRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at < $1`, now)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired sessions: %w", err)
	}
	return result.RowsAffected()
}

func (r *SessionRepository) scanSession(row interface{ Scan(...any) error }) (*session.Session, error) {
	var s session.Session
	var raw []byte
	if err := row.Scan(&s.ID, &s.CreatedAt, &s.ExpiresAt, &raw); err != nil {
		if err == sql.ErrNoRows {
			return nil, sql.ErrNoRows
		}
		return nil, fmt.Errorf("failed to scan session: %w", err)
	}

	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &s.Data); err != nil {
			return nil, fmt.Errorf("failed to unmarshal session data: %w", err)
		}
	}
	if s.Data == nil {
		s.Data = map[string]any{}
	}

	return &s, nil
}
