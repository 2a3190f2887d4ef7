package repository

import (
	"context"

	"github.com/suntrail/agency-server/internal/database"
	"github.com/suntrail/agency-server/internal/model"
)

// SessionRepository is the only path to the sessions table. A row that
// exists but is past its expiry is reported as not found.
type SessionRepository interface {
	Create(ctx context.Context, params model.CreateSessionParams) (*model.Session, error)
	FindValid(ctx context.Context, token string) (*model.Session, error)
	DeleteByToken(ctx context.Context, token string) error
	DeleteExpired(ctx context.Context) (int64, error)
}

type sessionRepo struct {
	db database.DBTX
}

func NewSessionRepository(db database.DBTX) SessionRepository {
	return &sessionRepo{db: db}
}

func (r *sessionRepo) Create(ctx context.Context, params model.CreateSessionParams) (*model.Session, error) {
	var session model.Session
	err := r.db.GetContext(ctx, &session, `
		INSERT INTO sessions (admin_id, session_token, expires_at)
		VALUES ($1, $2, $3)
		RETURNING *
	`, params.AdminID, params.SessionToken, params.ExpiresAt)
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *sessionRepo) FindValid(ctx context.Context, token string) (*model.Session, error) {
	var session model.Session
	err := r.db.GetContext(ctx, &session, `
		SELECT * FROM sessions
		WHERE session_token = $1 AND expires_at > NOW()
	`, token)
	return HandleNotFound(&session, err)
}

// DeleteByToken is idempotent: deleting a token with no row is not an error.
func (r *sessionRepo) DeleteByToken(ctx context.Context, token string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE session_token = $1`, token)
	return err
}

func (r *sessionRepo) DeleteExpired(ctx context.Context) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at < NOW()`)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
