package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/nhle/todoapp/internal/model"
)

// CreateSession starts a session for userID that lives for ttl.
func (s *SQLiteStore) CreateSession(ctx context.Context, userID int64, ttl time.Duration) (*model.Session, error) {
	now := s.now().UTC()
	sess := model.Session{
		ID:        uuid.New().String(),
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sessions (id, user_id, created_at, expires_at)
		VALUES (?, ?, ?, ?)`,
		sess.ID, sess.UserID, sess.CreatedAt, sess.ExpiresAt,
	)
	if err != nil {
		return nil, fmt.Errorf("creating session: %w", err)
	}
	return &sess, nil
}

// GetSession returns a live session. Expired sessions are removed and
// reported as ErrNotFound.
func (s *SQLiteStore) GetSession(ctx context.Context, id string) (*model.Session, error) {
	var sess model.Session
	err := s.db.GetContext(ctx, &sess,
		"SELECT id, user_id, created_at, expires_at FROM sessions WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("session: %w", ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("getting session: %w", err)
	}

	if !s.now().Before(sess.ExpiresAt) {
		if err := s.DeleteSession(ctx, id); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("session expired: %w", ErrNotFound)
	}
	return &sess, nil
}

// DeleteSession removes a session. Deleting a missing session is a no-op.
func (s *SQLiteStore) DeleteSession(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM sessions WHERE id = ?", id); err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}
	return nil
}

// PurgeExpiredSessions deletes every expired session and returns how many
// were removed.
func (s *SQLiteStore) PurgeExpiredSessions(ctx context.Context) (int64, error) {
	result, err := s.db.ExecContext(ctx,
		"DELETE FROM sessions WHERE expires_at <= ?", s.now().UTC())
	if err != nil {
		return 0, fmt.Errorf("purging sessions: %w", err)
	}
	n, _ := result.RowsAffected()
	return n, nil
}
