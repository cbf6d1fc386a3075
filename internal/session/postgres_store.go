package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
)

const pgUniqueViolation = "23505"

// PostgresStore keeps sessions in the sessions table, expiry as epoch millis.
// It is the default backend and the single source of truth for validity;
// row-level atomicity comes from the database, not application locking.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, sess Session) error {
	if sess.ID == "" || sess.UserID == 0 {
		return fmt.Errorf("session: missing id or user id")
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sessions (id, user_id, expire_time)
		VALUES ($1, $2, $3)
	`, sess.ID, sess.UserID, sess.ExpiresAt.UnixMilli())

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pgUniqueViolation {
			return ErrDuplicateID
		}
		return fmt.Errorf("insert session: %w", err)
	}

	return nil
}

func (s *PostgresStore) Get(ctx context.Context, id string) (*Session, error) {
	var (
		userID int64
		millis int64
	)

	err := s.db.QueryRowContext(ctx, `
		SELECT user_id, expire_time
		FROM sessions
		WHERE id = $1
	`, id).Scan(&userID, &millis)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("select session: %w", err)
	}

	return &Session{
		ID:        id,
		UserID:    userID,
		ExpiresAt: time.UnixMilli(millis),
	}, nil
}

func (s *PostgresStore) Refresh(ctx context.Context, id string, expiresAt time.Time) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE sessions
		SET expire_time = $2
		WHERE id = $1
	`, id, expiresAt.UnixMilli())

	if err != nil {
		return fmt.Errorf("update session: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update session: %w", err)
	}
	if affected != 1 {
		return ErrWriteConflict
	}

	return nil
}

// Delete removes the session row. Deleting an absent row is not an error.
func (s *PostgresStore) Delete(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// DeleteExpired reaps rows whose expiry is at or before cutoff. Used by the
// maintenance sweeper only, never by request-path validation.
func (s *PostgresStore) DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM sessions WHERE expire_time <= $1
	`, cutoff.UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", err)
	}
	return res.RowsAffected()
}
