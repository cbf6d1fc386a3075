package session

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrDuplicateID is returned by Create when the generated id collides
	// with an existing row. Callers retry with a fresh id.
	ErrDuplicateID = errors.New("session: id already exists")

	// ErrWriteConflict is returned when a write touched no rows, typically
	// because the session disappeared underneath the caller.
	ErrWriteConflict = errors.New("session: write affected no rows")
)

// Store defines how sessions are stored and retrieved. Get returns
// (nil, nil) for an unknown id; absence is a normal outcome, not an error.
type Store interface {
	Create(ctx context.Context, s Session) error
	Get(ctx context.Context, id string) (*Session, error)
	Refresh(ctx context.Context, id string, expiresAt time.Time) error
	Delete(ctx context.Context, id string) error
}
