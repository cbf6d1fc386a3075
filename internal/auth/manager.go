// Package auth holds the session lifecycle manager: the state machine that
// issues sessions on login, validates and slides them on every request, and
// deletes them on expiry or logout.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"authgate/internal/logger"
	"authgate/internal/session"
	"authgate/internal/user"
)

// maxIssueAttempts bounds the retry-on-collision loop when creating ids.
const maxIssueAttempts = 3

type Manager struct {
	sessions   session.Store
	users      user.Store
	ttl        time.Duration
	refreshTTL time.Duration

	now func() time.Time // swapped in tests
}

func NewManager(sessions session.Store, users user.Store, ttl, refreshTTL time.Duration) *Manager {
	if refreshTTL <= 0 {
		refreshTTL = ttl
	}
	return &Manager{
		sessions:   sessions,
		users:      users,
		ttl:        ttl,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
}

// Issue creates a session for userID and returns the opaque id for the
// cookie. A duplicate id is retried with a fresh one a bounded number of
// times instead of surfacing the raw write failure.
func (m *Manager) Issue(ctx context.Context, userID int64) (string, error) {
	for attempt := 0; attempt < maxIssueAttempts; attempt++ {
		id, err := session.GenerateID()
		if err != nil {
			return "", err
		}

		err = m.sessions.Create(ctx, session.Session{
			ID:        id,
			UserID:    userID,
			ExpiresAt: m.now().Add(m.ttl),
		})
		if errors.Is(err, session.ErrDuplicateID) {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("create session: %w", err)
		}

		return id, nil
	}

	return "", fmt.Errorf("create session: %w", session.ErrDuplicateID)
}

// Validate resolves the user behind a session cookie value. It returns
// (nil, nil) for everything that should be treated as unauthenticated: an
// empty or unknown id, an expired session, or a session whose user no longer
// exists. A valid resolution slides the expiry forward, so active sessions
// never expire and idle ones expire exactly one TTL past last use.
func (m *Manager) Validate(ctx context.Context, sessionID string) (*user.User, error) {
	if sessionID == "" {
		return nil, nil
	}

	sess, err := m.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if sess == nil {
		return nil, nil
	}

	now := m.now()
	if !sess.ExpiresAt.After(now) {
		// expired: reap lazily, best effort
		if err := m.sessions.Delete(ctx, sessionID); err != nil {
			logger.Warn("failed to delete expired session", map[string]any{
				"error": err.Error(),
			})
		}
		return nil, nil
	}

	u, err := m.users.GetByID(ctx, sess.UserID)
	if errors.Is(err, user.ErrNotFound) {
		// orphaned session: the row is live but its user is gone
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("resolve session user: %w", err)
	}

	if err := m.sessions.Refresh(ctx, sessionID, now.Add(m.refreshTTL)); err != nil {
		// the request stays authenticated; the session just did not slide
		logger.Warn("session refresh failed", map[string]any{
			"error": err.Error(),
		})
	}

	return u, nil
}

// Invalidate removes the session row. Removing an absent row is fine.
func (m *Manager) Invalidate(ctx context.Context, sessionID string) error {
	return m.sessions.Delete(ctx, sessionID)
}
