package session

import (
	"context"
	"time"

	"authgate/internal/logger"
)

// ExpiredDeleter is the slice of a store the sweeper needs.
type ExpiredDeleter interface {
	DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error)
}

// Sweeper periodically reaps expired session rows. Request-path validation
// deletes lazily either way; the sweeper only bounds the growth of rows that
// are never presented again.
type Sweeper struct {
	store    ExpiredDeleter
	interval time.Duration
}

func NewSweeper(store ExpiredDeleter, interval time.Duration) *Sweeper {
	return &Sweeper{store: store, interval: interval}
}

// Run blocks until ctx is cancelled. A non-positive interval disables the
// sweeper entirely.
func (s *Sweeper) Run(ctx context.Context) {
	if s.interval <= 0 {
		return
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			n, err := s.store.DeleteExpired(ctx, now)
			if err != nil {
				logger.Error("session sweep failed", map[string]any{
					"error": err.Error(),
				})
				continue
			}
			if n > 0 {
				logger.Info("expired sessions reaped", map[string]any{
					"count": n,
				})
			}
		}
	}
}
