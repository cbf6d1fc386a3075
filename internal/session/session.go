package session

import "time"

// Session is a server-side record of a successful login, referenced by the
// opaque token the client holds in its cookie.
type Session struct {
	ID        string    `json:"session_id"`
	UserID    int64     `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
}
