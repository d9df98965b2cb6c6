package domain

import "time"

// Session binds an opaque server-held identifier to a user identity. It is
// never persisted relationally and carries no secrets; the session store
// applies a sliding expiry on every touch.
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"-"`
	ExpiresAt time.Time `json:"expires_at"`
}
