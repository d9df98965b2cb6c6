package domain

import "time"

// PasswordResetToken is a single-use, time-boxed reset credential. At most
// one active (unused, unexpired) token exists per user: issuing a new one
// invalidates all prior tokens. Once consumed it stays inert forever, even
// if re-submitted before its expiry.
type PasswordResetToken struct {
	ID        string
	UserID    string
	Token     string
	ExpiresAt time.Time
	Used      bool
	CreatedAt time.Time
}

// Active reports whether the token can still be consumed at the given time.
func (t *PasswordResetToken) Active(now time.Time) bool {
	return !t.Used && now.Before(t.ExpiresAt)
}
