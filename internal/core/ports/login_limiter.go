package ports

import "context"

// LoginAttemptStore counts failed login attempts per key (source IP) inside
// a sliding lockout window. Increment must be atomic per key so parallel
// attempts cannot both observe the pre-increment count and bypass the limit.
type LoginAttemptStore interface {
	// Increment records one attempt and returns the count inside the
	// current window.
	Increment(ctx context.Context, key string) (int64, error)
	// Reset clears the counter, typically after a successful login.
	Reset(ctx context.Context, key string) error
}
