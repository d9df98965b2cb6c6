package domain

import "errors"

// Sentinel errors form the engine's error taxonomy. Services return these
// (possibly wrapped); the API layer maps them to HTTP status codes without
// leaking internal detail.
var (
	ErrValidation       = errors.New("invalid input")
	ErrUnauthorized     = errors.New("authentication required")
	ErrForbidden        = errors.New("access forbidden")
	ErrNotFound         = errors.New("not found")
	ErrConflict         = errors.New("already exists")
	ErrRateLimited      = errors.New("too many attempts, try again later")
	ErrWeakPassword     = errors.New("password does not meet the minimum strength policy")
	ErrPasswordMismatch = errors.New("passwords do not match")

	// ErrInvalidCredentials is deliberately identical for unknown user and
	// wrong password so callers cannot enumerate accounts.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidOrExpiredToken covers unknown, expired and already-used reset
	// tokens. The three cases are indistinguishable to the caller.
	ErrInvalidOrExpiredToken = errors.New("invalid or expired token")

	// ErrDecryptionFailed signals an authentication-tag mismatch: wrong key,
	// corrupted envelope, or tampering. Logged loudly, surfaced generically.
	ErrDecryptionFailed = errors.New("decryption failed")

	// ErrBreachCheckUnavailable means the breach oracle could not be reached.
	// Callers treat the result as "unknown", never as "safe".
	ErrBreachCheckUnavailable = errors.New("breach check unavailable")
)
