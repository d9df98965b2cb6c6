package ports

import (
	"context"

	"github.com/vaultguard/vault-api/internal/core/domain"
)

// SessionStore maps opaque session identifiers to user identities with a
// sliding expiry. The payload carries no secrets. Get returns
// domain.ErrUnauthorized for unknown or expired sessions.
type SessionStore interface {
	Save(ctx context.Context, session *domain.Session) error
	// Get resolves a session and slides its expiry forward.
	Get(ctx context.Context, id string) (*domain.Session, error)
	// Delete destroys a session; deleting an absent session is a no-op.
	Delete(ctx context.Context, id string) error
}

// KeyCache holds derived vault keys for the lifetime of a session, in
// process memory only. Keys are never written to the session store or any
// other persistence; a process restart simply requires a fresh login.
type KeyCache interface {
	Put(sessionID string, key []byte)
	Get(sessionID string) ([]byte, bool)
	Delete(sessionID string)
}
