package ports

import (
	"context"

	"github.com/vaultguard/vault-api/internal/core/domain"
)

// RegisterInput carries the fields of an account registration.
type RegisterInput struct {
	Username        string
	Email           string
	Name            string
	MasterPassword  string
	ConfirmPassword string
}

// AuthService owns the authentication lifecycle: registration, rate-limited
// login, session issue/destroy, and the password reset token flow.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput, meta RequestMeta) (*domain.User, *domain.Session, error)
	Login(ctx context.Context, username, masterPassword string, meta RequestMeta) (*domain.User, *domain.Session, error)
	// Logout destroys the session server-side. Idempotent.
	Logout(ctx context.Context, sessionID string, meta RequestMeta) error
	// Authenticate resolves an opaque session id to an active session,
	// sliding its expiry. Returns domain.ErrUnauthorized otherwise.
	Authenticate(ctx context.Context, sessionID string) (*domain.Session, error)
	CurrentUser(ctx context.Context, session *domain.Session) (*domain.User, error)
	// RequestPasswordReset never reveals whether the email exists.
	RequestPasswordReset(ctx context.Context, email string, meta RequestMeta) error
	ResetPassword(ctx context.Context, token, newPassword string, meta RequestMeta) error
}
