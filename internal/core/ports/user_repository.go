package ports

import (
	"context"

	"github.com/vaultguard/vault-api/internal/core/domain"
)

// UserRepository persists vault accounts. Create must be atomic
// insert-if-absent on both username and email, returning
// domain.ErrConflict when either is taken.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// UpdateLastLogin bumps the last-login timestamp.
	UpdateLastLogin(ctx context.Context, id string) error
	// UpdateCredentials atomically replaces verifier and salt (password reset).
	UpdateCredentials(ctx context.Context, id string, verifier, salt []byte) error
}
