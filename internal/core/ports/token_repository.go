package ports

import (
	"context"
	"time"

	"github.com/vaultguard/vault-api/internal/core/domain"
)

// ResetTokenRepository persists password reset tokens.
type ResetTokenRepository interface {
	Create(ctx context.Context, token *domain.PasswordResetToken) error
	FindByToken(ctx context.Context, token string) (*domain.PasswordResetToken, error)
	// Consume atomically flips an unused token to used. It returns
	// domain.ErrNotFound when the token is absent or was already consumed,
	// so at most one caller ever wins a given token.
	Consume(ctx context.Context, id string) error
	// InvalidateForUser marks every active token of the user as used, except
	// the one identified by exceptID. Issuing a token and then invalidating
	// the rest keeps at most one token active per user.
	InvalidateForUser(ctx context.Context, userID, exceptID string) error
	// DeleteExpired purges tokens past their expiry. Optional hygiene only:
	// expiry is always re-checked at verification time.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
