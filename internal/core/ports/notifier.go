package ports

import "context"

// Notifier delivers password reset messages out of band. The engine
// constructs the token and URL; transport (email, SMS) is entirely the
// implementation's concern.
type Notifier interface {
	SendPasswordResetMessage(ctx context.Context, email, token, resetURL string) error
}
