// Package notifier delivers password reset messages. The log notifier is the
// development transport: it writes the reset URL to the structured log
// instead of sending mail. Swap in a real mail transport behind the same
// port for production.
package notifier

import (
	"context"

	"github.com/rs/zerolog"
)

type LogNotifier struct {
	log zerolog.Logger
}

func NewLogNotifier(log zerolog.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) SendPasswordResetMessage(ctx context.Context, email, token, resetURL string) error {
	n.log.Info().
		Str("email", email).
		Str("reset_url", resetURL).
		Msg("password reset message")
	return nil
}
