package ports

import "context"

// BreachOracle answers whether a password appears in known breach corpora.
// Implementations must query by hash prefix (k-anonymity); the plaintext
// password never leaves the process. Oracle outages surface as
// domain.ErrBreachCheckUnavailable so callers can degrade to "unknown".
type BreachOracle interface {
	CheckBreach(ctx context.Context, password string) (bool, error)
}
