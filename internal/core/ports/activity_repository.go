package ports

import (
	"context"

	"github.com/vaultguard/vault-api/internal/core/domain"
)

// ActivityRepository persists the append-only audit trail.
type ActivityRepository interface {
	Append(ctx context.Context, entry *domain.ActivityLogEntry) error
	// ListByUser returns the newest entries first, bounded by limit.
	ListByUser(ctx context.Context, userID string, limit int) ([]domain.ActivityLogEntry, error)
}

// ActivityRecorder is the fire-and-forget front of the audit trail.
// Record never blocks and never fails the triggering operation; persistence
// happens asynchronously.
type ActivityRecorder interface {
	Record(entry domain.ActivityLogEntry)
}
