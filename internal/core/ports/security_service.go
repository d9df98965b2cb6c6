package ports

import (
	"context"

	"github.com/vaultguard/vault-api/internal/core/domain"
)

// SecurityService runs vault health analytics (weak, reused, breached) and
// serves the alert and activity views.
type SecurityService interface {
	// ScanVault analyzes the user's records and records alerts for weak,
	// reused, and breached secrets. Breach oracle outages degrade the scan
	// rather than failing it.
	ScanVault(ctx context.Context, session *domain.Session) ([]domain.SecurityAlert, error)
	ListAlerts(ctx context.Context, session *domain.Session) ([]domain.SecurityAlert, error)
	ResolveAlert(ctx context.Context, session *domain.Session, alertID string, meta RequestMeta) error
	ListActivity(ctx context.Context, session *domain.Session, limit int) ([]domain.ActivityLogEntry, error)
}
