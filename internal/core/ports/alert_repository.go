package ports

import (
	"context"

	"github.com/vaultguard/vault-api/internal/core/domain"
)

// AlertRepository persists security alerts produced by vault analytics.
type AlertRepository interface {
	Create(ctx context.Context, alert *domain.SecurityAlert) error
	ListByUser(ctx context.Context, userID string) ([]domain.SecurityAlert, error)
	// FindOpen returns the unresolved alert matching kind and credential, if
	// any, so scan passes do not duplicate alerts.
	FindOpen(ctx context.Context, userID string, kind domain.AlertKind, credentialID string) (*domain.SecurityAlert, error)
	// Resolve flips the resolved flag. Resolving twice is a no-op, absent
	// alerts yield domain.ErrNotFound.
	Resolve(ctx context.Context, id, userID string) error
}
