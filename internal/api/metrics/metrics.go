// Package metrics defines and registers all custom Prometheus metrics for the
// vault API. It is the single source of truth for metric names, labels, and
// help strings.
//
// Metrics are registered with the default registry at package init via
// promauto; expose them by mounting the echoprometheus handler.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "vault"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// LoginsTotal counts login attempts by outcome.
// Label:
//   - outcome: "success", "invalid_credentials", "rate_limited", "error"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by outcome.",
	},
	[]string{"outcome"},
)

// RegistrationsTotal counts completed account registrations.
var RegistrationsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of completed account registrations.",
	},
)

// PasswordResetsTotal counts reset flow events.
// Label:
//   - stage: "requested" or "completed"
var PasswordResetsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "password_resets_total",
		Help:      "Total number of password reset flow events, by stage.",
	},
	[]string{"stage"},
)

// KDFDuration measures how long one Argon2id derivation takes. Watch this
// when tuning KDF parameters: p99 directly bounds login latency.
var KDFDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "kdf_duration_seconds",
		Help:      "Duration of a single key derivation.",
		Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5},
	},
)

// ── Vault metrics ─────────────────────────────────────────────────────────────

// CredentialOperationsTotal counts credential mutations and reads.
// Label:
//   - operation: "add", "get", "list", "update", "delete"
var CredentialOperationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "credential_operations_total",
		Help:      "Total number of credential operations, by operation.",
	},
	[]string{"operation"},
)

// DecryptFailuresTotal counts envelope authentication failures. Any nonzero
// rate here means corrupted storage or tampering and deserves a page.
var DecryptFailuresTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "decrypt_failures_total",
		Help:      "Total number of envelope authentication failures.",
	},
)

// ── Security metrics ──────────────────────────────────────────────────────────

// BreachChecksTotal counts breach oracle lookups.
// Label:
//   - result: "hit", "miss", "unavailable"
var BreachChecksTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "breach_checks_total",
		Help:      "Total number of breach oracle lookups, by result.",
	},
	[]string{"result"},
)

// AlertsOpenedTotal counts alerts raised by vault scans.
// Label:
//   - kind: "weak", "reused", "breach"
var AlertsOpenedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "alerts_opened_total",
		Help:      "Total number of security alerts raised, by kind.",
	},
	[]string{"kind"},
)
