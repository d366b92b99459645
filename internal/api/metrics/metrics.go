// Package metrics defines and registers all custom Prometheus metrics for
// the accounts API. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics are registered with the default registry via promauto at package
// load; no explicit Register call is needed.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "accounts"

// AuthDeniedTotal counts requests rejected before reaching a handler.
// Label:
//   - reason: "missing_token", "malformed_header", "invalid_token",
//     "missing_claims", or "forbidden"
var AuthDeniedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_denied_total",
		Help:      "Total number of requests rejected by the auth middleware or role gate.",
	},
	[]string{"reason"},
)

// UsersCreatedTotal counts successfully created accounts.
var UsersCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "users_created_total",
		Help:      "Total number of user accounts created.",
	},
)

// UsersDeletedTotal counts soft-delete operations that completed.
var UsersDeletedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "users_deleted_total",
		Help:      "Total number of user accounts soft-deleted.",
	},
)

// AvatarUploadsTotal counts avatar upload attempts.
// Label:
//   - result: "ok", "too_large", "rejected", or "error"
var AvatarUploadsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "avatar_uploads_total",
		Help:      "Total number of avatar upload attempts, by result.",
	},
	[]string{"result"},
)

// DuplicateEmailTotal counts create and update attempts that hit the unique
// email constraint, whichever path detected it.
var DuplicateEmailTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "duplicate_email_total",
		Help:      "Total number of writes rejected by the unique email constraint.",
	},
)
