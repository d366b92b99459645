package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/marketloop/accounts-api/internal/api/metrics"
	"github.com/marketloop/accounts-api/internal/core/domain"
)

// Operation names a protected account endpoint in the policy table.
type Operation string

const (
	OpListUsers     Operation = "users.list"
	OpSelfFetch     Operation = "users.me"
	OpDeleteUser    Operation = "users.delete"
	OpUpdateProfile Operation = "users.update_profile"
	OpCreateUser    Operation = "users.create"
	OpAdminUpdate   Operation = "users.admin_update"
	OpUploadAvatar  Operation = "users.upload_avatar"
	OpGetUser       Operation = "users.get"
)

// policy is the single source of truth for which roles may invoke which
// operation. Note that users.delete grants the user role access to any id,
// not only its own; that matches the behavior this service has always had.
var policy = map[Operation]map[string]struct{}{
	OpListUsers:     roles(domain.RoleAdmin),
	OpSelfFetch:     roles(domain.RoleAdmin, domain.RoleUser),
	OpDeleteUser:    roles(domain.RoleAdmin, domain.RoleUser),
	OpUpdateProfile: roles(domain.RoleAdmin, domain.RoleUser),
	OpCreateUser:    roles(domain.RoleAdmin),
	OpAdminUpdate:   roles(domain.RoleAdmin),
	OpUploadAvatar:  roles(domain.RoleAdmin, domain.RoleUser),
	OpGetUser:       roles(domain.RoleAdmin),
}

func roles(rs ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(rs))
	for _, r := range rs {
		set[r] = struct{}{}
	}
	return set
}

// Allowed reports whether role may invoke op according to the policy table.
func Allowed(op Operation, role string) bool {
	set, ok := policy[op]
	if !ok {
		return false
	}
	_, ok = set[role]
	return ok
}

// Gate enforces the policy table for one operation. It runs after Auth: a
// missing role claim means the request never carried a verified identity and
// is rejected as unauthenticated, a role outside the allowed set as forbidden.
// Either way the handler, and therefore the repository, is never reached.
func Gate(op Operation) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get("role").(string)
			if role == "" {
				metrics.AuthDeniedTotal.WithLabelValues("missing_claims").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
			}
			if !Allowed(op, role) {
				metrics.AuthDeniedTotal.WithLabelValues("forbidden").Inc()
				return echo.NewHTTPError(http.StatusForbidden, "forbidden")
			}
			return next(c)
		}
	}
}
