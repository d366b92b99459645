package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// callerIdentity extracts the identity injected by the Auth middleware and
// fast-fails before any service call: both claims must be present, otherwise
// the request never carried a verified token.
func callerIdentity(c echo.Context) (id, role string, err error) {
	id, _ = c.Get("user_id").(string)
	role, _ = c.Get("role").(string)
	if id == "" || role == "" {
		return "", "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return id, role, nil
}
