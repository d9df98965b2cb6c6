package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/vaultguard/vault-api/internal/core/ports"
)

// SessionCookieName is the cookie carrying the opaque session identifier.
// Browser clients use the cookie; API clients may send the same identifier
// as a bearer token instead.
const SessionCookieName = "vault_session"

// Session resolves the request's session identifier against the auth service
// and injects the active session into context. Requests without a valid
// session are rejected with 401.
func Session(auth ports.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := SessionID(c)
			if id == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
			}

			session, err := auth.Authenticate(c.Request().Context(), id)
			if err != nil {
				return err
			}

			c.Set("session", session)
			return next(c)
		}
	}
}

// SessionID extracts the session identifier from the cookie or, failing
// that, the bearer token. Empty when the request carries neither.
func SessionID(c echo.Context) string {
	if cookie, err := c.Cookie(SessionCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	header := c.Request().Header.Get("Authorization")
	parts := strings.SplitN(header, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
		return parts[1]
	}
	return ""
}
