package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/vaultguard/vault-api/internal/core/domain"
	"github.com/vaultguard/vault-api/internal/core/ports"
)

// ctxSession extracts the active session injected by the Session middleware.
// Absence means the middleware did not run on this route; fail closed.
func ctxSession(c echo.Context) (*domain.Session, error) {
	session, _ := c.Get("session").(*domain.Session)
	if session == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}
	return session, nil
}

// requestMeta captures the request attribution recorded in the audit trail.
func requestMeta(c echo.Context) ports.RequestMeta {
	return ports.RequestMeta{
		IP:        c.RealIP(),
		UserAgent: c.Request().UserAgent(),
	}
}
