package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/vaultguard/vault-api/internal/core/ports"
)

type SecurityHandler struct {
	securityService ports.SecurityService
}

func NewSecurityHandler(securityService ports.SecurityService) *SecurityHandler {
	return &SecurityHandler{securityService: securityService}
}

// Scan runs the vault health analysis and returns the newly opened alerts.
func (h *SecurityHandler) Scan(c echo.Context) error {
	session, err := ctxSession(c)
	if err != nil {
		return err
	}

	created, err := h.securityService.ScanVault(c.Request().Context(), session)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{
		"created": len(created),
		"alerts":  created,
	})
}

// ListAlerts returns the user's alerts, open and resolved, newest first.
func (h *SecurityHandler) ListAlerts(c echo.Context) error {
	session, err := ctxSession(c)
	if err != nil {
		return err
	}

	alerts, err := h.securityService.ListAlerts(c.Request().Context(), session)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, alerts)
}

func (h *SecurityHandler) ResolveAlert(c echo.Context) error {
	session, err := ctxSession(c)
	if err != nil {
		return err
	}

	if err := h.securityService.ResolveAlert(c.Request().Context(), session, c.Param("id"), requestMeta(c)); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// ListActivity returns the newest audit trail entries. ?limit= caps the page
// size; the service clamps out-of-range values.
func (h *SecurityHandler) ListActivity(c echo.Context) error {
	session, err := ctxSession(c)
	if err != nil {
		return err
	}

	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	entries, err := h.securityService.ListActivity(c.Request().Context(), session, limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, entries)
}
