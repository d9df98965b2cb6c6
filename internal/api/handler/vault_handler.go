package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/vaultguard/vault-api/internal/core/domain"
	"github.com/vaultguard/vault-api/internal/core/ports"
)

type VaultHandler struct {
	vaultService ports.VaultService
}

func NewVaultHandler(vaultService ports.VaultService) *VaultHandler {
	return &VaultHandler{vaultService: vaultService}
}

type addCredentialRequest struct {
	Title        string `json:"title" validate:"required,max=256"`
	SiteUsername string `json:"site_username" validate:"max=256"`
	Secret       string `json:"secret" validate:"required"`
	URL          string `json:"url" validate:"max=2048"`
	Notes        string `json:"notes" validate:"max=4096"`
	Category     string `json:"category" validate:"max=64"`
	Favorite     bool   `json:"favorite"`
}

// updateCredentialRequest uses pointers so absent fields stay untouched.
type updateCredentialRequest struct {
	Title        *string `json:"title" validate:"omitempty,max=256"`
	SiteUsername *string `json:"site_username" validate:"omitempty,max=256"`
	Secret       *string `json:"secret"`
	URL          *string `json:"url" validate:"omitempty,max=2048"`
	Notes        *string `json:"notes" validate:"omitempty,max=4096"`
	Category     *string `json:"category" validate:"omitempty,max=64"`
	Favorite     *bool   `json:"favorite"`
}

// Add stores a new credential, encrypted under the session's vault key.
func (h *VaultHandler) Add(c echo.Context) error {
	session, err := ctxSession(c)
	if err != nil {
		return err
	}

	var req addCredentialRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	cred, err := h.vaultService.Add(c.Request().Context(), session, ports.AddCredentialInput{
		Title:        req.Title,
		SiteUsername: req.SiteUsername,
		Secret:       req.Secret,
		URL:          req.URL,
		Notes:        req.Notes,
		Category:     req.Category,
		Favorite:     req.Favorite,
	}, requestMeta(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, cred)
}

// List returns all of the user's credentials with secrets decrypted.
func (h *VaultHandler) List(c echo.Context) error {
	session, err := ctxSession(c)
	if err != nil {
		return err
	}

	creds, err := h.vaultService.List(c.Request().Context(), session)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, creds)
}

func (h *VaultHandler) Get(c echo.Context) error {
	session, err := ctxSession(c)
	if err != nil {
		return err
	}

	cred, err := h.vaultService.Get(c.Request().Context(), session, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cred)
}

func (h *VaultHandler) Update(c echo.Context) error {
	session, err := ctxSession(c)
	if err != nil {
		return err
	}

	var req updateCredentialRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	cred, err := h.vaultService.Update(c.Request().Context(), session, c.Param("id"), domain.CredentialPatch{
		Title:        req.Title,
		SiteUsername: req.SiteUsername,
		Secret:       req.Secret,
		URL:          req.URL,
		Notes:        req.Notes,
		Category:     req.Category,
		Favorite:     req.Favorite,
	}, requestMeta(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cred)
}

func (h *VaultHandler) Delete(c echo.Context) error {
	session, err := ctxSession(c)
	if err != nil {
		return err
	}

	if err := h.vaultService.Delete(c.Request().Context(), session, c.Param("id"), requestMeta(c)); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Stats returns the vault health summary.
func (h *VaultHandler) Stats(c echo.Context) error {
	session, err := ctxSession(c)
	if err != nil {
		return err
	}

	stats, err := h.vaultService.Stats(c.Request().Context(), session)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stats)
}
