package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/vaultguard/vault-api/internal/api/middleware"
	"github.com/vaultguard/vault-api/internal/core/domain"
	"github.com/vaultguard/vault-api/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type registerRequest struct {
	Username        string `json:"username" validate:"required,min=3,max=64"`
	Email           string `json:"email" validate:"required,email"`
	Name            string `json:"name" validate:"max=128"`
	MasterPassword  string `json:"master_password" validate:"required"`
	ConfirmPassword string `json:"confirm_password" validate:"required"`
}

type loginRequest struct {
	Username       string `json:"username" validate:"required"`
	MasterPassword string `json:"master_password" validate:"required"`
}

type forgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type resetPasswordRequest struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"new_password" validate:"required"`
}

type authResponse struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

// Register creates a vault account and opens the first session.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, session, err := h.authService.Register(c.Request().Context(), ports.RegisterInput{
		Username:        req.Username,
		Email:           req.Email,
		Name:            req.Name,
		MasterPassword:  req.MasterPassword,
		ConfirmPassword: req.ConfirmPassword,
	}, requestMeta(c))
	if err != nil {
		return err
	}

	setSessionCookie(c, session)
	return c.JSON(http.StatusCreated, authResponse{Token: session.ID, User: user})
}

// Login authenticates by username and master password and opens a session.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, session, err := h.authService.Login(c.Request().Context(), req.Username, req.MasterPassword, requestMeta(c))
	if err != nil {
		return err
	}

	setSessionCookie(c, session)
	return c.JSON(http.StatusOK, authResponse{Token: session.ID, User: user})
}

// Logout destroys the current session. Always succeeds, even when the
// session is already gone.
func (h *AuthHandler) Logout(c echo.Context) error {
	if id := middleware.SessionID(c); id != "" {
		if err := h.authService.Logout(c.Request().Context(), id, requestMeta(c)); err != nil {
			return err
		}
	}
	clearSessionCookie(c)
	return c.NoContent(http.StatusNoContent)
}

// Me returns the authenticated user's profile.
func (h *AuthHandler) Me(c echo.Context) error {
	session, err := ctxSession(c)
	if err != nil {
		return err
	}

	user, err := h.authService.CurrentUser(c.Request().Context(), session)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// ForgotPassword starts the reset flow. The response is 202 regardless of
// whether the email exists.
func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	var req forgotPasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.authService.RequestPasswordReset(c.Request().Context(), req.Email, requestMeta(c)); err != nil {
		return err
	}
	return c.JSON(http.StatusAccepted, map[string]string{
		"message": "if the address is registered, a reset message has been sent",
	})
}

// ResetPassword consumes a reset token and installs the new master password.
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req resetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.authService.ResetPassword(c.Request().Context(), req.Token, req.NewPassword, requestMeta(c)); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "password updated, log in again"})
}

func setSessionCookie(c echo.Context, session *domain.Session) {
	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    session.ID,
		Path:     "/",
		Expires:  session.ExpiresAt,
		HttpOnly: true,
		Secure:   c.Scheme() == "https",
		SameSite: http.SameSiteStrictMode,
	})
}

func clearSessionCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
}
