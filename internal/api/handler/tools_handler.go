package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/vaultguard/vault-api/internal/password"
)

// ToolsHandler serves the stateless password utilities. Nothing here touches
// storage; generated passwords are never logged or retained.
type ToolsHandler struct{}

func NewToolsHandler() *ToolsHandler {
	return &ToolsHandler{}
}

type generatePasswordRequest struct {
	Length  int   `query:"length"`
	Lower   *bool `query:"lower"`
	Upper   *bool `query:"upper"`
	Digits  *bool `query:"digits"`
	Symbols *bool `query:"symbols"`
}

type generatePasswordResponse struct {
	Password string `json:"password"`
	Strength int    `json:"strength"`
}

// GeneratePassword returns a random password plus its strength score.
// Omitted query parameters fall back to the defaults: 16 characters, all
// classes.
func (h *ToolsHandler) GeneratePassword(c echo.Context) error {
	var req generatePasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid parameters")
	}

	opts := password.DefaultGenerateOptions()
	if req.Length > 0 {
		opts.Length = req.Length
	}
	if req.Lower != nil {
		opts.Lower = *req.Lower
	}
	if req.Upper != nil {
		opts.Upper = *req.Upper
	}
	if req.Digits != nil {
		opts.Digits = *req.Digits
	}
	if req.Symbols != nil {
		opts.Symbols = *req.Symbols
	}

	generated, err := password.Generate(opts)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, generatePasswordResponse{
		Password: generated,
		Strength: password.Score(generated),
	})
}

type scorePasswordRequest struct {
	Password string `json:"password" validate:"required"`
}

type scorePasswordResponse struct {
	Strength int `json:"strength"`
}

// ScorePassword previews the strength score without storing anything.
func (h *ToolsHandler) ScorePassword(c echo.Context) error {
	var req scorePasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, scorePasswordResponse{Strength: password.Score(req.Password)})
}
