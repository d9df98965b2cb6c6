package api

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/vaultguard/vault-api/internal/core/domain"
)

func TestHTTPErrorHandler_DomainMapping(t *testing.T) {
	cases := []struct {
		name     string
		err      error
		wantCode int
		wantBody string
	}{
		{"validation", domain.ErrValidation, http.StatusBadRequest, "invalid input"},
		{"wrapped validation", fmt.Errorf("title: %w", domain.ErrValidation), http.StatusBadRequest, "title"},
		{"weak password", domain.ErrWeakPassword, http.StatusBadRequest, "strength"},
		{"mismatch", domain.ErrPasswordMismatch, http.StatusBadRequest, "do not match"},
		{"invalid credentials", domain.ErrInvalidCredentials, http.StatusUnauthorized, "invalid credentials"},
		{"unauthorized", domain.ErrUnauthorized, http.StatusUnauthorized, "authentication required"},
		{"forbidden", domain.ErrForbidden, http.StatusForbidden, "forbidden"},
		{"not found", domain.ErrNotFound, http.StatusNotFound, "not found"},
		{"conflict", domain.ErrConflict, http.StatusConflict, "already exists"},
		{"stale token", domain.ErrInvalidOrExpiredToken, http.StatusBadRequest, "invalid or expired"},
		{"rate limited", domain.ErrRateLimited, http.StatusTooManyRequests, "too many attempts"},
		{"unexpected", errors.New("disk on fire"), http.StatusInternalServerError, "internal server error"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			NewHTTPErrorHandler(zerolog.Nop())(tc.err, c)

			assert.Equal(t, tc.wantCode, rec.Code)
			assert.Contains(t, rec.Body.String(), tc.wantBody)
		})
	}
}

func TestHTTPErrorHandler_DecryptionFailureStaysGeneric(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/vault/credentials/x", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	NewHTTPErrorHandler(zerolog.Nop())(fmt.Errorf("credential x: %w", domain.ErrDecryptionFailed), c)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	// The client must never learn which envelope failed or why.
	assert.NotContains(t, rec.Body.String(), "decrypt")
	assert.Contains(t, rec.Body.String(), "internal server error")
}

func TestHTTPErrorHandler_EchoErrorsPassThrough(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/nope", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	NewHTTPErrorHandler(zerolog.Nop())(echo.NewHTTPError(http.StatusNotFound, "route not found"), c)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "route not found")
}
