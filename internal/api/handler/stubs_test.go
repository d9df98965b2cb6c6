package handler

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/vaultguard/vault-api/internal/core/domain"
	"github.com/vaultguard/vault-api/internal/core/ports"
)

// Stub services with overridable function fields. Unset functions panic,
// which makes an unexpected call an immediate test failure.

type stubAuthService struct {
	register      func(ctx context.Context, in ports.RegisterInput, meta ports.RequestMeta) (*domain.User, *domain.Session, error)
	login         func(ctx context.Context, username, password string, meta ports.RequestMeta) (*domain.User, *domain.Session, error)
	logout        func(ctx context.Context, sessionID string, meta ports.RequestMeta) error
	authenticate  func(ctx context.Context, sessionID string) (*domain.Session, error)
	currentUser   func(ctx context.Context, session *domain.Session) (*domain.User, error)
	requestReset  func(ctx context.Context, email string, meta ports.RequestMeta) error
	resetPassword func(ctx context.Context, token, newPassword string, meta ports.RequestMeta) error
}

func (s *stubAuthService) Register(ctx context.Context, in ports.RegisterInput, meta ports.RequestMeta) (*domain.User, *domain.Session, error) {
	return s.register(ctx, in, meta)
}

func (s *stubAuthService) Login(ctx context.Context, username, password string, meta ports.RequestMeta) (*domain.User, *domain.Session, error) {
	return s.login(ctx, username, password, meta)
}

func (s *stubAuthService) Logout(ctx context.Context, sessionID string, meta ports.RequestMeta) error {
	return s.logout(ctx, sessionID, meta)
}

func (s *stubAuthService) Authenticate(ctx context.Context, sessionID string) (*domain.Session, error) {
	return s.authenticate(ctx, sessionID)
}

func (s *stubAuthService) CurrentUser(ctx context.Context, session *domain.Session) (*domain.User, error) {
	return s.currentUser(ctx, session)
}

func (s *stubAuthService) RequestPasswordReset(ctx context.Context, email string, meta ports.RequestMeta) error {
	return s.requestReset(ctx, email, meta)
}

func (s *stubAuthService) ResetPassword(ctx context.Context, token, newPassword string, meta ports.RequestMeta) error {
	return s.resetPassword(ctx, token, newPassword, meta)
}

type stubVaultService struct {
	add    func(ctx context.Context, session *domain.Session, in ports.AddCredentialInput, meta ports.RequestMeta) (*domain.DecryptedCredential, error)
	list   func(ctx context.Context, session *domain.Session) ([]domain.DecryptedCredential, error)
	get    func(ctx context.Context, session *domain.Session, id string) (*domain.DecryptedCredential, error)
	update func(ctx context.Context, session *domain.Session, id string, patch domain.CredentialPatch, meta ports.RequestMeta) (*domain.DecryptedCredential, error)
	delete func(ctx context.Context, session *domain.Session, id string, meta ports.RequestMeta) error
	stats  func(ctx context.Context, session *domain.Session) (*domain.VaultStats, error)
}

func (s *stubVaultService) Add(ctx context.Context, session *domain.Session, in ports.AddCredentialInput, meta ports.RequestMeta) (*domain.DecryptedCredential, error) {
	return s.add(ctx, session, in, meta)
}

func (s *stubVaultService) List(ctx context.Context, session *domain.Session) ([]domain.DecryptedCredential, error) {
	return s.list(ctx, session)
}

func (s *stubVaultService) Get(ctx context.Context, session *domain.Session, id string) (*domain.DecryptedCredential, error) {
	return s.get(ctx, session, id)
}

func (s *stubVaultService) Update(ctx context.Context, session *domain.Session, id string, patch domain.CredentialPatch, meta ports.RequestMeta) (*domain.DecryptedCredential, error) {
	return s.update(ctx, session, id, patch, meta)
}

func (s *stubVaultService) Delete(ctx context.Context, session *domain.Session, id string, meta ports.RequestMeta) error {
	return s.delete(ctx, session, id, meta)
}

func (s *stubVaultService) Stats(ctx context.Context, session *domain.Session) (*domain.VaultStats, error) {
	return s.stats(ctx, session)
}

type stubSecurityService struct {
	scan         func(ctx context.Context, session *domain.Session) ([]domain.SecurityAlert, error)
	listAlerts   func(ctx context.Context, session *domain.Session) ([]domain.SecurityAlert, error)
	resolveAlert func(ctx context.Context, session *domain.Session, alertID string, meta ports.RequestMeta) error
	listActivity func(ctx context.Context, session *domain.Session, limit int) ([]domain.ActivityLogEntry, error)
}

func (s *stubSecurityService) ScanVault(ctx context.Context, session *domain.Session) ([]domain.SecurityAlert, error) {
	return s.scan(ctx, session)
}

func (s *stubSecurityService) ListAlerts(ctx context.Context, session *domain.Session) ([]domain.SecurityAlert, error) {
	return s.listAlerts(ctx, session)
}

func (s *stubSecurityService) ResolveAlert(ctx context.Context, session *domain.Session, alertID string, meta ports.RequestMeta) error {
	return s.resolveAlert(ctx, session, alertID, meta)
}

func (s *stubSecurityService) ListActivity(ctx context.Context, session *domain.Session, limit int) ([]domain.ActivityLogEntry, error) {
	return s.listActivity(ctx, session, limit)
}

// newTestContext builds an echo.Context for a JSON request against an Echo
// instance configured with the production validator.
func newTestContext(t *testing.T, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func withSession(c echo.Context, userID string) *domain.Session {
	session := &domain.Session{ID: "sess-test", UserID: userID}
	c.Set("session", session)
	return session
}

// requireHTTPStatus asserts that the handler returned an *echo.HTTPError with
// the given status code.
func requireHTTPStatus(t *testing.T, err error, want int) {
	t.Helper()
	he, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("expected *echo.HTTPError, got %v", err)
	}
	if he.Code != want {
		t.Fatalf("expected status %d, got %d (%v)", want, he.Code, he.Message)
	}
}
