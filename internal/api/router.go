package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/vaultguard/vault-api/internal/api/handler"
	"github.com/vaultguard/vault-api/internal/api/middleware"
	"github.com/vaultguard/vault-api/internal/core/ports"
)

// Dependencies carries everything the router wires into handlers.
type Dependencies struct {
	Auth     ports.AuthService
	Vault    ports.VaultService
	Security ports.SecurityService
	Mongo    *mongo.Database
	Redis    *redis.Client
	Logger   zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echoprometheus.NewMiddleware("vault"))

	authHandler := handler.NewAuthHandler(deps.Auth)
	vaultHandler := handler.NewVaultHandler(deps.Vault)
	securityHandler := handler.NewSecurityHandler(deps.Security)
	toolsHandler := handler.NewToolsHandler()

	requireSession := middleware.Session(deps.Auth)

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)
	e.POST("/auth/logout", authHandler.Logout)
	e.GET("/auth/me", authHandler.Me, requireSession)
	e.POST("/auth/forgot-password", authHandler.ForgotPassword)
	e.POST("/auth/reset-password", authHandler.ResetPassword)

	// --- Vault routes ---
	vault := e.Group("/vault", requireSession)
	vault.POST("/credentials", vaultHandler.Add)
	vault.GET("/credentials", vaultHandler.List)
	vault.GET("/credentials/:id", vaultHandler.Get)
	vault.PATCH("/credentials/:id", vaultHandler.Update)
	vault.DELETE("/credentials/:id", vaultHandler.Delete)
	vault.GET("/stats", vaultHandler.Stats)

	// --- Security routes ---
	security := e.Group("/security", requireSession)
	security.POST("/scan", securityHandler.Scan)
	security.GET("/alerts", securityHandler.ListAlerts)
	security.POST("/alerts/:id/resolve", securityHandler.ResolveAlert)
	security.GET("/activity", securityHandler.ListActivity)

	// --- Tools ---
	tools := e.Group("/tools", requireSession)
	tools.GET("/password", toolsHandler.GeneratePassword)
	tools.POST("/password/score", toolsHandler.ScorePassword)

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(deps.Mongo, deps.Redis)

	e.GET("/health", healthHandler.Liveness)           // liveness  – is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
