package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/vaultguard/vault-api/internal/api"
	"github.com/vaultguard/vault-api/internal/core/service"
	"github.com/vaultguard/vault-api/internal/crypto"
	"github.com/vaultguard/vault-api/internal/infrastructure/breach"
	"github.com/vaultguard/vault-api/internal/infrastructure/config"
	mongodb "github.com/vaultguard/vault-api/internal/infrastructure/db/mongo"
	redisdb "github.com/vaultguard/vault-api/internal/infrastructure/db/redis"
	"github.com/vaultguard/vault-api/internal/infrastructure/keycache"
	"github.com/vaultguard/vault-api/internal/infrastructure/notifier"
	"github.com/vaultguard/vault-api/internal/infrastructure/queue"
	"github.com/vaultguard/vault-api/pkg/logger"
)

const tokenSweepInterval = time.Hour

func main() {
	cfg := config.Load(slog.Default())

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Storage ---
	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connection failed")
	}
	defer func() { _ = mongoClient.Disconnect(context.Background()) }()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer func() { _ = rdb.Close() }()

	// --- Repositories ---
	users := mongodb.NewUserRepository(db)
	creds := mongodb.NewCredentialRepository(db)
	alerts := mongodb.NewAlertRepository(db)
	activity := mongodb.NewActivityRepository(db)
	tokens := mongodb.NewResetTokenRepository(db)

	for name, ensure := range map[string]func(context.Context) error{
		"users":       users.EnsureIndexes,
		"credentials": creds.EnsureIndexes,
		"alerts":      alerts.EnsureIndexes,
		"activity":    activity.EnsureIndexes,
		"tokens":      tokens.EnsureIndexes,
	} {
		if err := ensure(ctx); err != nil {
			log.Fatal().Err(err).Str("collection", name).Msg("index creation failed")
		}
	}

	sessions := redisdb.NewSessionStore(rdb, cfg.Auth.SessionTTL)
	attempts := redisdb.NewLoginAttemptStore(rdb)
	keys := keycache.New()

	// --- Supporting infrastructure ---
	recorder := queue.NewRecorder(cfg.ActivityWorkers, activity, log)
	recorder.Start(ctx)

	oracle := breach.NewClient(cfg.Breach.BaseURL, log)
	mailer := notifier.NewLogNotifier(log)

	kdf := crypto.NewKDF(crypto.Params{
		Time:    cfg.KDF.Time,
		Memory:  cfg.KDF.MemoryK,
		Threads: cfg.KDF.Threads,
	})

	// --- Services ---
	authService := service.NewAuthService(users, tokens, sessions, keys, attempts, mailer, recorder, kdf, service.AuthConfig{
		MinStrength:      cfg.Auth.MinStrength,
		MaxLoginAttempts: int64(cfg.Auth.MaxLoginAttempts),
		SessionTTL:       cfg.Auth.SessionTTL,
		ResetTokenTTL:    cfg.Auth.ResetTokenTTL,
		PublicBaseURL:    cfg.PublicBaseURL,
	}, log)
	vaultService := service.NewVaultService(creds, keys, recorder, log)
	securityService := service.NewSecurityService(creds, alerts, activity, keys, oracle, recorder, log)

	go sweepExpiredTokens(ctx, tokens, log)

	e := api.NewRouter(api.Dependencies{
		Auth:     authService,
		Vault:    vaultService,
		Security: securityService,
		Mongo:    db,
		Redis:    rdb,
		Logger:   log,
	})

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()
	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("vault api listening")

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}

// sweepExpiredTokens periodically deletes expired reset tokens. Used tokens
// are kept until expiry so replays stay observable in the meantime.
func sweepExpiredTokens(ctx context.Context, tokens *mongodb.ResetTokenRepository, log zerolog.Logger) {
	ticker := time.NewTicker(tokenSweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := tokens.DeleteExpired(ctx, time.Now().UTC())
			if err != nil {
				log.Error().Err(err).Msg("token sweep failed")
				continue
			}
			if n > 0 {
				log.Info().Int64("deleted", n).Msg("expired reset tokens swept")
			}
		}
	}
}
