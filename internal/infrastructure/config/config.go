package config

import (
	"context"
	"log/slog"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port          string `env:"PORT,            default=8080"`
	Env           string `env:"ENV,             default=development"`
	LogLevel      string `env:"LOG_LEVEL,       default=info"`
	PublicBaseURL string `env:"PUBLIC_BASE_URL, default=http://localhost:8080"`

	Mongo  MongoConfig
	Redis  RedisConfig
	KDF    KDFConfig
	Auth   AuthConfig
	Breach BreachConfig

	ActivityWorkers int `env:"ACTIVITY_WORKERS, default=4"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=vaultguard"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// KDFConfig tunes Argon2id. The defaults follow the RFC 9106 second
// recommended option; lower them only in test environments.
type KDFConfig struct {
	Time    uint32 `env:"KDF_TIME,      default=3"`
	MemoryK uint32 `env:"KDF_MEMORY_K,  default=65536"`
	Threads uint8  `env:"KDF_THREADS,   default=4"`
}

type AuthConfig struct {
	SessionTTL       time.Duration `env:"SESSION_TTL,        default=24h"`
	ResetTokenTTL    time.Duration `env:"RESET_TOKEN_TTL,    default=1h"`
	MaxLoginAttempts int           `env:"MAX_LOGIN_ATTEMPTS, default=5"`
	MinStrength      int           `env:"MIN_STRENGTH,       default=60"`
}

type BreachConfig struct {
	// BaseURL of the k-anonymity range API. Empty selects the public
	// Pwned Passwords endpoint.
	BaseURL string `env:"BREACH_API_URL"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(logger *slog.Logger) *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		logger.Error("Failed to load configuration", "error", err)
		panic(err)
	}
	return &cfg
}
