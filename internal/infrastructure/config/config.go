package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sethvargo/go-envconfig"

	"github.com/hotelbooking/reservation-client/internal/pkg/validate"
)

type Config struct {
	Env        string `env:"ENV,         default=development"`
	LogLevel   string `env:"LOG_LEVEL,   default=info"`
	ListenAddr string `env:"LISTEN_ADDR, default=:3000"`

	API        APIConfig
	Credential CredentialConfig
	Mongo      MongoConfig
	Redis      RedisConfig
}

type APIConfig struct {
	BaseURL string `env:"API_BASE_URL, default=http://localhost:8080" validate:"required,url"`
	// Timeout 0 means requests wait as long as the caller's context allows.
	Timeout time.Duration `env:"API_TIMEOUT, default=0s" validate:"gte=0"`
	Policy  string        `env:"AUTH_POLICY, default=refresh" validate:"oneof=refresh logout"`
}

type CredentialConfig struct {
	Store string `env:"CREDENTIAL_STORE, default=bolt" validate:"oneof=bolt redis memory"`
	Path  string `env:"CREDENTIAL_PATH"`
	// Key seals the stored token at rest when non-empty.
	Key string `env:"CREDENTIAL_KEY"`
}

type MongoConfig struct {
	// URI empty disables the receipt journal.
	URI      string `env:"MONGO_URI"`
	Database string `env:"MONGO_DB,        default=reservation_client"`
	Workers  int    `env:"JOURNAL_WORKERS, default=4" validate:"gte=1"`
}

type RedisConfig struct {
	Addr      string `env:"REDIS_ADDR,       default=localhost:6379"`
	Password  string `env:"REDIS_PASSWORD"`
	DB        int    `env:"REDIS_DB,         default=0"`
	KeyPrefix string `env:"REDIS_KEY_PREFIX, default=reservation:"`
}

// JournalEnabled reports whether booking receipts are written to MongoDB.
func (c *Config) JournalEnabled() bool {
	return c.Mongo.URI != ""
}

// IsDevelopment enables human-readable console logs.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return LoadWith(ctx, envconfig.OsLookuper())
}

// LoadWith reads configuration through l, for tests and embedding.
func LoadWith(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := validate.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if cfg.Credential.Store == "bolt" && cfg.Credential.Path == "" {
		cfg.Credential.Path = defaultCredentialPath()
	}
	return &cfg, nil
}

func defaultCredentialPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "reservation-client", "session.db")
}
