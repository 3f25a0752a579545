package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port            string        `env:"PORT,             default=8080"`
	Env             string        `env:"ENV,              default=development"`
	LogLevel        string        `env:"LOG_LEVEL,        default=info"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT, default=10s"`
	CORSOrigins     []string      `env:"CORS_ALLOWED_ORIGINS"`

	Auth   AuthConfig
	Cache  CacheConfig
	Events EventsConfig
	Mongo  MongoConfig
	Redis  RedisConfig
}

type AuthConfig struct {
	JWTSecret     string        `env:"JWT_SECRET, required"`
	TokenTTL      time.Duration `env:"TOKEN_TTL,      default=1h"`
	AdminUsername string        `env:"ADMIN_USERNAME, default=admin"`
	// AdminPassword seeds the admin account at startup. Empty skips seeding.
	AdminPassword string `env:"ADMIN_PASSWORD"`
}

type CacheConfig struct {
	TTL          time.Duration `env:"CACHE_TTL,            default=60s"`
	MaxBodyBytes int           `env:"CACHE_MAX_BODY_BYTES, default=0"`
	FailOpen     bool          `env:"CACHE_FAIL_OPEN,      default=false"`
	Coalesce     bool          `env:"CACHE_COALESCE,       default=false"`
}

type EventsConfig struct {
	Workers int `env:"EVENT_WORKERS, default=4"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=blog"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

// IsDevelopment reports whether the service runs with ENV=development.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	cfg, err := LoadWith(context.Background(), envconfig.OsLookuper())
	if err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return cfg
}

// LoadWith reads configuration through l instead of the process environment.
func LoadWith(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: l,
	}); err != nil {
		return nil, err
	}
	return &cfg, nil
}
