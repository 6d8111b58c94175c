package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

// EnvPrefix is prepended to every variable name below.
const EnvPrefix = "PHARMALINK_"

// Session store backends.
const (
	StoreFile   = "file"
	StoreRedis  = "redis"
	StoreMemory = "memory"
)

type Config struct {
	APIBaseURL  string        `env:"API_BASE_URL, default=http://localhost:5000/api"`
	Env         string        `env:"ENV,          default=development"`
	LogLevel    string        `env:"LOG_LEVEL,    default=warn"`
	HTTPTimeout time.Duration `env:"HTTP_TIMEOUT, default=0s"`
	// RateLimit caps outbound requests per second. Zero disables the limiter.
	RateLimit float64 `env:"RATE_LIMIT, default=0"`

	Session SessionConfig
	Redis   RedisConfig
}

type SessionConfig struct {
	Store   string        `env:"SESSION_STORE,   default=file"`
	File    string        `env:"SESSION_FILE"`
	Profile string        `env:"SESSION_PROFILE, default=default"`
	TTL     time.Duration `env:"SESSION_TTL,     default=24h"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

// Load reads an optional .env file from the working directory, then the
// process environment.
func Load(ctx context.Context) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config: read .env: %w", err)
	}
	return LoadFrom(ctx, envconfig.OsLookuper())
}

// LoadFrom reads configuration from l, applying EnvPrefix, defaults and
// validation.
func LoadFrom(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: envconfig.PrefixLookuper(EnvPrefix, l),
	})
	if err != nil {
		return nil, fmt.Errorf("config: failed to load configuration: %w", err)
	}

	if cfg.Session.Store == StoreFile && cfg.Session.File == "" {
		cfg.Session.File = DefaultSessionFile(cfg.Session.Profile)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values envconfig cannot express as tags.
func (c *Config) Validate() error {
	u, err := url.Parse(c.APIBaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("config: API_BASE_URL must be an absolute URL, got %q", c.APIBaseURL)
	}
	switch c.Session.Store {
	case StoreFile, StoreRedis, StoreMemory:
	default:
		return fmt.Errorf("config: SESSION_STORE must be one of file, redis, memory, got %q", c.Session.Store)
	}
	if c.Session.Profile == "" {
		return fmt.Errorf("config: SESSION_PROFILE must not be empty")
	}
	if c.RateLimit < 0 {
		return fmt.Errorf("config: RATE_LIMIT must not be negative")
	}
	if c.HTTPTimeout < 0 {
		return fmt.Errorf("config: HTTP_TIMEOUT must not be negative")
	}
	return nil
}

// DefaultSessionFile is <user config dir>/pharmalink/<profile>.session.json,
// falling back to the working directory when no config dir is known.
func DefaultSessionFile(profile string) string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "pharmalink", profile+".session.json")
}

// RedisPrefix namespaces session keys per profile.
func (c *Config) RedisPrefix() string {
	return "pharmalink:" + c.Session.Profile + ":"
}
