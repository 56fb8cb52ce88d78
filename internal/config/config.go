// Package config handles application configuration loading from environment
// variables. It provides a centralized Config struct used across the application.
package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Content sources.
const (
	SourcePostgres = "postgres"
	SourceFiles    = "files"
)

// Config holds all application configuration values loaded from the environment.
type Config struct {
	// Server settings
	Host     string `env:"APP_HOST" env-default:"0.0.0.0"`
	Port     string `env:"APP_PORT" env-default:"8080"`
	Env      string `env:"APP_ENV" env-default:"development"` // "development", "production", "testing"
	LogLevel string `env:"LOG_LEVEL" env-default:"info"`

	// Blog settings
	SiteURL        string `env:"SITE_URL" env-default:"https://postpilot.io"`
	SiteHost       string `env:"SITE_HOST"` // derived from SiteURL when empty
	PageSize       int    `env:"PAGE_SIZE" env-default:"9"`
	ContentSource  string `env:"CONTENT_SOURCE" env-default:"postgres"`
	ContentDir     string `env:"CONTENT_DIR" env-default:"content"`
	CategoriesFile string `env:"CATEGORIES_FILE"`
	SanitizeHTML   bool   `env:"SANITIZE_HTML" env-default:"true"`

	// How often the postgres source is re-read. Files are watched instead.
	RefreshInterval time.Duration `env:"REFRESH_INTERVAL" env-default:"1m"`

	// PostgreSQL connection
	DBHost     string `env:"POSTGRES_HOST" env-default:"localhost"`
	DBPort     string `env:"POSTGRES_PORT" env-default:"5432"`
	DBUser     string `env:"POSTGRES_USER" env-default:"postpilot"`
	DBPassword string `env:"POSTGRES_PASSWORD" env-default:"changeme"`
	DBName     string `env:"POSTGRES_DB" env-default:"postpilot"`

	// Valkey (Redis-compatible cache). Caching is off when ValkeyHost is empty.
	ValkeyHost     string        `env:"VALKEY_HOST"`
	ValkeyPort     string        `env:"VALKEY_PORT" env-default:"6379"`
	ValkeyPassword string        `env:"VALKEY_PASSWORD"`
	RenderCacheTTL time.Duration `env:"RENDER_CACHE_TTL" env-default:"10m"`

	// API rate limiting, per client IP
	RateLimitRPS   float64 `env:"RATE_LIMIT_RPS" env-default:"10"`
	RateLimitBurst int     `env:"RATE_LIMIT_BURST" env-default:"20"`

	// S3-compatible object storage for sitemap publishing
	S3Endpoint     string `env:"S3_ENDPOINT"`
	S3Region       string `env:"S3_REGION" env-default:"fsn1"`
	S3AccessKey    string `env:"S3_ACCESS_KEY"`
	S3SecretKey    string `env:"S3_SECRET_KEY"`
	S3BucketPublic string `env:"S3_BUCKET_PUBLIC" env-default:"postpilot-public"`
	S3PublicURL    string `env:"S3_PUBLIC_URL"`
}

// Load reads configuration from environment variables, applying defaults
// for development where appropriate. A .env file in the working directory
// is loaded first if present; real environment variables take precedence.
// Returns an error if critical values are missing in production mode.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("read environment: %w", err)
	}

	if cfg.SiteHost == "" {
		u, err := url.Parse(cfg.SiteURL)
		if err != nil || u.Hostname() == "" {
			return nil, fmt.Errorf("SITE_URL %q is not an absolute URL", cfg.SiteURL)
		}
		cfg.SiteHost = u.Hostname()
	}
	cfg.SiteHost = strings.TrimPrefix(strings.ToLower(cfg.SiteHost), "www.")
	cfg.SiteURL = strings.TrimRight(cfg.SiteURL, "/")

	switch cfg.ContentSource {
	case SourcePostgres, SourceFiles:
	default:
		return nil, fmt.Errorf("CONTENT_SOURCE must be %q or %q, got %q", SourcePostgres, SourceFiles, cfg.ContentSource)
	}

	if cfg.Env == "production" && cfg.ContentSource == SourcePostgres {
		if cfg.DBPassword == "changeme" {
			return nil, fmt.Errorf("POSTGRES_PASSWORD must be set in production")
		}
	}

	return cfg, nil
}

// DSN returns the PostgreSQL connection string. Credentials are escaped.
func (c *Config) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.DBUser, c.DBPassword),
		Host:     c.DBHost + ":" + c.DBPort,
		Path:     "/" + c.DBName,
		RawQuery: "sslmode=disable",
	}
	return u.String()
}

// Addr returns the server listen address (host:port).
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// IsDev returns true if the application is running in development mode.
func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// CacheEnabled reports whether a Valkey host is configured.
func (c *Config) CacheEnabled() bool {
	return c.ValkeyHost != ""
}

// Level returns the slog level named by LogLevel, defaulting to info.
func (c *Config) Level() slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return lvl
}
