// Package config handles application configuration loading from environment
// variables. It provides a centralized Config struct used across the application.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/caarlos0/env/v11"
)

// Cache backends selectable with CACHE_BACKEND.
const (
	CacheMemory = "memory"
	CacheValkey = "valkey"
)

// defaultDBPassword is the development password; production refuses it.
const defaultDBPassword = "changeme"

// Config holds all application configuration values loaded from the environment.
type Config struct {
	// Server settings
	Host         string   `env:"APP_HOST" envDefault:"0.0.0.0"`
	Port         int      `env:"APP_PORT" envDefault:"8080"`
	Env          string   `env:"APP_ENV" envDefault:"development"` // "development", "production", "testing"
	Debug        bool     `env:"DEBUG" envDefault:"false"`
	SiteURL      string   `env:"SITE_URL" envDefault:"http://localhost:8080"`
	AllowedHosts []string `env:"ALLOWED_HOSTS" envSeparator:"," envDefault:"localhost,127.0.0.1"`
	CORSOrigins  []string `env:"CORS_ORIGINS" envSeparator:","`
	LogLevel     string   `env:"LOG_LEVEL" envDefault:"info"`

	// PostgreSQL connection
	DBHost     string `env:"POSTGRES_HOST" envDefault:"localhost"`
	DBPort     string `env:"POSTGRES_PORT" envDefault:"5432"`
	DBUser     string `env:"POSTGRES_USER" envDefault:"portfolio"`
	DBPassword string `env:"POSTGRES_PASSWORD" envDefault:"changeme"`
	DBName     string `env:"POSTGRES_DB" envDefault:"portfolio"`
	DBSSLMode  string `env:"POSTGRES_SSLMODE" envDefault:"disable"`

	// Valkey (Redis-compatible) for sessions and, optionally, the cache
	ValkeyHost     string `env:"VALKEY_HOST" envDefault:"localhost"`
	ValkeyPort     string `env:"VALKEY_PORT" envDefault:"6379"`
	ValkeyPassword string `env:"VALKEY_PASSWORD"`
	ValkeyDB       int    `env:"VALKEY_DB" envDefault:"0"`
	CacheBackend   string `env:"CACHE_BACKEND" envDefault:"memory"`

	// Outgoing mail
	SMTPHost     string   `env:"SMTP_HOST"`
	SMTPPort     string   `env:"SMTP_PORT" envDefault:"587"`
	SMTPUser     string   `env:"SMTP_USER"`
	SMTPPassword string   `env:"SMTP_PASSWORD"`
	MailFrom     string   `env:"MAIL_FROM" envDefault:"noreply@localhost"`
	MailTo       []string `env:"MAIL_TO" envSeparator:","`

	// Media storage: local directory unless S3 is configured
	MediaRoot   string `env:"MEDIA_ROOT" envDefault:"./media"`
	MediaURL    string `env:"MEDIA_URL" envDefault:"/media/"`
	S3Endpoint  string `env:"S3_ENDPOINT"`
	S3Region    string `env:"S3_REGION" envDefault:"us-east-1"`
	S3AccessKey string `env:"S3_ACCESS_KEY"`
	S3SecretKey string `env:"S3_SECRET_KEY"`
	S3Bucket    string `env:"S3_BUCKET"`
	S3PublicURL string `env:"S3_PUBLIC_URL"`

	// Bootstrap administrator, created at startup when missing
	SuperuserEmail    string `env:"SUPERUSER_EMAIL"`
	SuperuserPassword string `env:"SUPERUSER_PASSWORD"`
	SuperuserName     string `env:"SUPERUSER_NAME" envDefault:"Admin"`
}

// Load reads configuration from environment variables, applying defaults
// for development where appropriate. Returns an error if critical values
// are missing or unsafe in production mode.
func Load() (*Config, error) {
	return load(nil)
}

// load parses environ, or the process environment when environ is nil.
func load(environ map[string]string) (*Config, error) {
	cfg, err := env.ParseAsWithOptions[Config](env.Options{Environment: environ})
	if err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	c.SiteURL = strings.TrimRight(c.SiteURL, "/")
	u, err := url.Parse(c.SiteURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("SITE_URL must be an absolute URL, got %q", c.SiteURL)
	}

	switch c.CacheBackend {
	case CacheMemory, CacheValkey:
	default:
		return fmt.Errorf("CACHE_BACKEND must be %q or %q, got %q", CacheMemory, CacheValkey, c.CacheBackend)
	}

	if (c.SuperuserEmail == "") != (c.SuperuserPassword == "") {
		return errors.New("SUPERUSER_EMAIL and SUPERUSER_PASSWORD must be set together")
	}

	if c.IsProduction() {
		if c.DBPassword == defaultDBPassword {
			return errors.New("POSTGRES_PASSWORD must be set in production")
		}
		if c.Debug {
			return errors.New("DEBUG must be off in production")
		}
		if u.Scheme != "https" {
			slog.Warn("SITE_URL is not https in production", "site_url", c.SiteURL)
		}
	}
	return nil
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.DBUser, c.DBPassword),
		Host:     c.DBHost + ":" + c.DBPort,
		Path:     c.DBName,
		RawQuery: "sslmode=" + url.QueryEscape(c.DBSSLMode),
	}
	return u.String()
}

// Addr returns the server listen address (host:port).
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// IsDev returns true if the application is running in development mode or
// with DEBUG on.
func (c *Config) IsDev() bool {
	return c.Env == "development" || c.Debug
}

// IsProduction reports whether APP_ENV is "production".
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// SMTPEnabled reports whether outgoing mail goes through an SMTP server.
func (c *Config) SMTPEnabled() bool {
	return c.SMTPHost != ""
}

// S3Enabled reports whether media is stored in S3-compatible storage.
func (c *Config) S3Enabled() bool {
	return c.S3Endpoint != "" && c.S3AccessKey != "" && c.S3Bucket != ""
}

// SlogLevel maps LOG_LEVEL onto a slog level. Unknown values mean info.
func (c *Config) SlogLevel() slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return lvl
}
