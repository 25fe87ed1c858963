// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package config loads the application configuration from OBLOG_*
// environment variables.
package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// EnvPrefix is prepended to every variable name.
const EnvPrefix = "OBLOG_"

// knownWeakSecrets contains default/example secrets that must be rejected.
var knownWeakSecrets = []string{
	"change-me-to-32-byte-secret-key!",
	"REPLACE_WITH_YOUR_OWN_SECRET_KEY!",
}

// Slug collision policies.
const (
	SlugPolicySuffix = "suffix"
	SlugPolicyStrict = "strict"
)

// Storage backends.
const (
	StorageLocal = "local"
	StorageMinIO = "minio"
)

// MinIOConfig holds the MinIO bucket settings used when Storage is "minio".
type MinIOConfig struct {
	Endpoint  string `env:"ENDPOINT" envDefault:"localhost:9000"`
	AccessKey string `env:"ACCESS_KEY"`
	SecretKey string `env:"SECRET_KEY"`
	Bucket    string `env:"BUCKET" envDefault:"oblog"`
	UseSSL    bool   `env:"USE_SSL" envDefault:"false"`
}

// Config holds the application configuration loaded from environment variables.
type Config struct {
	DBPath        string `env:"DB_PATH" envDefault:"./data/oblog.db"`
	SessionSecret string `env:"SESSION_SECRET,required"`
	ServerHost    string `env:"SERVER_HOST" envDefault:"localhost"`
	ServerPort    int    `env:"SERVER_PORT" envDefault:"8080"`
	Env           string `env:"ENV" envDefault:"development"`
	LogLevel      string `env:"LOG_LEVEL" envDefault:"info"`
	UploadsDir    string `env:"UPLOADS_DIR" envDefault:"./uploads"`

	// Blob storage for uploaded images
	Storage string      `env:"STORAGE" envDefault:"local"`
	MinIO   MinIOConfig `envPrefix:"MINIO_"`

	// Cache configuration
	RedisURL     string `env:"REDIS_URL"`                         // Optional Redis URL for the hero cache
	CachePrefix  string `env:"CACHE_PREFIX" envDefault:"oblog:"`  // Redis key prefix
	CacheTTL     int    `env:"CACHE_TTL" envDefault:"3600"`       // Default cache TTL in seconds
	CacheMaxSize int    `env:"CACHE_MAX_SIZE" envDefault:"10000"` // Max memory cache entries

	// GeoIP configuration
	GeoIPDBPath string `env:"GEOIP_DB_PATH"` // Path to GeoLite2-Country.mmdb file

	// Posts
	SlugPolicy string `env:"SLUG_POLICY" envDefault:"suffix"`

	// Event log retention in days, 0 keeps events forever
	EventRetentionDays int `env:"EVENT_RETENTION_DAYS" envDefault:"90"`

	// Public base URL used in the sitemap and robots.txt, e.g.
	// https://blog.example.com. Derived from the request when empty.
	SiteURL string `env:"SITE_URL"`

	// Seeding configuration
	DoSeed bool `env:"DO_SEED" envDefault:"false"`
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// UseRedisCache returns true if Redis caching is configured.
func (c Config) UseRedisCache() bool {
	return c.RedisURL != ""
}

// GeoIPEnabled returns true if GeoIP database is configured.
func (c Config) GeoIPEnabled() bool {
	return c.GeoIPDBPath != ""
}

// CacheTTLDuration returns CacheTTL as a duration.
func (c Config) CacheTTLDuration() time.Duration {
	return time.Duration(c.CacheTTL) * time.Second
}

// SlogLevel maps LogLevel to a slog level, defaulting to info.
func (c Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// MinSessionSecretLength is the minimum required length for the session secret.
const MinSessionSecretLength = 32

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	// Warn about low-entropy secrets
	if !hasMinimumEntropy(cfg.SessionSecret) {
		slog.Warn("OBLOG_SESSION_SECRET has low character diversity; " +
			"consider generating a random secret with: openssl rand -base64 32")
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if len(c.SessionSecret) < MinSessionSecretLength {
		return fmt.Errorf("OBLOG_SESSION_SECRET must be at least %d bytes long, got %d bytes; "+
			"generate a secure secret with: openssl rand -base64 32",
			MinSessionSecretLength, len(c.SessionSecret))
	}
	if slices.Contains(knownWeakSecrets, c.SessionSecret) {
		return fmt.Errorf("OBLOG_SESSION_SECRET is a known default value and must not be used; " +
			"generate a secure secret with: openssl rand -base64 32")
	}

	switch c.Storage {
	case StorageLocal:
	case StorageMinIO:
		if c.MinIO.Endpoint == "" || c.MinIO.Bucket == "" {
			return fmt.Errorf("OBLOG_MINIO_ENDPOINT and OBLOG_MINIO_BUCKET are required for minio storage")
		}
	default:
		return fmt.Errorf("OBLOG_STORAGE must be %q or %q, got %q", StorageLocal, StorageMinIO, c.Storage)
	}

	if c.SlugPolicy != SlugPolicySuffix && c.SlugPolicy != SlugPolicyStrict {
		return fmt.Errorf("OBLOG_SLUG_POLICY must be %q or %q, got %q", SlugPolicySuffix, SlugPolicyStrict, c.SlugPolicy)
	}
	if c.SiteURL != "" {
		u, err := url.Parse(c.SiteURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("OBLOG_SITE_URL must be an absolute http(s) URL, got %q", c.SiteURL)
		}
		c.SiteURL = strings.TrimSuffix(c.SiteURL, "/")
	}
	if c.EventRetentionDays < 0 {
		return fmt.Errorf("OBLOG_EVENT_RETENTION_DAYS must not be negative")
	}
	return nil
}

// hasMinimumEntropy checks that a secret contains at least 3 character classes
// (lowercase, uppercase, digits, special characters).
func hasMinimumEntropy(s string) bool {
	charTypes := 0
	if strings.ContainsAny(s, "abcdefghijklmnopqrstuvwxyz") {
		charTypes++
	}
	if strings.ContainsAny(s, "ABCDEFGHIJKLMNOPQRSTUVWXYZ") {
		charTypes++
	}
	if strings.ContainsAny(s, "0123456789") {
		charTypes++
	}
	if strings.ContainsAny(s, "!@#$%^&*()-_=+[]{}|;:,.<>?/~`'\"\\") {
		charTypes++
	}
	return charTypes >= 3
}
