// Package config provides environment-driven configuration for the intake service.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Secret wraps a sensitive string to prevent accidental logging or marshalling.
type Secret string

// String implements fmt.Stringer, returning a redacted placeholder.
func (s Secret) String() string { return "[REDACTED]" }

// GoString implements fmt.GoStringer, returning a redacted placeholder.
func (s Secret) GoString() string { return "[REDACTED]" }

// MarshalText implements encoding.TextMarshaler, returning a redacted placeholder.
func (s Secret) MarshalText() ([]byte, error) { return []byte("[REDACTED]"), nil }

// Value returns the underlying secret string.
func (s Secret) Value() string { return string(s) }

// Config holds all application configuration values.
//
// DatabaseURL may be empty, in which case the service runs with in-memory
// stores (development and demo deployments). Everything else has a working
// default.
type Config struct {
	DatabaseURL Secret
	Port        string
	ListenHost  string
	CORSOrigins []string
	LogLevel    string

	// Enrichment. An empty EnrichURL disables the external enricher and the
	// pipeline runs on the deterministic fallback alone.
	EnrichURL       string
	EnrichTimeoutMS int

	// Limitation-period rules.
	Jurisdiction string
	RuleVersion  string

	// Contact encryption at rest.
	EncryptionProvider string
	EncryptionKey      Secret
	VaultAddr          string
	VaultToken         Secret

	// Fixed-window rate limits, requests per window.
	PublicRateLimit    int
	DashboardRateLimit int
	RateWindowSeconds  int

	// Durable audit sidecar file (JSONL, identifiers only). Empty disables.
	AuditLogFile string

	// DB-less mode API keys, "firmID=key" pairs. Ignored when DatabaseURL
	// is set; the firms table is authoritative there.
	MemoryFirmKeys []string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() (*Config, error) {
	cfg := &Config{
		DatabaseURL:        Secret(envOrDefault("DATABASE_URL", "")),
		Port:               envOrDefault("PORT", "3040"),
		ListenHost:         envOrDefault("LISTEN_HOST", "127.0.0.1"),
		LogLevel:           envOrDefault("LOG_LEVEL", "info"),
		EnrichURL:          envOrDefault("ENRICH_URL", ""),
		Jurisdiction:       envOrDefault("LIMITATION_JURISDICTION", "IE"),
		RuleVersion:        envOrDefault("LIMITATION_RULESET", "ie-v1"),
		EncryptionProvider: envOrDefault("ENCRYPTION_PROVIDER", "none"),
		EncryptionKey:      Secret(envOrDefault("ENCRYPTION_KEY", "")),
		VaultAddr:          envOrDefault("VAULT_ADDR", "http://127.0.0.1:8200"),
		VaultToken:         Secret(envOrDefault("VAULT_TOKEN", "")),
		AuditLogFile:       envOrDefault("AUDIT_LOG_FILE", ""),
	}

	var err error
	if cfg.EnrichTimeoutMS, err = envInt("ENRICH_TIMEOUT_MS", 5000, 100, 60000); err != nil {
		return nil, err
	}
	if cfg.PublicRateLimit, err = envInt("PUBLIC_RATE_LIMIT", 30, 1, 100000); err != nil {
		return nil, err
	}
	if cfg.DashboardRateLimit, err = envInt("DASHBOARD_RATE_LIMIT", 600, 1, 100000); err != nil {
		return nil, err
	}
	if cfg.RateWindowSeconds, err = envInt("RATE_WINDOW_SECONDS", 60, 1, 3600); err != nil {
		return nil, err
	}

	origins := envOrDefault("CORS_ORIGINS", "http://localhost:3002")
	cfg.CORSOrigins = strings.Split(origins, ",")

	for i, o := range cfg.CORSOrigins {
		cfg.CORSOrigins[i] = strings.TrimSpace(o)
	}

	if keys := os.Getenv("MEMORY_FIRM_KEYS"); keys != "" {
		cfg.MemoryFirmKeys = strings.Split(keys, ",")
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

// Addr returns the listen address in host:port format.
func (c *Config) Addr() string {
	return c.ListenHost + ":" + c.Port
}

// MemoryMode reports whether the service runs on in-memory stores.
func (c *Config) MemoryMode() bool {
	return c.DatabaseURL.Value() == ""
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}

func envInt(key string, fallback, min, max int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}

	n, err := strconv.Atoi(raw)
	if err != nil || n < min || n > max {
		return 0, fmt.Errorf("%s must be an integer between %d and %d", key, min, max)
	}

	return n, nil
}
