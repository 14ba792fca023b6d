package config_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/lexintake/lexintake/internal/config"
)

const testKeyHex = "0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef"

// setEnv applies env vars for the test and restores the previous values.
func setEnv(t *testing.T, vars map[string]string) {
	t.Helper()
	for k, v := range vars {
		t.Setenv(k, v)
	}
}

func TestLoadDefaults(t *testing.T) {
	setEnv(t, map[string]string{
		"DATABASE_URL": "", "PORT": "", "LISTEN_HOST": "", "LOG_LEVEL": "",
		"ENRICH_URL": "", "CORS_ORIGINS": "", "ENCRYPTION_PROVIDER": "",
		"MEMORY_FIRM_KEYS": "",
	})

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if !cfg.MemoryMode() {
		t.Error("expected memory mode with empty DATABASE_URL")
	}
	if cfg.Addr() != "127.0.0.1:3040" {
		t.Errorf("Addr = %q", cfg.Addr())
	}
	if cfg.Jurisdiction != "IE" || cfg.RuleVersion != "ie-v1" {
		t.Errorf("limitation defaults = %q/%q", cfg.Jurisdiction, cfg.RuleVersion)
	}
	if cfg.PublicRateLimit != 30 || cfg.DashboardRateLimit != 600 || cfg.RateWindowSeconds != 60 {
		t.Errorf("rate defaults = %d/%d/%d", cfg.PublicRateLimit, cfg.DashboardRateLimit, cfg.RateWindowSeconds)
	}
	if cfg.EnrichTimeoutMS != 5000 {
		t.Errorf("enrich timeout default = %d", cfg.EnrichTimeoutMS)
	}
}

func TestLoadValidationErrors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{
			name: "bad database scheme",
			env:  map[string]string{"DATABASE_URL": "mysql://host/db"},
			want: "DATABASE_URL scheme",
		},
		{
			name: "remote db without ssl",
			env:  map[string]string{"DATABASE_URL": "postgres://db.example.com/lexintake?sslmode=disable"},
			want: "sslmode=disable",
		},
		{
			name: "bad port",
			env:  map[string]string{"PORT": "99999"},
			want: "PORT",
		},
		{
			name: "public listen host rejected",
			env:  map[string]string{"LISTEN_HOST": "203.0.113.7"},
			want: "LISTEN_HOST",
		},
		{
			name: "wildcard cors",
			env:  map[string]string{"CORS_ORIGINS": "*"},
			want: "wildcard",
		},
		{
			name: "static provider without key",
			env:  map[string]string{"ENCRYPTION_PROVIDER": "static"},
			want: "ENCRYPTION_KEY",
		},
		{
			name: "static provider short key",
			env:  map[string]string{"ENCRYPTION_PROVIDER": "static", "ENCRYPTION_KEY": "abcd"},
			want: "32 bytes",
		},
		{
			name: "vault provider without token",
			env:  map[string]string{"ENCRYPTION_PROVIDER": "vault"},
			want: "VAULT_TOKEN",
		},
		{
			name: "unknown provider",
			env:  map[string]string{"ENCRYPTION_PROVIDER": "kms"},
			want: "ENCRYPTION_PROVIDER",
		},
		{
			name: "remote enrich without tls",
			env:  map[string]string{"ENRICH_URL": "http://enrich.example.com"},
			want: "HTTPS",
		},
		{
			name: "bad enrich timeout",
			env:  map[string]string{"ENRICH_TIMEOUT_MS": "two"},
			want: "ENRICH_TIMEOUT_MS",
		},
		{
			name: "malformed memory firm keys",
			env:  map[string]string{"MEMORY_FIRM_KEYS": "firm-a"},
			want: "MEMORY_FIRM_KEYS",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Start from a clean, valid baseline.
			setEnv(t, map[string]string{
				"DATABASE_URL": "", "PORT": "", "LISTEN_HOST": "", "CORS_ORIGINS": "",
				"ENCRYPTION_PROVIDER": "", "ENCRYPTION_KEY": "", "VAULT_TOKEN": "",
				"ENRICH_URL": "", "ENRICH_TIMEOUT_MS": "", "MEMORY_FIRM_KEYS": "",
			})
			setEnv(t, tt.env)

			_, err := config.Load()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestLoadValidConfigurations(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{
			name: "local postgres with static encryption",
			env: map[string]string{
				"DATABASE_URL":        "postgres://localhost:5432/lexintake",
				"ENCRYPTION_PROVIDER": "static",
				"ENCRYPTION_KEY":      testKeyHex,
			},
		},
		{
			name: "container listen host",
			env:  map[string]string{"LISTEN_HOST": "0.0.0.0"},
		},
		{
			name: "localhost enrich over http",
			env:  map[string]string{"ENRICH_URL": "http://127.0.0.1:9090"},
		},
		{
			name: "memory mode with firm keys",
			env:  map[string]string{"MEMORY_FIRM_KEYS": "firm-a=key-a,firm-b=key-b"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setEnv(t, map[string]string{
				"DATABASE_URL": "", "PORT": "", "LISTEN_HOST": "", "CORS_ORIGINS": "",
				"ENCRYPTION_PROVIDER": "", "ENCRYPTION_KEY": "", "VAULT_TOKEN": "",
				"ENRICH_URL": "", "ENRICH_TIMEOUT_MS": "", "MEMORY_FIRM_KEYS": "",
			})
			setEnv(t, tt.env)

			if _, err := config.Load(); err != nil {
				t.Fatalf("Load: %v", err)
			}
		})
	}
}

func TestSecretRedaction(t *testing.T) {
	s := config.Secret("super-secret")

	if fmt.Sprintf("%s", s) != "[REDACTED]" {
		t.Errorf("Sprintf leaked secret: %s", s)
	}
	if fmt.Sprintf("%v", s) != "[REDACTED]" {
		t.Errorf("%%v leaked secret")
	}
	if fmt.Sprintf("%#v", s) != "[REDACTED]" {
		t.Errorf("%%#v leaked secret")
	}

	text, err := s.MarshalText()
	if err != nil || string(text) != "[REDACTED]" {
		t.Errorf("MarshalText leaked secret: %s", text)
	}

	if s.Value() != "super-secret" {
		t.Errorf("Value() = %q", s.Value())
	}
}
