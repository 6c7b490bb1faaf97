package config

import (
	"flag"
	"os"
	"strings"
	"testing"
)

// resetFlagSet создаёт новый FlagSet перед каждым вызовом NewConfig,
// чтобы избежать повторной регистрации одних и тех же флагов между тестами.
func resetFlagSet(t *testing.T) {
	t.Helper()
	flag.CommandLine = flag.NewFlagSet(os.Args[0], flag.ContinueOnError)
	// подавляем вывод парсера флагов в тестах
	flag.CommandLine.SetOutput(os.Stderr)
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"DATABASE_URI", "AUTH_SECRET", "BASE_URL", "ENABLE_HTTPS", "PUBLIC_URL",
		"CORS_ORIGINS", "CHECKIN_TZ", "MP_ACCESS_TOKEN", "MP_WEBHOOK_SECRET",
		"METRICS_USER", "METRICS_PASS", "TRUSTED_PROXIES",
	} {
		t.Setenv(k, "")
	}
}

func TestNewConfig_DefaultsWhenEnvEmpty(t *testing.T) {
	clearEnv(t)

	resetFlagSet(t)
	cfg := NewConfig()

	if cfg.AuthSecret != "dev-secret-key" {
		t.Fatalf("AuthSecret default expected 'dev-secret-key', got %q", cfg.AuthSecret)
	}
	if cfg.DatabaseDSN != DefaultDatabaseDSN {
		t.Fatalf("DatabaseDSN default expected %q, got %q", DefaultDatabaseDSN, cfg.DatabaseDSN)
	}
	if cfg.BaseURL != "localhost:8081" {
		t.Fatalf("BaseURL default expected 'localhost:8081', got %q", cfg.BaseURL)
	}
	if cfg.ServerURL != "http://localhost:8081" {
		t.Fatalf("ServerURL default expected 'http://localhost:8081', got %q", cfg.ServerURL)
	}
	if cfg.PublicURL != cfg.ServerURL {
		t.Fatalf("PublicURL must default to ServerURL, got %q", cfg.PublicURL)
	}
	if cfg.CheckInTZ != "UTC" {
		t.Fatalf("CheckInTZ default expected 'UTC', got %q", cfg.CheckInTZ)
	}
	if got := cfg.AllowedOrigins(); len(got) != 1 || got[0] != "http://localhost:3000" {
		t.Fatalf("unexpected default origins: %v", got)
	}
	if cfg.MPAccessToken != "" || cfg.MPWebhookSecret != "" {
		t.Fatalf("gateway settings must be empty by default")
	}
}

func TestNewConfig_BaseURLAndHTTPS(t *testing.T) {
	clearEnv(t)
	t.Setenv("BASE_URL", "example.com:443")
	t.Setenv("ENABLE_HTTPS", "true")
	t.Setenv("AUTH_SECRET", "top")
	t.Setenv("PUBLIC_URL", "https://vitoria.example/")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("MP_WEBHOOK_SECRET", "whsec")
	t.Setenv("TRUSTED_PROXIES", "10.0.0.0/8, ,192.168.1.1")

	resetFlagSet(t)
	cfg := NewConfig()

	if cfg.BaseURL != "example.com:443" {
		t.Fatalf("BaseURL expected 'example.com:443', got %q", cfg.BaseURL)
	}
	if cfg.ServerURL != "https://example.com:443" {
		t.Fatalf("ServerURL expected 'https://example.com:443', got %q", cfg.ServerURL)
	}
	if cfg.AuthSecret != "top" {
		t.Fatalf("AuthSecret expected from env 'top', got %q", cfg.AuthSecret)
	}
	if cfg.PublicURL != "https://vitoria.example" {
		t.Fatalf("PublicURL must be trimmed, got %q", cfg.PublicURL)
	}
	if got := cfg.AllowedOrigins(); len(got) != 2 || got[1] != "https://b.example" {
		t.Fatalf("unexpected origins: %v", got)
	}
	if cfg.MPWebhookSecret != "whsec" {
		t.Fatalf("MPWebhookSecret expected from env, got %q", cfg.MPWebhookSecret)
	}
	if got := cfg.TrustedProxyList(); len(got) != 2 || got[0] != "10.0.0.0/8" || got[1] != "192.168.1.1" {
		t.Fatalf("unexpected trusted proxies: %v", got)
	}
}

func TestNewConfig_InvalidBaseURLFallback(t *testing.T) {
	clearEnv(t)
	// Невалидный BASE_URL (со схемой) должен откатиться на localhost:8081
	t.Setenv("BASE_URL", "http://bad:8080")
	t.Setenv("ENABLE_HTTPS", "false")

	resetFlagSet(t)
	cfg := NewConfig()

	if cfg.BaseURL != "localhost:8081" {
		t.Fatalf("invalid BASE_URL must fallback to 'localhost:8081', got %q", cfg.BaseURL)
	}
	if !strings.HasPrefix(cfg.ServerURL, "http://localhost:8081") {
		t.Fatalf("ServerURL must reflect fallback base, got %q", cfg.ServerURL)
	}
}
