package config

import (
	"testing"
	"time"
)

// clearEnv unsets every config key so tests see defaults only.
func clearEnv(t *testing.T) {
	t.Helper()
	keys := []string{
		EnvAPIURL, EnvFetchTimeout, EnvFetchMaxRetries,
		EnvPort, EnvLogLevel, EnvShutdownTimeout, EnvWebhookTimeout,
		EnvUserRateLimitTokens, EnvUserRateLimitRefill,
		EnvDataDir, EnvCacheTTL,
		EnvDialect, EnvLocalSource, EnvSemesterStart,
		EnvSentryDSN, EnvSentryEnvironment, EnvSentrySampleRate,
	}
	for _, k := range keys {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.APIURL != "http://kcb.wzhy99.top" {
		t.Errorf("APIURL = %q", cfg.APIURL)
	}
	if cfg.FetchTimeout != 10*time.Second {
		t.Errorf("FetchTimeout = %v, want 10s", cfg.FetchTimeout)
	}
	if cfg.Port != "10000" {
		t.Errorf("Port = %q", cfg.Port)
	}
	if cfg.Dialect != "default" {
		t.Errorf("Dialect = %q", cfg.Dialect)
	}
	if cfg.LocalSource {
		t.Error("LocalSource should default to false")
	}
	if cfg.SentryDSN != "" {
		t.Errorf("SentryDSN = %q, want empty", cfg.SentryDSN)
	}
	if cfg.UserRateLimitTokens != 5 || cfg.UserRateLimitRefill != 0.5 {
		t.Errorf("rate limit defaults = %v tokens, %v refill", cfg.UserRateLimitTokens, cfg.UserRateLimitRefill)
	}
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvAPIURL, "http://example.com")
	t.Setenv(EnvFetchTimeout, "5s")
	t.Setenv(EnvDialect, "boxed")
	t.Setenv(EnvLocalSource, "true")
	t.Setenv(EnvCacheTTL, "1h")
	t.Setenv(EnvSemesterStart, "2025-02-24")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.APIURL != "http://example.com" {
		t.Errorf("APIURL = %q", cfg.APIURL)
	}
	if cfg.FetchTimeout != 5*time.Second {
		t.Errorf("FetchTimeout = %v", cfg.FetchTimeout)
	}
	if !cfg.LocalSource {
		t.Error("LocalSource should be true")
	}
	if cfg.CacheTTL != time.Hour {
		t.Errorf("CacheTTL = %v", cfg.CacheTTL)
	}
	if want := time.Date(2025, 2, 24, 0, 0, 0, 0, time.UTC); !cfg.SemesterStart.Equal(want) {
		t.Errorf("SemesterStart = %v, want %v", cfg.SemesterStart, want)
	}
	if cfg.ParseDialect().Name != "boxed" {
		t.Errorf("ParseDialect() = %q", cfg.ParseDialect().Name)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid defaults", func(c *Config) {}, false},
		{"unknown dialect", func(c *Config) { c.Dialect = "nonexistent" }, true},
		{"negative retries", func(c *Config) { c.FetchMaxRetries = -1 }, true},
		{"zero fetch timeout", func(c *Config) { c.FetchTimeout = 0 }, true},
		{"zero cache ttl", func(c *Config) { c.CacheTTL = 0 }, true},
		{"missing port", func(c *Config) { c.Port = "" }, true},
		{"no api url without local source", func(c *Config) { c.APIURL = "" }, true},
		{"no api url with local source ok", func(c *Config) { c.APIURL = ""; c.LocalSource = true }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			cfg, err := Load()
			if err != nil {
				t.Fatalf("Load() error: %v", err)
			}
			tt.mutate(cfg)
			if gotErr := cfg.Validate() != nil; gotErr != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", cfg.Validate(), tt.wantErr)
			}
		})
	}
}

func TestInvalidEnvValuesFallBack(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvFetchTimeout, "not-a-duration")
	t.Setenv(EnvFetchMaxRetries, "not-a-number")
	t.Setenv(EnvLocalSource, "not-a-bool")
	t.Setenv(EnvSemesterStart, "24/02/2025")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.FetchTimeout != 10*time.Second {
		t.Errorf("FetchTimeout = %v, want default", cfg.FetchTimeout)
	}
	if cfg.FetchMaxRetries != 3 {
		t.Errorf("FetchMaxRetries = %d, want default", cfg.FetchMaxRetries)
	}
	if cfg.LocalSource {
		t.Error("LocalSource should fall back to default")
	}
	if !cfg.SemesterStart.IsZero() {
		t.Errorf("SemesterStart = %v, want zero", cfg.SemesterStart)
	}
}
