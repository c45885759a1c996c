package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("JWT_SECRET", "test-secret")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "8080" || cfg.StoreBackend != BackendMemory || cfg.StorePrefix != "booking" {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if cfg.AccessTTLMin != 60 || cfg.HashSecrets || cfg.RabbitEnabled || cfg.BookingLogDir != "logs" {
		t.Errorf("unexpected auth/event defaults: %+v", cfg)
	}
	if !cfg.RateLimit.Enabled || cfg.RateLimit.Capacity != 20 || cfg.RateLimit.RefillInterval != 3*time.Second {
		t.Errorf("unexpected rate limit defaults: %+v", cfg.RateLimit)
	}
	if cfg.UsesRedis() {
		t.Error("memory backend should not need redis")
	}
}

func TestLoad_RequiresJWTSecret(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("JWT_SECRET", "")
	if _, err := Load(); err == nil {
		t.Fatal("expected error without JWT_SECRET")
	}
}

func TestLoad_Overrides(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("JWT_SECRET", "s")
	t.Setenv("STORE_BACKEND", " Redis ")
	t.Setenv("REDIS_HOST", "cache")
	t.Setenv("REDIS_PORT", "6380")
	t.Setenv("AUTH_HASH_SECRETS", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.StoreBackend != BackendRedis || !cfg.UsesRedis() {
		t.Errorf("backend = %q", cfg.StoreBackend)
	}
	if cfg.Redis.Addr != "cache:6380" {
		t.Errorf("redis addr = %q", cfg.Redis.Addr)
	}
	if !cfg.HashSecrets {
		t.Error("AUTH_HASH_SECRETS not applied")
	}
}

func TestValidate(t *testing.T) {
	base := Config{JWTSecret: "s", StoreBackend: BackendMemory, AccessTTLMin: 60}
	if err := base.Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}
	for name, c := range map[string]Config{
		"empty jwt secret":       {StoreBackend: BackendMemory, AccessTTLMin: 60},
		"unknown backend":        {JWTSecret: "s", StoreBackend: "etcd", AccessTTLMin: 60},
		"postgres without url":   {JWTSecret: "s", StoreBackend: BackendPostgres, AccessTTLMin: 60},
		"non-positive token ttl": {JWTSecret: "s", StoreBackend: BackendMemory},
	} {
		if err := c.Validate(); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

func TestRateLimitNormalize(t *testing.T) {
	c := RateLimitConfig{Capacity: 0, Burst: 7, RefillTokens: 0, RefillEvery: 2 * time.Second, TTL: time.Second}.normalize()
	if c.Capacity != 7 || c.RefillTokens != 1 || c.RefillInterval != 2*time.Second {
		t.Errorf("normalize = %+v", c)
	}
	if c.TTL != 10*time.Second {
		t.Errorf("TTL = %v, want 5x refill interval", c.TTL)
	}
	if c.LocalMaxKeys != 1 {
		t.Errorf("LocalMaxKeys = %d", c.LocalMaxKeys)
	}
}

// chdir switches the working directory for the duration of the test
// (equivalent of testing.T.Chdir, which needs Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(old) })
}
