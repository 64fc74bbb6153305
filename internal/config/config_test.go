package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, `
storage_path: "postgres://localhost/tours"
auth:
  jwt_secret: "s"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Env != "local" || cfg.Address != "localhost:8080" {
		t.Errorf("unexpected defaults: env %q addr %q", cfg.Env, cfg.Address)
	}
	if cfg.Redis.LockTTL != 10*time.Second {
		t.Errorf("lock ttl = %s", cfg.Redis.LockTTL)
	}
	if cfg.Invoice.Renderer != "fpdf" || cfg.Invoice.RenderTimeout != 30*time.Second {
		t.Errorf("unexpected invoice config %+v", cfg.Invoice)
	}
	if cfg.Location().String() != "Europe/London" {
		t.Errorf("location = %s", cfg.Location())
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeConfig(t, `
storage_path: "postgres://localhost/tours"
auth:
  jwt_secret: "s"
`)
	t.Setenv("INVOICE_RENDERER", "chrome")
	t.Setenv("REDIS_ADDR", "redis:6380")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Invoice.Renderer != "chrome" || cfg.Redis.Addr != "redis:6380" {
		t.Errorf("env overrides not applied: %+v %+v", cfg.Invoice, cfg.Redis)
	}
}

func TestLoad_Rejects(t *testing.T) {
	tests := map[string]string{
		"missing storage": `
auth:
  jwt_secret: "s"
`,
		"bad timezone": `
storage_path: "x"
timezone: "Mars/Olympus"
auth:
  jwt_secret: "s"
`,
		"push without keys": `
storage_path: "x"
auth:
  jwt_secret: "s"
push:
  enabled: true
`,
	}

	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, body)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestLoad_RateLimitFloor(t *testing.T) {
	path := writeConfig(t, `
storage_path: "x"
auth:
  jwt_secret: "s"
rate_limit:
  capacity: -3
  refill_interval: 2s
  ttl: 1s
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.RateLimit.Capacity != 1 || cfg.RateLimit.TTL != 10*time.Second {
		t.Errorf("unexpected rate limit %+v", cfg.RateLimit)
	}
}
