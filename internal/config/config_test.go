package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return dir
}

func TestLoadDefaults(t *testing.T) {
	chdirTemp(t)
	t.Setenv("CONFIG_ENV", "missing")
	t.Setenv("PORT", "")
	t.Setenv("RENDER_EXTERNAL_URL", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != 3000 {
		t.Errorf("expected port 3000, got %d", cfg.Port)
	}
	if cfg.PingPeriod != 30*time.Second {
		t.Errorf("expected 30s ping period, got %s", cfg.PingPeriod)
	}
	if cfg.KeepAliveURL != "" {
		t.Errorf("keep-alive should be disabled, got %q", cfg.KeepAliveURL)
	}
	if len(cfg.AllowedOrigins) != 1 || cfg.AllowedOrigins[0] != "*" {
		t.Errorf("unexpected origins %v", cfg.AllowedOrigins)
	}
}

func TestLoadFileAndEnv(t *testing.T) {
	dir := chdirTemp(t)
	if err := os.Mkdir(filepath.Join(dir, "config"), 0o755); err != nil {
		t.Fatal(err)
	}
	yaml := "port: 4100\nping_period: 10s\nrate_limit: 5\n"
	if err := os.WriteFile(filepath.Join(dir, "config", "config.test.yaml"), []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CONFIG_ENV", "test")
	t.Setenv("PORT", "")
	t.Setenv("RENDER_EXTERNAL_URL", "https://rooms.example.com")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != 4100 || cfg.PingPeriod != 10*time.Second || cfg.RateLimit != 5 {
		t.Errorf("file values not applied: %+v", cfg)
	}
	if cfg.KeepAliveURL != "https://rooms.example.com" {
		t.Errorf("env override not applied: %q", cfg.KeepAliveURL)
	}

	t.Setenv("PORT", "5000")
	cfg, err = Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Port != 5000 {
		t.Errorf("PORT should win over file, got %d", cfg.Port)
	}
}
