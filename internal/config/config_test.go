package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaultsWithoutFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Database.Driver != "sqlite" || cfg.Admin.Password != "iloveflask" || cfg.Admin.Secret != "dev-secret-key" {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
}

func TestLoadFileAndEnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte(`
server:
  port: "9090"
  allowed_origins: ["http://quiz.local"]
database:
  driver: postgres
  dsn: postgres://file
admin:
  password: from-file
  token_ttl: 2h
quiz:
  leaderboard_size: 5
`)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("DATABASE_DSN", "postgres://env")
	t.Setenv("SECRET_KEY", "env-secret")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != "9090" || len(cfg.Server.AllowedOrigins) != 1 {
		t.Fatalf("unexpected server config %+v", cfg.Server)
	}
	if cfg.Database.Driver != "postgres" || cfg.Database.DSN != "postgres://env" {
		t.Fatalf("unexpected database config %+v", cfg.Database)
	}
	if cfg.Admin.Password != "from-file" || cfg.Admin.Secret != "env-secret" {
		t.Fatalf("unexpected admin config %+v", cfg.Admin)
	}
	if cfg.Quiz.LeaderboardSize != 5 {
		t.Fatalf("expected leaderboard size 5, got %d", cfg.Quiz.LeaderboardSize)
	}
	if got := TTLDuration(cfg.Admin.TokenTTL, time.Hour); got != 2*time.Hour {
		t.Fatalf("expected 2h token ttl, got %v", got)
	}
}

func TestLoadRejectsBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	_ = os.WriteFile(path, []byte("server: [unterminated"), 0o600)
	if _, err := Load(path); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestTTLDurationFallback(t *testing.T) {
	if got := TTLDuration("", time.Minute); got != time.Minute {
		t.Fatalf("expected fallback for empty, got %v", got)
	}
	if got := TTLDuration("soon", time.Minute); got != time.Minute {
		t.Fatalf("expected fallback for invalid, got %v", got)
	}
}
