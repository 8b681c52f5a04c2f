package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"ENV", "PORT", "STORE", "DATABASE_URL", "KEYWORD_LIMIT", "RETENTION_DAYS", "MAX_UPLOAD_BYTES"} {
		t.Setenv(key, "")
	}
	cfg := Load()
	if cfg.Env != "dev" || cfg.Port != "8080" {
		t.Fatalf("unexpected env/port: %q %q", cfg.Env, cfg.Port)
	}
	if cfg.Store != StoreMemory {
		t.Fatalf("expected memory store, got %q", cfg.Store)
	}
	if cfg.KeywordLimit != 20 || cfg.RetentionDays != 30 {
		t.Fatalf("unexpected limits: %+v", cfg)
	}
	if cfg.Retention() != 30*24*time.Hour {
		t.Fatalf("unexpected retention %s", cfg.Retention())
	}
	if cfg.MaxUploadBytes != 10<<20 {
		t.Fatalf("unexpected upload limit %d", cfg.MaxUploadBytes)
	}
}

func TestLoadStoreFromDatabaseURL(t *testing.T) {
	t.Setenv("STORE", "")
	t.Setenv("DATABASE_URL", "postgres://localhost/cv")
	if got := Load().Store; got != StorePostgres {
		t.Fatalf("expected postgres, got %q", got)
	}
	t.Setenv("STORE", "redis")
	if got := Load().Store; got != StoreRedis {
		t.Fatalf("expected redis, got %q", got)
	}
}

func TestInvalidNumbersFallBack(t *testing.T) {
	t.Setenv("KEYWORD_LIMIT", "many")
	t.Setenv("RATE_LIMIT_RPS", "-1")
	cfg := Load()
	if cfg.KeywordLimit != 20 {
		t.Fatalf("expected default keyword limit, got %d", cfg.KeywordLimit)
	}
	if cfg.RateLimitRPS != 2 {
		t.Fatalf("expected default rps, got %v", cfg.RateLimitRPS)
	}
}

func TestLoadEnvFilesDoesNotOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("CV_TEST_A=file\nCV_TEST_B=\"quoted\"\n"), 0o600); err != nil {
		t.Fatalf("write env: %v", err)
	}
	t.Setenv("CV_TEST_A", "process")
	os.Unsetenv("CV_TEST_B")
	t.Cleanup(func() { os.Unsetenv("CV_TEST_B") })

	loadEnvFiles(filepath.Join(dir, "missing.env"), path)

	if got := os.Getenv("CV_TEST_A"); got != "process" {
		t.Fatalf("expected process value to win, got %q", got)
	}
	if got := os.Getenv("CV_TEST_B"); got != "quoted" {
		t.Fatalf("expected quoted value from file, got %q", got)
	}
}

func TestLoadDatabasePool(t *testing.T) {
	t.Setenv("DB_MAX_OPEN_CONNS", "4")
	t.Setenv("DB_PING_TIMEOUT", "2s")
	cfg := Load()
	if cfg.DBMaxOpenConns != 4 || cfg.DBPingTimeout != 2*time.Second {
		t.Fatalf("unexpected pool settings: %d %s", cfg.DBMaxOpenConns, cfg.DBPingTimeout)
	}
}
