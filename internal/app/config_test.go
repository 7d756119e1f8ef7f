package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/casekeep/casekeep-backend/internal/platform/logger"
)

func newTestLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	t.Cleanup(log.Sync)
	return log
}

func clearConfigEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"CONFIG_FILE", "PORT", "LOG_MODE", "ENVIRONMENT", "DB_DRIVER",
		"DATABASE_DSN", "SQLITE_PATH", "REDIS_ADDR", "CORS_ORIGINS", "METRICS_ADDR",
	} {
		t.Setenv(k, "")
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	clearConfigEnv(t)
	cfg := LoadConfig(newTestLogger(t))

	if cfg.Port != "8080" {
		t.Fatalf("unexpected port: %q", cfg.Port)
	}
	if cfg.DBDriver != "postgres" {
		t.Fatalf("unexpected driver: %q", cfg.DBDriver)
	}
	if cfg.MetricsAddr != ":9090" {
		t.Fatalf("unexpected metrics addr: %q", cfg.MetricsAddr)
	}
	if cfg.RedisAddr != "" {
		t.Fatalf("redis should default off, got %q", cfg.RedisAddr)
	}
}

func TestLoadConfigFileAndEnvOverride(t *testing.T) {
	clearConfigEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	raw := []byte("port: \"9999\"\ndb_driver: sqlite\nsqlite_path: /tmp/ck.db\ncors_origins:\n  - https://qa.example.com\n")
	if err := os.WriteFile(path, raw, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("PORT", "7777")

	cfg := LoadConfig(newTestLogger(t))

	// Env beats file, file beats defaults.
	if cfg.Port != "7777" {
		t.Fatalf("unexpected port: %q", cfg.Port)
	}
	if cfg.DBDriver != "sqlite" {
		t.Fatalf("unexpected driver: %q", cfg.DBDriver)
	}
	if got := cfg.DatabaseDSN(); got != "/tmp/ck.db" {
		t.Fatalf("unexpected dsn: %q", got)
	}
	if len(cfg.CORSOrigins) != 1 || cfg.CORSOrigins[0] != "https://qa.example.com" {
		t.Fatalf("unexpected origins: %+v", cfg.CORSOrigins)
	}
}

func TestLoadConfigUnreadableFileFallsBack(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))

	cfg := LoadConfig(newTestLogger(t))
	if cfg.Port != "8080" || cfg.DBDriver != "postgres" {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
}
