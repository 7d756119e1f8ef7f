package postgres

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/casekeep/casekeep-backend/internal/data"
	"github.com/casekeep/casekeep-backend/internal/data/storetest"
	"github.com/casekeep/casekeep-backend/internal/db"
	"github.com/casekeep/casekeep-backend/internal/platform/logger"
)

func mustTestLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	t.Cleanup(func() {
		log.Sync()
	})
	return log
}

func newSQLiteStore(t *testing.T) data.Store {
	t.Helper()
	log := mustTestLogger(t)
	svc, err := db.New("sqlite", filepath.Join(t.TempDir(), "store.db"), log)
	if err != nil {
		t.Fatalf("db.New: %v", err)
	}
	if err := svc.AutoMigrateAll(); err != nil {
		t.Fatalf("AutoMigrateAll: %v", err)
	}
	return NewStore(svc.DB(), log)
}

func TestStoreContractSQLite(t *testing.T) {
	storetest.Run(t, newSQLiteStore)
}

// The adapter code is driver-agnostic, so the suite mostly runs on SQLite.
// Point TEST_POSTGRES_DSN at a throwaway database to run it against real
// Postgres; every factory call drops and recreates the managed tables.
func TestStoreContractPostgres(t *testing.T) {
	dsn := strings.TrimSpace(os.Getenv("TEST_POSTGRES_DSN"))
	if dsn == "" {
		t.Skip("set TEST_POSTGRES_DSN to run Postgres contract tests")
	}

	storetest.Run(t, func(t *testing.T) data.Store {
		log := mustTestLogger(t)
		svc, err := db.New("postgres", dsn, log)
		if err != nil {
			t.Fatalf("db.New: %v", err)
		}
		if err := svc.DropAll(); err != nil {
			t.Fatalf("DropAll: %v", err)
		}
		if err := svc.AutoMigrateAll(); err != nil {
			t.Fatalf("AutoMigrateAll: %v", err)
		}
		return NewStore(svc.DB(), log)
	})
}
