// Package postgres is the relational Store adapter over GORM. Postgres is
// the primary target; the same code runs against SQLite for single-node
// deployments. Every method issues one round trip and no client-side
// transaction, so multi-step operations layered above see real partial
// failure windows.
package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/casekeep/casekeep-backend/internal/platform/logger"
)

type Store struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewStore(db *gorm.DB, baseLog *logger.Logger) *Store {
	return &Store{db: db, log: baseLog.With("store", "postgres")}
}

func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return MapError("postgres.Ping", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return MapError("postgres.Ping", err)
	}
	return nil
}
