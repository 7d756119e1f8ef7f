package db

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/casekeep/casekeep-backend/internal/domain"
	"github.com/casekeep/casekeep-backend/internal/platform/logger"
)

// Service owns the gorm handle for the relational backend. The driver is
// chosen at startup: "postgres" for deployments, "sqlite" for local work
// and tests. Both run the same schema and the same adapter code.
type Service struct {
	db  *gorm.DB
	log *logger.Logger
}

// New opens the relational database. For postgres the dsn is a connection
// URL; for sqlite it is a file path.
func New(driver, dsn string, log *logger.Logger) (*Service, error) {
	serviceLog := log.With("service", "db", "driver", driver)

	var dial gorm.Dialector
	switch driver {
	case "sqlite":
		dial = sqlite.Open(dsn)
	case "postgres", "":
		dial = postgres.Open(dsn)
	default:
		return nil, fmt.Errorf("unknown db driver %q", driver)
	}

	serviceLog.Info("Connecting to database...")
	gdb, err := gorm.Open(dial, &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		serviceLog.Error("Failed to connect to database", "error", err)
		return nil, fmt.Errorf("connect database: %w", err)
	}

	return &Service{db: gdb, log: serviceLog}, nil
}

func (s *Service) AutoMigrateAll() error {
	s.log.Info("Auto migrating tables...")
	err := s.db.AutoMigrate(
		&domain.User{},
		&domain.TestCase{},
		&domain.TestStep{},
		&domain.TestVersion{},
		&domain.Folder{},
		&domain.TestCaseFolder{},
		&domain.TestRun{},
		&domain.TestRunResult{},
		&domain.Bug{},
		&domain.Whiteboard{},
		&domain.ActivityLog{},
	)
	if err != nil {
		s.log.Error("Auto migration failed", "error", err)
		return err
	}
	return nil
}

// DropAll removes every managed table. Test harnesses use it to reset a
// shared database between suite runs.
func (s *Service) DropAll() error {
	return s.db.Migrator().DropTable(
		&domain.ActivityLog{},
		&domain.Whiteboard{},
		&domain.Bug{},
		&domain.TestRunResult{},
		&domain.TestRun{},
		&domain.TestCaseFolder{},
		&domain.Folder{},
		&domain.TestVersion{},
		&domain.TestStep{},
		&domain.TestCase{},
		&domain.User{},
	)
}

func (s *Service) DB() *gorm.DB {
	return s.db
}
