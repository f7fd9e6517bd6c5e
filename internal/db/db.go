package db

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/nebari-dev/multiversion/internal/config"
	"github.com/nebari-dev/multiversion/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// New creates a new database connection based on configuration
func New(cfg config.DatabaseConfig) (*gorm.DB, error) {
	var dialector gorm.Dialector

	switch cfg.Driver {
	case "sqlite":
		// Configure SQLite with WAL mode and busy timeout for better concurrency
		dialector = sqlite.Open(cfg.DSN + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	case "postgres", "postgresql":
		dialector = postgres.Open(cfg.DSN)
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(gormLogLevel(cfg.LogLevel)),
		TranslateError: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Configure connection pool
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	if cfg.Driver == "sqlite" {
		// WAL mode allows concurrent reads but only one writer
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetMaxIdleConns(1)
		slog.Info("Configured SQLite with WAL mode and single connection")
	} else {
		maxIdleConns := cfg.MaxIdleConns
		if maxIdleConns <= 0 {
			maxIdleConns = 10
		}
		maxOpenConns := cfg.MaxOpenConns
		if maxOpenConns <= 0 {
			maxOpenConns = 100
		}
		connMaxLifetime := cfg.ConnMaxLifetime
		if connMaxLifetime <= 0 {
			connMaxLifetime = 60 // Default 60 minutes
		}

		sqlDB.SetMaxIdleConns(maxIdleConns)
		sqlDB.SetMaxOpenConns(maxOpenConns)
		sqlDB.SetConnMaxLifetime(time.Duration(connMaxLifetime) * time.Minute)

		slog.Info("Configured PostgreSQL connection pool",
			"max_idle_conns", maxIdleConns,
			"max_open_conns", maxOpenConns,
			"conn_max_lifetime_min", connMaxLifetime)
	}

	return db, nil
}

// gormLogLevel maps an application log level to GORM's logger levels.
// Only debug surfaces SQL statements.
func gormLogLevel(level string) logger.LogLevel {
	switch strings.ToLower(level) {
	case "debug":
		return logger.Info
	case "info", "warn", "warning":
		return logger.Warn
	case "error":
		return logger.Error
	case "silent":
		return logger.Silent
	default:
		return logger.Warn
	}
}

// Migrate runs database migrations for all models
func Migrate(db *gorm.DB) error {
	slog.Info("Running database migrations...")

	if err := db.AutoMigrate(
		&models.Workspace{},
		&models.AuditLog{},
	); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}
