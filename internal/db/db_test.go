package db

import (
	"path/filepath"
	"testing"

	"github.com/nebari-dev/multiversion/internal/config"
	"github.com/nebari-dev/multiversion/internal/models"
	"gorm.io/gorm/logger"
)

func TestNew_UnsupportedDriver(t *testing.T) {
	if _, err := New(config.DatabaseConfig{Driver: "oracle"}); err == nil {
		t.Fatal("expected error for unsupported driver")
	}
}

func TestNewAndMigrate_SQLite(t *testing.T) {
	database, err := New(config.DatabaseConfig{
		Driver:   "sqlite",
		DSN:      filepath.Join(t.TempDir(), "test.db"),
		LogLevel: "silent",
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := Migrate(database); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	if !database.Migrator().HasTable(&models.Workspace{}) {
		t.Error("workspaces table missing after migration")
	}
	if !database.Migrator().HasIndex(&models.Workspace{}, "MachineName") {
		t.Error("unique index on machine_name missing after migration")
	}
	if !database.Migrator().HasTable(&models.AuditLog{}) {
		t.Error("audit_logs table missing after migration")
	}
}

func TestGormLogLevel(t *testing.T) {
	tests := map[string]logger.LogLevel{
		"debug":  logger.Info,
		"info":   logger.Warn,
		"error":  logger.Error,
		"silent": logger.Silent,
		"":       logger.Warn,
	}
	for in, want := range tests {
		if got := gormLogLevel(in); got != want {
			t.Errorf("gormLogLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
