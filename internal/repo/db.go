// Package repo implements the data persistence layer for domain entities.
// Design requests can live in SQLite (GORM, pure-Go driver) or DynamoDB;
// orders, addresses and idempotency records always live in SQLite. This file
// contains database bootstrapping helpers and schema migrations.
package repo

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/plugin/opentelemetry/tracing"

	"github.com/tbourn/sparrow-design-service/internal/domain"
)

// sqlitePragmas run on every freshly opened database.
var sqlitePragmas = []string{
	"journal_mode=WAL",
	"synchronous=NORMAL",
	"foreign_keys=ON",
	"busy_timeout=5000",
}

// Connection pool limits for the file-backed database.
const (
	maxOpenConns    = 10
	connMaxIdleTime = 5 * time.Minute
	connMaxLifetime = 30 * time.Minute
)

// OpenSQLite opens or creates the database file at path, attaches query
// tracing and applies sqlitePragmas. The parent directory must exist.
func OpenSQLite(path string) (*gorm.DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		// sqlite reports a missing directory as "out of memory (14)".
		if _, err := os.Stat(dir); err != nil {
			return nil, fmt.Errorf("database directory: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, err
	}
	if err := db.Use(tracing.NewPlugin(tracing.WithoutQueryVariables())); err != nil {
		return nil, fmt.Errorf("gorm tracing: %w", err)
	}
	for _, p := range sqlitePragmas {
		if err := db.Exec("PRAGMA " + p).Error; err != nil {
			return nil, fmt.Errorf("pragma %s: %w", p, err)
		}
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(maxOpenConns)
	sqlDB.SetConnMaxIdleTime(connMaxIdleTime)
	sqlDB.SetConnMaxLifetime(connMaxLifetime)
	return db, nil
}

// models lists every table the service owns in SQLite. design_requests is
// created even when designs live in DynamoDB and then stays empty.
func models() []any {
	return []any{
		&domain.DesignRequest{},
		&domain.Address{},
		&domain.Order{},
		&domain.OrderItem{},
		&domain.Idempotency{},
	}
}

// AutoMigrate creates or updates the service schema.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(models()...)
}
