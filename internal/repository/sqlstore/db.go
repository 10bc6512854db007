// Package sqlstore implements the record store over database/sql via sqlx.
// Two drivers are supported: PostgreSQL (pgx) for deployments and an embedded
// sqlite file for local and single-node use.
package sqlstore

import (
	"fmt"

	"github.com/jmoiron/sqlx"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"extractd/internal/config"
)

// NewDB creates a connection pool for the configured driver.
func NewDB(cfg *config.DBConfig) (*sqlx.DB, error) {
	driver := "pgx"
	if cfg.Driver == "sqlite" {
		driver = "sqlite"
	}
	db, err := sqlx.Connect(driver, cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("connecting to %s: %w", cfg.Driver, err)
	}
	if cfg.Driver == "sqlite" {
		// A single writer avoids SQLITE_BUSY under concurrent submissions.
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(cfg.MaxOpen)
		db.SetMaxIdleConns(cfg.MaxIdle)
	}
	return db, nil
}
