// Package db opens and pools the Postgres connection used when the
// reference dataset is served from a database.
package db

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/gnaf-verify/internal/config"
)

// Open connects to Postgres and configures the pool. The connection is
// verified with a ping before it is returned.
func Open(cfg config.Database) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("db: open: %w", err)
	}

	maxConns := cfg.MaxConnections
	if maxConns < 1 {
		maxConns = 10
	}
	db.SetMaxOpenConns(maxConns)
	db.SetMaxIdleConns((maxConns + 1) / 2)
	db.SetConnMaxLifetime(time.Hour)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("db: connect: %w", err)
	}
	return db, nil
}
