package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/noah-isme/exam-seating/pkg/config"
)

// schema holds the tables this service owns. Only run metadata is stored;
// seating plans themselves are never written.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS seating_runs (
	id                TEXT PRIMARY KEY,
	plan_key          TEXT NOT NULL,
	roster_size       INTEGER NOT NULL,
	proctor_pool_size INTEGER NOT NULL,
	rooms             INTEGER NOT NULL,
	rows_per_room     INTEGER NOT NULL,
	columns_per_room  INTEGER NOT NULL,
	seats_filled      INTEGER NOT NULL,
	outcome           TEXT NOT NULL,
	error_code        TEXT,
	created_by        TEXT,
	created_at        TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`,
	`CREATE INDEX IF NOT EXISTS seating_runs_created_at_idx ON seating_runs (created_at DESC)`,
}

// NewPostgres returns a configured PostgreSQL client.
func NewPostgres(ctx context.Context, cfg config.DatabaseConfig) (*sqlx.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host,
		cfg.Port,
		cfg.User,
		cfg.Password,
		cfg.Name,
		cfg.SSLMode,
	)

	db, err := sqlx.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}

	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}

	db.SetConnMaxLifetime(1 * time.Hour)
	db.SetConnMaxIdleTime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}

// EnsureSchema creates missing tables and indexes.
func EnsureSchema(ctx context.Context, db sqlx.ExecerContext) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}
