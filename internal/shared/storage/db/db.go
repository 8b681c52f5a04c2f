package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as database/sql driver

	"cv-analyzer/internal/shared/telemetry"
)

const (
	connMaxLifetime = time.Hour
	connMaxIdleTime = 2 * time.Minute
)

// Options sizes the analysis store pool. Zero values fall back to defaults.
type Options struct {
	MaxOpenConns int
	PingTimeout  time.Duration
}

var openDB = sql.Open

// DefaultOptions returns the values used for zero Options fields.
func DefaultOptions() Options {
	return Options{MaxOpenConns: 10, PingTimeout: 5 * time.Second}
}

// Connect opens a *sql.DB for databaseURL through pgx and pings it.
// The returned *sql.DB should be shared and re-used by callers.
func Connect(ctx context.Context, databaseURL string, opts Options) (*sql.DB, error) {
	if strings.TrimSpace(databaseURL) == "" {
		return nil, fmt.Errorf("DATABASE_URL is empty")
	}
	defaults := DefaultOptions()
	if opts.MaxOpenConns <= 0 {
		opts.MaxOpenConns = defaults.MaxOpenConns
	}
	if opts.PingTimeout <= 0 {
		opts.PingTimeout = defaults.PingTimeout
	}

	db, err := openDB("pgx", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(opts.MaxOpenConns)
	db.SetMaxIdleConns(max(1, opts.MaxOpenConns/2))
	db.SetConnMaxLifetime(connMaxLifetime)
	db.SetConnMaxIdleTime(connMaxIdleTime)

	pingCtx, cancel := context.WithTimeout(ctx, opts.PingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	telemetry.Info("db.connected", map[string]any{"max_open": db.Stats().MaxOpenConnections})
	return db, nil
}
