// Package database owns the PostgreSQL connection pool shared by every
// bounded context. Repositories use DB() for reads and WithTx for writes that
// must commit together with an outbox message.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"

	"github.com/ghuser/workcosts/pkg/logger"
)

const (
	maxConns        = 20
	minConns        = 2
	maxConnLifetime = time.Hour
	pingTimeout     = 5 * time.Second
)

// Database wraps a pgx pool exposed through database/sql.
type Database struct {
	pool *pgxpool.Pool
	db   *sql.DB
	log  logger.Logger
}

// NewPool parses url, opens a pgx pool, and verifies connectivity with Ping.
func NewPool(ctx context.Context, url string, log logger.Logger) (*Database, error) {
	cfg, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	cfg.MaxConns = maxConns
	cfg.MinConns = minConns
	cfg.MaxConnLifetime = maxConnLifetime

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	log.Info("connected to postgres", "host", cfg.ConnConfig.Host, "db", cfg.ConnConfig.Database)
	return &Database{pool: pool, db: stdlib.OpenDBFromPool(pool), log: log}, nil
}

// DB returns the *sql.DB view of the pool.
func (d *Database) DB() *sql.DB {
	return d.db
}

// WithTx runs fn in a transaction. fn's error rolls back; otherwise the
// transaction is committed.
func (d *Database) WithTx(ctx context.Context, fn func(*sql.Tx) error) error {
	return d.run(ctx, nil, fn)
}

// ReadSnapshot runs fn in a read-only repeatable-read transaction so that
// several queries observe the same committed state.
func (d *Database) ReadSnapshot(ctx context.Context, fn func(*sql.Tx) error) error {
	return d.run(ctx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true}, fn)
}

func (d *Database) run(ctx context.Context, opts *sql.TxOptions, fn func(*sql.Tx) error) error {
	tx, err := d.db.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			d.log.ErrorContext(ctx, "rollback failed", "error", rbErr)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// Ping checks database connectivity.
func (d *Database) Ping(ctx context.Context) error {
	if err := d.pool.Ping(ctx); err != nil {
		return fmt.Errorf("database ping: %w", err)
	}
	return nil
}

// Close releases every connection.
func (d *Database) Close() {
	_ = d.db.Close()
	d.pool.Close()
	d.log.Info("postgres pool closed")
}
