package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// Config configures the PostgreSQL partition backend.
type Config struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	// Migrate applies the embedded migrations after connecting.
	Migrate bool
}

func DefaultConfig() Config {
	return Config{
		MaxOpenConns:    25,
		MaxIdleConns:    5,
		ConnMaxLifetime: 5 * time.Minute,
		Migrate:         true,
	}
}

var errNotConfigured = errors.New("database not configured")

// Pool is a pgx-backed *sql.DB holding the partition_items table.
type Pool struct {
	db *sql.DB
}

// Open connects and, when cfg.Migrate is set, brings the schema up to date.
// A failed startup closes the handle before returning.
func Open(ctx context.Context, cfg Config) (pool *Pool, err error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("open postgres: %w", errNotConfigured)
	}
	db, err := sql.Open("pgx", cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	defer func() {
		if err != nil {
			_ = db.Close()
		}
	}()

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := ping(ctx, db, 5*time.Second); err != nil {
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if cfg.Migrate {
		if err := Migrate(ctx, db); err != nil {
			return nil, err
		}
	}
	return &Pool{db: db}, nil
}

func ping(ctx context.Context, db *sql.DB, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return db.PingContext(ctx)
}

func (p *Pool) DB() *sql.DB {
	return p.db
}

// Health is registered as the "postgres" readiness check.
func (p *Pool) Health(ctx context.Context) error {
	if p == nil || p.db == nil {
		return errNotConfigured
	}
	return p.db.PingContext(ctx)
}

func (p *Pool) Close() error {
	if p == nil || p.db == nil {
		return nil
	}
	return p.db.Close()
}
