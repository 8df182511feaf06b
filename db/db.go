// Package db owns the PostgreSQL connection pool and schema migrations.
// The pool is created once in main and handed to the store; no package keeps
// a global handle.
package db

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/golang-migrate/migrate/v4"
	// Registers the postgres:// database driver for golang-migrate.
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	// golang-migrate's postgres driver runs on database/sql with lib/pq.
	_ "github.com/lib/pq"

	"github.com/user/bookshelf-go/apperror"
	"github.com/user/bookshelf-go/config"
	"github.com/user/bookshelf-go/migrations"
)

// DSN builds a postgres URL from the pool configuration.
func DSN(cfg *config.PoolConfig) string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(cfg.User, cfg.Password),
		Host:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Path:     "/" + cfg.DBName,
		RawQuery: "sslmode=disable",
	}
	return u.String()
}

// NewPool establishes a pgx connection pool and verifies it with a ping.
func NewPool(ctx context.Context, cfg *config.PoolConfig) (*pgxpool.Pool, error) {
	return NewPoolFromDSN(ctx, DSN(cfg), cfg.MaxSize)
}

// NewPoolFromDSN is NewPool for callers that already hold a connection string.
func NewPoolFromDSN(ctx context.Context, dsn string, maxConns int) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, apperror.NewDatabaseError("error parsing database DSN", err)
	}

	if maxConns > 0 {
		poolConfig.MaxConns = int32(maxConns)
	}
	poolConfig.MaxConnIdleTime = 10 * time.Minute
	poolConfig.MaxConnLifetime = 30 * time.Minute

	createCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(createCtx, poolConfig)
	if err != nil {
		return nil, apperror.NewDatabaseError("error creating pgxpool", err)
	}

	pingCtx, pingCancel := context.WithTimeout(ctx, 5*time.Second)
	defer pingCancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, apperror.NewDatabaseError("error connecting to the database", err)
	}

	return pool, nil
}

// OpenSQL exposes the pool through database/sql for sqlx-based repositories.
// Closing the returned handle does not close the pool.
func OpenSQL(pool *pgxpool.Pool) *sqlx.DB {
	return sqlx.NewDb(stdlib.OpenDBFromPool(pool), "pgx")
}

// RunMigrations applies every pending embedded migration against dsn.
func RunMigrations(dsn string, logger *slog.Logger) error {
	src, err := iofs.New(migrations.FS, ".")
	if err != nil {
		return apperror.NewDatabaseError("failed to open embedded migrations", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", src, dsn)
	if err != nil {
		return apperror.NewDatabaseError("failed to create migrator", err)
	}
	defer func() {
		if srcErr, dbErr := m.Close(); srcErr != nil || dbErr != nil {
			logger.Warn("closing migrator", "source_error", srcErr, "database_error", dbErr)
		}
	}()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return apperror.NewDatabaseError("failed to run migrations", err)
	}

	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return apperror.NewDatabaseError("failed to read migration version", err)
	}
	logger.Info("database schema up to date", "version", version, "dirty", dirty)
	return nil
}
