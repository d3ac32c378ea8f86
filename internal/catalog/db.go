// Package catalog stores organized resources as products in a SQL catalog
// (SQLite by default, Postgres through pgx) and imports run manifests into it.
package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"github.com/capsresources/resource-organizer/internal/common"
)

// Store is an open catalog database.
type Store struct {
	drv    *entsql.Driver
	pool   *pgxpool.Pool // nil for sqlite
	logger *slog.Logger
}

// Open connects to the catalog named by cfg.Driver ("sqlite" or "postgres").
func Open(ctx context.Context, cfg common.CatalogConfig, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	switch cfg.Driver {
	case "", "sqlite":
		return openSQLite(ctx, cfg, logger)
	case "postgres":
		return openPostgres(ctx, cfg, logger)
	default:
		return nil, common.NewAppError("CONFIG_ERROR", fmt.Sprintf("unknown catalog driver %q", cfg.Driver), common.ErrInvalidInput)
	}
}

func openSQLite(ctx context.Context, cfg common.CatalogConfig, logger *slog.Logger) (*Store, error) {
	path := cfg.DSN
	logger.Info("opening catalog", "driver", "sqlite", "path", path)
	if path != ":memory:" && !strings.HasPrefix(path, "file:") {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, common.NewAppError("DB_ERROR", "create catalog dir", err)
		}
	}
	dsn := path
	if !strings.Contains(dsn, "_pragma=") {
		sep := "?"
		if strings.Contains(dsn, "?") {
			sep = "&"
		}
		dsn += sep + "_pragma=busy_timeout(10000)&_pragma=foreign_keys(1)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, common.NewAppError("DB_ERROR", "open sqlite", err)
	}
	// one writer; also keeps :memory: databases on a single connection
	db.SetMaxOpenConns(1)

	if err := pingDB(ctx, db, cfg.DialTimeout); err != nil {
		_ = db.Close()
		logger.Error("failed to open catalog", "error", err)
		return nil, common.NewAppError("DB_ERROR", "ping sqlite", err)
	}
	return &Store{drv: entsql.OpenDB(dialect.SQLite, db), logger: logger}, nil
}

func openPostgres(ctx context.Context, cfg common.CatalogConfig, logger *slog.Logger) (*Store, error) {
	logger.Info("connecting to catalog", "driver", "postgres")
	pc, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		logger.Error("failed to parse catalog dsn", "error", err)
		return nil, common.NewAppError("DB_ERROR", "parse dsn", err)
	}
	if cfg.MaxConns > 0 {
		pc.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		pc.MinConns = cfg.MinConns
	}
	if cfg.MaxConnLifetime > 0 {
		pc.MaxConnLifetime = cfg.MaxConnLifetime
	}
	if cfg.MaxConnIdleTime > 0 {
		pc.MaxConnIdleTime = cfg.MaxConnIdleTime
	}
	pc.ConnConfig.RuntimeParams["application_name"] = "resource-organizer"

	dialCtx, cancel := withTimeout(ctx, cfg.DialTimeout)
	defer cancel()
	pool, err := pgxpool.NewWithConfig(dialCtx, pc)
	if err != nil {
		logger.Error("failed to connect to catalog", "error", err)
		return nil, common.NewAppError("DB_ERROR", "connect postgres", err)
	}
	if err := pool.Ping(dialCtx); err != nil {
		pool.Close()
		logger.Error("failed to connect to catalog", "error", err)
		return nil, common.NewAppError("DB_ERROR", "ping postgres", err)
	}

	// Wrap pool as *sql.DB for the ent driver
	db := stdlib.OpenDBFromPool(pool)
	logger.Info("successfully connected to catalog")
	return &Store{drv: entsql.OpenDB(dialect.Postgres, db), pool: pool, logger: logger}, nil
}

// Dialect is the ent dialect name of the underlying database.
func (s *Store) Dialect() string {
	return s.drv.Dialect()
}

// HealthCheck pings the database within timeout.
func (s *Store) HealthCheck(ctx context.Context, timeout time.Duration) error {
	s.logger.Debug("pinging catalog")
	return pingDB(ctx, s.drv.DB(), timeout)
}

// Close closes the database connections gracefully.
func (s *Store) Close() {
	s.logger.Debug("closing catalog connections")
	if err := s.drv.Close(); err != nil {
		s.logger.Error("failed to close catalog driver", "error", err)
	}
	if s.pool != nil {
		s.pool.Close()
	}
}

func (s *Store) builder() *entsql.DialectBuilder {
	return entsql.Dialect(s.drv.Dialect())
}

func pingDB(ctx context.Context, db *sql.DB, timeout time.Duration) error {
	ctx, cancel := withTimeout(ctx, timeout)
	defer cancel()
	return db.PingContext(ctx)
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
