package db

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/fbz-tec/csvstream/internal/logger"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const connectTimeout = 10 * time.Second

// PgStore is a PostgreSQL store backed by a connection pool, so the HTTP
// server can stream several exports at once.
type PgStore struct {
	dsn      string
	maxConns int32
	pool     *pgxpool.Pool
}

// NewPgStore creates a store for dsn. maxConns <= 0 keeps the pgxpool default.
func NewPgStore(dsn string, maxConns int32) *PgStore {
	return &PgStore{dsn: dsn, maxConns: maxConns}
}

// Connect opens the pool and pings the server.
func (s *PgStore) Connect(ctx context.Context) error {
	if s.pool != nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	logger.Debug("Attempting to connect to database host: %s (timeout %v)", sanitizeDSN(s.dsn), connectTimeout)

	cfg, err := pgxpool.ParseConfig(s.dsn)
	if err != nil {
		return fmt.Errorf("invalid database DSN: %w", err)
	}
	if s.maxConns > 0 {
		cfg.MaxConns = s.maxConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return fmt.Errorf("unable to connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return fmt.Errorf("unable to ping database: %w", err)
	}

	logger.Debug("Database ping successful (max conns: %d)", cfg.MaxConns)
	s.pool = pool
	return nil
}

// Close releases every pooled connection.
func (s *PgStore) Close() error {
	if s.pool == nil {
		return nil
	}
	logger.Debug("Closing database pool...")
	s.pool.Close()
	s.pool = nil
	return nil
}

// Query runs sql and returns the open rows. The caller must close them;
// the pooled connection is released when they are.
func (s *PgStore) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	if s.pool == nil {
		logger.Debug("No active database connection; query cannot be executed")
		return nil, fmt.Errorf("database not connected")
	}

	logger.Debug("Executing SQL query: %s", sql)

	start := time.Now()
	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query execution failed: %w", err)
	}

	logger.Debug("Query started in %v", time.Since(start))
	return rows, nil
}

// Ping reports whether the pool can reach the server.
func (s *PgStore) Ping(ctx context.Context) error {
	if s.pool == nil {
		return fmt.Errorf("database not connected")
	}
	return s.pool.Ping(ctx)
}

// sanitizeDSN masks the password inside a PostgreSQL DSN before logging.
func sanitizeDSN(dsn string) string {
	u, err := url.Parse(dsn)
	if err != nil {
		return "<invalid-dsn>"
	}

	var userInfo string
	if u.User != nil {
		username := u.User.Username()
		if _, hasPwd := u.User.Password(); hasPwd {
			userInfo = fmt.Sprintf("%s:***@", username)
		} else {
			userInfo = fmt.Sprintf("%s@", username)
		}
	}

	path := u.Path
	if path == "" {
		path = "/"
	}

	return fmt.Sprintf("%s://%s%s%s", u.Scheme, userInfo, u.Host, path)
}
