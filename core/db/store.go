package db

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// Store is the query side the CLI and the HTTP server stream CSV from.
type Store interface {
	Connect(ctx context.Context) error
	Close() error
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Ping(ctx context.Context) error
}
