// Package database defines the narrow SQL surface the postgres repositories
// and the migration runner depend on.
package database

import (
	"context"
	"database/sql"
	"errors"
)

var ErrNoRows = errors.New("no rows in result set")

type Querier interface {
	Exec(ctx context.Context, query string, args ...any) (int64, error)
	Query(ctx context.Context, query string, args ...any) (Rows, error)
	QueryRow(ctx context.Context, query string, args ...any) Row
}

type DB interface {
	Querier

	Ping(ctx context.Context) error
	Close() error
	Begin(ctx context.Context) (Tx, error)

	// SQLDB exposes a database/sql handle over the same pool.
	SQLDB() *sql.DB
}

type Tx interface {
	Querier

	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

type Rows interface {
	Close()
	Next() bool
	Scan(dest ...any) error
	Err() error
}

// Row.Scan returns ErrNoRows when the query matched nothing.
type Row interface {
	Scan(dest ...any) error
}
