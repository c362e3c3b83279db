package service

import (
	"context"

	"browsestorage/backend/internal/model"
)

// Conn is one request's connection to a data source. It is not safe for
// concurrent use and must be closed by whoever opened it.
type Conn interface {
	// Query runs a statement returning rows as positional values aligned
	// with the returned column names.
	Query(ctx context.Context, query string, args ...any) ([]string, [][]any, error)
	// Exec runs a statement that returns no rows.
	Exec(ctx context.Context, query string, args ...any) (Result, error)
	// Quote renders s as a string literal of the engine.
	Quote(s string) string
	Dialect() Dialect

	Begin(ctx context.Context) error
	Commit() error
	Rollback() error
	InTx() bool

	Close() error
}

// Result describes an executed statement. RowsAffected is -1 when the
// engine cannot report it.
type Result struct {
	RowsAffected int64
	LastInsertID int64
	HasInsertID  bool
}

// Opener hands out request connections for data sources.
type Opener interface {
	Open(ctx context.Context, ds model.DataSource) (Conn, error)
}

// Dialect encapsulates engine-specific SQL and connection details.
type Dialect interface {
	// Engine is the configuration name of the engine ("sqlite", "mysql"...).
	Engine() string
	// DriverName is the database/sql driver name.
	DriverName() string
	BuildDSN(ds model.DataSource) (string, error)
	QuoteString(s string) string
	// LimitClause renders pagination; limit and offset are -1 when unset.
	// ordered tells whether the statement already has an ORDER BY.
	LimitClause(limit, offset int, ordered bool) string
	// Placeholder returns the parameter marker for the n-th parameter (1-based).
	Placeholder(n int) string
	// TablesQuery lists the user tables of the connected schema.
	TablesQuery() string
}
