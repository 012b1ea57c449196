// Package database defines the data-access contract the dialect layer
// talks through. It owns no connection management of its own: callers
// open and tune the underlying pool and hand it in.
package database

import "context"

// Conn is the central contract for all catalog and DDL traffic.
// The dialect layer talks only to this interface — it never imports a
// driver package directly.
type Conn interface {
	// Query executes a SQL statement that returns rows.
	Query(ctx context.Context, sql string, args ...any) (Rows, error)

	// QueryRow executes a SQL statement that returns at most one row.
	QueryRow(ctx context.Context, sql string, args ...any) Row

	// Exec executes a statement that produces no meaningful result set
	// (DDL, UPDATE backfills).
	Exec(ctx context.Context, sql string, args ...any) error
}

// Rows is an abstraction over a database result set.
// Callers must always call Close() when done, even on error.
type Rows interface {
	// Next advances to the next row.
	// Returns false when no more rows exist or on error.
	Next() bool

	// Scan copies the current row's columns into the provided destinations.
	Scan(dest ...any) error

	// Close releases resources held by the result set.
	Close()

	// Err returns any error encountered during iteration.
	Err() error
}

// Row is an abstraction over a single database row.
type Row interface {
	Scan(dest ...any) error
}
