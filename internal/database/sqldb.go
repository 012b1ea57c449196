package database

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"

	"github.com/corbelan/sqlany/internal/errs"
)

// SQLConn adapts an existing *sql.DB to Conn. The caller owns the pool:
// driver registration, tuning, and Close all stay outside this package.
// It is safe for concurrent use by multiple goroutines.
type SQLConn struct {
	db *sql.DB
}

// NewSQLConn wraps db. The *sql.DB must be opened against a SQL Anywhere
// driver registered by the embedding program.
func NewSQLConn(db *sql.DB) *SQLConn {
	return &SQLConn{db: db}
}

// --- Conn implementation ---

func (c *SQLConn) Query(ctx context.Context, query string, args ...any) (Rows, error) {
	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(err, "query failed")
	}
	return &sqlRows{rows: rows}, nil
}

func (c *SQLConn) QueryRow(ctx context.Context, query string, args ...any) Row {
	return &sqlRow{row: c.db.QueryRowContext(ctx, query, args...)}
}

func (c *SQLConn) Exec(ctx context.Context, query string, args ...any) error {
	if _, err := c.db.ExecContext(ctx, query, args...); err != nil {
		return mapError(err, "exec failed")
	}
	return nil
}

// --- sql.DB type wrappers ---

type sqlRows struct {
	rows *sql.Rows
}

func (r *sqlRows) Next() bool             { return r.rows.Next() }
func (r *sqlRows) Scan(dest ...any) error { return r.rows.Scan(dest...) }
func (r *sqlRows) Close()                 { _ = r.rows.Close() }
func (r *sqlRows) Err() error             { return r.rows.Err() }

type sqlRow struct {
	row *sql.Row
}

func (r *sqlRow) Scan(dest ...any) error {
	if err := r.row.Scan(dest...); err != nil {
		return mapError(err, "scan failed")
	}
	return nil
}

// --- error mapping ---

// mapError translates database/sql errors into *errs.Error.
func mapError(err error, msg string) *errs.Error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return errs.Wrap(errs.ErrKindTimeout, msg, err)
	}

	if errors.Is(err, sql.ErrNoRows) {
		return errs.Wrap(errs.ErrKindNotFound, msg, err)
	}

	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, sql.ErrConnDone) {
		return errs.Wrap(errs.ErrKindConnectionFailed, msg, err)
	}

	return errs.Wrap(errs.ErrKindQueryFailed, msg, err)
}
