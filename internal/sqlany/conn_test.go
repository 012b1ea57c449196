package sqlany

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/corbelan/sqlany/internal/database"
)

// fakeConn is an in-memory database.Conn. Result sets are consumed in
// FIFO order, one per Query / QueryRow call, and every issued statement
// is recorded for assertions.
type fakeConn struct {
	results []*fakeRows
	sqls    []string
	args    [][]any
}

func (c *fakeConn) push(r *fakeRows) *fakeConn {
	c.results = append(c.results, r)
	return c
}

func (c *fakeConn) next() *fakeRows {
	if len(c.results) == 0 {
		return &fakeRows{}
	}
	r := c.results[0]
	c.results = c.results[1:]
	return r
}

func (c *fakeConn) Query(_ context.Context, sql string, args ...any) (database.Rows, error) {
	c.sqls = append(c.sqls, sql)
	c.args = append(c.args, args)
	return c.next(), nil
}

func (c *fakeConn) QueryRow(_ context.Context, sql string, args ...any) database.Row {
	c.sqls = append(c.sqls, sql)
	c.args = append(c.args, args)
	return &fakeRow{rows: c.next()}
}

func (c *fakeConn) Exec(_ context.Context, sql string, args ...any) error {
	c.sqls = append(c.sqls, sql)
	c.args = append(c.args, args)
	return nil
}

// fakeRows replays canned rows through the database.Rows contract.
type fakeRows struct {
	rows [][]any
	pos  int
}

func rowsOf(rows ...[]any) *fakeRows {
	return &fakeRows{rows: rows}
}

func (r *fakeRows) Next() bool {
	if r.pos >= len(r.rows) {
		return false
	}
	r.pos++
	return true
}

func (r *fakeRows) Scan(dest ...any) error {
	return scanInto(r.rows[r.pos-1], dest)
}

func (r *fakeRows) Close()     {}
func (r *fakeRows) Err() error { return nil }

type fakeRow struct {
	rows *fakeRows
}

func (r *fakeRow) Scan(dest ...any) error {
	if !r.rows.Next() {
		return sql.ErrNoRows
	}
	return r.rows.Scan(dest...)
}

func scanInto(row []any, dest []any) error {
	if len(row) != len(dest) {
		return fmt.Errorf("scan: %d columns, %d destinations", len(row), len(dest))
	}
	for i, v := range row {
		switch d := dest[i].(type) {
		case *string:
			*d = v.(string)
		case *int:
			*d = v.(int)
		case *bool:
			*d = v.(bool)
		case *sql.NullString:
			if v == nil {
				*d = sql.NullString{}
			} else {
				*d = sql.NullString{String: v.(string), Valid: true}
			}
		default:
			return fmt.Errorf("scan: unsupported destination %T", dest[i])
		}
	}
	return nil
}
