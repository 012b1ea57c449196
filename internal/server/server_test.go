package server

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corbelan/sqlany/internal/database"
	"github.com/corbelan/sqlany/internal/sqlany"
)

// stubConn replays canned result sets in FIFO order.
type stubConn struct {
	results [][][]any
}

func (c *stubConn) next() [][]any {
	if len(c.results) == 0 {
		return nil
	}
	r := c.results[0]
	c.results = c.results[1:]
	return r
}

func (c *stubConn) Query(context.Context, string, ...any) (database.Rows, error) {
	return &stubRows{rows: c.next()}, nil
}

func (c *stubConn) QueryRow(context.Context, string, ...any) database.Row {
	return &stubRow{rows: &stubRows{rows: c.next()}}
}

func (c *stubConn) Exec(context.Context, string, ...any) error { return nil }

type stubRows struct {
	rows [][]any
	pos  int
}

func (r *stubRows) Next() bool {
	if r.pos >= len(r.rows) {
		return false
	}
	r.pos++
	return true
}

func (r *stubRows) Scan(dest ...any) error {
	row := r.rows[r.pos-1]
	for i, v := range row {
		switch d := dest[i].(type) {
		case *string:
			*d = v.(string)
		case *int:
			*d = v.(int)
		}
	}
	return nil
}

func (r *stubRows) Close()     {}
func (r *stubRows) Err() error { return nil }

type stubRow struct {
	rows *stubRows
}

func (r *stubRow) Scan(dest ...any) error {
	if !r.rows.Next() {
		return sql.ErrNoRows
	}
	return r.rows.Scan(dest...)
}

func newTestServer(results [][][]any) *Server {
	reader := sqlany.NewReader(&stubConn{results: results}, nil)
	return New(reader, nil)
}

func TestHandleTables(t *testing.T) {
	srv := newTestServer([][][]any{
		{{"dba", "accounts"}, {"dba", "orders"}},
	})

	req := httptest.NewRequest(http.MethodGet, "/tables", nil)
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body struct {
		Tables []string `json:"tables"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, []string{"dba.accounts", "dba.orders"}, body.Tables)
}

func TestHandleIndexes(t *testing.T) {
	srv := newTestServer([][][]any{
		{{"idx_email", 1}}, // index list
		{{"email"}},        // member columns
	})

	req := httptest.NewRequest(http.MethodGet, "/tables/dba.accounts/indexes", nil)
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Table   string `json:"table"`
		Indexes []struct {
			Name    string   `json:"name"`
			Unique  bool     `json:"unique"`
			Columns []string `json:"columns"`
		} `json:"indexes"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "dba.accounts", body.Table)
	require.Len(t, body.Indexes, 1)
	assert.Equal(t, "idx_email", body.Indexes[0].Name)
	assert.True(t, body.Indexes[0].Unique)
	assert.Equal(t, []string{"email"}, body.Indexes[0].Columns)
}

func TestHandlePrimaryKey_Absent(t *testing.T) {
	srv := newTestServer([][][]any{
		{}, // no primary key index
	})

	req := httptest.NewRequest(http.MethodGet, "/tables/dba.heap/primary-key", nil)
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleHealth(t *testing.T) {
	srv := newTestServer(nil)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}
