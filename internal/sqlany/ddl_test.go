package sqlany

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corbelan/sqlany/internal/errs"
)

type recordingObserver struct {
	tableRenames  [][2]string
	columnRenames [][3]string
}

func (o *recordingObserver) TableRenamed(oldName, newName string) {
	o.tableRenames = append(o.tableRenames, [2]string{oldName, newName})
}

func (o *recordingObserver) ColumnRenamed(table, oldName, newName string) {
	o.columnRenames = append(o.columnRenames, [3]string{table, oldName, newName})
}

func TestRenameTable(t *testing.T) {
	d := NewDDL(&fakeConn{}, nil)
	obs := &recordingObserver{}
	d.SetRenameObserver(obs)

	stmts := d.RenameTable("dba.accounts", "dba.customers")
	assert.Equal(t, []string{`ALTER TABLE "dba"."accounts" RENAME "dba"."customers"`}, stmts)
	assert.Equal(t, [][2]string{{"dba.accounts", "dba.customers"}}, obs.tableRenames)
}

func TestChangeColumnDefault(t *testing.T) {
	d := NewDDL(&fakeConn{}, nil)

	stmts := d.ChangeColumnDefault("accounts", "status", "new")
	assert.Equal(t, []string{`ALTER TABLE "accounts" ALTER "status" DEFAULT 'new'`}, stmts)
}

func TestChangeColumnNull_BackfillBeforeAlter(t *testing.T) {
	d := NewDDL(&fakeConn{}, nil)

	stmts := d.ChangeColumnNull("accounts", "status", false, "new")
	require.Len(t, stmts, 2)
	assert.Equal(t, `UPDATE "accounts" SET "status" = 'new' WHERE "status" IS NULL`, stmts[0])
	assert.Equal(t, `ALTER TABLE "accounts" ALTER "status" NOT NULL`, stmts[1])
}

func TestChangeColumnNull_Loosening(t *testing.T) {
	d := NewDDL(&fakeConn{}, nil)

	stmts := d.ChangeColumnNull("accounts", "status", true, nil)
	assert.Equal(t, []string{`ALTER TABLE "accounts" ALTER "status" NULL`}, stmts)
}

func TestChangeColumnNull_TighteningWithoutDefault(t *testing.T) {
	d := NewDDL(&fakeConn{}, nil)

	stmts := d.ChangeColumnNull("accounts", "status", false, nil)
	assert.Equal(t, []string{`ALTER TABLE "accounts" ALTER "status" NOT NULL`}, stmts)
}

func TestChangeColumn(t *testing.T) {
	d := NewDDL(&fakeConn{}, nil)

	stmts, err := d.ChangeColumn("accounts", "name", "string", ColumnOptions{Limit: intp(100)})
	require.NoError(t, err)
	assert.Equal(t, []string{`ALTER TABLE "accounts" ALTER "name" varchar(100)`}, stmts)

	null := true
	stmts, err = d.ChangeColumn("accounts", "flag", "boolean", ColumnOptions{
		Default:    false,
		HasDefault: true,
		Null:       &null,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{`ALTER TABLE "accounts" ALTER "flag" tinyint DEFAULT 0 NULL`}, stmts)
}

func TestChangeColumn_UnknownType(t *testing.T) {
	d := NewDDL(&fakeConn{}, nil)

	_, err := d.ChangeColumn("accounts", "shape", "geometry", ColumnOptions{})
	require.Error(t, err)
	assert.True(t, errs.IsInvalidInput(err))
}

func TestRenameColumn(t *testing.T) {
	d := NewDDL(&fakeConn{}, nil)
	obs := &recordingObserver{}
	d.SetRenameObserver(obs)

	stmts := d.RenameColumn("accounts", "foo", "bar")
	assert.Equal(t, []string{`ALTER TABLE "accounts" RENAME "foo" TO "bar"`}, stmts)
	assert.Equal(t, [][3]string{{"accounts", "foo", "bar"}}, obs.columnRenames)
}

func TestRenameColumn_CaseOnly(t *testing.T) {
	d := NewDDL(&fakeConn{}, nil)

	// A direct case-only rename is a no-op for the engine, so it is
	// routed through an intermediate name.
	stmts := d.RenameColumn("accounts", "Foo", "foo")
	require.Len(t, stmts, 2)
	assert.Equal(t, `ALTER TABLE "accounts" RENAME "Foo" TO "foo_swap"`, stmts[0])
	assert.Equal(t, `ALTER TABLE "accounts" RENAME "foo_swap" TO "foo"`, stmts[1])
}

func TestRecoverRename(t *testing.T) {
	conn := (&fakeConn{}).push(rowsOf([]any{1}))
	d := NewDDL(conn, nil)

	stmts, err := d.RecoverRename(context.Background(), "accounts", "foo")
	require.NoError(t, err)
	assert.Equal(t, []string{`ALTER TABLE "accounts" RENAME "foo_swap" TO "foo"`}, stmts)
	assert.Equal(t, []any{"accounts", "foo_swap"}, conn.args[0])
}

func TestRecoverRename_NothingStranded(t *testing.T) {
	conn := (&fakeConn{}).push(rowsOf([]any{0}))
	d := NewDDL(conn, nil)

	stmts, err := d.RecoverRename(context.Background(), "accounts", "foo")
	require.NoError(t, err)
	assert.Nil(t, stmts)
}

func TestDropColumns_EmptyList(t *testing.T) {
	d := NewDDL(&fakeConn{}, nil)

	_, err := d.DropColumns(context.Background(), "accounts")
	require.Error(t, err)
	assert.True(t, errs.IsInvalidInput(err))
}

func TestDropColumns_IndexesDroppedFirst(t *testing.T) {
	conn := (&fakeConn{}).push(rowsOf([]any{"idx_email"}, []any{"idx_email_region"}))
	d := NewDDL(conn, nil)

	stmts, err := d.DropColumns(context.Background(), "accounts", "email")
	require.NoError(t, err)
	require.Len(t, stmts, 3)
	assert.Equal(t, `DROP INDEX "accounts"."idx_email"`, stmts[0])
	assert.Equal(t, `DROP INDEX "accounts"."idx_email_region"`, stmts[1])
	assert.Equal(t, `ALTER TABLE "accounts" DROP "email"`, stmts[2])
}

func TestDropColumns_SharedIndexDroppedOnce(t *testing.T) {
	// Both columns are covered by the same index; it must be dropped
	// exactly once.
	conn := (&fakeConn{}).
		push(rowsOf([]any{"idx_email_region"})).
		push(rowsOf([]any{"idx_email_region"}))
	d := NewDDL(conn, nil)

	stmts, err := d.DropColumns(context.Background(), "accounts", "email", "region")
	require.NoError(t, err)
	assert.Equal(t, []string{
		`DROP INDEX "accounts"."idx_email_region"`,
		`ALTER TABLE "accounts" DROP "email"`,
		`ALTER TABLE "accounts" DROP "region"`,
	}, stmts)
}

func TestDropIndex(t *testing.T) {
	d := NewDDL(&fakeConn{}, nil)

	stmts := d.DropIndex("dba.accounts", IndexOptions{Name: "idx_email"})
	assert.Equal(t, []string{`DROP INDEX "dba"."accounts"."idx_email"`}, stmts)

	stmts = d.DropIndex("dba.accounts", IndexOptions{Columns: []string{"email", "region"}})
	assert.Equal(t, []string{`DROP INDEX "dba"."accounts"."index_accounts_on_email_and_region"`}, stmts)
}

func TestColumnsForDistinctOrdering(t *testing.T) {
	got := ColumnsForDistinctOrdering(
		[]string{"a"},
		[]string{"b DESC", "c ASC NULLS LAST"},
	)
	assert.Equal(t, []string{"a", "b AS alias_0", "c AS alias_1"}, got)
}

func TestColumnsForDistinctOrdering_NoOrdering(t *testing.T) {
	got := ColumnsForDistinctOrdering([]string{"a", "b"}, nil)
	assert.Equal(t, []string{"a", "b"}, got)
}
