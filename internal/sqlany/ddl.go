package sqlany

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/corbelan/sqlany/internal/database"
	"github.com/corbelan/sqlany/internal/errs"
	"github.com/corbelan/sqlany/internal/logger"
)

// RenameObserver is notified when the builder emits statements that move
// a table or column, so dependent bookkeeping (index naming, dumper
// state) can follow along. Observers belong to the caller.
type RenameObserver interface {
	TableRenamed(oldName, newName string)
	ColumnRenamed(table, oldName, newName string)
}

// DDL builds ordered statement sequences for schema changes. It emits
// SQL only — execution belongs to an external executor, and the
// sequences carry no transactional boundary of their own: a failure
// mid-sequence leaves the catalog in whatever state the prior statements
// produced.
type DDL struct {
	conn     database.Conn // catalog lookups backing index discovery
	types    *TypeMapper
	log      *logger.Logger
	observer RenameObserver
}

// NewDDL returns a DDL builder over conn. A nil log uses the default
// logger.
func NewDDL(conn database.Conn, log *logger.Logger) *DDL {
	if log == nil {
		log = logger.New(nil)
	}
	return &DDL{conn: conn, types: NewTypeMapper(), log: log}
}

// SetRenameObserver registers o for rename notifications. Passing nil
// clears the observer.
func (d *DDL) SetRenameObserver(o RenameObserver) {
	d.observer = o
}

// RenameTable emits the single statement renaming old to newName.
func (d *DDL) RenameTable(oldName, newName string) []string {
	stmt := fmt.Sprintf("ALTER TABLE %s RENAME %s", QuoteName(oldName), QuoteName(newName))
	if d.observer != nil {
		d.observer.TableRenamed(oldName, newName)
	}
	return []string{stmt}
}

// ChangeColumnDefault emits the statement replacing a column's default.
func (d *DDL) ChangeColumnDefault(table, column string, value any) []string {
	return []string{fmt.Sprintf(
		"ALTER TABLE %s ALTER %s DEFAULT %s",
		QuoteName(table), QuoteIdent(column), QuoteValue(value),
	)}
}

// ChangeColumnNull emits the statements switching a column's nullability.
// When tightening to NOT NULL with a default supplied, existing NULLs are
// backfilled to that default first — the UPDATE must run before the
// ALTER or the engine rejects the change.
func (d *DDL) ChangeColumnNull(table, column string, nullable bool, defaultValue any) []string {
	var stmts []string
	if !nullable && defaultValue != nil {
		stmts = append(stmts, fmt.Sprintf(
			"UPDATE %s SET %s = %s WHERE %s IS NULL",
			QuoteName(table), QuoteIdent(column), QuoteValue(defaultValue), QuoteIdent(column),
		))
	}

	keyword := "NOT NULL"
	if nullable {
		keyword = "NULL"
	}
	stmts = append(stmts, fmt.Sprintf(
		"ALTER TABLE %s ALTER %s %s",
		QuoteName(table), QuoteIdent(column), keyword,
	))
	return stmts
}

// ColumnOptions carries the optional pieces of a column change.
type ColumnOptions struct {
	Limit     *int
	Precision *int
	Scale     *int

	// Default is applied when HasDefault is set; nil then means DEFAULT NULL.
	Default    any
	HasDefault bool

	// Null, when set, appends an explicit NULL / NOT NULL suffix.
	Null *bool
}

// ChangeColumn emits the statement altering a column to a new abstract
// type, resolved through the type mapper.
func (d *DDL) ChangeColumn(table, column, abstractType string, opts ColumnOptions) ([]string, error) {
	native, err := d.types.NativeType(abstractType, opts.Limit, opts.Precision, opts.Scale)
	if err != nil {
		return nil, err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "ALTER TABLE %s ALTER %s %s", QuoteName(table), QuoteIdent(column), native)
	if opts.HasDefault {
		fmt.Fprintf(&b, " DEFAULT %s", QuoteValue(opts.Default))
	}
	if opts.Null != nil {
		if *opts.Null {
			b.WriteString(" NULL")
		} else {
			b.WriteString(" NOT NULL")
		}
	}
	return []string{b.String()}, nil
}

// RenameColumn emits the statements renaming a column. The engine
// compares identifiers case-insensitively, so a rename that only changes
// letter case would be a no-op; those go through a recorded intermediate
// name in two steps. The two-step sequence is not atomic — an
// interruption between the steps strands the column under the
// intermediate name, which RecoverRename detects.
func (d *DDL) RenameColumn(table, oldName, newName string) []string {
	var stmts []string
	if oldName != newName && strings.EqualFold(oldName, newName) {
		tmp := intermediateName(newName)
		stmts = []string{
			renameColumnStmt(table, oldName, tmp),
			renameColumnStmt(table, tmp, newName),
		}
	} else {
		stmts = []string{renameColumnStmt(table, oldName, newName)}
	}
	if d.observer != nil {
		d.observer.ColumnRenamed(table, oldName, newName)
	}
	return stmts
}

// RecoverRename checks whether table still carries the intermediate name
// of an interrupted case-only rename to final, and returns the
// completing statement when it does. Callers run this after a crash
// before retrying the original rename.
func (d *DDL) RecoverRename(ctx context.Context, table, final string) ([]string, error) {
	tmp := intermediateName(final)

	sub, args := tableIDSubquery(table)
	q := `
		SELECT COUNT(*)
		FROM SYS.SYSTABCOL c
		WHERE c.table_id = ` + sub + `
		  AND c.column_name = ?`
	args = append(args, tmp)

	var n int
	if err := d.conn.QueryRow(ctx, q, args...).Scan(&n); err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, nil
	}

	d.log.Warnf("completing interrupted rename of %s.%s", table, final)
	return []string{renameColumnStmt(table, tmp, final)}, nil
}

// intermediateName is the disambiguated stop-over name used by case-only
// renames. It is a pure function of the final name so RecoverRename can
// find strays.
func intermediateName(final string) string {
	return final + "_swap"
}

func renameColumnStmt(table, oldName, newName string) string {
	return fmt.Sprintf(
		"ALTER TABLE %s RENAME %s TO %s",
		QuoteName(table), QuoteIdent(oldName), QuoteIdent(newName),
	)
}

// DropColumns emits the statements removing the given columns. An empty
// column list is rejected before anything is emitted. For each column,
// every index referencing it is discovered via the catalog and dropped
// first — the engine refuses to drop a column that an index still
// covers. An index spanning several of the dropped columns is dropped
// once only.
func (d *DDL) DropColumns(ctx context.Context, table string, columns ...string) ([]string, error) {
	if len(columns) == 0 {
		return nil, errs.New(errs.ErrKindInvalidInput, "no columns given to drop")
	}

	var stmts []string
	dropped := make(map[string]bool)
	for _, col := range columns {
		indexes, err := d.indexesReferencing(ctx, table, col)
		if err != nil {
			return nil, err
		}
		for _, idx := range indexes {
			if dropped[idx] {
				continue
			}
			dropped[idx] = true
			stmts = append(stmts, dropIndexStmt(table, idx))
		}
		stmts = append(stmts, fmt.Sprintf(
			"ALTER TABLE %s DROP %s", QuoteName(table), QuoteIdent(col),
		))
	}
	return stmts, nil
}

// indexesReferencing lists the user-defined indexes of table that cover
// column.
func (d *DDL) indexesReferencing(ctx context.Context, table, column string) ([]string, error) {
	sub, args := tableIDSubquery(table)
	q := `
		SELECT DISTINCT i.index_name
		FROM SYS.SYSIDX i
		JOIN SYS.SYSIDXCOL ic ON ic.table_id = i.table_id AND ic.index_id = i.index_id
		JOIN SYS.SYSTABCOL c ON c.table_id = ic.table_id AND c.column_id = ic.column_id
		WHERE i.table_id = ` + sub + `
		  AND i.index_category = 3
		  AND c.column_name = ?`
	args = append(args, column)

	rows, err := d.conn.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, errs.Wrap(errs.ErrKindQueryFailed, "scan index name", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// IndexOptions identifies an index to drop, either by explicit name or
// by the columns its name was derived from.
type IndexOptions struct {
	Name    string
	Columns []string
}

// DropIndex emits the statement dropping the index resolved from opts.
func (d *DDL) DropIndex(table string, opts IndexOptions) []string {
	name := opts.Name
	if name == "" {
		name = defaultIndexName(table, opts.Columns)
	}
	return []string{dropIndexStmt(table, name)}
}

// defaultIndexName mirrors the naming convention used when an index was
// created without an explicit name.
func defaultIndexName(table string, columns []string) string {
	_, bare := SplitOwner(table)
	return fmt.Sprintf("index_%s_on_%s", bare, strings.Join(columns, "_and_"))
}

func dropIndexStmt(table, index string) string {
	return fmt.Sprintf("DROP INDEX %s.%s", QuoteName(table), QuoteIdent(index))
}

// orderModifiers matches the sort modifiers that must not leak into a
// SELECT list: ASC / DESC and NULLS FIRST / NULLS LAST.
var orderModifiers = regexp.MustCompile(`(?i)\s+(?:ASC|DESC)\b|\s+NULLS\s+(?:FIRST|LAST)\b`)

// ColumnsForDistinctOrdering appends each ORDER BY expression to the
// select list under a positional alias, with sort modifiers stripped.
// The engine demands that ORDER BY columns appear in the SELECT list
// when DISTINCT is used.
func ColumnsForDistinctOrdering(selectColumns, orderExpressions []string) []string {
	out := append([]string(nil), selectColumns...)
	for i, expr := range orderExpressions {
		expr = strings.TrimSpace(orderModifiers.ReplaceAllString(expr, ""))
		out = append(out, fmt.Sprintf("%s AS alias_%d", expr, i))
	}
	return out
}
