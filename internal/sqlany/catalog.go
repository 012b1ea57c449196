package sqlany

import (
	"context"
	"database/sql"
	"strings"

	"github.com/corbelan/sqlany/internal/database"
	"github.com/corbelan/sqlany/internal/errs"
	"github.com/corbelan/sqlany/internal/logger"
)

// Object owners reserved by the engine itself. Tables and views under
// these creators never surface to callers.
const reservedCreators = "0, 3, 5"

// SYSTAB table_type codes.
const (
	objectKindTable = 1
	objectKindView  = 21
)

// Reader introspects the SQL Anywhere system catalog and rebuilds schema
// entities from it. Every call re-queries the catalog; nothing is cached
// between calls. Catalog errors propagate unchanged — introspection is
// never retried.
type Reader struct {
	conn database.Conn
	log  *logger.Logger
}

// NewReader returns a Reader over conn. A nil log uses the default logger.
func NewReader(conn database.Conn, log *logger.Logger) *Reader {
	if log == nil {
		log = logger.New(nil)
	}
	return &Reader{conn: conn, log: log}
}

// ListTables returns the owner-qualified names of all user base tables
// hosted by the engine's native server type.
func (r *Reader) ListTables(ctx context.Context) ([]string, error) {
	return r.listObjects(ctx, objectKindTable)
}

// ListViews returns the owner-qualified names of all user views.
func (r *Reader) ListViews(ctx context.Context) ([]string, error) {
	return r.listObjects(ctx, objectKindView)
}

func (r *Reader) listObjects(ctx context.Context, kind int) ([]string, error) {
	const q = `
		SELECT u.user_name, t.table_name
		FROM SYS.SYSTAB t
		JOIN SYS.SYSUSER u ON u.user_id = t.creator
		WHERE t.creator NOT IN ( ` + reservedCreators + ` )
		  AND t.server_type = 1
		  AND t.table_type = ?
		ORDER BY u.user_name, t.table_name`

	rows, err := r.conn.Query(ctx, q, kind)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var owner, name string
		if err := rows.Scan(&owner, &name); err != nil {
			return nil, errs.Wrap(errs.ErrKindQueryFailed, "scan object name", err)
		}
		names = append(names, owner+"."+name)
	}
	return names, rows.Err()
}

// TableExists reports whether a base table with the given (possibly
// owner-qualified) name exists.
func (r *Reader) TableExists(ctx context.Context, table string) (bool, error) {
	return r.objectExists(ctx, table, objectKindTable)
}

// ViewExists reports whether a view with the given name exists.
func (r *Reader) ViewExists(ctx context.Context, view string) (bool, error) {
	return r.objectExists(ctx, view, objectKindView)
}

func (r *Reader) objectExists(ctx context.Context, name string, kind int) (bool, error) {
	owner, bare := SplitOwner(name)

	q := `
		SELECT COUNT(*)
		FROM SYS.SYSTAB t
		JOIN SYS.SYSUSER u ON u.user_id = t.creator
		WHERE t.table_name = ?
		  AND t.table_type = ?`
	args := []any{bare, kind}
	if owner != "" {
		q += ` AND u.user_name = ?`
		args = append(args, owner)
	}

	var n int
	if err := r.conn.QueryRow(ctx, q, args...).Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}

// ListIndexes returns the user-defined indexes of table. System-generated
// index categories (primary keys, foreign keys, text indexes) are
// excluded; member columns come back in catalog-declared order.
func (r *Reader) ListIndexes(ctx context.Context, table string) ([]IndexDefinition, error) {
	r.log.Debugf("listing indexes for %s", table)

	sub, args := tableIDSubquery(table)
	q := `
		SELECT DISTINCT i.index_name, i."unique"
		FROM SYS.SYSIDX i
		WHERE i.table_id = ` + sub + `
		  AND i.index_category = 3`

	rows, err := r.conn.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}

	type indexRow struct {
		name   string
		unique int
	}
	var found []indexRow
	for rows.Next() {
		var ir indexRow
		if err := rows.Scan(&ir.name, &ir.unique); err != nil {
			rows.Close()
			return nil, errs.Wrap(errs.ErrKindQueryFailed, "scan index row", err)
		}
		found = append(found, ir)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	var indexes []IndexDefinition
	for _, ir := range found {
		cols, err := r.indexColumns(ctx, table, ir.name)
		if err != nil {
			return nil, err
		}
		indexes = append(indexes, IndexDefinition{
			Table: table,
			Name:  ir.name,
			// "unique" is 1 for a unique index, 2 for a unique constraint.
			Unique:  ir.unique == 1 || ir.unique == 2,
			Columns: cols,
		})
	}
	return indexes, nil
}

// indexColumns resolves the member columns of one index in declared order.
func (r *Reader) indexColumns(ctx context.Context, table, index string) ([]string, error) {
	sub, args := tableIDSubquery(table)
	q := `
		SELECT c.column_name
		FROM SYS.SYSIDX i
		JOIN SYS.SYSIDXCOL ic ON ic.table_id = i.table_id AND ic.index_id = i.index_id
		JOIN SYS.SYSTABCOL c ON c.table_id = ic.table_id AND c.column_id = ic.column_id
		WHERE i.table_id = ` + sub + `
		  AND i.index_name = ?
		ORDER BY ic.sequence`
	args = append(args, index)

	rows, err := r.conn.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cols []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, errs.Wrap(errs.ErrKindQueryFailed, "scan index column", err)
		}
		cols = append(cols, name)
	}
	return cols, rows.Err()
}

// PrimaryKeyColumns returns the primary key columns of table in the order
// declared by the defining index, or nil when the table has no primary
// key. The catalog aggregates the ordered list server-side via LIST().
func (r *Reader) PrimaryKeyColumns(ctx context.Context, table string) ([]string, error) {
	sub, args := tableIDSubquery(table)
	q := `
		SELECT LIST(c.column_name ORDER BY ic.sequence) AS pk_columns
		FROM SYS.SYSIDX i
		JOIN SYS.SYSIDXCOL ic ON ic.table_id = i.table_id AND ic.index_id = i.index_id
		JOIN SYS.SYSTABCOL c ON c.table_id = ic.table_id AND c.column_id = ic.column_id
		WHERE i.table_id = ` + sub + `
		  AND i.index_category = 1
		GROUP BY i.table_id, i.index_id`

	rows, err := r.conn.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		// No primary key index — explicit absence, not an error.
		return nil, rows.Err()
	}

	var list string
	if err := rows.Scan(&list); err != nil {
		return nil, errs.Wrap(errs.ErrKindQueryFailed, "scan primary key list", err)
	}

	parts := strings.Split(list, ",")
	cols := make([]string, 0, len(parts))
	for _, p := range parts {
		cols = append(cols, strings.TrimSpace(p))
	}
	return cols, rows.Err()
}

// PrimaryKeyColumn is the legacy singular accessor: the first primary key
// column, with ok=false when the table has none.
func (r *Reader) PrimaryKeyColumn(ctx context.Context, table string) (string, bool, error) {
	cols, err := r.PrimaryKeyColumns(ctx, table)
	if err != nil || len(cols) == 0 {
		return "", false, err
	}
	return cols[0], true, nil
}

// ListForeignKeys returns the foreign keys of table. Only constraints
// backed by exactly one column pair are included — compound keys are
// filtered out by the count predicate, never partially represented.
// Update and delete actions come from the engine's referential integrity
// triggers; a constraint with no matching trigger restricts.
func (r *Reader) ListForeignKeys(ctx context.Context, table string) ([]ForeignKeyDefinition, error) {
	r.log.Debugf("listing foreign keys for %s", table)

	sub, args := tableIDSubquery(table)
	q := `
		SELECT fi.index_name,
		       pu.user_name, pt.table_name,
		       fc.column_name, pc.column_name,
		       COALESCE(ut.referential_action, 'R'),
		       COALESCE(dt.referential_action, 'R')
		FROM SYS.SYSFKEY k
		JOIN SYS.SYSIDX fi ON fi.table_id = k.foreign_table_id AND fi.index_id = k.foreign_index_id
		JOIN SYS.SYSIDXCOL ic ON ic.table_id = k.foreign_table_id AND ic.index_id = k.foreign_index_id
		JOIN SYS.SYSTABCOL fc ON fc.table_id = ic.table_id AND fc.column_id = ic.column_id
		JOIN SYS.SYSTABCOL pc ON pc.table_id = k.primary_table_id AND pc.column_id = ic.primary_column_id
		JOIN SYS.SYSTAB pt ON pt.table_id = k.primary_table_id
		JOIN SYS.SYSUSER pu ON pu.user_id = pt.creator
		LEFT OUTER JOIN SYS.SYSTRIGGER ut
		  ON ut.foreign_table_id = k.foreign_table_id
		 AND ut.foreign_key_id = k.foreign_index_id
		 AND ut.event = 'C'
		LEFT OUTER JOIN SYS.SYSTRIGGER dt
		  ON dt.foreign_table_id = k.foreign_table_id
		 AND dt.foreign_key_id = k.foreign_index_id
		 AND dt.event = 'D'
		WHERE k.foreign_table_id = ` + sub + `
		  AND ( SELECT COUNT(*) FROM SYS.SYSIDXCOL n
		          WHERE n.table_id = k.foreign_table_id
		            AND n.index_id = k.foreign_index_id ) = 1`

	rows, err := r.conn.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var fks []ForeignKeyDefinition
	for rows.Next() {
		var name, refOwner, refTable, column, refColumn, updateCode, deleteCode string
		if err := rows.Scan(&name, &refOwner, &refTable, &column, &refColumn, &updateCode, &deleteCode); err != nil {
			return nil, errs.Wrap(errs.ErrKindQueryFailed, "scan foreign key row", err)
		}
		fks = append(fks, ForeignKeyDefinition{
			Name:             name,
			Table:            table,
			Column:           column,
			ReferencedTable:  refOwner + "." + refTable,
			ReferencedColumn: refColumn,
			OnUpdate:         refActionFromCode(updateCode),
			OnDelete:         refActionFromCode(deleteCode),
		})
	}
	return fks, rows.Err()
}

// ListColumns returns the columns of table in declared order, with raw
// catalog defaults split into literal or builtin-function defaults.
func (r *Reader) ListColumns(ctx context.Context, table string) ([]ColumnDefinition, error) {
	sub, args := tableIDSubquery(table)
	q := `
		SELECT c.column_name, d.domain_name, c.width, c.scale, c.nulls, c."default"
		FROM SYS.SYSTABCOL c
		JOIN SYS.SYSDOMAIN d ON d.domain_id = c.domain_id
		WHERE c.table_id = ` + sub + `
		ORDER BY c.column_id`

	rows, err := r.conn.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cols []ColumnDefinition
	for rows.Next() {
		var (
			name, domain, nulls string
			width, scale        int
			rawDefault          sql.NullString
		)
		if err := rows.Scan(&name, &domain, &width, &scale, &nulls, &rawDefault); err != nil {
			return nil, errs.Wrap(errs.ErrKindQueryFailed, "scan column row", err)
		}

		var defPtr *string
		if rawDefault.Valid {
			defPtr = &rawDefault.String
		}
		literal, function := ClassifyDefault(defPtr)

		cols = append(cols, ColumnDefinition{
			Table:           table,
			Name:            name,
			Type:            columnTypeMetadata(domain, width, scale),
			Nullable:        nulls == "Y",
			Default:         literal,
			DefaultFunction: function,
		})
	}
	return cols, rows.Err()
}

// columnTypeMetadata folds the catalog's width/scale columns into the
// right descriptor slots: a size limit for character and binary types,
// precision and scale for exact numerics, nothing for everything else.
func columnTypeMetadata(domain string, width, scale int) TypeMetadata {
	meta := TypeMetadata{Name: domain}
	switch domain {
	case "char", "varchar", "binary", "varbinary":
		if width > 0 {
			w := width
			meta.Limit = &w
		}
	case "numeric", "decimal":
		p, s := width, scale
		meta.Precision = &p
		meta.Scale = &s
	}
	return meta
}

// tableIDSubquery returns a scalar subquery resolving table's id in
// SYS.SYSTAB, plus its bind arguments. Unqualified names match on the
// bare table name alone.
func tableIDSubquery(table string) (string, []any) {
	owner, bare := SplitOwner(table)
	if owner == "" {
		return `( SELECT t.table_id FROM SYS.SYSTAB t
		            WHERE t.table_name = ? )`, []any{bare}
	}
	return `( SELECT t.table_id FROM SYS.SYSTAB t
	            JOIN SYS.SYSUSER u ON u.user_id = t.creator
	            WHERE t.table_name = ? AND u.user_name = ? )`, []any{bare, owner}
}
