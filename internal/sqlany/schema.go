package sqlany

import "context"

// TableSchema is the full introspected shape of one table.
type TableSchema struct {
	Name        string                 `yaml:"name" json:"name"`
	Columns     []ColumnDefinition     `yaml:"columns" json:"columns"`
	PrimaryKey  []string               `yaml:"primary_key,omitempty" json:"primary_key,omitempty"`
	Indexes     []IndexDefinition      `yaml:"indexes,omitempty" json:"indexes,omitempty"`
	ForeignKeys []ForeignKeyDefinition `yaml:"foreign_keys,omitempty" json:"foreign_keys,omitempty"`
}

// Schema is the full introspected database schema.
type Schema struct {
	Tables []TableSchema `yaml:"tables"`
	Views  []string      `yaml:"views,omitempty"`
}

// Inspect builds the full Schema by orchestrating the Reader. This is an
// expensive operation — every table costs several catalog round trips —
// and the result reflects a point in time, not a consistent snapshot.
func Inspect(ctx context.Context, r *Reader) (*Schema, error) {
	tables, err := r.ListTables(ctx)
	if err != nil {
		return nil, err
	}

	schema := &Schema{}
	for _, table := range tables {
		ts, err := inspectTable(ctx, r, table)
		if err != nil {
			return nil, err
		}
		schema.Tables = append(schema.Tables, *ts)
	}

	views, err := r.ListViews(ctx)
	if err != nil {
		return nil, err
	}
	schema.Views = views
	return schema, nil
}

func inspectTable(ctx context.Context, r *Reader, table string) (*TableSchema, error) {
	columns, err := r.ListColumns(ctx, table)
	if err != nil {
		return nil, err
	}

	pk, err := r.PrimaryKeyColumns(ctx, table)
	if err != nil {
		return nil, err
	}

	indexes, err := r.ListIndexes(ctx, table)
	if err != nil {
		return nil, err
	}

	fks, err := r.ListForeignKeys(ctx, table)
	if err != nil {
		return nil, err
	}

	return &TableSchema{
		Name:        table,
		Columns:     columns,
		PrimaryKey:  pk,
		Indexes:     indexes,
		ForeignKeys: fks,
	}, nil
}
