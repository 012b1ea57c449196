// Package sqlany translates between an abstract relational-schema model
// and SAP SQL Anywhere's native surface: abstract column types map to
// native DDL type tokens, and the engine's system catalog is read back
// into structured schema entities.
//
// Everything here is transient — entities are built per call from catalog
// rows, nothing is cached, and the caller owns entity lifetime. Connection
// management, transactions, and migration orchestration all live outside
// this package.
package sqlany

// RefAction is the behavior applied to a dependent row when its
// referenced row is updated or deleted.
type RefAction string

const (
	ActionCascade  RefAction = "cascade"
	ActionDefault  RefAction = "default"
	ActionNullify  RefAction = "nullify"
	ActionRestrict RefAction = "restrict"
)

// refActionFromCode maps the catalog's single-letter referential-action
// code to a RefAction. Unknown codes fall back to restrict, matching the
// engine's behavior when no integrity trigger exists.
func refActionFromCode(code string) RefAction {
	switch code {
	case "C":
		return ActionCascade
	case "D":
		return ActionDefault
	case "N":
		return ActionNullify
	case "R":
		return ActionRestrict
	default:
		return ActionRestrict
	}
}

// TypeMetadata is a native type descriptor for a column.
type TypeMetadata struct {
	Name      string `yaml:"name" json:"name"`
	Limit     *int   `yaml:"limit,omitempty" json:"limit,omitempty"`
	Precision *int   `yaml:"precision,omitempty" json:"precision,omitempty"`
	Scale     *int   `yaml:"scale,omitempty" json:"scale,omitempty"`
}

// ColumnDefinition describes one column of a table.
//
// Default and DefaultFunction are mutually exclusive: a column default is
// either a literal value passed through verbatim, or an engine builtin
// expression evaluated at insert time. Never both.
type ColumnDefinition struct {
	Table           string       `yaml:"-" json:"-"`
	Name            string       `yaml:"name" json:"name"`
	Type            TypeMetadata `yaml:"type" json:"type"`
	Nullable        bool         `yaml:"nullable" json:"nullable"`
	Default         *string      `yaml:"default,omitempty" json:"default,omitempty"`
	DefaultFunction *string      `yaml:"default_function,omitempty" json:"default_function,omitempty"`
}

// IndexDefinition describes one index of a table. Columns is the ordered
// member list as declared in the catalog and is never empty.
type IndexDefinition struct {
	Table   string   `yaml:"-" json:"-"`
	Name    string   `yaml:"name" json:"name"`
	Unique  bool     `yaml:"unique" json:"unique"`
	Columns []string `yaml:"columns" json:"columns"`
}

// ForeignKeyDefinition describes a single-column foreign key constraint.
// Compound keys are excluded at the query level and never appear here,
// not even partially.
type ForeignKeyDefinition struct {
	Name             string    `yaml:"name" json:"name"`
	Table            string    `yaml:"-" json:"-"`
	Column           string    `yaml:"column" json:"column"`
	ReferencedTable  string    `yaml:"referenced_table" json:"referenced_table"`
	ReferencedColumn string    `yaml:"referenced_column" json:"referenced_column"`
	OnUpdate         RefAction `yaml:"on_update" json:"on_update"`
	OnDelete         RefAction `yaml:"on_delete" json:"on_delete"`
}
