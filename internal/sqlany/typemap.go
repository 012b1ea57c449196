package sqlany

import (
	"fmt"

	"github.com/corbelan/sqlany/internal/errs"
)

// TypeMapper resolves abstract column types to native DDL type tokens.
// Engine-specific rules are tried first; anything they don't cover is
// handed to the generic mapper. The chain is explicit — callers compose
// it via NewTypeMapper rather than relying on any implicit fallback.
type TypeMapper struct {
	fallback *GenericMapper
}

// NewTypeMapper returns a TypeMapper backed by the default GenericMapper.
func NewTypeMapper() *TypeMapper {
	return &TypeMapper{fallback: NewGenericMapper()}
}

// NativeType maps an abstract type plus size constraints to the engine's
// DDL type token.
func (m *TypeMapper) NativeType(abstract string, limit, precision, scale *int) (string, error) {
	switch abstract {
	case "integer":
		return integerType(limit), nil

	case "string":
		if limit != nil {
			return fmt.Sprintf("varchar(%d)", *limit), nil
		}
		return m.fallback.NativeType(abstract, limit, precision, scale)

	case "boolean":
		// The native bit type cannot hold NULL; tinyint can, so boolean
		// columns always map to it no matter what limit was asked for.
		return "tinyint", nil

	case "binary":
		if limit != nil {
			return fmt.Sprintf("binary(%d)", *limit), nil
		}
		return "long binary", nil

	default:
		return m.fallback.NativeType(abstract, limit, precision, scale)
	}
}

// integerType picks the integer width for a byte limit. Out-of-range
// limits get the 4-byte default.
func integerType(limit *int) string {
	if limit == nil {
		return "integer"
	}
	switch {
	case *limit == 1:
		return "tinyint"
	case *limit == 2:
		return "smallint"
	case *limit >= 3 && *limit <= 4:
		return "integer"
	case *limit >= 5 && *limit <= 8:
		return "bigint"
	default:
		return "integer"
	}
}

// GenericMapper holds the engine's default native token per abstract
// type, for types with no constraint-aware rule of their own.
type GenericMapper struct {
	types map[string]genericType
}

type genericType struct {
	name  string
	limit int // default size parameter; 0 means none
}

// NewGenericMapper returns the default abstract-to-native table.
func NewGenericMapper() *GenericMapper {
	return &GenericMapper{types: map[string]genericType{
		"primary_key": {name: "integer not null default autoincrement primary key"},
		"string":      {name: "varchar", limit: 255},
		"text":        {name: "long varchar"},
		"integer":     {name: "integer"},
		"float":       {name: "float"},
		"decimal":     {name: "decimal"},
		"datetime":    {name: "datetime"},
		"timestamp":   {name: "datetime"},
		"time":        {name: "time"},
		"date":        {name: "date"},
		"binary":      {name: "long binary"},
		"boolean":     {name: "tinyint"},
	}}
}

// NativeType resolves abstract to its default native token, applying an
// explicit limit (or the type's default one) and precision/scale for
// decimals.
func (g *GenericMapper) NativeType(abstract string, limit, precision, scale *int) (string, error) {
	t, ok := g.types[abstract]
	if !ok {
		return "", errs.New(errs.ErrKindInvalidInput, fmt.Sprintf("no native type for %q", abstract))
	}

	if abstract == "decimal" && precision != nil {
		if scale != nil {
			return fmt.Sprintf("%s(%d,%d)", t.name, *precision, *scale), nil
		}
		return fmt.Sprintf("%s(%d)", t.name, *precision), nil
	}

	size := t.limit
	if limit != nil {
		size = *limit
	}
	if size > 0 {
		return fmt.Sprintf("%s(%d)", t.name, size), nil
	}
	return t.name, nil
}
