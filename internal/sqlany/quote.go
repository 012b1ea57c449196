package sqlany

import (
	"fmt"
	"strings"
)

// Quoting is centralized here. Identifier and value text reaches SQL
// through these helpers only; catalog queries themselves are always
// parameterized.

// SplitOwner splits an owner-qualified identifier ("owner.name") into its
// owner and bare name. The owner is empty when the name is unqualified.
func SplitOwner(name string) (owner, bare string) {
	if i := strings.IndexByte(name, '.'); i >= 0 {
		return name[:i], name[i+1:]
	}
	return "", name
}

// QuoteIdent wraps a single bare identifier in double quotes, doubling
// any embedded quote characters.
func QuoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// QuoteName quotes a possibly owner-qualified identifier, quoting the
// owner and object parts separately.
func QuoteName(name string) string {
	owner, bare := SplitOwner(name)
	if owner == "" {
		return QuoteIdent(bare)
	}
	return QuoteIdent(owner) + "." + QuoteIdent(bare)
}

// QuoteValue renders a Go value as a SQL literal. Booleans become the
// 1-byte flag values 1 and 0 because boolean columns are stored as
// tinyint. Strings are single-quoted with embedded quotes doubled.
func QuoteValue(v any) string {
	switch val := v.(type) {
	case nil:
		return "NULL"
	case bool:
		if val {
			return "1"
		}
		return "0"
	case string:
		return "'" + strings.ReplaceAll(val, "'", "''") + "'"
	case []byte:
		return "'" + strings.ReplaceAll(string(val), "'", "''") + "'"
	default:
		return fmt.Sprintf("%v", val)
	}
}
