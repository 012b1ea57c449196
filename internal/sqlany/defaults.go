package sqlany

import (
	"regexp"
	"strings"
)

var (
	// Optional sign, digits, optional fraction, optional exponent.
	numericLiteral = regexp.MustCompile(`^[-+]?\d+(\.\d+)?([eE][-+]?\d+)?$`)
	stringLiteral  = regexp.MustCompile(`^'.*'$`)
)

// ClassifyDefault splits a raw catalog default into either a literal
// value or an engine builtin expression. Exactly one result is set for
// non-nil input; nil input yields both nil.
//
// Numeric and single-quoted string defaults pass through verbatim as
// literals. Anything else is assumed to invoke an engine builtin (e.g. a
// current-timestamp expression) and is returned upper-cased as a
// function expression.
func ClassifyDefault(raw *string) (literal, function *string) {
	if raw == nil {
		return nil, nil
	}
	if numericLiteral.MatchString(*raw) || stringLiteral.MatchString(*raw) {
		v := *raw
		return &v, nil
	}
	f := strings.ToUpper(*raw)
	return nil, &f
}
