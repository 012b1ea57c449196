package sqlany

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strp(s string) *string { return &s }

func TestClassifyDefault(t *testing.T) {
	tests := []struct {
		name         string
		raw          *string
		wantLiteral  *string
		wantFunction *string
	}{
		{
			name:        "integer literal",
			raw:         strp("42"),
			wantLiteral: strp("42"),
		},
		{
			name:        "negative fraction",
			raw:         strp("-3.25"),
			wantLiteral: strp("-3.25"),
		},
		{
			name:        "exponent",
			raw:         strp("1.5e-3"),
			wantLiteral: strp("1.5e-3"),
		},
		{
			name:        "quoted string literal",
			raw:         strp("'abc'"),
			wantLiteral: strp("'abc'"),
		},
		{
			name:         "builtin expression",
			raw:          strp("current timestamp"),
			wantFunction: strp("CURRENT TIMESTAMP"),
		},
		{
			name:         "autoincrement",
			raw:          strp("autoincrement"),
			wantFunction: strp("AUTOINCREMENT"),
		},
		{
			name: "absent",
			raw:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			literal, function := ClassifyDefault(tt.raw)
			assert.Equal(t, tt.wantLiteral, literal)
			assert.Equal(t, tt.wantFunction, function)

			// Literal and function defaults are mutually exclusive.
			if tt.raw != nil {
				require.True(t, (literal == nil) != (function == nil))
			}
		})
	}
}
