package sqlite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/gpkg/pkg/types"
)

// warnRecorder captures observer warnings.
type warnRecorder struct {
	types.NopObserver
	warnings []string
}

func (w *warnRecorder) Warn(msg string) { w.warnings = append(w.warnings, msg) }

func TestValidateValueEmptyIsNull(t *testing.T) {
	// Empty and absent values pass for every declared type, including
	// otherwise-rejected ones, and convert to NULL.
	declared := []string{"INTEGER", "INT", "REAL", "FLOAT", "DOUBLE", "TEXT", "VARCHAR(40)", "CHAR", "BLOB", "WIDGET"}
	empty := ""
	for _, typ := range declared {
		col := types.ColumnSpec{Name: "c", Type: typ}
		assert.NoError(t, validateValue(col, nil, 0, types.NopObserver{}), typ)
		assert.NoError(t, validateValue(col, &empty, 0, types.NopObserver{}), typ)
		assert.Equal(t, types.NullValue, convertValue(col, nil), typ)
		assert.Equal(t, types.NullValue, convertValue(col, &empty), typ)
	}
}

func TestValidateValue(t *testing.T) {
	tests := []struct {
		name     string
		colType  string
		value    string
		wantErr  error
		expected string
	}{
		{"integer ok", "INTEGER", "42", nil, ""},
		{"integer negative", "int", "-7", nil, ""},
		{"integer rejects float", "INTEGER", "3.5", types.ErrTypeMismatch, "INTEGER"},
		{"integer rejects text", "INTEGER", "ten", types.ErrTypeMismatch, "INTEGER"},
		{"integer rejects trailing junk", "INTEGER", "42x", types.ErrTypeMismatch, "INTEGER"},
		{"real ok", "REAL", "3.25", nil, ""},
		{"real scientific", "DOUBLE", "6.1e5", nil, ""},
		{"real integer-shaped", "FLOAT", "12", nil, ""},
		{"real rejects text", "REAL", "fast", types.ErrTypeMismatch, "REAL/FLOAT"},
		{"real rejects comma decimal", "REAL", "3,25", types.ErrTypeMismatch, "REAL/FLOAT"},
		{"text ok", "TEXT", "anything at all", nil, ""},
		{"varchar with length ok", "VARCHAR(255)", "abc", nil, ""},
		{"blob rejected", "BLOB", "0xdead", types.ErrUnsupportedColumnType, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			col := types.ColumnSpec{Name: "col", Type: tt.colType}
			err := validateValue(col, &tt.value, 3, types.NopObserver{})
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tt.wantErr)
			if tt.expected != "" {
				var tm *types.TypeMismatchError
				require.ErrorAs(t, err, &tm)
				assert.Equal(t, 3, tm.Index)
				assert.Equal(t, "col", tm.Column)
				assert.Equal(t, tt.expected, tm.Expected)
			}
		})
	}
}

func TestValidateValueUnknownTypeWarns(t *testing.T) {
	rec := &warnRecorder{}
	col := types.ColumnSpec{Name: "payload", Type: "WIDGET"}
	v := "opaque"
	require.NoError(t, validateValue(col, &v, 0, rec))
	require.Len(t, rec.warnings, 1)
	assert.Contains(t, rec.warnings[0], "payload")

	// The value passes through as text.
	assert.Equal(t, types.TextValue("opaque"), convertValue(col, &v))
}

func TestConvertValue(t *testing.T) {
	tests := []struct {
		name    string
		colType string
		value   string
		want    types.Value
	}{
		{"integer", "INTEGER", "42", types.IntegerValue(42)},
		{"integer negative", "INT", "-9001", types.IntegerValue(-9001)},
		{"real", "REAL", "2.5", types.RealValue(2.5)},
		{"real scientific", "DOUBLE", "1e3", types.RealValue(1000)},
		{"text", "TEXT", "hello", types.TextValue("hello")},
		{"char", "CHAR", "x", types.TextValue("x")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			col := types.ColumnSpec{Name: "c", Type: tt.colType}
			got := convertValue(col, &tt.value)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want.Driver(), got.Driver())
		})
	}
}

func TestConvertNeverFailsAfterValidate(t *testing.T) {
	// Whatever validates must convert: the two share one parse.
	cases := []struct{ colType, value string }{
		{"INTEGER", "123"},
		{"REAL", "-0.5"},
		{"TEXT", "abc"},
		{"WIDGET", "passthrough"},
	}
	for _, c := range cases {
		col := types.ColumnSpec{Name: "c", Type: c.colType}
		v := c.value
		require.NoError(t, validateValue(col, &v, 0, types.NopObserver{}))
		got := convertValue(col, &v)
		assert.NotEqual(t, types.KindNull, got.Kind, c.colType)
	}
}
