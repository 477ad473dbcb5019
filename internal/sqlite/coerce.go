package sqlite

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mesh-intelligence/gpkg/pkg/types"
)

// typeClass buckets a declared SQL type for coercion.
type typeClass int

const (
	classInteger typeClass = iota
	classReal
	classText
	classBlob
	classOther
)

// classify normalizes a declared column type: case-insensitive, length
// suffixes like VARCHAR(80) ignored.
func classify(declared string) typeClass {
	t := strings.ToUpper(strings.TrimSpace(declared))
	if i := strings.IndexByte(t, '('); i >= 0 {
		t = strings.TrimSpace(t[:i])
	}
	switch t {
	case "INTEGER", "INT":
		return classInteger
	case "REAL", "FLOAT", "DOUBLE":
		return classReal
	case "TEXT", "VARCHAR", "CHAR":
		return classText
	case "BLOB":
		return classBlob
	default:
		return classOther
	}
}

// validateValue checks one attribute value against its column's declared
// type. A nil or empty value always passes: empty input means "no value
// provided", never a zero-length text. index is the feature's position in
// the load, carried into the error. Unrecognized declared types pass with
// a warning to obs; BLOB columns are rejected outright, since this path
// has no binary attribute support.
func validateValue(col types.ColumnSpec, v *string, index int, obs types.Observer) error {
	if v == nil || *v == "" {
		return nil
	}
	switch classify(col.Type) {
	case classInteger:
		if _, err := strconv.ParseInt(*v, 10, 64); err != nil {
			return &types.TypeMismatchError{
				Index: index, Column: col.Name,
				Expected: "INTEGER", Reason: "not an integer",
			}
		}
	case classReal:
		if _, err := strconv.ParseFloat(*v, 64); err != nil {
			return &types.TypeMismatchError{
				Index: index, Column: col.Name,
				Expected: "REAL/FLOAT", Reason: "not a number",
			}
		}
	case classText:
		// any non-empty string is valid text
	case classBlob:
		return fmt.Errorf("%w: column %q is BLOB", types.ErrUnsupportedColumnType, col.Name)
	default:
		obs.Warn(fmt.Sprintf("column %q has unrecognized type %q, storing value as text", col.Name, col.Type))
	}
	return nil
}

// convertValue converts a validated attribute value into its storage
// representation. The parse mirrors validateValue, so a value that passed
// validation never fails here; an unparseable value degrades to NULL.
func convertValue(col types.ColumnSpec, v *string) types.Value {
	if v == nil || *v == "" {
		return types.NullValue
	}
	switch classify(col.Type) {
	case classInteger:
		n, err := strconv.ParseInt(*v, 10, 64)
		if err != nil {
			return types.NullValue
		}
		return types.IntegerValue(n)
	case classReal:
		f, err := strconv.ParseFloat(*v, 64)
		if err != nil {
			return types.NullValue
		}
		return types.RealValue(f)
	default:
		return types.TextValue(*v)
	}
}
