package types

import (
	"errors"
	"fmt"
)

// Validation errors.
var (
	ErrInvalidIdentifier = errors.New("invalid identifier")
	ErrInvalidSrsID      = errors.New("invalid srs id")
	ErrInvalidBatchSize  = errors.New("invalid batch size")
)

// Write-path errors.
var (
	ErrTypeMismatch          = errors.New("value does not match declared column type")
	ErrUnsupportedColumnType = errors.New("unsupported column type")
	ErrColumnCountMismatch   = errors.New("attribute count does not match declared columns")
	ErrUnknownColumn         = errors.New("attribute does not name a declared column")
	ErrGeometryTypeMismatch  = errors.New("geometry type does not match layer declaration")
)

// Codec and session errors.
var (
	ErrMalformedBlob   = errors.New("malformed geopackage blob")
	ErrFileNotFound    = errors.New("geopackage file not found")
	ErrFileExists      = errors.New("geopackage file already exists")
	ErrSessionClosed   = errors.New("session is closed")
	ErrLayerNotFound   = errors.New("layer not found")
	ErrSrsNotFound     = errors.New("spatial reference system not found")
	ErrUnknownGeomType = errors.New("unknown geometry type")
	ErrNilCallback     = errors.New("row callback must not be nil")
)

// TypeMismatchError reports a feature attribute that failed coercion
// against its declared SQL type. Index is the zero-based position of the
// feature in the bulk-load sequence.
type TypeMismatchError struct {
	Index    int
	Column   string
	Expected string
	Reason   string
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("feature %d, column %q: expected %s (%s)",
		e.Index, e.Column, e.Expected, e.Reason)
}

func (e *TypeMismatchError) Unwrap() error { return ErrTypeMismatch }

// ColumnCountMismatchError reports a feature carrying more attributes than
// the layer declares. Missing attributes are legal (they load as NULL);
// surplus attributes are not, since they would be dropped silently.
type ColumnCountMismatchError struct {
	Expected int
	Received int
}

func (e *ColumnCountMismatchError) Error() string {
	return fmt.Sprintf("feature has %d attributes but the layer declares %d columns",
		e.Received, e.Expected)
}

func (e *ColumnCountMismatchError) Unwrap() error { return ErrColumnCountMismatch }

// GeometryTypeMismatchError reports a feature geometry whose type tag is
// not accepted by the layer's declared geometry type.
type GeometryTypeMismatchError struct {
	Index    int
	Declared GeometryType
	Actual   GeometryType
}

func (e *GeometryTypeMismatchError) Error() string {
	return fmt.Sprintf("feature %d: layer declares %s, got %s",
		e.Index, e.Declared, e.Actual)
}

func (e *GeometryTypeMismatchError) Unwrap() error { return ErrGeometryTypeMismatch }
