package types

// ValueKind tags the storage representation of a converted attribute.
type ValueKind int

const (
	KindNull ValueKind = iota
	KindInteger
	KindReal
	KindText
)

// Value is a converted attribute ready for parameter binding: exactly one
// of the typed fields is meaningful, selected by Kind.
type Value struct {
	Kind ValueKind
	Int  int64
	Real float64
	Text string
}

// NullValue is the storage NULL.
var NullValue = Value{Kind: KindNull}

// IntegerValue returns an INTEGER storage value.
func IntegerValue(v int64) Value { return Value{Kind: KindInteger, Int: v} }

// RealValue returns a REAL storage value.
func RealValue(v float64) Value { return Value{Kind: KindReal, Real: v} }

// TextValue returns a TEXT storage value.
func TextValue(v string) Value { return Value{Kind: KindText, Text: v} }

// Driver returns the value in the shape database/sql binds: nil, int64,
// float64, or string.
func (v Value) Driver() any {
	switch v.Kind {
	case KindInteger:
		return v.Int
	case KindReal:
		return v.Real
	case KindText:
		return v.Text
	default:
		return nil
	}
}
