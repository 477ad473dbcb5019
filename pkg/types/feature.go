package types

import "github.com/go-spatial/geom"

// Feature is the sole data-interchange shape between the caller and the
// library: an optional geometry plus a string-keyed attribute map. A nil
// Geometry stores as NULL. A missing key, a nil value, and an empty string
// all load as NULL; actual storage types come from the target column's
// declared SQL type.
type Feature struct {
	Geometry   geom.Geometry
	Attributes map[string]*string
}

// NewFeature builds a Feature from a geometry and plain attribute strings.
// Convenience for callers that have no NULL attributes to express.
func NewFeature(g geom.Geometry, attrs map[string]string) Feature {
	f := Feature{Geometry: g, Attributes: make(map[string]*string, len(attrs))}
	for k, v := range attrs {
		f.Attributes[k] = Ptr(v)
	}
	return f
}

// Ptr returns a pointer to s, for building attribute maps inline.
func Ptr(s string) *string { return &s }
