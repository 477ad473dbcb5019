package types

import (
	"strings"

	"github.com/go-spatial/geom"
)

// GeometryType is the declared geometry type tag of a layer, one of the
// seven flat OGC types or GeometryAny meaning "any of them".
type GeometryType string

const (
	GeometryAny             GeometryType = "GEOMETRY"
	GeometryPoint           GeometryType = "POINT"
	GeometryLineString      GeometryType = "LINESTRING"
	GeometryPolygon         GeometryType = "POLYGON"
	GeometryMultiPoint      GeometryType = "MULTIPOINT"
	GeometryMultiLineString GeometryType = "MULTILINESTRING"
	GeometryMultiPolygon    GeometryType = "MULTIPOLYGON"
)

// singular maps each Multi* tag to the singular tag it also accepts.
var singular = map[GeometryType]GeometryType{
	GeometryMultiPoint:      GeometryPoint,
	GeometryMultiLineString: GeometryLineString,
	GeometryMultiPolygon:    GeometryPolygon,
}

// ParseGeometryType normalizes a geometry type name to a GeometryType.
// Returns ErrUnknownGeomType for names outside the supported set.
func ParseGeometryType(name string) (GeometryType, error) {
	gt := GeometryType(strings.ToUpper(strings.TrimSpace(name)))
	switch gt {
	case GeometryAny, GeometryPoint, GeometryLineString, GeometryPolygon,
		GeometryMultiPoint, GeometryMultiLineString, GeometryMultiPolygon:
		return gt, nil
	}
	return "", ErrUnknownGeomType
}

// Accepts reports whether a layer declared as t admits a geometry tagged
// other. GeometryAny admits every tag; a Multi* tag admits its own tag and
// its singular form; every other pair must match exactly.
func (t GeometryType) Accepts(other GeometryType) bool {
	if t == GeometryAny {
		return true
	}
	if t == other {
		return true
	}
	return singular[t] == other
}

// TypeOf returns the GeometryType tag for a geometry value.
func TypeOf(g geom.Geometry) (GeometryType, error) {
	switch g.(type) {
	case geom.Point, *geom.Point:
		return GeometryPoint, nil
	case geom.LineString, *geom.LineString:
		return GeometryLineString, nil
	case geom.Polygon, *geom.Polygon:
		return GeometryPolygon, nil
	case geom.MultiPoint, *geom.MultiPoint:
		return GeometryMultiPoint, nil
	case geom.MultiLineString, *geom.MultiLineString:
		return GeometryMultiLineString, nil
	case geom.MultiPolygon, *geom.MultiPolygon:
		return GeometryMultiPolygon, nil
	}
	return "", ErrUnknownGeomType
}
