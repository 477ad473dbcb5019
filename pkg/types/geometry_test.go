package types

import (
	"testing"

	"github.com/go-spatial/geom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseGeometryType(t *testing.T) {
	gt, err := ParseGeometryType("point")
	require.NoError(t, err)
	assert.Equal(t, GeometryPoint, gt)

	gt, err = ParseGeometryType("  MultiPolygon ")
	require.NoError(t, err)
	assert.Equal(t, GeometryMultiPolygon, gt)

	_, err = ParseGeometryType("CIRCLE")
	assert.ErrorIs(t, err, ErrUnknownGeomType)

	_, err = ParseGeometryType("")
	assert.ErrorIs(t, err, ErrUnknownGeomType)
}

func TestGeometryTypeAccepts(t *testing.T) {
	tests := []struct {
		declared GeometryType
		actual   GeometryType
		want     bool
	}{
		{GeometryAny, GeometryPoint, true},
		{GeometryAny, GeometryMultiPolygon, true},
		{GeometryPoint, GeometryPoint, true},
		{GeometryPoint, GeometryMultiPoint, false},
		{GeometryPoint, GeometryLineString, false},
		{GeometryMultiPoint, GeometryPoint, true},
		{GeometryMultiPoint, GeometryMultiPoint, true},
		{GeometryMultiPoint, GeometryLineString, false},
		{GeometryMultiLineString, GeometryLineString, true},
		{GeometryMultiPolygon, GeometryPolygon, true},
		{GeometryMultiPolygon, GeometryPoint, false},
		{GeometryLineString, GeometryMultiLineString, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.declared)+" vs "+string(tt.actual), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.declared.Accepts(tt.actual))
		})
	}
}

func TestTypeOf(t *testing.T) {
	tests := []struct {
		name string
		geo  geom.Geometry
		want GeometryType
	}{
		{"point", geom.Point{1, 2}, GeometryPoint},
		{"linestring", geom.LineString{{0, 0}, {1, 1}}, GeometryLineString},
		{"polygon", geom.Polygon{{{0, 0}, {1, 0}, {1, 1}, {0, 0}}}, GeometryPolygon},
		{"multipoint", geom.MultiPoint{{0, 0}}, GeometryMultiPoint},
		{"multilinestring", geom.MultiLineString{{{0, 0}, {1, 1}}}, GeometryMultiLineString},
		{"multipolygon", geom.MultiPolygon{{{{0, 0}, {1, 0}, {1, 1}, {0, 0}}}}, GeometryMultiPolygon},
		{"pointer form", &geom.Point{1, 2}, GeometryPoint},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := TypeOf(tt.geo)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := TypeOf(nil)
	assert.ErrorIs(t, err, ErrUnknownGeomType)
}

func TestExtentBuffered(t *testing.T) {
	// The 100-unit floor dominates a zero-size extent.
	point := Extent{MinX: 10, MinY: 10, MaxX: 10, MaxY: 10}
	got := point.Buffered(5)
	assert.Equal(t, Extent{MinX: -90, MinY: -90, MaxX: 110, MaxY: 110}, got)

	// A large extent gets percentage padding per axis.
	wide := Extent{MinX: 0, MinY: 0, MaxX: 10000, MaxY: 4000}
	got = wide.Buffered(5)
	assert.InDelta(t, -500.0, got.MinX, 1e-9)
	assert.InDelta(t, 10500.0, got.MaxX, 1e-9)
	assert.InDelta(t, -200.0, got.MinY, 1e-9)
	assert.InDelta(t, 4200.0, got.MaxY, 1e-9)

	// Padding below the floor rounds up to the floor.
	narrow := Extent{MinX: 0, MinY: 0, MaxX: 1000, MaxY: 1000}
	got = narrow.Buffered(5)
	assert.InDelta(t, -100.0, got.MinX, 1e-9)
	assert.InDelta(t, 1100.0, got.MaxY, 1e-9)
}

func TestExtentExpand(t *testing.T) {
	e := Extent{MinX: 0, MinY: 0, MaxX: 1, MaxY: 1}
	e.Expand(-5, 3)
	assert.Equal(t, Extent{MinX: -5, MinY: 0, MaxX: 1, MaxY: 3}, e)
	e.Expand(0.5, 0.5) // interior point changes nothing
	assert.Equal(t, Extent{MinX: -5, MinY: 0, MaxX: 1, MaxY: 3}, e)
}
