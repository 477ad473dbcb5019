// Package gpkg is the public entry point of the library: factories for
// creating and opening GeoPackage files, returning the session interface
// defined in pkg/types.
//
// Example:
//
//	gp, err := gpkg.Create("cities.gpkg", types.OpenOptions{WAL: true})
//	if err != nil {
//	    return err
//	}
//	defer gp.Close()
//
//	err = gp.EnsureLayer(types.LayerSpec{
//	    Name:           "cities",
//	    GeometryColumn: "geom",
//	    GeometryType:   types.GeometryPoint,
//	    SrsID:          4326,
//	    Columns: []types.ColumnSpec{
//	        {Name: "name", Type: "TEXT"},
//	        {Name: "population", Type: "INTEGER"},
//	    },
//	})
package gpkg

import (
	"github.com/mesh-intelligence/gpkg/internal/sqlite"
	"github.com/mesh-intelligence/gpkg/pkg/types"
)

// Create makes a new GeoPackage file at path and returns an open session
// on it. Fails with types.ErrFileExists when path is already occupied.
func Create(path string, opts types.OpenOptions) (types.GeoPackage, error) {
	return sqlite.Create(path, opts)
}

// Open attaches to an existing GeoPackage file. Fails with
// types.ErrFileNotFound when the file does not exist.
func Open(path string, opts types.OpenOptions) (types.GeoPackage, error) {
	return sqlite.Open(path, opts)
}
