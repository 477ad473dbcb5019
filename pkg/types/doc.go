// Package types defines the exchange types, option structs, and standard
// error values for the gpkg library: features, layer and column
// descriptors, spatial reference system entries, and the validators that
// guard identifiers before they reach generated SQL.
package types
