package types

import "context"

// GeoPackage is a stateful session over one open GeoPackage file. A
// session wraps a single database connection and assumes single-writer
// discipline; it holds at most one open transaction at a time. Close
// releases the connection and is idempotent.
type GeoPackage interface {
	// Path returns the file path the session was opened on.
	Path() string

	// EnsureLayer creates the physical table and its registry rows
	// (contents + geometry columns) in one transaction, registering the
	// layer's spatial reference system first. A layer that is already
	// registered with the same name is left untouched.
	EnsureLayer(spec LayerSpec) error

	// Layers lists every registered feature layer with its cached extent.
	Layers() ([]LayerInfo, error)

	// SRS returns the spatial reference system entry for id.
	// Returns ErrSrsNotFound if the id is not registered.
	SRS(id int) (*SrsEntry, error)

	// PutSRS inserts or replaces a spatial reference system entry.
	PutSRS(entry SrsEntry) error

	// BulkInsert loads features into a registered layer in batched
	// transactions and recomputes the layer extent afterwards. Returns
	// the number of rows inserted. Batches already committed stay
	// committed when a later batch fails.
	BulkInsert(ctx context.Context, table string, features []Feature, opts BulkOptions) (int64, error)

	// ForEachFeature streams decoded features to fn in a single forward
	// pass. The scan stops on the first error fn returns.
	ForEachFeature(ctx context.Context, table string, opts ReadOptions, fn func(Feature) error) error

	// ReadFeatures materializes the same scan as ForEachFeature.
	ReadFeatures(ctx context.Context, table string, opts ReadOptions) ([]Feature, error)

	// CountFeatures counts rows, optionally filtered by a raw WHERE
	// fragment (same trust policy as ReadOptions.Where).
	CountFeatures(table, where string) (int64, error)

	// DeleteFeatures removes rows matched by the raw WHERE fragment (all
	// rows when empty) and returns the affected count.
	DeleteFeatures(table, where string) (int64, error)

	// UpdateExtent rescans the layer's geometries and rewrites the
	// contents extent with the default padding. A layer with no
	// geometries keeps a NULL extent.
	UpdateExtent(table string) error

	// Close releases the connection. Idempotent.
	Close() error
}
