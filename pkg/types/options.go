package types

import "fmt"

// DefaultBatchSize is the bulk-load transaction size when BulkOptions
// leaves BatchSize zero.
const DefaultBatchSize = 1000

// DefaultBufferPercent is the extent padding applied after a bulk load
// when BulkOptions leaves BufferPercent zero.
const DefaultBufferPercent = 5.0

// ConflictPolicy selects the INSERT conflict clause for bulk loads.
type ConflictPolicy int

const (
	ConflictFail    ConflictPolicy = iota // plain INSERT
	ConflictIgnore                        // INSERT OR IGNORE
	ConflictReplace                       // INSERT OR REPLACE
)

// Clause returns the SQL insert verb for the policy.
func (p ConflictPolicy) Clause() string {
	switch p {
	case ConflictIgnore:
		return "INSERT OR IGNORE"
	case ConflictReplace:
		return "INSERT OR REPLACE"
	default:
		return "INSERT"
	}
}

// OpenOptions configures a session at open/create time. WAL switches the
// connection to write-ahead journaling, letting readers proceed during a
// writer transaction; the guarantee comes from SQLite, not this library.
type OpenOptions struct {
	WAL bool
}

// BulkOptions configures one bulk load.
type BulkOptions struct {
	// BatchSize rows per transaction; zero means DefaultBatchSize.
	BatchSize int
	// Conflict selects the INSERT conflict clause.
	Conflict ConflictPolicy
	// SkipGeometryCheck disables matching each feature's geometry tag
	// against the layer's declared type. With the check off, writes of a
	// mismatched type succeed and the registry keeps the declared tag;
	// the file then reports one type and stores another.
	SkipGeometryCheck bool
	// BufferPercent pads the recomputed extent after the load; zero means
	// DefaultBufferPercent.
	BufferPercent float64
	// Observer receives progress and warnings; nil means no reporting.
	Observer Observer
}

// Normalized returns the options with defaults filled in, or an error for
// an out-of-range batch size.
func (o BulkOptions) Normalized() (BulkOptions, error) {
	if o.BatchSize == 0 {
		o.BatchSize = DefaultBatchSize
	}
	if err := ValidateBatchSize(o.BatchSize); err != nil {
		return o, err
	}
	if o.BufferPercent == 0 {
		o.BufferPercent = DefaultBufferPercent
	}
	if o.Observer == nil {
		o.Observer = NopObserver{}
	}
	return o, nil
}

// ReadOptions configures a feature scan. Where and OrderBy are appended to
// the generated SELECT verbatim: they are caller-trusted raw SQL fragments
// and are NOT validated or escaped. Callers building them from untrusted
// input must do their own sanitization.
type ReadOptions struct {
	Where   string
	OrderBy string
	// Limit caps the row count; zero means no limit.
	Limit int64
	// Offset skips rows; zero means no offset.
	Offset int64
	// SkipGeometry leaves Feature.Geometry nil without decoding blobs.
	SkipGeometry bool
}

// Validate rejects negative limit or offset.
func (o ReadOptions) Validate() error {
	if o.Limit < 0 {
		return fmt.Errorf("limit must not be negative: %d", o.Limit)
	}
	if o.Offset < 0 {
		return fmt.Errorf("offset must not be negative: %d", o.Offset)
	}
	return nil
}
