package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/go-spatial/geom/encoding/wkb"
	"github.com/google/uuid"

	"github.com/mesh-intelligence/gpkg/internal/geobin"
	"github.com/mesh-intelligence/gpkg/pkg/types"
)

// newLoadID stamps one bulk-load run for observer correlation.
func newLoadID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}

// BulkInsert loads features into a registered layer. One prepared INSERT
// is reused across rows; every opts.BatchSize rows the open transaction
// commits and a new one begins, bounding lock duration on large loads.
// Each feature is validated in full before its INSERT is bound; a
// validation failure rolls back only the in-flight batch and propagates.
// Batches committed before the failure stay committed: there is no
// cross-batch atomicity. After the final commit the layer extent is
// recomputed once. Returns the number of rows committed.
//
// Cancellation via ctx is checked between rows, never mid-row.
func (s *Session) BulkInsert(ctx context.Context, table string, features []types.Feature, opts types.BulkOptions) (int64, error) {
	opts, err := opts.Normalized()
	if err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.guard(); err != nil {
		return 0, err
	}

	meta, err := s.loadLayerMeta(table)
	if err != nil {
		return 0, err
	}
	insertSQL := buildInsertSQL(meta, opts.Conflict)

	loadID := newLoadID()
	opts.Observer.LoadStarted(loadID, int64(len(features)))

	tx, stmt, err := s.beginBatch(insertSQL)
	if err != nil {
		return 0, err
	}

	var committed, inBatch int64
	processed := 0
	fail := func(e error) (int64, error) {
		stmt.Close()
		tx.Rollback()
		return committed, e
	}

	for i, f := range features {
		if err := ctx.Err(); err != nil {
			return fail(err)
		}
		if err := s.validateFeature(meta, f, i, opts); err != nil {
			return fail(err)
		}

		args, err := bindFeature(meta, f)
		if err != nil {
			return fail(err)
		}
		res, err := stmt.Exec(args...)
		if err != nil {
			return fail(fmt.Errorf("inserting feature %d into %q: %w", i, table, err))
		}
		// OR IGNORE may affect zero rows; count what actually landed.
		if n, err := res.RowsAffected(); err == nil {
			inBatch += n
		}

		processed++
		opts.Observer.Progress(loadID, int64(processed))

		if processed%opts.BatchSize == 0 {
			stmt.Close()
			if err := tx.Commit(); err != nil {
				return committed, fmt.Errorf("committing batch into %q: %w", table, err)
			}
			committed += inBatch
			inBatch = 0
			if tx, stmt, err = s.beginBatch(insertSQL); err != nil {
				return committed, err
			}
		}
	}

	stmt.Close()
	if err := tx.Commit(); err != nil {
		return committed, fmt.Errorf("committing final batch into %q: %w", table, err)
	}
	committed += inBatch
	opts.Observer.LoadFinished(loadID, committed)

	if err := s.updateExtentLocked(meta, opts.BufferPercent); err != nil {
		return committed, err
	}
	return committed, nil
}

// beginBatch opens a transaction and prepares the insert statement on it.
func (s *Session) beginBatch(insertSQL string) (*sql.Tx, *sql.Stmt, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, nil, fmt.Errorf("beginning batch: %w", err)
	}
	stmt, err := tx.Prepare(insertSQL)
	if err != nil {
		tx.Rollback()
		return nil, nil, fmt.Errorf("preparing insert: %w", err)
	}
	return tx, stmt, nil
}

// buildInsertSQL renders the parameterized insert for a layer: declared
// attribute columns in table order, geometry column last. Identifiers come
// from the registry and the physical schema, both validated upstream.
func buildInsertSQL(meta *layerMeta, policy types.ConflictPolicy) string {
	cols := make([]string, 0, len(meta.columns)+1)
	marks := make([]string, 0, len(meta.columns)+1)
	for _, c := range meta.columns {
		cols = append(cols, fmt.Sprintf("%q", c.Name))
		marks = append(marks, "?")
	}
	cols = append(cols, fmt.Sprintf("%q", meta.geomColumn))
	marks = append(marks, "?")
	return fmt.Sprintf("%s INTO %q (%s) VALUES (%s)",
		policy.Clause(), meta.name, strings.Join(cols, ", "), strings.Join(marks, ", "))
}

// validateFeature runs every check for one feature before anything is
// bound: attribute count and names, per-column coercion, geometry type.
func (s *Session) validateFeature(meta *layerMeta, f types.Feature, index int, opts types.BulkOptions) error {
	if len(f.Attributes) > len(meta.columns) {
		return &types.ColumnCountMismatchError{
			Expected: len(meta.columns),
			Received: len(f.Attributes),
		}
	}
	// A misnamed key would otherwise slip through as a NULL for the column
	// the caller meant to populate.
	for name := range f.Attributes {
		if !meta.hasColumn(name) {
			return fmt.Errorf("feature %d: %w: %q", index, types.ErrUnknownColumn, name)
		}
	}
	for _, col := range meta.columns {
		if err := validateValue(col, f.Attributes[col.Name], index, opts.Observer); err != nil {
			return err
		}
	}
	if f.Geometry != nil && !opts.SkipGeometryCheck {
		gt, err := types.TypeOf(f.Geometry)
		if err != nil {
			return err
		}
		if !meta.geomType.Accepts(gt) {
			return &types.GeometryTypeMismatchError{
				Index:    index,
				Declared: meta.geomType,
				Actual:   gt,
			}
		}
	}
	return nil
}

// bindFeature converts a validated feature into insert arguments: one per
// declared attribute column (missing attributes bind NULL), geometry blob
// last.
func bindFeature(meta *layerMeta, f types.Feature) ([]any, error) {
	args := make([]any, 0, len(meta.columns)+1)
	for _, col := range meta.columns {
		args = append(args, convertValue(col, f.Attributes[col.Name]).Driver())
	}
	if f.Geometry == nil {
		return append(args, nil), nil
	}
	wkbBytes, err := wkb.EncodeBytes(f.Geometry)
	if err != nil {
		return nil, fmt.Errorf("encoding geometry wkb: %w", err)
	}
	return append(args, geobin.Encode(wkbBytes, int32(meta.srsID))), nil
}
