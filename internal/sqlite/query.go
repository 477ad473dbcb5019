package sqlite

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-spatial/geom"
	"github.com/go-spatial/geom/encoding/wkb"

	"github.com/mesh-intelligence/gpkg/internal/geobin"
	"github.com/mesh-intelligence/gpkg/pkg/types"
)

// buildSelectSQL renders the scan query. The where and order-by fragments
// are appended verbatim; see ReadOptions for the trust policy.
func buildSelectSQL(table string, opts types.ReadOptions) string {
	var b strings.Builder
	fmt.Fprintf(&b, "SELECT * FROM %q", table)
	if opts.Where != "" {
		b.WriteString(" WHERE ")
		b.WriteString(opts.Where)
	}
	if opts.OrderBy != "" {
		b.WriteString(" ORDER BY ")
		b.WriteString(opts.OrderBy)
	}
	if opts.Limit > 0 {
		fmt.Fprintf(&b, " LIMIT %d", opts.Limit)
	} else if opts.Offset > 0 {
		// SQLite requires a LIMIT clause before OFFSET; -1 means unbounded.
		b.WriteString(" LIMIT -1")
	}
	if opts.Offset > 0 {
		fmt.Fprintf(&b, " OFFSET %d", opts.Offset)
	}
	return b.String()
}

// ForEachFeature streams the layer's rows as decoded features in a single
// forward pass. Attribute values are stringified; the primary-key and
// geometry columns are not attributes. A geometry blob that fails to
// decode yields a feature with a nil geometry rather than aborting the
// scan. Cancellation is checked per row.
func (s *Session) ForEachFeature(ctx context.Context, table string, opts types.ReadOptions, fn func(types.Feature) error) error {
	if fn == nil {
		return types.ErrNilCallback
	}
	if err := opts.Validate(); err != nil {
		return err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.guard(); err != nil {
		return err
	}

	meta, err := s.loadLayerMeta(table)
	if err != nil {
		return err
	}

	rows, err := s.db.Query(buildSelectSQL(table, opts))
	if err != nil {
		return fmt.Errorf("querying %q: %w", table, err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return fmt.Errorf("reading columns of %q: %w", table, err)
	}

	vals := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for i := range vals {
		ptrs[i] = &vals[i]
	}

	for rows.Next() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := rows.Scan(ptrs...); err != nil {
			return fmt.Errorf("scanning row of %q: %w", table, err)
		}

		f := types.Feature{Attributes: make(map[string]*string, len(cols))}
		for i, name := range cols {
			switch name {
			case meta.pkColumn:
				// row identity, not an attribute
			case meta.geomColumn:
				if opts.SkipGeometry || vals[i] == nil {
					continue
				}
				blob, ok := vals[i].([]byte)
				if !ok {
					continue
				}
				f.Geometry = decodeGeometry(blob)
			default:
				f.Attributes[name] = stringify(vals[i])
			}
		}
		if err := fn(f); err != nil {
			return err
		}
	}
	return rows.Err()
}

// decodeGeometry is the tolerant read-side decode: any failure maps to a
// nil geometry.
func decodeGeometry(blob []byte) geom.Geometry {
	wkbBytes, _, err := geobin.Decode(blob)
	if err != nil {
		return nil
	}
	g, err := wkb.DecodeBytes(wkbBytes)
	if err != nil {
		return nil
	}
	return g
}

// stringify renders a scanned column value as the exchange string, nil for
// SQL NULL.
func stringify(v any) *string {
	switch val := v.(type) {
	case nil:
		return nil
	case int64:
		return types.Ptr(strconv.FormatInt(val, 10))
	case float64:
		return types.Ptr(strconv.FormatFloat(val, 'g', -1, 64))
	case bool:
		return types.Ptr(strconv.FormatBool(val))
	case []byte:
		return types.Ptr(string(val))
	case string:
		return types.Ptr(val)
	case time.Time:
		return types.Ptr(val.UTC().Format(time.RFC3339))
	default:
		return types.Ptr(fmt.Sprint(val))
	}
}

// ReadFeatures materializes the ForEachFeature stream.
func (s *Session) ReadFeatures(ctx context.Context, table string, opts types.ReadOptions) ([]types.Feature, error) {
	var out []types.Feature
	err := s.ForEachFeature(ctx, table, opts, func(f types.Feature) error {
		out = append(out, f)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// CountFeatures counts rows, filtered by an optional raw WHERE fragment.
func (s *Session) CountFeatures(table, where string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.guard(); err != nil {
		return 0, err
	}
	if err := types.ValidateIdentifier(table, "table name"); err != nil {
		return 0, err
	}

	query := fmt.Sprintf("SELECT COUNT(*) FROM %q", table)
	if where != "" {
		query += " WHERE " + where
	}
	var n int64
	if err := s.db.QueryRow(query).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting %q: %w", table, err)
	}
	return n, nil
}

// DeleteFeatures removes rows matched by the raw WHERE fragment, all rows
// when empty. Returns the affected count.
func (s *Session) DeleteFeatures(table, where string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.guard(); err != nil {
		return 0, err
	}
	if err := types.ValidateIdentifier(table, "table name"); err != nil {
		return 0, err
	}

	query := fmt.Sprintf("DELETE FROM %q", table)
	if where != "" {
		query += " WHERE " + where
	}
	res, err := s.db.Exec(query)
	if err != nil {
		return 0, fmt.Errorf("deleting from %q: %w", table, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("deleting from %q: %w", table, err)
	}
	return n, nil
}
