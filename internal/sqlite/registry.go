package sqlite

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/go-spatial/geom"
	"github.com/go-spatial/geom/encoding/wkb"

	"github.com/mesh-intelligence/gpkg/internal/geobin"
	"github.com/mesh-intelligence/gpkg/pkg/types"
)

// lastChangeFormat is the gpkg_contents timestamp layout.
const lastChangeFormat = "2006-01-02T15:04:05.000Z"

// createMetadataTables creates the three standard metadata tables and
// seeds the two "undefined" spatial reference systems every GeoPackage
// must carry. Not idempotent: a second call fails on the existing tables.
func (s *Session) createMetadataTables() error {
	for _, ddl := range metadataDDL {
		if _, err := s.db.Exec(ddl); err != nil {
			return fmt.Errorf("creating metadata tables: %w", err)
		}
	}
	if err := s.upsertSRS(s.db, undefinedSRS()...); err != nil {
		return err
	}
	return nil
}

// undefinedSRS returns the two entries for srs ids -1 and 0.
func undefinedSRS() []types.SrsEntry {
	return []types.SrsEntry{
		{
			Name:           "Undefined cartesian SRS",
			ID:             srsUndefinedCartesian,
			Organization:   "NONE",
			OrganizationID: srsUndefinedCartesian,
			Definition:     "undefined",
			Description:    "undefined cartesian coordinate reference system",
		},
		{
			Name:           "Undefined geographic SRS",
			ID:             srsUndefinedGeographic,
			Organization:   "NONE",
			OrganizationID: srsUndefinedGeographic,
			Definition:     "undefined",
			Description:    "undefined geographic coordinate reference system",
		},
	}
}

// srsDefinition builds the entry registered for a requested srs id.
// SWEREF99 TM and WGS84 carry real WKT; anything else gets a generic
// placeholder definition under its EPSG code.
func srsDefinition(id int) types.SrsEntry {
	switch id {
	case srsSWEREF99TM:
		return types.SrsEntry{
			Name:           "SWEREF99 TM",
			ID:             srsSWEREF99TM,
			Organization:   "EPSG",
			OrganizationID: srsSWEREF99TM,
			Definition:     wktSWEREF99TM,
			Description:    "Swedish national grid",
		}
	case srsWGS84:
		return types.SrsEntry{
			Name:           "WGS 84",
			ID:             srsWGS84,
			Organization:   "EPSG",
			OrganizationID: srsWGS84,
			Definition:     wktWGS84,
			Description:    "World Geodetic System 1984",
		}
	default:
		return types.SrsEntry{
			Name:           fmt.Sprintf("EPSG:%d", id),
			ID:             id,
			Organization:   "EPSG",
			OrganizationID: id,
			Definition:     "undefined",
		}
	}
}

// execer is the subset of database/sql shared by *sql.DB and *sql.Tx.
type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

// upsertSRS writes entries into gpkg_spatial_ref_sys with INSERT OR
// REPLACE semantics: re-registering a known srs overwrites it.
func (s *Session) upsertSRS(ex execer, entries ...types.SrsEntry) error {
	const stmt = `INSERT OR REPLACE INTO gpkg_spatial_ref_sys
    (srs_name, srs_id, organization, organization_coordsys_id, definition, description)
    VALUES (?, ?, ?, ?, ?, ?)`

	for _, e := range entries {
		_, err := ex.Exec(stmt, e.Name, e.ID, e.Organization, e.OrganizationID, e.Definition, e.Description)
		if err != nil {
			return fmt.Errorf("upserting srs %d: %w", e.ID, err)
		}
	}
	return nil
}

// setupSRS registers the spatial reference systems a layer with the given
// srs id depends on: the two undefined systems, the requested system, and
// WGS84 alongside SWEREF99 TM since the two are commonly paired.
func (s *Session) setupSRS(ex execer, srsID int) error {
	if err := types.ValidateSrsID(srsID); err != nil {
		return err
	}
	entries := append(undefinedSRS(), srsDefinition(srsID))
	if srsID == srsSWEREF99TM {
		entries = append(entries, srsDefinition(srsWGS84))
	}
	return s.upsertSRS(ex, entries...)
}

// SRS returns the registered entry for id, or ErrSrsNotFound.
func (s *Session) SRS(id int) (*types.SrsEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.guard(); err != nil {
		return nil, err
	}

	row := s.db.QueryRow(`SELECT srs_name, srs_id, organization,
        organization_coordsys_id, definition, description
        FROM gpkg_spatial_ref_sys WHERE srs_id = ?`, id)

	var e types.SrsEntry
	var desc sql.NullString
	err := row.Scan(&e.Name, &e.ID, &e.Organization, &e.OrganizationID, &e.Definition, &desc)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %d", types.ErrSrsNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("scanning srs %d: %w", id, err)
	}
	e.Description = desc.String
	return &e, nil
}

// PutSRS inserts or replaces a spatial reference system entry.
func (s *Session) PutSRS(entry types.SrsEntry) error {
	if err := types.ValidateSrsID(entry.ID); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.guard(); err != nil {
		return err
	}
	return s.upsertSRS(s.db, entry)
}

// EnsureLayer creates the physical table and both registry rows in one
// transaction so a failure anywhere leaves no partial registration. A
// table that already has a contents entry is left untouched.
func (s *Session) EnsureLayer(spec types.LayerSpec) error {
	if err := spec.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.guard(); err != nil {
		return err
	}

	var one int
	err := s.db.QueryRow("SELECT 1 FROM gpkg_contents WHERE table_name = ?", spec.Name).Scan(&one)
	if err == nil {
		return nil // already registered
	}
	if err != sql.ErrNoRows {
		return fmt.Errorf("checking layer registration: %w", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning layer transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.setupSRS(tx, spec.SrsID); err != nil {
		return err
	}
	if _, err := tx.Exec(layerDDL(spec)); err != nil {
		return fmt.Errorf("creating layer table %q: %w", spec.Name, err)
	}
	if err := s.registerLayer(tx, spec); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing layer %q: %w", spec.Name, err)
	}
	return nil
}

// layerDDL builds the CREATE TABLE statement for a layer. When no column
// is flagged as primary key, a surrogate "fid" autoincrement key is
// prepended. Identifiers are pre-validated by LayerSpec.Validate.
func layerDDL(spec types.LayerSpec) string {
	var defs []string
	hasPK := false
	for _, c := range spec.Columns {
		if c.PrimaryKey {
			hasPK = true
		}
	}
	if !hasPK {
		defs = append(defs, `"fid" INTEGER PRIMARY KEY AUTOINCREMENT`)
	}
	for _, c := range spec.Columns {
		def := fmt.Sprintf("%q %s", c.Name, c.Type)
		if c.PrimaryKey {
			def += " PRIMARY KEY"
		} else if c.NotNull {
			def += " NOT NULL"
		}
		defs = append(defs, def)
	}
	defs = append(defs, fmt.Sprintf("%q BLOB", spec.GeometryColumn))
	return fmt.Sprintf("CREATE TABLE %q (%s)", spec.Name, strings.Join(defs, ", "))
}

// registerLayer inserts the contents and geometry-columns rows. Must run
// in the same transaction as the physical CREATE TABLE. The z and m flags
// are always 0: no 3D or measured coordinates.
func (s *Session) registerLayer(tx *sql.Tx, spec types.LayerSpec) error {
	identifier := spec.Identifier
	if identifier == "" {
		identifier = spec.Name
	}
	_, err := tx.Exec(`INSERT INTO gpkg_contents
        (table_name, data_type, identifier, description, last_change, srs_id)
        VALUES (?, 'features', ?, ?, ?, ?)`,
		spec.Name, identifier, spec.Description,
		time.Now().UTC().Format(lastChangeFormat), spec.SrsID)
	if err != nil {
		return fmt.Errorf("inserting contents row for %q: %w", spec.Name, err)
	}

	_, err = tx.Exec(`INSERT INTO gpkg_geometry_columns
        (table_name, column_name, geometry_type_name, srs_id, z, m)
        VALUES (?, ?, ?, ?, 0, 0)`,
		spec.Name, spec.GeometryColumn, string(spec.GeometryType), spec.SrsID)
	if err != nil {
		return fmt.Errorf("inserting geometry column row for %q: %w", spec.Name, err)
	}
	return nil
}

// Layers lists every registered feature layer with its cached extent.
func (s *Session) Layers() ([]types.LayerInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.guard(); err != nil {
		return nil, err
	}

	rows, err := s.db.Query(`SELECT c.table_name, c.identifier, c.description,
        c.min_x, c.min_y, c.max_x, c.max_y, c.srs_id,
        gc.column_name, gc.geometry_type_name
        FROM gpkg_contents c
        JOIN gpkg_geometry_columns gc ON c.table_name = gc.table_name
        WHERE c.data_type = 'features'
        ORDER BY c.table_name`)
	if err != nil {
		return nil, fmt.Errorf("listing layers: %w", err)
	}
	defer rows.Close()

	var layers []types.LayerInfo
	for rows.Next() {
		var li types.LayerInfo
		var minX, minY, maxX, maxY sql.NullFloat64
		var geomType string
		err := rows.Scan(&li.Name, &li.Identifier, &li.Description,
			&minX, &minY, &maxX, &maxY, &li.SrsID, &li.GeometryColumn, &geomType)
		if err != nil {
			return nil, fmt.Errorf("scanning layer row: %w", err)
		}
		li.GeometryType, err = types.ParseGeometryType(geomType)
		if err != nil {
			return nil, fmt.Errorf("layer %q: %w", li.Name, err)
		}
		if minX.Valid && minY.Valid && maxX.Valid && maxY.Valid {
			li.Extent = &types.Extent{
				MinX: minX.Float64, MinY: minY.Float64,
				MaxX: maxX.Float64, MaxY: maxY.Float64,
			}
		}
		layers = append(layers, li)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing layers: %w", err)
	}
	return layers, nil
}

// layerMeta is the schema view of one registered layer used by the load
// and query engines: registry facts plus the physical column list. A
// caller-declared primary key stays in columns so it can be populated on
// insert; only the surrogate autoincrement key is excluded.
type layerMeta struct {
	name       string
	geomColumn string
	geomType   types.GeometryType
	srsID      int
	pkColumn   string
	columns    []types.ColumnSpec // declared columns, table order, no surrogate/geometry
}

// hasColumn reports whether name is a declared attribute column.
func (m *layerMeta) hasColumn(name string) bool {
	for _, c := range m.columns {
		if c.Name == name {
			return true
		}
	}
	return false
}

// loadLayerMeta resolves a table name against the registry and the
// physical schema. The table name is validated here because every caller
// interpolates it into SQL afterwards.
func (s *Session) loadLayerMeta(table string) (*layerMeta, error) {
	if err := types.ValidateIdentifier(table, "table name"); err != nil {
		return nil, err
	}

	m := &layerMeta{name: table}
	var geomType string
	err := s.db.QueryRow(`SELECT gc.column_name, gc.geometry_type_name, gc.srs_id
        FROM gpkg_geometry_columns gc
        JOIN gpkg_contents c ON c.table_name = gc.table_name
        WHERE gc.table_name = ? AND c.data_type = 'features'`, table).
		Scan(&m.geomColumn, &geomType, &m.srsID)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", types.ErrLayerNotFound, table)
	}
	if err != nil {
		return nil, fmt.Errorf("resolving layer %q: %w", table, err)
	}
	if m.geomType, err = types.ParseGeometryType(geomType); err != nil {
		return nil, fmt.Errorf("layer %q: %w", table, err)
	}

	// The surrogate key layerDDL prepends is the only AUTOINCREMENT column
	// a layer can carry; a caller-declared primary key is a regular
	// insertable column.
	var createSQL string
	err = s.db.QueryRow(`SELECT sql FROM sqlite_master WHERE type = 'table' AND name = ?`, table).
		Scan(&createSQL)
	if err != nil {
		return nil, fmt.Errorf("reading schema of %q: %w", table, err)
	}
	surrogatePK := strings.Contains(createSQL, "AUTOINCREMENT")

	rows, err := s.db.Query(fmt.Sprintf("PRAGMA table_info(%q)", table))
	if err != nil {
		return nil, fmt.Errorf("reading schema of %q: %w", table, err)
	}
	defer rows.Close()

	for rows.Next() {
		var cid, notnull, pk int
		var name, ctype string
		var dflt sql.NullString
		if err := rows.Scan(&cid, &name, &ctype, &notnull, &dflt, &pk); err != nil {
			return nil, fmt.Errorf("scanning schema of %q: %w", table, err)
		}
		if pk > 0 {
			m.pkColumn = name
			if surrogatePK {
				continue
			}
		}
		if name == m.geomColumn {
			continue
		}
		m.columns = append(m.columns, types.ColumnSpec{
			Name:       name,
			Type:       ctype,
			NotNull:    notnull != 0,
			PrimaryKey: pk > 0,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading schema of %q: %w", table, err)
	}
	return m, nil
}

// UpdateExtent rescans the layer and rewrites its contents extent with the
// default padding.
func (s *Session) UpdateExtent(table string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.guard(); err != nil {
		return err
	}
	meta, err := s.loadLayerMeta(table)
	if err != nil {
		return err
	}
	return s.updateExtentLocked(meta, types.DefaultBufferPercent)
}

// updateExtentLocked recomputes the layer extent from every non-null
// geometry and writes the padded bounds plus a fresh timestamp into
// gpkg_contents. A layer with zero geometries is left untouched. This is
// a full-table scan; bulk loads pay for it once per call.
func (s *Session) updateExtentLocked(meta *layerMeta, bufferPercent float64) error {
	query := fmt.Sprintf("SELECT %q FROM %q WHERE %q IS NOT NULL",
		meta.geomColumn, meta.name, meta.geomColumn)
	rows, err := s.db.Query(query)
	if err != nil {
		return fmt.Errorf("scanning geometries of %q: %w", meta.name, err)
	}
	defer rows.Close()

	var ext *types.Extent
	for rows.Next() {
		var blob []byte
		if err := rows.Scan(&blob); err != nil {
			return fmt.Errorf("scanning geometry blob: %w", err)
		}
		wkbBytes, _, err := geobin.Decode(blob)
		if err != nil {
			return fmt.Errorf("layer %q: %w", meta.name, err)
		}
		g, err := wkb.DecodeBytes(wkbBytes)
		if err != nil {
			return fmt.Errorf("layer %q: decoding wkb: %w", meta.name, err)
		}
		env, err := geom.NewExtentFromGeometry(g)
		if err != nil {
			return fmt.Errorf("layer %q: computing envelope: %w", meta.name, err)
		}
		if ext == nil {
			ext = &types.Extent{MinX: env.MinX(), MinY: env.MinY(), MaxX: env.MaxX(), MaxY: env.MaxY()}
		} else {
			ext.Expand(env.MinX(), env.MinY())
			ext.Expand(env.MaxX(), env.MaxY())
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("scanning geometries of %q: %w", meta.name, err)
	}
	if ext == nil {
		return nil // no geometries, extent stays NULL
	}

	padded := ext.Buffered(bufferPercent)
	_, err = s.db.Exec(`UPDATE gpkg_contents
        SET min_x = ?, min_y = ?, max_x = ?, max_y = ?, last_change = ?
        WHERE table_name = ?`,
		padded.MinX, padded.MinY, padded.MaxX, padded.MaxY,
		time.Now().UTC().Format(lastChangeFormat), meta.name)
	if err != nil {
		return fmt.Errorf("updating extent of %q: %w", meta.name, err)
	}
	return nil
}
