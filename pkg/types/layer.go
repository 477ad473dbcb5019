package types

// ColumnSpec declares one attribute column of a layer table.
type ColumnSpec struct {
	Name       string
	Type       string // declared SQL type, e.g. "INTEGER", "TEXT", "REAL"
	NotNull    bool
	PrimaryKey bool
}

// Validate checks the column name and rejects empty declared types.
func (c ColumnSpec) Validate() error {
	if err := ValidateIdentifier(c.Name, "column name"); err != nil {
		return err
	}
	if c.Type == "" {
		return ErrUnsupportedColumnType
	}
	return nil
}

// LayerSpec describes a feature layer to create: the table, its geometry
// column, the declared geometry type, the spatial reference system, and
// the ordered attribute columns. Identifier and Description feed the
// gpkg_contents row; an empty Identifier defaults to the table name.
type LayerSpec struct {
	Name           string
	GeometryColumn string
	GeometryType   GeometryType
	SrsID          int
	Columns        []ColumnSpec
	Identifier     string
	Description    string
}

// Validate checks every identifier and value a LayerSpec carries before
// any of them is interpolated into DDL.
func (l LayerSpec) Validate() error {
	if err := ValidateIdentifier(l.Name, "table name"); err != nil {
		return err
	}
	if err := ValidateIdentifier(l.GeometryColumn, "geometry column"); err != nil {
		return err
	}
	if _, err := ParseGeometryType(string(l.GeometryType)); err != nil {
		return err
	}
	if err := ValidateSrsID(l.SrsID); err != nil {
		return err
	}
	for _, c := range l.Columns {
		if err := c.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// LayerInfo is a registered layer as reported by the metadata registry.
// Extent is nil until the first successful bulk write records one.
type LayerInfo struct {
	Name           string
	GeometryColumn string
	GeometryType   GeometryType
	SrsID          int
	Identifier     string
	Description    string
	Extent         *Extent
}

// SrsEntry is one row of gpkg_spatial_ref_sys. ID may be negative or zero
// for the two "undefined" systems every GeoPackage carries.
type SrsEntry struct {
	Name           string
	ID             int
	Organization   string
	OrganizationID int
	Definition     string // WKT
	Description    string
}
