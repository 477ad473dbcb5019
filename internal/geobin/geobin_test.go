package geobin

import (
	"encoding/binary"
	"testing"

	"github.com/go-spatial/geom"
	"github.com/go-spatial/geom/encoding/wkb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/gpkg/pkg/types"
)

func pointWKB(t *testing.T, x, y float64) []byte {
	t.Helper()
	b, err := wkb.EncodeBytes(geom.Point{x, y})
	require.NoError(t, err)
	return b
}

func TestEncodeHeader(t *testing.T) {
	body := pointWKB(t, 10, 20)
	blob := Encode(body, 4326)

	require.GreaterOrEqual(t, len(blob), 8)
	assert.Equal(t, byte('G'), blob[0])
	assert.Equal(t, byte('P'), blob[1])
	assert.Equal(t, byte(0x00), blob[2], "version")
	assert.Equal(t, byte(0x00), blob[3], "flags: no envelope")
	assert.Equal(t, uint32(4326), binary.LittleEndian.Uint32(blob[4:8]))
	assert.Equal(t, body, blob[8:])
}

func TestRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		geo   geom.Geometry
		srsID int32
	}{
		{"point wgs84", geom.Point{17.6389, 59.8586}, 4326},
		{"point sweref", geom.Point{647421.0, 6638073.0}, 3006},
		{"point undefined cartesian", geom.Point{0, 0}, -1},
		{"linestring", geom.LineString{{0, 0}, {10, 10}, {20, 5}}, 4326},
		{"polygon", geom.Polygon{{{0, 0}, {10, 0}, {10, 10}, {0, 10}, {0, 0}}}, 3006},
		{"multipoint", geom.MultiPoint{{1, 2}, {3, 4}}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, err := wkb.EncodeBytes(tt.geo)
			require.NoError(t, err)

			gotWKB, gotSrs, err := Decode(Encode(body, tt.srsID))
			require.NoError(t, err)
			assert.Equal(t, body, gotWKB)
			assert.Equal(t, tt.srsID, gotSrs)
		})
	}
}

func TestDecodeSkipsEnvelope(t *testing.T) {
	body := pointWKB(t, 5, 6)

	// Hand-built blob with envelope indicator 1 (32 envelope bytes).
	// Envelope content is arbitrary; decode must ignore it entirely.
	blob := []byte{'G', 'P', 0x00, 0x02}
	blob = append(blob, 0x10, 0x27, 0x00, 0x00) // srs id 10000, little-endian
	for i := 0; i < 32; i++ {
		blob = append(blob, byte(i*7))
	}
	blob = append(blob, body...)

	gotWKB, gotSrs, err := Decode(blob)
	require.NoError(t, err)
	assert.Equal(t, body, gotWKB)
	assert.Equal(t, int32(10000), gotSrs)
}

func TestDecodeEnvelopeSizes(t *testing.T) {
	tests := []struct {
		name      string
		indicator byte
		envBytes  int
	}{
		{"no envelope", 0, 0},
		{"xy envelope", 1, 32},
		{"xyz envelope", 2, 48},
		{"xym envelope", 3, 64},
	}

	body := pointWKB(t, 1, 1)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			blob := []byte{'G', 'P', 0x00, tt.indicator << 1, 0, 0, 0, 0}
			blob = append(blob, make([]byte, tt.envBytes)...)
			blob = append(blob, body...)

			gotWKB, _, err := Decode(blob)
			require.NoError(t, err)
			assert.Equal(t, body, gotWKB)
		})
	}
}

func TestDecodeMalformed(t *testing.T) {
	tests := []struct {
		name string
		blob []byte
	}{
		{"empty", nil},
		{"short", []byte{'G', 'P', 0x00}},
		{"seven bytes", []byte{'G', 'P', 0, 0, 0, 0, 0}},
		{"bad magic", []byte{'X', 'Y', 0, 0, 0, 0, 0, 0}},
		{"envelope indicator 4", []byte{'G', 'P', 0x00, 4 << 1, 0, 0, 0, 0}},
		{"envelope indicator 7", []byte{'G', 'P', 0x00, 7 << 1, 0, 0, 0, 0}},
		{"truncated envelope", append([]byte{'G', 'P', 0x00, 1 << 1, 0, 0, 0, 0}, make([]byte, 16)...)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Decode(tt.blob)
			assert.ErrorIs(t, err, types.ErrMalformedBlob)
		})
	}
}

func TestDecodeEmptyBody(t *testing.T) {
	// A header with no WKB body decodes to an empty body, not an error;
	// WKB parsing is the geometry library's concern.
	gotWKB, gotSrs, err := Decode(Encode(nil, 7))
	require.NoError(t, err)
	assert.Empty(t, gotWKB)
	assert.Equal(t, int32(7), gotSrs)
}
