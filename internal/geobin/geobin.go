// Package geobin encodes and decodes the GeoPackage geometry blob format:
// an 8-byte header (magic "GP", version, flags, little-endian srs id), an
// optional bounding envelope, and a well-known-binary body.
//
// Writes always emit the fixed no-envelope header. Reads tolerate any
// envelope size so that files produced by other GeoPackage tools decode
// correctly; the envelope bytes are skipped, not reconstructed into a
// bounding box.
package geobin

import (
	"encoding/binary"
	"fmt"

	"github.com/mesh-intelligence/gpkg/pkg/types"
)

const (
	magic1  = 'G'
	magic2  = 'P'
	version = 0x00

	// headerSize is the fixed portion before any envelope.
	headerSize = 8
)

// envelopeSizes maps the 3-bit envelope indicator (flags bits 1-3) to the
// envelope byte count. Indicators above 3 are invalid.
var envelopeSizes = [4]int{0, 32, 48, 64}

// Encode wraps raw WKB bytes in a GeoPackage blob header carrying srsID.
// The header is always the 8-byte no-envelope, little-endian form.
func Encode(wkb []byte, srsID int32) []byte {
	blob := make([]byte, headerSize+len(wkb))
	blob[0] = magic1
	blob[1] = magic2
	blob[2] = version
	blob[3] = 0 // no envelope
	binary.LittleEndian.PutUint32(blob[4:8], uint32(srsID))
	copy(blob[headerSize:], wkb)
	return blob
}

// Decode splits a GeoPackage blob into its trailing WKB bytes and srs id.
// The envelope, when present, is skipped.
func Decode(blob []byte) (wkb []byte, srsID int32, err error) {
	if len(blob) < headerSize {
		return nil, 0, fmt.Errorf("%w: %d bytes, want at least %d",
			types.ErrMalformedBlob, len(blob), headerSize)
	}
	if blob[0] != magic1 || blob[1] != magic2 {
		return nil, 0, fmt.Errorf("%w: bad magic %q", types.ErrMalformedBlob, blob[0:2])
	}

	flags := blob[3]
	indicator := int(flags >> 1 & 0x07)
	if indicator >= len(envelopeSizes) {
		return nil, 0, fmt.Errorf("%w: envelope indicator %d", types.ErrMalformedBlob, indicator)
	}

	total := headerSize + envelopeSizes[indicator]
	if len(blob) < total {
		return nil, 0, fmt.Errorf("%w: %d bytes, header needs %d",
			types.ErrMalformedBlob, len(blob), total)
	}

	srsID = int32(binary.LittleEndian.Uint32(blob[4:8]))
	return blob[total:], srsID, nil
}
