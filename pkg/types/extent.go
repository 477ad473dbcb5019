package types

// ExtentBufferFloor is the minimum padding, in map units, applied to each
// axis when an extent is buffered. The floor keeps point-only layers
// (zero-width, zero-height extents) visible in downstream viewers.
const ExtentBufferFloor = 100.0

// Extent is an axis-aligned bounding box in layer coordinates.
type Extent struct {
	MinX float64
	MinY float64
	MaxX float64
	MaxY float64
}

// Expand grows the extent to cover (x, y).
func (e *Extent) Expand(x, y float64) {
	if x < e.MinX {
		e.MinX = x
	}
	if y < e.MinY {
		e.MinY = y
	}
	if x > e.MaxX {
		e.MaxX = x
	}
	if y > e.MaxY {
		e.MaxY = y
	}
}

// Buffered returns the extent padded independently on each axis by
// max(dimension * percent/100, ExtentBufferFloor).
func (e Extent) Buffered(percent float64) Extent {
	bx := (e.MaxX - e.MinX) * percent / 100
	if bx < ExtentBufferFloor {
		bx = ExtentBufferFloor
	}
	by := (e.MaxY - e.MinY) * percent / 100
	if by < ExtentBufferFloor {
		by = ExtentBufferFloor
	}
	return Extent{
		MinX: e.MinX - bx,
		MinY: e.MinY - by,
		MaxX: e.MaxX + bx,
		MaxY: e.MaxY + by,
	}
}
