package common

// URect is a pixel-space rectangle with an inclusive minimum and exclusive
// maximum corner. It is used to scissor render passes to the region of the
// target they are allowed to touch.
type URect struct {
	// MinX and MinY are the inclusive top-left corner in pixels.
	MinX, MinY uint32
	// MaxX and MaxY are the exclusive bottom-right corner in pixels.
	MaxX, MaxY uint32
}

// NewURect creates a URect from its four edge coordinates.
//
// Parameters:
//   - minX, minY: the inclusive top-left corner in pixels
//   - maxX, maxY: the exclusive bottom-right corner in pixels
//
// Returns:
//   - URect: the rectangle
func NewURect(minX, minY, maxX, maxY uint32) URect {
	return URect{MinX: minX, MinY: minY, MaxX: maxX, MaxY: maxY}
}

// Width returns the horizontal extent of the rectangle in pixels.
//
// Returns:
//   - uint32: MaxX - MinX, or 0 if the rectangle is inverted
func (r URect) Width() uint32 {
	if r.MaxX <= r.MinX {
		return 0
	}
	return r.MaxX - r.MinX
}

// Height returns the vertical extent of the rectangle in pixels.
//
// Returns:
//   - uint32: MaxY - MinY, or 0 if the rectangle is inverted
func (r URect) Height() uint32 {
	if r.MaxY <= r.MinY {
		return 0
	}
	return r.MaxY - r.MinY
}

// Empty reports whether the rectangle covers no pixels.
//
// Returns:
//   - bool: true if the rectangle has zero width or height
func (r URect) Empty() bool {
	return r.MinX >= r.MaxX || r.MinY >= r.MaxY
}

// Union returns the smallest rectangle containing both r and o.
// If either rectangle is empty the other is returned unchanged.
//
// Parameters:
//   - o: the rectangle to merge with
//
// Returns:
//   - URect: the merged rectangle
func (r URect) Union(o URect) URect {
	if r.Empty() {
		return o
	}
	if o.Empty() {
		return r
	}
	return URect{
		MinX: min(r.MinX, o.MinX),
		MinY: min(r.MinY, o.MinY),
		MaxX: max(r.MaxX, o.MaxX),
		MaxY: max(r.MaxY, o.MaxY),
	}
}

// Intersect returns the overlap of r and o. The result is empty when the
// rectangles do not overlap.
//
// Parameters:
//   - o: the rectangle to intersect with
//
// Returns:
//   - URect: the overlapping region
func (r URect) Intersect(o URect) URect {
	out := URect{
		MinX: max(r.MinX, o.MinX),
		MinY: max(r.MinY, o.MinY),
		MaxX: min(r.MaxX, o.MaxX),
		MaxY: min(r.MaxY, o.MaxY),
	}
	if out.Empty() {
		return URect{}
	}
	return out
}

// Contains reports whether o lies entirely within r.
//
// Parameters:
//   - o: the rectangle to test
//
// Returns:
//   - bool: true if every pixel of o is inside r
func (r URect) Contains(o URect) bool {
	return o.MinX >= r.MinX && o.MinY >= r.MinY && o.MaxX <= r.MaxX && o.MaxY <= r.MaxY
}

// Viewport describes the region of a render target a camera draws into,
// in physical pixels.
type Viewport struct {
	// X and Y are the physical pixel position of the viewport's top-left corner.
	X, Y uint32
	// Width and Height are the physical pixel size of the viewport.
	Width, Height uint32
}

// Rect returns the viewport's extent as a URect.
//
// Returns:
//   - URect: the viewport rectangle in physical pixels
func (v Viewport) Rect() URect {
	return URect{MinX: v.X, MinY: v.Y, MaxX: v.X + v.Width, MaxY: v.Y + v.Height}
}
