package flood

import (
	"github.com/Carmen-Shannon/oxy-outline/common"
)

// MeshBounds carries the information needed to scissor the flood passes for
// one outlined mesh: its model-space bounding box and world transform.
type MeshBounds struct {
	// AABBMin and AABBMax are the corners of the mesh's model-space bounding box.
	AABBMin, AABBMax [3]float32
	// WorldFromLocal is the entity's world transform (16 elements, column-major).
	WorldFromLocal []float32
}

// ScreenSpaceBounds projects the bounding box into pixel coordinates and
// returns the smallest rectangle covering it, expanded by border pixels and
// clamped to the viewport. Corners that project outside the depth range are
// discarded; if every corner is discarded, or the projection collapses to a
// line or point, ok is false and the mesh produces no flood work this frame.
//
// Parameters:
//   - clipFromWorld: the view's combined projection matrix (16 elements, column-major)
//   - viewport: the view's target region in physical pixels
//   - border: extra pixels on every side, covering the outline width
//
// Returns:
//   - common.URect: the pixel-space bounds, offset by the viewport position
//   - bool: false if the mesh is off screen or degenerate
func (b MeshBounds) ScreenSpaceBounds(clipFromWorld []float32, viewport common.Viewport, border uint32) (common.URect, bool) {
	corners := [8][3]float32{
		{b.AABBMin[0], b.AABBMin[1], b.AABBMin[2]},
		{b.AABBMin[0], b.AABBMin[1], b.AABBMax[2]},
		{b.AABBMin[0], b.AABBMax[1], b.AABBMin[2]},
		{b.AABBMin[0], b.AABBMax[1], b.AABBMax[2]},
		{b.AABBMax[0], b.AABBMin[1], b.AABBMin[2]},
		{b.AABBMax[0], b.AABBMin[1], b.AABBMax[2]},
		{b.AABBMax[0], b.AABBMax[1], b.AABBMin[2]},
		{b.AABBMax[0], b.AABBMax[1], b.AABBMax[2]},
	}

	width := viewport.Width
	height := viewport.Height
	fw := float32(width)
	fh := float32(height)

	minX, minY := ^uint32(0), ^uint32(0)
	maxX, maxY := uint32(0), uint32(0)

	for _, c := range corners {
		world := common.TransformPoint3(b.WorldFromLocal, c[0], c[1], c[2])
		clip := common.ProjectPoint3(clipFromWorld, world[0], world[1], world[2])
		if clip[3] == 0 {
			continue
		}

		ndcX := clip[0] / clip[3]
		ndcY := clip[1] / clip[3]
		ndcZ := clip[2] / clip[3]
		if ndcZ < -1 || ndcZ > 1 {
			continue
		}

		sx := clampPixel((ndcX+1)*0.5*fw, width)
		sy := clampPixel((-ndcY+1)*0.5*fh, height)

		minX = min(minX, sx)
		minY = min(minY, sy)
		maxX = max(maxX, sx)
		maxY = max(maxY, sy)
	}

	if minX >= maxX || minY >= maxY {
		return common.URect{}, false
	}

	return common.URect{
		MinX: viewport.X + min(saturatingSub(minX, border), width),
		MinY: viewport.Y + min(saturatingSub(minY, border), height),
		MaxX: viewport.X + min(maxX+border, width),
		MaxY: viewport.Y + min(maxY+border, height),
	}, true
}

// clampPixel converts a floating-point pixel coordinate to an unsigned value
// clamped to [0, limit].
func clampPixel(v float32, limit uint32) uint32 {
	if v <= 0 {
		return 0
	}
	if p := uint32(v); p < limit {
		return p
	}
	return limit
}

func saturatingSub(a, b uint32) uint32 {
	if a < b {
		return 0
	}
	return a - b
}
