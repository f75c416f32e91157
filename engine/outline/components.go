package outline

import (
	"github.com/Carmen-Shannon/oxy-outline/engine/renderer/pipeline"
	"github.com/cogentcore/webgpu/wgpu"
)

// OutlineVolume enables rendering an outline around a mesh.
type OutlineVolume struct {
	// Visible enables rendering of the outline.
	Visible bool
	// Width is the width of the outline in logical pixels.
	Width float32
	// Colour is the outline colour (RGBA, non-premultiplied).
	Colour [4]float32
}

// Transparent reports whether the outline colour requires alpha blending.
//
// Returns:
//   - bool: true if the colour's alpha is below one
func (v OutlineVolume) Transparent() bool {
	return v.Colour[3] < 1
}

// OutlineStencil masks a mesh's own silhouette out of outline rendering.
// Stencils both prevent an entity being covered by its own outline volume
// and let it occlude outlines behind it.
type OutlineStencil struct {
	// Enabled enables rendering of the stencil.
	Enabled bool
	// Offset shrinks or grows the stencil in logical pixels.
	Offset float32
}

// NewOutlineStencil returns the default stencil: enabled with no offset.
//
// Returns:
//   - OutlineStencil: the default stencil configuration
func NewOutlineStencil() OutlineStencil {
	return OutlineStencil{Enabled: true}
}

// Mode selects how an outline is drawn and depth-sorted.
type Mode int

const (
	// ModeExtrudeFlat extrudes vertices, flattened into a billboard. Default.
	ModeExtrudeFlat Mode = iota
	// ModeExtrudeFlatDoubleSided extrudes into a double-sided billboard.
	ModeExtrudeFlatDoubleSided
	// ModeExtrudeReal extrudes in real model-space.
	ModeExtrudeReal
	// ModeFloodFlat jump-floods into a billboard.
	ModeFloodFlat
	// ModeFloodFlatDoubleSided jump-floods into a double-sided billboard.
	ModeFloodFlatDoubleSided
)

// DepthMode returns the pipeline depth mode this outline mode draws with.
//
// Returns:
//   - pipeline.DepthMode: flat for billboard modes, real otherwise
func (m Mode) DepthMode() pipeline.DepthMode {
	if m == ModeExtrudeReal {
		return pipeline.DepthModeReal
	}
	return pipeline.DepthModeFlat
}

// DoubleSided reports whether the mode disables back-face culling.
//
// Returns:
//   - bool: true for the double-sided modes
func (m Mode) DoubleSided() bool {
	return m == ModeExtrudeFlatDoubleSided || m == ModeFloodFlatDoubleSided
}

// Flood reports whether the mode renders through the jump-flood path
// rather than vertex extrusion.
//
// Returns:
//   - bool: true for the flood modes
func (m Mode) Flood() bool {
	return m == ModeFloodFlat || m == ModeFloodFlatDoubleSided
}

// OutlinePlaneDepth controls the depth sorting of flat outlines and stencils.
//
// Flattening an outline into a plane avoids it being partially clipped by
// other outlines, but naive plane positioning can draw an outline behind the
// outline of an object it is actually in front of. The plane point in
// model-space is ModelPlaneOrigin plus ModelPlaneOffset multiplied by the
// model-space eye vector, so the plane can be moved towards or away from the
// camera in a view-independent manner.
type OutlinePlaneDepth struct {
	// ModelPlaneOrigin is the model-space point the outline plane passes
	// through, before the view-dependent offset is applied.
	ModelPlaneOrigin [3]float32
	// ModelPlaneOffset is added to the plane point, scaled by the
	// model-space eye vector.
	ModelPlaneOffset [3]float32
}

// OffsetZero reports whether the plane offset is exactly the zero vector.
//
// Returns:
//   - bool: true if no view-dependent offset applies
func (p OutlinePlaneDepth) OffsetZero() bool {
	return p.ModelPlaneOffset == [3]float32{}
}

// OutlineAlphaMask masks parts of a mesh out of outline generation.
//
// The mask is a UV-mapped texture; pixels whose sampled channel value falls
// below the threshold are treated as outside the shape. For extrusion modes
// the masked-off stencil area fills with the outline colour; for flood modes
// the masked-off area is outlined like a geometric boundary.
type OutlineAlphaMask struct {
	// Texture is the mask texture view, or nil for no mask.
	Texture *wgpu.TextureView
	// Channel is the texture channel sampled as the mask.
	Channel pipeline.Channel
	// Threshold is the value at or above which pixels count as inside.
	Threshold float32
}

// RenderLayers is a bitmask of the layers an outline or view belongs to.
// An outline renders in a view when their masks intersect. The zero value
// belongs to no layer; DefaultRenderLayers is layer zero.
type RenderLayers uint32

// DefaultRenderLayers is the layer entities and views belong to by default.
const DefaultRenderLayers RenderLayers = 1

// Intersects reports whether two layer masks share a layer.
//
// Parameters:
//   - other: the mask to test against
//
// Returns:
//   - bool: true if any layer is common to both
func (l RenderLayers) Intersects(other RenderLayers) bool {
	return l&other != 0
}

// OutlineWarmUp requests pre-compilation of outline pipeline variants.
//
// Animating a property that changes the required pipeline variant can make
// the outline briefly disappear while the new variant compiles. Warming up
// the variants in advance avoids the dropout.
type OutlineWarmUp struct {
	layers          RenderLayers
	disabledStencil bool
	disabledVolume  bool
	transparency    bool
	vertexOffsets   bool
}

// NewOutlineWarmUp returns a warm-up request for the default render layers
// covering only the variants the entity's current components need.
//
// Returns:
//   - OutlineWarmUp: the default warm-up configuration
func NewOutlineWarmUp() OutlineWarmUp {
	return OutlineWarmUp{layers: DefaultRenderLayers}
}

// WithLayers warms up variants for the given render layers.
//
// Parameters:
//   - layers: the layer mask to warm up for
//
// Returns:
//   - OutlineWarmUp: the updated configuration
func (w OutlineWarmUp) WithLayers(layers RenderLayers) OutlineWarmUp {
	w.layers = layers
	return w
}

// WithDisabledStencil also warms up the stencil variant while the stencil
// is disabled.
//
// Parameters:
//   - disabled: true to include the stencil variant regardless
//
// Returns:
//   - OutlineWarmUp: the updated configuration
func (w OutlineWarmUp) WithDisabledStencil(disabled bool) OutlineWarmUp {
	w.disabledStencil = disabled
	return w
}

// WithDisabledVolume also warms up the volume variant while the volume is
// not visible.
//
// Parameters:
//   - disabled: true to include the volume variant regardless
//
// Returns:
//   - OutlineWarmUp: the updated configuration
func (w OutlineWarmUp) WithDisabledVolume(disabled bool) OutlineWarmUp {
	w.disabledVolume = disabled
	return w
}

// WithTransparency warms up both the opaque and transparent volume variants.
//
// Parameters:
//   - transparency: true to include both blend variants
//
// Returns:
//   - OutlineWarmUp: the updated configuration
func (w OutlineWarmUp) WithTransparency(transparency bool) OutlineWarmUp {
	w.transparency = transparency
	return w
}

// WithVertexOffsets warms up both the zero and non-zero vertex offset
// variants of the volume and stencil pipelines.
//
// Parameters:
//   - vertexOffsets: true to include both offset variants
//
// Returns:
//   - OutlineWarmUp: the updated configuration
func (w OutlineWarmUp) WithVertexOffsets(vertexOffsets bool) OutlineWarmUp {
	w.vertexOffsets = vertexOffsets
	return w
}
