package flood

import (
	"github.com/Carmen-Shannon/oxy-outline/common"
)

// Byte sizes of the uniform structs, for buffer and binding declarations.
const (
	ViewUniformSize     = 80
	InstanceUniformSize = 112
	ComposeUniformSize  = 32
)

// ViewUniform is the GPU-aligned per-view uniform shared by the outline
// passes. Matches the WGSL OutlineViewUniform struct layout exactly.
// Size: 80 bytes (WGSL uniform aligned).
type ViewUniform struct {
	// ClipFromWorld is the view's combined projection matrix, column-major.
	ClipFromWorld [16]float32
	// Scale converts pixel offsets to clip space: 2 / viewport size.
	Scale [2]float32

	_pad [2]float32
}

// NewViewUniform builds the per-view uniform from the view parameters.
//
// Parameters:
//   - clipFromWorld: the combined projection matrix (16 elements, column-major)
//   - viewport: the view's target region in physical pixels
//
// Returns:
//   - ViewUniform: the uniform value ready for upload
func NewViewUniform(clipFromWorld []float32, viewport common.Viewport) ViewUniform {
	var u ViewUniform
	copy(u.ClipFromWorld[:], clipFromWorld)
	u.Scale = [2]float32{
		2 / float32(viewport.Width),
		2 / float32(viewport.Height),
	}
	return u
}

// Bytes returns the uniform's GPU byte representation.
//
// Returns:
//   - []byte: the raw bytes, valid while the receiver is reachable
func (u *ViewUniform) Bytes() []byte {
	return common.StructToBytes(u)
}

// InstanceUniform is the GPU-aligned per-entity uniform for the stencil,
// volume and flood seed passes. Matches the WGSL OutlineInstanceUniform
// struct layout exactly. Size: 112 bytes (WGSL uniform aligned).
//
// The world transform is stored as the first three rows of the transposed
// affine matrix; the fourth row is implicitly (0, 0, 0, 1). Scalar offsets
// pack into the vec3 padding slots.
type InstanceUniform struct {
	// WorldFromLocal is rows 0..2 of the transposed world transform, each a vec4.
	WorldFromLocal [12]float32
	// WorldPlaneOrigin is the flat-depth plane point in world space.
	WorldPlaneOrigin [3]float32
	// VolumeOffset is the outline width in logical pixels.
	VolumeOffset float32
	// WorldPlaneOffset is the view-dependent plane offset in world space.
	WorldPlaneOffset [3]float32
	// StencilOffset is the stencil shrink/grow in logical pixels.
	StencilOffset float32
	// VolumeColour is the outline colour (RGBA, non-premultiplied).
	VolumeColour [4]float32
	// AlphaMaskThreshold is the alpha-mask cutoff value.
	AlphaMaskThreshold float32
	// FirstVertexIndex is the mesh's base vertex, for morph target lookups.
	FirstVertexIndex uint32

	_pad [2]float32
}

// SetWorldFromLocal packs a 16-element column-major world transform into the
// uniform's transposed three-row representation.
//
// Parameters:
//   - m: the world transform (16 elements, column-major)
func (u *InstanceUniform) SetWorldFromLocal(m []float32) {
	for row := 0; row < 3; row++ {
		for col := 0; col < 4; col++ {
			u.WorldFromLocal[row*4+col] = m[col*4+row]
		}
	}
}

// Bytes returns the uniform's GPU byte representation.
//
// Returns:
//   - []byte: the raw bytes, valid while the receiver is reachable
func (u *InstanceUniform) Bytes() []byte {
	return common.StructToBytes(u)
}

// ComposeUniform is the GPU-aligned uniform for the flood composite pass.
// Matches the WGSL ComposeUniform struct layout exactly. Size: 32 bytes.
type ComposeUniform struct {
	// VolumeColour is the group's outline colour (RGBA, non-premultiplied).
	VolumeColour [4]float32
	// VolumeOffset is the group's outline width in physical pixels.
	VolumeOffset float32

	_pad [3]float32
}

// NewComposeUniform builds the composite uniform for one flood group.
//
// Parameters:
//   - group: the flood group supplying width and colour
//   - scale: the physical-to-logical pixel ratio
//
// Returns:
//   - ComposeUniform: the uniform value ready for upload
func NewComposeUniform(group *Group, scale float32) ComposeUniform {
	return ComposeUniform{
		VolumeColour: group.Colour,
		VolumeOffset: ScaledOffset(group.Width, scale),
	}
}

// Bytes returns the uniform's GPU byte representation.
//
// Returns:
//   - []byte: the raw bytes, valid while the receiver is reachable
func (u *ComposeUniform) Bytes() []byte {
	return common.StructToBytes(u)
}
