package pipeline

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

// PassType identifies which outline render pass a pipeline variant serves.
type PassType uint32

const (
	// PassTypeStencil draws the un-extruded mesh to mask the outline interior.
	PassTypeStencil PassType = 1
	// PassTypeVolume draws the extruded outline volume.
	PassTypeVolume PassType = 2
	// PassTypeFloodInit seeds the jump-flood distance texture with mesh fragments.
	PassTypeFloodInit PassType = 3
)

// DepthMode selects how outline fragments derive their depth value.
type DepthMode uint32

const (
	// DepthModeFlat projects all fragments onto a configurable world-space plane.
	DepthModeFlat DepthMode = 1
	// DepthModeReal uses the mesh's own depth.
	DepthModeReal DepthMode = 2
)

// Channel selects which component of an alpha-mask texture is sampled.
type Channel uint32

const (
	ChannelR Channel = 0
	ChannelG Channel = 1
	ChannelB Channel = 2
	ChannelA Channel = 3
)

// Key is a bit-packed description of one pipeline variant. Every parameter
// that changes the compiled pipeline is folded into the packed value, so
// value equality on Key is variant identity and Key is directly usable as a
// map key.
//
// Bit layout (low to high):
//
//	0..2   MSAA sample count minus one
//	3      HDR colour target format
//	8..10  primitive topology
//	11     morph targets present
//	16..17 depth mode
//	18     transparent (colour alpha < 1)
//	19     volume vertex offset is zero
//	20     stencil vertex offset is zero
//	21     depth plane offset is zero
//	22     double sided
//	23     alpha mask texture present
//	24..25 alpha mask channel
//	30..31 pass type
type Key uint32

const (
	msaaShift         = 0
	msaaMask          = 0x7
	hdrFormatBit      = 1 << 3
	topologyShift     = 8
	topologyMask      = 0x7
	morphTargetsBit   = 1 << 11
	depthModeShift    = 16
	depthModeMask     = 0x3
	transparentBit    = 1 << 18
	vertexOffsetBit   = 1 << 19
	stencilOffsetBit  = 1 << 20
	planeOffsetBit    = 1 << 21
	doubleSidedBit    = 1 << 22
	alphaMaskBit      = 1 << 23
	alphaChannelShift = 24
	alphaChannelMask  = 0x3
	passTypeShift     = 30
	passTypeMask      = 0x3
)

func (k Key) withBit(bit Key, set bool) Key {
	if set {
		return k | bit
	}
	return k &^ bit
}

func (k Key) withField(shift, mask uint32, value uint32) Key {
	return (k &^ Key(mask<<shift)) | Key((value&mask)<<shift)
}

func (k Key) field(shift, mask uint32) uint32 {
	return (uint32(k) >> shift) & mask
}

// MsaaSamples returns the MSAA sample count encoded in the key.
// Panics if the stored value is not a supported sample count; the encoders
// only produce valid values, so an invalid one is a programming error.
//
// Returns:
//   - uint32: the sample count (1, 2, 4 or 8)
func (k Key) MsaaSamples() uint32 {
	switch n := k.field(msaaShift, msaaMask) + 1; n {
	case 1, 2, 4, 8:
		return n
	default:
		panic(fmt.Sprintf("pipeline: invalid MSAA sample count in key: %d", n))
	}
}

// HdrFormat reports whether the colour target uses an HDR format.
func (k Key) HdrFormat() bool { return k&hdrFormatBit != 0 }

// PrimitiveTopology returns the mesh topology encoded in the key.
// Panics on an out-of-range ordinal (programming error).
//
// Returns:
//   - wgpu.PrimitiveTopology: the topology for the mesh being outlined
func (k Key) PrimitiveTopology() wgpu.PrimitiveTopology {
	switch t := wgpu.PrimitiveTopology(k.field(topologyShift, topologyMask)); t {
	case wgpu.PrimitiveTopologyPointList,
		wgpu.PrimitiveTopologyLineList,
		wgpu.PrimitiveTopologyLineStrip,
		wgpu.PrimitiveTopologyTriangleList,
		wgpu.PrimitiveTopologyTriangleStrip:
		return t
	default:
		panic(fmt.Sprintf("pipeline: invalid primitive topology in key: %d", t))
	}
}

// MorphTargets reports whether the mesh carries morph targets.
func (k Key) MorphTargets() bool { return k&morphTargetsBit != 0 }

// DepthMode returns the depth mode encoded in the key.
// Panics on an out-of-range ordinal (programming error).
//
// Returns:
//   - DepthMode: DepthModeFlat or DepthModeReal
func (k Key) DepthMode() DepthMode {
	switch m := DepthMode(k.field(depthModeShift, depthModeMask)); m {
	case DepthModeFlat, DepthModeReal:
		return m
	default:
		panic(fmt.Sprintf("pipeline: invalid depth mode in key: %d", m))
	}
}

// Transparent reports whether the outline colour requires alpha blending.
func (k Key) Transparent() bool { return k&transparentBit != 0 }

// VertexOffsetZero reports whether the volume vertex offset is exactly zero.
func (k Key) VertexOffsetZero() bool { return k&vertexOffsetBit != 0 }

// StencilVertexOffsetZero reports whether the stencil vertex offset is exactly zero.
func (k Key) StencilVertexOffsetZero() bool { return k&stencilOffsetBit != 0 }

// PlaneOffsetZero reports whether the flat-depth plane offset is exactly zero.
func (k Key) PlaneOffsetZero() bool { return k&planeOffsetBit != 0 }

// DoubleSided reports whether back-face culling must be disabled.
func (k Key) DoubleSided() bool { return k&doubleSidedBit != 0 }

// AlphaMaskTexture reports whether an alpha-mask texture is bound.
func (k Key) AlphaMaskTexture() bool { return k&alphaMaskBit != 0 }

// AlphaMaskChannel returns the alpha-mask texture channel encoded in the key.
// All four two-bit ordinals are valid channels, so this never panics.
//
// Returns:
//   - Channel: the channel sampled from the alpha-mask texture
func (k Key) AlphaMaskChannel() Channel {
	return Channel(k.field(alphaChannelShift, alphaChannelMask))
}

// PassType returns the pass type encoded in the key.
// Panics on an out-of-range ordinal (programming error); keys built by the
// view/entity encoders carry no pass type until DeriveKey stamps one.
//
// Returns:
//   - PassType: PassTypeStencil, PassTypeVolume or PassTypeFloodInit
func (k Key) PassType() PassType {
	switch p := PassType(k.field(passTypeShift, passTypeMask)); p {
	case PassTypeStencil, PassTypeVolume, PassTypeFloodInit:
		return p
	default:
		panic(fmt.Sprintf("pipeline: invalid pass type in key: %d", p))
	}
}

func (k Key) withPassType(p PassType) Key {
	return k.withField(passTypeShift, passTypeMask, uint32(p))
}

// ViewKey packs the per-view pipeline parameters: everything that depends on
// the camera's render target rather than on any one outlined mesh.
type ViewKey Key

// NewViewKey creates an empty per-view key.
//
// Returns:
//   - ViewKey: a key with every field zeroed (1 MSAA sample, LDR)
func NewViewKey() ViewKey { return 0 }

// WithMsaaSamples returns a copy of the key with the MSAA sample count set.
// The count is stored as count-1 so that the zero key means a single sample.
//
// Parameters:
//   - samples: the sample count (1, 2, 4 or 8)
//
// Returns:
//   - ViewKey: the updated key
func (k ViewKey) WithMsaaSamples(samples uint32) ViewKey {
	return ViewKey(Key(k).withField(msaaShift, msaaMask, samples-1))
}

// WithHdrFormat returns a copy of the key with the HDR format flag set.
//
// Parameters:
//   - hdr: true if the view's colour target uses an HDR format
//
// Returns:
//   - ViewKey: the updated key
func (k ViewKey) WithHdrFormat(hdr bool) ViewKey {
	return ViewKey(Key(k).withBit(hdrFormatBit, hdr))
}

// EntityKey packs the per-entity pipeline parameters derived from one
// outlined mesh and its outline components.
type EntityKey Key

// NewEntityKey creates an empty per-entity key.
//
// Returns:
//   - EntityKey: a key with every field zeroed
func NewEntityKey() EntityKey { return 0 }

// WithPrimitiveTopology returns a copy of the key with the mesh topology set.
//
// Parameters:
//   - t: the mesh's primitive topology
//
// Returns:
//   - EntityKey: the updated key
func (k EntityKey) WithPrimitiveTopology(t wgpu.PrimitiveTopology) EntityKey {
	return EntityKey(Key(k).withField(topologyShift, topologyMask, uint32(t)))
}

// WithMorphTargets returns a copy of the key with the morph-targets flag set.
//
// Parameters:
//   - morph: true if the mesh carries morph targets
//
// Returns:
//   - EntityKey: the updated key
func (k EntityKey) WithMorphTargets(morph bool) EntityKey {
	return EntityKey(Key(k).withBit(morphTargetsBit, morph))
}

// WithDepthMode returns a copy of the key with the depth mode set.
//
// Parameters:
//   - m: DepthModeFlat or DepthModeReal
//
// Returns:
//   - EntityKey: the updated key
func (k EntityKey) WithDepthMode(m DepthMode) EntityKey {
	return EntityKey(Key(k).withField(depthModeShift, depthModeMask, uint32(m)))
}

// WithTransparent returns a copy of the key with the transparency flag set.
//
// Parameters:
//   - transparent: true if the outline colour's alpha is below one
//
// Returns:
//   - EntityKey: the updated key
func (k EntityKey) WithTransparent(transparent bool) EntityKey {
	return EntityKey(Key(k).withBit(transparentBit, transparent))
}

// WithVertexOffsetZero returns a copy of the key with the zero-volume-offset flag set.
//
// Parameters:
//   - zero: true if the volume vertex offset is exactly zero
//
// Returns:
//   - EntityKey: the updated key
func (k EntityKey) WithVertexOffsetZero(zero bool) EntityKey {
	return EntityKey(Key(k).withBit(vertexOffsetBit, zero))
}

// WithStencilVertexOffsetZero returns a copy of the key with the zero-stencil-offset flag set.
//
// Parameters:
//   - zero: true if the stencil vertex offset is exactly zero
//
// Returns:
//   - EntityKey: the updated key
func (k EntityKey) WithStencilVertexOffsetZero(zero bool) EntityKey {
	return EntityKey(Key(k).withBit(stencilOffsetBit, zero))
}

// WithPlaneOffsetZero returns a copy of the key with the zero-plane-offset flag set.
//
// Parameters:
//   - zero: true if the flat-depth plane offset is the zero vector
//
// Returns:
//   - EntityKey: the updated key
func (k EntityKey) WithPlaneOffsetZero(zero bool) EntityKey {
	return EntityKey(Key(k).withBit(planeOffsetBit, zero))
}

// WithDoubleSided returns a copy of the key with the double-sided flag set.
//
// Parameters:
//   - doubleSided: true if back-face culling must be disabled
//
// Returns:
//   - EntityKey: the updated key
func (k EntityKey) WithDoubleSided(doubleSided bool) EntityKey {
	return EntityKey(Key(k).withBit(doubleSidedBit, doubleSided))
}

// WithAlphaMaskTexture returns a copy of the key with the alpha-mask flag set.
//
// Parameters:
//   - masked: true if an alpha-mask texture is bound
//
// Returns:
//   - EntityKey: the updated key
func (k EntityKey) WithAlphaMaskTexture(masked bool) EntityKey {
	return EntityKey(Key(k).withBit(alphaMaskBit, masked))
}

// WithAlphaMaskChannel returns a copy of the key with the alpha-mask channel set.
//
// Parameters:
//   - c: the channel sampled from the alpha-mask texture
//
// Returns:
//   - EntityKey: the updated key
func (k EntityKey) WithAlphaMaskChannel(c Channel) EntityKey {
	return EntityKey(Key(k).withField(alphaChannelShift, alphaChannelMask, uint32(c)))
}

// StencilVertexOffsetZero reports whether the stencil vertex offset is exactly zero.
func (k EntityKey) StencilVertexOffsetZero() bool { return Key(k).StencilVertexOffsetZero() }

// DerivedKey is the canonical key a pipeline is compiled and cached under.
// It is produced by DeriveKey, which masks out every field the given pass
// type does not depend on, so that equivalent variants share one pipeline.
type DerivedKey Key

// DeriveKey combines a view key and an entity key into the canonical key for
// one pass type. Fields irrelevant to the pass are cleared before the two
// halves are merged:
//
//   - Stencil: the stencil pass writes no colour, so the HDR and transparency
//     flags are cleared; the stencil offset replaces the volume offset as the
//     pass's vertex offset.
//   - Volume: alpha masking only applies to flood seeding, so the alpha-mask
//     fields are cleared.
//   - FloodInit: the seed pass renders into a fixed-format distance texture
//     with no MSAA, no depth and no vertex offsets, so the view half is
//     dropped entirely and the offset flags are forced to zero-offset.
//
// Parameters:
//   - viewKey: the per-view parameters
//   - entityKey: the per-entity parameters
//   - passType: the pass this pipeline serves
//
// Returns:
//   - DerivedKey: the canonical cache key, with the pass type stamped in
func DeriveKey(viewKey ViewKey, entityKey EntityKey, passType PassType) DerivedKey {
	var merged Key
	switch passType {
	case PassTypeStencil:
		merged = Key(viewKey.WithHdrFormat(false)) |
			Key(entityKey.
				WithTransparent(false).
				WithVertexOffsetZero(entityKey.StencilVertexOffsetZero()).
				WithStencilVertexOffsetZero(false))
	case PassTypeVolume:
		merged = Key(viewKey) |
			Key(entityKey.
				WithAlphaMaskTexture(false).
				WithAlphaMaskChannel(ChannelA).
				WithStencilVertexOffsetZero(false))
	case PassTypeFloodInit:
		merged = Key(entityKey.
			WithTransparent(false).
			WithVertexOffsetZero(true).
			WithStencilVertexOffsetZero(false).
			WithPlaneOffsetZero(true))
	default:
		panic(fmt.Sprintf("pipeline: invalid pass type: %d", passType))
	}
	return DerivedKey(merged.withPassType(passType))
}
