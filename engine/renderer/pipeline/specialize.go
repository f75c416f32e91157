package pipeline

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

// Texture formats shared by the specializer and the render passes.
const (
	// FormatLdrColor is the default low-dynamic-range colour target format.
	FormatLdrColor = wgpu.TextureFormatBGRA8UnormSrgb
	// FormatHdrColor is the colour target format for HDR views.
	FormatHdrColor = wgpu.TextureFormatRGBA16Float
	// FormatFlood is the format of the jump-flood distance textures. Each
	// texel stores a seed pixel position (or the off-seed sentinel) with
	// enough precision for screen-sized coordinates.
	FormatFlood = wgpu.TextureFormatRGBA16Float
	// FormatDepth is the depth buffer format for the stencil and volume passes.
	FormatDepth = wgpu.TextureFormatDepth32Float
)

// Shader locations the outline vertex stage expects attributes at.
const (
	locationPosition = 0
	locationNormal   = 1
	locationUV       = 2
)

// Descriptor is the backend-agnostic result of specializing a pipeline key
// against a mesh layout. It carries everything the GPU backend needs to
// compile a render pipeline, plus the shader defines selecting the variant's
// code paths.
type Descriptor struct {
	// Label names the pipeline for debugging tools.
	Label string
	// VertexDefs and FragmentDefs select conditional code in the shader
	// sources. Entries are either flags ("VOLUME") or values ("ALPHA_MASK_CHANNEL=2").
	VertexDefs   []string
	FragmentDefs []string
	// VertexBuffer is the mesh attribute subset this variant reads.
	VertexBuffer wgpu.VertexBufferLayout
	// Topology and CullMode configure the primitive state.
	Topology wgpu.PrimitiveTopology
	CullMode wgpu.CullMode
	// ColorTarget describes the colour attachment. Nil for the stencil pass,
	// which writes depth only.
	ColorTarget *wgpu.ColorTargetState
	// DepthStencil describes the depth attachment. Nil for the flood seed
	// pass, which renders into the distance texture with no depth buffer.
	DepthStencil *wgpu.DepthStencilState
	// MsaaSamples is the multisample count of the pass's attachments.
	MsaaSamples uint32
}

// blendReplace overwrites the destination, ignoring alpha.
var blendReplace = wgpu.BlendState{
	Color: wgpu.BlendComponent{
		SrcFactor: wgpu.BlendFactorOne,
		DstFactor: wgpu.BlendFactorZero,
		Operation: wgpu.BlendOperationAdd,
	},
	Alpha: wgpu.BlendComponent{
		SrcFactor: wgpu.BlendFactorOne,
		DstFactor: wgpu.BlendFactorZero,
		Operation: wgpu.BlendOperationAdd,
	},
}

// blendAlpha is standard source-over alpha blending.
var blendAlpha = wgpu.BlendState{
	Color: wgpu.BlendComponent{
		SrcFactor: wgpu.BlendFactorSrcAlpha,
		DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
		Operation: wgpu.BlendOperationAdd,
	},
	Alpha: wgpu.BlendComponent{
		SrcFactor: wgpu.BlendFactorOne,
		DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
		Operation: wgpu.BlendOperationAdd,
	},
}

// Specialize synthesizes the pipeline descriptor for one derived key and mesh
// layout. The mapping from key fields to pipeline state is pure: the same key
// and layout always produce the same descriptor.
//
// Returns an error wrapping ErrMissingAttribute when the variant needs a
// vertex attribute the mesh does not provide (a mesh without normals cannot
// be extruded); callers drop the draw for the frame.
//
// Parameters:
//   - key: the canonical pipeline key produced by DeriveKey
//   - layout: the mesh's vertex buffer layout
//
// Returns:
//   - *Descriptor: the synthesized pipeline descriptor
//   - error: non-nil if a required vertex attribute is missing
func Specialize(key DerivedKey, layout MeshLayout) (*Descriptor, error) {
	k := Key(key)
	d := &Descriptor{
		Label:       fmt.Sprintf("outline_pipeline_%08x", uint32(k)),
		Topology:    k.PrimitiveTopology(),
		MsaaSamples: k.MsaaSamples(),
	}

	requests := []attributeRequest{{AttributePosition, locationPosition}}

	if k.MorphTargets() {
		d.VertexDefs = append(d.VertexDefs, "MORPH_TARGETS")
	}

	if k.AlphaMaskTexture() {
		d.VertexDefs = append(d.VertexDefs, "ALPHA_MASK_TEXTURE")
		d.FragmentDefs = append(d.FragmentDefs,
			"ALPHA_MASK_TEXTURE",
			fmt.Sprintf("ALPHA_MASK_CHANNEL=%d", k.AlphaMaskChannel()))
		requests = append(requests, attributeRequest{AttributeUV, locationUV})
	}

	if k.DepthMode() == DepthModeFlat {
		d.VertexDefs = append(d.VertexDefs, "FLAT_DEPTH")
		d.FragmentDefs = append(d.FragmentDefs, "FLAT_DEPTH")
		if k.DoubleSided() {
			d.CullMode = wgpu.CullModeNone
		} else {
			d.CullMode = wgpu.CullModeBack
		}
	} else if k.PassType() == PassTypeStencil {
		d.CullMode = wgpu.CullModeBack
	} else {
		d.CullMode = wgpu.CullModeFront
	}

	if k.VertexOffsetZero() {
		d.VertexDefs = append(d.VertexDefs, "VERTEX_OFFSET_ZERO")
	} else {
		normal := AttributeNormal
		if layout.Contains(AttributeOutlineNormal) {
			normal = AttributeOutlineNormal
		}
		requests = append(requests, attributeRequest{normal, locationNormal})
	}

	if k.PlaneOffsetZero() {
		d.VertexDefs = append(d.VertexDefs, "PLANE_OFFSET_ZERO")
	}

	switch k.PassType() {
	case PassTypeStencil:
		// Depth only, no colour target. The fragment stage exists solely for
		// alpha-mask discard.
		d.VertexDefs = append(d.VertexDefs, "STENCIL")
		d.FragmentDefs = append(d.FragmentDefs, "STENCIL")
	case PassTypeVolume:
		d.VertexDefs = append(d.VertexDefs, "VOLUME")
		d.FragmentDefs = append(d.FragmentDefs, "VOLUME")
		format := FormatLdrColor
		if k.HdrFormat() {
			format = FormatHdrColor
		}
		blend := blendReplace
		if k.Transparent() {
			blend = blendAlpha
		}
		d.ColorTarget = &wgpu.ColorTargetState{
			Format:    format,
			Blend:     &blend,
			WriteMask: wgpu.ColorWriteMaskAll,
		}
	case PassTypeFloodInit:
		d.VertexDefs = append(d.VertexDefs, "FLOOD_INIT")
		d.FragmentDefs = append(d.FragmentDefs, "FLOOD_INIT")
		blend := blendReplace
		d.ColorTarget = &wgpu.ColorTargetState{
			Format:    FormatFlood,
			Blend:     &blend,
			WriteMask: wgpu.ColorWriteMaskAll,
		}
	}

	switch k.PassType() {
	case PassTypeStencil, PassTypeVolume:
		// Reversed depth: greater passes, nearer fragments win.
		d.DepthStencil = &wgpu.DepthStencilState{
			Format:            FormatDepth,
			DepthWriteEnabled: true,
			DepthCompare:      wgpu.CompareFunctionGreater,
			StencilFront: wgpu.StencilFaceState{
				Compare: wgpu.CompareFunctionAlways,
			},
			StencilBack: wgpu.StencilFaceState{
				Compare: wgpu.CompareFunctionAlways,
			},
		}
	case PassTypeFloodInit:
		// The seed pass carries pixel positions, not depth.
	}

	buffer, err := layout.bufferLayout(requests)
	if err != nil {
		return nil, err
	}
	d.VertexBuffer = buffer

	return d, nil
}
