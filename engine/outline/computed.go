package outline

import (
	"github.com/Carmen-Shannon/oxy-outline/engine/renderer/pipeline"
	"github.com/cogentcore/webgpu/wgpu"
)

// ComputedOutline is the fully resolved outline state for one entity: every
// optional component filled in with its default where absent.
type ComputedOutline struct {
	Volume     OutlineVolume
	Stencil    OutlineStencil
	Mode       Mode
	PlaneDepth OutlinePlaneDepth
	AlphaMask  OutlineAlphaMask
	Layers     RenderLayers
}

// NewComputedOutline returns the resolved state for an entity that carries
// only an OutlineVolume: default stencil, default mode, default layers.
//
// Parameters:
//   - volume: the entity's outline volume
//
// Returns:
//   - ComputedOutline: the resolved state
func NewComputedOutline(volume OutlineVolume) ComputedOutline {
	return ComputedOutline{
		Volume:  volume,
		Stencil: NewOutlineStencil(),
		Layers:  DefaultRenderLayers,
	}
}

// EntityKey derives the per-entity pipeline parameters from the resolved
// outline state and the mesh it applies to.
//
// Parameters:
//   - topology: the mesh's primitive topology
//   - morphTargets: true if the mesh carries morph targets
//
// Returns:
//   - pipeline.EntityKey: the entity half of the pipeline key
func (c ComputedOutline) EntityKey(topology wgpu.PrimitiveTopology, morphTargets bool) pipeline.EntityKey {
	// A plane offset only matters for flat depth; real-depth variants collapse
	// onto the zero-offset pipeline.
	planeOffsetZero := c.Mode.DepthMode() != pipeline.DepthModeFlat || c.PlaneDepth.OffsetZero()

	return pipeline.NewEntityKey().
		WithPrimitiveTopology(topology).
		WithMorphTargets(morphTargets).
		WithDepthMode(c.Mode.DepthMode()).
		WithTransparent(c.Volume.Transparent()).
		WithVertexOffsetZero(c.Volume.Width == 0).
		WithStencilVertexOffsetZero(c.Stencil.Offset == 0).
		WithPlaneOffsetZero(planeOffsetZero).
		WithDoubleSided(c.Mode.DoubleSided()).
		WithAlphaMaskTexture(c.AlphaMask.Texture != nil).
		WithAlphaMaskChannel(c.AlphaMask.Channel)
}

// PassTypes returns the render passes the resolved state needs this frame.
//
// Returns:
//   - []pipeline.PassType: the stencil pass if enabled, then the volume or
//     flood-init pass if the volume is visible
func (c ComputedOutline) PassTypes() []pipeline.PassType {
	var passes []pipeline.PassType
	if c.Stencil.Enabled {
		passes = append(passes, pipeline.PassTypeStencil)
	}
	if c.Volume.Visible {
		if c.Mode.Flood() {
			passes = append(passes, pipeline.PassTypeFloodInit)
		} else {
			passes = append(passes, pipeline.PassTypeVolume)
		}
	}
	return passes
}
