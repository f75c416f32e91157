package outline

import (
	"github.com/Carmen-Shannon/oxy-outline/engine/renderer/pipeline"
	"github.com/cogentcore/webgpu/wgpu"
)

// Layers returns the render layer mask this warm-up targets.
//
// Returns:
//   - RenderLayers: the layer mask
func (w OutlineWarmUp) Layers() RenderLayers {
	return w.layers
}

// DerivedKeys enumerates the canonical pipeline keys the warm-up covers for
// one view, so they can be specialized before the variants are first drawn.
// Canonicalization collapses many requested combinations onto the same
// pipeline; duplicates are removed and the order is deterministic.
//
// Parameters:
//   - c: the entity's resolved outline state
//   - view: the view half of the pipeline key
//   - topology: the mesh's primitive topology
//   - morphTargets: true if the mesh carries morph targets
//
// Returns:
//   - []pipeline.DerivedKey: the distinct keys to pre-compile
func (w OutlineWarmUp) DerivedKeys(c ComputedOutline, view pipeline.ViewKey, topology wgpu.PrimitiveTopology, morphTargets bool) []pipeline.DerivedKey {
	base := c.EntityKey(topology, morphTargets)

	entities := []pipeline.EntityKey{base}
	if w.transparency {
		entities = expand(entities, pipeline.EntityKey.WithTransparent)
	}
	if w.vertexOffsets {
		entities = expand(entities, pipeline.EntityKey.WithVertexOffsetZero)
		entities = expand(entities, pipeline.EntityKey.WithStencilVertexOffsetZero)
	}

	var passes []pipeline.PassType
	if c.Stencil.Enabled || w.disabledStencil {
		passes = append(passes, pipeline.PassTypeStencil)
	}
	if c.Volume.Visible || w.disabledVolume {
		if c.Mode.Flood() {
			passes = append(passes, pipeline.PassTypeFloodInit)
		} else {
			passes = append(passes, pipeline.PassTypeVolume)
		}
	}

	seen := make(map[pipeline.DerivedKey]struct{})
	var keys []pipeline.DerivedKey
	for _, pass := range passes {
		for _, entity := range entities {
			k := pipeline.DeriveKey(view, entity, pass)
			if _, ok := seen[k]; ok {
				continue
			}
			seen[k] = struct{}{}
			keys = append(keys, k)
		}
	}
	return keys
}

// expand replaces each key with its flag-off and flag-on variants.
func expand(keys []pipeline.EntityKey, with func(pipeline.EntityKey, bool) pipeline.EntityKey) []pipeline.EntityKey {
	out := make([]pipeline.EntityKey, 0, len(keys)*2)
	for _, k := range keys {
		out = append(out, with(k, false), with(k, true))
	}
	return out
}
