package model

import (
	"github.com/Carmen-Shannon/oxy-outline/engine/renderer/pipeline"
	"github.com/cogentcore/webgpu/wgpu"
)

// Mesh is the geometry of one outlined entity: an interleaved vertex buffer,
// a uint32 index buffer, and the model-space bounding box the flood passes
// scissor with. Meshes are immutable once built; the renderer uploads the
// byte slices verbatim.
type Mesh struct {
	// Layout describes the interleaved vertex buffer.
	Layout pipeline.MeshLayout
	// Topology is the primitive topology the index buffer encodes.
	Topology wgpu.PrimitiveTopology
	// VertexData is the raw interleaved vertex buffer.
	VertexData []byte
	// IndexData is the raw uint32 index buffer.
	IndexData []byte
	// IndexCount is the number of indices to draw.
	IndexCount int
	// AABBMin and AABBMax are the corners of the model-space bounding box.
	AABBMin, AABBMax [3]float32
	// MorphTargets is true when the mesh carries morph target data.
	MorphTargets bool
}

// OutlineVertexLayout is the interleaved layout the primitive generators and
// the glTF importer emit: position, shading normal, smoothed outline normal,
// and UV, tightly packed.
//
// Returns:
//   - pipeline.MeshLayout: the resolved layout
func OutlineVertexLayout() pipeline.MeshLayout {
	return pipeline.NewMeshLayout(
		pipeline.Attribute{Semantic: pipeline.AttributePosition, Format: wgpu.VertexFormatFloat32x3},
		pipeline.Attribute{Semantic: pipeline.AttributeNormal, Format: wgpu.VertexFormatFloat32x3},
		pipeline.Attribute{Semantic: pipeline.AttributeOutlineNormal, Format: wgpu.VertexFormatFloat32x3},
		pipeline.Attribute{Semantic: pipeline.AttributeUV, Format: wgpu.VertexFormatFloat32x2},
	)
}

// PositionNormalLayout is the minimal layout for meshes without UVs: position
// and a shading normal that doubles as the extrusion normal.
//
// Returns:
//   - pipeline.MeshLayout: the resolved layout
func PositionNormalLayout() pipeline.MeshLayout {
	return pipeline.NewMeshLayout(
		pipeline.Attribute{Semantic: pipeline.AttributePosition, Format: wgpu.VertexFormatFloat32x3},
		pipeline.Attribute{Semantic: pipeline.AttributeNormal, Format: wgpu.VertexFormatFloat32x3},
	)
}

// Bounds returns the mesh's model-space bounding box.
//
// Returns:
//   - min: the minimum corner
//   - max: the maximum corner
func (m Mesh) Bounds() (min, max [3]float32) {
	return m.AABBMin, m.AABBMax
}

// computeAABB grows min/max to cover every position in a flat xyz slice.
func computeAABB(positions []float32) (mn, mx [3]float32) {
	if len(positions) < 3 {
		return
	}
	mn = [3]float32{positions[0], positions[1], positions[2]}
	mx = mn
	for i := 3; i+2 < len(positions); i += 3 {
		for a := 0; a < 3; a++ {
			v := positions[i+a]
			if v < mn[a] {
				mn[a] = v
			}
			if v > mx[a] {
				mx[a] = v
			}
		}
	}
	return mn, mx
}
