package loader

import (
	"fmt"
	"io"
	"math"

	"github.com/Carmen-Shannon/oxy-outline/common"
	"github.com/Carmen-Shannon/oxy-outline/engine/model"
	"github.com/cogentcore/webgpu/wgpu"
)

// gltfImporterImpl is the implementation of the gltfImporter interface.
type gltfImporterImpl struct{}

// gltfImporter defines the interface for orchestrating a full glTF/GLB import.
// It combines the parser and the mesh extractor to produce a single outline-ready
// Mesh: all primitives merged into one interleaved buffer with the shared index
// buffer reindexed, plus smoothed extrusion normals generated over the merged
// geometry.
type gltfImporter interface {
	// Import loads a glTF/GLB file and extracts its geometry.
	//
	// Parameters:
	//   - path: the file path to the glTF or GLB file
	//
	// Returns:
	//   - model.Mesh: the merged mesh
	//   - error: error if import fails
	Import(path string) (model.Mesh, error)

	// ImportReader loads a glTF document from a reader and extracts its geometry.
	// The reader should provide a complete glTF JSON or GLB binary stream.
	//
	// Parameters:
	//   - r: the reader providing glTF/GLB data
	//   - isGLB: true if the reader provides GLB binary data, false for glTF JSON
	//
	// Returns:
	//   - model.Mesh: the merged mesh
	//   - error: error if import fails
	ImportReader(r io.Reader, isGLB bool) (model.Mesh, error)
}

var _ gltfImporter = &gltfImporterImpl{}

// newGLTFImporter creates a new glTF importer.
//
// Returns:
//   - gltfImporter: the importer
func newGLTFImporter() gltfImporter {
	return &gltfImporterImpl{}
}

func (imp *gltfImporterImpl) Import(path string) (model.Mesh, error) {
	parser := newGLTFParser()
	if err := parser.Parse(path); err != nil {
		return model.Mesh{}, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	return imp.importFromParser(parser)
}

func (imp *gltfImporterImpl) ImportReader(r io.Reader, isGLB bool) (model.Mesh, error) {
	parser := newGLTFParser()
	if err := parser.ParseReader(r, isGLB); err != nil {
		return model.Mesh{}, fmt.Errorf("failed to parse from reader: %w", err)
	}

	return imp.importFromParser(parser)
}

// importFromParser merges all primitives from a loaded document into one Mesh.
func (imp *gltfImporterImpl) importFromParser(parser gltfParser) (model.Mesh, error) {
	doc := parser.Document()
	if doc == nil {
		return model.Mesh{}, fmt.Errorf("no document after parsing")
	}

	prims, err := newGLTFMeshExtractor(parser).ExtractAllMeshes()
	if err != nil {
		return model.Mesh{}, fmt.Errorf("mesh extraction failed: %w", err)
	}
	if len(prims) == 0 {
		return model.Mesh{}, fmt.Errorf("document contains no mesh primitives")
	}

	// Merge primitives: concatenate vertices and reindex the shared index buffer.
	var positions [][3]float32
	var normals [][3]float32
	var uvs [][2]float32
	var indices []uint32
	morphTargets := false

	for i := range prims {
		p := &prims[i]
		base := uint32(len(positions))

		positions = append(positions, p.Positions...)
		normals = append(normals, p.Normals...)
		for vi := range p.Positions {
			if p.UVs != nil && vi < len(p.UVs) {
				uvs = append(uvs, p.UVs[vi])
			} else {
				uvs = append(uvs, [2]float32{})
			}
		}
		for _, idx := range p.Indices {
			indices = append(indices, base+idx)
		}
		morphTargets = morphTargets || p.MorphTargets
	}

	outlineNormals := generateOutlineNormals(positions, normals, indices)

	// Interleave into the outline vertex layout and track the bounding box.
	vertices := make([]float32, 0, len(positions)*11)
	for i := range positions {
		vertices = append(vertices,
			positions[i][0], positions[i][1], positions[i][2],
			normals[i][0], normals[i][1], normals[i][2],
			outlineNormals[i][0], outlineNormals[i][1], outlineNormals[i][2],
			uvs[i][0], uvs[i][1],
		)
	}

	mn, mx := gltfCalculateBoundingBox(positions)

	return model.Mesh{
		Layout:       model.OutlineVertexLayout(),
		Topology:     wgpu.PrimitiveTopologyTriangleList,
		VertexData:   common.SliceToBytes(vertices),
		IndexData:    common.SliceToBytes(indices),
		IndexCount:   len(indices),
		AABBMin:      mn,
		AABBMax:      mx,
		MorphTargets: morphTargets,
	}, nil
}

// generateOutlineNormals builds the smoothed extrusion normals. Face normals are
// accumulated per unique position rather than per vertex, so vertices duplicated
// for hard shading edges (or split across primitives) share one averaged normal
// and the extruded outline hull stays closed at those seams.
//
// Parameters:
//   - positions: the merged vertex positions
//   - normals: the per-vertex shading normals (fallback for degenerate vertices)
//   - indices: the merged triangle index buffer
//
// Returns:
//   - [][3]float32: one unit extrusion normal per vertex
func generateOutlineNormals(positions, normals [][3]float32, indices []uint32) [][3]float32 {
	n := len(positions)
	accum := make(map[[3]float32][3]float32, n)

	for i := 0; i+2 < len(indices); i += 3 {
		i0, i1, i2 := indices[i], indices[i+1], indices[i+2]
		if int(i0) >= n || int(i1) >= n || int(i2) >= n {
			continue
		}

		p0, p1, p2 := positions[i0], positions[i1], positions[i2]

		edge1 := [3]float32{p1[0] - p0[0], p1[1] - p0[1], p1[2] - p0[2]}
		edge2 := [3]float32{p2[0] - p0[0], p2[1] - p0[1], p2[2] - p0[2]}

		faceNormal := [3]float32{
			edge1[1]*edge2[2] - edge1[2]*edge2[1],
			edge1[2]*edge2[0] - edge1[0]*edge2[2],
			edge1[0]*edge2[1] - edge1[1]*edge2[0],
		}

		for _, idx := range []uint32{i0, i1, i2} {
			a := accum[positions[idx]]
			a[0] += faceNormal[0]
			a[1] += faceNormal[1]
			a[2] += faceNormal[2]
			accum[positions[idx]] = a
		}
	}

	result := make([][3]float32, n)
	for i := range result {
		a := accum[positions[i]]
		length := float32(math.Sqrt(float64(a[0]*a[0] + a[1]*a[1] + a[2]*a[2])))
		if length < 1e-6 {
			// Degenerate: fall back to the shading normal.
			result[i] = normals[i]
			continue
		}
		invLen := 1.0 / length
		result[i] = [3]float32{a[0] * invLen, a[1] * invLen, a[2] * invLen}
	}
	return result
}

// gltfCalculateBoundingBox computes the axis-aligned bounding box for positions.
func gltfCalculateBoundingBox(positions [][3]float32) ([3]float32, [3]float32) {
	if len(positions) == 0 {
		return [3]float32{}, [3]float32{}
	}

	bmin := positions[0]
	bmax := positions[0]

	for _, pos := range positions[1:] {
		for j := 0; j < 3; j++ {
			if pos[j] < bmin[j] {
				bmin[j] = pos[j]
			}
			if pos[j] > bmax[j] {
				bmax[j] = pos[j]
			}
		}
	}

	return bmin, bmax
}
