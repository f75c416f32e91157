package loader

import (
	"fmt"
	"math"
)

// gltfPrimitiveGeometry is the raw geometry of a single glTF primitive,
// decoded but not yet interleaved. Normals may be nil when the file omits
// the NORMAL attribute; the importer generates them from the triangles.
type gltfPrimitiveGeometry struct {
	Positions    [][3]float32
	Normals      [][3]float32
	UVs          [][2]float32
	Indices      []uint32
	MorphTargets bool
}

// gltfMeshExtractorImpl is the implementation of the gltfMeshExtractor interface.
type gltfMeshExtractorImpl struct {
	parser gltfParser
}

// gltfMeshExtractor defines the interface for extracting mesh geometry from a
// parsed glTF document. It converts raw glTF accessor data into per-primitive
// position, normal, UV and index slices ready for interleaving.
type gltfMeshExtractor interface {
	// ExtractMesh extracts a single mesh by index.
	// Returns one geometry entry per primitive (glTF meshes can have multiple primitives).
	//
	// Parameters:
	//   - meshIndex: the index of the mesh to extract
	//
	// Returns:
	//   - []gltfPrimitiveGeometry: one entry per primitive
	//   - error: error if extraction fails
	ExtractMesh(meshIndex int) ([]gltfPrimitiveGeometry, error)

	// ExtractAllMeshes extracts all meshes from the document.
	// Returns a flattened slice with one entry per primitive across all meshes.
	//
	// Returns:
	//   - []gltfPrimitiveGeometry: all primitives (flattened)
	//   - error: error if extraction fails
	ExtractAllMeshes() ([]gltfPrimitiveGeometry, error)
}

var _ gltfMeshExtractor = &gltfMeshExtractorImpl{}

// newGLTFMeshExtractor creates a new mesh extractor for a parsed document.
//
// Parameters:
//   - parser: the parser containing a loaded document
//
// Returns:
//   - gltfMeshExtractor: the mesh extractor
func newGLTFMeshExtractor(parser gltfParser) gltfMeshExtractor {
	return &gltfMeshExtractorImpl{parser: parser}
}

func (e *gltfMeshExtractorImpl) ExtractMesh(meshIndex int) ([]gltfPrimitiveGeometry, error) {
	doc := e.parser.Document()
	if doc == nil {
		return nil, fmt.Errorf("no document loaded")
	}
	if meshIndex < 0 || meshIndex >= len(doc.Meshes) {
		return nil, fmt.Errorf("mesh index %d out of range", meshIndex)
	}

	mesh := &doc.Meshes[meshIndex]
	var result []gltfPrimitiveGeometry

	for primIdx := range mesh.Primitives {
		prim := &mesh.Primitives[primIdx]
		geom, err := e.extractPrimitive(prim)
		if err != nil {
			return nil, fmt.Errorf("mesh %d primitive %d: %w", meshIndex, primIdx, err)
		}
		result = append(result, *geom)
	}

	return result, nil
}

func (e *gltfMeshExtractorImpl) ExtractAllMeshes() ([]gltfPrimitiveGeometry, error) {
	doc := e.parser.Document()
	if doc == nil {
		return nil, fmt.Errorf("no document loaded")
	}

	var all []gltfPrimitiveGeometry
	for i := range doc.Meshes {
		prims, err := e.ExtractMesh(i)
		if err != nil {
			return nil, fmt.Errorf("mesh %d: %w", i, err)
		}
		all = append(all, prims...)
	}

	return all, nil
}

// extractPrimitive decodes a single primitive's geometry.
func (e *gltfMeshExtractorImpl) extractPrimitive(prim *gltfPrimitive) (*gltfPrimitiveGeometry, error) {
	// Check for triangle mode (default is TRIANGLES)
	if prim.Mode != nil && *prim.Mode != gltfPrimitiveModeTriangles {
		return nil, fmt.Errorf("unsupported primitive mode: %d (only triangles supported)", *prim.Mode)
	}

	// Extract positions (required)
	posAccessor, ok := prim.Attributes["POSITION"]
	if !ok {
		return nil, fmt.Errorf("primitive has no POSITION attribute")
	}

	positions, err := e.parser.ReadVec3Accessor(posAccessor)
	if err != nil {
		return nil, fmt.Errorf("failed to read positions: %w", err)
	}
	vertexCount := len(positions)

	geom := &gltfPrimitiveGeometry{
		Positions:    positions,
		MorphTargets: len(prim.Targets) > 0,
	}

	// Extract normals (optional — generated from geometry if absent)
	if normalAccessor, ok := prim.Attributes["NORMAL"]; ok {
		normals, err := e.parser.ReadVec3Accessor(normalAccessor)
		if err != nil {
			return nil, fmt.Errorf("failed to read normals: %w", err)
		}
		if len(normals) != vertexCount {
			return nil, fmt.Errorf("normal count %d does not match position count %d", len(normals), vertexCount)
		}
		geom.Normals = normals
	}

	// Extract texture coordinates (optional)
	if texCoordAccessor, ok := prim.Attributes["TEXCOORD_0"]; ok {
		texCoords, err := e.parser.ReadVec2Accessor(texCoordAccessor)
		if err != nil {
			return nil, fmt.Errorf("failed to read texcoords: %w", err)
		}
		if len(texCoords) > vertexCount {
			texCoords = texCoords[:vertexCount]
		}
		geom.UVs = texCoords
	}

	// Extract indices
	if prim.Indices != nil {
		geom.Indices, err = e.parser.ReadIndicesAccessor(*prim.Indices)
		if err != nil {
			return nil, fmt.Errorf("failed to read indices: %w", err)
		}
	} else {
		// Generate sequential indices if none provided
		geom.Indices = make([]uint32, vertexCount)
		for i := range geom.Indices {
			geom.Indices[i] = uint32(i)
		}
	}

	// Generate smooth vertex normals from triangle geometry when the glTF
	// file omits the NORMAL attribute.
	if geom.Normals == nil && len(geom.Indices) >= 3 {
		geom.Normals = generateNormals(positions, geom.Indices)
	}

	return geom, nil
}

// generateNormals computes smooth vertex normals from triangle geometry. For each
// triangle, the face normal is computed as the cross product of its two edges, then
// accumulated (area-weighted) onto every vertex of that triangle. All vertex normals
// are normalized at the end to produce smooth shading across shared vertices.
//
// Parameters:
//   - positions: the vertex positions
//   - indices: the triangle index buffer (must be a multiple of 3)
//
// Returns:
//   - [][3]float32: one unit normal per vertex
func generateNormals(positions [][3]float32, indices []uint32) [][3]float32 {
	n := len(positions)
	accum := make([][3]float32, n)

	for i := 0; i+2 < len(indices); i += 3 {
		i0, i1, i2 := indices[i], indices[i+1], indices[i+2]
		if int(i0) >= n || int(i1) >= n || int(i2) >= n {
			continue
		}

		p0, p1, p2 := positions[i0], positions[i1], positions[i2]

		edge1 := [3]float32{p1[0] - p0[0], p1[1] - p0[1], p1[2] - p0[2]}
		edge2 := [3]float32{p2[0] - p0[0], p2[1] - p0[1], p2[2] - p0[2]}

		// Cross product: face normal (length proportional to triangle area)
		faceNormal := [3]float32{
			edge1[1]*edge2[2] - edge1[2]*edge2[1],
			edge1[2]*edge2[0] - edge1[0]*edge2[2],
			edge1[0]*edge2[1] - edge1[1]*edge2[0],
		}

		for _, idx := range []uint32{i0, i1, i2} {
			accum[idx][0] += faceNormal[0]
			accum[idx][1] += faceNormal[1]
			accum[idx][2] += faceNormal[2]
		}
	}

	// Normalize accumulated normals
	normals := make([][3]float32, n)
	for i := range normals {
		length := float32(math.Sqrt(float64(accum[i][0]*accum[i][0] + accum[i][1]*accum[i][1] + accum[i][2]*accum[i][2])))
		if length < 1e-6 {
			// Degenerate: default to up vector
			normals[i] = [3]float32{0, 1, 0}
			continue
		}
		invLen := 1.0 / length
		normals[i] = [3]float32{
			accum[i][0] * invLen,
			accum[i][1] * invLen,
			accum[i][2] * invLen,
		}
	}
	return normals
}
