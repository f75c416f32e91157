package model

import (
	"math"

	"github.com/Carmen-Shannon/oxy-outline/common"
	"github.com/cogentcore/webgpu/wgpu"
)

// floatsPerVertex is the OutlineVertexLayout element count:
// position (3) + normal (3) + outline normal (3) + uv (2).
const floatsPerVertex = 11

// NewCubeMesh builds an axis-aligned cube centred on the origin.
//
// Each face has its own four vertices so shading normals stay flat, while the
// outline normals are smoothed (pointing away from the centre) so the
// extruded outline stays closed at the corners.
//
// Parameters:
//   - size: the cube's edge length
//
// Returns:
//   - Mesh: the cube mesh
func NewCubeMesh(size float32) Mesh {
	h := size / 2

	// Per face: normal, then the four corners in CCW winding order when
	// viewed from outside.
	faces := [6]struct {
		normal  [3]float32
		corners [4][3]float32
	}{
		{[3]float32{0, 0, 1}, [4][3]float32{{-h, -h, h}, {h, -h, h}, {h, h, h}, {-h, h, h}}},
		{[3]float32{0, 0, -1}, [4][3]float32{{h, -h, -h}, {-h, -h, -h}, {-h, h, -h}, {h, h, -h}}},
		{[3]float32{1, 0, 0}, [4][3]float32{{h, -h, h}, {h, -h, -h}, {h, h, -h}, {h, h, h}}},
		{[3]float32{-1, 0, 0}, [4][3]float32{{-h, -h, -h}, {-h, -h, h}, {-h, h, h}, {-h, h, -h}}},
		{[3]float32{0, 1, 0}, [4][3]float32{{-h, h, h}, {h, h, h}, {h, h, -h}, {-h, h, -h}}},
		{[3]float32{0, -1, 0}, [4][3]float32{{-h, -h, -h}, {h, -h, -h}, {h, -h, h}, {-h, -h, h}}},
	}

	vertices := make([]float32, 0, 24*floatsPerVertex)
	indices := make([]uint32, 0, 36)
	positions := make([]float32, 0, 24*3)

	uvs := [4][2]float32{{0, 1}, {1, 1}, {1, 0}, {0, 0}}
	for _, face := range faces {
		base := uint32(len(vertices) / floatsPerVertex)
		for ci, corner := range face.corners {
			outline := normalize3(corner)
			vertices = append(vertices,
				corner[0], corner[1], corner[2],
				face.normal[0], face.normal[1], face.normal[2],
				outline[0], outline[1], outline[2],
				uvs[ci][0], uvs[ci][1],
			)
			positions = append(positions, corner[0], corner[1], corner[2])
		}
		indices = append(indices, base, base+1, base+2, base, base+2, base+3)
	}

	return newOutlineMesh(vertices, indices, positions)
}

// NewPlaneMesh builds a flat quad in the XZ plane, centred on the origin and
// facing +Y. The outline normals point outward within the plane so the quad's
// extruded outline grows sideways rather than up.
//
// Parameters:
//   - width: the extent along X
//   - depth: the extent along Z
//
// Returns:
//   - Mesh: the plane mesh
func NewPlaneMesh(width, depth float32) Mesh {
	hw, hd := width/2, depth/2

	corners := [4][3]float32{{-hw, 0, hd}, {hw, 0, hd}, {hw, 0, -hd}, {-hw, 0, -hd}}
	uvs := [4][2]float32{{0, 1}, {1, 1}, {1, 0}, {0, 0}}

	vertices := make([]float32, 0, 4*floatsPerVertex)
	positions := make([]float32, 0, 4*3)
	for ci, corner := range corners {
		outline := normalize3([3]float32{corner[0], 0, corner[2]})
		vertices = append(vertices,
			corner[0], corner[1], corner[2],
			0, 1, 0,
			outline[0], outline[1], outline[2],
			uvs[ci][0], uvs[ci][1],
		)
		positions = append(positions, corner[0], corner[1], corner[2])
	}
	indices := []uint32{0, 1, 2, 0, 2, 3}

	return newOutlineMesh(vertices, indices, positions)
}

// NewSphereMesh builds a UV sphere centred on the origin. The shading and
// outline normals coincide since the surface is already smooth.
//
// Parameters:
//   - radius: the sphere radius
//   - segments: longitudinal subdivisions (minimum 3)
//   - rings: latitudinal subdivisions (minimum 2)
//
// Returns:
//   - Mesh: the sphere mesh
func NewSphereMesh(radius float32, segments, rings int) Mesh {
	if segments < 3 {
		segments = 3
	}
	if rings < 2 {
		rings = 2
	}

	vertexCount := (rings + 1) * (segments + 1)
	vertices := make([]float32, 0, vertexCount*floatsPerVertex)
	positions := make([]float32, 0, vertexCount*3)

	for r := 0; r <= rings; r++ {
		phi := math.Pi * float64(r) / float64(rings)
		y := float32(math.Cos(phi))
		ringRadius := float32(math.Sin(phi))
		for s := 0; s <= segments; s++ {
			theta := 2 * math.Pi * float64(s) / float64(segments)
			nx := ringRadius * float32(math.Cos(theta))
			nz := ringRadius * float32(math.Sin(theta))

			vertices = append(vertices,
				nx*radius, y*radius, nz*radius,
				nx, y, nz,
				nx, y, nz,
				float32(s)/float32(segments), float32(r)/float32(rings),
			)
			positions = append(positions, nx*radius, y*radius, nz*radius)
		}
	}

	indices := make([]uint32, 0, rings*segments*6)
	stride := uint32(segments + 1)
	for r := 0; r < rings; r++ {
		for s := 0; s < segments; s++ {
			a := uint32(r)*stride + uint32(s)
			b := a + stride
			indices = append(indices, a, b, a+1, a+1, b, b+1)
		}
	}

	return newOutlineMesh(vertices, indices, positions)
}

// newOutlineMesh wraps interleaved OutlineVertexLayout data into a Mesh.
func newOutlineMesh(vertices []float32, indices []uint32, positions []float32) Mesh {
	mn, mx := computeAABB(positions)
	return Mesh{
		Layout:     OutlineVertexLayout(),
		Topology:   wgpu.PrimitiveTopologyTriangleList,
		VertexData: common.SliceToBytes(vertices),
		IndexData:  common.SliceToBytes(indices),
		IndexCount: len(indices),
		AABBMin:    mn,
		AABBMax:    mx,
	}
}

func normalize3(v [3]float32) [3]float32 {
	l := float32(math.Sqrt(float64(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])))
	if l == 0 {
		return v
	}
	return [3]float32{v[0] / l, v[1] / l, v[2] / l}
}
