package loader

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"testing"

	"github.com/Carmen-Shannon/oxy-outline/engine/model"
)

// triangleBuffer packs a single triangle: three vec3 positions followed by
// three uint16 indices, little-endian.
func triangleBuffer(t *testing.T) []byte {
	t.Helper()

	buf := &bytes.Buffer{}
	positions := [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}
	for _, p := range positions {
		if err := binary.Write(buf, binary.LittleEndian, p); err != nil {
			t.Fatalf("failed to pack positions: %v", err)
		}
	}
	for _, i := range []uint16{0, 1, 2} {
		if err := binary.Write(buf, binary.LittleEndian, i); err != nil {
			t.Fatalf("failed to pack indices: %v", err)
		}
	}
	return buf.Bytes()
}

// triangleGLTF builds a minimal glTF 2.0 JSON document with the triangle
// buffer embedded as a base64 data URI.
func triangleGLTF(t *testing.T) []byte {
	t.Helper()

	data := triangleBuffer(t)
	uri := "data:application/octet-stream;base64," + base64.StdEncoding.EncodeToString(data)

	doc := fmt.Sprintf(`{
		"asset": {"version": "2.0"},
		"meshes": [{"primitives": [{"attributes": {"POSITION": 0}, "indices": 1}]}],
		"accessors": [
			{"bufferView": 0, "componentType": 5126, "count": 3, "type": "VEC3"},
			{"bufferView": 1, "componentType": 5123, "count": 3, "type": "SCALAR"}
		],
		"bufferViews": [
			{"buffer": 0, "byteOffset": 0, "byteLength": 36},
			{"buffer": 0, "byteOffset": 36, "byteLength": 6}
		],
		"buffers": [{"byteLength": %d, "uri": %q}]
	}`, len(data), uri)

	return []byte(doc)
}

// triangleGLB wraps the triangle document in a GLB container with the buffer
// carried in the BIN chunk instead of a data URI.
func triangleGLB(t *testing.T) []byte {
	t.Helper()

	bin := triangleBuffer(t)
	doc := fmt.Sprintf(`{
		"asset": {"version": "2.0"},
		"meshes": [{"primitives": [{"attributes": {"POSITION": 0}, "indices": 1}]}],
		"accessors": [
			{"bufferView": 0, "componentType": 5126, "count": 3, "type": "VEC3"},
			{"bufferView": 1, "componentType": 5123, "count": 3, "type": "SCALAR"}
		],
		"bufferViews": [
			{"buffer": 0, "byteOffset": 0, "byteLength": 36},
			{"buffer": 0, "byteOffset": 36, "byteLength": 6}
		],
		"buffers": [{"byteLength": %d}]
	}`, len(bin))

	jsonChunk := []byte(doc)
	for len(jsonChunk)%4 != 0 {
		jsonChunk = append(jsonChunk, ' ')
	}
	binChunk := append([]byte{}, bin...)
	for len(binChunk)%4 != 0 {
		binChunk = append(binChunk, 0)
	}

	out := &bytes.Buffer{}
	total := 12 + 8 + len(jsonChunk) + 8 + len(binChunk)
	for _, v := range []uint32{gltfGLBMagic, gltfGLBVersion, uint32(total)} {
		binary.Write(out, binary.LittleEndian, v)
	}
	binary.Write(out, binary.LittleEndian, uint32(len(jsonChunk)))
	binary.Write(out, binary.LittleEndian, uint32(gltfGLBChunkJSON))
	out.Write(jsonChunk)
	binary.Write(out, binary.LittleEndian, uint32(len(binChunk)))
	binary.Write(out, binary.LittleEndian, uint32(gltfGLBChunkBIN))
	out.Write(binChunk)

	return out.Bytes()
}

func TestLoadReaderTriangle(t *testing.T) {
	l := NewLoader()

	m, err := l.LoadReader("tri", bytes.NewReader(triangleGLTF(t)), false)
	if err != nil {
		t.Fatalf("LoadReader failed: %v", err)
	}

	stride := int(m.Layout.Stride())
	if stride != 44 {
		t.Errorf("stride = %d, want 44", stride)
	}
	if len(m.VertexData) != 3*stride {
		t.Errorf("vertex data = %d bytes, want %d", len(m.VertexData), 3*stride)
	}
	if m.IndexCount != 3 {
		t.Errorf("index count = %d, want 3", m.IndexCount)
	}
	if m.AABBMin != [3]float32{0, 0, 0} || m.AABBMax != [3]float32{1, 1, 0} {
		t.Errorf("bounds = %v..%v, want (0,0,0)..(1,1,0)", m.AABBMin, m.AABBMax)
	}
	if m.MorphTargets {
		t.Error("triangle should not report morph targets")
	}

	if _, ok := l.Get("tri"); !ok {
		t.Error("mesh not cached under its key")
	}
	if keys := l.Meshes(); len(keys) != 1 || keys[0] != "tri" {
		t.Errorf("Meshes() = %v, want [tri]", keys)
	}
}

func TestLoadReaderGLB(t *testing.T) {
	l := NewLoader()

	m, err := l.LoadReader("tri.glb", bytes.NewReader(triangleGLB(t)), true)
	if err != nil {
		t.Fatalf("LoadReader failed: %v", err)
	}
	if m.IndexCount != 3 {
		t.Errorf("index count = %d, want 3", m.IndexCount)
	}
	if len(m.VertexData) != 3*int(m.Layout.Stride()) {
		t.Errorf("vertex data = %d bytes, want %d", len(m.VertexData), 3*int(m.Layout.Stride()))
	}
}

func TestLoadUnsupportedFormat(t *testing.T) {
	l := NewLoader()
	if _, err := l.Load("model.obj"); err == nil {
		t.Fatal("expected an error for an unsupported extension")
	}
}

func TestLoaderCacheManagement(t *testing.T) {
	cube := model.NewCubeMesh(1)
	l := NewLoader(WithMesh("cube", cube))

	if _, ok := l.Get("cube"); !ok {
		t.Fatal("pre-populated mesh missing from cache")
	}

	l.Remove("cube")
	if _, ok := l.Get("cube"); ok {
		t.Error("Remove left the mesh in the cache")
	}

	l = NewLoader(WithMesh("a", cube), WithMesh("b", cube))
	l.Clear()
	if keys := l.Meshes(); len(keys) != 0 {
		t.Errorf("Clear left %v in the cache", keys)
	}
}

func TestGenerateOutlineNormalsSharesSeams(t *testing.T) {
	// Two triangles meeting at a hard edge: the shared positions are
	// duplicated (indices never reuse a vertex across the fold), which is
	// how flat-shaded geometry arrives from the extractor.
	positions := [][3]float32{
		// triangle in the XZ plane
		{0, 0, 0}, {1, 0, 0}, {0, 0, 1},
		// triangle folded up along the X axis, duplicating two positions
		{0, 0, 0}, {1, 0, 0}, {0, 1, 0},
	}
	normals := [][3]float32{
		{0, 1, 0}, {0, 1, 0}, {0, 1, 0},
		{0, 0, 1}, {0, 0, 1}, {0, 0, 1},
	}
	indices := []uint32{0, 2, 1, 3, 4, 5}

	outline := generateOutlineNormals(positions, normals, indices)

	if outline[0] != outline[3] {
		t.Errorf("duplicated position got different outline normals: %v vs %v", outline[0], outline[3])
	}
	if outline[1] != outline[4] {
		t.Errorf("duplicated position got different outline normals: %v vs %v", outline[1], outline[4])
	}
	// Unshared vertices keep a normal derived from their own face only.
	if outline[2] == outline[5] {
		t.Error("unrelated vertices should not share an outline normal")
	}
}

func TestGenerateNormalsFromGeometry(t *testing.T) {
	positions := [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 0, -1}}
	indices := []uint32{0, 1, 2}

	normals := generateNormals(positions, indices)
	want := [3]float32{0, 1, 0}
	for i, nrm := range normals {
		if nrm != want {
			t.Errorf("normal %d = %v, want %v", i, nrm, want)
		}
	}
}
