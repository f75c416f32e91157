package loader

import (
	"io"

	"github.com/Carmen-Shannon/oxy-outline/engine/model"
)

// gltfLoaderBackend is the loaderBackend implementation for glTF 2.0 files
// (.gltf JSON and .glb binary). It delegates to the gltfImporter for parsing
// and geometry extraction.
type gltfLoaderBackend struct {
	importer gltfImporter
}

var _ loaderBackend = &gltfLoaderBackend{}

// newGLTFLoaderBackend creates a new glTF loader backend.
//
// Returns:
//   - loaderBackend: the backend
func newGLTFLoaderBackend() loaderBackend {
	return &gltfLoaderBackend{importer: newGLTFImporter()}
}

func (b *gltfLoaderBackend) Load(path string) (model.Mesh, error) {
	return b.importer.Import(path)
}

func (b *gltfLoaderBackend) LoadReader(r io.Reader, isGLB bool) (model.Mesh, error) {
	return b.importer.ImportReader(r, isGLB)
}
