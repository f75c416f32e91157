package loader

import (
	"io"

	"github.com/Carmen-Shannon/oxy-outline/engine/model"
)

// loaderBackend defines the interface for format-specific mesh loading backends.
// Each supported file format (glTF, GLB) has a backend implementation that handles
// parsing and geometry extraction for that format.
type loaderBackend interface {
	// Load loads a mesh from a file path.
	//
	// Parameters:
	//   - path: the file path to load
	//
	// Returns:
	//   - model.Mesh: the loaded mesh
	//   - error: error if loading fails
	Load(path string) (model.Mesh, error)

	// LoadReader loads a mesh from a reader.
	//
	// Parameters:
	//   - r: the reader providing the file data
	//   - isGLB: true if the data is GLB binary, false for glTF JSON
	//
	// Returns:
	//   - model.Mesh: the loaded mesh
	//   - error: error if loading fails
	LoadReader(r io.Reader, isGLB bool) (model.Mesh, error)
}
