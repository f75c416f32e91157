package loader

import (
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/Carmen-Shannon/oxy-outline/engine/model"
)

// loader is the implementation of the Loader interface.
// It caches imported meshes by key and resolves a format backend per file extension.
type loader struct {
	mu        sync.RWMutex
	meshCache map[string]model.Mesh
}

// Loader imports mesh files into outline-ready geometry. Imported meshes are
// cached by path (or by the caller-supplied key for reader loads), so repeated
// loads of the same asset parse the file once. All methods are safe for
// concurrent use.
type Loader interface {
	// Load imports the mesh file at the given path, caching the result under
	// the path. Subsequent calls with the same path return the cached mesh.
	//
	// Parameters:
	//   - path: the file path to load (.gltf or .glb)
	//
	// Returns:
	//   - model.Mesh: the imported mesh
	//   - error: error if the format is unsupported or the import fails
	Load(path string) (model.Mesh, error)

	// LoadReader imports a mesh from a reader, caching the result under the
	// given key. Use this for embedded assets or network streams.
	//
	// Parameters:
	//   - key: the cache key for the imported mesh
	//   - r: the reader providing glTF JSON or GLB binary data
	//   - isGLB: true if the reader provides GLB binary data
	//
	// Returns:
	//   - model.Mesh: the imported mesh
	//   - error: error if the import fails
	LoadReader(key string, r io.Reader, isGLB bool) (model.Mesh, error)

	// Get retrieves a cached mesh by key without loading.
	//
	// Parameters:
	//   - key: the cache key (the path for Load, the key for LoadReader)
	//
	// Returns:
	//   - model.Mesh: the cached mesh (zero value if absent)
	//   - bool: true if the mesh was found
	Get(key string) (model.Mesh, bool)

	// Meshes returns the sorted cache keys of all loaded meshes.
	//
	// Returns:
	//   - []string: the cache keys in sorted order
	Meshes() []string

	// Remove evicts a mesh from the cache.
	//
	// Parameters:
	//   - key: the cache key to evict
	Remove(key string)

	// Clear evicts all cached meshes.
	Clear()
}

var _ Loader = &loader{}

// NewLoader creates a new Loader with the provided options.
//
// Parameters:
//   - options: functional options for loader configuration
//
// Returns:
//   - Loader: the newly created loader
func NewLoader(options ...LoaderBuilderOption) Loader {
	l := &loader{
		meshCache: make(map[string]model.Mesh),
	}

	for _, opt := range options {
		opt(l)
	}

	return l
}

func (l *loader) Load(path string) (model.Mesh, error) {
	l.mu.RLock()
	if m, ok := l.meshCache[path]; ok {
		l.mu.RUnlock()
		return m, nil
	}
	l.mu.RUnlock()

	backend, err := resolveBackend(path)
	if err != nil {
		return model.Mesh{}, err
	}

	m, err := backend.Load(path)
	if err != nil {
		return model.Mesh{}, fmt.Errorf("failed to load %s: %w", path, err)
	}

	l.mu.Lock()
	l.meshCache[path] = m
	l.mu.Unlock()

	return m, nil
}

func (l *loader) LoadReader(key string, r io.Reader, isGLB bool) (model.Mesh, error) {
	l.mu.RLock()
	if m, ok := l.meshCache[key]; ok {
		l.mu.RUnlock()
		return m, nil
	}
	l.mu.RUnlock()

	// Reader loads are always glTF/GLB; other formats have no streaming parse.
	m, err := newGLTFLoaderBackend().LoadReader(r, isGLB)
	if err != nil {
		return model.Mesh{}, fmt.Errorf("failed to load %s: %w", key, err)
	}

	l.mu.Lock()
	l.meshCache[key] = m
	l.mu.Unlock()

	return m, nil
}

func (l *loader) Get(key string) (model.Mesh, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	m, ok := l.meshCache[key]
	return m, ok
}

func (l *loader) Meshes() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()

	keys := make([]string, 0, len(l.meshCache))
	for k := range l.meshCache {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (l *loader) Remove(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	delete(l.meshCache, key)
}

func (l *loader) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.meshCache = make(map[string]model.Mesh)
}

// resolveBackend selects the format backend for a file path by extension.
func resolveBackend(path string) (loaderBackend, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gltf", ".glb":
		return newGLTFLoaderBackend(), nil
	default:
		return nil, fmt.Errorf("unsupported mesh format: %s", filepath.Ext(path))
	}
}
