package renderer

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-outline/common"
	"github.com/Carmen-Shannon/oxy-outline/engine/renderer/pipeline"
	"github.com/cogentcore/webgpu/wgpu"
)

// HandleState describes where a pipeline handle is in its compile lifecycle.
type HandleState int32

const (
	// HandleStatePending means compilation has been submitted but not finished.
	// Passes silently skip pending handles and retry next frame.
	HandleStatePending HandleState = iota
	// HandleStateReady means the compiled pipeline is available.
	HandleStateReady
	// HandleStateFailed means compilation failed; the handle stays failed.
	HandleStateFailed
)

// PipelineHandle tracks one pipeline variant from specialization through
// compilation. Handles are created once per cache key and shared by every
// caller that specializes to the same variant.
type PipelineHandle struct {
	key        pipeline.DerivedKey
	layoutID   uint64
	descriptor *pipeline.Descriptor

	// state is written last by the compile worker; readers load it first,
	// which orders their reads of compiled/err after the worker's writes.
	state    atomic.Int32
	compiled *wgpu.RenderPipeline
	err      error
}

// State returns the handle's current lifecycle state.
//
// Returns:
//   - HandleState: pending, ready or failed
func (h *PipelineHandle) State() HandleState {
	return HandleState(h.state.Load())
}

// Pipeline returns the compiled pipeline if compilation has finished.
//
// Returns:
//   - *wgpu.RenderPipeline: the compiled pipeline, or nil
//   - bool: true only when the handle is ready
func (h *PipelineHandle) Pipeline() (*wgpu.RenderPipeline, bool) {
	if HandleState(h.state.Load()) != HandleStateReady {
		return nil, false
	}
	return h.compiled, true
}

// Err returns the compile error for a failed handle, nil otherwise.
//
// Returns:
//   - error: the compilation error, or nil
func (h *PipelineHandle) Err() error {
	if HandleState(h.state.Load()) != HandleStateFailed {
		return nil
	}
	return h.err
}

// Descriptor returns the descriptor this handle was specialized from.
//
// Returns:
//   - *pipeline.Descriptor: the synthesized pipeline descriptor
func (h *PipelineHandle) Descriptor() *pipeline.Descriptor {
	return h.descriptor
}

// Key returns the derived pipeline key this handle is cached under.
//
// Returns:
//   - pipeline.DerivedKey: the canonical cache key
func (h *PipelineHandle) Key() pipeline.DerivedKey {
	return h.key
}

// PipelineCompiler compiles a synthesized descriptor into a GPU pipeline.
// The wgpu backend is the production implementation; tests substitute a stub.
type PipelineCompiler interface {
	// CompileRenderPipeline creates the GPU render pipeline for a descriptor.
	//
	// Parameters:
	//   - desc: the synthesized pipeline descriptor
	//
	// Returns:
	//   - *wgpu.RenderPipeline: the compiled pipeline
	//   - error: an error if pipeline creation fails
	CompileRenderPipeline(desc *pipeline.Descriptor) (*wgpu.RenderPipeline, error)
}

// cacheKey identifies one pipeline variant: the canonical derived key plus
// the vertex layout it was specialized against.
type cacheKey struct {
	key      pipeline.DerivedKey
	layoutID uint64
}

// specializationCache is the implementation of the SpecializationCache interface.
type specializationCache struct {
	mu      sync.Mutex
	entries map[cacheKey]*PipelineHandle

	compiler PipelineCompiler

	// compilePool runs pipeline compilation off the frame loop. Workers are
	// reused across frames.
	compilePool    worker.DynamicWorkerPool
	compileWorkers int
	queueSize      int
	taskID         int

	// pending tracks in-flight compiles so WaitReady can act as a barrier.
	pending sync.WaitGroup
}

// SpecializationCache maps derived pipeline keys to compiled pipelines.
// Specialization is insert-if-absent: the first caller to present a new
// (key, layout) pair synthesizes the descriptor and schedules compilation;
// every later caller gets the same handle. At most one pipeline is ever
// compiled per key.
type SpecializationCache interface {
	// Specialize returns the handle for a pipeline variant, creating it and
	// scheduling compilation if this is the first request. The returned
	// handle may still be pending; callers skip draws until it is ready.
	//
	// Parameters:
	//   - key: the canonical key produced by pipeline.DeriveKey
	//   - layout: the mesh's vertex buffer layout
	//
	// Returns:
	//   - *PipelineHandle: the shared handle for this variant
	//   - error: non-nil if descriptor synthesis failed (e.g. a missing
	//     vertex attribute); nothing is cached in that case
	Specialize(key pipeline.DerivedKey, layout pipeline.MeshLayout) (*PipelineHandle, error)

	// Handle retrieves an existing handle without creating one.
	//
	// Parameters:
	//   - key: the canonical derived key
	//   - layoutID: the vertex layout identifier
	//
	// Returns:
	//   - *PipelineHandle: the handle, or nil if the variant was never specialized
	Handle(key pipeline.DerivedKey, layoutID uint64) *PipelineHandle

	// WaitReady blocks until every compile submitted so far has settled.
	// Used by pipeline warm-up; the frame loop never calls this.
	WaitReady()

	// Len returns the number of cached variants.
	//
	// Returns:
	//   - int: the cache size
	Len() int
}

var _ SpecializationCache = &specializationCache{}

// NewSpecializationCache creates a SpecializationCache that compiles
// pipelines through the given compiler on a background worker pool.
//
// Parameters:
//   - compiler: the backend that turns descriptors into GPU pipelines
//   - options: variadic list of SpecializationCacheOption functions
//
// Returns:
//   - SpecializationCache: a new cache instance
func NewSpecializationCache(compiler PipelineCompiler, options ...SpecializationCacheOption) SpecializationCache {
	c := &specializationCache{
		entries:        make(map[cacheKey]*PipelineHandle),
		compiler:       compiler,
		compileWorkers: 2,
		queueSize:      64,
	}
	for _, option := range options {
		option(c)
	}
	c.compilePool = worker.NewDynamicWorkerPool(c.compileWorkers, c.queueSize, 1*time.Second)
	return c
}

func (c *specializationCache) Specialize(key pipeline.DerivedKey, layout pipeline.MeshLayout) (*PipelineHandle, error) {
	ck := cacheKey{key: key, layoutID: layout.ID()}

	c.mu.Lock()
	if h, exists := c.entries[ck]; exists {
		c.mu.Unlock()
		return h, nil
	}

	desc, err := pipeline.Specialize(key, layout)
	if err != nil {
		c.mu.Unlock()
		common.Logger().Warn("pipeline specialization failed",
			"key", uint32(key), "layout", layout.ID(), "error", err)
		return nil, err
	}

	h := &PipelineHandle{
		key:        key,
		layoutID:   layout.ID(),
		descriptor: desc,
	}
	c.entries[ck] = h
	c.pending.Add(1)
	id := c.taskID
	c.taskID++
	c.mu.Unlock()

	common.Logger().Debug("pipeline compile scheduled", "key", uint32(key), "label", desc.Label)
	c.compilePool.SubmitTask(worker.Task{
		ID: id,
		Do: func() (any, error) {
			defer c.pending.Done()

			compiled, compileErr := c.compiler.CompileRenderPipeline(desc)
			if compileErr != nil {
				h.err = compileErr
				h.state.Store(int32(HandleStateFailed))
				common.Logger().Warn("pipeline compile failed",
					"key", uint32(key), "label", desc.Label, "error", compileErr)
				return nil, compileErr
			}
			h.compiled = compiled
			h.state.Store(int32(HandleStateReady))
			common.Logger().Debug("pipeline compile finished", "key", uint32(key), "label", desc.Label)
			return nil, nil
		},
	})

	return h, nil
}

func (c *specializationCache) Handle(key pipeline.DerivedKey, layoutID uint64) *PipelineHandle {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.entries[cacheKey{key: key, layoutID: layoutID}]
}

func (c *specializationCache) WaitReady() {
	c.pending.Wait()
}

func (c *specializationCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
