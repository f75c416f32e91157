package renderer

import (
	"errors"
	"sync"
	"testing"

	"github.com/Carmen-Shannon/oxy-outline/engine/renderer/pipeline"
	"github.com/cogentcore/webgpu/wgpu"
)

// stubCompiler counts compile calls and can be made to fail.
type stubCompiler struct {
	mu       sync.Mutex
	compiles int
	fail     error
}

func (s *stubCompiler) CompileRenderPipeline(desc *pipeline.Descriptor) (*wgpu.RenderPipeline, error) {
	s.mu.Lock()
	s.compiles++
	s.mu.Unlock()
	if s.fail != nil {
		return nil, s.fail
	}
	return new(wgpu.RenderPipeline), nil
}

func (s *stubCompiler) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.compiles
}

func testLayout() pipeline.MeshLayout {
	return pipeline.NewMeshLayout(
		pipeline.Attribute{Semantic: pipeline.AttributePosition, Format: wgpu.VertexFormatFloat32x3},
		pipeline.Attribute{Semantic: pipeline.AttributeNormal, Format: wgpu.VertexFormatFloat32x3},
	)
}

func testKey(passType pipeline.PassType) pipeline.DerivedKey {
	return pipeline.DeriveKey(
		pipeline.NewViewKey().WithMsaaSamples(1),
		pipeline.NewEntityKey().
			WithPrimitiveTopology(wgpu.PrimitiveTopologyTriangleList).
			WithDepthMode(pipeline.DepthModeReal).
			WithVertexOffsetZero(true),
		passType)
}

func TestSpecializationCacheCompilesOncePerKey(t *testing.T) {
	compiler := &stubCompiler{}
	cache := NewSpecializationCache(compiler, WithCompileWorkers(4))
	key := testKey(pipeline.PassTypeVolume)
	layout := testLayout()

	// Hammer the same variant from many goroutines; only one compile may run.
	var wg sync.WaitGroup
	handles := make([]*PipelineHandle, 16)
	for i := range handles {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			h, err := cache.Specialize(key, layout)
			if err != nil {
				t.Errorf("Specialize returned error: %v", err)
				return
			}
			handles[i] = h
		}(i)
	}
	wg.Wait()
	cache.WaitReady()

	if got := compiler.count(); got != 1 {
		t.Errorf("compile count = %d, want 1", got)
	}
	if cache.Len() != 1 {
		t.Errorf("cache size = %d, want 1", cache.Len())
	}
	for i := 1; i < len(handles); i++ {
		if handles[i] != handles[0] {
			t.Fatal("concurrent Specialize calls returned distinct handles")
		}
	}
	if handles[0].State() != HandleStateReady {
		t.Errorf("handle state = %d, want ready", handles[0].State())
	}
	if _, ok := handles[0].Pipeline(); !ok {
		t.Error("ready handle did not return its pipeline")
	}
}

func TestSpecializationCacheDistinctVariants(t *testing.T) {
	compiler := &stubCompiler{}
	cache := NewSpecializationCache(compiler)
	layout := testLayout()

	if _, err := cache.Specialize(testKey(pipeline.PassTypeVolume), layout); err != nil {
		t.Fatalf("Specialize returned error: %v", err)
	}
	if _, err := cache.Specialize(testKey(pipeline.PassTypeStencil), layout); err != nil {
		t.Fatalf("Specialize returned error: %v", err)
	}
	if _, err := cache.Specialize(testKey(pipeline.PassTypeFloodInit), layout); err != nil {
		t.Fatalf("Specialize returned error: %v", err)
	}
	cache.WaitReady()

	if got := compiler.count(); got != 3 {
		t.Errorf("compile count = %d, want 3", got)
	}
	if cache.Len() != 3 {
		t.Errorf("cache size = %d, want 3", cache.Len())
	}
}

func TestSpecializationCacheLayoutsAreDistinct(t *testing.T) {
	compiler := &stubCompiler{}
	cache := NewSpecializationCache(compiler)
	key := testKey(pipeline.PassTypeVolume)

	other := pipeline.NewMeshLayout(
		pipeline.Attribute{Semantic: pipeline.AttributePosition, Format: wgpu.VertexFormatFloat32x3},
	)

	ha, err := cache.Specialize(key, testLayout())
	if err != nil {
		t.Fatalf("Specialize returned error: %v", err)
	}
	hb, err := cache.Specialize(key, other)
	if err != nil {
		t.Fatalf("Specialize returned error: %v", err)
	}
	if ha == hb {
		t.Error("same key with different layouts shared a handle")
	}
	if cache.Len() != 2 {
		t.Errorf("cache size = %d, want 2", cache.Len())
	}
}

func TestSpecializationCacheSynthesisFailureNotCached(t *testing.T) {
	compiler := &stubCompiler{}
	cache := NewSpecializationCache(compiler)

	// An extruding variant against a position-only mesh cannot specialize.
	key := pipeline.DeriveKey(
		pipeline.NewViewKey().WithMsaaSamples(1),
		pipeline.NewEntityKey().
			WithPrimitiveTopology(wgpu.PrimitiveTopologyTriangleList).
			WithDepthMode(pipeline.DepthModeReal).
			WithVertexOffsetZero(false),
		pipeline.PassTypeVolume)
	bare := pipeline.NewMeshLayout(
		pipeline.Attribute{Semantic: pipeline.AttributePosition, Format: wgpu.VertexFormatFloat32x3},
	)

	if _, err := cache.Specialize(key, bare); !errors.Is(err, pipeline.ErrMissingAttribute) {
		t.Fatalf("Specialize error = %v, want ErrMissingAttribute", err)
	}
	if cache.Len() != 0 {
		t.Errorf("failed synthesis was cached: size = %d", cache.Len())
	}
	if compiler.count() != 0 {
		t.Errorf("failed synthesis reached the compiler: %d calls", compiler.count())
	}
}

func TestSpecializationCacheCompileFailure(t *testing.T) {
	wantErr := errors.New("device lost")
	compiler := &stubCompiler{fail: wantErr}
	cache := NewSpecializationCache(compiler)

	h, err := cache.Specialize(testKey(pipeline.PassTypeVolume), testLayout())
	if err != nil {
		t.Fatalf("Specialize returned error: %v", err)
	}
	cache.WaitReady()

	if h.State() != HandleStateFailed {
		t.Errorf("handle state = %d, want failed", h.State())
	}
	if !errors.Is(h.Err(), wantErr) {
		t.Errorf("handle error = %v, want %v", h.Err(), wantErr)
	}
	if _, ok := h.Pipeline(); ok {
		t.Error("failed handle returned a pipeline")
	}
}
