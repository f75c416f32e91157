package flood

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-outline/common"
	"github.com/Carmen-Shannon/oxy-outline/engine/renderer"
	"github.com/Carmen-Shannon/oxy-outline/engine/renderer/pipeline"
	"github.com/cogentcore/webgpu/wgpu"
)

// fakeTexture is a CPU-only Texture with an identity for tracking which of
// the ping-pong pair a pass touched.
type fakeTexture struct {
	name          string
	width, height uint32
	released      bool
}

func (f *fakeTexture) View() *wgpu.TextureView { return nil }
func (f *fakeTexture) Width() uint32           { return f.width }
func (f *fakeTexture) Height() uint32          { return f.height }
func (f *fakeTexture) Release()                { f.released = true }

// fakeAllocator hands out named textures and counts allocations.
type fakeAllocator struct {
	acquired int
}

func (a *fakeAllocator) Acquire(width, height uint32) (Texture, error) {
	a.acquired++
	name := "a"
	if a.acquired%2 == 0 {
		name = "b"
	}
	return &fakeTexture{name: name, width: width, height: height}, nil
}

// recordingExecutor counts pass invocations and checks ping-pong discipline.
type recordingExecutor struct {
	seedInits  int
	propagates int
	composites int

	strides   []uint32
	scissors  []common.URect
	lastWrite Texture
	t         *testing.T
}

func (r *recordingExecutor) SeedInit(target Texture, group *Group, viewport common.Viewport) error {
	r.seedInits++
	r.lastWrite = target
	return nil
}

func (r *recordingExecutor) Propagate(input, output Texture, stride uint32, bounds common.URect) error {
	r.propagates++
	r.strides = append(r.strides, stride)
	r.scissors = append(r.scissors, bounds)
	if input == output {
		r.t.Error("propagation pass reads and writes the same texture")
	}
	if r.lastWrite != nil && input != r.lastWrite {
		r.t.Error("propagation pass does not read the previously written texture")
	}
	r.lastWrite = output
	return nil
}

func (r *recordingExecutor) Composite(input Texture, group *Group, bounds common.URect) error {
	r.composites++
	if r.lastWrite != nil && input != r.lastWrite {
		r.t.Error("composite pass does not read the final propagated texture")
	}
	return nil
}

// readyHandle compiles a trivial flood-init variant to completion so node
// tests have a ready pipeline handle.
func readyHandle(t *testing.T) *renderer.PipelineHandle {
	t.Helper()
	cache := renderer.NewSpecializationCache(readyCompiler{})
	key := pipeline.DeriveKey(
		pipeline.NewViewKey().WithMsaaSamples(1),
		pipeline.NewEntityKey().
			WithPrimitiveTopology(wgpu.PrimitiveTopologyTriangleList).
			WithDepthMode(pipeline.DepthModeFlat),
		pipeline.PassTypeFloodInit)
	layout := pipeline.NewMeshLayout(
		pipeline.Attribute{Semantic: pipeline.AttributePosition, Format: wgpu.VertexFormatFloat32x3},
	)
	h, err := cache.Specialize(key, layout)
	if err != nil {
		t.Fatalf("Specialize returned error: %v", err)
	}
	cache.WaitReady()
	return h
}

type readyCompiler struct{}

func (readyCompiler) CompileRenderPipeline(*pipeline.Descriptor) (*wgpu.RenderPipeline, error) {
	return new(wgpu.RenderPipeline), nil
}

// pendingHandle returns a handle whose compile never finishes during the test.
func pendingHandle(t *testing.T, block chan struct{}) *renderer.PipelineHandle {
	t.Helper()
	cache := renderer.NewSpecializationCache(blockingCompiler{block: block})
	key := pipeline.DeriveKey(
		pipeline.NewViewKey().WithMsaaSamples(1),
		pipeline.NewEntityKey().
			WithPrimitiveTopology(wgpu.PrimitiveTopologyTriangleList).
			WithDepthMode(pipeline.DepthModeFlat),
		pipeline.PassTypeFloodInit)
	layout := pipeline.NewMeshLayout(
		pipeline.Attribute{Semantic: pipeline.AttributePosition, Format: wgpu.VertexFormatFloat32x3},
	)
	h, err := cache.Specialize(key, layout)
	if err != nil {
		t.Fatalf("Specialize returned error: %v", err)
	}
	return h
}

type blockingCompiler struct {
	block chan struct{}
}

func (b blockingCompiler) CompileRenderPipeline(*pipeline.Descriptor) (*wgpu.RenderPipeline, error) {
	<-b.block
	return new(wgpu.RenderPipeline), nil
}

func testView() View {
	return View{
		ClipFromWorld: testClipFromWorld(10),
		Viewport:      common.Viewport{Width: 640, Height: 480},
		Scale:         1,
	}
}

func TestNodeFullFrame(t *testing.T) {
	handle := readyHandle(t)
	n := NewNode(WithBoundsWorkers(2))

	candidates := []Candidate{
		{
			ID:     1,
			Mesh:   unitCubeBounds(),
			Width:  10,
			Colour: [4]float32{0, 1, 0, 1},
			Draw:   SeedDraw{Handle: handle},
		},
	}

	view := testView()
	if kept := n.ComputeBounds(view, candidates); kept != 1 {
		t.Fatalf("ComputeBounds kept %d candidates, want 1", kept)
	}
	if n.State() != StateBounds {
		t.Fatalf("state = %d, want StateBounds", n.State())
	}

	groups, err := n.Group()
	if err != nil {
		t.Fatalf("Group returned error: %v", err)
	}
	if groups != 1 {
		t.Fatalf("Group made %d groups, want 1", groups)
	}

	alloc := &fakeAllocator{}
	var textures Textures
	if err := textures.Prepare(alloc, 640, 480); err != nil {
		t.Fatalf("Prepare returned error: %v", err)
	}

	exec := &recordingExecutor{t: t}
	if err := n.Execute(exec, &textures); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}

	// Width 10 at scale 1 floods with strides 8, 4, 2, 1.
	if exec.seedInits != 1 {
		t.Errorf("seed passes = %d, want 1", exec.seedInits)
	}
	if exec.propagates != 4 {
		t.Errorf("propagation passes = %d, want 4", exec.propagates)
	}
	if exec.composites != 1 {
		t.Errorf("composite passes = %d, want 1", exec.composites)
	}
	wantStrides := []uint32{8, 4, 2, 1}
	for i, s := range exec.strides {
		if s != wantStrides[i] {
			t.Errorf("stride %d = %d, want %d", i, s, wantStrides[i])
		}
	}
	if n.State() != StateIdle {
		t.Errorf("state after Execute = %d, want StateIdle", n.State())
	}
}

func TestNodeGroupsShareScissor(t *testing.T) {
	handle := readyHandle(t)
	n := NewNode()

	near := unitCubeBounds()
	far := MeshBounds{
		AABBMin:        [3]float32{-1, -1, -1},
		AABBMax:        [3]float32{1, 1, 1},
		WorldFromLocal: make([]float32, 16),
	}
	common.BuildModelMatrix(far.WorldFromLocal, 3, 0, 0, 0, 0, 0, 1, 1, 1)

	colour := [4]float32{1, 0, 0, 1}
	candidates := []Candidate{
		{ID: 1, Mesh: near, Width: 4, Colour: colour, Draw: SeedDraw{Handle: handle}},
		{ID: 2, Mesh: far, Width: 4, Colour: colour, Draw: SeedDraw{Handle: handle}},
	}

	n.ComputeBounds(testView(), candidates)
	groups, err := n.Group()
	if err != nil {
		t.Fatalf("Group returned error: %v", err)
	}
	if groups != 1 {
		t.Fatalf("identical parameters made %d groups, want 1", groups)
	}

	var textures Textures
	if err := textures.Prepare(&fakeAllocator{}, 640, 480); err != nil {
		t.Fatalf("Prepare returned error: %v", err)
	}
	exec := &recordingExecutor{t: t}
	if err := n.Execute(exec, &textures); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}

	if exec.seedInits != 1 || exec.composites != 1 {
		t.Errorf("grouped items did not share passes: %d seeds, %d composites",
			exec.seedInits, exec.composites)
	}
	// Every propagation scissor is the same union rect.
	for i := 1; i < len(exec.scissors); i++ {
		if exec.scissors[i] != exec.scissors[0] {
			t.Errorf("scissor %d = %+v, want %+v", i, exec.scissors[i], exec.scissors[0])
		}
	}
}

func TestNodeSkipsPendingPipelines(t *testing.T) {
	block := make(chan struct{})
	defer close(block)
	handle := pendingHandle(t, block)

	n := NewNode()
	candidates := []Candidate{
		{ID: 1, Mesh: unitCubeBounds(), Width: 10, Colour: [4]float32{1, 1, 1, 1}, Draw: SeedDraw{Handle: handle}},
	}
	n.ComputeBounds(testView(), candidates)
	if _, err := n.Group(); err != nil {
		t.Fatalf("Group returned error: %v", err)
	}

	var textures Textures
	if err := textures.Prepare(&fakeAllocator{}, 640, 480); err != nil {
		t.Fatalf("Prepare returned error: %v", err)
	}
	exec := &recordingExecutor{t: t}
	if err := n.Execute(exec, &textures); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}

	if exec.seedInits != 0 || exec.propagates != 0 || exec.composites != 0 {
		t.Errorf("pending pipeline was not skipped: %d/%d/%d passes",
			exec.seedInits, exec.propagates, exec.composites)
	}
	if n.State() != StateIdle {
		t.Errorf("state after Execute = %d, want StateIdle", n.State())
	}
}

func TestNodePhaseOrder(t *testing.T) {
	n := NewNode()
	if _, err := n.Group(); err == nil {
		t.Error("Group before ComputeBounds did not fail")
	}
	var textures Textures
	if err := n.Execute(&recordingExecutor{t: t}, &textures); err == nil {
		t.Error("Execute before Group did not fail")
	}
}

func TestTexturesReallocateOnResize(t *testing.T) {
	alloc := &fakeAllocator{}
	var textures Textures

	if err := textures.Prepare(alloc, 640, 480); err != nil {
		t.Fatalf("Prepare returned error: %v", err)
	}
	if alloc.acquired != 2 {
		t.Fatalf("acquired %d textures, want 2", alloc.acquired)
	}
	first := textures.Input()

	// Same size: no reallocation, flip state reset.
	textures.Flip()
	if err := textures.Prepare(alloc, 640, 480); err != nil {
		t.Fatalf("Prepare returned error: %v", err)
	}
	if alloc.acquired != 2 {
		t.Errorf("same-size Prepare reallocated: %d acquires", alloc.acquired)
	}
	if textures.Input() != first {
		t.Error("flip state did not reset on Prepare")
	}

	// Resize: both textures released and re-acquired.
	if err := textures.Prepare(alloc, 1280, 720); err != nil {
		t.Fatalf("Prepare returned error: %v", err)
	}
	if alloc.acquired != 4 {
		t.Errorf("resize acquired %d textures total, want 4", alloc.acquired)
	}
	if !first.(*fakeTexture).released {
		t.Error("resize did not release the old texture")
	}
	if textures.Input().Width() != 1280 {
		t.Errorf("input width = %d, want 1280", textures.Input().Width())
	}
}
