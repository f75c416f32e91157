package scene

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/Carmen-Shannon/oxy-outline/common"
	"github.com/Carmen-Shannon/oxy-outline/engine/camera"
	"github.com/Carmen-Shannon/oxy-outline/engine/flood"
	"github.com/Carmen-Shannon/oxy-outline/engine/model"
	"github.com/Carmen-Shannon/oxy-outline/engine/outline"
	"github.com/Carmen-Shannon/oxy-outline/engine/renderer"
	"github.com/Carmen-Shannon/oxy-outline/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-outline/engine/renderer/pipeline"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/yohamta/donburi"
)

var (
	// ErrNoRenderer is returned when a scene operation needs a renderer and none is set.
	ErrNoRenderer = errors.New("scene: no renderer attached")
	// ErrNoCamera is returned when a scene operation needs a camera and none is set.
	ErrNoCamera = errors.New("scene: no camera attached")
	// ErrNoViewport is returned when the scene's viewport has not been set.
	ErrNoViewport = errors.New("scene: viewport not set")
	// ErrNotPrepared is returned when draw phases run without a prepared frame.
	ErrNotPrepared = errors.New("scene: frame not prepared")
	// ErrUnknownEntity is returned when an operation targets an entity the scene does not own.
	ErrUnknownEntity = errors.New("scene: unknown entity")
)

// sceneCount generates unique provider labels across scene instances.
var sceneCount atomic.Uint64

// entityResources holds the GPU-side state for one outlined entity.
type entityResources struct {
	mesh             model.Mesh
	meshProvider     bind_group_provider.BindGroupProvider
	instanceProvider bind_group_provider.BindGroupProvider

	// maskProvider binds the entity's alpha mask texture, rebuilt when the
	// mask view changes. Nil while the entity has no mask.
	maskProvider bind_group_provider.BindGroupProvider
	maskView     *wgpu.TextureView
}

// drawItem is one entity's resolved draw state for the frame.
type drawItem struct {
	res      *entityResources
	distance float32

	stencil *renderer.PipelineHandle
	volume  *renderer.PipelineHandle

	// baseGroups is view + instance; maskGroups appends the alpha mask group
	// and aliases baseGroups when there is no mask.
	baseGroups []bind_group_provider.BindGroupProvider
	maskGroups []bind_group_provider.BindGroupProvider
}

// sceneImpl is the implementation of the Scene interface.
type sceneImpl struct {
	mu sync.Mutex

	name   string
	active bool
	layers outline.RenderLayers
	scale  float32

	viewport common.Viewport

	renderer renderer.Renderer
	camera   camera.Camera

	world     donburi.World
	resources map[donburi.Entity]*entityResources
	warmed    map[donburi.Entity]struct{}

	node        flood.Node
	nodeOptions []flood.NodeOption
	textures    flood.Textures
	executor    flood.GPUExecutor

	viewKey pipeline.ViewKey

	// Frame state built by Prepare, consumed by DrawCalls and DrawFlood.
	framePrepared  bool
	frameItems     []drawItem
	frameView      flood.View
	frameHasGroups bool

	label string
}

// Scene owns the outlined entities of one view: a donburi world carrying the
// outline components, the per-entity GPU resources, and the flood node that
// runs the jump-flood passes.
//
// Each frame moves through three phases driven by the engine: Prepare resolves
// outline state and stages uniform writes, DrawCalls records the stencil and
// volume draws into the open scene pass, and DrawFlood records the jump-flood
// passes after the scene pass has ended.
type Scene interface {
	// Name returns the scene's name.
	//
	// Returns:
	//   - string: the scene name
	Name() string

	// SetName sets the scene's name.
	//
	// Parameters:
	//   - name: the name to set
	SetName(name string)

	// Active reports whether the engine renders this scene.
	//
	// Returns:
	//   - bool: true if active
	Active() bool

	// SetActive sets whether the engine renders this scene.
	//
	// Parameters:
	//   - active: true to render the scene
	SetActive(active bool)

	// Camera returns the scene's camera, or nil if not set.
	//
	// Returns:
	//   - camera.Camera: the camera or nil
	Camera() camera.Camera

	// SetCamera attaches a camera to the scene.
	//
	// Parameters:
	//   - cam: the camera to attach
	SetCamera(cam camera.Camera)

	// Renderer returns the scene's renderer, or nil if not set.
	//
	// Returns:
	//   - renderer.Renderer: the renderer or nil
	Renderer() renderer.Renderer

	// SetRenderer attaches a renderer to the scene.
	//
	// Parameters:
	//   - r: the renderer to attach
	SetRenderer(r renderer.Renderer)

	// World returns the scene's entity world. Optional outline components
	// (stencil, mode, plane depth, alpha mask, layers, warm-up) are attached
	// directly to entries of this world.
	//
	// Returns:
	//   - donburi.World: the entity world
	World() donburi.World

	// Layers returns the view's render layer mask.
	//
	// Returns:
	//   - outline.RenderLayers: the layer mask
	Layers() outline.RenderLayers

	// SetLayers sets the view's render layer mask. Only entities whose layers
	// intersect it are outlined.
	//
	// Parameters:
	//   - layers: the layer mask
	SetLayers(layers outline.RenderLayers)

	// SetViewport sets the view's target size in physical pixels. The engine
	// keeps this in sync with the window.
	//
	// Parameters:
	//   - width, height: the target size in pixels
	SetViewport(width, height int)

	// SetScale sets the physical-to-logical pixel ratio used to convert
	// outline widths to pixels. The default is 1.
	//
	// Parameters:
	//   - scale: the pixel ratio
	SetScale(scale float32)

	// Count returns the number of outlined entities in the scene.
	//
	// Returns:
	//   - int: the entity count
	Count() int

	// Add creates an outlined entity from a mesh, uploads its GPU buffers and
	// creates its uniform bindings.
	//
	// Parameters:
	//   - mesh: the entity's geometry
	//   - volume: the entity's outline volume
	//
	// Returns:
	//   - donburi.Entity: the created entity
	//   - error: ErrNoRenderer, or a GPU resource creation error
	Add(mesh model.Mesh, volume outline.OutlineVolume) (donburi.Entity, error)

	// Entry returns the world entry for an entity, for attaching or updating
	// optional outline components. Returns nil for unknown entities.
	//
	// Parameters:
	//   - entity: the entity to look up
	//
	// Returns:
	//   - *donburi.Entry: the entry or nil
	Entry(entity donburi.Entity) *donburi.Entry

	// SetWorldFromLocal sets an entity's world transform.
	//
	// Parameters:
	//   - entity: the entity to update
	//   - worldFromLocal: the transform (16 elements, column-major)
	//
	// Returns:
	//   - error: ErrUnknownEntity if the scene does not own the entity
	SetWorldFromLocal(entity donburi.Entity, worldFromLocal []float32) error

	// Remove destroys an entity and releases its GPU resources.
	//
	// Parameters:
	//   - entity: the entity to remove
	Remove(entity donburi.Entity)

	// Clear removes every entity and releases their GPU resources.
	Clear()

	// WarmUp compiles the pipeline variants requested by entities carrying
	// OutlineWarmUp components and blocks until compilation settles.
	//
	// Returns:
	//   - error: the joined compile errors, or nil
	WarmUp() error

	// Prepare resolves outline state for the frame: extracts outlined
	// entities, requests pipeline specializations, stages uniform writes and
	// computes the flood groups. Must run before BeginFrame.
	//
	// Parameters:
	//   - deltaTime: seconds since the previous frame
	//
	// Returns:
	//   - error: a configuration or GPU resource error
	Prepare(deltaTime float32) error

	// DrawCalls records the stencil and volume draws into the renderer's open
	// scene pass. Entities whose pipelines are still compiling are skipped
	// for the frame.
	//
	// Returns:
	//   - error: ErrNotPrepared if Prepare did not run this frame
	DrawCalls() error

	// DrawFlood records the jump-flood seed, propagation and composite passes
	// onto the frame encoder. Must run after the renderer's scene pass has
	// ended and before EndFrame.
	//
	// Returns:
	//   - error: ErrNotPrepared, or the first pass recording error
	DrawFlood() error

	// Release frees every GPU resource the scene owns.
	Release()
}

var _ Scene = &sceneImpl{}

// NewScene creates a scene with the provided options. A renderer and camera
// must be attached (via options or setters) before entities can be added or
// frames prepared.
//
// Parameters:
//   - options: functional options to configure the scene
//
// Returns:
//   - Scene: the newly created scene
func NewScene(options ...SceneBuilderOption) Scene {
	s := &sceneImpl{
		active:    true,
		layers:    outline.DefaultRenderLayers,
		scale:     1,
		world:     donburi.NewWorld(),
		resources: make(map[donburi.Entity]*entityResources),
		warmed:    make(map[donburi.Entity]struct{}),
		label:     "scene_" + strconv.FormatUint(sceneCount.Add(1)-1, 10),
	}
	for _, option := range options {
		option(s)
	}
	s.node = flood.NewNode(s.nodeOptions...)
	return s
}

func (s *sceneImpl) Name() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.name
}

func (s *sceneImpl) SetName(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.name = name
}

func (s *sceneImpl) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

func (s *sceneImpl) SetActive(active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = active
}

func (s *sceneImpl) Camera() camera.Camera {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.camera
}

func (s *sceneImpl) SetCamera(cam camera.Camera) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.camera = cam
}

func (s *sceneImpl) Renderer() renderer.Renderer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.renderer
}

func (s *sceneImpl) SetRenderer(r renderer.Renderer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.renderer = r
}

func (s *sceneImpl) World() donburi.World {
	return s.world
}

func (s *sceneImpl) Layers() outline.RenderLayers {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.layers
}

func (s *sceneImpl) SetLayers(layers outline.RenderLayers) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.layers = layers
}

func (s *sceneImpl) SetViewport(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	s.viewport = common.Viewport{Width: uint32(width), Height: uint32(height)}
}

func (s *sceneImpl) SetScale(scale float32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if scale > 0 {
		s.scale = scale
	}
}

func (s *sceneImpl) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.resources)
}

func (s *sceneImpl) Add(mesh model.Mesh, volume outline.OutlineVolume) (donburi.Entity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.renderer == nil {
		return 0, ErrNoRenderer
	}

	entity := s.world.Create(outline.VolumeComponent, outline.MeshBoundsComponent)
	entry := s.world.Entry(entity)
	outline.VolumeComponent.SetValue(entry, volume)

	world := make([]float32, 16)
	common.Identity(world)
	outline.MeshBoundsComponent.SetValue(entry, flood.MeshBounds{
		AABBMin:        mesh.AABBMin,
		AABBMax:        mesh.AABBMax,
		WorldFromLocal: world,
	})

	label := fmt.Sprintf("%s_entity_%d", s.label, entity)
	res := &entityResources{
		mesh:             mesh,
		meshProvider:     bind_group_provider.NewBindGroupProvider(label + "_mesh"),
		instanceProvider: bind_group_provider.NewBindGroupProvider(label + "_instance"),
	}

	if err := s.renderer.InitMeshBuffers(res.meshProvider, mesh.VertexData, mesh.IndexData, mesh.IndexCount); err != nil {
		s.world.Remove(entity)
		return 0, fmt.Errorf("scene: mesh buffers for %s: %w", label, err)
	}
	if err := s.renderer.InitBindGroup(res.instanceProvider, instanceBindGroupLayout(), nil, nil); err != nil {
		res.meshProvider.Release()
		s.world.Remove(entity)
		return 0, fmt.Errorf("scene: instance bind group for %s: %w", label, err)
	}

	s.resources[entity] = res
	return entity, nil
}

func (s *sceneImpl) Entry(entity donburi.Entity) *donburi.Entry {
	if !s.world.Valid(entity) {
		return nil
	}
	return s.world.Entry(entity)
}

func (s *sceneImpl) SetWorldFromLocal(entity donburi.Entity, worldFromLocal []float32) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.resources[entity]; !ok || !s.world.Valid(entity) {
		return ErrUnknownEntity
	}
	entry := s.world.Entry(entity)
	bounds := outline.MeshBoundsComponent.Get(entry)
	copy(bounds.WorldFromLocal, worldFromLocal)
	return nil
}

func (s *sceneImpl) Remove(entity donburi.Entity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removeLocked(entity)
}

func (s *sceneImpl) removeLocked(entity donburi.Entity) {
	if res, ok := s.resources[entity]; ok {
		res.meshProvider.Release()
		res.instanceProvider.Release()
		if res.maskProvider != nil {
			res.maskProvider.Release()
		}
		delete(s.resources, entity)
	}
	delete(s.warmed, entity)
	if s.world.Valid(entity) {
		s.world.Remove(entity)
	}
}

func (s *sceneImpl) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for entity := range s.resources {
		s.removeLocked(entity)
	}
}

func (s *sceneImpl) WarmUp() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.renderer == nil {
		return ErrNoRenderer
	}

	var errs []error
	for entity, res := range s.resources {
		if !s.world.Valid(entity) {
			continue
		}
		entry := s.world.Entry(entity)
		if !entry.HasComponent(outline.WarmUpComponent) {
			continue
		}
		warmUp := *outline.WarmUpComponent.Get(entry)
		computed := outline.Resolve(entry)
		keys := warmUp.DerivedKeys(computed, s.viewKey, res.mesh.Topology, res.mesh.MorphTargets)
		if err := s.renderer.WarmUp(res.mesh.Layout, keys...); err != nil {
			errs = append(errs, err)
		}
		s.warmed[entity] = struct{}{}
	}
	return errors.Join(errs...)
}

// ensureGPU lazily creates the resources that need a live renderer: the flood
// executor and the camera's view bind group. Caller must hold the mutex.
func (s *sceneImpl) ensureGPU() error {
	if s.executor == nil {
		executor, err := flood.NewGPUExecutor(s.renderer.Device(), s.renderer.Queue(), s.renderer.SurfaceFormat(), uint32(s.renderer.SampleCount()))
		if err != nil {
			return fmt.Errorf("scene: flood executor: %w", err)
		}
		s.executor = executor
	}
	s.viewKey = pipeline.NewViewKey().WithMsaaSamples(uint32(s.renderer.SampleCount()))

	provider := s.camera.BindGroupProvider()
	if provider.BindGroup() == nil {
		if err := s.renderer.InitBindGroup(provider, viewBindGroupLayout(), nil, nil); err != nil {
			return fmt.Errorf("scene: view bind group: %w", err)
		}
	}
	return nil
}

// ensureMask keeps an entity's alpha mask bind group in sync with its mask
// component. Caller must hold the mutex.
func (s *sceneImpl) ensureMask(res *entityResources, mask outline.OutlineAlphaMask) error {
	if mask.Texture == res.maskView {
		return nil
	}
	if res.maskProvider != nil {
		// The texture view belongs to the caller; detach it before releasing
		// so the provider only frees what it owns.
		res.maskProvider.SetTextureViews(map[int]*wgpu.TextureView{})
		res.maskProvider.Release()
		res.maskProvider = nil
	}
	res.maskView = mask.Texture
	if mask.Texture == nil {
		return nil
	}

	provider := bind_group_provider.NewBindGroupProvider(res.meshProvider.Label() + "_alpha_mask")
	provider.SetTextureView(0, mask.Texture)
	if err := s.renderer.InitSampler(provider, 1, common.SamplerStagingData{
		AddressModeU: wgpu.AddressModeClampToEdge,
		AddressModeV: wgpu.AddressModeClampToEdge,
		AddressModeW: wgpu.AddressModeClampToEdge,
		MagFilter:    wgpu.FilterModeLinear,
		MinFilter:    wgpu.FilterModeLinear,
		LodMaxClamp:  32,
	}); err != nil {
		return fmt.Errorf("scene: alpha mask sampler: %w", err)
	}
	if err := s.renderer.InitBindGroup(provider, alphaMaskBindGroupLayout(), nil, nil); err != nil {
		return fmt.Errorf("scene: alpha mask bind group: %w", err)
	}
	res.maskProvider = provider
	return nil
}

func (s *sceneImpl) Prepare(deltaTime float32) error {
	_ = deltaTime

	s.mu.Lock()
	defer s.mu.Unlock()

	switch {
	case s.renderer == nil:
		return ErrNoRenderer
	case s.camera == nil:
		return ErrNoCamera
	case s.viewport.Width == 0 || s.viewport.Height == 0:
		return ErrNoViewport
	}
	if err := s.ensureGPU(); err != nil {
		return err
	}

	s.camera.Update()
	clipFromWorld := s.camera.ViewProjectionMatrix()
	view := flood.View{
		ClipFromWorld: clipFromWorld[:],
		Viewport:      s.viewport,
		Scale:         s.scale,
	}

	viewUniform := flood.NewViewUniform(view.ClipFromWorld, view.Viewport)
	viewProvider := s.camera.BindGroupProvider()
	writes := []bind_group_provider.BufferWrite{
		{Provider: viewProvider, Binding: 0, Data: viewUniform.Bytes()},
	}

	var eyeX, eyeY, eyeZ float32
	if controller := s.camera.Controller(); controller != nil {
		eyeX, eyeY, eyeZ = controller.Position()
	}

	cache := s.renderer.Cache()
	extracted := outline.Extract(s.world, s.layers)
	frustum := common.ExtractFrustumFromMatrix(view.ClipFromWorld)

	s.frameItems = s.frameItems[:0]
	var candidates []flood.Candidate
	uniforms := make([]flood.InstanceUniform, len(extracted))

	for i, ex := range extracted {
		res, ok := s.resources[ex.Entity]
		if !ok {
			continue
		}
		// Cull entities whose world-space bounds fall outside the view
		// frustum. Extruded outlines overhang the mesh by a few pixels, so
		// the near-edge test is conservative, but a box fully outside the
		// frustum cannot contribute to any pass.
		wmin, wmax := worldBounds(ex.Mesh)
		if !frustum.IntersectsAABB(wmin[0], wmin[1], wmin[2], wmax[0], wmax[1], wmax[2]) {
			continue
		}
		if err := s.ensureMask(res, ex.Computed.AlphaMask); err != nil {
			return err
		}

		u := &uniforms[i]
		u.SetWorldFromLocal(ex.Mesh.WorldFromLocal)
		u.VolumeOffset = flood.ScaledOffset(ex.Computed.Volume.Width, s.scale)
		u.StencilOffset = flood.ScaledOffset(ex.Computed.Stencil.Offset, s.scale)
		u.VolumeColour = ex.Computed.Volume.Colour
		u.AlphaMaskThreshold = ex.Computed.AlphaMask.Threshold

		origin := common.TransformPoint3(ex.Mesh.WorldFromLocal,
			ex.Computed.PlaneDepth.ModelPlaneOrigin[0],
			ex.Computed.PlaneDepth.ModelPlaneOrigin[1],
			ex.Computed.PlaneDepth.ModelPlaneOrigin[2])
		u.WorldPlaneOrigin = origin
		u.WorldPlaneOffset = common.TransformDirection3(ex.Mesh.WorldFromLocal,
			ex.Computed.PlaneDepth.ModelPlaneOffset[0],
			ex.Computed.PlaneDepth.ModelPlaneOffset[1],
			ex.Computed.PlaneDepth.ModelPlaneOffset[2])

		writes = append(writes, bind_group_provider.BufferWrite{
			Provider: res.instanceProvider,
			Binding:  0,
			Data:     u.Bytes(),
		})

		item := drawItem{
			res:      res,
			distance: distance3(eyeX, eyeY, eyeZ, origin),
			baseGroups: []bind_group_provider.BindGroupProvider{
				viewProvider, res.instanceProvider,
			},
		}
		item.maskGroups = item.baseGroups
		if res.maskProvider != nil {
			item.maskGroups = append(item.baseGroups[:2:2], res.maskProvider)
		}

		entityKey := ex.Computed.EntityKey(res.mesh.Topology, res.mesh.MorphTargets)
		var floodHandle *renderer.PipelineHandle
		for _, pass := range ex.Computed.PassTypes() {
			key := pipeline.DeriveKey(s.viewKey, entityKey, pass)
			handle, err := cache.Specialize(key, res.mesh.Layout)
			if err != nil {
				// The mesh is missing an attribute this variant needs. Drop
				// the pass for the frame; the entity may still draw others.
				common.Logger().Debug("outline pass dropped",
					"entity", uint64(ex.Entity), "pass", uint32(pass), "error", err)
				continue
			}
			switch pass {
			case pipeline.PassTypeStencil:
				item.stencil = handle
			case pipeline.PassTypeVolume:
				item.volume = handle
			case pipeline.PassTypeFloodInit:
				floodHandle = handle
			}
		}

		if floodHandle != nil {
			candidates = append(candidates, flood.Candidate{
				ID:       uint64(ex.Entity),
				Mesh:     ex.Mesh,
				Distance: item.distance,
				Width:    ex.Computed.Volume.Width,
				Colour:   ex.Computed.Volume.Colour,
				Draw: flood.SeedDraw{
					Handle:     floodHandle,
					Mesh:       res.meshProvider,
					BindGroups: item.maskGroups,
				},
			})
		}

		if item.stencil != nil || item.volume != nil {
			s.frameItems = append(s.frameItems, item)
		}

		s.warmUpEntity(ex.Entity, res)
	}

	s.renderer.WriteBuffers(writes)

	s.node.ComputeBounds(view, candidates)
	groups, err := s.node.Group()
	if err != nil {
		return err
	}

	s.frameView = view
	s.frameHasGroups = groups > 0
	s.framePrepared = true
	return nil
}

// warmUpEntity kicks off asynchronous compilation of an entity's requested
// warm-up variants the first time the entity is seen. Caller must hold the
// mutex.
func (s *sceneImpl) warmUpEntity(entity donburi.Entity, res *entityResources) {
	if _, done := s.warmed[entity]; done {
		return
	}
	s.warmed[entity] = struct{}{}

	entry := s.world.Entry(entity)
	if !entry.HasComponent(outline.WarmUpComponent) {
		return
	}
	warmUp := *outline.WarmUpComponent.Get(entry)
	computed := outline.Resolve(entry)
	cache := s.renderer.Cache()
	for _, key := range warmUp.DerivedKeys(computed, s.viewKey, res.mesh.Topology, res.mesh.MorphTargets) {
		if _, err := cache.Specialize(key, res.mesh.Layout); err != nil {
			common.Logger().Debug("warm-up variant dropped",
				"entity", uint64(entity), "error", err)
		}
	}
}

func (s *sceneImpl) DrawCalls() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.framePrepared {
		return ErrNotPrepared
	}

	// Stencils rasterize first so every volume tests against the complete
	// stencil depth.
	for i := range s.frameItems {
		item := &s.frameItems[i]
		if item.stencil != nil {
			s.renderer.Draw(item.stencil, item.res.meshProvider, 1, item.maskGroups)
		}
	}

	// Volumes draw back to front so transparent outlines blend correctly.
	order := make([]int, 0, len(s.frameItems))
	for i := range s.frameItems {
		if s.frameItems[i].volume != nil {
			order = append(order, i)
		}
	}
	sort.SliceStable(order, func(a, b int) bool {
		return s.frameItems[order[a]].distance > s.frameItems[order[b]].distance
	})
	for _, i := range order {
		item := &s.frameItems[i]
		s.renderer.Draw(item.volume, item.res.meshProvider, 1, item.baseGroups)
	}
	return nil
}

func (s *sceneImpl) DrawFlood() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.framePrepared {
		return ErrNotPrepared
	}
	s.framePrepared = false

	if !s.frameHasGroups {
		// No flood work: drive the node back to idle without touching the GPU.
		return s.node.Execute(s.executor, &s.textures)
	}

	if err := s.textures.Prepare(s.executor, s.viewport.Width, s.viewport.Height); err != nil {
		return fmt.Errorf("scene: flood textures: %w", err)
	}

	// Composites draw into the scene's own colour and depth attachments; when
	// multisampling is on, they resolve into the swapchain view.
	var resolve *wgpu.TextureView
	if s.renderer.SampleCount() > 1 {
		resolve = s.renderer.FrameView()
	}
	s.executor.BeginFrame(s.renderer.FrameEncoder(), s.renderer.FrameSceneView(), resolve, s.renderer.FrameDepthView(), s.frameView)
	err := s.node.Execute(s.executor, &s.textures)
	s.executor.EndFrame()
	return err
}

func (s *sceneImpl) Release() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for entity := range s.resources {
		s.removeLocked(entity)
	}
	s.textures.Release()
}

// distance3 returns the Euclidean distance between the eye and a point.
func distance3(eyeX, eyeY, eyeZ float32, p [3]float32) float32 {
	dx := p[0] - eyeX
	dy := p[1] - eyeY
	dz := p[2] - eyeZ
	return float32(math.Sqrt(float64(dx*dx + dy*dy + dz*dz)))
}

// worldBounds transforms a mesh's model-space bounding box to a world-space
// box covering all eight transformed corners.
func worldBounds(bounds flood.MeshBounds) (mn, mx [3]float32) {
	first := true
	for _, x := range [2]float32{bounds.AABBMin[0], bounds.AABBMax[0]} {
		for _, y := range [2]float32{bounds.AABBMin[1], bounds.AABBMax[1]} {
			for _, z := range [2]float32{bounds.AABBMin[2], bounds.AABBMax[2]} {
				p := common.TransformPoint3(bounds.WorldFromLocal, x, y, z)
				if first {
					mn, mx = p, p
					first = false
					continue
				}
				for a := 0; a < 3; a++ {
					if p[a] < mn[a] {
						mn[a] = p[a]
					}
					if p[a] > mx[a] {
						mx[a] = p[a]
					}
				}
			}
		}
	}
	return mn, mx
}
