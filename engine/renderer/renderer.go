package renderer

import (
	"errors"
	"sync"

	"github.com/Carmen-Shannon/oxy-outline/common"
	"github.com/Carmen-Shannon/oxy-outline/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-outline/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-outline/engine/window"
	"github.com/cogentcore/webgpu/wgpu"
)

// renderer is the implementation of the Renderer interface.
type renderer struct {
	mu *sync.Mutex

	cache SpecializationCache

	backendType RendererBackendType
	backend     RendererBackend

	// Pre-creation config collected from builder options
	forceFallbackAdapter bool
	pendingPresentMode   *PresentMode
	pendingMSAA          *MSAASampleCount
	cacheOptions         []SpecializationCacheOption
}

// Renderer defines the interface for the outline rendering system.
//
// This is a high-level API designed to simplify rendering tasks into a streamlined and idiomatic flow.
// The Renderer owns the pipeline specialization cache: draw sites derive a pipeline key per outline
// variant and the cache compiles each variant once, in the background. The Renderer also implements
// a backend which allows for multiple backend API implementations to exist.
type Renderer interface {
	// Cache returns the renderer's pipeline specialization cache.
	//
	// Returns:
	//   - SpecializationCache: the cache mapping derived keys to compiled pipelines
	Cache() SpecializationCache

	// WarmUp specializes every given pipeline variant against one mesh layout
	// and blocks until all compiles have settled, so the first frames don't
	// drop draws while pipelines build.
	//
	// Parameters:
	//   - layout: the mesh vertex layout to specialize against
	//   - keys: the derived pipeline keys to pre-compile
	//
	// Returns:
	//   - error: the joined specialization and compile errors, or nil
	WarmUp(layout pipeline.MeshLayout, keys ...pipeline.DerivedKey) error

	// Resize configures the underlying backend to handle a new surface size.
	// This should be called when re-sizing the window or when the surface size should change.
	//
	// Parameters:
	//   - width: the new width of the surface in pixels
	//   - height: the new height of the surface in pixels
	Resize(width, height int)

	// SetPresentMode sets the surface present mode which controls how frames are delivered to the display.
	// A call to Resize is required after changing this for the new mode to take effect.
	//
	// Parameters:
	//   - mode: the PresentMode to use (VSync or Uncapped)
	SetPresentMode(mode PresentMode)

	// SurfaceFormat returns the configured swapchain texture format.
	//
	// Returns:
	//   - wgpu.TextureFormat: the surface format
	SurfaceFormat() wgpu.TextureFormat

	// SampleCount returns the MSAA sample count of the scene render pass.
	// Outline view keys must carry this count so stencil and volume pipelines
	// match the pass attachments.
	//
	// Returns:
	//   - MSAASampleCount: the configured sample count
	SampleCount() MSAASampleCount

	// Device returns the backend's GPU device, for wiring auxiliary systems
	// such as the flood executor.
	//
	// Returns:
	//   - *wgpu.Device: the GPU device
	Device() *wgpu.Device

	// Queue returns the backend's GPU queue.
	//
	// Returns:
	//   - *wgpu.Queue: the GPU queue
	Queue() *wgpu.Queue

	// InitMeshBuffers creates GPU vertex and index buffers from raw byte data and stores them
	// on the given BindGroupProvider for later use in draw calls.
	//
	// Parameters:
	//   - provider: the BindGroupProvider to store the created buffers on
	//   - vertexData: the raw vertex data bytes to upload to the GPU
	//   - indexData: the raw index data bytes to upload to the GPU
	//   - indexCount: the number of indices, used for draw calls
	//
	// Returns:
	//   - error: an error if buffer creation fails
	InitMeshBuffers(provider bind_group_provider.BindGroupProvider, vertexData, indexData []byte, indexCount int) error

	// InitBindGroup creates GPU buffers and a bind group from a layout descriptor and stores them
	// on the given BindGroupProvider. Textures and samplers must be initialized via InitTextureView
	// and InitSampler before calling this method. Buffer usage and size can be overridden per binding.
	//
	// Parameters:
	//   - provider: the BindGroupProvider to store the created bind group on
	//   - descriptor: the layout descriptor defining the bind group entries
	//   - bufferUsageOverrides: additional buffer usage flags to OR into the derived usage, keyed by binding index (nil safe)
	//   - bufferSizeOverrides: custom buffer sizes to use instead of MinBindingSize, keyed by binding index (nil safe)
	//
	// Returns:
	//   - error: an error if bind group creation fails
	InitBindGroup(provider bind_group_provider.BindGroupProvider, descriptor wgpu.BindGroupLayoutDescriptor, bufferUsageOverrides map[int]wgpu.BufferUsage, bufferSizeOverrides map[int]uint64) error

	// InitTextureView creates a GPU texture from staging data and stores the resulting texture view
	// on the given BindGroupProvider at the specified binding index. Must be called before InitBindGroup
	// for any texture bindings.
	//
	// Parameters:
	//   - provider: the BindGroupProvider to store the created texture view on
	//   - bindingKey: the binding index for this texture
	//   - stagingData: the pixel data and dimensions for the texture
	//
	// Returns:
	//   - error: an error if texture creation fails
	InitTextureView(provider bind_group_provider.BindGroupProvider, bindingKey int, stagingData common.TextureStagingData) error

	// InitSampler creates a GPU sampler from staging data and stores it on the given BindGroupProvider
	// at the specified binding index. Must be called before InitBindGroup for any sampler bindings.
	//
	// Parameters:
	//   - provider: the BindGroupProvider to store the created sampler on
	//   - bindingKey: the binding index for this sampler
	//   - samplerStagingData: the sampler configuration
	//
	// Returns:
	//   - error: an error if sampler creation fails
	InitSampler(provider bind_group_provider.BindGroupProvider, bindingKey int, samplerStagingData common.SamplerStagingData) error

	// WriteBuffers writes all staged buffer writes to the GPU queue.
	// Each BufferWrite targets a specific buffer on a BindGroupProvider at a given binding and offset.
	//
	// Parameters:
	//   - writes: a slice of BufferWrite structs describing the data to write
	WriteBuffers(writes []bind_group_provider.BufferWrite)

	// BeginFrame acquires the swapchain texture and begins the scene render pass.
	// Must be paired with EndFrame after all draw and flood work within a single frame.
	//
	// Returns:
	//   - error: an error if the swapchain texture could not be acquired
	BeginFrame() error

	// Draw encodes a single instanced draw command within the scene pass,
	// using the handle's compiled pipeline. Handles that are still compiling
	// or failed to compile are skipped silently; the draw retries next frame.
	//
	// Parameters:
	//   - handle: the pipeline variant to draw with
	//   - meshProvider: the BindGroupProvider holding vertex and index buffers
	//   - instanceCount: the number of instances to draw
	//   - bindGroups: a slice of BindGroupProviders whose BindGroups will be set on the render pass
	//
	// Returns:
	//   - bool: true if the draw was encoded, false if it was skipped
	Draw(handle *PipelineHandle, meshProvider bind_group_provider.BindGroupProvider, instanceCount uint32, bindGroups []bind_group_provider.BindGroupProvider) bool

	// EndScenePass ends the scene render pass while keeping the frame open,
	// so the flood passes can be recorded onto the same command encoder.
	EndScenePass()

	// FrameEncoder returns the current frame's command encoder, or nil when no
	// frame is open.
	//
	// Returns:
	//   - *wgpu.CommandEncoder: the frame encoder or nil
	FrameEncoder() *wgpu.CommandEncoder

	// FrameView returns the current frame's swapchain view, or nil when no
	// frame is open.
	//
	// Returns:
	//   - *wgpu.TextureView: the swapchain view or nil
	FrameView() *wgpu.TextureView

	// FrameSceneView returns the view the scene pass renders colour into: the
	// MSAA texture when multisampling is on, otherwise the swapchain view.
	//
	// Returns:
	//   - *wgpu.TextureView: the scene colour view, or nil when no frame is open
	FrameSceneView() *wgpu.TextureView

	// FrameDepthView returns the scene pass's depth view, stored at the end of
	// the scene pass so the flood composite can depth-test against it.
	//
	// Returns:
	//   - *wgpu.TextureView: the depth view, or nil before the surface is configured
	FrameDepthView() *wgpu.TextureView

	// EndFrame submits the frame's command buffer to the GPU.
	// Does not present the surface — call Present() after EndFrame to display the frame.
	// Must be called after BeginFrame and all draw and flood work within a single frame.
	EndFrame()

	// Present presents the surface to the display and releases the swapchain texture.
	// Must be called once per frame after EndFrame.
	Present()
}

var _ Renderer = &renderer{}

// NewRenderer creates a new Renderer instance with the specified backend type and window.
// The backend compiles outline pipeline variants on demand through the renderer's
// specialization cache.
//
// Parameters:
//   - backendType: the type of rendering backend to use (e.g., WGPU)
//   - window: the window supplying the platform-specific surface descriptor
//   - options: variadic list of RendererBuilderOption functions to configure the Renderer
//
// Returns:
//   - Renderer: a new instance of Renderer configured with the specified backend and options
func NewRenderer(backendType RendererBackendType, window window.Window, options ...RendererBuilderOption) Renderer {
	r := &renderer{
		mu:          &sync.Mutex{},
		backendType: backendType,
	}

	// Apply options first so config flags (e.g. forceFallbackAdapter) are
	// available before the backend requests a GPU adapter.
	for _, opt := range options {
		opt(r)
	}

	msaa := MSAA4x // default
	if r.pendingMSAA != nil {
		msaa = *r.pendingMSAA
	}

	switch backendType {
	case BackendTypeWGPU:
		fallthrough
	default:
		r.backend = newWGPURendererBackend(window.SurfaceDescriptor(), r.forceFallbackAdapter, msaa)
	}

	if r.pendingPresentMode != nil {
		r.backend.SetPresentMode(*r.pendingPresentMode)
	}

	r.backend.ConfigureSurface(window.Width(), window.Height())
	r.cache = NewSpecializationCache(r.backend, r.cacheOptions...)
	return r
}

func (r *renderer) Cache() SpecializationCache {
	return r.cache
}

func (r *renderer) WarmUp(layout pipeline.MeshLayout, keys ...pipeline.DerivedKey) error {
	var errs []error
	handles := make([]*PipelineHandle, 0, len(keys))
	for _, key := range keys {
		h, err := r.cache.Specialize(key, layout)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		handles = append(handles, h)
	}

	r.cache.WaitReady()

	for _, h := range handles {
		if err := h.Err(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (r *renderer) Resize(width, height int) {
	r.backend.ConfigureSurface(width, height)
}

func (r *renderer) SetPresentMode(mode PresentMode) {
	r.backend.SetPresentMode(mode)
}

func (r *renderer) SurfaceFormat() wgpu.TextureFormat {
	return r.backend.SurfaceFormat()
}

func (r *renderer) SampleCount() MSAASampleCount {
	return r.backend.SampleCount()
}

func (r *renderer) Device() *wgpu.Device {
	return r.backend.Device()
}

func (r *renderer) Queue() *wgpu.Queue {
	return r.backend.Queue()
}

func (r *renderer) InitMeshBuffers(provider bind_group_provider.BindGroupProvider, vertexData, indexData []byte, indexCount int) error {
	return r.backend.InitMeshBuffers(provider, vertexData, indexData, indexCount)
}

func (r *renderer) InitBindGroup(provider bind_group_provider.BindGroupProvider, descriptor wgpu.BindGroupLayoutDescriptor, bufferUsageOverrides map[int]wgpu.BufferUsage, bufferSizeOverrides map[int]uint64) error {
	return r.backend.InitBindGroup(provider, descriptor, bufferUsageOverrides, bufferSizeOverrides)
}

func (r *renderer) InitTextureView(provider bind_group_provider.BindGroupProvider, bindingKey int, stagingData common.TextureStagingData) error {
	return r.backend.InitTextureView(provider, bindingKey, stagingData)
}

func (r *renderer) InitSampler(provider bind_group_provider.BindGroupProvider, bindingKey int, samplerStagingData common.SamplerStagingData) error {
	return r.backend.InitSampler(provider, bindingKey, samplerStagingData)
}

func (r *renderer) WriteBuffers(writes []bind_group_provider.BufferWrite) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.backend.WriteBuffers(writes)
}

func (r *renderer) BeginFrame() error {
	return r.backend.BeginFrame()
}

func (r *renderer) Draw(handle *PipelineHandle, meshProvider bind_group_provider.BindGroupProvider, instanceCount uint32, bindGroups []bind_group_provider.BindGroupProvider) bool {
	if handle == nil {
		return false
	}
	p, ok := handle.Pipeline()
	if !ok {
		return false
	}

	r.backend.DrawCall(p, meshProvider, instanceCount, bindGroups)
	return true
}

func (r *renderer) EndScenePass() {
	r.backend.EndScenePass()
}

func (r *renderer) FrameEncoder() *wgpu.CommandEncoder {
	return r.backend.FrameEncoder()
}

func (r *renderer) FrameView() *wgpu.TextureView {
	return r.backend.FrameView()
}

func (r *renderer) FrameSceneView() *wgpu.TextureView {
	return r.backend.FrameSceneView()
}

func (r *renderer) FrameDepthView() *wgpu.TextureView {
	return r.backend.FrameDepthView()
}

func (r *renderer) EndFrame() {
	r.backend.EndFrame()
}

func (r *renderer) Present() {
	r.backend.Present()
}
