package flood

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oxy-outline/common"
	"github.com/Carmen-Shannon/oxy-outline/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-outline/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

// ErrNoFrame is returned when a pass is recorded outside BeginFrame/EndFrame.
var ErrNoFrame = errors.New("flood: executor frame not begun")

// ErrUniformSlotsExhausted is returned when a frame records more composite
// passes than the executor has uniform slots for.
var ErrUniformSlotsExhausted = errors.New("flood: composite uniform slots exhausted")

// uniformSlotSize is the dynamic-offset stride of the per-pass uniform
// buffers, matching the minimum uniform buffer offset alignment.
const uniformSlotSize = 256

// strideSlots bounds the jump-flood stride table. Slot i holds stride 1<<i,
// which covers targets up to 65536 pixels wide.
const strideSlots = 16

// gpuTexture is the production Texture, wrapping a wgpu render target.
type gpuTexture struct {
	texture       *wgpu.Texture
	view          *wgpu.TextureView
	width, height uint32
}

func (t *gpuTexture) View() *wgpu.TextureView { return t.view }
func (t *gpuTexture) Width() uint32           { return t.width }
func (t *gpuTexture) Height() uint32          { return t.height }

func (t *gpuTexture) Release() {
	if t.view != nil {
		t.view.Release()
		t.view = nil
	}
	if t.texture != nil {
		t.texture.Release()
		t.texture = nil
	}
}

// gpuExecutor is the implementation of the GPUExecutor interface.
type gpuExecutor struct {
	device *wgpu.Device
	queue  *wgpu.Queue

	// targetFormat is the composite pass's colour target format, the view's
	// swapchain format.
	targetFormat wgpu.TextureFormat
	// sampleCount is the scene pass's multisample count. The composite pass
	// draws into the scene's colour and depth attachments, so its pipeline
	// must match.
	sampleCount uint32

	propagatePipeline *wgpu.RenderPipeline
	propagateLayout   *wgpu.BindGroupLayout
	compositePipeline *wgpu.RenderPipeline
	compositeLayout   *wgpu.BindGroupLayout

	// strideBuffer holds one pre-written stride value per dynamic-offset slot.
	strideBuffer *wgpu.Buffer
	// compositeBuffer holds per-pass composite uniforms; slots are handed out
	// in frame order and recycled by BeginFrame.
	compositeBuffer *wgpu.Buffer
	compositeSlots  int
	compositeUsed   int

	// Bind groups are cached per input texture view. The distance textures
	// are pooled across frames, so the cache stays valid until Acquire
	// replaces them.
	propagateGroups map[*wgpu.TextureView]*wgpu.BindGroup
	compositeGroups map[*wgpu.TextureView]*wgpu.BindGroup

	// Frame state supplied by BeginFrame.
	encoder      *wgpu.CommandEncoder
	frameView    *wgpu.TextureView
	frameResolve *wgpu.TextureView
	frameDepth   *wgpu.TextureView
	view         View
}

// GPUExecutor records flood passes onto a frame's command encoder and
// allocates the distance textures the passes run over.
type GPUExecutor interface {
	Executor
	TextureAllocator

	// BeginFrame supplies the frame's command encoder, the attachments the
	// composite pass draws into, and the view parameters. Must be called
	// after the scene pass has ended and before Node.Execute.
	//
	// The composite pass depth-tests outlines against the scene, so target
	// and depth are the scene pass's own attachments and must match the
	// executor's sample count. resolve is the single-sample view multisampled
	// composites resolve into, nil when multisampling is off.
	//
	// Parameters:
	//   - encoder: the frame's command encoder
	//   - target: the view the scene pass rendered colour into
	//   - resolve: the resolve target for multisampled composites, or nil
	//   - depth: the scene pass's depth view
	//   - view: the view parameters for this frame
	BeginFrame(encoder *wgpu.CommandEncoder, target, resolve, depth *wgpu.TextureView, view View)

	// EndFrame drops the frame references taken by BeginFrame.
	EndFrame()
}

var _ GPUExecutor = &gpuExecutor{}

// NewGPUExecutor creates the production flood executor. The propagation and
// composite pipelines are compiled up front; seed pipelines arrive per draw
// through the specialization cache.
//
// Parameters:
//   - device: the GPU device
//   - queue: the GPU queue
//   - targetFormat: the composite pass's colour target format
//   - sampleCount: the scene pass's multisample count
//
// Returns:
//   - GPUExecutor: the executor
//   - error: an error if shader processing or pipeline creation fails
func NewGPUExecutor(device *wgpu.Device, queue *wgpu.Queue, targetFormat wgpu.TextureFormat, sampleCount uint32) (GPUExecutor, error) {
	if sampleCount == 0 {
		sampleCount = 1
	}
	e := &gpuExecutor{
		device:          device,
		queue:           queue,
		targetFormat:    targetFormat,
		sampleCount:     sampleCount,
		compositeSlots:  64,
		propagateGroups: make(map[*wgpu.TextureView]*wgpu.BindGroup),
		compositeGroups: make(map[*wgpu.TextureView]*wgpu.BindGroup),
	}
	if err := e.initPipelines(); err != nil {
		return nil, err
	}
	if err := e.initUniformBuffers(); err != nil {
		return nil, err
	}
	return e, nil
}

func (e *gpuExecutor) BeginFrame(encoder *wgpu.CommandEncoder, target, resolve, depth *wgpu.TextureView, view View) {
	e.encoder = encoder
	e.frameView = target
	e.frameResolve = resolve
	e.frameDepth = depth
	e.view = view
	e.compositeUsed = 0
}

func (e *gpuExecutor) EndFrame() {
	e.encoder = nil
	e.frameView = nil
	e.frameResolve = nil
	e.frameDepth = nil
}

func (e *gpuExecutor) Acquire(width, height uint32) (Texture, error) {
	tex, err := e.device.CreateTexture(&wgpu.TextureDescriptor{
		Label: "Flood Distance Texture",
		Size: wgpu.Extent3D{
			Width:              width,
			Height:             height,
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        pipeline.FormatFlood,
		Usage:         wgpu.TextureUsageRenderAttachment | wgpu.TextureUsageTextureBinding,
	})
	if err != nil {
		return nil, fmt.Errorf("flood texture: %w", err)
	}
	view, err := tex.CreateView(nil)
	if err != nil {
		tex.Release()
		return nil, fmt.Errorf("flood texture view: %w", err)
	}

	// New textures mean the old views are going away; drop the bind group
	// caches keyed by them.
	e.invalidateBindGroups()

	return &gpuTexture{texture: tex, view: view, width: width, height: height}, nil
}

func (e *gpuExecutor) SeedInit(target Texture, group *Group, viewport common.Viewport) error {
	if e.encoder == nil {
		return ErrNoFrame
	}

	pass := e.encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		Label: "Flood Seed Pass",
		ColorAttachments: []wgpu.RenderPassColorAttachment{
			{
				View:    target.View(),
				LoadOp:  wgpu.LoadOpClear,
				StoreOp: wgpu.StoreOpStore,
				// Off-seed sentinel: negative x marks "no seed here".
				ClearValue: wgpu.Color{R: -1, G: -1, B: -1, A: 0},
			},
		},
	})
	defer pass.End()

	pass.SetViewport(float32(viewport.X), float32(viewport.Y),
		float32(viewport.Width), float32(viewport.Height), 0, 1)
	setScissor(pass, group.Bounds, target.Width(), target.Height())

	for i := range group.Items {
		d := &group.Items[i].Draw
		if d.Handle == nil || d.Mesh == nil {
			continue
		}
		p, ok := d.Handle.Pipeline()
		if !ok {
			continue
		}

		pass.SetPipeline(p)
		for g, bg := range d.BindGroups {
			pass.SetBindGroup(uint32(g), bg.BindGroup(), nil)
		}
		pass.SetVertexBuffer(0, d.Mesh.VertexBuffer(), 0, wgpu.WholeSize)
		pass.SetIndexBuffer(d.Mesh.IndexBuffer(), wgpu.IndexFormatUint32, 0, wgpu.WholeSize)
		pass.DrawIndexed(uint32(d.Mesh.IndexCount()), 1, 0, 0, 0)
	}

	return nil
}

func (e *gpuExecutor) Propagate(input, output Texture, stride uint32, bounds common.URect) error {
	if e.encoder == nil {
		return ErrNoFrame
	}

	slot := strideSlot(stride)
	if slot >= strideSlots {
		return fmt.Errorf("flood: stride %d exceeds the stride table", stride)
	}

	bindGroup, err := e.propagateBindGroup(input.View())
	if err != nil {
		return err
	}

	pass := e.encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		Label: "Flood Propagation Pass",
		ColorAttachments: []wgpu.RenderPassColorAttachment{
			{
				View:       output.View(),
				LoadOp:     wgpu.LoadOpClear,
				StoreOp:    wgpu.StoreOpStore,
				ClearValue: wgpu.Color{R: -1, G: -1, B: -1, A: 0},
			},
		},
	})
	defer pass.End()

	setScissor(pass, bounds, output.Width(), output.Height())
	pass.SetPipeline(e.propagatePipeline)
	pass.SetBindGroup(0, bindGroup, []uint32{uint32(slot) * uniformSlotSize})
	pass.Draw(3, 1, 0, 0)

	return nil
}

func (e *gpuExecutor) Composite(input Texture, group *Group, bounds common.URect) error {
	if e.encoder == nil || e.frameView == nil || e.frameDepth == nil {
		return ErrNoFrame
	}
	if e.compositeUsed >= e.compositeSlots {
		return ErrUniformSlotsExhausted
	}

	slot := e.compositeUsed
	e.compositeUsed++
	uniform := NewComposeUniform(group, e.view.Scale)
	e.queue.WriteBuffer(e.compositeBuffer, uint64(slot)*uniformSlotSize, uniform.Bytes())

	bindGroup, err := e.compositeBindGroup(input.View())
	if err != nil {
		return err
	}

	pass := e.encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		Label: "Flood Composite Pass",
		ColorAttachments: []wgpu.RenderPassColorAttachment{
			{
				View:          e.frameView,
				ResolveTarget: e.frameResolve,
				LoadOp:        wgpu.LoadOpLoad,
				StoreOp:       wgpu.StoreOpStore,
			},
		},
		// Outlines depth-test against the scene and write their own depth so
		// later composites sort against earlier ones.
		DepthStencilAttachment: &wgpu.RenderPassDepthStencilAttachment{
			View:         e.frameDepth,
			DepthLoadOp:  wgpu.LoadOpLoad,
			DepthStoreOp: wgpu.StoreOpStore,
		},
	})
	defer pass.End()

	setScissor(pass, bounds, input.Width(), input.Height())
	pass.SetPipeline(e.compositePipeline)
	pass.SetBindGroup(0, bindGroup, []uint32{uint32(slot) * uniformSlotSize})
	pass.Draw(3, 1, 0, 0)

	return nil
}

// initPipelines builds the propagation and composite pipelines. Both draw a
// fullscreen triangle and bind the input texture plus a dynamic-offset
// uniform, so their layouts are built by hand rather than parsed.
func (e *gpuExecutor) initPipelines() error {
	var err error
	e.propagateLayout, err = e.device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "Flood Propagation Layout",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageFragment,
				Texture: wgpu.TextureBindingLayout{
					SampleType:    wgpu.TextureSampleTypeUnfilterableFloat,
					ViewDimension: wgpu.TextureViewDimension2D,
				},
			},
			{
				Binding:    1,
				Visibility: wgpu.ShaderStageFragment,
				Buffer: wgpu.BufferBindingLayout{
					Type:             wgpu.BufferBindingTypeUniform,
					HasDynamicOffset: true,
					MinBindingSize:   4,
				},
			},
		},
	})
	if err != nil {
		return err
	}

	e.compositeLayout, err = e.device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "Flood Composite Layout",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageFragment,
				Texture: wgpu.TextureBindingLayout{
					SampleType:    wgpu.TextureSampleTypeUnfilterableFloat,
					ViewDimension: wgpu.TextureViewDimension2D,
				},
			},
			{
				Binding:    1,
				Visibility: wgpu.ShaderStageFragment,
				Buffer: wgpu.BufferBindingLayout{
					Type:             wgpu.BufferBindingTypeUniform,
					HasDynamicOffset: true,
					MinBindingSize:   ComposeUniformSize,
				},
			},
		},
	})
	if err != nil {
		return err
	}

	// Propagation writes straight into the distance texture, no blending and
	// no depth, always single-sampled.
	e.propagatePipeline, err = e.fullscreenPipeline(
		"Flood Propagation Pipeline",
		e.propagateLayout,
		shader.JumpFlood,
		wgpu.ColorTargetState{
			Format:    pipeline.FormatFlood,
			WriteMask: wgpu.ColorWriteMaskAll,
		},
		nil,
		1,
	)
	if err != nil {
		return err
	}

	// The composite shader emits premultiplied colour and the seed's depth,
	// drawn into the scene's own attachments.
	e.compositePipeline, err = e.fullscreenPipeline(
		"Flood Composite Pipeline",
		e.compositeLayout,
		shader.ComposeOutput,
		wgpu.ColorTargetState{
			Format: e.targetFormat,
			Blend: &wgpu.BlendState{
				Color: wgpu.BlendComponent{
					SrcFactor: wgpu.BlendFactorOne,
					DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
					Operation: wgpu.BlendOperationAdd,
				},
				Alpha: wgpu.BlendComponent{
					SrcFactor: wgpu.BlendFactorOne,
					DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
					Operation: wgpu.BlendOperationAdd,
				},
			},
			WriteMask: wgpu.ColorWriteMaskAll,
		},
		compositeDepthState(),
		e.sampleCount,
	)
	return err
}

// compositeDepthState is the depth state the composite pass tests outline
// fragments with. Reversed depth: greater passes, nearer fragments win.
func compositeDepthState() *wgpu.DepthStencilState {
	return &wgpu.DepthStencilState{
		Format:            pipeline.FormatDepth,
		DepthWriteEnabled: true,
		DepthCompare:      wgpu.CompareFunctionGreater,
		StencilFront: wgpu.StencilFaceState{
			Compare: wgpu.CompareFunctionAlways,
		},
		StencilBack: wgpu.StencilFaceState{
			Compare: wgpu.CompareFunctionAlways,
		},
	}
}

// fullscreenPipeline compiles one of the executor's fullscreen-triangle
// pipelines from a shader accessor.
func (e *gpuExecutor) fullscreenPipeline(
	label string,
	layout *wgpu.BindGroupLayout,
	source func(shader.ShaderType) (shader.Shader, error),
	target wgpu.ColorTargetState,
	depthStencil *wgpu.DepthStencilState,
	sampleCount uint32,
) (*wgpu.RenderPipeline, error) {
	vertexShader, err := source(shader.ShaderTypeVertex)
	if err != nil {
		return nil, err
	}
	fragmentShader, err := source(shader.ShaderTypeFragment)
	if err != nil {
		return nil, err
	}

	vs, err := e.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label: vertexShader.Key(),
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: vertexShader.Source(),
		},
	})
	if err != nil {
		return nil, err
	}
	fs, err := e.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label: fragmentShader.Key(),
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: fragmentShader.Source(),
		},
	})
	if err != nil {
		return nil, err
	}

	pipelineLayout, err := e.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            label + " Layout",
		BindGroupLayouts: []*wgpu.BindGroupLayout{layout},
	})
	if err != nil {
		return nil, err
	}

	return e.device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  label,
		Layout: pipelineLayout,
		Vertex: wgpu.VertexState{
			Module:     vs,
			EntryPoint: vertexShader.EntryPoint(),
		},
		Fragment: &wgpu.FragmentState{
			Module:     fs,
			EntryPoint: fragmentShader.EntryPoint(),
			Targets:    []wgpu.ColorTargetState{target},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyTriangleList,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  wgpu.CullModeNone,
		},
		DepthStencil: depthStencil,
		Multisample: wgpu.MultisampleState{
			Count: sampleCount,
			Mask:  0xFFFFFFFF,
		},
	})
}

func (e *gpuExecutor) initUniformBuffers() error {
	var err error
	e.strideBuffer, err = e.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "Flood Stride Buffer",
		Size:  strideSlots * uniformSlotSize,
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return err
	}
	// The stride table never changes: slot i holds stride 1<<i.
	for i := 0; i < strideSlots; i++ {
		stride := []uint32{1 << i}
		e.queue.WriteBuffer(e.strideBuffer, uint64(i)*uniformSlotSize, common.SliceToBytes(stride))
	}

	e.compositeBuffer, err = e.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "Flood Composite Buffer",
		Size:  uint64(e.compositeSlots) * uniformSlotSize,
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	return err
}

func (e *gpuExecutor) propagateBindGroup(input *wgpu.TextureView) (*wgpu.BindGroup, error) {
	if bg, ok := e.propagateGroups[input]; ok {
		return bg, nil
	}
	bg, err := e.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "Flood Propagation Bind Group",
		Layout: e.propagateLayout,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, TextureView: input},
			{Binding: 1, Buffer: e.strideBuffer, Offset: 0, Size: 4},
		},
	})
	if err != nil {
		return nil, err
	}
	e.propagateGroups[input] = bg
	return bg, nil
}

func (e *gpuExecutor) compositeBindGroup(input *wgpu.TextureView) (*wgpu.BindGroup, error) {
	if bg, ok := e.compositeGroups[input]; ok {
		return bg, nil
	}
	bg, err := e.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "Flood Composite Bind Group",
		Layout: e.compositeLayout,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, TextureView: input},
			{Binding: 1, Buffer: e.compositeBuffer, Offset: 0, Size: ComposeUniformSize},
		},
	})
	if err != nil {
		return nil, err
	}
	e.compositeGroups[input] = bg
	return bg, nil
}

func (e *gpuExecutor) invalidateBindGroups() {
	for _, bg := range e.propagateGroups {
		bg.Release()
	}
	for _, bg := range e.compositeGroups {
		bg.Release()
	}
	e.propagateGroups = make(map[*wgpu.TextureView]*wgpu.BindGroup)
	e.compositeGroups = make(map[*wgpu.TextureView]*wgpu.BindGroup)
}

// strideSlot maps a power-of-two stride to its slot in the stride table.
func strideSlot(stride uint32) int {
	slot := 0
	for stride > 1 {
		stride >>= 1
		slot++
	}
	return slot
}

// setScissor clamps a scissor rectangle to the target extent and applies it.
func setScissor(pass *wgpu.RenderPassEncoder, bounds common.URect, width, height uint32) {
	r := bounds.Intersect(common.URect{MaxX: width, MaxY: height})
	if r.Empty() {
		return
	}
	pass.SetScissorRect(r.MinX, r.MinY, r.MaxX-r.MinX, r.MaxY-r.MinY)
}
