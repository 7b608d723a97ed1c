package gpu

import (
	"errors"
	"fmt"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/ihero/render"
)

var (
	// ErrDeviceLost is returned by Render once the device is gone. It wraps
	// hal.ErrDeviceLost, so errors.Is matches either.
	ErrDeviceLost = fmt.Errorf("gpu: %w", hal.ErrDeviceLost)

	// ErrClosed is returned by Render and Resize after Destroy.
	ErrClosed = errors.New("gpu: renderer destroyed")
)

// Option configures a Renderer.
type Option func(*options)

type options struct {
	device    render.DeviceHandle
	surface   hal.Surface
	registry  *gpucontext.Registry[hal.Backend]
	materials map[render.Part]render.Material
}

// WithDevice makes the renderer borrow the host's device instead of
// opening its own. A borrowed device is never destroyed by the renderer.
func WithDevice(h render.DeviceHandle) Option {
	return func(o *options) { o.device = h }
}

// WithSurface presents every frame to s. Without a surface the frame is
// rendered into an offscreen output texture.
func WithSurface(s hal.Surface) Option {
	return func(o *options) { o.surface = s }
}

// WithRegistry selects backends from reg instead of every linked backend.
func WithRegistry(reg *gpucontext.Registry[hal.Backend]) Option {
	return func(o *options) { o.registry = reg }
}

// WithMaterials replaces the part material table.
func WithMaterials(m map[render.Part]render.Material) Option {
	return func(o *options) { o.materials = m }
}

// inflight is a submitted command buffer that may still execute.
type inflight struct {
	index uint64
	cmd   hal.CommandBuffer
}

// Renderer draws the hero scene through wgpu hal. The scene pass renders
// the mesh into an offscreen color and depth target; the portal pass
// samples it through the lens onto the output. When the frame disables the
// composite, the scene pass renders straight to the output.
//
// Renderer is not safe for concurrent use.
type Renderer struct {
	lease   *deviceLease
	device  hal.Device
	queue   hal.Queue
	surface hal.Surface

	depthSampled bool

	// Scene pipeline.
	sceneShader  hal.ShaderModule
	sceneLayout  hal.BindGroupLayout
	scenePipeLay hal.PipelineLayout
	scenePipe    hal.RenderPipeline
	sceneBuf     hal.Buffer
	sceneBind    hal.BindGroup

	// Portal pipeline.
	portalShader  hal.ShaderModule
	portalLayout  hal.BindGroupLayout
	portalPipeLay hal.PipelineLayout
	portalPipe    hal.RenderPipeline
	portalBuf     hal.Buffer
	portalBind    hal.BindGroup
	sampler       hal.Sampler

	mesh      hal.Buffer
	meshVerts uint32

	targets targetSet
	pending []inflight

	lost   bool
	closed bool
	frames int
}

// New creates a renderer, opening a device unless WithDevice is given.
// Every pipeline, the sampler, the uniform buffers and the mesh are created
// here; targets are created on the first Resize.
func New(opts ...Option) (*Renderer, error) {
	o := options{materials: render.DefaultMaterials}
	for _, opt := range opts {
		opt(&o)
	}

	if err := checkShaders(); err != nil {
		// The backend compiles WGSL itself; naga diagnostics are advisory.
		slogger().Warn("gpu: shader check failed", "err", err)
	}

	var lease *deviceLease
	var err error
	if o.device != nil {
		lease, err = borrowDevice(o.device)
	} else {
		reg := o.registry
		if reg == nil {
			reg = NewBackendRegistry()
		}
		lease, err = openDevice(reg)
	}
	if err != nil {
		return nil, err
	}

	r := &Renderer{
		lease:        lease,
		device:       lease.device,
		queue:        lease.queue,
		surface:      o.surface,
		depthSampled: lease.report.DepthSampling,
	}
	if err := r.init(o.materials); err != nil {
		r.Destroy()
		return nil, err
	}
	slogger().Debug("gpu: renderer created",
		"adapter", lease.report.Name, "depthSampled", r.depthSampled, "borrowed", !lease.owned)
	return r, nil
}

func (r *Renderer) init(materials map[render.Part]render.Material) error {
	if err := r.createScenePipeline(); err != nil {
		return err
	}
	if err := r.createPortalPipeline(); err != nil {
		return err
	}

	data, count := buildHeroMesh(heroParts, materials)
	mesh, err := r.createAndUploadBuffer("hero_mesh", data, gputypes.BufferUsageVertex|gputypes.BufferUsageCopyDst)
	if err != nil {
		return err
	}
	r.mesh = mesh
	r.meshVerts = count
	return nil
}

func (r *Renderer) createAndUploadBuffer(label string, data []byte, usage gputypes.BufferUsage) (hal.Buffer, error) {
	buf, err := r.device.CreateBuffer(&hal.BufferDescriptor{
		Label: label,
		Size:  uint64(len(data)),
		Usage: usage,
	})
	if err != nil {
		return nil, fmt.Errorf("create %s buffer: %w", label, err)
	}
	if err := r.queue.WriteBuffer(buf, 0, data); err != nil {
		r.device.DestroyBuffer(buf)
		return nil, fmt.Errorf("upload %s buffer: %w", label, err)
	}
	return buf, nil
}

func (r *Renderer) createScenePipeline() error { //nolint:dupl // GPU pipeline descriptors share structure but differ in labels, shaders, and vertex layouts
	shader, err := r.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  "hero_scene_shader",
		Source: hal.ShaderSource{WGSL: sceneShaderSource},
	})
	if err != nil {
		return fmt.Errorf("compile scene shader: %w", err)
	}
	r.sceneShader = shader

	layout, err := r.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "hero_scene_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: gputypes.ShaderStageVertex | gputypes.ShaderStageFragment,
				Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("create scene bind group layout: %w", err)
	}
	r.sceneLayout = layout

	pipeLayout, err := r.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            "hero_scene_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{r.sceneLayout},
	})
	if err != nil {
		return fmt.Errorf("create scene pipeline layout: %w", err)
	}
	r.scenePipeLay = pipeLayout

	blend := gputypes.BlendStatePremultiplied()
	keep := hal.StencilFaceState{
		Compare:     gputypes.CompareFunctionAlways,
		FailOp:      hal.StencilOperationKeep,
		DepthFailOp: hal.StencilOperationKeep,
		PassOp:      hal.StencilOperationKeep,
	}
	pipeline, err := r.device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  "hero_scene_pipeline",
		Layout: r.scenePipeLay,
		Vertex: hal.VertexState{
			Module:     r.sceneShader,
			EntryPoint: "vs_main",
			Buffers:    heroVertexLayout(),
		},
		Fragment: &hal.FragmentState{
			Module:     r.sceneShader,
			EntryPoint: "fs_main",
			Targets: []gputypes.ColorTargetState{
				{Format: colorFormat, Blend: &blend, WriteMask: gputypes.ColorWriteMaskAll},
			},
		},
		DepthStencil: &hal.DepthStencilState{
			Format:            depthFormat,
			DepthWriteEnabled: true,
			DepthCompare:      gputypes.CompareFunctionLess,
			StencilFront:      keep,
			StencilBack:       keep,
		},
		Primitive: gputypes.PrimitiveState{
			Topology: gputypes.PrimitiveTopologyTriangleList,
			CullMode: gputypes.CullModeNone,
		},
		Multisample: gputypes.MultisampleState{Count: 1, Mask: 0xFFFFFFFF},
	})
	if err != nil {
		return fmt.Errorf("create scene pipeline: %w", err)
	}
	r.scenePipe = pipeline

	buf, err := r.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "hero_scene_uniforms",
		Size:  sceneUniformSize,
		Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("create scene uniform buffer: %w", err)
	}
	r.sceneBuf = buf

	bind, err := r.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  "hero_scene_bind",
		Layout: r.sceneLayout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.BufferBinding{
				Buffer: r.sceneBuf.NativeHandle(), Offset: 0, Size: sceneUniformSize,
			}},
		},
	})
	if err != nil {
		return fmt.Errorf("create scene bind group: %w", err)
	}
	r.sceneBind = bind
	return nil
}

func (r *Renderer) createPortalPipeline() error { //nolint:dupl // GPU pipeline descriptors share structure but differ in labels, shaders, and vertex layouts
	shader, err := r.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  "hero_portal_shader",
		Source: hal.ShaderSource{WGSL: portalShaderSource(r.depthSampled)},
	})
	if err != nil {
		return fmt.Errorf("compile portal shader: %w", err)
	}
	r.portalShader = shader

	entries := []gputypes.BindGroupLayoutEntry{
		{
			Binding:    0,
			Visibility: gputypes.ShaderStageFragment,
			Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform},
		},
		{
			Binding:    1,
			Visibility: gputypes.ShaderStageFragment,
			Texture: &gputypes.TextureBindingLayout{
				SampleType:    gputypes.TextureSampleTypeFloat,
				ViewDimension: gputypes.TextureViewDimension2D,
			},
		},
		{
			Binding:    2,
			Visibility: gputypes.ShaderStageFragment,
			Sampler:    &gputypes.SamplerBindingLayout{Type: gputypes.SamplerBindingTypeFiltering},
		},
	}
	if r.depthSampled {
		entries = append(entries, gputypes.BindGroupLayoutEntry{
			Binding:    3,
			Visibility: gputypes.ShaderStageFragment,
			Texture: &gputypes.TextureBindingLayout{
				SampleType:    gputypes.TextureSampleTypeDepth,
				ViewDimension: gputypes.TextureViewDimension2D,
			},
		})
	}
	layout, err := r.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label:   "hero_portal_layout",
		Entries: entries,
	})
	if err != nil {
		return fmt.Errorf("create portal bind group layout: %w", err)
	}
	r.portalLayout = layout

	pipeLayout, err := r.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            "hero_portal_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{r.portalLayout},
	})
	if err != nil {
		return fmt.Errorf("create portal pipeline layout: %w", err)
	}
	r.portalPipeLay = pipeLayout

	pipeline, err := r.device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  "hero_portal_pipeline",
		Layout: r.portalPipeLay,
		Vertex: hal.VertexState{
			Module:     r.portalShader,
			EntryPoint: "vs_main",
		},
		Fragment: &hal.FragmentState{
			Module:     r.portalShader,
			EntryPoint: "fs_main",
			Targets: []gputypes.ColorTargetState{
				{Format: colorFormat, WriteMask: gputypes.ColorWriteMaskAll},
			},
		},
		Primitive: gputypes.PrimitiveState{
			Topology: gputypes.PrimitiveTopologyTriangleList,
			CullMode: gputypes.CullModeNone,
		},
		Multisample: gputypes.MultisampleState{Count: 1, Mask: 0xFFFFFFFF},
	})
	if err != nil {
		return fmt.Errorf("create portal pipeline: %w", err)
	}
	r.portalPipe = pipeline

	sampler, err := r.device.CreateSampler(&hal.SamplerDescriptor{
		Label:        "hero_portal_sampler",
		AddressModeU: gputypes.AddressModeClampToEdge,
		AddressModeV: gputypes.AddressModeClampToEdge,
		AddressModeW: gputypes.AddressModeClampToEdge,
		MagFilter:    gputypes.FilterModeLinear,
		MinFilter:    gputypes.FilterModeLinear,
		MipmapFilter: gputypes.FilterModeLinear,
	})
	if err != nil {
		return fmt.Errorf("create portal sampler: %w", err)
	}
	r.sampler = sampler

	buf, err := r.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "hero_portal_uniforms",
		Size:  portalUniformSize,
		Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("create portal uniform buffer: %w", err)
	}
	r.portalBuf = buf
	return nil
}

// bindTargets rebuilds the portal bind group, which references the
// size-dependent scene targets.
func (r *Renderer) bindTargets() error {
	r.releasePortalBind()

	entries := []gputypes.BindGroupEntry{
		{Binding: 0, Resource: gputypes.BufferBinding{
			Buffer: r.portalBuf.NativeHandle(), Offset: 0, Size: portalUniformSize,
		}},
		{Binding: 1, Resource: gputypes.TextureViewBinding{TextureView: r.targets.colorView.NativeHandle()}},
		{Binding: 2, Resource: gputypes.SamplerBinding{Sampler: r.sampler.NativeHandle()}},
	}
	if r.depthSampled {
		entries = append(entries, gputypes.BindGroupEntry{
			Binding: 3, Resource: gputypes.TextureViewBinding{TextureView: r.targets.depthView.NativeHandle()},
		})
	}
	bind, err := r.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:   "hero_portal_bind",
		Layout:  r.portalLayout,
		Entries: entries,
	})
	if err != nil {
		return fmt.Errorf("create portal bind group: %w", err)
	}
	r.portalBind = bind
	return nil
}

func (r *Renderer) releasePortalBind() {
	if r.portalBind != nil {
		bind := r.portalBind
		safeRelease("portal bind group", func() { r.device.DestroyBindGroup(bind) })
		r.portalBind = nil
	}
}

// Resize recreates the targets and reconfigures the surface. Resizing to
// the current size is a no-op.
func (r *Renderer) Resize(width, height int) error {
	if r.closed {
		return ErrClosed
	}
	if width <= 0 || height <= 0 {
		return fmt.Errorf("gpu: invalid size %dx%d", width, height)
	}
	w, h := uint32(width), uint32(height)
	if r.targets.ready(w, h) {
		return nil
	}

	// Targets may still be referenced by in-flight work.
	r.waitIdle()

	if err := r.targets.ensure(r.device, w, h, r.depthSampled, r.surface == nil); err != nil {
		return r.check(err)
	}
	if err := r.bindTargets(); err != nil {
		return r.check(err)
	}
	if r.surface != nil {
		err := r.surface.Configure(r.device, &hal.SurfaceConfiguration{
			Width:       w,
			Height:      h,
			Format:      colorFormat,
			Usage:       gputypes.TextureUsageRenderAttachment,
			PresentMode: hal.PresentModeFifo,
			AlphaMode:   hal.CompositeAlphaModeOpaque,
		})
		if err != nil {
			return r.check(fmt.Errorf("configure surface: %w", err))
		}
	}
	slogger().Debug("gpu: targets resized", "width", w, "height", h)
	return nil
}

// Render draws one frame. The frame size drives Resize first.
func (r *Renderer) Render(f *render.Frame) error {
	if r.closed {
		return ErrClosed
	}
	if r.lost {
		return ErrDeviceLost
	}
	if err := r.Resize(f.Width, f.Height); err != nil {
		return err
	}
	r.reclaim()

	w, h := r.targets.width, r.targets.height
	if err := r.queue.WriteBuffer(r.sceneBuf, 0, makeSceneUniform(f)); err != nil {
		return r.check(fmt.Errorf("write scene uniforms: %w", err))
	}
	if f.Composite {
		if err := r.queue.WriteBuffer(r.portalBuf, 0, makePortalUniform(f, w, h)); err != nil {
			return r.check(fmt.Errorf("write portal uniforms: %w", err))
		}
	}

	outView, acquired, err := r.outputView()
	if err != nil {
		return r.check(err)
	}
	release := func() {
		if acquired != nil {
			r.device.DestroyTextureView(outView)
		}
	}

	encoder, err := r.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: "hero_frame_encoder"})
	if err != nil {
		release()
		r.discardSurface(acquired)
		return r.check(fmt.Errorf("create command encoder: %w", err))
	}
	if err := encoder.BeginEncoding("hero_frame"); err != nil {
		release()
		r.discardSurface(acquired)
		return r.check(fmt.Errorf("begin encoding: %w", err))
	}

	sceneTarget := outView
	if f.Composite {
		sceneTarget = r.targets.colorView
	}
	r.encodeScene(encoder, sceneTarget, f)
	if f.Composite {
		r.encodePortal(encoder, outView)
	}

	cmd, err := encoder.EndEncoding()
	if err != nil {
		release()
		r.discardSurface(acquired)
		return r.check(fmt.Errorf("end encoding: %w", err))
	}
	index, err := r.queue.Submit([]hal.CommandBuffer{cmd})
	if err != nil {
		r.device.FreeCommandBuffer(cmd)
		release()
		r.discardSurface(acquired)
		return r.check(fmt.Errorf("submit: %w", err))
	}
	r.pending = append(r.pending, inflight{index: index, cmd: cmd})

	if acquired != nil {
		err := r.queue.Present(r.surface, acquired.Texture, nil)
		release()
		if err != nil {
			return r.check(fmt.Errorf("present: %w", err))
		}
	}
	r.frames++
	return nil
}

// outputView returns the view the final pass writes to: the acquired
// surface texture, or the offscreen output.
func (r *Renderer) outputView() (hal.TextureView, *hal.AcquiredSurfaceTexture, error) {
	if r.surface == nil {
		return r.targets.outView, nil, nil
	}
	acquired, err := r.surface.AcquireTexture(nil)
	if err != nil {
		return nil, nil, fmt.Errorf("acquire surface texture: %w", err)
	}
	view, err := r.device.CreateTextureView(acquired.Texture, &hal.TextureViewDescriptor{
		Label:     "hero_surface_view",
		Format:    colorFormat,
		Dimension: gputypes.TextureViewDimension2D,
		Aspect:    gputypes.TextureAspectAll,
	})
	if err != nil {
		r.surface.DiscardTexture(acquired.Texture)
		return nil, nil, fmt.Errorf("create surface view: %w", err)
	}
	return view, acquired, nil
}

func (r *Renderer) discardSurface(acquired *hal.AcquiredSurfaceTexture) {
	if acquired != nil {
		r.surface.DiscardTexture(acquired.Texture)
	}
}

func (r *Renderer) encodeScene(encoder hal.CommandEncoder, target hal.TextureView, f *render.Frame) {
	fr, fg, fb := fogColor(f)
	rp := encoder.BeginRenderPass(&hal.RenderPassDescriptor{
		Label: "hero_scene_pass",
		ColorAttachments: []hal.RenderPassColorAttachment{
			{
				View:       target,
				LoadOp:     gputypes.LoadOpClear,
				StoreOp:    gputypes.StoreOpStore,
				ClearValue: gputypes.Color{R: fr, G: fg, B: fb, A: 1},
			},
		},
		DepthStencilAttachment: &hal.RenderPassDepthStencilAttachment{
			View:            r.targets.depthView,
			DepthLoadOp:     gputypes.LoadOpClear,
			DepthStoreOp:    gputypes.StoreOpStore,
			DepthClearValue: 1,
		},
	})
	rp.SetPipeline(r.scenePipe)
	rp.SetBindGroup(0, r.sceneBind, nil)
	rp.SetVertexBuffer(0, r.mesh, 0)
	rp.Draw(r.meshVerts, 1, 0, 0)
	rp.End()
}

func (r *Renderer) encodePortal(encoder hal.CommandEncoder, target hal.TextureView) {
	rp := encoder.BeginRenderPass(&hal.RenderPassDescriptor{
		Label: "hero_portal_pass",
		ColorAttachments: []hal.RenderPassColorAttachment{
			{
				View:       target,
				LoadOp:     gputypes.LoadOpClear,
				StoreOp:    gputypes.StoreOpStore,
				ClearValue: gputypes.Color{A: 1},
			},
		},
	})
	rp.SetPipeline(r.portalPipe)
	rp.SetBindGroup(0, r.portalBind, nil)
	rp.Draw(3, 1, 0, 0)
	rp.End()
}

// reclaim frees command buffers the GPU has finished with.
func (r *Renderer) reclaim() {
	if len(r.pending) == 0 {
		return
	}
	done := r.queue.PollCompleted()
	keep := r.pending[:0]
	for _, p := range r.pending {
		if p.index <= done {
			r.device.FreeCommandBuffer(p.cmd)
			continue
		}
		keep = append(keep, p)
	}
	r.pending = keep
}

// waitIdle blocks until submitted work finishes and frees its buffers.
func (r *Renderer) waitIdle() {
	if len(r.pending) == 0 {
		return
	}
	if err := r.device.WaitIdle(); err != nil {
		slogger().Warn("gpu: wait idle failed", "err", err)
	}
	for _, p := range r.pending {
		cmd := p.cmd
		safeRelease("command buffer", func() { r.device.FreeCommandBuffer(cmd) })
	}
	r.pending = nil
}

// check latches device loss. Once lost, every later Render returns
// ErrDeviceLost without touching the device.
func (r *Renderer) check(err error) error {
	if errors.Is(err, hal.ErrDeviceLost) || errors.Is(err, hal.ErrSurfaceLost) {
		if !r.lost {
			slogger().Warn("gpu: device lost", "err", err)
		}
		r.lost = true
		return fmt.Errorf("%w: %v", ErrDeviceLost, err)
	}
	return err
}

// Frames returns the number of frames submitted.
func (r *Renderer) Frames() int { return r.frames }

// Lost reports whether the device has been lost.
func (r *Renderer) Lost() bool { return r.lost }

// Adapter reports the adapter the renderer runs on.
func (r *Renderer) Adapter() AdapterReport { return r.lease.report }

// Capabilities implements render.CapableRenderer.
func (r *Renderer) Capabilities() render.Capabilities {
	rep := r.lease.report
	return render.Capabilities{
		Name:           rep.Name,
		IsGPU:          rep.DeviceType != gputypes.DeviceTypeCPU,
		DepthTexture:   r.depthSampled,
		MaxTextureSize: int(rep.MaxTextureSize),
	}
}

// Destroy releases every GPU resource in reverse creation order, then the
// device when the renderer opened it. Each release is guarded so a failing
// one does not stop the rest. Destroy is idempotent.
func (r *Renderer) Destroy() {
	if r.closed {
		return
	}
	r.closed = true
	if r.device == nil {
		return
	}
	d := r.device

	if !r.lost {
		r.waitIdle()
	}
	r.pending = nil
	r.releasePortalBind()
	r.targets.destroy(d)

	if r.surface != nil {
		s := r.surface
		safeRelease("surface", func() { s.Unconfigure(d) })
	}
	if r.mesh != nil {
		buf := r.mesh
		safeRelease("mesh", func() { d.DestroyBuffer(buf) })
		r.mesh = nil
	}
	if r.portalBuf != nil {
		buf := r.portalBuf
		safeRelease("portal uniforms", func() { d.DestroyBuffer(buf) })
		r.portalBuf = nil
	}
	if r.sampler != nil {
		s := r.sampler
		safeRelease("sampler", func() { d.DestroySampler(s) })
		r.sampler = nil
	}
	if r.portalPipe != nil {
		p := r.portalPipe
		safeRelease("portal pipeline", func() { d.DestroyRenderPipeline(p) })
		r.portalPipe = nil
	}
	if r.portalPipeLay != nil {
		l := r.portalPipeLay
		safeRelease("portal pipeline layout", func() { d.DestroyPipelineLayout(l) })
		r.portalPipeLay = nil
	}
	if r.portalLayout != nil {
		l := r.portalLayout
		safeRelease("portal bind group layout", func() { d.DestroyBindGroupLayout(l) })
		r.portalLayout = nil
	}
	if r.portalShader != nil {
		s := r.portalShader
		safeRelease("portal shader", func() { d.DestroyShaderModule(s) })
		r.portalShader = nil
	}
	if r.sceneBind != nil {
		b := r.sceneBind
		safeRelease("scene bind group", func() { d.DestroyBindGroup(b) })
		r.sceneBind = nil
	}
	if r.sceneBuf != nil {
		buf := r.sceneBuf
		safeRelease("scene uniforms", func() { d.DestroyBuffer(buf) })
		r.sceneBuf = nil
	}
	if r.scenePipe != nil {
		p := r.scenePipe
		safeRelease("scene pipeline", func() { d.DestroyRenderPipeline(p) })
		r.scenePipe = nil
	}
	if r.scenePipeLay != nil {
		l := r.scenePipeLay
		safeRelease("scene pipeline layout", func() { d.DestroyPipelineLayout(l) })
		r.scenePipeLay = nil
	}
	if r.sceneLayout != nil {
		l := r.sceneLayout
		safeRelease("scene bind group layout", func() { d.DestroyBindGroupLayout(l) })
		r.sceneLayout = nil
	}
	if r.sceneShader != nil {
		s := r.sceneShader
		safeRelease("scene shader", func() { d.DestroyShaderModule(s) })
		r.sceneShader = nil
	}

	r.lease.release()
	slogger().Debug("gpu: renderer destroyed", "frames", r.frames)
}
