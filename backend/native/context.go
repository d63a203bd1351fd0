// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package native

import (
	"errors"
	"fmt"

	"github.com/gogpu/gfx"
	"github.com/gogpu/gfx/handle"
	"github.com/gogpu/gfx/internal/frame"
	"github.com/gogpu/gfx/internal/pending"
	"github.com/gogpu/gfx/internal/pipecache"
	"github.com/gogpu/gfx/internal/scratch"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

const (
	backbufferFormat = gputypes.TextureFormatRGBA8Unorm
	depthFormat      = gputypes.TextureFormatDepth24PlusStencil8
)

type frameResources struct {
	encoder hal.CommandEncoder
	// cmd is the command buffer submitted from this slot. It is freed when
	// the slot comes around again.
	cmd        hal.CommandBuffer
	scratch    *scratch.Allocator[hal.Buffer]
	bindGroups []hal.BindGroup
}

// attachments is the set of views a render pass draws into.
type attachments struct {
	color       []hal.TextureView
	colorFormat []gputypes.TextureFormat
	depth       hal.TextureView
	width       uint32
	height      uint32
}

type graveEntry struct {
	value   uint64
	destroy func()
}

// Context is the hal implementation of gfx.Context.
type Context struct {
	pending.Tracker

	params   gfx.ContextParams
	verify   gfx.Verifier
	backend  gputypes.Backend
	family   gfx.AdapterFamily
	poolSize int

	width, height uint32
	initialized   bool
	resizePending bool

	instance hal.Instance
	adapter  hal.ExposedAdapter
	device   hal.Device
	queue    hal.Queue
	limits   gputypes.Limits

	surface       hal.Surface
	surfaceFormat gputypes.TextureFormat
	acquired      *hal.AcquiredSurfaceTexture
	acquiredView  hal.TextureView

	// Offscreen color target used when there is no surface, plus the
	// depth-stencil buffer shared by both paths.
	colorTex  hal.Texture
	colorView hal.TextureView
	depthTex  hal.Texture
	depthView hal.TextureView

	fence     *submissionFence
	ring      *frame.Ring[*frameResources]
	slot      *frame.Slot[*frameResources]
	submitted uint64

	pass       hal.RenderPassEncoder
	passTarget attachments
	scissor    pending.Rect

	pipelines *pipecache.Cache[*pipeline]

	textures      *handle.Container[*texture]
	renderTargets *handle.Container[*renderTarget]
	vertexBuffers *handle.Container[*buffer]
	indexBuffers  *handle.Container[*buffer]
	shaders       *handle.Container[*shader]
	programs      *handle.Container[*program]

	defaultTexture *texture
	graveyard      []graveEntry
}

// Initialize implements gfx.Context.
func (c *Context) Initialize() error {
	if c.initialized {
		return gfx.ErrAlreadyInitialized
	}
	backend, ok := hal.GetBackend(c.backend)
	if !ok {
		return fmt.Errorf("%w: %s", ErrBackendNotAvailable, c.backend)
	}

	flags := gputypes.InstanceFlagsNone
	if c.params.UseValidationLayers {
		flags = gputypes.InstanceFlagsDebug | gputypes.InstanceFlagsValidation
	}
	inst, err := backend.CreateInstance(&hal.InstanceDescriptor{
		Backends: 1 << c.backend,
		Flags:    flags,
	})
	if err != nil {
		return fmt.Errorf("native: create instance: %w", err)
	}
	c.instance = inst

	if c.params.Display != 0 || c.params.WindowHandle != 0 {
		s, err := inst.CreateSurface(c.params.Display, c.params.WindowHandle)
		if err != nil {
			return fmt.Errorf("native: create surface: %w", err)
		}
		c.surface = s
	}

	adapter, err := pickAdapter(inst.EnumerateAdapters(c.surface))
	if err != nil {
		return err
	}
	c.adapter = adapter
	c.limits = adapter.Capabilities.Limits
	if c.width > c.limits.MaxTextureDimension2D || c.height > c.limits.MaxTextureDimension2D {
		return fmt.Errorf("%w: %dx%d exceeds %d", ErrInvalidDimensions, c.width, c.height, c.limits.MaxTextureDimension2D)
	}

	dev, err := adapter.Adapter.Open(0, c.limits)
	if err != nil {
		return fmt.Errorf("native: open device: %w", err)
	}
	c.device, c.queue = dev.Device, dev.Queue
	c.fence = &submissionFence{queue: c.queue, device: c.device}

	if err := c.createBackbuffer(); err != nil {
		return err
	}

	ring, err := frame.NewRing(c.params.FramesInFlight, c.newFrameResources)
	if err != nil {
		return fmt.Errorf("native: initialize: %w", err)
	}
	c.ring = ring

	c.pipelines = pipecache.New[*pipeline](pipecache.WithLogger(gfx.Logger))
	c.textures = handle.NewContainer[*texture](64)
	c.renderTargets = handle.NewContainer[*renderTarget](8)
	c.vertexBuffers = handle.NewContainer[*buffer](64)
	c.indexBuffers = handle.NewContainer[*buffer](64)
	c.shaders = handle.NewContainer[*shader](32)
	c.programs = handle.NewContainer[*program](32)

	def, err := c.newDefaultTexture()
	if err != nil {
		return err
	}
	c.defaultTexture = def

	c.Reset(c.width, c.height)
	c.initialized = true

	if c.params.PrintDeviceInfo {
		info := adapter.Info
		gfx.Logger().Info("native: device",
			"name", info.Name,
			"vendor", info.Vendor,
			"driver", info.Driver,
			"driver_info", info.DriverInfo,
			"type", info.DeviceType.String(),
			"backend", c.backend.String(),
			"max_texture_size", c.limits.MaxTextureDimension2D,
			"frames_in_flight", c.ring.Len(),
		)
	}
	return nil
}

func (c *Context) newFrameResources(i int) (*frameResources, frame.Fence, error) {
	enc, err := c.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: fmt.Sprintf("gfx-frame-%d", i)})
	if err != nil {
		return nil, nil, fmt.Errorf("command encoder: %w", err)
	}
	a, err := scratch.New(c.poolSize, func(pool, _, size int) (hal.Buffer, error) {
		return c.device.CreateBuffer(&hal.BufferDescriptor{
			Label: fmt.Sprintf("gfx-scratch-%d-%d", i, pool),
			Size:  uint64(size), //nolint:gosec // G115: pool sizes are positive
			Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
		})
	})
	if err != nil {
		return nil, nil, fmt.Errorf("scratch: %w", err)
	}
	return &frameResources{encoder: enc, scratch: a}, c.fence, nil
}

// createBackbuffer configures the surface, or allocates the offscreen color
// texture, and the depth-stencil buffer at the current size.
func (c *Context) createBackbuffer() error {
	if c.surface != nil {
		if err := c.configureSurface(); err != nil {
			return err
		}
	} else {
		tex, view, err := c.createAttachment("gfx-backbuffer", backbufferFormat, c.width, c.height)
		if err != nil {
			return err
		}
		c.colorTex, c.colorView = tex, view
	}
	tex, view, err := c.createAttachment("gfx-depth", depthFormat, c.width, c.height)
	if err != nil {
		return err
	}
	c.depthTex, c.depthView = tex, view
	return nil
}

func (c *Context) releaseBackbuffer() {
	if c.colorTex != nil {
		c.bury(c.colorTex, c.colorView)
		c.colorTex, c.colorView = nil, nil
	}
	if c.depthTex != nil {
		c.bury(c.depthTex, c.depthView)
		c.depthTex, c.depthView = nil, nil
	}
}

func (c *Context) configureSurface() error {
	c.surfaceFormat = gputypes.TextureFormatBGRA8Unorm
	mode := hal.PresentModeFifo
	if caps := c.adapter.Adapter.SurfaceCapabilities(c.surface); caps != nil {
		if len(caps.Formats) > 0 && !containsFormat(caps.Formats, c.surfaceFormat) {
			c.surfaceFormat = caps.Formats[0]
		}
		if c.params.SwapInterval == 0 {
			for _, m := range caps.PresentModes {
				if m == hal.PresentModeImmediate || m == hal.PresentModeMailbox {
					mode = m
					break
				}
			}
		}
	}
	err := c.surface.Configure(c.device, &hal.SurfaceConfiguration{
		Width:       c.width,
		Height:      c.height,
		Format:      c.surfaceFormat,
		Usage:       gputypes.TextureUsageRenderAttachment,
		PresentMode: mode,
		AlphaMode:   hal.CompositeAlphaModeOpaque,
	})
	if err != nil {
		return fmt.Errorf("native: configure surface: %w", err)
	}
	return nil
}

func containsFormat(formats []gputypes.TextureFormat, f gputypes.TextureFormat) bool {
	for _, v := range formats {
		if v == f {
			return true
		}
	}
	return false
}

func (c *Context) createAttachment(label string, format gputypes.TextureFormat, width, height uint32) (hal.Texture, hal.TextureView, error) {
	usage := gputypes.TextureUsageRenderAttachment
	if !isDepthFormat(format) {
		usage |= gputypes.TextureUsageTextureBinding | gputypes.TextureUsageCopySrc
	}
	tex, err := c.device.CreateTexture(&hal.TextureDescriptor{
		Label:         label,
		Size:          hal.Extent3D{Width: width, Height: height, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        format,
		Usage:         usage,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("native: create %s: %w", label, err)
	}
	view, err := c.device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label:           label,
		Format:          format,
		Dimension:       gputypes.TextureViewDimension2D,
		Aspect:          gputypes.TextureAspectAll,
		MipLevelCount:   1,
		ArrayLayerCount: 1,
	})
	if err != nil {
		c.device.DestroyTexture(tex)
		return nil, nil, fmt.Errorf("native: create %s view: %w", label, err)
	}
	return tex, view, nil
}

// Finalize implements gfx.Context. It is safe to call on a context whose
// Initialize failed.
func (c *Context) Finalize() {
	if c.device == nil {
		c.destroyInstance()
		return
	}
	if c.pass != nil {
		c.pass.End()
		c.pass = nil
	}
	if c.slot != nil {
		c.slot.Resource.encoder.DiscardEncoding()
		c.ring.Abandon()
		c.slot = nil
	}
	if err := c.device.WaitIdle(); err != nil {
		gfx.Logger().Warn("native: wait idle", "err", err)
	}

	if c.pipelines != nil {
		c.pipelines.DestroyAll(func(p *pipeline) { c.device.DestroyRenderPipeline(p.native) })
	}
	if c.programs != nil {
		c.programs.Each(func(_ gfx.Handle, p *program) {
			c.destroyProgram(p)
			for _, s := range []*shader{p.vs, p.fs} {
				if s.deleted && s.module != nil {
					c.device.DestroyShaderModule(s.module)
					s.module = nil
				}
			}
		})
		c.shaders.Each(func(_ gfx.Handle, s *shader) { c.device.DestroyShaderModule(s.module) })
		c.vertexBuffers.Each(func(_ gfx.Handle, b *buffer) { c.device.DestroyBuffer(b.native) })
		c.indexBuffers.Each(func(_ gfx.Handle, b *buffer) { c.device.DestroyBuffer(b.native) })
		c.textures.Each(func(_ gfx.Handle, t *texture) { c.destroyTexture(t) })
	}
	if c.defaultTexture != nil {
		c.destroyTexture(c.defaultTexture)
		c.defaultTexture = nil
	}
	if c.ring != nil {
		c.ring.Each(func(s *frame.Slot[*frameResources]) {
			res := s.Resource
			for _, g := range res.bindGroups {
				c.device.DestroyBindGroup(g)
			}
			if res.cmd != nil {
				c.device.FreeCommandBuffer(res.cmd)
			}
			res.scratch.Each(func(p *scratch.Pool[hal.Buffer]) { c.device.DestroyBuffer(p.Backing) })
			res.encoder.Destroy()
		})
		c.ring = nil
	}
	c.releaseBackbuffer()
	c.sweep(true)

	if c.surface != nil {
		c.surface.Unconfigure(c.device)
	}
	c.device.Destroy()
	c.device, c.queue = nil, nil
	c.initialized = false
	c.destroyInstance()
}

func (c *Context) destroyInstance() {
	if c.surface != nil {
		c.surface.Destroy()
		c.surface = nil
	}
	if c.instance != nil {
		c.instance.Destroy()
		c.instance = nil
	}
}

// AdapterFamily implements gfx.Context.
func (c *Context) AdapterFamily() gfx.AdapterFamily { return c.family }

// Width implements gfx.Context.
func (c *Context) Width() uint32 { return c.width }

// Height implements gfx.Context.
func (c *Context) Height() uint32 { return c.height }

// ResizeWindow implements gfx.Context. Inside a frame the backbuffer is
// recreated at the next BeginFrame.
func (c *Context) ResizeWindow(width, height uint32) {
	if width == 0 || height == 0 || (width == c.width && height == c.height) {
		return
	}
	c.width, c.height = width, height
	if !c.initialized {
		return
	}
	if c.slot != nil {
		c.resizePending = true
		return
	}
	c.verify.Check("ResizeWindow", c.resize())
}

func (c *Context) resize() error {
	c.resizePending = false
	c.releaseBackbuffer()
	return c.createBackbuffer()
}

// GetDefaultTextureFilters implements gfx.Context.
func (c *Context) GetDefaultTextureFilters() (gfx.TextureFilter, gfx.TextureFilter) {
	return c.params.DefaultTextureMinFilter, c.params.DefaultTextureMagFilter
}

// BeginFrame implements gfx.Context. It blocks until the GPU has finished
// the frame that last used the next slot.
func (c *Context) BeginFrame() error {
	if !c.initialized {
		return gfx.ErrNotInitialized
	}
	if c.slot != nil {
		return gfx.ErrFrameInProgress
	}
	if c.resizePending {
		if err := c.resize(); err != nil {
			return err
		}
	}
	slot, err := c.ring.Begin()
	if err != nil {
		return fmt.Errorf("native: begin frame: %w", err)
	}
	res := slot.Resource
	if res.cmd != nil {
		c.device.FreeCommandBuffer(res.cmd)
		res.cmd = nil
	}
	for _, g := range res.bindGroups {
		c.device.DestroyBindGroup(g)
	}
	res.bindGroups = res.bindGroups[:0]
	res.scratch.Reset()
	c.sweep(false)

	if err := res.encoder.BeginEncoding(fmt.Sprintf("gfx-frame-%d", slot.Index)); err != nil {
		c.ring.Abandon()
		return fmt.Errorf("native: begin encoding: %w", err)
	}
	if c.surface != nil {
		if err := c.acquire(); err != nil {
			res.encoder.DiscardEncoding()
			c.ring.Abandon()
			return err
		}
	}
	c.slot = slot
	c.RenderTarget = handle.Invalid
	c.beginPass(c.backbufferAttachments(), nil)
	return nil
}

func (c *Context) acquire() error {
	acq, err := c.surface.AcquireTexture(nil)
	if errors.Is(err, hal.ErrSurfaceOutdated) {
		if err = c.configureSurface(); err == nil {
			acq, err = c.surface.AcquireTexture(nil)
		}
	}
	if err != nil {
		return fmt.Errorf("native: acquire surface texture: %w", err)
	}
	view, err := c.device.CreateTextureView(acq.Texture, &hal.TextureViewDescriptor{
		Label:           "gfx-surface",
		Format:          c.surfaceFormat,
		Dimension:       gputypes.TextureViewDimension2D,
		Aspect:          gputypes.TextureAspectAll,
		MipLevelCount:   1,
		ArrayLayerCount: 1,
	})
	if err != nil {
		c.surface.DiscardTexture(acq.Texture)
		return fmt.Errorf("native: surface view: %w", err)
	}
	c.acquired, c.acquiredView = acq, view
	return nil
}

func (c *Context) backbufferAttachments() attachments {
	a := attachments{depth: c.depthView, width: c.width, height: c.height}
	if c.acquiredView != nil {
		a.color = []hal.TextureView{c.acquiredView}
		a.colorFormat = []gputypes.TextureFormat{c.surfaceFormat}
	} else {
		a.color = []hal.TextureView{c.colorView}
		a.colorFormat = []gputypes.TextureFormat{backbufferFormat}
	}
	return a
}

// clearValues selects the attachments a new pass clears. nil loads all.
type clearValues struct {
	flags   gfx.BufferType
	color   gputypes.Color
	depth   float32
	stencil uint32
}

func (c *Context) beginPass(target attachments, clear *clearValues) {
	if c.pass != nil {
		c.pass.End()
	}
	desc := &hal.RenderPassDescriptor{Label: "gfx-pass"}
	for i, v := range target.color {
		ca := hal.RenderPassColorAttachment{View: v, LoadOp: gputypes.LoadOpLoad, StoreOp: gputypes.StoreOpStore}
		if clear != nil && clear.flags&(gfx.BufferTypeColor0<<i) != 0 {
			ca.LoadOp = gputypes.LoadOpClear
			ca.ClearValue = clear.color
		}
		desc.ColorAttachments = append(desc.ColorAttachments, ca)
	}
	if target.depth != nil {
		ds := &hal.RenderPassDepthStencilAttachment{
			View:           target.depth,
			DepthLoadOp:    gputypes.LoadOpLoad,
			DepthStoreOp:   gputypes.StoreOpStore,
			StencilLoadOp:  gputypes.LoadOpLoad,
			StencilStoreOp: gputypes.StoreOpStore,
		}
		if clear != nil && clear.flags&gfx.BufferTypeDepth != 0 {
			ds.DepthLoadOp = gputypes.LoadOpClear
			ds.DepthClearValue = clear.depth
		}
		if clear != nil && clear.flags&gfx.BufferTypeStencil != 0 {
			ds.StencilLoadOp = gputypes.LoadOpClear
			ds.StencilClearValue = clear.stencil
		}
		desc.DepthStencilAttachment = ds
	}
	c.pass = c.slot.Resource.encoder.BeginRenderPass(desc)
	c.passTarget = target
	c.ViewportChanged = true
	c.scissor = pending.Rect{Width: -1}
}

// Flip implements gfx.Context. A frame whose encoding or submission fails
// is dropped and the failure goes through the verifier.
func (c *Context) Flip() error {
	if c.slot == nil {
		return gfx.ErrFrameNotStarted
	}
	if c.pass != nil {
		c.pass.End()
		c.pass = nil
	}
	res := c.slot.Resource
	c.slot = nil

	if err := res.scratch.Flush(func(b hal.Buffer, data []byte) error {
		return c.queue.WriteBuffer(b, 0, data)
	}); err != nil {
		c.verify.Check("Flush", err)
	}

	cmd, err := res.encoder.EndEncoding()
	if err != nil {
		res.encoder.DiscardEncoding()
		c.abandonFrame()
		c.verify.Check("Submit", fmt.Errorf("native: end encoding: %w", err))
		return nil
	}
	res.cmd = cmd
	index, err := c.queue.Submit([]hal.CommandBuffer{cmd})
	if err != nil {
		c.abandonFrame()
		c.verify.Check("Submit", fmt.Errorf("native: submit: %w", err))
		return nil
	}
	c.submitted = index
	if err := c.ring.End(index); err != nil {
		return fmt.Errorf("native: flip: %w", err)
	}

	if c.acquired != nil {
		err := c.queue.Present(c.surface, c.acquired.Texture, nil)
		c.bury(c.acquiredView)
		c.acquired, c.acquiredView = nil, nil
		if err != nil {
			return fmt.Errorf("native: present: %w", err)
		}
	}
	return nil
}

// abandonFrame releases the checked-out slot of a frame that was not
// submitted and hands the acquired surface texture back unpresented.
func (c *Context) abandonFrame() {
	c.ring.Abandon()
	if c.acquired != nil {
		c.surface.DiscardTexture(c.acquired.Texture)
		c.bury(c.acquiredView)
		c.acquired, c.acquiredView = nil, nil
	}
}

// Clear implements gfx.Context. It restarts the render pass with clear load
// operations for the selected attachments.
func (c *Context) Clear(flags gfx.BufferType, r, g, b, a uint8, depth float32, stencil uint32) {
	if !c.requireFrame("Clear") {
		return
	}
	c.beginPass(c.passTarget, &clearValues{
		flags:   flags,
		color:   gputypes.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255, A: float64(a) / 255},
		depth:   depth,
		stencil: stencil,
	})
}

func (c *Context) requireFrame(op string) bool {
	if c.slot == nil {
		return c.verify.Check(op, gfx.ErrFrameNotStarted)
	}
	return true
}

// bury schedules GPU objects for destruction once every submitted frame
// that could reference them has completed.
func (c *Context) bury(objs ...hal.Resource) {
	value := c.submitted + 1
	for _, o := range objs {
		if o == nil {
			continue
		}
		c.graveyard = append(c.graveyard, graveEntry{value: value, destroy: o.Destroy})
	}
}

// sweep destroys buried objects whose submissions completed. all destroys
// everything regardless of the fence.
func (c *Context) sweep(all bool) {
	done := c.fence.Completed()
	keep := c.graveyard[:0]
	for _, e := range c.graveyard {
		if all || e.value <= done {
			e.destroy()
			continue
		}
		keep = append(keep, e)
	}
	c.graveyard = keep
}

// Submitted returns the queue submission index of the last frame.
func (c *Context) Submitted() uint64 { return c.submitted }

// FramesInFlight returns the number of frame slots.
func (c *Context) FramesInFlight() int { return c.ring.Len() }

// CacheStats returns the pipeline cache counters.
func (c *Context) CacheStats() pipecache.Stats { return c.pipelines.Stats() }

// CacheHitRate returns the pipeline cache hit rate.
func (c *Context) CacheHitRate() float64 { return c.pipelines.HitRate() }

var _ gfx.Context = (*Context)(nil)
