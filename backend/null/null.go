// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package null provides the reference in-memory graphics adapter.
//
// The null context implements the full gfx.Context contract without a GPU.
// Buffers and textures are byte slices, pipelines are plain structs and
// every draw is appended to a log that tests can inspect. Fences are a
// frame.Timeline that Flip signals immediately unless the context was
// created with WithManualRetire, in which case the test drives retirement.
//
// The adapter registers itself with the lowest priority and an always-true
// support check, so it is the last resort when no GPU adapter initializes.
package null

import (
	"fmt"

	"github.com/gogpu/gfx"
	"github.com/gogpu/gfx/handle"
	"github.com/gogpu/gfx/internal/frame"
	"github.com/gogpu/gfx/internal/pending"
	"github.com/gogpu/gfx/internal/pipecache"
	"github.com/gogpu/gfx/internal/scratch"
)

// AdapterName is the registry name of the null adapter.
const AdapterName = "null"

// Priority is the selection priority of the null adapter.
const Priority = -100

// MaxTextureSize is the largest texture dimension the null device accepts.
const MaxTextureSize = 4096

func init() {
	gfx.RegisterAdapter(gfx.Adapter{
		Name:        AdapterName,
		Family:      gfx.AdapterFamilyNull,
		Priority:    Priority,
		IsSupported: func() bool { return true },
		NewContext: func(p *gfx.ContextParams) (gfx.Context, error) {
			return New(p), nil
		},
	})
}

// Option configures a null Context.
type Option func(*Context)

// WithManualRetire stops Flip from signaling the fence timeline. Frames are
// retired with Retire instead, which lets tests observe the BeginFrame wait.
func WithManualRetire() Option {
	return func(c *Context) { c.manualRetire = true }
}

// WithInitError makes Initialize fail with err.
func WithInitError(err error) Option {
	return func(c *Context) { c.initErr = err }
}

// WithPoolSize overrides the scratch pool size.
func WithPoolSize(n int) Option {
	return func(c *Context) { c.poolSize = n }
}

type frameResources struct {
	scratch *scratch.Allocator[struct{}]
	// flushed counts bytes handed to the device at the last Flip.
	flushed int
}

// Context is the null implementation of gfx.Context.
type Context struct {
	pending.Tracker

	params gfx.ContextParams
	verify gfx.Verifier

	width, height uint32
	initialized   bool
	manualRetire  bool
	initErr       error
	poolSize      int

	timeline  *frame.Timeline
	ring      *frame.Ring[*frameResources]
	slot      *frame.Slot[*frameResources]
	submitted uint64
	inPass    bool

	pipelines  *pipecache.Cache[*Pipeline]
	pipelineID int

	textures      *handle.Container[*texture]
	renderTargets *handle.Container[*renderTarget]
	vertexBuffers *handle.Container[*buffer]
	indexBuffers  *handle.Container[*buffer]
	shaders       *handle.Container[*gfx.ShaderDesc]
	programs      *handle.Container[*program]

	log Log
}

// New creates an uninitialized null context.
func New(params *gfx.ContextParams, opts ...Option) *Context {
	if params == nil {
		p := gfx.NewContextParams()
		params = &p
	}
	c := &Context{
		params: *params,
		verify: params.Verifier(),
		width:  params.Width,
		height: params.Height,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Initialize implements gfx.Context.
func (c *Context) Initialize() error {
	if c.initialized {
		return gfx.ErrAlreadyInitialized
	}
	if c.initErr != nil {
		return fmt.Errorf("null: initialize: %w", c.initErr)
	}

	c.timeline = frame.NewTimeline()
	ring, err := frame.NewRing(c.params.FramesInFlight, func(int) (*frameResources, frame.Fence, error) {
		a, err := scratch.New[struct{}](c.poolSize, nil)
		if err != nil {
			return nil, nil, err
		}
		return &frameResources{scratch: a}, c.timeline, nil
	})
	if err != nil {
		return fmt.Errorf("null: initialize: %w", err)
	}
	c.ring = ring

	c.pipelines = pipecache.New[*Pipeline](pipecache.WithLogger(gfx.Logger))
	c.textures = handle.NewContainer[*texture](16)
	c.renderTargets = handle.NewContainer[*renderTarget](4)
	c.vertexBuffers = handle.NewContainer[*buffer](16)
	c.indexBuffers = handle.NewContainer[*buffer](16)
	c.shaders = handle.NewContainer[*gfx.ShaderDesc](16)
	c.programs = handle.NewContainer[*program](16)
	c.Reset(c.width, c.height)
	c.initialized = true

	if c.params.PrintDeviceInfo {
		gfx.Logger().Info("null: device", "frames_in_flight", c.ring.Len(),
			"width", c.width, "height", c.height, "max_texture_size", MaxTextureSize)
	}
	return nil
}

// Finalize implements gfx.Context. It is safe to call on a context whose
// Initialize failed.
func (c *Context) Finalize() {
	if c.timeline != nil {
		c.timeline.Close()
	}
	if c.pipelines != nil {
		c.pipelines.DestroyAll(nil)
	}
	c.initialized = false
	c.slot = nil
}

// AdapterFamily implements gfx.Context.
func (c *Context) AdapterFamily() gfx.AdapterFamily { return gfx.AdapterFamilyNull }

// Width implements gfx.Context.
func (c *Context) Width() uint32 { return c.width }

// Height implements gfx.Context.
func (c *Context) Height() uint32 { return c.height }

// ResizeWindow implements gfx.Context.
func (c *Context) ResizeWindow(width, height uint32) {
	c.width, c.height = width, height
}

// GetDefaultTextureFilters implements gfx.Context.
func (c *Context) GetDefaultTextureFilters() (gfx.TextureFilter, gfx.TextureFilter) {
	return c.params.DefaultTextureMinFilter, c.params.DefaultTextureMagFilter
}

// BeginFrame implements gfx.Context.
func (c *Context) BeginFrame() error {
	if !c.initialized {
		return gfx.ErrNotInitialized
	}
	if c.slot != nil {
		return gfx.ErrFrameInProgress
	}
	slot, err := c.ring.Begin()
	if err != nil {
		return fmt.Errorf("null: begin frame: %w", err)
	}
	c.slot = slot
	slot.Resource.scratch.Reset()
	slot.Resource.flushed = 0
	c.RenderTarget = handle.Invalid
	c.inPass = true
	c.log.Frames = append(c.log.Frames, FrameRecord{Slot: slot.Index, WaitedFor: slot.Expected()})
	return nil
}

// Flip implements gfx.Context.
func (c *Context) Flip() error {
	if c.slot == nil {
		return gfx.ErrFrameNotStarted
	}
	c.inPass = false

	res := c.slot.Resource
	if err := res.scratch.Flush(func(_ struct{}, data []byte) error {
		res.flushed += len(data)
		return nil
	}); err != nil {
		c.verify.Check("Flush", err)
	}

	c.submitted++
	value := c.submitted
	if err := c.ring.End(value); err != nil {
		return fmt.Errorf("null: flip: %w", err)
	}
	if i := len(c.log.Frames) - 1; i >= 0 {
		c.log.Frames[i].Submitted = value
		c.log.Frames[i].ScratchBytes = res.flushed
	}
	c.slot = nil
	if !c.manualRetire {
		c.timeline.Signal(value)
	}
	return nil
}

// Clear implements gfx.Context.
func (c *Context) Clear(flags gfx.BufferType, r, g, b, a uint8, depth float32, stencil uint32) {
	if !c.requireFrame("Clear") {
		return
	}
	c.log.Clears = append(c.log.Clears, ClearRecord{
		Flags:        flags,
		Color:        [4]float32{float32(r) / 255, float32(g) / 255, float32(b) / 255, float32(a) / 255},
		Depth:        depth,
		Stencil:      stencil,
		RenderTarget: c.RenderTarget,
	})
}

func (c *Context) requireFrame(op string) bool {
	if c.slot == nil {
		return c.verify.Check(op, gfx.ErrFrameNotStarted)
	}
	return true
}

// Retire signals the fence timeline up to value, completing every frame
// submitted with a value at or below it.
func (c *Context) Retire(value uint64) { c.timeline.Signal(value) }

// Submitted returns the fence value of the last submitted frame.
func (c *Context) Submitted() uint64 { return c.submitted }

// Timeline returns the fence driving the frame ring.
func (c *Context) Timeline() *frame.Timeline { return c.timeline }

// FramesInFlight returns the number of frame slots.
func (c *Context) FramesInFlight() int { return c.ring.Len() }

// CacheStats returns the pipeline cache counters.
func (c *Context) CacheStats() pipecache.Stats { return c.pipelines.Stats() }

// CacheHitRate returns the pipeline cache hit rate.
func (c *Context) CacheHitRate() float64 { return c.pipelines.HitRate() }

// ResetCacheStats zeroes the pipeline cache counters.
func (c *Context) ResetCacheStats() { c.pipelines.ResetStats() }

// Log returns everything the context has recorded so far.
func (c *Context) Log() *Log { return &c.log }

var _ gfx.Context = (*Context)(nil)
