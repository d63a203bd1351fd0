// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package native

import (
	"bytes"
	"errors"
	"testing"

	"github.com/gogpu/gfx"
	"github.com/gogpu/gfx/handle"
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	_ "github.com/gogpu/wgpu/hal/noop"
)

const testWGSL = `
struct Uniforms { view_proj: mat4x4<f32>, tint: vec4<f32> }
@group(0) @binding(0) var<uniform> u: Uniforms;
@group(1) @binding(0) var tex: texture_2d<f32>;
@group(1) @binding(1) var samp: sampler;

@vertex
fn vs_main(@location(0) position: vec3<f32>) -> @builtin(position) vec4<f32> {
    return u.view_proj * vec4<f32>(position, 1.0);
}

@fragment
fn fs_main() -> @location(0) vec4<f32> {
    return u.tint;
}
`

func newTestContext(t *testing.T) *Context {
	t.Helper()
	p := gfx.NewContextParams(gfx.WithSize(64, 48), gfx.WithVerifyGraphicsCalls(true))
	c, err := New(&p, WithBackend(gputypes.BackendEmpty))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := c.Initialize(); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	t.Cleanup(c.Finalize)
	return c
}

func newTestProgram(t *testing.T, c *Context) gfx.Handle {
	t.Helper()
	uniforms := gfx.ShaderResource{
		Name: "u", Set: 0, Binding: 0, Type: gfx.ShaderTypeUniformBuffer,
		Members: gfx.PackMembers([]gfx.ShaderMember{
			{Name: "view_proj", Type: gfx.ShaderTypeMat4},
			{Name: "tint", Type: gfx.ShaderTypeVec4},
		}),
	}
	vs, err := c.NewVertexProgram(&gfx.ShaderDesc{
		Stage:      gfx.ShaderStageVertex,
		Language:   gfx.ShaderLanguageWGSL,
		Source:     []byte(testWGSL),
		EntryPoint: "vs_main",
		Inputs:     []gfx.ShaderInput{{Name: "position", Location: 0, Type: gfx.ShaderTypeVec3}},
		Resources:  []gfx.ShaderResource{uniforms},
	})
	if err != nil {
		t.Fatalf("NewVertexProgram: %v", err)
	}
	fs, err := c.NewFragmentProgram(&gfx.ShaderDesc{
		Stage:      gfx.ShaderStageFragment,
		Language:   gfx.ShaderLanguageWGSL,
		Source:     []byte(testWGSL),
		EntryPoint: "fs_main",
		Resources: []gfx.ShaderResource{
			uniforms,
			{Name: "tex", Set: 1, Binding: 0, Type: gfx.ShaderTypeTexture2D},
			{Name: "samp", Set: 1, Binding: 1, Type: gfx.ShaderTypeSampler},
		},
	})
	if err != nil {
		t.Fatalf("NewFragmentProgram: %v", err)
	}
	prog, err := c.NewProgram(vs, fs)
	if err != nil {
		t.Fatalf("NewProgram: %v", err)
	}
	return prog
}

func bindTriangle(t *testing.T, c *Context) gfx.Handle {
	t.Helper()
	decl, err := c.NewVertexDeclaration(gfx.NewVertexStreamDeclaration().
		AddStream("position", 3, gfx.TypeFloat, false))
	if err != nil {
		t.Fatalf("NewVertexDeclaration: %v", err)
	}
	vb, err := c.NewVertexBuffer(make([]byte, 3*int(decl.Stride)), gfx.BufferUsageStaticDraw)
	if err != nil {
		t.Fatalf("NewVertexBuffer: %v", err)
	}
	c.EnableVertexBuffer(vb, 0)
	c.EnableVertexDeclaration(decl, 0)
	return vb
}

func TestInitialize(t *testing.T) {
	c := newTestContext(t)
	if c.Width() != 64 || c.Height() != 48 {
		t.Errorf("size = %dx%d, want 64x48", c.Width(), c.Height())
	}
	if c.AdapterFamily() != gfx.AdapterFamilySoftware {
		t.Errorf("family = %v, want software", c.AdapterFamily())
	}
	if c.FramesInFlight() < 1 {
		t.Errorf("frames in flight = %d", c.FramesInFlight())
	}
	if c.GetMaxTextureSize() == 0 {
		t.Error("max texture size is 0")
	}
	if err := c.Initialize(); !errors.Is(err, gfx.ErrAlreadyInitialized) {
		t.Errorf("second Initialize = %v, want ErrAlreadyInitialized", err)
	}
}

func TestNewRejectsEmptySize(t *testing.T) {
	p := gfx.NewContextParams(gfx.WithSize(0, 0))
	if _, err := New(&p, WithBackend(gputypes.BackendEmpty)); !errors.Is(err, ErrInvalidDimensions) {
		t.Errorf("New(0x0) = %v, want ErrInvalidDimensions", err)
	}
}

func TestFrameSubmits(t *testing.T) {
	c := newTestContext(t)
	for i := range 5 {
		if err := c.BeginFrame(); err != nil {
			t.Fatalf("BeginFrame %d: %v", i, err)
		}
		c.Clear(gfx.BufferTypeColor0|gfx.BufferTypeDepth, 10, 20, 30, 255, 1, 0)
		if err := c.Flip(); err != nil {
			t.Fatalf("Flip %d: %v", i, err)
		}
	}
	if got := c.Submitted(); got != 5 {
		t.Errorf("submitted = %d, want 5", got)
	}
}

func TestFlipWithoutFrame(t *testing.T) {
	c := newTestContext(t)
	if err := c.Flip(); !errors.Is(err, gfx.ErrFrameNotStarted) {
		t.Errorf("Flip = %v, want ErrFrameNotStarted", err)
	}
}

func TestBeginFrameTwice(t *testing.T) {
	c := newTestContext(t)
	if err := c.BeginFrame(); err != nil {
		t.Fatal(err)
	}
	slot := c.slot
	if err := c.BeginFrame(); !errors.Is(err, gfx.ErrFrameInProgress) {
		t.Fatalf("second BeginFrame = %v, want ErrFrameInProgress", err)
	}
	if c.slot != slot {
		t.Error("rejected BeginFrame replaced the recording slot")
	}
	if err := c.Flip(); err != nil {
		t.Fatalf("Flip: %v", err)
	}
	if err := c.BeginFrame(); err != nil {
		t.Fatalf("BeginFrame after Flip: %v", err)
	}
	if err := c.Flip(); err != nil {
		t.Fatal(err)
	}
}

// failingQueue fails every submission.
type failingQueue struct {
	hal.Queue
}

func (failingQueue) Submit([]hal.CommandBuffer) (uint64, error) {
	return 0, errors.New("device lost")
}

// discardSurface records the textures handed back without presenting.
type discardSurface struct {
	hal.Surface
	discarded []hal.SurfaceTexture
}

func (s *discardSurface) DiscardTexture(tex hal.SurfaceTexture) {
	s.discarded = append(s.discarded, tex)
}

type fakeSurfaceTexture struct {
	hal.SurfaceTexture
}

// failSubmission swaps in a failing queue and a fake acquired surface
// texture for the current frame, and restores both when the test ends.
func failSubmission(t *testing.T, c *Context) *discardSurface {
	t.Helper()
	queue := c.queue
	surf := &discardSurface{}
	c.queue = failingQueue{Queue: queue}
	c.surface = surf
	c.acquired = &hal.AcquiredSurfaceTexture{Texture: fakeSurfaceTexture{}}
	t.Cleanup(func() {
		c.queue = queue
		c.surface = nil
	})
	return surf
}

func TestSubmitFailureSwallowedWithoutVerify(t *testing.T) {
	p := gfx.NewContextParams(gfx.WithSize(64, 48))
	c, err := New(&p, WithBackend(gputypes.BackendEmpty))
	if err != nil {
		t.Fatal(err)
	}
	if err := c.Initialize(); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(c.Finalize)

	if err := c.BeginFrame(); err != nil {
		t.Fatal(err)
	}
	queue := c.queue
	surf := failSubmission(t, c)
	submitted := c.Submitted()

	if err := c.Flip(); err != nil {
		t.Errorf("Flip = %v, want failure swallowed", err)
	}
	if c.Submitted() != submitted {
		t.Errorf("Submitted = %d, want %d", c.Submitted(), submitted)
	}
	if len(surf.discarded) != 1 || c.acquired != nil {
		t.Errorf("surface texture not discarded: discarded=%d acquired=%v", len(surf.discarded), c.acquired)
	}

	// The ring is free again once the queue recovers.
	c.queue, c.surface = queue, nil
	if err := c.BeginFrame(); err != nil {
		t.Fatalf("BeginFrame after failed submit: %v", err)
	}
	if err := c.Flip(); err != nil {
		t.Fatal(err)
	}
	if c.Submitted() == submitted {
		t.Error("frame after recovery was not submitted")
	}
}

func TestSubmitFailurePanicsInVerifyMode(t *testing.T) {
	c := newTestContext(t)
	if err := c.BeginFrame(); err != nil {
		t.Fatal(err)
	}
	surf := failSubmission(t, c)

	func() {
		defer func() {
			err, ok := recover().(error)
			if !ok || !errors.Is(err, gfx.ErrGraphicsCall) {
				t.Errorf("recovered %v, want ErrGraphicsCall", err)
			}
		}()
		_ = c.Flip()
		t.Error("Flip did not panic")
	}()

	if c.slot != nil {
		t.Error("failed frame still recording")
	}
	if len(surf.discarded) != 1 || c.acquired != nil {
		t.Errorf("surface texture not discarded: discarded=%d", len(surf.discarded))
	}
}

func TestDrawOutsideFramePanics(t *testing.T) {
	c := newTestContext(t)
	prog := newTestProgram(t, c)
	bindTriangle(t, c)
	c.EnableProgram(prog)
	defer func() {
		r := recover()
		err, ok := r.(error)
		if !ok || !errors.Is(err, gfx.ErrGraphicsCall) {
			t.Errorf("recovered %v, want ErrGraphicsCall", r)
		}
	}()
	c.Draw(gfx.PrimitiveTriangles, 0, 3)
}

func TestIdenticalDrawsReusePipeline(t *testing.T) {
	c := newTestContext(t)
	prog := newTestProgram(t, c)
	bindTriangle(t, c)

	loc := c.GetUniformLocation(prog, "tint")
	if loc == gfx.InvalidUniformLocation {
		t.Fatal("tint not found")
	}

	for range 3 {
		if err := c.BeginFrame(); err != nil {
			t.Fatal(err)
		}
		c.EnableProgram(prog)
		for i := range 4 {
			c.SetConstantV4([][4]float32{{float32(i), 0, 0, 1}}, loc)
			c.Draw(gfx.PrimitiveTriangles, 0, 3)
		}
		if err := c.Flip(); err != nil {
			t.Fatal(err)
		}
	}
	if n := c.PipelineCount(); n != 1 {
		t.Errorf("pipelines = %d, want 1", n)
	}
	if s := c.CacheStats(); s.Misses != 1 || s.Hits != 11 {
		t.Errorf("cache stats = %+v, want 1 miss 11 hits", s)
	}

	_ = c.BeginFrame()
	c.EnableState(gfx.StateBlend)
	c.SetBlendFunc(gfx.BlendFactorSrcAlpha, gfx.BlendFactorOneMinusSrcAlpha)
	c.Draw(gfx.PrimitiveTriangles, 0, 3)
	_ = c.Flip()
	if n := c.PipelineCount(); n != 2 {
		t.Errorf("pipelines after blend change = %d, want 2", n)
	}
}

func TestDrawElements(t *testing.T) {
	c := newTestContext(t)
	prog := newTestProgram(t, c)
	bindTriangle(t, c)
	ib, err := c.NewIndexBuffer([]byte{0, 0, 1, 0, 2, 0}, gfx.BufferUsageStaticDraw)
	if err != nil {
		t.Fatal(err)
	}

	_ = c.BeginFrame()
	c.EnableProgram(prog)
	c.DrawElements(gfx.PrimitiveTriangles, 0, 3, gfx.TypeUnsignedShort, ib)
	if err := c.Flip(); err != nil {
		t.Fatal(err)
	}
}

func TestVertexBufferData(t *testing.T) {
	c := newTestContext(t)
	vb, err := c.NewVertexBuffer([]byte{1, 2, 3, 4, 5, 6, 7, 8}, gfx.BufferUsageDynamicDraw)
	if err != nil {
		t.Fatal(err)
	}
	if err := c.SetVertexBufferSubData(vb, 2, []byte{9, 9}); err != nil {
		t.Fatal(err)
	}
	got, _ := c.VertexBufferData(vb)
	if want := []byte{1, 2, 9, 9, 5, 6, 7, 8}; !bytes.Equal(got, want) {
		t.Errorf("data = %v, want %v", got, want)
	}

	big := bytes.Repeat([]byte{7}, 100)
	if err := c.SetVertexBufferData(vb, big, gfx.BufferUsageDynamicDraw); err != nil {
		t.Fatal(err)
	}
	got, _ = c.VertexBufferData(vb)
	if !bytes.Equal(got, big) {
		t.Errorf("grown buffer holds %d bytes", len(got))
	}

	if err := c.SetVertexBufferSubData(vb, 99, []byte{1, 2}); err == nil {
		t.Error("out of range sub data accepted")
	}

	c.DeleteVertexBuffer(vb)
	if _, ok := c.VertexBufferData(vb); ok {
		t.Error("deleted buffer still readable")
	}
}

func TestTextureLifecycle(t *testing.T) {
	c := newTestContext(t)
	tex, err := c.NewTexture(gfx.TextureCreationParams{Type: gfx.TextureType2D, Width: 4, Height: 2, Depth: 1, MipMapCount: 1})
	if err != nil {
		t.Fatal(err)
	}
	if !c.IsAssetHandleValid(tex) {
		t.Fatal("new texture handle invalid")
	}
	if err := c.SetTexture(tex, gfx.TextureParams{
		Data:   make([]byte, 4*2*3),
		Format: gfx.TextureFormatRGB,
		Width:  4, Height: 2, Depth: 1,
	}); err != nil {
		t.Fatalf("SetTexture: %v", err)
	}
	if err := c.SetTexture(tex, gfx.TextureParams{
		Data:      make([]byte, 2*2*3),
		Format:    gfx.TextureFormatRGB,
		X:         2,
		Width:     2, Height: 2, Depth: 1,
		SubUpdate: true,
	}); err != nil {
		t.Fatalf("SetTexture sub update: %v", err)
	}
	if c.GetTextureWidth(tex) != 4 || c.GetTextureHeight(tex) != 2 {
		t.Errorf("size = %dx%d", c.GetTextureWidth(tex), c.GetTextureHeight(tex))
	}
	if c.GetOriginalTextureWidth(tex) != 4 {
		t.Errorf("original width = %d, want 4", c.GetOriginalTextureWidth(tex))
	}
	c.SetTextureParams(tex, gfx.TextureFilterNearest, gfx.TextureFilterNearest, gfx.TextureWrapRepeat, gfx.TextureWrapRepeat, 1)

	c.DeleteTexture(tex)
	if c.IsAssetHandleValid(tex) {
		t.Error("deleted texture handle still valid")
	}
	if c.GetTextureWidth(tex) != 0 {
		t.Error("deleted texture reports a size")
	}
}

func TestTextureFormatSupport(t *testing.T) {
	c := newTestContext(t)
	tests := []struct {
		format gfx.TextureFormat
		want   bool
	}{
		{gfx.TextureFormatRGBA, true},
		{gfx.TextureFormatRGB, true},
		{gfx.TextureFormatLuminance, true},
		{gfx.TextureFormatRGBA32F, true},
		{gfx.TextureFormatRGB16BPP, false},
		{gfx.TextureFormatRGBA16BPP, false},
	}
	for _, tt := range tests {
		t.Run(tt.format.String(), func(t *testing.T) {
			if got := c.IsTextureFormatSupported(tt.format); got != tt.want {
				t.Errorf("IsTextureFormatSupported(%v) = %v, want %v", tt.format, got, tt.want)
			}
		})
	}
}

func TestRenderTarget(t *testing.T) {
	c := newTestContext(t)
	rt, err := c.NewRenderTarget(gfx.RenderTargetParams{
		Width: 32, Height: 16,
		Buffers:     gfx.BufferTypeColor0 | gfx.BufferTypeDepth | gfx.BufferTypeStencil,
		ColorFormat: gfx.TextureFormatRGBA,
	})
	if err != nil {
		t.Fatal(err)
	}
	color := c.GetRenderTargetTexture(rt, gfx.BufferTypeColor0)
	if !c.IsAssetHandleValid(color) {
		t.Fatal("color attachment missing")
	}
	if c.GetRenderTargetTexture(rt, gfx.BufferTypeColor1) != handle.Invalid {
		t.Error("unrequested color attachment present")
	}
	if d, s := c.GetRenderTargetTexture(rt, gfx.BufferTypeDepth), c.GetRenderTargetTexture(rt, gfx.BufferTypeStencil); d != s {
		t.Errorf("depth %v and stencil %v are not shared", d, s)
	}
	if w, h := c.GetRenderTargetSize(rt, gfx.BufferTypeColor0); w != 32 || h != 16 {
		t.Errorf("size = %dx%d, want 32x16", w, h)
	}

	prog := newTestProgram(t, c)
	bindTriangle(t, c)
	_ = c.BeginFrame()
	c.SetRenderTarget(rt)
	c.EnableProgram(prog)
	c.Draw(gfx.PrimitiveTriangles, 0, 3)
	c.SetRenderTargetSize(rt, 8, 8)
	c.Draw(gfx.PrimitiveTriangles, 0, 3)
	c.SetRenderTarget(handle.Invalid)
	c.Draw(gfx.PrimitiveTriangles, 0, 3)
	if err := c.Flip(); err != nil {
		t.Fatal(err)
	}
	if w, h := c.GetRenderTargetSize(rt, gfx.BufferTypeColor0); w != 8 || h != 8 {
		t.Errorf("resized = %dx%d, want 8x8", w, h)
	}

	c.DeleteRenderTarget(rt)
	if c.IsAssetHandleValid(color) {
		t.Error("attachment outlived its render target")
	}
}

func TestDeleteProgramKeepsSharedShader(t *testing.T) {
	c := newTestContext(t)
	prog := newTestProgram(t, c)
	if c.GetUniformCount(prog) == 0 {
		t.Fatal("program has no uniforms")
	}
	c.DeleteProgram(prog)
	if c.GetUniformCount(prog) != 0 {
		t.Error("deleted program still reflects uniforms")
	}
	if c.Program != handle.Invalid {
		t.Error("deleted program still bound")
	}
}

func TestDeleteProgramReleasesPipelines(t *testing.T) {
	c := newTestContext(t)
	keep := newTestProgram(t, c)
	drop := newTestProgram(t, c)
	bindTriangle(t, c)

	_ = c.BeginFrame()
	for _, prog := range []gfx.Handle{keep, drop} {
		c.EnableProgram(prog)
		c.Draw(gfx.PrimitiveTriangles, 0, 3)
		c.Draw(gfx.PrimitiveLines, 0, 2)
	}
	if err := c.Flip(); err != nil {
		t.Fatal(err)
	}
	if n := c.PipelineCount(); n != 4 {
		t.Fatalf("pipelines = %d, want 4", n)
	}

	buried := len(c.graveyard)
	c.DeleteProgram(drop)
	if n := c.PipelineCount(); n != 2 {
		t.Errorf("pipelines after delete = %d, want 2", n)
	}
	// Two pipelines plus the program's own layout objects.
	if got := len(c.graveyard) - buried; got < 3 {
		t.Errorf("buried %d objects, want at least 3", got)
	}

	c.pipelines.ResetStats()
	_ = c.BeginFrame()
	c.EnableProgram(keep)
	c.Draw(gfx.PrimitiveTriangles, 0, 3)
	if err := c.Flip(); err != nil {
		t.Fatal(err)
	}
	if s := c.CacheStats(); s.Hits != 1 || s.Misses != 0 {
		t.Errorf("surviving program stats = %+v, want 1 hit", s)
	}
}

func TestResizeWindow(t *testing.T) {
	c := newTestContext(t)
	_ = c.BeginFrame()
	c.ResizeWindow(128, 96)
	if !c.resizePending {
		t.Error("mid-frame resize not deferred")
	}
	_ = c.Flip()
	if err := c.BeginFrame(); err != nil {
		t.Fatal(err)
	}
	if c.Width() != 128 || c.Height() != 96 {
		t.Errorf("size = %dx%d, want 128x96", c.Width(), c.Height())
	}
	_ = c.Flip()
}

func TestDeviceProvider(t *testing.T) {
	c := newTestContext(t)
	var p gpucontext.DeviceProvider = c
	info := p.AdapterInfo()
	if info.Name != "Noop Adapter" {
		t.Errorf("adapter name = %q", info.Name)
	}
	if info.Type != gpucontext.AdapterTypeUnknown {
		t.Errorf("adapter type = %v, want unknown", info.Type)
	}
	if p.Device() == nil || p.Queue() == nil {
		t.Error("provider returned nil device or queue")
	}
	if p.SurfaceFormat() != backbufferFormat {
		t.Errorf("surface format = %v, want %v", p.SurfaceFormat(), backbufferFormat)
	}
}

func TestRegistrySelectsSoftware(t *testing.T) {
	p := gfx.NewContextParams(gfx.WithSize(16, 16), gfx.WithAdapterFamily(gfx.AdapterFamilySoftware))
	ctx, err := gfx.NewContext(&p)
	if err != nil {
		t.Fatalf("NewContext: %v", err)
	}
	defer gfx.DeleteContext(ctx)
	if _, ok := ctx.(*Context); !ok {
		t.Fatalf("context is %T, want *native.Context", ctx)
	}
	if ctx.AdapterFamily() != gfx.AdapterFamilySoftware {
		t.Errorf("family = %v", ctx.AdapterFamily())
	}
}

func TestFinalizeTwice(t *testing.T) {
	p := gfx.NewContextParams(gfx.WithSize(8, 8))
	c, err := New(&p, WithBackend(gputypes.BackendEmpty))
	if err != nil {
		t.Fatal(err)
	}
	if err := c.Initialize(); err != nil {
		t.Fatal(err)
	}
	_ = c.BeginFrame()
	c.Finalize()
	c.Finalize()
}
