// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package native

import (
	"fmt"
	"math"

	"github.com/gogpu/gfx"
	"github.com/gogpu/gfx/handle"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// buffer is a device buffer plus its CPU shadow. Queue writes must be
// 4-byte aligned, so sub-data updates copy into the shadow and upload the
// enclosing aligned range.
type buffer struct {
	native hal.Buffer
	shadow []byte
	size   int
	usage  gfx.BufferUsage
}

func align4(n int) int { return (n + 3) &^ 3 }

func (c *Context) newBuffer(label string, data []byte, usage gfx.BufferUsage, kind gputypes.BufferUsage) (*buffer, error) {
	b := &buffer{usage: usage}
	if err := c.allocBuffer(b, label, len(data), kind); err != nil {
		return nil, err
	}
	if err := c.writeBuffer(b, data); err != nil {
		c.device.DestroyBuffer(b.native)
		return nil, err
	}
	return b, nil
}

func (c *Context) allocBuffer(b *buffer, label string, size int, kind gputypes.BufferUsage) error {
	capacity := align4(max(size, 4))
	native, err := c.device.CreateBuffer(&hal.BufferDescriptor{
		Label: label,
		Size:  uint64(capacity), //nolint:gosec // G115: positive
		Usage: kind | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("native: create %s: %w", label, err)
	}
	if b.native != nil {
		c.bury(b.native)
	}
	b.native = native
	b.shadow = make([]byte, capacity)
	return nil
}

// writeBuffer replaces the contents of b, growing it when needed.
func (c *Context) writeBuffer(b *buffer, data []byte) error {
	b.size = len(data)
	copy(b.shadow, data)
	clear(b.shadow[len(data):])
	if len(data) == 0 {
		return nil
	}
	if err := c.queue.WriteBuffer(b.native, 0, b.shadow[:align4(len(data))]); err != nil {
		return fmt.Errorf("native: write buffer: %w", err)
	}
	return nil
}

func (c *Context) setBufferData(store *handle.Container[*buffer], h gfx.Handle, data []byte, usage gfx.BufferUsage, label string, kind gputypes.BufferUsage) error {
	b, ok := store.Get(h)
	if !ok {
		return fmt.Errorf("native: %w: %v", gfx.ErrInvalidHandle, h)
	}
	b.usage = usage
	if len(data) > len(b.shadow) {
		if err := c.allocBuffer(b, label, len(data), kind); err != nil {
			return err
		}
	}
	return c.writeBuffer(b, data)
}

func (c *Context) setBufferSubData(store *handle.Container[*buffer], h gfx.Handle, offset uint32, data []byte) error {
	b, ok := store.Get(h)
	if !ok {
		return fmt.Errorf("native: %w: %v", gfx.ErrInvalidHandle, h)
	}
	end := int(offset) + len(data)
	if end > b.size {
		return fmt.Errorf("native: sub data [%d:%d] exceeds buffer size %d", offset, end, b.size)
	}
	copy(b.shadow[offset:], data)
	lo := int(offset) &^ 3
	hi := min(align4(end), len(b.shadow))
	if err := c.queue.WriteBuffer(b.native, uint64(lo), b.shadow[lo:hi]); err != nil { //nolint:gosec // G115: positive
		return fmt.Errorf("native: write buffer: %w", err)
	}
	return nil
}

// NewVertexBuffer implements gfx.Context.
func (c *Context) NewVertexBuffer(data []byte, usage gfx.BufferUsage) (gfx.Handle, error) {
	b, err := c.newBuffer("gfx-vertex", data, usage, gputypes.BufferUsageVertex)
	if err != nil {
		return handle.Invalid, err
	}
	return c.vertexBuffers.Store(b, handle.TypeVertexBuffer), nil
}

// DeleteVertexBuffer implements gfx.Context.
func (c *Context) DeleteVertexBuffer(h gfx.Handle) {
	c.DisableVertexBuffer(h)
	if b, ok := c.vertexBuffers.Delete(h); ok {
		c.bury(b.native)
	}
}

// SetVertexBufferData implements gfx.Context.
func (c *Context) SetVertexBufferData(h gfx.Handle, data []byte, usage gfx.BufferUsage) error {
	return c.setBufferData(c.vertexBuffers, h, data, usage, "gfx-vertex", gputypes.BufferUsageVertex)
}

// SetVertexBufferSubData implements gfx.Context.
func (c *Context) SetVertexBufferSubData(h gfx.Handle, offset uint32, data []byte) error {
	return c.setBufferSubData(c.vertexBuffers, h, offset, data)
}

// NewIndexBuffer implements gfx.Context.
func (c *Context) NewIndexBuffer(data []byte, usage gfx.BufferUsage) (gfx.Handle, error) {
	b, err := c.newBuffer("gfx-index", data, usage, gputypes.BufferUsageIndex)
	if err != nil {
		return handle.Invalid, err
	}
	return c.indexBuffers.Store(b, handle.TypeIndexBuffer), nil
}

// DeleteIndexBuffer implements gfx.Context.
func (c *Context) DeleteIndexBuffer(h gfx.Handle) {
	if b, ok := c.indexBuffers.Delete(h); ok {
		c.bury(b.native)
	}
}

// SetIndexBufferData implements gfx.Context.
func (c *Context) SetIndexBufferData(h gfx.Handle, data []byte, usage gfx.BufferUsage) error {
	return c.setBufferData(c.indexBuffers, h, data, usage, "gfx-index", gputypes.BufferUsageIndex)
}

// SetIndexBufferSubData implements gfx.Context.
func (c *Context) SetIndexBufferSubData(h gfx.Handle, offset uint32, data []byte) error {
	return c.setBufferSubData(c.indexBuffers, h, offset, data)
}

// IsIndexBufferFormatSupported implements gfx.Context. WebGPU devices accept
// both index widths.
func (c *Context) IsIndexBufferFormatSupported(gfx.IndexBufferFormat) bool { return true }

func clampUint32(v uint64) uint32 {
	if v > math.MaxUint32 {
		return math.MaxUint32
	}
	return uint32(v)
}

// GetMaxElementsVertices implements gfx.Context, assuming 16-byte vertices.
func (c *Context) GetMaxElementsVertices() uint32 { return clampUint32(c.limits.MaxBufferSize / 16) }

// GetMaxElementsIndices implements gfx.Context, assuming 32-bit indices.
func (c *Context) GetMaxElementsIndices() uint32 { return clampUint32(c.limits.MaxBufferSize / 4) }

// NewVertexDeclaration implements gfx.Context.
func (c *Context) NewVertexDeclaration(sd *gfx.VertexStreamDeclaration) (*gfx.VertexDeclaration, error) {
	return gfx.BuildVertexDeclaration(sd, 0)
}

// NewVertexDeclarationStride implements gfx.Context.
func (c *Context) NewVertexDeclarationStride(sd *gfx.VertexStreamDeclaration, stride uint32) (*gfx.VertexDeclaration, error) {
	return gfx.BuildVertexDeclaration(sd, stride)
}

// texture is a gfx texture. The device texture is created by the first full
// SetTexture, since only then is the format known.
type texture struct {
	params gfx.TextureCreationParams
	format gfx.TextureFormat
	device textureFormat

	native  hal.Texture
	view    hal.TextureView
	sampler hal.Sampler

	minFilter  gfx.TextureFilter
	magFilter  gfx.TextureFilter
	uwrap      gfx.TextureWrap
	vwrap      gfx.TextureWrap
	anisotropy float32
	// attachment marks render target textures, whose storage belongs to the
	// render target.
	attachment bool
}

func (t *texture) layers() uint32 {
	if t.params.Type == gfx.TextureTypeCubeMap {
		return 6
	}
	return max(t.params.Depth, 1)
}

func (t *texture) viewDimension() gputypes.TextureViewDimension {
	switch t.params.Type {
	case gfx.TextureTypeCubeMap:
		return gputypes.TextureViewDimensionCube
	case gfx.TextureType2DArray:
		return gputypes.TextureViewDimension2DArray
	}
	return gputypes.TextureViewDimension2D
}

// NewTexture implements gfx.Context.
func (c *Context) NewTexture(params gfx.TextureCreationParams) (gfx.Handle, error) {
	maxSize := c.GetMaxTextureSize()
	if params.Width > maxSize || params.Height > maxSize {
		return handle.Invalid, fmt.Errorf("%w: texture %dx%d exceeds %d", ErrInvalidDimensions, params.Width, params.Height, maxSize)
	}
	if params.OriginalWidth == 0 {
		params.OriginalWidth = params.Width
	}
	if params.OriginalHeight == 0 {
		params.OriginalHeight = params.Height
	}
	params.Depth = max(params.Depth, 1)
	params.MipMapCount = max(params.MipMapCount, 1)
	minF, magF := c.GetDefaultTextureFilters()
	return c.textures.Store(&texture{
		params:    params,
		minFilter: minF,
		magFilter: magF,
		uwrap:     gfx.TextureWrapClampToEdge,
		vwrap:     gfx.TextureWrapClampToEdge,
	}, handle.TypeTexture), nil
}

func (c *Context) destroyTexture(t *texture) {
	if t.sampler != nil {
		c.device.DestroySampler(t.sampler)
	}
	if t.view != nil {
		c.device.DestroyTextureView(t.view)
	}
	if t.native != nil {
		c.device.DestroyTexture(t.native)
	}
	t.sampler, t.view, t.native = nil, nil, nil
}

func (c *Context) buryTexture(t *texture) {
	c.bury(t.sampler, t.view, t.native)
	t.sampler, t.view, t.native = nil, nil, nil
}

// DeleteTexture implements gfx.Context.
func (c *Context) DeleteTexture(h gfx.Handle) {
	for i, t := range c.Textures {
		if t == h {
			c.Textures[i] = handle.Invalid
		}
	}
	if t, ok := c.textures.Delete(h); ok {
		c.buryTexture(t)
	}
}

// allocTexture (re)creates the device texture, view and sampler of t.
func (c *Context) allocTexture(t *texture, f textureFormat, usage gputypes.TextureUsage) error {
	c.buryTexture(t)
	native, err := c.device.CreateTexture(&hal.TextureDescriptor{
		Label:         "gfx-texture",
		Size:          hal.Extent3D{Width: max(t.params.Width, 1), Height: max(t.params.Height, 1), DepthOrArrayLayers: t.layers()},
		MipLevelCount: t.params.MipMapCount,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        f.format,
		Usage:         usage,
	})
	if err != nil {
		return fmt.Errorf("native: create texture: %w", err)
	}
	view, err := c.device.CreateTextureView(native, &hal.TextureViewDescriptor{
		Label:           "gfx-texture",
		Format:          f.format,
		Dimension:       t.viewDimension(),
		Aspect:          gputypes.TextureAspectAll,
		MipLevelCount:   t.params.MipMapCount,
		ArrayLayerCount: t.layers(),
	})
	if err != nil {
		c.device.DestroyTexture(native)
		return fmt.Errorf("native: create texture view: %w", err)
	}
	t.native, t.view, t.device = native, view, f
	return c.updateSampler(t)
}

func (c *Context) updateSampler(t *texture) error {
	minF, mip := convertMinFilter(t.minFilter)
	s, err := c.device.CreateSampler(&hal.SamplerDescriptor{
		Label:        "gfx-sampler",
		AddressModeU: convertWrap(t.uwrap),
		AddressModeV: convertWrap(t.vwrap),
		AddressModeW: convertWrap(t.vwrap),
		MagFilter:    convertMagFilter(t.magFilter),
		MinFilter:    minF,
		MipmapFilter: mip,
		LodMaxClamp:  32,
		Anisotropy:   uint16(min(max(t.anisotropy, 1), 16)),
	})
	if err != nil {
		return fmt.Errorf("native: create sampler: %w", err)
	}
	if t.sampler != nil {
		c.bury(t.sampler)
	}
	t.sampler = s
	return nil
}

// SetTexture implements gfx.Context.
func (c *Context) SetTexture(h gfx.Handle, p gfx.TextureParams) error {
	t, ok := c.textures.Get(h)
	if !ok {
		return fmt.Errorf("native: %w: %v", gfx.ErrInvalidHandle, h)
	}
	f, ok := convertTextureFormat(p.Format)
	if !ok || !c.IsTextureFormatSupported(p.Format) {
		gfx.Logger().Warn("native: unsupported texture format", "format", p.Format.String())
		return fmt.Errorf("native: %w: %s", gfx.ErrUnsupportedFormat, p.Format)
	}
	if p.MinFilter != gfx.TextureFilterDefault {
		t.minFilter = p.MinFilter
	}
	if p.MagFilter != gfx.TextureFilterDefault {
		t.magFilter = p.MagFilter
	}
	t.uwrap, t.vwrap = p.UWrap, p.VWrap

	if !p.SubUpdate || t.native == nil || t.format != p.Format {
		if !p.SubUpdate {
			t.params.Width, t.params.Height = p.Width, p.Height
			if t.params.Type != gfx.TextureTypeCubeMap {
				t.params.Depth = max(p.Depth, 1)
			}
		}
		usage := gputypes.TextureUsageTextureBinding | gputypes.TextureUsageCopyDst
		if err := c.allocTexture(t, f, usage); err != nil {
			return err
		}
		t.format = p.Format
	} else if err := c.updateSampler(t); err != nil {
		return err
	}
	if len(p.Data) == 0 {
		return nil
	}
	return c.uploadTexture(t, p)
}

func (c *Context) uploadTexture(t *texture, p gfx.TextureParams) error {
	data := p.Data
	if t.device.expand != nil {
		data = t.device.expand(data)
	}
	width, height := max(p.Width, 1), max(p.Height, 1)
	bytesPerRow := width * t.device.bytesPerPixel
	rows := height
	if t.device.bytesPerPixel == 0 {
		// BC blocks are 4x4 texels, 16 bytes each.
		bytesPerRow = (width + 3) / 4 * 16
		rows = (height + 3) / 4
	}
	err := c.queue.WriteTexture(
		&hal.ImageCopyTexture{
			Texture:  t.native,
			MipLevel: p.MipMap,
			Origin:   hal.Origin3D{X: p.X, Y: p.Y, Z: p.Z},
			Aspect:   gputypes.TextureAspectAll,
		},
		data,
		&hal.ImageDataLayout{BytesPerRow: bytesPerRow, RowsPerImage: rows},
		&hal.Extent3D{Width: width, Height: height, DepthOrArrayLayers: max(p.Depth, 1)},
	)
	if err != nil {
		return fmt.Errorf("native: write texture: %w", err)
	}
	return nil
}

// SetTextureParams implements gfx.Context.
func (c *Context) SetTextureParams(h gfx.Handle, minFilter, magFilter gfx.TextureFilter, uwrap, vwrap gfx.TextureWrap, maxAnisotropy float32) {
	t, ok := c.textures.Get(h)
	if !ok {
		c.verify.Check("SetTextureParams", fmt.Errorf("%w: %v", gfx.ErrInvalidHandle, h))
		return
	}
	t.minFilter, t.magFilter = minFilter, magFilter
	t.uwrap, t.vwrap = uwrap, vwrap
	t.anisotropy = maxAnisotropy
	if t.native != nil {
		c.verify.Check("SetTextureParams", c.updateSampler(t))
	}
}

func (c *Context) texture(h gfx.Handle) *texture {
	t, ok := c.textures.Get(h)
	if !ok {
		return &texture{}
	}
	return t
}

// GetTextureWidth implements gfx.Context.
func (c *Context) GetTextureWidth(h gfx.Handle) uint32 { return c.texture(h).params.Width }

// GetTextureHeight implements gfx.Context.
func (c *Context) GetTextureHeight(h gfx.Handle) uint32 { return c.texture(h).params.Height }

// GetOriginalTextureWidth implements gfx.Context.
func (c *Context) GetOriginalTextureWidth(h gfx.Handle) uint32 {
	return c.texture(h).params.OriginalWidth
}

// GetOriginalTextureHeight implements gfx.Context.
func (c *Context) GetOriginalTextureHeight(h gfx.Handle) uint32 {
	return c.texture(h).params.OriginalHeight
}

// GetTextureType implements gfx.Context.
func (c *Context) GetTextureType(h gfx.Handle) gfx.TextureType { return c.texture(h).params.Type }

// GetTextureDepth implements gfx.Context.
func (c *Context) GetTextureDepth(h gfx.Handle) uint32 { return c.texture(h).params.Depth }

// GetTextureMipmapCount implements gfx.Context.
func (c *Context) GetTextureMipmapCount(h gfx.Handle) uint32 { return c.texture(h).params.MipMapCount }

// IsTextureFormatSupported implements gfx.Context.
func (c *Context) IsTextureFormatSupported(f gfx.TextureFormat) bool {
	tf, ok := convertTextureFormat(f)
	if !ok {
		return false
	}
	caps := c.adapter.Adapter.TextureFormatCapabilities(tf.format)
	return caps.Flags&hal.TextureFormatCapabilitySampled != 0
}

// GetMaxTextureSize implements gfx.Context.
func (c *Context) GetMaxTextureSize() uint32 { return c.limits.MaxTextureDimension2D }

// IsAssetHandleValid implements gfx.Context.
func (c *Context) IsAssetHandleValid(h gfx.Handle) bool {
	switch h.Type() {
	case handle.TypeTexture:
		return c.textures.Contains(h)
	case handle.TypeRenderTarget:
		return c.renderTargets.Contains(h)
	}
	return false
}

// newDefaultTexture creates the 1x1 white texture bound to units without a
// texture.
func (c *Context) newDefaultTexture() (*texture, error) {
	t := &texture{
		params:    gfx.TextureCreationParams{Width: 1, Height: 1, Depth: 1, MipMapCount: 1},
		minFilter: gfx.TextureFilterNearest,
		magFilter: gfx.TextureFilterNearest,
		uwrap:     gfx.TextureWrapRepeat,
		vwrap:     gfx.TextureWrapRepeat,
	}
	f, _ := convertTextureFormat(gfx.TextureFormatRGBA)
	if err := c.allocTexture(t, f, gputypes.TextureUsageTextureBinding|gputypes.TextureUsageCopyDst); err != nil {
		return nil, err
	}
	t.format = gfx.TextureFormatRGBA
	err := c.uploadTexture(t, gfx.TextureParams{Data: []byte{0xFF, 0xFF, 0xFF, 0xFF}, Width: 1, Height: 1})
	return t, err
}

// renderTarget is an offscreen framebuffer. Color attachments and the
// shared depth-stencil attachment live in the texture container so they
// can be sampled.
type renderTarget struct {
	params  gfx.RenderTargetParams
	color   [gfx.MaxBufferColorAttachments]gfx.Handle
	depth   gfx.Handle
	stencil gfx.Handle
}

// NewRenderTarget implements gfx.Context.
func (c *Context) NewRenderTarget(p gfx.RenderTargetParams) (gfx.Handle, error) {
	if p.Width == 0 || p.Height == 0 || p.Width > c.GetMaxTextureSize() || p.Height > c.GetMaxTextureSize() {
		return handle.Invalid, fmt.Errorf("%w: render target %dx%d", ErrInvalidDimensions, p.Width, p.Height)
	}
	rt := &renderTarget{params: p}
	var created []gfx.Handle
	fail := func(err error) (gfx.Handle, error) {
		for _, h := range created {
			c.DeleteTexture(h)
		}
		return handle.Invalid, err
	}
	for i := range gfx.MaxBufferColorAttachments {
		if p.Buffers&(gfx.BufferTypeColor0<<i) == 0 {
			continue
		}
		h, err := c.newAttachment(p, p.ColorFormat)
		if err != nil {
			return fail(err)
		}
		created = append(created, h)
		rt.color[i] = h
	}
	if p.Buffers&(gfx.BufferTypeDepth|gfx.BufferTypeStencil) != 0 {
		h, err := c.newAttachment(p, gfx.TextureFormatDepth)
		if err != nil {
			return fail(err)
		}
		created = append(created, h)
		if p.Buffers&gfx.BufferTypeDepth != 0 {
			rt.depth = h
		}
		if p.Buffers&gfx.BufferTypeStencil != 0 {
			rt.stencil = h
		}
	}
	return c.renderTargets.Store(rt, handle.TypeRenderTarget), nil
}

func (c *Context) newAttachment(p gfx.RenderTargetParams, format gfx.TextureFormat) (gfx.Handle, error) {
	f, ok := convertTextureFormat(format)
	if !ok || f.expand != nil {
		return handle.Invalid, fmt.Errorf("native: %w: render target %s", gfx.ErrUnsupportedFormat, format)
	}
	t := &texture{
		params:     gfx.TextureCreationParams{Width: p.Width, Height: p.Height, Depth: 1, MipMapCount: 1},
		format:     format,
		minFilter:  p.MinFilter,
		magFilter:  p.MagFilter,
		uwrap:      gfx.TextureWrapClampToEdge,
		vwrap:      gfx.TextureWrapClampToEdge,
		attachment: true,
	}
	if t.minFilter == gfx.TextureFilterDefault {
		t.minFilter = gfx.TextureFilterLinear
	}
	if t.magFilter == gfx.TextureFilterDefault {
		t.magFilter = gfx.TextureFilterLinear
	}
	usage := gputypes.TextureUsageRenderAttachment | gputypes.TextureUsageTextureBinding | gputypes.TextureUsageCopySrc
	if err := c.allocTexture(t, f, usage); err != nil {
		return handle.Invalid, err
	}
	return c.textures.Store(t, handle.TypeTexture), nil
}

// DeleteRenderTarget implements gfx.Context.
func (c *Context) DeleteRenderTarget(h gfx.Handle) {
	rt, ok := c.renderTargets.Delete(h)
	if !ok {
		return
	}
	for _, t := range rt.color {
		c.DeleteTexture(t)
	}
	c.DeleteTexture(rt.depth)
	c.DeleteTexture(rt.stencil)
	if c.RenderTarget == h {
		c.SetRenderTarget(handle.Invalid)
	}
}

// SetRenderTarget implements gfx.Context. handle.Invalid selects the
// backbuffer. Switching targets inside a frame starts a new render pass
// that loads the target's contents.
func (c *Context) SetRenderTarget(h gfx.Handle) {
	if h != handle.Invalid && !c.renderTargets.Contains(h) {
		c.verify.Check("SetRenderTarget", fmt.Errorf("%w: %v", gfx.ErrInvalidHandle, h))
		return
	}
	if c.RenderTarget == h {
		return
	}
	c.RenderTarget = h
	c.ViewportChanged = true
	if c.slot != nil {
		c.beginPass(c.targetAttachments(h), nil)
	}
}

// targetAttachments returns the views of a render target, or of the
// backbuffer for handle.Invalid.
func (c *Context) targetAttachments(h gfx.Handle) attachments {
	rt, ok := c.renderTargets.Get(h)
	if !ok {
		return c.backbufferAttachments()
	}
	a := attachments{width: rt.params.Width, height: rt.params.Height}
	for _, th := range rt.color {
		if t, ok := c.textures.Get(th); ok {
			a.color = append(a.color, t.view)
			a.colorFormat = append(a.colorFormat, t.device.format)
		}
	}
	ds := rt.depth
	if ds == handle.Invalid {
		ds = rt.stencil
	}
	if t, ok := c.textures.Get(ds); ok {
		a.depth = t.view
	}
	return a
}

func (rt *renderTarget) attachment(buffer gfx.BufferType) gfx.Handle {
	switch buffer {
	case gfx.BufferTypeDepth:
		return rt.depth
	case gfx.BufferTypeStencil:
		return rt.stencil
	}
	for i := range gfx.MaxBufferColorAttachments {
		if buffer == gfx.BufferTypeColor0<<i {
			return rt.color[i]
		}
	}
	return handle.Invalid
}

// GetRenderTargetTexture implements gfx.Context.
func (c *Context) GetRenderTargetTexture(h gfx.Handle, buffer gfx.BufferType) gfx.Handle {
	rt, ok := c.renderTargets.Get(h)
	if !ok {
		return handle.Invalid
	}
	return rt.attachment(buffer)
}

// GetRenderTargetSize implements gfx.Context.
func (c *Context) GetRenderTargetSize(h gfx.Handle, buffer gfx.BufferType) (uint32, uint32) {
	rt, ok := c.renderTargets.Get(h)
	if !ok {
		return 0, 0
	}
	t := rt.attachment(buffer)
	return c.GetTextureWidth(t), c.GetTextureHeight(t)
}

// SetRenderTargetSize implements gfx.Context. Attachment contents are
// discarded.
func (c *Context) SetRenderTargetSize(h gfx.Handle, width, height uint32) {
	rt, ok := c.renderTargets.Get(h)
	if !ok {
		c.verify.Check("SetRenderTargetSize", fmt.Errorf("%w: %v", gfx.ErrInvalidHandle, h))
		return
	}
	if width == 0 || height == 0 {
		c.verify.Check("SetRenderTargetSize", fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height))
		return
	}
	rt.params.Width, rt.params.Height = width, height
	seen := map[gfx.Handle]bool{}
	resize := func(th gfx.Handle) {
		t, ok := c.textures.Get(th)
		if !ok || seen[th] {
			return
		}
		seen[th] = true
		t.params.Width, t.params.Height = width, height
		usage := gputypes.TextureUsageRenderAttachment | gputypes.TextureUsageTextureBinding | gputypes.TextureUsageCopySrc
		c.verify.Check("SetRenderTargetSize", c.allocTexture(t, t.device, usage))
	}
	for _, th := range rt.color {
		resize(th)
	}
	resize(rt.depth)
	resize(rt.stencil)
	if c.RenderTarget == h && c.slot != nil {
		c.beginPass(c.targetAttachments(h), nil)
	}
}
