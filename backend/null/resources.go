// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package null

import (
	"fmt"
	"slices"

	"github.com/gogpu/gfx"
	"github.com/gogpu/gfx/handle"
)

type buffer struct {
	data  []byte
	usage gfx.BufferUsage
}

type texture struct {
	params    gfx.TextureCreationParams
	data      []byte
	format    gfx.TextureFormat
	minFilter gfx.TextureFilter
	magFilter gfx.TextureFilter
	uwrap     gfx.TextureWrap
	vwrap     gfx.TextureWrap
	// anisotropy is the last value passed to SetTextureParams.
	anisotropy float32
}

type renderTarget struct {
	params  gfx.RenderTargetParams
	color   [gfx.MaxBufferColorAttachments]gfx.Handle
	depth   gfx.Handle
	stencil gfx.Handle
}

// NewVertexBuffer implements gfx.Context.
func (c *Context) NewVertexBuffer(data []byte, usage gfx.BufferUsage) (gfx.Handle, error) {
	return c.vertexBuffers.Store(&buffer{data: slices.Clone(data), usage: usage}, handle.TypeVertexBuffer), nil
}

// DeleteVertexBuffer implements gfx.Context.
func (c *Context) DeleteVertexBuffer(h gfx.Handle) {
	c.DisableVertexBuffer(h)
	c.vertexBuffers.Delete(h)
}

// SetVertexBufferData implements gfx.Context.
func (c *Context) SetVertexBufferData(h gfx.Handle, data []byte, usage gfx.BufferUsage) error {
	return setBufferData(c.vertexBuffers, h, data, usage)
}

// SetVertexBufferSubData implements gfx.Context.
func (c *Context) SetVertexBufferSubData(h gfx.Handle, offset uint32, data []byte) error {
	return setBufferSubData(c.vertexBuffers, h, offset, data)
}

// NewIndexBuffer implements gfx.Context.
func (c *Context) NewIndexBuffer(data []byte, usage gfx.BufferUsage) (gfx.Handle, error) {
	return c.indexBuffers.Store(&buffer{data: slices.Clone(data), usage: usage}, handle.TypeIndexBuffer), nil
}

// DeleteIndexBuffer implements gfx.Context.
func (c *Context) DeleteIndexBuffer(h gfx.Handle) { c.indexBuffers.Delete(h) }

// SetIndexBufferData implements gfx.Context.
func (c *Context) SetIndexBufferData(h gfx.Handle, data []byte, usage gfx.BufferUsage) error {
	return setBufferData(c.indexBuffers, h, data, usage)
}

// SetIndexBufferSubData implements gfx.Context.
func (c *Context) SetIndexBufferSubData(h gfx.Handle, offset uint32, data []byte) error {
	return setBufferSubData(c.indexBuffers, h, offset, data)
}

func setBufferData(store *handle.Container[*buffer], h gfx.Handle, data []byte, usage gfx.BufferUsage) error {
	b, ok := store.Get(h)
	if !ok {
		return fmt.Errorf("null: %w: %v", gfx.ErrInvalidHandle, h)
	}
	b.data = slices.Clone(data)
	b.usage = usage
	return nil
}

func setBufferSubData(store *handle.Container[*buffer], h gfx.Handle, offset uint32, data []byte) error {
	b, ok := store.Get(h)
	if !ok {
		return fmt.Errorf("null: %w: %v", gfx.ErrInvalidHandle, h)
	}
	end := int(offset) + len(data)
	if end > len(b.data) {
		return fmt.Errorf("null: sub data [%d:%d] exceeds buffer size %d", offset, end, len(b.data))
	}
	copy(b.data[offset:], data)
	return nil
}

// IsIndexBufferFormatSupported implements gfx.Context.
func (c *Context) IsIndexBufferFormatSupported(gfx.IndexBufferFormat) bool { return true }

// GetMaxElementsVertices implements gfx.Context.
func (c *Context) GetMaxElementsVertices() uint32 { return 65536 }

// GetMaxElementsIndices implements gfx.Context.
func (c *Context) GetMaxElementsIndices() uint32 { return 1 << 24 }

// VertexBufferData returns the CPU contents of a vertex buffer.
func (c *Context) VertexBufferData(h gfx.Handle) ([]byte, bool) {
	b, ok := c.vertexBuffers.Get(h)
	if !ok {
		return nil, false
	}
	return b.data, true
}

// NewVertexDeclaration implements gfx.Context.
func (c *Context) NewVertexDeclaration(sd *gfx.VertexStreamDeclaration) (*gfx.VertexDeclaration, error) {
	return gfx.BuildVertexDeclaration(sd, 0)
}

// NewVertexDeclarationStride implements gfx.Context.
func (c *Context) NewVertexDeclarationStride(sd *gfx.VertexStreamDeclaration, stride uint32) (*gfx.VertexDeclaration, error) {
	return gfx.BuildVertexDeclaration(sd, stride)
}

// NewTexture implements gfx.Context.
func (c *Context) NewTexture(params gfx.TextureCreationParams) (gfx.Handle, error) {
	if params.Width > MaxTextureSize || params.Height > MaxTextureSize {
		return handle.Invalid, fmt.Errorf("null: texture %dx%d exceeds %d", params.Width, params.Height, MaxTextureSize)
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

// DeleteTexture implements gfx.Context.
func (c *Context) DeleteTexture(h gfx.Handle) {
	for i, t := range c.Textures {
		if t == h {
			c.Textures[i] = handle.Invalid
		}
	}
	c.textures.Delete(h)
}

// SetTexture implements gfx.Context.
func (c *Context) SetTexture(h gfx.Handle, p gfx.TextureParams) error {
	t, ok := c.textures.Get(h)
	if !ok {
		return fmt.Errorf("null: %w: %v", gfx.ErrInvalidHandle, h)
	}
	if !c.IsTextureFormatSupported(p.Format) {
		gfx.Logger().Warn("null: unsupported texture format", "format", p.Format.String())
		return fmt.Errorf("null: %w: %s", gfx.ErrUnsupportedFormat, p.Format)
	}
	if !p.SubUpdate {
		t.params.Width, t.params.Height = p.Width, p.Height
		t.params.Depth = max(p.Depth, 1)
		t.data = slices.Clone(p.Data)
	} else if bpp := p.Format.BitsPerPixel(); bpp != 0 && t.data != nil {
		stride := int(t.params.Width * bpp / 8)
		row := int(p.Width * bpp / 8)
		for y := range int(p.Height) {
			dst := (int(p.Y)+y)*stride + int(p.X*bpp/8)
			src := y * row
			if dst+row <= len(t.data) && src+row <= len(p.Data) {
				copy(t.data[dst:dst+row], p.Data[src:src+row])
			}
		}
	}
	t.format = p.Format
	if p.MinFilter != gfx.TextureFilterDefault {
		t.minFilter = p.MinFilter
	}
	if p.MagFilter != gfx.TextureFilterDefault {
		t.magFilter = p.MagFilter
	}
	t.uwrap, t.vwrap = p.UWrap, p.VWrap
	return nil
}

// SetTextureParams implements gfx.Context.
func (c *Context) SetTextureParams(h gfx.Handle, minFilter, magFilter gfx.TextureFilter, uwrap, vwrap gfx.TextureWrap, maxAnisotropy float32) {
	t, ok := c.textures.Get(h)
	if !ok {
		return
	}
	t.minFilter, t.magFilter = minFilter, magFilter
	t.uwrap, t.vwrap = uwrap, vwrap
	t.anisotropy = maxAnisotropy
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

// TextureData returns the CPU texels of a texture.
func (c *Context) TextureData(h gfx.Handle) ([]byte, bool) {
	t, ok := c.textures.Get(h)
	if !ok {
		return nil, false
	}
	return t.data, true
}

// IsTextureFormatSupported implements gfx.Context. The null device samples
// every uncompressed format.
func (c *Context) IsTextureFormatSupported(f gfx.TextureFormat) bool {
	return f.BitsPerPixel() != 0
}

// GetMaxTextureSize implements gfx.Context.
func (c *Context) GetMaxTextureSize() uint32 { return MaxTextureSize }

// IsAssetHandleValid implements gfx.Context. Only textures and render
// targets are assets.
func (c *Context) IsAssetHandleValid(h gfx.Handle) bool {
	switch h.Type() {
	case handle.TypeTexture:
		return c.textures.Contains(h)
	case handle.TypeRenderTarget:
		return c.renderTargets.Contains(h)
	}
	return false
}

// NewRenderTarget implements gfx.Context.
func (c *Context) NewRenderTarget(p gfx.RenderTargetParams) (gfx.Handle, error) {
	rt := &renderTarget{params: p}
	attach := func(format gfx.TextureFormat) (gfx.Handle, error) {
		h, err := c.NewTexture(gfx.TextureCreationParams{Width: p.Width, Height: p.Height, Depth: 1, MipMapCount: 1})
		if err != nil {
			return handle.Invalid, err
		}
		t, _ := c.textures.Get(h)
		t.format = format
		return h, nil
	}
	for i := range gfx.MaxBufferColorAttachments {
		if p.Buffers&(gfx.BufferTypeColor0<<i) == 0 {
			continue
		}
		h, err := attach(p.ColorFormat)
		if err != nil {
			return handle.Invalid, err
		}
		rt.color[i] = h
	}
	if p.Buffers&gfx.BufferTypeDepth != 0 {
		h, err := attach(gfx.TextureFormatDepth)
		if err != nil {
			return handle.Invalid, err
		}
		rt.depth = h
	}
	if p.Buffers&gfx.BufferTypeStencil != 0 {
		h, err := attach(gfx.TextureFormatStencil)
		if err != nil {
			return handle.Invalid, err
		}
		rt.stencil = h
	}
	return c.renderTargets.Store(rt, handle.TypeRenderTarget), nil
}

// DeleteRenderTarget implements gfx.Context.
func (c *Context) DeleteRenderTarget(h gfx.Handle) {
	rt, ok := c.renderTargets.Delete(h)
	if !ok {
		return
	}
	for _, t := range rt.color {
		c.textures.Delete(t)
	}
	c.textures.Delete(rt.depth)
	c.textures.Delete(rt.stencil)
	if c.RenderTarget == h {
		c.RenderTarget = handle.Invalid
	}
}

// SetRenderTarget implements gfx.Context. handle.Invalid selects the
// backbuffer.
func (c *Context) SetRenderTarget(h gfx.Handle) {
	if h != handle.Invalid && !c.renderTargets.Contains(h) {
		c.verify.Check("SetRenderTarget", fmt.Errorf("%w: %v", gfx.ErrInvalidHandle, h))
		return
	}
	if c.RenderTarget != h {
		c.RenderTarget = h
		c.ViewportChanged = true
	}
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

// SetRenderTargetSize implements gfx.Context.
func (c *Context) SetRenderTargetSize(h gfx.Handle, width, height uint32) {
	rt, ok := c.renderTargets.Get(h)
	if !ok {
		return
	}
	rt.params.Width, rt.params.Height = width, height
	resize := func(t gfx.Handle) {
		if tex, ok := c.textures.Get(t); ok {
			tex.params.Width, tex.params.Height = width, height
			tex.data = nil
		}
	}
	for _, t := range rt.color {
		resize(t)
	}
	resize(rt.depth)
	resize(rt.stencil)
}
