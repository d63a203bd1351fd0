// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gfx

import "github.com/gogpu/gfx/handle"

// Handle is an opaque, generation-checked reference to a GPU resource.
type Handle = handle.Handle

// MaxTextureUnits is the number of texture units a draw can sample.
const MaxTextureUnits = 8

// TextureCreationParams describes a texture allocation.
type TextureCreationParams struct {
	Type   TextureType
	Width  uint32
	Height uint32
	Depth  uint32
	// OriginalWidth and OriginalHeight are the source image size before any
	// rescale. Zero means the same as Width and Height.
	OriginalWidth  uint32
	OriginalHeight uint32
	MipMapCount    uint32
}

// TextureParams describes a texture upload and its sampler state.
type TextureParams struct {
	Data      []byte
	Format    TextureFormat
	MinFilter TextureFilter
	MagFilter TextureFilter
	UWrap     TextureWrap
	VWrap     TextureWrap
	X, Y, Z   uint32
	Width     uint32
	Height    uint32
	Depth     uint32
	MipMap    uint32
	// SubUpdate writes a region of an existing texture instead of
	// redefining it.
	SubUpdate bool
}

// RenderTargetParams describes an offscreen render target.
type RenderTargetParams struct {
	Width  uint32
	Height uint32
	// Buffers selects the attachments to create.
	Buffers     BufferType
	ColorFormat TextureFormat
	MinFilter   TextureFilter
	MagFilter   TextureFilter
}

// Context is the uniform operation set every backend adapter implements.
//
// A Context accumulates pending state without backend side effects; a Draw
// materializes it (viewport, uniforms, pipeline lookup, bindings) and issues
// the native draw. All methods are called from one rendering goroutine.
//
// Methods without an error result route native failures through the
// context's Verifier.
type Context interface {
	// Lifecycle.
	Initialize() error
	Finalize()
	AdapterFamily() AdapterFamily
	Width() uint32
	Height() uint32
	ResizeWindow(width, height uint32)
	GetDefaultTextureFilters() (minFilter, magFilter TextureFilter)

	// Frame.
	BeginFrame() error
	Flip() error
	Clear(flags BufferType, r, g, b, a uint8, depth float32, stencil uint32)

	// Buffers.
	NewVertexBuffer(data []byte, usage BufferUsage) (Handle, error)
	DeleteVertexBuffer(h Handle)
	SetVertexBufferData(h Handle, data []byte, usage BufferUsage) error
	SetVertexBufferSubData(h Handle, offset uint32, data []byte) error
	NewIndexBuffer(data []byte, usage BufferUsage) (Handle, error)
	DeleteIndexBuffer(h Handle)
	SetIndexBufferData(h Handle, data []byte, usage BufferUsage) error
	SetIndexBufferSubData(h Handle, offset uint32, data []byte) error
	IsIndexBufferFormatSupported(f IndexBufferFormat) bool
	GetMaxElementsVertices() uint32
	GetMaxElementsIndices() uint32

	// Vertex declarations.
	NewVertexDeclaration(sd *VertexStreamDeclaration) (*VertexDeclaration, error)
	NewVertexDeclarationStride(sd *VertexStreamDeclaration, stride uint32) (*VertexDeclaration, error)
	EnableVertexBuffer(vb Handle, binding int)
	DisableVertexBuffer(vb Handle)
	EnableVertexDeclaration(decl *VertexDeclaration, binding int)
	DisableVertexDeclaration(decl *VertexDeclaration)

	// Programs.
	NewVertexProgram(desc *ShaderDesc) (Handle, error)
	NewFragmentProgram(desc *ShaderDesc) (Handle, error)
	NewProgram(vp, fp Handle) (Handle, error)
	DeleteVertexProgram(h Handle)
	DeleteFragmentProgram(h Handle)
	DeleteProgram(h Handle)
	EnableProgram(h Handle)
	DisableProgram()
	GetAttributeCount(program Handle) int
	GetAttribute(program Handle, index int) (ShaderInput, bool)
	GetUniformCount(program Handle) int
	GetUniformName(program Handle, index int) (UniformInfo, bool)
	GetUniformLocation(program Handle, name string) UniformLocation
	SetConstantV4(data [][4]float32, loc UniformLocation)
	SetConstantM4(data [][16]float32, loc UniformLocation)
	SetSampler(loc UniformLocation, unit int)

	// Render targets. handle.Invalid selects the backbuffer.
	NewRenderTarget(params RenderTargetParams) (Handle, error)
	DeleteRenderTarget(h Handle)
	SetRenderTarget(h Handle)
	GetRenderTargetTexture(h Handle, buffer BufferType) Handle
	GetRenderTargetSize(h Handle, buffer BufferType) (width, height uint32)
	SetRenderTargetSize(h Handle, width, height uint32)

	// Textures.
	NewTexture(params TextureCreationParams) (Handle, error)
	DeleteTexture(h Handle)
	SetTexture(h Handle, params TextureParams) error
	SetTextureParams(h Handle, minFilter, magFilter TextureFilter, uwrap, vwrap TextureWrap, maxAnisotropy float32)
	GetTextureWidth(h Handle) uint32
	GetTextureHeight(h Handle) uint32
	GetOriginalTextureWidth(h Handle) uint32
	GetOriginalTextureHeight(h Handle) uint32
	GetTextureType(h Handle) TextureType
	GetTextureDepth(h Handle) uint32
	GetTextureMipmapCount(h Handle) uint32
	IsTextureFormatSupported(f TextureFormat) bool
	GetMaxTextureSize() uint32
	EnableTexture(unit int, h Handle)
	DisableTexture(unit int, h Handle)
	IsAssetHandleValid(h Handle) bool

	// Draw.
	Draw(prim PrimitiveType, first, count uint32)
	DrawElements(prim PrimitiveType, first, count uint32, indexType Type, ib Handle)

	// Fixed-function state.
	EnableState(s State)
	DisableState(s State)
	SetBlendFunc(src, dst BlendFactor)
	SetColorMask(red, green, blue, alpha bool)
	SetDepthMask(enabled bool)
	SetDepthFunc(fn CompareFunc)
	SetScissor(x, y, width, height int32)
	SetStencilMask(mask uint32)
	SetStencilFunc(fn CompareFunc, ref, mask uint32)
	SetStencilFuncSeparate(face FaceType, fn CompareFunc, ref, mask uint32)
	SetStencilOp(sfail, dpfail, dppass StencilOp)
	SetStencilOpSeparate(face FaceType, sfail, dpfail, dppass StencilOp)
	SetCullFace(face FaceType)
	SetFaceWinding(winding FaceWinding)
	SetPolygonOffset(factor, units float32)
	SetViewport(x, y, width, height int32)
	GetPipelineState() PipelineState
}
