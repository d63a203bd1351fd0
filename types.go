// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gfx

import "fmt"

// State is a fixed-function toggle for EnableState/DisableState.
type State uint8

// Fixed-function toggles.
const (
	StateDepthTest State = iota
	StateScissorTest
	StateStencilTest
	StateAlphaTest
	StateBlend
	StateCullFace
	StatePolygonOffsetFill
)

var stateNames = [...]string{
	StateDepthTest:         "DepthTest",
	StateScissorTest:       "ScissorTest",
	StateStencilTest:       "StencilTest",
	StateAlphaTest:         "AlphaTest",
	StateBlend:             "Blend",
	StateCullFace:          "CullFace",
	StatePolygonOffsetFill: "PolygonOffsetFill",
}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("State(%d)", uint8(s))
}

// BlendFactor selects a blend equation operand.
type BlendFactor uint8

// Blend factors.
const (
	BlendFactorZero BlendFactor = iota
	BlendFactorOne
	BlendFactorSrcColor
	BlendFactorOneMinusSrcColor
	BlendFactorDstColor
	BlendFactorOneMinusDstColor
	BlendFactorSrcAlpha
	BlendFactorOneMinusSrcAlpha
	BlendFactorDstAlpha
	BlendFactorOneMinusDstAlpha
	BlendFactorSrcAlphaSaturate
	BlendFactorConstantColor
	BlendFactorOneMinusConstantColor
	BlendFactorConstantAlpha
	BlendFactorOneMinusConstantAlpha
)

// CompareFunc is a depth or stencil test function.
type CompareFunc uint8

// Compare functions.
const (
	CompareFuncNever CompareFunc = iota
	CompareFuncLess
	CompareFuncLessEqual
	CompareFuncGreater
	CompareFuncGreaterEqual
	CompareFuncEqual
	CompareFuncNotEqual
	CompareFuncAlways
)

// StencilOp is a stencil buffer update operation.
type StencilOp uint8

// Stencil operations.
const (
	StencilOpKeep StencilOp = iota
	StencilOpZero
	StencilOpReplace
	StencilOpIncr
	StencilOpIncrWrap
	StencilOpDecr
	StencilOpDecrWrap
	StencilOpInvert
)

// FaceType selects polygon faces for culling and separate stencil state.
type FaceType uint8

// Face types.
const (
	FaceTypeFront FaceType = iota
	FaceTypeBack
	FaceTypeFrontAndBack
)

// FaceWinding is the front-facing vertex order.
type FaceWinding uint8

// Face windings.
const (
	FaceWindingCCW FaceWinding = iota
	FaceWindingCW
)

// PrimitiveType is the topology of a draw call.
type PrimitiveType uint8

// Primitive types.
const (
	PrimitiveLines PrimitiveType = iota
	PrimitiveTriangles
	PrimitiveTriangleStrip
)

func (p PrimitiveType) String() string {
	switch p {
	case PrimitiveLines:
		return "Lines"
	case PrimitiveTriangles:
		return "Triangles"
	case PrimitiveTriangleStrip:
		return "TriangleStrip"
	}
	return fmt.Sprintf("PrimitiveType(%d)", uint8(p))
}

// Type is a scalar component type for vertex streams and index buffers.
type Type uint8

// Component types.
const (
	TypeByte Type = iota
	TypeUnsignedByte
	TypeShort
	TypeUnsignedShort
	TypeInt
	TypeUnsignedInt
	TypeFloat
)

// Size returns the byte size of one component.
func (t Type) Size() uint32 {
	switch t {
	case TypeByte, TypeUnsignedByte:
		return 1
	case TypeShort, TypeUnsignedShort:
		return 2
	case TypeInt, TypeUnsignedInt, TypeFloat:
		return 4
	}
	return 0
}

// BufferUsage is an update-frequency hint for vertex and index buffers.
type BufferUsage uint8

// Buffer usage hints.
const (
	BufferUsageStreamDraw BufferUsage = iota
	BufferUsageDynamicDraw
	BufferUsageStaticDraw
)

// BufferType is a bitmask selecting framebuffer attachments.
type BufferType uint32

// Framebuffer attachment bits.
const (
	BufferTypeColor0 BufferType = 1 << iota
	BufferTypeColor1
	BufferTypeColor2
	BufferTypeColor3
	BufferTypeDepth
	BufferTypeStencil

	BufferTypeColorAll = BufferTypeColor0 | BufferTypeColor1 | BufferTypeColor2 | BufferTypeColor3
)

// MaxBufferColorAttachments is the number of color attachments a render
// target may carry.
const MaxBufferColorAttachments = 4

// IndexBufferFormat is the element width of an index buffer.
type IndexBufferFormat uint8

// Index formats.
const (
	IndexBufferFormat16 IndexBufferFormat = iota
	IndexBufferFormat32
)

// TextureFormat is the texel layout of SetTexture data.
type TextureFormat uint8

// Texture formats.
const (
	TextureFormatLuminance TextureFormat = iota
	TextureFormatLuminanceAlpha
	TextureFormatRGB
	TextureFormatRGBA
	TextureFormatRGB16BPP
	TextureFormatRGBA16BPP
	TextureFormatDepth
	TextureFormatStencil
	TextureFormatRGBABC3
	TextureFormatR16F
	TextureFormatRG16F
	TextureFormatRGBA16F
	TextureFormatR32F
	TextureFormatRG32F
	TextureFormatRGBA32F

	textureFormatCount
)

var textureFormatNames = [...]string{
	TextureFormatLuminance:      "Luminance",
	TextureFormatLuminanceAlpha: "LuminanceAlpha",
	TextureFormatRGB:            "RGB",
	TextureFormatRGBA:           "RGBA",
	TextureFormatRGB16BPP:       "RGB16BPP",
	TextureFormatRGBA16BPP:      "RGBA16BPP",
	TextureFormatDepth:          "Depth",
	TextureFormatStencil:        "Stencil",
	TextureFormatRGBABC3:        "RGBA_BC3",
	TextureFormatR16F:           "R16F",
	TextureFormatRG16F:          "RG16F",
	TextureFormatRGBA16F:        "RGBA16F",
	TextureFormatR32F:           "R32F",
	TextureFormatRG32F:          "RG32F",
	TextureFormatRGBA32F:        "RGBA32F",
}

func (f TextureFormat) String() string {
	if int(f) < len(textureFormatNames) {
		return textureFormatNames[f]
	}
	return fmt.Sprintf("TextureFormat(%d)", uint8(f))
}

// BitsPerPixel returns the size of one texel of uncompressed formats,
// or 0 for block-compressed ones.
func (f TextureFormat) BitsPerPixel() uint32 {
	switch f {
	case TextureFormatLuminance:
		return 8
	case TextureFormatLuminanceAlpha, TextureFormatRGB16BPP, TextureFormatRGBA16BPP, TextureFormatR16F:
		return 16
	case TextureFormatRGB:
		return 24
	case TextureFormatRGBA, TextureFormatDepth, TextureFormatStencil, TextureFormatRG16F, TextureFormatR32F:
		return 32
	case TextureFormatRGBA16F, TextureFormatRG32F:
		return 64
	case TextureFormatRGBA32F:
		return 128
	}
	return 0
}

// TextureType is the dimensionality of a texture.
type TextureType uint8

// Texture types.
const (
	TextureType2D TextureType = iota
	TextureType2DArray
	TextureTypeCubeMap
)

// TextureFilter is a sampling filter.
type TextureFilter uint8

// Texture filters. TextureFilterDefault resolves to the context defaults.
const (
	TextureFilterDefault TextureFilter = iota
	TextureFilterNearest
	TextureFilterLinear
	TextureFilterNearestMipmapNearest
	TextureFilterNearestMipmapLinear
	TextureFilterLinearMipmapNearest
	TextureFilterLinearMipmapLinear
)

// TextureWrap is a sampler addressing mode.
type TextureWrap uint8

// Texture wrap modes.
const (
	TextureWrapClampToBorder TextureWrap = iota
	TextureWrapClampToEdge
	TextureWrapMirroredRepeat
	TextureWrapRepeat
)

// AdapterFamily identifies the native API behind an adapter.
type AdapterFamily uint8

// Adapter families.
const (
	AdapterFamilyNone AdapterFamily = iota
	AdapterFamilyNull
	AdapterFamilyVulkan
	AdapterFamilyMetal
	AdapterFamilyDirectX
	AdapterFamilyOpenGL
	AdapterFamilySoftware
)

var adapterFamilyNames = [...]string{
	AdapterFamilyNone:     "none",
	AdapterFamilyNull:     "null",
	AdapterFamilyVulkan:   "vulkan",
	AdapterFamilyMetal:    "metal",
	AdapterFamilyDirectX:  "dx12",
	AdapterFamilyOpenGL:   "opengl",
	AdapterFamilySoftware: "software",
}

func (f AdapterFamily) String() string {
	if int(f) < len(adapterFamilyNames) {
		return adapterFamilyNames[f]
	}
	return fmt.Sprintf("AdapterFamily(%d)", uint8(f))
}

// ParseAdapterFamily maps a family name back to its value.
func ParseAdapterFamily(name string) (AdapterFamily, bool) {
	for i, n := range adapterFamilyNames {
		if n == name {
			return AdapterFamily(i), true //nolint:gosec // G115: table is tiny
		}
	}
	return AdapterFamilyNone, false
}
