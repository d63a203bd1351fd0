// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package native

import (
	"github.com/gogpu/gfx"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

var blendFactors = [...]gputypes.BlendFactor{
	gfx.BlendFactorZero:                  gputypes.BlendFactorZero,
	gfx.BlendFactorOne:                   gputypes.BlendFactorOne,
	gfx.BlendFactorSrcColor:              gputypes.BlendFactorSrc,
	gfx.BlendFactorOneMinusSrcColor:      gputypes.BlendFactorOneMinusSrc,
	gfx.BlendFactorDstColor:              gputypes.BlendFactorDst,
	gfx.BlendFactorOneMinusDstColor:      gputypes.BlendFactorOneMinusDst,
	gfx.BlendFactorSrcAlpha:              gputypes.BlendFactorSrcAlpha,
	gfx.BlendFactorOneMinusSrcAlpha:      gputypes.BlendFactorOneMinusSrcAlpha,
	gfx.BlendFactorDstAlpha:              gputypes.BlendFactorDstAlpha,
	gfx.BlendFactorOneMinusDstAlpha:      gputypes.BlendFactorOneMinusDstAlpha,
	gfx.BlendFactorSrcAlphaSaturate:      gputypes.BlendFactorSrcAlphaSaturated,
	gfx.BlendFactorConstantColor:         gputypes.BlendFactorConstant,
	gfx.BlendFactorOneMinusConstantColor: gputypes.BlendFactorOneMinusConstant,
	gfx.BlendFactorConstantAlpha:         gputypes.BlendFactorConstant,
	gfx.BlendFactorOneMinusConstantAlpha: gputypes.BlendFactorOneMinusConstant,
}

func convertBlendFactor(f gfx.BlendFactor) gputypes.BlendFactor {
	if int(f) < len(blendFactors) {
		return blendFactors[f]
	}
	return gputypes.BlendFactorOne
}

var compareFuncs = [...]gputypes.CompareFunction{
	gfx.CompareFuncNever:        gputypes.CompareFunctionNever,
	gfx.CompareFuncLess:         gputypes.CompareFunctionLess,
	gfx.CompareFuncLessEqual:    gputypes.CompareFunctionLessEqual,
	gfx.CompareFuncGreater:      gputypes.CompareFunctionGreater,
	gfx.CompareFuncGreaterEqual: gputypes.CompareFunctionGreaterEqual,
	gfx.CompareFuncEqual:        gputypes.CompareFunctionEqual,
	gfx.CompareFuncNotEqual:     gputypes.CompareFunctionNotEqual,
	gfx.CompareFuncAlways:       gputypes.CompareFunctionAlways,
}

func convertCompareFunc(f gfx.CompareFunc) gputypes.CompareFunction {
	if int(f) < len(compareFuncs) {
		return compareFuncs[f]
	}
	return gputypes.CompareFunctionAlways
}

var stencilOps = [...]hal.StencilOperation{
	gfx.StencilOpKeep:     hal.StencilOperationKeep,
	gfx.StencilOpZero:     hal.StencilOperationZero,
	gfx.StencilOpReplace:  hal.StencilOperationReplace,
	gfx.StencilOpIncr:     hal.StencilOperationIncrementClamp,
	gfx.StencilOpIncrWrap: hal.StencilOperationIncrementWrap,
	gfx.StencilOpDecr:     hal.StencilOperationDecrementClamp,
	gfx.StencilOpDecrWrap: hal.StencilOperationDecrementWrap,
	gfx.StencilOpInvert:   hal.StencilOperationInvert,
}

func convertStencilOp(op gfx.StencilOp) hal.StencilOperation {
	if int(op) < len(stencilOps) {
		return stencilOps[op]
	}
	return hal.StencilOperationKeep
}

func convertStencilFace(s gfx.StencilFaceState) hal.StencilFaceState {
	return hal.StencilFaceState{
		Compare:     convertCompareFunc(s.Func),
		FailOp:      convertStencilOp(s.OpFail),
		DepthFailOp: convertStencilOp(s.OpDepthFail),
		PassOp:      convertStencilOp(s.OpPass),
	}
}

func convertTopology(p gfx.PrimitiveType) gputypes.PrimitiveTopology {
	switch p {
	case gfx.PrimitiveLines:
		return gputypes.PrimitiveTopologyLineList
	case gfx.PrimitiveTriangleStrip:
		return gputypes.PrimitiveTopologyTriangleStrip
	}
	return gputypes.PrimitiveTopologyTriangleList
}

// convertCullMode maps the cull state. WebGPU cannot cull both faces, so
// FaceTypeFrontAndBack culls front faces only.
func convertCullMode(ps *gfx.PipelineState) gputypes.CullMode {
	if !ps.CullFaceEnabled {
		return gputypes.CullModeNone
	}
	if ps.CullFaceType == gfx.FaceTypeBack {
		return gputypes.CullModeBack
	}
	return gputypes.CullModeFront
}

func convertFrontFace(w gfx.FaceWinding) gputypes.FrontFace {
	if w == gfx.FaceWindingCW {
		return gputypes.FrontFaceCW
	}
	return gputypes.FrontFaceCCW
}

func convertColorMask(m gfx.ColorMask) gputypes.ColorWriteMask {
	var out gputypes.ColorWriteMask
	if m&gfx.ColorMaskRed != 0 {
		out |= gputypes.ColorWriteMaskRed
	}
	if m&gfx.ColorMaskGreen != 0 {
		out |= gputypes.ColorWriteMaskGreen
	}
	if m&gfx.ColorMaskBlue != 0 {
		out |= gputypes.ColorWriteMaskBlue
	}
	if m&gfx.ColorMaskAlpha != 0 {
		out |= gputypes.ColorWriteMaskAlpha
	}
	return out
}

// convertVertexFormat maps a stream to a vertex format. WebGPU has no
// three-component 8 or 16 bit formats; those streams are widened to four
// components, which reads one padding component past the stream.
func convertVertexFormat(typ gfx.Type, size uint32, normalize bool) (gputypes.VertexFormat, bool) {
	if size == 3 && typ != gfx.TypeFloat && typ != gfx.TypeInt && typ != gfx.TypeUnsignedInt {
		size = 4
	}
	if size == 1 && typ != gfx.TypeFloat && typ != gfx.TypeInt && typ != gfx.TypeUnsignedInt {
		size = 2
	}
	type key struct {
		typ  gfx.Type
		size uint32
		norm bool
	}
	f, ok := map[key]gputypes.VertexFormat{
		{gfx.TypeFloat, 1, false}:         gputypes.VertexFormatFloat32,
		{gfx.TypeFloat, 2, false}:         gputypes.VertexFormatFloat32x2,
		{gfx.TypeFloat, 3, false}:         gputypes.VertexFormatFloat32x3,
		{gfx.TypeFloat, 4, false}:         gputypes.VertexFormatFloat32x4,
		{gfx.TypeUnsignedByte, 2, false}:  gputypes.VertexFormatUint8x2,
		{gfx.TypeUnsignedByte, 4, false}:  gputypes.VertexFormatUint8x4,
		{gfx.TypeUnsignedByte, 2, true}:   gputypes.VertexFormatUnorm8x2,
		{gfx.TypeUnsignedByte, 4, true}:   gputypes.VertexFormatUnorm8x4,
		{gfx.TypeByte, 2, false}:          gputypes.VertexFormatSint8x2,
		{gfx.TypeByte, 4, false}:          gputypes.VertexFormatSint8x4,
		{gfx.TypeByte, 2, true}:           gputypes.VertexFormatSnorm8x2,
		{gfx.TypeByte, 4, true}:           gputypes.VertexFormatSnorm8x4,
		{gfx.TypeUnsignedShort, 2, false}: gputypes.VertexFormatUint16x2,
		{gfx.TypeUnsignedShort, 4, false}: gputypes.VertexFormatUint16x4,
		{gfx.TypeUnsignedShort, 2, true}:  gputypes.VertexFormatUnorm16x2,
		{gfx.TypeUnsignedShort, 4, true}:  gputypes.VertexFormatUnorm16x4,
		{gfx.TypeShort, 2, false}:         gputypes.VertexFormatSint16x2,
		{gfx.TypeShort, 4, false}:         gputypes.VertexFormatSint16x4,
		{gfx.TypeShort, 2, true}:          gputypes.VertexFormatSnorm16x2,
		{gfx.TypeShort, 4, true}:          gputypes.VertexFormatSnorm16x4,
		{gfx.TypeUnsignedInt, 1, false}:   gputypes.VertexFormatUint32,
		{gfx.TypeUnsignedInt, 2, false}:   gputypes.VertexFormatUint32x2,
		{gfx.TypeUnsignedInt, 3, false}:   gputypes.VertexFormatUint32x3,
		{gfx.TypeUnsignedInt, 4, false}:   gputypes.VertexFormatUint32x4,
		{gfx.TypeInt, 1, false}:           gputypes.VertexFormatSint32,
		{gfx.TypeInt, 2, false}:           gputypes.VertexFormatSint32x2,
		{gfx.TypeInt, 3, false}:           gputypes.VertexFormatSint32x3,
		{gfx.TypeInt, 4, false}:           gputypes.VertexFormatSint32x4,
	}[key{typ, size, normalize && typ != gfx.TypeFloat && typ != gfx.TypeInt && typ != gfx.TypeUnsignedInt}]
	return f, ok
}

func convertIndexFormat(t gfx.Type) (gputypes.IndexFormat, bool) {
	switch t {
	case gfx.TypeUnsignedShort, gfx.TypeShort:
		return gputypes.IndexFormatUint16, true
	case gfx.TypeUnsignedInt, gfx.TypeInt:
		return gputypes.IndexFormatUint32, true
	}
	return gputypes.IndexFormatUndefined, false
}

// textureFormat is the device format behind a gfx format, plus the
// conversion applied to uploads.
type textureFormat struct {
	format gputypes.TextureFormat
	expand func([]byte) []byte
	// bytesPerPixel of the device format; zero for block compressed.
	bytesPerPixel uint32
}

func convertTextureFormat(f gfx.TextureFormat) (textureFormat, bool) {
	switch f {
	case gfx.TextureFormatLuminance:
		return textureFormat{format: gputypes.TextureFormatR8Unorm, bytesPerPixel: 1}, true
	case gfx.TextureFormatLuminanceAlpha:
		return textureFormat{format: gputypes.TextureFormatRGBA8Unorm, expand: gfx.ExpandLuminanceAlpha, bytesPerPixel: 4}, true
	case gfx.TextureFormatRGB:
		return textureFormat{format: gputypes.TextureFormatRGBA8Unorm, expand: gfx.ExpandRGB, bytesPerPixel: 4}, true
	case gfx.TextureFormatRGBA:
		return textureFormat{format: gputypes.TextureFormatRGBA8Unorm, bytesPerPixel: 4}, true
	case gfx.TextureFormatDepth:
		return textureFormat{format: gputypes.TextureFormatDepth24PlusStencil8, bytesPerPixel: 4}, true
	case gfx.TextureFormatStencil:
		return textureFormat{format: gputypes.TextureFormatDepth24PlusStencil8, bytesPerPixel: 4}, true
	case gfx.TextureFormatRGBABC3:
		return textureFormat{format: gputypes.TextureFormatBC3RGBAUnorm}, true
	case gfx.TextureFormatR16F:
		return textureFormat{format: gputypes.TextureFormatR16Float, bytesPerPixel: 2}, true
	case gfx.TextureFormatRG16F:
		return textureFormat{format: gputypes.TextureFormatRG16Float, bytesPerPixel: 4}, true
	case gfx.TextureFormatRGBA16F:
		return textureFormat{format: gputypes.TextureFormatRGBA16Float, bytesPerPixel: 8}, true
	case gfx.TextureFormatR32F:
		return textureFormat{format: gputypes.TextureFormatR32Float, bytesPerPixel: 4}, true
	case gfx.TextureFormatRG32F:
		return textureFormat{format: gputypes.TextureFormatRG32Float, bytesPerPixel: 8}, true
	case gfx.TextureFormatRGBA32F:
		return textureFormat{format: gputypes.TextureFormatRGBA32Float, bytesPerPixel: 16}, true
	}
	// RGB16BPP and RGBA16BPP packed formats have no WebGPU equivalent.
	return textureFormat{}, false
}

func isDepthFormat(f gputypes.TextureFormat) bool {
	switch f {
	case gputypes.TextureFormatDepth16Unorm, gputypes.TextureFormatDepth24Plus,
		gputypes.TextureFormatDepth24PlusStencil8, gputypes.TextureFormatDepth32Float,
		gputypes.TextureFormatDepth32FloatStencil8, gputypes.TextureFormatStencil8:
		return true
	}
	return false
}

func convertWrap(w gfx.TextureWrap) gputypes.AddressMode {
	switch w {
	case gfx.TextureWrapRepeat:
		return gputypes.AddressModeRepeat
	case gfx.TextureWrapMirroredRepeat:
		return gputypes.AddressModeMirrorRepeat
	}
	return gputypes.AddressModeClampToEdge
}

// convertMinFilter splits a GL-style minification filter into the min and
// mipmap filters of a sampler.
func convertMinFilter(f gfx.TextureFilter) (minFilter, mipFilter gputypes.FilterMode) {
	switch f {
	case gfx.TextureFilterNearest:
		return gputypes.FilterModeNearest, gputypes.FilterModeNearest
	case gfx.TextureFilterNearestMipmapNearest:
		return gputypes.FilterModeNearest, gputypes.FilterModeNearest
	case gfx.TextureFilterNearestMipmapLinear:
		return gputypes.FilterModeNearest, gputypes.FilterModeLinear
	case gfx.TextureFilterLinearMipmapNearest:
		return gputypes.FilterModeLinear, gputypes.FilterModeNearest
	case gfx.TextureFilterLinearMipmapLinear:
		return gputypes.FilterModeLinear, gputypes.FilterModeLinear
	}
	return gputypes.FilterModeLinear, gputypes.FilterModeNearest
}

func convertMagFilter(f gfx.TextureFilter) gputypes.FilterMode {
	switch f {
	case gfx.TextureFilterNearest, gfx.TextureFilterNearestMipmapNearest, gfx.TextureFilterNearestMipmapLinear:
		return gputypes.FilterModeNearest
	}
	return gputypes.FilterModeLinear
}

func adapterType(t gputypes.DeviceType) int {
	switch t {
	case gputypes.DeviceTypeDiscreteGPU:
		return 0
	case gputypes.DeviceTypeIntegratedGPU:
		return 1
	case gputypes.DeviceTypeVirtualGPU:
		return 2
	case gputypes.DeviceTypeCPU:
		return 3
	}
	return 4
}
