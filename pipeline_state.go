// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gfx

import (
	"hash/fnv"
)

// ColorMask selects writable color channels.
type ColorMask uint8

// Color mask bits.
const (
	ColorMaskRed ColorMask = 1 << iota
	ColorMaskGreen
	ColorMaskBlue
	ColorMaskAlpha

	ColorMaskAll = ColorMaskRed | ColorMaskGreen | ColorMaskBlue | ColorMaskAlpha
)

// StencilFaceState is the stencil configuration of one polygon face.
type StencilFaceState struct {
	Func        CompareFunc
	OpFail      StencilOp
	OpDepthFail StencilOp
	OpPass      StencilOp
}

// PipelineState is the fixed-function state that, together with the render
// target and the program, determines a pipeline object.
type PipelineState struct {
	WriteColorMask ColorMask
	WriteDepth     bool

	DepthTestEnabled bool
	DepthTestFunc    CompareFunc

	BlendEnabled   bool
	BlendSrcFactor BlendFactor
	BlendDstFactor BlendFactor

	StencilEnabled     bool
	StencilFront       StencilFaceState
	StencilBack        StencilFaceState
	StencilWriteMask   uint8
	StencilCompareMask uint8
	StencilReference   uint8

	CullFaceEnabled bool
	CullFaceType    FaceType
	FaceWinding     FaceWinding

	ScissorEnabled bool
	AlphaTest      bool

	PolygonOffsetFillEnabled bool
	PolygonOffsetFactor      float32
	PolygonOffsetUnits       float32
}

// DefaultPipelineState returns the state a fresh context starts with.
func DefaultPipelineState() PipelineState {
	keep := StencilFaceState{
		Func:        CompareFuncAlways,
		OpFail:      StencilOpKeep,
		OpDepthFail: StencilOpKeep,
		OpPass:      StencilOpKeep,
	}
	return PipelineState{
		WriteColorMask:     ColorMaskAll,
		WriteDepth:         true,
		DepthTestEnabled:   true,
		DepthTestFunc:      CompareFuncLessEqual,
		BlendSrcFactor:     BlendFactorZero,
		BlendDstFactor:     BlendFactorZero,
		StencilFront:       keep,
		StencilBack:        keep,
		StencilWriteMask:   0xFF,
		StencilCompareMask: 0xFF,
		CullFaceType:       FaceTypeBack,
		FaceWinding:        FaceWindingCCW,
	}
}

// SetStateValue toggles the field behind s.
func (ps *PipelineState) SetStateValue(s State, enabled bool) {
	switch s {
	case StateDepthTest:
		ps.DepthTestEnabled = enabled
	case StateScissorTest:
		ps.ScissorEnabled = enabled
	case StateStencilTest:
		ps.StencilEnabled = enabled
	case StateAlphaTest:
		ps.AlphaTest = enabled
	case StateBlend:
		ps.BlendEnabled = enabled
	case StateCullFace:
		ps.CullFaceEnabled = enabled
	case StatePolygonOffsetFill:
		ps.PolygonOffsetFillEnabled = enabled
	}
}

// IsEnabled reports the value of the toggle s.
func (ps *PipelineState) IsEnabled(s State) bool {
	switch s {
	case StateDepthTest:
		return ps.DepthTestEnabled
	case StateScissorTest:
		return ps.ScissorEnabled
	case StateStencilTest:
		return ps.StencilEnabled
	case StateAlphaTest:
		return ps.AlphaTest
	case StateBlend:
		return ps.BlendEnabled
	case StateCullFace:
		return ps.CullFaceEnabled
	case StatePolygonOffsetFill:
		return ps.PolygonOffsetFillEnabled
	}
	return false
}

// SetStencilFunc sets the test function and masks for both faces.
func (ps *PipelineState) SetStencilFunc(fn CompareFunc, ref, mask uint8) {
	ps.StencilFront.Func = fn
	ps.StencilBack.Func = fn
	ps.StencilReference = ref
	ps.StencilCompareMask = mask
}

// SetStencilFuncSeparate sets the test function for one face. FaceTypeBack
// selects the back face, every other value the front face.
func (ps *PipelineState) SetStencilFuncSeparate(face FaceType, fn CompareFunc, ref, mask uint8) {
	if face == FaceTypeBack {
		ps.StencilBack.Func = fn
	} else {
		ps.StencilFront.Func = fn
	}
	ps.StencilReference = ref
	ps.StencilCompareMask = mask
}

// SetStencilOp sets the update operations for both faces.
func (ps *PipelineState) SetStencilOp(sfail, dpfail, dppass StencilOp) {
	ps.StencilFront.OpFail, ps.StencilFront.OpDepthFail, ps.StencilFront.OpPass = sfail, dpfail, dppass
	ps.StencilBack.OpFail, ps.StencilBack.OpDepthFail, ps.StencilBack.OpPass = sfail, dpfail, dppass
}

// SetStencilOpSeparate sets the update operations for one face, with the
// same face selection rule as SetStencilFuncSeparate.
func (ps *PipelineState) SetStencilOpSeparate(face FaceType, sfail, dpfail, dppass StencilOp) {
	f := &ps.StencilFront
	if face == FaceTypeBack {
		f = &ps.StencilBack
	}
	f.OpFail, f.OpDepthFail, f.OpPass = sfail, dpfail, dppass
}

// PipelineKey is every input of a pipeline object besides the native
// device. Two keys with the same Hash describe interchangeable pipelines.
type PipelineKey struct {
	State        PipelineState
	RenderTarget uint64
	Program      uint64
	Primitive    PrimitiveType
	// VertexLayouts holds the layout hashes of the bound vertex
	// declarations in binding order.
	VertexLayouts []uint64
}

// Hash returns the FNV-1a hash of the key.
func (k *PipelineKey) Hash() uint64 {
	h := fnv.New64a()
	s := &k.State

	_, _ = h.Write([]byte{
		byte(s.WriteColorMask),
		byte(s.DepthTestFunc),
		byte(s.BlendSrcFactor),
		byte(s.BlendDstFactor),
		byte(s.StencilFront.Func), byte(s.StencilFront.OpFail), byte(s.StencilFront.OpDepthFail), byte(s.StencilFront.OpPass),
		byte(s.StencilBack.Func), byte(s.StencilBack.OpFail), byte(s.StencilBack.OpDepthFail), byte(s.StencilBack.OpPass),
		s.StencilWriteMask,
		s.StencilCompareMask,
		s.StencilReference,
		byte(s.CullFaceType),
		byte(s.FaceWinding),
		byte(k.Primitive),
	})
	hashWriteBool(h, s.WriteDepth)
	hashWriteBool(h, s.DepthTestEnabled)
	hashWriteBool(h, s.BlendEnabled)
	hashWriteBool(h, s.StencilEnabled)
	hashWriteBool(h, s.CullFaceEnabled)
	hashWriteBool(h, s.PolygonOffsetFillEnabled)
	hashWriteFloat32(h, s.PolygonOffsetFactor)
	hashWriteFloat32(h, s.PolygonOffsetUnits)

	hashWriteUint64(h, k.RenderTarget)
	hashWriteUint64(h, k.Program)
	hashWriteUint32(h, uint32(len(k.VertexLayouts))) //nolint:gosec // G115: bounded by MaxVertexBufferBindings
	for _, l := range k.VertexLayouts {
		hashWriteUint64(h, l)
	}
	return h.Sum64()
}
