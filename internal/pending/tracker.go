// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package pending tracks the state a context accumulates between draws.
//
// Backends embed a Tracker to get the fixed-function setters of
// gfx.Context. Nothing here touches a device: the tracker only records
// what the next draw has to materialize.
package pending

import (
	"github.com/gogpu/gfx"
	"github.com/gogpu/gfx/handle"
)

// Rect is a viewport or scissor rectangle in pixels.
type Rect struct {
	X, Y          int32
	Width, Height int32
}

// Tracker is the pending state of a context.
type Tracker struct {
	Pipeline gfx.PipelineState

	Viewport        Rect
	ViewportChanged bool
	Scissor         Rect
	CullFaceChanged bool

	Program       gfx.Handle
	RenderTarget  gfx.Handle
	VertexBuffers [gfx.MaxVertexBufferBindings]gfx.Handle
	VertexDecls   [gfx.MaxVertexBufferBindings]*gfx.VertexDeclaration
	Textures      [gfx.MaxTextureUnits]gfx.Handle
}

// Reset restores the state of a fresh context for a width x height target.
func (t *Tracker) Reset(width, height uint32) {
	*t = Tracker{
		Pipeline:        gfx.DefaultPipelineState(),
		Viewport:        Rect{Width: int32(width), Height: int32(height)}, //nolint:gosec // G115: window sizes fit int32
		ViewportChanged: true,
	}
}

// EnableState implements gfx.Context.
func (t *Tracker) EnableState(s gfx.State) { t.Pipeline.SetStateValue(s, true) }

// DisableState implements gfx.Context.
func (t *Tracker) DisableState(s gfx.State) { t.Pipeline.SetStateValue(s, false) }

// SetBlendFunc implements gfx.Context.
func (t *Tracker) SetBlendFunc(src, dst gfx.BlendFactor) {
	t.Pipeline.BlendSrcFactor = src
	t.Pipeline.BlendDstFactor = dst
}

// SetColorMask implements gfx.Context.
func (t *Tracker) SetColorMask(red, green, blue, alpha bool) {
	var m gfx.ColorMask
	if red {
		m |= gfx.ColorMaskRed
	}
	if green {
		m |= gfx.ColorMaskGreen
	}
	if blue {
		m |= gfx.ColorMaskBlue
	}
	if alpha {
		m |= gfx.ColorMaskAlpha
	}
	t.Pipeline.WriteColorMask = m
}

// SetDepthMask implements gfx.Context.
func (t *Tracker) SetDepthMask(enabled bool) { t.Pipeline.WriteDepth = enabled }

// SetDepthFunc implements gfx.Context.
func (t *Tracker) SetDepthFunc(fn gfx.CompareFunc) { t.Pipeline.DepthTestFunc = fn }

// SetScissor implements gfx.Context.
func (t *Tracker) SetScissor(x, y, width, height int32) {
	t.Scissor = Rect{X: x, Y: y, Width: width, Height: height}
}

// SetStencilMask implements gfx.Context.
func (t *Tracker) SetStencilMask(mask uint32) {
	t.Pipeline.StencilWriteMask = uint8(mask) //nolint:gosec // G115: 8-bit stencil
}

// SetStencilFunc implements gfx.Context.
func (t *Tracker) SetStencilFunc(fn gfx.CompareFunc, ref, mask uint32) {
	t.Pipeline.SetStencilFunc(fn, uint8(ref), uint8(mask)) //nolint:gosec // G115: 8-bit stencil
}

// SetStencilFuncSeparate implements gfx.Context.
func (t *Tracker) SetStencilFuncSeparate(face gfx.FaceType, fn gfx.CompareFunc, ref, mask uint32) {
	t.Pipeline.SetStencilFuncSeparate(face, fn, uint8(ref), uint8(mask)) //nolint:gosec // G115: 8-bit stencil
}

// SetStencilOp implements gfx.Context.
func (t *Tracker) SetStencilOp(sfail, dpfail, dppass gfx.StencilOp) {
	t.Pipeline.SetStencilOp(sfail, dpfail, dppass)
}

// SetStencilOpSeparate implements gfx.Context.
func (t *Tracker) SetStencilOpSeparate(face gfx.FaceType, sfail, dpfail, dppass gfx.StencilOp) {
	t.Pipeline.SetStencilOpSeparate(face, sfail, dpfail, dppass)
}

// SetCullFace implements gfx.Context.
func (t *Tracker) SetCullFace(face gfx.FaceType) {
	t.Pipeline.CullFaceType = face
	t.CullFaceChanged = true
}

// SetFaceWinding implements gfx.Context.
func (t *Tracker) SetFaceWinding(winding gfx.FaceWinding) { t.Pipeline.FaceWinding = winding }

// SetPolygonOffset implements gfx.Context.
func (t *Tracker) SetPolygonOffset(factor, units float32) {
	t.Pipeline.PolygonOffsetFactor = factor
	t.Pipeline.PolygonOffsetUnits = units
}

// SetViewport implements gfx.Context.
func (t *Tracker) SetViewport(x, y, width, height int32) {
	t.Viewport = Rect{X: x, Y: y, Width: width, Height: height}
	t.ViewportChanged = true
}

// GetPipelineState implements gfx.Context.
func (t *Tracker) GetPipelineState() gfx.PipelineState { return t.Pipeline }

// EnableVertexBuffer implements gfx.Context.
func (t *Tracker) EnableVertexBuffer(vb gfx.Handle, binding int) {
	if binding >= 0 && binding < len(t.VertexBuffers) {
		t.VertexBuffers[binding] = vb
	}
}

// DisableVertexBuffer implements gfx.Context.
func (t *Tracker) DisableVertexBuffer(vb gfx.Handle) {
	for i, h := range t.VertexBuffers {
		if h == vb {
			t.VertexBuffers[i] = handle.Invalid
		}
	}
}

// EnableVertexDeclaration implements gfx.Context.
func (t *Tracker) EnableVertexDeclaration(decl *gfx.VertexDeclaration, binding int) {
	if binding >= 0 && binding < len(t.VertexDecls) {
		t.VertexDecls[binding] = decl
	}
}

// DisableVertexDeclaration implements gfx.Context.
func (t *Tracker) DisableVertexDeclaration(decl *gfx.VertexDeclaration) {
	for i, d := range t.VertexDecls {
		if d == decl {
			t.VertexDecls[i] = nil
		}
	}
}

// EnableTexture implements gfx.Context.
func (t *Tracker) EnableTexture(unit int, tex gfx.Handle) {
	if unit >= 0 && unit < len(t.Textures) {
		t.Textures[unit] = tex
	}
}

// DisableTexture implements gfx.Context.
func (t *Tracker) DisableTexture(unit int, _ gfx.Handle) {
	if unit >= 0 && unit < len(t.Textures) {
		t.Textures[unit] = handle.Invalid
	}
}

// DisableProgram implements gfx.Context.
func (t *Tracker) DisableProgram() { t.Program = handle.Invalid }

// BoundLayout is one bound vertex buffer with its layout resolved against the
// current program.
type BoundLayout struct {
	Binding int
	Buffer  gfx.Handle
	Layout  gfx.VertexLayout
	Hash    uint64
}

// VertexLayouts resolves every binding that has both a buffer and a
// declaration against the vertex inputs. Layouts that end up with no
// attributes are skipped.
func (t *Tracker) VertexLayouts(inputs []gfx.ShaderInput) []BoundLayout {
	var out []BoundLayout
	for i, decl := range t.VertexDecls {
		if decl == nil || t.VertexBuffers[i] == handle.Invalid {
			continue
		}
		l := gfx.BindVertexDeclaration(decl, inputs)
		if len(l.Attributes) == 0 {
			continue
		}
		out = append(out, BoundLayout{Binding: i, Buffer: t.VertexBuffers[i], Layout: l, Hash: decl.Hash()})
	}
	return out
}

// Key builds the pipeline key of the next draw.
func (t *Tracker) Key(prim gfx.PrimitiveType, layouts []BoundLayout) gfx.PipelineKey {
	k := gfx.PipelineKey{
		State:        t.Pipeline,
		RenderTarget: uint64(t.RenderTarget),
		Program:      uint64(t.Program),
		Primitive:    prim,
	}
	if len(layouts) > 0 {
		k.VertexLayouts = make([]uint64, len(layouts))
		for i, l := range layouts {
			k.VertexLayouts[i] = l.Hash ^ uint64(l.Binding)<<56 //nolint:gosec // G115: binding < MaxVertexBufferBindings
		}
	}
	return k
}
