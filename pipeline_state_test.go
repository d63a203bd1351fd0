// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gfx

import "testing"

func TestSetStateValue(t *testing.T) {
	for s := StateDepthTest; s <= StatePolygonOffsetFill; s++ {
		ps := DefaultPipelineState()
		ps.SetStateValue(s, true)
		if !ps.IsEnabled(s) {
			t.Errorf("%v not enabled", s)
		}
		ps.SetStateValue(s, false)
		if ps.IsEnabled(s) {
			t.Errorf("%v not disabled", s)
		}
	}
}

func TestStencilSeparateFaceSelection(t *testing.T) {
	tests := []struct {
		face      FaceType
		wantFront CompareFunc
		wantBack  CompareFunc
	}{
		{FaceTypeBack, CompareFuncAlways, CompareFuncEqual},
		{FaceTypeFront, CompareFuncEqual, CompareFuncAlways},
		{FaceTypeFrontAndBack, CompareFuncEqual, CompareFuncAlways},
	}
	for _, tt := range tests {
		ps := DefaultPipelineState()
		ps.SetStencilFuncSeparate(tt.face, CompareFuncEqual, 3, 0x0F)
		if ps.StencilFront.Func != tt.wantFront || ps.StencilBack.Func != tt.wantBack {
			t.Errorf("face %d: front %d back %d", tt.face, ps.StencilFront.Func, ps.StencilBack.Func)
		}
		if ps.StencilReference != 3 || ps.StencilCompareMask != 0x0F {
			t.Errorf("face %d: ref %d mask %#x", tt.face, ps.StencilReference, ps.StencilCompareMask)
		}
	}

	ps := DefaultPipelineState()
	ps.SetStencilOpSeparate(FaceTypeBack, StencilOpZero, StencilOpIncr, StencilOpReplace)
	if ps.StencilBack.OpPass != StencilOpReplace || ps.StencilFront.OpPass != StencilOpKeep {
		t.Errorf("separate op: front %+v back %+v", ps.StencilFront, ps.StencilBack)
	}
	ps.SetStencilOp(StencilOpInvert, StencilOpInvert, StencilOpInvert)
	if ps.StencilFront.OpFail != StencilOpInvert || ps.StencilBack.OpFail != StencilOpInvert {
		t.Error("SetStencilOp did not update both faces")
	}
}

func TestPipelineKeyHash(t *testing.T) {
	base := PipelineKey{State: DefaultPipelineState(), RenderTarget: 1, Program: 2, VertexLayouts: []uint64{7}}
	same := base
	same.VertexLayouts = []uint64{7}
	if base.Hash() != same.Hash() {
		t.Fatal("equal keys hash differently")
	}

	mutations := map[string]func(k *PipelineKey){
		"blend":        func(k *PipelineKey) { k.State.BlendSrcFactor = BlendFactorOne },
		"blend enable": func(k *PipelineKey) { k.State.BlendEnabled = true },
		"depth func":   func(k *PipelineKey) { k.State.DepthTestFunc = CompareFuncAlways },
		"color mask":   func(k *PipelineKey) { k.State.WriteColorMask = ColorMaskRed },
		"stencil ref":  func(k *PipelineKey) { k.State.StencilReference = 1 },
		"cull":         func(k *PipelineKey) { k.State.CullFaceType = FaceTypeFront },
		"bias":         func(k *PipelineKey) { k.State.PolygonOffsetFactor = 1 },
		"target":       func(k *PipelineKey) { k.RenderTarget = 9 },
		"program":      func(k *PipelineKey) { k.Program = 9 },
		"primitive":    func(k *PipelineKey) { k.Primitive = PrimitiveTriangles },
		"layout":       func(k *PipelineKey) { k.VertexLayouts = []uint64{8} },
		"no layout":    func(k *PipelineKey) { k.VertexLayouts = nil },
	}
	for name, mutate := range mutations {
		k := base
		k.VertexLayouts = []uint64{7}
		mutate(&k)
		if k.Hash() == base.Hash() {
			t.Errorf("%s: hash unchanged", name)
		}
	}
}

func TestPipelineKeyHashPrimitive(t *testing.T) {
	seen := make(map[uint64]PrimitiveType)
	for _, p := range []PrimitiveType{PrimitiveLines, PrimitiveTriangles, PrimitiveTriangleStrip} {
		k := PipelineKey{State: DefaultPipelineState(), Primitive: p}
		h := k.Hash()
		if prev, ok := seen[h]; ok {
			t.Errorf("%v and %v share hash %#x", prev, p, h)
		}
		seen[h] = p
	}
}
