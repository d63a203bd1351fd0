// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"math"
	"testing"
)

func nearVec4(a, b Vec4) bool {
	for i := range a {
		if math.Abs(float64(a[i]-b[i])) > 1e-5 {
			return false
		}
	}
	return true
}

func TestMat4MulIdentity(t *testing.T) {
	id := Identity()
	m := Translate(1, 2, 3)
	if got := id.Mul(&m); got != m {
		t.Errorf("I * M = %v", got)
	}
	if got := m.Mul(&id); got != m {
		t.Errorf("M * I = %v", got)
	}
}

func TestMat4MulOrder(t *testing.T) {
	s := Scale(2, 2, 2)
	tr := Translate(1, 0, 0)
	// Scale after translate doubles the translation.
	m := s.Mul(&tr)
	if got := m.TransformVec4(Vec4{0, 0, 0, 1}); got != (Vec4{2, 0, 0, 1}) {
		t.Errorf("S * T * origin = %v", got)
	}
	m = tr.Mul(&s)
	if got := m.TransformVec4(Vec4{0, 0, 0, 1}); got != (Vec4{1, 0, 0, 1}) {
		t.Errorf("T * S * origin = %v", got)
	}
}

func TestMat4Col(t *testing.T) {
	m := Translate(7, 8, 9)
	if got := m.Col(3); got != (Vec4{7, 8, 9, 1}) {
		t.Errorf("Col(3) = %v", got)
	}
	if got := m.Col(0); got != (Vec4{1, 0, 0, 0}) {
		t.Errorf("Col(0) = %v", got)
	}
}

func TestOrtho(t *testing.T) {
	m := Ortho(0, 320, 240, 0, -1, 1)
	tests := []struct {
		in, want Vec4
	}{
		{Vec4{0, 0, 0, 1}, Vec4{-1, 1, 0.5, 1}},
		{Vec4{320, 240, 0, 1}, Vec4{1, -1, 0.5, 1}},
		{Vec4{160, 120, -1, 1}, Vec4{0, 0, 1, 1}},
	}
	for _, tt := range tests {
		if got := m.TransformVec4(tt.in); !nearVec4(got, tt.want) {
			t.Errorf("Ortho * %v = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestPerspectiveDepthRange(t *testing.T) {
	m := Perspective(math.Pi/2, 1, 1, 100)
	near := m.TransformVec4(Vec4{0, 0, -1, 1})
	far := m.TransformVec4(Vec4{0, 0, -100, 1})
	if z := near[2] / near[3]; math.Abs(float64(z)) > 1e-5 {
		t.Errorf("near plane depth = %v, want 0", z)
	}
	if z := far[2] / far[3]; math.Abs(float64(z-1)) > 1e-5 {
		t.Errorf("far plane depth = %v, want 1", z)
	}
}

func TestGenerateKeyDepth(t *testing.T) {
	rc := &Context{}
	a := &Object{World: Translate(0, 0, -4)}
	b := &Object{World: Translate(0, 0, 2)}
	rc.AddObject(a)
	rc.AddObject(b)
	rc.GenerateKeyDepth(Translate(0, 0, -1))
	if a.depth != 5 || b.depth != -1 {
		t.Errorf("depths = %v, %v; want 5, -1", a.depth, b.depth)
	}
}
