// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import "math"

// Vec4 is a four component vector, laid out as one shader constant
// register.
type Vec4 [4]float32

// Mat4 is a 4x4 matrix in column-major order:
//
//	| 0  4  8 12 |
//	| 1  5  9 13 |
//	| 2  6 10 14 |
//	| 3  7 11 15 |
//
// This is the layout WGSL and SPIR-V expect for mat4x4<f32> uniforms.
type Mat4 [16]float32

// Identity returns the identity matrix.
func Identity() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Translate returns a translation matrix.
func Translate(x, y, z float32) Mat4 {
	m := Identity()
	m[12], m[13], m[14] = x, y, z
	return m
}

// Scale returns a scaling matrix.
func Scale(x, y, z float32) Mat4 {
	return Mat4{
		x, 0, 0, 0,
		0, y, 0, 0,
		0, 0, z, 0,
		0, 0, 0, 1,
	}
}

// Ortho returns an orthographic projection mapping depth to [0, 1].
func Ortho(left, right, bottom, top, near, far float32) Mat4 {
	rl, tb, fn := right-left, top-bottom, far-near
	return Mat4{
		2 / rl, 0, 0, 0,
		0, 2 / tb, 0, 0,
		0, 0, -1 / fn, 0,
		-(right + left) / rl, -(top + bottom) / tb, -near / fn, 1,
	}
}

// Perspective returns a right-handed perspective projection mapping depth
// to [0, 1]. fovy is in radians.
func Perspective(fovy, aspect, near, far float32) Mat4 {
	f := float32(1 / math.Tan(float64(fovy)/2))
	fn := near - far
	return Mat4{
		f / aspect, 0, 0, 0,
		0, f, 0, 0,
		0, 0, far / fn, -1,
		0, 0, near * far / fn, 0,
	}
}

// Col returns column i.
func (m *Mat4) Col(i int) Vec4 {
	return Vec4{m[4*i], m[4*i+1], m[4*i+2], m[4*i+3]}
}

// Mul returns m * o, which applies o first.
func (m *Mat4) Mul(o *Mat4) Mat4 {
	var r Mat4
	for c := range 4 {
		for row := range 4 {
			var s float32
			for k := range 4 {
				s += m[k*4+row] * o[c*4+k]
			}
			r[c*4+row] = s
		}
	}
	return r
}

// TransformVec4 returns m * v.
func (m *Mat4) TransformVec4(v Vec4) Vec4 {
	var r Vec4
	for row := range 4 {
		r[row] = m[row]*v[0] + m[4+row]*v[1] + m[8+row]*v[2] + m[12+row]*v[3]
	}
	return r
}
