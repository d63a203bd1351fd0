// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"encoding/binary"
	"math"

	"github.com/gogpu/gfx"
	"github.com/gogpu/gfx/handle"
)

// debugVertexSize is a float3 position followed by packed RGBA.
const debugVertexSize = 16

// debugList is a line list drawn with one material. The vertex buffer and
// declaration are created on first use.
type debugList struct {
	material *Material
	data     []byte
	vb       gfx.Handle
	decl     *gfx.VertexDeclaration
}

func (l *debugList) addVertex(x, y, z float32, color uint32) {
	l.data = binary.LittleEndian.AppendUint32(l.data, math.Float32bits(x))
	l.data = binary.LittleEndian.AppendUint32(l.data, math.Float32bits(y))
	l.data = binary.LittleEndian.AppendUint32(l.data, math.Float32bits(z))
	l.data = binary.LittleEndian.AppendUint32(l.data, color)
}

func (l *debugList) vertexCount() uint32 {
	return uint32(len(l.data) / debugVertexSize) //nolint:gosec // G115: bounded by memory
}

// Line3D queues a world-space line for DrawDebug3D. color is packed with
// PackColor.
func (c *Context) Line3D(from, to Vec4, color uint32) {
	c.debug3D.addVertex(from[0], from[1], from[2], color)
	c.debug3D.addVertex(to[0], to[1], to[2], color)
}

// Line2D queues a line in window pixels for DrawDebug2D.
func (c *Context) Line2D(x0, y0, x1, y1 float32, color uint32) {
	c.debug2D.addVertex(x0, y0, 0, color)
	c.debug2D.addVertex(x1, y1, 0, color)
}

// DebugVertexCount returns the number of queued 3D and 2D debug vertices.
func (c *Context) DebugVertexCount() (n3d, n2d uint32) {
	return c.debug3D.vertexCount(), c.debug2D.vertexCount()
}

// DrawDebug3D draws and empties the 3D debug list with view * projection.
func (c *Context) DrawDebug3D() {
	c.drawDebug(&c.debug3D, c.viewProj)
}

// DrawDebug2D draws and empties the 2D debug list with a pixel-space
// orthographic projection of the window.
func (c *Context) DrawDebug2D() {
	w, h := float32(c.graphics.Width()), float32(c.graphics.Height())
	c.drawDebug(&c.debug2D, Ortho(0, w, h, 0, -1, 1))
}

func (c *Context) drawDebug(l *debugList, viewProj Mat4) {
	defer func() { l.data = l.data[:0] }()
	if l.material == nil || len(l.data) == 0 {
		return
	}
	g := c.graphics
	if l.decl == nil {
		decl, err := g.NewVertexDeclaration(gfx.NewVertexStreamDeclaration().
			AddStream("position", 3, gfx.TypeFloat, false).
			AddStream("color", 4, gfx.TypeUnsignedByte, true))
		if err != nil {
			gfx.Logger().Error("render: debug vertex declaration", "err", err)
			return
		}
		l.decl = decl
	}
	if l.vb == handle.Invalid {
		vb, err := g.NewVertexBuffer(l.data, gfx.BufferUsageStreamDraw)
		if err != nil {
			gfx.Logger().Error("render: debug vertex buffer", "err", err)
			return
		}
		l.vb = vb
	} else if err := g.SetVertexBufferData(l.vb, l.data, gfx.BufferUsageStreamDraw); err != nil {
		gfx.Logger().Error("render: debug vertex upload", "err", err)
		return
	}

	saved := c.viewProj
	c.viewProj = viewProj
	identity := Identity()
	g.EnableProgram(l.material.Program)
	c.applyConstants(l.material, &identity)
	c.viewProj = saved

	g.EnableVertexDeclaration(l.decl, 0)
	g.EnableVertexBuffer(l.vb, 0)
	g.Draw(gfx.PrimitiveLines, 0, l.vertexCount())
	g.DisableVertexBuffer(l.vb)
	g.DisableVertexDeclaration(l.decl)
}

// Release deletes the GPU resources of the debug lists.
func (c *Context) Release() {
	for _, l := range []*debugList{&c.debug3D, &c.debug2D} {
		if l.vb != handle.Invalid {
			c.graphics.DeleteVertexBuffer(l.vb)
			l.vb = handle.Invalid
		}
		l.decl = nil
	}
}
