// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"slices"

	"github.com/gogpu/gfx"
	"github.com/gogpu/gfx/handle"
)

// MaxConstantRegisters is the number of vertex and of fragment constant
// registers a render context can override.
const MaxConstantRegisters = 16

// Object is one drawable: geometry, a material and per-object state.
type Object struct {
	Material     *Material
	VertexBuffer gfx.Handle
	VertexDecl   *gfx.VertexDeclaration
	// IndexBuffer selects DrawElements when valid. VertexStart is then a
	// byte offset into the index buffer.
	IndexBuffer gfx.Handle
	IndexType   gfx.Type
	Primitive   gfx.PrimitiveType
	VertexStart uint32
	VertexCount uint32
	World       Mat4
	Textures    [gfx.MaxTextureUnits]gfx.Handle
	// Translucent objects draw after opaque ones, back to front.
	Translucent bool

	depth float32
}

type register struct {
	enabled bool
	value   Vec4
}

// Context replays command buffers against a graphics context. It keeps
// the state the commands address: texture overrides, the material
// override, view and projection, constant registers and the render
// objects of the frame.
//
// A Context is not safe for concurrent use.
type Context struct {
	graphics gfx.Context

	textures [gfx.MaxTextureUnits]gfx.Handle
	material *Material

	view       Mat4
	projection Mat4
	viewProj   Mat4

	vertexRegs   [MaxConstantRegisters]register
	fragmentRegs [MaxConstantRegisters]register

	objects []*Object
	order   []*Object

	debug3D debugList
	debug2D debugList
}

// Option configures a Context.
type Option func(*Context)

// WithDebugMaterials sets the materials used for the 3D and 2D debug lines.
// Either may be nil to disable that list.
func WithDebugMaterials(m3d, m2d *Material) Option {
	return func(c *Context) {
		c.debug3D.material = m3d
		c.debug2D.material = m2d
	}
}

// NewContext creates a render context drawing through g.
func NewContext(g gfx.Context, opts ...Option) *Context {
	c := &Context{
		graphics:   g,
		view:       Identity(),
		projection: Identity(),
		viewProj:   Identity(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GraphicsContext returns the context commands are replayed against.
func (c *Context) GraphicsContext() gfx.Context { return c.graphics }

// SetViewMatrix sets the view matrix.
func (c *Context) SetViewMatrix(m Mat4) {
	c.view = m
	c.viewProj = c.projection.Mul(&c.view)
}

// SetProjectionMatrix sets the projection matrix.
func (c *Context) SetProjectionMatrix(m Mat4) {
	c.projection = m
	c.viewProj = c.projection.Mul(&c.view)
}

// View returns the view matrix.
func (c *Context) View() Mat4 { return c.view }

// Projection returns the projection matrix.
func (c *Context) Projection() Mat4 { return c.projection }

// ViewProj returns projection * view.
func (c *Context) ViewProj() Mat4 { return c.viewProj }

// Material returns the material override, or nil.
func (c *Context) Material() *Material { return c.material }

// Texture returns the texture override of unit.
func (c *Context) Texture(unit int) gfx.Handle {
	if unit < 0 || unit >= len(c.textures) {
		return handle.Invalid
	}
	return c.textures[unit]
}

func (c *Context) setTexture(unit int, h gfx.Handle) {
	if unit < 0 || unit >= len(c.textures) {
		gfx.Logger().Warn("render: texture unit out of range", "unit", unit)
		return
	}
	c.textures[unit] = h
}

func setRegister(regs *[MaxConstantRegisters]register, reg uint32, v Vec4, enabled bool) {
	if reg >= MaxConstantRegisters {
		gfx.Logger().Warn("render: constant register out of range", "register", reg)
		return
	}
	regs[reg] = register{enabled: enabled, value: v}
}

// EnableVertexConstant overrides vertex register reg.
func (c *Context) EnableVertexConstant(reg uint32, v Vec4) {
	setRegister(&c.vertexRegs, reg, v, true)
}

// DisableVertexConstant removes the override of vertex register reg.
func (c *Context) DisableVertexConstant(reg uint32) {
	setRegister(&c.vertexRegs, reg, Vec4{}, false)
}

// EnableFragmentConstant overrides fragment register reg.
func (c *Context) EnableFragmentConstant(reg uint32, v Vec4) {
	setRegister(&c.fragmentRegs, reg, v, true)
}

// DisableFragmentConstant removes the override of fragment register reg.
func (c *Context) DisableFragmentConstant(reg uint32) {
	setRegister(&c.fragmentRegs, reg, Vec4{}, false)
}

// VertexConstant returns the override of vertex register reg.
func (c *Context) VertexConstant(reg uint32) (Vec4, bool) {
	if reg >= MaxConstantRegisters {
		return Vec4{}, false
	}
	r := c.vertexRegs[reg]
	return r.value, r.enabled
}

// FragmentConstant returns the override of fragment register reg.
func (c *Context) FragmentConstant(reg uint32) (Vec4, bool) {
	if reg >= MaxConstantRegisters {
		return Vec4{}, false
	}
	r := c.fragmentRegs[reg]
	return r.value, r.enabled
}

// AddObject queues o for the Draw commands of this frame.
func (c *Context) AddObject(o *Object) { c.objects = append(c.objects, o) }

// ClearObjects empties the object list.
func (c *Context) ClearObjects() {
	clear(c.objects)
	c.objects = c.objects[:0]
}

// Objects returns the queued objects.
func (c *Context) Objects() []*Object { return c.objects }

// GenerateKeyDepth computes the view-space distance of every object, used
// to order translucent objects.
func (c *Context) GenerateKeyDepth(view Mat4) {
	for _, o := range c.objects {
		p := view.TransformVec4(Vec4{o.World[12], o.World[13], o.World[14], 1})
		o.depth = -p[2]
	}
}

// Draw draws the objects whose material matches p. Opaque objects draw in
// insertion order, then translucent ones back to front. It returns the
// number of objects drawn.
func (c *Context) Draw(p *Predicate) int {
	c.order = c.order[:0]
	for _, o := range c.objects {
		if !o.Translucent && p.Matches(o.Material) {
			c.order = append(c.order, o)
		}
	}
	opaque := len(c.order)
	for _, o := range c.objects {
		if o.Translucent && p.Matches(o.Material) {
			c.order = append(c.order, o)
		}
	}
	slices.SortStableFunc(c.order[opaque:], func(a, b *Object) int {
		switch {
		case a.depth > b.depth:
			return -1
		case a.depth < b.depth:
			return 1
		}
		return 0
	})

	for _, o := range c.order {
		c.drawObject(o)
	}
	n := len(c.order)
	clear(c.order)
	return n
}

func (c *Context) drawObject(o *Object) {
	g := c.graphics
	m := o.Material
	if c.material != nil {
		m = c.material
	}

	var bound [gfx.MaxTextureUnits]gfx.Handle
	for i := range bound {
		t := o.Textures[i]
		if c.textures[i] != handle.Invalid {
			t = c.textures[i]
		}
		if t != handle.Invalid {
			g.EnableTexture(i, t)
			bound[i] = t
		}
	}

	g.EnableProgram(m.Program)
	c.applyConstants(m, &o.World)

	g.EnableVertexDeclaration(o.VertexDecl, 0)
	g.EnableVertexBuffer(o.VertexBuffer, 0)
	if o.IndexBuffer != handle.Invalid {
		g.DrawElements(o.Primitive, o.VertexStart, o.VertexCount, o.IndexType, o.IndexBuffer)
	} else {
		g.Draw(o.Primitive, o.VertexStart, o.VertexCount)
	}
	g.DisableVertexBuffer(o.VertexBuffer)
	g.DisableVertexDeclaration(o.VertexDecl)

	for i, t := range bound {
		if t != handle.Invalid {
			g.DisableTexture(i, t)
		}
	}
}

// applyConstants writes the constants of m for an object with the given
// world matrix.
func (c *Context) applyConstants(m *Material, world *Mat4) {
	g := c.graphics
	m.resolve(g)
	for i := range m.constants {
		k := &m.constants[i]
		if k.location == gfx.InvalidUniformLocation {
			continue
		}
		switch k.Kind {
		case ConstantUser:
			v := k.Value
			regs := &c.vertexRegs
			if k.Stage == gfx.ShaderStageFragment {
				regs = &c.fragmentRegs
			}
			if k.Register < MaxConstantRegisters && regs[k.Register].enabled {
				v = regs[k.Register].value
			}
			g.SetConstantV4([][4]float32{v}, k.location)
		case ConstantViewProj:
			g.SetConstantM4([][16]float32{c.viewProj}, k.location)
		case ConstantWorld:
			g.SetConstantM4([][16]float32{*world}, k.location)
		case ConstantWorldViewProj:
			g.SetConstantM4([][16]float32{c.viewProj.Mul(world)}, k.location)
		case ConstantTexture:
			g.SetSampler(k.location, int(k.Value[0]))
		}
	}
}
