// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package null

import (
	"fmt"

	"github.com/gogpu/gfx"
	"github.com/gogpu/gfx/handle"
)

type program struct {
	vs, fs gfx.Handle
	layout *gfx.ProgramLayout
}

func (c *Context) newShader(desc *gfx.ShaderDesc, stage gfx.ShaderStage, typ handle.Type) (gfx.Handle, error) {
	if desc == nil {
		return handle.Invalid, fmt.Errorf("null: nil shader description")
	}
	if desc.Stage != stage {
		return handle.Invalid, fmt.Errorf("null: %w: got %d, want %d", gfx.ErrShaderStage, desc.Stage, stage)
	}
	n, err := desc.Normalize()
	if err != nil {
		return handle.Invalid, fmt.Errorf("null: %w", err)
	}
	return c.shaders.Store(n, typ), nil
}

// NewVertexProgram implements gfx.Context.
func (c *Context) NewVertexProgram(desc *gfx.ShaderDesc) (gfx.Handle, error) {
	return c.newShader(desc, gfx.ShaderStageVertex, handle.TypeVertexProgram)
}

// NewFragmentProgram implements gfx.Context.
func (c *Context) NewFragmentProgram(desc *gfx.ShaderDesc) (gfx.Handle, error) {
	return c.newShader(desc, gfx.ShaderStageFragment, handle.TypeFragmentProgram)
}

// NewProgram implements gfx.Context.
func (c *Context) NewProgram(vp, fp gfx.Handle) (gfx.Handle, error) {
	vs, ok := c.shaders.GetTyped(vp, handle.TypeVertexProgram)
	if !ok {
		return handle.Invalid, fmt.Errorf("null: vertex program: %w", gfx.ErrInvalidHandle)
	}
	fs, ok := c.shaders.GetTyped(fp, handle.TypeFragmentProgram)
	if !ok {
		return handle.Invalid, fmt.Errorf("null: fragment program: %w", gfx.ErrInvalidHandle)
	}
	layout, err := gfx.NewProgramLayout(vs, fs)
	if err != nil {
		return handle.Invalid, fmt.Errorf("null: link program: %w", err)
	}
	return c.programs.Store(&program{vs: vp, fs: fp, layout: layout}, handle.TypeProgram), nil
}

// DeleteVertexProgram implements gfx.Context.
func (c *Context) DeleteVertexProgram(h gfx.Handle) { c.shaders.Delete(h) }

// DeleteFragmentProgram implements gfx.Context.
func (c *Context) DeleteFragmentProgram(h gfx.Handle) { c.shaders.Delete(h) }

// DeleteProgram implements gfx.Context. Cached pipelines built from the
// program are dropped with it.
func (c *Context) DeleteProgram(h gfx.Handle) {
	if c.Program == h {
		c.DisableProgram()
	}
	if _, ok := c.programs.Delete(h); !ok {
		return
	}
	c.pipelines.DeleteFunc(func(p *Pipeline) bool { return p.Key.Program == uint64(h) }, nil)
}

// EnableProgram implements gfx.Context.
func (c *Context) EnableProgram(h gfx.Handle) {
	if !c.programs.Contains(h) {
		c.verify.Check("EnableProgram", fmt.Errorf("%w: %v", gfx.ErrInvalidHandle, h))
		return
	}
	c.Program = h
}

func (c *Context) layout(h gfx.Handle) *gfx.ProgramLayout {
	p, ok := c.programs.Get(h)
	if !ok {
		return nil
	}
	return p.layout
}

// ProgramLayout returns the linked layout of a program.
func (c *Context) ProgramLayout(h gfx.Handle) (*gfx.ProgramLayout, bool) {
	l := c.layout(h)
	return l, l != nil
}

// GetAttributeCount implements gfx.Context.
func (c *Context) GetAttributeCount(h gfx.Handle) int {
	if l := c.layout(h); l != nil {
		return l.AttributeCount()
	}
	return 0
}

// GetAttribute implements gfx.Context.
func (c *Context) GetAttribute(h gfx.Handle, index int) (gfx.ShaderInput, bool) {
	if l := c.layout(h); l != nil {
		return l.Attribute(index)
	}
	return gfx.ShaderInput{}, false
}

// GetUniformCount implements gfx.Context.
func (c *Context) GetUniformCount(h gfx.Handle) int {
	if l := c.layout(h); l != nil {
		return l.UniformCount()
	}
	return 0
}

// GetUniformName implements gfx.Context.
func (c *Context) GetUniformName(h gfx.Handle, index int) (gfx.UniformInfo, bool) {
	if l := c.layout(h); l != nil {
		return l.Uniform(index)
	}
	return gfx.UniformInfo{}, false
}

// GetUniformLocation implements gfx.Context.
func (c *Context) GetUniformLocation(h gfx.Handle, name string) gfx.UniformLocation {
	if l := c.layout(h); l != nil {
		return l.UniformLocation(name)
	}
	return gfx.InvalidUniformLocation
}

// SetConstantV4 implements gfx.Context. It writes into the bound program.
func (c *Context) SetConstantV4(data [][4]float32, loc gfx.UniformLocation) {
	if l := c.layout(c.Program); l != nil {
		l.SetConstantV4(loc, data)
	}
}

// SetConstantM4 implements gfx.Context. It writes into the bound program.
func (c *Context) SetConstantM4(data [][16]float32, loc gfx.UniformLocation) {
	if l := c.layout(c.Program); l != nil {
		l.SetConstantM4(loc, data)
	}
}

// SetSampler implements gfx.Context.
func (c *Context) SetSampler(loc gfx.UniformLocation, unit int) {
	if l := c.layout(c.Program); l != nil {
		l.SetSampler(loc, unit)
	}
}
