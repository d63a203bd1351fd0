// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package native

import (
	"encoding/binary"
	"fmt"

	"github.com/gogpu/gfx"
	"github.com/gogpu/gfx/handle"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// shader is a compiled stage. Programs hold a reference so the module
// outlives DeleteVertexProgram while pipelines may still be created from it.
type shader struct {
	desc    *gfx.ShaderDesc
	module  hal.ShaderModule
	refs    int
	deleted bool
}

type program struct {
	vs, fs  *shader
	layout  *gfx.ProgramLayout
	groups  []hal.BindGroupLayout
	native  hal.PipelineLayout
	bindSet [][]int // binding indices per set
}

func shaderSource(desc *gfx.ShaderDesc) (hal.ShaderSource, error) {
	switch desc.Language {
	case gfx.ShaderLanguageWGSL:
		return hal.ShaderSource{WGSL: string(desc.Source)}, nil
	case gfx.ShaderLanguageSPIRV:
		if len(desc.Source)%4 != 0 {
			return hal.ShaderSource{}, fmt.Errorf("native: SPIR-V size %d is not a multiple of 4", len(desc.Source))
		}
		words := make([]uint32, len(desc.Source)/4)
		for i := range words {
			words[i] = binary.LittleEndian.Uint32(desc.Source[4*i:])
		}
		return hal.ShaderSource{SPIRV: words}, nil
	}
	return hal.ShaderSource{}, fmt.Errorf("%w: %d", ErrUnsupportedShaderLanguage, desc.Language)
}

func (c *Context) newShader(desc *gfx.ShaderDesc, stage gfx.ShaderStage, typ handle.Type) (gfx.Handle, error) {
	if desc == nil {
		return handle.Invalid, fmt.Errorf("native: nil shader description")
	}
	if desc.Stage != stage {
		return handle.Invalid, fmt.Errorf("native: %w: got %d, want %d", gfx.ErrShaderStage, desc.Stage, stage)
	}
	n, err := desc.Normalize()
	if err != nil {
		return handle.Invalid, fmt.Errorf("native: %w", err)
	}
	src, err := shaderSource(n)
	if err != nil {
		return handle.Invalid, err
	}
	module, err := c.device.CreateShaderModule(&hal.ShaderModuleDescriptor{Label: "gfx-" + typ.String(), Source: src})
	if err != nil {
		return handle.Invalid, fmt.Errorf("native: create shader module: %w", err)
	}
	return c.shaders.Store(&shader{desc: n, module: module}, typ), nil
}

// NewVertexProgram implements gfx.Context.
func (c *Context) NewVertexProgram(desc *gfx.ShaderDesc) (gfx.Handle, error) {
	return c.newShader(desc, gfx.ShaderStageVertex, handle.TypeVertexProgram)
}

// NewFragmentProgram implements gfx.Context.
func (c *Context) NewFragmentProgram(desc *gfx.ShaderDesc) (gfx.Handle, error) {
	return c.newShader(desc, gfx.ShaderStageFragment, handle.TypeFragmentProgram)
}

func convertStages(s gfx.ShaderStage) gputypes.ShaderStages {
	var out gputypes.ShaderStages
	if s&gfx.ShaderStageVertex != 0 {
		out |= gputypes.ShaderStageVertex
	}
	if s&gfx.ShaderStageFragment != 0 {
		out |= gputypes.ShaderStageFragment
	}
	return out
}

func layoutEntry(b *gfx.ProgramBinding) gputypes.BindGroupLayoutEntry {
	e := gputypes.BindGroupLayoutEntry{
		Binding:    b.Resource.Binding,
		Visibility: convertStages(b.Stages),
	}
	switch t := b.Resource.Type; {
	case t == gfx.ShaderTypeUniformBuffer:
		e.Buffer = &gputypes.BufferBindingLayout{
			Type:           gputypes.BufferBindingTypeUniform,
			MinBindingSize: uint64(b.Resource.BlockSize()),
		}
	case t == gfx.ShaderTypeSampler:
		e.Sampler = &gputypes.SamplerBindingLayout{Type: gputypes.SamplerBindingTypeFiltering}
	case t.IsTexture():
		dim := gputypes.TextureViewDimension2D
		switch t {
		case gfx.ShaderTypeSampler2DArray:
			dim = gputypes.TextureViewDimension2DArray
		case gfx.ShaderTypeSamplerCube, gfx.ShaderTypeTextureCube:
			dim = gputypes.TextureViewDimensionCube
		}
		e.Texture = &gputypes.TextureBindingLayout{SampleType: gputypes.TextureSampleTypeFloat, ViewDimension: dim}
	}
	return e
}

// NewProgram implements gfx.Context. It links the two stages and creates
// one bind group layout per descriptor set.
func (c *Context) NewProgram(vp, fp gfx.Handle) (gfx.Handle, error) {
	vs, ok := c.shaders.GetTyped(vp, handle.TypeVertexProgram)
	if !ok {
		return handle.Invalid, fmt.Errorf("native: vertex program: %w", gfx.ErrInvalidHandle)
	}
	fs, ok := c.shaders.GetTyped(fp, handle.TypeFragmentProgram)
	if !ok {
		return handle.Invalid, fmt.Errorf("native: fragment program: %w", gfx.ErrInvalidHandle)
	}
	layout, err := gfx.NewProgramLayout(vs.desc, fs.desc)
	if err != nil {
		return handle.Invalid, fmt.Errorf("native: link program: %w", err)
	}

	p := &program{vs: vs, fs: fs, layout: layout, bindSet: make([][]int, layout.MaxSet)}
	entries := make([][]gputypes.BindGroupLayoutEntry, layout.MaxSet)
	for i := range layout.Bindings {
		b := &layout.Bindings[i]
		set := b.Resource.Set
		entries[set] = append(entries[set], layoutEntry(b))
		p.bindSet[set] = append(p.bindSet[set], i)
	}
	for set, e := range entries {
		g, err := c.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
			Label:   fmt.Sprintf("gfx-set-%d", set),
			Entries: e,
		})
		if err != nil {
			c.destroyProgram(p)
			return handle.Invalid, fmt.Errorf("native: bind group layout %d: %w", set, err)
		}
		p.groups = append(p.groups, g)
	}
	pl, err := c.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            "gfx-program",
		BindGroupLayouts: p.groups,
	})
	if err != nil {
		c.destroyProgram(p)
		return handle.Invalid, fmt.Errorf("native: pipeline layout: %w", err)
	}
	p.native = pl
	vs.refs++
	fs.refs++
	return c.programs.Store(p, handle.TypeProgram), nil
}

func (c *Context) destroyProgram(p *program) {
	if p.native != nil {
		c.device.DestroyPipelineLayout(p.native)
		p.native = nil
	}
	for _, g := range p.groups {
		c.device.DestroyBindGroupLayout(g)
	}
	p.groups = nil
}

func (c *Context) releaseShader(s *shader) {
	if s.refs == 0 && s.deleted && s.module != nil {
		c.bury(s.module)
		s.module = nil
	}
}

func (c *Context) deleteShader(h gfx.Handle) {
	if s, ok := c.shaders.Delete(h); ok {
		s.deleted = true
		c.releaseShader(s)
	}
}

// DeleteVertexProgram implements gfx.Context.
func (c *Context) DeleteVertexProgram(h gfx.Handle) { c.deleteShader(h) }

// DeleteFragmentProgram implements gfx.Context.
func (c *Context) DeleteFragmentProgram(h gfx.Handle) { c.deleteShader(h) }

// DeleteProgram implements gfx.Context. Cached pipelines built from the
// program are released with it.
func (c *Context) DeleteProgram(h gfx.Handle) {
	if c.Program == h {
		c.DisableProgram()
	}
	p, ok := c.programs.Delete(h)
	if !ok {
		return
	}
	c.pipelines.DeleteFunc(
		func(pipe *pipeline) bool { return pipe.owner == p },
		func(pipe *pipeline) { c.bury(pipe.native) },
	)
	c.bury(p.native)
	for _, g := range p.groups {
		c.bury(g)
	}
	p.native, p.groups = nil, nil
	for _, s := range []*shader{p.vs, p.fs} {
		s.refs--
		c.releaseShader(s)
	}
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
