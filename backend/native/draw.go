// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package native

import (
	"fmt"

	"github.com/gogpu/gfx"
	"github.com/gogpu/gfx/internal/pending"
	"github.com/gogpu/gfx/internal/scratch"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// pipeline is a cached render pipeline.
type pipeline struct {
	native hal.RenderPipeline
	hash   uint64
	owner  *program
}

// Draw implements gfx.Context.
func (c *Context) Draw(prim gfx.PrimitiveType, first, count uint32) {
	if !c.drawSetup("Draw", prim) {
		return
	}
	c.pass.Draw(count, 1, first, 0)
}

// DrawElements implements gfx.Context. first is a byte offset into the
// index buffer.
func (c *Context) DrawElements(prim gfx.PrimitiveType, first, count uint32, indexType gfx.Type, ib gfx.Handle) {
	b, ok := c.indexBuffers.Get(ib)
	if !ok {
		c.verify.Check("DrawElements", fmt.Errorf("index buffer: %w: %v", gfx.ErrInvalidHandle, ib))
		return
	}
	format, ok := convertIndexFormat(indexType)
	if !ok {
		c.verify.Check("DrawElements", fmt.Errorf("index type %d is not an integer type", indexType))
		return
	}
	if !c.drawSetup("DrawElements", prim) {
		return
	}
	c.pass.SetIndexBuffer(b.native, format, 0)
	c.pass.DrawIndexed(count, 1, first/max(indexType.Size(), 1), 0, 0)
}

// drawSetup materializes the pending state of the next draw and records
// the pipeline, bind groups and vertex buffers into the pass.
func (c *Context) drawSetup(op string, prim gfx.PrimitiveType) bool {
	if !c.requireFrame(op) {
		return false
	}
	p, ok := c.programs.Get(c.Program)
	if !ok {
		c.verify.Check(op, fmt.Errorf("no program bound: %w", gfx.ErrInvalidHandle))
		return false
	}

	c.applyViewport()
	allocs := c.commitUniforms(p.layout)

	layouts := c.VertexLayouts(p.layout.Inputs)
	key := c.Key(prim, layouts)
	hash := key.Hash()
	pipe, err := c.pipelines.GetOrCreate(hash, func() (*pipeline, error) {
		return c.createPipeline(hash, p, prim, layouts)
	})
	if !c.verify.Check(op, err) {
		return false
	}

	c.pass.SetPipeline(pipe.native)
	if c.Pipeline.StencilEnabled {
		c.pass.SetStencilReference(uint32(c.Pipeline.StencilReference))
	}
	for set, indices := range p.bindSet {
		g, err := c.bindGroup(p, set, indices, allocs)
		if !c.verify.Check(op, err) {
			return false
		}
		c.pass.SetBindGroup(uint32(set), g, nil) //nolint:gosec // G115: set count is small
	}
	for i, l := range layouts {
		vb, ok := c.vertexBuffers.Get(l.Buffer)
		if !ok {
			c.verify.Check(op, fmt.Errorf("vertex buffer %d: %w: %v", l.Binding, gfx.ErrInvalidHandle, l.Buffer))
			return false
		}
		c.pass.SetVertexBuffer(uint32(i), vb.native, 0) //nolint:gosec // G115: bounded by MaxVertexBufferBindings
	}
	return true
}

func (c *Context) applyViewport() {
	t := &c.passTarget
	if c.ViewportChanged {
		v := c.Viewport
		c.pass.SetViewport(float32(v.X), float32(v.Y), float32(v.Width), float32(v.Height), 0, 1)
		c.ViewportChanged = false
	}
	s := pending.Rect{Width: int32(t.width), Height: int32(t.height)} //nolint:gosec // G115: target sizes fit int32
	if c.Pipeline.ScissorEnabled {
		s = clipRect(c.Scissor, t.width, t.height)
	}
	if s != c.scissor {
		c.pass.SetScissorRect(uint32(s.X), uint32(s.Y), uint32(s.Width), uint32(s.Height)) //nolint:gosec // G115: clipped non-negative
		c.scissor = s
	}
}

// clipRect clamps r to a width x height target.
func clipRect(r pending.Rect, width, height uint32) pending.Rect {
	x0, y0 := max(r.X, 0), max(r.Y, 0)
	x1 := min(r.X+r.Width, int32(width))  //nolint:gosec // G115: target sizes fit int32
	y1 := min(r.Y+r.Height, int32(height)) //nolint:gosec // G115: target sizes fit int32
	if x1 < x0 {
		x1 = x0
	}
	if y1 < y0 {
		y1 = y0
	}
	return pending.Rect{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}

// commitUniforms copies every uniform block of the bound program into this
// frame's scratch memory. The result is indexed like the program bindings.
func (c *Context) commitUniforms(l *gfx.ProgramLayout) []scratch.Allocation[hal.Buffer] {
	if l.UniformBufferCount() == 0 {
		return nil
	}
	out := make([]scratch.Allocation[hal.Buffer], len(l.Bindings))
	for i := range l.Bindings {
		b := &l.Bindings[i]
		if !b.IsUniformBuffer() {
			continue
		}
		data := l.UniformBlockData(b)
		a := c.slot.Resource.scratch.Allocate(len(data))
		copy(a.Data, data)
		out[i] = a
	}
	return out
}

func (c *Context) boundTexture(unit int) *texture {
	if unit >= 0 && unit < len(c.Textures) {
		if t, ok := c.textures.Get(c.Textures[unit]); ok && t.view != nil {
			return t
		}
	}
	return c.defaultTexture
}

// bindGroup creates the transient bind group of one descriptor set. It is
// destroyed when the frame slot is reused.
func (c *Context) bindGroup(p *program, set int, indices []int, allocs []scratch.Allocation[hal.Buffer]) (hal.BindGroup, error) {
	entries := make([]gputypes.BindGroupEntry, 0, len(indices))
	for _, i := range indices {
		b := &p.layout.Bindings[i]
		e := gputypes.BindGroupEntry{Binding: b.Resource.Binding}
		switch {
		case b.IsUniformBuffer():
			a := allocs[i]
			e.Resource = gputypes.BufferBinding{
				Buffer: a.Backing.NativeHandle(),
				Offset: a.Offset,
				Size:   uint64(b.Resource.BlockSize()),
			}
		case b.Resource.Type == gfx.ShaderTypeSampler:
			e.Resource = gputypes.SamplerBinding{Sampler: c.boundTexture(b.TextureUnit).sampler.NativeHandle()}
		case b.Resource.Type.IsTexture():
			e.Resource = gputypes.TextureViewBinding{TextureView: c.boundTexture(b.TextureUnit).view.NativeHandle()}
		default:
			continue
		}
		entries = append(entries, e)
	}
	g, err := c.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:   fmt.Sprintf("gfx-set-%d", set),
		Layout:  p.groups[set],
		Entries: entries,
	})
	if err != nil {
		return nil, fmt.Errorf("bind group %d: %w", set, err)
	}
	res := c.slot.Resource
	res.bindGroups = append(res.bindGroups, g)
	return g, nil
}

func (c *Context) createPipeline(hash uint64, p *program, prim gfx.PrimitiveType, layouts []pending.BoundLayout) (*pipeline, error) {
	ps := &c.Pipeline
	target := c.passTarget

	buffers := make([]gputypes.VertexBufferLayout, 0, len(layouts))
	for _, l := range layouts {
		attrs := make([]gputypes.VertexAttribute, 0, len(l.Layout.Attributes))
		for _, a := range l.Layout.Attributes {
			f, ok := convertVertexFormat(a.Type, a.Size, a.Normalize)
			if !ok {
				return nil, fmt.Errorf("%w: %d x type %d", ErrUnsupportedVertexFormat, a.Size, a.Type)
			}
			attrs = append(attrs, gputypes.VertexAttribute{
				Format:         f,
				Offset:         uint64(a.Offset),
				ShaderLocation: a.Location,
			})
		}
		buffers = append(buffers, gputypes.VertexBufferLayout{
			ArrayStride: uint64(l.Layout.Stride),
			StepMode:    gputypes.VertexStepModeVertex,
			Attributes:  attrs,
		})
	}

	var blend *gputypes.BlendState
	if ps.BlendEnabled {
		comp := gputypes.BlendComponent{
			SrcFactor: convertBlendFactor(ps.BlendSrcFactor),
			DstFactor: convertBlendFactor(ps.BlendDstFactor),
			Operation: gputypes.BlendOperationAdd,
		}
		blend = &gputypes.BlendState{Color: comp, Alpha: comp}
	}
	targets := make([]gputypes.ColorTargetState, len(target.colorFormat))
	for i, f := range target.colorFormat {
		targets[i] = gputypes.ColorTargetState{Format: f, Blend: blend, WriteMask: convertColorMask(ps.WriteColorMask)}
	}

	var ds *hal.DepthStencilState
	if target.depth != nil {
		ds = &hal.DepthStencilState{
			Format:       depthFormat,
			DepthCompare: gputypes.CompareFunctionAlways,
			StencilFront: hal.StencilFaceState{Compare: gputypes.CompareFunctionAlways},
			StencilBack:  hal.StencilFaceState{Compare: gputypes.CompareFunctionAlways},
		}
		if ps.DepthTestEnabled {
			ds.DepthCompare = convertCompareFunc(ps.DepthTestFunc)
			ds.DepthWriteEnabled = ps.WriteDepth
		}
		if ps.StencilEnabled {
			ds.StencilFront = convertStencilFace(ps.StencilFront)
			ds.StencilBack = convertStencilFace(ps.StencilBack)
			ds.StencilReadMask = uint32(ps.StencilCompareMask)
			ds.StencilWriteMask = uint32(ps.StencilWriteMask)
		}
		if ps.PolygonOffsetFillEnabled {
			ds.DepthBias = int32(ps.PolygonOffsetUnits)
			ds.DepthBiasSlopeScale = ps.PolygonOffsetFactor
		}
	}

	native, err := c.device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  fmt.Sprintf("gfx-pipeline-%016x", hash),
		Layout: p.native,
		Vertex: hal.VertexState{
			Module:     p.vs.module,
			EntryPoint: p.vs.desc.EntryPoint,
			Buffers:    buffers,
		},
		Primitive: gputypes.PrimitiveState{
			Topology:  convertTopology(prim),
			FrontFace: convertFrontFace(ps.FaceWinding),
			CullMode:  convertCullMode(ps),
		},
		DepthStencil: ds,
		Multisample:  gputypes.DefaultMultisampleState(),
		Fragment: &hal.FragmentState{
			Module:     p.fs.module,
			EntryPoint: p.fs.desc.EntryPoint,
			Targets:    targets,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create pipeline: %w", err)
	}
	return &pipeline{native: native, hash: hash, owner: p}, nil
}

// PipelineCount returns the number of cached pipelines.
func (c *Context) PipelineCount() int { return c.pipelines.Len() }

// VertexBufferData returns the CPU shadow of a vertex buffer.
func (c *Context) VertexBufferData(h gfx.Handle) ([]byte, bool) {
	b, ok := c.vertexBuffers.Get(h)
	if !ok {
		return nil, false
	}
	return b.shadow[:b.size], true
}
