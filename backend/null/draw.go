// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package null

import (
	"fmt"
	"slices"

	"github.com/gogpu/gfx"
	"github.com/gogpu/gfx/handle"
	"github.com/gogpu/gfx/internal/pending"
)

// Draw implements gfx.Context.
func (c *Context) Draw(prim gfx.PrimitiveType, first, count uint32) {
	rec, ok := c.drawSetup("Draw", prim)
	if !ok {
		return
	}
	rec.First, rec.Count = first, count
	c.log.Draws = append(c.log.Draws, rec)
}

// DrawElements implements gfx.Context. first is a byte offset into the
// index buffer.
func (c *Context) DrawElements(prim gfx.PrimitiveType, first, count uint32, indexType gfx.Type, ib gfx.Handle) {
	if !c.indexBuffers.Contains(ib) {
		c.verify.Check("DrawElements", fmt.Errorf("index buffer: %w: %v", gfx.ErrInvalidHandle, ib))
		return
	}
	rec, ok := c.drawSetup("DrawElements", prim)
	if !ok {
		return
	}
	rec.First, rec.Count = first, count
	rec.Indexed = true
	rec.IndexType = indexType
	rec.IndexBuffer = ib
	rec.FirstIndex = first / max(indexType.Size(), 1)
	c.log.Draws = append(c.log.Draws, rec)
}

// drawSetup materializes the pending state of the next draw.
func (c *Context) drawSetup(op string, prim gfx.PrimitiveType) (DrawRecord, bool) {
	if !c.requireFrame(op) {
		return DrawRecord{}, false
	}
	p, ok := c.programs.Get(c.Program)
	if !ok {
		c.verify.Check(op, fmt.Errorf("no program bound: %w", gfx.ErrInvalidHandle))
		return DrawRecord{}, false
	}

	vp := Viewport(c.Viewport)
	if c.ViewportChanged {
		c.log.Viewports = append(c.log.Viewports, vp)
		c.ViewportChanged = false
	}

	uniforms := c.commitUniforms(p.layout)

	layouts := c.VertexLayouts(p.layout.Inputs)
	key := c.Key(prim, layouts)
	hash := key.Hash()
	pipe, err := c.pipelines.GetOrCreate(hash, func() (*Pipeline, error) {
		return c.createPipeline(hash, key, layouts), nil
	})
	if !c.verify.Check(op, err) {
		return DrawRecord{}, false
	}

	buffers := make([]gfx.Handle, 0, len(layouts))
	for _, l := range layouts {
		buffers = append(buffers, l.Buffer)
	}

	rec := DrawRecord{
		Primitive:    prim,
		State:        c.Pipeline,
		Pipeline:     pipe,
		Program:      c.Program,
		RenderTarget: c.RenderTarget,
		Viewport:     vp,
		Textures:     c.Textures,
		Buffers:      buffers,
		Uniforms:     uniforms,
		Slot:         c.slot.Index,
	}
	for i, t := range rec.Textures {
		if t != handle.Invalid && !c.textures.Contains(t) {
			rec.Textures[i] = handle.Invalid
		}
	}
	return rec, true
}

func (c *Context) createPipeline(hash uint64, key gfx.PipelineKey, layouts []pending.BoundLayout) *Pipeline {
	c.pipelineID++
	p := &Pipeline{ID: c.pipelineID, Hash: hash, Key: key}
	p.Key.VertexLayouts = slices.Clone(key.VertexLayouts)
	for _, l := range layouts {
		p.Layouts = append(p.Layouts, l.Layout)
	}
	return p
}

// commitUniforms copies every uniform block of the bound program into this
// frame's scratch memory.
func (c *Context) commitUniforms(l *gfx.ProgramLayout) []UniformUpload {
	if l.UniformBufferCount() == 0 {
		return nil
	}
	out := make([]UniformUpload, 0, l.UniformBufferCount())
	for i := range l.Bindings {
		b := &l.Bindings[i]
		if !b.IsUniformBuffer() {
			continue
		}
		data := l.UniformBlockData(b)
		a := c.slot.Resource.scratch.Allocate(len(data))
		copy(a.Data, data)
		out = append(out, UniformUpload{
			Set:     b.Resource.Set,
			Binding: b.Resource.Binding,
			Pool:    a.Pool,
			Offset:  a.Offset,
			Data:    slices.Clone(a.Data),
		})
	}
	return out
}
