// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package null

import (
	"github.com/gogpu/gfx"
)

// Pipeline is the null pipeline object: the key it was created from and the
// vertex layouts bound against the program.
type Pipeline struct {
	ID      int
	Hash    uint64
	Key     gfx.PipelineKey
	Layouts []gfx.VertexLayout
}

// Viewport is an applied viewport.
type Viewport struct {
	X, Y          int32
	Width, Height int32
}

// UniformUpload is one uniform block committed to scratch memory for a draw.
type UniformUpload struct {
	Set, Binding uint32
	Pool         int
	Offset       uint64
	Data         []byte
}

// DrawRecord captures everything a draw observed.
type DrawRecord struct {
	Primitive    gfx.PrimitiveType
	First        uint32
	Count        uint32
	Indexed      bool
	IndexType    gfx.Type
	IndexBuffer  gfx.Handle
	FirstIndex   uint32
	State        gfx.PipelineState
	Pipeline     *Pipeline
	Program      gfx.Handle
	RenderTarget gfx.Handle
	Viewport     Viewport
	Textures     [gfx.MaxTextureUnits]gfx.Handle
	Buffers      []gfx.Handle
	Uniforms     []UniformUpload
	Slot         int
}

// ClearRecord captures a Clear call.
type ClearRecord struct {
	Flags        gfx.BufferType
	Color        [4]float32
	Depth        float32
	Stencil      uint32
	RenderTarget gfx.Handle
}

// FrameRecord captures one BeginFrame/Flip cycle.
type FrameRecord struct {
	Slot int
	// WaitedFor is the fence value BeginFrame waited for.
	WaitedFor uint64
	// Submitted is the fence value recorded by Flip.
	Submitted    uint64
	ScratchBytes int
}

// Log is the record of a null context's activity.
type Log struct {
	Frames    []FrameRecord
	Clears    []ClearRecord
	Draws     []DrawRecord
	Viewports []Viewport
}

// Reset drops every record.
func (l *Log) Reset() {
	*l = Log{}
}
