// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gfx

import (
	"errors"
	"fmt"
	"hash/fnv"
)

// MaxVertexStreams is the number of streams one declaration may carry.
const MaxVertexStreams = 8

// MaxVertexBufferBindings is the number of vertex buffers bound at once.
const MaxVertexBufferBindings = 4

// ErrTooManyStreams is returned when a declaration exceeds MaxVertexStreams.
var ErrTooManyStreams = errors.New("gfx: too many vertex streams")

// VertexStream is one attribute of an interleaved vertex layout.
type VertexStream struct {
	Name      string
	NameHash  uint64
	Size      uint32 // component count, 1..4
	Type      Type
	Normalize bool
	Offset    uint32
}

// VertexStreamDeclaration collects streams before a declaration is created.
type VertexStreamDeclaration struct {
	Streams []VertexStream
}

// NewVertexStreamDeclaration returns an empty stream list.
func NewVertexStreamDeclaration() *VertexStreamDeclaration {
	return &VertexStreamDeclaration{}
}

// AddStream appends an attribute. Offsets are assigned when the declaration
// is created.
func (d *VertexStreamDeclaration) AddStream(name string, size uint32, typ Type, normalize bool) *VertexStreamDeclaration {
	d.Streams = append(d.Streams, VertexStream{
		Name:      name,
		NameHash:  HashString64(name),
		Size:      size,
		Type:      typ,
		Normalize: normalize,
	})
	return d
}

// VertexDeclaration is an immutable vertex layout.
type VertexDeclaration struct {
	Streams []VertexStream
	Stride  uint32
	hash    uint64
}

// Hash identifies the layout for pipeline keys.
func (d *VertexDeclaration) Hash() uint64 { return d.hash }

// BuildVertexDeclaration lays the streams out back to back. A non-zero
// stride overrides the packed size.
func BuildVertexDeclaration(sd *VertexStreamDeclaration, stride uint32) (*VertexDeclaration, error) {
	if sd == nil {
		return nil, fmt.Errorf("gfx: nil stream declaration")
	}
	if len(sd.Streams) > MaxVertexStreams {
		return nil, fmt.Errorf("%w: %d > %d", ErrTooManyStreams, len(sd.Streams), MaxVertexStreams)
	}

	d := &VertexDeclaration{Streams: make([]VertexStream, len(sd.Streams))}
	var offset uint32
	for i, s := range sd.Streams {
		if s.NameHash == 0 {
			s.NameHash = HashString64(s.Name)
		}
		s.Offset = offset
		offset += s.Size * s.Type.Size()
		d.Streams[i] = s
	}
	d.Stride = offset
	if stride != 0 {
		d.Stride = stride
	}

	h := fnv.New64a()
	hashWriteUint32(h, d.Stride)
	for _, s := range d.Streams {
		hashWriteUint64(h, s.NameHash)
		hashWriteUint32(h, s.Size)
		hashWriteUint32(h, uint32(s.Type))
		hashWriteBool(h, s.Normalize)
		hashWriteUint32(h, s.Offset)
	}
	d.hash = h.Sum64()
	return d, nil
}

// VertexAttribute is a stream matched to a shader input location.
type VertexAttribute struct {
	Location  uint32
	Offset    uint32
	Size      uint32
	Type      Type
	Normalize bool
}

// VertexLayout is a declaration bound against a vertex program.
type VertexLayout struct {
	Stride     uint32
	Attributes []VertexAttribute
}

// BindVertexDeclaration matches each stream of decl to the vertex shader
// input with the same name hash. Streams the shader does not consume are
// dropped from the layout.
func BindVertexDeclaration(decl *VertexDeclaration, inputs []ShaderInput) VertexLayout {
	layout := VertexLayout{Stride: decl.Stride}
	for _, s := range decl.Streams {
		for _, in := range inputs {
			if in.NameHash != s.NameHash {
				continue
			}
			layout.Attributes = append(layout.Attributes, VertexAttribute{
				Location:  in.Location,
				Offset:    s.Offset,
				Size:      s.Size,
				Type:      s.Type,
				Normalize: s.Normalize,
			})
			break
		}
	}
	return layout
}
