// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package handle provides generational, type-tagged handles for GPU-side
// objects.
//
// A Handle packs three fields into a single uint64:
//
//	bits  0..31  slot index
//	bits 32..39  type tag
//	bits 40..63  generation
//
// Deleting an object bumps the generation of its slot, so every outstanding
// copy of the old handle stops resolving even after the slot is reused.
package handle

import "fmt"

// Handle is an opaque reference into a Container.
// The zero value is never issued and is always invalid.
type Handle uint64

// Invalid is the zero handle.
const Invalid Handle = 0

const (
	indexBits      = 32
	typeBits       = 8
	generationBits = 24

	typeShift       = indexBits
	generationShift = indexBits + typeBits

	indexMask      = 1<<indexBits - 1
	typeMask       = 1<<typeBits - 1
	generationMask = 1<<generationBits - 1
)

// Type is the resource tag embedded in a handle.
type Type uint8

// Resource tags used by the graphics layer.
const (
	TypeNone Type = iota
	TypeTexture
	TypeRenderTarget
	TypeVertexBuffer
	TypeIndexBuffer
	TypeVertexDeclaration
	TypeVertexProgram
	TypeFragmentProgram
	TypeProgram
)

var typeNames = [...]string{
	TypeNone:              "None",
	TypeTexture:           "Texture",
	TypeRenderTarget:      "RenderTarget",
	TypeVertexBuffer:      "VertexBuffer",
	TypeIndexBuffer:       "IndexBuffer",
	TypeVertexDeclaration: "VertexDeclaration",
	TypeVertexProgram:     "VertexProgram",
	TypeFragmentProgram:   "FragmentProgram",
	TypeProgram:           "Program",
}

// String returns the tag name.
func (t Type) String() string {
	if int(t) < len(typeNames) {
		return typeNames[t]
	}
	return fmt.Sprintf("Type(%d)", uint8(t))
}

// New packs a handle. Generation is truncated to 24 bits.
func New(index uint32, typ Type, generation uint32) Handle {
	return Handle(uint64(index) |
		uint64(typ)<<typeShift |
		uint64(generation&generationMask)<<generationShift)
}

// Index returns the slot index.
func (h Handle) Index() uint32 {
	return uint32(h & indexMask) //nolint:gosec // G115: masked to 32 bits
}

// Type returns the type tag.
func (h Handle) Type() Type {
	return Type(h >> typeShift & typeMask) //nolint:gosec // G115: masked to 8 bits
}

// Generation returns the generation counter.
func (h Handle) Generation() uint32 {
	return uint32(h >> generationShift & generationMask) //nolint:gosec // G115: masked to 24 bits
}

// IsValid reports whether h could have been issued by a Container.
// It does not check liveness; use Container.Get for that.
func (h Handle) IsValid() bool {
	return h != Invalid && h.Generation() != 0
}

// String implements fmt.Stringer.
func (h Handle) String() string {
	if h == Invalid {
		return "Handle(invalid)"
	}
	return fmt.Sprintf("Handle(%s #%d gen %d)", h.Type(), h.Index(), h.Generation())
}
