// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gfx

import (
	"encoding/binary"
	"fmt"
	"math"
	"slices"
)

// UniformLocation addresses a uniform as (set, binding, member):
// set in bits 0..15, binding in bits 16..31, member index in bits 32..63.
type UniformLocation uint64

// InvalidUniformLocation is returned for unknown uniform names.
const InvalidUniformLocation = ^UniformLocation(0)

// NewUniformLocation packs a location.
func NewUniformLocation(set, binding, member uint32) UniformLocation {
	return UniformLocation(uint64(set&0xFFFF) | uint64(binding&0xFFFF)<<16 | uint64(member)<<32)
}

// Set returns the descriptor set.
func (l UniformLocation) Set() uint32 { return uint32(l & 0xFFFF) } //nolint:gosec // G115: masked

// Binding returns the binding index inside the set.
func (l UniformLocation) Binding() uint32 { return uint32(l >> 16 & 0xFFFF) } //nolint:gosec // G115: masked

// Member returns the member index inside a uniform block.
func (l UniformLocation) Member() uint32 { return uint32(l >> 32) } //nolint:gosec // G115: upper half

// UniformBufferAlignment is the offset alignment of uniform block data.
const UniformBufferAlignment = 256

// ProgramBinding is a (set, binding) slot of a linked program.
type ProgramBinding struct {
	Resource ShaderResource
	Stages   ShaderStage
	// DataOffset is the offset of a uniform block inside the program's CPU
	// uniform data.
	DataOffset uint32
	// TextureUnit is the texture unit sampled by a texture or sampler
	// binding. Units are assigned in binding order and may be changed with
	// SetSampler.
	TextureUnit int
}

// IsUniformBuffer reports whether b holds constant data.
func (b *ProgramBinding) IsUniformBuffer() bool {
	return b.Resource.Type == ShaderTypeUniformBuffer
}

// ProgramLayout is the linked manifest of a vertex and fragment stage plus
// the CPU copy of the uniform block data. Everything except the uniform
// data and texture units is immutable after NewProgramLayout.
type ProgramLayout struct {
	Bindings    []ProgramBinding
	Inputs      []ShaderInput
	UniformData []byte

	MaxSet     uint32
	MaxBinding uint32

	// AlignedDataSize is the uniform data size with every block padded
	// to UniformBufferAlignment.
	AlignedDataSize uint32

	uniformBufferCount int
	textureCount       int
	samplerCount       int
}

func alignUp(v, a uint32) uint32 {
	return (v + a - 1) / a * a
}

// NewProgramLayout links two normalized stage descriptions.
func NewProgramLayout(vs, fs *ShaderDesc) (*ProgramLayout, error) {
	if vs.Stage != ShaderStageVertex {
		return nil, fmt.Errorf("%w: vertex program has stage %d", ErrShaderStage, vs.Stage)
	}
	if fs.Stage != ShaderStageFragment {
		return nil, fmt.Errorf("%w: fragment program has stage %d", ErrShaderStage, fs.Stage)
	}

	p := &ProgramLayout{Inputs: slices.Clone(vs.Inputs)}
	index := map[[2]uint32]int{}
	for _, stage := range []*ShaderDesc{vs, fs} {
		for _, r := range stage.Resources {
			key := [2]uint32{r.Set, r.Binding}
			if i, ok := index[key]; ok {
				if p.Bindings[i].Resource.Type != r.Type {
					return nil, fmt.Errorf("%w: set %d binding %d", ErrBindingTypeMismatch, r.Set, r.Binding)
				}
				p.Bindings[i].Stages |= stage.Stage
				continue
			}
			index[key] = len(p.Bindings)
			p.Bindings = append(p.Bindings, ProgramBinding{Resource: r, Stages: stage.Stage})
		}
	}
	slices.SortFunc(p.Bindings, func(a, b ProgramBinding) int {
		if a.Resource.Set != b.Resource.Set {
			return int(a.Resource.Set) - int(b.Resource.Set)
		}
		return int(a.Resource.Binding) - int(b.Resource.Binding)
	})

	var dataSize uint32
	unit := 0
	for i := range p.Bindings {
		b := &p.Bindings[i]
		p.MaxSet = max(p.MaxSet, b.Resource.Set+1)
		p.MaxBinding = max(p.MaxBinding, b.Resource.Binding+1)
		switch {
		case b.IsUniformBuffer():
			size := b.Resource.BlockSize()
			b.DataOffset = dataSize
			dataSize += size
			p.AlignedDataSize += alignUp(size, UniformBufferAlignment)
			p.uniformBufferCount++
		case b.Resource.Type.IsTexture():
			b.TextureUnit = unit
			unit++
			p.textureCount++
		case b.Resource.Type == ShaderTypeSampler:
			// Separate samplers pair with the texture declared just before them.
			b.TextureUnit = max(unit-1, 0)
			p.samplerCount++
		}
	}
	p.UniformData = make([]byte, dataSize)
	return p, nil
}

// UniformBufferCount returns the number of uniform block bindings.
func (p *ProgramLayout) UniformBufferCount() int { return p.uniformBufferCount }

// TextureCount returns the number of texture bindings.
func (p *ProgramLayout) TextureCount() int { return p.textureCount }

// SamplerCount returns the number of separate sampler bindings.
func (p *ProgramLayout) SamplerCount() int { return p.samplerCount }

// UniformBlockData returns the CPU bytes of a uniform block binding.
func (p *ProgramLayout) UniformBlockData(b *ProgramBinding) []byte {
	size := b.Resource.BlockSize()
	return p.UniformData[b.DataOffset : b.DataOffset+size]
}

func (p *ProgramLayout) binding(set, binding uint32) *ProgramBinding {
	for i := range p.Bindings {
		b := &p.Bindings[i]
		if b.Resource.Set == set && b.Resource.Binding == binding {
			return b
		}
	}
	return nil
}

// AttributeCount returns the number of vertex inputs.
func (p *ProgramLayout) AttributeCount() int { return len(p.Inputs) }

// Attribute returns vertex input i.
func (p *ProgramLayout) Attribute(i int) (ShaderInput, bool) {
	if i < 0 || i >= len(p.Inputs) {
		return ShaderInput{}, false
	}
	return p.Inputs[i], true
}

// UniformCount returns the number of named uniforms: one per texture or
// sampler binding plus one per uniform block member.
func (p *ProgramLayout) UniformCount() int {
	n := 0
	for i := range p.Bindings {
		if p.Bindings[i].IsUniformBuffer() {
			n += len(p.Bindings[i].Resource.Members)
		} else {
			n++
		}
	}
	return n
}

// UniformInfo describes a named uniform.
type UniformInfo struct {
	Name         string
	Type         ShaderDataType
	ElementCount uint32
	Location     UniformLocation
}

// Uniform returns the uniform at index, in the same order UniformCount
// enumerates.
func (p *ProgramLayout) Uniform(index int) (UniformInfo, bool) {
	if index < 0 {
		return UniformInfo{}, false
	}
	n := 0
	for i := range p.Bindings {
		r := &p.Bindings[i].Resource
		if !p.Bindings[i].IsUniformBuffer() {
			if n == index {
				return UniformInfo{
					Name:         r.Name,
					Type:         r.Type,
					ElementCount: r.ElementCount,
					Location:     NewUniformLocation(r.Set, r.Binding, 0),
				}, true
			}
			n++
			continue
		}
		if index < n+len(r.Members) {
			mi := index - n
			m := &r.Members[mi]
			return UniformInfo{
				Name:         m.Name,
				Type:         m.Type,
				ElementCount: m.ElementCount,
				Location:     NewUniformLocation(r.Set, r.Binding, uint32(mi)), //nolint:gosec // G115: member count is small
			}, true
		}
		n += len(r.Members)
	}
	return UniformInfo{}, false
}

// UniformLocation resolves name against the bindings and block members.
// A match on a binding's own name addresses member 0.
func (p *ProgramLayout) UniformLocation(name string) UniformLocation {
	h := HashString64(name)
	for i := range p.Bindings {
		r := &p.Bindings[i].Resource
		if r.NameHash == h {
			return NewUniformLocation(r.Set, r.Binding, 0)
		}
		for mi := range r.Members {
			if r.Members[mi].NameHash == h {
				return NewUniformLocation(r.Set, r.Binding, uint32(mi)) //nolint:gosec // G115: member count is small
			}
		}
	}
	return InvalidUniformLocation
}

func (p *ProgramLayout) writeFloats(loc UniformLocation, data []float32) bool {
	if loc == InvalidUniformLocation {
		return false
	}
	b := p.binding(loc.Set(), loc.Binding())
	if b == nil || !b.IsUniformBuffer() {
		return false
	}
	mi := int(loc.Member())
	if mi >= len(b.Resource.Members) {
		return false
	}
	off := int(b.DataOffset + b.Resource.Members[mi].Offset)
	end := int(b.DataOffset + b.Resource.BlockSize())
	if off+4*len(data) > end {
		return false
	}
	for i, f := range data {
		binary.LittleEndian.PutUint32(p.UniformData[off+4*i:], math.Float32bits(f))
	}
	return true
}

// SetConstantV4 writes vec4 values starting at loc. It reports false when
// the location is invalid or the write would overrun the block.
func (p *ProgramLayout) SetConstantV4(loc UniformLocation, data [][4]float32) bool {
	flat := make([]float32, 0, 4*len(data))
	for _, v := range data {
		flat = append(flat, v[:]...)
	}
	return p.writeFloats(loc, flat)
}

// SetConstantM4 writes column-major mat4 values starting at loc.
func (p *ProgramLayout) SetConstantM4(loc UniformLocation, data [][16]float32) bool {
	flat := make([]float32, 0, 16*len(data))
	for _, m := range data {
		flat = append(flat, m[:]...)
	}
	return p.writeFloats(loc, flat)
}

// SetSampler points a texture or sampler binding at texture unit.
func (p *ProgramLayout) SetSampler(loc UniformLocation, unit int) bool {
	if loc == InvalidUniformLocation {
		return false
	}
	b := p.binding(loc.Set(), loc.Binding())
	if b == nil || b.IsUniformBuffer() {
		return false
	}
	b.TextureUnit = unit
	return true
}
