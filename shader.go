// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gfx

import (
	"errors"
	"fmt"
)

// ShaderStage is a programmable pipeline stage.
type ShaderStage uint8

// Shader stages. The values are bit flags so a binding can be shared.
const (
	ShaderStageVertex ShaderStage = 1 << iota
	ShaderStageFragment
)

// ShaderLanguage is the encoding of ShaderDesc.Source.
type ShaderLanguage uint8

// Shader languages.
const (
	ShaderLanguageNone ShaderLanguage = iota
	ShaderLanguageSPIRV
	ShaderLanguageWGSL
	ShaderLanguageHLSL
	ShaderLanguageGLSL
)

// ShaderDataType is the type of a shader resource, member or input.
type ShaderDataType uint8

// Shader data types.
const (
	ShaderTypeUnknown ShaderDataType = iota
	ShaderTypeInt
	ShaderTypeUInt
	ShaderTypeFloat
	ShaderTypeVec2
	ShaderTypeVec3
	ShaderTypeVec4
	ShaderTypeMat2
	ShaderTypeMat3
	ShaderTypeMat4
	ShaderTypeSampler2D
	ShaderTypeSampler2DArray
	ShaderTypeSamplerCube
	ShaderTypeTexture2D
	ShaderTypeTextureCube
	ShaderTypeSampler
	ShaderTypeUniformBuffer
)

// Size returns the tightly packed byte size of one element.
func (t ShaderDataType) Size() uint32 {
	switch t {
	case ShaderTypeInt, ShaderTypeUInt, ShaderTypeFloat:
		return 4
	case ShaderTypeVec2:
		return 8
	case ShaderTypeVec3:
		return 12
	case ShaderTypeVec4, ShaderTypeMat2:
		return 16
	case ShaderTypeMat3:
		return 36
	case ShaderTypeMat4:
		return 64
	}
	return 0
}

// IsTexture reports whether t binds a texture view.
func (t ShaderDataType) IsTexture() bool {
	switch t {
	case ShaderTypeSampler2D, ShaderTypeSampler2DArray, ShaderTypeSamplerCube,
		ShaderTypeTexture2D, ShaderTypeTextureCube:
		return true
	}
	return false
}

// IsSampler reports whether t binds a sampler object.
func (t ShaderDataType) IsSampler() bool {
	switch t {
	case ShaderTypeSampler, ShaderTypeSampler2D, ShaderTypeSampler2DArray, ShaderTypeSamplerCube:
		return true
	}
	return false
}

// ShaderMember is one member of a uniform block.
type ShaderMember struct {
	Name         string
	NameHash     uint64
	Type         ShaderDataType
	ElementCount uint32
	Offset       uint32
}

// ShaderResource is one (set, binding) entry of a shader manifest.
type ShaderResource struct {
	Name         string
	NameHash     uint64
	Set          uint32
	Binding      uint32
	Type         ShaderDataType
	ElementCount uint32
	// Members is the layout of a ShaderTypeUniformBuffer.
	Members []ShaderMember
	// DataSize is the byte size of a uniform block. Zero means it is derived
	// from the members.
	DataSize uint32
}

// BlockSize returns the byte size of a uniform block.
func (r *ShaderResource) BlockSize() uint32 {
	if r.DataSize != 0 {
		return r.DataSize
	}
	var end uint32
	for _, m := range r.Members {
		if e := m.Offset + m.Type.Size()*max(m.ElementCount, 1); e > end {
			end = e
		}
	}
	return end
}

// ShaderInput is a vertex stage input.
type ShaderInput struct {
	Name     string
	NameHash uint64
	Location uint32
	Type     ShaderDataType
}

// ShaderDesc is a compiled shader stage plus its binding manifest.
type ShaderDesc struct {
	Stage      ShaderStage
	Language   ShaderLanguage
	Source     []byte
	EntryPoint string
	Resources  []ShaderResource
	Inputs     []ShaderInput
}

// Shader description errors.
var (
	ErrEmptyShader         = errors.New("gfx: shader source is empty")
	ErrDuplicateBinding    = errors.New("gfx: duplicate shader binding")
	ErrShaderStage         = errors.New("gfx: wrong shader stage")
	ErrBindingTypeMismatch = errors.New("gfx: binding type differs between stages")
)

// PackMembers assigns tightly packed offsets to members in declaration order.
// It is meant for hand-written manifests; reflected manifests carry their
// own offsets.
func PackMembers(members []ShaderMember) []ShaderMember {
	var offset uint32
	for i := range members {
		if members[i].ElementCount == 0 {
			members[i].ElementCount = 1
		}
		members[i].Offset = offset
		offset += members[i].Type.Size() * members[i].ElementCount
	}
	return members
}

// Normalize fills name hashes and default element counts, and rejects
// duplicate bindings. It returns a copy.
func (d *ShaderDesc) Normalize() (*ShaderDesc, error) {
	if len(d.Source) == 0 {
		return nil, ErrEmptyShader
	}
	out := *d
	if out.EntryPoint == "" {
		out.EntryPoint = "main"
	}
	out.Resources = make([]ShaderResource, len(d.Resources))
	seen := make(map[[2]uint32]bool, len(d.Resources))
	for i, r := range d.Resources {
		key := [2]uint32{r.Set, r.Binding}
		if seen[key] {
			return nil, fmt.Errorf("%w: set %d binding %d", ErrDuplicateBinding, r.Set, r.Binding)
		}
		seen[key] = true
		if r.NameHash == 0 {
			r.NameHash = HashString64(r.Name)
		}
		if r.ElementCount == 0 {
			r.ElementCount = 1
		}
		members := make([]ShaderMember, len(r.Members))
		for j, m := range r.Members {
			if m.NameHash == 0 {
				m.NameHash = HashString64(m.Name)
			}
			if m.ElementCount == 0 {
				m.ElementCount = 1
			}
			members[j] = m
		}
		r.Members = members
		out.Resources[i] = r
	}
	out.Inputs = make([]ShaderInput, len(d.Inputs))
	for i, in := range d.Inputs {
		if in.NameHash == 0 {
			in.NameHash = HashString64(in.Name)
		}
		out.Inputs[i] = in
	}
	return &out, nil
}
