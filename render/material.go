// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"slices"

	"github.com/gogpu/gfx"
)

// ConstantKind selects where a material constant takes its value.
type ConstantKind uint8

// Constant kinds.
const (
	// ConstantUser uses Constant.Value, or the render context register
	// override when one is enabled.
	ConstantUser ConstantKind = iota
	ConstantViewProj
	ConstantWorld
	ConstantWorldViewProj
	// ConstantTexture binds a sampler to the texture unit in Value[0].
	ConstantTexture
)

// Constant is a uniform a material sets before each draw.
type Constant struct {
	// Name is the uniform member name in the program.
	Name string
	Kind ConstantKind
	// Stage selects the register bank for overrides.
	Stage    gfx.ShaderStage
	Register uint32
	Value    Vec4

	location gfx.UniformLocation
}

// Material is a program plus the tags and constants it draws with.
type Material struct {
	Program   gfx.Handle
	tags      []uint64
	constants []Constant
	resolved  bool
}

// NewMaterial creates a material for program.
func NewMaterial(program gfx.Handle, tags ...string) *Material {
	m := &Material{Program: program}
	for _, t := range tags {
		m.AddTag(t)
	}
	return m
}

// AddTag adds a tag that predicates can select on.
func (m *Material) AddTag(tag string) {
	h := gfx.HashString64(tag)
	if !slices.Contains(m.tags, h) {
		m.tags = append(m.tags, h)
	}
}

// HasTag reports whether the material carries the hashed tag.
func (m *Material) HasTag(hash uint64) bool { return slices.Contains(m.tags, hash) }

// AddConstant adds a constant. Its uniform location is resolved against the
// program the first time the material is drawn.
func (m *Material) AddConstant(c Constant) {
	c.location = gfx.InvalidUniformLocation
	m.constants = append(m.constants, c)
	m.resolved = false
}

// SetConstant updates the value of the named constant.
func (m *Material) SetConstant(name string, v Vec4) bool {
	for i := range m.constants {
		if m.constants[i].Name == name {
			m.constants[i].Value = v
			return true
		}
	}
	return false
}

// Constants returns the material constants.
func (m *Material) Constants() []Constant { return m.constants }

func (m *Material) resolve(g gfx.Context) {
	if m.resolved {
		return
	}
	for i := range m.constants {
		c := &m.constants[i]
		c.location = g.GetUniformLocation(m.Program, c.Name)
		if c.location == gfx.InvalidUniformLocation {
			gfx.Logger().Warn("render: material constant not found in program", "name", c.Name)
		}
	}
	m.resolved = true
}

// Predicate selects render objects by material tags.
type Predicate struct {
	Tags []uint64
}

// NewPredicate creates a predicate matching materials with every tag.
func NewPredicate(tags ...string) *Predicate {
	p := &Predicate{Tags: make([]uint64, len(tags))}
	for i, t := range tags {
		p.Tags[i] = gfx.HashString64(t)
	}
	return p
}

// Matches reports whether m carries every tag of p. A nil predicate
// matches any material.
func (p *Predicate) Matches(m *Material) bool {
	if m == nil {
		return false
	}
	if p == nil {
		return true
	}
	for _, t := range p.Tags {
		if !m.HasTag(t) {
			return false
		}
	}
	return true
}
