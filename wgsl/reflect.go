// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package wgsl builds gfx shader manifests from WGSL source.
//
// Reflection runs naga's front end (parse and lower) and walks the IR, so
// the binding manifest always matches what the driver compiles:
//
//	vs, err := wgsl.ShaderDesc(src, gfx.ShaderStageVertex)
//	if err != nil {
//		return err
//	}
//	h, err := ctx.NewVertexProgram(vs)
package wgsl

import (
	"errors"
	"fmt"

	"github.com/gogpu/gfx"
	"github.com/gogpu/naga"
	"github.com/gogpu/naga/ir"
)

// ErrNoEntryPoint is returned when the source has no entry point for the
// requested stage.
var ErrNoEntryPoint = errors.New("wgsl: no entry point for stage")

// EntryPoint is a reflected shader entry point.
type EntryPoint struct {
	Name  string
	Stage gfx.ShaderStage
}

// Reflection is the binding manifest of a WGSL module.
type Reflection struct {
	// Resources lists every uniform, texture and sampler global.
	Resources []gfx.ShaderResource
	// Inputs are the @location inputs of the first vertex entry point.
	Inputs      []gfx.ShaderInput
	EntryPoints []EntryPoint
}

// EntryPoint returns the name of the first entry point of stage.
func (r *Reflection) EntryPoint(stage gfx.ShaderStage) (string, bool) {
	for _, e := range r.EntryPoints {
		if e.Stage == stage {
			return e.Name, true
		}
	}
	return "", false
}

// Reflect parses source and extracts its binding manifest.
func Reflect(source string) (*Reflection, error) {
	ast, err := naga.Parse(source)
	if err != nil {
		return nil, fmt.Errorf("wgsl: %w", err)
	}
	module, err := naga.LowerWithSource(ast, source)
	if err != nil {
		return nil, fmt.Errorf("wgsl: %w", err)
	}
	return reflectModule(module)
}

func reflectModule(m *ir.Module) (*Reflection, error) {
	r := &Reflection{}
	for i := range m.GlobalVariables {
		g := &m.GlobalVariables[i]
		if g.Binding == nil {
			continue
		}
		res, ok, err := resource(m, g)
		if err != nil {
			return nil, err
		}
		if ok {
			r.Resources = append(r.Resources, res)
		}
	}

	for i := range m.EntryPoints {
		ep := &m.EntryPoints[i]
		var stage gfx.ShaderStage
		switch ep.Stage {
		case ir.StageVertex:
			stage = gfx.ShaderStageVertex
		case ir.StageFragment:
			stage = gfx.ShaderStageFragment
		default:
			continue
		}
		if stage == gfx.ShaderStageVertex && len(r.Inputs) == 0 {
			r.Inputs = vertexInputs(m, &ep.Function)
		}
		r.EntryPoints = append(r.EntryPoints, EntryPoint{Name: ep.Name, Stage: stage})
	}
	return r, nil
}

func resource(m *ir.Module, g *ir.GlobalVariable) (gfx.ShaderResource, bool, error) {
	res := gfx.ShaderResource{
		Name:    g.Name,
		Set:     g.Binding.Group,
		Binding: g.Binding.Binding,
	}
	switch g.Space {
	case ir.SpaceUniform:
		res.Type = gfx.ShaderTypeUniformBuffer
		res.DataSize = ir.TypeSize(m, g.Type)
		if st, ok := m.Types[g.Type].Inner.(ir.StructType); ok {
			for _, sm := range st.Members {
				typ, count := dataType(m, sm.Type)
				if typ == gfx.ShaderTypeUnknown {
					return res, false, fmt.Errorf("wgsl: uniform %s.%s has an unsupported type", g.Name, sm.Name)
				}
				res.Members = append(res.Members, gfx.ShaderMember{
					Name:         sm.Name,
					Type:         typ,
					ElementCount: count,
					Offset:       sm.Offset,
				})
			}
			return res, true, nil
		}
		// A bare value is exposed as a block with one member of the same name.
		typ, count := dataType(m, g.Type)
		if typ == gfx.ShaderTypeUnknown {
			return res, false, fmt.Errorf("wgsl: uniform %s has an unsupported type", g.Name)
		}
		res.Members = []gfx.ShaderMember{{Name: g.Name, Type: typ, ElementCount: count}}
		return res, true, nil

	case ir.SpaceHandle:
		switch t := m.Types[g.Type].Inner.(type) {
		case ir.SamplerType:
			res.Type = gfx.ShaderTypeSampler
		case ir.ImageType:
			switch {
			case t.Dim == ir.DimCube:
				res.Type = gfx.ShaderTypeTextureCube
			case t.Dim == ir.Dim2D && t.Arrayed:
				res.Type = gfx.ShaderTypeSampler2DArray
			case t.Dim == ir.Dim2D:
				res.Type = gfx.ShaderTypeTexture2D
			default:
				return res, false, fmt.Errorf("wgsl: texture %s has an unsupported dimension", g.Name)
			}
		default:
			return res, false, nil
		}
		return res, true, nil
	}
	// Storage buffers and other spaces have no gfx binding type.
	return res, false, nil
}

// dataType maps a naga type to a gfx data type and element count.
func dataType(m *ir.Module, h ir.TypeHandle) (gfx.ShaderDataType, uint32) {
	switch t := m.Types[h].Inner.(type) {
	case ir.ScalarType:
		switch t.Kind {
		case ir.ScalarFloat:
			return gfx.ShaderTypeFloat, 1
		case ir.ScalarSint:
			return gfx.ShaderTypeInt, 1
		case ir.ScalarUint:
			return gfx.ShaderTypeUInt, 1
		}
	case ir.VectorType:
		if t.Scalar.Kind != ir.ScalarFloat {
			break
		}
		switch t.Size {
		case ir.Vec2:
			return gfx.ShaderTypeVec2, 1
		case ir.Vec3:
			return gfx.ShaderTypeVec3, 1
		case ir.Vec4:
			return gfx.ShaderTypeVec4, 1
		}
	case ir.MatrixType:
		if t.Columns != t.Rows {
			break
		}
		switch t.Columns {
		case ir.Vec2:
			return gfx.ShaderTypeMat2, 1
		case ir.Vec3:
			return gfx.ShaderTypeMat3, 1
		case ir.Vec4:
			return gfx.ShaderTypeMat4, 1
		}
	case ir.ArrayType:
		if t.Size.Constant == nil {
			break
		}
		typ, _ := dataType(m, t.Base)
		return typ, *t.Size.Constant
	}
	return gfx.ShaderTypeUnknown, 0
}

func vertexInputs(m *ir.Module, fn *ir.Function) []gfx.ShaderInput {
	var inputs []gfx.ShaderInput
	add := func(name string, b *ir.Binding, typ ir.TypeHandle) {
		if b == nil {
			return
		}
		loc, ok := (*b).(ir.LocationBinding)
		if !ok {
			return
		}
		dt, _ := dataType(m, typ)
		inputs = append(inputs, gfx.ShaderInput{Name: name, Location: loc.Location, Type: dt})
	}
	for _, arg := range fn.Arguments {
		if arg.Binding != nil {
			add(arg.Name, arg.Binding, arg.Type)
			continue
		}
		if st, ok := m.Types[arg.Type].Inner.(ir.StructType); ok {
			for _, sm := range st.Members {
				add(sm.Name, sm.Binding, sm.Type)
			}
		}
	}
	return inputs
}
