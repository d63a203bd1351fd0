// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/gogpu/gfx"
	"github.com/gogpu/gfx/backend/null"
	"github.com/gogpu/gfx/handle"
)

type testScene struct {
	g       *null.Context
	rc      *Context
	program gfx.Handle
	decl    *gfx.VertexDeclaration
	vb      gfx.Handle
}

func newTestScene(t *testing.T, opts ...Option) *testScene {
	t.Helper()
	p := gfx.NewContextParams(gfx.WithSize(320, 240), gfx.WithVerifyGraphicsCalls(true))
	g := null.New(&p)
	if err := g.Initialize(); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	t.Cleanup(g.Finalize)

	vs, err := g.NewVertexProgram(&gfx.ShaderDesc{
		Stage:  gfx.ShaderStageVertex,
		Source: []byte("vs"),
		Inputs: []gfx.ShaderInput{
			{Name: "position", Location: 0, Type: gfx.ShaderTypeVec3},
			{Name: "color", Location: 1, Type: gfx.ShaderTypeVec4},
		},
		Resources: []gfx.ShaderResource{{
			Name: "object", Set: 0, Binding: 0, Type: gfx.ShaderTypeUniformBuffer,
			Members: gfx.PackMembers([]gfx.ShaderMember{
				{Name: "view_proj", Type: gfx.ShaderTypeMat4},
				{Name: "world", Type: gfx.ShaderTypeMat4},
				{Name: "offset", Type: gfx.ShaderTypeVec4},
			}),
		}},
	})
	if err != nil {
		t.Fatalf("NewVertexProgram: %v", err)
	}
	fs, err := g.NewFragmentProgram(&gfx.ShaderDesc{
		Stage:  gfx.ShaderStageFragment,
		Source: []byte("fs"),
		Resources: []gfx.ShaderResource{{
			Name: "material", Set: 0, Binding: 1, Type: gfx.ShaderTypeUniformBuffer,
			Members: gfx.PackMembers([]gfx.ShaderMember{{Name: "tint", Type: gfx.ShaderTypeVec4}}),
		}},
	})
	if err != nil {
		t.Fatalf("NewFragmentProgram: %v", err)
	}
	prog, err := g.NewProgram(vs, fs)
	if err != nil {
		t.Fatalf("NewProgram: %v", err)
	}

	decl, err := g.NewVertexDeclaration(gfx.NewVertexStreamDeclaration().
		AddStream("position", 3, gfx.TypeFloat, false).
		AddStream("color", 4, gfx.TypeUnsignedByte, true))
	if err != nil {
		t.Fatalf("NewVertexDeclaration: %v", err)
	}
	vb, err := g.NewVertexBuffer(make([]byte, 3*int(decl.Stride)), gfx.BufferUsageStaticDraw)
	if err != nil {
		t.Fatalf("NewVertexBuffer: %v", err)
	}

	if err := g.BeginFrame(); err != nil {
		t.Fatalf("BeginFrame: %v", err)
	}
	return &testScene{g: g, rc: NewContext(g, opts...), program: prog, decl: decl, vb: vb}
}

func (s *testScene) material(tags ...string) *Material {
	m := NewMaterial(s.program, tags...)
	m.AddConstant(Constant{Name: "view_proj", Kind: ConstantViewProj, Stage: gfx.ShaderStageVertex})
	m.AddConstant(Constant{Name: "world", Kind: ConstantWorld, Stage: gfx.ShaderStageVertex})
	m.AddConstant(Constant{
		Name: "tint", Kind: ConstantUser, Stage: gfx.ShaderStageFragment,
		Register: 2, Value: Vec4{1, 0, 0, 1},
	})
	return m
}

func (s *testScene) object(m *Material, first uint32) *Object {
	return &Object{
		Material:     m,
		VertexBuffer: s.vb,
		VertexDecl:   s.decl,
		Primitive:    gfx.PrimitiveTriangles,
		VertexStart:  first,
		VertexCount:  3,
		World:        Identity(),
	}
}

func uniformBlock(t *testing.T, d null.DrawRecord, binding uint32) []byte {
	t.Helper()
	for _, u := range d.Uniforms {
		if u.Binding == binding {
			return u.Data
		}
	}
	t.Fatalf("no uniform upload for binding %d", binding)
	return nil
}

func readVec4(data []byte, offset int) Vec4 {
	var v Vec4
	for i := range v {
		v[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[offset+4*i:]))
	}
	return v
}

func TestParseAppliesStateInOrder(t *testing.T) {
	s := newTestScene(t)
	s.rc.AddObject(s.object(s.material(), 0))

	buf := NewCommandBuffer(8)
	buf.EnableState(gfx.StateBlend)
	buf.SetBlendFunc(gfx.BlendFactorSrcAlpha, gfx.BlendFactorOneMinusSrcAlpha)
	buf.Draw(nil)
	buf.SetBlendFunc(gfx.BlendFactorOne, gfx.BlendFactorOne)
	buf.Draw(nil)
	ParseCommands(s.rc, buf)

	draws := s.g.Log().Draws
	if len(draws) != 2 {
		t.Fatalf("draws = %d, want 2", len(draws))
	}
	if st := draws[0].State; !st.BlendEnabled || st.BlendSrcFactor != gfx.BlendFactorSrcAlpha ||
		st.BlendDstFactor != gfx.BlendFactorOneMinusSrcAlpha {
		t.Errorf("first draw blend = %v/%v", st.BlendSrcFactor, st.BlendDstFactor)
	}
	if st := draws[1].State; st.BlendSrcFactor != gfx.BlendFactorOne || st.BlendDstFactor != gfx.BlendFactorOne {
		t.Errorf("second draw blend = %v/%v", st.BlendSrcFactor, st.BlendDstFactor)
	}
	if draws[0].Pipeline == draws[1].Pipeline {
		t.Error("blend change reused the first pipeline")
	}
}

type bogusCommand struct{}

func (bogusCommand) Type() CommandType { return CommandType(200) }

func TestParseSkipsUnknownCommand(t *testing.T) {
	s := newTestScene(t)
	s.rc.AddObject(s.object(s.material(), 0))

	buf := NewCommandBuffer(4)
	buf.Append(bogusCommand{})
	buf.SetDepthMask(false)
	buf.Draw(nil)
	ParseCommands(s.rc, buf)

	draws := s.g.Log().Draws
	if len(draws) != 1 {
		t.Fatalf("draws = %d, want 1", len(draws))
	}
	if draws[0].State.WriteDepth {
		t.Error("depth mask after unknown command was not applied")
	}
}

func TestParseClear(t *testing.T) {
	s := newTestScene(t)
	buf := NewCommandBuffer(1)
	buf.Clear(gfx.BufferTypeColor0|gfx.BufferTypeDepth, 255, 0, 51, 255, 1, 7)
	ParseCommands(s.rc, buf)

	clears := s.g.Log().Clears
	if len(clears) != 1 {
		t.Fatalf("clears = %d, want 1", len(clears))
	}
	c := clears[0]
	if c.Color != [4]float32{1, 0, 0.2, 1} {
		t.Errorf("clear color = %v", c.Color)
	}
	if c.Depth != 1 || c.Stencil != 7 {
		t.Errorf("clear depth/stencil = %v/%v", c.Depth, c.Stencil)
	}
}

func TestParsePayloads(t *testing.T) {
	s := newTestScene(t)
	buf := NewCommandBuffer(4)
	buf.SetView(Translate(0, 0, -5))
	buf.SetProjection(Scale(2, 2, 1))
	buf.EnableVertexConstant(3, Vec4{1, 2, 3, 4})
	ParseCommands(s.rc, buf)

	if got := s.rc.View(); got != Translate(0, 0, -5) {
		t.Errorf("view = %v", got)
	}
	want := Scale(2, 2, 1)
	view := Translate(0, 0, -5)
	if got := s.rc.ViewProj(); got != want.Mul(&view) {
		t.Errorf("view proj = %v", got)
	}
	if v, ok := s.rc.VertexConstant(3); !ok || v != (Vec4{1, 2, 3, 4}) {
		t.Errorf("vertex constant 3 = %v, %v", v, ok)
	}

	// Parsing leaves the buffer intact, so it replays the same values.
	s.rc.DisableVertexConstant(3)
	s.rc.SetViewMatrix(Identity())
	ParseCommands(s.rc, buf)
	if v, ok := s.rc.VertexConstant(3); !ok || v != (Vec4{1, 2, 3, 4}) {
		t.Errorf("replayed vertex constant 3 = %v, %v", v, ok)
	}
	if got := s.rc.View(); got != Translate(0, 0, -5) {
		t.Errorf("replayed view = %v", got)
	}
	buf.Reset()
}

func TestCallerBuiltCommandSurvivesReset(t *testing.T) {
	s := newTestScene(t)
	cmd := SetViewCommand{Matrix: Translate(1, 2, 3)}

	buf := NewCommandBuffer(2)
	buf.Append(cmd)
	ParseCommands(s.rc, buf)
	buf.Reset()
	buf.SetView(Translate(7, 7, 7))
	buf.EnableVertexConstantBlock(0, Scale(9, 9, 9))
	buf.Reset()

	if cmd.Matrix != Translate(1, 2, 3) {
		t.Errorf("caller command changed to %v", cmd.Matrix)
	}
	buf.Append(cmd)
	ParseCommands(s.rc, buf)
	if got := s.rc.View(); got != Translate(1, 2, 3) {
		t.Errorf("view = %v", got)
	}
}

func TestReappendedCommandKeepsOwnValue(t *testing.T) {
	s := newTestScene(t)
	buf := NewCommandBuffer(2)
	buf.SetView(Translate(0, 0, -5))
	view := buf.Commands()[0]
	ParseCommands(s.rc, buf)
	buf.Reset()

	buf.Append(view)
	buf.SetProjection(Scale(2, 2, 1))
	ParseCommands(s.rc, buf)

	if got := s.rc.View(); got != Translate(0, 0, -5) {
		t.Errorf("view = %v", got)
	}
	if got := s.rc.Projection(); got != Scale(2, 2, 1) {
		t.Errorf("projection = %v", got)
	}
}

func TestConstantBlock(t *testing.T) {
	s := newTestScene(t)
	m := Translate(4, 5, 6)

	buf := NewCommandBuffer(2)
	buf.EnableFragmentConstantBlock(4, m)
	ParseCommands(s.rc, buf)
	for j := range uint32(4) {
		v, ok := s.rc.FragmentConstant(4 + j)
		if !ok || v != m.Col(int(j)) {
			t.Errorf("register %d = %v, %v; want %v", 4+j, v, ok, m.Col(int(j)))
		}
	}
	if v, _ := s.rc.FragmentConstant(7); v != (Vec4{4, 5, 6, 1}) {
		t.Errorf("translation column = %v", v)
	}

	buf.Reset()
	buf.DisableFragmentConstantBlock(4)
	ParseCommands(s.rc, buf)
	for j := range uint32(4) {
		if _, ok := s.rc.FragmentConstant(4 + j); ok {
			t.Errorf("register %d still enabled", 4+j)
		}
	}
}

func TestRegisterOverridesMaterialConstant(t *testing.T) {
	s := newTestScene(t)
	s.rc.AddObject(s.object(s.material(), 0))

	buf := NewCommandBuffer(4)
	buf.Draw(nil)
	buf.EnableFragmentConstant(2, Vec4{0, 1, 0, 1})
	buf.Draw(nil)
	buf.DisableFragmentConstant(2)
	buf.Draw(nil)
	ParseCommands(s.rc, buf)

	draws := s.g.Log().Draws
	if len(draws) != 3 {
		t.Fatalf("draws = %d, want 3", len(draws))
	}
	want := []Vec4{{1, 0, 0, 1}, {0, 1, 0, 1}, {1, 0, 0, 1}}
	for i, d := range draws {
		if got := readVec4(uniformBlock(t, d, 1), 0); got != want[i] {
			t.Errorf("draw %d tint = %v, want %v", i, got, want[i])
		}
	}
}

func TestWorldConstant(t *testing.T) {
	s := newTestScene(t)
	o := s.object(s.material(), 0)
	o.World = Translate(1, 2, 3)
	s.rc.AddObject(o)
	s.rc.Draw(nil)

	draws := s.g.Log().Draws
	if len(draws) != 1 {
		t.Fatalf("draws = %d, want 1", len(draws))
	}
	// world follows view_proj in the vertex block.
	if got := readVec4(uniformBlock(t, draws[0], 0), 64+48); got != (Vec4{1, 2, 3, 1}) {
		t.Errorf("world translation = %v", got)
	}
}

func TestTranslucentBackToFront(t *testing.T) {
	s := newTestScene(t)
	m := s.material()
	for i, z := range []float32{-1, -5, -3} {
		o := s.object(m, uint32(i)*10)
		o.World = Translate(0, 0, z)
		o.Translucent = true
		s.rc.AddObject(o)
	}
	s.rc.AddObject(s.object(m, 100))

	buf := NewCommandBuffer(1)
	buf.Draw(nil)
	ParseCommands(s.rc, buf)

	draws := s.g.Log().Draws
	want := []uint32{100, 10, 20, 0}
	if len(draws) != len(want) {
		t.Fatalf("draws = %d, want %d", len(draws), len(want))
	}
	for i, d := range draws {
		if d.First != want[i] {
			t.Errorf("draw %d first = %d, want %d", i, d.First, want[i])
		}
	}
}

func TestPredicateSelectsObjects(t *testing.T) {
	s := newTestScene(t)
	s.rc.AddObject(s.object(s.material("world"), 0))
	s.rc.AddObject(s.object(s.material("hud"), 3))
	s.rc.AddObject(s.object(s.material("hud", "text"), 6))
	s.rc.AddObject(&Object{VertexBuffer: s.vb})

	tests := []struct {
		name string
		p    *Predicate
		want int
	}{
		{"nil", nil, 3},
		{"hud", NewPredicate("hud"), 2},
		{"hud text", NewPredicate("hud", "text"), 1},
		{"none", NewPredicate("shadow"), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.rc.Draw(tt.p); got != tt.want {
				t.Errorf("Draw = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestMaterialOverride(t *testing.T) {
	s := newTestScene(t)
	s.rc.AddObject(s.object(s.material(), 0))
	override := s.material()
	override.SetConstant("tint", Vec4{0, 0, 1, 1})

	buf := NewCommandBuffer(3)
	buf.EnableMaterial(override)
	buf.Draw(nil)
	buf.DisableMaterial()
	buf.Draw(nil)
	ParseCommands(s.rc, buf)

	draws := s.g.Log().Draws
	if len(draws) != 2 {
		t.Fatalf("draws = %d, want 2", len(draws))
	}
	if got := readVec4(uniformBlock(t, draws[0], 1), 0); got != (Vec4{0, 0, 1, 1}) {
		t.Errorf("override tint = %v", got)
	}
	if got := readVec4(uniformBlock(t, draws[1], 1), 0); got != (Vec4{1, 0, 0, 1}) {
		t.Errorf("object tint = %v", got)
	}
	if s.rc.Material() != nil {
		t.Error("material override still set")
	}
}

func TestTextureOverride(t *testing.T) {
	s := newTestScene(t)
	own, err := s.g.NewTexture(gfx.TextureCreationParams{Type: gfx.TextureType2D, Width: 4, Height: 4})
	if err != nil {
		t.Fatal(err)
	}
	other, err := s.g.NewTexture(gfx.TextureCreationParams{Type: gfx.TextureType2D, Width: 4, Height: 4})
	if err != nil {
		t.Fatal(err)
	}
	o := s.object(s.material(), 0)
	o.Textures[0] = own
	s.rc.AddObject(o)

	buf := NewCommandBuffer(4)
	buf.Draw(nil)
	buf.EnableTexture(0, other)
	buf.Draw(nil)
	buf.DisableTexture(0)
	buf.Draw(nil)
	ParseCommands(s.rc, buf)

	draws := s.g.Log().Draws
	if len(draws) != 3 {
		t.Fatalf("draws = %d, want 3", len(draws))
	}
	for i, want := range []gfx.Handle{own, other, own} {
		if got := draws[i].Textures[0]; got != want {
			t.Errorf("draw %d texture = %v, want %v", i, got, want)
		}
	}
	if s.rc.Texture(0) != handle.Invalid {
		t.Error("texture override still set")
	}
}

func TestIndexedObject(t *testing.T) {
	s := newTestScene(t)
	ib, err := s.g.NewIndexBuffer(make([]byte, 12), gfx.BufferUsageStaticDraw)
	if err != nil {
		t.Fatal(err)
	}
	o := s.object(s.material(), 4)
	o.IndexBuffer = ib
	o.IndexType = gfx.TypeUnsignedShort
	o.VertexCount = 6
	s.rc.AddObject(o)
	s.rc.Draw(nil)

	draws := s.g.Log().Draws
	if len(draws) != 1 || !draws[0].Indexed {
		t.Fatalf("draws = %+v, want one indexed draw", draws)
	}
	if draws[0].FirstIndex != 2 || draws[0].Count != 6 {
		t.Errorf("first index %d count %d", draws[0].FirstIndex, draws[0].Count)
	}
}

func TestDebugLines(t *testing.T) {
	s := newTestScene(t)
	m2d := s.material()
	s.rc = NewContext(s.g, WithDebugMaterials(nil, m2d))
	t.Cleanup(s.rc.Release)

	s.rc.Line2D(0, 0, 10, 10, PackColor(255, 255, 255, 255))
	s.rc.Line2D(10, 0, 0, 10, PackColor(255, 0, 0, 255))
	s.rc.Line3D(Vec4{}, Vec4{1, 1, 1, 1}, 0)
	if n3, n2 := s.rc.DebugVertexCount(); n3 != 2 || n2 != 4 {
		t.Fatalf("debug vertices = %d/%d, want 2/4", n3, n2)
	}

	buf := NewCommandBuffer(2)
	buf.DrawDebug3D()
	buf.DrawDebug2D()
	ParseCommands(s.rc, buf)

	draws := s.g.Log().Draws
	if len(draws) != 1 {
		t.Fatalf("draws = %d, want 1 (3D list has no material)", len(draws))
	}
	if draws[0].Primitive != gfx.PrimitiveLines || draws[0].Count != 4 {
		t.Errorf("debug draw = %v x%d", draws[0].Primitive, draws[0].Count)
	}
	// Pixel (320, 0) lands on the right edge of clip space.
	proj := readVec4(uniformBlock(t, draws[0], 0), 0)
	if proj[0] != 2.0/320 {
		t.Errorf("ortho x scale = %v", proj[0])
	}
	if n3, n2 := s.rc.DebugVertexCount(); n3 != 0 || n2 != 0 {
		t.Errorf("debug lists not emptied: %d/%d", n3, n2)
	}
}
