// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package wgsl

import (
	"encoding/binary"
	"errors"
	"testing"

	"github.com/gogpu/gfx"
	"github.com/gogpu/gfx/backend/null"
)

const spriteShader = `
struct Uniforms {
    view_proj: mat4x4<f32>,
    tint: vec4<f32>,
}

@group(0) @binding(0) var<uniform> uniforms: Uniforms;
@group(1) @binding(0) var sprite: texture_2d<f32>;
@group(1) @binding(1) var sprite_sampler: sampler;

struct VertexInput {
    @location(0) position: vec3<f32>,
    @location(1) uv: vec2<f32>,
}

struct VertexOutput {
    @builtin(position) position: vec4<f32>,
    @location(0) uv: vec2<f32>,
}

@vertex
fn vs_main(in: VertexInput) -> VertexOutput {
    var out: VertexOutput;
    out.position = uniforms.view_proj * vec4<f32>(in.position, 1.0);
    out.uv = in.uv;
    return out;
}

@fragment
fn fs_main(in: VertexOutput) -> @location(0) vec4<f32> {
    return textureSample(sprite, sprite_sampler, in.uv) * uniforms.tint;
}
`

func TestReflectResources(t *testing.T) {
	r, err := Reflect(spriteShader)
	if err != nil {
		t.Fatalf("Reflect: %v", err)
	}
	if len(r.Resources) != 3 {
		t.Fatalf("resources = %d, want 3", len(r.Resources))
	}

	u := r.Resources[0]
	if u.Type != gfx.ShaderTypeUniformBuffer || u.Set != 0 || u.Binding != 0 {
		t.Errorf("uniforms = %+v", u)
	}
	if u.DataSize != 80 {
		t.Errorf("uniform block size = %d, want 80", u.DataSize)
	}
	want := []gfx.ShaderMember{
		{Name: "view_proj", Type: gfx.ShaderTypeMat4, ElementCount: 1, Offset: 0},
		{Name: "tint", Type: gfx.ShaderTypeVec4, ElementCount: 1, Offset: 64},
	}
	if len(u.Members) != len(want) {
		t.Fatalf("members = %+v", u.Members)
	}
	for i, m := range want {
		if u.Members[i] != m {
			t.Errorf("member %d = %+v, want %+v", i, u.Members[i], m)
		}
	}

	if s := r.Resources[1]; s.Type != gfx.ShaderTypeTexture2D || s.Set != 1 || s.Binding != 0 {
		t.Errorf("texture = %+v", s)
	}
	if s := r.Resources[2]; s.Type != gfx.ShaderTypeSampler || s.Set != 1 || s.Binding != 1 {
		t.Errorf("sampler = %+v", s)
	}
}

func TestReflectVertexInputs(t *testing.T) {
	r, err := Reflect(spriteShader)
	if err != nil {
		t.Fatal(err)
	}
	want := []gfx.ShaderInput{
		{Name: "position", Location: 0, Type: gfx.ShaderTypeVec3},
		{Name: "uv", Location: 1, Type: gfx.ShaderTypeVec2},
	}
	if len(r.Inputs) != len(want) {
		t.Fatalf("inputs = %+v", r.Inputs)
	}
	for i, in := range want {
		if r.Inputs[i] != in {
			t.Errorf("input %d = %+v, want %+v", i, r.Inputs[i], in)
		}
	}
	if name, ok := r.EntryPoint(gfx.ShaderStageFragment); !ok || name != "fs_main" {
		t.Errorf("fragment entry = %q, %v", name, ok)
	}
}

func TestReflectArgumentInputs(t *testing.T) {
	r, err := Reflect(`
@vertex
fn main(@location(2) pos: vec2<f32>, @builtin(vertex_index) idx: u32) -> @builtin(position) vec4<f32> {
    return vec4<f32>(pos, 0.0, 1.0);
}
`)
	if err != nil {
		t.Fatal(err)
	}
	if len(r.Inputs) != 1 || r.Inputs[0].Location != 2 || r.Inputs[0].Type != gfx.ShaderTypeVec2 {
		t.Errorf("inputs = %+v, want pos@2", r.Inputs)
	}
	if len(r.Resources) != 0 {
		t.Errorf("resources = %+v, want none", r.Resources)
	}
}

func TestReflectInvalidSource(t *testing.T) {
	if _, err := Reflect("fn broken( {"); err == nil {
		t.Error("invalid source reflected")
	}
}

func TestShaderDescMissingStage(t *testing.T) {
	_, err := ShaderDesc(`
@fragment
fn main() -> @location(0) vec4<f32> { return vec4<f32>(1.0); }
`, gfx.ShaderStageVertex)
	if !errors.Is(err, ErrNoEntryPoint) {
		t.Errorf("err = %v, want ErrNoEntryPoint", err)
	}
}

func TestCompileSPIRV(t *testing.T) {
	code, err := CompileSPIRV(spriteShader)
	if err != nil {
		t.Fatalf("CompileSPIRV: %v", err)
	}
	if len(code) < 20 || len(code)%4 != 0 {
		t.Fatalf("binary size = %d", len(code))
	}
	if magic := binary.LittleEndian.Uint32(code); magic != 0x07230203 {
		t.Errorf("magic = %#x", magic)
	}

	d, err := SPIRVShaderDesc(spriteShader, gfx.ShaderStageFragment)
	if err != nil {
		t.Fatal(err)
	}
	if d.Language != gfx.ShaderLanguageSPIRV || d.EntryPoint != "fs_main" {
		t.Errorf("desc = %v %q", d.Language, d.EntryPoint)
	}
}

func TestProgramFromReflection(t *testing.T) {
	p := gfx.NewContextParams(gfx.WithSize(32, 32))
	c := null.New(&p)
	if err := c.Initialize(); err != nil {
		t.Fatal(err)
	}
	defer c.Finalize()

	vsd, err := ShaderDesc(spriteShader, gfx.ShaderStageVertex)
	if err != nil {
		t.Fatal(err)
	}
	fsd, err := ShaderDesc(spriteShader, gfx.ShaderStageFragment)
	if err != nil {
		t.Fatal(err)
	}
	if fsd.Inputs != nil {
		t.Error("fragment stage carries vertex inputs")
	}
	vs, err := c.NewVertexProgram(vsd)
	if err != nil {
		t.Fatal(err)
	}
	fs, err := c.NewFragmentProgram(fsd)
	if err != nil {
		t.Fatal(err)
	}
	prog, err := c.NewProgram(vs, fs)
	if err != nil {
		t.Fatalf("NewProgram: %v", err)
	}
	if c.GetUniformLocation(prog, "tint") == gfx.InvalidUniformLocation {
		t.Error("tint not resolvable")
	}
	if c.GetAttributeCount(prog) != 2 {
		t.Errorf("attributes = %d, want 2", c.GetAttributeCount(prog))
	}
}
