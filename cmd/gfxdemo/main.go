// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Command gfxdemo records and replays a few frames of a spinning triangle
// on any registered adapter, then prints what the context did.
package main

import (
	"encoding/binary"
	"flag"
	"log"
	"log/slog"
	"math"
	"os"

	"github.com/gogpu/gfx"
	_ "github.com/gogpu/gfx/backend/native"
	"github.com/gogpu/gfx/backend/null"
	"github.com/gogpu/gfx/render"
	"github.com/gogpu/gfx/wgsl"
	_ "github.com/gogpu/wgpu/hal/allbackends"
)

const shaderSource = `
struct Object {
    view_proj: mat4x4<f32>,
    world: mat4x4<f32>,
    tint: vec4<f32>,
}

@group(0) @binding(0) var<uniform> object: Object;

struct VertexInput {
    @location(0) position: vec3<f32>,
    @location(1) color: vec4<f32>,
}

struct VertexOutput {
    @builtin(position) clip: vec4<f32>,
    @location(0) color: vec4<f32>,
}

@vertex
fn vs_main(in: VertexInput) -> VertexOutput {
    var out: VertexOutput;
    out.clip = object.view_proj * object.world * vec4<f32>(in.position, 1.0);
    out.color = in.color * object.tint;
    return out;
}

@fragment
fn fs_main(in: VertexOutput) -> @location(0) vec4<f32> {
    return in.color;
}
`

func main() {
	var (
		adapter = flag.String("adapter", "", "adapter family (null, vulkan, metal, dx12, opengl, software); empty picks the best")
		frames  = flag.Int("frames", 3, "number of frames to render")
		width   = flag.Uint("width", 640, "backbuffer width")
		height  = flag.Uint("height", 480, "backbuffer height")
		verify  = flag.Bool("verify", true, "panic on the first failed graphics call")
		verbose = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	if *verbose {
		gfx.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	opts := []gfx.ContextOption{
		gfx.WithSize(uint32(*width), uint32(*height)), //nolint:gosec // G115: flag values
		gfx.WithVerifyGraphicsCalls(*verify),
	}
	if *adapter != "" {
		f, ok := gfx.ParseAdapterFamily(*adapter)
		if !ok {
			log.Fatalf("unknown adapter family %q", *adapter)
		}
		opts = append(opts, gfx.WithAdapterFamily(f))
	}
	params := gfx.NewContextParams(opts...)

	ctx, err := gfx.NewContext(&params)
	if err != nil {
		log.Fatalf("Failed to create context: %v", err)
	}
	defer gfx.DeleteContext(ctx)
	log.Printf("adapter %s (%s), %dx%d", gfx.SelectedAdapter(), ctx.AdapterFamily(), ctx.Width(), ctx.Height())

	scene, err := newScene(ctx)
	if err != nil {
		log.Fatalf("Failed to build scene: %v", err)
	}
	defer scene.rc.Release()

	buf := render.NewCommandBuffer(16)
	for i := range *frames {
		if err := ctx.BeginFrame(); err != nil {
			log.Fatalf("BeginFrame: %v", err)
		}
		scene.record(buf, float32(i)*math.Pi/8)
		render.ParseCommands(scene.rc, buf)
		buf.Reset()
		if err := ctx.Flip(); err != nil {
			log.Fatalf("Flip: %v", err)
		}
	}

	if nc, ok := ctx.(*null.Context); ok {
		l := nc.Log()
		log.Printf("%d frames, %d clears, %d draws, pipeline cache %+v",
			len(l.Frames), len(l.Clears), len(l.Draws), nc.CacheStats())
	}
	log.Printf("rendered %d frames", *frames)
}

type scene struct {
	ctx      gfx.Context
	rc       *render.Context
	triangle *render.Object
}

func newScene(ctx gfx.Context) (*scene, error) {
	vsDesc, err := wgsl.ShaderDesc(shaderSource, gfx.ShaderStageVertex)
	if err != nil {
		return nil, err
	}
	fsDesc, err := wgsl.ShaderDesc(shaderSource, gfx.ShaderStageFragment)
	if err != nil {
		return nil, err
	}
	vs, err := ctx.NewVertexProgram(vsDesc)
	if err != nil {
		return nil, err
	}
	fs, err := ctx.NewFragmentProgram(fsDesc)
	if err != nil {
		return nil, err
	}
	prog, err := ctx.NewProgram(vs, fs)
	if err != nil {
		return nil, err
	}

	decl, err := ctx.NewVertexDeclaration(gfx.NewVertexStreamDeclaration().
		AddStream("position", 3, gfx.TypeFloat, false).
		AddStream("color", 4, gfx.TypeUnsignedByte, true))
	if err != nil {
		return nil, err
	}
	vb, err := ctx.NewVertexBuffer(triangleVertices(), gfx.BufferUsageStaticDraw)
	if err != nil {
		return nil, err
	}

	mat := render.NewMaterial(prog, "scene")
	mat.AddConstant(render.Constant{Name: "view_proj", Kind: render.ConstantViewProj})
	mat.AddConstant(render.Constant{Name: "world", Kind: render.ConstantWorld})
	mat.AddConstant(render.Constant{
		Name: "tint", Kind: render.ConstantUser, Stage: gfx.ShaderStageFragment, Value: render.Vec4{1, 1, 1, 1},
	})

	lines := render.NewMaterial(prog)
	lines.AddConstant(render.Constant{Name: "view_proj", Kind: render.ConstantViewProj})
	lines.AddConstant(render.Constant{Name: "world", Kind: render.ConstantWorld})
	lines.AddConstant(render.Constant{Name: "tint", Value: render.Vec4{1, 1, 1, 1}})

	s := &scene{
		ctx: ctx,
		rc:  render.NewContext(ctx, render.WithDebugMaterials(lines, lines)),
		triangle: &render.Object{
			Material:     mat,
			VertexBuffer: vb,
			VertexDecl:   decl,
			Primitive:    gfx.PrimitiveTriangles,
			VertexCount:  3,
		},
	}
	s.rc.AddObject(s.triangle)
	return s, nil
}

func (s *scene) record(buf *render.CommandBuffer, angle float32) {
	w, h := s.ctx.Width(), s.ctx.Height()
	sin, cos := float32(math.Sin(float64(angle))), float32(math.Cos(float64(angle)))
	s.triangle.World = render.Translate(0, 0, -3)
	rot := render.Mat4{
		cos, 0, -sin, 0,
		0, 1, 0, 0,
		sin, 0, cos, 0,
		0, 0, 0, 1,
	}
	s.triangle.World = s.triangle.World.Mul(&rot)

	buf.SetViewport(0, 0, int32(w), int32(h)) //nolint:gosec // G115: window size
	buf.Clear(gfx.BufferTypeColor0|gfx.BufferTypeDepth, 16, 16, 32, 255, 1, 0)
	buf.EnableState(gfx.StateDepthTest)
	buf.SetView(render.Identity())
	buf.SetProjection(render.Perspective(math.Pi/3, float32(w)/float32(h), 0.1, 100))
	buf.Draw(render.NewPredicate("scene"))
	buf.DisableState(gfx.StateDepthTest)

	s.rc.Line2D(8, 8, float32(w)-8, 8, render.PackColor(255, 255, 0, 255))
	s.rc.Line2D(8, 8, 8, float32(h)-8, render.PackColor(255, 255, 0, 255))
	buf.DrawDebug2D()
}

func triangleVertices() []byte {
	verts := []struct {
		x, y, z float32
		color   uint32
	}{
		{0, 1, 0, render.PackColor(255, 0, 0, 255)},
		{-1, -1, 0, render.PackColor(0, 255, 0, 255)},
		{1, -1, 0, render.PackColor(0, 0, 255, 255)},
	}
	var data []byte
	for _, v := range verts {
		data = binary.LittleEndian.AppendUint32(data, math.Float32bits(v.x))
		data = binary.LittleEndian.AppendUint32(data, math.Float32bits(v.y))
		data = binary.LittleEndian.AppendUint32(data, math.Float32bits(v.z))
		data = binary.LittleEndian.AppendUint32(data, v.color)
	}
	return data
}
