// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package render records and replays render commands against a
// gfx.Context.
//
// A frame is recorded into a CommandBuffer as a flat list of typed
// commands: state changes, clears, viewport, view and projection matrices,
// material and texture overrides, constant registers and draws.
// ParseCommands replays the buffer in append order against a Context, so
// every state command takes effect before any later draw.
//
// # Core Types
//
//   - CommandBuffer: append-only list of Command values
//   - Context: replay state (overrides, matrices, registers, objects)
//   - Material: program, tags and constants of a drawable
//   - Object: geometry plus material, world matrix and textures
//   - Predicate: selects objects by material tags in a Draw command
//
// # Usage
//
//	rc := render.NewContext(ctx)
//	rc.AddObject(&render.Object{Material: mat, VertexBuffer: vb, ...})
//
//	buf := render.NewCommandBuffer(16)
//	buf.Clear(gfx.BufferTypeColor0|gfx.BufferTypeDepth, 0, 0, 0, 255, 1, 0)
//	buf.SetProjection(render.Perspective(math.Pi/3, aspect, 0.1, 100))
//	buf.Draw(render.NewPredicate("opaque"))
//
//	_ = ctx.BeginFrame()
//	render.ParseCommands(rc, buf)
//	buf.Reset()
//	_ = ctx.Flip()
//
// Commands carry their matrix and vector payloads by value. ParseCommands
// only reads the buffer, so a recorded buffer can be replayed again.
package render
