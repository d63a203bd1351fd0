// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package gfx is the backend-neutral graphics layer of a real-time engine.
//
// Producer code records drawing operations and state changes into a command
// buffer (see package render). The buffer is replayed in order against a
// Context, the uniform operation set implemented by every backend adapter.
//
// # Adapters
//
// Backends register an Adapter with a priority and a support check from
// their init functions. NewContext sorts candidates by priority, checks them
// in order and initializes the first one that works, falling back to the
// next on failure:
//
//	import (
//	    "github.com/gogpu/gfx"
//	    _ "github.com/gogpu/gfx/backend/native"
//	    _ "github.com/gogpu/gfx/backend/null"
//	)
//
//	params := gfx.NewContextParams(gfx.WithSize(1280, 720))
//	ctx, err := gfx.NewContext(&params)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer gfx.DeleteContext(ctx)
//
// Only one context is live per process.
//
// # Frames
//
// Each context owns one frame resource slot per frame in flight. BeginFrame
// checks out the next slot and blocks until the GPU has retired the work the
// slot carried last time; that is the only blocking point of a frame. Flip
// submits the frame and records the fence value the slot waits for next.
//
// # Lazy state
//
// State setters only update pending state. Draw and DrawElements commit the
// program's uniform data into per-frame scratch memory, look up or create
// the pipeline for the current PipelineKey, bind everything and draw.
//
// # Failures
//
// Initialization failures are returned as errors. Native call failures at
// draw time follow the Verifier policy: with ContextParams.VerifyGraphicsCalls
// they are logged and panic, otherwise they are dropped.
package gfx
