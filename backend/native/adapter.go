// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package native implements gfx.Context on top of gogpu/wgpu/hal.
//
// One adapter is registered per hal backend variant (Vulkan, Metal, DX12,
// GLES and the software rasterizer). Detection creates a throwaway instance
// and checks that it enumerates at least one physical adapter, so a variant
// whose driver is missing is skipped by gfx.NewContext.
//
// Only the variants whose hal packages are linked in can succeed. Import
// github.com/gogpu/wgpu/hal/allbackends (or a single backend package) next
// to this one:
//
//	import (
//	    _ "github.com/gogpu/gfx/backend/native"
//	    _ "github.com/gogpu/wgpu/hal/allbackends"
//	)
package native

import (
	"fmt"
	"slices"

	"github.com/gogpu/gfx"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// variant describes one registered hal backend.
type variant struct {
	name     string
	backend  gputypes.Backend
	family   gfx.AdapterFamily
	priority int
}

var variants = []variant{
	{name: "vulkan", backend: gputypes.BackendVulkan, family: gfx.AdapterFamilyVulkan, priority: 40},
	{name: "metal", backend: gputypes.BackendMetal, family: gfx.AdapterFamilyMetal, priority: 40},
	{name: "dx12", backend: gputypes.BackendDX12, family: gfx.AdapterFamilyDirectX, priority: 30},
	{name: "gles", backend: gputypes.BackendGL, family: gfx.AdapterFamilyOpenGL, priority: 20},
	{name: "software", backend: gputypes.BackendEmpty, family: gfx.AdapterFamilySoftware, priority: 0},
}

func init() {
	for _, v := range variants {
		gfx.RegisterAdapter(gfx.Adapter{
			Name:        v.name,
			Family:      v.family,
			Priority:    v.priority,
			IsSupported: func() bool { return detect(v.backend) },
			NewContext: func(p *gfx.ContextParams) (gfx.Context, error) {
				return New(p, WithBackend(v.backend))
			},
		})
	}
}

func familyOf(b gputypes.Backend) gfx.AdapterFamily {
	for _, v := range variants {
		if v.backend == b {
			return v.family
		}
	}
	return gfx.AdapterFamilyNone
}

// detect reports whether backend b is linked in and exposes an adapter.
func detect(b gputypes.Backend) bool {
	backend, ok := hal.GetBackend(b)
	if !ok {
		return false
	}
	inst, err := backend.CreateInstance(&hal.InstanceDescriptor{Backends: 1 << b})
	if err != nil {
		return false
	}
	defer inst.Destroy()
	return len(inst.EnumerateAdapters(nil)) > 0
}

// pickAdapter prefers discrete GPUs, then integrated, virtual and CPU
// devices, keeping enumeration order inside a class.
func pickAdapter(adapters []hal.ExposedAdapter) (hal.ExposedAdapter, error) {
	if len(adapters) == 0 {
		return hal.ExposedAdapter{}, ErrNoGPU
	}
	sorted := slices.Clone(adapters)
	slices.SortStableFunc(sorted, func(a, b hal.ExposedAdapter) int {
		return adapterType(a.Info.DeviceType) - adapterType(b.Info.DeviceType)
	})
	return sorted[0], nil
}

// Option configures a native Context.
type Option func(*Context)

// WithBackend selects the hal backend variant.
func WithBackend(b gputypes.Backend) Option {
	return func(c *Context) { c.backend = b }
}

// WithPoolSize overrides the scratch pool size of each frame slot.
func WithPoolSize(n int) Option {
	return func(c *Context) { c.poolSize = n }
}

// New creates an uninitialized context for the selected backend. It
// defaults to Vulkan.
func New(params *gfx.ContextParams, opts ...Option) (*Context, error) {
	if params == nil {
		p := gfx.NewContextParams()
		params = &p
	}
	c := &Context{
		params:  *params,
		verify:  params.Verifier(),
		width:   params.Width,
		height:  params.Height,
		backend: gputypes.BackendVulkan,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.width == 0 || c.height == 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, c.width, c.height)
	}
	c.family = familyOf(c.backend)
	return c, nil
}
