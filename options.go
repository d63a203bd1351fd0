// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gfx

import "github.com/gogpu/gpucontext"

// DefaultFramesInFlight is the frames-in-flight count of a default context.
const DefaultFramesInFlight = 2

// ContextParams holds the configuration a context is created with.
// Build it with NewContextParams and functional options.
type ContextParams struct {
	// Window supplies the backbuffer size. It is optional when Width and
	// Height are set.
	Window gpucontext.WindowProvider

	Width  uint32
	Height uint32

	// FramesInFlight is the number of frame resource slots.
	FramesInFlight int

	DefaultTextureMinFilter TextureFilter
	DefaultTextureMagFilter TextureFilter

	// VerifyGraphicsCalls turns native-call failures into logged panics.
	VerifyGraphicsCalls bool

	// PrintDeviceInfo logs the selected device at info level.
	PrintDeviceInfo bool

	// UseValidationLayers enables API validation where the backend has it.
	UseValidationLayers bool

	// SwapInterval is 0 for immediate presentation and 1 for vsync.
	SwapInterval int

	// Display and WindowHandle are the native surface handles. When both
	// are zero the backbuffer is an offscreen texture.
	Display      uintptr
	WindowHandle uintptr

	// Family restricts adapter selection to one family.
	// AdapterFamilyNone accepts every adapter.
	Family AdapterFamily
}

// ContextOption configures ContextParams.
//
// Example:
//
//	params := gfx.NewContextParams(
//	    gfx.WithSize(1280, 720),
//	    gfx.WithFramesInFlight(3),
//	    gfx.WithVerifyGraphicsCalls(true),
//	)
//	ctx, err := gfx.NewContext(&params)
type ContextOption func(*ContextParams)

// NewContextParams returns default parameters with opts applied.
func NewContextParams(opts ...ContextOption) ContextParams {
	p := ContextParams{
		Width:                   960,
		Height:                  640,
		FramesInFlight:          DefaultFramesInFlight,
		DefaultTextureMinFilter: TextureFilterLinearMipmapNearest,
		DefaultTextureMagFilter: TextureFilterLinear,
		SwapInterval:            1,
	}
	for _, opt := range opts {
		opt(&p)
	}
	if p.Window != nil {
		if w, h := p.Window.Size(); w > 0 && h > 0 {
			p.Width, p.Height = uint32(w), uint32(h) //nolint:gosec // G115: checked positive
		}
	}
	if p.FramesInFlight < 1 {
		p.FramesInFlight = 1
	}
	return p
}

// WithWindow takes the backbuffer size from w.
func WithWindow(w gpucontext.WindowProvider) ContextOption {
	return func(p *ContextParams) { p.Window = w }
}

// WithSize sets the backbuffer size.
func WithSize(width, height uint32) ContextOption {
	return func(p *ContextParams) {
		p.Width, p.Height = width, height
	}
}

// WithFramesInFlight sets the number of frame resource slots.
func WithFramesInFlight(n int) ContextOption {
	return func(p *ContextParams) { p.FramesInFlight = n }
}

// WithVerifyGraphicsCalls toggles verify mode.
func WithVerifyGraphicsCalls(enabled bool) ContextOption {
	return func(p *ContextParams) { p.VerifyGraphicsCalls = enabled }
}

// WithPrintDeviceInfo logs device details at initialization.
func WithPrintDeviceInfo(enabled bool) ContextOption {
	return func(p *ContextParams) { p.PrintDeviceInfo = enabled }
}

// WithValidationLayers enables backend API validation.
func WithValidationLayers(enabled bool) ContextOption {
	return func(p *ContextParams) { p.UseValidationLayers = enabled }
}

// WithDefaultTextureFilters sets the filters TextureFilterDefault resolves to.
func WithDefaultTextureFilters(minFilter, magFilter TextureFilter) ContextOption {
	return func(p *ContextParams) {
		p.DefaultTextureMinFilter = minFilter
		p.DefaultTextureMagFilter = magFilter
	}
}

// WithSwapInterval sets the presentation interval.
func WithSwapInterval(n int) ContextOption {
	return func(p *ContextParams) { p.SwapInterval = n }
}

// WithSurface presents into the native window described by the handles.
func WithSurface(display, window uintptr) ContextOption {
	return func(p *ContextParams) {
		p.Display, p.WindowHandle = display, window
	}
}

// WithAdapterFamily restricts selection to adapters of family f.
func WithAdapterFamily(f AdapterFamily) ContextOption {
	return func(p *ContextParams) { p.Family = f }
}

// Verifier returns the failure policy for these parameters.
func (p *ContextParams) Verifier() Verifier {
	return Verifier{Enabled: p.VerifyGraphicsCalls}
}
