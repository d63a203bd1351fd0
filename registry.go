// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gfx

import (
	"errors"
	"fmt"
	"slices"
	"sync"
)

// Adapter is a registered backend.
type Adapter struct {
	// Name identifies the adapter, e.g. "vulkan" or "null".
	Name   string
	Family AdapterFamily
	// Priority orders selection; higher is tried first.
	Priority int
	// IsSupported checks for the driver or hardware.
	IsSupported func() bool
	// NewContext creates an uninitialized context.
	NewContext func(params *ContextParams) (Context, error)

	seq int
}

var (
	registryMu sync.Mutex
	adapters   []Adapter
	adapterSeq int

	live        Context
	liveAdapter string
)

// RegisterAdapter adds an adapter to the registry.
// This is typically called from init() functions in backend packages.
// It panics on a missing support check or factory and on a duplicate name.
func RegisterAdapter(a Adapter) {
	if a.IsSupported == nil || a.NewContext == nil {
		panic(fmt.Sprintf("gfx: adapter %q registered without support check or factory", a.Name))
	}
	registryMu.Lock()
	defer registryMu.Unlock()
	for _, r := range adapters {
		if r.Name == a.Name {
			panic(fmt.Sprintf("gfx: adapter %q registered twice", a.Name))
		}
	}
	a.seq = adapterSeq
	adapterSeq++
	adapters = append(adapters, a)
}

// UnregisterAdapter removes an adapter. It is mostly useful in tests.
func UnregisterAdapter(name string) {
	registryMu.Lock()
	defer registryMu.Unlock()
	adapters = slices.DeleteFunc(adapters, func(a Adapter) bool { return a.Name == name })
}

// Adapters returns the registered adapters in selection order: priority
// descending, registration order breaking ties.
func Adapters() []Adapter {
	registryMu.Lock()
	defer registryMu.Unlock()
	return sortedAdapters()
}

func sortedAdapters() []Adapter {
	out := slices.Clone(adapters)
	slices.SortStableFunc(out, func(a, b Adapter) int {
		if a.Priority != b.Priority {
			return b.Priority - a.Priority
		}
		return a.seq - b.seq
	})
	return out
}

// NewContext selects the highest-priority supported adapter and returns its
// initialized context.
//
// Candidates whose support check fails are skipped. A candidate whose context fails
// to initialize is finalized and the next one is tried. Only one context may
// be live at a time; call DeleteContext before creating another.
func NewContext(params *ContextParams) (Context, error) {
	registryMu.Lock()
	defer registryMu.Unlock()

	if live != nil {
		return nil, ErrContextExists
	}
	if params == nil {
		p := NewContextParams()
		params = &p
	}

	var errs []error
	for _, a := range sortedAdapters() {
		if params.Family != AdapterFamilyNone && a.Family != params.Family {
			continue
		}
		if !a.IsSupported() {
			Logger().Debug("gfx: adapter not supported", "adapter", a.Name)
			continue
		}
		ctx, err := a.NewContext(params)
		if err != nil {
			Logger().Warn("gfx: adapter context creation failed", "adapter", a.Name, "err", err)
			errs = append(errs, fmt.Errorf("%s: %w", a.Name, err))
			continue
		}
		if err := ctx.Initialize(); err != nil {
			ctx.Finalize()
			Logger().Warn("gfx: adapter initialization failed, trying next", "adapter", a.Name, "err", err)
			errs = append(errs, fmt.Errorf("%s: %w", a.Name, err))
			continue
		}

		live = ctx
		liveAdapter = a.Name
		Logger().Info("gfx: adapter selected", "adapter", a.Name, "family", a.Family.String(),
			"width", ctx.Width(), "height", ctx.Height())
		return ctx, nil
	}
	return nil, errors.Join(append([]error{ErrNoSupportedAdapter}, errs...)...)
}

// DeleteContext finalizes ctx and releases the process-wide context slot.
func DeleteContext(ctx Context) {
	if ctx == nil {
		return
	}
	ctx.Finalize()

	registryMu.Lock()
	defer registryMu.Unlock()
	if live == ctx {
		live = nil
		liveAdapter = ""
	}
}

// SelectedAdapter returns the name of the adapter behind the live context,
// or "" when there is none.
func SelectedAdapter() string {
	registryMu.Lock()
	defer registryMu.Unlock()
	return liveAdapter
}
