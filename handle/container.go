// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package handle

import "sync"

type slot[T any] struct {
	obj        T
	typ        Type
	generation uint32
	live       bool
}

// Container is an arena of slots addressed by generational handles.
//
// Lookups with a stale, zero or wrongly tagged handle fail closed and return
// the zero value of T. Container is safe for concurrent use, although the
// graphics layer only touches it from the rendering goroutine.
type Container[T any] struct {
	mu    sync.RWMutex
	slots []slot[T]
	free  []uint32
	live  int
}

// NewContainer creates an empty container with room for capacity objects.
func NewContainer[T any](capacity int) *Container[T] {
	return &Container[T]{slots: make([]slot[T], 0, capacity)}
}

// Store places obj in a free slot and returns its handle.
func (c *Container[T]) Store(obj T, typ Type) Handle {
	c.mu.Lock()
	defer c.mu.Unlock()

	var idx uint32
	if n := len(c.free); n > 0 {
		idx = c.free[n-1]
		c.free = c.free[:n-1]
	} else {
		idx = uint32(len(c.slots)) //nolint:gosec // G115: slot count stays far below 2^32
		c.slots = append(c.slots, slot[T]{generation: 1})
	}

	s := &c.slots[idx]
	s.obj = obj
	s.typ = typ
	s.live = true
	c.live++
	return New(idx, typ, s.generation)
}

// Get returns the object for h. The boolean is false for stale or unknown
// handles.
func (c *Container[T]) Get(h Handle) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	s := c.lookup(h)
	if s == nil {
		var zero T
		return zero, false
	}
	return s.obj, true
}

// GetTyped is Get with an additional check that h carries the tag typ.
func (c *Container[T]) GetTyped(h Handle, typ Type) (T, bool) {
	if h.Type() != typ {
		var zero T
		return zero, false
	}
	return c.Get(h)
}

// Contains reports whether h refers to a live object.
func (c *Container[T]) Contains(h Handle) bool {
	_, ok := c.Get(h)
	return ok
}

// Delete releases the slot referenced by h and returns the stored object.
// Deleting a stale handle is a no-op.
func (c *Container[T]) Delete(h Handle) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero T
	s := c.lookup(h)
	if s == nil {
		return zero, false
	}

	obj := s.obj
	s.obj = zero
	s.live = false
	s.generation = (s.generation + 1) & generationMask
	if s.generation == 0 {
		s.generation = 1
	}
	c.free = append(c.free, h.Index())
	c.live--
	return obj, true
}

// Len returns the number of live objects.
func (c *Container[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.live
}

// Each calls fn for every live object in slot order.
// fn must not modify the container.
func (c *Container[T]) Each(fn func(Handle, T)) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for i := range c.slots {
		s := &c.slots[i]
		if s.live {
			fn(New(uint32(i), s.typ, s.generation), s.obj) //nolint:gosec // G115: bounded by slot count
		}
	}
}

func (c *Container[T]) lookup(h Handle) *slot[T] {
	if !h.IsValid() {
		return nil
	}
	idx := h.Index()
	if int(idx) >= len(c.slots) {
		return nil
	}
	s := &c.slots[idx]
	if !s.live || s.generation != h.Generation() || s.typ != h.Type() {
		return nil
	}
	return s
}
