// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package handle

import "testing"

func TestHandlePacking(t *testing.T) {
	h := New(0xDEADBEEF, TypeProgram, 0x123456)
	if h.Index() != 0xDEADBEEF {
		t.Errorf("Index() = %#x, want 0xDEADBEEF", h.Index())
	}
	if h.Type() != TypeProgram {
		t.Errorf("Type() = %v, want Program", h.Type())
	}
	if h.Generation() != 0x123456 {
		t.Errorf("Generation() = %#x, want 0x123456", h.Generation())
	}
	if !h.IsValid() {
		t.Error("packed handle should be valid")
	}
	if Invalid.IsValid() {
		t.Error("zero handle should be invalid")
	}
}

func TestContainerStoreGet(t *testing.T) {
	c := NewContainer[string](4)
	a := c.Store("a", TypeTexture)
	b := c.Store("b", TypeRenderTarget)

	if got, ok := c.Get(a); !ok || got != "a" {
		t.Errorf("Get(a) = %q, %v", got, ok)
	}
	if got, ok := c.GetTyped(b, TypeRenderTarget); !ok || got != "b" {
		t.Errorf("GetTyped(b) = %q, %v", got, ok)
	}
	if _, ok := c.GetTyped(b, TypeTexture); ok {
		t.Error("GetTyped with wrong tag should fail")
	}
	if c.Len() != 2 {
		t.Errorf("Len() = %d, want 2", c.Len())
	}
}

func TestContainerStaleHandle(t *testing.T) {
	c := NewContainer[int](0)
	h := c.Store(7, TypeTexture)
	copyOfH := h

	if _, ok := c.Delete(h); !ok {
		t.Fatal("Delete of live handle failed")
	}

	// Slot is reused by the next store with a new generation.
	h2 := c.Store(9, TypeTexture)
	if h2.Index() != h.Index() {
		t.Fatalf("expected slot reuse, got index %d vs %d", h2.Index(), h.Index())
	}
	if h2.Generation() == h.Generation() {
		t.Fatal("generation was not bumped")
	}

	for _, stale := range []Handle{h, copyOfH} {
		if v, ok := c.Get(stale); ok {
			t.Errorf("stale handle resolved to %d", v)
		}
	}
	if v, ok := c.Get(h2); !ok || v != 9 {
		t.Errorf("Get(h2) = %d, %v", v, ok)
	}
	if _, ok := c.Delete(h); ok {
		t.Error("Delete of stale handle should be a no-op")
	}
}

func TestContainerFailsClosed(t *testing.T) {
	c := NewContainer[*int](0)
	tests := []struct {
		name string
		h    Handle
	}{
		{"zero", Invalid},
		{"out of range", New(100, TypeTexture, 1)},
		{"zero generation", New(0, TypeTexture, 0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if v, ok := c.Get(tt.h); ok || v != nil {
				t.Errorf("Get(%v) = %v, %v", tt.h, v, ok)
			}
		})
	}
}

func TestContainerEach(t *testing.T) {
	c := NewContainer[int](0)
	c.Store(1, TypeVertexBuffer)
	h := c.Store(2, TypeVertexBuffer)
	c.Store(3, TypeVertexBuffer)
	c.Delete(h)

	sum := 0
	c.Each(func(h Handle, v int) {
		if !c.Contains(h) {
			t.Errorf("Each yielded dead handle %v", h)
		}
		sum += v
	})
	if sum != 4 {
		t.Errorf("sum = %d, want 4", sum)
	}
}
