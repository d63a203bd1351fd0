// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package pipecache

import (
	"errors"
	"testing"
)

type pipeline struct{ id int }

func TestGetOrCreateReturnsSameInstance(t *testing.T) {
	c := New[*pipeline]()
	created := 0
	create := func() (*pipeline, error) {
		created++
		return &pipeline{id: created}, nil
	}

	first, err := c.GetOrCreate(42, create)
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}
	for range 10 {
		p, err := c.GetOrCreate(42, create)
		if err != nil {
			t.Fatalf("GetOrCreate: %v", err)
		}
		if p != first {
			t.Fatalf("got %p, want cached %p", p, first)
		}
	}
	if created != 1 {
		t.Errorf("created = %d, want 1", created)
	}

	s := c.Stats()
	if s.Hits != 10 || s.Misses != 1 {
		t.Errorf("stats = %+v", s)
	}

	c.ResetStats()
	for range 5 {
		_, _ = c.GetOrCreate(42, create)
	}
	if r := c.HitRate(); r != 1 {
		t.Errorf("HitRate = %v, want 1", r)
	}
}

func TestCacheGrowsByIncrement(t *testing.T) {
	c := New[int](WithCapacity(2), WithGrowth(4))
	for i := range 3 {
		_, err := c.GetOrCreate(uint64(i), func() (int, error) { return i, nil })
		if err != nil {
			t.Fatal(err)
		}
	}
	if got := c.Capacity(); got != 6 {
		t.Errorf("Capacity = %d, want 6", got)
	}
	if got := c.Len(); got != 3 {
		t.Errorf("Len = %d, want 3", got)
	}
	for i := range 3 {
		if _, ok := c.Get(uint64(i)); !ok {
			t.Errorf("entry %d evicted", i)
		}
	}
}

func TestFailedCreateNotCached(t *testing.T) {
	c := New[int]()
	boom := errors.New("boom")
	if _, err := c.GetOrCreate(1, func() (int, error) { return 0, boom }); !errors.Is(err, boom) {
		t.Fatalf("err = %v, want boom", err)
	}
	if c.Len() != 0 {
		t.Fatal("failed creation was cached")
	}
	if _, err := c.GetOrCreate(1, nil); !errors.Is(err, ErrNilCreate) {
		t.Errorf("err = %v, want ErrNilCreate", err)
	}
	v, err := c.GetOrCreate(1, func() (int, error) { return 5, nil })
	if err != nil || v != 5 {
		t.Errorf("GetOrCreate = %d, %v", v, err)
	}
}

func TestDestroyAll(t *testing.T) {
	c := New[int]()
	for i := range 5 {
		_, _ = c.GetOrCreate(uint64(i), func() (int, error) { return i, nil })
	}
	destroyed := 0
	c.DestroyAll(func(int) { destroyed++ })
	if destroyed != 5 || c.Len() != 0 {
		t.Errorf("destroyed = %d, Len = %d", destroyed, c.Len())
	}
}

func TestDeleteFunc(t *testing.T) {
	c := New[*pipeline](WithCapacity(4))
	for i := range 6 {
		if _, err := c.GetOrCreate(uint64(i), func() (*pipeline, error) { return &pipeline{id: i % 2}, nil }); err != nil {
			t.Fatal(err)
		}
	}
	capacity := c.Capacity()

	var destroyed []int
	n := c.DeleteFunc(
		func(p *pipeline) bool { return p.id == 1 },
		func(p *pipeline) { destroyed = append(destroyed, p.id) },
	)
	if n != 3 || len(destroyed) != 3 {
		t.Fatalf("removed %d, destroyed %v; want 3", n, destroyed)
	}
	if c.Len() != 3 {
		t.Errorf("Len = %d, want 3", c.Len())
	}
	if c.Capacity() != capacity {
		t.Errorf("Capacity = %d, want %d", c.Capacity(), capacity)
	}
	if _, ok := c.Get(1); ok {
		t.Error("removed pipeline still cached")
	}
	if _, ok := c.Get(2); !ok {
		t.Error("kept pipeline missing")
	}

	// A removed hash is created again on the next lookup.
	created := false
	if _, err := c.GetOrCreate(1, func() (*pipeline, error) { created = true; return &pipeline{id: 1}, nil }); err != nil {
		t.Fatal(err)
	}
	if !created {
		t.Error("removed hash served from cache")
	}
	if n := c.DeleteFunc(func(*pipeline) bool { return false }, nil); n != 0 {
		t.Errorf("no-match delete removed %d", n)
	}
}
