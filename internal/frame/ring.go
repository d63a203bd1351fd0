// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package frame manages the per-frame-in-flight resource slots.
//
// A Ring holds N slots, where N is the number of frames in flight. Begin
// checks out the next slot round-robin and blocks until the fence value
// recorded at that slot's previous submission has been reached. That wait is
// the only blocking point of a frame; it bounds CPU/GPU divergence to N-1
// frames. Fence completion is observed lazily, there is no watcher goroutine.
package frame

import (
	"errors"
	"fmt"
)

// ErrNotRecording is returned by End when no slot is checked out.
var ErrNotRecording = errors.New("frame: no slot checked out")

// ErrRecording is returned by Begin while a slot is still checked out.
var ErrRecording = errors.New("frame: slot already checked out")

// ErrInvalidCount is returned for a non-positive frames-in-flight count.
var ErrInvalidCount = errors.New("frame: frames in flight must be at least 1")

// Fence is a monotonic GPU completion counter.
type Fence interface {
	// Completed returns the highest value known to be reached.
	Completed() uint64
	// Wait blocks until the fence reaches value.
	Wait(value uint64) error
}

// Slot is one frame-in-flight entry.
type Slot[T any] struct {
	Index    int
	Fence    Fence
	Resource T

	// expected is the fence value assigned at the last submission.
	// Zero means the slot was never submitted.
	expected uint64
}

// Expected returns the fence value recorded at the last submission.
func (s *Slot[T]) Expected() uint64 { return s.expected }

// Ring is a fixed round-robin set of slots.
// It is driven by the single rendering goroutine and is not safe for
// concurrent use.
type Ring[T any] struct {
	slots   []Slot[T]
	next    int
	current *Slot[T]
	frames  uint64
}

// NewRing creates n slots. create is called once per slot to build its
// resources and fence.
func NewRing[T any](n int, create func(i int) (T, Fence, error)) (*Ring[T], error) {
	if n < 1 {
		return nil, ErrInvalidCount
	}
	r := &Ring[T]{slots: make([]Slot[T], n)}
	for i := range r.slots {
		res, fence, err := create(i)
		if err != nil {
			return nil, fmt.Errorf("frame: create slot %d: %w", i, err)
		}
		r.slots[i] = Slot[T]{Index: i, Fence: fence, Resource: res}
	}
	return r, nil
}

// Len returns the number of frames in flight.
func (r *Ring[T]) Len() int { return len(r.slots) }

// Current returns the checked-out slot, or nil between frames.
func (r *Ring[T]) Current() *Slot[T] { return r.current }

// Frames returns the number of completed Begin/End cycles.
func (r *Ring[T]) Frames() uint64 { return r.frames }

// Begin checks out the next slot, waiting for its previous lease to be
// released by the GPU.
func (r *Ring[T]) Begin() (*Slot[T], error) {
	if r.current != nil {
		return nil, ErrRecording
	}
	s := &r.slots[r.next]
	r.next = (r.next + 1) % len(r.slots)

	if s.Fence != nil && s.Fence.Completed() < s.expected {
		if err := s.Fence.Wait(s.expected); err != nil {
			return nil, fmt.Errorf("frame: wait slot %d for %d: %w", s.Index, s.expected, err)
		}
	}
	r.current = s
	return s, nil
}

// End records the fence value the GPU will reach when the checked-out
// slot's work retires, and releases the slot.
func (r *Ring[T]) End(value uint64) error {
	if r.current == nil {
		return ErrNotRecording
	}
	r.current.expected = value
	r.current = nil
	r.frames++
	return nil
}

// Abandon releases the checked-out slot without recording a submission.
func (r *Ring[T]) Abandon() {
	r.current = nil
}

// WaitAll blocks until every slot's last submission has retired.
func (r *Ring[T]) WaitAll() error {
	var errs []error
	for i := range r.slots {
		s := &r.slots[i]
		if s.Fence == nil || s.Fence.Completed() >= s.expected {
			continue
		}
		if err := s.Fence.Wait(s.expected); err != nil {
			errs = append(errs, fmt.Errorf("frame: wait slot %d: %w", i, err))
		}
	}
	return errors.Join(errs...)
}

// Each calls fn for every slot, used for teardown.
func (r *Ring[T]) Each(fn func(*Slot[T])) {
	for i := range r.slots {
		fn(&r.slots[i])
	}
}
