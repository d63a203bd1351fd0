// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package frame

import (
	"errors"
	"sync"
)

// ErrTimelineClosed is returned by Wait after Close.
var ErrTimelineClosed = errors.New("frame: timeline closed")

// Timeline is a CPU-side Fence driven by explicit Signal calls.
// It is the fence of the null backend and the test double for the frame
// ring. Timeline is safe for concurrent use.
type Timeline struct {
	mu     sync.Mutex
	cond   *sync.Cond
	value  uint64
	closed bool
}

// NewTimeline creates a timeline at value zero.
func NewTimeline() *Timeline {
	t := &Timeline{}
	t.cond = sync.NewCond(&t.mu)
	return t
}

// Completed implements Fence.
func (t *Timeline) Completed() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.value
}

// Wait implements Fence. It blocks until Signal reaches value or the
// timeline is closed.
func (t *Timeline) Wait(value uint64) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	for t.value < value {
		if t.closed {
			return ErrTimelineClosed
		}
		t.cond.Wait()
	}
	return nil
}

// Signal advances the timeline to value. Lower values are ignored.
func (t *Timeline) Signal(value uint64) {
	t.mu.Lock()
	if value > t.value {
		t.value = value
	}
	t.mu.Unlock()
	t.cond.Broadcast()
}

// Close wakes every waiter with ErrTimelineClosed.
func (t *Timeline) Close() {
	t.mu.Lock()
	t.closed = true
	t.mu.Unlock()
	t.cond.Broadcast()
}
