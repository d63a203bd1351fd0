// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package native

import (
	"fmt"
	"time"

	"github.com/gogpu/gfx"
	"github.com/gogpu/wgpu/hal"
)

// fenceTimeout bounds a frame wait before the device is drained with
// WaitIdle.
const fenceTimeout = 5 * time.Second

// submissionFence exposes queue submission indices as a frame.Fence.
// Flip records the index returned by Queue.Submit; a slot is reusable once
// PollCompleted has reached it.
type submissionFence struct {
	queue  hal.Queue
	device hal.Device
}

func (f *submissionFence) Completed() uint64 { return f.queue.PollCompleted() }

func (f *submissionFence) Wait(value uint64) error {
	deadline := time.Now().Add(fenceTimeout)
	for f.queue.PollCompleted() < value {
		if time.Now().After(deadline) {
			gfx.Logger().Warn("native: fence wait timed out, draining device", "value", value)
			if err := f.device.WaitIdle(); err != nil {
				return fmt.Errorf("native: wait for submission %d: %w", value, err)
			}
			return nil
		}
		time.Sleep(100 * time.Microsecond)
	}
	return nil
}
