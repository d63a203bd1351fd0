// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gfx

import (
	"errors"
	"fmt"
)

// Context lifecycle errors.
var (
	// ErrNoSupportedAdapter is returned when no registered adapter could
	// be detected and initialized.
	ErrNoSupportedAdapter = errors.New("gfx: no supported adapter")

	// ErrContextExists is returned by NewContext while another context is
	// live.
	ErrContextExists = errors.New("gfx: a graphics context already exists")

	// ErrAlreadyInitialized is returned by a second Initialize call.
	ErrAlreadyInitialized = errors.New("gfx: context already initialized")

	// ErrNotInitialized is returned by frame operations before Initialize.
	ErrNotInitialized = errors.New("gfx: context not initialized")

	// ErrInvalidHandle is returned when a handle does not resolve.
	ErrInvalidHandle = errors.New("gfx: invalid handle")

	// ErrFrameNotStarted is returned by Flip without a matching BeginFrame.
	ErrFrameNotStarted = errors.New("gfx: frame not started")

	// ErrFrameInProgress is returned by BeginFrame before the previous
	// frame was flipped.
	ErrFrameInProgress = errors.New("gfx: frame already in progress")

	// ErrUnsupportedFormat is returned for texture formats the device cannot
	// sample.
	ErrUnsupportedFormat = errors.New("gfx: unsupported texture format")

	// ErrGraphicsCall is the panic value (wrapped) raised by a failed native
	// call in verify mode.
	ErrGraphicsCall = errors.New("gfx: graphics call failed")
)

// Verifier applies the native-call failure policy of a context.
//
// With Enabled set, a failure is logged at error level and then panics with
// an error wrapping ErrGraphicsCall. Without it, failures are swallowed and
// the frame carries on.
type Verifier struct {
	Enabled bool
}

// Check reports whether err is nil. op names the failing call.
func (v Verifier) Check(op string, err error) bool {
	if err == nil {
		return true
	}
	if v.Enabled {
		Logger().Error("gfx: graphics call failed", "op", op, "err", err)
		panic(fmt.Errorf("%w: %s: %w", ErrGraphicsCall, op, err))
	}
	return false
}
