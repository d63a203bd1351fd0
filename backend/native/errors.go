// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package native

import "errors"

// Package errors for the native backend.
var (
	// ErrBackendNotAvailable is returned when the hal backend of a variant
	// is not compiled in.
	ErrBackendNotAvailable = errors.New("native: hal backend not available")

	// ErrNoGPU is returned when no GPU adapter is available.
	ErrNoGPU = errors.New("native: no GPU adapter available")

	// ErrUnsupportedShaderLanguage is returned for shader sources the device
	// cannot load directly. Only WGSL and SPIR-V are accepted.
	ErrUnsupportedShaderLanguage = errors.New("native: unsupported shader language")

	// ErrInvalidDimensions is returned when width or height is zero or
	// exceeds the device limit.
	ErrInvalidDimensions = errors.New("native: invalid dimensions")

	// ErrUnsupportedVertexFormat is returned for vertex streams without a
	// device vertex format.
	ErrUnsupportedVertexFormat = errors.New("native: unsupported vertex format")
)
