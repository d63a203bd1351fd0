// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gfx

import (
	"log/slog"
	"sync/atomic"
)

// silent is in effect until SetLogger installs another logger.
var silent = slog.New(slog.DiscardHandler)

var logger atomic.Pointer[slog.Logger]

// SetLogger routes the diagnostics of gfx, its backends and the render
// package to l. A nil l restores the default, which discards everything.
// It may be called while other goroutines are logging.
//
// Levels:
//   - [slog.LevelDebug]: pipeline creation, cache growth, skipped adapters
//   - [slog.LevelInfo]: the selected adapter and its device
//   - [slog.LevelWarn]: adapter fallback, unsupported formats, fence timeouts
//   - [slog.LevelError]: unknown render commands, failed calls in verify mode
//
// Example:
//
//	gfx.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	logger.Store(l)
}

// Logger returns the logger installed by SetLogger. It is never nil.
func Logger() *slog.Logger {
	if l := logger.Load(); l != nil {
		return l
	}
	return silent
}
