// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package native

import (
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
)

// The context shares its device with other gogpu libraries through
// gpucontext.DeviceProvider.
var _ gpucontext.DeviceProvider = (*Context)(nil)

// Device implements gpucontext.DeviceProvider. The value is a hal.Device.
func (c *Context) Device() gpucontext.Device { return c.device }

// Queue implements gpucontext.DeviceProvider. The value is a hal.Queue.
func (c *Context) Queue() gpucontext.Queue { return c.queue }

// Adapter implements gpucontext.DeviceProvider. The value is a hal.Adapter.
func (c *Context) Adapter() gpucontext.Adapter { return c.adapter.Adapter }

// SurfaceFormat implements gpucontext.DeviceProvider. Without a surface it
// is the offscreen backbuffer format.
func (c *Context) SurfaceFormat() gputypes.TextureFormat {
	if c.surface != nil {
		return c.surfaceFormat
	}
	return backbufferFormat
}

// AdapterInfo implements gpucontext.DeviceProvider.
func (c *Context) AdapterInfo() gpucontext.AdapterInfo {
	info := gpucontext.AdapterInfo{Name: c.adapter.Info.Name, Type: gpucontext.AdapterTypeUnknown}
	switch c.adapter.Info.DeviceType {
	case gputypes.DeviceTypeDiscreteGPU:
		info.Type = gpucontext.AdapterTypeDiscrete
	case gputypes.DeviceTypeIntegratedGPU:
		info.Type = gpucontext.AdapterTypeIntegrated
	case gputypes.DeviceTypeCPU:
		info.Type = gpucontext.AdapterTypeSoftware
	}
	return info
}
