// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import "github.com/gogpu/gfx"

// CommandBuffer records render commands for later replay by ParseCommands.
//
// Commands hold their matrix and vector payloads by value, so the caller
// may reuse its values right away and a buffer may be replayed any number
// of times before Reset.
//
// A CommandBuffer is not safe for concurrent use.
type CommandBuffer struct {
	commands []Command
}

// NewCommandBuffer creates a buffer with room for capacity commands.
func NewCommandBuffer(capacity int) *CommandBuffer {
	return &CommandBuffer{commands: make([]Command, 0, capacity)}
}

// Append adds a command. Nil commands are ignored.
func (b *CommandBuffer) Append(cmd Command) {
	if cmd == nil {
		return
	}
	b.commands = append(b.commands, cmd)
}

// Len returns the number of recorded commands.
func (b *CommandBuffer) Len() int { return len(b.commands) }

// Commands returns the recorded commands in append order.
func (b *CommandBuffer) Commands() []Command { return b.commands }

// Reset drops every command and keeps the backing storage.
func (b *CommandBuffer) Reset() {
	clear(b.commands)
	b.commands = b.commands[:0]
}

// EnableState records an EnableStateCommand.
func (b *CommandBuffer) EnableState(s gfx.State) {
	b.Append(EnableStateCommand{State: s})
}

// DisableState records a DisableStateCommand.
func (b *CommandBuffer) DisableState(s gfx.State) {
	b.Append(DisableStateCommand{State: s})
}

// EnableRenderTarget records an EnableRenderTargetCommand.
func (b *CommandBuffer) EnableRenderTarget(rt gfx.Handle) {
	b.Append(EnableRenderTargetCommand{Target: rt})
}

// DisableRenderTarget records a DisableRenderTargetCommand.
func (b *CommandBuffer) DisableRenderTarget(rt gfx.Handle) {
	b.Append(DisableRenderTargetCommand{Target: rt})
}

// EnableTexture records an EnableTextureCommand.
func (b *CommandBuffer) EnableTexture(unit int, tex gfx.Handle) {
	b.Append(EnableTextureCommand{Unit: unit, Texture: tex})
}

// DisableTexture records a DisableTextureCommand.
func (b *CommandBuffer) DisableTexture(unit int) {
	b.Append(DisableTextureCommand{Unit: unit})
}

// Clear records a ClearCommand.
func (b *CommandBuffer) Clear(flags gfx.BufferType, r, g, bl, a uint8, depth float32, stencil uint32) {
	b.Append(ClearCommand{Flags: flags, Color: PackColor(r, g, bl, a), Depth: depth, Stencil: stencil})
}

// SetViewport records a SetViewportCommand.
func (b *CommandBuffer) SetViewport(x, y, width, height int32) {
	b.Append(SetViewportCommand{X: x, Y: y, Width: width, Height: height})
}

// SetView records a SetViewCommand.
func (b *CommandBuffer) SetView(m Mat4) {
	b.Append(SetViewCommand{Matrix: m})
}

// SetProjection records a SetProjectionCommand.
func (b *CommandBuffer) SetProjection(m Mat4) {
	b.Append(SetProjectionCommand{Matrix: m})
}

// SetBlendFunc records a SetBlendFuncCommand.
func (b *CommandBuffer) SetBlendFunc(src, dst gfx.BlendFactor) {
	b.Append(SetBlendFuncCommand{Src: src, Dst: dst})
}

// SetColorMask records a SetColorMaskCommand.
func (b *CommandBuffer) SetColorMask(red, green, blue, alpha bool) {
	b.Append(SetColorMaskCommand{Red: red, Green: green, Blue: blue, Alpha: alpha})
}

// SetDepthMask records a SetDepthMaskCommand.
func (b *CommandBuffer) SetDepthMask(enabled bool) {
	b.Append(SetDepthMaskCommand{Enabled: enabled})
}

// SetStencilMask records a SetStencilMaskCommand.
func (b *CommandBuffer) SetStencilMask(mask uint32) {
	b.Append(SetStencilMaskCommand{Mask: mask})
}

// SetCullFace records a SetCullFaceCommand.
func (b *CommandBuffer) SetCullFace(face gfx.FaceType) {
	b.Append(SetCullFaceCommand{Face: face})
}

// SetPolygonOffset records a SetPolygonOffsetCommand.
func (b *CommandBuffer) SetPolygonOffset(factor, units float32) {
	b.Append(SetPolygonOffsetCommand{Factor: factor, Units: units})
}

// Draw records a DrawCommand.
func (b *CommandBuffer) Draw(p *Predicate) {
	b.Append(DrawCommand{Predicate: p})
}

// DrawDebug3D records a DrawDebug3DCommand.
func (b *CommandBuffer) DrawDebug3D() { b.Append(DrawDebug3DCommand{}) }

// DrawDebug2D records a DrawDebug2DCommand.
func (b *CommandBuffer) DrawDebug2D() { b.Append(DrawDebug2DCommand{}) }

// EnableMaterial records an EnableMaterialCommand.
func (b *CommandBuffer) EnableMaterial(m *Material) {
	b.Append(EnableMaterialCommand{Material: m})
}

// DisableMaterial records a DisableMaterialCommand.
func (b *CommandBuffer) DisableMaterial() { b.Append(DisableMaterialCommand{}) }

// EnableVertexConstant records an EnableVertexConstantCommand.
func (b *CommandBuffer) EnableVertexConstant(reg uint32, v Vec4) {
	b.Append(EnableVertexConstantCommand{Register: reg, Value: v})
}

// DisableVertexConstant records a DisableVertexConstantCommand.
func (b *CommandBuffer) DisableVertexConstant(reg uint32) {
	b.Append(DisableVertexConstantCommand{Register: reg})
}

// EnableVertexConstantBlock records an EnableVertexConstantBlockCommand.
func (b *CommandBuffer) EnableVertexConstantBlock(reg uint32, m Mat4) {
	b.Append(EnableVertexConstantBlockCommand{Register: reg, Matrix: m})
}

// DisableVertexConstantBlock records a DisableVertexConstantBlockCommand.
func (b *CommandBuffer) DisableVertexConstantBlock(reg uint32) {
	b.Append(DisableVertexConstantBlockCommand{Register: reg})
}

// EnableFragmentConstant records an EnableFragmentConstantCommand.
func (b *CommandBuffer) EnableFragmentConstant(reg uint32, v Vec4) {
	b.Append(EnableFragmentConstantCommand{Register: reg, Value: v})
}

// DisableFragmentConstant records a DisableFragmentConstantCommand.
func (b *CommandBuffer) DisableFragmentConstant(reg uint32) {
	b.Append(DisableFragmentConstantCommand{Register: reg})
}

// EnableFragmentConstantBlock records an EnableFragmentConstantBlockCommand.
func (b *CommandBuffer) EnableFragmentConstantBlock(reg uint32, m Mat4) {
	b.Append(EnableFragmentConstantBlockCommand{Register: reg, Matrix: m})
}

// DisableFragmentConstantBlock records a DisableFragmentConstantBlockCommand.
func (b *CommandBuffer) DisableFragmentConstantBlock(reg uint32) {
	b.Append(DisableFragmentConstantBlockCommand{Register: reg})
}
