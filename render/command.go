// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import "github.com/gogpu/gfx"

// CommandType identifies the type of a render command.
type CommandType uint8

const (
	// Graphics state
	CmdEnableState CommandType = iota
	CmdDisableState
	CmdEnableRenderTarget
	CmdDisableRenderTarget
	CmdEnableTexture
	CmdDisableTexture
	CmdClear
	CmdSetViewport
	CmdSetView
	CmdSetProjection
	CmdSetBlendFunc
	CmdSetColorMask
	CmdSetDepthMask
	CmdSetStencilMask
	CmdSetCullFace
	CmdSetPolygonOffset

	// Drawing
	CmdDraw
	CmdDrawDebug3D
	CmdDrawDebug2D

	// Materials and constants
	CmdEnableMaterial
	CmdDisableMaterial
	CmdEnableVertexConstant
	CmdDisableVertexConstant
	CmdEnableVertexConstantBlock
	CmdDisableVertexConstantBlock
	CmdEnableFragmentConstant
	CmdDisableFragmentConstant
	CmdEnableFragmentConstantBlock
	CmdDisableFragmentConstantBlock
)

var commandTypeNames = [...]string{
	CmdEnableState:                  "EnableState",
	CmdDisableState:                 "DisableState",
	CmdEnableRenderTarget:           "EnableRenderTarget",
	CmdDisableRenderTarget:          "DisableRenderTarget",
	CmdEnableTexture:                "EnableTexture",
	CmdDisableTexture:               "DisableTexture",
	CmdClear:                        "Clear",
	CmdSetViewport:                  "SetViewport",
	CmdSetView:                      "SetView",
	CmdSetProjection:                "SetProjection",
	CmdSetBlendFunc:                 "SetBlendFunc",
	CmdSetColorMask:                 "SetColorMask",
	CmdSetDepthMask:                 "SetDepthMask",
	CmdSetStencilMask:               "SetStencilMask",
	CmdSetCullFace:                  "SetCullFace",
	CmdSetPolygonOffset:             "SetPolygonOffset",
	CmdDraw:                         "Draw",
	CmdDrawDebug3D:                  "DrawDebug3D",
	CmdDrawDebug2D:                  "DrawDebug2D",
	CmdEnableMaterial:               "EnableMaterial",
	CmdDisableMaterial:              "DisableMaterial",
	CmdEnableVertexConstant:         "EnableVertexConstant",
	CmdDisableVertexConstant:        "DisableVertexConstant",
	CmdEnableVertexConstantBlock:    "EnableVertexConstantBlock",
	CmdDisableVertexConstantBlock:   "DisableVertexConstantBlock",
	CmdEnableFragmentConstant:       "EnableFragmentConstant",
	CmdDisableFragmentConstant:      "DisableFragmentConstant",
	CmdEnableFragmentConstantBlock:  "EnableFragmentConstantBlock",
	CmdDisableFragmentConstantBlock: "DisableFragmentConstantBlock",
}

// String returns the string representation of a CommandType.
func (c CommandType) String() string {
	if int(c) < len(commandTypeNames) {
		return commandTypeNames[c]
	}
	return "Unknown"
}

// Command is one recorded render operation. The concrete type is fully
// determined by Type.
type Command interface {
	Type() CommandType
}

// --------------------------------------------------------------------------
// Graphics state
// --------------------------------------------------------------------------

// EnableStateCommand enables a fixed-function toggle.
type EnableStateCommand struct {
	State gfx.State
}

// Type implements Command.
func (EnableStateCommand) Type() CommandType { return CmdEnableState }

// DisableStateCommand disables a fixed-function toggle.
type DisableStateCommand struct {
	State gfx.State
}

// Type implements Command.
func (DisableStateCommand) Type() CommandType { return CmdDisableState }

// EnableRenderTargetCommand redirects drawing to an offscreen target.
type EnableRenderTargetCommand struct {
	Target gfx.Handle
}

// Type implements Command.
func (EnableRenderTargetCommand) Type() CommandType { return CmdEnableRenderTarget }

// DisableRenderTargetCommand returns drawing to the backbuffer.
type DisableRenderTargetCommand struct {
	Target gfx.Handle
}

// Type implements Command.
func (DisableRenderTargetCommand) Type() CommandType { return CmdDisableRenderTarget }

// EnableTextureCommand overrides the texture of a unit for every object.
type EnableTextureCommand struct {
	Unit    int
	Texture gfx.Handle
}

// Type implements Command.
func (EnableTextureCommand) Type() CommandType { return CmdEnableTexture }

// DisableTextureCommand removes a texture unit override.
type DisableTextureCommand struct {
	Unit int
}

// Type implements Command.
func (DisableTextureCommand) Type() CommandType { return CmdDisableTexture }

// ClearCommand clears the selected buffers of the current target.
type ClearCommand struct {
	Flags gfx.BufferType
	// Color is packed RGBA, see PackColor.
	Color   uint32
	Depth   float32
	Stencil uint32
}

// Type implements Command.
func (ClearCommand) Type() CommandType { return CmdClear }

// SetViewportCommand sets the viewport rectangle.
type SetViewportCommand struct {
	X, Y, Width, Height int32
}

// Type implements Command.
func (SetViewportCommand) Type() CommandType { return CmdSetViewport }

// SetViewCommand sets the view matrix.
type SetViewCommand struct {
	Matrix Mat4
}

// Type implements Command.
func (SetViewCommand) Type() CommandType { return CmdSetView }

// SetProjectionCommand sets the projection matrix.
type SetProjectionCommand struct {
	Matrix Mat4
}

// Type implements Command.
func (SetProjectionCommand) Type() CommandType { return CmdSetProjection }

// SetBlendFuncCommand sets the blend factors.
type SetBlendFuncCommand struct {
	Src, Dst gfx.BlendFactor
}

// Type implements Command.
func (SetBlendFuncCommand) Type() CommandType { return CmdSetBlendFunc }

// SetColorMaskCommand sets the color write mask.
type SetColorMaskCommand struct {
	Red, Green, Blue, Alpha bool
}

// Type implements Command.
func (SetColorMaskCommand) Type() CommandType { return CmdSetColorMask }

// SetDepthMaskCommand enables or disables depth writes.
type SetDepthMaskCommand struct {
	Enabled bool
}

// Type implements Command.
func (SetDepthMaskCommand) Type() CommandType { return CmdSetDepthMask }

// SetStencilMaskCommand sets the stencil write mask.
type SetStencilMaskCommand struct {
	Mask uint32
}

// Type implements Command.
func (SetStencilMaskCommand) Type() CommandType { return CmdSetStencilMask }

// SetCullFaceCommand selects the culled face.
type SetCullFaceCommand struct {
	Face gfx.FaceType
}

// Type implements Command.
func (SetCullFaceCommand) Type() CommandType { return CmdSetCullFace }

// SetPolygonOffsetCommand sets the depth bias.
type SetPolygonOffsetCommand struct {
	Factor, Units float32
}

// Type implements Command.
func (SetPolygonOffsetCommand) Type() CommandType { return CmdSetPolygonOffset }

// --------------------------------------------------------------------------
// Drawing
// --------------------------------------------------------------------------

// DrawCommand draws every render object whose material matches Predicate.
// A nil predicate matches everything.
type DrawCommand struct {
	Predicate *Predicate
}

// Type implements Command.
func (DrawCommand) Type() CommandType { return CmdDraw }

// DrawDebug3DCommand draws the 3D debug lines.
type DrawDebug3DCommand struct{}

// Type implements Command.
func (DrawDebug3DCommand) Type() CommandType { return CmdDrawDebug3D }

// DrawDebug2DCommand draws the 2D debug lines.
type DrawDebug2DCommand struct{}

// Type implements Command.
func (DrawDebug2DCommand) Type() CommandType { return CmdDrawDebug2D }

// --------------------------------------------------------------------------
// Materials and constants
// --------------------------------------------------------------------------

// EnableMaterialCommand replaces the material of every drawn object.
type EnableMaterialCommand struct {
	Material *Material
}

// Type implements Command.
func (EnableMaterialCommand) Type() CommandType { return CmdEnableMaterial }

// DisableMaterialCommand removes the material override.
type DisableMaterialCommand struct{}

// Type implements Command.
func (DisableMaterialCommand) Type() CommandType { return CmdDisableMaterial }

// EnableVertexConstantCommand overrides a vertex constant register.
type EnableVertexConstantCommand struct {
	Register uint32
	Value    Vec4
}

// Type implements Command.
func (EnableVertexConstantCommand) Type() CommandType { return CmdEnableVertexConstant }

// DisableVertexConstantCommand removes a vertex constant override.
type DisableVertexConstantCommand struct {
	Register uint32
}

// Type implements Command.
func (DisableVertexConstantCommand) Type() CommandType { return CmdDisableVertexConstant }

// EnableVertexConstantBlockCommand overrides four vertex registers with
// the columns of Matrix.
type EnableVertexConstantBlockCommand struct {
	Register uint32
	Matrix   Mat4
}

// Type implements Command.
func (EnableVertexConstantBlockCommand) Type() CommandType { return CmdEnableVertexConstantBlock }

// DisableVertexConstantBlockCommand removes four vertex register overrides.
type DisableVertexConstantBlockCommand struct {
	Register uint32
}

// Type implements Command.
func (DisableVertexConstantBlockCommand) Type() CommandType { return CmdDisableVertexConstantBlock }

// EnableFragmentConstantCommand overrides a fragment constant register.
type EnableFragmentConstantCommand struct {
	Register uint32
	Value    Vec4
}

// Type implements Command.
func (EnableFragmentConstantCommand) Type() CommandType { return CmdEnableFragmentConstant }

// DisableFragmentConstantCommand removes a fragment constant override.
type DisableFragmentConstantCommand struct {
	Register uint32
}

// Type implements Command.
func (DisableFragmentConstantCommand) Type() CommandType { return CmdDisableFragmentConstant }

// EnableFragmentConstantBlockCommand overrides four fragment registers with
// the columns of Matrix.
type EnableFragmentConstantBlockCommand struct {
	Register uint32
	Matrix   Mat4
}

// Type implements Command.
func (EnableFragmentConstantBlockCommand) Type() CommandType { return CmdEnableFragmentConstantBlock }

// DisableFragmentConstantBlockCommand removes four fragment register
// overrides.
type DisableFragmentConstantBlockCommand struct {
	Register uint32
}

// Type implements Command.
func (DisableFragmentConstantBlockCommand) Type() CommandType { return CmdDisableFragmentConstantBlock }

// PackColor packs 8-bit channels as r | g<<8 | b<<16 | a<<24.
func PackColor(r, g, b, a uint8) uint32 {
	return uint32(r) | uint32(g)<<8 | uint32(b)<<16 | uint32(a)<<24
}

// UnpackColor is the inverse of PackColor.
func UnpackColor(c uint32) (r, g, b, a uint8) {
	return uint8(c), uint8(c >> 8), uint8(c >> 16), uint8(c >> 24) //nolint:gosec // G115: byte extraction
}
