// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"github.com/gogpu/gfx"
	"github.com/gogpu/gfx/handle"
)

// ParseCommands replays buf against rc in append order. Every state
// command takes effect before any later draw.
//
// An unknown command is logged and skipped; the rest of the buffer still
// runs. The buffer is left unchanged.
func ParseCommands(rc *Context, buf *CommandBuffer) {
	g := rc.graphics
	for i, cmd := range buf.commands {
		switch c := cmd.(type) {
		case EnableStateCommand:
			g.EnableState(c.State)
		case DisableStateCommand:
			g.DisableState(c.State)
		case EnableRenderTargetCommand:
			g.SetRenderTarget(c.Target)
		case DisableRenderTargetCommand:
			g.SetRenderTarget(handle.Invalid)
		case EnableTextureCommand:
			rc.setTexture(c.Unit, c.Texture)
		case DisableTextureCommand:
			rc.setTexture(c.Unit, handle.Invalid)
		case ClearCommand:
			r, gr, b, a := UnpackColor(c.Color)
			g.Clear(c.Flags, r, gr, b, a, c.Depth, c.Stencil)
		case SetViewportCommand:
			g.SetViewport(c.X, c.Y, c.Width, c.Height)
		case SetViewCommand:
			rc.SetViewMatrix(c.Matrix)
		case SetProjectionCommand:
			rc.SetProjectionMatrix(c.Matrix)
		case SetBlendFuncCommand:
			g.SetBlendFunc(c.Src, c.Dst)
		case SetColorMaskCommand:
			g.SetColorMask(c.Red, c.Green, c.Blue, c.Alpha)
		case SetDepthMaskCommand:
			g.SetDepthMask(c.Enabled)
		case SetStencilMaskCommand:
			g.SetStencilMask(c.Mask)
		case SetCullFaceCommand:
			g.SetCullFace(c.Face)
		case SetPolygonOffsetCommand:
			g.SetPolygonOffset(c.Factor, c.Units)
		case DrawCommand:
			rc.GenerateKeyDepth(rc.view)
			rc.Draw(c.Predicate)
		case DrawDebug3DCommand:
			rc.DrawDebug3D()
		case DrawDebug2DCommand:
			rc.DrawDebug2D()
		case EnableMaterialCommand:
			rc.material = c.Material
		case DisableMaterialCommand:
			rc.material = nil
		case EnableVertexConstantCommand:
			rc.EnableVertexConstant(c.Register, c.Value)
		case DisableVertexConstantCommand:
			rc.DisableVertexConstant(c.Register)
		case EnableVertexConstantBlockCommand:
			for j := range uint32(4) {
				rc.EnableVertexConstant(c.Register+j, c.Matrix.Col(int(j)))
			}
		case DisableVertexConstantBlockCommand:
			for j := range uint32(4) {
				rc.DisableVertexConstant(c.Register + j)
			}
		case EnableFragmentConstantCommand:
			rc.EnableFragmentConstant(c.Register, c.Value)
		case DisableFragmentConstantCommand:
			rc.DisableFragmentConstant(c.Register)
		case EnableFragmentConstantBlockCommand:
			for j := range uint32(4) {
				rc.EnableFragmentConstant(c.Register+j, c.Matrix.Col(int(j)))
			}
		case DisableFragmentConstantBlockCommand:
			for j := range uint32(4) {
				rc.DisableFragmentConstant(c.Register + j)
			}
		default:
			gfx.Logger().Error("render: no such render command", "index", i, "type", uint8(cmd.Type()))
		}
	}
}
