// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gfx

import (
	"image"

	xdraw "golang.org/x/image/draw"
)

// ImageTexture is an RGBA upload built from an image.Image.
type ImageTexture struct {
	Creation TextureCreationParams
	Params   TextureParams
}

// NewImageTexture converts img to tightly packed RGBA8 texels. When width
// and height are non-zero and differ from the image bounds the image is
// rescaled with Catmull-Rom filtering, and the source size is kept as the
// original texture size.
func NewImageTexture(img image.Image, width, height uint32) ImageTexture {
	b := img.Bounds()
	ow, oh := uint32(b.Dx()), uint32(b.Dy()) //nolint:gosec // G115: image bounds are non-negative
	if width == 0 || height == 0 {
		width, height = ow, oh
	}

	dst := image.NewRGBA(image.Rect(0, 0, int(width), int(height)))
	if width == ow && height == oh {
		xdraw.Draw(dst, dst.Bounds(), img, b.Min, xdraw.Src)
	} else {
		xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, b, xdraw.Src, nil)
	}

	return ImageTexture{
		Creation: TextureCreationParams{
			Type:           TextureType2D,
			Width:          width,
			Height:         height,
			Depth:          1,
			OriginalWidth:  ow,
			OriginalHeight: oh,
			MipMapCount:    1,
		},
		Params: TextureParams{
			Data:   dst.Pix,
			Format: TextureFormatRGBA,
			Width:  width,
			Height: height,
			Depth:  1,
		},
	}
}

// ExpandRGB widens tightly packed RGB texels to RGBA with opaque alpha.
// Backends without a 24-bit format upload through it.
func ExpandRGB(src []byte) []byte {
	n := len(src) / 3
	dst := make([]byte, n*4)
	for i := range n {
		dst[i*4+0] = src[i*3+0]
		dst[i*4+1] = src[i*3+1]
		dst[i*4+2] = src[i*3+2]
		dst[i*4+3] = 0xFF
	}
	return dst
}

// ExpandLuminanceAlpha widens two-channel luminance-alpha texels to RGBA.
func ExpandLuminanceAlpha(src []byte) []byte {
	n := len(src) / 2
	dst := make([]byte, n*4)
	for i := range n {
		l := src[i*2]
		dst[i*4+0] = l
		dst[i*4+1] = l
		dst[i*4+2] = l
		dst[i*4+3] = src[i*2+1]
	}
	return dst
}
