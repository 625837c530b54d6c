// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"image"
	"image/draw"

	"github.com/gogpu/gg"
	"github.com/gogpu/gputypes"
)

// Target defines where rendering output goes.
//
// The layered renderer draws onto two independent targets: one for static
// scene content, one for the interactive overlay. Hosts that need raw
// pixel access (blitting to a window surface, encoding to video) read
// Pixels and Stride.
type Target interface {
	// Width returns the target width in pixels.
	Width() int

	// Height returns the target height in pixels.
	Height() int

	// Format returns the pixel format of the target.
	Format() gputypes.TextureFormat

	// Pixels returns direct access to pixel data.
	// For RGBA format, each pixel is 4 bytes: R, G, B, A.
	Pixels() []byte

	// Stride returns the number of bytes per row.
	Stride() int
}

// PixmapTarget is a CPU-backed render target over a gg pixmap, with an
// attached drawing context sharing the same buffer.
type PixmapTarget struct {
	pm *gg.Pixmap
	dc *gg.Context
}

// NewPixmapTarget creates a CPU-backed render target.
func NewPixmapTarget(width, height int) *PixmapTarget {
	pm := gg.NewPixmap(width, height)
	return &PixmapTarget{
		pm: pm,
		dc: gg.NewContext(width, height, gg.WithPixmap(pm)),
	}
}

// Width returns the target width in pixels.
func (t *PixmapTarget) Width() int { return t.pm.Width() }

// Height returns the target height in pixels.
func (t *PixmapTarget) Height() int { return t.pm.Height() }

// Format returns the pixel format (RGBA8).
func (t *PixmapTarget) Format() gputypes.TextureFormat {
	return gputypes.TextureFormatRGBA8Unorm
}

// Pixels returns direct access to the pixel data.
func (t *PixmapTarget) Pixels() []byte { return t.pm.Data() }

// Stride returns the number of bytes per row.
func (t *PixmapTarget) Stride() int { return t.pm.Width() * 4 }

// Context returns the drawing context bound to this target's buffer.
func (t *PixmapTarget) Context() *gg.Context { return t.dc }

// Pixmap returns the underlying pixmap.
func (t *PixmapTarget) Pixmap() *gg.Pixmap { return t.pm }

// Image returns a copy of the target as an image.RGBA.
func (t *PixmapTarget) Image() *image.RGBA { return t.pm.ToImage() }

// Clear fills the entire target with the given color.
func (t *PixmapTarget) Clear(c gg.RGBA) { t.pm.Clear(c) }

// Composite alpha-blends the given targets in order onto a new image,
// sized to the first target. The usual call site layers the interactive
// target over the static one for presentation.
func Composite(targets ...*PixmapTarget) *image.RGBA {
	if len(targets) == 0 {
		return image.NewRGBA(image.Rect(0, 0, 0, 0))
	}
	out := image.NewRGBA(image.Rect(0, 0, targets[0].Width(), targets[0].Height()))
	for _, t := range targets {
		draw.Draw(out, out.Bounds(), t.Image(), image.Point{}, draw.Over)
	}
	return out
}
