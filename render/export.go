// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"errors"
	"image"
	"math"

	"github.com/gogpu/gg"
	xdraw "golang.org/x/image/draw"

	"github.com/gogpu/board"
	"github.com/gogpu/board/cache"
	"github.com/gogpu/board/scene"
)

// ErrEmptyScene is returned when exporting a scene with no visible
// elements.
var ErrEmptyScene = errors.New("render: cannot export an empty scene")

// ExportConfig controls ExportImage.
type ExportConfig struct {
	// Scale is the render scale in pixels per scene unit. Zero means 1.
	// Clamped against the same surface ceilings as the raster cache.
	Scale float64

	// Padding is the scene-unit margin around the content bounds.
	// Zero means 10.
	Padding float64

	// Background fills the output before drawing. The zero value leaves
	// the output transparent.
	Background gg.RGBA

	// Width and Height, when both positive, resample the rendered image
	// to exact output dimensions.
	Width, Height int
}

// ExportImage renders every non-deleted element of the store to a fresh
// image at export fidelity: shapes are force-regenerated rather than read
// from (or written to) the on-screen cache state.
//
// Per-element isolation applies as in the interactive renderer: a failing
// element is logged and skipped, never aborting the export.
func ExportImage(store *scene.Store, shapes *cache.ShapeCache, cfg ExportConfig) (*image.RGBA, error) {
	elements := store.NonDeleted()
	if len(elements) == 0 {
		return nil, ErrEmptyScene
	}

	if cfg.Scale <= 0 {
		cfg.Scale = 1
	}
	if cfg.Padding <= 0 {
		cfg.Padding = 10
	}

	bounds := board.EmptyRect()
	for _, el := range elements {
		bounds = bounds.Union(el.Bounds())
	}
	bounds = bounds.Expand(cfg.Padding)

	w := math.Max(bounds.Width(), 1)
	h := math.Max(bounds.Height(), 1)
	scale := cache.ClampScale(w, h, cfg.Scale)

	pw := int(math.Ceil(w * scale))
	ph := int(math.Ceil(h * scale))
	// Rounding up can land one pixel past the ceilings; both are hard
	// allocation limits, so re-clamp the integer dimensions.
	if pw > cache.MaxSurfaceDim {
		pw = cache.MaxSurfaceDim
	}
	if ph > cache.MaxSurfaceDim {
		ph = cache.MaxSurfaceDim
	}
	if pw*ph > cache.MaxSurfaceArea {
		ph = cache.MaxSurfaceArea / pw
	}
	target := NewPixmapTarget(pw, ph)
	if cfg.Background.A > 0 {
		target.Clear(cfg.Background)
	}

	// Headless renderer sharing nothing with on-screen state: a private
	// raster threshold of -1 disables baking, and force-regeneration
	// keeps the shared shape cache untouched.
	dc := target.Context()
	dc.Push()
	dc.Scale(scale, scale)
	dc.Translate(-bounds.MinX, -bounds.MinY)

	r := &Renderer{
		shapes:          shapes,
		rasterThreshold: -1,
		forceShapes:     true,
		images:          make(map[string]*gg.ImageBuf),
	}
	vp := Viewport{Zoom: scale, Width: float64(pw), Height: float64(ph)}
	for _, el := range elements {
		r.safeDraw(dc, el, vp)
	}
	dc.Pop()

	img := target.Image()
	if cfg.Width > 0 && cfg.Height > 0 && (cfg.Width != pw || cfg.Height != ph) {
		out := image.NewRGBA(image.Rect(0, 0, cfg.Width, cfg.Height))
		xdraw.CatmullRom.Scale(out, out.Bounds(), img, img.Bounds(), xdraw.Over, nil)
		return out, nil
	}
	return img, nil
}
