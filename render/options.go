// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"
)

// Option configures a Renderer during creation.
type Option func(*Renderer)

// WithBackground sets the static layer's clear color.
// The default is opaque white.
func WithBackground(c gg.RGBA) Option {
	return func(r *Renderer) { r.background = c }
}

// WithFrameRequester wires both render paths to the host's frame
// callback mechanism. Without it the renderer runs headless: requests
// execute synchronously, which is what tests and batch export want.
func WithFrameRequester(fr FrameRequester) Option {
	return func(r *Renderer) { r.requestFrame = fr }
}

// WithFont sets the face used for text elements and pointer labels.
// Text elements are skipped when no font is configured.
func WithFont(face text.Face) Option {
	return func(r *Renderer) { r.font = face }
}

// WithImage registers the pixel data for an image element's FileID.
// Image elements whose FileID has no registered data are skipped.
func WithImage(fileID string, img *gg.ImageBuf) Option {
	return func(r *Renderer) { r.images[fileID] = img }
}

// WithPaintCallback registers a function invoked after every completed
// interactive-path draw. Hosts use it to drive cursor and tooltip
// positioning that must follow the overlay.
func WithPaintCallback(fn func()) Option {
	return func(r *Renderer) { r.onPaint = fn }
}

// WithAccent sets the hex color used for selection outlines, handles,
// and the marquee fill on the interactive layer.
func WithAccent(hex string) Option {
	return func(r *Renderer) { r.accent = hex }
}

// WithRasterThreshold sets the polyline count at or above which an
// element's shape is baked through the raster cache and blitted instead
// of being re-stroked every frame. Zero keeps the default; a negative
// value disables raster caching for this renderer.
func WithRasterThreshold(n int) Option {
	return func(r *Renderer) {
		if n != 0 {
			r.rasterThreshold = n
		}
	}
}
