// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"github.com/gogpu/gg"

	"github.com/gogpu/board"
)

// Viewport describes the visible portion of the scene for one frame:
// zoom, scroll offsets, device pixel ratio, and the target surface size
// in logical pixels. It is transient state, recomputed every frame from
// UI input, never persisted.
type Viewport struct {
	Zoom             float64
	ScrollX, ScrollY float64
	DevicePixelRatio float64
	Width, Height    float64
}

// normalized fills in safe defaults for zero fields so an unconfigured
// viewport behaves like an identity view.
func (v Viewport) normalized() Viewport {
	if v.Zoom <= 0 {
		v.Zoom = 1
	}
	if v.DevicePixelRatio <= 0 {
		v.DevicePixelRatio = 1
	}
	return v
}

// Scale returns device pixels per scene unit.
func (v Viewport) Scale() float64 {
	n := v.normalized()
	return n.Zoom * n.DevicePixelRatio
}

// Matrix returns the scene-to-device transform:
// device = (scene + scroll) * zoom * devicePixelRatio.
func (v Viewport) Matrix() gg.Matrix {
	n := v.normalized()
	s := n.Zoom * n.DevicePixelRatio
	return gg.Scale(s, s).Multiply(gg.Translate(n.ScrollX, n.ScrollY))
}

// SceneRect returns the viewport's footprint in scene coordinates,
// obtained by inverse-transforming the four device-space corners.
func (v Viewport) SceneRect() board.Rect {
	n := v.normalized()
	inv := n.Matrix().Invert()
	dw := n.Width * n.DevicePixelRatio
	dh := n.Height * n.DevicePixelRatio

	corners := [4]gg.Point{
		{X: 0, Y: 0},
		{X: dw, Y: 0},
		{X: dw, Y: dh},
		{X: 0, Y: dh},
	}
	r := board.EmptyRect()
	for _, c := range corners {
		p := inv.TransformPoint(c)
		r = r.UnionPoint(p.X, p.Y)
	}
	return r
}

// Visible filters elements to the subset intersecting the viewport.
//
// An element is included iff its rotated axis-aligned bounding box
// intersects the viewport's scene rectangle, boundary-inclusive. A
// degenerate element with zero extents is included only if its single
// point lies inside the rectangle (also inclusive). Deleted elements are
// never included.
//
// Visible is pure: it mutates nothing and is safe to call at any
// frequency.
func Visible(elements []*board.Element, v Viewport) []*board.Element {
	rect := v.SceneRect()
	out := make([]*board.Element, 0, len(elements))
	for _, el := range elements {
		if el.Deleted {
			continue
		}
		b := el.Bounds()
		if b.Width() == 0 && b.Height() == 0 {
			if rect.ContainsPoint(b.MinX, b.MinY) {
				out = append(out, el)
			}
			continue
		}
		if b.Intersects(rect) {
			out = append(out, el)
		}
	}
	return out
}
