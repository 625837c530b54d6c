package rough

import (
	"math"

	"github.com/gogpu/gg"
)

// Paint carries the resolved colors and widths for painting a Drop.
type Paint struct {
	Stroke      gg.RGBA
	Fill        gg.RGBA
	StrokeWidth float64
}

// fillLineWidth is the stroke width used for sketchy fill lines,
// derived from the outline width.
func (p Paint) fillLineWidth() float64 {
	return math.Max(0.5, p.StrokeWidth/2)
}

// Draw paints a drop onto the context in set order (fills first, then
// strokes). The context's current transform applies, so callers position
// the drop by transforming the context.
func Draw(dc *gg.Context, d Drop, p Paint) error {
	for _, set := range d.Sets {
		switch set.Role {
		case RoleFillSolid:
			dc.ClearPath()
			for _, line := range set.Lines {
				addPolyline(dc, line)
				dc.ClosePath()
			}
			dc.SetRGBA(p.Fill.R, p.Fill.G, p.Fill.B, p.Fill.A)
			if err := dc.Fill(); err != nil {
				return err
			}

		case RoleFillSketch:
			dc.ClearPath()
			for _, line := range set.Lines {
				addPolyline(dc, line)
			}
			dc.SetRGBA(p.Fill.R, p.Fill.G, p.Fill.B, p.Fill.A)
			dc.SetLineWidth(p.fillLineWidth())
			if err := dc.Stroke(); err != nil {
				return err
			}

		case RoleStroke:
			dc.ClearPath()
			for _, line := range set.Lines {
				addPolyline(dc, line)
			}
			dc.SetRGBA(p.Stroke.R, p.Stroke.G, p.Stroke.B, p.Stroke.A)
			dc.SetLineWidth(p.StrokeWidth)
			if err := dc.Stroke(); err != nil {
				return err
			}
		}
	}
	return nil
}

// addPolyline appends one polyline to the context's current path as a
// new subpath.
func addPolyline(dc *gg.Context, pts []gg.Point) {
	if len(pts) < 2 {
		return
	}
	dc.NewSubPath()
	dc.MoveTo(pts[0].X, pts[0].Y)
	for _, p := range pts[1:] {
		dc.LineTo(p.X, p.Y)
	}
}
