// Package rough generates hand-drawn-looking vector geometry.
//
// A Generator turns clean primitives (rectangles, ellipses, polylines)
// into jittered polyline passes. All randomness comes from a caller-owned
// seed, so regenerating the same primitive with the same seed always
// produces identical geometry — the property the shape cache relies on for
// visually stable re-renders.
//
// The package is deliberately independent of the element model: it deals
// in widths, heights, and point slices only.
package rough

import (
	"math"
	"math/rand"

	"github.com/gogpu/gg"
)

// Role classifies an op set for painting.
type Role uint8

// Op set roles.
const (
	// RoleStroke is outline geometry, stroked with the stroke color.
	RoleStroke Role = iota
	// RoleFillSolid is a closed polygon filled with the fill color.
	RoleFillSolid
	// RoleFillSketch is hachure geometry, stroked thinly with the
	// fill color.
	RoleFillSketch
)

// OpSet is one group of polylines sharing a paint role.
type OpSet struct {
	Role  Role
	Lines [][]gg.Point
}

// Drop is the complete generated geometry for one shape, in shape-local
// coordinates. Fill sets precede stroke sets so painting in order layers
// correctly.
type Drop struct {
	Sets []OpSet
}

// IsEmpty reports whether the drop contains no geometry.
func (d Drop) IsEmpty() bool {
	for _, s := range d.Sets {
		for _, l := range s.Lines {
			if len(l) > 1 {
				return false
			}
		}
	}
	return true
}

// LineCount returns the total number of polylines across all sets.
// Renderers use it as a cheap re-stroke cost estimate.
func (d Drop) LineCount() int {
	n := 0
	for _, s := range d.Sets {
		n += len(s.Lines)
	}
	return n
}

// Bounds returns the min and max corners over all geometry.
// ok is false for an empty drop.
func (d Drop) Bounds() (min, max gg.Point, ok bool) {
	min = gg.Pt(math.Inf(1), math.Inf(1))
	max = gg.Pt(math.Inf(-1), math.Inf(-1))
	for _, s := range d.Sets {
		for _, l := range s.Lines {
			for _, p := range l {
				ok = true
				min.X = math.Min(min.X, p.X)
				min.Y = math.Min(min.Y, p.Y)
				max.X = math.Max(max.X, p.X)
				max.Y = math.Max(max.Y, p.Y)
			}
		}
	}
	return min, max, ok
}

// Generator produces jittered geometry from a fixed seed.
// It is not safe for concurrent use; create one per generation call.
type Generator struct {
	rng       *rand.Rand
	roughness float64
}

// NewGenerator creates a generator. Roughness scales all jitter; 0 yields
// clean single-pass geometry, 1 the default sketchy look.
func NewGenerator(seed int64, roughness float64) *Generator {
	if roughness < 0 {
		roughness = 0
	}
	return &Generator{
		rng:       rand.New(rand.NewSource(seed)),
		roughness: roughness,
	}
}

// offset returns a jitter displacement bounded by amount.
func (g *Generator) offset(amount float64) float64 {
	return (g.rng.Float64()*2 - 1) * amount * g.roughness
}

// jitter displaces a point by at most amount in each axis.
func (g *Generator) jitter(p gg.Point, amount float64) gg.Point {
	return gg.Pt(p.X+g.offset(amount), p.Y+g.offset(amount))
}

// segment produces the jittered passes for one straight segment.
// Rough drawing double-strokes each line; roughness 0 collapses to a
// single exact pass.
func (g *Generator) segment(a, b gg.Point) [][]gg.Point {
	d := a.Distance(b)
	if d == 0 {
		return nil
	}
	if g.roughness == 0 {
		return [][]gg.Point{{a, b}}
	}
	amount := math.Min(2, d*0.05)
	passes := make([][]gg.Point, 0, 2)
	for i := 0; i < 2; i++ {
		pts := []gg.Point{
			g.jitter(a, amount),
			g.jitter(a.Lerp(b, 0.5), amount),
			g.jitter(a.Lerp(b, 0.75), amount),
			g.jitter(b, amount),
		}
		passes = append(passes, pts)
	}
	return passes
}

// Rectangle returns jittered outline passes for a w x h rectangle with its
// origin at (0, 0). Degenerate extents yield no geometry.
func (g *Generator) Rectangle(w, h float64) [][]gg.Point {
	if w == 0 && h == 0 {
		return nil
	}
	return g.Polyline(RectOutline(w, h), true)
}

// Diamond returns jittered outline passes for a diamond inscribed in a
// w x h box with its origin at (0, 0).
func (g *Generator) Diamond(w, h float64) [][]gg.Point {
	if w == 0 && h == 0 {
		return nil
	}
	return g.Polyline(DiamondOutline(w, h), true)
}

// Ellipse returns jittered outline passes for an ellipse inscribed in a
// w x h box with its origin at (0, 0).
func (g *Generator) Ellipse(w, h float64) [][]gg.Point {
	if w == 0 && h == 0 {
		return nil
	}
	outline := EllipseOutline(w, h, ellipseSteps(w, h))
	if g.roughness == 0 {
		closed := append(append([]gg.Point{}, outline...), outline[0])
		return [][]gg.Point{closed}
	}
	rx, ry := w/2, h/2
	amount := math.Min(2, math.Min(rx, ry)*0.1)
	passes := make([][]gg.Point, 0, 2)
	for i := 0; i < 2; i++ {
		pts := make([]gg.Point, 0, len(outline)+1)
		for _, p := range outline {
			pts = append(pts, g.jitter(p, amount))
		}
		pts = append(pts, pts[0])
		passes = append(passes, pts)
	}
	return passes
}

// Polyline returns jittered passes along the given points, optionally
// closing back to the first point. Fewer than two points yield nothing.
func (g *Generator) Polyline(pts []gg.Point, closed bool) [][]gg.Point {
	if len(pts) < 2 {
		return nil
	}
	var out [][]gg.Point
	for i := 1; i < len(pts); i++ {
		out = append(out, g.segment(pts[i-1], pts[i])...)
	}
	if closed {
		out = append(out, g.segment(pts[len(pts)-1], pts[0])...)
	}
	return out
}

// FreeDraw returns a single smoothed pass through the points. Pen input
// is already organic, so no jitter is added — midpoint smoothing only.
func (g *Generator) FreeDraw(pts []gg.Point) [][]gg.Point {
	if len(pts) < 2 {
		return nil
	}
	smooth := make([]gg.Point, 0, len(pts)*2)
	smooth = append(smooth, pts[0])
	for i := 1; i < len(pts); i++ {
		smooth = append(smooth, pts[i-1].Lerp(pts[i], 0.5), pts[i])
	}
	return [][]gg.Point{smooth}
}

// Hachure returns jittered fill lines covering the polygon's interior,
// spaced gap apart along the given angle (radians).
func (g *Generator) Hachure(outline []gg.Point, gap, angle float64) [][]gg.Point {
	lines := hachureLines(outline, gap, angle)
	out := make([][]gg.Point, 0, len(lines))
	for _, l := range lines {
		if g.roughness == 0 {
			out = append(out, l)
			continue
		}
		a, b := l[0], l[1]
		amount := math.Min(1.5, a.Distance(b)*0.05)
		out = append(out, []gg.Point{
			g.jitter(a, amount),
			g.jitter(a.Lerp(b, 0.5), amount),
			g.jitter(b, amount),
		})
	}
	return out
}

// RectOutline returns the four corners of a w x h rectangle at the origin.
func RectOutline(w, h float64) []gg.Point {
	return []gg.Point{{X: 0, Y: 0}, {X: w, Y: 0}, {X: w, Y: h}, {X: 0, Y: h}}
}

// DiamondOutline returns the four edge midpoints of a w x h box.
func DiamondOutline(w, h float64) []gg.Point {
	return []gg.Point{{X: w / 2, Y: 0}, {X: w, Y: h / 2}, {X: w / 2, Y: h}, {X: 0, Y: h / 2}}
}

// EllipseOutline returns steps points approximating an ellipse inscribed
// in a w x h box at the origin.
func EllipseOutline(w, h float64, steps int) []gg.Point {
	if steps < 8 {
		steps = 8
	}
	cx, cy := w/2, h/2
	pts := make([]gg.Point, 0, steps)
	for i := 0; i < steps; i++ {
		t := 2 * math.Pi * float64(i) / float64(steps)
		pts = append(pts, gg.Pt(cx+cx*math.Cos(t), cy+cy*math.Sin(t)))
	}
	return pts
}

// ellipseSteps picks a segment count proportional to the perimeter so
// large ellipses stay smooth and small ones stay cheap.
func ellipseSteps(w, h float64) int {
	perimeter := math.Pi * (w + h) / 2
	n := int(perimeter / 6)
	if n < 16 {
		n = 16
	}
	if n > 128 {
		n = 128
	}
	return n
}

// hachureLines computes unjittered fill line segments for a polygon by
// scanning perpendicular to angle. Each result is a two-point segment.
func hachureLines(outline []gg.Point, gap, angle float64) [][]gg.Point {
	if len(outline) < 3 {
		return nil
	}
	if gap <= 0 {
		gap = 6
	}

	// Rotate the polygon so the hachure direction becomes horizontal,
	// scan horizontal lines, then rotate intersections back.
	rotated := make([]gg.Point, len(outline))
	minY, maxY := math.Inf(1), math.Inf(-1)
	for i, p := range outline {
		rp := p.Rotate(-angle)
		rotated[i] = rp
		minY = math.Min(minY, rp.Y)
		maxY = math.Max(maxY, rp.Y)
	}

	var lines [][]gg.Point
	for y := minY + gap/2; y < maxY; y += gap {
		xs := scanlineCrossings(rotated, y)
		for i := 0; i+1 < len(xs); i += 2 {
			a := gg.Pt(xs[i], y).Rotate(angle)
			b := gg.Pt(xs[i+1], y).Rotate(angle)
			lines = append(lines, []gg.Point{a, b})
		}
	}
	return lines
}

// scanlineCrossings returns the sorted x coordinates where the horizontal
// line at y crosses the polygon's edges.
func scanlineCrossings(poly []gg.Point, y float64) []float64 {
	var xs []float64
	n := len(poly)
	for i := 0; i < n; i++ {
		a, b := poly[i], poly[(i+1)%n]
		if (a.Y <= y && b.Y > y) || (b.Y <= y && a.Y > y) {
			t := (y - a.Y) / (b.Y - a.Y)
			xs = append(xs, a.X+t*(b.X-a.X))
		}
	}
	for i := 1; i < len(xs); i++ {
		for j := i; j > 0 && xs[j] < xs[j-1]; j-- {
			xs[j], xs[j-1] = xs[j-1], xs[j]
		}
	}
	return xs
}
