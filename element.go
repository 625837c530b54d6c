package board

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/gogpu/gg"
	"github.com/google/uuid"
)

// ElementKind is the explicit discriminant of the element tagged union.
// Draw and bounds routines switch exhaustively on it.
type ElementKind uint8

// Element kinds.
const (
	KindRectangle ElementKind = iota
	KindEllipse
	KindDiamond
	KindLine
	KindFreeDraw
	KindText
	KindImage
)

// String returns a human-readable kind name.
func (k ElementKind) String() string {
	switch k {
	case KindRectangle:
		return "rectangle"
	case KindEllipse:
		return "ellipse"
	case KindDiamond:
		return "diamond"
	case KindLine:
		return "line"
	case KindFreeDraw:
		return "freedraw"
	case KindText:
		return "text"
	case KindImage:
		return "image"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// PathBased reports whether the kind's geometry is an ordered point
// sequence rather than a width/height box.
func (k ElementKind) PathBased() bool {
	return k == KindLine || k == KindFreeDraw
}

// Element is one drawable unit in the scene.
//
// Identity (ID) is immutable for the element's lifetime. All semantic
// changes must go through Bump so that Version and VersionNonce move
// together; caches treat a version mismatch as staleness.
type Element struct {
	ID   string
	Kind ElementKind

	// Geometry. Points are relative to (X, Y) and only meaningful for
	// path-based kinds. Angle is the rotation in radians about the
	// element center.
	X, Y          float64
	Width, Height float64
	Angle         float64
	Points        []gg.Point

	Style Style

	// Seed makes regenerated sketchy geometry visually stable: the same
	// element always jitters the same way.
	Seed int64

	// Version increases monotonically on every semantic change.
	// VersionNonce is re-randomized alongside it and serves purely as a
	// cheap cache-validity token.
	Version      int64
	VersionNonce uint32

	// FracIndex is a fractional ordering key: inserting between two
	// siblings never renumbers the rest of the collection.
	FracIndex string

	// Deleted elements stay in the store for history purposes but are
	// excluded from rendering and culling.
	Deleted bool

	// Kind-specific payloads.
	Text     string  // KindText
	FontSize float64 // KindText
	FileID   string  // KindImage
}

// NewElement creates an element of the given kind with a fresh identity,
// a random geometry seed, and default style.
func NewElement(kind ElementKind) *Element {
	return &Element{
		ID:           uuid.NewString(),
		Kind:         kind,
		Style:        DefaultStyle(),
		Seed:         rand.Int63(),
		Version:      1,
		VersionNonce: rand.Uint32(),
		FontSize:     20,
	}
}

// Bump records a semantic change: Version increments and VersionNonce is
// re-randomized. The nonce is guaranteed to actually change.
func (e *Element) Bump() {
	e.Version++
	n := rand.Uint32()
	if n == e.VersionNonce {
		n++
	}
	e.VersionNonce = n
}

// Clone returns a deep copy of the element.
func (e *Element) Clone() *Element {
	c := *e
	if e.Points != nil {
		c.Points = make([]gg.Point, len(e.Points))
		copy(c.Points, e.Points)
	}
	return &c
}

// LocalBounds returns the element's unrotated bounding box in scene
// coordinates. For path-based kinds the box is derived from the point
// sequence rather than Width/Height.
func (e *Element) LocalBounds() Rect {
	switch e.Kind {
	case KindLine, KindFreeDraw:
		if len(e.Points) == 0 {
			return RectXYWH(e.X, e.Y, 0, 0)
		}
		b := EmptyRect()
		for _, p := range e.Points {
			b = b.UnionPoint(e.X+p.X, e.Y+p.Y)
		}
		return b
	case KindRectangle, KindEllipse, KindDiamond, KindText, KindImage:
		return RectXYWH(e.X, e.Y, e.Width, e.Height)
	default:
		return RectXYWH(e.X, e.Y, e.Width, e.Height)
	}
}

// Bounds returns the element's axis-aligned bounding box in scene
// coordinates with rotation applied: the four unrotated corners are
// rotated about the element center and re-boxed. Using the unrotated
// box directly would falsely cull rotated elements near viewport edges.
func (e *Element) Bounds() Rect {
	local := e.LocalBounds()
	if e.Angle == 0 || local.IsEmpty() {
		return local
	}
	cx, cy := local.CenterX(), local.CenterY()
	corners := [4]gg.Point{
		{X: local.MinX, Y: local.MinY},
		{X: local.MaxX, Y: local.MinY},
		{X: local.MaxX, Y: local.MaxY},
		{X: local.MinX, Y: local.MaxY},
	}
	b := EmptyRect()
	for _, c := range corners {
		p := c.Sub(gg.Pt(cx, cy)).Rotate(e.Angle).Add(gg.Pt(cx, cy))
		b = b.UnionPoint(p.X, p.Y)
	}
	return b
}

// Center returns the element's rotation center in scene coordinates.
func (e *Element) Center() gg.Point {
	local := e.LocalBounds()
	return gg.Pt(local.CenterX(), local.CenterY())
}

// SortByOrder sorts elements by their fractional ordering key, with the
// identifier as a stable tiebreaker.
func SortByOrder(els []*Element) {
	sort.SliceStable(els, func(i, j int) bool {
		if els[i].FracIndex != els[j].FracIndex {
			return els[i].FracIndex < els[j].FracIndex
		}
		return els[i].ID < els[j].ID
	})
}
