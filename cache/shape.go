// Package cache memoizes expensive per-element render data: generated
// sketchy geometry (ShapeCache) and rasterized pixel buffers (RasterCache).
//
// Both caches are keyed by element identity and validated against the
// element's version lazily on access — there is no eager invalidation
// call. Entries for elements that left the scene are reclaimed through
// Prune, driven by the renderer's store subscription.
//
// Caches are safe for concurrent readers because several renderer
// instances (main view, thumbnail, export) may share them. A miss race
// resolves last-writer-wins, which is harmless: regeneration is
// deterministic for a given element version and seed.
package cache

import (
	"math"
	"sync"
	"sync/atomic"

	"github.com/gogpu/gg"

	"github.com/gogpu/board"
	"github.com/gogpu/board/rough"
)

// DefaultHachureAngle is the slope of sketchy fill lines, in radians.
var DefaultHachureAngle = -41 * math.Pi / 180

// Config controls shape generation.
type Config struct {
	// ForceRegenerate bypasses the cache entirely: nothing is read and
	// nothing is stored. Export paths use it to guarantee fidelity
	// independent of on-screen cache state without polluting entries.
	ForceRegenerate bool

	// HachureGap is the spacing of sketchy fill lines in scene units.
	// Zero derives the gap from the stroke width.
	HachureGap float64

	// HachureAngle is the fill line angle in radians.
	// Zero uses DefaultHachureAngle.
	HachureAngle float64
}

func (c Config) gap(strokeWidth float64) float64 {
	if c.HachureGap > 0 {
		return c.HachureGap
	}
	return math.Max(4, strokeWidth*3)
}

func (c Config) angle() float64 {
	if c.HachureAngle != 0 {
		return c.HachureAngle
	}
	return DefaultHachureAngle
}

// Shape is the cached vector geometry for one element, in coordinates
// relative to the element origin. It is derived purely from the element's
// geometry and style, never from viewport state.
type Shape struct {
	ElementID string
	Version   int64
	Nonce     uint32

	Drop rough.Drop

	// LocalBounds is the drop's bounding box relative to the element
	// origin, including jitter overshoot. Falls back to the element's
	// unrotated extents when the drop is empty (text, images).
	LocalBounds board.Rect
}

// Empty reports whether the shape carries no vector geometry.
func (s *Shape) Empty() bool { return s.Drop.IsEmpty() }

// ShapeCache memoizes generated shapes keyed by element identity.
//
// An entry is stale as soon as the owning element's version differs from
// the version recorded at creation; Get treats stale entries as absent and
// the next GetOrGenerate overwrites them.
type ShapeCache struct {
	mu      sync.RWMutex
	entries map[string]*Shape

	hits        atomic.Uint64
	misses      atomic.Uint64
	regenerated atomic.Uint64
}

// NewShapeCache creates an empty shape cache.
func NewShapeCache() *ShapeCache {
	return &ShapeCache{entries: make(map[string]*Shape)}
}

// Get returns the cached shape for the element if it exists and is
// current. A version or nonce mismatch counts as a miss.
func (c *ShapeCache) Get(el *board.Element) (*Shape, bool) {
	c.mu.RLock()
	s, ok := c.entries[el.ID]
	c.mu.RUnlock()

	if !ok || s.Version != el.Version || s.Nonce != el.VersionNonce {
		c.misses.Add(1)
		return nil, false
	}
	c.hits.Add(1)
	return s, true
}

// GenerateShape derives a fresh shape from the element and stores it,
// unless cfg.ForceRegenerate is set, in which case the cache is left
// untouched. Degenerate geometry yields an empty shape and a warning,
// never an error.
func (c *ShapeCache) GenerateShape(el *board.Element, cfg Config) *Shape {
	s := buildShape(el, cfg)
	c.regenerated.Add(1)
	if !cfg.ForceRegenerate {
		c.mu.Lock()
		c.entries[el.ID] = s
		c.mu.Unlock()
	}
	return s
}

// GetOrGenerate returns the current cached shape, regenerating on miss.
func (c *ShapeCache) GetOrGenerate(el *board.Element, cfg Config) *Shape {
	if cfg.ForceRegenerate {
		return c.GenerateShape(el, cfg)
	}
	if s, ok := c.Get(el); ok {
		return s
	}
	return c.GenerateShape(el, cfg)
}

// Prune evicts entries whose element identifier is not in live.
// Returns the number of entries removed.
func (c *ShapeCache) Prune(live map[string]struct{}) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for id := range c.entries {
		if _, ok := live[id]; !ok {
			delete(c.entries, id)
			removed++
		}
	}
	return removed
}

// Clear removes all entries.
func (c *ShapeCache) Clear() {
	c.mu.Lock()
	c.entries = make(map[string]*Shape)
	c.mu.Unlock()
}

// Len returns the number of cached shapes.
func (c *ShapeCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// ShapeStats contains cache counters for monitoring.
type ShapeStats struct {
	Len         int
	Hits        uint64
	Misses      uint64
	Regenerated uint64
}

// Stats returns current counters.
func (c *ShapeCache) Stats() ShapeStats {
	return ShapeStats{
		Len:         c.Len(),
		Hits:        c.hits.Load(),
		Misses:      c.misses.Load(),
		Regenerated: c.regenerated.Load(),
	}
}

// buildShape derives geometry for one element. It never panics past this
// boundary: a failure inside generation produces an empty shape.
func buildShape(el *board.Element, cfg Config) (s *Shape) {
	s = &Shape{
		ElementID:   el.ID,
		Version:     el.Version,
		Nonce:       el.VersionNonce,
		LocalBounds: board.RectXYWH(0, 0, el.Width, el.Height),
	}

	defer func() {
		if r := recover(); r != nil {
			board.Logger().Warn("cache: geometry generation failed",
				"element", el.ID, "kind", el.Kind.String(), "panic", r)
			s.Drop = rough.Drop{}
		}
	}()

	gen := rough.NewGenerator(el.Seed, el.Style.Roughness)
	w := math.Abs(el.Width)
	h := math.Abs(el.Height)

	var sets []rough.OpSet
	switch el.Kind {
	case board.KindRectangle, board.KindDiamond, board.KindEllipse:
		if w == 0 && h == 0 {
			warnDegenerate(el)
			return s
		}
		var outline []gg.Point
		var stroke [][]gg.Point
		switch el.Kind {
		case board.KindRectangle:
			outline = rough.RectOutline(w, h)
			stroke = gen.Rectangle(w, h)
		case board.KindDiamond:
			outline = rough.DiamondOutline(w, h)
			stroke = gen.Diamond(w, h)
		default:
			outline = rough.EllipseOutline(w, h, 0)
			stroke = gen.Ellipse(w, h)
		}
		sets = append(sets, fillSets(gen, outline, el.Style, cfg)...)
		sets = append(sets, rough.OpSet{Role: rough.RoleStroke, Lines: stroke})

	case board.KindLine:
		if len(el.Points) < 2 {
			warnDegenerate(el)
			return s
		}
		if closed := isClosed(el.Points); closed && el.Style.Fill != board.FillNone {
			sets = append(sets, fillSets(gen, el.Points, el.Style, cfg)...)
		}
		sets = append(sets, rough.OpSet{
			Role:  rough.RoleStroke,
			Lines: gen.Polyline(el.Points, false),
		})

	case board.KindFreeDraw:
		if len(el.Points) < 2 {
			warnDegenerate(el)
			return s
		}
		sets = append(sets, rough.OpSet{
			Role:  rough.RoleStroke,
			Lines: gen.FreeDraw(el.Points),
		})

	case board.KindText, board.KindImage:
		// No vector geometry: the renderer draws these directly.
		return s
	}

	s.Drop = rough.Drop{Sets: sets}
	if min, max, ok := s.Drop.Bounds(); ok {
		s.LocalBounds = board.Rect{MinX: min.X, MinY: min.Y, MaxX: max.X, MaxY: max.Y}
	}
	return s
}

// fillSets builds the fill op sets for a closed outline per the style.
func fillSets(gen *rough.Generator, outline []gg.Point, style board.Style, cfg Config) []rough.OpSet {
	gap := cfg.gap(style.StrokeWidth)
	angle := cfg.angle()

	switch style.Fill {
	case board.FillSolid:
		return []rough.OpSet{{Role: rough.RoleFillSolid, Lines: [][]gg.Point{outline}}}
	case board.FillHachure:
		return []rough.OpSet{{Role: rough.RoleFillSketch, Lines: gen.Hachure(outline, gap, angle)}}
	case board.FillCrossHatch:
		lines := gen.Hachure(outline, gap, angle)
		lines = append(lines, gen.Hachure(outline, gap, angle+math.Pi/2)...)
		return []rough.OpSet{{Role: rough.RoleFillSketch, Lines: lines}}
	default:
		return nil
	}
}

// isClosed reports whether a point sequence ends where it starts.
func isClosed(pts []gg.Point) bool {
	if len(pts) < 3 {
		return false
	}
	return pts[0].Distance(pts[len(pts)-1]) < 1e-6
}

func warnDegenerate(el *board.Element) {
	board.Logger().Warn("cache: degenerate element geometry",
		"element", el.ID, "kind", el.Kind.String())
}

// PaintFor resolves an element style into drop paint.
func PaintFor(s board.Style) rough.Paint {
	return rough.Paint{
		Stroke:      s.StrokeRGBA(),
		Fill:        s.FillRGBA(),
		StrokeWidth: s.StrokeWidth,
	}
}
