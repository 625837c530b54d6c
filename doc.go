// Package board implements the core rendering engine of a canvas-based
// diagram editor: a versioned element store, cached sketchy geometry,
// per-element raster caching, viewport culling, and frame-aligned render
// scheduling over two independent layers (static content and interactive
// overlay).
//
// # Overview
//
// The root package defines the element data model (a tagged union of
// drawable kinds), visual styles, geometry helpers, and fractional ordering
// keys. The engine itself is split into subpackages:
//
//   - scene: the authoritative element store with revision tokens and
//     synchronous observer fan-out
//   - rough: the deterministic hand-drawn geometry generator
//   - cache: shape and raster caches keyed by element version
//   - render: viewport culling, frame scheduling, and the layered renderer
//
// Rasterization is delegated to github.com/gogpu/gg, which provides the
// immediate-mode 2D surface all drawing lands on.
//
// # Quick Start
//
//	store := scene.NewStore()
//	store.ReplaceAll([]*board.Element{el})
//
//	r := render.NewRenderer(store,
//	    cache.NewShapeCache(), cache.NewRasterCache(0),
//	    render.NewPixmapTarget(800, 600),
//	    render.NewPixmapTarget(800, 600))
//	defer r.Destroy()
//
//	r.RequestStatic(render.Viewport{Zoom: 1, Width: 800, Height: 600})
package board
