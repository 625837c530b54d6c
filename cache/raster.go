package cache

import (
	"container/list"
	"math"
	"sync"
	"sync/atomic"

	"github.com/gogpu/gg"

	"github.com/gogpu/board"
	"github.com/gogpu/board/rough"
)

// Surface allocation ceilings, reflecting the most restrictive common
// mobile canvas limits. A requested raster that would exceed either is
// baked at a uniformly reduced scale instead of failing.
const (
	// MaxSurfaceDim is the hard ceiling on a single pixmap dimension.
	MaxSurfaceDim = 32767

	// MaxSurfaceArea is the hard ceiling on total pixels per pixmap.
	MaxSurfaceArea = 16777216

	// DefaultRasterBudgetMB is the default cache memory budget.
	DefaultRasterBudgetMB = 64

	bytesPerMB    = 1024 * 1024
	bytesPerPixel = 4

	// zoomBucketSteps quantizes zoom so nearby zoom levels share a
	// baked raster instead of thrashing the cache.
	zoomBucketSteps = 16

	// rasterPad is the scene-unit margin around the shape bounds that
	// absorbs stroke overshoot at the surface edges.
	rasterPad = 2
)

// ZoomBucket rounds a scale to the nearest 1/16th, clamped to a minimum
// of 1/16. Raster entries are keyed on the bucket, not the raw scale.
func ZoomBucket(scale float64) float64 {
	b := math.Round(scale*zoomBucketSteps) / zoomBucketSteps
	if b < 1.0/zoomBucketSteps {
		b = 1.0 / zoomBucketSteps
	}
	return b
}

// ClampScale reduces scale uniformly until a w x h scene-unit surface
// satisfies both allocation ceilings.
func ClampScale(w, h, scale float64) float64 {
	if scale <= 0 {
		scale = 1
	}
	if w <= 0 || h <= 0 {
		return scale
	}
	if w*scale > MaxSurfaceDim {
		scale = MaxSurfaceDim / w
	}
	if h*scale > MaxSurfaceDim {
		scale = MaxSurfaceDim / h
	}
	if w*h*scale*scale > MaxSurfaceArea {
		scale = math.Sqrt(MaxSurfaceArea / (w * h))
	}
	return scale
}

// Raster is a cached pixel buffer for one element at one zoom bucket.
type Raster struct {
	Pixmap *gg.Pixmap

	// Image is the pixmap wrapped for blitting via gg.Context.DrawImageEx.
	Image *gg.ImageBuf

	// Scale is the device-pixels-per-scene-unit the surface was actually
	// baked at, after clamping. Blits divide by it to recover scene size.
	Scale float64

	// MinX, MinY locate the pixmap origin relative to the element
	// origin, in scene units (padding included).
	MinX, MinY float64
}

// SizeBytes returns the surface memory footprint.
func (r *Raster) SizeBytes() int64 {
	if r == nil || r.Pixmap == nil {
		return 0
	}
	return int64(r.Pixmap.Width()) * int64(r.Pixmap.Height()) * bytesPerPixel
}

// rasterEntry binds a raster to its validity key and LRU node.
type rasterEntry struct {
	id      string
	version int64
	bucket  float64
	raster  *Raster
	size    int64
	node    *list.Element
}

// RasterCache memoizes baked element surfaces under a memory budget.
//
// Entries are keyed by (element identity, version, zoom bucket). Stale
// entries are evicted lazily when the element is next accessed — never by
// a background sweep. Least recently used surfaces go first when the
// budget is exceeded.
type RasterCache struct {
	mu      sync.Mutex
	entries map[string]*rasterEntry // element id -> newest entry
	lru     *list.List              // front = most recently used
	size    int64
	maxSize int64

	hits      atomic.Uint64
	misses    atomic.Uint64
	evictions atomic.Uint64
}

// NewRasterCache creates a raster cache with the given memory budget in
// megabytes. Non-positive budgets use DefaultRasterBudgetMB.
func NewRasterCache(maxSizeMB int) *RasterCache {
	if maxSizeMB <= 0 {
		maxSizeMB = DefaultRasterBudgetMB
	}
	return &RasterCache{
		entries: make(map[string]*rasterEntry),
		lru:     list.New(),
		maxSize: int64(maxSizeMB) * bytesPerMB,
	}
}

// Get returns the cached surface for the element at the given scale's
// zoom bucket. An entry baked for a different version or bucket is
// evicted on the spot and reported as a miss.
func (c *RasterCache) Get(el *board.Element, scale float64) (*Raster, bool) {
	bucket := ZoomBucket(scale)

	c.mu.Lock()
	e, ok := c.entries[el.ID]
	if !ok {
		c.mu.Unlock()
		c.misses.Add(1)
		return nil, false
	}
	if e.version != el.Version || e.bucket != bucket {
		c.removeLocked(e)
		c.mu.Unlock()
		c.misses.Add(1)
		return nil, false
	}
	c.lru.MoveToFront(e.node)
	ras := e.raster
	c.mu.Unlock()

	c.hits.Add(1)
	return ras, true
}

// GenerateRaster bakes the shape onto a fresh surface at the scale's zoom
// bucket, clamped to the allocation ceilings, and stores it. Never fails:
// pathological sizes come back at a reduced effective scale.
func (c *RasterCache) GenerateRaster(el *board.Element, shape *Shape, scale float64) *Raster {
	bucket := ZoomBucket(scale)

	lb := shape.LocalBounds.Expand(el.Style.StrokeWidth/2 + rasterPad)
	w := math.Max(lb.Width(), 1)
	h := math.Max(lb.Height(), 1)

	eff := ClampScale(w, h, bucket)
	if eff < bucket {
		board.Logger().Warn("cache: raster surface clamped",
			"element", el.ID, "requested", bucket, "effective", eff)
	}

	pw := int(math.Ceil(w * eff))
	ph := int(math.Ceil(h * eff))
	if pw < 1 {
		pw = 1
	}
	if ph < 1 {
		ph = 1
	}
	// Rounding up can land one pixel past the ceilings; both are hard
	// allocation limits, so re-clamp the integer dimensions.
	if pw > MaxSurfaceDim {
		pw = MaxSurfaceDim
	}
	if ph > MaxSurfaceDim {
		ph = MaxSurfaceDim
	}
	if pw*ph > MaxSurfaceArea {
		ph = MaxSurfaceArea / pw
	}

	pm := gg.NewPixmap(pw, ph)
	dc := gg.NewContext(pw, ph, gg.WithPixmap(pm))
	dc.Scale(eff, eff)
	dc.Translate(-lb.MinX, -lb.MinY)
	if err := rough.Draw(dc, shape.Drop, PaintFor(el.Style)); err != nil {
		board.Logger().Warn("cache: raster bake failed",
			"element", el.ID, "err", err)
	}

	ras := &Raster{
		Pixmap: pm,
		Image:  gg.ImageBufFromImage(pm.ToImage()),
		Scale:  eff,
		MinX:   lb.MinX,
		MinY:   lb.MinY,
	}

	c.mu.Lock()
	if existing, ok := c.entries[el.ID]; ok {
		c.removeLocked(existing)
	}
	entrySize := ras.SizeBytes()
	if entrySize <= c.maxSize {
		c.evictUntilSizeLocked(c.maxSize - entrySize)
		e := &rasterEntry{
			id:      el.ID,
			version: el.Version,
			bucket:  bucket,
			raster:  ras,
			size:    entrySize,
		}
		e.node = c.lru.PushFront(e)
		c.entries[el.ID] = e
		c.size += entrySize
	}
	c.mu.Unlock()

	return ras
}

// Prune evicts entries whose element identifier is not in live.
// Returns the number of entries removed.
func (c *RasterCache) Prune(live map[string]struct{}) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for id, e := range c.entries {
		if _, ok := live[id]; !ok {
			c.removeLocked(e)
			removed++
		}
	}
	return removed
}

// Clear removes all entries.
func (c *RasterCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	evicted := uint64(len(c.entries))
	c.entries = make(map[string]*rasterEntry)
	c.lru.Init()
	c.size = 0
	if evicted > 0 {
		c.evictions.Add(evicted)
	}
}

// Len returns the number of cached surfaces.
func (c *RasterCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// SizeBytes returns the current memory usage.
func (c *RasterCache) SizeBytes() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.size
}

// RasterStats contains cache counters for monitoring.
type RasterStats struct {
	Len       int
	Size      int64
	MaxSize   int64
	Hits      uint64
	Misses    uint64
	Evictions uint64
}

// Stats returns current counters.
func (c *RasterCache) Stats() RasterStats {
	c.mu.Lock()
	size := c.size
	maxSize := c.maxSize
	n := len(c.entries)
	c.mu.Unlock()

	return RasterStats{
		Len:       n,
		Size:      size,
		MaxSize:   maxSize,
		Hits:      c.hits.Load(),
		Misses:    c.misses.Load(),
		Evictions: c.evictions.Load(),
	}
}

// removeLocked unlinks an entry. Must be called with c.mu held.
func (c *RasterCache) removeLocked(e *rasterEntry) {
	c.lru.Remove(e.node)
	delete(c.entries, e.id)
	c.size -= e.size
	c.evictions.Add(1)
}

// evictUntilSizeLocked evicts LRU entries until size is at or below
// target. Must be called with c.mu held.
func (c *RasterCache) evictUntilSizeLocked(target int64) {
	if target < 0 {
		target = 0
	}
	for c.size > target && c.lru.Len() > 0 {
		back := c.lru.Back()
		if back == nil {
			break
		}
		c.removeLocked(back.Value.(*rasterEntry))
	}
}
