// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"strings"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"

	"github.com/gogpu/board"
	"github.com/gogpu/board/cache"
	"github.com/gogpu/board/rough"
	"github.com/gogpu/board/scene"
)

// DefaultRasterThreshold is the polyline count at which an element's
// shape is considered expensive enough to bake through the raster cache.
const DefaultRasterThreshold = 24

// interactiveArgs is the payload of one interactive-path request.
type interactiveArgs struct {
	vp    Viewport
	state InteractiveState
}

// Renderer orchestrates the two render paths of a canvas view.
//
// The static path draws stable scene content (culled, shape-cached,
// optionally raster-cached) and repaints only when the scene revision
// token, the non-deleted element count, or the viewport changes. The
// interactive path draws transient affordances onto a separate target and
// repaints on any transient-state change. Each path has its own
// Scheduler, so a storm of pointer-move requests never forces a full
// static repaint.
//
// Caches are constructor-injected and may be shared between renderer
// instances (a main view and a thumbnail, for example); the Renderer
// never assumes exclusive ownership, but it does prune cache entries for
// elements that left the scene.
type Renderer struct {
	store   *scene.Store
	shapes  *cache.ShapeCache
	rasters *cache.RasterCache

	static      *PixmapTarget
	interactive *PixmapTarget

	staticSched      *Scheduler[Viewport]
	interactiveSched *Scheduler[interactiveArgs]

	requestFrame    FrameRequester
	background      gg.RGBA
	accent          string
	font            text.Face
	images          map[string]*gg.ImageBuf
	onPaint         func()
	rasterThreshold int

	// forceShapes bypasses the shape cache on every draw. Only the
	// export path sets it, to keep export fidelity independent of
	// on-screen cache state.
	forceShapes bool

	unsubscribe func() error

	lastRevision string
	lastCount    int
	lastViewport Viewport
	hasLast      bool

	destroyed bool
}

// NewRenderer creates a layered renderer over the given store, caches,
// and targets. It subscribes to the store so that scene replacement
// prunes stale cache entries and triggers a static repaint.
func NewRenderer(store *scene.Store, shapes *cache.ShapeCache, rasters *cache.RasterCache,
	static, interactive *PixmapTarget, opts ...Option) *Renderer {

	r := &Renderer{
		store:           store,
		shapes:          shapes,
		rasters:         rasters,
		static:          static,
		interactive:     interactive,
		background:      gg.White,
		accent:          "#6965db",
		images:          make(map[string]*gg.ImageBuf),
		rasterThreshold: DefaultRasterThreshold,
	}
	for _, opt := range opts {
		opt(r)
	}

	r.staticSched = NewScheduler(r.renderStatic, true, r.requestFrame)
	r.interactiveSched = NewScheduler(r.renderInteractive, true, r.requestFrame)

	unsub, err := store.Subscribe(r)
	if err != nil {
		// Only possible if this exact renderer is already subscribed,
		// which cannot happen for a fresh instance.
		board.Logger().Warn("render: store subscription failed", "err", err)
	}
	r.unsubscribe = unsub

	return r
}

// SceneReplaced implements scene.Observer. Entries for elements no longer
// in the store are evicted, and a static repaint is requested with the
// last known viewport.
func (r *Renderer) SceneReplaced(s *scene.Store) {
	if r.destroyed {
		return
	}
	live := make(map[string]struct{}, s.Len())
	for _, el := range s.Elements() {
		live[el.ID] = struct{}{}
	}
	if r.shapes != nil {
		r.shapes.Prune(live)
	}
	if r.rasters != nil {
		r.rasters.Prune(live)
	}
	if r.hasLast {
		r.RequestStatic(r.lastViewport)
	}
}

// RequestStatic schedules a static-path render for the given viewport.
func (r *Renderer) RequestStatic(vp Viewport) {
	if r.destroyed {
		return
	}
	r.staticSched.Request(vp.normalized())
}

// RequestInteractive schedules an interactive-path render.
func (r *Renderer) RequestInteractive(vp Viewport, state InteractiveState) {
	if r.destroyed {
		return
	}
	r.interactiveSched.Request(interactiveArgs{vp: vp.normalized(), state: state})
}

// Flush forces both paths to execute any pending render synchronously.
// Call before reading target pixels on teardown.
func (r *Renderer) Flush() {
	if r.destroyed {
		return
	}
	r.staticSched.Flush()
	r.interactiveSched.Flush()
}

// Destroy cancels pending work on both paths, unsubscribes from the
// store, and drops this renderer's cache references. It never mutates the
// store itself, which may outlive the renderer. Idempotent.
func (r *Renderer) Destroy() {
	if r.destroyed {
		return
	}
	r.destroyed = true
	r.staticSched.Cancel()
	r.interactiveSched.Cancel()
	if r.unsubscribe != nil {
		if err := r.unsubscribe(); err != nil {
			board.Logger().Warn("render: unsubscribe failed", "err", err)
		}
		r.unsubscribe = nil
	}
	r.shapes = nil
	r.rasters = nil
	r.images = nil
}

// renderStatic is the static-path render function.
func (r *Renderer) renderStatic(vp Viewport) {
	if r.destroyed {
		return
	}
	nonDeleted := r.store.NonDeleted()
	if r.hasLast &&
		r.lastRevision == r.store.Revision() &&
		r.lastCount == len(nonDeleted) &&
		r.lastViewport == vp {
		return
	}

	r.static.Clear(r.background)
	dc := r.static.Context()
	dc.Push()
	applyViewport(dc, vp)

	for _, el := range Visible(nonDeleted, vp) {
		r.safeDraw(dc, el, vp)
	}

	dc.Pop()

	r.lastRevision = r.store.Revision()
	r.lastCount = len(nonDeleted)
	r.lastViewport = vp
	r.hasLast = true
}

// renderInteractive is the interactive-path render function.
func (r *Renderer) renderInteractive(args interactiveArgs) {
	if r.destroyed {
		return
	}
	vp := args.vp
	r.interactive.Clear(gg.Transparent)
	dc := r.interactive.Context()
	dc.Push()
	applyViewport(dc, vp)

	if args.state.SelectionBox != nil {
		r.drawMarquee(dc, *args.state.SelectionBox, vp)
	}
	for _, id := range args.state.SelectedIDs {
		el, ok := r.store.Get(id)
		if !ok || el.Deleted {
			continue
		}
		r.drawSelection(dc, el, vp, len(args.state.SelectedIDs) == 1)
	}
	for _, p := range args.state.Pointers {
		r.drawPointer(dc, p, vp)
	}

	dc.Pop()

	if r.onPaint != nil {
		r.onPaint()
	}
}

// applyViewport installs the scene-to-device transform on a context.
func applyViewport(dc *gg.Context, vp Viewport) {
	s := vp.Scale()
	dc.Scale(s, s)
	dc.Translate(vp.ScrollX, vp.ScrollY)
}

// safeDraw renders one element with per-element isolation: a panic or
// error in one element's draw is logged with its identifier and bounds
// and never aborts the rest of the frame.
func (r *Renderer) safeDraw(dc *gg.Context, el *board.Element, vp Viewport) {
	defer func() {
		if rec := recover(); rec != nil {
			b := el.Bounds()
			board.Logger().Warn("render: element draw panicked",
				"element", el.ID, "kind", el.Kind.String(),
				"x", b.MinX, "y", b.MinY, "w", b.Width(), "h", b.Height(),
				"panic", rec)
		}
	}()
	if err := r.drawElement(dc, el, vp); err != nil {
		b := el.Bounds()
		board.Logger().Warn("render: element draw failed",
			"element", el.ID, "kind", el.Kind.String(),
			"x", b.MinX, "y", b.MinY, "w", b.Width(), "h", b.Height(),
			"err", err)
	}
}

// drawElement dispatches on the element kind and paints onto the context.
func (r *Renderer) drawElement(dc *gg.Context, el *board.Element, vp Viewport) error {
	dc.Push()
	defer dc.Pop()

	if el.Angle != 0 {
		c := el.Center()
		dc.RotateAbout(el.Angle, c.X, c.Y)
	}

	switch el.Kind {
	case board.KindText:
		r.drawText(dc, el)
		return nil

	case board.KindImage:
		r.drawImage(dc, el)
		return nil

	case board.KindRectangle, board.KindEllipse, board.KindDiamond,
		board.KindLine, board.KindFreeDraw:
		shape := r.shapes.GetOrGenerate(el, cache.Config{ForceRegenerate: r.forceShapes})
		if r.rasterWorthy(shape) {
			ras, ok := r.rasters.Get(el, vp.Scale())
			if !ok {
				ras = r.rasters.GenerateRaster(el, shape, vp.Scale())
			}
			r.blitRaster(dc, el, ras)
			return nil
		}
		dc.Translate(el.X, el.Y)
		return rough.Draw(dc, shape.Drop, cache.PaintFor(el.Style))
	}
	return nil
}

// rasterWorthy decides whether a shape is expensive enough to re-stroke
// that baking it pays off.
func (r *Renderer) rasterWorthy(shape *cache.Shape) bool {
	return r.rasterThreshold > 0 &&
		r.rasters != nil &&
		shape.Drop.LineCount() >= r.rasterThreshold
}

// blitRaster draws a baked surface at the element's position, rescaling
// from the surface's effective bake scale back to scene units.
func (r *Renderer) blitRaster(dc *gg.Context, el *board.Element, ras *cache.Raster) {
	if ras == nil || ras.Image == nil || ras.Scale <= 0 {
		return
	}
	dc.DrawImageEx(ras.Image, gg.DrawImageOptions{
		X:             el.X + ras.MinX,
		Y:             el.Y + ras.MinY,
		DstWidth:      float64(ras.Pixmap.Width()) / ras.Scale,
		DstHeight:     float64(ras.Pixmap.Height()) / ras.Scale,
		Interpolation: gg.InterpBilinear,
		Opacity:       1,
	})
}

// drawText paints a text element line by line. Skips silently (with a
// debug log) when no font is configured.
func (r *Renderer) drawText(dc *gg.Context, el *board.Element) {
	if r.font == nil {
		board.Logger().Debug("render: text element skipped, no font",
			"element", el.ID)
		return
	}
	c := el.Style.StrokeRGBA()
	dc.SetFont(r.font)
	dc.SetRGBA(c.R, c.G, c.B, c.A)

	lineHeight := el.FontSize * 1.25
	y := el.Y + el.FontSize
	for _, line := range strings.Split(el.Text, "\n") {
		dc.DrawString(line, el.X, y)
		y += lineHeight
	}
}

// drawImage paints an image element, scaled to the element extents.
func (r *Renderer) drawImage(dc *gg.Context, el *board.Element) {
	// Opacity 0 must stay invisible; gg treats a zero Opacity in
	// DrawImageOptions as "use the default of 1".
	if el.Style.Opacity <= 0 {
		return
	}
	img, ok := r.images[el.FileID]
	if !ok || img == nil {
		board.Logger().Debug("render: image element skipped, no data",
			"element", el.ID, "file", el.FileID)
		return
	}
	dc.DrawImageEx(img, gg.DrawImageOptions{
		X:             el.X,
		Y:             el.Y,
		DstWidth:      el.Width,
		DstHeight:     el.Height,
		Interpolation: gg.InterpBilinear,
		Opacity:       el.Style.Opacity,
	})
}

// drawSelection paints the dashed outline around a selected element,
// plus resize and rotate handles when it is the only selection.
func (r *Renderer) drawSelection(dc *gg.Context, el *board.Element, vp Viewport, withHandles bool) {
	s := vp.Scale()
	pad := 4 / s
	b := el.Bounds().Expand(pad)
	accent := board.TintToward(r.accent, gg.RGBA{}, 0, 1)

	dc.SetDash(8/s, 4/s)
	dc.SetRGBA(accent.R, accent.G, accent.B, accent.A)
	dc.SetLineWidth(1.5 / s)
	dc.ClearPath()
	dc.DrawRectangle(b.MinX, b.MinY, b.Width(), b.Height())
	if err := dc.Stroke(); err != nil {
		board.Logger().Warn("render: selection outline failed",
			"element", el.ID, "err", err)
	}
	dc.ClearDash()

	if !withHandles {
		return
	}
	size := 8 / s
	half := size / 2
	handles := []gg.Point{
		{X: b.MinX, Y: b.MinY},
		{X: b.CenterX(), Y: b.MinY},
		{X: b.MaxX, Y: b.MinY},
		{X: b.MaxX, Y: b.CenterY()},
		{X: b.MaxX, Y: b.MaxY},
		{X: b.CenterX(), Y: b.MaxY},
		{X: b.MinX, Y: b.MaxY},
		{X: b.MinX, Y: b.CenterY()},
		// Rotate handle above the top edge.
		{X: b.CenterX(), Y: b.MinY - 16/s},
	}
	for _, h := range handles {
		dc.ClearPath()
		dc.DrawRectangle(h.X-half, h.Y-half, size, size)
		dc.SetRGBA(1, 1, 1, 1)
		if err := dc.FillPreserve(); err != nil {
			continue
		}
		dc.SetRGBA(accent.R, accent.G, accent.B, accent.A)
		dc.SetLineWidth(1 / s)
		_ = dc.Stroke()
	}
}

// drawMarquee paints the in-progress drag-selection rectangle.
func (r *Renderer) drawMarquee(dc *gg.Context, box board.Rect, vp Viewport) {
	s := vp.Scale()
	fill := board.TintToward(r.accent, gg.White, 0.6, 0.2)
	line := board.TintToward(r.accent, gg.RGBA{}, 0, 0.8)

	dc.ClearPath()
	dc.DrawRectangle(box.MinX, box.MinY, box.Width(), box.Height())
	dc.SetRGBA(fill.R, fill.G, fill.B, fill.A)
	if err := dc.FillPreserve(); err != nil {
		return
	}
	dc.SetRGBA(line.R, line.G, line.B, line.A)
	dc.SetLineWidth(1 / s)
	_ = dc.Stroke()
}

// drawPointer paints a cursor triangle and optional name label.
func (r *Renderer) drawPointer(dc *gg.Context, p Pointer, vp Viewport) {
	s := vp.Scale()
	c := board.Style{StrokeColor: p.Color, Opacity: 1}.StrokeRGBA()

	size := 12 / s
	dc.ClearPath()
	dc.MoveTo(p.X, p.Y)
	dc.LineTo(p.X+size*0.4, p.Y+size)
	dc.LineTo(p.X+size, p.Y+size*0.4)
	dc.ClosePath()
	dc.SetRGBA(c.R, c.G, c.B, c.A)
	if err := dc.Fill(); err != nil {
		return
	}

	if p.Name != "" && r.font != nil {
		dc.SetFont(r.font)
		dc.DrawString(p.Name, p.X+size*1.2, p.Y+size*1.2)
	}
}

// RegisterImage adds or replaces the pixel data for an image element's
// FileID after construction.
func (r *Renderer) RegisterImage(fileID string, img *gg.ImageBuf) {
	if r.destroyed {
		return
	}
	r.images[fileID] = img
}
