// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package render turns scene content into pixels.
//
// It provides viewport math and culling (Viewport, Visible), frame-aligned
// render scheduling with coalescing and cancellation (Scheduler), CPU
// render targets (PixmapTarget), and the two-layer Renderer that
// orchestrates the element store, shape cache, and raster cache.
//
// The static layer holds stable scene content and repaints only when the
// scene revision, element count, or viewport changes. The interactive
// layer holds transient affordances (selection outlines, handles, pointer
// indicators) and repaints independently, so pointer movement never forces
// a full scene repaint.
package render
