// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import "github.com/gogpu/board"

// Pointer is a cursor indicator drawn on the interactive layer, in scene
// coordinates. Name, when set, is rendered as a label next to the cursor
// (e.g. for remote participants).
type Pointer struct {
	Name  string
	X, Y  float64
	Color string
}

// InteractiveState is the transient UI state drawn onto the interactive
// layer: the active selection, an in-progress marquee drag, and pointer
// indicators. It changes independently of scene content, which is why
// the interactive path repaints on its own schedule.
type InteractiveState struct {
	SelectedIDs  []string
	SelectionBox *board.Rect
	Pointers     []Pointer
}
