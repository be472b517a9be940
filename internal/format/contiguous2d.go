// Package format implements per-sheet cell formatting: the
// Contiguous2D run-length rectangle store and the FormatUpdate
// fall-through resolution described in spec §3.7.
package format

import (
	"github.com/quadratichq/quadratic-sub012/internal/pos"
)

// Unbounded marks a Rect edge that extends to infinity, used to
// represent "whole row" / "whole column" / "whole sheet" overrides
// inside the same structure that stores per-cell overrides.
const Unbounded = int64(1) << 62

// Contiguous2D stores a value of type T over axis-aligned rectangles
// of the infinite grid as a list of non-overlapping entries. Only
// rectangles that have been explicitly Set are stored; Get against any
// other point reports ok=false. This is the RLE replacement for a
// per-cell hash map described in spec §9 "2D run-length formatting":
// distinct format blocks are the unit of storage and of update cost,
// not individual cells.
type Contiguous2D[T any] struct {
	entries []entry[T]
}

type entry[T any] struct {
	rect  pos.Rect
	value T
}

// New returns an empty Contiguous2D.
func New[T any]() *Contiguous2D[T] {
	return &Contiguous2D[T]{}
}

// Get returns the value covering (x, y) and true, or the zero value
// and false if no entry covers that point. When entries overlap (they
// should not, by construction) the most recently added entry wins.
func (c *Contiguous2D[T]) Get(x, y int64) (T, bool) {
	for i := len(c.entries) - 1; i >= 0; i-- {
		if rectContainsPoint(c.entries[i].rect, x, y) {
			return c.entries[i].value, true
		}
	}
	var zero T
	return zero, false
}

// Set unconditionally overwrites value across rect: any existing
// entries are clipped to the portion outside rect (possibly producing
// several smaller entries) and a single new entry for rect is
// appended. Matches spec example E5: "Contiguous2D deduplicates so
// only the overridden rectangle stores the new style."
func (c *Contiguous2D[T]) Set(rect pos.Rect, value T) {
	next := make([]entry[T], 0, len(c.entries)+1)
	for _, e := range c.entries {
		for _, frag := range rectMinus(e.rect, rect) {
			next = append(next, entry[T]{rect: frag, value: e.value})
		}
	}
	next = append(next, entry[T]{rect: rect, value: value})
	c.entries = next
}

// Update applies merge to every distinct sub-rectangle of rect,
// passing the existing value (if any) so the caller can combine
// old and new state — field-wise fall-through for FormatUpdate,
// timestamp comparison for borders. Sub-rectangles are computed by
// clipping rect against existing entries; any remainder of rect not
// covered by an existing entry is merged against the zero value.
func (c *Contiguous2D[T]) Update(rect pos.Rect, merge func(existing T, ok bool) T) {
	remaining := []pos.Rect{rect}
	var toAdd []entry[T]
	kept := make([]entry[T], 0, len(c.entries))

	for _, e := range c.entries {
		overlap, ok := rectIntersect(e.rect, rect)
		if !ok {
			kept = append(kept, e)
			continue
		}
		// the non-overlapping remainder of e stays as-is
		for _, frag := range rectMinus(e.rect, rect) {
			kept = append(kept, entry[T]{rect: frag, value: e.value})
		}
		toAdd = append(toAdd, entry[T]{rect: overlap, value: merge(e.value, true)})
		remaining = subtractAll(remaining, overlap)
	}

	for _, r := range remaining {
		var zero T
		toAdd = append(toAdd, entry[T]{rect: r, value: merge(zero, false)})
	}

	c.entries = append(kept, toAdd...)
}

// ForEachInRect visits every entry overlapping rect, clipped to rect.
// Used by SheetFormats.Snapshot and package borders' edge snapshots,
// which need the exact stored sub-rectangles.
func (c *Contiguous2D[T]) ForEachInRect(rect pos.Rect, fn func(r pos.Rect, value T)) {
	for _, e := range c.entries {
		if overlap, ok := rectIntersect(e.rect, rect); ok {
			fn(overlap, e.value)
		}
	}
}

// InsertColumn shifts every entry whose Min.X >= at one column right,
// splitting entries that straddle the insertion point the same way
// Sheet.InsertRow splits blocks in package grid.
func (c *Contiguous2D[T]) InsertColumn(at int64) {
	c.entries = shiftEntries(c.entries, at, true, 1)
}

// DeleteColumn removes column `at` from every entry's span and shifts
// everything to its right one column left.
func (c *Contiguous2D[T]) DeleteColumn(at int64) {
	c.entries = deleteAxis(c.entries, at, true)
}

// InsertRow is InsertColumn's row-axis counterpart.
func (c *Contiguous2D[T]) InsertRow(at int64) {
	c.entries = shiftEntries(c.entries, at, false, 1)
}

// DeleteRow is DeleteColumn's row-axis counterpart.
func (c *Contiguous2D[T]) DeleteRow(at int64) {
	c.entries = deleteAxis(c.entries, at, false)
}

func rectContainsPoint(r pos.Rect, x, y int64) bool {
	return x >= r.Min.X && x <= r.Max.X && y >= r.Min.Y && y <= r.Max.Y
}

func rectIntersect(a, b pos.Rect) (pos.Rect, bool) {
	minX, minY := maxI64(a.Min.X, b.Min.X), maxI64(a.Min.Y, b.Min.Y)
	maxX, maxY := minI64(a.Max.X, b.Max.X), minI64(a.Max.Y, b.Max.Y)
	if minX > maxX || minY > maxY {
		return pos.Rect{}, false
	}
	return pos.NewRect(minX, minY, maxX, maxY), true
}

// rectMinus returns the fragments of a that lie outside b, as up to
// four axis-aligned rectangles (top strip, bottom strip, left strip,
// right strip of the remaining middle band).
func rectMinus(a, b pos.Rect) []pos.Rect {
	overlap, ok := rectIntersect(a, b)
	if !ok {
		return []pos.Rect{a}
	}
	var out []pos.Rect
	if a.Min.Y < overlap.Min.Y {
		out = append(out, pos.NewRect(a.Min.X, a.Min.Y, a.Max.X, overlap.Min.Y-1))
	}
	if a.Max.Y > overlap.Max.Y {
		out = append(out, pos.NewRect(a.Min.X, overlap.Max.Y+1, a.Max.X, a.Max.Y))
	}
	if a.Min.X < overlap.Min.X {
		out = append(out, pos.NewRect(a.Min.X, overlap.Min.Y, overlap.Min.X-1, overlap.Max.Y))
	}
	if a.Max.X > overlap.Max.X {
		out = append(out, pos.NewRect(overlap.Max.X+1, overlap.Min.Y, a.Max.X, overlap.Max.Y))
	}
	return out
}

func subtractAll(rects []pos.Rect, cut pos.Rect) []pos.Rect {
	out := make([]pos.Rect, 0, len(rects))
	for _, r := range rects {
		out = append(out, rectMinus(r, cut)...)
	}
	return out
}

// Clone returns an independent copy: later Sets on either copy never
// affect the other. Entry values are copied by value, which is enough
// independence for FormatUpdate/BorderStyleTimestamp since neither
// type is ever mutated in place once stored (Set always replaces
// whole entries).
func (c *Contiguous2D[T]) Clone() *Contiguous2D[T] {
	return &Contiguous2D[T]{entries: append([]entry[T]{}, c.entries...)}
}

// SubtractRects removes cut from every rect in rects, for callers
// outside this package that need the same "uncovered remainder"
// computation Snapshot uses (package borders' own edge snapshots).
func SubtractRects(rects []pos.Rect, cut pos.Rect) []pos.Rect {
	return subtractAll(rects, cut)
}

func maxI64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}

func minI64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}

// shiftEntries shifts every entry at-or-past `at` on the given axis by
// delta, splitting an entry that straddles `at` into an unshifted
// upper/left part and a shifted lower/right part.
func shiftEntries[T any](entries []entry[T], at int64, xAxis bool, delta int64) []entry[T] {
	next := make([]entry[T], 0, len(entries)+1)
	for _, e := range entries {
		lo, hi := e.rect.Min.Y, e.rect.Max.Y
		if xAxis {
			lo, hi = e.rect.Min.X, e.rect.Max.X
		}
		switch {
		case hi < at:
			next = append(next, e)
		case lo >= at:
			next = append(next, entry[T]{rect: shiftRect(e.rect, xAxis, delta), value: e.value})
		default:
			upper := clipRect(e.rect, xAxis, lo, at-1)
			lower := clipRect(e.rect, xAxis, at, hi)
			next = append(next,
				entry[T]{rect: upper, value: e.value},
				entry[T]{rect: shiftRect(lower, xAxis, delta), value: e.value},
			)
		}
	}
	return next
}

func deleteAxis[T any](entries []entry[T], at int64, xAxis bool) []entry[T] {
	next := make([]entry[T], 0, len(entries))
	for _, e := range entries {
		lo, hi := e.rect.Min.Y, e.rect.Max.Y
		if xAxis {
			lo, hi = e.rect.Min.X, e.rect.Max.X
		}
		if lo <= at && hi >= at && lo == hi {
			continue // entry was exactly the deleted line
		}
		r := e.rect
		if lo <= at && hi >= at {
			// straddles: drop the single line `at`, shrink by one
			r = clipRect(r, xAxis, lo, hi-1)
		} else if lo > at {
			r = shiftRect(r, xAxis, -1)
		}
		next = append(next, entry[T]{rect: r, value: e.value})
	}
	return next
}

func clipRect(r pos.Rect, xAxis bool, lo, hi int64) pos.Rect {
	if xAxis {
		return pos.NewRect(lo, r.Min.Y, hi, r.Max.Y)
	}
	return pos.NewRect(r.Min.X, lo, r.Max.X, hi)
}

func shiftRect(r pos.Rect, xAxis bool, delta int64) pos.Rect {
	if xAxis {
		return pos.NewRect(r.Min.X+delta, r.Min.Y, r.Max.X+delta, r.Max.Y)
	}
	return pos.NewRect(r.Min.X, r.Min.Y+delta, r.Max.X, r.Max.Y+delta)
}
