// Package borders implements per-sheet cell borders: four independent
// Contiguous2D maps (top, bottom, left, right) plus baseline layers,
// with timestamp-wins conflict resolution on a shared edge, per spec
// §3.8.
package borders

import (
	"github.com/quadratichq/quadratic-sub012/internal/format"
	"github.com/quadratichq/quadratic-sub012/internal/pos"
)

// LineStyle is the stroke style of a border edge.
type LineStyle int

const (
	Line1 LineStyle = iota
	Line2
	Line3
	Dotted
	Dashed
	Double
)

// RGBA is a simple 8-bit-per-channel color.
type RGBA struct {
	R, G, B, A uint8
}

// BorderStyleTimestamp is one edge's style plus the ordering value
// used to resolve conflicts when two adjacent cells each specify the
// shared edge differently: the larger Timestamp wins (see newerWins).
// Timestamp is supplied by whoever builds the style; no package in
// this module assigns it.
type BorderStyleTimestamp struct {
	Color     RGBA
	Line      LineStyle
	Timestamp int64
}

// newerWins returns whichever of a, b has the larger Timestamp; b wins
// ties, matching "more recent" semantics for a border set after an
// identical-tick baseline layer.
func newerWins(a BorderStyleTimestamp, aOK bool, b BorderStyleTimestamp) BorderStyleTimestamp {
	if !aOK || b.Timestamp >= a.Timestamp {
		return b
	}
	return a
}

// Edge names one of a cell's four borders.
type Edge int

const (
	Top Edge = iota
	Bottom
	Left
	Right
)

// SheetBorders holds one sheet's border state: per-edge cell-level
// overrides plus the all/columns/rows baseline layers that act as
// background defaults beneath them.
type SheetBorders struct {
	top, bottom, left, right *format.Contiguous2D[BorderStyleTimestamp]

	baselineAll     *BorderStyleTimestamp
	baselineColumns map[int64]BorderStyleTimestamp
	baselineRows    map[int64]BorderStyleTimestamp
}

// NewSheetBorders returns an empty border store.
func NewSheetBorders() *SheetBorders {
	return &SheetBorders{
		top:             format.New[BorderStyleTimestamp](),
		bottom:          format.New[BorderStyleTimestamp](),
		left:            format.New[BorderStyleTimestamp](),
		right:           format.New[BorderStyleTimestamp](),
		baselineColumns: make(map[int64]BorderStyleTimestamp),
		baselineRows:    make(map[int64]BorderStyleTimestamp),
	}
}

func (b *SheetBorders) layer(edge Edge) *format.Contiguous2D[BorderStyleTimestamp] {
	switch edge {
	case Top:
		return b.top
	case Bottom:
		return b.bottom
	case Left:
		return b.left
	default:
		return b.right
	}
}

// SetEdge applies style to the given edge across rect. A cell that
// already has a style on that edge keeps whichever of the two has the
// larger timestamp.
func (b *SheetBorders) SetEdge(rect pos.Rect, edge Edge, style BorderStyleTimestamp) {
	b.layer(edge).Update(rect, func(existing BorderStyleTimestamp, ok bool) BorderStyleTimestamp {
		return newerWins(existing, ok, style)
	})
}

// SetRect applies style to every edge in edges across rect — the
// common "set all four borders" / "set outer border" operation.
func (b *SheetBorders) SetRect(rect pos.Rect, edges []Edge, style BorderStyleTimestamp) {
	for _, e := range edges {
		b.SetEdge(rect, e, style)
	}
}

// SetBaselineAll sets the sheet-wide background border layer.
func (b *SheetBorders) SetBaselineAll(style BorderStyleTimestamp) {
	if b.baselineAll == nil || style.Timestamp >= b.baselineAll.Timestamp {
		b.baselineAll = &style
	}
}

// SetBaselineColumn sets column x's background border layer.
func (b *SheetBorders) SetBaselineColumn(x int64, style BorderStyleTimestamp) {
	b.baselineColumns[x] = newerWins(b.baselineColumns[x], true, style)
}

// SetBaselineRow sets row y's background border layer.
func (b *SheetBorders) SetBaselineRow(y int64, style BorderStyleTimestamp) {
	b.baselineRows[y] = newerWins(b.baselineRows[y], true, style)
}

// GetEdge resolves the style that applies to p's given edge: a
// cell-level override wins, else the row baseline, else the column
// baseline, else the sheet-wide baseline, else ok=false (no border).
func (b *SheetBorders) GetEdge(p pos.Pos, edge Edge) (BorderStyleTimestamp, bool) {
	if style, ok := b.layer(edge).Get(p.X, p.Y); ok {
		return style, true
	}
	if style, ok := b.baselineRows[p.Y]; ok {
		return style, true
	}
	if style, ok := b.baselineColumns[p.X]; ok {
		return style, true
	}
	if b.baselineAll != nil {
		return *b.baselineAll, true
	}
	return BorderStyleTimestamp{}, false
}

// InsertColumn shifts every edge layer and the column baseline right
// at x; row baselines are untouched.
func (b *SheetBorders) InsertColumn(at int64) {
	b.top.InsertColumn(at)
	b.bottom.InsertColumn(at)
	b.left.InsertColumn(at)
	b.right.InsertColumn(at)
	b.baselineColumns = shiftBaseline(b.baselineColumns, at, 1)
}

// DeleteColumn is InsertColumn's inverse.
func (b *SheetBorders) DeleteColumn(at int64) {
	b.top.DeleteColumn(at)
	b.bottom.DeleteColumn(at)
	b.left.DeleteColumn(at)
	b.right.DeleteColumn(at)
	b.baselineColumns = deleteBaseline(b.baselineColumns, at)
}

// InsertRow shifts every edge layer and the row baseline down at y.
func (b *SheetBorders) InsertRow(at int64) {
	b.top.InsertRow(at)
	b.bottom.InsertRow(at)
	b.left.InsertRow(at)
	b.right.InsertRow(at)
	b.baselineRows = shiftBaseline(b.baselineRows, at, 1)
}

// DeleteRow is InsertRow's inverse.
func (b *SheetBorders) DeleteRow(at int64) {
	b.top.DeleteRow(at)
	b.bottom.DeleteRow(at)
	b.left.DeleteRow(at)
	b.right.DeleteRow(at)
	b.baselineRows = deleteBaseline(b.baselineRows, at)
}

// BaselineColumn returns column x's baseline border style, and whether
// one is set at all. Used to snapshot a column's baseline before
// DeleteColumn drops it, so the reverse InsertColumn can restore it
// verbatim.
func (b *SheetBorders) BaselineColumn(x int64) (BorderStyleTimestamp, bool) {
	style, ok := b.baselineColumns[x]
	return style, ok
}

// RestoreBaselineColumn sets (or, if ok is false, clears) column x's
// baseline border style verbatim, undoing a DeleteColumn that dropped
// it, regardless of the restored style's timestamp.
func (b *SheetBorders) RestoreBaselineColumn(x int64, style BorderStyleTimestamp, ok bool) {
	if !ok {
		delete(b.baselineColumns, x)
		return
	}
	b.baselineColumns[x] = style
}

// BaselineRow is BaselineColumn's row-axis counterpart.
func (b *SheetBorders) BaselineRow(y int64) (BorderStyleTimestamp, bool) {
	style, ok := b.baselineRows[y]
	return style, ok
}

// RestoreBaselineRow is RestoreBaselineColumn's row-axis counterpart.
func (b *SheetBorders) RestoreBaselineRow(y int64, style BorderStyleTimestamp, ok bool) {
	if !ok {
		delete(b.baselineRows, y)
		return
	}
	b.baselineRows[y] = style
}

// Clone returns an independent copy of the border store.
func (b *SheetBorders) Clone() *SheetBorders {
	baselineColumns := make(map[int64]BorderStyleTimestamp, len(b.baselineColumns))
	for k, v := range b.baselineColumns {
		baselineColumns[k] = v
	}
	baselineRows := make(map[int64]BorderStyleTimestamp, len(b.baselineRows))
	for k, v := range b.baselineRows {
		baselineRows[k] = v
	}
	var baselineAll *BorderStyleTimestamp
	if b.baselineAll != nil {
		v := *b.baselineAll
		baselineAll = &v
	}
	return &SheetBorders{
		top: b.top.Clone(), bottom: b.bottom.Clone(), left: b.left.Clone(), right: b.right.Clone(),
		baselineAll: baselineAll, baselineColumns: baselineColumns, baselineRows: baselineRows,
	}
}

// BorderSnapshot pairs a sub-rectangle with the style that applied on
// one edge there (or no style at all) before a SetEdge/SetRect call
// overwrote it.
type BorderSnapshot struct {
	Rect  pos.Rect
	Style BorderStyleTimestamp
	OK    bool
}

// SnapshotEdge captures edge's existing styles across rect, subdivided
// the same way SheetFormats.Snapshot does for formats, for use as a
// SetBorders operation's reverse (package operation).
func (b *SheetBorders) SnapshotEdge(rect pos.Rect, edge Edge) []BorderSnapshot {
	var out []BorderSnapshot
	remaining := []pos.Rect{rect}
	b.layer(edge).ForEachInRect(rect, func(r pos.Rect, style BorderStyleTimestamp) {
		out = append(out, BorderSnapshot{Rect: r, Style: style, OK: true})
		remaining = format.SubtractRects(remaining, r)
	})
	for _, gap := range remaining {
		out = append(out, BorderSnapshot{Rect: gap})
	}
	return out
}

// RestoreEdge replaces edge's styles at every snapshot's Rect with its
// Style, undoing a SetEdge/SetRect call regardless of the new style's
// timestamp (an undo must win unconditionally, unlike a fresh edit).
func (b *SheetBorders) RestoreEdge(edge Edge, snapshots []BorderSnapshot) {
	layer := b.layer(edge)
	for _, s := range snapshots {
		layer.Set(s.Rect, s.Style)
	}
}

func shiftBaseline(m map[int64]BorderStyleTimestamp, at, delta int64) map[int64]BorderStyleTimestamp {
	out := make(map[int64]BorderStyleTimestamp, len(m))
	for k, v := range m {
		if k >= at {
			out[k+delta] = v
		} else {
			out[k] = v
		}
	}
	return out
}

func deleteBaseline(m map[int64]BorderStyleTimestamp, at int64) map[int64]BorderStyleTimestamp {
	out := make(map[int64]BorderStyleTimestamp, len(m))
	for k, v := range m {
		switch {
		case k == at:
			continue
		case k > at:
			out[k-1] = v
		default:
			out[k] = v
		}
	}
	return out
}
