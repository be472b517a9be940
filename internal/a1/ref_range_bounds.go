// Package a1 implements the A1 reference language: lexing, parsing,
// and formatting of cell/range/table references and selections (spec
// §4.2/§4.3/§4.4). It depends on package table for sheet-name and
// table-name resolution (an A1Context) but never on package grid, so
// that reference parsing stays decoupled from live sheet storage.
package a1

import (
	"errors"
	"fmt"

	"github.com/quadratichq/quadratic-sub012/internal/pos"
)

// Error sentinels for the A1 parsing contract (spec §4.2 edge cases).
var (
	ErrSpuriousDollarSign = errors.New("a1: spurious dollar sign")
	ErrInvalidRow         = errors.New("a1: row must be >= 1")
	ErrInvalidColumn      = errors.New("a1: invalid column")
	ErrTooManySheets      = errors.New("a1: all ranges in a selection must resolve to the same sheet")
	ErrUnknownSheet       = errors.New("a1: unknown sheet name")
	ErrUnknownTable       = errors.New("a1: unknown table name")
	ErrSyntax             = errors.New("a1: syntax error")
)

// RefRangeBounds is a rectangular range expressed in A1 coordinate
// space, where either end of either axis may be unbounded (whole row,
// whole column, or "*" for everything). Each populated coordinate also
// carries its own absolute ($) flag, since `A1:$B$2` mixes relative
// and absolute corners.
type RefRangeBounds struct {
	StartCol, StartRow *pos.CellRefCoord
	EndCol, EndRow     *pos.CellRefCoord
}

// NewRefRangeSingleCell builds a bounds value covering exactly one
// cell.
func NewRefRangeSingleCell(col, row pos.CellRefCoord) RefRangeBounds {
	return RefRangeBounds{StartCol: &col, StartRow: &row, EndCol: &col, EndRow: &row}
}

// NewRefRangeRelativeRect builds a fully-bounded, fully-relative
// RefRangeBounds from a Rect (used when converting a table reference
// to a plain range, spec §4.4 step "Derive ColRange").
func NewRefRangeRelativeRect(r pos.Rect) RefRangeBounds {
	sc := pos.NewCellRefCoord(r.Min.X, false)
	sr := pos.NewCellRefCoord(r.Min.Y, false)
	ec := pos.NewCellRefCoord(r.Max.X, false)
	er := pos.NewCellRefCoord(r.Max.Y, false)
	return RefRangeBounds{StartCol: &sc, StartRow: &sr, EndCol: &ec, EndRow: &er}
}

// IsUnbounded reports whether any corner is missing (whole row/column
// or the "everything" range).
func (b RefRangeBounds) IsUnbounded() bool {
	return b.StartCol == nil || b.StartRow == nil || b.EndCol == nil || b.EndRow == nil
}

// MightContainPos reports whether p could lie within these bounds,
// treating an unbounded side as matching any coordinate on that axis
// (spec §4.3 "open ends admitting any coordinate").
func (b RefRangeBounds) MightContainPos(p pos.Pos) bool {
	if !axisContains(b.StartCol, b.EndCol, p.X) {
		return false
	}
	return axisContains(b.StartRow, b.EndRow, p.Y)
}

// MightIntersectRect reports whether rect could overlap these bounds.
func (b RefRangeBounds) MightIntersectRect(rect pos.Rect) bool {
	if !axisIntersects(b.StartCol, b.EndCol, rect.Min.X, rect.Max.X) {
		return false
	}
	return axisIntersects(b.StartRow, b.EndRow, rect.Min.Y, rect.Max.Y)
}

// ContainsPos is the exact variant of MightContainPos: both ends
// unset means "matches anything" on that axis; both set means
// `min(a,b) <= p <= max(a,b)` (spec §4.3: "ranges are
// direction-independent").
func (b RefRangeBounds) ContainsPos(p pos.Pos) bool {
	return b.MightContainPos(p)
}

func axisContains(start, end *pos.CellRefCoord, v int64) bool {
	if start == nil || end == nil {
		return true
	}
	lo, hi := start.Coord, end.Coord
	if lo > hi {
		lo, hi = hi, lo
	}
	return v >= lo && v <= hi
}

func axisIntersects(start, end *pos.CellRefCoord, rmin, rmax int64) bool {
	if start == nil || end == nil {
		return true
	}
	lo, hi := start.Coord, end.Coord
	if lo > hi {
		lo, hi = hi, lo
	}
	return lo <= rmax && hi >= rmin
}

// ToRect converts fully-bounded coordinates to a Rect. Returns an
// error if any corner is unbounded.
func (b RefRangeBounds) ToRect() (pos.Rect, error) {
	if b.IsUnbounded() {
		return pos.Rect{}, fmt.Errorf("a1: cannot convert unbounded range to a rect")
	}
	return pos.NewRect(b.StartCol.Coord, b.StartRow.Coord, b.EndCol.Coord, b.EndRow.Coord), nil
}

// Translate shifts every non-absolute coordinate by (dx, dy), used
// when re-homing a clipboard paste or rewriting a code cell's
// embedded references after an insert/delete (spec §4.6/§4.10).
func (b RefRangeBounds) Translate(dx, dy int64) RefRangeBounds {
	return RefRangeBounds{
		StartCol: translateCoord(b.StartCol, dx),
		StartRow: translateCoord(b.StartRow, dy),
		EndCol:   translateCoord(b.EndCol, dx),
		EndRow:   translateCoord(b.EndRow, dy),
	}
}

func translateCoord(c *pos.CellRefCoord, delta int64) *pos.CellRefCoord {
	if c == nil {
		return nil
	}
	t := c.Translate(delta)
	return &t
}

// InsertColumn shifts coordinates at or past `at` right by one,
// mirroring grid.Sheet.InsertColumn's shift semantics for references
// instead of cells.
func (b RefRangeBounds) InsertColumn(at int64) RefRangeBounds {
	return RefRangeBounds{
		StartCol: shiftCoordInsert(b.StartCol, at),
		StartRow: b.StartRow,
		EndCol:   shiftCoordInsert(b.EndCol, at),
		EndRow:   b.EndRow,
	}
}

// DeleteColumn is InsertColumn's inverse.
func (b RefRangeBounds) DeleteColumn(at int64) RefRangeBounds {
	return RefRangeBounds{
		StartCol: shiftCoordDelete(b.StartCol, at),
		StartRow: b.StartRow,
		EndCol:   shiftCoordDelete(b.EndCol, at),
		EndRow:   b.EndRow,
	}
}

// InsertRow is InsertColumn's row-axis counterpart.
func (b RefRangeBounds) InsertRow(at int64) RefRangeBounds {
	return RefRangeBounds{
		StartCol: b.StartCol,
		StartRow: shiftCoordInsert(b.StartRow, at),
		EndCol:   b.EndCol,
		EndRow:   shiftCoordInsert(b.EndRow, at),
	}
}

// DeleteRow is InsertRow's inverse.
func (b RefRangeBounds) DeleteRow(at int64) RefRangeBounds {
	return RefRangeBounds{
		StartCol: b.StartCol,
		StartRow: shiftCoordDelete(b.StartRow, at),
		EndCol:   b.EndCol,
		EndRow:   shiftCoordDelete(b.EndRow, at),
	}
}

func shiftCoordInsert(c *pos.CellRefCoord, at int64) *pos.CellRefCoord {
	if c == nil || c.IsAbsolute {
		return c
	}
	if c.Coord >= at {
		shifted := pos.NewCellRefCoord(c.Coord+1, false)
		return &shifted
	}
	return c
}

func shiftCoordDelete(c *pos.CellRefCoord, at int64) *pos.CellRefCoord {
	if c == nil || c.IsAbsolute {
		return c
	}
	if c.Coord > at {
		shifted := pos.NewCellRefCoord(c.Coord-1, false)
		return &shifted
	}
	return c
}
