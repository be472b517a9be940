package a1

import (
	"github.com/quadratichq/quadratic-sub012/internal/pos"
	"github.com/quadratichq/quadratic-sub012/internal/table"
)

// CellRefRangeKind tags which variant of the range union is populated.
type CellRefRangeKind int

const (
	CellRefRangeSheet CellRefRangeKind = iota
	CellRefRangeTable
)

// CellRefRange is a single comma-separated segment of an A1Selection:
// either a plain sheet-relative rectangle or a structured table
// reference (spec §3.9).
type CellRefRange struct {
	Kind  CellRefRangeKind
	Sheet RefRangeBounds
	Table TableRef
}

// NewCellRefRangeSheet wraps a RefRangeBounds.
func NewCellRefRangeSheet(b RefRangeBounds) CellRefRange {
	return CellRefRange{Kind: CellRefRangeSheet, Sheet: b}
}

// NewCellRefRangeTable wraps a TableRef.
func NewCellRefRangeTable(t TableRef) CellRefRange {
	return CellRefRange{Kind: CellRefRangeTable, Table: t}
}

// MightContainPos resolves the range against ctx (needed to look up
// table bounds) and reports whether p could lie within it.
func (c CellRefRange) MightContainPos(sheetID pos.SheetId, p pos.Pos, ctx *table.A1Context) bool {
	switch c.Kind {
	case CellRefRangeSheet:
		return c.Sheet.MightContainPos(p)
	case CellRefRangeTable:
		dt, ok := ctx.Tables.TryTable(c.Table.TableName)
		if !ok || dt.SheetID != sheetID {
			return false
		}
		rect, err := c.Table.ToRect(dt)
		if err != nil {
			return false
		}
		return rect.Contains(p)
	default:
		return false
	}
}

// Translate shifts every non-absolute coordinate by (dx, dy). Table
// references are returned unchanged: their bounds are computed
// dynamically from the table's own position, not stored coordinates.
func (c CellRefRange) Translate(dx, dy int64) CellRefRange {
	if c.Kind != CellRefRangeSheet {
		return c
	}
	return NewCellRefRangeSheet(c.Sheet.Translate(dx, dy))
}

// InsertColumn/DeleteColumn/InsertRow/DeleteRow shift a sheet-relative
// range's coordinates at or past the given index, mirroring the grid's
// own insert/delete shift semantics for stored references (spec §4.6).
// Table references pass through unchanged for the same reason as
// Translate.
func (c CellRefRange) InsertColumn(at int64) CellRefRange {
	if c.Kind != CellRefRangeSheet {
		return c
	}
	return NewCellRefRangeSheet(c.Sheet.InsertColumn(at))
}

func (c CellRefRange) DeleteColumn(at int64) CellRefRange {
	if c.Kind != CellRefRangeSheet {
		return c
	}
	return NewCellRefRangeSheet(c.Sheet.DeleteColumn(at))
}

func (c CellRefRange) InsertRow(at int64) CellRefRange {
	if c.Kind != CellRefRangeSheet {
		return c
	}
	return NewCellRefRangeSheet(c.Sheet.InsertRow(at))
}

func (c CellRefRange) DeleteRow(at int64) CellRefRange {
	if c.Kind != CellRefRangeSheet {
		return c
	}
	return NewCellRefRangeSheet(c.Sheet.DeleteRow(at))
}

// String formats the range without a sheet qualifier; table refs
// always format via their own String().
func (c CellRefRange) String() string {
	switch c.Kind {
	case CellRefRangeTable:
		return c.Table.String()
	default:
		return formatRefRangeBounds(c.Sheet)
	}
}
