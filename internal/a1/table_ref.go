package a1

import (
	"fmt"
	"strings"

	"github.com/quadratichq/quadratic-sub012/internal/pos"
	"github.com/quadratichq/quadratic-sub012/internal/table"
)

// ColRangeKind tags which shape of column selector a TableRef carries.
type ColRangeKind int

const (
	ColRangeAll ColRangeKind = iota
	ColRangeCol
	ColRangeColRange
	ColRangeColToEnd
)

// ColRange is a table's column selector: every column, one named
// column, an inclusive named range, or a named column through the
// table's last column.
type ColRange struct {
	Kind ColRangeKind
	Col1 string
	Col2 string
}

// TableRef is a structured reference into a DataTable (spec §3.9,
// §4.4): `TableName[[#DATA],[#HEADERS],[Col1]]` and its shorthands.
type TableRef struct {
	TableName string
	Cols      ColRange
	Data      bool
	Headers   bool
	Totals    bool
	ThisRow   bool
}

// ToRect resolves this reference against the table's current bounds
// and column list, yielding the rectangle it currently denotes.
func (t TableRef) ToRect(dt table.DataTable) (pos.Rect, error) {
	x0, x1 := dt.Bounds.Min.X, dt.Bounds.Max.X
	switch t.Cols.Kind {
	case ColRangeCol:
		idx, ok := dt.ColumnIndex(t.Cols.Col1)
		if !ok {
			return pos.Rect{}, fmt.Errorf("a1: table %q has no column %q", dt.Name, t.Cols.Col1)
		}
		x0 = dt.Bounds.Min.X + int64(idx)
		x1 = x0
	case ColRangeColRange:
		i1, ok1 := dt.ColumnIndex(t.Cols.Col1)
		i2, ok2 := dt.ColumnIndex(t.Cols.Col2)
		if !ok1 || !ok2 {
			return pos.Rect{}, fmt.Errorf("a1: table %q missing column in range %q:%q", dt.Name, t.Cols.Col1, t.Cols.Col2)
		}
		if i1 > i2 {
			i1, i2 = i2, i1
		}
		x0 = dt.Bounds.Min.X + int64(i1)
		x1 = dt.Bounds.Min.X + int64(i2)
	case ColRangeColToEnd:
		idx, ok := dt.ColumnIndex(t.Cols.Col1)
		if !ok {
			return pos.Rect{}, fmt.Errorf("a1: table %q has no column %q", dt.Name, t.Cols.Col1)
		}
		x0 = dt.Bounds.Min.X + int64(idx)
		x1 = dt.Bounds.Max.X
	}

	headerRow := dt.Bounds.Min.Y
	dataTop, dataBottom := dt.Bounds.Min.Y, dt.Bounds.Max.Y
	if dt.ShowName || dt.ShowColumns {
		dataTop = headerRow + 1
	}

	switch {
	case t.Data && t.Headers:
		return pos.NewRect(x0, dt.Bounds.Min.Y, x1, dt.Bounds.Max.Y), nil
	case t.Headers && !t.Data:
		return pos.NewRect(x0, headerRow, x1, headerRow), nil
	case t.Data && !t.Headers:
		return pos.NewRect(x0, dataTop, x1, dataBottom), nil
	default:
		return pos.NewRect(x0, dt.Bounds.Min.Y, x1, dt.Bounds.Max.Y), nil
	}
}

// CheckForTableRef implements spec §4.4's rect-to-table-ref
// conversion: given a fully-bounded range on sheetID, find the table
// that contains the range's top-left cell and whose column span
// contains the range, then derive the most specific TableRef
// possible. Returns ok=false if no conversion applies (unbounded
// range, no table at that cell, or the range's x-span escapes the
// table's columns).
func CheckForTableRef(sheetID pos.SheetId, bounds RefRangeBounds, tables *table.TableMap) (TableRef, bool) {
	if bounds.IsUnbounded() {
		return TableRef{}, false
	}
	rect, err := bounds.ToRect()
	if err != nil {
		return TableRef{}, false
	}
	dt, ok := tables.TableAt(pos.NewSheetPos(sheetID, rect.Min.X, rect.Min.Y))
	if !ok {
		return TableRef{}, false
	}
	if rect.Min.X < dt.Bounds.Min.X || rect.Max.X > dt.Bounds.Max.X {
		return TableRef{}, false
	}

	var cols ColRange
	switch {
	case rect.Min.X == dt.Bounds.Min.X && rect.Max.X == dt.Bounds.Max.X:
		cols = ColRange{Kind: ColRangeAll}
	case rect.Min.X == rect.Max.X:
		name := dt.Columns[rect.Min.X-dt.Bounds.Min.X]
		cols = ColRange{Kind: ColRangeCol, Col1: name}
	default:
		name1 := dt.Columns[rect.Min.X-dt.Bounds.Min.X]
		name2 := dt.Columns[rect.Max.X-dt.Bounds.Min.X]
		cols = ColRange{Kind: ColRangeColRange, Col1: name1, Col2: name2}
	}

	ref := TableRef{TableName: dt.Name, Cols: cols}
	switch {
	case rect.Min.Y == dt.Bounds.Min.Y && rect.Max.Y == dt.Bounds.Max.Y:
		ref.Data, ref.Headers = true, true
	case rect.Min.Y == dt.Bounds.Min.Y && rect.Max.Y == dt.Bounds.Min.Y:
		ref.Headers = true
	default:
		ref.Data = true
	}
	return ref, true
}

// String renders the table reference the way it round-trips through
// the parser (spec E3).
func (t TableRef) String() string {
	var specifiers []string
	if t.Data {
		specifiers = append(specifiers, "#DATA")
	}
	if t.Headers {
		specifiers = append(specifiers, "#HEADERS")
	}
	if t.Totals {
		specifiers = append(specifiers, "#TOTALS")
	}
	if t.ThisRow {
		specifiers = append(specifiers, "#THIS ROW")
	}
	switch t.Cols.Kind {
	case ColRangeCol:
		specifiers = append(specifiers, t.Cols.Col1)
	case ColRangeColRange:
		specifiers = append(specifiers, t.Cols.Col1+"]:["+t.Cols.Col2)
	case ColRangeColToEnd:
		specifiers = append(specifiers, t.Cols.Col1+"]:")
	case ColRangeAll:
		specifiers = append(specifiers, "#ALL")
	}
	if len(specifiers) == 0 {
		return t.TableName
	}
	parts := make([]string, len(specifiers))
	for i, s := range specifiers {
		parts[i] = "[" + s + "]"
	}
	return t.TableName + "[" + strings.Join(parts, ",") + "]"
}
