package grid

// SheetOffsets holds per-column widths and per-row heights that
// override the sheet's defaults (spec §4.7 "Resize of a column").
// Only explicitly resized lines are stored; everything else reads
// back as DefaultWidth/DefaultHeight.
type SheetOffsets struct {
	DefaultWidth, DefaultHeight float64
	columnWidths                map[int64]float64
	rowHeights                  map[int64]float64
}

// NewSheetOffsets returns an offsets store with the given defaults.
func NewSheetOffsets(defaultWidth, defaultHeight float64) *SheetOffsets {
	return &SheetOffsets{
		DefaultWidth:  defaultWidth,
		DefaultHeight: defaultHeight,
		columnWidths:  make(map[int64]float64),
		rowHeights:    make(map[int64]float64),
	}
}

// Clone returns an independent copy of the offsets store.
func (o *SheetOffsets) Clone() *SheetOffsets {
	columnWidths := make(map[int64]float64, len(o.columnWidths))
	for k, v := range o.columnWidths {
		columnWidths[k] = v
	}
	rowHeights := make(map[int64]float64, len(o.rowHeights))
	for k, v := range o.rowHeights {
		rowHeights[k] = v
	}
	return &SheetOffsets{DefaultWidth: o.DefaultWidth, DefaultHeight: o.DefaultHeight, columnWidths: columnWidths, rowHeights: rowHeights}
}

// ColumnWidth returns column x's width, or DefaultWidth if unset.
func (o *SheetOffsets) ColumnWidth(x int64) float64 {
	if w, ok := o.columnWidths[x]; ok {
		return w
	}
	return o.DefaultWidth
}

// RowHeight returns row y's height, or DefaultHeight if unset.
func (o *SheetOffsets) RowHeight(y int64) float64 {
	if h, ok := o.rowHeights[y]; ok {
		return h
	}
	return o.DefaultHeight
}

// SetColumnWidth records column x's new width and returns the width it
// replaced (DefaultWidth if x had no override), for building a
// ResizeColumn operation's reverse.
func (o *SheetOffsets) SetColumnWidth(x int64, width float64) float64 {
	old := o.ColumnWidth(x)
	o.columnWidths[x] = width
	return old
}

// SetRowHeight is SetColumnWidth's row-axis counterpart.
func (o *SheetOffsets) SetRowHeight(y int64, height float64) float64 {
	old := o.RowHeight(y)
	o.rowHeights[y] = height
	return old
}

// InsertColumn shifts every recorded column width at or past `at`
// right by one, mirroring Sheet.InsertColumn.
func (o *SheetOffsets) InsertColumn(at int64) {
	o.columnWidths = shiftOffsetMap(o.columnWidths, at, 1)
}

// DeleteColumn is InsertColumn's inverse.
func (o *SheetOffsets) DeleteColumn(at int64) {
	o.columnWidths = deleteOffsetMap(o.columnWidths, at)
}

// InsertRow shifts every recorded row height at or past `at` down by
// one, mirroring Sheet.InsertRow.
func (o *SheetOffsets) InsertRow(at int64) {
	o.rowHeights = shiftOffsetMap(o.rowHeights, at, 1)
}

// DeleteRow is InsertRow's inverse.
func (o *SheetOffsets) DeleteRow(at int64) {
	o.rowHeights = deleteOffsetMap(o.rowHeights, at)
}

func shiftOffsetMap(m map[int64]float64, at, delta int64) map[int64]float64 {
	out := make(map[int64]float64, len(m))
	for k, v := range m {
		if k >= at {
			out[k+delta] = v
		} else {
			out[k] = v
		}
	}
	return out
}

func deleteOffsetMap(m map[int64]float64, at int64) map[int64]float64 {
	out := make(map[int64]float64, len(m))
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
