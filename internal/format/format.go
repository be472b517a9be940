package format

import "github.com/quadratichq/quadratic-sub012/internal/pos"

// CellAlign is the horizontal alignment of a cell's contents.
type CellAlign int

const (
	AlignDefault CellAlign = iota
	AlignLeft
	AlignCenter
	AlignRight
)

// CellVerticalAlign is the vertical alignment of a cell's contents.
type CellVerticalAlign int

const (
	VerticalAlignDefault CellVerticalAlign = iota
	VerticalAlignTop
	VerticalAlignMiddle
	VerticalAlignBottom
)

// NumericFormatKind names the family of numeric display format.
type NumericFormatKind int

const (
	NumericFormatNone NumericFormatKind = iota
	NumericFormatNumber
	NumericFormatCurrency
	NumericFormatPercentage
	NumericFormatExponential
)

// NumericFormat is a numeric display format plus its currency symbol,
// when NumericFormatCurrency.
type NumericFormat struct {
	Kind   NumericFormatKind
	Symbol string
}

// RenderSize overrides the pixel size an image/chart cell renders at.
type RenderSize struct {
	W, H float64
}

// FormatUpdate is a sparse set of formatting overrides. Every field is
// a pointer: nil means "not specified here, fall through to the next
// outer level"; non-nil means "apply this value (possibly explicitly
// clearing a field by pointing at its zero value)". Matches spec
// §3.7's cell → row → column → sheet fall-through contract.
type FormatUpdate struct {
	Align             *CellAlign
	VerticalAlign     *CellVerticalAlign
	Wrap              *bool
	NumericFormat     *NumericFormat
	NumericDecimals   *int32
	NumericCommas     *bool
	Bold              *bool
	Italic            *bool
	Underline         *bool
	StrikeThrough     *bool
	TextColor         *string
	FillColor         *string
	RenderSize        *RenderSize
	DateTimeFormat    *string
}

// IsDefault reports whether every field is unset.
func (u FormatUpdate) IsDefault() bool {
	return u.Align == nil && u.VerticalAlign == nil && u.Wrap == nil &&
		u.NumericFormat == nil && u.NumericDecimals == nil && u.NumericCommas == nil &&
		u.Bold == nil && u.Italic == nil && u.Underline == nil && u.StrikeThrough == nil &&
		u.TextColor == nil && u.FillColor == nil && u.RenderSize == nil && u.DateTimeFormat == nil
}

// Combine layers `over` on top of u: any field set in `over`
// overrides u's field, anything unset in `over` keeps u's value. Used
// both to merge a new update into an existing stored override and to
// resolve the cell → row → column → sheet fall-through chain (called
// with `over` = the more specific level).
func (u FormatUpdate) Combine(over FormatUpdate) FormatUpdate {
	out := u
	if over.Align != nil {
		out.Align = over.Align
	}
	if over.VerticalAlign != nil {
		out.VerticalAlign = over.VerticalAlign
	}
	if over.Wrap != nil {
		out.Wrap = over.Wrap
	}
	if over.NumericFormat != nil {
		out.NumericFormat = over.NumericFormat
	}
	if over.NumericDecimals != nil {
		out.NumericDecimals = over.NumericDecimals
	}
	if over.NumericCommas != nil {
		out.NumericCommas = over.NumericCommas
	}
	if over.Bold != nil {
		out.Bold = over.Bold
	}
	if over.Italic != nil {
		out.Italic = over.Italic
	}
	if over.Underline != nil {
		out.Underline = over.Underline
	}
	if over.StrikeThrough != nil {
		out.StrikeThrough = over.StrikeThrough
	}
	if over.TextColor != nil {
		out.TextColor = over.TextColor
	}
	if over.FillColor != nil {
		out.FillColor = over.FillColor
	}
	if over.RenderSize != nil {
		out.RenderSize = over.RenderSize
	}
	if over.DateTimeFormat != nil {
		out.DateTimeFormat = over.DateTimeFormat
	}
	return out
}

// SheetFormats holds all four formatting granularities for one sheet:
// per-cell overrides (a Contiguous2D for efficient bulk rectangles),
// per-row, per-column, and the sheet default. Resolution order is
// cell, then row, then column, then sheet default, each layered via
// FormatUpdate.Combine.
type SheetFormats struct {
	cells   *Contiguous2D[FormatUpdate]
	rows    map[int64]FormatUpdate
	columns map[int64]FormatUpdate
	sheet   FormatUpdate
}

// NewSheetFormats returns an empty format store.
func NewSheetFormats() *SheetFormats {
	return &SheetFormats{
		cells:   New[FormatUpdate](),
		rows:    make(map[int64]FormatUpdate),
		columns: make(map[int64]FormatUpdate),
	}
}

// SetCells merges update into every cell in rect.
func (f *SheetFormats) SetCells(rect pos.Rect, update FormatUpdate) {
	f.cells.Update(rect, func(existing FormatUpdate, ok bool) FormatUpdate {
		return existing.Combine(update)
	})
}

// SetRow merges update into row y's format.
func (f *SheetFormats) SetRow(y int64, update FormatUpdate) {
	f.rows[y] = f.rows[y].Combine(update)
}

// SetColumn merges update into column x's format.
func (f *SheetFormats) SetColumn(x int64, update FormatUpdate) {
	f.columns[x] = f.columns[x].Combine(update)
}

// SetSheet merges update into the sheet default.
func (f *SheetFormats) SetSheet(update FormatUpdate) {
	f.sheet = f.sheet.Combine(update)
}

// Resolve computes the fully fallen-through format that applies at p:
// sheet default, then column, then row, then cell override, each
// layered on top of the last.
func (f *SheetFormats) Resolve(p pos.Pos) FormatUpdate {
	result := f.sheet
	result = result.Combine(f.columns[p.X])
	result = result.Combine(f.rows[p.Y])
	if cellUpdate, ok := f.cells.Get(p.X, p.Y); ok {
		result = result.Combine(cellUpdate)
	}
	return result
}

// InsertColumn shifts cell-level and column-level formats right at x,
// mirroring grid.Sheet.InsertColumn. Row formats are untouched.
func (f *SheetFormats) InsertColumn(at int64) {
	f.cells.InsertColumn(at)
	f.columns = shiftIndexMap(f.columns, at, 1)
}

// DeleteColumn is InsertColumn's inverse.
func (f *SheetFormats) DeleteColumn(at int64) {
	f.cells.DeleteColumn(at)
	f.columns = deleteIndexMap(f.columns, at)
}

// InsertRow shifts cell-level and row-level formats down at y.
func (f *SheetFormats) InsertRow(at int64) {
	f.cells.InsertRow(at)
	f.rows = shiftIndexMap(f.rows, at, 1)
}

// DeleteRow is InsertRow's inverse.
func (f *SheetFormats) DeleteRow(at int64) {
	f.cells.DeleteRow(at)
	f.rows = deleteIndexMap(f.rows, at)
}

// ColumnFormat returns column x's stored format override, or the zero
// FormatUpdate if none is set. Used to snapshot a column's format
// before DeleteColumn drops it, so the reverse InsertColumn can
// restore it verbatim.
func (f *SheetFormats) ColumnFormat(x int64) FormatUpdate {
	return f.columns[x]
}

// RestoreColumnFormat replaces column x's format override verbatim,
// undoing a DeleteColumn that dropped it.
func (f *SheetFormats) RestoreColumnFormat(x int64, update FormatUpdate) {
	f.columns[x] = update
}

// RowFormat is ColumnFormat's row-axis counterpart.
func (f *SheetFormats) RowFormat(y int64) FormatUpdate {
	return f.rows[y]
}

// RestoreRowFormat is RestoreColumnFormat's row-axis counterpart.
func (f *SheetFormats) RestoreRowFormat(y int64, update FormatUpdate) {
	f.rows[y] = update
}

// Clone returns an independent copy of the format store.
func (f *SheetFormats) Clone() *SheetFormats {
	rows := make(map[int64]FormatUpdate, len(f.rows))
	for k, v := range f.rows {
		rows[k] = v
	}
	columns := make(map[int64]FormatUpdate, len(f.columns))
	for k, v := range f.columns {
		columns[k] = v
	}
	return &SheetFormats{cells: f.cells.Clone(), rows: rows, columns: columns, sheet: f.sheet}
}

// CellFormatSnapshot pairs a sub-rectangle with the cell-level
// override that applied there before a SetCells call overwrote it
// (or the zero FormatUpdate for a sub-rectangle that had no override
// at all).
type CellFormatSnapshot struct {
	Rect   pos.Rect
	Update FormatUpdate
}

// Snapshot captures rect's existing cell-level overrides, subdivided
// into the sub-rectangles they're actually stored as plus the
// uncovered remainder of rect, for use as a SetCellFormats operation's
// reverse (package operation).
func (f *SheetFormats) Snapshot(rect pos.Rect) []CellFormatSnapshot {
	var out []CellFormatSnapshot
	remaining := []pos.Rect{rect}
	f.cells.ForEachInRect(rect, func(r pos.Rect, value FormatUpdate) {
		out = append(out, CellFormatSnapshot{Rect: r, Update: value})
		remaining = subtractAll(remaining, r)
	})
	for _, gap := range remaining {
		out = append(out, CellFormatSnapshot{Rect: gap})
	}
	return out
}

// Restore replaces the cell-level overrides at every snapshot's Rect
// with its Update, undoing a SetCells call. A snapshot whose Rect had
// no override before restores to the zero FormatUpdate, which
// resolves identically to "no override" even though it leaves a
// stored (inert) entry behind.
func (f *SheetFormats) Restore(snapshots []CellFormatSnapshot) {
	for _, s := range snapshots {
		f.cells.Set(s.Rect, s.Update)
	}
}

func shiftIndexMap(m map[int64]FormatUpdate, at, delta int64) map[int64]FormatUpdate {
	out := make(map[int64]FormatUpdate, len(m))
	for k, v := range m {
		if k >= at {
			out[k+delta] = v
		} else {
			out[k] = v
		}
	}
	return out
}

func deleteIndexMap(m map[int64]FormatUpdate, at int64) map[int64]FormatUpdate {
	out := make(map[int64]FormatUpdate, len(m))
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
