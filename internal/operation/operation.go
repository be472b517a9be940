// Package operation implements the tagged Operation union, the
// PendingTransaction bundle, and the Grid controller's execute_*
// handlers, undo/redo stacks, and multiplayer rebase (spec §3.10,
// §3.11, §4.7).
package operation

import (
	"github.com/quadratichq/quadratic-sub012/internal/borders"
	"github.com/quadratichq/quadratic-sub012/internal/cellvalue"
	"github.com/quadratichq/quadratic-sub012/internal/format"
	"github.com/quadratichq/quadratic-sub012/internal/grid"
	"github.com/quadratichq/quadratic-sub012/internal/pos"
	"github.com/quadratichq/quadratic-sub012/internal/table"
)

// Kind tags which variant of the Operation union is populated.
type Kind int

const (
	KindSetCellValues Kind = iota
	KindSetCellFormats
	KindSetBorders
	KindComputeCode
	KindSetCodeRun
	KindAddSheet
	KindDeleteSheet
	KindMoveSheet
	KindDuplicateSheet
	KindResizeColumn
	KindResizeRow
	KindResizeRows
	KindInsertColumn
	KindDeleteColumn
	KindInsertRow
	KindDeleteRow
	KindAddDataTable
	KindDeleteDataTable
	KindSetValidation
)

// CopyFormats selects which neighboring column/row an insert copies
// formatting from, per spec §4.7's "Insert column ... copy-formats
// policy".
type CopyFormats int

const (
	CopyFormatsNone CopyFormats = iota
	CopyFormatsBefore
	CopyFormatsAfter
)

// LineFormatSnapshot captures a deleted column/row's complete
// formatting state: the cell-level format/border overrides that fell
// within it, plus the whole-line format and baseline-border overrides
// set directly on that column/row (via SetColumnFormat-style calls and
// SetBaselineColumn/SetBaselineRow respectively). DeleteColumn/
// DeleteRow attach one of these to the reverse InsertColumn/InsertRow
// so undoing a delete restores formatting, not just cell values (spec
// §8 invariant 3).
type LineFormatSnapshot struct {
	CellFormats  []format.CellFormatSnapshot
	LineFormat   format.FormatUpdate
	CellBorders  map[borders.Edge][]borders.BorderSnapshot
	LineBorder   borders.BorderStyleTimestamp
	LineBorderOK bool
}

// Validation is a minimal per-cell-range validation rule. The spec
// names SetValidation in the operation union (§3.10) but leaves rule
// semantics unspecified beyond "a typed rule attached to a range", so
// this holds only what's needed to round-trip one through an
// operation log.
type Validation struct {
	ID      string
	Rect    pos.Rect
	Message string
}

// Operation is the tagged union every mutation to a Workbook is
// expressed as (spec §3.10). Exactly the fields relevant to Kind are
// meaningful; the rest are left zero. Fields are exported (unlike
// cellvalue.CellValue's hidden variant storage) because operations
// must be inspected and rewritten in place during rebase.
type Operation struct {
	Kind    Kind
	SheetID pos.SheetId

	// SetCellValues: rect anchored at Pos, row-major Values[y][x].
	Pos    pos.Pos
	Values [][]cellvalue.CellValue

	// SetCellFormats: merges Format into every cell in Rect when
	// FormatSnapshots is nil (a forward, user-issued operation);
	// restores FormatSnapshots verbatim when non-nil (always true of
	// a reverse operation, since "merge" has no generic inverse).
	Rect            pos.Rect
	Format          format.FormatUpdate
	FormatSnapshots []format.CellFormatSnapshot

	// SetBorders: applies Border to every edge in Edges across Rect
	// when BorderSnapshots is nil; restores BorderSnapshots verbatim
	// otherwise, for the same reason as FormatSnapshots above.
	Edges           []borders.Edge
	Border          borders.BorderStyleTimestamp
	BorderSnapshots map[borders.Edge][]borders.BorderSnapshot

	// ComputeCode / SetCodeRun: Pos/SheetID name the code cell; Code is
	// its source (used by both); Result is the value the cell
	// displays (the computed value for SetCodeRun, or the prior value
	// for either operation's reverse).
	Code   cellvalue.CodeCellValue
	Result cellvalue.CellValue

	// AddSheet / DeleteSheet / DuplicateSheet / MoveSheet.
	Name          string // AddSheet, DuplicateSheet: the new sheet's name
	SheetIndex    int    // DeleteSheet reverse: tab-order position to reinsert at
	RestoreSheet  *grid.Sheet
	BeforeSheetID pos.SheetId // MoveSheet: sheet to move SheetID in front of

	// ResizeColumn / ResizeRow / ResizeRows.
	Index         int64
	Indices       []int64
	NewSize       float64
	Sizes         []float64 // ResizeRows: per-index size, overriding NewSize when non-nil
	ClientResized bool

	// InsertColumn / DeleteColumn / InsertRow / DeleteRow. RestoredColumn/
	// RestoredRow carry a deleted line's cell values (keyed by the other
	// axis) so that an InsertColumn/InsertRow undoing a prior delete puts
	// the cells back, not just a blank line. RestoredColumnFormat/
	// RestoredRowFormat carry the same line's format/border state.
	At                   int64
	CopyFormats          CopyFormats
	RestoredColumn       map[int64]cellvalue.CellValue
	RestoredRow          map[int64]cellvalue.CellValue
	RestoredColumnFormat *LineFormatSnapshot
	RestoredRowFormat    *LineFormatSnapshot

	// AddDataTable / DeleteDataTable.
	Table     table.DataTable
	TableName string

	// SetValidation.
	Validation Validation
}
