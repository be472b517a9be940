package operation

import (
	"github.com/quadratichq/quadratic-sub012/internal/borders"
	"github.com/quadratichq/quadratic-sub012/internal/cellvalue"
	"github.com/quadratichq/quadratic-sub012/internal/format"
	"github.com/quadratichq/quadratic-sub012/internal/grid"
	"github.com/quadratichq/quadratic-sub012/internal/pos"
	"github.com/quadratichq/quadratic-sub012/internal/table"
)

// Workbook bundles a Grid with the per-sheet stores that live
// alongside it (formatting, borders, column/row offsets) plus the
// shared table.A1Context that lets a1/formula resolve sheet names and
// table references against it. This is the unit the Controller
// mutates and the unit Controller.Snapshot/Restore clones.
type Workbook struct {
	Grid *grid.Grid
	Ctx  *table.A1Context

	// CodeRuns holds every code cell's source, keyed by its anchor
	// position, separately from the grid cell itself (which stores the
	// computed result so formula dependency resolution via
	// EvalContext.GetCell sees real values rather than source text).
	CodeRuns map[pos.SheetPos]cellvalue.CodeCellValue

	// Validations holds per-cell-range validation rules by ID (spec
	// §3.10 SetValidation).
	Validations map[string]Validation

	formats *perSheet[*format.SheetFormats]
	borders *perSheet[*borders.SheetBorders]
	offsets *perSheet[*grid.SheetOffsets]
}

// perSheet lazily creates one value per SheetId on first access, the
// same "attached externally by SheetId" pattern Sheet's own doc
// comment describes for formats/borders/tables.
type perSheet[T any] struct {
	values map[pos.SheetId]T
	new    func() T
}

func newPerSheet[T any](zero func() T) *perSheet[T] {
	return &perSheet[T]{values: make(map[pos.SheetId]T), new: zero}
}

func (p *perSheet[T]) get(id pos.SheetId) T {
	v, ok := p.values[id]
	if !ok {
		v = p.new()
		p.values[id] = v
	}
	return v
}

func (p *perSheet[T]) remove(id pos.SheetId) {
	delete(p.values, id)
}

func (p *perSheet[T]) clone(cloneOne func(T) T) *perSheet[T] {
	out := newPerSheet(p.new)
	for id, v := range p.values {
		out.values[id] = cloneOne(v)
	}
	return out
}

// NewWorkbook returns an empty workbook with one default sheet, the
// way a freshly created file starts (spec §3.1 "workbook").
func NewWorkbook() *Workbook {
	wb := &Workbook{
		Grid:        grid.NewGrid(),
		Ctx:         table.NewA1Context(),
		CodeRuns:    make(map[pos.SheetPos]cellvalue.CodeCellValue),
		Validations: make(map[string]Validation),
		formats:     newPerSheet(format.NewSheetFormats),
		borders:     newPerSheet(borders.NewSheetBorders),
		offsets:     newPerSheet(func() *grid.SheetOffsets { return grid.NewSheetOffsets(100, 21) }),
	}
	sheet := wb.Grid.AddSheet("Sheet1")
	_ = wb.Ctx.Sheets.Insert(sheet.ID, sheet.Name)
	return wb
}

// Formats returns the format store for sheetID, creating it on first
// use.
func (wb *Workbook) Formats(sheetID pos.SheetId) *format.SheetFormats { return wb.formats.get(sheetID) }

// Borders returns the border store for sheetID, creating it on first
// use.
func (wb *Workbook) Borders(sheetID pos.SheetId) *borders.SheetBorders { return wb.borders.get(sheetID) }

// Offsets returns the column/row size store for sheetID, creating it
// on first use.
func (wb *Workbook) Offsets(sheetID pos.SheetId) *grid.SheetOffsets { return wb.offsets.get(sheetID) }

// Clone returns a deep copy of the workbook: every sheet's cells,
// formats, and borders are cloned (offsets are plain float maps
// copied along with them); Ctx's sheet-name and table maps are
// rebuilt to point at the clone. Used by Controller.Snapshot.
func (wb *Workbook) Clone() *Workbook {
	ctx := table.NewA1Context()
	for _, sheet := range wb.Grid.Sheets() {
		_ = ctx.Sheets.Insert(sheet.ID, sheet.Name)
	}
	for _, t := range wb.Ctx.Tables.Tables() {
		_ = ctx.Tables.Add(t)
	}
	codeRuns := make(map[pos.SheetPos]cellvalue.CodeCellValue, len(wb.CodeRuns))
	for sp, code := range wb.CodeRuns {
		codeRuns[sp] = code
	}
	validations := make(map[string]Validation, len(wb.Validations))
	for id, v := range wb.Validations {
		validations[id] = v
	}
	return &Workbook{
		Grid:        wb.Grid.Clone(),
		Ctx:         ctx,
		CodeRuns:    codeRuns,
		Validations: validations,
		formats:     wb.formats.clone(func(f *format.SheetFormats) *format.SheetFormats { return f.Clone() }),
		borders:     wb.borders.clone(func(b *borders.SheetBorders) *borders.SheetBorders { return b.Clone() }),
		offsets:     wb.offsets.clone(func(o *grid.SheetOffsets) *grid.SheetOffsets { return o.Clone() }),
	}
}
