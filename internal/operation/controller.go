package operation

import (
	"errors"
	"time"

	"github.com/quadratichq/quadratic-sub012/internal/borders"
	"github.com/quadratichq/quadratic-sub012/internal/cellvalue"
	"github.com/quadratichq/quadratic-sub012/internal/codecell"
	"github.com/quadratichq/quadratic-sub012/internal/format"
	"github.com/quadratichq/quadratic-sub012/internal/formula"
	"github.com/quadratichq/quadratic-sub012/internal/grid"
	"github.com/quadratichq/quadratic-sub012/internal/pos"
	"github.com/quadratichq/quadratic-sub012/internal/table"
)

// ThumbnailRect is the sheet region whose changes mark a transaction's
// thumbnail dirty (spec §4.7 "Sets generate_thumbnail iff the change
// falls within the thumbnail rectangle"). The spec leaves the exact
// rectangle unspecified; this repo uses the first 10 columns and 25
// rows, a reasonable single-screen-ish preview area.
var ThumbnailRect = pos.NewRect(0, 0, 9, 24)

func touchesThumbnail(r pos.Rect) bool { return r.Intersects(ThumbnailRect) }

// Controller owns a Workbook plus its undo/redo stacks and is the
// single entry point for applying operations (spec §3.10/§3.11/§4.7).
type Controller struct {
	WB *Workbook

	UndoStack []*PendingTransaction
	RedoStack []*PendingTransaction

	// Unacked holds local User transactions the server/peers have not
	// yet confirmed, oldest first; Rebase replays these atop an
	// incoming peer transaction (spec §4.7/§5 "rebase ... local
	// unacknowledged operations"). Call Acknowledge as the transport
	// confirms each one.
	Unacked []*PendingTransaction

	// Now is consulted by NOW()/TODAY() during ComputeCode; overridable
	// in tests the way internal/formula's own tests stub a clock.
	Now func() time.Time
}

// NewController returns a controller over a fresh empty workbook.
func NewController() *Controller {
	return &Controller{WB: NewWorkbook(), Now: time.Now}
}

// Snapshot returns a deep copy of the workbook that Restore can later
// put back. Rebase does not use it: it unwinds unacknowledged local
// transactions through their reverse operations instead.
func (c *Controller) Snapshot() *Workbook { return c.WB.Clone() }

// Restore replaces the controller's live workbook with wb, typically
// a prior Snapshot result, discarding any changes made since.
func (c *Controller) Restore(wb *Workbook) { c.WB = wb }

// Apply executes ops in order against the live workbook as one
// transaction, classified as class. User transactions push onto the
// undo stack and clear the redo stack; Multiplayer and Server
// transactions do neither; UndoRedo transactions are pushed by
// Undo/Redo themselves, not by Apply.
func (c *Controller) Apply(ops []Operation, class Class, cursor, clientID string) *PendingTransaction {
	tx := newPendingTransaction(class, cursor, clientID)
	for _, op := range ops {
		reverse := c.mutate(tx, op)
		tx.pushForward(op, reverse)
	}
	if class == ClassUser {
		c.UndoStack = append(c.UndoStack, tx)
		c.Unacked = append(c.Unacked, tx)
		c.RedoStack = nil
	}
	return tx
}

// Acknowledge drops tx from Unacked once the transport confirms the
// server has durably recorded it, so Rebase no longer needs to replay
// it atop future peer transactions.
func (c *Controller) Acknowledge(tx *PendingTransaction) {
	for i, u := range c.Unacked {
		if u == tx {
			c.Unacked = append(c.Unacked[:i], c.Unacked[i+1:]...)
			return
		}
	}
}

// Undo pops the most recent transaction off the undo stack, replays
// its reverse operations, and pushes the result onto the redo stack.
// No-op (returns nil) if the undo stack is empty.
func (c *Controller) Undo() *PendingTransaction {
	if len(c.UndoStack) == 0 {
		return nil
	}
	last := c.UndoStack[len(c.UndoStack)-1]
	c.UndoStack = c.UndoStack[:len(c.UndoStack)-1]
	tx := c.replay(last)
	c.RedoStack = append(c.RedoStack, tx)
	return tx
}

// Redo pops the most recent transaction off the redo stack, replays
// its reverse operations (which, since Undo's replay self-inverted
// them, equal the original forward operations), and pushes the result
// back onto the undo stack. No-op (returns nil) if the redo stack is
// empty.
func (c *Controller) Redo() *PendingTransaction {
	if len(c.RedoStack) == 0 {
		return nil
	}
	last := c.RedoStack[len(c.RedoStack)-1]
	c.RedoStack = c.RedoStack[:len(c.RedoStack)-1]
	tx := c.replay(last)
	c.UndoStack = append(c.UndoStack, tx)
	return tx
}

// replay applies last's Reverse operations as a fresh UndoRedo
// transaction carrying last's pre-transaction cursor, so the cursor
// restores to where it was before the original forward transaction
// (spec §4.7 "Undo/redo stacks ... each stack entry must carry the
// cursor that existed before the forward transaction").
func (c *Controller) replay(last *PendingTransaction) *PendingTransaction {
	tx := newPendingTransaction(ClassUndoRedo, last.Cursor, last.ClientID)
	for _, op := range last.Reverse {
		reverse := c.mutate(tx, op)
		tx.pushForward(op, reverse)
	}
	return tx
}

// mutate applies one operation's effect to the controller's workbook
// and returns its inverse, implementing spec §4.7 steps 1-2 ("resolve
// the target sheet; no-op if missing" / "apply the mutation") and step
// 4 ("construct the inverse operation"). Side-effect bookkeeping
// (steps 5-6) is folded into each case since it needs kind-specific
// rectangles.
func (c *Controller) mutate(tx *PendingTransaction, op Operation) Operation {
	if tx.Class == ClassServer {
		// side-effect sets are suppressed for bulk/offline transactions;
		// markDirty/markBorders/markOffsets below become inert no-ops by
		// writing into a throwaway bookkeeping set instead of tx's.
		scratch := newPendingTransaction(tx.Class, tx.Cursor, tx.ClientID)
		return c.mutateInto(scratch, op)
	}
	return c.mutateInto(tx, op)
}

func (c *Controller) mutateInto(tx *PendingTransaction, op Operation) Operation {
	switch op.Kind {
	case KindSetCellValues:
		return c.mutateSetCellValues(tx, op)
	case KindSetCellFormats:
		return c.mutateSetCellFormats(tx, op)
	case KindSetBorders:
		return c.mutateSetBorders(tx, op)
	case KindComputeCode:
		return c.mutateComputeCode(tx, op)
	case KindSetCodeRun:
		return c.mutateSetCodeRun(tx, op)
	case KindAddSheet:
		return c.mutateAddSheet(tx, op)
	case KindDeleteSheet:
		return c.mutateDeleteSheet(tx, op)
	case KindMoveSheet:
		return c.mutateMoveSheet(tx, op)
	case KindDuplicateSheet:
		return c.mutateDuplicateSheet(tx, op)
	case KindResizeColumn:
		return c.mutateResizeColumn(tx, op)
	case KindResizeRow:
		return c.mutateResizeRow(tx, op)
	case KindResizeRows:
		return c.mutateResizeRows(tx, op)
	case KindInsertColumn:
		return c.mutateInsertColumn(tx, op)
	case KindDeleteColumn:
		return c.mutateDeleteColumn(tx, op)
	case KindInsertRow:
		return c.mutateInsertRow(tx, op)
	case KindDeleteRow:
		return c.mutateDeleteRow(tx, op)
	case KindAddDataTable:
		return c.mutateAddDataTable(tx, op)
	case KindDeleteDataTable:
		return c.mutateDeleteDataTable(tx, op)
	case KindSetValidation:
		return c.mutateSetValidation(tx, op)
	default:
		return op
	}
}

func (c *Controller) mutateSetCellValues(tx *PendingTransaction, op Operation) Operation {
	sheet := c.WB.Grid.Sheet(op.SheetID)
	if sheet == nil {
		return op
	}
	prev := make([][]cellvalue.CellValue, len(op.Values))
	for dy, row := range op.Values {
		prevRow := make([]cellvalue.CellValue, len(row))
		for dx, v := range row {
			p := pos.NewPos(op.Pos.X+int64(dx), op.Pos.Y+int64(dy))
			prevRow[dx] = sheet.GetCell(p)
			sheet.SetCell(p, v)
		}
		prev[dy] = prevRow
	}
	rect := pos.NewRect(op.Pos.X, op.Pos.Y, op.Pos.X+int64(len(op.Values[0]))-1, op.Pos.Y+int64(len(op.Values))-1)
	tx.markDirty(op.SheetID.String())
	if touchesThumbnail(rect) {
		tx.GenerateThumbnail = true
	}
	return Operation{Kind: KindSetCellValues, SheetID: op.SheetID, Pos: op.Pos, Values: prev}
}

func (c *Controller) mutateSetCellFormats(tx *PendingTransaction, op Operation) Operation {
	formats := c.WB.Formats(op.SheetID)
	prior := formats.Snapshot(op.Rect)
	if op.FormatSnapshots != nil {
		formats.Restore(op.FormatSnapshots)
	} else {
		formats.SetCells(op.Rect, op.Format)
	}
	tx.markDirty(op.SheetID.String())
	return Operation{Kind: KindSetCellFormats, SheetID: op.SheetID, Rect: op.Rect, FormatSnapshots: prior}
}

func (c *Controller) mutateSetBorders(tx *PendingTransaction, op Operation) Operation {
	b := c.WB.Borders(op.SheetID)
	var edges []borders.Edge
	if op.BorderSnapshots != nil {
		for e := range op.BorderSnapshots {
			edges = append(edges, e)
		}
	} else {
		edges = op.Edges
	}
	prior := make(map[borders.Edge][]borders.BorderSnapshot, len(edges))
	for _, e := range edges {
		prior[e] = b.SnapshotEdge(op.Rect, e)
		if op.BorderSnapshots != nil {
			b.RestoreEdge(e, op.BorderSnapshots[e])
		} else {
			b.SetEdge(op.Rect, e, op.Border)
		}
	}
	tx.markBorders(op.SheetID.String())
	return Operation{Kind: KindSetBorders, SheetID: op.SheetID, Rect: op.Rect, BorderSnapshots: prior}
}

// wbEvalContext adapts Workbook to formula.EvalContext.
type wbEvalContext struct {
	wb  *Workbook
	now time.Time
}

func (e wbEvalContext) GetCell(sp pos.SheetPos) cellvalue.CellValue {
	sheet := e.wb.Grid.Sheet(sp.SheetId)
	if sheet == nil {
		return cellvalue.Blank
	}
	return sheet.GetCell(sp.Pos)
}

func (e wbEvalContext) TableByName(name string) (table.DataTable, bool) {
	return e.wb.Ctx.Tables.TryTable(name)
}

func (e wbEvalContext) Now() time.Time { return e.now }

func toRunError(err error) cellvalue.RunError {
	var re cellvalue.RunError
	if errors.As(err, &re) {
		return re
	}
	return cellvalue.NewRunError(cellvalue.ErrCodeRunError, nil, err.Error())
}

// evaluateCode runs code (Formula-language only — package codecell's
// rewrite logic and this evaluator are the only languages this repo
// actually executes; Python/Javascript/SQL code cells are tracked as
// data but not run, matching spec §6's "no socket/driver
// implementation" scoping for external execution environments).
func (c *Controller) evaluateCode(sheetID pos.SheetId, p pos.Pos, code cellvalue.CodeCellValue) cellvalue.CellValue {
	if code.Language != cellvalue.LanguageFormula {
		return cellvalue.NewError(cellvalue.NewRunError(cellvalue.ErrCodeRunError, nil,
			code.Language.String()+" code cells are tracked but not executed by this engine"))
	}
	sp := pos.NewSheetPos(sheetID, p.X, p.Y)
	ast, err := formula.Parse(code.Code, sheetID, c.WB.Ctx)
	if err != nil {
		return cellvalue.NewError(toRunError(err))
	}
	v, err := formula.Eval(ast, sp, wbEvalContext{wb: c.WB, now: c.Now()})
	if err != nil {
		return cellvalue.NewError(toRunError(err))
	}
	return v.AsSingle()
}

// installCodeRun writes code's source into the code-run index and
// result into the cell, returning the reverse SetCodeRun operation.
// Shared by ComputeCode (which computes result itself) and SetCodeRun
// (which receives an already-computed result, e.g. from a peer who
// ran it).
func (c *Controller) installCodeRun(tx *PendingTransaction, sheetID pos.SheetId, p pos.Pos, code cellvalue.CodeCellValue, result cellvalue.CellValue) Operation {
	sheet := c.WB.Grid.Sheet(sheetID)
	if sheet == nil {
		return Operation{Kind: KindSetCodeRun, SheetID: sheetID, Pos: p, Code: code, Result: result}
	}
	sp := pos.NewSheetPos(sheetID, p.X, p.Y)
	prevCode, hadCode := c.WB.CodeRuns[sp]
	prevValue := sheet.GetCell(p)
	// An empty source is this package's stand-in for "no code cell
	// here" (see DESIGN.md) so that undoing a ComputeCode that created
	// the first code run at sp, via the zero-value reverse this
	// produces below, removes the entry rather than leaving a
	// phantom empty-source one behind.
	if code.Code == "" {
		delete(c.WB.CodeRuns, sp)
	} else {
		c.WB.CodeRuns[sp] = code
	}
	sheet.SetCell(p, result)
	tx.markDirty(sheetID.String())
	if touchesThumbnail(pos.SinglePos(p)) {
		tx.GenerateThumbnail = true
	}
	var reverseCode cellvalue.CodeCellValue
	if hadCode {
		reverseCode = prevCode
	}
	return Operation{Kind: KindSetCodeRun, SheetID: sheetID, Pos: p, Code: reverseCode, Result: prevValue}
}

func (c *Controller) mutateComputeCode(tx *PendingTransaction, op Operation) Operation {
	if c.WB.Grid.Sheet(op.SheetID) == nil {
		return op
	}
	result := c.evaluateCode(op.SheetID, op.Pos, op.Code)
	return c.installCodeRun(tx, op.SheetID, op.Pos, op.Code, result)
}

func (c *Controller) mutateSetCodeRun(tx *PendingTransaction, op Operation) Operation {
	if c.WB.Grid.Sheet(op.SheetID) == nil {
		return op
	}
	return c.installCodeRun(tx, op.SheetID, op.Pos, op.Code, op.Result)
}

func (c *Controller) mutateAddSheet(tx *PendingTransaction, op Operation) Operation {
	sheetID := op.SheetID
	name := op.Name
	if op.RestoreSheet != nil {
		c.WB.Grid.InsertSheetAt(op.RestoreSheet, op.SheetIndex)
		sheetID = op.RestoreSheet.ID
		name = op.RestoreSheet.Name
	} else {
		if sheetID.IsZero() {
			sheetID = pos.NewSheetId()
		}
		c.WB.Grid.AddSheetWithID(sheetID, name)
	}
	_ = c.WB.Ctx.Sheets.Insert(sheetID, name)
	tx.GenerateThumbnail = true
	return Operation{Kind: KindDeleteSheet, SheetID: sheetID}
}

func (c *Controller) mutateDeleteSheet(tx *PendingTransaction, op Operation) Operation {
	sheet := c.WB.Grid.Sheet(op.SheetID)
	if sheet == nil {
		return op
	}
	idx := c.WB.Grid.SheetIndex(op.SheetID)
	cloned := sheet.Clone()
	c.WB.Grid.DeleteSheet(op.SheetID)
	c.WB.Ctx.Sheets.Remove(op.SheetID)
	tx.GenerateThumbnail = true
	return Operation{Kind: KindAddSheet, SheetID: op.SheetID, SheetIndex: idx, RestoreSheet: cloned}
}

func sheetIDAfter(g *grid.Grid, id pos.SheetId) pos.SheetId {
	sheets := g.Sheets()
	idx := g.SheetIndex(id)
	if idx < 0 || idx+1 >= len(sheets) {
		return pos.SheetId{}
	}
	return sheets[idx+1].ID
}

func (c *Controller) mutateMoveSheet(tx *PendingTransaction, op Operation) Operation {
	if c.WB.Grid.Sheet(op.SheetID) == nil {
		return op
	}
	prevBefore := sheetIDAfter(c.WB.Grid, op.SheetID)
	_ = c.WB.Grid.MoveSheet(op.SheetID, op.BeforeSheetID)
	return Operation{Kind: KindMoveSheet, SheetID: op.SheetID, BeforeSheetID: prevBefore}
}

func (c *Controller) mutateDuplicateSheet(tx *PendingTransaction, op Operation) Operation {
	if c.WB.Grid.Sheet(op.SheetID) == nil {
		return op
	}
	newID, err := c.WB.Grid.DuplicateSheet(op.SheetID, op.Name)
	if err != nil {
		return op
	}
	_ = c.WB.Ctx.Sheets.Insert(newID, op.Name)
	tx.GenerateThumbnail = true
	return Operation{Kind: KindDeleteSheet, SheetID: newID}
}

func (c *Controller) mutateResizeColumn(tx *PendingTransaction, op Operation) Operation {
	off := c.WB.Offsets(op.SheetID)
	old := off.SetColumnWidth(op.Index, op.NewSize)
	tx.markOffsets(op.SheetID.String())
	if op.ClientResized && touchesThumbnail(pos.NewRect(op.Index, 0, op.Index, 0)) {
		tx.GenerateThumbnail = true
	}
	return Operation{Kind: KindResizeColumn, SheetID: op.SheetID, Index: op.Index, NewSize: old}
}

func (c *Controller) mutateResizeRow(tx *PendingTransaction, op Operation) Operation {
	off := c.WB.Offsets(op.SheetID)
	old := off.SetRowHeight(op.Index, op.NewSize)
	tx.markOffsets(op.SheetID.String())
	if op.ClientResized && touchesThumbnail(pos.NewRect(0, op.Index, 0, op.Index)) {
		tx.GenerateThumbnail = true
	}
	return Operation{Kind: KindResizeRow, SheetID: op.SheetID, Index: op.Index, NewSize: old}
}

func (c *Controller) mutateResizeRows(tx *PendingTransaction, op Operation) Operation {
	off := c.WB.Offsets(op.SheetID)
	oldSizes := make([]float64, len(op.Indices))
	for i, y := range op.Indices {
		size := op.NewSize
		if op.Sizes != nil {
			size = op.Sizes[i]
		}
		oldSizes[i] = off.SetRowHeight(y, size)
	}
	tx.markOffsets(op.SheetID.String())
	return Operation{Kind: KindResizeRows, SheetID: op.SheetID, Indices: op.Indices, Sizes: oldSizes}
}

// shiftCodeRuns rebuilds WB.CodeRuns for sheetID, moving every code
// cell's anchor position and rewriting its embedded references with
// shiftPos/shiftCode, leaving every other sheet's entries alone.
// shiftPos's bool return drops the entry instead of keeping it,
// for DeleteColumn/DeleteRow removing a code cell's own line.
func (c *Controller) shiftCodeRuns(sheetID pos.SheetId, shiftPos func(pos.Pos) (pos.Pos, bool), shiftCode func(cellvalue.CodeCellValue) cellvalue.CodeCellValue) {
	next := make(map[pos.SheetPos]cellvalue.CodeCellValue, len(c.WB.CodeRuns))
	for sp, code := range c.WB.CodeRuns {
		if sp.SheetId != sheetID {
			next[sp] = code
			continue
		}
		newPos, keep := shiftPos(sp.Pos)
		if !keep {
			continue
		}
		next[pos.NewSheetPos(sheetID, newPos.X, newPos.Y)] = shiftCode(code)
	}
	c.WB.CodeRuns = next
}

var allBorderEdges = []borders.Edge{borders.Top, borders.Bottom, borders.Left, borders.Right}

// snapshotColumnFormat captures column x's complete format/border
// state — cell-level overrides across the whole column plus the
// column-level format and baseline-border overrides — ahead of a
// DeleteColumn, for attaching to the reverse InsertColumn so the
// undo restores formatting, not just cell values.
func snapshotColumnFormat(formats *format.SheetFormats, b *borders.SheetBorders, x int64) *LineFormatSnapshot {
	rect := pos.NewRect(x, -format.Unbounded, x, format.Unbounded)
	snap := &LineFormatSnapshot{
		CellFormats: formats.Snapshot(rect),
		LineFormat:  formats.ColumnFormat(x),
		CellBorders: make(map[borders.Edge][]borders.BorderSnapshot, len(allBorderEdges)),
	}
	for _, e := range allBorderEdges {
		snap.CellBorders[e] = b.SnapshotEdge(rect, e)
	}
	snap.LineBorder, snap.LineBorderOK = b.BaselineColumn(x)
	return snap
}

// restoreColumnFormat replays a snapshotColumnFormat capture onto
// column x, undoing a DeleteColumn/InsertColumn round trip's loss of
// formatting. A nil snap is a no-op (InsertColumn not reversing a
// prior DeleteColumn).
func restoreColumnFormat(formats *format.SheetFormats, b *borders.SheetBorders, x int64, snap *LineFormatSnapshot) {
	if snap == nil {
		return
	}
	formats.Restore(snap.CellFormats)
	formats.RestoreColumnFormat(x, snap.LineFormat)
	for e, s := range snap.CellBorders {
		b.RestoreEdge(e, s)
	}
	b.RestoreBaselineColumn(x, snap.LineBorder, snap.LineBorderOK)
}

// snapshotRowFormat / restoreRowFormat are snapshotColumnFormat /
// restoreColumnFormat's row-axis counterparts.
func snapshotRowFormat(formats *format.SheetFormats, b *borders.SheetBorders, y int64) *LineFormatSnapshot {
	rect := pos.NewRect(-format.Unbounded, y, format.Unbounded, y)
	snap := &LineFormatSnapshot{
		CellFormats: formats.Snapshot(rect),
		LineFormat:  formats.RowFormat(y),
		CellBorders: make(map[borders.Edge][]borders.BorderSnapshot, len(allBorderEdges)),
	}
	for _, e := range allBorderEdges {
		snap.CellBorders[e] = b.SnapshotEdge(rect, e)
	}
	snap.LineBorder, snap.LineBorderOK = b.BaselineRow(y)
	return snap
}

func restoreRowFormat(formats *format.SheetFormats, b *borders.SheetBorders, y int64, snap *LineFormatSnapshot) {
	if snap == nil {
		return
	}
	formats.Restore(snap.CellFormats)
	formats.RestoreRowFormat(y, snap.LineFormat)
	for e, s := range snap.CellBorders {
		b.RestoreEdge(e, s)
	}
	b.RestoreBaselineRow(y, snap.LineBorder, snap.LineBorderOK)
}

func (c *Controller) mutateInsertColumn(tx *PendingTransaction, op Operation) Operation {
	sheet := c.WB.Grid.Sheet(op.SheetID)
	if sheet == nil {
		return op
	}
	at := op.At
	if op.CopyFormats == CopyFormatsAfter {
		at++
	}
	sheet.InsertColumn(at)
	c.WB.Formats(op.SheetID).InsertColumn(at)
	c.WB.Borders(op.SheetID).InsertColumn(at)
	c.WB.Offsets(op.SheetID).InsertColumn(at)
	c.shiftCodeRuns(op.SheetID,
		func(p pos.Pos) (pos.Pos, bool) {
			if p.X >= at {
				p.X++
			}
			return p, true
		},
		func(code cellvalue.CodeCellValue) cellvalue.CodeCellValue {
			code.Code = codecell.InsertColumn(code.Code, code.Language, op.SheetID, c.WB.Ctx, at)
			return code
		})
	for _, t := range c.WB.Ctx.Tables.Tables() {
		if t.SheetID != op.SheetID || t.Bounds.Max.X < at {
			continue
		}
		nb := t.Bounds
		if nb.Min.X >= at {
			nb.Min.X++
		}
		nb.Max.X++
		c.WB.Ctx.Tables.UpdateBounds(t.Name, nb)
	}
	if op.RestoredColumn != nil {
		for y, v := range op.RestoredColumn {
			sheet.SetCell(pos.NewPos(at, y), v)
		}
	}
	restoreColumnFormat(c.WB.Formats(op.SheetID), c.WB.Borders(op.SheetID), at, op.RestoredColumnFormat)
	tx.markDirty(op.SheetID.String())
	if touchesThumbnail(pos.NewRect(at, 0, at, 0)) {
		tx.GenerateThumbnail = true
	}
	return Operation{Kind: KindDeleteColumn, SheetID: op.SheetID, At: at}
}

func (c *Controller) mutateDeleteColumn(tx *PendingTransaction, op Operation) Operation {
	sheet := c.WB.Grid.Sheet(op.SheetID)
	if sheet == nil {
		return op
	}
	at := op.At
	restored := make(map[int64]cellvalue.CellValue)
	if col := sheet.Column(at); col != nil {
		for _, b := range col.Blocks() {
			for i, v := range b.Cells {
				restored[b.Top+int64(i)] = v
			}
		}
	}
	formats := c.WB.Formats(op.SheetID)
	columnBorders := c.WB.Borders(op.SheetID)
	restoredFormat := snapshotColumnFormat(formats, columnBorders, at)
	sheet.DeleteColumn(at)
	formats.DeleteColumn(at)
	columnBorders.DeleteColumn(at)
	c.WB.Offsets(op.SheetID).DeleteColumn(at)
	c.shiftCodeRuns(op.SheetID,
		func(p pos.Pos) (pos.Pos, bool) {
			if p.X == at {
				return p, false
			}
			if p.X > at {
				p.X--
			}
			return p, true
		},
		func(code cellvalue.CodeCellValue) cellvalue.CodeCellValue {
			code.Code = codecell.DeleteColumn(code.Code, code.Language, op.SheetID, c.WB.Ctx, at)
			return code
		})
	for _, t := range c.WB.Ctx.Tables.Tables() {
		if t.SheetID != op.SheetID || t.Bounds.Max.X < at {
			continue
		}
		nb := t.Bounds
		if nb.Min.X > at {
			nb.Min.X--
		}
		nb.Max.X--
		c.WB.Ctx.Tables.UpdateBounds(t.Name, nb)
	}
	tx.markDirty(op.SheetID.String())
	if touchesThumbnail(pos.NewRect(at, 0, at, 0)) {
		tx.GenerateThumbnail = true
	}
	return Operation{Kind: KindInsertColumn, SheetID: op.SheetID, At: at, RestoredColumn: restored, RestoredColumnFormat: restoredFormat}
}

func (c *Controller) mutateInsertRow(tx *PendingTransaction, op Operation) Operation {
	sheet := c.WB.Grid.Sheet(op.SheetID)
	if sheet == nil {
		return op
	}
	at := op.At
	if op.CopyFormats == CopyFormatsAfter {
		at++
	}
	sheet.InsertRow(at)
	c.WB.Formats(op.SheetID).InsertRow(at)
	c.WB.Borders(op.SheetID).InsertRow(at)
	c.WB.Offsets(op.SheetID).InsertRow(at)
	c.shiftCodeRuns(op.SheetID,
		func(p pos.Pos) (pos.Pos, bool) {
			if p.Y >= at {
				p.Y++
			}
			return p, true
		},
		func(code cellvalue.CodeCellValue) cellvalue.CodeCellValue {
			code.Code = codecell.InsertRow(code.Code, code.Language, op.SheetID, c.WB.Ctx, at)
			return code
		})
	for _, t := range c.WB.Ctx.Tables.Tables() {
		if t.SheetID != op.SheetID || t.Bounds.Max.Y < at {
			continue
		}
		nb := t.Bounds
		if nb.Min.Y >= at {
			nb.Min.Y++
		}
		nb.Max.Y++
		c.WB.Ctx.Tables.UpdateBounds(t.Name, nb)
	}
	if op.RestoredRow != nil {
		for x, v := range op.RestoredRow {
			sheet.SetCell(pos.NewPos(x, at), v)
		}
	}
	restoreRowFormat(c.WB.Formats(op.SheetID), c.WB.Borders(op.SheetID), at, op.RestoredRowFormat)
	tx.markDirty(op.SheetID.String())
	if touchesThumbnail(pos.NewRect(0, at, 0, at)) {
		tx.GenerateThumbnail = true
	}
	return Operation{Kind: KindDeleteRow, SheetID: op.SheetID, At: at}
}

func (c *Controller) mutateDeleteRow(tx *PendingTransaction, op Operation) Operation {
	sheet := c.WB.Grid.Sheet(op.SheetID)
	if sheet == nil {
		return op
	}
	at := op.At
	restored := make(map[int64]cellvalue.CellValue)
	for _, x := range sheet.ColumnIndices() {
		v := sheet.GetCell(pos.NewPos(x, at))
		if !v.IsBlank() {
			restored[x] = v
		}
	}
	formats := c.WB.Formats(op.SheetID)
	rowBorders := c.WB.Borders(op.SheetID)
	restoredFormat := snapshotRowFormat(formats, rowBorders, at)
	sheet.DeleteRow(at)
	formats.DeleteRow(at)
	rowBorders.DeleteRow(at)
	c.WB.Offsets(op.SheetID).DeleteRow(at)
	c.shiftCodeRuns(op.SheetID,
		func(p pos.Pos) (pos.Pos, bool) {
			if p.Y == at {
				return p, false
			}
			if p.Y > at {
				p.Y--
			}
			return p, true
		},
		func(code cellvalue.CodeCellValue) cellvalue.CodeCellValue {
			code.Code = codecell.DeleteRow(code.Code, code.Language, op.SheetID, c.WB.Ctx, at)
			return code
		})
	for _, t := range c.WB.Ctx.Tables.Tables() {
		if t.SheetID != op.SheetID || t.Bounds.Max.Y < at {
			continue
		}
		nb := t.Bounds
		if nb.Min.Y > at {
			nb.Min.Y--
		}
		nb.Max.Y--
		c.WB.Ctx.Tables.UpdateBounds(t.Name, nb)
	}
	tx.markDirty(op.SheetID.String())
	if touchesThumbnail(pos.NewRect(0, at, 0, at)) {
		tx.GenerateThumbnail = true
	}
	return Operation{Kind: KindInsertRow, SheetID: op.SheetID, At: at, RestoredRow: restored, RestoredRowFormat: restoredFormat}
}

func (c *Controller) mutateAddDataTable(tx *PendingTransaction, op Operation) Operation {
	if err := c.WB.Ctx.Tables.Add(op.Table); err != nil {
		return op
	}
	tx.markDirty(op.Table.SheetID.String())
	return Operation{Kind: KindDeleteDataTable, TableName: op.Table.Name}
}

func (c *Controller) mutateDeleteDataTable(tx *PendingTransaction, op Operation) Operation {
	t, ok := c.WB.Ctx.Tables.TryTable(op.TableName)
	if !ok {
		return op
	}
	c.WB.Ctx.Tables.Remove(op.TableName)
	tx.markDirty(t.SheetID.String())
	return Operation{Kind: KindAddDataTable, Table: t}
}

func (c *Controller) mutateSetValidation(tx *PendingTransaction, op Operation) Operation {
	prev, had := c.WB.Validations[op.Validation.ID]
	c.WB.Validations[op.Validation.ID] = op.Validation
	tx.markDirty(op.SheetID.String())
	if had {
		return Operation{Kind: KindSetValidation, SheetID: op.SheetID, Validation: prev}
	}
	return Operation{Kind: KindSetValidation, SheetID: op.SheetID, Validation: Validation{ID: op.Validation.ID}}
}
