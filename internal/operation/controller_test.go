package operation

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/quadratichq/quadratic-sub012/internal/borders"
	"github.com/quadratichq/quadratic-sub012/internal/cellvalue"
	"github.com/quadratichq/quadratic-sub012/internal/format"
	"github.com/quadratichq/quadratic-sub012/internal/pos"
)

func firstSheetID(c *Controller) pos.SheetId {
	return c.WB.Grid.Sheets()[0].ID
}

func formatBold(b bool) format.FormatUpdate {
	return format.FormatUpdate{Bold: &b}
}

func mustDecimal(n int64) decimal.Decimal {
	return decimal.NewFromInt(n)
}

func setCellOp(sheetID pos.SheetId, p pos.Pos, v cellvalue.CellValue) Operation {
	return Operation{Kind: KindSetCellValues, SheetID: sheetID, Pos: p, Values: [][]cellvalue.CellValue{{v}}}
}

func TestSetCellValuesApplyUndoRedo(t *testing.T) {
	c := NewController()
	id := firstSheetID(c)
	p := pos.NewPos(1, 1)

	c.Apply([]Operation{setCellOp(id, p, cellvalue.NewText("hello"))}, ClassUser, "", "local")
	if got, _ := c.WB.Grid.Sheet(id).GetCell(p).Text(); got != "hello" {
		t.Fatalf("after apply: got %q, want hello", got)
	}

	c.Undo()
	if !c.WB.Grid.Sheet(id).GetCell(p).IsBlank() {
		t.Fatalf("after undo: cell should be blank")
	}

	c.Redo()
	if got, _ := c.WB.Grid.Sheet(id).GetCell(p).Text(); got != "hello" {
		t.Fatalf("after redo: got %q, want hello", got)
	}
}

func TestUndoRedoEmptyStacksAreNoops(t *testing.T) {
	c := NewController()
	if tx := c.Undo(); tx != nil {
		t.Fatalf("undo on empty stack should return nil, got %+v", tx)
	}
	if tx := c.Redo(); tx != nil {
		t.Fatalf("redo on empty stack should return nil, got %+v", tx)
	}
}

func TestNewUserTransactionClearsRedoStack(t *testing.T) {
	c := NewController()
	id := firstSheetID(c)

	c.Apply([]Operation{setCellOp(id, pos.NewPos(1, 1), cellvalue.NewText("a"))}, ClassUser, "", "local")
	c.Undo()
	if len(c.RedoStack) != 1 {
		t.Fatalf("expected one redo entry after undo, got %d", len(c.RedoStack))
	}

	c.Apply([]Operation{setCellOp(id, pos.NewPos(2, 1), cellvalue.NewText("b"))}, ClassUser, "", "local")
	if len(c.RedoStack) != 0 {
		t.Fatalf("new user transaction should clear redo stack, got %d entries", len(c.RedoStack))
	}
}

func TestSetCellFormatsReverseRestoresExactPriorFormats(t *testing.T) {
	c := NewController()
	id := firstSheetID(c)
	rect := pos.NewRect(1, 1, 2, 2)
	bold := true

	tx := c.Apply([]Operation{{Kind: KindSetCellFormats, SheetID: id, Rect: rect, Format: formatBold(bold)}}, ClassUser, "", "local")
	resolved := c.WB.Formats(id).Resolve(pos.NewPos(1, 1))
	if resolved.Bold == nil || !*resolved.Bold {
		t.Fatalf("expected bold set after apply")
	}

	c.Undo()
	resolved = c.WB.Formats(id).Resolve(pos.NewPos(1, 1))
	if resolved.Bold != nil && *resolved.Bold {
		t.Fatalf("expected bold cleared after undo, tx=%v", tx.Forward)
	}
}

func TestInsertColumnRewritesCodeRunsDeleteColumnReverses(t *testing.T) {
	c := NewController()
	id := firstSheetID(c)
	// Seed a code run directly (bypassing ComputeCode) to exercise the
	// reference-shift path in isolation.
	c.WB.CodeRuns[pos.NewSheetPos(id, 2, 1)] = cellvalue.CodeCellValue{
		Language: cellvalue.LanguagePython,
		Code:     `x = q.cells("A1:A3")`,
	}

	tx := c.Apply([]Operation{{Kind: KindInsertColumn, SheetID: id, At: 1}}, ClassUser, "", "local")

	moved, ok := c.WB.CodeRuns[pos.NewSheetPos(id, 3, 1)]
	if !ok {
		t.Fatalf("expected code run to move from column 2 to column 3")
	}
	if moved.Code != `x = q.cells("B1:B3")` {
		t.Fatalf("got rewritten code %q", moved.Code)
	}

	c.Undo()
	restored, ok := c.WB.CodeRuns[pos.NewSheetPos(id, 2, 1)]
	if !ok {
		t.Fatalf("expected code run restored to column 2 after undo, reverse=%v", tx.Reverse)
	}
	if restored.Code != `x = q.cells("A1:A3")` {
		t.Fatalf("got %q after undo, want original source", restored.Code)
	}
}

func TestComputeCodeEvaluatesFormulaAndReverses(t *testing.T) {
	c := NewController()
	id := firstSheetID(c)
	c.WB.Grid.Sheet(id).SetCell(pos.NewPos(1, 1), cellvalue.NewNumberFromInt(5))

	op := Operation{Kind: KindComputeCode, SheetID: id, Pos: pos.NewPos(2, 1),
		Code: cellvalue.CodeCellValue{Language: cellvalue.LanguageFormula, Code: "A1+1"}}
	c.Apply([]Operation{op}, ClassUser, "", "local")

	result := c.WB.Grid.Sheet(id).GetCell(pos.NewPos(2, 1))
	n, ok := result.Number()
	if !ok || !n.Equal(mustDecimal(6)) {
		t.Fatalf("expected B1 = 6, got %+v", result)
	}

	c.Undo()
	if !c.WB.Grid.Sheet(id).GetCell(pos.NewPos(2, 1)).IsBlank() {
		t.Fatalf("expected B1 blank after undo")
	}
	if _, ok := c.WB.CodeRuns[pos.NewSheetPos(id, 2, 1)]; ok {
		t.Fatalf("expected code run removed after undo")
	}
}

func TestComputeCodeDivisionByZeroProducesErrorCell(t *testing.T) {
	c := NewController()
	id := firstSheetID(c)

	op := Operation{Kind: KindComputeCode, SheetID: id, Pos: pos.NewPos(1, 1),
		Code: cellvalue.CodeCellValue{Language: cellvalue.LanguageFormula, Code: "1/0"}}
	c.Apply([]Operation{op}, ClassUser, "", "local")

	result := c.WB.Grid.Sheet(id).GetCell(pos.NewPos(1, 1))
	if result.Kind != cellvalue.KindError {
		t.Fatalf("expected an Error cell, got Kind=%v", result.Kind)
	}
}

// TestMultiplayerRebaseUndoAfterRebase implements the canonical
// concurrent-insert-column scenario: a peer's InsertColumn at the same
// position as two still-unacknowledged local operations must shift
// both local operations by one column, and undoing them afterward must
// return the grid to the peer-only state.
func TestMultiplayerRebaseUndoAfterRebase(t *testing.T) {
	c := NewController()
	id := firstSheetID(c)

	u1 := Operation{Kind: KindInsertColumn, SheetID: id, At: 1}
	c.Apply([]Operation{u1}, ClassUser, "", "local")

	u2 := setCellOp(id, pos.NewPos(2, 1), cellvalue.NewText("hello"))
	c.Apply([]Operation{u2}, ClassUser, "", "local")

	peer := Operation{Kind: KindInsertColumn, SheetID: id, At: 1}
	if _, err := c.Rebase([]Operation{peer}, "", "peer"); err != nil {
		t.Fatalf("rebase: %v", err)
	}

	if len(c.Unacked) != 2 {
		t.Fatalf("expected 2 unacked transactions after rebase, got %d", len(c.Unacked))
	}
	if got := c.Unacked[0].Forward[0].At; got != 2 {
		t.Fatalf("U1 should rebase to InsertColumn{2}, got At=%d", got)
	}
	if got := c.Unacked[1].Forward[0].Pos.X; got != 3 {
		t.Fatalf("U2 should rebase to column 3, got X=%d", got)
	}

	if got, _ := c.WB.Grid.Sheet(id).GetCell(pos.NewPos(3, 1)).Text(); got != "hello" {
		t.Fatalf("expected \"hello\" at column 3 after rebase, got %q", got)
	}

	c.Undo() // undoes rebased U2
	c.Undo() // undoes rebased U1
	if bounds, ok := c.WB.Grid.Sheet(id).Bounds(); ok {
		t.Fatalf("expected empty grid (peer-only state) after undoing both, got bounds %v", bounds)
	}
}

func TestRebaseConflictWhenPeerDeletesReferencedSheet(t *testing.T) {
	c := NewController()
	id := firstSheetID(c)

	c.Apply([]Operation{setCellOp(id, pos.NewPos(1, 1), cellvalue.NewText("x"))}, ClassUser, "", "local")

	peer := Operation{Kind: KindDeleteSheet, SheetID: id}
	_, err := c.Rebase([]Operation{peer}, "", "peer")
	if err != ErrRebaseConflict {
		t.Fatalf("expected ErrRebaseConflict, got %v", err)
	}
	if len(c.Unacked) != 0 {
		t.Fatalf("expected dropped local transaction, got %d unacked", len(c.Unacked))
	}
}

func TestAddSheetDeleteSheetReverse(t *testing.T) {
	c := NewController()
	newID := pos.NewSheetId()

	c.Apply([]Operation{{Kind: KindAddSheet, SheetID: newID, Name: "Sheet2"}}, ClassUser, "", "local")
	if c.WB.Grid.Sheet(newID) == nil {
		t.Fatalf("expected sheet to exist after AddSheet")
	}

	c.Undo()
	if c.WB.Grid.Sheet(newID) != nil {
		t.Fatalf("expected sheet removed after undo")
	}

	c.Redo()
	if sheet := c.WB.Grid.Sheet(newID); sheet == nil || sheet.Name != "Sheet2" {
		t.Fatalf("expected sheet restored with its name after redo")
	}
}

func TestDeleteSheetUndoRestoresContent(t *testing.T) {
	c := NewController()
	id := firstSheetID(c)
	c.WB.Grid.Sheet(id).SetCell(pos.NewPos(1, 1), cellvalue.NewText("keep me"))

	c.Apply([]Operation{{Kind: KindDeleteSheet, SheetID: id}}, ClassUser, "", "local")
	if c.WB.Grid.Sheet(id) != nil {
		t.Fatalf("expected sheet deleted")
	}

	c.Undo()
	sheet := c.WB.Grid.Sheet(id)
	if sheet == nil {
		t.Fatalf("expected sheet restored")
	}
	if got, _ := sheet.GetCell(pos.NewPos(1, 1)).Text(); got != "keep me" {
		t.Fatalf("expected restored cell content, got %q", got)
	}
}

func TestDeleteColumnUndoRestoresCellValues(t *testing.T) {
	c := NewController()
	id := firstSheetID(c)
	sheet := c.WB.Grid.Sheet(id)
	sheet.SetCell(pos.NewPos(2, 1), cellvalue.NewText("b1"))
	sheet.SetCell(pos.NewPos(2, 5), cellvalue.NewText("b5"))
	sheet.SetCell(pos.NewPos(3, 1), cellvalue.NewText("c1"))

	c.Apply([]Operation{{Kind: KindDeleteColumn, SheetID: id, At: 2}}, ClassUser, "", "local")
	if got, _ := sheet.GetCell(pos.NewPos(2, 1)).Text(); got != "c1" {
		t.Fatalf("expected column 3 shifted into column 2, got %q", got)
	}

	c.Undo()
	if got, _ := sheet.GetCell(pos.NewPos(2, 1)).Text(); got != "b1" {
		t.Fatalf("expected b1 restored at column 2, got %q", got)
	}
	if got, _ := sheet.GetCell(pos.NewPos(2, 5)).Text(); got != "b5" {
		t.Fatalf("expected b5 restored at column 2 row 5, got %q", got)
	}
	if got, _ := sheet.GetCell(pos.NewPos(3, 1)).Text(); got != "c1" {
		t.Fatalf("expected c1 shifted back to column 3, got %q", got)
	}
}

func TestDeleteColumnUndoRestoresFormatsAndBorders(t *testing.T) {
	c := NewController()
	id := firstSheetID(c)
	sheet := c.WB.Grid.Sheet(id)
	sheet.SetCell(pos.NewPos(2, 1), cellvalue.NewText("b1"))

	f := c.WB.Formats(id)
	f.SetCells(pos.NewRect(2, 1, 2, 1), formatBold(true))
	f.SetColumn(2, format.FormatUpdate{Italic: boolPtr(true)})

	b := c.WB.Borders(id)
	style := borders.BorderStyleTimestamp{Line: borders.Dashed, Timestamp: 1}
	b.SetEdge(pos.NewRect(2, 1, 2, 1), borders.Top, style)
	baseline := borders.BorderStyleTimestamp{Line: borders.Double, Timestamp: 1}
	b.SetBaselineColumn(2, baseline)

	c.Apply([]Operation{{Kind: KindDeleteColumn, SheetID: id, At: 2}}, ClassUser, "", "local")
	if resolved := f.Resolve(pos.NewPos(2, 1)); resolved.Bold != nil && *resolved.Bold {
		t.Fatalf("column 2's bold override should be gone after delete")
	}

	c.Undo()
	resolved := f.Resolve(pos.NewPos(2, 1))
	if resolved.Bold == nil || !*resolved.Bold {
		t.Fatalf("expected cell-level bold restored at column 2 after undo")
	}
	if resolved.Italic == nil || !*resolved.Italic {
		t.Fatalf("expected column-level italic restored at column 2 after undo")
	}
	if got, ok := b.GetEdge(pos.NewPos(2, 1), borders.Top); !ok || got != style {
		t.Fatalf("expected top border restored at (2,1) after undo, got %+v ok=%v", got, ok)
	}
	if got, ok := b.BaselineColumn(2); !ok || got != baseline {
		t.Fatalf("expected column baseline border restored at column 2 after undo, got %+v ok=%v", got, ok)
	}
}

func TestDeleteRowUndoRestoresFormatsAndBorders(t *testing.T) {
	c := NewController()
	id := firstSheetID(c)
	sheet := c.WB.Grid.Sheet(id)
	sheet.SetCell(pos.NewPos(1, 2), cellvalue.NewText("a2"))

	f := c.WB.Formats(id)
	f.SetCells(pos.NewRect(1, 2, 1, 2), formatBold(true))
	f.SetRow(2, format.FormatUpdate{Italic: boolPtr(true)})

	b := c.WB.Borders(id)
	style := borders.BorderStyleTimestamp{Line: borders.Dashed, Timestamp: 1}
	b.SetEdge(pos.NewRect(1, 2, 1, 2), borders.Left, style)
	baseline := borders.BorderStyleTimestamp{Line: borders.Double, Timestamp: 1}
	b.SetBaselineRow(2, baseline)

	c.Apply([]Operation{{Kind: KindDeleteRow, SheetID: id, At: 2}}, ClassUser, "", "local")

	c.Undo()
	resolved := f.Resolve(pos.NewPos(1, 2))
	if resolved.Bold == nil || !*resolved.Bold {
		t.Fatalf("expected cell-level bold restored at row 2 after undo")
	}
	if resolved.Italic == nil || !*resolved.Italic {
		t.Fatalf("expected row-level italic restored at row 2 after undo")
	}
	if got, ok := b.GetEdge(pos.NewPos(1, 2), borders.Left); !ok || got != style {
		t.Fatalf("expected left border restored at (1,2) after undo, got %+v ok=%v", got, ok)
	}
	if got, ok := b.BaselineRow(2); !ok || got != baseline {
		t.Fatalf("expected row baseline border restored at row 2 after undo, got %+v ok=%v", got, ok)
	}
}

func boolPtr(b bool) *bool { return &b }
