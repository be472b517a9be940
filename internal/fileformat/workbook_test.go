package fileformat

import (
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/quadratichq/quadratic-sub012/internal/cellvalue"
	"github.com/quadratichq/quadratic-sub012/internal/format"
	"github.com/quadratichq/quadratic-sub012/internal/operation"
	"github.com/quadratichq/quadratic-sub012/internal/pos"
)

func TestToWorkbookBuildsSheetsCellsAndCodeRuns(t *testing.T) {
	g := &GridV1_1{
		Version: CurrentVersion,
		Sheets: []SheetV1_1{
			{
				Name: "Sheet1",
				Cells: map[string]CellV1_1{
					"1,1": {Kind: "number", Value: "5"},
					"1,2": {Kind: "text", Value: "hello"},
				},
				CodeRuns: map[string]CodeRunV1_1{
					"2,1": {Language: "formula", Code: "A1+1"},
				},
			},
		},
	}

	wb, err := ToWorkbook(g)
	if err != nil {
		t.Fatalf("ToWorkbook: %v", err)
	}
	if len(wb.Grid.Sheets()) != 1 {
		t.Fatalf("got %d sheets, want 1", len(wb.Grid.Sheets()))
	}
	sheet := wb.Grid.Sheets()[0]
	if sheet.Name != "Sheet1" {
		t.Fatalf("got sheet name %q, want Sheet1", sheet.Name)
	}

	n, ok := sheet.GetCell(pos.NewPos(1, 1)).Number()
	if !ok || !n.Equal(decimal.NewFromInt(5)) {
		t.Errorf("A1 = %v, ok=%v, want 5", n, ok)
	}
	s, ok := sheet.GetCell(pos.NewPos(1, 2)).Text()
	if !ok || s != "hello" {
		t.Errorf("A2 = %q, ok=%v, want hello", s, ok)
	}

	run, ok := wb.CodeRuns[pos.NewSheetPos(sheet.ID, 2, 1)]
	if !ok || run.Language != cellvalue.LanguageFormula || run.Code != "A1+1" {
		t.Errorf("code run at B1 = %+v, ok=%v", run, ok)
	}
}

func TestFromWorkbookRoundTripsThroughToWorkbook(t *testing.T) {
	c := operation.NewController()
	id := c.WB.Grid.Sheets()[0].ID

	bold := true
	c.Apply([]operation.Operation{
		{Kind: operation.KindSetCellValues, SheetID: id, Pos: pos.NewPos(1, 1),
			Values: [][]cellvalue.CellValue{{cellvalue.NewNumber(decimal.NewFromInt(42))}}},
		{Kind: operation.KindSetCellFormats, SheetID: id, Rect: pos.SinglePos(pos.NewPos(1, 1)),
			Format: format.FormatUpdate{Bold: &bold}},
	}, operation.ClassUser, "", "local")

	g := FromWorkbook(c.WB)
	if len(g.Sheets) != 1 {
		t.Fatalf("got %d sheets, want 1", len(g.Sheets))
	}
	sv := g.Sheets[0]
	cell, ok := sv.Cells["1,1"]
	if !ok || cell.Kind != "number" || cell.Value != "42" {
		t.Fatalf("got cell %+v, ok=%v, want number/42", cell, ok)
	}
	if len(sv.Formats) != 1 || !sv.Formats[0].Bold {
		t.Fatalf("got formats %+v, want one bold run", sv.Formats)
	}

	wb2, err := ToWorkbook(g)
	if err != nil {
		t.Fatalf("ToWorkbook: %v", err)
	}
	sheet2 := wb2.Grid.Sheets()[0]
	n, ok := sheet2.GetCell(pos.NewPos(1, 1)).Number()
	if !ok || !n.Equal(decimal.NewFromInt(42)) {
		t.Errorf("round-tripped A1 = %v, ok=%v, want 42", n, ok)
	}
	update := wb2.Formats(sheet2.ID).Resolve(pos.NewPos(1, 1))
	if update.Bold == nil || !*update.Bold {
		t.Errorf("round-tripped A1 format = %+v, want bold", update)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	wb := operation.NewWorkbook()
	sheet := wb.Grid.Sheets()[0]
	sheet.SetCell(pos.NewPos(3, 3), cellvalue.NewText("saved"))

	path := filepath.Join(t.TempDir(), "grid.json")
	if err := Save(wb, path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	got, ok := loaded.Grid.Sheets()[0].GetCell(pos.NewPos(3, 3)).Text()
	if !ok || got != "saved" {
		t.Fatalf("loaded C3 = %q, ok=%v, want saved", got, ok)
	}
}

func TestToWorkbookRejectsMalformedCellRef(t *testing.T) {
	g := &GridV1_1{
		Version: CurrentVersion,
		Sheets: []SheetV1_1{
			{Name: "Sheet1", Cells: map[string]CellV1_1{"not-a-ref": {Kind: "text", Value: "x"}}},
		},
	}
	if _, err := ToWorkbook(g); err == nil {
		t.Fatal("expected an error for a malformed cell ref")
	}
}
