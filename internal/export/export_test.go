package export

import (
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/quadratichq/quadratic-sub012/internal/cellvalue"
	"github.com/quadratichq/quadratic-sub012/internal/format"
	"github.com/quadratichq/quadratic-sub012/internal/grid"
	"github.com/quadratichq/quadratic-sub012/internal/operation"
	"github.com/quadratichq/quadratic-sub012/internal/pos"
)

func TestSheetsValueNumber(t *testing.T) {
	v := cellvalue.NewNumber(decimal.NewFromFloat(12.5))
	got := sheetsValue(v)
	f, ok := got.(float64)
	if !ok || f != 12.5 {
		t.Fatalf("sheetsValue(number) = %v (%T), want 12.5", got, got)
	}
}

func TestSheetsValueText(t *testing.T) {
	v := cellvalue.NewText("hello")
	if got := sheetsValue(v); got != "hello" {
		t.Fatalf("sheetsValue(text) = %v, want hello", got)
	}
}

func TestSheetsValueLogical(t *testing.T) {
	v := cellvalue.NewLogical(true)
	got := sheetsValue(v)
	b, ok := got.(bool)
	if !ok || !b {
		t.Fatalf("sheetsValue(logical) = %v (%T), want true", got, got)
	}
}

func TestSheetsValueBlank(t *testing.T) {
	if got := sheetsValue(cellvalue.Blank); got != nil {
		t.Fatalf("sheetsValue(blank) = %v, want nil", got)
	}
}

func TestBuildValuesReadsGridCellsInRowMajorOrder(t *testing.T) {
	id := pos.NewSheetId()
	s := grid.NewSheet(id, "Sheet1")
	s.SetCell(pos.NewPos(1, 1), cellvalue.NewText("A1"))
	s.SetCell(pos.NewPos(2, 1), cellvalue.NewNumber(decimal.NewFromInt(42)))
	s.SetCell(pos.NewPos(1, 2), cellvalue.NewText("A2"))

	rect, ok := s.Bounds()
	if !ok {
		t.Fatal("expected non-empty bounds")
	}

	values := buildValues(s, rect)
	if len(values) != 2 || len(values[0]) != 2 {
		t.Fatalf("unexpected shape: %v", values)
	}
	if values[0][0] != "A1" {
		t.Errorf("values[0][0] = %v, want A1", values[0][0])
	}
	if f, ok := values[0][1].(float64); !ok || f != 42 {
		t.Errorf("values[0][1] = %v, want 42", values[0][1])
	}
	if values[1][0] != "A2" {
		t.Errorf("values[1][0] = %v, want A2", values[1][0])
	}
	if values[1][1] != nil {
		t.Errorf("values[1][1] = %v, want nil (blank)", values[1][1])
	}
}

func TestCellFormatMapsBoldAndAlignment(t *testing.T) {
	bold := true
	align := format.AlignCenter
	cf := cellFormat(format.FormatUpdate{Bold: &bold, Align: &align})

	if cf.TextFormat == nil || !cf.TextFormat.Bold {
		t.Fatalf("expected bold text format, got %+v", cf.TextFormat)
	}
	if cf.HorizontalAlignment != "CENTER" {
		t.Errorf("HorizontalAlignment = %q, want CENTER", cf.HorizontalAlignment)
	}
}

func TestNumberFormatPercentagePattern(t *testing.T) {
	decimals := int32(1)
	u := format.FormatUpdate{
		NumericFormat:   &format.NumericFormat{Kind: format.NumericFormatPercentage},
		NumericDecimals: &decimals,
	}
	nf := numberFormat(u)
	if nf == nil || nf.Type != "PERCENT" {
		t.Fatalf("numberFormat = %+v, want PERCENT", nf)
	}
	if nf.Pattern != "0.0%" {
		t.Errorf("Pattern = %q, want 0.0%%", nf.Pattern)
	}
}

func TestHexColorParsesRRGGBB(t *testing.T) {
	c := hexColor("#ff8000")
	if c.Red != 1.0 {
		t.Errorf("Red = %v, want 1.0", c.Red)
	}
	if c.Green < 0.501 || c.Green > 0.502 {
		t.Errorf("Green = %v, want ~0.502", c.Green)
	}
	if c.Blue != 0 {
		t.Errorf("Blue = %v, want 0", c.Blue)
	}
}

func TestHexColorMalformedYieldsZeroColor(t *testing.T) {
	c := hexColor("not-a-color")
	if c.Red != 0 || c.Green != 0 || c.Blue != 0 {
		t.Errorf("expected zero color for malformed input, got %+v", c)
	}
}

func TestDumpXLSXWritesValuesAndBoldStyle(t *testing.T) {
	c := operation.NewController()
	id := c.WB.Grid.Sheets()[0].ID

	bold := true
	c.Apply([]operation.Operation{
		{Kind: operation.KindSetCellValues, SheetID: id, Pos: pos.NewPos(1, 1),
			Values: [][]cellvalue.CellValue{{cellvalue.NewText("Revenue")}}},
		{Kind: operation.KindSetCellValues, SheetID: id, Pos: pos.NewPos(2, 1),
			Values: [][]cellvalue.CellValue{{cellvalue.NewNumber(decimal.NewFromInt(100))}}},
		{Kind: operation.KindSetCellFormats, SheetID: id, Rect: pos.SinglePos(pos.NewPos(1, 1)),
			Format: format.FormatUpdate{Bold: &bold}},
	}, operation.ClassUser, "", "local")

	path := filepath.Join(t.TempDir(), "dump.xlsx")
	if err := DumpXLSX(c.WB, path); err != nil {
		t.Fatalf("DumpXLSX: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	defer f.Close()

	sheetName := c.WB.Grid.Sheets()[0].Name
	got, err := f.GetCellValue(sheetName, "A1")
	if err != nil {
		t.Fatalf("GetCellValue A1: %v", err)
	}
	if got != "Revenue" {
		t.Errorf("A1 = %q, want Revenue", got)
	}

	got, err = f.GetCellValue(sheetName, "B1")
	if err != nil {
		t.Fatalf("GetCellValue B1: %v", err)
	}
	if got != "100" {
		t.Errorf("B1 = %q, want 100", got)
	}

	styleID, err := f.GetCellStyle(sheetName, "A1")
	if err != nil {
		t.Fatalf("GetCellStyle: %v", err)
	}
	style, err := f.GetStyle(styleID)
	if err != nil {
		t.Fatalf("GetStyle: %v", err)
	}
	if style.Font == nil || !style.Font.Bold {
		t.Errorf("expected A1 to be bold, got style %+v", style)
	}
}
