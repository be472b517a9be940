package table

import (
	"testing"

	"github.com/quadratichq/quadratic-sub012/internal/pos"
)

func TestQuoteSheetNamePlainNameUnquoted(t *testing.T) {
	if got := QuoteSheetName("Sheet1"); got != "Sheet1" {
		t.Errorf("QuoteSheetName(Sheet1) = %q, want unquoted", got)
	}
}

func TestQuoteSheetNameWithSpaceIsQuoted(t *testing.T) {
	if got := QuoteSheetName("Sheet 1"); got != "'Sheet 1'" {
		t.Errorf("QuoteSheetName(Sheet 1) = %q", got)
	}
}

func TestQuoteSheetNameEscapesEmbeddedQuote(t *testing.T) {
	got := QuoteSheetName("Bob's Sheet")
	want := "'Bob''s Sheet'"
	if got != want {
		t.Errorf("QuoteSheetName = %q, want %q", got, want)
	}
}

func TestUnquoteSheetNameRoundTrip(t *testing.T) {
	for _, name := range []string{"Sheet1", "Sheet 1", "Bob's Sheet", "has!bang"} {
		quoted := QuoteSheetName(name)
		if got := UnquoteSheetName(quoted); got != name {
			t.Errorf("round trip %q -> %q -> %q", name, quoted, got)
		}
	}
}

func TestSheetMapCaseInsensitiveLookup(t *testing.T) {
	m := NewSheetMap()
	id := pos.NewSheetId()
	if err := m.Insert(id, "Sheet1"); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	got, ok := m.TrySheetName("SHEET1")
	if !ok || got != id {
		t.Errorf("TrySheetName case-insensitive lookup failed: got %v, ok=%v", got, ok)
	}
}

func TestSheetMapDuplicateNameRejected(t *testing.T) {
	m := NewSheetMap()
	if err := m.Insert(pos.NewSheetId(), "Sheet1"); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if err := m.Insert(pos.NewSheetId(), "sheet1"); err == nil {
		t.Error("expected error inserting a case-insensitive duplicate name")
	}
}

func TestTableMapAddAndLookup(t *testing.T) {
	m := NewTableMap()
	sheetID := pos.NewSheetId()
	dt := DataTable{
		Name:    "test_table",
		SheetID: sheetID,
		Bounds:  pos.NewRect(1, 1, 3, 3),
		Columns: []string{"Col1", "Col2"},
	}
	if err := m.Add(dt); err != nil {
		t.Fatalf("Add: %v", err)
	}
	got, ok := m.TryTable("TEST_TABLE")
	if !ok || got.Name != "test_table" {
		t.Errorf("TryTable case-insensitive lookup failed: %v, ok=%v", got, ok)
	}
}

func TestTableMapOverlappingBoundsRejected(t *testing.T) {
	m := NewTableMap()
	sheetID := pos.NewSheetId()
	if err := m.Add(DataTable{Name: "A", SheetID: sheetID, Bounds: pos.NewRect(1, 1, 3, 3)}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	err := m.Add(DataTable{Name: "B", SheetID: sheetID, Bounds: pos.NewRect(2, 2, 4, 4)})
	if err == nil {
		t.Error("expected error for overlapping table bounds on the same sheet")
	}
}

func TestTableMapOverlapAllowedOnDifferentSheets(t *testing.T) {
	m := NewTableMap()
	if err := m.Add(DataTable{Name: "A", SheetID: pos.NewSheetId(), Bounds: pos.NewRect(1, 1, 3, 3)}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := m.Add(DataTable{Name: "B", SheetID: pos.NewSheetId(), Bounds: pos.NewRect(1, 1, 3, 3)}); err != nil {
		t.Errorf("same-rect tables on different sheets should not conflict: %v", err)
	}
}

func TestTableAtFindsContainingTable(t *testing.T) {
	m := NewTableMap()
	sheetID := pos.NewSheetId()
	dt := DataTable{Name: "test_table", SheetID: sheetID, Bounds: pos.NewRect(1, 1, 3, 3)}
	if err := m.Add(dt); err != nil {
		t.Fatalf("Add: %v", err)
	}
	got, ok := m.TableAt(pos.NewSheetPos(sheetID, 2, 2))
	if !ok || got.Name != "test_table" {
		t.Errorf("TableAt(2,2) = %v, ok=%v", got, ok)
	}
	if _, ok := m.TableAt(pos.NewSheetPos(sheetID, 10, 10)); ok {
		t.Error("TableAt outside bounds should report false")
	}
}

func TestVisibleColumnsExcludesHidden(t *testing.T) {
	dt := DataTable{
		Columns:       []string{"Col1", "Col2", "Col3"},
		HiddenColumns: []string{"Col2"},
	}
	got := dt.VisibleColumns()
	want := []string{"Col1", "Col3"}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("VisibleColumns = %v, want %v", got, want)
	}
}

func TestColumnIndexCaseInsensitive(t *testing.T) {
	dt := DataTable{Columns: []string{"Col1", "Col2"}}
	idx, ok := dt.ColumnIndex("col2")
	if !ok || idx != 1 {
		t.Errorf("ColumnIndex(col2) = %d, ok=%v, want 1", idx, ok)
	}
}
