package main

import (
	"path/filepath"
	"testing"

	"github.com/quadratichq/quadratic-sub012/internal/cellvalue"
	"github.com/quadratichq/quadratic-sub012/internal/fileformat"
	"github.com/quadratichq/quadratic-sub012/internal/operation"
	"github.com/quadratichq/quadratic-sub012/internal/pos"
)

func TestOpenWorkbookEmptyPathReturnsFreshWorkbook(t *testing.T) {
	wb, err := openWorkbook("")
	if err != nil {
		t.Fatalf("openWorkbook: %v", err)
	}
	if len(wb.Grid.Sheets()) != 1 {
		t.Fatalf("got %d sheets, want 1 default sheet", len(wb.Grid.Sheets()))
	}
}

func TestOpenWorkbookLoadsFile(t *testing.T) {
	wb := operation.NewWorkbook()
	wb.Grid.Sheets()[0].SetCell(pos.NewPos(1, 1), cellvalue.NewText("hi"))
	path := filepath.Join(t.TempDir(), "grid.json")
	if err := fileformat.Save(wb, path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := openWorkbook(path)
	if err != nil {
		t.Fatalf("openWorkbook: %v", err)
	}
	got, ok := loaded.Grid.Sheets()[0].GetCell(pos.NewPos(1, 1)).Text()
	if !ok || got != "hi" {
		t.Fatalf("A1 = %q, ok=%v, want hi", got, ok)
	}
}

func TestOpenWorkbookMissingFileErrors(t *testing.T) {
	if _, err := openWorkbook(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}

func TestResolveSheetDefaultsToFirst(t *testing.T) {
	wb := operation.NewWorkbook()
	sheet, err := resolveSheet(wb, "")
	if err != nil {
		t.Fatalf("resolveSheet: %v", err)
	}
	if sheet.Name != "Sheet1" {
		t.Errorf("got %q, want Sheet1", sheet.Name)
	}
}

func TestResolveSheetByName(t *testing.T) {
	wb := operation.NewWorkbook()
	wb.Grid.AddSheet("Second")
	sheet, err := resolveSheet(wb, "Second")
	if err != nil {
		t.Fatalf("resolveSheet: %v", err)
	}
	if sheet.Name != "Second" {
		t.Errorf("got %q, want Second", sheet.Name)
	}
}

func TestResolveSheetUnknownNameErrors(t *testing.T) {
	wb := operation.NewWorkbook()
	if _, err := resolveSheet(wb, "Nope"); err == nil {
		t.Fatal("expected an error for an unknown sheet name")
	}
}
