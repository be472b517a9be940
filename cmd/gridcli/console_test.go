package main

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/quadratichq/quadratic-sub012/internal/operation"
	"github.com/quadratichq/quadratic-sub012/internal/pos"
)

func newTestConsole() *consoleState {
	wb := operation.NewWorkbook()
	st := &consoleState{ctrl: &operation.Controller{WB: wb, Now: time.Now}}
	st.sheet = wb.Grid.Sheets()[0]
	st.cursor.X, st.cursor.Y = 1, 1
	return st
}

func TestEvalAtCursorAdvancesRowAndWritesValue(t *testing.T) {
	st := newTestConsole()
	st.evalAtCursor("=1+1")
	got, ok := st.sheet.GetCell(pos.NewPos(1, 1)).Number()
	if !ok || got.String() != "2" {
		t.Fatalf("A1 = %v, ok=%v, want 2", got, ok)
	}
	if st.cursor.Y != 2 {
		t.Fatalf("cursor.Y = %d, want 2 after eval", st.cursor.Y)
	}
}

func TestHandleCommandGoto(t *testing.T) {
	st := newTestConsole()
	if exit := st.handleCommand(":goto B3"); exit {
		t.Fatal(":goto should not exit the console")
	}
	if st.cursor.X != 2 || st.cursor.Y != 3 {
		t.Fatalf("cursor = (%d,%d), want (2,3)", st.cursor.X, st.cursor.Y)
	}
}

func TestHandleCommandSheetSwitch(t *testing.T) {
	st := newTestConsole()
	st.ctrl.WB.Grid.AddSheet("Second")
	if exit := st.handleCommand(":sheet Second"); exit {
		t.Fatal(":sheet should not exit the console")
	}
	if st.sheet.Name != "Second" {
		t.Fatalf("sheet = %q, want Second", st.sheet.Name)
	}
}

func TestHandleCommandSheetUnknownNameKeepsCurrent(t *testing.T) {
	st := newTestConsole()
	original := st.sheet
	st.handleCommand(":sheet Nope")
	if st.sheet != original {
		t.Fatal("unknown sheet name should not change the current sheet")
	}
}

func TestHandleCommandSave(t *testing.T) {
	st := newTestConsole()
	path := filepath.Join(t.TempDir(), "grid.json")
	if exit := st.handleCommand(":save " + path); exit {
		t.Fatal(":save should not exit the console")
	}
	if st.path != path {
		t.Fatalf("path = %q, want %q", st.path, path)
	}
}

func TestHandleCommandQuit(t *testing.T) {
	st := newTestConsole()
	if exit := st.handleCommand(":quit"); !exit {
		t.Fatal(":quit should exit the console")
	}
}

func TestHandleCommandUnknownDoesNotExit(t *testing.T) {
	st := newTestConsole()
	if exit := st.handleCommand(":bogus"); exit {
		t.Fatal("an unknown command should not exit the console")
	}
}
