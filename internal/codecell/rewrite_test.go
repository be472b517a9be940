package codecell

import (
	"testing"

	"github.com/quadratichq/quadratic-sub012/internal/cellvalue"
	"github.com/quadratichq/quadratic-sub012/internal/pos"
	"github.com/quadratichq/quadratic-sub012/internal/table"
)

func newCtx() (pos.SheetId, *table.A1Context) {
	sheetID := pos.NewSheetId()
	ctx := table.NewA1Context()
	_ = ctx.Sheets.Insert(sheetID, "Sheet1")
	return sheetID, ctx
}

// E2: InsertColumn{column:1} on a sheet whose B1 Python cell reads
// q.cells("A1:A3") rewrites the reference to "B1:B3"; the reverse op
// DeleteColumn{column:1} restores the original source byte-for-byte.
func TestInsertDeleteColumnRoundTrip(t *testing.T) {
	sheetID, ctx := newCtx()
	original := `x = q.cells("A1:A3")`

	inserted := InsertColumn(original, cellvalue.LanguagePython, sheetID, ctx, 1)
	if want := `x = q.cells("B1:B3")`; inserted != want {
		t.Fatalf("after insert: got %q, want %q", inserted, want)
	}

	restored := DeleteColumn(inserted, cellvalue.LanguagePython, sheetID, ctx, 1)
	if restored != original {
		t.Fatalf("after delete: got %q, want byte-equal to original %q", restored, original)
	}
}

func TestMultipleReferencesOnOneLine(t *testing.T) {
	sheetID, ctx := newCtx()
	code := `x = q.cells('A1:B2') + q.cells('C3:D4')`
	got := TranslateReferences(code, cellvalue.LanguagePython, sheetID, ctx, 1, 1)
	want := `x = q.cells('B2:C3') + q.cells('D4:E5')`
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestDifferentQuoteStyles(t *testing.T) {
	sheetID, ctx := newCtx()
	code := "q.cells(\"A1:B2\"); q.cells('C3:D4'); q.cells(`E5:F6`);"
	got := TranslateReferences(code, cellvalue.LanguageJavascript, sheetID, ctx, 1, 1)
	want := "q.cells(\"B2:C3\"); q.cells('D4:E5'); q.cells(`F6:G7`);"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestMismatchedQuotesLeftUnchanged(t *testing.T) {
	sheetID, ctx := newCtx()
	code := `q.cells("A1:B2'); q.cells('C3:D4")`
	got := TranslateReferences(code, cellvalue.LanguagePython, sheetID, ctx, 1, 1)
	if got != code {
		t.Fatalf("got %q, want unchanged %q", got, code)
	}
}

func TestZeroDeltaIsNoop(t *testing.T) {
	sheetID, ctx := newCtx()
	code := `q.cells('A1:B2')`
	if got := TranslateReferences(code, cellvalue.LanguagePython, sheetID, ctx, 0, 0); got != code {
		t.Fatalf("got %q, want unchanged %q", got, code)
	}
}

func TestAbsoluteCoordinatesPreservedOnTranslate(t *testing.T) {
	sheetID, ctx := newCtx()
	code := `q.cells('$A$1:$A$3')`
	got := TranslateReferences(code, cellvalue.LanguagePython, sheetID, ctx, 5, 5)
	want := `q.cells('$A$1:$A$3')`
	if got != want {
		t.Fatalf("got %q, want absolute refs unchanged %q", got, want)
	}
}

func TestOtherLanguagesUnchangedByQCellsRegex(t *testing.T) {
	sheetID, ctx := newCtx()
	sqlCode := "SELECT * FROM t"
	if got := TranslateReferences(sqlCode, cellvalue.LanguageSQL, sheetID, ctx, 1, 1); got != sqlCode {
		t.Fatalf("SQL code cells must be left untouched: got %q", got)
	}
	importCode := "irrelevant"
	if got := TranslateReferences(importCode, cellvalue.LanguageImport, sheetID, ctx, 1, 1); got != importCode {
		t.Fatalf("Import code cells must be left untouched: got %q", got)
	}
}

func TestWhitespaceVariations(t *testing.T) {
	sheetID, ctx := newCtx()
	code := "q.cells  (  'A1:B2'  )"
	got := TranslateReferences(code, cellvalue.LanguagePython, sheetID, ctx, 1, 1)
	want := "q.cells('B2:C3'  )"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestExtraArgumentsPreservedVerbatim(t *testing.T) {
	sheetID, ctx := newCtx()
	code := `q.cells('A1:B2', first_row_header=True)`
	got := TranslateReferences(code, cellvalue.LanguagePython, sheetID, ctx, 1, 1)
	want := `q.cells('B2:C3', first_row_header=True)`
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

// Formula-language code cells go through the AST rewriter: a simple
// arithmetic formula over relative references still re-homes its
// references and round-trips through Parse/Format unchanged otherwise.
func TestFormulaLanguageRewriteViaAst(t *testing.T) {
	sheetID, ctx := newCtx()
	code := "A1+B2*2"
	got := TranslateReferences(code, cellvalue.LanguageFormula, sheetID, ctx, 1, 0)
	want := "B1+C2*2"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestFormulaLanguageInvalidSourceLeftUnchanged(t *testing.T) {
	sheetID, ctx := newCtx()
	code := "not a valid formula((("
	got := TranslateReferences(code, cellvalue.LanguageFormula, sheetID, ctx, 1, 1)
	if got != code {
		t.Fatalf("got %q, want unchanged invalid source %q", got, code)
	}
}

func TestInsertDeleteRowSymmetry(t *testing.T) {
	sheetID, ctx := newCtx()
	original := `q.cells("A1:A3")`
	inserted := InsertRow(original, cellvalue.LanguagePython, sheetID, ctx, 1)
	if want := `q.cells("A2:A4")`; inserted != want {
		t.Fatalf("after insert row: got %q, want %q", inserted, want)
	}
	restored := DeleteRow(inserted, cellvalue.LanguagePython, sheetID, ctx, 1)
	if restored != original {
		t.Fatalf("after delete row: got %q, want byte-equal to original %q", restored, original)
	}
}
