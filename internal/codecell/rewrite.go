// Package codecell rewrites the embedded cell references inside a
// code cell's source when the column/row layout around it changes
// (spec §4.6). Python/JavaScript cells are rewritten with a targeted
// regex over `q.cells(...)` call sites; Formula-language cells are
// rewritten by re-parsing and re-emitting the formula AST.
package codecell

import (
	"fmt"
	"regexp"

	"github.com/quadratichq/quadratic-sub012/internal/a1"
	"github.com/quadratichq/quadratic-sub012/internal/cellvalue"
	"github.com/quadratichq/quadratic-sub012/internal/formula"
	"github.com/quadratichq/quadratic-sub012/internal/pos"
	"github.com/quadratichq/quadratic-sub012/internal/table"
)

// qCellsPattern matches `q.cells(` followed by a quoted string
// argument, capturing the opening quote, the reference text, and the
// closing quote separately since Go's RE2 engine (like the regex
// crate the pattern is grounded on) has no backreferences to require
// them to match within the pattern itself.
var qCellsPattern = regexp.MustCompile("\\bq\\.cells\\s*\\(\\s*(['\"`])([^'\"`]+)(['\"`])")

func isCellsRewritable(language cellvalue.CodeLanguage) bool {
	return language == cellvalue.LanguagePython || language == cellvalue.LanguageJavascript
}

// rewriteQCells replaces the reference argument of every q.cells(...)
// call in code with transform's result. The matched head is re-emitted
// as `q.cells(` plus the quoted reference, dropping any whitespace it
// contained; trailing arguments and surrounding code are left
// untouched. A reference that fails to parse, or whose opening/closing
// quotes differ, is left unchanged.
func rewriteQCells(code string, transform func(a1.CellRefRange) a1.CellRefRange, sheetID pos.SheetId, ctx *table.A1Context) string {
	return qCellsPattern.ReplaceAllStringFunc(code, func(match string) string {
		groups := qCellsPattern.FindStringSubmatch(match)
		startQuote, refText, endQuote := groups[1], groups[2], groups[3]
		if startQuote != endQuote {
			return match
		}
		_, rng, err := a1.ParseRange(refText, sheetID, ctx)
		if err != nil {
			return match
		}
		rewritten := transform(rng)
		return fmt.Sprintf("q.cells(%s%s%s", startQuote, rewritten.String(), startQuote)
	})
}

// rewriteFormulaRefs re-parses code as a formula, applies transform to
// every embedded cell reference, and re-emits the AST as source text.
// If code fails to parse it is returned unchanged — a code cell whose
// formula became invalid through unrelated edits is not this
// function's concern.
func rewriteFormulaRefs(code string, transform func(a1.CellRefRange) a1.CellRefRange, sheetID pos.SheetId, ctx *table.A1Context) string {
	ast, err := formula.Parse(code, sheetID, ctx)
	if err != nil {
		return code
	}
	rewritten := formula.Walk(ast, func(n formula.Ast) formula.Ast {
		n.CellRef = transform(n.CellRef)
		return n
	})
	return formula.Format(rewritten, sheetID, ctx)
}

// rewrite dispatches to the regex or AST rewriter depending on
// language, leaving every other language's code untouched.
func rewrite(code string, language cellvalue.CodeLanguage, sheetID pos.SheetId, ctx *table.A1Context, transform func(a1.CellRefRange) a1.CellRefRange) string {
	switch {
	case language == cellvalue.LanguageFormula:
		return rewriteFormulaRefs(code, transform, sheetID, ctx)
	case isCellsRewritable(language):
		return rewriteQCells(code, transform, sheetID, ctx)
	default:
		return code
	}
}

// TranslateReferences shifts every reference in code by (dx, dy),
// preserving absolute coordinates. Used when a code cell itself moves
// (e.g. a paste re-homed to a new origin) without any rows/columns
// being inserted or deleted elsewhere.
func TranslateReferences(code string, language cellvalue.CodeLanguage, sheetID pos.SheetId, ctx *table.A1Context, dx, dy int64) string {
	if dx == 0 && dy == 0 {
		return code
	}
	return rewrite(code, language, sheetID, ctx, func(rng a1.CellRefRange) a1.CellRefRange {
		return rng.Translate(dx, dy)
	})
}

// InsertColumn/DeleteColumn/InsertRow/DeleteRow rewrite every
// reference in code to account for a column or row inserted/deleted
// elsewhere on sheetID, mirroring grid.Sheet's own shift semantics for
// stored cell coordinates (spec §4.6, E2).
func InsertColumn(code string, language cellvalue.CodeLanguage, sheetID pos.SheetId, ctx *table.A1Context, at int64) string {
	return rewrite(code, language, sheetID, ctx, func(rng a1.CellRefRange) a1.CellRefRange { return rng.InsertColumn(at) })
}

func DeleteColumn(code string, language cellvalue.CodeLanguage, sheetID pos.SheetId, ctx *table.A1Context, at int64) string {
	return rewrite(code, language, sheetID, ctx, func(rng a1.CellRefRange) a1.CellRefRange { return rng.DeleteColumn(at) })
}

func InsertRow(code string, language cellvalue.CodeLanguage, sheetID pos.SheetId, ctx *table.A1Context, at int64) string {
	return rewrite(code, language, sheetID, ctx, func(rng a1.CellRefRange) a1.CellRefRange { return rng.InsertRow(at) })
}

func DeleteRow(code string, language cellvalue.CodeLanguage, sheetID pos.SheetId, ctx *table.A1Context, at int64) string {
	return rewrite(code, language, sheetID, ctx, func(rng a1.CellRefRange) a1.CellRefRange { return rng.DeleteRow(at) })
}
