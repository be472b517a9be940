package clipboard

import (
	"reflect"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/quadratichq/quadratic-sub012/internal/borders"
	"github.com/quadratichq/quadratic-sub012/internal/cellvalue"
	"github.com/quadratichq/quadratic-sub012/internal/codecell"
	"github.com/quadratichq/quadratic-sub012/internal/operation"
	"github.com/quadratichq/quadratic-sub012/internal/pos"
)

// PasteHTMLOperations recovers cb from src (paste_html_operations,
// spec §4.10) and builds the operation sequence that reproduces it at
// origin: one SetCellValues covering the whole rect, one ComputeCode
// per code cell, run-length SetCellFormats, per-cell SetBorders, and
// the cursor string a caller passes as Controller.Apply's cursor
// argument to stand in for the spec's terminating SetCursor.
func PasteHTMLOperations(wb *operation.Workbook, sheetID pos.SheetId, origin pos.Pos, src string) ([]operation.Operation, string, error) {
	cb, err := DecodeHTML(src)
	if err != nil {
		return nil, "", err
	}
	return pasteOperations(wb, sheetID, origin, cb), cursorString(origin, cb), nil
}

func pasteOperations(wb *operation.Workbook, sheetID pos.SheetId, origin pos.Pos, cb Clipboard) []operation.Operation {
	var ops []operation.Operation

	values := make([][]cellvalue.CellValue, cb.H)
	var codeOps []operation.Operation
	for dy := int64(0); dy < cb.H; dy++ {
		row := make([]cellvalue.CellValue, cb.W)
		for dx := int64(0); dx < cb.W; dx++ {
			cell := cb.Cells[dy*cb.W+dx]
			if code, ok := cell.Code(); ok {
				p := pos.NewPos(origin.X+dx, origin.Y+dy)
				shifted := code
				shifted.Code = codecell.TranslateReferences(code.Code, code.Language, sheetID, wb.Ctx, origin.X, origin.Y)
				codeOps = append(codeOps, operation.Operation{Kind: operation.KindComputeCode, SheetID: sheetID, Pos: p, Code: shifted})
				continue
			}
			row[dx] = cell
		}
		values[dy] = row
	}
	ops = append(ops, operation.Operation{Kind: operation.KindSetCellValues, SheetID: sheetID, Pos: origin, Values: values})
	ops = append(ops, codeOps...)
	ops = append(ops, formatRunOperations(sheetID, origin, cb)...)
	ops = append(ops, borderOperations(sheetID, origin, cb)...)
	return ops
}

// formatRunOperations merges horizontally-contiguous cells sharing an
// identical resolved format into one SetCellFormats op per row-run,
// skipping default (unformatted) runs — the "SetCellFormats runs" the
// spec's paste_html_operations emits.
func formatRunOperations(sheetID pos.SheetId, origin pos.Pos, cb Clipboard) []operation.Operation {
	var ops []operation.Operation
	for dy := int64(0); dy < cb.H; dy++ {
		var runStart int64 = -1
		flush := func(end int64) {
			if runStart < 0 {
				return
			}
			rect := pos.NewRect(origin.X+runStart, origin.Y+dy, origin.X+end-1, origin.Y+dy)
			ops = append(ops, operation.Operation{
				Kind: operation.KindSetCellFormats, SheetID: sheetID, Rect: rect,
				Format: cb.Formats[dy*cb.W+runStart],
			})
			runStart = -1
		}
		for dx := int64(0); dx < cb.W; dx++ {
			f := cb.Formats[dy*cb.W+dx]
			if f.IsDefault() {
				flush(dx)
				continue
			}
			if runStart < 0 {
				runStart = dx
			} else if !reflect.DeepEqual(f, cb.Formats[dy*cb.W+runStart]) {
				flush(dx)
				runStart = dx
			}
		}
		flush(cb.W)
	}
	return ops
}

// borderOperations emits one SetBorders op per edge present on each
// sparse BorderCell entry — unlike formats, border overrides already
// arrive as a sparse per-cell list from Copy, so there's no dense run
// to merge.
func borderOperations(sheetID pos.SheetId, origin pos.Pos, cb Clipboard) []operation.Operation {
	var ops []operation.Operation
	for _, bc := range cb.Borders {
		rect := pos.SinglePos(pos.NewPos(origin.X+bc.DX, origin.Y+bc.DY))
		for _, pair := range []struct {
			edge  borders.Edge
			style *borders.BorderStyleTimestamp
		}{
			{borders.Top, bc.Style.Top},
			{borders.Bottom, bc.Style.Bottom},
			{borders.Left, bc.Style.Left},
			{borders.Right, bc.Style.Right},
		} {
			if pair.style == nil {
				continue
			}
			ops = append(ops, operation.Operation{
				Kind: operation.KindSetBorders, SheetID: sheetID, Rect: rect,
				Edges: []borders.Edge{pair.edge}, Border: *pair.style,
			})
		}
	}
	return ops
}

func cursorString(origin pos.Pos, cb Clipboard) string {
	if cb.W <= 1 && cb.H <= 1 {
		return origin.A1String()
	}
	end := pos.NewPos(origin.X+cb.W-1, origin.Y+cb.H-1)
	return origin.A1String() + ":" + end.A1String()
}

// PastePlainTextOperations implements paste_plain_text_operations: no
// structured payload available, so values are parsed from delimited
// text (sniffing tab over comma, since tab is what spreadsheets
// themselves emit and is never itself a quoted value), falling back to
// one column when nothing splits. Every token that parses as a decimal
// becomes a Number cell; everything else becomes Text, matching how a
// user would expect typing the same literal into a cell to behave.
func PastePlainTextOperations(sheetID pos.SheetId, origin pos.Pos, text string) []operation.Operation {
	text = strings.TrimRight(text, "\n")
	if text == "" {
		return nil
	}
	lines := strings.Split(text, "\n")
	delim := sniffDelimiter(lines)

	values := make([][]cellvalue.CellValue, len(lines))
	for y, line := range lines {
		line = strings.TrimSuffix(line, "\r")
		tokens := strings.Split(line, delim)
		row := make([]cellvalue.CellValue, len(tokens))
		for x, token := range tokens {
			row[x] = parsePlainTextToken(token)
		}
		values[y] = row
	}
	return []operation.Operation{{Kind: operation.KindSetCellValues, SheetID: sheetID, Pos: origin, Values: values}}
}

func sniffDelimiter(lines []string) string {
	tabs, commas := 0, 0
	for _, line := range lines {
		tabs += strings.Count(line, "\t")
		commas += strings.Count(line, ",")
	}
	if tabs > 0 {
		return "\t"
	}
	if commas > 0 {
		return ","
	}
	return "\t"
}

func parsePlainTextToken(token string) cellvalue.CellValue {
	if token == "" {
		return cellvalue.Blank
	}
	if d, err := decimal.NewFromString(token); err == nil {
		return cellvalue.NewNumber(d)
	}
	return cellvalue.NewText(token)
}
