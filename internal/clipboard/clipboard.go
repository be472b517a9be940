// Package clipboard implements structured copy/paste (spec §4.10): a
// Clipboard payload carrying values, resolved formats, and per-cell
// border overrides relative to its own top-left corner, an HTML
// carrier for that payload, and the operations pasting it produces.
package clipboard

import (
	"github.com/quadratichq/quadratic-sub012/internal/borders"
	"github.com/quadratichq/quadratic-sub012/internal/cellvalue"
	"github.com/quadratichq/quadratic-sub012/internal/codecell"
	"github.com/quadratichq/quadratic-sub012/internal/format"
	"github.com/quadratichq/quadratic-sub012/internal/operation"
	"github.com/quadratichq/quadratic-sub012/internal/pos"
)

// Clipboard is the structured payload copy_to_clipboard produces:
// row-major Cells/Formats sized W*H, plus a sparse list of per-cell
// border overrides keyed by offset from the top-left corner. A code
// cell's Cells entry holds its source via cellvalue.NewCode, not its
// computed result — the opposite of how a live Workbook stores it —
// since a pasted code cell must re-evaluate at its new home rather
// than carry over a stale result.
type Clipboard struct {
	W, H    int64
	Cells   []cellvalue.CellValue
	Formats []format.FormatUpdate
	Borders []BorderCell
}

// BorderCell is one cell's border overrides, relative to the
// clipboard's top-left corner.
type BorderCell struct {
	DX, DY int64
	Style  BorderStyleCell
}

// BorderStyleCell holds each edge style that resolves to something at
// a cell, nil where that edge has no border.
type BorderStyleCell struct {
	Top, Bottom, Left, Right *borders.BorderStyleTimestamp
}

func (c BorderStyleCell) isEmpty() bool {
	return c.Top == nil && c.Bottom == nil && c.Left == nil && c.Right == nil
}

// Copy builds a Clipboard from rect on sheetID (copy_to_clipboard,
// spec §4.10).
func Copy(wb *operation.Workbook, sheetID pos.SheetId, rect pos.Rect) Clipboard {
	w, h := rect.Width(), rect.Height()
	cb := Clipboard{
		W:       w,
		H:       h,
		Cells:   make([]cellvalue.CellValue, w*h),
		Formats: make([]format.FormatUpdate, w*h),
	}

	sheet := wb.Grid.Sheet(sheetID)
	formats := wb.Formats(sheetID)
	edges := wb.Borders(sheetID)

	for y := rect.Min.Y; y <= rect.Max.Y; y++ {
		for x := rect.Min.X; x <= rect.Max.X; x++ {
			dx, dy := x-rect.Min.X, y-rect.Min.Y
			idx := dy*w + dx
			p := pos.NewPos(x, y)

			if code, ok := wb.CodeRuns[pos.NewSheetPos(sheetID, x, y)]; ok {
				// Relativize the code's references to the clipboard's
				// own (0,0) corner now, so paste only has to translate
				// by the paste origin, regardless of where the copy
				// was taken from.
				shifted := code
				shifted.Code = codecell.TranslateReferences(code.Code, code.Language, sheetID, wb.Ctx, -x, -y)
				cb.Cells[idx] = cellvalue.NewCode(shifted)
			} else if sheet != nil {
				cb.Cells[idx] = sheet.GetCell(p)
			}
			cb.Formats[idx] = formats.Resolve(p)

			if style := resolveBorderCell(edges, p); !style.isEmpty() {
				cb.Borders = append(cb.Borders, BorderCell{DX: dx, DY: dy, Style: style})
			}
		}
	}

	return cb
}

func resolveBorderCell(edges *borders.SheetBorders, p pos.Pos) BorderStyleCell {
	var style BorderStyleCell
	if s, ok := edges.GetEdge(p, borders.Top); ok {
		style.Top = &s
	}
	if s, ok := edges.GetEdge(p, borders.Bottom); ok {
		style.Bottom = &s
	}
	if s, ok := edges.GetEdge(p, borders.Left); ok {
		style.Left = &s
	}
	if s, ok := edges.GetEdge(p, borders.Right); ok {
		style.Right = &s
	}
	return style
}
